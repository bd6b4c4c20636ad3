package fixture

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/vignettes/internal/vignette"
)

// Asset categories known to the default price list.
const (
	CategoryPrivate    = "Véhicule particulier"
	CategoryUtility    = "Véhicule utilitaire"
	CategoryHeavy      = "Poids lourd"
	CategoryMotorcycle = "Moto"
)

// DefaultPrices is the vignette tariff per category, in USD.
func DefaultPrices() map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		CategoryPrivate:    decimal.NewFromInt(40),
		CategoryUtility:    decimal.NewFromInt(55),
		CategoryHeavy:      decimal.NewFromInt(120),
		CategoryMotorcycle: decimal.NewFromInt(15),
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Demo returns the demo dataset:
//   - AB123CD: paid transaction VGN-2024-001234, vignette pending delivery.
//   - CD456EF: vignette delivered on 15/03/2024 (reference VGN-2024-001235).
//   - GH789IJ: transaction VGN-2024-001236 still pending payment.
//   - KL012MN: registered, nothing paid yet.
//   - MN345OP: category without a tariff, so no price quote.
func Demo() []Record {
	delivered := time.Date(2024, time.March, 15, 9, 42, 0, 0, time.UTC)

	return []Record{
		{
			Owner: vignette.Owner{ID: "own-001", FullName: "Jean Mukendi", Phone: "0812345678", Address: "12 av. Kasa-Vubu, Kinshasa", TaxID: "A0912345K"},
			Asset: vignette.Asset{
				ID: "eng-001", Plate: "AB123CD", Make: "Toyota", Model: "Hilux", Category: CategoryUtility,
				ChassisNumber: "JTFST22P600123456", EngineNumber: "2KD-7654321",
				Registration: vignette.Registration{Site: "Gombe", Date: day(2023, time.November, 2), Agent: "agent-07"},
			},
			Transaction: &vignette.Transaction{
				Reference: "VGN-2024-001234", Amount: decimal.NewFromInt(55), Currency: "USD",
				Method: vignette.MethodMobileMoney, Operator: vignette.OperatorVodacom, Phone: "0812345678",
				ConfirmationCode: "MP240110.1522.A12345", Status: vignette.TxPaid, CreatedAt: day(2024, time.January, 10),
			},
		},
		{
			Owner: vignette.Owner{ID: "own-002", FullName: "Marie Ilunga", Phone: "0991234567", Address: "4 av. de la Justice, Kinshasa", TaxID: "A0954321M"},
			Asset: vignette.Asset{
				ID: "eng-002", Plate: "CD456EF", Make: "Mercedes-Benz", Model: "Sprinter", Category: CategoryUtility,
				ChassisNumber: "WDB9066331S765432", EngineNumber: "OM651-112233",
				Registration:   vignette.Registration{Site: "Limete", Date: day(2022, time.June, 21), Agent: "agent-03"},
				VignetteStatus: vignette.StatusDelivered, DeliveredAt: &delivered,
			},
			Transaction: &vignette.Transaction{
				Reference: "VGN-2024-001235", Amount: decimal.NewFromInt(55), Currency: "USD",
				Method: vignette.MethodCash, Status: vignette.TxPaid, CreatedAt: day(2024, time.March, 14),
			},
		},
		{
			Owner: vignette.Owner{ID: "own-003", FullName: "Patrick Mbuyi", Phone: "0851112233", Address: "88 bd du 30 Juin, Kinshasa", TaxID: "A0977777P"},
			Asset: vignette.Asset{
				ID: "eng-003", Plate: "GH789IJ", Make: "Nissan", Model: "Patrol", Category: CategoryPrivate,
				ChassisNumber: "JN1TESY61U0111222", EngineNumber: "TB48-998877",
				Registration: vignette.Registration{Site: "Gombe", Date: day(2024, time.February, 1), Agent: "agent-07"},
			},
			Transaction: &vignette.Transaction{
				Reference: "VGN-2024-001236", Amount: decimal.NewFromInt(40), Currency: "USD",
				Method: vignette.MethodCard, MaskedCard: "**** **** **** 4242", Status: vignette.TxPending, CreatedAt: day(2024, time.April, 2),
			},
		},
		{
			Owner: vignette.Owner{ID: "own-001", FullName: "Jean Mukendi", Phone: "0812345678", Address: "12 av. Kasa-Vubu, Kinshasa", TaxID: "A0912345K"},
			Asset: vignette.Asset{
				ID: "eng-004", Plate: "KL012MN", Make: "Honda", Model: "XR150", Category: CategoryMotorcycle,
				ChassisNumber: "ME4KD0910K8001122", EngineNumber: "KD09E-5566",
				Registration: vignette.Registration{Site: "Ngaliema", Date: day(2024, time.May, 5), Agent: "agent-11"},
			},
		},
		{
			Owner: vignette.Owner{ID: "own-004", FullName: "Aline Kasongo", Phone: "0901234567", Address: "3 rue Lukusa, Lubumbashi", TaxID: "A0933333A"},
			Asset: vignette.Asset{
				ID: "eng-005", Plate: "MN345OP", Make: "Caterpillar", Model: "320D", Category: "Engin de chantier",
				ChassisNumber: "CAT0320DJFAL00123", EngineNumber: "C6.4-445566",
				Registration: vignette.Registration{Site: "Lubumbashi", Date: day(2021, time.August, 30), Agent: "agent-21"},
			},
		},
	}
}

// NewDemo is a Gateway loaded with Demo().
func NewDemo(opts ...Option) *Gateway {
	return New(Demo(), opts...)
}
