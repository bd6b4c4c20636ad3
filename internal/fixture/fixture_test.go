package fixture_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/MrJamesThe3rd/vignettes/internal/fixture"
	"github.com/MrJamesThe3rd/vignettes/internal/vignette"
)

var fixedNow = time.Date(2024, time.June, 1, 10, 30, 0, 0, time.UTC)

func newDemo() *fixture.Gateway {
	return fixture.NewDemo(fixture.WithClock(func() time.Time { return fixedNow }))
}

func TestLookupAsset(t *testing.T) {
	g := newDemo()

	tests := []struct {
		name      string
		plate     string
		wantFound bool
		wantQuote string
	}{
		{name: "utility vehicle", plate: "AB123CD", wantFound: true, wantQuote: "55"},
		{name: "normalizes input", plate: " kl012mn ", wantFound: true, wantQuote: "15"},
		{name: "no tariff for category", plate: "MN345OP", wantFound: true},
		{name: "unknown plate", plate: "ZZ999ZZ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := g.LookupAsset(context.Background(), tt.plate)
			require.NoError(t, err)

			if !tt.wantFound {
				assert.Nil(t, res.Asset)
				assert.Nil(t, res.Owner)

				return
			}

			require.NotNil(t, res.Asset)
			require.NotNil(t, res.Owner)
			assert.Equal(t, res.Asset.OwnerID, res.Owner.ID)

			if tt.wantQuote == "" {
				assert.Nil(t, res.Quote)
			} else {
				require.NotNil(t, res.Quote)
				assert.Equal(t, tt.wantQuote, res.Quote.Amount.String())
				assert.Equal(t, "USD", res.Quote.Currency)
			}
		})
	}
}

func TestLookupAsset_ReturnsCopies(t *testing.T) {
	g := newDemo()

	res, err := g.LookupAsset(context.Background(), "AB123CD")
	require.NoError(t, err)

	res.Asset.Make = "changed"

	again, err := g.LookupAsset(context.Background(), "AB123CD")
	require.NoError(t, err)
	assert.Equal(t, "Toyota", again.Asset.Make)
}

func TestLookupTransaction(t *testing.T) {
	g := newDemo()

	res, err := g.LookupTransaction(context.Background(), "AB123CD", "vgn-2024-001234")
	require.NoError(t, err)
	require.NotNil(t, res.Transaction)
	assert.Equal(t, res.Asset.ID, res.Transaction.AssetID)
	assert.Equal(t, vignette.TxPaid, res.Transaction.Status)

	delivered, err := g.LookupTransaction(context.Background(), "CD456EF", "VGN-2024-001235")
	require.NoError(t, err)
	require.NotNil(t, delivered.Vignette)
	assert.Equal(t, vignette.StatusDelivered, delivered.Vignette.Status)
	assert.Equal(t, "VGN-2024-001235", delivered.Vignette.Reference)

	missing, err := g.LookupTransaction(context.Background(), "AB123CD", "VGN-2024-999999")
	require.NoError(t, err)
	assert.Nil(t, missing.Transaction)
	assert.NotNil(t, missing.Asset)
}

func TestRecordPayment(t *testing.T) {
	g := newDemo()
	ctx := context.Background()

	asset, err := g.LookupAsset(ctx, "KL012MN")
	require.NoError(t, err)

	receipt, err := g.RecordPayment(ctx, vignette.PaymentRequest{
		OwnerID:  asset.Owner.ID,
		AssetID:  asset.Asset.ID,
		Amount:   decimal.NewFromInt(15),
		Currency: "USD",
		Method:   vignette.MethodCash,
	})
	require.NoError(t, err)
	assert.Regexp(t, `^VGN-2024-\d{6}$`, receipt.Reference)
	assert.Equal(t, vignette.TxPaid, receipt.Status)

	res, err := g.LookupTransaction(ctx, "KL012MN", receipt.Reference)
	require.NoError(t, err)
	require.NotNil(t, res.Transaction)
	assert.True(t, res.Transaction.Amount.Equal(decimal.NewFromInt(15)))
	assert.Equal(t, fixedNow, res.Transaction.CreatedAt)
}

func TestRecordPayment_Errors(t *testing.T) {
	g := newDemo()
	ctx := context.Background()

	_, err := g.RecordPayment(ctx, vignette.PaymentRequest{AssetID: "nope"})
	assert.Equal(t, vignette.KindNotFound, vignette.KindOf(err))

	_, err = g.RecordPayment(ctx, vignette.PaymentRequest{AssetID: "eng-002"})
	assert.Equal(t, vignette.KindAlreadyProcessed, vignette.KindOf(err))

	_, err = g.RecordPayment(ctx, vignette.PaymentRequest{AssetID: "eng-004", Reference: "VGN-2024-001234"})
	assert.Equal(t, vignette.KindMismatch, vignette.KindOf(err))
}

func TestFinalizeDelivery(t *testing.T) {
	g := newDemo()
	ctx := context.Background()

	receipt, err := g.FinalizeDelivery(ctx, vignette.DeliveryRequest{Reference: "VGN-2024-001234", AssetID: "eng-001"})
	require.NoError(t, err)
	assert.Equal(t, fixedNow, receipt.DeliveredAt)

	res, err := g.LookupAsset(ctx, "AB123CD")
	require.NoError(t, err)
	assert.True(t, res.Asset.Delivered())

	_, err = g.FinalizeDelivery(ctx, vignette.DeliveryRequest{Reference: "VGN-2024-001234"})
	assert.Equal(t, vignette.KindAlreadyProcessed, vignette.KindOf(err))
}

func TestFinalizeDelivery_Errors(t *testing.T) {
	g := newDemo()
	ctx := context.Background()

	_, err := g.FinalizeDelivery(ctx, vignette.DeliveryRequest{Reference: "VGN-0000-000000"})
	assert.Equal(t, vignette.KindNotFound, vignette.KindOf(err))

	_, err = g.FinalizeDelivery(ctx, vignette.DeliveryRequest{Reference: "VGN-2024-001236"})
	assert.Equal(t, vignette.KindValidation, vignette.KindOf(err))

	_, err = g.FinalizeDelivery(ctx, vignette.DeliveryRequest{Reference: "VGN-2024-001234", AssetID: "eng-004"})
	assert.Equal(t, vignette.KindMismatch, vignette.KindOf(err))
}

func TestLatency_HonorsContext(t *testing.T) {
	g := fixture.NewDemo(fixture.WithLatency(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.LookupAsset(ctx, "AB123CD")
	assert.ErrorIs(t, err, context.Canceled)
}

const engins = "Plaque;Propriétaire;Marque;Modèle;Catégorie;Châssis;Moteur;Téléphone;NIF;Site;Date immatriculation;Référence;Montant\n" +
	"ab 77 xy;Grace Lufuluabo;Toyota;Corolla;Véhicule particulier;JT123;1ZZ-1;0971112233;A01;Gombe;12/02/2024;VGN-2024-000777;40,00\n" +
	";;;;;;;;;;;;\n" +
	"QR555ST;Paul Kabila;Isuzu;NPR;Poids lourd;JA999;4HK1;0893334455;A02;Limete;2023-09-01;;\n"

func TestLoadCSV(t *testing.T) {
	records, err := fixture.LoadCSV(strings.NewReader(engins))
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "AB 77 XY", first.Asset.Plate)
	assert.Equal(t, "Grace Lufuluabo", first.Owner.FullName)
	assert.Equal(t, "Gombe", first.Asset.Registration.Site)
	assert.Equal(t, time.Date(2024, time.February, 12, 0, 0, 0, 0, time.UTC), first.Asset.Registration.Date)
	require.NotNil(t, first.Transaction)
	assert.Equal(t, "VGN-2024-000777", first.Transaction.Reference)
	assert.True(t, first.Transaction.Amount.Equal(decimal.NewFromInt(40)))

	second := records[1]
	assert.Nil(t, second.Transaction)
	assert.Equal(t, fixture.CategoryHeavy, second.Asset.Category)
	assert.Equal(t, 2023, second.Asset.Registration.Date.Year())
}

func TestLoadCSV_Windows1252(t *testing.T) {
	raw, err := charmap.Windows1252.NewEncoder().Bytes([]byte(
		"N° plaque;Nom assujetti;Marque;Genre\nEF321GH;Thérèse Mwamba;Peugeot;Véhicule particulier\n",
	))
	require.NoError(t, err)

	records, err := fixture.LoadCSV(strings.NewReader(string(raw)))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Thérèse Mwamba", records[0].Owner.FullName)
	assert.Equal(t, fixture.CategoryPrivate, records[0].Asset.Category)
}

func TestLoadCSV_Errors(t *testing.T) {
	_, err := fixture.LoadCSV(strings.NewReader("a;b;c\n1;2;3\n"))
	assert.ErrorContains(t, err, "no matching export format")

	_, err = fixture.LoadCSV(strings.NewReader("Plaque;Propriétaire\nAB123CD;\n"))
	assert.ErrorContains(t, err, "row 2: missing owner")

	_, err = fixture.LoadCSV(strings.NewReader("Plaque;Propriétaire;Référence;Montant\nAB123CD;X;VGN-1;abc\n"))
	assert.ErrorContains(t, err, "row 2: invalid amount")

	_, err = fixture.LoadCSV(strings.NewReader("Export du 01/06/2024\nPlaque;Propriétaire\nKL012MN;Paul Kabila\nAB123CD;\n"))
	assert.ErrorContains(t, err, "row 4: missing owner", "rows are numbered as file lines after a preamble")
}

func TestLoadCSV_SeedsGateway(t *testing.T) {
	records, err := fixture.LoadCSV(strings.NewReader(engins))
	require.NoError(t, err)

	g := fixture.New(records)

	res, err := g.LookupTransaction(context.Background(), "AB 77 XY", "VGN-2024-000777")
	require.NoError(t, err)
	require.NotNil(t, res.Asset)
	require.NotNil(t, res.Transaction)
	assert.Equal(t, res.Asset.ID, res.Transaction.AssetID)
	assert.NotEmpty(t, res.Owner.ID)
}
