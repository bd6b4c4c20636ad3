package fixture

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	enc "github.com/MrJamesThe3rd/vignettes/internal/encoding"
	"github.com/MrJamesThe3rd/vignettes/internal/vignette"
)

// profile describes the column layout of a backend plate export.
// Only PlateCol and OwnerCol are required; other columns are read when present.
type profile struct {
	Name      string
	PlateCol  string
	OwnerCol  string
	Make      string
	Model     string
	Category  string
	Chassis   string
	Engine    string
	Phone     string
	Address   string
	TaxID     string
	Site      string
	RegDate   string
	Reference string
	Amount    string
}

// profiles is tried in order during header detection.
var profiles = []profile{
	{
		Name:      "engins",
		PlateCol:  "Plaque",
		OwnerCol:  "Propriétaire",
		Make:      "Marque",
		Model:     "Modèle",
		Category:  "Catégorie",
		Chassis:   "Châssis",
		Engine:    "Moteur",
		Phone:     "Téléphone",
		Address:   "Adresse",
		TaxID:     "NIF",
		Site:      "Site",
		RegDate:   "Date immatriculation",
		Reference: "Référence",
		Amount:    "Montant",
	},
	{
		Name:     "immatriculations",
		PlateCol: "N° plaque",
		OwnerCol: "Nom assujetti",
		Make:     "Marque",
		Model:    "Type",
		Category: "Genre",
		Chassis:  "N° châssis",
		Engine:   "N° moteur",
		Phone:    "Tél",
		TaxID:    "NIF",
		Site:     "Bureau",
		RegDate:  "Date",
	},
}

// LoadCSV reads a ';'-separated plate export (UTF-8 or a legacy single-byte
// encoding) into records. Rows with a reference get a paid cash transaction.
func LoadCSV(r io.Reader) ([]Record, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	p, cols, headerIdx := detectProfile(rows)
	if p == nil {
		return nil, fmt.Errorf("no matching export format found: expected Plaque/Propriétaire columns")
	}

	return parseRows(p, cols, rows[headerIdx+1:], headerIdx)
}

type colIndex map[string]int

func detectProfile(rows [][]string) (*profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			if name := strings.TrimSpace(cell); name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			_, hasPlate := cols[profiles[i].PlateCol]
			_, hasOwner := cols[profiles[i].OwnerCol]

			if hasPlate && hasOwner {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

// headerIdx is the 0-based index of the header row; reported rows are 1-based file lines.
func parseRows(p *profile, cols colIndex, rows [][]string, headerIdx int) ([]Record, error) {
	get := func(row []string, col string) string {
		idx, ok := cols[col]
		if !ok || col == "" {
			return ""
		}

		return cellValue(row, idx)
	}

	var records []Record

	for i, row := range rows {
		rowNum := headerIdx + i + 2

		plate := vignette.NormalizeIdentifier(get(row, p.PlateCol))
		if plate == "" {
			continue
		}

		owner := get(row, p.OwnerCol)
		if owner == "" {
			return nil, fmt.Errorf("row %d: missing owner for plate %s", rowNum, plate)
		}

		rec := Record{
			Owner: vignette.Owner{
				FullName: owner,
				Phone:    get(row, p.Phone),
				Address:  get(row, p.Address),
				TaxID:    get(row, p.TaxID),
			},
			Asset: vignette.Asset{
				Plate:         plate,
				Make:          get(row, p.Make),
				Model:         get(row, p.Model),
				Category:      get(row, p.Category),
				ChassisNumber: get(row, p.Chassis),
				EngineNumber:  get(row, p.Engine),
				Registration: vignette.Registration{
					Site: get(row, p.Site),
					Date: parseDate(get(row, p.RegDate)),
				},
			},
		}

		if ref := get(row, p.Reference); ref != "" {
			amount, err := parseAmount(get(row, p.Amount))
			if err != nil {
				return nil, fmt.Errorf("row %d: invalid amount: %w", rowNum, err)
			}

			rec.Transaction = &vignette.Transaction{
				Reference: ref,
				Amount:    amount,
				Method:    vignette.MethodCash,
				Status:    vignette.TxPaid,
			}
		}

		records = append(records, rec)
	}

	return records, nil
}

// parseAmount accepts "55", "55,00" and "1.234,50".
func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}

	clean := s
	if strings.Contains(clean, ",") {
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	}

	return decimal.NewFromString(clean)
}

func parseDate(s string) time.Time {
	for _, layout := range []string{"02/01/2006", "02-01-2006", time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}

	return time.Time{}
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
