package receipt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/vignettes/internal/vignette"
)

func sample() Receipt {
	delivered := time.Date(2024, 5, 14, 10, 30, 0, 0, time.UTC)

	return Receipt{
		Owner: &vignette.Owner{FullName: "Jean Mukendi", TaxID: "A1234567B", Phone: "0812345678"},
		Asset: &vignette.Asset{Plate: "AB123CD", Make: "Toyota", Model: "Hilux", ChassisNumber: "JTF123"},
		Transaction: &vignette.Transaction{
			Reference: "VGN-2024-001234",
			Amount:    decimal.RequireFromString("55"),
			Currency:  "USD",
			Method:    vignette.MethodMobileMoney,
			Operator:  vignette.OperatorVodacom,
			Status:    vignette.TxPaid,
		},
		Agent:       "Grace Kabila",
		Site:        "Gombe",
		DeliveredAt: &delivered,
	}
}

func TestRender(t *testing.T) {
	body := Render(sample())

	expectedSubstrings := []string{
		"Assujetti:     Jean Mukendi",
		"Plaque:        AB123CD",
		"Engin:         Toyota Hilux",
		"Référence:     VGN-2024-001234",
		"Montant:       55.00 USD",
		"Paiement:      Mobile money (vodacom)",
		"Délivrée le:   14/05/2024 10:30",
		"Agent:         Grace Kabila",
	}

	for _, sub := range expectedSubstrings {
		if !strings.Contains(body, sub) {
			t.Errorf("expected body to contain %q, got:\n%s", sub, body)
		}
	}

	if strings.Contains(body, "Moteur") {
		t.Errorf("empty fields should be omitted")
	}
}

func TestRender_Card(t *testing.T) {
	r := sample()
	r.Transaction.Method = vignette.MethodCard
	r.Transaction.MaskedCard = "**** **** **** 1111"

	body := Render(r)
	if !strings.Contains(body, "Carte bancaire **** **** **** 1111") {
		t.Errorf("expected masked card in body, got:\n%s", body)
	}
}

func TestSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "receipts")
	now := time.Date(2024, 5, 14, 0, 0, 0, 0, time.UTC)

	path, err := Save(dir, sample(), now)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if filepath.Base(path) != "20240514_VGN-2024-001234.txt" {
		t.Errorf("unexpected filename %s", filepath.Base(path))
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading receipt: %v", err)
	}

	if string(content) != Render(sample()) {
		t.Errorf("file content mismatch")
	}
}

func TestFilename_Sanitizes(t *testing.T) {
	r := Receipt{Transaction: &vignette.Transaction{Reference: "VGN/2024 01"}}
	got := Filename(r, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))

	if got != "20240102_VGN_2024_01.txt" {
		t.Errorf("got %s", got)
	}

	if got := Filename(Receipt{}, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)); got != "20240102_sans_reference.txt" {
		t.Errorf("got %s", got)
	}
}
