package receipt

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/vignettes/internal/vignette"
)

// Receipt is the human-readable summary of a completed counter transaction.
type Receipt struct {
	Owner       *vignette.Owner
	Asset       *vignette.Asset
	Transaction *vignette.Transaction
	Agent       string
	Site        string
	DeliveredAt *time.Time
}

var methodLabels = map[vignette.PaymentMethod]string{
	vignette.MethodCash:        "Espèces",
	vignette.MethodMobileMoney: "Mobile money",
	vignette.MethodCard:        "Carte bancaire",
}

// Render formats the receipt as plain text, one field per line.
func Render(r Receipt) string {
	var sb strings.Builder

	line := func(label, value string) {
		if value == "" {
			return
		}

		sb.WriteString(fmt.Sprintf("%-14s %s\n", label+":", value))
	}

	if o := r.Owner; o != nil {
		line("Assujetti", o.FullName)
		line("NIF", o.TaxID)
		line("Téléphone", o.Phone)
		line("Adresse", o.Address)
	}

	if a := r.Asset; a != nil {
		line("Plaque", a.Plate)
		line("Engin", strings.TrimSpace(a.Make+" "+a.Model))
		line("Châssis", a.ChassisNumber)
		line("Moteur", a.EngineNumber)
	}

	if t := r.Transaction; t != nil {
		line("Référence", t.Reference)
		line("Montant", strings.TrimSpace(t.Amount.StringFixed(2)+" "+t.Currency))
		line("Paiement", paymentLabel(t))
		line("Statut", string(t.Status))
	}

	if r.DeliveredAt != nil {
		line("Délivrée le", r.DeliveredAt.Format("02/01/2006 15:04"))
	}

	line("Agent", r.Agent)
	line("Site", r.Site)

	return sb.String()
}

func paymentLabel(t *vignette.Transaction) string {
	label := methodLabels[t.Method]
	if label == "" {
		label = string(t.Method)
	}

	switch t.Method {
	case vignette.MethodMobileMoney:
		if t.Operator != vignette.OperatorUnknown {
			label += " (" + string(t.Operator) + ")"
		}
	case vignette.MethodCard:
		if t.MaskedCard != "" {
			label += " " + t.MaskedCard
		}
	}

	return label
}

// Save writes the rendered receipt to dir and returns the file path.
// The file is named YYYYMMDD_<reference>.txt.
func Save(dir string, r Receipt, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating receipt directory: %w", err)
	}

	path := filepath.Join(dir, Filename(r, now))

	if err := os.WriteFile(path, []byte(Render(r)), 0o644); err != nil {
		return "", fmt.Errorf("writing receipt: %w", err)
	}

	return path, nil
}

// Filename derives a filesystem-safe name for the receipt.
func Filename(r Receipt, now time.Time) string {
	ref := "sans_reference"
	if r.Transaction != nil && r.Transaction.Reference != "" {
		ref = r.Transaction.Reference
	}

	safe := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}

		return '_'
	}, ref)

	return fmt.Sprintf("%s_%s.txt", now.Format("20060102"), safe)
}
