package view

import (
	"time"

	"github.com/charmbracelet/huh"

	"github.com/MrJamesThe3rd/vignettes/internal/session"
	"github.com/MrJamesThe3rd/vignettes/internal/vignette"
	"github.com/MrJamesThe3rd/vignettes/internal/wizard"
)

// NewDeliveryModel is the vignette hand-over screen.
func NewDeliveryModel(gw vignette.Gateway, sess *session.Session, opts wizard.Options, timeout time.Duration, receiptDir string) WizardModel {
	return newWizardModel(wizard.NewDelivery(gw, sess, opts), timeout+opts.ConfirmDelay, receiptDir)
}

func deliveryLookupForm(f *formFields) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("plate").
				Title("Plaque").
				Placeholder("AB123CD").
				Value(&f.plate),
			huh.NewInput().
				Key("reference").
				Title("Référence de paiement").
				Placeholder("VGN-2024-001234").
				Value(&f.reference),
		),
	)
}

func deliveryConfirmForm(f *formFields) *huh.Form {
	f.proceed = true

	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("proceed").
				Title("Les documents présentés correspondent-ils ?").
				Affirmative("Oui").
				Negative("Non, revenir").
				Value(&f.proceed),
		),
	)
}

func finalForm(f *formFields, flow wizard.Flow) *huh.Form {
	title := "Confirmer la vente ?"
	if flow == wizard.FlowDelivery {
		title = "Remettre la vignette et clôturer ?"
	}

	f.proceed = true

	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("proceed").
				Title(title).
				Affirmative("Confirmer").
				Negative("Revenir").
				Value(&f.proceed),
		),
	)
}
