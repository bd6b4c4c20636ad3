package view

import (
	"fmt"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/MrJamesThe3rd/vignettes/internal/session"
	"github.com/MrJamesThe3rd/vignettes/internal/vignette"
	"github.com/MrJamesThe3rd/vignettes/internal/wizard"
)

// NewSaleModel is the vignette sale screen.
func NewSaleModel(gw vignette.Gateway, sess *session.Session, opts wizard.Options, timeout time.Duration, receiptDir string) WizardModel {
	return newWizardModel(wizard.NewSale(gw, sess, opts), timeout+opts.ConfirmDelay, receiptDir)
}

func saleLookupForm(f *formFields) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("plate").
				Title("Plaque").
				Placeholder("AB123CD").
				Value(&f.plate),
		),
	)
}

func paymentForm(f *formFields, quote *vignette.Quote) *huh.Form {
	title := "Mode de paiement"
	if quote != nil {
		title = fmt.Sprintf("Mode de paiement (%s)", FormatAmount(quote.Amount, quote.Currency))
	}

	if f.method == "" {
		f.method = string(vignette.MethodCash)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("method").
				Title(title).
				Options(
					huh.NewOption("Espèces", string(vignette.MethodCash)),
					huh.NewOption("Mobile money", string(vignette.MethodMobileMoney)),
					huh.NewOption("Carte bancaire", string(vignette.MethodCard)),
				).
				Value(&f.method),
		),
		huh.NewGroup(
			huh.NewInput().
				Key("phone").
				Title("Téléphone").
				Placeholder("0812345678").
				Value(&f.phone),
			huh.NewInput().
				Key("code").
				Title("Code de confirmation").
				Value(&f.code),
		).WithHideFunc(func() bool {
			return f.method != string(vignette.MethodMobileMoney)
		}),
		huh.NewGroup(
			huh.NewInput().
				Key("card_number").
				Title("Numéro de carte").
				Placeholder("4111 1111 1111 1111").
				Value(&f.cardNumber),
			huh.NewInput().
				Key("card_holder").
				Title("Titulaire").
				Value(&f.cardHolder),
			huh.NewInput().
				Key("expiry").
				Title("Expiration (MM/AA)").
				Value(&f.expiry),
			huh.NewInput().
				Key("cvv").
				Title("CVV").
				EchoMode(huh.EchoModePassword).
				Value(&f.cvv),
		).WithHideFunc(func() bool {
			return f.method != string(vignette.MethodCard)
		}),
	)
}
