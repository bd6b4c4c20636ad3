package assistant_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/vignettes/internal/assistant"
	"github.com/MrJamesThe3rd/vignettes/internal/session"
	"github.com/MrJamesThe3rd/vignettes/internal/vignette"
	"github.com/MrJamesThe3rd/vignettes/internal/wizard"
)

type fakeGenerator struct {
	system, prompt string
	answer         string
	err            error
}

func (f *fakeGenerator) Generate(_ context.Context, system, prompt string) (string, error) {
	f.system = system
	f.prompt = prompt

	return f.answer, f.err
}

var allowed = &session.Session{Privileges: session.Privileges{UseAssistant: true}}

func state() wizard.State {
	return wizard.State{
		Flow:  wizard.FlowSale,
		Step:  wizard.StepSecond,
		Owner: &vignette.Owner{FullName: "Jean Mukendi", TaxID: "A0912345K", Phone: "0812345678"},
		Asset: &vignette.Asset{Plate: "AB123CD", Make: "Toyota", Model: "Hilux", Category: "Véhicule utilitaire", VignetteStatus: vignette.StatusPending},
		Quote: &vignette.Quote{Amount: decimal.NewFromInt(55), Currency: "USD"},
	}
}

func TestAsk(t *testing.T) {
	gen := &fakeGenerator{answer: "  Le prix est de 55 USD.\n"}
	a := assistant.New(gen, allowed)

	got, err := a.Ask(context.Background(), " Combien coûte la vignette ? ", state())
	require.NoError(t, err)
	assert.Equal(t, "Le prix est de 55 USD.", got)

	assert.Contains(t, gen.system, "français")
	assert.Contains(t, gen.prompt, "Parcours : sale, étape 2 (Paiement).")
	assert.Contains(t, gen.prompt, "Engin : AB123CD Toyota Hilux, catégorie Véhicule utilitaire, vignette pending.")
	assert.Contains(t, gen.prompt, "Prix : 55.00 USD.")
	assert.Contains(t, gen.prompt, "Question : Combien coûte la vignette ?")
	assert.NotContains(t, gen.prompt, "0812345678")
}

func TestAsk_Errors(t *testing.T) {
	tests := []struct {
		name    string
		sess    *session.Session
		q       string
		genErr  error
		wantErr error
	}{
		{name: "no privilege", sess: session.Anonymous(), q: "Bonjour", wantErr: assistant.ErrForbidden},
		{name: "nil session", q: "Bonjour", wantErr: assistant.ErrForbidden},
		{name: "blank question", sess: allowed, q: "   ", wantErr: assistant.ErrEmptyQuestion},
		{name: "generator failure", sess: allowed, q: "Bonjour", genErr: context.DeadlineExceeded, wantErr: context.DeadlineExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := assistant.New(&fakeGenerator{err: tt.genErr}, tt.sess)

			_, err := a.Ask(context.Background(), tt.q, state())
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestPrompt_Transaction(t *testing.T) {
	st := wizard.State{
		Flow: wizard.FlowDelivery,
		Step: wizard.StepSecond,
		Transaction: &vignette.Transaction{
			Reference: "VGN-2024-001236", Amount: decimal.NewFromInt(40), Currency: "USD",
			Method: vignette.MethodCard, Status: vignette.TxPending, ConfirmationCode: "SECRET",
		},
		Modal: &wizard.Modal{Title: "Saisie invalide", Message: "La transaction n'est pas payée."},
	}

	p := assistant.Prompt("Pourquoi ?", st)

	assert.Contains(t, p, "Transaction : VGN-2024-001236, 40.00 USD, card, statut pending.")
	assert.Contains(t, p, "Message affiché : Saisie invalide : La transaction n'est pas payée.")
	assert.NotContains(t, p, "SECRET")
}
