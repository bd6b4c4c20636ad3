// Package assistant answers counter agents' questions about the current run
// with a Gemini model, using the wizard state as context.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MrJamesThe3rd/vignettes/internal/session"
	"github.com/MrJamesThe3rd/vignettes/internal/wizard"
)

var (
	ErrForbidden     = errors.New("assistant: session lacks the assistant privilege")
	ErrEmptyQuestion = errors.New("assistant: empty question")
)

const systemPrompt = `Tu es l'assistant des agents de guichet chargés de la vente et de la délivrance des vignettes fiscales.
Réponds en français, en trois phrases au plus.
Appuie-toi uniquement sur le contexte fourni; si une information manque, dis-le.
Ne propose jamais de contourner une vérification (paiement, référence, vignette déjà délivrée).`

// Generator produces a completion for a prompt.
type Generator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

type Assistant struct {
	gen     Generator
	session *session.Session
}

func New(gen Generator, sess *session.Session) *Assistant {
	if sess == nil {
		sess = session.Anonymous()
	}

	return &Assistant{gen: gen, session: sess}
}

// Enabled reports whether the session may use the assistant.
func (a *Assistant) Enabled() bool {
	return a.session.Privileges.UseAssistant
}

// Ask answers question about st.
func (a *Assistant) Ask(ctx context.Context, question string, st wizard.State) (string, error) {
	if !a.Enabled() {
		return "", ErrForbidden
	}

	question = strings.TrimSpace(question)
	if question == "" {
		return "", ErrEmptyQuestion
	}

	answer, err := a.gen.Generate(ctx, systemPrompt, Prompt(question, st))
	if err != nil {
		return "", fmt.Errorf("generating answer: %w", err)
	}

	return strings.TrimSpace(answer), nil
}

// Prompt renders the run context followed by the question. Phone numbers and
// confirmation codes are left out.
func Prompt(question string, st wizard.State) string {
	var sb strings.Builder

	names := st.Flow.StepNames()
	if st.Step >= 1 && st.Step <= len(names) {
		fmt.Fprintf(&sb, "Parcours : %s, étape %d (%s).\n", st.Flow, st.Step, names[st.Step-1])
	}

	if o := st.Owner; o != nil {
		fmt.Fprintf(&sb, "Assujetti : %s (NIF %s).\n", o.FullName, orDash(o.TaxID))
	}

	if a := st.Asset; a != nil {
		fmt.Fprintf(&sb, "Engin : %s %s %s, catégorie %s, vignette %s.\n", a.Plate, a.Make, a.Model, orDash(a.Category), orDash(string(a.VignetteStatus)))
	}

	if q := st.Quote; q != nil {
		fmt.Fprintf(&sb, "Prix : %s %s.\n", q.Amount.StringFixed(2), q.Currency)
	}

	if t := st.Transaction; t != nil {
		fmt.Fprintf(&sb, "Transaction : %s, %s %s, %s, statut %s.\n", t.Reference, t.Amount.StringFixed(2), t.Currency, t.Method, t.Status)
	}

	if m := st.Modal; m != nil {
		fmt.Fprintf(&sb, "Message affiché : %s : %s\n", m.Title, m.Message)
	}

	fmt.Fprintf(&sb, "\nQuestion : %s", question)

	return sb.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}

	return s
}
