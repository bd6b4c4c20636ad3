package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/vignettes/internal/receipt"
	"github.com/MrJamesThe3rd/vignettes/internal/vignette"
	"github.com/MrJamesThe3rd/vignettes/internal/wizard"
)

// formFields holds the values bound to the huh forms. It lives on the heap so
// copies of the model share it.
type formFields struct {
	plate     string
	reference string

	method     string
	phone      string
	code       string
	cardNumber string
	cardHolder string
	expiry     string
	cvv        string

	proceed bool
}

// WizardModel drives one counter wizard. Gateway calls run as tea.Cmds; the
// wizard discards their results itself if the agent went back meanwhile.
type WizardModel struct {
	CommonModel
	w          *wizard.Wizard
	timeout    time.Duration
	receiptDir string

	form    *huh.Form
	fields  *formFields
	spinner spinner.Model
	busy    bool
	call    int
	status  string
}

// StepDoneMsg carries the result of a wizard call back to the screen of its flow.
// Call numbers the screen's requests so an abandoned call cannot end a newer one.
type StepDoneMsg struct {
	Flow wizard.Flow
	Call int
	Err  error
}

func newWizardModel(w *wizard.Wizard, timeout time.Duration, receiptDir string) WizardModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = accentStyle

	m := WizardModel{
		w:          w,
		timeout:    timeout,
		receiptDir: receiptDir,
		fields:     &formFields{},
		spinner:    s,
	}
	m.form = m.buildForm()

	return m
}

// State exposes the wizard's current run, for the assistant screen.
func (m WizardModel) State() wizard.State {
	return m.w.State()
}

func (m WizardModel) Title() string {
	if m.w.Flow() == wizard.FlowSale {
		return "Vente de vignette"
	}

	return "Délivrance de vignette"
}

func (m WizardModel) ShortHelp() string {
	st := m.w.State()

	switch {
	case st.Modal != nil && st.Modal.Kind == wizard.ModalSuccess:
		return "Entrée/Échap: nouvelle recherche | s: enregistrer le reçu"
	case st.Modal != nil:
		return "Entrée/Échap: fermer"
	case m.busy:
		return "Échap: annuler"
	case st.Step == wizard.StepFirst:
		return "Entrée: valider | Échap: menu"
	}

	return "Entrée: valider | Échap: étape précédente"
}

func (m WizardModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m WizardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case StepDoneMsg:
		if msg.Flow != m.w.Flow() || msg.Call != m.call {
			return m, nil
		}

		m.busy = false

		if msg.Err != nil && !errors.Is(msg.Err, wizard.ErrStale) && m.w.State().Modal == nil {
			m.status = fmt.Sprintf("Erreur : %v", msg.Err)
		}

		return m, m.rebuild()

	case tea.KeyMsg:
		if st := m.w.State(); st.Modal != nil {
			return m.updateModal(msg, st.Modal)
		}

		if msg.Type == tea.KeyEsc {
			return m.back()
		}
	}

	if m.busy {
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m.submit()
}

func (m WizardModel) back() (tea.Model, tea.Cmd) {
	m.status = ""

	if m.busy {
		m.busy = false
		m.call++
		m.w.Retreat()

		return m, m.rebuild()
	}

	if m.w.State().Step == wizard.StepFirst {
		return m, Back
	}

	m.w.Retreat()

	return m, m.rebuild()
}

func (m WizardModel) updateModal(msg tea.KeyMsg, modal *wizard.Modal) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEnter && modal.OnConfirm != nil:
		m.w.ConfirmModal()
		m.fields = &formFields{}
		m.status = ""
	case msg.Type == tea.KeyEnter || msg.Type == tea.KeyEsc:
		m.w.Dismiss()

		if modal.Kind == wizard.ModalSuccess {
			m.fields = &formFields{}
		}
	case msg.String() == "s" && modal.Kind == wizard.ModalSuccess:
		m.status = m.saveReceipt()
		return m, nil
	default:
		return m, nil
	}

	return m, m.rebuild()
}

func (m WizardModel) saveReceipt() string {
	r, ok := m.w.Final.Receipt()
	if !ok {
		return errorStyle.Render("Aucun reçu à enregistrer.")
	}

	path, err := receipt.Save(m.receiptDir, r, time.Now())
	if err != nil {
		return errorStyle.Render(fmt.Sprintf("Erreur : %v", err))
	}

	return successStyle.Render("Reçu enregistré : " + path)
}

// submit turns the completed form into the current step's wizard call.
func (m WizardModel) submit() (tea.Model, tea.Cmd) {
	f := *m.fields
	st := m.w.State()
	w := m.w

	var call func() error

	switch {
	case st.Step == wizard.StepFirst:
		call = func() error {
			ctx, cancel := CallCtx(m.timeout)
			defer cancel()

			return w.Lookup.Submit(ctx, wizard.LookupInput{Plate: f.plate, Reference: f.reference})
		}
	case st.Step == wizard.StepSecond && w.Flow() == wizard.FlowSale:
		call = func() error {
			ctx, cancel := CallCtx(m.timeout)
			defer cancel()

			return w.Payment.Submit(ctx, paymentDetails(f))
		}
	case !f.proceed:
		w.Retreat()
		return m, m.rebuild()
	case st.Step == wizard.StepSecond:
		call = w.Confirm.Confirm
	default:
		call = func() error {
			ctx, cancel := CallCtx(m.timeout)
			defer cancel()

			return w.Final.Confirm(ctx)
		}
	}

	m.busy = true
	m.status = ""

	m.call++
	flow, n := w.Flow(), m.call

	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		return StepDoneMsg{Flow: flow, Call: n, Err: call()}
	})
}

func (m *WizardModel) rebuild() tea.Cmd {
	m.form = m.buildForm()
	return m.form.Init()
}

func (m WizardModel) buildForm() *huh.Form {
	st := m.w.State()

	var form *huh.Form

	switch {
	case st.Step == wizard.StepFirst && m.w.Flow() == wizard.FlowDelivery:
		form = deliveryLookupForm(m.fields)
	case st.Step == wizard.StepFirst:
		form = saleLookupForm(m.fields)
	case st.Step == wizard.StepSecond && m.w.Flow() == wizard.FlowDelivery:
		form = deliveryConfirmForm(m.fields)
	case st.Step == wizard.StepSecond:
		form = paymentForm(m.fields, st.Quote)
	default:
		form = finalForm(m.fields, m.w.Flow())
	}

	return form.WithWidth(60).WithShowHelp(false)
}

func (m WizardModel) View() string {
	st := m.w.State()

	sections := []string{
		lipgloss.NewStyle().Bold(true).Render(m.Title()),
		stepper(st),
		"",
	}

	if summary := summarize(st); summary != "" {
		sections = append(sections, summary, "")
	}

	switch {
	case st.Modal != nil:
		sections = append(sections, renderModal(st.Modal))
	case m.busy:
		sections = append(sections, fmt.Sprintf("%s Interrogation du serveur...", m.spinner.View()))
	default:
		sections = append(sections, m.form.View())
	}

	if m.status != "" {
		sections = append(sections, "", m.status)
	}

	sections = append(sections, "", helpStyle.Render(m.ShortHelp()))

	return padded.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func stepper(st wizard.State) string {
	names := st.Flow.StepNames()
	parts := make([]string, len(names))

	for i, name := range names {
		label := fmt.Sprintf("%d. %s", i+1, name)

		if i+1 == st.Step {
			parts[i] = accentStyle.Bold(true).Render(label)
		} else {
			parts[i] = helpStyle.Render(label)
		}
	}

	return strings.Join(parts, "  >  ")
}

func summarize(st wizard.State) string {
	var lines []string

	if o := st.Owner; o != nil {
		lines = append(lines, fmt.Sprintf("Assujetti : %s  NIF %s  Tél. %s", o.FullName, o.TaxID, o.Phone))
	}

	if a := st.Asset; a != nil {
		lines = append(lines,
			fmt.Sprintf("Engin     : %s  %s %s  (%s)", a.Plate, a.Make, a.Model, a.Category),
			fmt.Sprintf("Immatriculé le %s à %s", FormatDate(a.Registration.Date), a.Registration.Site),
		)
	}

	if q := st.Quote; q != nil && st.Transaction == nil {
		lines = append(lines, fmt.Sprintf("Prix      : %s", FormatAmount(q.Amount, q.Currency)))
	}

	if t := st.Transaction; t != nil {
		lines = append(lines, fmt.Sprintf("Paiement  : %s  %s  %s", t.Reference, FormatAmount(t.Amount, t.Currency), t.Status))
	}

	return strings.Join(lines, "\n")
}

func renderModal(modal *wizard.Modal) string {
	style := errorStyle

	switch modal.Kind {
	case wizard.ModalWarning:
		style = warningStyle
	case wizard.ModalSuccess:
		style = successStyle
	case wizard.ModalInfo:
		style = accentStyle
	}

	label := "OK"
	if modal.ConfirmLabel != "" {
		label = modal.ConfirmLabel
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		style.Bold(true).Render(modal.Title),
		"",
		modal.Message,
		"",
		helpStyle.Render("[ "+label+" ]"),
	)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(style.GetForeground()).
		Padding(0, 2).
		Render(body)
}

func paymentDetails(f formFields) vignette.PaymentDetails {
	return vignette.PaymentDetails{
		Method:           vignette.PaymentMethod(f.method),
		Phone:            f.phone,
		ConfirmationCode: f.code,
		CardNumber:       f.cardNumber,
		CardHolder:       f.cardHolder,
		Expiry:           f.expiry,
		CVV:              f.cvv,
	}
}
