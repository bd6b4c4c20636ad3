package view

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/vignettes/internal/assistant"
	"github.com/MrJamesThe3rd/vignettes/internal/wizard"
)

// AssistantModel lets the agent ask a question about the last wizard run.
type AssistantModel struct {
	CommonModel
	assistant *assistant.Assistant
	state     wizard.State
	timeout   time.Duration

	input   textinput.Model
	spinner spinner.Model
	busy    bool
	answer  string
	err     error
}

type answerMsg struct {
	answer string
	err    error
}

func NewAssistantModel(a *assistant.Assistant, st wizard.State, timeout time.Duration) AssistantModel {
	ti := textinput.New()
	ti.Placeholder = "Votre question..."
	ti.CharLimit = 300
	ti.Width = 60
	ti.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = accentStyle

	return AssistantModel{
		assistant: a,
		state:     st,
		timeout:   timeout,
		input:     ti,
		spinner:   s,
	}
}

func (m AssistantModel) Title() string {
	return "Assistant"
}

func (m AssistantModel) ShortHelp() string {
	return "Entrée: demander | Échap: menu"
}

func (m AssistantModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m AssistantModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case answerMsg:
		m.busy = false
		m.answer = msg.answer
		m.err = msg.err

		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEsc:
			return m, Back
		case tea.KeyEnter:
			if m.busy {
				return m, nil
			}

			return m.ask()
		}

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m AssistantModel) ask() (tea.Model, tea.Cmd) {
	question := m.input.Value()
	a, st, timeout := m.assistant, m.state, m.timeout

	m.busy = true
	m.answer = ""
	m.err = nil

	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		ctx, cancel := CallCtx(timeout)
		defer cancel()

		answer, err := a.Ask(ctx, question, st)

		return answerMsg{answer: answer, err: err}
	})
}

func (m AssistantModel) View() string {
	header := helpStyle.Render("Aucune opération en cours.")
	if st := m.state; st.Asset != nil {
		header = helpStyle.Render(fmt.Sprintf("Contexte : %s, étape %d, plaque %s", st.Flow.StepNames()[st.Step-1], st.Step, st.Asset.Plate))
	}

	sections := []string{
		lipgloss.NewStyle().Bold(true).Render(m.Title()),
		header,
		"",
		m.input.View(),
		"",
	}

	switch {
	case m.busy:
		sections = append(sections, m.spinner.View()+" Réflexion en cours...")
	case m.err != nil:
		sections = append(sections, errorStyle.Render(fmt.Sprintf("Erreur : %v", m.err)))
	case m.answer != "":
		sections = append(sections, lipgloss.NewStyle().Width(70).Render(m.answer))
	}

	sections = append(sections, "", helpStyle.Render(m.ShortHelp()))

	return padded.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}
