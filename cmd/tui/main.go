package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/vignettes/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/vignettes/internal/assistant"
	"github.com/MrJamesThe3rd/vignettes/internal/config"
	"github.com/MrJamesThe3rd/vignettes/internal/fixture"
	"github.com/MrJamesThe3rd/vignettes/internal/gateway"
	"github.com/MrJamesThe3rd/vignettes/internal/session"
	"github.com/MrJamesThe3rd/vignettes/internal/vignette"
	"github.com/MrJamesThe3rd/vignettes/internal/wizard"
)

const fixtureLatency = 400 * time.Millisecond

type model struct {
	cfg       *config.Config
	gw        vignette.Gateway
	session   *session.Session
	assistant *assistant.Assistant
	opts      wizard.Options

	currentView View

	deliveryView  view.WizardModel
	saleView      view.WizardModel
	assistantView view.AssistantModel

	// last is the wizard the agent used most recently, given to the assistant as context.
	last   View
	notice string
}

type View int

const (
	ViewMenu      View = 0
	ViewDelivery  View = 1
	ViewSale      View = 2
	ViewAssistant View = 3
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	sess, err := loadSession(cfg)
	if err != nil {
		slog.Error("failed to resolve session", "error", err)
		os.Exit(1)
	}

	var gw vignette.Gateway = gateway.New(cfg.Gateway.URL, cfg.Gateway.Token, cfg.Gateway.Timeout)
	if strings.EqualFold(cfg.Gateway.Mode, "fixture") {
		gw = fixture.NewDemo(
			fixture.WithLatency(fixtureLatency),
			fixture.WithPrices(fixture.DefaultPrices(), cfg.Wizard.Currency),
		)
	}

	m := model{
		cfg:     cfg,
		gw:      gw,
		session: sess,
		opts: wizard.Options{
			ConfirmDelay: cfg.Wizard.ConfirmDelay,
			Currency:     cfg.Wizard.Currency,
		},
		currentView: ViewMenu,
	}

	if cfg.Assistant.APIKey != "" {
		gen, err := assistant.NewGenAI(context.Background(), cfg.Assistant.APIKey, cfg.Assistant.Model)
		if err != nil {
			slog.Error("assistant unavailable", "error", err)
		} else {
			m.assistant = assistant.New(gen, sess)
		}
	}

	m.deliveryView = view.NewDeliveryModel(gw, sess, m.opts, cfg.Gateway.Timeout, cfg.Wizard.ReceiptDir)
	m.saleView = view.NewSaleModel(gw, sess, m.opts, cfg.Gateway.Timeout, cfg.Wizard.ReceiptDir)

	return m
}

// loadSession verifies SESSION_TOKEN. Without one, fixture mode runs as a
// demo agent holding the counter privileges and http mode runs anonymous.
func loadSession(cfg *config.Config) (*session.Session, error) {
	if cfg.Session.Token != "" {
		return session.FromToken(cfg.Session.Token, cfg.Session.Secret)
	}

	if !strings.EqualFold(cfg.Gateway.Mode, "fixture") {
		return session.Anonymous(), nil
	}

	return &session.Session{
		User: session.User{ID: "agent-demo", Name: "Agent de démonstration", Site: "Gombe", Role: "guichet"},
		Privileges: session.Privileges{
			SellPlates:       true,
			DeliverVignettes: true,
			UseAssistant:     true,
		},
	}, nil
}

func (m model) assistantEnabled() bool {
	return m.assistant != nil && m.assistant.Enabled()
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			m.notice = ""

			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				if !m.session.Privileges.DeliverVignettes {
					m.notice = "Privilège « délivrance des vignettes » requis."
					return m, nil
				}

				m.currentView = ViewDelivery
				m.last = ViewDelivery

				return m, m.deliveryView.Init()
			case "2":
				if !m.session.Privileges.SellPlates {
					m.notice = "Privilège « vente des plaques » requis."
					return m, nil
				}

				m.currentView = ViewSale
				m.last = ViewSale

				return m, m.saleView.Init()
			case "3":
				if !m.assistantEnabled() {
					m.notice = "Assistant indisponible pour cette session."
					return m, nil
				}

				m.currentView = ViewAssistant
				m.assistantView = view.NewAssistantModel(m.assistant, m.lastState(), m.cfg.Gateway.Timeout)

				return m, m.assistantView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	case view.StepDoneMsg:
		return m.routeStepDone(msg)
	}

	switch m.currentView {
	case ViewDelivery:
		var newModel tea.Model
		newModel, cmd = m.deliveryView.Update(msg)
		m.deliveryView = newModel.(view.WizardModel)
	case ViewSale:
		var newModel tea.Model
		newModel, cmd = m.saleView.Update(msg)
		m.saleView = newModel.(view.WizardModel)
	case ViewAssistant:
		var newModel tea.Model
		newModel, cmd = m.assistantView.Update(msg)
		m.assistantView = newModel.(view.AssistantModel)
	}

	return m, cmd
}

// routeStepDone hands a call result to the screen of its flow, even when the
// agent has since moved to another screen.
func (m model) routeStepDone(msg view.StepDoneMsg) (tea.Model, tea.Cmd) {
	var newModel tea.Model

	var cmd tea.Cmd

	switch msg.Flow {
	case wizard.FlowDelivery:
		newModel, cmd = m.deliveryView.Update(msg)
		m.deliveryView = newModel.(view.WizardModel)
	case wizard.FlowSale:
		newModel, cmd = m.saleView.Update(msg)
		m.saleView = newModel.(view.WizardModel)
	}

	return m, cmd
}

func (m model) lastState() wizard.State {
	switch m.last {
	case ViewDelivery:
		return m.deliveryView.State()
	case ViewSale:
		return m.saleView.State()
	}

	return wizard.State{Step: wizard.StepFirst}
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return m.menu()
	case ViewDelivery:
		return m.deliveryView.View()
	case ViewSale:
		return m.saleView.View()
	case ViewAssistant:
		return m.assistantView.View()
	}

	return "Vue inconnue"
}

func (m model) menu() string {
	faint := lipgloss.NewStyle().Faint(true)

	item := func(key, label string, allowed bool) string {
		line := fmt.Sprintf("%s. %s", key, label)
		if !allowed {
			return faint.Render(line + " (non autorisé)")
		}

		return line
	}

	user := m.session.User
	agent := "Session anonyme"

	if user.ID != "" {
		agent = fmt.Sprintf("%s (%s), site %s", user.Name, user.ID, user.Site)
	}

	var sb strings.Builder

	sb.WriteString(m.cfg.App.Name + " - guichet\n")
	sb.WriteString(faint.Render(agent) + "\n\n")
	sb.WriteString(item("1", "Délivrance de vignette", m.session.Privileges.DeliverVignettes) + "\n")
	sb.WriteString(item("2", "Vente de vignette", m.session.Privileges.SellPlates) + "\n")
	sb.WriteString(item("3", "Assistant", m.assistantEnabled()) + "\n\n")
	sb.WriteString("q. Quitter")

	if m.notice != "" {
		sb.WriteString("\n\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Render(m.notice))
	}

	return lipgloss.NewStyle().Padding(2).Render(sb.String())
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
