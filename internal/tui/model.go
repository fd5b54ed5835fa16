package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"steady-drip/internal/domain"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// PlanBuilder is the slice of the plan service the TUI needs.
type PlanBuilder interface {
	BuildPlan(ctx context.Context, cashText, regimeText string) (*domain.AllocationPlan, error)
	Basket() domain.Basket
}

const planTimeout = 30 * time.Second

type planMsg struct {
	plan *domain.AllocationPlan
	err  error
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	activeStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	statusStyles = map[domain.AllocationStatus]lipgloss.Style{
		domain.StatusBalanced:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		domain.StatusOpportunity: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		domain.StatusTrimmed:     lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	}
)

type AppModel struct {
	planner PlanBuilder

	cashInput    textinput.Model
	regimeCursor int
	spin         spinner.Model

	computing bool
	plan      *domain.AllocationPlan
	planErr   error

	width  int
	height int
}

func NewAppModel(planner PlanBuilder) *AppModel {
	ti := textinput.New()
	ti.Placeholder = "500"
	ti.Prompt = "$ "
	ti.CharLimit = 16
	ti.Width = 20
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &AppModel{
		planner:   planner,
		cashInput: ti,
		spin:      sp,
	}
}

func (m *AppModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *AppModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *AppModel) buildPlan(cash, regime string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), planTimeout)
		defer cancel()
		plan, err := m.planner.BuildPlan(ctx, cash, regime)
		return planMsg{plan: plan, err: err}
	}
}

func (m *AppModel) selectedRegime() domain.Regime {
	return domain.SupportedRegimes[m.regimeCursor]
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "right":
			m.regimeCursor = (m.regimeCursor + 1) % len(domain.SupportedRegimes)
			return m, nil
		case "shift+tab", "left":
			m.regimeCursor = (m.regimeCursor + len(domain.SupportedRegimes) - 1) % len(domain.SupportedRegimes)
			return m, nil
		case "enter":
			if m.computing {
				return m, nil
			}
			m.computing = true
			m.plan = nil
			m.planErr = nil
			return m, tea.Batch(
				m.spin.Tick,
				m.buildPlan(m.cashInput.Value(), string(m.selectedRegime())),
			)
		}

	case planMsg:
		m.computing = false
		m.plan = msg.plan
		m.planErr = msg.err
		return m, nil

	case spinner.TickMsg:
		if m.computing {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.cashInput, cmd = m.cashInput.Update(msg)
	return m, cmd
}

func (m *AppModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("steady-drip"))
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("Cash to invest"))
	b.WriteString("\n")
	b.WriteString(m.cashInput.View())
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("Regime"))
	b.WriteString("\n")
	for i, r := range domain.SupportedRegimes {
		if i > 0 {
			b.WriteString("  ")
		}
		if i == m.regimeCursor {
			b.WriteString(activeStyle.Render("[" + string(r) + "]"))
		} else {
			b.WriteString(labelStyle.Render(" " + string(r) + " "))
		}
	}
	b.WriteString("\n\n")

	switch {
	case m.computing:
		b.WriteString(m.spin.View() + " computing allocation...")
	case m.planErr != nil:
		b.WriteString(errorStyle.Render("Error: " + m.planErr.Error()))
	case m.plan != nil:
		b.WriteString(renderPlan(m.plan))
	}

	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("enter: allocate • tab: regime • esc: quit"))
	return b.String()
}

func renderPlan(plan *domain.AllocationPlan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n",
		headerStyle.Render(fmt.Sprintf("Allocation for $%.2f (%s)", plan.Cash, plan.Regime)))
	fmt.Fprintf(&b, "%-8s %10s %8s %8s %10s %10s  %s\n",
		"TICKER", "PRICE", "TARGET", "FINAL", "AMOUNT", "UNITS", "STATUS")
	for _, line := range plan.Lines {
		style, ok := statusStyles[line.Status]
		if !ok {
			style = statusStyles[domain.StatusBalanced]
		}
		row := fmt.Sprintf("%-8s %10.2f %7.1f%% %7.1f%% %10.2f %10.3f  %s",
			line.Ticker, line.Price, line.TargetWeight*100, line.FinalWeight*100,
			line.DollarAmount, line.Units, line.Status)
		b.WriteString(style.Render(row))
		b.WriteString("\n")
	}
	return b.String()
}
