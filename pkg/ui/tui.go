// Package ui provides the Bubble Tea TUI for the route evaluation engine.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/arbx-labs/routeval/business/evaluation/app"
	"github.com/arbx-labs/routeval/business/evaluation/domain"
)

const maxRows = 50
const maxLogLines = 6

// row is one rendered recommendation.
type row struct {
	when time.Time
	rec  *domain.Recommendation
}

// Model is the main Bubble Tea model for the dashboard.
type Model struct {
	keys KeyMap

	rows     []row
	logs     []string
	errorMsg string

	scanCount    uint64
	routesSeen   uint64
	lastScan     time.Time
	lastDuration time.Duration

	paused   bool
	showHelp bool
	quitting bool
	width    int
	height   int
}

// New creates a new TUI model.
func New() Model {
	return Model{
		keys: DefaultKeyMap(),
		rows: make([]row, 0, maxRows),
		logs: make([]string, 0, maxLogLines),
	}
}

// Init initializes the TUI model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Pause):
			m.paused = !m.paused
		case key.Matches(msg, m.keys.Clear):
			m.rows = m.rows[:0]
			m.errorMsg = ""
		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case ScanResultMsg:
		if m.paused {
			return m, nil
		}
		m.scanCount++
		m.routesSeen += uint64(len(msg.Outcomes))
		m.lastScan = msg.Timestamp
		m.lastDuration = msg.Duration
		for _, out := range msg.Outcomes {
			if out.Recommendation == nil {
				continue
			}
			m.rows = append([]row{{when: msg.Timestamp, rec: out.Recommendation}}, m.rows...)
		}
		if len(m.rows) > maxRows {
			m.rows = m.rows[:maxRows]
		}
		return m, nil

	case LogMsg:
		line := fmt.Sprintf("[%s] %s", time.Now().Format("15:04:05"), msg.Message)
		m.logs = append(m.logs, line)
		if len(m.logs) > maxLogLines {
			m.logs = m.logs[len(m.logs)-maxLogLines:]
		}
		return m, nil

	case ErrorMsg:
		m.errorMsg = msg.Error.Error()
		return m, nil

	case TickMsg:
		return m, tickCmd()
	}

	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return "shutting down...\n"
	}

	var b strings.Builder

	b.WriteString(TitleStyle.Render("ROUTEVAL — Arbitrage Route Evaluation"))
	b.WriteString("\n\n")
	b.WriteString(m.statsView())
	b.WriteString("\n")
	b.WriteString(m.tableView())

	if len(m.logs) > 0 {
		b.WriteString("\n")
		b.WriteString(BoxStyle.Render(strings.Join(m.logs, "\n")))
	}

	if m.errorMsg != "" {
		b.WriteString("\n")
		b.WriteString(NegativeValue.Render("error: " + m.errorMsg))
	}

	b.WriteString("\n")
	if m.showHelp {
		b.WriteString(HelpStyle.Render("q quit • p pause • c clear • ? close help"))
	} else {
		b.WriteString(HelpStyle.Render("? help"))
	}
	b.WriteString("\n")

	return b.String()
}

func (m Model) statsView() string {
	status := PositiveValue.Render("scanning")
	if m.paused {
		status = ConsiderStyle.Render("paused")
	}

	last := "never"
	if !m.lastScan.IsZero() {
		last = fmt.Sprintf("%s (%.0fms)", m.lastScan.Format("15:04:05"), float64(m.lastDuration.Microseconds())/1000)
	}

	stats := fmt.Sprintf("status: %s   scans: %d   routes: %d   last: %s",
		status, m.scanCount, m.routesSeen, last)

	return BoxStyle.Render(stats)
}

func (m Model) tableView() string {
	header := fmt.Sprintf("%-8s %-28s %-11s %-9s %12s %9s %6s %-8s",
		"TIME", "ROUTE", "TYPE", "MODEL", "PROFIT", "BPS", "RISK", "ACTION")

	lines := []string{TableHeaderStyle.Render(header)}

	if len(m.rows) == 0 {
		lines = append(lines, MutedValue.Render("  waiting for opportunities..."))
	}

	for _, r := range m.rows {
		rec := r.rec

		routeID := rec.RouteID
		if len(routeID) > 28 {
			routeID = routeID[:25] + "..."
		}

		line := fmt.Sprintf("%-8s %-28s %-11s %-9s %12s %9s %6s %-8s",
			r.when.Format("15:04:05"),
			routeID,
			rec.RouteType,
			rec.ModelUsed,
			"$"+rec.NetProfit.StringFixed(2),
			rec.ProfitBps.StringFixed(1),
			rec.RiskScore.StringFixed(0),
			rec.Action,
		)

		switch rec.Action {
		case domain.ActionExecute:
			line = ExecuteStyle.Render(line)
		case domain.ActionConsider:
			line = ConsiderStyle.Render(line)
		default:
			line = SkipStyle.Render(line)
		}
		lines = append(lines, line)
	}

	return BoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// Program wraps a running Bubble Tea program.
type Program struct {
	p *tea.Program
}

// NewProgram builds a dashboard program in the alternate screen.
func NewProgram() *Program {
	return &Program{
		p: tea.NewProgram(New(), tea.WithAltScreen()),
	}
}

// Run blocks until the user quits.
func (p *Program) Run() error {
	_, err := p.p.Run()
	return err
}

// Send delivers a message to the running program.
func (p *Program) Send(msg tea.Msg) {
	p.p.Send(msg)
}

// SendScan delivers a batch result to the dashboard.
func (p *Program) SendScan(outcomes []app.Outcome, duration time.Duration) {
	p.p.Send(ScanResultMsg{
		Outcomes:  outcomes,
		Duration:  duration,
		Timestamp: time.Now(),
	})
}

// Quit asks the program to exit.
func (p *Program) Quit() {
	p.p.Quit()
}
