// Package ui provides the Bubble Tea TUI for the route evaluation engine.
package ui

import "github.com/charmbracelet/lipgloss"

// Colors
var (
	ColorPrimary = lipgloss.Color("#7C3AED") // Purple
	ColorProfit  = lipgloss.Color("#10B981") // Green
	ColorDanger  = lipgloss.Color("#EF4444") // Red
	ColorWarning = lipgloss.Color("#F59E0B") // Amber
	ColorMuted   = lipgloss.Color("#6B7280") // Gray
	ColorBorder  = lipgloss.Color("#374151") // Dark gray
)

// Styles
var (
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(ColorPrimary).
			Padding(0, 2)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			Padding(0, 1)

	ExecuteStyle = lipgloss.NewStyle().
			Foreground(ColorProfit).
			Bold(true)

	ConsiderStyle = lipgloss.NewStyle().
			Foreground(ColorWarning).
			Bold(true)

	SkipStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	PositiveValue = lipgloss.NewStyle().
			Foreground(ColorProfit)

	NegativeValue = lipgloss.NewStyle().
			Foreground(ColorDanger)

	MutedValue = lipgloss.NewStyle().
			Foreground(ColorMuted)

	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorPrimary).
				BorderBottom(true).
				BorderStyle(lipgloss.NormalBorder())

	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Padding(0, 1)
)
