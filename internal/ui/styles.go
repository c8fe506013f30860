// Package ui holds the terminal styles shared by the dashboard and the CLI.
package ui

import "github.com/charmbracelet/lipgloss"

// Colors used throughout the TUI.
var (
	ColorRed     = lipgloss.Color("#FF5F5F")
	ColorGreen   = lipgloss.Color("#5FD787")
	ColorYellow  = lipgloss.Color("#FFD75F")
	ColorCyan    = lipgloss.Color("#5FD7FF")
	ColorBlue    = lipgloss.Color("#5F87FF")
	ColorMagenta = lipgloss.Color("#D787FF")
	ColorGray    = lipgloss.Color("#808080")
	ColorDimGray = lipgloss.Color("#4E4E4E")
	ColorWhite   = lipgloss.Color("#FFFFFF")
)

// Base styles reused by UI components.
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorCyan)

	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorCyan)

	StatusStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorYellow)

	PanelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWhite)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorWhite).
			Bold(true)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(ColorCyan).
			Bold(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	FooterKeyStyle = lipgloss.NewStyle().
			Foreground(ColorYellow).
			Bold(true)

	FooterDescStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	DividerStyle = lipgloss.NewStyle().
			Foreground(ColorDimGray)

	LiveBadgeStyle = lipgloss.NewStyle().
			Foreground(ColorGreen).
			Bold(true)

	OpenSessionStyle = lipgloss.NewStyle().
				Foreground(ColorMagenta)
)

// BarStyles colors chart bars by metric.
var BarStyles = map[string]lipgloss.Style{
	"bottle":  lipgloss.NewStyle().Foreground(ColorCyan),
	"nursing": lipgloss.NewStyle().Foreground(ColorMagenta),
	"sleep":   lipgloss.NewStyle().Foreground(ColorBlue),
	"pump":    lipgloss.NewStyle().Foreground(ColorGreen),
	"diapers": lipgloss.NewStyle().Foreground(ColorYellow),
}

// BarStyle returns the style for a metric, falling back to the header style.
func BarStyle(metric string) lipgloss.Style {
	if s, ok := BarStyles[metric]; ok {
		return s
	}
	return HeaderStyle
}
