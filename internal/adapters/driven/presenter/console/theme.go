package console

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the colour palette of the console output.
type Theme struct {
	// Primary is the main accent colour.
	Primary lipgloss.Color

	// Secondary is the secondary accent colour.
	Secondary lipgloss.Color

	// Muted is for less important text.
	Muted lipgloss.Color

	// Success indicates positive outcomes.
	Success lipgloss.Color

	// Error indicates problems.
	Error lipgloss.Color

	// Border is the border colour.
	Border lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:   lipgloss.Color("#7C3AED"), // Purple
		Secondary: lipgloss.Color("#06B6D4"), // Cyan
		Muted:     lipgloss.Color("#6C7086"), // Medium gray
		Success:   lipgloss.Color("#A6E3A1"), // Green
		Error:     lipgloss.Color("#F38BA8"), // Red
		Border:    lipgloss.Color("#45475A"), // Border gray
	}
}

// Styles contains the lipgloss styles used by the presenter.
type Styles struct {
	Title   lipgloss.Style
	Label   lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Header  lipgloss.Style
	Cell    lipgloss.Style
	Border  lipgloss.Style
}

// NewStyles creates styles bound to w. Colours are dropped when w is not a
// colour-capable terminal.
func NewStyles(w io.Writer, theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}
	r := lipgloss.NewRenderer(w)

	return &Styles{
		Title: r.NewStyle().
			Bold(true).
			Foreground(theme.Primary),

		Label: r.NewStyle().
			Foreground(theme.Secondary),

		Muted: r.NewStyle().
			Foreground(theme.Muted),

		Success: r.NewStyle().
			Foreground(theme.Success),

		Error: r.NewStyle().
			Bold(true).
			Foreground(theme.Error),

		Header: r.NewStyle().
			Bold(true).
			Foreground(theme.Secondary).
			Padding(0, 1),

		Cell: r.NewStyle().
			Padding(0, 1),

		Border: r.NewStyle().
			Foreground(theme.Border),
	}
}
