package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains the lipgloss styles of the fragment picker.
type Styles struct {
	Title    lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Cursor   lipgloss.Style
	Selected lipgloss.Style
	Hint     lipgloss.Style
	Error    lipgloss.Style
	Preview  lipgloss.Style
	Help     lipgloss.Style
}

// DefaultStyles returns the default picker styles.
func DefaultStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")),

		Normal: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),

		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),

		Cursor: lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true),

		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A6E3A1")),

		Hint: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F9E2AF")).
			Italic(true),

		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F38BA8")),

		Preview: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#45475A")).
			Padding(0, 1),

		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
	}
}
