package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles holds all the styling for the TUI
type Styles struct {
	Header    lipgloss.Style
	Footer    lipgloss.Style
	NavLink   lipgloss.Style
	NavActive lipgloss.Style
	Dimmed    lipgloss.Style
}

// NewStyles creates a new styles instance
func NewStyles() *Styles {
	return &Styles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#3B6EA5")).
			Padding(0, 2),

		Footer: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")).
			MarginTop(1),

		NavLink: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8A8A8A")),

		NavActive: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#04B575")),

		// Applied to the whole page while a transition holds it faded.
		Dimmed: lipgloss.NewStyle().
			Faint(true),
	}
}
