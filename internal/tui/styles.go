// Package tui is a terminal editor for content areas. Fields are edited
// through the same click-to-edit controllers the web admin uses.
package tui

import "github.com/charmbracelet/lipgloss"

var (
	accent  = lipgloss.Color("#C8A165")
	muted   = lipgloss.Color("#8A8F98")
	success = lipgloss.Color("#4CAF50")
	danger  = lipgloss.Color("#E53935")
)

// Styles holds the lipgloss styles used by the editor.
type Styles struct {
	Title       lipgloss.Style
	Label       lipgloss.Style
	Selected    lipgloss.Style
	Value       lipgloss.Style
	Placeholder lipgloss.Style
	Editing     lipgloss.Style
	Success     lipgloss.Style
	Error       lipgloss.Style
	Help        lipgloss.Style
}

// DefaultStyles returns the default palette.
func DefaultStyles() Styles {
	return Styles{
		Title:       lipgloss.NewStyle().Bold(true).Foreground(accent).MarginBottom(1),
		Label:       lipgloss.NewStyle().Foreground(muted).Width(22),
		Selected:    lipgloss.NewStyle().Bold(true).Foreground(accent).Width(22),
		Value:       lipgloss.NewStyle(),
		Placeholder: lipgloss.NewStyle().Foreground(muted).Italic(true),
		Editing:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accent).Padding(0, 1),
		Success:     lipgloss.NewStyle().Foreground(success).Bold(true),
		Error:       lipgloss.NewStyle().Foreground(danger).Bold(true),
		Help:        lipgloss.NewStyle().Foreground(muted).MarginTop(1),
	}
}
