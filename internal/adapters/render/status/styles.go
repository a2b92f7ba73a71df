package status

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title   lipgloss.Style
	label   lipgloss.Style
	detail  lipgloss.Style
	ok      lipgloss.Style
	warning lipgloss.Style
	section lipgloss.Style
	empty   lipgloss.Style
	name    lipgloss.Style
	tag     lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:   lipgloss.NewStyle().Bold(true),
		label:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		detail:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		ok:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		warning: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		section: lipgloss.NewStyle().MarginTop(1),
		empty:   lipgloss.NewStyle().Faint(true),
		name:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		tag:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
}
