package dashboard

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/uptimestars/starsctl/internal/ui"
)

// Base styles for the dashboard
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ui.ColorPrimary).
			Bold(true).
			Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ui.ColorMuted).
			Padding(0, 1)

	SectionStyle = lipgloss.NewStyle().
			Foreground(ui.ColorSecondary).
			Bold(true)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(ui.ColorPrimary).
			Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ui.ColorMuted)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ui.ColorPrimary)

	ErrorLineStyle = lipgloss.NewStyle().
			Foreground(ui.ColorError)

	PromptStyle = lipgloss.NewStyle().
			Foreground(ui.ColorWarning).
			Bold(true)
)

// selectionMarker prefixes the selected row.
const selectionMarker = "▸"
