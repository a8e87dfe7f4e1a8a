package dashboard

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/uptimestars/starsctl/internal/ui"
)

// HelpBinding represents a single keyboard shortcut entry.
type HelpBinding struct {
	Key  string
	Desc string
}

// helpBindings defines all keyboard shortcuts shown in the help overlay.
var helpBindings = []HelpBinding{
	{Key: "q / Ctrl+C", Desc: "Quit"},
	{Key: "r", Desc: "Refresh now"},
	{Key: "up / k", Desc: "Select previous"},
	{Key: "down / j", Desc: "Select next"},
	{Key: "Home / End", Desc: "Select first / last"},
	{Key: "Tab", Desc: "Switch focus: monitors / events"},
	{Key: "Enter", Desc: "Open monitor detail"},
	{Key: "Esc", Desc: "Back / cancel"},
	{Key: "p", Desc: "Pause or resume monitor"},
	{Key: "d", Desc: "Delete monitor"},
	{Key: "n", Desc: "Edit event note"},
	{Key: "f", Desc: "Toggle event false positive"},
	{Key: "[ / ]", Desc: "Previous / next events page"},
	{Key: "< / >", Desc: "Previous / next monitors page"},
	{Key: "PgUp / PgDn", Desc: "Scroll detail view"},
	{Key: "?", Desc: "Toggle this help"},
}

// Help overlay styles
var (
	helpBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ui.ColorSecondary).
			Padding(1, 2)

	helpTitleStyle = lipgloss.NewStyle().
			Foreground(ui.ColorSecondary).
			Bold(true).
			MarginBottom(1)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(ui.ColorPrimary).
			Bold(true).
			Width(14)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(ui.ColorMuted)
)

// renderHelpOverlay renders a centered help box with keyboard shortcuts.
func (m Model) renderHelpOverlay() string {
	var lines []string
	lines = append(lines, helpTitleStyle.Render("Keyboard Shortcuts"))
	lines = append(lines, "")

	for _, binding := range helpBindings {
		line := helpKeyStyle.Render(binding.Key) + helpDescStyle.Render(binding.Desc)
		lines = append(lines, line)
	}

	lines = append(lines, "")
	lines = append(lines, LabelStyle.Render("Press ? to close"))

	helpBox := helpBoxStyle.Render(strings.Join(lines, "\n"))
	if m.width == 0 || m.height == 0 {
		return helpBox
	}

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		helpBox,
		lipgloss.WithWhitespaceChars(" "),
	)
}
