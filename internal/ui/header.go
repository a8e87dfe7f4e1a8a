package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// HeaderWidth is the default width of the header divider
const HeaderWidth = 50

// HeaderInfo contains information to display in the header.
type HeaderInfo struct {
	Version string // e.g. "v0.4.0"
	BaseURL string // backend the client talks to
}

// RenderHeader renders the product name, version and backend URL over a
// divider line.
func RenderHeader(info HeaderInfo) string {
	var out strings.Builder

	out.WriteString(lipgloss.NewStyle().Foreground(ColorSecondary).Bold(true).Render("starsctl"))
	if info.Version != "" {
		out.WriteString(" ")
		out.WriteString(lipgloss.NewStyle().Foreground(ColorInfo).Render(info.Version))
	}
	out.WriteString("\n")

	if info.BaseURL != "" {
		out.WriteString(MutedStyle().Render(info.BaseURL))
		out.WriteString("\n")
	}

	out.WriteString(MutedStyle().Render(strings.Repeat("━", HeaderWidth)))
	out.WriteString("\n")
	return out.String()
}
