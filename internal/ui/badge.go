package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/uptimestars/starsctl/internal/aggregate"
)

// StatusSymbol returns the symbol for a status.
func StatusSymbol(s aggregate.Status) string {
	switch s {
	case aggregate.StatusFunctional:
		return SymbolComplete
	case aggregate.StatusDown:
		return SymbolFail
	case aggregate.StatusMaintenance:
		return SymbolMaint
	case aggregate.StatusPaused:
		return SymbolSkipped
	case aggregate.StatusPending:
		return SymbolProgress
	default:
		return SymbolPending
	}
}

// StatusColor returns the color for a status.
func StatusColor(s aggregate.Status) lipgloss.Color {
	switch s {
	case aggregate.StatusFunctional:
		return ColorSuccess
	case aggregate.StatusDown:
		return ColorError
	case aggregate.StatusMaintenance, aggregate.StatusPending:
		return ColorWarning
	case aggregate.StatusPaused:
		return ColorMuted
	default:
		return ColorInfo
	}
}

// StatusBadge renders "<symbol> <Status>" in the status color.
func StatusBadge(s aggregate.Status) string {
	return lipgloss.NewStyle().Foreground(StatusColor(s)).Render(StatusSymbol(s) + " " + s.String())
}
