package ui

// Unicode symbols for status indicators.
const (
	SymbolSuccess  = "✓" // Action completed successfully
	SymbolFail     = "✗" // Action failed, monitor down
	SymbolPending  = "○" // No verdict yet
	SymbolProgress = "◐" // Write in progress
	SymbolComplete = "●" // Monitor functional
	SymbolSkipped  = "⊘" // Monitor paused
	SymbolMaint    = "◆" // Maintenance window
)

// Strip cells.
const (
	StripFilled      = "█"
	StripPlaceholder = "░"
)
