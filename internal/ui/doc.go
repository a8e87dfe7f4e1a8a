// Package ui provides terminal styling shared by the starsctl CLI and the
// dashboard.
//
// # Color Scheme
//
// Colors are ANSI codes for broad terminal compatibility:
//
//	ColorSuccess   (green)  - Functional monitors, up events
//	ColorError     (red)    - Down monitors, failures
//	ColorWarning   (yellow) - Maintenance, pending writes
//	ColorInfo      (cyan)   - Informational messages
//	ColorMuted     (gray)   - Paused monitors, secondary text
//	ColorSecondary (blue)   - Selection and in-progress indicators
//
// Use ConfigureColor to apply the output.color setting (or --no-color).
//
// # Status Badges
//
// StatusBadge renders a monitor or event status with a symbol and color:
//
//	ui.StatusBadge(aggregate.StatusDown) // "✗ Down" in red
//
// # Event Strip
//
// RenderStrip draws the recent-events strip: one block per slot, oldest on
// the left, placeholders shaded gray.
package ui
