// Package dashboard implements the interactive monitor dashboard.
//
// The dashboard shows every monitor grouped by its group, the aggregate
// status counts, and a paged table of recent events. Selecting a monitor
// opens a detail view with its configuration, a latency sparkline, the
// recent-events strip, and that monitor's events.
//
// # Architecture
//
// The package uses the Bubble Tea framework (Model-Update-View):
//
//   - Model: holds view state (current view, selection, loaded pages)
//   - Update: processes keystrokes, load results and action outcomes
//   - View: renders the current state to a string
//
// All reads go through a query.Store, so the dashboard and any concurrent
// reader share one cache, and every write goes through the actions package
// so a successful write invalidates what it touched.
//
// # Message Flow
//
// Each view owns a feed: a query.Poller that loads the view's data on every
// interval and hands the result to the event loop over a channel.
//
//  1. Entering a view bumps the view generation and starts its feed
//  2. The feed's poller loads through the store and sends a loaded message
//  3. Update applies the message only if its generation is still current
//  4. Leaving the view stops the poller; late results are dropped
//
// A finished action triggers one extra load of the current view so the
// invalidated entries are refetched right away.
//
// # Keyboard Shortcuts
//
//	q, Ctrl+C   - Quit
//	r           - Refresh now
//	j/k, ↑/↓    - Select monitor (or event when the events table has focus)
//	Tab         - Switch focus between monitors and events
//	Enter       - Open monitor detail
//	Esc         - Back / cancel
//	p           - Pause or resume the monitor
//	d           - Delete the monitor (asks first)
//	n           - Edit the selected event's note
//	f           - Toggle the selected event's false-positive flag
//	[ / ]       - Previous / next events page
//	< / >       - Previous / next monitors page
//	?           - Toggle help overlay
package dashboard
