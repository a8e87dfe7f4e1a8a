package aggregate

import "github.com/uptimestars/starsctl/internal/api"

// DefaultWindow is the number of slots in the recent-events strip.
const DefaultWindow = 20

// Slot is one cell of the strip. Placeholder slots pad the strip on the left
// when fewer events than the window are available.
type Slot struct {
	Event       api.Event
	Placeholder bool
}

// Strip lays out the most recent events oldest-first in exactly window slots.
// events must be most recent first, as the backend returns them. A window
// below 1 means DefaultWindow.
func Strip(events []api.Event, window int) []Slot {
	if window < 1 {
		window = DefaultWindow
	}
	n := len(events)
	if n > window {
		n = window
	}

	slots := make([]Slot, window)
	pad := window - n
	for i := 0; i < pad; i++ {
		slots[i] = Slot{Placeholder: true}
	}
	// events[0] is newest and belongs in the last slot.
	for i := 0; i < n; i++ {
		slots[window-1-i] = Slot{Event: events[i]}
	}
	return slots
}
