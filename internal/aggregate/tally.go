package aggregate

import "github.com/uptimestars/starsctl/internal/api"

// Stats counts monitors per status. Maintenance and Pending are part of the
// display but no monitor is classified into them yet, so they stay zero.
type Stats struct {
	Functional  int `json:"functional"`
	Down        int `json:"down"`
	Maintenance int `json:"maintenance"`
	Unknown     int `json:"unknown"`
	Paused      int `json:"paused"`
	Pending     int `json:"pending"`
}

// Tally counts monitors by Classify.
func Tally(monitors []api.Monitor) Stats {
	var s Stats
	for _, m := range monitors {
		switch Classify(m) {
		case StatusFunctional:
			s.Functional++
		case StatusDown:
			s.Down++
		case StatusUnknown:
			s.Unknown++
		case StatusPaused:
			s.Paused++
		}
	}
	return s
}

// Count returns the bucket for status.
func (s Stats) Count(status Status) int {
	switch status {
	case StatusFunctional:
		return s.Functional
	case StatusDown:
		return s.Down
	case StatusMaintenance:
		return s.Maintenance
	case StatusUnknown:
		return s.Unknown
	case StatusPaused:
		return s.Paused
	case StatusPending:
		return s.Pending
	default:
		return 0
	}
}

// Total is the sum of all buckets.
func (s Stats) Total() int {
	return s.Functional + s.Down + s.Maintenance + s.Unknown + s.Paused + s.Pending
}
