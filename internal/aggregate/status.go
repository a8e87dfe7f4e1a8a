package aggregate

import "github.com/uptimestars/starsctl/internal/api"

// Status is the display status of a monitor or event.
type Status int

const (
	StatusFunctional Status = iota
	StatusDown
	StatusMaintenance
	StatusUnknown
	StatusPaused
	StatusPending
)

// AllStatuses lists every status in display order.
var AllStatuses = []Status{
	StatusFunctional,
	StatusDown,
	StatusMaintenance,
	StatusUnknown,
	StatusPaused,
	StatusPending,
}

func (s Status) String() string {
	switch s {
	case StatusFunctional:
		return "Functional"
	case StatusDown:
		return "Down"
	case StatusMaintenance:
		return "Maintenance"
	case StatusUnknown:
		return "Unknown"
	case StatusPaused:
		return "Paused"
	case StatusPending:
		return "Pending"
	default:
		return "Invalid"
	}
}

// Classify derives a monitor's status. A paused monitor is Paused whatever
// its last verdict; an active one with no verdict yet is Unknown.
func Classify(m api.Monitor) Status {
	switch {
	case !m.IsActive:
		return StatusPaused
	case !m.IsUp.Valid:
		return StatusUnknown
	case m.IsUp.Bool:
		return StatusFunctional
	default:
		return StatusDown
	}
}

// EventStatus is the badge for one event: Functional when up, Down otherwise.
func EventStatus(e api.Event) Status {
	if e.IsUp {
		return StatusFunctional
	}
	return StatusDown
}

// LatestLatency returns the latency of the most recent event.
func LatestLatency(d api.MonitorDetail) (float64, bool) {
	if len(d.LastEvents) == 0 {
		return 0, false
	}
	return d.LastEvents[0].LatencyMilliseconds, true
}
