// Package aggregate derives view state from backend records: a monitor's
// display status, grouped sections, status counts and the recent-events strip.
// Everything here is a pure function of its input.
package aggregate
