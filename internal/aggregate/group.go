package aggregate

import "github.com/uptimestars/starsctl/internal/api"

// GroupKey identifies a dashboard section. Real groups use their id.
type GroupKey string

const (
	// UngroupedKey is the sentinel for monitors without a group. Backend ids
	// are uuids, so it cannot collide with a real group.
	UngroupedKey GroupKey = "__ungrouped__"

	UngroupedLabel    = "Ungrouped"
	UnknownGroupLabel = "Unknown group"
)

// Grouping partitions monitors by group. Every input monitor appears exactly
// once, and input order is kept both across and within groups.
type Grouping struct {
	// Order lists group keys in order of first appearance.
	Order     []GroupKey
	Groups    map[GroupKey][]api.Monitor
	Ungrouped []api.Monitor

	labels map[GroupKey]string
}

// Section is one labelled partition of a Grouping.
type Section struct {
	Key      GroupKey
	Label    string
	Monitors []api.Monitor
}

// GroupMonitors partitions monitors by their groupId. groups supplies the
// labels; a referenced group missing from it is labelled UnknownGroupLabel.
func GroupMonitors(monitors []api.Monitor, groups []api.Group) Grouping {
	names := make(map[string]string, len(groups))
	for _, g := range groups {
		names[g.ID] = g.Name
	}

	g := Grouping{
		Groups: make(map[GroupKey][]api.Monitor),
		labels: make(map[GroupKey]string),
	}
	for _, m := range monitors {
		if !m.GroupID.Valid || m.GroupID.String == "" {
			g.Ungrouped = append(g.Ungrouped, m)
			continue
		}
		key := GroupKey(m.GroupID.String)
		if _, seen := g.Groups[key]; !seen {
			g.Order = append(g.Order, key)
			label, ok := names[m.GroupID.String]
			if !ok || label == "" {
				label = UnknownGroupLabel
			}
			g.labels[key] = label
		}
		g.Groups[key] = append(g.Groups[key], m)
	}
	return g
}

// Label returns the display label for key.
func (g Grouping) Label(key GroupKey) string {
	if key == UngroupedKey {
		return UngroupedLabel
	}
	if l, ok := g.labels[key]; ok {
		return l
	}
	return UnknownGroupLabel
}

// Len returns the number of monitors across all partitions.
func (g Grouping) Len() int {
	n := len(g.Ungrouped)
	for _, ms := range g.Groups {
		n += len(ms)
	}
	return n
}

// Sections returns the groups in order of first appearance followed by the
// ungrouped section, which is omitted when empty.
func (g Grouping) Sections() []Section {
	out := make([]Section, 0, len(g.Order)+1)
	for _, key := range g.Order {
		out = append(out, Section{Key: key, Label: g.Label(key), Monitors: g.Groups[key]})
	}
	if len(g.Ungrouped) > 0 {
		out = append(out, Section{Key: UngroupedKey, Label: UngroupedLabel, Monitors: g.Ungrouped})
	}
	return out
}

// GroupName returns the name of the group with id, if loaded.
func GroupName(groups []api.Group, id string) (string, bool) {
	for _, g := range groups {
		if g.ID == id {
			return g.Name, true
		}
	}
	return "", false
}
