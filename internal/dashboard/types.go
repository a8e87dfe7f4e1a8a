package dashboard

import (
	"time"

	"github.com/uptimestars/starsctl/internal/api"
	"github.com/uptimestars/starsctl/internal/query"
)

// ViewMode defines the current display mode of the dashboard.
type ViewMode int

const (
	ViewList ViewMode = iota
	ViewDetail
)

func (v ViewMode) String() string {
	if v == ViewDetail {
		return "detail"
	}
	return "list"
}

// Focus selects which list the movement keys act on.
type Focus int

const (
	FocusMonitors Focus = iota
	FocusEvents
)

// LayoutMode represents the responsive layout mode based on terminal size.
type LayoutMode int

const (
	// LayoutMinimal is for terminals < 80 columns: name and status only
	LayoutMinimal LayoutMode = iota
	// LayoutCompact is for terminals 80-120 columns: adds target and uptime
	LayoutCompact
	// LayoutWide is for terminals 120+ columns: adds the recent-events strip
	LayoutWide
)

// Width breakpoints for layout modes
const (
	BreakpointCompact = 80
	BreakpointWide    = 120
)

// HeightMinimal is the height below which the footer is hidden.
const HeightMinimal = 24

// groupsPageSize bounds the groups loaded for section labels.
const groupsPageSize = 100

// listLoadedMsg carries one load of the monitor list view.
type listLoadedMsg struct {
	gen      uint64
	polled   bool
	monitors query.State[*api.Page[api.Monitor]]
	groups   []api.Group
	events   query.State[*api.Page[api.Event]]
	err      error
	at       time.Time
}

// detailLoadedMsg carries one load of a monitor's detail view.
type detailLoadedMsg struct {
	gen    uint64
	polled bool
	id     string
	detail *api.MonitorDetail // last good detail, nil if never loaded
	events query.State[*api.Page[api.Event]]
	err    error
	at     time.Time
}

// actionDoneMsg reports the outcome of a write started from the dashboard.
type actionDoneMsg struct {
	label   string
	err     error
	deleted string // id of a monitor that was deleted
}

// startMsg enters the first view once the program is running.
type startMsg struct{}
