package dashboard

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/uptimestars/starsctl/internal/actions"
	"github.com/uptimestars/starsctl/internal/aggregate"
	"github.com/uptimestars/starsctl/internal/api"
	"github.com/uptimestars/starsctl/internal/logger"
	"github.com/uptimestars/starsctl/internal/query"
	"github.com/uptimestars/starsctl/internal/ui"
)

// confirmState is a pending delete waiting for y/n.
type confirmState struct {
	id   string
	name string
}

// Model is the Bubble Tea model for the monitor dashboard.
type Model struct {
	load     *loader
	opts     Options
	log      logger.Logger
	monitors *actions.Monitors
	events   *actions.Events
	history  *History

	// List view
	monitorsObs   *query.Observer[*api.Page[api.Monitor]]
	listEventsObs *query.Observer[*api.Page[api.Event]]
	monitorsState query.State[*api.Page[api.Monitor]]
	eventsState   query.State[*api.Page[api.Event]]
	groups        []api.Group
	rows          []api.Monitor // monitors in section order
	sections      []aggregate.Section
	stats         aggregate.Stats

	// Detail view
	detailID        string
	detail          *api.MonitorDetail
	detailEventsObs *query.Observer[*api.Page[api.Event]]
	detailEvents    query.State[*api.Page[api.Event]]
	detailViewport  viewport.Model
	viewportReady   bool

	loadErr    error
	lastUpdate time.Time

	selected int
	eventSel int
	focus    Focus
	viewMode ViewMode
	showHelp bool

	confirm    *confirmState
	annotating string // id of the event whose note is being edited
	noteInput  textinput.Model
	action     ui.ActionIndicator

	// gen identifies the current view; results stamped with an older
	// generation belong to a torn-down view and are dropped.
	gen  uint64
	feed *feed

	width    int
	height   int
	quitting bool
}

// NewModel creates a dashboard model. Nothing is loaded until the program
// runs Init.
func NewModel(client Client, opts Options) Model {
	opts.setDefaults()
	l := &loader{client: client, store: opts.Store, opts: opts}

	note := textinput.New()
	note.Placeholder = "note"
	note.CharLimit = 500
	note.Prompt = "Note: "

	return Model{
		load:     l,
		opts:     opts,
		log:      opts.Logger,
		monitors: actions.NewMonitors(client, opts.Store, opts.Logger),
		events:   actions.NewEvents(client, opts.Store, opts.Logger),
		history:  NewHistory(DefaultHistorySize),
		monitorsObs: query.NewObserver(opts.Store,
			query.MonitorsKey(1, opts.PageSize, opts.LastEventsLimit), l.monitorsPage),
		listEventsObs: query.NewObserver(opts.Store,
			query.EventsKey(1, opts.EventsPageSize, ""), l.eventsPage),
		noteInput: note,
		action:    ui.NewActionIndicator(),
	}
}

// Init enters the monitor list.
func (m Model) Init() tea.Cmd {
	return func() tea.Msg { return startMsg{} }
}

// Close stops the current view's poller. Call it after the program exits.
func (m Model) Close() {
	m.feed.stop()
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := m.update(msg)
	if m.viewMode == ViewDetail && m.viewportReady {
		m.detailViewport.SetContent(m.renderDetailBody())
	}
	return m, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case startMsg:
		return m, m.enterList()

	case tea.KeyMsg:
		handled, cmd := m.HandleKeyMsg(msg)
		if handled {
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeViewport()

	case listLoadedMsg:
		if msg.gen != m.gen || m.viewMode != ViewList {
			m.log.Debug("dropped list load from generation %d", msg.gen)
			return m, nil
		}
		m.applyList(msg)
		if msg.polled {
			return m, m.feed.wait()
		}

	case detailLoadedMsg:
		if msg.gen != m.gen || m.viewMode != ViewDetail || msg.id != m.detailID {
			m.log.Debug("dropped detail load for %s from generation %d", msg.id, msg.gen)
			return m, nil
		}
		m.applyDetail(msg)
		if msg.polled {
			return m, m.feed.wait()
		}

	case actionDoneMsg:
		m.action.Finish(msg.err)
		if msg.err != nil {
			m.log.Warn("%s failed: %v", msg.label, msg.err)
			return m, nil
		}
		if msg.deleted != "" && m.viewMode == ViewDetail && msg.deleted == m.detailID {
			return m, m.enterList()
		}
		return m, m.reloadCmd()

	default:
		var cmd tea.Cmd
		m.action, cmd = m.action.Update(msg)
		if m.annotating != "" {
			var inputCmd tea.Cmd
			m.noteInput, inputCmd = m.noteInput.Update(msg)
			return m, tea.Batch(cmd, inputCmd)
		}
		return m, cmd
	}

	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showHelp {
		return m.renderHelpOverlay()
	}
	if m.viewMode == ViewDetail {
		return m.renderDetailView()
	}
	return m.renderDashboard()
}

// enterList switches to the monitor list and starts its feed.
func (m *Model) enterList() tea.Cmd {
	m.feed.stop()
	m.gen++
	m.viewMode = ViewList
	m.focus = FocusMonitors
	m.detailID = ""
	m.detail = nil
	m.detailEventsObs = nil
	m.eventSel = 0
	m.loadErr = nil

	gen, l := m.gen, m.load
	monitors, events := m.monitorsObs, m.listEventsObs
	m.feed = startFeed(m.opts.Interval, func(ctx context.Context) tea.Msg {
		return l.list(ctx, gen, true, monitors, events)
	})
	m.log.Debug("entered list view (generation %d)", gen)
	return m.feed.wait()
}

// enterDetail switches to the detail of monitor id and starts its feed.
func (m *Model) enterDetail(id string) tea.Cmd {
	m.feed.stop()
	m.gen++
	m.viewMode = ViewDetail
	m.focus = FocusEvents
	m.detailID = id
	m.detail = nil
	m.eventSel = 0
	m.loadErr = nil
	m.detailEvents = query.State[*api.Page[api.Event]]{}
	m.detailEventsObs = query.NewObserver(m.opts.Store,
		query.EventsKey(1, m.opts.EventsPageSize, id), m.load.eventsPage)
	m.detailViewport.GotoTop()

	gen, l, events := m.gen, m.load, m.detailEventsObs
	m.feed = startFeed(m.opts.Interval, func(ctx context.Context) tea.Msg {
		return l.detail(ctx, gen, true, id, events)
	})
	m.log.Debug("entered detail view of %s (generation %d)", id, gen)
	return m.feed.wait()
}

// reloadCmd loads the current view once, outside the poll cycle.
func (m Model) reloadCmd() tea.Cmd {
	gen, l := m.gen, m.load
	switch m.viewMode {
	case ViewDetail:
		id, events := m.detailID, m.detailEventsObs
		return func() tea.Msg {
			return l.detail(context.Background(), gen, false, id, events)
		}
	default:
		monitors, events := m.monitorsObs, m.listEventsObs
		return func() tea.Msg {
			return l.list(context.Background(), gen, false, monitors, events)
		}
	}
}

func (m *Model) applyList(msg listLoadedMsg) {
	m.monitorsState = msg.monitors
	m.eventsState = msg.events
	if msg.groups != nil {
		m.groups = msg.groups
	}
	m.loadErr = msg.err
	m.lastUpdate = msg.at

	selectedID := ""
	if mon, ok := m.SelectedMonitor(); ok {
		selectedID = mon.ID
	}

	var list []api.Monitor
	if msg.monitors.HasData && msg.monitors.Data != nil {
		list = msg.monitors.Data.Data
	}
	m.sections = aggregate.GroupMonitors(list, m.groups).Sections()
	m.rows = make([]api.Monitor, 0, len(list))
	for _, s := range m.sections {
		m.rows = append(m.rows, s.Monitors...)
	}
	m.stats = aggregate.Tally(list)
	if msg.monitors.HasData && !msg.monitors.Placeholder {
		m.history.Push(m.stats)
	}

	// Keep the same monitor selected across reloads.
	m.selected = clamp(m.selected, len(m.rows))
	for i, mon := range m.rows {
		if mon.ID == selectedID {
			m.selected = i
			break
		}
	}
	m.eventSel = clamp(m.eventSel, len(m.currentEvents()))
}

func (m *Model) applyDetail(msg detailLoadedMsg) {
	if msg.detail != nil {
		m.detail = msg.detail
	}
	m.detailEvents = msg.events
	m.loadErr = msg.err
	m.lastUpdate = msg.at
	m.eventSel = clamp(m.eventSel, len(m.currentEvents()))
}

func (m *Model) resizeViewport() {
	// Header (2 lines) and footer (2 lines) stay outside the viewport.
	height := m.height - 4
	if height < 1 {
		height = 1
	}
	if !m.viewportReady {
		m.detailViewport = viewport.New(m.width, height)
		m.viewportReady = true
		return
	}
	m.detailViewport.Width = m.width
	m.detailViewport.Height = height
}

// Busy reports whether a write is running, in which case write controls
// are disabled.
func (m Model) Busy() bool {
	return m.action.Active || m.monitors.Busy() || m.events.Busy()
}

// SelectedMonitor returns the monitor the write keys act on: the selected
// row in the list, or the open monitor in the detail view.
func (m Model) SelectedMonitor() (api.Monitor, bool) {
	if m.viewMode == ViewDetail {
		if m.detail == nil {
			return api.Monitor{}, false
		}
		return m.detail.Monitor, true
	}
	if m.selected >= 0 && m.selected < len(m.rows) {
		return m.rows[m.selected], true
	}
	return api.Monitor{}, false
}

// currentEvents returns the events table of the current view.
func (m Model) currentEvents() []api.Event {
	st := m.eventsState
	if m.viewMode == ViewDetail {
		st = m.detailEvents
	}
	if !st.HasData || st.Data == nil {
		return nil
	}
	return st.Data.Data
}

// SelectedEvent returns the event under the events cursor.
func (m Model) SelectedEvent() (api.Event, bool) {
	events := m.currentEvents()
	if m.eventSel >= 0 && m.eventSel < len(events) {
		return events[m.eventSel], true
	}
	return api.Event{}, false
}

// Stats returns the status counts of the loaded monitors page.
func (m Model) Stats() aggregate.Stats {
	return m.stats
}

// Generation returns the current view generation.
func (m Model) Generation() uint64 {
	return m.gen
}

// ViewMode returns the view being shown.
func (m Model) ViewMode() ViewMode {
	return m.viewMode
}

// LayoutMode returns the current layout mode based on terminal width.
func (m Model) LayoutMode() LayoutMode {
	switch {
	case m.width >= BreakpointWide:
		return LayoutWide
	case m.width >= BreakpointCompact:
		return LayoutCompact
	default:
		return LayoutMinimal
	}
}

// ShowFooter returns true if the terminal is tall enough to show the footer.
func (m Model) ShowFooter() bool {
	return m.height == 0 || m.height >= HeightMinimal
}

func clamp(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
