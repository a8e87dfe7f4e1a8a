package dashboard

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/uptimestars/starsctl/internal/api"
	"github.com/uptimestars/starsctl/internal/query"
)

// Key bindings as constants for consistency.
const (
	KeyQuit          = "q"
	KeyQuitAlt       = "ctrl+c"
	KeyRefresh       = "r"
	KeySelectPrev    = "up"
	KeySelectPrevK   = "k"
	KeySelectNext    = "down"
	KeySelectNextJ   = "j"
	KeySelectFirst   = "home"
	KeySelectLast    = "end"
	KeySwitchFocus   = "tab"
	KeyExpand        = "enter"
	KeyCollapse      = "esc"
	KeyToggleActive  = "p"
	KeyDelete        = "d"
	KeyNote          = "n"
	KeyFalsePositive = "f"
	KeyEventsPrev    = "["
	KeyEventsNext    = "]"
	KeyMonitorsPrev  = "<"
	KeyMonitorsNext  = ">"
	KeyScrollUp      = "pgup"
	KeyScrollDown    = "pgdown"
	KeyConfirm       = "y"
	KeyToggleHelp    = "?"
)

// HandleKeyMsg processes keyboard input and returns updated model state and command.
// Returns true if the key was handled, false otherwise.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	key := msg.String()

	if key == KeyQuitAlt {
		m.quitting = true
		return true, tea.Quit
	}

	// The note editor owns the keyboard while open.
	if m.annotating != "" {
		return true, m.handleNoteKey(msg)
	}

	// A pending delete only accepts y, anything else cancels.
	if m.confirm != nil {
		c := m.confirm
		m.confirm = nil
		if key != KeyConfirm {
			return true, nil
		}
		monitors := m.monitors
		return true, m.runAction("Deleting "+c.name, c.id, func(ctx context.Context) error {
			return monitors.Delete(ctx, c.id)
		})
	}

	// Help toggle takes priority
	if key == KeyToggleHelp {
		m.showHelp = !m.showHelp
		return true, nil
	}

	// If help is showing, Esc closes it
	if m.showHelp && key == KeyCollapse {
		m.showHelp = false
		return true, nil
	}

	switch key {
	case KeyQuit:
		m.quitting = true
		return true, tea.Quit

	case KeyRefresh:
		return true, m.reloadCmd()

	case KeySelectPrev, KeySelectPrevK:
		m.move(-1)
		return true, nil

	case KeySelectNext, KeySelectNextJ:
		m.move(1)
		return true, nil

	case KeySelectFirst:
		m.moveTo(0)
		return true, nil

	case KeySelectLast:
		m.moveTo(-1)
		return true, nil

	case KeySwitchFocus:
		if m.viewMode == ViewList {
			if m.focus == FocusMonitors {
				m.focus = FocusEvents
			} else {
				m.focus = FocusMonitors
			}
		}
		return true, nil

	case KeyExpand:
		if m.viewMode == ViewList {
			if mon, ok := m.SelectedMonitor(); ok {
				return true, m.enterDetail(mon.ID)
			}
		}
		return true, nil

	case KeyCollapse:
		if m.viewMode == ViewDetail {
			return true, m.enterList()
		}
		m.focus = FocusMonitors
		return true, nil

	case KeyToggleActive:
		return true, m.toggleActive()

	case KeyDelete:
		if mon, ok := m.SelectedMonitor(); ok && !m.Busy() {
			m.confirm = &confirmState{id: mon.ID, name: mon.Name}
		}
		return true, nil

	case KeyNote:
		if ev, ok := m.SelectedEvent(); ok && m.eventsFocused() && !m.Busy() {
			m.annotating = ev.ID
			m.noteInput.SetValue(ev.Note)
			return true, m.noteInput.Focus()
		}
		return true, nil

	case KeyFalsePositive:
		if ev, ok := m.SelectedEvent(); ok && m.eventsFocused() && !m.Busy() {
			flag := !ev.FalsePositive
			label := "Marking event as false positive"
			if !flag {
				label = "Clearing false positive"
			}
			id, events := ev.ID, m.events
			return true, m.runAction(label, "", func(ctx context.Context) error {
				return events.Annotate(ctx, id, api.EventPatch{FalsePositive: &flag})
			})
		}
		return true, nil

	case KeyEventsPrev, KeyEventsNext:
		return true, m.pageEvents(key == KeyEventsNext)

	case KeyMonitorsPrev, KeyMonitorsNext:
		return true, m.pageMonitors(key == KeyMonitorsNext)

	case KeyScrollUp, KeyScrollDown:
		if m.viewMode == ViewDetail {
			var cmd tea.Cmd
			m.detailViewport, cmd = m.detailViewport.Update(msg)
			return true, cmd
		}
		return true, nil
	}

	return false, nil
}

func (m *Model) handleNoteKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case KeyCollapse:
		m.annotating = ""
		m.noteInput.Blur()
		return nil
	case KeyExpand:
		id, note, events := m.annotating, m.noteInput.Value(), m.events
		m.annotating = ""
		m.noteInput.Blur()
		return m.runAction("Saving note", "", func(ctx context.Context) error {
			return events.Annotate(ctx, id, api.EventPatch{Note: &note})
		})
	}
	var cmd tea.Cmd
	m.noteInput, cmd = m.noteInput.Update(msg)
	return cmd
}

func (m *Model) eventsFocused() bool {
	return m.viewMode == ViewDetail || m.focus == FocusEvents
}

func (m *Model) move(delta int) {
	if m.eventsFocused() {
		m.eventSel = clamp(m.eventSel+delta, len(m.currentEvents()))
		return
	}
	m.selected = clamp(m.selected+delta, len(m.rows))
}

// moveTo selects index i, or the last row when i is negative.
func (m *Model) moveTo(i int) {
	if m.eventsFocused() {
		n := len(m.currentEvents())
		if i < 0 {
			i = n - 1
		}
		m.eventSel = clamp(i, n)
		return
	}
	if i < 0 {
		i = len(m.rows) - 1
	}
	m.selected = clamp(i, len(m.rows))
}

func (m *Model) toggleActive() tea.Cmd {
	mon, ok := m.SelectedMonitor()
	if !ok || m.Busy() {
		return nil
	}
	label := "Pausing " + mon.Name
	if !mon.IsActive {
		label = "Resuming " + mon.Name
	}
	monitors := m.monitors
	return m.runAction(label, "", func(ctx context.Context) error {
		_, err := monitors.Toggle(ctx, mon)
		return err
	})
}

// runAction starts a write in the background and reports it as an
// actionDoneMsg. deleted names the monitor a successful run removes.
func (m *Model) runAction(label, deleted string, fn func(context.Context) error) tea.Cmd {
	spin := m.action.Start(label)
	return tea.Batch(spin, func() tea.Msg {
		return actionDoneMsg{label: label, err: fn(context.Background()), deleted: deleted}
	})
}

// pageEvents moves the events table of the current view one page.
func (m *Model) pageEvents(next bool) tea.Cmd {
	obs, st := m.listEventsObs, m.eventsState
	monitorID := ""
	if m.viewMode == ViewDetail {
		obs, st, monitorID = m.detailEventsObs, m.detailEvents, m.detailID
	}
	if obs == nil || !st.HasData || st.Data == nil {
		return nil
	}
	cur := obs.Key()
	switch {
	case next && st.Data.HasNextPage:
		obs.SetKey(query.EventsKey(cur.Page+1, cur.Size, monitorID))
	case !next && cur.Page > 1:
		obs.SetKey(query.EventsKey(cur.Page-1, cur.Size, monitorID))
	default:
		return nil
	}
	m.eventSel = 0
	return m.reloadCmd()
}

// pageMonitors moves the monitor list one page.
func (m *Model) pageMonitors(next bool) tea.Cmd {
	st := m.monitorsState
	if m.viewMode != ViewList || !st.HasData || st.Data == nil {
		return nil
	}
	cur := m.monitorsObs.Key()
	switch {
	case next && st.Data.HasNextPage:
		m.monitorsObs.SetKey(query.MonitorsKey(cur.Page+1, cur.Size, m.opts.LastEventsLimit))
	case !next && cur.Page > 1:
		m.monitorsObs.SetKey(query.MonitorsKey(cur.Page-1, cur.Size, m.opts.LastEventsLimit))
	default:
		return nil
	}
	m.selected = 0
	return m.reloadCmd()
}
