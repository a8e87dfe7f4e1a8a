package dashboard

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guregu/null/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptimestars/starsctl/internal/api"
)

func TestView_Loading(t *testing.T) {
	m := NewModel(newFakeClient(), testOptions())
	out := m.View()

	assert.Contains(t, out, "starsctl")
	assert.Contains(t, out, "loading...")
	assert.Contains(t, out, "Loading monitors...")
	assert.Contains(t, out, "Loading events...")
}

func TestView_List(t *testing.T) {
	m := started(t, newFakeClient())
	defer func() { m.Close() }()
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 140, Height: 50})

	out := m.View()
	assert.Contains(t, out, "v1.0.0")
	assert.Contains(t, out, "https://status.example.com/api/v1")
	assert.Contains(t, out, "3 monitors")
	assert.Contains(t, out, "updated now")
	assert.Contains(t, out, "● 2 Functional")
	assert.Contains(t, out, "✗ 1 Down")
	assert.Contains(t, out, "Production (2)")
	assert.Contains(t, out, "Ungrouped (1)")
	assert.Contains(t, out, selectionMarker+" ● Functional")
	assert.Contains(t, out, "https://api.example.com")
	assert.Contains(t, out, "24h 99.9%")
	assert.Contains(t, out, "connection refused")
	assert.Contains(t, out, "p pause/resume")
}

func TestView_MinimalLayoutHidesTargets(t *testing.T) {
	m := started(t, newFakeClient())
	defer func() { m.Close() }()
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 60, Height: 40})

	assert.NotContains(t, m.renderMonitorSections(), "https://api.example.com")
}

func TestView_NoMonitors(t *testing.T) {
	client := newFakeClient()
	client.monitors = nil
	m := started(t, client)
	defer func() { m.Close() }()

	assert.Contains(t, m.View(), "No monitors")
}

func TestView_LoadErrorWithoutData(t *testing.T) {
	m := NewModel(newFakeClient(), testOptions())
	m, _ = update(t, m, listLoadedMsg{gen: m.Generation(), err: errors.New("GET /monitor: dial tcp: connection refused")})

	assert.Contains(t, m.View(), "Failed to load monitors: GET /monitor: dial tcp: connection refused")
}

func TestView_RefreshErrorKeepsData(t *testing.T) {
	m := started(t, newFakeClient())
	defer func() { m.Close() }()

	msg := listLoadedMsg{
		gen:      m.Generation(),
		monitors: m.monitorsState,
		events:   m.eventsState,
		err:      errors.New("503 Service Unavailable"),
		at:       testNow,
	}
	m, _ = update(t, m, msg)

	out := m.View()
	assert.Contains(t, out, "Production (2)")
	assert.Contains(t, out, "Refresh failed: 503 Service Unavailable")
}

func TestView_Detail(t *testing.T) {
	m := started(t, newFakeClient())
	defer func() { m.Close() }()

	m, cmd := update(t, m, key("enter"))
	assert.Contains(t, m.View(), "Loading monitor...")

	m, _ = update(t, m, cmd())
	out := m.View()
	assert.Contains(t, out, "← api")
	assert.Contains(t, out, "https://api.example.com")
	assert.Contains(t, out, "http  every 1 min  timeout 1000 ms")
	assert.Contains(t, out, "Production")
	assert.Contains(t, out, "120 ms")
	assert.Contains(t, out, "Recent")
	assert.Contains(t, out, "esc back")
	assert.NotContains(t, out, "connection refused", "events of other monitors are not shown")
}

func TestView_DetailScrollsInViewport(t *testing.T) {
	m := started(t, newFakeClient())
	defer func() { m.Close() }()
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 10})

	m, cmd := update(t, m, key("enter"))
	m, _ = update(t, m, cmd())
	assert.Equal(t, 0, m.detailViewport.YOffset)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyPgDown})
	assert.Greater(t, m.detailViewport.YOffset, 0)
	assert.Contains(t, m.View(), "← api", "the header stays outside the viewport")
}

func TestView_DetailFailure(t *testing.T) {
	m := started(t, newFakeClient())
	defer func() { m.Close() }()

	m, _ = update(t, m, key("enter"))
	m, _ = update(t, m, detailLoadedMsg{
		gen: m.Generation(),
		id:  "m-api",
		err: &api.RemoteRequestError{Method: "GET", Path: "/monitor/m-api", StatusCode: 500, Status: "Internal Server Error"},
	})

	assert.Contains(t, m.View(), "Failed to load monitor:")
}

func TestView_FooterHidesWritesWhileBusy(t *testing.T) {
	m := started(t, newFakeClient())
	defer func() { m.Close() }()

	m.action.Active = true
	footer := m.renderFooter()
	assert.Contains(t, footer, "writing...")
	assert.NotContains(t, footer, "d delete")
}

func TestView_PlaceholderPage(t *testing.T) {
	m := started(t, newFakeClient())
	defer func() { m.Close() }()

	st := m.eventsState
	st.Placeholder = true
	m.eventsState = st
	assert.Contains(t, m.renderEvents(listEventRows), "loading...")

	ms := m.monitorsState
	ms.Placeholder = true
	m.monitorsState = ms
	assert.Contains(t, m.renderMonitorSections(), "loading page...")
}

func TestEventNote(t *testing.T) {
	assert.Equal(t, "", eventNote(api.Event{}))
	assert.Equal(t, "[FP]", eventNote(api.Event{FalsePositive: true}))
	assert.Equal(t, "[FP] deploy", eventNote(api.Event{FalsePositive: true, Note: "deploy"}))
	assert.Equal(t, "deploy", eventNote(api.Event{Note: "deploy"}))
}

func TestUptime(t *testing.T) {
	assert.Equal(t, "-", uptime(""))
	assert.Equal(t, "99.5%", uptime("99.5"))
}

func TestGroupLabel(t *testing.T) {
	m := Model{groups: []api.Group{{ID: "g1", Name: "Edge"}}}
	require.Equal(t, "Edge", m.groupLabel(api.Monitor{GroupID: null.StringFrom("g1")}))
	assert.Equal(t, "Unknown group", m.groupLabel(api.Monitor{GroupID: null.StringFrom("g2")}))
	assert.Equal(t, "Ungrouped", m.groupLabel(api.Monitor{}))
}
