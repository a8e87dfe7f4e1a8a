package cli

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptimestars/starsctl/internal/aggregate"
	"github.com/uptimestars/starsctl/internal/api"
)

func TestMonitorsList_GroupSections(t *testing.T) {
	isolate(t)
	backend := newFakeBackend(t)

	res := runAgainst(t, backend, "monitors", "list")
	require.Equal(t, 0, res.Code, res.Stderr)

	assert.Contains(t, res.Stdout, "Production (2)")
	assert.Contains(t, res.Stdout, aggregate.UngroupedLabel+" (1)")
	assert.Contains(t, res.Stdout, "https://api.example.com")
	assert.Contains(t, res.Stdout, "99.9%")
	assert.Contains(t, res.Stdout, "3 monitors")

	// Named groups come before the ungrouped section.
	assert.Less(t, strings.Index(res.Stdout, "Production"), strings.Index(res.Stdout, aggregate.UngroupedLabel))
}

func TestMonitorsList_PassesPageAndLastEvents(t *testing.T) {
	isolate(t)
	backend := newFakeBackend(t)

	res := runAgainst(t, backend, "monitors", "list", "--page", "2", "--size", "2", "--last-events", "7")
	require.Equal(t, 0, res.Code, res.Stderr)

	assert.Contains(t, backend.Requests(), "GET /monitor?lastEventsLimit=7&pageNumber=2&pageSize=2")
	assert.Contains(t, res.Stdout, "page 2/2, 3 monitors")
}

func TestMonitorsList_JSON(t *testing.T) {
	isolate(t)
	backend := newFakeBackend(t)

	res := runAgainst(t, backend, "--json", "monitors", "list")
	require.Equal(t, 0, res.Code, res.Stderr)

	env := decodeEnvelope(t, res.Stdout)
	assert.True(t, env.Success)
	data := env.Data.(map[string]interface{})
	assert.Equal(t, float64(3), data["totalItemCount"])
	assert.Len(t, data["data"], 3)

	// Machine mode does not need group names.
	for _, r := range backend.Requests() {
		assert.False(t, strings.HasPrefix(r, "GET /group"), r)
	}
}

func TestMonitorsList_Empty(t *testing.T) {
	isolate(t)
	backend := newFakeBackend(t)
	backend.With(func() { backend.monitors = nil })

	res := runAgainst(t, backend, "monitors", "list")
	require.Equal(t, 0, res.Code, res.Stderr)
	assert.Contains(t, res.Stdout, "No monitors.")
	assert.Contains(t, res.Stdout, "starsctl monitors create")
}

func TestMonitorsGet_Text(t *testing.T) {
	isolate(t)
	backend := newFakeBackend(t)

	res := runAgainst(t, backend, "monitors", "get", "m-api")
	require.Equal(t, 0, res.Code, res.Stderr)

	assert.Contains(t, res.Stdout, "api")
	assert.Contains(t, res.Stdout, "m-api")
	assert.Contains(t, res.Stdout, "Production")
	assert.Contains(t, res.Stdout, "ops@example.com")
}

func TestMonitorsGet_YAML(t *testing.T) {
	isolate(t)
	backend := newFakeBackend(t)

	res := runAgainst(t, backend, "monitors", "get", "m-db", "-o", "yaml")
	require.Equal(t, 0, res.Code, res.Stderr)

	assert.Contains(t, res.Stdout, "name: db")
	assert.Contains(t, res.Stdout, "target: 10.0.0.5")
	assert.Contains(t, res.Stdout, "intervalInMinutes: 5")
}

func TestMonitorsGet_UnknownFormat(t *testing.T) {
	isolate(t)
	backend := newFakeBackend(t)

	res := runAgainst(t, backend, "monitors", "get", "m-db", "-o", "xml")
	assert.Equal(t, 1, res.Code)
	assert.Contains(t, res.Stderr, "Unknown output format 'xml'")
	assert.Empty(t, backend.Requests())
}

func TestMonitorsGet_NotFound(t *testing.T) {
	isolate(t)
	backend := newFakeBackend(t)

	res := runAgainst(t, backend, "monitors", "get", "missing")
	assert.Equal(t, 1, res.Code)
	assert.Contains(t, res.Stderr, "Backend answered 404")
	assert.Contains(t, res.Stderr, "starsctl monitors list")
}

func TestMonitorsGet_NotFoundJSON(t *testing.T) {
	isolate(t)
	backend := newFakeBackend(t)

	res := runAgainst(t, backend, "--json", "monitors", "get", "missing")
	assert.Equal(t, 1, res.Code)
	assert.Empty(t, res.Stderr)

	env := decodeEnvelope(t, res.Stdout)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, ErrCodeNotFound, env.Error.Code)
	details := env.Error.Details.(map[string]interface{})
	assert.Equal(t, float64(404), details["status"])
	assert.Equal(t, "/monitor/missing", details["path"])
}

func TestMonitorsCreate_FromFlags(t *testing.T) {
	isolate(t)
	backend := newFakeBackend(t)

	res := runAgainst(t, backend, "monitors", "create",
		"--name", "svc", "--target", "https://svc.example.com",
		"--interval", "5", "--alert-email", "a@example.com", "--alert-email", "b@example.com",
		"--header", "X-Token: abc", "--expected-text", "ok")
	require.Equal(t, 0, res.Code, res.Stderr)
	assert.Contains(t, res.Stdout, "Created monitor svc (m-new)")

	var sent api.MonitorPayload
	require.NoError(t, json.Unmarshal([]byte(backend.Body("POST /monitor")), &sent))
	assert.Equal(t, "svc", sent.Name)
	assert.Equal(t, api.MonitorTypeHTTP, sent.Type)
	assert.Equal(t, 5, sent.IntervalInMinutes)
	assert.Equal(t, 1000, sent.TimeoutInMilliseconds)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, sent.AlertEmails)
	assert.Equal(t, []string{"X-Token: abc"}, sent.RequestHeaders)
	assert.Equal(t, "ok", sent.ExpectedText.String)
	assert.False(t, sent.GroupID.Valid)
}

func TestMonitorsCreate_RejectedBeforeSending(t *testing.T) {
	isolate(t)
	backend := newFakeBackend(t)

	res := runAgainst(t, backend, "monitors", "create", "--name", "svc", "--target", "https://svc.example.com",
		"--alert-email", "not-an-address")
	assert.Equal(t, 1, res.Code)
	assert.Contains(t, res.Stderr, "Request rejected before sending")
	assert.NotContains(t, backend.Requests(), "POST /monitor")
}

func TestMonitorsCreate_BadType(t *testing.T) {
	isolate(t)
	backend := newFakeBackend(t)

	res := runAgainst(t, backend, "monitors", "create", "--name", "svc", "--target", "x", "--type", "smtp")
	assert.Equal(t, 1, res.Code)
	assert.Contains(t, res.Stderr, "Invalid value for --type")
}

func TestMonitorsCreate_InteractiveNeedsTerminal(t *testing.T) {
	isolate(t)
	backend := newFakeBackend(t)

	res := runAgainst(t, backend, "monitors", "create", "-i")
	assert.Equal(t, 1, res.Code)
	assert.Contains(t, res.Stderr, "needs an interactive terminal")
}

func TestMonitorsUpdate_SendsOnlyChangedFlags(t *testing.T) {
	isolate(t)
	backend := newFakeBackend(t)

	res := runAgainst(t, backend, "monitors", "update", "m-api", "--interval", "10", "--group", "")
	require.Equal(t, 0, res.Code, res.Stderr)
	assert.Contains(t, res.Stdout, "Updated monitor m-api")

	assert.JSONEq(t, `{"intervalInMinutes":10,"groupId":null}`, backend.Body("PATCH /monitor/m-api"))
}

func TestMonitorsUpdate_NothingToUpdate(t *testing.T) {
	isolate(t)
	backend := newFakeBackend(t)

	res := runAgainst(t, backend, "monitors", "update", "m-api")
	assert.Equal(t, 1, res.Code)
	assert.Contains(t, res.Stderr, "Nothing to update")
	assert.Empty(t, backend.Body("PATCH /monitor/m-api"))
}

func TestMonitorsPauseResume(t *testing.T) {
	isolate(t)
	backend := newFakeBackend(t)

	res := runAgainst(t, backend, "monitors", "pause", "m-api")
	require.Equal(t, 0, res.Code, res.Stderr)
	assert.Contains(t, res.Stdout, "Paused monitor m-api")
	assert.False(t, backend.Monitors()[0].IsActive)

	res = runAgainst(t, backend, "monitors", "resume", "m-api")
	require.Equal(t, 0, res.Code, res.Stderr)
	assert.Contains(t, res.Stdout, "Resumed monitor m-api")
	assert.True(t, backend.Monitors()[0].IsActive)

	assert.Contains(t, backend.Requests(), "POST /monitor/disable/m-api")
	assert.Contains(t, backend.Requests(), "POST /monitor/enable/m-api")
}

func TestMonitorsPause_ServerError(t *testing.T) {
	isolate(t)
	backend := newFakeBackend(t)
	backend.Fail("POST /monitor/disable/m-api", http.StatusInternalServerError)

	res := runAgainst(t, backend, "monitors", "pause", "m-api")
	assert.Equal(t, 1, res.Code)
	assert.Contains(t, res.Stderr, "Backend answered 500")
	assert.Contains(t, res.Stderr, "injected failure")
}

func TestMonitorsDelete_RefusesWithoutConfirmation(t *testing.T) {
	isolate(t)
	backend := newFakeBackend(t)

	res := runAgainst(t, backend, "monitors", "delete", "m-api")
	assert.Equal(t, 1, res.Code)
	assert.Contains(t, res.Stderr, "Refusing to delete without confirmation")
	assert.Len(t, backend.Monitors(), 3)
}

func TestMonitorsDelete_Yes(t *testing.T) {
	isolate(t)
	backend := newFakeBackend(t)

	res := runAgainst(t, backend, "monitors", "delete", "m-api", "--yes")
	require.Equal(t, 0, res.Code, res.Stderr)
	assert.Contains(t, res.Stdout, "Deleted monitor m-api")
	assert.Len(t, backend.Monitors(), 2)
}

func TestMonitorsDelete_Prompt(t *testing.T) {
	tests := []struct {
		name    string
		answer  bool
		wantOut string
		wantLen int
	}{
		{name: "confirmed", answer: true, wantOut: "Deleted monitor m-api", wantLen: 2},
		{name: "cancelled", answer: false, wantOut: "Cancelled.", wantLen: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			backend := newFakeBackend(t)
			stub(t, &stdinIsTerminal, func() bool { return true })

			var asked string
			stub(t, &confirm, func(title string) (bool, error) {
				asked = title
				return tt.answer, nil
			})

			res := runAgainst(t, backend, "monitors", "delete", "m-api")
			require.Equal(t, 0, res.Code, res.Stderr)
			assert.Contains(t, asked, "Delete monitor api (m-api)")
			assert.Contains(t, res.Stdout, tt.wantOut)
			assert.Len(t, backend.Monitors(), tt.wantLen)
		})
	}
}

func TestMonitorsStats(t *testing.T) {
	isolate(t)
	backend := newFakeBackend(t)

	res := runAgainst(t, backend, "--json", "monitors", "stats")
	require.Equal(t, 0, res.Code, res.Stderr)

	data := decodeEnvelope(t, res.Stdout).Data.(map[string]interface{})
	assert.Equal(t, float64(2), data["functional"])
	assert.Equal(t, float64(1), data["down"])
	assert.Equal(t, float64(0), data["maintenance"])
	assert.Equal(t, float64(3), data["total"])
}

func TestMonitorsStats_CheckExitCode(t *testing.T) {
	isolate(t)
	backend := newFakeBackend(t)

	res := runAgainst(t, backend, "monitors", "stats", "--check")
	assert.Equal(t, 1, res.Code)
	assert.Empty(t, res.Stderr)

	// Pausing the down monitor clears the check.
	backend.With(func() { backend.monitors[1].IsActive = false })
	res = runAgainst(t, backend, "monitors", "stats", "--check")
	assert.Equal(t, 0, res.Code, res.Stderr)
}

func TestMonitorsStats_WalksEveryPage(t *testing.T) {
	isolate(t)
	backend := newFakeBackend(t)
	backend.With(func() {
		for i := 0; i < walkPageSize; i++ {
			backend.monitors = append(backend.monitors, backend.monitors[2])
		}
	})

	res := runAgainst(t, backend, "--json", "monitors", "stats")
	require.Equal(t, 0, res.Code, res.Stderr)

	data := decodeEnvelope(t, res.Stdout).Data.(map[string]interface{})
	assert.Equal(t, float64(walkPageSize+3), data["total"])
	assert.Contains(t, backend.Requests(), "GET /monitor?lastEventsLimit=1&pageNumber=2&pageSize=100")
}

func TestMonitorsExport_ToFile(t *testing.T) {
	dir := isolate(t)
	backend := newFakeBackend(t)
	out := filepath.Join(dir, "march.xlsx")

	res := runAgainst(t, backend, "monitors", "export", "--from", "01/03/2026", "--to", "09/03/2026", "--out", out)
	require.Equal(t, 0, res.Code, res.Stderr)
	assert.Contains(t, res.Stdout, "Exported")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, backend.report, data)
	assert.Contains(t, backend.Requests(), "GET /monitor/export?dateFrom=01%2F03%2F2026&dateTo=09%2F03%2F2026")
}

func TestMonitorsExport_DefaultRangeAndName(t *testing.T) {
	dir := isolate(t)
	backend := newFakeBackend(t)
	stub(t, &now, func() time.Time { return testNow })

	res := runAgainst(t, backend, "--json", "monitors", "export")
	require.Equal(t, 0, res.Code, res.Stderr)

	data := decodeEnvelope(t, res.Stdout).Data.(map[string]interface{})
	assert.Equal(t, "monitor_export_01_03_2026_to_10_03_2026.xlsx", data["file"])
	assert.Equal(t, "01/03/2026", data["from"])
	assert.Equal(t, "10/03/2026", data["to"])
	assert.Equal(t, float64(len(backend.report)), data["bytes"])

	assert.FileExists(t, filepath.Join(dir, "monitor_export_01_03_2026_to_10_03_2026.xlsx"))
}

func TestMonitorsExport_Stdout(t *testing.T) {
	isolate(t)
	backend := newFakeBackend(t)

	res := runAgainst(t, backend, "monitors", "export", "--from", "01/03/2026", "--to", "02/03/2026", "--out", "-")
	require.Equal(t, 0, res.Code, res.Stderr)
	assert.Equal(t, string(backend.report), res.Stdout)
}

func TestMonitorsExport_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "bad date", args: []string{"--from", "2026-03-01"}, want: "doesn't look like a valid --from date"},
		{name: "reversed range", args: []string{"--from", "10/03/2026", "--to", "01/03/2026"}, want: "ends (01/03/2026) before it starts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			backend := newFakeBackend(t)

			res := runAgainst(t, backend, append([]string{"monitors", "export"}, tt.args...)...)
			assert.Equal(t, 1, res.Code)
			assert.Contains(t, res.Stderr, tt.want)
			assert.Empty(t, backend.Requests())
		})
	}
}

func TestMonitorsExport_FailureRemovesFile(t *testing.T) {
	dir := isolate(t)
	backend := newFakeBackend(t)
	backend.Fail("GET /monitor/export", http.StatusBadGateway)
	out := filepath.Join(dir, "report.xlsx")

	res := runAgainst(t, backend, "monitors", "export", "--from", "01/03/2026", "--to", "02/03/2026", "--out", out)
	assert.Equal(t, 1, res.Code)
	assert.NoFileExists(t, out)
	leftovers, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, leftovers, "no partial download is left behind")
}

func TestMonitorsExport_FailureKeepsEarlierReport(t *testing.T) {
	dir := isolate(t)
	backend := newFakeBackend(t)
	out := filepath.Join(dir, "report.xlsx")
	require.NoError(t, os.WriteFile(out, []byte("earlier report"), 0644))

	backend.Fail("GET /monitor/export", http.StatusBadGateway)
	res := runAgainst(t, backend, "monitors", "export", "--from", "01/03/2026", "--to", "02/03/2026", "--out", out)
	assert.Equal(t, 1, res.Code)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "earlier report", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestBackendUnreachable(t *testing.T) {
	isolate(t)

	res := runCLI(t, "--no-color", "--api-url", "http://127.0.0.1:1", "monitors", "list")
	assert.Equal(t, 1, res.Code)
	assert.Contains(t, res.Stderr, "Couldn't reach the backend")
}

func TestMonitorsDelete_PromptReadsThroughStore(t *testing.T) {
	isolate(t)
	backend := newFakeBackend(t)
	stub(t, &stdinIsTerminal, func() bool { return true })
	stub(t, &confirm, func(string) (bool, error) { return true, nil })

	res := runAgainst(t, backend, "-v", "monitors", "delete", "m-api")
	require.Equal(t, 0, res.Code, res.Stderr)
	// The detail shown in the prompt is a cached entry, so the delete
	// invalidates it.
	assert.Contains(t, res.Stderr, "invalidated monitor (1 entries)")
}
