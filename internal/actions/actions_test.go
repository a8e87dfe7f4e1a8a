package actions

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptimestars/starsctl/internal/api"
	"github.com/uptimestars/starsctl/internal/logger"
	"github.com/uptimestars/starsctl/internal/query"
)

type fakeClient struct {
	mu    sync.Mutex
	calls []string
	err   error
	block chan struct{}
}

func (f *fakeClient) record(call string) error {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	return f.err
}

func (f *fakeClient) CreateMonitor(_ context.Context, p api.MonitorPayload) (string, error) {
	if err := f.record("create " + p.Name); err != nil {
		return "", err
	}
	return "new-id", nil
}

func (f *fakeClient) UpdateMonitor(_ context.Context, id string, _ api.MonitorPatch) error {
	return f.record("update " + id)
}

func (f *fakeClient) EnableMonitor(_ context.Context, id string) error {
	return f.record("enable " + id)
}

func (f *fakeClient) DisableMonitor(_ context.Context, id string) error {
	return f.record("disable " + id)
}

func (f *fakeClient) DeleteMonitor(_ context.Context, id string) error {
	return f.record("delete " + id)
}

func (f *fakeClient) UpdateEvent(_ context.Context, id string, _ api.EventPatch) error {
	return f.record("annotate " + id)
}

// seededStore caches one entry per resource.
func seededStore(t *testing.T) *query.Store {
	t.Helper()
	s := query.NewStore(query.Options{StaleTime: time.Hour})
	ctx := context.Background()
	for _, k := range []query.Key{
		query.MonitorsKey(1, 100, 3),
		query.MonitorKey("m1", 20),
		query.EventsKey(1, 100, ""),
		query.GroupsKey(1, 100),
	} {
		_, err := query.Fetch(ctx, s, k, func(context.Context) (string, error) { return "cached", nil })
		require.NoError(t, err)
	}
	return s
}

func stale(t *testing.T, s *query.Store, k query.Key) bool {
	t.Helper()
	snap, ok := s.Snapshot(k)
	require.True(t, ok)
	return snap.Stale
}

func TestMonitors_InvalidateOnSuccess(t *testing.T) {
	name := "renamed"
	tests := []struct {
		name string
		run  func(m *Monitors) error
		call string
	}{
		{"enable", func(m *Monitors) error { return m.Enable(context.Background(), "m1") }, "enable m1"},
		{"disable", func(m *Monitors) error { return m.Disable(context.Background(), "m1") }, "disable m1"},
		{"delete", func(m *Monitors) error { return m.Delete(context.Background(), "m1") }, "delete m1"},
		{"update", func(m *Monitors) error {
			return m.Update(context.Background(), "m1", api.MonitorPatch{Name: &name})
		}, "update m1"},
		{"create", func(m *Monitors) error {
			id, err := m.Create(context.Background(), api.NewMonitorPayload("web", "https://x"))
			assert.Equal(t, "new-id", id)
			return err
		}, "create web"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeClient{}
			s := seededStore(t)
			log := logger.NewBufferLogger()
			m := NewMonitors(client, s, log)

			require.NoError(t, tt.run(m))

			assert.Equal(t, []string{tt.call}, client.calls)
			assert.True(t, stale(t, s, query.MonitorsKey(1, 100, 3)))
			assert.True(t, stale(t, s, query.MonitorKey("m1", 20)))
			assert.False(t, stale(t, s, query.EventsKey(1, 100, "")))
			assert.False(t, stale(t, s, query.GroupsKey(1, 100)))
			assert.True(t, log.HasLevel("info"))
		})
	}
}

func TestMonitors_FailureKeepsCache(t *testing.T) {
	boom := &api.RemoteRequestError{Method: "POST", Path: "/monitor/disable/m1", StatusCode: 500, Status: "Internal Server Error"}
	client := &fakeClient{err: boom}
	s := seededStore(t)
	m := NewMonitors(client, s, nil)

	err := m.Disable(context.Background(), "m1")
	require.ErrorIs(t, err, boom)
	assert.False(t, stale(t, s, query.MonitorsKey(1, 100, 3)))
	assert.False(t, m.Busy(), "control re-enables after failure")
}

func TestMonitors_Toggle(t *testing.T) {
	client := &fakeClient{}
	m := NewMonitors(client, query.NewStore(query.Options{}), nil)
	ctx := context.Background()

	active, err := m.Toggle(ctx, api.Monitor{ID: "a", IsActive: true})
	require.NoError(t, err)
	assert.False(t, active)

	active, err = m.Toggle(ctx, api.Monitor{ID: "b", IsActive: false})
	require.NoError(t, err)
	assert.True(t, active)

	assert.Equal(t, []string{"disable a", "enable b"}, client.calls)
}

func TestMonitors_BusyRejectsOtherActions(t *testing.T) {
	client := &fakeClient{block: make(chan struct{})}
	m := NewMonitors(client, query.NewStore(query.Options{}), nil)

	done := make(chan error, 1)
	go func() { done <- m.Disable(context.Background(), "m1") }()
	require.Eventually(t, m.Busy, time.Second, time.Millisecond)

	err := m.Delete(context.Background(), "m1")
	assert.ErrorIs(t, err, query.ErrMutationPending)
	_, err = m.Create(context.Background(), api.NewMonitorPayload("x", "y"))
	assert.ErrorIs(t, err, query.ErrMutationPending)

	close(client.block)
	require.NoError(t, <-done)
	assert.False(t, m.Busy())
	assert.Equal(t, []string{"disable m1"}, client.calls)
}

func TestEvents_Annotate(t *testing.T) {
	client := &fakeClient{}
	s := seededStore(t)
	e := NewEvents(client, s, nil)
	note := "planned maintenance"

	require.NoError(t, e.Annotate(context.Background(), "e1", api.EventPatch{Note: &note}))

	assert.Equal(t, []string{"annotate e1"}, client.calls)
	assert.True(t, stale(t, s, query.EventsKey(1, 100, "")))
	assert.True(t, stale(t, s, query.MonitorKey("m1", 20)))
	assert.False(t, stale(t, s, query.MonitorsKey(1, 100, 3)))
	assert.False(t, e.Busy())
}

func TestEvents_AnnotateFailure(t *testing.T) {
	client := &fakeClient{err: errors.New("connection refused")}
	s := seededStore(t)
	e := NewEvents(client, s, nil)
	fp := true

	err := e.Annotate(context.Background(), "e1", api.EventPatch{FalsePositive: &fp})
	require.Error(t, err)
	assert.False(t, stale(t, s, query.EventsKey(1, 100, "")))
}
