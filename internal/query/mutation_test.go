package query

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend holds one monitor's active flag.
type fakeBackend struct {
	mu     sync.Mutex
	active bool
	reads  int
}

func (b *fakeBackend) list(context.Context) ([]bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.reads++
	return []bool{b.active}, nil
}

func (b *fakeBackend) disable(_ context.Context, id string) (struct{}, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.active = false
	return struct{}{}, nil
}

func TestMutation_DisableReflectedOnNextRead(t *testing.T) {
	backend := &fakeBackend{active: true}
	s := NewStore(Options{StaleTime: time.Hour})
	key := MonitorsKey(1, 100, 3)
	ctx := context.Background()

	list, err := Fetch(ctx, s, key, backend.list)
	require.NoError(t, err)
	assert.Equal(t, []bool{true}, list)

	disable := NewMutation(s, backend.disable, ResourceMonitors, ResourceMonitor)
	_, err = disable.Run(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, MutationSucceeded, disable.State())

	list, err = Fetch(ctx, s, key, backend.list)
	require.NoError(t, err)
	assert.Equal(t, []bool{false}, list, "cached list was invalidated")
	assert.Equal(t, 2, backend.reads)
}

func TestMutation_FailureLeavesCacheAlone(t *testing.T) {
	s := NewStore(Options{StaleTime: time.Hour})
	key := MonitorsKey(1, 100, 3)
	ctx := context.Background()
	_, err := Fetch(ctx, s, key, func(context.Context) (string, error) { return "cached", nil })
	require.NoError(t, err)

	boom := errors.New("500 Internal Server Error")
	m := NewMutation(s, func(context.Context, string) (string, error) { return "", boom }, ResourceMonitors)

	_, err = m.Run(ctx, "m1")
	require.ErrorIs(t, err, boom)
	assert.Equal(t, MutationFailed, m.State())
	assert.ErrorIs(t, m.Err(), boom)

	snap, _ := s.Snapshot(key)
	assert.False(t, snap.Stale)

	m.Reset()
	assert.Equal(t, MutationIdle, m.State())
	assert.NoError(t, m.Err())
}

func TestMutation_RejectsConcurrentRuns(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	m := NewMutation(nil, func(ctx context.Context, id string) (string, error) {
		close(started)
		<-release
		return "created-" + id, nil
	})

	done := make(chan string, 1)
	go func() {
		out, err := m.Run(context.Background(), "a")
		assert.NoError(t, err)
		done <- out
	}()
	<-started

	assert.True(t, m.Pending())
	_, err := m.Run(context.Background(), "b")
	assert.ErrorIs(t, err, ErrMutationPending)

	m.Reset()
	assert.Equal(t, MutationPending, m.State(), "reset does not interrupt a running submission")

	close(release)
	assert.Equal(t, "created-a", <-done)
	assert.False(t, m.Pending())
}

func TestMutationState_String(t *testing.T) {
	assert.Equal(t, "idle", MutationIdle.String())
	assert.Equal(t, "pending", MutationPending.String())
	assert.Equal(t, "succeeded", MutationSucceeded.String())
	assert.Equal(t, "failed", MutationFailed.String())
	assert.Equal(t, "unknown", MutationState(42).String())
}
