package query

import (
	"context"
	"errors"
	"sync"
)

// ErrMutationPending is returned when a mutation is submitted while a
// previous submission of the same mutation is still running.
var ErrMutationPending = errors.New("an earlier request is still in progress")

// MutationState is the lifecycle of a Mutation.
type MutationState int

const (
	MutationIdle MutationState = iota
	MutationPending
	MutationSucceeded
	MutationFailed
)

func (s MutationState) String() string {
	switch s {
	case MutationIdle:
		return "idle"
	case MutationPending:
		return "pending"
	case MutationSucceeded:
		return "succeeded"
	case MutationFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Mutation wraps a backend write. On success it invalidates the configured
// resources in the store; on failure nothing in the store changes.
type Mutation[In, Out any] struct {
	store       *Store
	fn          func(context.Context, In) (Out, error)
	invalidates []Resource

	mu    sync.Mutex
	state MutationState
	err   error
}

// NewMutation creates a mutation that runs fn and invalidates resources on
// success.
func NewMutation[In, Out any](store *Store, fn func(context.Context, In) (Out, error), invalidates ...Resource) *Mutation[In, Out] {
	return &Mutation[In, Out]{store: store, fn: fn, invalidates: invalidates}
}

// Run submits the mutation. Concurrent submissions are rejected with
// ErrMutationPending.
func (m *Mutation[In, Out]) Run(ctx context.Context, in In) (Out, error) {
	var zero Out

	m.mu.Lock()
	if m.state == MutationPending {
		m.mu.Unlock()
		return zero, ErrMutationPending
	}
	m.state = MutationPending
	m.err = nil
	m.mu.Unlock()

	out, err := m.fn(ctx, in)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.state = MutationFailed
		m.err = err
		return zero, err
	}
	m.state = MutationSucceeded
	if m.store != nil && len(m.invalidates) > 0 {
		m.store.Invalidate(m.invalidates...)
	}
	return out, nil
}

// State returns the current lifecycle state.
func (m *Mutation[In, Out]) State() MutationState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Pending reports whether a submission is running.
func (m *Mutation[In, Out]) Pending() bool {
	return m.State() == MutationPending
}

// Err returns the error of the last failed submission.
func (m *Mutation[In, Out]) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

// Reset returns a settled mutation to idle.
func (m *Mutation[In, Out]) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != MutationPending {
		m.state = MutationIdle
		m.err = nil
	}
}
