package query

import (
	"context"
	"sync"
	"time"
)

// State is what an Observer currently has to show.
type State[T any] struct {
	Key     Key
	Data    T
	HasData bool
	// Placeholder is set when Data belongs to a previous key and is shown
	// while the current key has nothing cached yet.
	Placeholder bool
	Stale       bool
	Err         error
	UpdatedAt   time.Time
}

// Observer is one consumer's view of a query whose key changes over time,
// such as a paged table. Results for a key the observer has moved away from
// are reported as ErrSuperseded and never replace the current key's state.
type Observer[T any] struct {
	store *Store
	load  func(context.Context, Key) (T, error)

	mu          sync.Mutex
	key         Key
	gen         uint64
	placeholder T
	hasHolder   bool
	lastErr     error
}

// NewObserver creates an observer of key. load fetches the data for any key
// the observer is pointed at.
func NewObserver[T any](store *Store, key Key, load func(context.Context, Key) (T, error)) *Observer[T] {
	return &Observer[T]{store: store, key: key, load: load}
}

// Key returns the key currently observed.
func (o *Observer[T]) Key() Key {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.key
}

// SetKey points the observer at k. Any load in flight for the previous key
// is superseded. Data of the previous key is kept as a placeholder until k
// has data of its own.
func (o *Observer[T]) SetKey(k Key) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if k == o.key {
		return
	}
	if data, ok := Peek[T](o.store, o.key); ok {
		o.placeholder = data
		o.hasHolder = true
	}
	o.key = k
	o.gen++
	o.lastErr = nil
}

// Fetch reads the current key through the cache.
func (o *Observer[T]) Fetch(ctx context.Context) (State[T], error) {
	return o.run(ctx, false)
}

// Refresh revalidates the current key regardless of freshness.
func (o *Observer[T]) Refresh(ctx context.Context) (State[T], error) {
	return o.run(ctx, true)
}

// Current returns the state without loading anything.
func (o *Observer[T]) Current() State[T] {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.currentLocked()
}

func (o *Observer[T]) run(ctx context.Context, force bool) (State[T], error) {
	o.mu.Lock()
	key, gen := o.key, o.gen
	o.mu.Unlock()

	fn := func(ctx context.Context) (T, error) { return o.load(ctx, key) }
	var err error
	if force {
		_, err = Revalidate(ctx, o.store, key, fn)
	} else {
		_, err = Fetch(ctx, o.store, key, fn)
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.gen != gen {
		return o.currentLocked(), ErrSuperseded
	}
	o.lastErr = err
	return o.currentLocked(), err
}

func (o *Observer[T]) currentLocked() State[T] {
	st := State[T]{Key: o.key, Err: o.lastErr}
	if snap, ok := o.store.Snapshot(o.key); ok {
		st.Stale = snap.Stale
		st.UpdatedAt = snap.UpdatedAt
		if st.Err == nil {
			st.Err = snap.Err
		}
		if snap.HasData {
			if data, ok := snap.Data.(T); ok {
				st.Data = data
				st.HasData = true
				return st
			}
		}
	}
	if o.hasHolder {
		st.Data = o.placeholder
		st.HasData = true
		st.Placeholder = true
	}
	return st
}
