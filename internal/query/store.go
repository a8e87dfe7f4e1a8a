package query

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/uptimestars/starsctl/internal/logger"
	"golang.org/x/sync/singleflight"
)

// ErrSuperseded is returned to an Observer whose key changed while a load
// for the old key was in flight.
var ErrSuperseded = errors.New("query superseded by a newer key")

// Options configures a Store.
type Options struct {
	// StaleTime is how long a successful result is served without reloading.
	// Zero means every Fetch revalidates.
	StaleTime time.Duration
	Logger    logger.Logger
	// Now is the clock; nil means time.Now.
	Now func() time.Time
}

// Stats counts cache outcomes since the store was created.
type Stats struct {
	Hits     uint64 // served from a fresh entry
	Misses   uint64 // went to the loader
	Discards uint64 // resolved after a newer load for the same key
	Failures uint64 // loader returned an error
}

// Snapshot is a point-in-time view of one entry.
type Snapshot struct {
	Data      interface{}
	HasData   bool
	Err       error
	UpdatedAt time.Time
	// Stale is set when the entry was invalidated or has outlived StaleTime.
	Stale bool
}

type entry struct {
	data       interface{}
	hasData    bool
	err        error
	updatedAt  time.Time
	appliedSeq uint64
	invalid    bool
}

// Store is an explicit query cache. It is safe for concurrent use.
type Store struct {
	mu            sync.Mutex
	entries       map[Key]*entry
	inflight      map[Key]int
	invalidatedAt map[Resource]uint64
	seq           uint64
	stats         Stats

	group     singleflight.Group
	staleTime time.Duration
	log       logger.Logger
	now       func() time.Time
}

// NewStore creates an empty store.
func NewStore(opts Options) *Store {
	s := &Store{
		entries:       make(map[Key]*entry),
		inflight:      make(map[Key]int),
		invalidatedAt: make(map[Resource]uint64),
		staleTime:     opts.StaleTime,
		log:           opts.Logger,
		now:           opts.Now,
	}
	if s.log == nil {
		s.log = logger.Noop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Fetch returns the cached value for key when it is fresh, and otherwise
// loads it with fn.
func Fetch[T any](ctx context.Context, s *Store, key Key, fn func(context.Context) (T, error)) (T, error) {
	if v, ok := s.fresh(key); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}
	return Revalidate(ctx, s, key, fn)
}

// Revalidate loads key with fn regardless of freshness. A load already in
// flight for key is joined rather than duplicated.
func Revalidate[T any](ctx context.Context, s *Store, key Key, fn func(context.Context) (T, error)) (T, error) {
	var zero T

	s.mu.Lock()
	s.stats.Misses++
	s.mu.Unlock()

	ch := s.group.DoChan(key.String(), func() (interface{}, error) {
		seq := s.begin(key)
		v, err := fn(ctx)
		return s.apply(key, seq, v, err)
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		typed, ok := res.Val.(T)
		if !ok && res.Val != nil {
			return zero, errors.New("query: cached value has unexpected type for " + key.String())
		}
		return typed, nil
	}
}

// Peek returns the cached data for key regardless of staleness.
func Peek[T any](s *Store, key Key) (T, bool) {
	var zero T
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok || !e.hasData {
		return zero, false
	}
	typed, ok := e.data.(T)
	return typed, ok
}

// Snapshot returns the entry for key, and false when nothing was ever loaded.
func (s *Store) Snapshot(key Key) (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return Snapshot{}, false
	}
	return Snapshot{
		Data:      e.data,
		HasData:   e.hasData,
		Err:       e.err,
		UpdatedAt: e.updatedAt,
		Stale:     !s.isFreshLocked(e),
	}, true
}

// Invalidate marks every entry under the given resources stale. In-flight
// loads for them are forgotten so the next read starts a new request, and
// their results are stored stale when they resolve.
func (s *Store) Invalidate(resources ...Resource) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range resources {
		s.invalidatedAt[r] = s.seq
		n := 0
		for k, e := range s.entries {
			if k.Resource == r {
				e.invalid = true
				n++
			}
		}
		for k := range s.inflight {
			if k.Resource == r {
				s.group.Forget(k.String())
			}
		}
		s.log.Debug("invalidated %s (%d entries)", r, n)
	}
}

// Remove drops every entry under the given resources.
func (s *Store) Remove(resources ...Resource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range resources {
		for k := range s.entries {
			if k.Resource == r {
				delete(s.entries, k)
			}
		}
	}
}

// Len returns the number of cached entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Stats returns a copy of the cache counters.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

func (s *Store) fresh(key Key) (interface{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok || !s.isFreshLocked(e) {
		return nil, false
	}
	s.stats.Hits++
	return e.data, true
}

func (s *Store) isFreshLocked(e *entry) bool {
	if !e.hasData || e.err != nil || e.invalid {
		return false
	}
	return s.staleTime > 0 && s.now().Sub(e.updatedAt) < s.staleTime
}

// begin numbers a new load for key.
func (s *Store) begin(key Key) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.inflight[key]++
	return s.seq
}

// apply records a resolved load. A load older than the one already applied
// for the key is discarded and the newer outcome is returned instead.
func (s *Store) apply(key Key, seq uint64, v interface{}, err error) (interface{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inflight[key]--; s.inflight[key] <= 0 {
		delete(s.inflight, key)
	}

	e, ok := s.entries[key]
	if !ok {
		e = &entry{}
		s.entries[key] = e
	}

	if seq < e.appliedSeq {
		s.stats.Discards++
		s.log.Debug("discarded load #%d of %s; #%d already applied", seq, key, e.appliedSeq)
		if e.err != nil {
			return nil, e.err
		}
		return e.data, nil
	}
	e.appliedSeq = seq

	if err != nil {
		s.stats.Failures++
		e.err = err
		s.log.Debug("load #%d of %s failed: %v", seq, key, err)
		return nil, err
	}

	e.data = v
	e.hasData = true
	e.err = nil
	e.updatedAt = s.now()
	e.invalid = seq <= s.invalidatedAt[key.Resource]
	if e.invalid {
		s.log.Debug("load #%d of %s resolved after invalidation; stored stale", seq, key)
	}
	return v, nil
}
