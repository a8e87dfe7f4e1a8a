package query

import (
	"context"
	"sync"
	"time"
)

// Poller runs a function on a fixed interval until stopped.
type Poller struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// StartPolling runs fn immediately and then on every tick of interval, never
// overlapping itself, until ctx ends or Stop is called. A tick that fires
// while fn is still running is skipped.
func StartPolling(ctx context.Context, interval time.Duration, fn func(context.Context)) *Poller {
	ctx, cancel := context.WithCancel(ctx)
	p := &Poller{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(p.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		fn(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if ctx.Err() != nil {
					return
				}
				fn(ctx)
			}
		}
	}()

	return p
}

// Stop ends polling and waits for a running fn to return. It is safe to call
// more than once and on a nil Poller.
func (p *Poller) Stop() {
	if p == nil {
		return
	}
	p.once.Do(p.cancel)
	<-p.done
}

// Done is closed once the polling loop has exited.
func (p *Poller) Done() <-chan struct{} {
	return p.done
}
