package dashboard

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/uptimestars/starsctl/internal/query"
)

// feed streams the loads of one view into the event loop. The poller owns
// the loading; the event loop only receives from results.
type feed struct {
	poller  *query.Poller
	results chan tea.Msg
}

// startFeed polls load every interval, starting now.
func startFeed(interval time.Duration, load func(context.Context) tea.Msg) *feed {
	f := &feed{results: make(chan tea.Msg, 1)}
	f.poller = query.StartPolling(context.Background(), interval, func(ctx context.Context) {
		msg := load(ctx)
		if ctx.Err() != nil {
			return
		}
		select {
		case f.results <- msg:
		case <-ctx.Done():
		}
	})
	return f
}

// wait returns a command that receives the next result, or nil once the
// feed has stopped.
func (f *feed) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-f.results:
			return msg
		case <-f.poller.Done():
			return nil
		}
	}
}

// stop ends polling. Safe on a nil feed.
func (f *feed) stop() {
	if f == nil {
		return
	}
	f.poller.Stop()
}
