package dashboard

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/uptimestars/starsctl/internal/actions"
	"github.com/uptimestars/starsctl/internal/aggregate"
	"github.com/uptimestars/starsctl/internal/api"
	"github.com/uptimestars/starsctl/internal/logger"
	"github.com/uptimestars/starsctl/internal/query"
)

// Client is the backend surface the dashboard reads and writes through.
// *api.Client implements it.
type Client interface {
	actions.MonitorAPI
	actions.EventAPI
	ListMonitors(ctx context.Context, page api.PageRequest, lastEventsLimit int) (*api.Page[api.Monitor], error)
	GetMonitor(ctx context.Context, id string, lastEventsLimit int) (*api.MonitorDetail, error)
	ListEvents(ctx context.Context, page api.PageRequest, monitorID string) (*api.Page[api.Event], error)
	ListGroups(ctx context.Context, page api.PageRequest) (*api.Page[api.Group], error)
}

// Options configures the dashboard.
type Options struct {
	// Store is shared with the caller; nil creates a private store that
	// always revalidates.
	Store *query.Store

	Interval          time.Duration
	PageSize          int
	LastEventsLimit   int
	DetailEventsLimit int
	EventsPageSize    int
	StripWindow       int

	Logger  logger.Logger
	Version string
	BaseURL string

	// Now is the clock for relative times; nil means time.Now.
	Now func() time.Time
}

func (o *Options) setDefaults() {
	if o.Interval <= 0 {
		o.Interval = 5 * time.Second
	}
	if o.PageSize < 1 {
		o.PageSize = 100
	}
	if o.LastEventsLimit < 1 {
		o.LastEventsLimit = 3
	}
	if o.DetailEventsLimit < 1 {
		o.DetailEventsLimit = aggregate.DefaultWindow
	}
	if o.EventsPageSize < 1 {
		o.EventsPageSize = 100
	}
	if o.StripWindow < 1 {
		o.StripWindow = aggregate.DefaultWindow
	}
	if o.Logger == nil {
		o.Logger = logger.Noop()
	}
	if o.Store == nil {
		o.Store = query.NewStore(query.Options{Logger: o.Logger})
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

// loader performs the reads of each view. It holds no view state and is
// safe to use from poller goroutines.
type loader struct {
	client Client
	store  *query.Store
	opts   Options
}

func (l *loader) monitorsPage(ctx context.Context, k query.Key) (*api.Page[api.Monitor], error) {
	return l.client.ListMonitors(ctx, api.PageRequest{Number: k.Page, Size: k.Size}, l.opts.LastEventsLimit)
}

func (l *loader) eventsPage(ctx context.Context, k query.Key) (*api.Page[api.Event], error) {
	params, err := url.ParseQuery(k.Params)
	if err != nil {
		return nil, err
	}
	return l.client.ListEvents(ctx, api.PageRequest{Number: k.Page, Size: k.Size}, params.Get("monitorId"))
}

// groups returns the loaded groups, falling back to the last good page when
// the reload fails.
func (l *loader) groups(ctx context.Context) ([]api.Group, error) {
	key := query.GroupsKey(1, groupsPageSize)
	page, err := query.Fetch(ctx, l.store, key, func(ctx context.Context) (*api.Page[api.Group], error) {
		return l.client.ListGroups(ctx, api.FirstPage(groupsPageSize))
	})
	if err != nil {
		if prev, ok := query.Peek[*api.Page[api.Group]](l.store, key); ok && prev != nil {
			return prev.Data, err
		}
		return nil, err
	}
	return page.Data, nil
}

// list loads the monitor list view.
func (l *loader) list(ctx context.Context, gen uint64, polled bool,
	monitors *query.Observer[*api.Page[api.Monitor]], events *query.Observer[*api.Page[api.Event]],
) listLoadedMsg {
	msg := listLoadedMsg{gen: gen, polled: polled}

	var errs []error
	st, err := monitors.Fetch(ctx)
	msg.monitors = st
	errs = append(errs, relevant(err))

	msg.groups, err = l.groups(ctx)
	errs = append(errs, relevant(err))

	msg.events, err = events.Refresh(ctx)
	errs = append(errs, relevant(err))

	msg.err = errors.Join(errs...)
	msg.at = l.opts.Now()
	return msg
}

// detail loads one monitor's detail view.
func (l *loader) detail(ctx context.Context, gen uint64, polled bool, id string,
	events *query.Observer[*api.Page[api.Event]],
) detailLoadedMsg {
	msg := detailLoadedMsg{gen: gen, polled: polled, id: id}
	key := query.MonitorKey(id, l.opts.DetailEventsLimit)

	var errs []error
	_, err := query.Revalidate(ctx, l.store, key, func(ctx context.Context) (*api.MonitorDetail, error) {
		return l.client.GetMonitor(ctx, id, l.opts.DetailEventsLimit)
	})
	errs = append(errs, relevant(err))
	if d, ok := query.Peek[*api.MonitorDetail](l.store, key); ok {
		msg.detail = d
	}

	st, err := events.Refresh(ctx)
	msg.events = st
	errs = append(errs, relevant(err))

	msg.err = errors.Join(errs...)
	msg.at = l.opts.Now()
	return msg
}

// relevant drops errors that only mean the view moved on.
func relevant(err error) error {
	if errors.Is(err, query.ErrSuperseded) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
