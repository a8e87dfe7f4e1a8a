package cli

import (
	"context"

	"github.com/uptimestars/starsctl/internal/api"
	"github.com/uptimestars/starsctl/internal/query"
)

// Page size used when a command walks every page of a list.
const walkPageSize = 100

// fetchMonitors loads one page of monitors through the store.
func (s *session) fetchMonitors(ctx context.Context, req api.PageRequest, lastEvents int) (*api.Page[api.Monitor], error) {
	return query.Fetch(ctx, s.store, query.MonitorsKey(req.Number, req.Size, lastEvents),
		func(ctx context.Context) (*api.Page[api.Monitor], error) {
			return s.client.ListMonitors(ctx, req, lastEvents)
		})
}

// fetchMonitor loads one monitor's detail through the store.
func (s *session) fetchMonitor(ctx context.Context, id string, lastEvents int) (*api.MonitorDetail, error) {
	return query.Fetch(ctx, s.store, query.MonitorKey(id, lastEvents),
		func(ctx context.Context) (*api.MonitorDetail, error) {
			return s.client.GetMonitor(ctx, id, lastEvents)
		})
}

// fetchEvents loads one page of events through the store.
func (s *session) fetchEvents(ctx context.Context, req api.PageRequest, monitorID string) (*api.Page[api.Event], error) {
	return query.Fetch(ctx, s.store, query.EventsKey(req.Number, req.Size, monitorID),
		func(ctx context.Context) (*api.Page[api.Event], error) {
			return s.client.ListEvents(ctx, req, monitorID)
		})
}

// allMonitors walks every page of the monitor list.
func (s *session) allMonitors(ctx context.Context, lastEvents int) ([]api.Monitor, error) {
	var all []api.Monitor
	req := api.FirstPage(walkPageSize)
	for {
		page, err := s.fetchMonitors(ctx, req, lastEvents)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Data...)
		if !page.HasNextPage || len(page.Data) == 0 {
			return all, nil
		}
		req = req.Next()
	}
}

// allGroups walks every page of the group list.
func (s *session) allGroups(ctx context.Context) ([]api.Group, error) {
	var all []api.Group
	req := api.FirstPage(walkPageSize)
	for {
		page, err := query.Fetch(ctx, s.store, query.GroupsKey(req.Number, req.Size),
			func(ctx context.Context) (*api.Page[api.Group], error) {
				return s.client.ListGroups(ctx, req)
			})
		if err != nil {
			return nil, err
		}
		all = append(all, page.Data...)
		if !page.HasNextPage || len(page.Data) == 0 {
			return all, nil
		}
		req = req.Next()
	}
}
