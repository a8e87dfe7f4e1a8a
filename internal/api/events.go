package api

import (
	"context"
	"fmt"
	"net/http"
)

// ListEvents fetches one page of important events, optionally for a single
// monitor.
func (c *Client) ListEvents(ctx context.Context, page PageRequest, monitorID string) (*Page[Event], error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	q := page.values()
	if monitorID != "" {
		q.Set("monitorId", monitorID)
	}

	var resp Page[Event]
	if err := c.doJSON(ctx, http.MethodGet, "/event", q, nil, &resp); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if resp.Data == nil {
		resp.Data = []Event{}
	}
	return &resp, nil
}

// UpdateEvent annotates an event.
func (c *Client) UpdateEvent(ctx context.Context, id string, patch EventPatch) error {
	if err := requireID("event", id); err != nil {
		return err
	}
	if patch.IsEmpty() {
		return &ValidationError{Problems: []string{"annotation changes no fields"}}
	}
	if err := c.doJSON(ctx, http.MethodPatch, "/event/"+escapeID(id), nil, patch, nil); err != nil {
		return fmt.Errorf("update event %s: %w", id, err)
	}
	return nil
}
