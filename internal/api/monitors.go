package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// ListMonitors fetches one page of monitors. lastEventsLimit bounds the
// per-monitor LastEvents; 0 leaves it to the backend.
func (c *Client) ListMonitors(ctx context.Context, page PageRequest, lastEventsLimit int) (*Page[Monitor], error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	q := page.values()
	if lastEventsLimit > 0 {
		q.Set("lastEventsLimit", strconv.Itoa(lastEventsLimit))
	}

	var resp Page[Monitor]
	if err := c.doJSON(ctx, http.MethodGet, "/monitor", q, nil, &resp); err != nil {
		return nil, fmt.Errorf("list monitors: %w", err)
	}
	if resp.Data == nil {
		resp.Data = []Monitor{}
	}
	return &resp, nil
}

// GetMonitor fetches one monitor with up to lastEventsLimit recent events.
func (c *Client) GetMonitor(ctx context.Context, id string, lastEventsLimit int) (*MonitorDetail, error) {
	if err := requireID("monitor", id); err != nil {
		return nil, err
	}
	var q url.Values
	if lastEventsLimit > 0 {
		q = url.Values{"lastEventsLimit": {strconv.Itoa(lastEventsLimit)}}
	}

	var detail MonitorDetail
	if err := c.doJSON(ctx, http.MethodGet, "/monitor/"+escapeID(id), q, nil, &detail); err != nil {
		return nil, fmt.Errorf("get monitor %s: %w", id, err)
	}
	return &detail, nil
}

// CreateMonitor creates a monitor and returns its id.
func (c *Client) CreateMonitor(ctx context.Context, payload MonitorPayload) (string, error) {
	if payload.AlertEmails == nil {
		payload.AlertEmails = []string{}
	}
	if payload.RequestHeaders == nil {
		payload.RequestHeaders = []string{}
	}
	if err := validateStruct(payload); err != nil {
		return "", err
	}

	var id string
	if err := c.doJSON(ctx, http.MethodPost, "/monitor", nil, payload, &id); err != nil {
		return "", fmt.Errorf("create monitor %q: %w", payload.Name, err)
	}
	return id, nil
}

// UpdateMonitor applies a partial update to a monitor.
func (c *Client) UpdateMonitor(ctx context.Context, id string, patch MonitorPatch) error {
	if err := requireID("monitor", id); err != nil {
		return err
	}
	if patch.IsEmpty() {
		return &ValidationError{Problems: []string{"update changes no fields"}}
	}
	if err := validateStruct(patch); err != nil {
		return err
	}

	if err := c.doJSON(ctx, http.MethodPatch, "/monitor/"+escapeID(id), nil, patch, nil); err != nil {
		return fmt.Errorf("update monitor %s: %w", id, err)
	}
	return nil
}

// EnableMonitor resumes probing of a paused monitor.
func (c *Client) EnableMonitor(ctx context.Context, id string) error {
	if err := requireID("monitor", id); err != nil {
		return err
	}
	if err := c.doJSON(ctx, http.MethodPost, "/monitor/enable/"+escapeID(id), nil, nil, nil); err != nil {
		return fmt.Errorf("enable monitor %s: %w", id, err)
	}
	return nil
}

// DisableMonitor pauses probing of a monitor.
func (c *Client) DisableMonitor(ctx context.Context, id string) error {
	if err := requireID("monitor", id); err != nil {
		return err
	}
	if err := c.doJSON(ctx, http.MethodPost, "/monitor/disable/"+escapeID(id), nil, nil, nil); err != nil {
		return fmt.Errorf("disable monitor %s: %w", id, err)
	}
	return nil
}

// DeleteMonitor removes a monitor.
func (c *Client) DeleteMonitor(ctx context.Context, id string) error {
	if err := requireID("monitor", id); err != nil {
		return err
	}
	if err := c.doJSON(ctx, http.MethodDelete, "/monitor/"+escapeID(id), nil, nil, nil); err != nil {
		return fmt.Errorf("delete monitor %s: %w", id, err)
	}
	return nil
}
