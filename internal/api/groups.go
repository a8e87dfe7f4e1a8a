package api

import (
	"context"
	"fmt"
	"net/http"
)

// ListGroups fetches one page of monitor groups.
func (c *Client) ListGroups(ctx context.Context, page PageRequest) (*Page[Group], error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}

	var resp Page[Group]
	if err := c.doJSON(ctx, http.MethodGet, "/group", page.values(), nil, &resp); err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	if resp.Data == nil {
		resp.Data = []Group{}
	}
	return &resp, nil
}
