// Package dashboardapi is the client for the dashboard summary endpoint.
package dashboardapi

import (
	"context"
	"fmt"

	"github.com/fyrsmithlabs/projectboard/internal/apiclient"
)

// SummaryPath is the dashboard summary endpoint.
const SummaryPath = "/api/v1/dashboard/summary"

// Summary holds the counters shown in the dashboard header.
type Summary struct {
	ProjectCount int `json:"project_count"`
	TagCount     int `json:"tag_count"`
}

// Client talks to the dashboard service.
type Client struct {
	api *apiclient.Client
}

// NewClient creates a dashboard client.
func NewClient(api *apiclient.Client) *Client {
	return &Client{api: api}
}

// Summary returns the current user's dashboard counters.
func (c *Client) Summary(ctx context.Context) (*Summary, error) {
	var s Summary
	if err := c.api.Get(ctx, SummaryPath, nil, &s); err != nil {
		return nil, fmt.Errorf("get dashboard summary: %w", err)
	}
	return &s, nil
}
