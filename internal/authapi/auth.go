// Package authapi is the client for the auth service.
package authapi

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"

	"github.com/fyrsmithlabs/projectboard/internal/apiclient"
	"github.com/fyrsmithlabs/projectboard/internal/config"
)

// MePath is the current-user endpoint.
const MePath = "/api/v1/auth/me"

// User is the authenticated user.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// TokenSource returns a static bearer token source for the configured
// API token, or nil when no token is set.
func TokenSource(cfg config.APIConfig) oauth2.TokenSource {
	if !cfg.Token.IsSet() {
		return nil
	}
	return oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: cfg.Token.Value(),
		TokenType:   "Bearer",
	})
}

// Client talks to the auth service.
type Client struct {
	api *apiclient.Client
}

// NewClient creates an auth client.
func NewClient(api *apiclient.Client) *Client {
	return &Client{api: api}
}

// Me returns the user the configured token belongs to.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var u User
	if err := c.api.Get(ctx, MePath, nil, &u); err != nil {
		return nil, fmt.Errorf("get current user: %w", err)
	}
	return &u, nil
}
