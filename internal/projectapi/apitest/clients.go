package apitest

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/fyrsmithlabs/projectboard/internal/apiclient"
	"github.com/fyrsmithlabs/projectboard/internal/logging"
	"github.com/fyrsmithlabs/projectboard/internal/projectapi"
)

// APIClient returns a transport pointed at s, authenticating with s.Token.
func (s *Server) APIClient(tb testing.TB) *apiclient.Client {
	tb.Helper()

	opts := apiclient.Options{BaseURL: s.URL}
	if s.Token != "" {
		opts.TokenSource = oauth2.StaticTokenSource(&oauth2.Token{AccessToken: s.Token})
	}
	c, err := apiclient.New(opts)
	require.NoError(tb, err)
	return c
}

// ProjectClient returns a Project Service client pointed at s.
func (s *Server) ProjectClient(tb testing.TB, logger *logging.Logger) *projectapi.Client {
	tb.Helper()
	return projectapi.NewClient(s.APIClient(tb), logger)
}
