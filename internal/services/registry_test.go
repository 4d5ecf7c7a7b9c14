package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/projectboard/internal/config"
	"github.com/fyrsmithlabs/projectboard/internal/projectapi"
	"github.com/fyrsmithlabs/projectboard/internal/projectapi/apitest"
	"github.com/fyrsmithlabs/projectboard/internal/services"
	"github.com/fyrsmithlabs/projectboard/internal/telemetry"
)

func TestNewRegistry(t *testing.T) {
	t.Run("returns configured clients", func(t *testing.T) {
		srv := apitest.New(t)
		projects := srv.ProjectClient(t, nil)

		reg := services.NewRegistry(services.Options{Projects: projects})
		require.NotNil(t, reg)
		assert.Equal(t, projects, reg.Projects())
	})

	t.Run("allows nil clients", func(t *testing.T) {
		reg := services.NewRegistry(services.Options{})
		require.NotNil(t, reg)
		assert.Nil(t, reg.Auth())
		assert.Nil(t, reg.Projects())
		assert.Nil(t, reg.Dashboard())
	})
}

func TestNew_WiresAllClients(t *testing.T) {
	srv := apitest.New(t)
	srv.Token = "tok"
	srv.Store.Seed(2, "go")

	cfg := config.Default()
	cfg.API.BaseURL = srv.URL
	cfg.API.Token = config.Secret("tok")
	cfg.API.RateLimit = 100
	cfg.API.Burst = 10
	cfg.API.Timeout = config.Duration(5 * time.Second)

	reg, err := services.New(cfg, nil, nil)
	require.NoError(t, err)
	ctx := context.Background()

	user, err := reg.Auth().Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, srv.User.ID, user.ID)

	res := reg.Projects().GetMyProjectsSafe(ctx, projectapi.ListParams{Current: 1})
	require.True(t, res.Success)
	assert.Equal(t, 2, res.Data.Total)

	summary, err := reg.Dashboard().Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.ProjectCount)
	assert.Equal(t, 1, summary.TagCount)
}

func TestNew_UsesTracer(t *testing.T) {
	srv := apitest.New(t)
	srv.Token = "tok"
	srv.Store.Seed(1, "go")

	cfg := config.Default()
	cfg.API.BaseURL = srv.URL
	cfg.API.Token = config.Secret("tok")

	tel := telemetry.NewTestTelemetry()
	reg, err := services.New(cfg, nil, tel.Tracer("services-test"))
	require.NoError(t, err)

	res := reg.Projects().GetMyProjectsSafe(context.Background(), projectapi.ListParams{Current: 1})
	require.True(t, res.Success)

	tel.AssertSpanExists(t, "GET "+projectapi.MyProjectsPath)
}

func TestNew_Errors(t *testing.T) {
	_, err := services.New(nil, nil, nil)
	assert.Error(t, err)

	cfg := config.Default()
	cfg.API.BaseURL = "not a url"
	_, err = services.New(cfg, nil, nil)
	assert.Error(t, err)
}
