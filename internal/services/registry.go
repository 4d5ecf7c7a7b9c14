package services

import (
	"fmt"

	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/fyrsmithlabs/projectboard/internal/apiclient"
	"github.com/fyrsmithlabs/projectboard/internal/authapi"
	"github.com/fyrsmithlabs/projectboard/internal/config"
	"github.com/fyrsmithlabs/projectboard/internal/dashboardapi"
	"github.com/fyrsmithlabs/projectboard/internal/logging"
	"github.com/fyrsmithlabs/projectboard/internal/projectapi"
)

// Registry provides access to all projectboard API clients.
// Use accessor methods to retrieve individual clients.
type Registry interface {
	Auth() *authapi.Client
	Projects() projectapi.Service
	Dashboard() *dashboardapi.Client
}

// Options configures the registry with client instances.
type Options struct {
	Auth      *authapi.Client
	Projects  projectapi.Service
	Dashboard *dashboardapi.Client
}

// registry is the concrete implementation of Registry.
type registry struct {
	auth      *authapi.Client
	projects  projectapi.Service
	dashboard *dashboardapi.Client
}

// NewRegistry creates a new service registry.
func NewRegistry(opts Options) Registry {
	return &registry{
		auth:      opts.Auth,
		projects:  opts.Projects,
		dashboard: opts.Dashboard,
	}
}

// New wires HTTP clients for every service from configuration. All
// clients share one transport, token source, rate limiter and tracer. A nil
// tracer falls back to the global provider.
func New(cfg *config.Config, logger *logging.Logger, tracer trace.Tracer) (Registry, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	var limiter *rate.Limiter
	if cfg.API.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.API.RateLimit), cfg.API.Burst)
	}

	api, err := apiclient.New(apiclient.Options{
		BaseURL:     cfg.API.BaseURL,
		Timeout:     cfg.API.Timeout.Duration(),
		TokenSource: authapi.TokenSource(cfg.API),
		Limiter:     limiter,
		Tracer:      tracer,
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating api client: %w", err)
	}

	return NewRegistry(Options{
		Auth:      authapi.NewClient(api),
		Projects:  projectapi.NewClient(api, logger),
		Dashboard: dashboardapi.NewClient(api),
	}), nil
}

func (r *registry) Auth() *authapi.Client           { return r.auth }
func (r *registry) Projects() projectapi.Service    { return r.projects }
func (r *registry) Dashboard() *dashboardapi.Client { return r.dashboard }
