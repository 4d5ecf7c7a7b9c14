// Package http provides the optional local HTTP server exposing health
// and Prometheus metrics while the dashboard runs.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/projectboard/internal/logging"
	"github.com/fyrsmithlabs/projectboard/internal/telemetry"
)

// Server provides the /health and /metrics endpoints.
type Server struct {
	echo      *echo.Echo
	logger    *logging.Logger
	telemetry *telemetry.Telemetry
	config    *Config
}

// Config holds HTTP server configuration.
type Config struct {
	Addr string
}

// NewServer creates a new HTTP server. tel may be nil.
func NewServer(logger *logging.Logger, tel *telemetry.Telemetry, cfg *Config) (*Server, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = &Config{Addr: "localhost:9464"}
	}
	if cfg.Addr == "" {
		return nil, fmt.Errorf("addr cannot be empty")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(NewHTTPMetrics().Middleware())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			logger.Debug(c.Request().Context(), "http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)

			return err
		}
	})

	s := &Server{
		echo:      e,
		logger:    logger,
		telemetry: tel,
		config:    cfg,
	}
	s.registerRoutes()

	return s, nil
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status    string `json:"status"`
	Telemetry string `json:"telemetry"`
}

func (s *Server) handleHealth(c echo.Context) error {
	resp := HealthResponse{Status: "ok", Telemetry: "disabled"}
	if s.telemetry != nil {
		switch h := s.telemetry.Health(); {
		case h.Degraded:
			resp.Telemetry = "degraded"
		case s.telemetry.IsEnabled():
			resp.Telemetry = "ok"
		}
	}
	return c.JSON(http.StatusOK, resp)
}

// Start starts the HTTP server. It blocks until the server stops.
func (s *Server) Start() error {
	s.logger.Info(context.Background(), "starting http server", zap.String("addr", s.config.Addr))
	return s.echo.Start(s.config.Addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info(ctx, "shutting down http server")
	return s.echo.Shutdown(ctx)
}
