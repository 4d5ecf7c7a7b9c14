package main

import (
	"context"
	"errors"
	stdhttp "net/http"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/projectboard/internal/config"
	"github.com/fyrsmithlabs/projectboard/internal/http"
	"github.com/fyrsmithlabs/projectboard/internal/projectlist"
	"github.com/fyrsmithlabs/projectboard/internal/tui"
)

func newTUICmd(opts *rootOptions) *cobra.Command {
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Start the interactive project dashboard",
		Long: `Start the interactive project dashboard.

Keys:
  ←/h →/l   previous / next page
  tab       move the tag cursor
  space     toggle the tag under the cursor
  x         clear tag filters
  r         refresh the current page
  n         create a project
  q         quit

Logs go to a file because the dashboard owns the terminal.

Examples:
  # Start the dashboard
  projectboard tui

  # Expose /health and /metrics while it runs
  projectboard tui --metrics-addr localhost:9464`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts, metricsAddr)
		},
	}
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve /health and /metrics on this address (overrides metrics.addr)")
	return cmd
}

// runTUI runs the Bubble Tea program until the user quits.
func runTUI(cmd *cobra.Command, opts *rootOptions, metricsAddr string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	if cfg.Logging.File == "" {
		dir, err := config.DefaultDir()
		if err != nil {
			return err
		}
		if err := config.EnsureConfigDir(); err != nil {
			return err
		}
		cfg.Logging.File = filepath.Join(dir, config.AppName+".log")
	}
	if metricsAddr != "" {
		cfg.Metrics.Addr = metricsAddr
	}

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close(context.Background())

	if cfg.Metrics.Addr != "" {
		srv, err := http.NewServer(a.logger, a.telemetry, &http.Config{Addr: cfg.Metrics.Addr})
		if err != nil {
			return err
		}
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
				a.logger.Error(ctx, "metrics server failed", zap.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	ctrl := projectlist.New(a.registry.Projects(), projectlist.Options{
		CacheTTL: cfg.Dashboard.CacheTTL.Duration(),
		Logger:   a.logger,
		Metrics:  projectlist.NewMetrics(),
	})
	model := tui.NewModel(ctrl, a.registry, cfg.API.Timeout.Duration())

	a.logger.Info(ctx, "starting dashboard", zap.String("server", cfg.API.BaseURL))
	_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
