// Package main implements the projectboard CLI: an interactive project
// dashboard plus one-shot commands against the Project Service.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/projectboard/internal/config"
	"github.com/fyrsmithlabs/projectboard/internal/logging"
	"github.com/fyrsmithlabs/projectboard/internal/services"
	"github.com/fyrsmithlabs/projectboard/internal/telemetry"
)

// version information
var version = "dev"

const tracerName = "github.com/fyrsmithlabs/projectboard"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// rootOptions holds the persistent flags.
type rootOptions struct {
	configPath string
	serverURL  string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "projectboard",
		Short: "Browse and create your projects",
		Long: `projectboard lists your projects from the Project Service, filters them
by tag and creates new ones. Without a subcommand it starts the
interactive dashboard.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts, "")
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default ~/.config/projectboard/config.yaml)")
	root.PersistentFlags().StringVar(&opts.serverURL, "server", "", "Project Service base URL (overrides api.base_url)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")

	root.AddCommand(
		newTUICmd(opts),
		newListCmd(opts),
		newTagsCmd(opts),
		newCreateCmd(opts),
		newVersionCmd(),
	)
	return root
}

// app is the wired runtime shared by every command.
type app struct {
	cfg       *config.Config
	logger    *logging.Logger
	telemetry *telemetry.Telemetry
	registry  services.Registry
}

// loadConfig reads the config file and env, then applies flag overrides.
func loadConfig(opts *rootOptions) (*config.Config, error) {
	cfg, err := config.LoadWithFile(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.serverURL != "" {
		cfg.API.BaseURL = opts.serverURL
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}

// newApp wires telemetry, logging and the service registry from cfg.
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	tel, err := telemetry.New(ctx, telemetry.FromAppConfig(cfg.Telemetry, version))
	if err != nil {
		return nil, fmt.Errorf("creating telemetry: %w", err)
	}

	logCfg, err := loggingConfig(cfg, tel)
	if err != nil {
		_ = tel.Shutdown(ctx)
		return nil, err
	}
	logger, err := logging.NewLogger(logCfg, tel.LoggerProvider())
	if err != nil {
		_ = tel.Shutdown(ctx)
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	if h := tel.Health(); h.Degraded {
		logger.Warn(ctx, "telemetry degraded, continuing without tracing", zap.Error(h.Err))
	}

	reg, err := services.New(cfg, logger, tel.Tracer(tracerName))
	if err != nil {
		_ = tel.Shutdown(ctx)
		_ = logger.Close()
		return nil, err
	}

	return &app{cfg: cfg, logger: logger, telemetry: tel, registry: reg}, nil
}

// loggingConfig enables the OTEL log bridge only when telemetry supplies a
// logger provider.
func loggingConfig(cfg *config.Config, tel *telemetry.Telemetry) (*logging.Config, error) {
	logCfg, err := logging.FromAppConfig(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("logging config: %w", err)
	}
	if tel.LoggerProvider() != nil {
		logCfg.Output.OTEL = true
	}
	return logCfg, nil
}

// Close flushes telemetry and the logger.
func (a *app) Close(ctx context.Context) {
	if err := a.telemetry.Shutdown(ctx); err != nil {
		a.logger.Warn(ctx, "telemetry shutdown failed", zap.Error(err))
	}
	_ = a.logger.Close()
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "projectboard %s\n", version)
		},
	}
}
