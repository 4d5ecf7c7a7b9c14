package main

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/projectboard/internal/config"
	"github.com/fyrsmithlabs/projectboard/internal/logging"
	"github.com/fyrsmithlabs/projectboard/internal/projectapi"
	"github.com/fyrsmithlabs/projectboard/internal/projectapi/apitest"
	"github.com/fyrsmithlabs/projectboard/internal/telemetry"
)

func init() {
	color.NoColor = true
}

// execute runs the CLI with an isolated HOME and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCmd_Commands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"tui", "list", "tags", "create", "version"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
		assert.NotEmpty(t, cmd.Short, name)
	}

	for _, flag := range []string{"config", "server", "log-level"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), flag)
	}
	tuiCmd, _, _ := root.Find([]string{"tui"})
	assert.NotNil(t, tuiCmd.Flags().Lookup("metrics-addr"))
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "projectboard dev\n", out)
}

func TestListCmd(t *testing.T) {
	srv := apitest.New(t)
	srv.Store.Seed(14, "go")

	out, err := execute(t, "list", "--server", srv.URL, "--page", "2")
	require.NoError(t, err)

	assert.Contains(t, out, "Projects (page 2 of 2, 14 total)")
	assert.Contains(t, out, "project-2")
	assert.Contains(t, out, "[go]")
	assert.NotContains(t, out, "project-14")
	assert.Equal(t, "2", srv.LastListQuery()["current"])
}

func TestListCmd_TagFilter(t *testing.T) {
	srv := apitest.New(t)
	_, _ = srv.Store.Create(projectapi.CreateParams{Name: "alpha", Tags: []string{"go", "cli"}})
	_, _ = srv.Store.Create(projectapi.CreateParams{Name: "beta", Tags: []string{"web"}})

	out, err := execute(t, "list", "--server", srv.URL, "--tag", "go", "--tag", "cli")
	require.NoError(t, err)

	assert.Contains(t, out, "filtered by: go, cli")
	assert.Contains(t, out, "alpha")
	assert.NotContains(t, out, "beta")
	assert.Equal(t, "go,cli", srv.LastListQuery()["tags"])
}

func TestListCmd_RepeatedTag(t *testing.T) {
	srv := apitest.New(t)
	_, _ = srv.Store.Create(projectapi.CreateParams{Name: "alpha", Tags: []string{"go"}})
	_, _ = srv.Store.Create(projectapi.CreateParams{Name: "beta", Tags: []string{"web"}})

	out, err := execute(t, "list", "--server", srv.URL, "--tag", "go", "--tag", "go")
	require.NoError(t, err)

	assert.Equal(t, "go", srv.LastListQuery()["tags"])
	assert.Contains(t, out, "filtered by: go")
	assert.Contains(t, out, "alpha")
	assert.NotContains(t, out, "beta")
}

func TestListCmd_Errors(t *testing.T) {
	t.Run("server failure", func(t *testing.T) {
		srv := apitest.New(t)
		srv.Fail(apitest.RouteMine, http.StatusInternalServerError, "")

		out, err := execute(t, "list", "--server", srv.URL)
		require.Error(t, err)
		assert.Contains(t, out, "Failed to load projects")
	})

	t.Run("invalid page", func(t *testing.T) {
		_, err := execute(t, "list", "--page", "0")
		assert.ErrorIs(t, err, projectapi.ErrInvalidPage)
	})

	t.Run("invalid server flag", func(t *testing.T) {
		_, err := execute(t, "list", "--server", "ftp://nowhere")
		assert.Error(t, err)
	})
}

func TestTagsCmd(t *testing.T) {
	srv := apitest.New(t)
	_, _ = srv.Store.Create(projectapi.CreateParams{Name: "a", Tags: []string{"web", "go"}})

	out, err := execute(t, "tags", "--server", srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "go\nweb\n", out)

	srv.Fail(apitest.RouteTags, http.StatusBadGateway, "upstream down")
	out, err = execute(t, "tags", "--server", srv.URL)
	require.Error(t, err)
	assert.Contains(t, out, "upstream down")
}

func TestCreateCmd(t *testing.T) {
	srv := apitest.New(t)

	out, err := execute(t, "create", "--server", srv.URL, "--name", "board", "--description", "kanban", "--tag", "go")
	require.NoError(t, err)
	assert.Contains(t, out, "created board")

	page, total := srv.Store.Page(1, 12, nil)
	require.Equal(t, 1, total)
	assert.Equal(t, "kanban", page[0].Description)
	assert.Equal(t, []string{"go"}, page[0].Tags)
}

func TestCreateCmd_RequiresName(t *testing.T) {
	_, err := execute(t, "create")
	assert.ErrorIs(t, err, projectapi.ErrEmptyName)
}

func TestLoadConfig_FileAndFlags(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".config", "projectboard")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api:\n  base_url: http://file.example:8080\nlogging:\n  level: warn\n"), 0o600))

	cfg, err := loadConfig(&rootOptions{configPath: path})
	require.NoError(t, err)
	assert.Equal(t, "http://file.example:8080", cfg.API.BaseURL)
	assert.Equal(t, "warn", cfg.Logging.Level)

	cfg, err = loadConfig(&rootOptions{configPath: path, serverURL: "http://flag.example", logLevel: "debug"})
	require.NoError(t, err)
	assert.Equal(t, "http://flag.example", cfg.API.BaseURL)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoggingConfig_OTELFollowsTelemetry(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()

	off, err := telemetry.New(ctx, telemetry.FromAppConfig(cfg.Telemetry, version))
	require.NoError(t, err)
	logCfg, err := loggingConfig(cfg, off)
	require.NoError(t, err)
	assert.False(t, logCfg.Output.OTEL)

	cfg.Telemetry.Enabled = true
	cfg.Telemetry.Endpoint = "localhost:4318"
	cfg.Telemetry.Insecure = true
	on, err := telemetry.New(ctx, telemetry.FromAppConfig(cfg.Telemetry, version))
	require.NoError(t, err)
	t.Cleanup(func() { _ = on.Shutdown(ctx) })
	require.NotNil(t, on.LoggerProvider())

	logCfg, err = loggingConfig(cfg, on)
	require.NoError(t, err)
	assert.True(t, logCfg.Output.OTEL)
}

func TestAppClose_LogsShutdownError(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()
	cfg.Telemetry.Enabled = true
	cfg.Telemetry.Endpoint = "127.0.0.1:1"
	cfg.Telemetry.Insecure = true

	tel, err := telemetry.New(ctx, telemetry.FromAppConfig(cfg.Telemetry, version))
	require.NoError(t, err)
	_, span := tel.Tracer("close-test").Start(ctx, "pending")
	span.End()

	logger := logging.NewTestLogger()
	a := &app{cfg: cfg, logger: logger.Logger, telemetry: tel}

	shutdownCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	a.Close(shutdownCtx)

	entries := logger.FilterMessage("telemetry shutdown failed").All()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].ContextMap(), "error")
}
