package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestHome points HOME at a temp dir and returns the config dir inside it.
func setupTestHome(t *testing.T) string {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".config", AppName)
	require.NoError(t, os.MkdirAll(dir, 0700))
	return dir
}

func writeConfig(t *testing.T, dir, content string, perm os.FileMode) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), perm))
	require.NoError(t, os.Chmod(path, perm))
	return path
}

func TestLoadWithFile_Defaults(t *testing.T) {
	setupTestHome(t)

	cfg, err := LoadWithFile("")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout.Duration())
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, AppName, cfg.Telemetry.ServiceName)
	assert.False(t, cfg.Telemetry.Enabled)
	assert.Zero(t, cfg.Dashboard.CacheTTL)
}

func TestLoadWithFile_ValidYAML(t *testing.T) {
	dir := setupTestHome(t)

	path := writeConfig(t, dir, `api:
  base_url: https://projects.example.com
  token: s3cr3t
  timeout: 3s
  rate_limit: 5
dashboard:
  cache_ttl: 2m
logging:
  level: debug
  format: console
  file: /tmp/projectboard.log
`, 0600)

	cfg, err := LoadWithFile(path)
	require.NoError(t, err)

	assert.Equal(t, "https://projects.example.com", cfg.API.BaseURL)
	assert.Equal(t, "s3cr3t", cfg.API.Token.Value())
	assert.Equal(t, 3*time.Second, cfg.API.Timeout.Duration())
	assert.Equal(t, 5.0, cfg.API.RateLimit)
	assert.Equal(t, 1, cfg.API.Burst, "burst defaults to 1 when rate limiting")
	assert.Equal(t, 2*time.Minute, cfg.Dashboard.CacheTTL.Duration())
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, "/tmp/projectboard.log", cfg.Logging.File)
}

func TestLoadWithFile_EnvOverridesFile(t *testing.T) {
	dir := setupTestHome(t)
	path := writeConfig(t, dir, "api:\n  base_url: http://from-file:8080\n", 0600)

	t.Setenv("PROJECTBOARD_API_BASE_URL", "http://from-env:9000")
	t.Setenv("PROJECTBOARD_LOGGING_MAX_BACKUPS", "7")

	cfg, err := LoadWithFile(path)
	require.NoError(t, err)
	assert.Equal(t, "http://from-env:9000", cfg.API.BaseURL)
	assert.Equal(t, 7, cfg.Logging.MaxBackups)
}

func TestLoadWithFile_InsecurePermissions(t *testing.T) {
	dir := setupTestHome(t)
	path := writeConfig(t, dir, "api:\n  base_url: http://localhost:1\n", 0644)

	_, err := LoadWithFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insecure config file permissions")
}

func TestLoadWithFile_PathOutsideAllowedDirs(t *testing.T) {
	setupTestHome(t)

	_, err := LoadWithFile(filepath.Join(t.TempDir(), "config.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config path validation failed")
}

func TestLoadWithFile_InvalidValues(t *testing.T) {
	dir := setupTestHome(t)
	path := writeConfig(t, dir, "logging:\n  format: xml\n", 0600)

	_, err := LoadWithFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logging format")
}

func TestEnvKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"PROJECTBOARD_API_BASE_URL", "api.base_url"},
		{"PROJECTBOARD_DASHBOARD_CACHE_TTL", "dashboard.cache_ttl"},
		{"PROJECTBOARD_METRICS_ADDR", "metrics.addr"},
		{"PROJECTBOARD_DEBUG", "debug"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, envKey(tt.in))
		})
	}
}
