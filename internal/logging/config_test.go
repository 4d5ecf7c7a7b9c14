package logging

import (
	"testing"

	"github.com/fyrsmithlabs/projectboard/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "bad format", mutate: func(c *Config) { c.Format = "text" }, wantErr: "format"},
		{
			name: "no outputs",
			mutate: func(c *Config) {
				c.Output.Stderr = false
				c.Output.OTEL = false
			},
			wantErr: "at least one output",
		},
		{
			name:    "bad pattern",
			mutate:  func(c *Config) { c.Redaction.Patterns = []string{"("} },
			wantErr: "invalid redaction pattern",
		},
		{
			name:    "empty field value",
			mutate:  func(c *Config) { c.Fields["env"] = "" },
			wantErr: "empty value",
		},
		{
			name:    "zero sampling tick",
			mutate:  func(c *Config) { c.Sampling.Tick = 0 },
			wantErr: "sampling tick",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFromAppConfig(t *testing.T) {
	t.Run("file replaces stderr", func(t *testing.T) {
		cfg, err := FromAppConfig(config.LoggingConfig{
			Level:      "debug",
			Format:     "console",
			File:       "/tmp/pb.log",
			MaxSizeMB:  5,
			MaxBackups: 2,
		})
		require.NoError(t, err)
		assert.Equal(t, zapcore.DebugLevel, cfg.Level)
		assert.Equal(t, "console", cfg.Format)
		assert.False(t, cfg.Output.Stderr)
		assert.Equal(t, "/tmp/pb.log", cfg.Output.File.Path)
		assert.Equal(t, 5, cfg.Output.File.MaxSizeMB)
		assert.Equal(t, 2, cfg.Output.File.MaxBackups)
	})

	t.Run("defaults to stderr", func(t *testing.T) {
		cfg, err := FromAppConfig(config.LoggingConfig{Level: "info", Format: "json"})
		require.NoError(t, err)
		assert.True(t, cfg.Output.Stderr)
		assert.Empty(t, cfg.Output.File.Path)
	})

	t.Run("invalid level", func(t *testing.T) {
		_, err := FromAppConfig(config.LoggingConfig{Level: "chatty"})
		assert.Error(t, err)
	})
}
