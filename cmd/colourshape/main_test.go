package main

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/nowakf/colour-to-shape/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	cfg := config.Default()
	cfg.LogLevel = "warn"
	cfg.LogFormat = "json"

	logger, err := newLogger(cfg)
	require.NoError(t, err)
	assert.False(t, logger.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, logger.Enabled(context.Background(), slog.LevelWarn))
	assert.IsType(t, &slog.JSONHandler{}, logger.Handler())
}

func TestRun_InvalidConfig(t *testing.T) {
	err := run([]string{"-config", "", "-hue-policy", "bounce"})
	assert.Error(t, err)

	err = run([]string{"-config", "", "-no-such-flag"})
	assert.Error(t, err)
}

func TestDefaultConfigPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	assert.Equal(t, filepath.Join(home, ".colourshape", "config.yaml"), defaultConfigPath())
}
