package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultValues(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.LogPretty)
	assert.False(t, cfg.Planes.Visualize)
	assert.Equal(t, 0.2, cfg.Planes.Width)
	assert.Equal(t, 0.2, cfg.Planes.Height)
	assert.Equal(t, 0.01, cfg.Style.MarkerRadius)
	assert.Equal(t, 60, cfg.Window.FPS)
	assert.Equal(t, 250*time.Millisecond, cfg.WatchDebounce)
}

func TestLoad_WithValidConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "armeasure.yaml")
	content := `
logLevel: debug
planes:
  visualize: true
  width: 0.5
style:
  markerRadius: 0.02
watchDebounce: 1s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.Planes.Visualize)
	assert.Equal(t, 0.5, cfg.Planes.Width)
	assert.Equal(t, 0.2, cfg.Planes.Height)
	assert.Equal(t, 0.02, cfg.Style.MarkerRadius)
	assert.Equal(t, time.Second, cfg.WatchDebounce)
}

func TestLoad_EnvironmentOverride(t *testing.T) {
	t.Setenv("ARMEASURE_LOGLEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/armeasure.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoad_InvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "armeasure.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"window": {"fps": 0}, "planes": {"width": -1}}`), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "window.fps")
	assert.Contains(t, err.Error(), "planes size")
}

func TestLoad_InvisibleStyle(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "armeasure.yaml")
	content := `
style:
  lineWidth: 0
  labelScale: -0.001
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "style.lineWidth")
	assert.Contains(t, err.Error(), "style.labelScale")
	assert.NotContains(t, err.Error(), "style.markerRadius")
}

func TestDefault_IgnoresEnvironment(t *testing.T) {
	t.Setenv("ARMEASURE_WINDOW_FPS", "0")
	t.Setenv("ARMEASURE_LOGLEVEL", "warn")

	var cfg Config
	require.NotPanics(t, func() { cfg = Default() })
	assert.Equal(t, 60, cfg.Window.FPS)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.NoError(t, cfg.Validate())

	_, err := Load("")
	require.Error(t, err, "Load still applies the environment")
	assert.Contains(t, err.Error(), "window.fps")
}
