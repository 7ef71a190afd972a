package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTOMLOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
[window]
title = "demo"
width = 800

[effects]
source_dirs = ["assets/shaders", "shaders"]
hot_reload = false

[profiler]
enabled = true
interval = "250ms"
`), ".toml")
	require.NoError(t, err)

	assert.Equal(t, "demo", cfg.Window.Title)
	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, 720, cfg.Window.Height, "unset keys keep defaults")
	assert.Equal(t, []string{"assets/shaders", "shaders"}, cfg.Effects.SourceDirs)
	assert.False(t, cfg.Effects.HotReload)
	assert.Equal(t, 2, cfg.Effects.CompileWorkers)
	assert.True(t, cfg.Profiler.Enabled)
	assert.Equal(t, Duration(250*time.Millisecond), cfg.Profiler.Interval)
}

func TestParseYAML(t *testing.T) {
	cfg, err := Parse([]byte(`
graphics:
  backend: headless
  vsync: false
loop:
  tick_rate: 30
  frame_limit: 144
profiler:
  interval: 2s
`), ".yml")
	require.NoError(t, err)

	assert.Equal(t, BackendHeadless, cfg.Graphics.Backend)
	assert.False(t, cfg.Graphics.VSync)
	assert.Equal(t, 30.0, cfg.Loop.TickRate)
	assert.Equal(t, 144.0, cfg.Loop.FrameLimit)
	assert.Equal(t, Duration(2*time.Second), cfg.Profiler.Interval)
}

func TestParseRejectsInvalidSettings(t *testing.T) {
	_, err := Parse([]byte("[graphics]\nbackend = \"vulkan\"\n"), ".toml")
	assert.ErrorContains(t, err, "backend")

	_, err = Parse([]byte("window:\n  width: -1\n"), ".yaml")
	assert.ErrorContains(t, err, "window size")

	_, err = Parse([]byte("profiler:\n  interval: soon\n"), ".yaml")
	assert.Error(t, err)

	_, err = Parse(nil, ".json")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestEncodeRoundTripsThroughLoad(t *testing.T) {
	cfg := Default()
	cfg.Window.Title = "saved"
	cfg.Profiler.Interval = Duration(3 * time.Second)

	for _, ext := range []string{".toml", ".yaml"} {
		data, err := cfg.Encode(ext)
		require.NoError(t, err)
		path := filepath.Join(t.TempDir(), "engine"+ext)
		require.NoError(t, os.WriteFile(path, data, 0o644))

		loaded, err := Load(path)
		require.NoError(t, err, ext)
		assert.Equal(t, cfg, loaded, ext)
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
