package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrUnknownFormat is returned for files that are neither TOML nor YAML.
var ErrUnknownFormat = errors.New("config: unknown file format")

// Backend selects the graphics device implementation.
type Backend string

const (
	// BackendWGPU presents to a desktop window through WebGPU.
	BackendWGPU Backend = "wgpu"
	// BackendHeadless draws without a window, for tools and tests.
	BackendHeadless Backend = "headless"
)

// Duration is a time.Duration written as a Go duration string, such as "500ms".
type Duration time.Duration

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("config: duration %q: %w", text, err)
	}
	*d = Duration(v)
	return nil
}

// MarshalText formats the duration as a string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Config is the engine configuration.
type Config struct {
	Window   WindowConfig   `toml:"window" yaml:"window"`
	Graphics GraphicsConfig `toml:"graphics" yaml:"graphics"`
	Effects  EffectsConfig  `toml:"effects" yaml:"effects"`
	Loop     LoopConfig     `toml:"loop" yaml:"loop"`
	Profiler ProfilerConfig `toml:"profiler" yaml:"profiler"`
}

// WindowConfig sizes the desktop window.
type WindowConfig struct {
	Title     string `toml:"title" yaml:"title"`
	Width     int    `toml:"width" yaml:"width"`
	Height    int    `toml:"height" yaml:"height"`
	MinWidth  int    `toml:"min_width" yaml:"min_width"`
	MinHeight int    `toml:"min_height" yaml:"min_height"`
	MaxWidth  int    `toml:"max_width" yaml:"max_width"`
	MaxHeight int    `toml:"max_height" yaml:"max_height"`
}

// GraphicsConfig selects and tunes the device.
type GraphicsConfig struct {
	Backend Backend `toml:"backend" yaml:"backend"`
	VSync   bool    `toml:"vsync" yaml:"vsync"`
}

// EffectsConfig configures shader sources and compilation.
type EffectsConfig struct {
	SourceDirs     []string `toml:"source_dirs" yaml:"source_dirs"`
	HotReload      bool     `toml:"hot_reload" yaml:"hot_reload"`
	CompileWorkers int      `toml:"compile_workers" yaml:"compile_workers"`
	Validate       bool     `toml:"validate" yaml:"validate"`
	DebugInfo      bool     `toml:"debug_info" yaml:"debug_info"`
}

// LoopConfig sets the update and render rates. Zero FrameLimit leaves rendering uncapped.
type LoopConfig struct {
	TickRate   float64 `toml:"tick_rate" yaml:"tick_rate"`
	FrameLimit float64 `toml:"frame_limit" yaml:"frame_limit"`
}

// ProfilerConfig controls periodic performance reports.
type ProfilerConfig struct {
	Enabled    bool     `toml:"enabled" yaml:"enabled"`
	Interval   Duration `toml:"interval" yaml:"interval"`
	TopMarkers int      `toml:"top_markers" yaml:"top_markers"`
}

// Default returns the configuration used for anything a file leaves unset.
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:     "oxy-compose",
			Width:     1280,
			Height:    720,
			MinWidth:  600,
			MinHeight: 200,
			MaxWidth:  3840,
			MaxHeight: 2160,
		},
		Graphics: GraphicsConfig{Backend: BackendWGPU, VSync: true},
		Effects: EffectsConfig{
			SourceDirs:     []string{"shaders"},
			HotReload:      true,
			CompileWorkers: 2,
			Validate:       true,
		},
		Loop:     LoopConfig{TickRate: 60},
		Profiler: ProfilerConfig{Interval: Duration(time.Second), TopMarkers: 5},
	}
}

// Load reads a TOML (.toml) or YAML (.yaml, .yml) file over Default.
//
// Parameters:
//   - path: the configuration file
//
// Returns:
//   - Config: the configuration
//   - error: a read, format or validation error
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return Parse(data, filepath.Ext(path))
}

// Parse decodes data over Default. The format is chosen by ext: ".toml", ".yaml" or ".yml".
//
// Parameters:
//   - data: the file contents
//   - ext: the file extension, with the dot
//
// Returns:
//   - Config: the configuration
//   - error: ErrUnknownFormat, a decode error or a validation error
func Parse(data []byte, ext string) (Config, error) {
	cfg := Default()
	switch strings.ToLower(ext) {
	case ".toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: toml: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: yaml: %w", err)
		}
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("config: window size %dx%d", c.Window.Width, c.Window.Height)
	case c.Graphics.Backend != BackendWGPU && c.Graphics.Backend != BackendHeadless:
		return fmt.Errorf("config: graphics backend %q", c.Graphics.Backend)
	case c.Effects.CompileWorkers < 0:
		return fmt.Errorf("config: compile_workers %d", c.Effects.CompileWorkers)
	case c.Loop.TickRate < 0 || c.Loop.FrameLimit < 0:
		return fmt.Errorf("config: negative loop rate")
	}
	return nil
}

// Encode writes c in the format selected by ext.
//
// Parameters:
//   - ext: ".toml", ".yaml" or ".yml"
//
// Returns:
//   - []byte: the encoded configuration
//   - error: ErrUnknownFormat or an encode error
func (c Config) Encode(ext string) ([]byte, error) {
	switch strings.ToLower(ext) {
	case ".toml":
		return toml.Marshal(c)
	case ".yaml", ".yml":
		return yaml.Marshal(c)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
}
