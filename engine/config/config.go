// Package config loads engine settings from a TOML file and maps them onto the
// functional options of the packages they configure.
package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/Carmen-Shannon/oxy-visual/engine"
	"github.com/Carmen-Shannon/oxy-visual/engine/loader"
	"github.com/Carmen-Shannon/oxy-visual/engine/scene"
	"github.com/Carmen-Shannon/oxy-visual/engine/window"
	"github.com/pelletier/go-toml/v2"
)

// Config is the root of the TOML document.
type Config struct {
	Log    LogConfig    `toml:"log"`
	Scene  SceneConfig  `toml:"scene"`
	Engine EngineConfig `toml:"engine"`
}

// LogConfig configures the engine-wide logger.
type LogConfig struct {
	// Level is one of "debug", "info", "warn", "error" or "off".
	Level string `toml:"level"`
}

// SceneConfig configures scene construction and mesh loading.
type SceneConfig struct {
	// Name is the scene identifier; it also names the scene root visual.
	Name string `toml:"name"`

	// CastShadows is the shadow flag applied to visuals whose descriptor does not set one.
	CastShadows bool `toml:"cast_shadows"`

	// MeshPaths are directories searched for mesh files named by relative path.
	MeshPaths []string `toml:"mesh_paths"`

	// Preload lists mesh files decoded in parallel when the scene is created.
	Preload []string `toml:"preload"`

	// PreloadWorkers bounds the worker pool used for Preload.
	PreloadWorkers int `toml:"preload_workers"`
}

// EngineConfig configures the frame loop.
type EngineConfig struct {
	TickRate   float64      `toml:"tick_rate"`
	FrameLimit float64      `toml:"frame_limit"`
	Profiling  bool         `toml:"profiling"`
	Window     WindowConfig `toml:"window"`
}

// WindowConfig configures the optional platform window.
type WindowConfig struct {
	Enabled bool   `toml:"enabled"`
	Title   string `toml:"title"`
	Width   int    `toml:"width"`
	Height  int    `toml:"height"`
}

// DefaultConfig returns the configuration used when no file is given.
//
// Returns:
//   - *Config: a fully populated default configuration
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{Level: "info"},
		Scene: SceneConfig{
			Name:           "default",
			CastShadows:    true,
			PreloadWorkers: 4,
		},
		Engine: EngineConfig{
			TickRate: 60,
			Window: WindowConfig{
				Title:  "oxy-visual",
				Width:  1280,
				Height: 720,
			},
		},
	}
}

// LoadConfig reads a TOML file on top of DefaultConfig. Keys absent from the file keep their defaults.
//
// Parameters:
//   - path: the file to read
//
// Returns:
//   - *Config: the merged configuration
//   - error: error if the file cannot be read or decoded
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML bytes on top of DefaultConfig. Unknown keys are rejected.
//
// Parameters:
//   - data: the TOML document
//
// Returns:
//   - *Config: the merged configuration
//   - error: error if the document is malformed or carries unknown keys
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, err
	}
	if cfg.Scene.PreloadWorkers < 1 {
		cfg.Scene.PreloadWorkers = 1
	}
	return cfg, nil
}

// Encode renders the configuration back to TOML.
//
// Returns:
//   - []byte: the TOML document
//   - error: error if encoding fails
func (c *Config) Encode() ([]byte, error) {
	return toml.Marshal(c)
}

// LoaderOptions maps the scene section onto mesh store options.
//
// Returns:
//   - []loader.MeshStoreBuilderOption: options for loader.NewMeshStore
func (c *Config) LoaderOptions() []loader.MeshStoreBuilderOption {
	return []loader.MeshStoreBuilderOption{
		loader.WithSearchPaths(c.Scene.MeshPaths...),
		loader.WithWorkers(c.Scene.PreloadWorkers),
	}
}

// SceneOptions maps the scene section onto scene options.
//
// Returns:
//   - []scene.SceneBuilderOption: options for scene.NewScene
func (c *Config) SceneOptions() []scene.SceneBuilderOption {
	opts := []scene.SceneBuilderOption{
		scene.WithName(c.Scene.Name),
		scene.WithCastShadows(c.Scene.CastShadows),
	}
	if len(c.Scene.Preload) > 0 {
		opts = append(opts, scene.WithPreload(c.Scene.Preload...))
	}
	return opts
}

// EngineOptions maps the engine section onto engine options. The window is not included;
// open it with WindowOptions and pass it through engine.WithWindow.
//
// Returns:
//   - []engine.EngineBuilderOption: options for engine.NewEngine
func (c *Config) EngineOptions() []engine.EngineBuilderOption {
	return []engine.EngineBuilderOption{
		engine.WithTickRate(c.Engine.TickRate),
		engine.WithRenderFrameLimit(c.Engine.FrameLimit),
		engine.WithProfiling(c.Engine.Profiling),
	}
}

// WindowOptions maps the window section onto window options.
//
// Returns:
//   - []window.WindowBuilderOption: options for window.NewWindow, or nil when the window is disabled
func (c *Config) WindowOptions() []window.WindowBuilderOption {
	if !c.Engine.Window.Enabled {
		return nil
	}
	return []window.WindowBuilderOption{
		window.WithTitle(c.Engine.Window.Title),
		window.WithSize(c.Engine.Window.Width, c.Engine.Window.Height),
	}
}
