package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
[log]
level = "debug"

[scene]
mesh_paths = ["assets/meshes"]
`))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, []string{"assets/meshes"}, cfg.Scene.MeshPaths)
	assert.True(t, cfg.Scene.CastShadows)
	assert.Equal(t, 4, cfg.Scene.PreloadWorkers)
	assert.Equal(t, float64(60), cfg.Engine.TickRate)
	assert.Equal(t, 1280, cfg.Engine.Window.Width)
	assert.Nil(t, cfg.WindowOptions())
}

func TestParseOverrides(t *testing.T) {
	cfg, err := Parse([]byte(`
[scene]
name = "lab"
cast_shadows = false
preload = ["a.glb", "b.gltf"]
preload_workers = 0

[engine]
tick_rate = 30.0
profiling = true

[engine.window]
enabled = true
title = "lab"
`))
	require.NoError(t, err)

	assert.Equal(t, "lab", cfg.Scene.Name)
	assert.False(t, cfg.Scene.CastShadows)
	assert.Equal(t, []string{"a.glb", "b.gltf"}, cfg.Scene.Preload)
	assert.Equal(t, 1, cfg.Scene.PreloadWorkers)
	assert.Equal(t, float64(30), cfg.Engine.TickRate)
	assert.True(t, cfg.Engine.Profiling)
	assert.True(t, cfg.Engine.Window.Enabled)
	assert.Equal(t, "lab", cfg.Engine.Window.Title)

	assert.Len(t, cfg.SceneOptions(), 3)
	assert.Len(t, cfg.LoaderOptions(), 2)
	assert.Len(t, cfg.EngineOptions(), 3)
	assert.Len(t, cfg.WindowOptions(), 2)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("[scene]\nshadows = true\n"))
	assert.Error(t, err)
}

func TestLoadConfigRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Scene.Name = "roundtrip"
	cfg.Scene.MeshPaths = []string{"meshes"}
	cfg.Scene.Preload = []string{"meshes/crate.glb"}
	data, err := cfg.Encode()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "engine.toml")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
