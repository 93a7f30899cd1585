package scene

import (
	"github.com/Carmen-Shannon/oxy-visual/engine/event"
	"github.com/Carmen-Shannon/oxy-visual/engine/renderer/shader"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithName sets the scene's identifier. The root visual is named after it.
//
// Parameters:
//   - name: the scene name
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithName(name string) SceneBuilderOption {
	return func(s *scene) {
		if name != "" {
			s.name = name
		}
	}
}

// WithActive sets whether the scene is processed by the engine loop.
//
// Parameters:
//   - active: whether the scene is active
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithActive(active bool) SceneBuilderOption {
	return func(s *scene) {
		s.active.Store(active)
	}
}

// WithCastShadows sets the shadow flag applied to visuals whose descriptor does not set one.
// Defaults to true.
//
// Parameters:
//   - cast: the default shadow flag
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithCastShadows(cast bool) SceneBuilderOption {
	return func(s *scene) {
		s.castShadows = cast
	}
}

// WithPreload decodes mesh files on the mesh store's worker pool while the scene is created.
// Failures are logged and do not prevent construction.
//
// Parameters:
//   - names: the mesh names
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithPreload(names ...string) SceneBuilderOption {
	return func(s *scene) {
		s.preload = append(s.preload, names...)
	}
}

// WithBus sets the event bus visuals register their per-frame callbacks with.
//
// Parameters:
//   - bus: the event bus
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithBus(bus event.Bus) SceneBuilderOption {
	return func(s *scene) {
		s.bus = bus
	}
}

// WithShaders sets the shader coordinator visuals register with.
//
// Parameters:
//   - shaders: the coordinator
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithShaders(shaders shader.Coordinator) SceneBuilderOption {
	return func(s *scene) {
		s.shaders = shaders
	}
}
