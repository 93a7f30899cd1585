package engine

import (
	"time"

	"github.com/Carmen-Shannon/oxy-visual/engine/camera"
	"github.com/Carmen-Shannon/oxy-visual/engine/scene"
	"github.com/Carmen-Shannon/oxy-visual/engine/window"
)

// EngineBuilderOption configures an Engine before its loops start.
type EngineBuilderOption func(*engine)

// defaultTickRate is the number of message passes per second when none is configured.
const defaultTickRate = 60.0

// rateToPeriod converts a per-second rate into a loop period. Non-positive rates yield fallback.
func rateToPeriod(perSecond float64, fallback time.Duration) time.Duration {
	if perSecond <= 0 {
		return fallback
	}
	return time.Duration(float64(time.Second) / perSecond)
}

// WithProfiling turns the frame profiler on or off. When on, frame rate, heap and GC
// statistics are logged once per profiler interval.
//
// Parameters:
//   - enabled: true to log profiler statistics
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled.Store(enabled)
	}
}

// WithTickRate sets how many times per second queued visual messages are applied to the
// active scenes. Non-positive rates fall back to 60.
//
// Parameters:
//   - perSecond: message passes per second
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(perSecond float64) EngineBuilderOption {
	return func(e *engine) {
		e.engineTickRate = rateToPeriod(perSecond, rateToPeriod(defaultTickRate, 0))
	}
}

// WithRenderFrameLimit caps how many times per second the scenes' pre-render callbacks run.
// Non-positive values leave frames uncapped.
//
// Parameters:
//   - perSecond: maximum frames per second
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(perSecond float64) EngineBuilderOption {
	return func(e *engine) {
		e.renderFrameLimit = rateToPeriod(perSecond, 0)
	}
}

// WithWindow runs the engine inside a viewer window; Run then returns when the window closes.
// A nil window keeps the engine headless.
//
// Parameters:
//   - w: an opened window
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithCamera sets the camera refreshed after each frame's pre-render pass. Window resizes
// update its aspect ratio.
//
// Parameters:
//   - cam: the viewing camera
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithCamera(cam camera.Camera) EngineBuilderOption {
	return func(e *engine) {
		e.camera = cam
	}
}

// WithScene registers a scene under a z-index. Inactive scenes are kept but skipped by
// both loops; nil scenes are ignored.
//
// Parameters:
//   - key: the z-index, lower keys are processed first
//   - s: the scene
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithScene(key int, s scene.Scene) EngineBuilderOption {
	return func(e *engine) {
		if s != nil {
			e.scenes[key] = s
		}
	}
}
