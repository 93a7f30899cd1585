package engine

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-visual/engine/camera"
	"github.com/Carmen-Shannon/oxy-visual/engine/descriptor"
	"github.com/Carmen-Shannon/oxy-visual/engine/renderer"
	"github.com/Carmen-Shannon/oxy-visual/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeadlessRunAppliesMessages(t *testing.T) {
	s := scene.NewScene(renderer.NewMemoryBackend(), nil)
	t.Cleanup(s.Close)
	idle := scene.NewScene(renderer.NewMemoryBackend(), nil, scene.WithActive(false))
	t.Cleanup(idle.Close)

	var ticks, frames atomic.Int32
	e := NewEngine(WithScene(0, s), WithScene(1, idle), WithTickRate(500), WithRenderFrameLimit(500))
	e.SetTickCallback(func(float32) { ticks.Add(1) })
	e.SetRenderCallback(func(float32) { frames.Add(1) })

	s.QueueMessage(&descriptor.Message{Name: "crate"})
	idle.QueueMessage(&descriptor.Message{Name: "crate"})

	done := make(chan struct{})
	go func() {
		e.Run()
		close(done)
	}()

	require.Eventually(t, func() bool {
		_, ok := s.Visual("crate")
		return ok && ticks.Load() > 0 && frames.Load() > 0
	}, 2*time.Second, 5*time.Millisecond)
	assert.True(t, e.Running())

	e.Quit()
	e.Quit()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Quit")
	}
	assert.False(t, e.Running())

	_, ok := idle.Visual("crate")
	assert.False(t, ok)
	assert.Positive(t, s.Bus().Frames())
}

func TestSceneRegistry(t *testing.T) {
	e := NewEngine()
	s := scene.NewScene(renderer.NewMemoryBackend(), nil)
	t.Cleanup(s.Close)

	assert.Nil(t, e.Window())
	e.AddScene(3, s)
	e.AddScene(4, nil)
	assert.Same(t, s, e.Scene(3))
	assert.Len(t, e.Scenes(), 1)

	cp := e.Scenes()
	delete(cp, 3)
	assert.NotNil(t, e.Scene(3))

	e.RemoveScene(3)
	assert.Nil(t, e.Scene(3))
	assert.Empty(t, e.Scenes())
}

func TestResizeUpdatesCameraAspect(t *testing.T) {
	s := scene.NewScene(renderer.NewMemoryBackend(), nil)
	t.Cleanup(s.Close)
	cam := camera.NewCamera(s, "eye", s.Root())

	e := NewEngine(WithCamera(cam)).(*engine)
	assert.Same(t, cam, e.Camera())

	e.resize(800, 400)
	assert.InDelta(t, 2.0, cam.Aspect(), 1e-6)

	e.resize(800, 0)
	assert.InDelta(t, 2.0, cam.Aspect(), 1e-6)

	e.SetCamera(nil)
	e.resize(400, 400)
	assert.Nil(t, e.Camera())
	assert.InDelta(t, 2.0, cam.Aspect(), 1e-6)
}

func TestRenderLoopRefreshesCamera(t *testing.T) {
	s := scene.NewScene(renderer.NewMemoryBackend(), nil)
	t.Cleanup(s.Close)
	cam := camera.NewCamera(s, "eye", s.Root())
	before := cam.ViewMatrix()
	cam.Visual().SetPosition(mgl32.Vec3{0, 0, 5})

	e := NewEngine(WithScene(0, s), WithCamera(cam), WithTickRate(500), WithRenderFrameLimit(500))
	done := make(chan struct{})
	go func() {
		e.Run()
		close(done)
	}()

	require.Eventually(t, func() bool {
		return cam.ViewMatrix() != before
	}, 2*time.Second, 5*time.Millisecond)

	e.Quit()
	<-done
	assert.InDelta(t, -5, cam.ViewMatrix().Col(3).Z(), 1e-5)
}

func TestRateToPeriod(t *testing.T) {
	assert.Equal(t, 20*time.Millisecond, rateToPeriod(50, time.Second))
	assert.Equal(t, time.Second, rateToPeriod(0, time.Second))
	assert.Equal(t, time.Duration(0), rateToPeriod(-1, 0))
}
