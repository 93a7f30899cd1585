package camera

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-visual/engine/descriptor"
	"github.com/Carmen-Shannon/oxy-visual/engine/renderer"
	"github.com/Carmen-Shannon/oxy-visual/engine/scene"
	"github.com/Carmen-Shannon/oxy-visual/engine/visual"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScene(t *testing.T) scene.Scene {
	t.Helper()
	s := scene.NewScene(renderer.NewMemoryBackend(), nil)
	t.Cleanup(s.Close)
	return s
}

func viewPoint(c Camera, p mgl32.Vec3) mgl32.Vec3 {
	return mgl32.TransformCoordinate(p, c.ViewMatrix())
}

func TestViewFollowsVisual(t *testing.T) {
	s := newScene(t)
	c := NewCamera(s, "camera", s.Root(), WithPosition(mgl32.Vec3{0, 0, 10}), WithAspect(2))

	assert.Equal(t, "camera", c.Visual().Name())
	assert.Equal(t, float32(2), c.Aspect())
	assert.True(t, viewPoint(c, mgl32.Vec3{}).ApproxEqualThreshold(mgl32.Vec3{0, 0, -10}, 1e-4))

	c.Visual().SetPosition(mgl32.Vec3{0, 0, 4})
	c.Update()
	assert.True(t, viewPoint(c, mgl32.Vec3{}).ApproxEqualThreshold(mgl32.Vec3{0, 0, -4}, 1e-4))

	want := mgl32.Perspective(c.Fov(), 2, c.Near(), c.Far())
	assert.True(t, c.ProjectionMatrix().ApproxEqualThreshold(want, 1e-5))
	assert.True(t, c.ViewProjectionMatrix().ApproxEqualThreshold(want.Mul4(c.ViewMatrix()), 1e-5))
}

func TestTrackFacesTarget(t *testing.T) {
	s := newScene(t)
	c := NewCamera(s, "camera", s.Root())
	target, err := s.CreateVisual("target", "")
	require.NoError(t, err)
	target.SetPosition(mgl32.Vec3{5, 0, 0})

	c.Track(target)
	s.PreRender()
	c.Update()

	p := viewPoint(c, mgl32.Vec3{5, 0, 0})
	assert.InDelta(t, 0, p.X(), 1e-4)
	assert.InDelta(t, 0, p.Y(), 1e-4)
	assert.InDelta(t, -5, p.Z(), 1e-4)

	c.StopTracking()
	_, ok := c.Visual().TrackedVisual()
	assert.False(t, ok)
}

func TestFrameFitsBounds(t *testing.T) {
	s := newScene(t)
	c := NewCamera(s, "camera", s.Root(), WithFov(float32(math.Pi/2)))
	d := descriptor.New("")
	d.Geometry.SetBox(mgl32.Vec3{2, 2, 2})
	crate, err := s.CreateVisual("crate", "", visual.WithDescriptor(d))
	require.NoError(t, err)

	require.True(t, c.Frame(crate))

	distance := float32(math.Sqrt(3) / math.Sin(math.Pi/4))
	assert.True(t, c.Visual().Position().ApproxEqualThreshold(mgl32.Vec3{0, 0, distance}, 1e-3))
	assert.True(t, viewPoint(c, mgl32.Vec3{}).ApproxEqualThreshold(mgl32.Vec3{0, 0, -distance}, 1e-3))

	empty, _ := s.CreateVisual("empty", "")
	assert.False(t, c.Frame(empty))
	assert.False(t, c.Frame(nil))
}
