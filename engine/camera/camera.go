package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-visual/common"
	"github.com/Carmen-Shannon/oxy-visual/engine/visual"
	"github.com/go-gl/mathgl/mgl32"
)

type cameraImpl struct {
	mu sync.Mutex

	visual visual.Visual

	fov    float32
	aspect float32
	near   float32
	far    float32

	viewMatrix           mgl32.Mat4
	projectionMatrix     mgl32.Mat4
	viewProjectionMatrix mgl32.Mat4
}

// Camera defines the interface for a viewpoint carried by a visual.
// The camera looks down the local -Z axis of its visual, so moving, parenting or auto-tracking
// the visual moves the view. Matrices are recomputed from the visual's world pose by Update.
type Camera interface {
	// Visual returns the visual that carries the camera.
	//
	// Returns:
	//   - visual.Visual: the carrier visual
	Visual() visual.Visual

	// Fov returns the vertical field of view in radians.
	//
	// Returns:
	//   - float32: field of view in radians
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Near returns the near clipping plane distance.
	//
	// Returns:
	//   - float32: near plane distance
	Near() float32

	// Far returns the far clipping plane distance.
	//
	// Returns:
	//   - float32: far plane distance
	Far() float32

	// ViewMatrix returns the view matrix computed by the last Update.
	//
	// Returns:
	//   - mgl32.Mat4: the view matrix
	ViewMatrix() mgl32.Mat4

	// ProjectionMatrix returns the perspective projection matrix.
	//
	// Returns:
	//   - mgl32.Mat4: the projection matrix
	ProjectionMatrix() mgl32.Mat4

	// ViewProjectionMatrix returns the combined view-projection matrix.
	//
	// Returns:
	//   - mgl32.Mat4: the combined matrix
	ViewProjectionMatrix() mgl32.Mat4

	// Update recomputes the matrices from the carrier visual's world pose.
	// Call it after the scene's pre-render step so auto-tracking has been applied.
	Update()

	// SetFov sets the vertical field of view in radians and recomputes the projection.
	//
	// Parameters:
	//   - fov: field of view in radians
	SetFov(fov float32)

	// SetAspect sets the aspect ratio (width / height) and recomputes the projection.
	//
	// Parameters:
	//   - aspect: the aspect ratio
	SetAspect(aspect float32)

	// SetNear sets the near clipping plane distance and recomputes the projection.
	//
	// Parameters:
	//   - near: near plane distance
	SetNear(near float32)

	// SetFar sets the far clipping plane distance and recomputes the projection.
	//
	// Parameters:
	//   - far: far plane distance
	SetFar(far float32)

	// Track keeps the camera facing a target visual on every scene pre-render.
	//
	// Parameters:
	//   - target: the visual to face
	Track(target visual.Visual)

	// StopTracking disables auto-tracking.
	StopTracking()

	// Frame moves the camera back along its view direction until the bounding box of target,
	// including its descendants, fits in the field of view. The orientation is kept.
	//
	// Parameters:
	//   - target: the visual to frame
	//
	// Returns:
	//   - bool: false if target has empty bounds
	Frame(target visual.Visual) bool
}

var _ Camera = &cameraImpl{}

// NewCamera creates a camera carried by a new visual under parent.
//
// Parameters:
//   - ctx: the scene context that owns the carrier visual
//   - name: the requested carrier visual name
//   - parent: the parent visual
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(ctx visual.Context, name string, parent visual.Visual, options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		visual:           visual.NewVisual(ctx, name, parent),
		fov:              45.0 * (math.Pi / 180.0),
		aspect:           1.0,
		near:             0.1,
		far:              100.0,
		viewMatrix:       mgl32.Ident4(),
		projectionMatrix: mgl32.Ident4(),
	}
	for _, option := range options {
		option(c)
	}
	c.updateProjection()
	c.updateView()
	return c
}

func (c *cameraImpl) Visual() visual.Visual {
	return c.visual
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) ViewMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) Update() {
	c.updateView()
}

func (c *cameraImpl) SetFov(fov float32) {
	c.mu.Lock()
	c.fov = fov
	c.mu.Unlock()
	c.updateProjection()
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.mu.Lock()
	c.aspect = aspect
	c.mu.Unlock()
	c.updateProjection()
}

func (c *cameraImpl) SetNear(near float32) {
	c.mu.Lock()
	c.near = near
	c.mu.Unlock()
	c.updateProjection()
}

func (c *cameraImpl) SetFar(far float32) {
	c.mu.Lock()
	c.far = far
	c.mu.Unlock()
	c.updateProjection()
}

func (c *cameraImpl) Track(target visual.Visual) {
	c.visual.EnableTrackVisual(target)
}

func (c *cameraImpl) StopTracking() {
	c.visual.DisableTrackVisual()
}

func (c *cameraImpl) Frame(target visual.Visual) bool {
	if target == nil {
		return false
	}
	box := target.BoundingBox()
	if box.IsEmpty() {
		return false
	}
	radius := box.Size().Len() / 2

	c.mu.Lock()
	half := c.fov / 2
	c.mu.Unlock()
	distance := radius / float32(math.Sin(float64(half)))

	pose := c.visual.WorldPose()
	forward := pose.Rotation.Rotate(mgl32.Vec3{0, 0, -1})
	c.visual.SetWorldPose(common.NewPose(box.Center().Sub(forward.Mul(distance)), pose.Rotation))
	c.updateView()
	return true
}

// updateProjection recalculates the projection and view-projection matrices.
func (c *cameraImpl) updateProjection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.projectionMatrix = mgl32.Perspective(c.fov, c.aspect, c.near, c.far)
	c.viewProjectionMatrix = c.projectionMatrix.Mul4(c.viewMatrix)
}

// updateView recalculates the view and view-projection matrices from the carrier's world pose.
func (c *cameraImpl) updateView() {
	pose := c.visual.WorldPose()
	view := pose.Rotation.Inverse().Mat4().Mul4(mgl32.Translate3D(-pose.Position.X(), -pose.Position.Y(), -pose.Position.Z()))

	c.mu.Lock()
	defer c.mu.Unlock()
	c.viewMatrix = view
	c.viewProjectionMatrix = c.projectionMatrix.Mul4(c.viewMatrix)
}
