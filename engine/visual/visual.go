package visual

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/Carmen-Shannon/oxy-visual/common"
	"github.com/Carmen-Shannon/oxy-visual/engine/descriptor"
	"github.com/Carmen-Shannon/oxy-visual/engine/event"
	"github.com/Carmen-Shannon/oxy-visual/engine/loader"
	"github.com/Carmen-Shannon/oxy-visual/engine/mesh"
	"github.com/Carmen-Shannon/oxy-visual/engine/renderer"
	"github.com/Carmen-Shannon/oxy-visual/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-visual/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-visual/internal/logger"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

var (
	// ErrNoBackendNode is returned by operations on a visual constructed without a context or parent.
	ErrNoBackendNode = errors.New("visual has no backend node")

	// ErrNilVisual is returned when a nil visual is passed where one is required.
	ErrNilVisual = errors.New("visual is nil")
)

// Context is the scene state a visual is constructed in. It owns the collaborators every
// visual shares and the registry that resolves visual IDs.
type Context interface {
	// Backend retrieves the render backend that owns the node tree.
	Backend() renderer.RenderBackend

	// MeshStore retrieves the store that resolves mesh names.
	MeshStore() loader.MeshStore

	// Uploader retrieves the mesh uploader writing into Backend.
	Uploader() mesh.Uploader

	// Instancer retrieves the per-node material instancer of Backend's registry.
	Instancer() material.Instancer

	// Shaders retrieves the shader coordinator visuals register with.
	Shaders() shader.Coordinator

	// Bus retrieves the per-frame event bus.
	Bus() event.Bus

	// NextVisualID hands out the next visual ID. IDs start at 1.
	NextVisualID() uint64

	// Register adds a visual to the registry.
	Register(v Visual)

	// Unregister removes a visual from the registry.
	Unregister(v Visual)

	// Lookup resolves a visual ID.
	//
	// Parameters:
	//   - id: the visual ID
	//
	// Returns:
	//   - Visual: the visual
	//   - bool: false if no registered visual has the ID
	Lookup(id uint64) (Visual, bool)

	// CastShadowsDefault retrieves the shadow flag of visuals whose descriptor does not set one.
	CastShadowsDefault() bool
}

// lineVertex binds one point of a line to the visual's world position.
type lineVertex struct {
	line  renderer.DynamicLines
	index int
}

// visual is the implementation of the Visual interface.
type visual struct {
	id       uint64
	name     string
	ctx      Context
	node     renderer.NodeHandle
	parentID uint64
	children []uint64

	desc         *descriptor.Descriptor
	scale        mgl32.Vec3
	visible      bool
	transparency float32
	emissive     *common.Color
	isStatic     bool
	materialName string
	loaded       bool
	destroyed    bool

	lines        []renderer.DynamicLines
	lineVertices []lineVertex
	lineCount    int
	preRender    event.Connection
	connected    bool
	ribbon       renderer.RibbonTrail
	trackID      uint64

	pendingDesc    *descriptor.Descriptor
	initialVisible *bool
	withAxes       bool
}

// Visual is a named node of the scene graph that turns a declarative descriptor into
// backend renderables. Its name is unique within the backend and never changes.
type Visual interface {
	// ID retrieves the registry ID, or 0 for a visual built without a context.
	//
	// Returns:
	//   - uint64: the ID
	ID() uint64

	// Name retrieves the unique name. The requested name is kept when free, otherwise
	// the first free of name_1, name_2, ... is used.
	//
	// Returns:
	//   - string: the name
	Name() string

	// Node retrieves the backend node, or "" for a degraded visual.
	//
	// Returns:
	//   - renderer.NodeHandle: the node
	Node() renderer.NodeHandle

	// Parent retrieves the parent visual.
	//
	// Returns:
	//   - Visual: the parent, or nil when the visual hangs off a raw node or is detached
	Parent() Visual

	// Children retrieves the attached child visuals in attachment order.
	//
	// Returns:
	//   - []Visual: the children
	Children() []Visual

	// AttachVisual makes child a child of this visual, detaching it from its previous
	// parent first. Attaching an ancestor (or the visual itself) is refused with a logged error.
	//
	// Parameters:
	//   - child: the visual to attach
	AttachVisual(child Visual)

	// DetachVisual orphans a child visual. Visuals that are not children are ignored.
	//
	// Parameters:
	//   - child: the visual to detach
	DetachVisual(child Visual)

	// AttachObject binds a renderable to the visual's node and tags it with the visual name.
	// Renderables of plane visuals are drawn in the group just before world geometry.
	//
	// Parameters:
	//   - obj: the renderable
	//
	// Returns:
	//   - error: ErrNoBackendNode or the backend error
	AttachObject(obj renderer.Attachment) error

	// DetachObjects unbinds every renderable from the visual's node.
	DetachObjects()

	// NumAttached retrieves the number of bound renderables.
	//
	// Returns:
	//   - int: the count
	NumAttached() int

	// Attached retrieves a bound renderable by index.
	//
	// Parameters:
	//   - i: the index
	//
	// Returns:
	//   - renderer.Attachment: the renderable, or nil when out of range
	Attached(i int) renderer.Attachment

	// AttachMesh instantiates a mesh as an entity named <name>_ENTITY_<mesh> and binds it,
	// uploading the mesh first when the backend does not hold it yet.
	//
	// Parameters:
	//   - meshName: the mesh name
	//
	// Returns:
	//   - error: a mesh store, upload or backend error
	AttachMesh(meshName string) error

	// AttachAxes adds a child node holding red, green and blue axis cylinders along X, Y and Z.
	// Calling it again is a no-op.
	//
	// Returns:
	//   - error: a mesh or backend error
	AttachAxes() error

	// SetScale writes the scale into the descriptor geometry (box size, sphere radius from x,
	// cylinder radius from x and length from z, mesh scale) and onto the node.
	//
	// Parameters:
	//   - scale: the scale
	SetScale(scale mgl32.Vec3)

	// Scale retrieves the scale: (1,1,1) for unset and plane geometry, (r,r,r) for spheres,
	// and the last scale set for boxes, cylinders and meshes.
	//
	// Returns:
	//   - mgl32.Vec3: the scale
	Scale() mgl32.Vec3

	// SetPose sets the pose relative to the parent node.
	SetPose(pose common.Pose)

	// Pose retrieves the pose relative to the parent node.
	Pose() common.Pose

	// SetPosition sets the position relative to the parent node and moves every attached line vertex.
	SetPosition(pos mgl32.Vec3)

	// Position retrieves the position relative to the parent node.
	Position() mgl32.Vec3

	// SetRotation sets the orientation relative to the parent node.
	SetRotation(rot mgl32.Quat)

	// Rotation retrieves the orientation relative to the parent node.
	Rotation() mgl32.Quat

	// SetWorldPose places the visual at an absolute pose without composing the parent chain.
	//
	// Parameters:
	//   - pose: the absolute pose
	SetWorldPose(pose common.Pose)

	// WorldPose retrieves the absolute pose derived through the parent chain.
	//
	// Returns:
	//   - common.Pose: the derived position and orientation
	WorldPose() common.Pose

	// SetVisible sets the visibility of the visual's renderables, and of its descendants' when cascade is set.
	//
	// Parameters:
	//   - visible: the visibility flag
	//   - cascade: whether descendants follow
	SetVisible(visible, cascade bool)

	// ToggleVisible inverts the visibility with cascade.
	ToggleVisible()

	// Visible retrieves the visibility flag.
	Visible() bool

	// SetTransparency clamps t to [0,1] and edits every pass of every per-node material instance
	// of the bound renderables. Shared base materials are replaced by instances before editing.
	//
	// Parameters:
	//   - t: the transparency
	SetTransparency(t float32)

	// Transparency retrieves the clamped transparency.
	Transparency() float32

	// SetEmissive sets the self-illumination of every pass of every per-node material instance.
	//
	// Parameters:
	//   - color: the emissive color
	SetEmissive(color common.Color)

	// SetMaterial applies the per-node instance of a base material to every bound renderable
	// and regenerates shaders. Empty and already applied names are ignored; an unknown base is
	// logged and leaves the previous material in place.
	//
	// Parameters:
	//   - name: the base material name
	SetMaterial(name string)

	// MaterialName retrieves the applied instance name <name>_MATERIAL_<base>, or "".
	MaterialName() string

	// SetColor records a solid color in the descriptor and sets the diffuse color of the
	// per-node instance, instancing the default material when none is applied.
	//
	// Parameters:
	//   - color: the color
	SetColor(color common.Color)

	// SetCastShadows sets the shadow flag of every bound renderable.
	SetCastShadows(cast bool)

	// SetNormalMap records a normal map and regenerates shaders.
	SetNormalMap(name string)

	// NormalMap retrieves the normal map name, or "".
	NormalMap() string

	// MakeStatic bakes the visual's subtree into a static batch when the backend supports it.
	MakeStatic()

	// IsStatic reports whether MakeStatic was requested.
	IsStatic() bool

	// IsPlane reports whether the geometry is a plane.
	IsPlane() bool

	// MeshName derives the mesh of the geometry: unit_box, unit_sphere, unit_cylinder,
	// unit_plane, the mesh filename, or "" when unset.
	MeshName() string

	// Load realises the descriptor: uploads and binds the geometry entity, then applies pose,
	// scale, material, shadow flag, visibility and transparency. Failures are logged and returned.
	//
	// Returns:
	//   - error: ErrNoBackendNode, a mesh store, upload or backend error
	Load() error

	// LoadFromMessage merges the geometry, material and shadow fields of msg into the descriptor,
	// reloads when the geometry changed (or nothing was loaded yet), then applies the remaining
	// fields as UpdateFromMessage does. Absent fields keep their current values.
	//
	// Parameters:
	//   - msg: the update
	//
	// Returns:
	//   - error: the Load error, if any
	LoadFromMessage(msg *descriptor.Message) error

	// LoadDescriptor replaces the descriptor, keeping the visual's name, and loads it.
	//
	// Parameters:
	//   - desc: the descriptor
	//
	// Returns:
	//   - error: a validation or Load error
	LoadDescriptor(desc *descriptor.Descriptor) error

	// UpdateFromMessage applies the runtime fields of msg in order: static request, world pose,
	// scale, visibility, transparency, material script.
	//
	// Parameters:
	//   - msg: the update
	UpdateFromMessage(msg *descriptor.Message)

	// Descriptor retrieves a copy of the authoritative descriptor.
	//
	// Returns:
	//   - *descriptor.Descriptor: the copy
	Descriptor() *descriptor.Descriptor

	// BoundingBox merges the world bounds of every visible renderable of the visual and its
	// descendants, skipping lines and renderables tagged rot* or trans*.
	//
	// Returns:
	//   - common.Box: the bounds, empty when nothing contributes
	BoundingBox() common.Box

	// Update refreshes the visual's lines. It runs every frame once a line exists and is
	// skipped while the visual is invisible.
	Update()

	// CreateDynamicLine creates and binds a line renderable owned by the visual.
	//
	// Parameters:
	//   - op: the primitive topology
	//
	// Returns:
	//   - renderer.DynamicLines: the line
	//   - error: ErrNoBackendNode or a backend error
	CreateDynamicLine(op renderer.RenderOp) (renderer.DynamicLines, error)

	// DeleteDynamicLine destroys an owned line. Lines the visual does not own are ignored.
	DeleteDynamicLine(line renderer.DynamicLines)

	// AttachLineVertex pins one point of a line to the visual's world position.
	//
	// Parameters:
	//   - line: the line
	//   - index: the point index
	AttachLineVertex(line renderer.DynamicLines, index int)

	// SetRibbonTrail shows or hides a trail following the visual, creating it on first use.
	SetRibbonTrail(enabled bool)

	// EnableTrackVisual keeps the visual oriented toward target.
	EnableTrackVisual(target Visual)

	// DisableTrackVisual stops tracking.
	DisableTrackVisual()

	// TrackedVisual retrieves the visual being tracked.
	//
	// Returns:
	//   - Visual: the target
	//   - bool: false if tracking is disabled or the target is gone
	TrackedVisual() (Visual, bool)

	// Destroy releases the visual's lines, trail and renderables, deregisters it, orphans its
	// children and destroys its node. Calling it again is a no-op.
	Destroy()
}

var (
	_ Visual        = &visual{}
	_ shader.Target = &visual{}
)

// NewVisual creates a visual under a parent visual. A nil context or parent is logged and
// yields a degraded visual with no backend node.
//
// Parameters:
//   - ctx: the scene context
//   - name: the requested name
//   - parent: the parent visual
//   - options: functional options for visual configuration
//
// Returns:
//   - Visual: the visual
func NewVisual(ctx Context, name string, parent Visual, options ...VisualBuilderOption) Visual {
	if parent == nil || parent.Node() == "" {
		logger.Log.Error("invalid parent visual", zap.String("visual", name))
		return newVisual(ctx, name, "", 0, false, options)
	}
	return newVisual(ctx, name, parent.Node(), parent.ID(), true, options)
}

// NewVisualUnderNode creates a visual under a raw backend node.
//
// Parameters:
//   - ctx: the scene context
//   - name: the requested name
//   - parent: the parent node
//   - options: functional options for visual configuration
//
// Returns:
//   - Visual: the visual
func NewVisualUnderNode(ctx Context, name string, parent renderer.NodeHandle, options ...VisualBuilderOption) Visual {
	return newVisual(ctx, name, parent, 0, parent != "", options)
}

// NewRootVisual creates a visual under the backend's root node.
//
// Parameters:
//   - ctx: the scene context
//   - name: the requested name
//   - options: functional options for visual configuration
//
// Returns:
//   - Visual: the visual
func NewRootVisual(ctx Context, name string, options ...VisualBuilderOption) Visual {
	if ctx == nil {
		return newVisual(nil, name, "", 0, false, options)
	}
	return newVisual(ctx, name, ctx.Backend().RootNode(), 0, true, options)
}

func newVisual(ctx Context, name string, parent renderer.NodeHandle, parentID uint64, hasParent bool, options []VisualBuilderOption) *visual {
	v := &visual{name: name, ctx: ctx}
	for _, option := range options {
		option(v)
	}

	switch {
	case ctx == nil:
		logger.Log.Error("visual created without a context", zap.String("visual", name))
	case !hasParent:
		logger.Log.Error("visual created without a parent node", zap.String("visual", name))
	default:
		b := ctx.Backend()
		v.name = uniqueName(b, name)
		node, err := b.CreateNode(v.name, parent)
		if err != nil {
			logger.Log.Error("failed to create visual node", zap.String("visual", v.name), zap.Error(err))
			break
		}
		v.node = node
		v.parentID = parentID
		v.id = ctx.NextVisualID()
	}

	v.init()

	if v.ready() {
		if p, ok := v.lookup(v.parentID); ok {
			p.children = append(p.children, v.id)
		}
		if v.pendingDesc != nil {
			_ = v.LoadDescriptor(v.pendingDesc)
		}
		if v.initialVisible != nil {
			v.SetVisible(*v.initialVisible, true)
		}
		if v.withAxes {
			if err := v.AttachAxes(); err != nil {
				logger.Log.Warn("failed to attach axes", zap.String("visual", v.name), zap.Error(err))
			}
		}
	}
	v.pendingDesc = nil
	v.initialVisible = nil
	return v
}

// uniqueName keeps name when no node uses it, otherwise probes name_1, name_2, ...
func uniqueName(b renderer.RenderBackend, name string) string {
	candidate := name
	for i := 1; b.HasNode(candidate); i++ {
		candidate = name + "_" + strconv.Itoa(i)
	}
	return candidate
}

func (v *visual) init() {
	v.desc = descriptor.New(v.name)
	v.scale = mgl32.Vec3{1, 1, 1}
	v.transparency = 0
	v.visible = true
	v.isStatic = false
	if v.ready() {
		v.ctx.Shaders().AttachEntity(v)
		v.ctx.Register(v)
	}
}

func (v *visual) ready() bool {
	return v.ctx != nil && v.node != "" && !v.destroyed
}

func (v *visual) backend() renderer.RenderBackend {
	return v.ctx.Backend()
}

func (v *visual) lookup(id uint64) (*visual, bool) {
	if id == 0 || v.ctx == nil {
		return nil, false
	}
	found, ok := v.ctx.Lookup(id)
	if !ok {
		return nil, false
	}
	impl, ok := found.(*visual)
	return impl, ok
}

func (v *visual) ID() uint64 {
	return v.id
}

func (v *visual) Name() string {
	return v.name
}

func (v *visual) Node() renderer.NodeHandle {
	return v.node
}

func (v *visual) Parent() Visual {
	if p, ok := v.lookup(v.parentID); ok {
		return p
	}
	return nil
}

func (v *visual) Children() []Visual {
	out := make([]Visual, 0, len(v.children))
	for _, id := range v.children {
		if c, ok := v.lookup(id); ok {
			out = append(out, c)
		}
	}
	return out
}

func (v *visual) AttachVisual(child Visual) {
	c, ok := child.(*visual)
	if !ok || c == nil {
		logger.Log.Error("cannot attach visual", zap.String("visual", v.name), zap.Error(ErrNilVisual))
		return
	}
	if !v.ready() || !c.ready() {
		logger.Log.Error("cannot attach visual", zap.String("visual", v.name), zap.String("child", c.name), zap.Error(ErrNoBackendNode))
		return
	}
	b := v.backend()
	for n, ok := v.node, true; ok; n, ok = b.ParentNode(n) {
		if n == c.node {
			logger.Log.Error("cannot attach an ancestor", zap.String("visual", v.name), zap.String("child", c.name), zap.Error(renderer.ErrNodeCycle))
			return
		}
	}

	if p, ok := b.ParentNode(c.node); ok {
		if err := b.RemoveChild(p, c.node); err != nil {
			logger.Log.Warn("failed to detach visual from its parent", zap.String("visual", c.name), zap.Error(err))
		}
	}
	if old, ok := v.lookup(c.parentID); ok {
		old.removeChildID(c.id)
	}
	if err := b.AddChild(v.node, c.node); err != nil {
		logger.Log.Error("failed to attach visual", zap.String("visual", v.name), zap.String("child", c.name), zap.Error(err))
		c.parentID = 0
		return
	}
	c.parentID = v.id
	v.children = append(v.children, c.id)
}

func (v *visual) DetachVisual(child Visual) {
	c, ok := child.(*visual)
	if !ok || c == nil || c.parentID != v.id || !v.ready() {
		return
	}
	if c.node != "" {
		if err := v.backend().RemoveChild(v.node, c.node); err != nil {
			logger.Log.Warn("failed to detach visual", zap.String("visual", v.name), zap.String("child", c.name), zap.Error(err))
		}
	}
	v.removeChildID(c.id)
	c.parentID = 0
}

func (v *visual) removeChildID(id uint64) {
	if i := common.IndexOf(v.children, id); i >= 0 {
		v.children = append(v.children[:i], v.children[i+1:]...)
	}
}

func (v *visual) AttachObject(obj renderer.Attachment) error {
	if !v.ready() {
		return ErrNoBackendNode
	}
	if v.desc.IsPlane() {
		obj.SetRenderQueueGroup(renderer.RenderQueueWorldGeometry1 - 2)
	}
	if err := v.backend().AttachObject(v.node, obj); err != nil {
		return fmt.Errorf("failed to attach %s to %s: %w", obj.Name(), v.name, err)
	}
	obj.SetTag(v.name)
	return nil
}

func (v *visual) DetachObjects() {
	if v.ready() {
		v.backend().DetachAllObjects(v.node)
	}
}

func (v *visual) NumAttached() int {
	if !v.ready() {
		return 0
	}
	return v.backend().NumAttached(v.node)
}

func (v *visual) Attached(i int) renderer.Attachment {
	if !v.ready() {
		return nil
	}
	return v.backend().Attached(v.node, i)
}

func (v *visual) AttachMesh(meshName string) error {
	if !v.ready() {
		return ErrNoBackendNode
	}
	if _, err := v.meshResource(meshName); err != nil {
		return err
	}
	e, err := v.backend().CreateEntity(v.name+"_ENTITY_"+meshName, meshName)
	if err != nil {
		return err
	}
	return v.AttachObject(e)
}

// meshResource returns the backend resource of a mesh, uploading it from the store if needed.
func (v *visual) meshResource(meshName string) (renderer.MeshResource, error) {
	if res, ok := v.backend().MeshResource(meshName); ok {
		return res, nil
	}
	m, err := v.ctx.MeshStore().GetMesh(meshName)
	if err != nil {
		return nil, err
	}
	return v.ctx.Uploader().InsertMesh(m)
}

func (v *visual) SetScale(scale mgl32.Vec3) {
	v.scale = scale
	v.desc.Geometry.SetScale(scale)
	if v.desc.Geometry.Kind() == descriptor.KindSphere {
		scale = v.desc.Geometry.Scale()
	}
	if v.ready() {
		v.backend().SetScale(v.node, scale)
	}
}

func (v *visual) Scale() mgl32.Vec3 {
	switch v.desc.Geometry.Kind() {
	case descriptor.KindBox, descriptor.KindCylinder, descriptor.KindMesh:
		return v.scale
	}
	return v.desc.Geometry.Scale()
}

func (v *visual) SetPose(pose common.Pose) {
	v.SetPosition(pose.Position)
	v.SetRotation(pose.Rotation)
}

func (v *visual) Pose() common.Pose {
	return common.NewPose(v.Position(), v.Rotation())
}

func (v *visual) SetPosition(pos mgl32.Vec3) {
	p := v.descPose()
	p.Position = pos
	if v.ready() {
		v.backend().SetPosition(v.node, pos)
		v.updateLineVertices()
	}
}

func (v *visual) Position() mgl32.Vec3 {
	if !v.ready() {
		return v.descPose().Position
	}
	return v.backend().Position(v.node)
}

func (v *visual) SetRotation(rot mgl32.Quat) {
	v.descPose().Rotation = rot
	if v.ready() {
		v.backend().SetOrientation(v.node, rot)
	}
}

func (v *visual) Rotation() mgl32.Quat {
	if !v.ready() {
		return v.descPose().Rotation
	}
	return v.backend().Orientation(v.node)
}

func (v *visual) SetWorldPose(pose common.Pose) {
	if !v.ready() {
		*v.descPose() = pose
		return
	}
	b := v.backend()
	b.SetWorldPose(v.node, pose)
	*v.descPose() = common.NewPose(b.Position(v.node), b.Orientation(v.node))
	v.updateLineVertices()
}

func (v *visual) WorldPose() common.Pose {
	if !v.ready() {
		return *v.descPose()
	}
	return v.backend().WorldPose(v.node)
}

// descPose returns the descriptor pose, creating an identity pose when absent.
func (v *visual) descPose() *common.Pose {
	if v.desc.Pose == nil {
		p := common.IdentityPose()
		v.desc.Pose = &p
	}
	return v.desc.Pose
}

func (v *visual) SetVisible(visible, cascade bool) {
	v.visible = visible
	v.desc.Visible = descriptor.Ptr(visible)
	if v.ready() {
		v.backend().SetVisible(v.node, visible, cascade)
	}
}

func (v *visual) ToggleVisible() {
	v.SetVisible(!v.visible, true)
}

func (v *visual) Visible() bool {
	return v.visible
}

func (v *visual) IsStatic() bool {
	return v.isStatic
}

func (v *visual) IsPlane() bool {
	return v.desc.IsPlane()
}

func (v *visual) MeshName() string {
	return v.desc.MeshName()
}

func (v *visual) Descriptor() *descriptor.Descriptor {
	return v.desc.Clone()
}

func (v *visual) EnableTrackVisual(target Visual) {
	if target == nil || !v.ready() {
		return
	}
	v.backend().SetAutoTracking(v.node, true, target.Node())
	v.trackID = target.ID()
}

func (v *visual) DisableTrackVisual() {
	if v.ready() {
		v.backend().SetAutoTracking(v.node, false, "")
	}
	v.trackID = 0
}

func (v *visual) TrackedVisual() (Visual, bool) {
	if !v.ready() {
		return nil, false
	}
	if _, ok := v.backend().AutoTrackTarget(v.node); !ok {
		return nil, false
	}
	t, ok := v.lookup(v.trackID)
	if !ok {
		return nil, false
	}
	return t, true
}

func (v *visual) Destroy() {
	if v.destroyed {
		return
	}
	if v.ctx == nil || v.node == "" {
		v.destroyed = true
		return
	}
	b := v.backend()

	if v.connected {
		v.ctx.Bus().DisconnectPreRender(v.preRender)
		v.connected = false
	}
	for _, l := range v.lines {
		b.DestroyObject(l)
	}
	v.lines = nil
	v.lineVertices = nil
	if v.ribbon != nil {
		b.DestroyObject(v.ribbon)
		v.ribbon = nil
	}
	v.ctx.Shaders().DetachEntity(v)

	v.destroyAxes()
	for _, id := range v.children {
		if c, ok := v.lookup(id); ok {
			c.parentID = 0
		}
	}
	v.children = nil
	b.RemoveAllChildren(v.node)
	for i := b.NumAttached(v.node) - 1; i >= 0; i-- {
		if obj := b.Attached(v.node, i); obj != nil && obj.Tag() == v.name {
			b.DestroyObject(obj)
		}
	}
	b.DetachAllObjects(v.node)
	if err := b.DestroyNode(v.node); err != nil {
		logger.Log.Warn("failed to destroy visual node", zap.String("visual", v.name), zap.Error(err))
	}

	if p, ok := v.lookup(v.parentID); ok {
		p.removeChildID(v.id)
	}
	v.parentID = 0
	v.ctx.Unregister(v)
	v.node = ""
	v.destroyed = true
}
