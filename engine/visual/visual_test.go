package visual

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-visual/common"
	"github.com/Carmen-Shannon/oxy-visual/engine/descriptor"
	"github.com/Carmen-Shannon/oxy-visual/engine/event"
	"github.com/Carmen-Shannon/oxy-visual/engine/loader"
	"github.com/Carmen-Shannon/oxy-visual/engine/mesh"
	"github.com/Carmen-Shannon/oxy-visual/engine/model"
	"github.com/Carmen-Shannon/oxy-visual/engine/renderer"
	"github.com/Carmen-Shannon/oxy-visual/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-visual/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-visual/internal/logger"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// testContext is a minimal Context over the memory backend.
type testContext struct {
	backend   renderer.RenderBackend
	store     loader.MeshStore
	uploader  mesh.Uploader
	instancer material.Instancer
	shaders   shader.Coordinator
	bus       event.Bus
	visuals   map[uint64]Visual
	nextID    uint64
	cast      bool
}

var _ Context = &testContext{}

func newTestContext(t *testing.T, backendOptions ...renderer.MemoryBackendBuilderOption) *testContext {
	t.Helper()
	b := renderer.NewMemoryBackend(backendOptions...)
	store := loader.NewMeshStore(
		loader.WithMesh(offsetMesh()),
		loader.WithMesh(model.NewMesh("hollow")),
	)
	t.Cleanup(store.Close)
	return &testContext{
		backend:   b,
		store:     store,
		uploader:  mesh.NewUploader(b),
		instancer: material.NewInstancer(b.Materials()),
		shaders:   shader.NewCoordinator(),
		bus:       event.NewBus(),
		visuals:   make(map[uint64]Visual),
		cast:      true,
	}
}

func (c *testContext) Backend() renderer.RenderBackend { return c.backend }
func (c *testContext) MeshStore() loader.MeshStore      { return c.store }
func (c *testContext) Uploader() mesh.Uploader          { return c.uploader }
func (c *testContext) Instancer() material.Instancer    { return c.instancer }
func (c *testContext) Shaders() shader.Coordinator      { return c.shaders }
func (c *testContext) Bus() event.Bus                   { return c.bus }
func (c *testContext) CastShadowsDefault() bool         { return c.cast }

func (c *testContext) NextVisualID() uint64 {
	c.nextID++
	return c.nextID
}

func (c *testContext) Register(v Visual)   { c.visuals[v.ID()] = v }
func (c *testContext) Unregister(v Visual) { delete(c.visuals, v.ID()) }

func (c *testContext) Lookup(id uint64) (Visual, bool) {
	v, ok := c.visuals[id]
	return v, ok
}

// offsetMesh is a single triangle spanning (2,2,2)..(3,3,3).
func offsetMesh() model.Mesh {
	return model.NewMesh("offset", model.WithSubMeshes(&model.SubMesh{
		Vertices:      []mgl32.Vec3{{2, 2, 2}, {3, 2, 2}, {2, 3, 3}},
		Indices:       []uint32{0, 1, 2},
		MaterialIndex: -1,
	}))
}

func boxDescriptor(size mgl32.Vec3) *descriptor.Descriptor {
	d := descriptor.New("")
	d.Geometry.SetBox(size)
	return d
}

func observeLogs(t *testing.T, level zapcore.Level) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(level)
	logger.SetLogger(zap.New(core))
	t.Cleanup(func() { logger.SetLogger(nil) })
	return logs
}

func assertVec3InDelta(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	for i := 0; i < 3; i++ {
		assert.InDelta(t, want[i], got[i], 1e-4, "component %d of %v", i, got)
	}
}

func TestUniqueNames(t *testing.T) {
	ctx := newTestContext(t)
	root := NewRootVisual(ctx, "scene")

	first := NewVisual(ctx, "box", root)
	second := NewVisual(ctx, "box", root)
	third := NewVisual(ctx, "box", first)

	assert.Equal(t, "box", first.Name())
	assert.Equal(t, "box_1", second.Name())
	assert.Equal(t, "box_2", third.Name())
	assert.Equal(t, "root_1", NewRootVisual(ctx, "root").Name())

	ids := map[uint64]bool{}
	for _, v := range []Visual{root, first, second, third} {
		assert.NotZero(t, v.ID())
		assert.False(t, ids[v.ID()])
		ids[v.ID()] = true
		assert.True(t, ctx.shaders.Attached(v.Name()))
	}
	assert.Len(t, root.Children(), 2)
	assert.Same(t, first, third.Parent())
}

func TestDegradedVisual(t *testing.T) {
	logs := observeLogs(t, zapcore.ErrorLevel)

	orphan := NewVisual(newTestContext(t), "lost", nil)
	assert.Equal(t, 1, logs.FilterMessage("invalid parent visual").Len())
	assert.Equal(t, "lost", orphan.Name())
	assert.Empty(t, orphan.Node())

	noCtx := NewRootVisual(nil, "void")
	assert.Equal(t, 1, logs.FilterMessage("visual created without a context").Len())

	for _, v := range []Visual{orphan, noCtx} {
		assert.ErrorIs(t, v.Load(), ErrNoBackendNode)
		assert.ErrorIs(t, v.AttachMesh(descriptor.MeshUnitBox), ErrNoBackendNode)
		assert.ErrorIs(t, v.AttachAxes(), ErrNoBackendNode)
		assert.Zero(t, v.NumAttached())
		assert.True(t, v.BoundingBox().IsEmpty())

		v.SetPosition(mgl32.Vec3{1, 2, 3})
		v.SetMaterial("Oxy/Red")
		v.SetTransparency(2)
		assert.Equal(t, mgl32.Vec3{1, 2, 3}, v.Position())
		assert.Equal(t, "Oxy/Red", v.Descriptor().MaterialScript())
		assert.Equal(t, float32(1), v.Transparency())
		v.Destroy()
	}
}

func TestReparentIsExclusive(t *testing.T) {
	ctx := newTestContext(t)
	root := NewRootVisual(ctx, "scene")
	a := NewVisual(ctx, "a", root)
	b := NewVisual(ctx, "b", root)
	c := NewVisual(ctx, "c", b)

	a.AttachVisual(c)
	assert.Same(t, a, c.Parent())
	assert.Empty(t, b.Children())
	assert.Empty(t, ctx.backend.ChildNodes(b.Node()))
	assert.Equal(t, []renderer.NodeHandle{c.Node()}, ctx.backend.ChildNodes(a.Node()))

	logs := observeLogs(t, zapcore.ErrorLevel)
	c.AttachVisual(a)
	a.AttachVisual(a)
	assert.Equal(t, 2, logs.FilterMessage("cannot attach an ancestor").Len())
	assert.Same(t, root, a.Parent())
	assert.Same(t, a, c.Parent())

	a.DetachVisual(c)
	assert.Nil(t, c.Parent())
	assert.Empty(t, a.Children())
	_, hasParent := ctx.backend.ParentNode(c.Node())
	assert.False(t, hasParent)

	b.AttachVisual(c)
	assert.Same(t, b, c.Parent())
}

func TestScaleRoundTrip(t *testing.T) {
	v := mgl32.Vec3{2, 3, 4}
	tests := []struct {
		name string
		set  func(*descriptor.Geometry)
		want mgl32.Vec3
	}{
		{"box", func(g *descriptor.Geometry) { g.SetBox(mgl32.Vec3{1, 1, 1}) }, v},
		{"cylinder", func(g *descriptor.Geometry) { g.SetCylinder(1, 1) }, v},
		{"mesh", func(g *descriptor.Geometry) { g.SetMesh("offset", mgl32.Vec3{1, 1, 1}) }, v},
		{"sphere", func(g *descriptor.Geometry) { g.SetSphere(1) }, mgl32.Vec3{2, 2, 2}},
		{"plane", func(g *descriptor.Geometry) { g.SetPlane(mgl32.Vec3{0, 0, 1}) }, mgl32.Vec3{1, 1, 1}},
		{"empty", func(*descriptor.Geometry) {}, mgl32.Vec3{1, 1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := newTestContext(t)
			d := descriptor.New("")
			tt.set(&d.Geometry)
			vis := NewRootVisual(ctx, tt.name, WithDescriptor(d))

			vis.SetScale(v)
			assert.Equal(t, tt.want, vis.Scale())
		})
	}
}

func TestSphereScaleIsUniform(t *testing.T) {
	ctx := newTestContext(t)
	d := descriptor.New("")
	d.Geometry.SetSphere(0.5)
	v := NewRootVisual(ctx, "ball", WithDescriptor(d))
	assert.Equal(t, mgl32.Vec3{0.5, 0.5, 0.5}, ctx.backend.Scale(v.Node()))

	v.SetScale(mgl32.Vec3{3, 1, 1})
	assert.Equal(t, mgl32.Vec3{3, 3, 3}, ctx.backend.Scale(v.Node()))
	assert.Equal(t, float32(3), v.Descriptor().Geometry.Sphere.Radius)
}

func TestTransparencyClamps(t *testing.T) {
	ctx := newTestContext(t)
	v := NewRootVisual(ctx, "glass", WithDescriptor(boxDescriptor(mgl32.Vec3{1, 1, 1})))

	v.SetTransparency(-0.5)
	assert.Equal(t, float32(0), v.Transparency())

	v.SetTransparency(1.7)
	assert.Equal(t, float32(1), v.Transparency())
	assert.Equal(t, float32(1), *v.Descriptor().Transparency)

	e, ok := ctx.backend.Entity(geometryEntityPrefix + "glass")
	require.True(t, ok)
	key := ctx.instancer.InstanceKey("glass", renderer.DefaultMaterialName)
	assert.Equal(t, key, e.SubMaterialName(0))

	inst, ok := ctx.backend.Materials().Get(key)
	require.True(t, ok)
	pass := inst.Technique(0).Passes[0]
	assert.False(t, pass.DepthWrite)
	assert.Equal(t, float32(0), pass.Diffuse.A)

	base, ok := ctx.backend.Materials().Get(renderer.DefaultMaterialName)
	require.True(t, ok)
	assert.True(t, base.Technique(0).Passes[0].DepthWrite)
	assert.Equal(t, float32(1), base.Technique(0).Passes[0].Diffuse.A)
}

func TestSetMaterialIsIdempotent(t *testing.T) {
	ctx := newTestContext(t, renderer.WithMaterials(material.NewMaterial("Oxy/Test")))
	v := NewRootVisual(ctx, "crate", WithDescriptor(boxDescriptor(mgl32.Vec3{1, 1, 1})))

	v.SetMaterial("Oxy/Test")
	name := v.MaterialName()
	generation := ctx.shaders.Generation()
	v.SetMaterial("Oxy/Test")

	assert.Equal(t, "crate_MATERIAL_Oxy/Test", name)
	assert.Equal(t, name, v.MaterialName())
	assert.Equal(t, 1, ctx.instancer.Clones())
	assert.Equal(t, generation, ctx.shaders.Generation())
	assert.Equal(t, name, v.Attached(0).MaterialName())
	assert.Equal(t, "Oxy/Test", v.Descriptor().MaterialScript())

	v.SetMaterial("")
	assert.Equal(t, name, v.MaterialName())
}

func TestUnknownMaterialKeepsPrevious(t *testing.T) {
	ctx := newTestContext(t, renderer.WithMaterials(material.NewMaterial("Oxy/Test")))
	v := NewRootVisual(ctx, "crate", WithDescriptor(boxDescriptor(mgl32.Vec3{1, 1, 1})))
	v.SetMaterial("Oxy/Test")

	logs := observeLogs(t, zapcore.WarnLevel)
	v.SetMaterial("Oxy/Missing")

	assert.Equal(t, 1, logs.FilterMessage("unable to set material, keeping the previous one").Len())
	assert.Equal(t, "crate_MATERIAL_Oxy/Test", v.MaterialName())
	assert.Equal(t, "Oxy/Test", v.Descriptor().MaterialScript())
}

func TestColorAndEmissive(t *testing.T) {
	ctx := newTestContext(t)
	v := NewRootVisual(ctx, "lamp", WithDescriptor(boxDescriptor(mgl32.Vec3{1, 1, 1})))

	v.SetColor(common.ColorRed)
	v.SetEmissive(common.ColorBlue)

	key := ctx.instancer.InstanceKey("lamp", renderer.DefaultMaterialName)
	assert.Equal(t, key, v.MaterialName())
	inst, ok := ctx.backend.Materials().Get(key)
	require.True(t, ok)
	assert.Equal(t, common.ColorRed, inst.Technique(0).Passes[0].Diffuse)
	assert.Equal(t, common.ColorBlue, inst.Technique(0).Passes[0].SelfIllumination)

	base, _ := ctx.backend.Materials().Get(renderer.DefaultMaterialName)
	assert.Equal(t, common.ColorWhite, base.Technique(0).Passes[0].Diffuse)

	color, ok := v.Descriptor().MaterialColor()
	assert.True(t, ok)
	assert.Equal(t, common.ColorRed, color)
	assert.Empty(t, v.Descriptor().MaterialScript())
}

func TestNormalMapRegeneratesShaders(t *testing.T) {
	ctx := newTestContext(t, renderer.WithMaterials(material.NewMaterial("Oxy/Test")))
	v := NewRootVisual(ctx, "wall", WithDescriptor(boxDescriptor(mgl32.Vec3{1, 1, 1})))
	v.SetMaterial("Oxy/Test")
	generation := ctx.shaders.Generation()

	v.SetNormalMap("bricks.png")

	assert.Equal(t, "bricks.png", v.NormalMap())
	assert.Equal(t, generation+1, ctx.shaders.Generation())
	program, ok := ctx.shaders.Program("wall")
	require.True(t, ok)
	assert.Contains(t, program.Defines, shader.DefineNormalMap)
	inst, _ := ctx.backend.Materials().Get(v.MaterialName())
	assert.Equal(t, "bricks.png", inst.NormalMap())
}

func TestBoundingBoxUnion(t *testing.T) {
	ctx := newTestContext(t)
	root := NewRootVisual(ctx, "scene")
	parent := NewVisual(ctx, "parent", root, WithDescriptor(boxDescriptor(mgl32.Vec3{1, 1, 1})))
	require.NoError(t, parent.AttachMesh("offset"))

	box := parent.BoundingBox()
	assertVec3InDelta(t, mgl32.Vec3{-0.5, -0.5, -0.5}, box.Min)
	assertVec3InDelta(t, mgl32.Vec3{3, 3, 3}, box.Max)

	child := NewVisual(ctx, "child", parent, WithDescriptor(boxDescriptor(mgl32.Vec3{1, 1, 1})))
	child.SetPosition(mgl32.Vec3{10, 0, 0})
	handle := NewVisual(ctx, "trans_handle", parent, WithDescriptor(boxDescriptor(mgl32.Vec3{1, 1, 1})))
	handle.SetPosition(mgl32.Vec3{-20, 0, 0})
	line, err := parent.CreateDynamicLine(renderer.RenderOpLineList)
	require.NoError(t, err)
	line.AddPoint(mgl32.Vec3{0, 50, 0})
	line.Update()

	box = parent.BoundingBox()
	assertVec3InDelta(t, mgl32.Vec3{-0.5, -0.5, -0.5}, box.Min)
	assertVec3InDelta(t, mgl32.Vec3{10.5, 3, 3}, box.Max)

	child.SetVisible(false, true)
	box = parent.BoundingBox()
	assertVec3InDelta(t, mgl32.Vec3{3, 3, 3}, box.Max)

	assert.True(t, NewVisual(ctx, "empty", root).BoundingBox().IsEmpty())
}

func TestEmptyMeshIsRejected(t *testing.T) {
	ctx := newTestContext(t)
	v := NewRootVisual(ctx, "ghost")
	d := descriptor.New("")
	d.Geometry.SetMesh("hollow", mgl32.Vec3{1, 1, 1})

	err := v.LoadDescriptor(d)
	assert.ErrorIs(t, err, mesh.ErrNoSubMeshes)
	assert.Zero(t, v.NumAttached())
	assert.False(t, ctx.backend.HasMeshResource("hollow"))
}

func TestPartialUpdateKeepsState(t *testing.T) {
	ctx := newTestContext(t, renderer.WithMaterials(material.NewMaterial("Oxy/Test")))
	v := NewRootVisual(ctx, "crate")
	geom := &descriptor.Geometry{}
	geom.SetBox(mgl32.Vec3{1, 1, 1})
	require.NoError(t, v.LoadFromMessage(&descriptor.Message{
		Name:           "crate",
		Geometry:       geom,
		MaterialScript: descriptor.Ptr("Oxy/Test"),
		Scale:          &mgl32.Vec3{2, 3, 4},
		Visible:        descriptor.Ptr(false),
	}))
	matName := v.MaterialName()

	pose := common.NewPose(mgl32.Vec3{1, 2, 3}, mgl32.QuatIdent())
	require.NoError(t, v.LoadFromMessage(&descriptor.Message{Name: "crate", Pose: &pose}))

	assert.Equal(t, matName, v.MaterialName())
	assert.Equal(t, mgl32.Vec3{2, 3, 4}, v.Scale())
	assert.False(t, v.Visible())
	assert.False(t, v.Attached(0).Visible())
	assert.Equal(t, 1, v.NumAttached())
	assert.Equal(t, 1, ctx.instancer.Clones())
	assertVec3InDelta(t, mgl32.Vec3{1, 2, 3}, v.Position())
}

func TestGeometryChangeRecreatesEntity(t *testing.T) {
	ctx := newTestContext(t, renderer.WithMaterials(material.NewMaterial("Oxy/Test")))
	v := NewRootVisual(ctx, "shape")
	geom := &descriptor.Geometry{}
	geom.SetBox(mgl32.Vec3{1, 1, 1})
	require.NoError(t, v.LoadFromMessage(&descriptor.Message{Geometry: geom, MaterialScript: descriptor.Ptr("Oxy/Test")}))

	geom = &descriptor.Geometry{}
	geom.SetSphere(1)
	require.NoError(t, v.LoadFromMessage(&descriptor.Message{Geometry: geom}))

	e, ok := ctx.backend.Entity(geometryEntityPrefix + "shape")
	require.True(t, ok)
	assert.Equal(t, descriptor.MeshUnitSphere, e.MeshName())
	assert.Equal(t, descriptor.MeshUnitSphere, v.MeshName())
	assert.Equal(t, 1, v.NumAttached())
	assert.Equal(t, "shape_MATERIAL_Oxy/Test", e.MaterialName())
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, v.Scale())
}

func TestPlaneRendersFirst(t *testing.T) {
	ctx := newTestContext(t)
	d := descriptor.New("")
	d.Geometry.SetPlane(mgl32.Vec3{0, 0, 1})
	v := NewRootVisual(ctx, "ground", WithDescriptor(d))

	require.Equal(t, 1, v.NumAttached())
	assert.True(t, v.IsPlane())
	assert.Equal(t, uint8(renderer.RenderQueueWorldGeometry1-2), v.Attached(0).RenderQueueGroup())
}

func TestCastShadows(t *testing.T) {
	ctx := newTestContext(t)
	ctx.cast = false
	v := NewRootVisual(ctx, "quiet", WithDescriptor(boxDescriptor(mgl32.Vec3{1, 1, 1})))
	assert.False(t, v.Attached(0).CastShadows())
	assert.Nil(t, v.Descriptor().CastShadows)

	v.SetCastShadows(true)
	assert.True(t, v.Attached(0).CastShadows())
	assert.True(t, *v.Descriptor().CastShadows)
}

func TestWorldPose(t *testing.T) {
	ctx := newTestContext(t)
	root := NewRootVisual(ctx, "scene")
	parent := NewVisual(ctx, "parent", root)
	turn := mgl32.QuatRotate(float32(math.Pi/2), mgl32.Vec3{0, 0, 1})
	parent.SetPose(common.NewPose(mgl32.Vec3{1, 0, 0}, turn))
	child := NewVisual(ctx, "child", parent)

	child.SetWorldPose(common.NewPose(mgl32.Vec3{1, 5, 0}, turn))

	assertVec3InDelta(t, mgl32.Vec3{5, 0, 0}, child.Position())
	assertVec3InDelta(t, mgl32.Vec3{5, 0, 0}, child.Descriptor().Pose.Position)
	world := child.WorldPose()
	assertVec3InDelta(t, mgl32.Vec3{1, 5, 0}, world.Position)
	assert.True(t, world.Rotation.ApproxEqualThreshold(turn, 1e-4))
	assert.True(t, child.Rotation().ApproxEqualThreshold(mgl32.QuatIdent(), 1e-4))
}

func TestDynamicLines(t *testing.T) {
	ctx := newTestContext(t)
	v := NewRootVisual(ctx, "pen")

	first, err := v.CreateDynamicLine(renderer.RenderOpLineStrip)
	require.NoError(t, err)
	second, err := v.CreateDynamicLine(renderer.RenderOpLineList)
	require.NoError(t, err)
	assert.Equal(t, "pen_LINE_0", first.Name())
	assert.Equal(t, "pen_LINE_1", second.Name())
	assert.Equal(t, 1, ctx.bus.PreRenderCount())
	assert.Equal(t, 2, v.NumAttached())

	v.AttachLineVertex(first, 1)
	v.SetPosition(mgl32.Vec3{1, 2, 3})
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, first.Point(1))

	revision := second.Revision()
	second.AddPoint(mgl32.Vec3{0, 1, 0})
	ctx.bus.FirePreRender()
	assert.Equal(t, revision+1, second.Revision())

	v.SetVisible(false, true)
	second.AddPoint(mgl32.Vec3{0, 2, 0})
	ctx.bus.FirePreRender()
	assert.Equal(t, revision+1, second.Revision())

	v.DeleteDynamicLine(first)
	assert.Equal(t, 1, v.NumAttached())
	_, attached := first.ParentNode()
	assert.False(t, attached)

	v.Destroy()
	assert.Zero(t, ctx.bus.PreRenderCount())
}

func TestRibbonTrail(t *testing.T) {
	ctx := newTestContext(t)
	v := NewRootVisual(ctx, "comet")

	v.SetRibbonTrail(true)
	require.Equal(t, 1, v.NumAttached())
	trail, ok := v.Attached(0).(renderer.RibbonTrail)
	require.True(t, ok)
	assert.Equal(t, "comet_RIBBON_TRAIL", trail.Name())
	assert.Equal(t, MaterialRed, trail.MaterialName())
	assert.Equal(t, float32(200), trail.TrailLength())
	assert.True(t, trail.Visible())
	assert.Equal(t, []renderer.NodeHandle{v.Node()}, trail.TrackedNodes())

	v.SetRibbonTrail(true)
	assert.Len(t, trail.TrackedNodes(), 1)

	v.SetRibbonTrail(false)
	assert.False(t, trail.Visible())
	assert.Empty(t, trail.TrackedNodes())
	assert.Equal(t, 1, v.NumAttached())
}

func TestAttachAxes(t *testing.T) {
	ctx := newTestContext(t)
	v := NewRootVisual(ctx, "frame", WithAxes())

	axes := renderer.NodeHandle("frame" + axesNodeSuffix)
	require.True(t, ctx.backend.HasNode(string(axes)))
	assert.Len(t, ctx.backend.ChildNodes(axes), 3)
	require.NoError(t, v.AttachAxes())
	assert.Len(t, ctx.backend.ChildNodes(v.Node()), 1)

	want := map[string]string{"X_AXIS": MaterialRed, "Y_AXIS": MaterialGreen, "Z_AXIS": MaterialBlue}
	for suffix, mat := range want {
		e, ok := ctx.backend.Entity(string(axes) + suffix)
		require.True(t, ok, suffix)
		assert.Equal(t, mat, e.MaterialName())
		assert.False(t, e.CastShadows())
	}

	box := v.BoundingBox()
	assertVec3InDelta(t, mgl32.Vec3{0.5, 0.5, 0.5}, box.Max)

	v.Destroy()
	assert.False(t, ctx.backend.HasNode(string(axes)))
	assert.False(t, ctx.backend.HasEntity(string(axes)+"X_AXIS"))
}

func TestTrackVisual(t *testing.T) {
	ctx := newTestContext(t)
	root := NewRootVisual(ctx, "scene")
	eye := NewVisual(ctx, "eye", root)
	target := NewVisual(ctx, "target", root)
	target.SetPosition(mgl32.Vec3{0, 0, -5})

	eye.EnableTrackVisual(target)
	tracked, ok := eye.TrackedVisual()
	require.True(t, ok)
	assert.Same(t, target, tracked)

	eye.DisableTrackVisual()
	_, ok = eye.TrackedVisual()
	assert.False(t, ok)
}

func TestMakeStatic(t *testing.T) {
	ctx := newTestContext(t, renderer.WithStaticGeometry(true))
	v := NewRootVisual(ctx, "rock", WithDescriptor(boxDescriptor(mgl32.Vec3{1, 1, 1})))

	v.MakeStatic()
	assert.True(t, v.IsStatic())
	assert.True(t, v.Descriptor().Static)
	baked, ok := renderer.StaticBatch(ctx.backend, "rock_Static")
	require.True(t, ok)
	assert.Equal(t, []string{geometryEntityPrefix + "rock"}, baked)

	unsupported := newTestContext(t)
	plain := NewRootVisual(unsupported, "rock", WithDescriptor(boxDescriptor(mgl32.Vec3{1, 1, 1})))
	plain.MakeStatic()
	assert.True(t, plain.IsStatic())
	_, ok = renderer.StaticBatch(unsupported.backend, "rock_Static")
	assert.False(t, ok)
}

func TestWithVisible(t *testing.T) {
	ctx := newTestContext(t)
	v := NewRootVisual(ctx, "hidden", WithDescriptor(boxDescriptor(mgl32.Vec3{1, 1, 1})), WithVisible(false))

	assert.False(t, v.Visible())
	assert.False(t, v.Attached(0).Visible())

	v.ToggleVisible()
	assert.True(t, v.Visible())
	assert.True(t, v.Attached(0).Visible())
}

func TestDestroy(t *testing.T) {
	ctx := newTestContext(t)
	root := NewRootVisual(ctx, "scene")
	parent := NewVisual(ctx, "parent", root, WithDescriptor(boxDescriptor(mgl32.Vec3{1, 1, 1})), WithAxes())
	child := NewVisual(ctx, "child", parent)
	line, err := parent.CreateDynamicLine(renderer.RenderOpLineList)
	require.NoError(t, err)
	parent.SetRibbonTrail(true)
	node := parent.Node()

	parent.Destroy()
	parent.Destroy()

	assert.False(t, ctx.backend.HasNode(string(node)))
	assert.False(t, ctx.backend.HasEntity(geometryEntityPrefix+"parent"))
	assert.False(t, ctx.shaders.Attached("parent"))
	_, attached := line.ParentNode()
	assert.False(t, attached)
	assert.Zero(t, ctx.bus.PreRenderCount())
	_, ok := ctx.Lookup(parent.ID())
	assert.False(t, ok)
	assert.Empty(t, root.Children())
	assert.Empty(t, parent.Node())

	assert.Nil(t, child.Parent())
	assert.True(t, ctx.backend.HasNode(string(child.Node())))
}
