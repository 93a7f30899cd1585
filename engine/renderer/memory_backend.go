package renderer

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-visual/common"
	"github.com/Carmen-Shannon/oxy-visual/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
)

// memNode is one node of the in-memory scene tree.
type memNode struct {
	name        string
	parent      *memNode
	children    []*memNode
	objects     []movableObject
	position    mgl32.Vec3
	orientation mgl32.Quat
	scale       mgl32.Vec3
	trackTarget string
}

// memoryBackend is a RenderBackend that keeps the scene tree, resources and buffers in host memory.
// It composes transforms and bounds exactly like a GPU backend would but never draws.
type memoryBackend struct {
	mu               *sync.RWMutex
	rootName         string
	root             *memNode
	nodes            map[string]*memNode
	objects          map[string]movableObject
	meshes           map[string]*meshResource
	materials        material.Registry
	pendingMaterials []material.Material
	allocator        BufferAllocator
	staticEnabled    bool
	staticBatches    map[string][]string
}

// staticMemoryBackend is a memoryBackend that also bakes static batches.
type staticMemoryBackend struct {
	*memoryBackend
}

var (
	_ RenderBackend         = &memoryBackend{}
	_ StaticGeometryBuilder = staticMemoryBackend{}
)

// NewMemoryBackend creates a RenderBackend that keeps all state in host memory.
// The registry always contains DefaultMaterialName.
//
// Parameters:
//   - options: functional options for backend configuration
//
// Returns:
//   - RenderBackend: the backend; it also implements StaticGeometryBuilder when WithStaticGeometry(true) is given
func NewMemoryBackend(options ...MemoryBackendBuilderOption) RenderBackend {
	b := &memoryBackend{
		mu:            &sync.RWMutex{},
		rootName:      "root",
		nodes:         make(map[string]*memNode),
		objects:       make(map[string]movableObject),
		meshes:        make(map[string]*meshResource),
		staticBatches: make(map[string][]string),
	}
	for _, opt := range options {
		opt(b)
	}
	if b.materials == nil {
		b.materials = material.NewRegistry()
	}
	if b.allocator == nil {
		b.allocator = NewMemoryAllocator()
	}
	if !b.materials.Has(DefaultMaterialName) {
		_ = b.materials.Register(material.NewMaterial(DefaultMaterialName))
	}
	for _, m := range b.pendingMaterials {
		if !b.materials.Has(m.Name()) {
			_ = b.materials.Register(m)
		}
	}
	b.pendingMaterials = nil

	b.root = newMemNode(b.rootName)
	b.nodes[b.rootName] = b.root

	if b.staticEnabled {
		return staticMemoryBackend{b}
	}
	return b
}

func newMemNode(name string) *memNode {
	return &memNode{
		name:        name,
		orientation: mgl32.QuatIdent(),
		scale:       mgl32.Vec3{1, 1, 1},
	}
}

func (b *memoryBackend) node(h NodeHandle) *memNode {
	return b.nodes[string(h)]
}

func (b *memoryBackend) RootNode() NodeHandle {
	return NodeHandle(b.rootName)
}

func (b *memoryBackend) HasNode(name string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.nodes[name]
	return ok
}

func (b *memoryBackend) CreateNode(name string, parent NodeHandle) (NodeHandle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.nodes[name]; ok {
		return "", fmt.Errorf("%s: %w", name, ErrNodeExists)
	}
	p := b.node(parent)
	if p == nil {
		return "", fmt.Errorf("parent %s: %w", parent, ErrNodeNotFound)
	}
	n := newMemNode(name)
	n.parent = p
	p.children = append(p.children, n)
	b.nodes[name] = n
	return NodeHandle(name), nil
}

func (b *memoryBackend) DestroyNode(h NodeHandle) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := b.node(h)
	if n == nil {
		return fmt.Errorf("%s: %w", h, ErrNodeNotFound)
	}
	if n == b.root {
		return fmt.Errorf("cannot destroy root node %s", h)
	}
	b.detachAll(n)
	for _, c := range n.children {
		c.parent = nil
	}
	n.children = nil
	if n.parent != nil {
		n.parent.removeChild(n)
	}
	delete(b.nodes, n.name)
	return nil
}

func (n *memNode) removeChild(c *memNode) bool {
	for i, existing := range n.children {
		if existing == c {
			n.children = append(n.children[:i], n.children[i+1:]...)
			c.parent = nil
			return true
		}
	}
	return false
}

func (b *memoryBackend) ParentNode(h NodeHandle) (NodeHandle, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n := b.node(h)
	if n == nil || n.parent == nil {
		return "", false
	}
	return NodeHandle(n.parent.name), true
}

func (b *memoryBackend) ChildNodes(h NodeHandle) []NodeHandle {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n := b.node(h)
	if n == nil {
		return nil
	}
	out := make([]NodeHandle, len(n.children))
	for i, c := range n.children {
		out[i] = NodeHandle(c.name)
	}
	return out
}

func (b *memoryBackend) AddChild(parent, child NodeHandle) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, c := b.node(parent), b.node(child)
	if p == nil || c == nil {
		return fmt.Errorf("%s -> %s: %w", parent, child, ErrNodeNotFound)
	}
	if c.parent != nil {
		return fmt.Errorf("%s: %w", child, ErrNodeHasParent)
	}
	for a := p; a != nil; a = a.parent {
		if a == c {
			return fmt.Errorf("%s under %s: %w", child, parent, ErrNodeCycle)
		}
	}
	c.parent = p
	p.children = append(p.children, c)
	return nil
}

func (b *memoryBackend) RemoveChild(parent, child NodeHandle) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, c := b.node(parent), b.node(child)
	if p == nil || c == nil || !p.removeChild(c) {
		return fmt.Errorf("%s -> %s: %w", parent, child, ErrNodeNotFound)
	}
	return nil
}

func (b *memoryBackend) RemoveAllChildren(h NodeHandle) {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := b.node(h)
	if n == nil {
		return
	}
	for _, c := range n.children {
		c.parent = nil
	}
	n.children = nil
}

func (b *memoryBackend) AttachObject(h NodeHandle, obj Attachment) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := b.node(h)
	if n == nil {
		return fmt.Errorf("%s: %w", h, ErrNodeNotFound)
	}
	mo, ok := obj.(movableObject)
	if !ok {
		return fmt.Errorf("object %s was not created by this backend", obj.Name())
	}
	base := mo.base()
	if base.node != nil {
		return fmt.Errorf("%s on %s: %w", obj.Name(), base.node.name, ErrAlreadyAttached)
	}
	base.node = n
	n.objects = append(n.objects, mo)
	return nil
}

func (b *memoryBackend) DetachObject(h NodeHandle, obj Attachment) {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := b.node(h)
	if n == nil {
		return
	}
	for i, o := range n.objects {
		if Attachment(o) == obj {
			o.base().node = nil
			n.objects = append(n.objects[:i], n.objects[i+1:]...)
			return
		}
	}
}

func (b *memoryBackend) DetachAllObjects(h NodeHandle) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if n := b.node(h); n != nil {
		b.detachAll(n)
	}
}

func (b *memoryBackend) detachAll(n *memNode) {
	for _, o := range n.objects {
		o.base().node = nil
	}
	n.objects = nil
}

func (b *memoryBackend) NumAttached(h NodeHandle) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n := b.node(h)
	if n == nil {
		return 0
	}
	return len(n.objects)
}

func (b *memoryBackend) Attached(h NodeHandle, i int) Attachment {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n := b.node(h)
	if n == nil || i < 0 || i >= len(n.objects) {
		return nil
	}
	return n.objects[i]
}

func (b *memoryBackend) SetPosition(h NodeHandle, pos mgl32.Vec3) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if n := b.node(h); n != nil {
		n.position = pos
	}
}

func (b *memoryBackend) Position(h NodeHandle) mgl32.Vec3 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if n := b.node(h); n != nil {
		return n.position
	}
	return mgl32.Vec3{}
}

func (b *memoryBackend) SetOrientation(h NodeHandle, rot mgl32.Quat) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if n := b.node(h); n != nil {
		n.orientation = rot.Normalize()
	}
}

func (b *memoryBackend) Orientation(h NodeHandle) mgl32.Quat {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if n := b.node(h); n != nil {
		return n.orientation
	}
	return mgl32.QuatIdent()
}

func (b *memoryBackend) SetScale(h NodeHandle, scale mgl32.Vec3) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if n := b.node(h); n != nil {
		n.scale = scale
	}
}

func (b *memoryBackend) Scale(h NodeHandle) mgl32.Vec3 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if n := b.node(h); n != nil {
		return n.scale
	}
	return mgl32.Vec3{1, 1, 1}
}

// world composes a node's transform up its parent chain. Caller must hold b.mu.
func (b *memoryBackend) world(n *memNode) (common.Pose, mgl32.Vec3) {
	local := common.NewPose(n.position, n.orientation)
	if n.parent == nil {
		return local, n.scale
	}
	pw, ps := b.world(n.parent)
	return common.ComposeTransform(pw, ps, local, n.scale)
}

func (b *memoryBackend) SetWorldPose(h NodeHandle, pose common.Pose) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if n := b.node(h); n != nil {
		b.setWorldPose(n, pose)
	}
}

func (b *memoryBackend) setWorldPose(n *memNode, pose common.Pose) {
	local := pose
	if n.parent != nil {
		pw, ps := b.world(n.parent)
		local = common.RelativePose(pw, ps, pose)
	}
	n.position = local.Position
	n.orientation = local.Rotation.Normalize()
}

func (b *memoryBackend) WorldPose(h NodeHandle) common.Pose {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n := b.node(h)
	if n == nil {
		return common.IdentityPose()
	}
	pose, _ := b.world(n)
	return pose
}

func (b *memoryBackend) WorldScale(h NodeHandle) mgl32.Vec3 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n := b.node(h)
	if n == nil {
		return mgl32.Vec3{1, 1, 1}
	}
	_, scale := b.world(n)
	return scale
}

func (b *memoryBackend) SetVisible(h NodeHandle, visible, cascade bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if n := b.node(h); n != nil {
		setVisible(n, visible, cascade)
	}
}

func setVisible(n *memNode, visible, cascade bool) {
	for _, o := range n.objects {
		o.SetVisible(visible)
	}
	if !cascade {
		return
	}
	for _, c := range n.children {
		setVisible(c, visible, cascade)
	}
}

func (b *memoryBackend) SetAutoTracking(h NodeHandle, enabled bool, target NodeHandle) {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := b.node(h)
	if n == nil {
		return
	}
	if !enabled {
		n.trackTarget = ""
		return
	}
	n.trackTarget = string(target)
}

func (b *memoryBackend) AutoTrackTarget(h NodeHandle) (NodeHandle, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n := b.node(h)
	if n == nil || n.trackTarget == "" {
		return "", false
	}
	if _, ok := b.nodes[n.trackTarget]; !ok {
		return "", false
	}
	return NodeHandle(n.trackTarget), true
}

func (b *memoryBackend) UpdateAutoTracking() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, n := range b.nodes {
		if n.trackTarget == "" {
			continue
		}
		target, ok := b.nodes[n.trackTarget]
		if !ok {
			n.trackTarget = ""
			continue
		}
		eye, _ := b.world(n)
		center, _ := b.world(target)
		if center.Position.Sub(eye.Position).Len() < 1e-6 {
			continue
		}
		rot := mgl32.QuatLookAtV(eye.Position, center.Position, mgl32.Vec3{0, 1, 0}).Inverse()
		b.setWorldPose(n, common.NewPose(eye.Position, rot))
	}
}

func (b *memoryBackend) UpdateBounds(h NodeHandle) {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := b.node(h)
	if n == nil {
		return
	}
	pose, scale := b.world(n)
	for _, o := range n.objects {
		o.base().worldBox = common.TransformBox(o.LocalBounds(), pose, scale)
	}
}

func (b *memoryBackend) Materials() material.Registry {
	return b.materials
}

func (b *memoryBackend) CreateVertexBuffer(vertexSize uint64, count int, usage BufferUsage) (HardwareBuffer, error) {
	return b.allocator.Allocate("vertex", BufferKindVertex, vertexSize*uint64(count), usage)
}

func (b *memoryBackend) CreateIndexBuffer(indexType IndexType, count int, usage BufferUsage) (HardwareBuffer, error) {
	return b.allocator.Allocate("index", BufferKindIndex, indexType.Size()*uint64(count), usage)
}

func (b *memoryBackend) HasMeshResource(name string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.meshes[name]
	return ok
}

func (b *memoryBackend) MeshResource(name string) (MeshResource, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	m, ok := b.meshes[name]
	if !ok {
		return nil, false
	}
	return m, true
}

func (b *memoryBackend) CreateManualMesh(name string) (MeshResource, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.meshes[name]; ok {
		return nil, fmt.Errorf("mesh %s: %w", name, ErrResourceExists)
	}
	m := &meshResource{name: name, bounds: common.NewEmptyBox()}
	b.meshes[name] = m
	return m, nil
}

func (b *memoryBackend) DestroyMeshResource(name string) bool {
	b.mu.Lock()
	m, ok := b.meshes[name]
	delete(b.meshes, name)
	b.mu.Unlock()
	if !ok {
		return false
	}
	for i := 0; i < m.NumSubMeshes(); i++ {
		sub := m.SubMesh(i)
		if sub.VertexBuffer != nil {
			sub.VertexBuffer.Release()
		}
		if sub.IndexBuffer != nil {
			sub.IndexBuffer.Release()
		}
	}
	return true
}

func (b *memoryBackend) HasEntity(name string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.objects[name].(*entity)
	return ok
}

func (b *memoryBackend) Entity(name string) (Entity, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	e, ok := b.objects[name].(*entity)
	if !ok {
		return nil, false
	}
	return e, true
}

func (b *memoryBackend) CreateEntity(name, meshName string) (Entity, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.objects[name]; ok {
		return nil, fmt.Errorf("entity %s: %w", name, ErrResourceExists)
	}
	m, ok := b.meshes[meshName]
	if !ok {
		return nil, fmt.Errorf("mesh %s: %w", meshName, ErrResourceNotFound)
	}
	e := &entity{
		movable:   newMovable(name, MovableTypeEntity),
		mesh:      m,
		materials: b.materials,
		subs:      make([]string, m.NumSubMeshes()),
	}
	for i := range e.subs {
		e.subs[i] = common.Coalesce(m.SubMesh(i).MaterialName, DefaultMaterialName)
	}
	b.objects[name] = e
	return e, nil
}

func (b *memoryBackend) CreateDynamicLines(name string, op RenderOp) (DynamicLines, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.objects[name]; ok {
		return nil, fmt.Errorf("lines %s: %w", name, ErrResourceExists)
	}
	l := &dynamicLines{movable: newMovable(name, MovableTypeDynamicLines), op: op}
	b.objects[name] = l
	return l, nil
}

func (b *memoryBackend) CreateRibbonTrail(name string) (RibbonTrail, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.objects[name]; ok {
		return nil, fmt.Errorf("trail %s: %w", name, ErrResourceExists)
	}
	t := &ribbonTrail{
		movable: newMovable(name, MovableTypeRibbonTrail),
		widths:  map[int]float32{},
		hasNode: func(h NodeHandle) bool {
			return b.HasNode(string(h))
		},
	}
	b.objects[name] = t
	return t, nil
}

func (b *memoryBackend) DestroyObject(obj Attachment) {
	b.mu.Lock()
	defer b.mu.Unlock()
	mo, ok := b.objects[obj.Name()]
	if !ok || Attachment(mo) != obj {
		return
	}
	if n := mo.base().node; n != nil {
		for i, o := range n.objects {
			if o == mo {
				n.objects = append(n.objects[:i], n.objects[i+1:]...)
				break
			}
		}
		mo.base().node = nil
	}
	delete(b.objects, obj.Name())
}

func (s staticMemoryBackend) BuildStaticGeometry(name string, h NodeHandle, castShadows bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.node(h)
	if n == nil {
		return fmt.Errorf("%s: %w", h, ErrNodeNotFound)
	}
	var baked []string
	var collect func(*memNode)
	collect = func(n *memNode) {
		for _, o := range n.objects {
			if o.MovableType() == MovableTypeEntity {
				o.SetCastShadows(castShadows)
				baked = append(baked, o.Name())
			}
		}
		for _, c := range n.children {
			collect(c)
		}
	}
	collect(n)
	s.staticBatches[name] = baked
	return nil
}

// StaticBatch retrieves the entity names baked into a static batch.
//
// Parameters:
//   - backend: a backend created by NewMemoryBackend
//   - name: the batch name
//
// Returns:
//   - []string: the baked entity names
//   - bool: false if the backend has no such batch
func StaticBatch(backend RenderBackend, name string) ([]string, bool) {
	s, ok := backend.(staticMemoryBackend)
	if !ok {
		return nil, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	baked, ok := s.staticBatches[name]
	return baked, ok
}
