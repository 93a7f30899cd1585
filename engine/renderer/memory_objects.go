package renderer

import (
	"github.com/Carmen-Shannon/oxy-visual/common"
	"github.com/Carmen-Shannon/oxy-visual/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
)

// movableObject is implemented by every attachment the memory backend creates.
type movableObject interface {
	Attachment
	base() *movable
}

// movable holds the state shared by every attachment kind.
type movable struct {
	name         string
	movableType  string
	materialName string
	visible      bool
	castShadows  bool
	queueGroup   uint8
	tag          string
	node         *memNode
	worldBox     common.Box
}

func newMovable(name, movableType string) *movable {
	return &movable{
		name:         name,
		movableType:  movableType,
		materialName: DefaultMaterialName,
		visible:      true,
		castShadows:  true,
		queueGroup:   RenderQueueDefault,
		worldBox:     common.NewEmptyBox(),
	}
}

func (m *movable) base() *movable { return m }
func (m *movable) Name() string { return m.name }
func (m *movable) MovableType() string { return m.movableType }
func (m *movable) MaterialName() string { return m.materialName }
func (m *movable) SetMaterialName(name string) { m.materialName = name }
func (m *movable) Visible() bool { return m.visible }
func (m *movable) SetVisible(visible bool) { m.visible = visible }
func (m *movable) CastShadows() bool { return m.castShadows }
func (m *movable) SetCastShadows(cast bool) { m.castShadows = cast }
func (m *movable) RenderQueueGroup() uint8 { return m.queueGroup }
func (m *movable) SetRenderQueueGroup(group uint8) { m.queueGroup = group }
func (m *movable) Tag() string { return m.tag }
func (m *movable) SetTag(tag string) { m.tag = tag }
func (m *movable) WorldBoundingBox() common.Box { return m.worldBox }

func (m *movable) ParentNode() (NodeHandle, bool) {
	if m.node == nil {
		return "", false
	}
	return NodeHandle(m.node.name), true
}

// entity is an instance of a mesh resource with one material per submesh.
type entity struct {
	*movable
	mesh      *meshResource
	materials material.Registry
	subs      []string
}

var _ Entity = &entity{}

func (e *entity) MeshName() string {
	return e.mesh.name
}

func (e *entity) NumSubEntities() int {
	return len(e.subs)
}

func (e *entity) SubEntityMaterialName(i int) string {
	if i < 0 || i >= len(e.subs) {
		return ""
	}
	return e.subs[i]
}

func (e *entity) SetMaterialName(name string) {
	e.movable.SetMaterialName(name)
	for i := range e.subs {
		e.subs[i] = name
	}
}

func (e *entity) NumSubMaterials() int {
	return len(e.subs)
}

func (e *entity) SubMaterialName(i int) string {
	return e.SubEntityMaterialName(i)
}

func (e *entity) SetSubMaterialName(i int, name string) {
	if i < 0 || i >= len(e.subs) {
		return
	}
	e.subs[i] = name
}

func (e *entity) SubMaterials() []material.Material {
	out := make([]material.Material, 0, len(e.subs))
	for _, name := range e.subs {
		if m, ok := e.materials.Get(name); ok {
			out = append(out, m)
		}
	}
	return out
}

func (e *entity) LocalBounds() common.Box {
	return e.mesh.Bounds()
}

// dynamicLines is a procedural line renderable.
type dynamicLines struct {
	*movable
	op       RenderOp
	points   []mgl32.Vec3
	dirty    bool
	revision int
	bounds   common.Box
}

var _ DynamicLines = &dynamicLines{}

func (l *dynamicLines) RenderOp() RenderOp {
	return l.op
}

func (l *dynamicLines) AddPoint(p mgl32.Vec3) {
	l.points = append(l.points, p)
	l.dirty = true
}

func (l *dynamicLines) SetPoint(i int, p mgl32.Vec3) {
	if i < 0 {
		return
	}
	for len(l.points) <= i {
		l.points = append(l.points, mgl32.Vec3{})
	}
	l.points[i] = p
	l.dirty = true
}

func (l *dynamicLines) Point(i int) mgl32.Vec3 {
	if i < 0 || i >= len(l.points) {
		return mgl32.Vec3{}
	}
	return l.points[i]
}

func (l *dynamicLines) PointCount() int {
	return len(l.points)
}

func (l *dynamicLines) Clear() {
	l.points = nil
	l.dirty = true
}

func (l *dynamicLines) Update() {
	if !l.dirty {
		return
	}
	box := common.NewEmptyBox()
	for _, p := range l.points {
		box.Merge(common.Box{Min: p, Max: p})
	}
	l.bounds = box
	l.dirty = false
	l.revision++
}

func (l *dynamicLines) Revision() int {
	return l.revision
}

func (l *dynamicLines) LocalBounds() common.Box {
	if l.revision == 0 {
		return common.NewEmptyBox()
	}
	return l.bounds
}

// ribbonTrail follows nodes and records their path.
type ribbonTrail struct {
	*movable
	length     float32
	maxElems   int
	chains     int
	widths     map[int]float32
	tracked    []NodeHandle
	hasNode    func(NodeHandle) bool
	chainClear int
}

var _ RibbonTrail = &ribbonTrail{}

func (t *ribbonTrail) SetTrailLength(length float32) { t.length = length }
func (t *ribbonTrail) TrailLength() float32 { return t.length }
func (t *ribbonTrail) SetMaxChainElements(n int) { t.maxElems = n }
func (t *ribbonTrail) SetNumberOfChains(n int) { t.chains = n }
func (t *ribbonTrail) SetInitialWidth(c int, w float32) { t.widths[c] = w }
func (t *ribbonTrail) ClearChain(int) { t.chainClear++ }
func (t *ribbonTrail) LocalBounds() common.Box { return common.NewEmptyBox() }

func (t *ribbonTrail) AddNode(node NodeHandle) error {
	if t.hasNode != nil && !t.hasNode(node) {
		return ErrNodeNotFound
	}
	for _, n := range t.tracked {
		if n == node {
			return nil
		}
	}
	t.tracked = append(t.tracked, node)
	return nil
}

func (t *ribbonTrail) RemoveNode(node NodeHandle) {
	for i, n := range t.tracked {
		if n == node {
			t.tracked = append(t.tracked[:i], t.tracked[i+1:]...)
			return
		}
	}
}

func (t *ribbonTrail) TrackedNodes() []NodeHandle {
	out := make([]NodeHandle, len(t.tracked))
	copy(out, t.tracked)
	return out
}

// meshResource is a manual mesh filled by the caller.
type meshResource struct {
	name   string
	subs   []*SubMeshResource
	bounds common.Box
	loaded bool
}

var _ MeshResource = &meshResource{}

func (m *meshResource) Name() string {
	return m.name
}

func (m *meshResource) CreateSubMesh() *SubMeshResource {
	sm := &SubMeshResource{Declaration: NewVertexDeclaration()}
	m.subs = append(m.subs, sm)
	return sm
}

func (m *meshResource) NumSubMeshes() int {
	return len(m.subs)
}

func (m *meshResource) SubMesh(i int) *SubMeshResource {
	if i < 0 || i >= len(m.subs) {
		return nil
	}
	return m.subs[i]
}

func (m *meshResource) SetBounds(box common.Box) {
	m.bounds = box
}

func (m *meshResource) Bounds() common.Box {
	return m.bounds
}

func (m *meshResource) Load() {
	m.loaded = true
}

func (m *meshResource) IsLoaded() bool {
	return m.loaded
}
