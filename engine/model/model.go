package model

import (
	"github.com/Carmen-Shannon/oxy-visual/common"
	"github.com/go-gl/mathgl/mgl32"
)

// mesh is the implementation of the Mesh interface.
type mesh struct {
	name      string
	subMeshes []*SubMesh
	materials []*MeshMaterial
	min       mgl32.Vec3
	max       mgl32.Vec3
	boundsSet bool
}

// Mesh is an in-memory mesh asset: an ordered list of submeshes, the materials
// they reference and the object-space bounds of the whole mesh.
// A Mesh is read-only while it is being uploaded.
type Mesh interface {
	// Name retrieves the mesh identifier, which is also its resource name on the backend.
	//
	// Returns:
	//   - string: the mesh name
	Name() string

	// SubMeshCount retrieves the number of submeshes.
	//
	// Returns:
	//   - int: the submesh count
	SubMeshCount() int

	// SubMesh retrieves a submesh by index.
	//
	// Parameters:
	//   - i: the submesh index
	//
	// Returns:
	//   - *SubMesh: the submesh, or nil if i is out of range
	SubMesh(i int) *SubMesh

	// AddSubMesh appends a submesh.
	//
	// Parameters:
	//   - sm: the submesh to append
	AddSubMesh(sm *SubMesh)

	// MaterialCount retrieves the number of materials carried by the mesh.
	//
	// Returns:
	//   - int: the material count
	MaterialCount() int

	// Material retrieves a material by index.
	//
	// Parameters:
	//   - i: the material index
	//
	// Returns:
	//   - *MeshMaterial: the material, or nil if i is out of range
	Material(i int) *MeshMaterial

	// AddMaterial appends a material and returns its index.
	//
	// Parameters:
	//   - m: the material to append
	//
	// Returns:
	//   - int: the index of the new material
	AddMaterial(m *MeshMaterial) int

	// Min retrieves the minimum corner of the mesh bounds.
	//
	// Returns:
	//   - mgl32.Vec3: the minimum corner
	Min() mgl32.Vec3

	// Max retrieves the maximum corner of the mesh bounds.
	//
	// Returns:
	//   - mgl32.Vec3: the maximum corner
	Max() mgl32.Vec3

	// Bounds retrieves the mesh bounds as a box.
	//
	// Returns:
	//   - common.Box: the bounds
	Bounds() common.Box

	// SetBounds overrides the mesh bounds.
	//
	// Parameters:
	//   - min: the minimum corner
	//   - max: the maximum corner
	SetBounds(min, max mgl32.Vec3)

	// ComputeBounds recomputes the bounds from every submesh's vertices.
	// A mesh without vertices gets the empty sentinel box.
	ComputeBounds()
}

var _ Mesh = &mesh{}

// NewMesh creates a new Mesh with the given name, configured by the provided options.
// Bounds are computed from the submeshes unless WithBounds is given.
//
// Parameters:
//   - name: the mesh identifier
//   - options: functional options to configure the mesh
//
// Returns:
//   - Mesh: the new mesh
func NewMesh(name string, options ...MeshBuilderOption) Mesh {
	m := &mesh{name: name}
	for _, opt := range options {
		opt(m)
	}
	if !m.boundsSet {
		m.ComputeBounds()
	}
	return m
}

func (m *mesh) Name() string {
	return m.name
}

func (m *mesh) SubMeshCount() int {
	return len(m.subMeshes)
}

func (m *mesh) SubMesh(i int) *SubMesh {
	if i < 0 || i >= len(m.subMeshes) {
		return nil
	}
	return m.subMeshes[i]
}

func (m *mesh) AddSubMesh(sm *SubMesh) {
	m.subMeshes = append(m.subMeshes, sm)
}

func (m *mesh) MaterialCount() int {
	return len(m.materials)
}

func (m *mesh) Material(i int) *MeshMaterial {
	if i < 0 || i >= len(m.materials) {
		return nil
	}
	return m.materials[i]
}

func (m *mesh) AddMaterial(mat *MeshMaterial) int {
	m.materials = append(m.materials, mat)
	return len(m.materials) - 1
}

func (m *mesh) Min() mgl32.Vec3 {
	return m.min
}

func (m *mesh) Max() mgl32.Vec3 {
	return m.max
}

func (m *mesh) Bounds() common.Box {
	return common.NewBox(m.min, m.max)
}

func (m *mesh) SetBounds(min, max mgl32.Vec3) {
	m.min = min
	m.max = max
}

func (m *mesh) ComputeBounds() {
	box := common.NewEmptyBox()
	for _, sm := range m.subMeshes {
		box.Merge(sm.Bounds())
	}
	m.min, m.max = box.Min, box.Max
}
