package loader

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-visual/engine/model"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTriangle saves a one-triangle GLB with a red material and returns its path.
func writeTriangle(t *testing.T, dir, name string) string {
	t.Helper()
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {2, 0, 0}, {0, 3, 0}})
	nrm := modeler.WriteNormal(doc, [][3]float32{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}})
	idx := modeler.WriteIndices(doc, []uint16{0, 1, 2})
	doc.Materials = []*gltf.Material{{
		Name: "red",
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float64{1, 0, 0, 1},
		},
	}}
	doc.Meshes = []*gltf.Mesh{{
		Name: "tri",
		Primitives: []*gltf.Primitive{{
			Indices:  gltf.Index(idx),
			Material: gltf.Index(0),
			Attributes: map[string]int{
				gltf.POSITION: pos,
				gltf.NORMAL:   nrm,
			},
		}},
	}}
	path := filepath.Join(dir, name)
	require.NoError(t, gltf.SaveBinary(doc, path))
	return path
}

func TestBuiltinMeshes(t *testing.T) {
	s := NewMeshStore()
	for _, name := range []string{MeshUnitBox, MeshUnitSphere, MeshUnitCylinder, MeshUnitPlane, MeshAxisCylinder} {
		t.Run(name, func(t *testing.T) {
			require.True(t, s.HasMesh(name))
			m, ok := s.Mesh(name)
			require.True(t, ok)
			require.Equal(t, 1, m.SubMeshCount())
			sm := m.SubMesh(0)
			require.NoError(t, sm.Validate())
			assert.Equal(t, sm.VertexCount(), sm.NormalCount())
			assert.Equal(t, sm.VertexCount(), sm.TexCoordCount())
			assert.Zero(t, sm.IndexCount()%3)
			assert.Less(t, sm.VertexCount(), 1<<16)
		})
	}

	box, _ := s.Mesh(MeshUnitBox)
	assert.True(t, box.Min().ApproxEqual(mgl32.Vec3{-0.5, -0.5, -0.5}))
	assert.True(t, box.Max().ApproxEqual(mgl32.Vec3{0.5, 0.5, 0.5}))

	axis, _ := s.Mesh(MeshAxisCylinder)
	assert.InDelta(t, 0.5, axis.Bounds().Size().Z(), 1e-5)
	assert.InDelta(t, 0.02, axis.Bounds().Size().X(), 1e-5)
}

func TestLoadGLB(t *testing.T) {
	dir := t.TempDir()
	writeTriangle(t, dir, "tri.glb")
	s := NewMeshStore(WithSearchPaths(dir))

	assert.False(t, s.HasMesh("tri.glb"))
	m, err := s.GetMesh("tri.glb")
	require.NoError(t, err)
	assert.True(t, s.HasMesh("tri.glb"))

	require.Equal(t, 1, m.SubMeshCount())
	sm := m.SubMesh(0)
	assert.Equal(t, []uint32{0, 1, 2}, sm.Indices)
	assert.Equal(t, 3, sm.NormalCount())
	assert.Zero(t, sm.TexCoordCount())
	assert.Equal(t, mgl32.Vec3{2, 3, 0}, m.Max())

	require.Equal(t, 1, m.MaterialCount())
	assert.Equal(t, 0, sm.MaterialIndex)
	assert.Equal(t, "tri.glb/red", m.Material(0).Name)
	assert.Equal(t, float32(0), m.Material(0).Diffuse.G)

	again, err := s.GetMesh("tri.glb")
	require.NoError(t, err)
	assert.Same(t, m, again)
}

func TestLoadErrors(t *testing.T) {
	s := NewMeshStore(WithSearchPaths(t.TempDir()))
	assert.ErrorIs(t, s.Load("missing.glb"), ErrMeshNotFound)
	assert.ErrorIs(t, s.Load("model.obj"), ErrUnsupportedFormat)
	_, err := s.GetMesh("missing.gltf")
	assert.ErrorIs(t, err, ErrMeshNotFound)
}

func TestPreload(t *testing.T) {
	dir := t.TempDir()
	names := []string{"a.glb", "b.glb", "c.glb"}
	for _, n := range names {
		writeTriangle(t, dir, n)
	}
	s := NewMeshStore(WithSearchPaths(dir), WithWorkers(2))
	defer s.Close()

	require.NoError(t, s.Preload(context.Background(), names...))
	for _, n := range names {
		assert.True(t, s.HasMesh(n), n)
	}

	err := s.Preload(context.Background(), "a.glb", "nope.glb")
	assert.ErrorIs(t, err, ErrMeshNotFound)
}

func TestAddMesh(t *testing.T) {
	custom := model.NewMesh("custom", model.WithSubMeshes(&model.SubMesh{
		Vertices: []mgl32.Vec3{{0, 0, 0}, {1, 1, 1}, {1, 0, 0}},
		Indices:  []uint32{0, 1, 2},
	}))
	s := NewMeshStore(WithMesh(custom))
	assert.True(t, s.HasMesh("custom"))
	assert.Contains(t, s.Names(), MeshUnitBox)

	s.AddMesh(nil)
	require.NoError(t, s.Load("custom"))
}
