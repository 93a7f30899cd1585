package model

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func triangle() *SubMesh {
	return &SubMesh{
		Name:          "tri",
		Vertices:      []mgl32.Vec3{{-1, 0, 0}, {1, 0, 0}, {0, 2, -3}},
		Normals:       []mgl32.Vec3{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}},
		Indices:       []uint32{0, 1, 2},
		MaterialIndex: -1,
	}
}

func TestNewMeshComputesBounds(t *testing.T) {
	m := NewMesh("tri", WithSubMeshes(triangle()))

	assert.Equal(t, "tri", m.Name())
	assert.Equal(t, 1, m.SubMeshCount())
	assert.Equal(t, mgl32.Vec3{-1, 0, -3}, m.Min())
	assert.Equal(t, mgl32.Vec3{1, 2, 0}, m.Max())
	assert.Nil(t, m.SubMesh(1))
	assert.Nil(t, m.Material(0))
}

func TestNewMeshExplicitBounds(t *testing.T) {
	inf := float32(math.Inf(1))
	m := NewMesh("bad", WithSubMeshes(triangle()), WithBounds(mgl32.Vec3{}, mgl32.Vec3{inf, 0, 0}))

	assert.False(t, m.Bounds().Finite())

	m.ComputeBounds()
	assert.True(t, m.Bounds().Finite())
}

func TestEmptyMeshBoundsAreEmpty(t *testing.T) {
	m := NewMesh("empty")
	assert.True(t, m.Bounds().IsEmpty())
}

func TestMaterials(t *testing.T) {
	m := NewMesh("m", WithMaterials(&MeshMaterial{Name: "a"}))
	idx := m.AddMaterial(&MeshMaterial{Name: "b"})

	assert.Equal(t, 1, idx)
	assert.Equal(t, 2, m.MaterialCount())
	assert.Equal(t, "b", m.Material(1).Name)
	assert.Nil(t, m.Material(-1))
}

func TestSubMeshValidate(t *testing.T) {
	sm := triangle()
	require.NoError(t, sm.Validate())

	sm.TexCoords = []mgl32.Vec2{{0, 0}}
	assert.Error(t, sm.Validate())

	sm = triangle()
	sm.Indices = append(sm.Indices, 3)
	assert.Error(t, sm.Validate())
}
