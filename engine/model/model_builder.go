package model

import "github.com/go-gl/mathgl/mgl32"

// MeshBuilderOption is a functional option for configuring a Mesh via NewMesh.
type MeshBuilderOption func(*mesh)

// WithSubMeshes is an option builder that appends submeshes to the Mesh.
//
// Parameters:
//   - subMeshes: the submeshes in draw order
//
// Returns:
//   - MeshBuilderOption: a function that applies the submeshes option to a mesh
func WithSubMeshes(subMeshes ...*SubMesh) MeshBuilderOption {
	return func(m *mesh) {
		m.subMeshes = append(m.subMeshes, subMeshes...)
	}
}

// WithMaterials is an option builder that appends materials to the Mesh.
//
// Parameters:
//   - materials: the materials, indexed by SubMesh.MaterialIndex
//
// Returns:
//   - MeshBuilderOption: a function that applies the materials option to a mesh
func WithMaterials(materials ...*MeshMaterial) MeshBuilderOption {
	return func(m *mesh) {
		m.materials = append(m.materials, materials...)
	}
}

// WithBounds is an option builder that fixes the Mesh bounds instead of computing them.
//
// Parameters:
//   - min: the minimum corner
//   - max: the maximum corner
//
// Returns:
//   - MeshBuilderOption: a function that applies the bounds option to a mesh
func WithBounds(min, max mgl32.Vec3) MeshBuilderOption {
	return func(m *mesh) {
		m.min = min
		m.max = max
		m.boundsSet = true
	}
}
