package model

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-visual/common"
	"github.com/go-gl/mathgl/mgl32"
)

// SubMesh is one draw range of a Mesh. Vertices, Normals and TexCoords are
// parallel arrays; Normals and TexCoords are either empty or the same length as Vertices.
type SubMesh struct {
	// Name is an optional identifier, usually the source primitive name.
	Name string

	// Vertices are the object-space vertex positions.
	Vertices []mgl32.Vec3

	// Normals are the per-vertex normals, or empty.
	Normals []mgl32.Vec3

	// TexCoords are the per-vertex texture coordinates, or empty.
	TexCoords []mgl32.Vec2

	// Indices are triangle-list indices into Vertices.
	Indices []uint32

	// MaterialIndex references Mesh materials, or -1 when the submesh has none.
	MaterialIndex int
}

// VertexCount returns the number of vertex positions.
func (s *SubMesh) VertexCount() int { return len(s.Vertices) }

// NormalCount returns the number of normals.
func (s *SubMesh) NormalCount() int { return len(s.Normals) }

// TexCoordCount returns the number of texture coordinates.
func (s *SubMesh) TexCoordCount() int { return len(s.TexCoords) }

// IndexCount returns the number of indices.
func (s *SubMesh) IndexCount() int { return len(s.Indices) }

// Validate checks that the parallel arrays agree in length and that every index is in range.
//
// Returns:
//   - error: error describing the first inconsistency, or nil
func (s *SubMesh) Validate() error {
	n := len(s.Vertices)
	if len(s.Normals) != 0 && len(s.Normals) != n {
		return fmt.Errorf("submesh %q: %d normals for %d vertices", s.Name, len(s.Normals), n)
	}
	if len(s.TexCoords) != 0 && len(s.TexCoords) != n {
		return fmt.Errorf("submesh %q: %d texcoords for %d vertices", s.Name, len(s.TexCoords), n)
	}
	for i, idx := range s.Indices {
		if int(idx) >= n {
			return fmt.Errorf("submesh %q: index %d at %d out of range", s.Name, idx, i)
		}
	}
	return nil
}

// Bounds returns the axis-aligned box enclosing the submesh vertices.
//
// Returns:
//   - common.Box: the bounds, empty if the submesh has no vertices
func (s *SubMesh) Bounds() common.Box {
	box := common.NewEmptyBox()
	for _, v := range s.Vertices {
		box.Merge(common.Box{Min: v, Max: v})
	}
	return box
}

// MeshMaterial is a surface description carried by a mesh file. Its Name is
// the key under which the material is registered with the render backend.
type MeshMaterial struct {
	// Name is the material identifier.
	Name string

	// Diffuse is the base color.
	Diffuse common.Color

	// Emissive is the self-illumination color.
	Emissive common.Color

	// Texture is the diffuse texture URI, or empty.
	Texture string
}
