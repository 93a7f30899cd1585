package loader

import (
	"math"

	"github.com/Carmen-Shannon/oxy-visual/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

// Built-in mesh names. Every MeshStore holds these from construction.
const (
	MeshUnitBox      = "unit_box"
	MeshUnitSphere   = "unit_sphere"
	MeshUnitCylinder = "unit_cylinder"
	MeshUnitPlane    = "unit_plane"
	MeshAxisCylinder = "axis_cylinder"
)

const (
	sphereRings      = 32
	sphereSegments   = 32
	cylinderSegments = 32
)

// builtinMeshes generates the procedural primitives. Unit primitives span one unit
// along every axis they extend in, centered on the origin.
func builtinMeshes() []model.Mesh {
	return []model.Mesh{
		newBoxMesh(MeshUnitBox, mgl32.Vec3{1, 1, 1}),
		newSphereMesh(MeshUnitSphere, 0.5, sphereRings, sphereSegments),
		newCylinderMesh(MeshUnitCylinder, 0.5, 1, cylinderSegments),
		newPlaneMesh(MeshUnitPlane, 1, 1),
		newCylinderMesh(MeshAxisCylinder, 0.01, 0.5, cylinderSegments),
	}
}

func newBoxMesh(name string, size mgl32.Vec3) model.Mesh {
	h := size.Mul(0.5)
	// each face: normal, then the two in-plane axes
	faces := [6][3]mgl32.Vec3{
		{{1, 0, 0}, {0, 0, -1}, {0, 1, 0}},
		{{-1, 0, 0}, {0, 0, 1}, {0, 1, 0}},
		{{0, 1, 0}, {1, 0, 0}, {0, 0, -1}},
		{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}},
		{{0, 0, 1}, {1, 0, 0}, {0, 1, 0}},
		{{0, 0, -1}, {-1, 0, 0}, {0, 1, 0}},
	}
	corners := [4]mgl32.Vec2{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}

	sm := &model.SubMesh{Name: name, MaterialIndex: -1}
	for _, f := range faces {
		base := uint32(len(sm.Vertices))
		n, u, v := f[0], f[1], f[2]
		for _, c := range corners {
			p := n.Add(u.Mul(c.X())).Add(v.Mul(c.Y()))
			sm.Vertices = append(sm.Vertices, mgl32.Vec3{p.X() * h.X(), p.Y() * h.Y(), p.Z() * h.Z()})
			sm.Normals = append(sm.Normals, n)
			sm.TexCoords = append(sm.TexCoords, mgl32.Vec2{(c.X() + 1) / 2, 1 - (c.Y()+1)/2})
		}
		sm.Indices = append(sm.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return model.NewMesh(name, model.WithSubMeshes(sm))
}

func newSphereMesh(name string, radius float32, rings, segments int) model.Mesh {
	sm := &model.SubMesh{Name: name, MaterialIndex: -1}
	for r := 0; r <= rings; r++ {
		phi := math.Pi * float64(r) / float64(rings)
		for s := 0; s <= segments; s++ {
			theta := 2 * math.Pi * float64(s) / float64(segments)
			n := mgl32.Vec3{
				float32(math.Sin(phi) * math.Cos(theta)),
				float32(math.Cos(phi)),
				float32(math.Sin(phi) * math.Sin(theta)),
			}
			sm.Vertices = append(sm.Vertices, n.Mul(radius))
			sm.Normals = append(sm.Normals, n)
			sm.TexCoords = append(sm.TexCoords, mgl32.Vec2{float32(s) / float32(segments), float32(r) / float32(rings)})
		}
	}
	stride := uint32(segments + 1)
	for r := uint32(0); r < uint32(rings); r++ {
		for s := uint32(0); s < uint32(segments); s++ {
			a := r*stride + s
			b := a + stride
			sm.Indices = append(sm.Indices, a, b, a+1, a+1, b, b+1)
		}
	}
	return model.NewMesh(name, model.WithSubMeshes(sm))
}

// newCylinderMesh builds a capped cylinder along Z.
func newCylinderMesh(name string, radius, length float32, segments int) model.Mesh {
	sm := &model.SubMesh{Name: name, MaterialIndex: -1}
	half := length / 2

	// side
	for s := 0; s <= segments; s++ {
		theta := 2 * math.Pi * float64(s) / float64(segments)
		n := mgl32.Vec3{float32(math.Cos(theta)), float32(math.Sin(theta)), 0}
		u := float32(s) / float32(segments)
		for _, z := range []float32{-half, half} {
			sm.Vertices = append(sm.Vertices, mgl32.Vec3{n.X() * radius, n.Y() * radius, z})
			sm.Normals = append(sm.Normals, n)
			sm.TexCoords = append(sm.TexCoords, mgl32.Vec2{u, (z + half) / length})
		}
	}
	for s := uint32(0); s < uint32(segments); s++ {
		a := s * 2
		sm.Indices = append(sm.Indices, a, a+2, a+1, a+1, a+2, a+3)
	}

	// caps
	for _, z := range []float32{-half, half} {
		n := mgl32.Vec3{0, 0, 1}
		if z < 0 {
			n = mgl32.Vec3{0, 0, -1}
		}
		center := uint32(len(sm.Vertices))
		sm.Vertices = append(sm.Vertices, mgl32.Vec3{0, 0, z})
		sm.Normals = append(sm.Normals, n)
		sm.TexCoords = append(sm.TexCoords, mgl32.Vec2{0.5, 0.5})
		for s := 0; s <= segments; s++ {
			theta := 2 * math.Pi * float64(s) / float64(segments)
			c, sn := float32(math.Cos(theta)), float32(math.Sin(theta))
			sm.Vertices = append(sm.Vertices, mgl32.Vec3{c * radius, sn * radius, z})
			sm.Normals = append(sm.Normals, n)
			sm.TexCoords = append(sm.TexCoords, mgl32.Vec2{(c + 1) / 2, (sn + 1) / 2})
		}
		for s := uint32(0); s < uint32(segments); s++ {
			a, b := center+1+s, center+2+s
			if z < 0 {
				a, b = b, a
			}
			sm.Indices = append(sm.Indices, center, a, b)
		}
	}
	return model.NewMesh(name, model.WithSubMeshes(sm))
}

// newPlaneMesh builds a plane in XY facing +Z.
func newPlaneMesh(name string, width, height float32) model.Mesh {
	w, h := width/2, height/2
	sm := &model.SubMesh{
		Name: name,
		Vertices: []mgl32.Vec3{
			{-w, -h, 0}, {w, -h, 0}, {w, h, 0}, {-w, h, 0},
		},
		Normals: []mgl32.Vec3{
			{0, 0, 1}, {0, 0, 1}, {0, 0, 1}, {0, 0, 1},
		},
		TexCoords: []mgl32.Vec2{
			{0, 1}, {1, 1}, {1, 0}, {0, 0},
		},
		Indices:       []uint32{0, 1, 2, 0, 2, 3},
		MaterialIndex: -1,
	}
	return model.NewMesh(name, model.WithSubMeshes(sm))
}
