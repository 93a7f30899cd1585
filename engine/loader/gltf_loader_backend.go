package loader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-visual/common"
	"github.com/Carmen-Shannon/oxy-visual/engine/model"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// loaderBackend decodes one mesh file format.
type loaderBackend interface {
	// Load decodes the file at path into a mesh named name.
	//
	// Parameters:
	//   - name: the name of the resulting mesh
	//   - path: the file path
	//
	// Returns:
	//   - model.Mesh: the mesh
	//   - error: error if the file cannot be read or holds no geometry
	Load(name, path string) (model.Mesh, error)
}

// gltfLoaderBackend reads glTF and GLB files. Every primitive of every mesh becomes one
// submesh; materials are keyed by the mesh name so identical material names in different
// files do not collide.
type gltfLoaderBackend struct{}

var _ loaderBackend = gltfLoaderBackend{}

func newGLTFLoaderBackend() loaderBackend {
	return gltfLoaderBackend{}
}

func (gltfLoaderBackend) Load(name, path string) (model.Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	m := model.NewMesh(name)
	materials := make(map[int]int)
	for mi, gm := range doc.Meshes {
		for pi, prim := range gm.Primitives {
			sm, err := readPrimitive(doc, prim)
			if err != nil {
				return nil, fmt.Errorf("%s mesh %d primitive %d: %w", path, mi, pi, err)
			}
			sm.Name = fmt.Sprintf("%s_%d_%d", common.Coalesce(gm.Name, "mesh"), mi, pi)
			sm.MaterialIndex = -1
			if prim.Material != nil {
				idx, ok := materials[*prim.Material]
				if !ok {
					idx = m.AddMaterial(readMaterial(doc, name, *prim.Material))
					materials[*prim.Material] = idx
				}
				sm.MaterialIndex = idx
			}
			m.AddSubMesh(sm)
		}
	}
	if m.SubMeshCount() == 0 {
		return nil, fmt.Errorf("%s: no triangle primitives", path)
	}
	m.ComputeBounds()
	return m, nil
}

func readPrimitive(doc *gltf.Document, prim *gltf.Primitive) (*model.SubMesh, error) {
	if prim.Mode != gltf.PrimitiveTriangles {
		return nil, fmt.Errorf("unsupported primitive mode %d", prim.Mode)
	}
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, fmt.Errorf("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, fmt.Errorf("read positions: %w", err)
	}

	sm := &model.SubMesh{Vertices: make([]mgl32.Vec3, len(positions))}
	for i, p := range positions {
		sm.Vertices[i] = mgl32.Vec3(p)
	}

	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		normals, err := modeler.ReadNormal(doc, doc.Accessors[idx], nil)
		if err != nil {
			return nil, fmt.Errorf("read normals: %w", err)
		}
		sm.Normals = make([]mgl32.Vec3, len(normals))
		for i, n := range normals {
			sm.Normals[i] = mgl32.Vec3(n)
		}
	}

	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		uvs, err := modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
		if err != nil {
			return nil, fmt.Errorf("read texcoords: %w", err)
		}
		sm.TexCoords = make([]mgl32.Vec2, len(uvs))
		for i, uv := range uvs {
			sm.TexCoords[i] = mgl32.Vec2(uv)
		}
	}

	if prim.Indices != nil {
		sm.Indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, fmt.Errorf("read indices: %w", err)
		}
	} else {
		sm.Indices = make([]uint32, len(sm.Vertices))
		for i := range sm.Indices {
			sm.Indices[i] = uint32(i)
		}
	}

	if err := sm.Validate(); err != nil {
		return nil, err
	}
	return sm, nil
}

func readMaterial(doc *gltf.Document, meshName string, idx int) *model.MeshMaterial {
	mat := &model.MeshMaterial{
		Name:    fmt.Sprintf("%s/material_%d", meshName, idx),
		Diffuse: common.ColorWhite,
	}
	if idx < 0 || idx >= len(doc.Materials) {
		return mat
	}
	gm := doc.Materials[idx]
	if gm.Name != "" {
		mat.Name = meshName + "/" + gm.Name
	}
	mat.Emissive = common.Color{R: float32(gm.EmissiveFactor[0]), G: float32(gm.EmissiveFactor[1]), B: float32(gm.EmissiveFactor[2]), A: 1}
	if pbr := gm.PBRMetallicRoughness; pbr != nil {
		if f := pbr.BaseColorFactor; f != nil {
			mat.Diffuse = common.Color{R: float32(f[0]), G: float32(f[1]), B: float32(f[2]), A: float32(f[3])}
		}
		if tex := pbr.BaseColorTexture; tex != nil && tex.Index < len(doc.Textures) {
			if src := doc.Textures[tex.Index].Source; src != nil && *src < len(doc.Images) {
				mat.Texture = doc.Images[*src].URI
			}
		}
	}
	return mat
}

// isGLTF reports whether path names a glTF or GLB file.
func isGLTF(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gltf", ".glb":
		return true
	}
	return false
}
