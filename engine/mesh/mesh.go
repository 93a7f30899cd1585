package mesh

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-visual/common"
	"github.com/Carmen-Shannon/oxy-visual/engine/model"
	"github.com/Carmen-Shannon/oxy-visual/engine/renderer"
	"github.com/Carmen-Shannon/oxy-visual/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-visual/internal/logger"
	"github.com/cogentcore/webgpu/wgpu"
	"go.uber.org/zap"
)

var (
	// ErrNoSubMeshes is returned when uploading a mesh without submeshes.
	ErrNoSubMeshes = errors.New("mesh has no submeshes")

	// ErrNonFiniteBounds is returned when a mesh's bounding box has a NaN or infinite corner.
	ErrNonFiniteBounds = errors.New("mesh bounds are not finite")

	// ErrIndexOverflow is returned when a submesh has more vertices than a 16-bit index can address.
	ErrIndexOverflow = errors.New("submesh exceeds 16-bit index range")
)

// indexType is the width of every uploaded index buffer.
const indexType = renderer.IndexType16Bit

// uploader is the implementation of the Uploader interface.
type uploader struct {
	backend renderer.RenderBackend
	usage   renderer.BufferUsage
}

// Uploader converts in-memory meshes into backend mesh resources with one vertex and one
// index buffer per submesh.
type Uploader interface {
	// InsertMesh uploads a mesh under its own name. A resource of that name that already
	// exists is returned unchanged. The mesh is fully validated before any resource is created,
	// and a backend failure while filling the resource destroys it and releases its buffers,
	// so a returned error leaves the backend untouched.
	//
	// Vertices are interleaved as position (Float32x3), then normal (Float32x3) when the
	// submesh has normals, then texture coordinate (Float32x2) when it has texture coordinates.
	//
	// Parameters:
	//   - m: the mesh
	//
	// Returns:
	//   - renderer.MeshResource: the loaded resource
	//   - error: ErrNoSubMeshes, ErrNonFiniteBounds, ErrIndexOverflow, a submesh validation error or a backend error
	InsertMesh(m model.Mesh) (renderer.MeshResource, error)
}

var _ Uploader = &uploader{}

// NewUploader creates a new Uploader writing into the given backend.
//
// Parameters:
//   - backend: the render backend that owns the resources
//
// Returns:
//   - Uploader: the uploader
func NewUploader(backend renderer.RenderBackend) Uploader {
	return &uploader{
		backend: backend,
		usage:   renderer.BufferUsageStaticWriteOnly,
	}
}

func (u *uploader) InsertMesh(m model.Mesh) (renderer.MeshResource, error) {
	if m == nil || m.SubMeshCount() == 0 {
		return nil, ErrNoSubMeshes
	}
	if res, ok := u.backend.MeshResource(m.Name()); ok {
		return res, nil
	}

	bounds := m.Bounds()
	if !bounds.Finite() {
		return nil, fmt.Errorf("mesh %s [%v, %v]: %w", m.Name(), bounds.Min, bounds.Max, ErrNonFiniteBounds)
	}
	for i := 0; i < m.SubMeshCount(); i++ {
		sm := m.SubMesh(i)
		if uint64(sm.VertexCount()) > indexType.MaxIndex() {
			return nil, fmt.Errorf("mesh %s submesh %d has %d vertices: %w", m.Name(), i, sm.VertexCount(), ErrIndexOverflow)
		}
		if err := sm.Validate(); err != nil {
			return nil, fmt.Errorf("mesh %s: %w", m.Name(), err)
		}
	}

	res, err := u.backend.CreateManualMesh(m.Name())
	if err != nil {
		return nil, err
	}
	for i := 0; i < m.SubMeshCount(); i++ {
		if err := u.insertSubMesh(res, m, i); err != nil {
			u.backend.DestroyMeshResource(m.Name())
			return nil, fmt.Errorf("mesh %s submesh %d: %w", m.Name(), i, err)
		}
	}
	res.SetBounds(bounds)
	res.Load()

	logger.Log.Debug("mesh uploaded",
		zap.String("mesh", m.Name()),
		zap.Int("submeshes", m.SubMeshCount()))
	return res, nil
}

func (u *uploader) insertSubMesh(res renderer.MeshResource, m model.Mesh, i int) error {
	sm := m.SubMesh(i)
	sub := res.CreateSubMesh()

	// position, normal, texcoord; consumers address attributes by offset
	decl := sub.Declaration
	var offset uint64
	decl.AddElement(0, offset, wgpu.VertexFormatFloat32x3, renderer.SemanticPosition, 0)
	offset += renderer.FormatSize(wgpu.VertexFormatFloat32x3)
	hasNormals := sm.NormalCount() > 0
	if hasNormals {
		decl.AddElement(0, offset, wgpu.VertexFormatFloat32x3, renderer.SemanticNormal, 0)
		offset += renderer.FormatSize(wgpu.VertexFormatFloat32x3)
	}
	hasTexCoords := sm.TexCoordCount() > 0
	if hasTexCoords {
		decl.AddElement(0, offset, wgpu.VertexFormatFloat32x2, renderer.SemanticTexCoord, 0)
	}
	vertexSize := decl.VertexSize(0)

	vertices := make([]float32, 0, uint64(sm.VertexCount())*vertexSize/4)
	for v, p := range sm.Vertices {
		vertices = append(vertices, p[:]...)
		if hasNormals {
			vertices = append(vertices, sm.Normals[v][:]...)
		}
		if hasTexCoords {
			vertices = append(vertices, sm.TexCoords[v][:]...)
		}
	}
	vbuf, err := u.backend.CreateVertexBuffer(vertexSize, sm.VertexCount(), u.usage)
	if err != nil {
		return fmt.Errorf("failed to create vertex buffer: %w", err)
	}
	sub.VertexBuffer = vbuf
	if err := writeOnce(vbuf, common.SliceToBytes(vertices)); err != nil {
		return err
	}
	sub.VertexCount = sm.VertexCount()

	indices := make([]uint16, len(sm.Indices))
	for k, idx := range sm.Indices {
		indices[k] = uint16(idx)
	}
	ibuf, err := u.backend.CreateIndexBuffer(indexType, len(indices), u.usage)
	if err != nil {
		return fmt.Errorf("failed to create index buffer: %w", err)
	}
	sub.IndexBuffer = ibuf
	if err := writeOnce(ibuf, common.SliceToBytes(indices)); err != nil {
		return err
	}
	sub.IndexType = indexType
	sub.IndexCount = len(indices)

	if mat := m.Material(sm.MaterialIndex); mat != nil {
		sub.MaterialName = u.ensureMaterial(mat)
	}
	return nil
}

// ensureMaterial registers a mesh material with the backend unless one of that name exists.
func (u *uploader) ensureMaterial(mat *model.MeshMaterial) string {
	reg := u.backend.Materials()
	if reg.Has(mat.Name) {
		return mat.Name
	}
	err := reg.Register(material.NewMaterial(mat.Name,
		material.WithDiffuse(mat.Diffuse),
		material.WithEmissive(mat.Emissive),
	))
	if err != nil && !reg.Has(mat.Name) {
		logger.Log.Warn("failed to register mesh material", zap.String("material", mat.Name), zap.Error(err))
		return renderer.DefaultMaterialName
	}
	return mat.Name
}

// writeOnce fills a buffer in a single lock/unlock pass.
func writeOnce(buf renderer.HardwareBuffer, data []byte) error {
	dst, err := buf.Lock()
	if err != nil {
		return err
	}
	copy(dst, data)
	return buf.Unlock()
}
