package mesh

import (
	"errors"
	"math"
	"testing"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-visual/common"
	"github.com/Carmen-Shannon/oxy-visual/engine/model"
	"github.com/Carmen-Shannon/oxy-visual/engine/renderer"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func triangle() *model.SubMesh {
	return &model.SubMesh{
		Vertices:      []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		Indices:       []uint32{0, 1, 2},
		MaterialIndex: -1,
	}
}

func floats(b []byte) []float32 {
	if len(b) == 0 {
		return nil
	}
	return unsafe.Slice((*float32)(unsafe.Pointer(&b[0])), len(b)/4)
}

func TestInsertMeshLayouts(t *testing.T) {
	full := triangle()
	full.Normals = []mgl32.Vec3{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}}
	full.TexCoords = []mgl32.Vec2{{0, 0}, {1, 0}, {0, 1}}

	uvOnly := triangle()
	uvOnly.TexCoords = []mgl32.Vec2{{0, 0}, {1, 0}, {0, 1}}

	tests := []struct {
		name    string
		sm      *model.SubMesh
		stride  uint64
		offsets map[renderer.VertexSemantic]uint64
	}{
		{"position", triangle(), 12, map[renderer.VertexSemantic]uint64{renderer.SemanticPosition: 0}},
		{"full", full, 32, map[renderer.VertexSemantic]uint64{
			renderer.SemanticPosition: 0, renderer.SemanticNormal: 12, renderer.SemanticTexCoord: 24,
		}},
		{"texcoord only", uvOnly, 20, map[renderer.VertexSemantic]uint64{
			renderer.SemanticPosition: 0, renderer.SemanticTexCoord: 12,
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := renderer.NewMemoryBackend()
			res, err := NewUploader(b).InsertMesh(model.NewMesh(tt.name, model.WithSubMeshes(tt.sm)))
			require.NoError(t, err)
			require.True(t, res.IsLoaded())
			require.Equal(t, 1, res.NumSubMeshes())

			sub := res.SubMesh(0)
			assert.Equal(t, tt.stride, sub.Declaration.VertexSize(0))
			assert.Len(t, sub.Declaration.Elements(), len(tt.offsets))
			for sem, off := range tt.offsets {
				e, ok := sub.Declaration.FindElement(sem)
				require.True(t, ok)
				assert.Equal(t, off, e.Offset)
			}
			assert.Equal(t, 3, sub.VertexCount)
			assert.Equal(t, uint64(3)*tt.stride, sub.VertexBuffer.Size())
			assert.Equal(t, 1, sub.VertexBuffer.Writes())
			assert.Equal(t, renderer.BufferUsageStaticWriteOnly, sub.VertexBuffer.Usage())
			assert.Equal(t, wgpu.IndexFormatUint16, sub.IndexType.Format())
			assert.Equal(t, 1, sub.IndexBuffer.Writes())
			assert.Equal(t, "", sub.MaterialName)
		})
	}
}

func TestInsertMeshInterleaves(t *testing.T) {
	sm := triangle()
	sm.Normals = []mgl32.Vec3{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}}
	b := renderer.NewMemoryBackend()
	res, err := NewUploader(b).InsertMesh(model.NewMesh("tri", model.WithSubMeshes(sm)))
	require.NoError(t, err)

	got := floats(renderer.Bytes(res.SubMesh(0).VertexBuffer))
	assert.Equal(t, []float32{
		0, 0, 0, 0, 0, 1,
		1, 0, 0, 0, 0, 1,
		0, 1, 0, 0, 0, 1,
	}, got)
	assert.Equal(t, common.NewBox(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 1, 0}), res.Bounds())
}

func TestInsertMeshRejects(t *testing.T) {
	nan := float32(math.NaN())
	big := &model.SubMesh{Vertices: make([]mgl32.Vec3, 70000), MaterialIndex: -1}
	badIndex := triangle()
	badIndex.Indices = []uint32{0, 1, 7}

	tests := []struct {
		name string
		mesh model.Mesh
		want error
	}{
		{"no submeshes", model.NewMesh("empty"), ErrNoSubMeshes},
		{"nil", nil, ErrNoSubMeshes},
		{"nan bounds", model.NewMesh("nan", model.WithSubMeshes(triangle()), model.WithBounds(mgl32.Vec3{nan, 0, 0}, mgl32.Vec3{1, 1, 1})), ErrNonFiniteBounds},
		{"no vertices", model.NewMesh("hollow", model.WithSubMeshes(&model.SubMesh{MaterialIndex: -1})), ErrNonFiniteBounds},
		{"overflow", model.NewMesh("big", model.WithSubMeshes(big)), ErrIndexOverflow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := renderer.NewMemoryBackend()
			res, err := NewUploader(b).InsertMesh(tt.mesh)
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, res)
			if tt.mesh != nil {
				assert.False(t, b.HasMeshResource(tt.mesh.Name()))
			}
		})
	}

	b := renderer.NewMemoryBackend()
	_, err := NewUploader(b).InsertMesh(model.NewMesh("bad", model.WithSubMeshes(badIndex)))
	assert.Error(t, err)
	assert.False(t, b.HasMeshResource("bad"))
}

func TestInsertMeshReusesResource(t *testing.T) {
	b := renderer.NewMemoryBackend()
	u := NewUploader(b)
	m := model.NewMesh("tri", model.WithSubMeshes(triangle()))

	first, err := u.InsertMesh(m)
	require.NoError(t, err)
	second, err := u.InsertMesh(m)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, second.NumSubMeshes())
}

func TestInsertMeshRegistersMaterials(t *testing.T) {
	sm := triangle()
	sm.MaterialIndex = 0
	m := model.NewMesh("tri",
		model.WithSubMeshes(sm, triangle()),
		model.WithMaterials(&model.MeshMaterial{Name: "tri/red", Diffuse: common.ColorRed}),
	)
	b := renderer.NewMemoryBackend()
	res, err := NewUploader(b).InsertMesh(m)
	require.NoError(t, err)

	assert.Equal(t, "tri/red", res.SubMesh(0).MaterialName)
	assert.Equal(t, "", res.SubMesh(1).MaterialName)
	mat, ok := b.Materials().Get("tri/red")
	require.True(t, ok)
	assert.Equal(t, common.ColorRed, mat.Technique(0).Passes[0].Diffuse)

	e, err := b.CreateEntity("e", "tri")
	require.NoError(t, err)
	assert.Equal(t, "tri/red", e.SubEntityMaterialName(0))
	assert.Equal(t, renderer.DefaultMaterialName, e.SubEntityMaterialName(1))
}

// releaseCounter wraps a buffer and counts Release calls.
type releaseCounter struct {
	renderer.HardwareBuffer
	released *int
}

func (b releaseCounter) Release() {
	*b.released++
	b.HardwareBuffer.Release()
}

// indexFailingAllocator hands out host vertex buffers and fails every index buffer.
type indexFailingAllocator struct {
	released int
}

func (a *indexFailingAllocator) Allocate(label string, kind renderer.BufferKind, size uint64, usage renderer.BufferUsage) (renderer.HardwareBuffer, error) {
	if kind == renderer.BufferKindIndex {
		return nil, errors.New("device lost")
	}
	buf, err := renderer.NewMemoryAllocator().Allocate(label, kind, size, usage)
	if err != nil {
		return nil, err
	}
	return releaseCounter{HardwareBuffer: buf, released: &a.released}, nil
}

func TestInsertMeshBackendFailureLeavesNoResource(t *testing.T) {
	alloc := &indexFailingAllocator{}
	b := renderer.NewMemoryBackend(renderer.WithBufferAllocator(alloc))
	u := NewUploader(b)
	m := model.NewMesh("tri", model.WithSubMeshes(triangle()))

	_, err := u.InsertMesh(m)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "device lost")
	assert.False(t, b.HasMeshResource("tri"))
	assert.Equal(t, 1, alloc.released)

	_, err = u.InsertMesh(m)
	assert.Error(t, err)
	assert.False(t, b.HasMeshResource("tri"))
}

func TestDestroyMeshResource(t *testing.T) {
	b := renderer.NewMemoryBackend()
	_, err := NewUploader(b).InsertMesh(model.NewMesh("tri", model.WithSubMeshes(triangle())))
	require.NoError(t, err)

	assert.True(t, b.DestroyMeshResource("tri"))
	assert.False(t, b.HasMeshResource("tri"))
	assert.False(t, b.DestroyMeshResource("tri"))
}
