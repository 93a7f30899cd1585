package renderer

import (
	"errors"

	"github.com/cogentcore/webgpu/wgpu"
)

var (
	// ErrNodeNotFound is returned when a node handle does not name an existing node.
	ErrNodeNotFound = errors.New("node not found")

	// ErrNodeExists is returned when creating a node whose name is taken.
	ErrNodeExists = errors.New("node already exists")

	// ErrNodeHasParent is returned when adding a child that is still attached elsewhere.
	ErrNodeHasParent = errors.New("node already has a parent")

	// ErrNodeCycle is returned when an AddChild would make a node its own ancestor.
	ErrNodeCycle = errors.New("node cannot be its own ancestor")

	// ErrAlreadyAttached is returned when binding an attachment that is bound to another node.
	ErrAlreadyAttached = errors.New("object already attached")

	// ErrResourceExists is returned when creating a named resource whose name is taken.
	ErrResourceExists = errors.New("resource already exists")

	// ErrResourceNotFound is returned when a named resource does not exist.
	ErrResourceNotFound = errors.New("resource not found")

	// ErrBufferLocked is returned when locking a buffer that is already locked.
	ErrBufferLocked = errors.New("buffer already locked")

	// ErrBufferNotLocked is returned when unlocking a buffer that is not locked.
	ErrBufferNotLocked = errors.New("buffer not locked")

	// ErrBufferWriteOnce is returned when locking a static write-only buffer a second time.
	ErrBufferWriteOnce = errors.New("static buffer already written")
)

// Render queue groups. Lower groups draw first.
const (
	RenderQueueBackground      uint8 = 0
	RenderQueueSkiesEarly      uint8 = 5
	RenderQueue1               uint8 = 10
	RenderQueue2               uint8 = 20
	RenderQueueWorldGeometry1  uint8 = 25
	RenderQueue3               uint8 = 30
	RenderQueue4               uint8 = 40
	RenderQueueMain            uint8 = 50
	RenderQueue6               uint8 = 60
	RenderQueue7               uint8 = 70
	RenderQueueWorldGeometry2  uint8 = 75
	RenderQueue8               uint8 = 80
	RenderQueue9               uint8 = 90
	RenderQueueSkiesLate       uint8 = 95
	RenderQueueOverlay         uint8 = 100
	RenderQueueMax             uint8 = 105
	RenderQueueDefault               = RenderQueueMain
)

// Movable types reported by Attachment.MovableType.
const (
	MovableTypeEntity       = "Entity"
	MovableTypeDynamicLines = "DynamicLines"
	MovableTypeRibbonTrail  = "RibbonTrail"
)

// DefaultMaterialName is the material every backend registers at construction and
// assigns to submeshes that carry none.
const DefaultMaterialName = "BaseWhite"

// RenderOp is the primitive topology of a procedural renderable.
type RenderOp int

const (
	RenderOpPointList RenderOp = iota
	RenderOpLineList
	RenderOpLineStrip
	RenderOpTriangleList
	RenderOpTriangleStrip
	RenderOpTriangleFan
)

// PrimitiveTopology maps the render operation onto the wgpu topology. Triangle fans have no
// wgpu equivalent and are reported as triangle lists.
//
// Returns:
//   - wgpu.PrimitiveTopology: the topology
func (op RenderOp) PrimitiveTopology() wgpu.PrimitiveTopology {
	switch op {
	case RenderOpPointList:
		return wgpu.PrimitiveTopologyPointList
	case RenderOpLineList:
		return wgpu.PrimitiveTopologyLineList
	case RenderOpLineStrip:
		return wgpu.PrimitiveTopologyLineStrip
	case RenderOpTriangleStrip:
		return wgpu.PrimitiveTopologyTriangleStrip
	default:
		return wgpu.PrimitiveTopologyTriangleList
	}
}

// BufferUsage describes how a hardware buffer is written.
type BufferUsage int

const (
	// BufferUsageStatic buffers are written rarely and may be read back.
	BufferUsageStatic BufferUsage = iota

	// BufferUsageStaticWriteOnly buffers are written exactly once and never read back.
	BufferUsageStaticWriteOnly

	// BufferUsageDynamic buffers are rewritten often.
	BufferUsageDynamic

	// BufferUsageDynamicWriteOnly buffers are rewritten often and never read back.
	BufferUsageDynamicWriteOnly
)

// WriteOnce reports whether the usage permits a single write.
//
// Returns:
//   - bool: true for BufferUsageStaticWriteOnly
func (u BufferUsage) WriteOnce() bool {
	return u == BufferUsageStaticWriteOnly
}

// BufferKind distinguishes vertex from index buffers.
type BufferKind int

const (
	BufferKindVertex BufferKind = iota
	BufferKindIndex
)

// WGPUUsage maps a buffer kind onto the wgpu usage flags of a device buffer filled by queue writes.
//
// Returns:
//   - wgpu.BufferUsage: the usage flags
func (k BufferKind) WGPUUsage() wgpu.BufferUsage {
	if k == BufferKindIndex {
		return wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst
	}
	return wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst
}

// IndexType is the width of an index.
type IndexType int

const (
	IndexType16Bit IndexType = iota
	IndexType32Bit
)

// Size returns the byte width of one index.
//
// Returns:
//   - uint64: 2 or 4
func (t IndexType) Size() uint64 {
	if t == IndexType32Bit {
		return 4
	}
	return 2
}

// Format maps the index type onto the wgpu index format.
//
// Returns:
//   - wgpu.IndexFormat: the format
func (t IndexType) Format() wgpu.IndexFormat {
	if t == IndexType32Bit {
		return wgpu.IndexFormatUint32
	}
	return wgpu.IndexFormatUint16
}

// MaxIndex returns the largest vertex index addressable by the type.
//
// Returns:
//   - uint64: 65535 or 4294967295
func (t IndexType) MaxIndex() uint64 {
	if t == IndexType32Bit {
		return 1<<32 - 1
	}
	return 1<<16 - 1
}
