package renderer

import (
	"fmt"
	"sync"
)

// HardwareBuffer is a backend vertex or index buffer written through a lock/unlock pair.
// Lock hands out a staging slice of Size bytes; Unlock commits the whole slice.
type HardwareBuffer interface {
	// Label retrieves the debug label.
	Label() string

	// Kind retrieves whether the buffer holds vertices or indices.
	Kind() BufferKind

	// Usage retrieves the write pattern of the buffer.
	Usage() BufferUsage

	// Size retrieves the buffer size in bytes.
	Size() uint64

	// Lock returns a staging slice covering the whole buffer.
	//
	// Returns:
	//   - []byte: the staging slice
	//   - error: ErrBufferLocked, or ErrBufferWriteOnce for a static write-only buffer already written
	Lock() ([]byte, error)

	// Unlock commits the staging slice.
	//
	// Returns:
	//   - error: ErrBufferNotLocked or a device error
	Unlock() error

	// Writes retrieves the number of committed Unlock calls.
	Writes() int

	// Release frees the buffer.
	Release()
}

// BufferAllocator creates hardware buffers for a backend.
type BufferAllocator interface {
	// Allocate creates a buffer.
	//
	// Parameters:
	//   - label: the debug label
	//   - kind: vertex or index
	//   - size: the size in bytes
	//   - usage: the write pattern
	//
	// Returns:
	//   - HardwareBuffer: the buffer
	//   - error: error if allocation fails
	Allocate(label string, kind BufferKind, size uint64, usage BufferUsage) (HardwareBuffer, error)
}

// stagedBuffer implements the lock/unlock bookkeeping shared by every allocator.
// commit receives the staging slice on Unlock.
type stagedBuffer struct {
	mu      sync.Mutex
	label   string
	kind    BufferKind
	usage   BufferUsage
	data    []byte
	locked  bool
	writes  int
	commit  func(data []byte) error
	release func()
}

var _ HardwareBuffer = &stagedBuffer{}

func (b *stagedBuffer) Label() string {
	return b.label
}

func (b *stagedBuffer) Kind() BufferKind {
	return b.kind
}

func (b *stagedBuffer) Usage() BufferUsage {
	return b.usage
}

func (b *stagedBuffer) Size() uint64 {
	return uint64(len(b.data))
}

func (b *stagedBuffer) Lock() ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.locked {
		return nil, fmt.Errorf("%s: %w", b.label, ErrBufferLocked)
	}
	if b.usage.WriteOnce() && b.writes > 0 {
		return nil, fmt.Errorf("%s: %w", b.label, ErrBufferWriteOnce)
	}
	b.locked = true
	return b.data, nil
}

func (b *stagedBuffer) Unlock() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.locked {
		return fmt.Errorf("%s: %w", b.label, ErrBufferNotLocked)
	}
	b.locked = false
	if b.commit != nil {
		if err := b.commit(b.data); err != nil {
			return fmt.Errorf("%s: failed to commit buffer: %w", b.label, err)
		}
	}
	b.writes++
	return nil
}

func (b *stagedBuffer) Writes() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.writes
}

func (b *stagedBuffer) Release() {
	if b.release != nil {
		b.release()
	}
	b.data = nil
}

// Bytes returns the committed contents of a buffer created by the memory allocator.
//
// Parameters:
//   - buf: the buffer
//
// Returns:
//   - []byte: the contents, or nil if buf was not created by this package
func Bytes(buf HardwareBuffer) []byte {
	if sb, ok := buf.(*stagedBuffer); ok {
		return sb.data
	}
	return nil
}

// memoryAllocator keeps buffers in host memory.
type memoryAllocator struct{}

// NewMemoryAllocator creates a BufferAllocator whose buffers live in host memory.
//
// Returns:
//   - BufferAllocator: the allocator
func NewMemoryAllocator() BufferAllocator {
	return memoryAllocator{}
}

func (memoryAllocator) Allocate(label string, kind BufferKind, size uint64, usage BufferUsage) (HardwareBuffer, error) {
	return &stagedBuffer{
		label: label,
		kind:  kind,
		usage: usage,
		data:  make([]byte, size),
	}, nil
}
