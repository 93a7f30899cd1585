package renderer

import "github.com/Carmen-Shannon/oxy-visual/engine/renderer/material"

// MemoryBackendBuilderOption is a functional option applied to a memory backend during construction via NewMemoryBackend.
type MemoryBackendBuilderOption func(*memoryBackend)

// WithBufferAllocator sets the allocator used for vertex and index buffers.
// The default keeps buffers in host memory.
//
// Parameters:
//   - allocator: the buffer allocator
//
// Returns:
//   - MemoryBackendBuilderOption: a function that applies the allocator option to a backend
func WithBufferAllocator(allocator BufferAllocator) MemoryBackendBuilderOption {
	return func(b *memoryBackend) {
		b.allocator = allocator
	}
}

// WithMaterialRegistry sets the material registry shared by the backend's attachments.
//
// Parameters:
//   - registry: the registry
//
// Returns:
//   - MemoryBackendBuilderOption: a function that applies the registry option to a backend
func WithMaterialRegistry(registry material.Registry) MemoryBackendBuilderOption {
	return func(b *memoryBackend) {
		b.materials = registry
	}
}

// WithMaterials registers base materials with the backend's registry.
// Materials whose names are already registered are skipped.
//
// Parameters:
//   - materials: the base materials
//
// Returns:
//   - MemoryBackendBuilderOption: a function that applies the materials option to a backend
func WithMaterials(materials ...material.Material) MemoryBackendBuilderOption {
	return func(b *memoryBackend) {
		b.pendingMaterials = append(b.pendingMaterials, materials...)
	}
}

// WithRootName sets the name of the root node. Defaults to "root".
//
// Parameters:
//   - name: the root node name
//
// Returns:
//   - MemoryBackendBuilderOption: a function that applies the root name option to a backend
func WithRootName(name string) MemoryBackendBuilderOption {
	return func(b *memoryBackend) {
		b.rootName = name
	}
}

// WithStaticGeometry enables static batching support.
//
// Parameters:
//   - enabled: true to expose BuildStaticGeometry
//
// Returns:
//   - MemoryBackendBuilderOption: a function that applies the static geometry option to a backend
func WithStaticGeometry(enabled bool) MemoryBackendBuilderOption {
	return func(b *memoryBackend) {
		b.staticEnabled = enabled
	}
}
