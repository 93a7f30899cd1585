package loader

import "github.com/Carmen-Shannon/oxy-visual/engine/model"

// MeshStoreBuilderOption is a functional option for configuring a MeshStore via NewMeshStore.
type MeshStoreBuilderOption func(*meshStore)

// WithSearchPaths appends directories that relative mesh names are resolved against, in order.
//
// Parameters:
//   - paths: the directories
//
// Returns:
//   - MeshStoreBuilderOption: a function that applies the search path option to a store
func WithSearchPaths(paths ...string) MeshStoreBuilderOption {
	return func(s *meshStore) {
		s.searchPaths = append(s.searchPaths, paths...)
	}
}

// WithWorkers sets the maximum number of concurrent Preload decodes. Values below 1 become 1.
//
// Parameters:
//   - n: the worker count
//
// Returns:
//   - MeshStoreBuilderOption: a function that applies the worker option to a store
func WithWorkers(n int) MeshStoreBuilderOption {
	return func(s *meshStore) {
		s.workers = n
	}
}

// WithMesh is an option builder that pre-populates the store with a mesh.
//
// Parameters:
//   - m: the mesh to cache under its own name
//
// Returns:
//   - MeshStoreBuilderOption: a function that applies the mesh option to a store
func WithMesh(m model.Mesh) MeshStoreBuilderOption {
	return func(s *meshStore) {
		s.meshes[m.Name()] = m
	}
}
