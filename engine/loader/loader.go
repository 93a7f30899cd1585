package loader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-visual/engine/model"
	"github.com/Carmen-Shannon/oxy-visual/internal/logger"
	"go.uber.org/zap"
)

var (
	// ErrMeshNotFound is returned when a mesh name resolves to no loaded mesh and no readable file.
	ErrMeshNotFound = errors.New("mesh not found")

	// ErrUnsupportedFormat is returned for files no backend can decode.
	ErrUnsupportedFormat = errors.New("unsupported mesh format")
)

// meshStore is the implementation of the MeshStore interface.
type meshStore struct {
	mu          sync.RWMutex
	meshes      map[string]model.Mesh
	searchPaths []string
	workers     int
	backend     loaderBackend
	pool        worker.DynamicWorkerPool
	poolOnce    sync.Once
}

// MeshStore caches in-memory meshes by name. The procedural primitives (unit_box,
// unit_sphere, unit_cylinder, unit_plane, axis_cylinder) are present from construction;
// any other name is treated as a glTF/GLB file and resolved against the search paths.
type MeshStore interface {
	// HasMesh reports whether a mesh with the given name is loaded.
	//
	// Parameters:
	//   - name: the mesh name
	//
	// Returns:
	//   - bool: true if loaded
	HasMesh(name string) bool

	// Load reads the named mesh file and caches it under name. Loading a cached name is a no-op.
	//
	// Parameters:
	//   - name: the mesh name; a path, absolute or relative to a search path
	//
	// Returns:
	//   - error: ErrMeshNotFound, ErrUnsupportedFormat or a decode error
	Load(name string) error

	// Mesh retrieves a loaded mesh.
	//
	// Parameters:
	//   - name: the mesh name
	//
	// Returns:
	//   - model.Mesh: the mesh
	//   - bool: false if the mesh is not loaded
	Mesh(name string) (model.Mesh, bool)

	// GetMesh loads the named mesh if needed and returns it.
	//
	// Parameters:
	//   - name: the mesh name
	//
	// Returns:
	//   - model.Mesh: the mesh
	//   - error: the load error, if any
	GetMesh(name string) (model.Mesh, error)

	// AddMesh caches a mesh under its own name, replacing any previous mesh of that name.
	//
	// Parameters:
	//   - m: the mesh
	AddMesh(m model.Mesh)

	// Names retrieves the names of all loaded meshes in sorted order.
	//
	// Returns:
	//   - []string: the names
	Names() []string

	// Preload loads the named meshes concurrently on the store's worker pool and blocks
	// until all of them finish or ctx is done.
	//
	// Parameters:
	//   - ctx: cancels waiting for outstanding loads
	//   - names: the mesh names
	//
	// Returns:
	//   - error: the joined load errors, or ctx.Err()
	Preload(ctx context.Context, names ...string) error

	// Close stops the worker pool.
	Close()
}

var _ MeshStore = &meshStore{}

// NewMeshStore creates a new MeshStore holding the procedural primitives.
//
// Parameters:
//   - options: functional options for store configuration
//
// Returns:
//   - MeshStore: the store
func NewMeshStore(options ...MeshStoreBuilderOption) MeshStore {
	s := &meshStore{
		meshes:  make(map[string]model.Mesh),
		workers: 4,
		backend: newGLTFLoaderBackend(),
	}
	for _, m := range builtinMeshes() {
		s.meshes[m.Name()] = m
	}
	for _, option := range options {
		option(s)
	}
	if s.workers < 1 {
		s.workers = 1
	}
	return s
}

func (s *meshStore) HasMesh(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.meshes[name]
	return ok
}

func (s *meshStore) Load(name string) error {
	if s.HasMesh(name) {
		return nil
	}
	if !isGLTF(name) {
		return fmt.Errorf("%s: %w", name, ErrUnsupportedFormat)
	}
	path, err := s.resolve(name)
	if err != nil {
		return err
	}

	start := time.Now()
	m, err := s.backend.Load(name, path)
	if err != nil {
		return fmt.Errorf("failed to load mesh %s: %w", name, err)
	}

	s.mu.Lock()
	if _, ok := s.meshes[name]; !ok {
		s.meshes[name] = m
	}
	s.mu.Unlock()

	logger.Log.Debug("mesh loaded",
		zap.String("mesh", name),
		zap.String("path", path),
		zap.Int("submeshes", m.SubMeshCount()),
		zap.Duration("took", time.Since(start)))
	return nil
}

func (s *meshStore) Mesh(name string) (model.Mesh, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.meshes[name]
	return m, ok
}

func (s *meshStore) GetMesh(name string) (model.Mesh, error) {
	if err := s.Load(name); err != nil {
		return nil, err
	}
	m, ok := s.Mesh(name)
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrMeshNotFound)
	}
	return m, nil
}

func (s *meshStore) AddMesh(m model.Mesh) {
	if m == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meshes[m.Name()] = m
}

func (s *meshStore) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.meshes))
	for name := range s.meshes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *meshStore) Preload(ctx context.Context, names ...string) error {
	if len(names) == 0 {
		return nil
	}
	s.poolOnce.Do(func() {
		s.pool = worker.NewDynamicWorkerPool(s.workers, 256, 1*time.Second)
	})

	// A WaitGroup barrier instead of pool.Wait so concurrent Preload calls do not wait on each other.
	var wg sync.WaitGroup
	errs := make([]error, len(names))
	for i, name := range names {
		wg.Add(1)
		id, n := i, name
		s.pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				if ctx.Err() != nil {
					errs[id] = ctx.Err()
					return nil, errs[id]
				}
				errs[id] = s.Load(n)
				return nil, errs[id]
			},
		})
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
	}
	return errors.Join(errs...)
}

func (s *meshStore) Close() {
	if s.pool != nil {
		s.pool.Stop()
	}
}

// resolve finds the file for a mesh name: the name itself, then each search path in order.
func (s *meshStore) resolve(name string) (string, error) {
	candidates := []string{name}
	if !filepath.IsAbs(name) {
		for _, dir := range s.searchPaths {
			candidates = append(candidates, filepath.Join(dir, name))
		}
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c, nil
		}
	}
	return "", fmt.Errorf("%s: %w", name, ErrMeshNotFound)
}
