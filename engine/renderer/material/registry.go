package material

import (
	"fmt"
	"sort"
	"sync"
)

// registry is the implementation of the Registry interface.
type registry struct {
	mu        *sync.RWMutex
	materials map[string]Material
}

// Registry is a name-keyed store of materials shared by every visual of a backend.
type Registry interface {
	// Get retrieves a material by name.
	//
	// Parameters:
	//   - name: the material name
	//
	// Returns:
	//   - Material: the material, or nil
	//   - bool: true if found
	Get(name string) (Material, bool)

	// Has reports whether a material is registered under name.
	//
	// Parameters:
	//   - name: the material name
	//
	// Returns:
	//   - bool: true if registered
	Has(name string) bool

	// Register stores a material under its own name.
	//
	// Parameters:
	//   - m: the material to store
	//
	// Returns:
	//   - error: error if a material with that name already exists
	Register(m Material) error

	// Remove deletes a material by name. Removing an absent name is a no-op.
	//
	// Parameters:
	//   - name: the material name
	Remove(name string)

	// Names retrieves every registered name in sorted order.
	//
	// Returns:
	//   - []string: the names
	Names() []string
}

var _ Registry = &registry{}

// NewRegistry creates an empty Registry seeded with the given materials.
//
// Parameters:
//   - materials: materials to register up front
//
// Returns:
//   - Registry: the new registry
func NewRegistry(materials ...Material) Registry {
	r := &registry{
		mu:        &sync.RWMutex{},
		materials: make(map[string]Material),
	}
	for _, m := range materials {
		r.materials[m.Name()] = m
	}
	return r
}

func (r *registry) Get(name string) (Material, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.materials[name]
	return m, ok
}

func (r *registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.materials[name]
	return ok
}

func (r *registry) Register(m Material) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.materials[m.Name()]; ok {
		return fmt.Errorf("material %q already registered", m.Name())
	}
	r.materials[m.Name()] = m
	return nil
}

func (r *registry) Remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.materials, name)
}

func (r *registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.materials))
	for n := range r.materials {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
