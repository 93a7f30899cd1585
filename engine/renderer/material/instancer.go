package material

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-visual/common"
)

// ErrMaterialNotFound is returned when a base material cannot be resolved by name.
var ErrMaterialNotFound = errors.New("material not found")

// instanceSeparator joins a node name and a base material name into an instance key.
const instanceSeparator = "_MATERIAL_"

// instancer is the implementation of the Instancer interface.
type instancer struct {
	registry Registry
	clones   int
}

// Instancer hands out per-node copies of shared base materials so that one node
// can change its color or transparency without touching any other node.
type Instancer interface {
	// InstanceKey computes the deterministic instance name for a node and base material.
	//
	// Parameters:
	//   - nodeName: the owning node's unique name
	//   - baseName: the base material name
	//
	// Returns:
	//   - string: "<nodeName>_MATERIAL_<baseName>"
	InstanceKey(nodeName, baseName string) string

	// Instance returns the node's instance of baseName, cloning the base material on
	// first use and reusing the registered clone afterwards.
	//
	// Parameters:
	//   - nodeName: the owning node's unique name
	//   - baseName: the base material name
	//
	// Returns:
	//   - Material: the per-node instance
	//   - error: ErrMaterialNotFound if the base material is not registered
	Instance(nodeName, baseName string) (Material, error)

	// ApplyTransparency edits every pass of mat for transparency t in [0,1]: solid
	// non-programmable passes switch to alpha blending, depth write is disabled while
	// t > 0, and the diffuse alpha becomes 1-t.
	//
	// Parameters:
	//   - mat: the instance to edit
	//   - t: the transparency, clamped to [0,1]
	ApplyTransparency(mat Material, t float32)

	// ApplyEmissive sets the self-illumination color on every pass of mat.
	//
	// Parameters:
	//   - mat: the instance to edit
	//   - color: the emissive color
	ApplyEmissive(mat Material, color common.Color)

	// ApplyDiffuse sets the ambient and diffuse color on every pass of mat, keeping
	// each pass's current diffuse alpha.
	//
	// Parameters:
	//   - mat: the instance to edit
	//   - color: the diffuse color
	ApplyDiffuse(mat Material, color common.Color)

	// Clones retrieves the number of clone operations performed so far.
	//
	// Returns:
	//   - int: the clone count
	Clones() int
}

var _ Instancer = &instancer{}

// NewInstancer creates an Instancer backed by the given material registry.
//
// Parameters:
//   - registry: the registry holding base materials and receiving instances
//
// Returns:
//   - Instancer: the new instancer
func NewInstancer(registry Registry) Instancer {
	return &instancer{registry: registry}
}

func (in *instancer) InstanceKey(nodeName, baseName string) string {
	return nodeName + instanceSeparator + baseName
}

func (in *instancer) Instance(nodeName, baseName string) (Material, error) {
	key := in.InstanceKey(nodeName, baseName)
	if m, ok := in.registry.Get(key); ok {
		return m, nil
	}

	base, ok := in.registry.Get(baseName)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMaterialNotFound, baseName)
	}

	clone := base.Clone(key)
	if err := in.registry.Register(clone); err != nil {
		return nil, fmt.Errorf("failed to register material instance %s: %w", key, err)
	}
	in.clones++
	return clone, nil
}

func (in *instancer) ApplyTransparency(mat Material, t float32) {
	if mat == nil {
		return
	}
	t = common.Clamp01(t)
	for _, p := range mat.Passes() {
		if !p.Programmable && p.PolygonMode == PolygonModeSolid {
			p.SceneBlend = SceneBlendTransparentAlpha
		}
		p.DepthWrite = t <= 0
		p.Diffuse.A = 1 - t
	}
}

func (in *instancer) ApplyEmissive(mat Material, color common.Color) {
	if mat == nil {
		return
	}
	for _, p := range mat.Passes() {
		p.SelfIllumination = color
	}
}

func (in *instancer) ApplyDiffuse(mat Material, color common.Color) {
	if mat == nil {
		return
	}
	for _, p := range mat.Passes() {
		alpha := p.Diffuse.A
		p.Ambient = color
		p.Diffuse = color
		p.Diffuse.A = alpha
	}
}

func (in *instancer) Clones() int {
	return in.clones
}
