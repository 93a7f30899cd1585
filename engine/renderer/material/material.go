package material

import (
	"github.com/Carmen-Shannon/oxy-visual/common"
)

// material is the implementation of the Material interface.
type material struct {
	name       string
	techniques []*Technique
	normalMap  string
}

// Material defines a named surface description made of techniques, each of which
// holds an ordered list of passes. Per-pass state (blending, depth write, colors)
// is edited in place through the Pass pointers returned by Technique.
//
// A material registered under a shared name is a base material; visuals never edit
// a base material directly, they edit an instance obtained from an Instancer.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// NumTechniques retrieves the number of techniques.
	//
	// Returns:
	//   - int: the technique count
	NumTechniques() int

	// Technique retrieves a technique by index.
	//
	// Parameters:
	//   - i: the technique index
	//
	// Returns:
	//   - *Technique: the technique, or nil if i is out of range
	Technique(i int) *Technique

	// Passes retrieves every pass of every technique in order.
	//
	// Returns:
	//   - []*Pass: the passes
	Passes() []*Pass

	// NormalMap retrieves the normal map texture name, or empty if none is set.
	//
	// Returns:
	//   - string: the normal map name
	NormalMap() string

	// SetNormalMap sets the normal map texture name.
	//
	// Parameters:
	//   - name: the normal map name
	SetNormalMap(name string)

	// Clone returns a deep copy of the material registered under a new name.
	// Edits to the clone never reach the original.
	//
	// Parameters:
	//   - name: the clone's name
	//
	// Returns:
	//   - Material: the clone
	Clone(name string) Material
}

var _ Material = &material{}

// NewMaterial creates a new Material instance configured with the provided options.
// A material built without WithTechniques gets one technique holding one default pass.
//
// Parameters:
//   - name: the material identifier
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new Material instance
func NewMaterial(name string, options ...MaterialBuilderOption) Material {
	m := &material{name: name}
	for _, opt := range options {
		opt(m)
	}
	if len(m.techniques) == 0 {
		m.techniques = []*Technique{{Passes: []*Pass{NewPass()}}}
	}
	return m
}

func (m *material) Name() string {
	return m.name
}

func (m *material) NumTechniques() int {
	return len(m.techniques)
}

func (m *material) Technique(i int) *Technique {
	if i < 0 || i >= len(m.techniques) {
		return nil
	}
	return m.techniques[i]
}

func (m *material) Passes() []*Pass {
	var out []*Pass
	for _, t := range m.techniques {
		out = append(out, t.Passes...)
	}
	return out
}

func (m *material) NormalMap() string {
	return m.normalMap
}

func (m *material) SetNormalMap(name string) {
	m.normalMap = name
}

func (m *material) Clone(name string) Material {
	c := &material{
		name:       name,
		normalMap:  m.normalMap,
		techniques: make([]*Technique, len(m.techniques)),
	}
	for i, t := range m.techniques {
		c.techniques[i] = t.clone()
	}
	return c
}

// Technique is one way of rendering a material, made of ordered passes.
type Technique struct {
	// Name is an optional identifier such as a scheme name.
	Name string

	// Passes are rendered in order.
	Passes []*Pass
}

func (t *Technique) clone() *Technique {
	c := &Technique{Name: t.Name, Passes: make([]*Pass, len(t.Passes))}
	for i, p := range t.Passes {
		cp := *p
		c.Passes[i] = &cp
	}
	return c
}

// PolygonMode selects how a pass rasterises polygons.
type PolygonMode int

const (
	// PolygonModeSolid fills polygons.
	PolygonModeSolid PolygonMode = iota

	// PolygonModeWireframe draws polygon edges.
	PolygonModeWireframe

	// PolygonModePoints draws polygon vertices.
	PolygonModePoints
)

// SceneBlend selects how a pass blends with the frame buffer.
type SceneBlend int

const (
	// SceneBlendReplace overwrites the destination.
	SceneBlendReplace SceneBlend = iota

	// SceneBlendTransparentAlpha blends by source alpha.
	SceneBlendTransparentAlpha

	// SceneBlendAdd adds source to destination.
	SceneBlendAdd
)

// Pass holds the fixed-function state of one render pass.
type Pass struct {
	// Programmable is true when the pass is driven by custom shader programs,
	// in which case blending is left to the programs.
	Programmable bool

	PolygonMode PolygonMode
	SceneBlend  SceneBlend
	DepthWrite  bool

	Ambient          common.Color
	Diffuse          common.Color
	Specular         common.Color
	SelfIllumination common.Color
}

// NewPass returns a solid, opaque, depth-writing pass with a white diffuse color.
//
// Returns:
//   - *Pass: the new pass
func NewPass() *Pass {
	return &Pass{
		PolygonMode: PolygonModeSolid,
		SceneBlend:  SceneBlendReplace,
		DepthWrite:  true,
		Ambient:     common.ColorWhite,
		Diffuse:     common.ColorWhite,
		Specular:    common.ColorBlack,
		SelfIllumination: common.Color{
			A: 1,
		},
	}
}
