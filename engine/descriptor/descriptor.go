// Package descriptor holds the declarative state of a visual and the partial-update
// messages that modify it.
package descriptor

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-visual/common"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrMultipleGeometries is returned when a decoded geometry populates more than one variant.
	ErrMultipleGeometries = errors.New("geometry has more than one variant")

	// ErrMaterialConflict is returned when a decoded material names both a script and a color.
	ErrMaterialConflict = errors.New("material has both a script and a color")
)

// Canonical mesh names of the procedural primitives.
const (
	MeshUnitBox      = "unit_box"
	MeshUnitSphere   = "unit_sphere"
	MeshUnitCylinder = "unit_cylinder"
	MeshUnitPlane    = "unit_plane"
)

// Kind identifies the populated geometry variant.
type Kind int

const (
	KindNone Kind = iota
	KindBox
	KindSphere
	KindCylinder
	KindPlane
	KindMesh
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindBox:
		return "box"
	case KindSphere:
		return "sphere"
	case KindCylinder:
		return "cylinder"
	case KindPlane:
		return "plane"
	case KindMesh:
		return "mesh"
	default:
		return "none"
	}
}

// Box is a box scaled from the unit box.
type Box struct {
	Size mgl32.Vec3 `yaml:"size"`
}

// Sphere is a sphere scaled uniformly from the unit sphere.
type Sphere struct {
	Radius float32 `yaml:"radius"`
}

// Cylinder is a Z-aligned cylinder scaled from the unit cylinder.
type Cylinder struct {
	Radius float32 `yaml:"radius"`
	Length float32 `yaml:"length"`
}

// Plane is an unbounded plane.
type Plane struct {
	Normal mgl32.Vec3 `yaml:"normal"`
}

// Mesh is a mesh file instantiated at a scale.
type Mesh struct {
	Filename string     `yaml:"filename"`
	Scale    mgl32.Vec3 `yaml:"scale"`
}

// Geometry is a tagged union: at most one variant is non-nil. The setters clear
// every other variant.
type Geometry struct {
	Box      *Box      `yaml:"box,omitempty"`
	Sphere   *Sphere   `yaml:"sphere,omitempty"`
	Cylinder *Cylinder `yaml:"cylinder,omitempty"`
	Plane    *Plane    `yaml:"plane,omitempty"`
	Mesh     *Mesh     `yaml:"mesh,omitempty"`
}

// Kind retrieves the populated variant, checked in declaration order.
//
// Returns:
//   - Kind: the variant, KindNone when the geometry is unset
func (g *Geometry) Kind() Kind {
	switch {
	case g == nil:
		return KindNone
	case g.Box != nil:
		return KindBox
	case g.Sphere != nil:
		return KindSphere
	case g.Cylinder != nil:
		return KindCylinder
	case g.Plane != nil:
		return KindPlane
	case g.Mesh != nil:
		return KindMesh
	}
	return KindNone
}

// Clear unsets every variant.
func (g *Geometry) Clear() {
	*g = Geometry{}
}

// SetBox replaces the geometry with a box.
//
// Parameters:
//   - size: the box extents
func (g *Geometry) SetBox(size mgl32.Vec3) {
	*g = Geometry{Box: &Box{Size: size}}
}

// SetSphere replaces the geometry with a sphere.
//
// Parameters:
//   - radius: the uniform scale of the unit sphere
func (g *Geometry) SetSphere(radius float32) {
	*g = Geometry{Sphere: &Sphere{Radius: radius}}
}

// SetCylinder replaces the geometry with a cylinder.
//
// Parameters:
//   - radius: the X/Y scale of the unit cylinder
//   - length: the Z scale of the unit cylinder
func (g *Geometry) SetCylinder(radius, length float32) {
	*g = Geometry{Cylinder: &Cylinder{Radius: radius, Length: length}}
}

// SetPlane replaces the geometry with a plane.
//
// Parameters:
//   - normal: the plane normal
func (g *Geometry) SetPlane(normal mgl32.Vec3) {
	*g = Geometry{Plane: &Plane{Normal: normal}}
}

// SetMesh replaces the geometry with a mesh file.
//
// Parameters:
//   - filename: the mesh name resolved by the mesh store
//   - scale: the mesh scale
func (g *Geometry) SetMesh(filename string, scale mgl32.Vec3) {
	*g = Geometry{Mesh: &Mesh{Filename: filename, Scale: scale}}
}

// MeshName derives the mesh the geometry instantiates.
//
// Returns:
//   - string: a unit primitive name, the mesh filename, or "" when unset
func (g *Geometry) MeshName() string {
	switch g.Kind() {
	case KindBox:
		return MeshUnitBox
	case KindSphere:
		return MeshUnitSphere
	case KindCylinder:
		return MeshUnitCylinder
	case KindPlane:
		return MeshUnitPlane
	case KindMesh:
		return g.Mesh.Filename
	}
	return ""
}

// Scale projects the geometry parameters onto a node scale.
//
// Returns:
//   - mgl32.Vec3: box size, (r,r,r) for spheres, (r,r,l) for cylinders, the mesh scale,
//     or (1,1,1) for planes and unset geometry
func (g *Geometry) Scale() mgl32.Vec3 {
	switch g.Kind() {
	case KindBox:
		return g.Box.Size
	case KindSphere:
		r := g.Sphere.Radius
		return mgl32.Vec3{r, r, r}
	case KindCylinder:
		return mgl32.Vec3{g.Cylinder.Radius, g.Cylinder.Radius, g.Cylinder.Length}
	case KindMesh:
		return g.Mesh.Scale
	}
	return mgl32.Vec3{1, 1, 1}
}

// SetScale writes a node scale back into the geometry parameters: box size, sphere
// radius from x, cylinder radius from x and length from z, or mesh scale. Planes and
// unset geometry are left unchanged.
//
// Parameters:
//   - scale: the node scale
func (g *Geometry) SetScale(scale mgl32.Vec3) {
	switch g.Kind() {
	case KindBox:
		g.Box.Size = scale
	case KindSphere:
		g.Sphere.Radius = scale.X()
	case KindCylinder:
		g.Cylinder.Radius = scale.X()
		g.Cylinder.Length = scale.Z()
	case KindMesh:
		g.Mesh.Scale = scale
	}
}

// Validate checks that at most one variant is populated.
//
// Returns:
//   - error: ErrMultipleGeometries
func (g *Geometry) Validate() error {
	if g == nil {
		return nil
	}
	n := 0
	for _, set := range []bool{g.Box != nil, g.Sphere != nil, g.Cylinder != nil, g.Plane != nil, g.Mesh != nil} {
		if set {
			n++
		}
	}
	if n > 1 {
		return ErrMultipleGeometries
	}
	return nil
}

func (g *Geometry) clone() Geometry {
	out := Geometry{}
	if g.Box != nil {
		b := *g.Box
		out.Box = &b
	}
	if g.Sphere != nil {
		s := *g.Sphere
		out.Sphere = &s
	}
	if g.Cylinder != nil {
		c := *g.Cylinder
		out.Cylinder = &c
	}
	if g.Plane != nil {
		p := *g.Plane
		out.Plane = &p
	}
	if g.Mesh != nil {
		m := *g.Mesh
		out.Mesh = &m
	}
	return out
}

// Material is the material element of a descriptor. Script and Color are exclusive.
type Material struct {
	Script    string        `yaml:"script,omitempty"`
	Color     *common.Color `yaml:"color,omitempty"`
	NormalMap string        `yaml:"normal_map,omitempty"`
}

// Descriptor is the declarative state of one visual.
type Descriptor struct {
	Name         string       `yaml:"name"`
	Geometry     Geometry     `yaml:"geometry"`
	Pose         *common.Pose `yaml:"pose,omitempty"`
	Material     *Material    `yaml:"material,omitempty"`
	CastShadows  *bool        `yaml:"cast_shadows,omitempty"`
	Visible      *bool        `yaml:"visible,omitempty"`
	Transparency *float32     `yaml:"transparency,omitempty"`
	Static       bool         `yaml:"static,omitempty"`
}

// New creates a geometry-less descriptor.
//
// Parameters:
//   - name: the visual name
//
// Returns:
//   - *Descriptor: the descriptor
func New(name string) *Descriptor {
	return &Descriptor{Name: name}
}

// Reset returns the descriptor to its geometry-less state, keeping the name.
func (d *Descriptor) Reset() {
	*d = Descriptor{Name: d.Name}
}

// MeshName derives the mesh the descriptor instantiates.
//
// Returns:
//   - string: see Geometry.MeshName
func (d *Descriptor) MeshName() string {
	return d.Geometry.MeshName()
}

// IsPlane reports whether the geometry is a plane.
//
// Returns:
//   - bool: true for plane geometry
func (d *Descriptor) IsPlane() bool {
	return d.Geometry.Kind() == KindPlane
}

// EnsureMaterial retrieves the material element, creating an empty one if absent.
//
// Returns:
//   - *Material: the material element
func (d *Descriptor) EnsureMaterial() *Material {
	if d.Material == nil {
		d.Material = &Material{}
	}
	return d.Material
}

// MaterialScript retrieves the material script name, or "".
func (d *Descriptor) MaterialScript() string {
	if d.Material == nil {
		return ""
	}
	return d.Material.Script
}

// MaterialColor retrieves the solid material color.
//
// Returns:
//   - common.Color: the color
//   - bool: false if no color is set
func (d *Descriptor) MaterialColor() (common.Color, bool) {
	if d.Material == nil || d.Material.Color == nil {
		return common.Color{}, false
	}
	return *d.Material.Color, true
}

// NormalMap retrieves the normal map name, or "".
func (d *Descriptor) NormalMap() string {
	if d.Material == nil {
		return ""
	}
	return d.Material.NormalMap
}

// Validate checks the union and exclusivity constraints.
//
// Returns:
//   - error: ErrMultipleGeometries or ErrMaterialConflict
func (d *Descriptor) Validate() error {
	if err := d.Geometry.Validate(); err != nil {
		return fmt.Errorf("descriptor %s: %w", d.Name, err)
	}
	if d.Material != nil && d.Material.Script != "" && d.Material.Color != nil {
		return fmt.Errorf("descriptor %s: %w", d.Name, ErrMaterialConflict)
	}
	return nil
}

// Clone returns a deep copy.
//
// Returns:
//   - *Descriptor: the copy
func (d *Descriptor) Clone() *Descriptor {
	out := &Descriptor{
		Name:     d.Name,
		Geometry: d.Geometry.clone(),
		Static:   d.Static,
	}
	if d.Pose != nil {
		p := *d.Pose
		out.Pose = &p
	}
	if d.Material != nil {
		m := *d.Material
		if m.Color != nil {
			c := *m.Color
			m.Color = &c
		}
		out.Material = &m
	}
	out.CastShadows = clonePtr(d.CastShadows)
	out.Visible = clonePtr(d.Visible)
	out.Transparency = clonePtr(d.Transparency)
	return out
}

// Ptr returns a pointer to a copy of v, for filling optional fields.
//
// Parameters:
//   - v: the value
//
// Returns:
//   - *T: a pointer to a copy of v
func Ptr[T any](v T) *T {
	return &v
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
