// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Pose is a position and orientation pair expressed relative to some parent frame.
type Pose struct {
	// Position is the translation component.
	Position mgl32.Vec3 `yaml:"position"`

	// Rotation is the orientation as a unit quaternion.
	Rotation mgl32.Quat `yaml:"rotation"`
}

// IdentityPose returns a pose at the origin with no rotation.
//
// Returns:
//   - Pose: the identity pose
func IdentityPose() Pose {
	return Pose{Rotation: mgl32.QuatIdent()}
}

// NewPose builds a pose from a position and an orientation.
//
// Parameters:
//   - pos: the translation component
//   - rot: the orientation component
//
// Returns:
//   - Pose: the new pose
func NewPose(pos mgl32.Vec3, rot mgl32.Quat) Pose {
	return Pose{Position: pos, Rotation: rot}
}

// String implements fmt.Stringer.
func (p Pose) String() string {
	return fmt.Sprintf("[%g %g %g | %g %g %g %g]",
		p.Position[0], p.Position[1], p.Position[2],
		p.Rotation.W, p.Rotation.V[0], p.Rotation.V[1], p.Rotation.V[2])
}

// Color is a linear RGBA color with components in [0, 1].
type Color struct {
	R float32 `yaml:"r"`
	G float32 `yaml:"g"`
	B float32 `yaml:"b"`
	A float32 `yaml:"a"`
}

// Predefined colors used by helper geometry.
var (
	ColorWhite = Color{1, 1, 1, 1}
	ColorBlack = Color{0, 0, 0, 1}
	ColorRed   = Color{1, 0, 0, 1}
	ColorGreen = Color{0, 1, 0, 1}
	ColorBlue  = Color{0, 0, 1, 1}
)

// Box is an axis-aligned bounding box. The zero value is NOT empty; use
// NewEmptyBox to obtain the inverted sentinel that the first Merge overwrites.
type Box struct {
	Min mgl32.Vec3 `yaml:"min"`
	Max mgl32.Vec3 `yaml:"max"`
}

// NewBox creates a box from its two corners.
//
// Parameters:
//   - min: the minimum corner
//   - max: the maximum corner
//
// Returns:
//   - Box: the new box
func NewBox(min, max mgl32.Vec3) Box {
	return Box{Min: min, Max: max}
}

// NewEmptyBox returns the infinite-inverted sentinel box: Min is +Inf and Max
// is -Inf on every axis, so merging any real box into it yields that box.
//
// Returns:
//   - Box: the empty sentinel
func NewEmptyBox() Box {
	inf := float32(math.Inf(1))
	return Box{
		Min: mgl32.Vec3{inf, inf, inf},
		Max: mgl32.Vec3{-inf, -inf, -inf},
	}
}

// IsEmpty reports whether the box encloses no volume because some minimum
// exceeds its maximum (the state produced by NewEmptyBox).
//
// Returns:
//   - bool: true if the box is empty
func (b Box) IsEmpty() bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] || b.Min[2] > b.Max[2]
}

// Merge grows the box to enclose other. Empty boxes are ignored.
//
// Parameters:
//   - other: the box to merge into b
func (b *Box) Merge(other Box) {
	if other.IsEmpty() {
		return
	}
	for i := 0; i < 3; i++ {
		b.Min[i] = min(b.Min[i], other.Min[i])
		b.Max[i] = max(b.Max[i], other.Max[i])
	}
}

// Size returns the extent of the box along each axis, or zero for an empty box.
//
// Returns:
//   - mgl32.Vec3: max - min
func (b Box) Size() mgl32.Vec3 {
	if b.IsEmpty() {
		return mgl32.Vec3{}
	}
	return b.Max.Sub(b.Min)
}

// Center returns the midpoint of the box.
//
// Returns:
//   - mgl32.Vec3: (min + max) / 2
func (b Box) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Corners returns the eight corners of the box.
//
// Returns:
//   - [8]mgl32.Vec3: the corners, min first and max last
func (b Box) Corners() [8]mgl32.Vec3 {
	return [8]mgl32.Vec3{
		{b.Min[0], b.Min[1], b.Min[2]},
		{b.Max[0], b.Min[1], b.Min[2]},
		{b.Min[0], b.Max[1], b.Min[2]},
		{b.Max[0], b.Max[1], b.Min[2]},
		{b.Min[0], b.Min[1], b.Max[2]},
		{b.Max[0], b.Min[1], b.Max[2]},
		{b.Min[0], b.Max[1], b.Max[2]},
		{b.Max[0], b.Max[1], b.Max[2]},
	}
}

// Finite reports whether both corners have only finite components.
//
// Returns:
//   - bool: true if every component of Min and Max is finite
func (b Box) Finite() bool {
	return IsFiniteVec3(b.Min) && IsFiniteVec3(b.Max)
}
