package common

import (
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	totalBytes := int(size) * len(data)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), totalBytes)
}

// IsFiniteVec3 reports whether every component of v is neither NaN nor infinite.
//
// Parameters:
//   - v: the vector to check
//
// Returns:
//   - bool: true if all components are finite
func IsFiniteVec3(v mgl32.Vec3) bool {
	for _, c := range v {
		f := float64(c)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

// Clamp01 clamps v to the closed interval [0, 1].
//
// Parameters:
//   - v: the value to clamp
//
// Returns:
//   - float32: the clamped value
func Clamp01(v float32) float32 {
	return min(max(v, 0), 1)
}

// ComposeTransform returns the world pose and scale of a child given its
// parent's world pose and scale and the child's local pose and scale.
// Parent scale applies to the child's translation and is inherited by the
// child's scale, matching a conventional scene-graph node.
//
// Parameters:
//   - parent: the parent's world pose
//   - parentScale: the parent's world scale
//   - local: the child's pose relative to its parent
//   - localScale: the child's scale relative to its parent
//
// Returns:
//   - Pose: the child's world pose
//   - mgl32.Vec3: the child's world scale
func ComposeTransform(parent Pose, parentScale mgl32.Vec3, local Pose, localScale mgl32.Vec3) (Pose, mgl32.Vec3) {
	scaled := mgl32.Vec3{
		local.Position[0] * parentScale[0],
		local.Position[1] * parentScale[1],
		local.Position[2] * parentScale[2],
	}
	world := Pose{
		Position: parent.Rotation.Rotate(scaled).Add(parent.Position),
		Rotation: parent.Rotation.Mul(local.Rotation).Normalize(),
	}
	scale := mgl32.Vec3{
		parentScale[0] * localScale[0],
		parentScale[1] * localScale[1],
		parentScale[2] * localScale[2],
	}
	return world, scale
}

// RelativePose inverts ComposeTransform for the pose part: it returns the
// local pose that, composed under parent, yields world.
//
// Parameters:
//   - parent: the parent's world pose
//   - parentScale: the parent's world scale; zero components are treated as 1
//   - world: the desired world pose
//
// Returns:
//   - Pose: the local pose relative to parent
func RelativePose(parent Pose, parentScale mgl32.Vec3, world Pose) Pose {
	inv := parent.Rotation.Inverse()
	delta := inv.Rotate(world.Position.Sub(parent.Position))
	for i := 0; i < 3; i++ {
		if parentScale[i] != 0 {
			delta[i] /= parentScale[i]
		}
	}
	return Pose{
		Position: delta,
		Rotation: inv.Mul(world.Rotation).Normalize(),
	}
}

// TransformBox returns the axis-aligned box enclosing local after it is
// scaled, rotated and translated into the frame described by pose.
//
// Parameters:
//   - local: the box in object space
//   - pose: the object's world pose
//   - scale: the object's world scale
//
// Returns:
//   - Box: the world-space axis-aligned bounds
func TransformBox(local Box, pose Pose, scale mgl32.Vec3) Box {
	if local.IsEmpty() {
		return local
	}
	out := NewEmptyBox()
	for _, c := range local.Corners() {
		p := mgl32.Vec3{c[0] * scale[0], c[1] * scale[1], c[2] * scale[2]}
		p = pose.Rotation.Rotate(p).Add(pose.Position)
		out.Merge(Box{Min: p, Max: p})
	}
	return out
}
