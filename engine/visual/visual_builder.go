package visual

import "github.com/Carmen-Shannon/oxy-visual/engine/descriptor"

// VisualBuilderOption is a functional option for configuring a Visual during construction.
type VisualBuilderOption func(*visual)

// WithDescriptor loads a descriptor once the visual's node exists. The descriptor's name is
// replaced by the visual's unique name.
//
// Parameters:
//   - desc: the descriptor to load
//
// Returns:
//   - VisualBuilderOption: a function that applies the descriptor option to a visual
func WithDescriptor(desc *descriptor.Descriptor) VisualBuilderOption {
	return func(v *visual) {
		v.pendingDesc = desc
	}
}

// WithVisible sets the initial visibility, cascading to descendants.
//
// Parameters:
//   - visible: the visibility flag
//
// Returns:
//   - VisualBuilderOption: a function that applies the visibility option to a visual
func WithVisible(visible bool) VisualBuilderOption {
	return func(v *visual) {
		v.initialVisible = &visible
	}
}

// WithAxes attaches the RGB axis helper on construction.
//
// Returns:
//   - VisualBuilderOption: a function that applies the axes option to a visual
func WithAxes() VisualBuilderOption {
	return func(v *visual) {
		v.withAxes = true
	}
}
