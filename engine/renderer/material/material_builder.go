package material

import "github.com/Carmen-Shannon/oxy-visual/common"

// MaterialBuilderOption is a function that configures a material instance during construction.
type MaterialBuilderOption func(*material)

// WithTechniques is an option builder that replaces the techniques of the material.
//
// Parameters:
//   - techniques: the techniques in preference order
//
// Returns:
//   - MaterialBuilderOption: a function that applies the techniques option to a material
func WithTechniques(techniques ...*Technique) MaterialBuilderOption {
	return func(m *material) {
		m.techniques = techniques
	}
}

// WithDiffuse is an option builder that creates a single default pass with the given diffuse color.
//
// Parameters:
//   - color: the diffuse color
//
// Returns:
//   - MaterialBuilderOption: a function that applies the diffuse option to a material
func WithDiffuse(color common.Color) MaterialBuilderOption {
	return func(m *material) {
		p := NewPass()
		p.Diffuse = color
		p.Ambient = color
		m.techniques = []*Technique{{Passes: []*Pass{p}}}
	}
}

// WithNormalMap is an option builder that sets the normal map texture name.
//
// Parameters:
//   - name: the normal map texture name
//
// Returns:
//   - MaterialBuilderOption: a function that applies the normal map option to a material
func WithNormalMap(name string) MaterialBuilderOption {
	return func(m *material) {
		m.normalMap = name
	}
}

// WithEmissive is an option builder that sets the self-illumination color of every pass.
// It applies to the passes present when it runs, so give it after WithDiffuse or WithTechniques.
//
// Parameters:
//   - color: the emissive color
//
// Returns:
//   - MaterialBuilderOption: a function that applies the emissive option to a material
func WithEmissive(color common.Color) MaterialBuilderOption {
	return func(m *material) {
		if len(m.techniques) == 0 {
			m.techniques = []*Technique{{Passes: []*Pass{NewPass()}}}
		}
		for _, t := range m.techniques {
			for _, p := range t.Passes {
				p.SelfIllumination = color
			}
		}
	}
}
