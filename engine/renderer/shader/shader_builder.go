package shader

// CoordinatorBuilderOption is a functional option applied to a coordinator during construction via NewCoordinator.
type CoordinatorBuilderOption func(*coordinator)

// WithTemplate replaces the WGSL template permutations are generated from.
//
// Parameters:
//   - name: the template name, used as the prefix of every program key
//   - source: the WGSL source with @oxy: annotations
//
// Returns:
//   - CoordinatorBuilderOption: a function that applies the template option to a coordinator
func WithTemplate(name, source string) CoordinatorBuilderOption {
	return func(c *coordinator) {
		c.name = name
		c.template = source
	}
}

// WithPreProcessor sets the pre-processor used to resolve annotations.
//
// Parameters:
//   - pp: the pre-processor
//
// Returns:
//   - CoordinatorBuilderOption: a function that applies the pre-processor option to a coordinator
func WithPreProcessor(pp PreProcessor) CoordinatorBuilderOption {
	return func(c *coordinator) {
		c.pp = pp
	}
}
