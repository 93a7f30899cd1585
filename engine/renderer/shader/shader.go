package shader

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-visual/internal/logger"
	"github.com/cogentcore/webgpu/wgpu"
	"go.uber.org/zap"
)

// VisualSource is the WGSL template every visual permutation is generated from.
//
//go:embed assets/visual.wgsl
var VisualSource string

// DefineNormalMap is defined for targets that carry a normal map.
const DefineNormalMap = "NORMAL_MAP"

// Target is a shading target registered with a Coordinator.
type Target interface {
	// Name retrieves the unique target name.
	Name() string

	// MaterialName retrieves the material the target currently renders with, or "".
	MaterialName() string

	// NormalMap retrieves the normal map texture name, or "".
	NormalMap() string
}

// Program is one generated shader permutation.
type Program struct {
	// Key identifies the permutation; targets with equal defines share a key.
	Key string

	// Defines is the define set the source was generated with.
	Defines map[string]string

	// Source is the processed WGSL source.
	Source string
}

// Module builds the wgpu shader module descriptor for the program.
//
// Returns:
//   - *wgpu.ShaderModuleDescriptor: the descriptor
func (p Program) Module() *wgpu.ShaderModuleDescriptor {
	return &wgpu.ShaderModuleDescriptor{
		Label: p.Key,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: p.Source,
		},
	}
}

// binding is the state tracked for one registered target.
type binding struct {
	target   Target
	key      string
	material string
}

// coordinator is the implementation of the Coordinator interface.
type coordinator struct {
	mu         sync.Mutex
	name       string
	template   string
	pp         PreProcessor
	targets    map[string]*binding
	programs   map[string]Program
	generation int
}

// Coordinator tracks shading targets and regenerates their shader permutations on request.
type Coordinator interface {
	// AttachEntity registers a target. Re-attaching a registered name replaces the target.
	// The target's program is generated on the next UpdateShaders call.
	//
	// Parameters:
	//   - target: the target to register
	AttachEntity(target Target)

	// DetachEntity deregisters a target. Unknown targets are ignored.
	//
	// Parameters:
	//   - target: the target to deregister
	DetachEntity(target Target)

	// UpdateShaders regenerates the permutation of every registered target and drops
	// programs no target uses any more. Each call advances the generation.
	//
	// Returns:
	//   - error: the first pre-processing error; targets after it keep their previous program
	UpdateShaders() error

	// Attached reports whether a target with the given name is registered.
	//
	// Parameters:
	//   - name: the target name
	//
	// Returns:
	//   - bool: true if registered
	Attached(name string) bool

	// Count retrieves the number of registered targets.
	//
	// Returns:
	//   - int: the target count
	Count() int

	// Generation retrieves the number of completed UpdateShaders calls.
	//
	// Returns:
	//   - int: the generation
	Generation() int

	// Program retrieves the program generated for a target.
	//
	// Parameters:
	//   - name: the target name
	//
	// Returns:
	//   - Program: the program
	//   - bool: false if the target is unknown or has not been generated yet
	Program(name string) (Program, bool)

	// Material retrieves the material name a target had at the last UpdateShaders call.
	//
	// Parameters:
	//   - name: the target name
	//
	// Returns:
	//   - string: the material name
	Material(name string) string

	// NumPrograms retrieves the number of distinct generated programs.
	//
	// Returns:
	//   - int: the program count
	NumPrograms() int
}

var _ Coordinator = &coordinator{}

// NewCoordinator creates a new Coordinator that generates permutations from VisualSource
// unless WithTemplate overrides it.
//
// Parameters:
//   - options: functional options for coordinator configuration
//
// Returns:
//   - Coordinator: the coordinator
func NewCoordinator(options ...CoordinatorBuilderOption) Coordinator {
	c := &coordinator{
		name:     "visual",
		template: VisualSource,
		pp:       NewPreProcessor(),
		targets:  make(map[string]*binding),
		programs: make(map[string]Program),
	}
	for _, option := range options {
		option(c)
	}
	return c
}

func (c *coordinator) AttachEntity(target Target) {
	if target == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.targets[target.Name()] = &binding{target: target}
}

func (c *coordinator) DetachEntity(target Target) {
	if target == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.targets, target.Name())
}

func (c *coordinator) UpdateShaders() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	names := make([]string, 0, len(c.targets))
	for name := range c.targets {
		names = append(names, name)
	}
	sort.Strings(names)

	var firstErr error
	used := make(map[string]bool)
	for _, name := range names {
		b := c.targets[name]
		defines := definesFor(b.target)
		key := c.permutationKey(defines)
		if _, ok := c.programs[key]; !ok {
			src, err := c.pp.Process(c.template, defines)
			if err != nil {
				logger.Log.Warn("shader generation failed", zap.String("target", name), zap.Error(err))
				if firstErr == nil {
					firstErr = fmt.Errorf("target %s: %w", name, err)
				}
				if b.key != "" {
					used[b.key] = true
				}
				continue
			}
			c.programs[key] = Program{Key: key, Defines: defines, Source: src}
		}
		b.key = key
		b.material = b.target.MaterialName()
		used[key] = true
	}

	for key := range c.programs {
		if !used[key] {
			delete(c.programs, key)
		}
	}
	c.generation++
	logger.Log.Debug("shaders updated",
		zap.Int("generation", c.generation),
		zap.Int("targets", len(names)),
		zap.Int("programs", len(c.programs)))
	return firstErr
}

func (c *coordinator) Attached(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.targets[name]
	return ok
}

func (c *coordinator) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.targets)
}

func (c *coordinator) Generation() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

func (c *coordinator) Program(name string) (Program, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.targets[name]
	if !ok || b.key == "" {
		return Program{}, false
	}
	p, ok := c.programs[b.key]
	return p, ok
}

func (c *coordinator) Material(name string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if b, ok := c.targets[name]; ok {
		return b.material
	}
	return ""
}

func (c *coordinator) NumPrograms() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.programs)
}

func definesFor(t Target) map[string]string {
	defines := map[string]string{}
	if t.NormalMap() != "" {
		defines[DefineNormalMap] = "true"
	}
	return defines
}

func (c *coordinator) permutationKey(defines map[string]string) string {
	names := make([]string, 0, len(defines))
	for name := range defines {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(append([]string{c.name}, names...), "|")
}
