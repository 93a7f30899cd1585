// pre_processor.go implements the permutation pre-processor. It scans WGSL source for
// @oxy: annotations and resolves them against a define set:
//   - // @oxy:defines is replaced with one `const` declaration per define.
//   - // @oxy:if NAME ... // @oxy:endif keeps the enclosed lines only when NAME is defined.
//
// Blocks nest. Lines without annotations pass through unchanged.
package shader

import (
	"fmt"
	"sort"
	"strings"
)

const (
	annotationPrefix  = "// @oxy:"
	annotationDefines = "defines"
	annotationIf      = "if"
	annotationEndIf   = "endif"
)

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct{}

// PreProcessor resolves @oxy: annotations in WGSL source against a permutation's defines.
type PreProcessor interface {
	// Process resolves every annotation in source.
	//
	// Parameters:
	//   - source: the WGSL template
	//   - defines: the defines of the permutation; names map to their WGSL constant value
	//
	// Returns:
	//   - string: the processed source
	//   - error: error on an unknown annotation or unbalanced if/endif
	Process(source string, defines map[string]string) (string, error)
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a new PreProcessor.
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor instance
func NewPreProcessor() PreProcessor {
	return &preProcessor{}
}

func (p *preProcessor) Process(source string, defines map[string]string) (string, error) {
	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))

	// each entry records whether the enclosing block is emitted
	var stack []bool
	emitting := func() bool {
		for _, keep := range stack {
			if !keep {
				return false
			}
		}
		return true
	}

	for i, line := range lines {
		body, ok := strings.CutPrefix(strings.TrimSpace(line), annotationPrefix)
		if !ok {
			if emitting() {
				out = append(out, line)
			}
			continue
		}

		fields := strings.Fields(body)
		if len(fields) == 0 {
			return "", fmt.Errorf("line %d: empty annotation", i+1)
		}
		switch fields[0] {
		case annotationDefines:
			if emitting() {
				out = append(out, defineDeclarations(defines)...)
			}
		case annotationIf:
			if len(fields) != 2 {
				return "", fmt.Errorf("line %d: @oxy:if takes exactly one name", i+1)
			}
			_, defined := defines[fields[1]]
			stack = append(stack, defined)
		case annotationEndIf:
			if len(stack) == 0 {
				return "", fmt.Errorf("line %d: @oxy:endif without @oxy:if", i+1)
			}
			stack = stack[:len(stack)-1]
		default:
			return "", fmt.Errorf("line %d: unknown annotation %q", i+1, fields[0])
		}
	}
	if len(stack) > 0 {
		return "", fmt.Errorf("%d unterminated @oxy:if block(s)", len(stack))
	}
	return strings.Join(out, "\n"), nil
}

// defineDeclarations emits the defines in name order so equal permutations produce equal source.
func defineDeclarations(defines map[string]string) []string {
	names := make([]string, 0, len(defines))
	for name := range defines {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]string, 0, len(names))
	for _, name := range names {
		value := defines[name]
		if value == "" {
			value = "true"
		}
		out = append(out, fmt.Sprintf("const %s = %s;", name, value))
	}
	return out
}
