package renderer

import "github.com/cogentcore/webgpu/wgpu"

// VertexSemantic identifies what a vertex element holds. The shader location of an
// element is derived from its semantic so every mesh binds attributes the same way.
type VertexSemantic int

const (
	SemanticPosition VertexSemantic = iota
	SemanticNormal
	SemanticTexCoord
)

// VertexElement is one attribute inside an interleaved vertex.
type VertexElement struct {
	// Source is the vertex buffer binding the element is read from.
	Source int

	// Offset is the byte offset of the element inside one vertex.
	Offset uint64

	// Format is the element's data type.
	Format wgpu.VertexFormat

	// Semantic is what the element holds.
	Semantic VertexSemantic

	// Index distinguishes repeated semantics, such as several texture coordinate sets.
	Index uint32
}

// ShaderLocation returns the attribute location the element binds to.
//
// Returns:
//   - uint32: 0 for positions, 1 for normals, 2+Index for texture coordinates
func (e VertexElement) ShaderLocation() uint32 {
	switch e.Semantic {
	case SemanticNormal:
		return 1
	case SemanticTexCoord:
		return 2 + e.Index
	default:
		return 0
	}
}

// VertexDeclaration is an ordered list of vertex elements.
type VertexDeclaration struct {
	elements []VertexElement
}

// NewVertexDeclaration creates an empty declaration.
//
// Returns:
//   - *VertexDeclaration: the declaration
func NewVertexDeclaration() *VertexDeclaration {
	return &VertexDeclaration{}
}

// AddElement appends an element and returns it.
//
// Parameters:
//   - source: the vertex buffer binding
//   - offset: the byte offset inside one vertex
//   - format: the element data type
//   - semantic: what the element holds
//   - index: the semantic index
//
// Returns:
//   - VertexElement: the appended element
func (d *VertexDeclaration) AddElement(source int, offset uint64, format wgpu.VertexFormat, semantic VertexSemantic, index uint32) VertexElement {
	e := VertexElement{Source: source, Offset: offset, Format: format, Semantic: semantic, Index: index}
	d.elements = append(d.elements, e)
	return e
}

// Elements returns a copy of the elements in declaration order.
//
// Returns:
//   - []VertexElement: the elements
func (d *VertexDeclaration) Elements() []VertexElement {
	out := make([]VertexElement, len(d.elements))
	copy(out, d.elements)
	return out
}

// FindElement returns the first element with the given semantic.
//
// Parameters:
//   - semantic: the semantic to find
//
// Returns:
//   - VertexElement: the element
//   - bool: false if none is declared
func (d *VertexDeclaration) FindElement(semantic VertexSemantic) (VertexElement, bool) {
	for _, e := range d.elements {
		if e.Semantic == semantic {
			return e, true
		}
	}
	return VertexElement{}, false
}

// VertexSize returns the stride of one vertex read from source.
//
// Parameters:
//   - source: the vertex buffer binding
//
// Returns:
//   - uint64: the stride in bytes
func (d *VertexDeclaration) VertexSize(source int) uint64 {
	var size uint64
	for _, e := range d.elements {
		if e.Source == source {
			size = max(size, e.Offset+FormatSize(e.Format))
		}
	}
	return size
}

// Layout converts the elements of source into a wgpu vertex buffer layout.
//
// Parameters:
//   - source: the vertex buffer binding
//
// Returns:
//   - wgpu.VertexBufferLayout: the layout
func (d *VertexDeclaration) Layout(source int) wgpu.VertexBufferLayout {
	var attrs []wgpu.VertexAttribute
	for _, e := range d.elements {
		if e.Source != source {
			continue
		}
		attrs = append(attrs, wgpu.VertexAttribute{
			Format:         e.Format,
			Offset:         e.Offset,
			ShaderLocation: e.ShaderLocation(),
		})
	}
	return wgpu.VertexBufferLayout{
		ArrayStride: d.VertexSize(source),
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes:  attrs,
	}
}

// FormatSize returns the byte size of a vertex format, or 0 for formats the engine does not emit.
//
// Parameters:
//   - f: the vertex format
//
// Returns:
//   - uint64: the size in bytes
func FormatSize(f wgpu.VertexFormat) uint64 {
	switch f {
	case wgpu.VertexFormatFloat32:
		return 4
	case wgpu.VertexFormatFloat32x2:
		return 8
	case wgpu.VertexFormatFloat32x3:
		return 12
	case wgpu.VertexFormatFloat32x4:
		return 16
	case wgpu.VertexFormatUint32:
		return 4
	default:
		return 0
	}
}
