package descriptor

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

// Document is a YAML document holding several descriptors, as written by scene snapshots.
type Document struct {
	Visuals []*Descriptor `yaml:"visuals"`
}

// Marshal encodes a descriptor as YAML.
//
// Parameters:
//   - d: the descriptor
//
// Returns:
//   - []byte: the YAML document
//   - error: error if encoding fails
func Marshal(d *Descriptor) ([]byte, error) {
	return encode(d)
}

// Unmarshal decodes and validates a YAML descriptor. Unknown keys are rejected.
//
// Parameters:
//   - data: the YAML document
//
// Returns:
//   - *Descriptor: the descriptor
//   - error: a decode error, ErrMultipleGeometries or ErrMaterialConflict
func Unmarshal(data []byte) (*Descriptor, error) {
	d := &Descriptor{}
	if err := decode(data, d); err != nil {
		return nil, err
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// MarshalDocument encodes several descriptors as one YAML document.
//
// Parameters:
//   - descriptors: the descriptors in order
//
// Returns:
//   - []byte: the YAML document
//   - error: error if encoding fails
func MarshalDocument(descriptors []*Descriptor) ([]byte, error) {
	return encode(&Document{Visuals: descriptors})
}

// UnmarshalDocument decodes and validates a multi-descriptor YAML document.
//
// Parameters:
//   - data: the YAML document
//
// Returns:
//   - []*Descriptor: the descriptors in order
//   - error: the first decode or validation error
func UnmarshalDocument(data []byte) ([]*Descriptor, error) {
	doc := &Document{}
	if err := decode(data, doc); err != nil {
		return nil, err
	}
	for _, d := range doc.Visuals {
		if err := d.Validate(); err != nil {
			return nil, err
		}
	}
	return doc.Visuals, nil
}

// UnmarshalMessages decodes a YAML stream of messages, one document per message.
//
// Parameters:
//   - data: the YAML stream
//
// Returns:
//   - []*Message: the messages in stream order
//   - error: the first decode or validation error
func UnmarshalMessages(data []byte) ([]*Message, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var msgs []*Message
	for {
		msg := &Message{}
		err := dec.Decode(msg)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to decode message %d: %w", len(msgs), err)
		}
		if err := msg.Geometry.Validate(); err != nil {
			return nil, fmt.Errorf("message %s: %w", msg.Name, err)
		}
		if msg.MaterialScript != nil && msg.MaterialColor != nil {
			return nil, fmt.Errorf("message %s: %w", msg.Name, ErrMaterialConflict)
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

// UnmarshalYAML decodes a mesh geometry, defaulting an absent scale to (1,1,1).
func (m *Mesh) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(node.Content); i += 2 {
			switch key := node.Content[i]; key.Value {
			case "filename", "scale":
			default:
				return fmt.Errorf("line %d: field %s not found in type descriptor.Mesh", key.Line, key.Value)
			}
		}
	}
	type plain Mesh
	out := plain{Scale: mgl32.Vec3{1, 1, 1}}
	if err := node.Decode(&out); err != nil {
		return err
	}
	*m = Mesh(out)
	return nil
}

func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("failed to encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decode(data []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("failed to decode: %w", err)
	}
	return nil
}
