package descriptor

import (
	"github.com/Carmen-Shannon/oxy-visual/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Message is a partial update of a visual. Nil fields leave the current state untouched.
type Message struct {
	// Name is the target visual. Scenes create the visual on first sight.
	Name string `yaml:"name"`

	// Parent names the visual a newly created visual is attached under; empty means the scene root.
	Parent string `yaml:"parent,omitempty"`

	// Delete destroys the named visual; every other field is ignored.
	Delete bool `yaml:"delete,omitempty"`

	Geometry       *Geometry     `yaml:"geometry,omitempty"`
	Pose           *common.Pose  `yaml:"pose,omitempty"`
	MaterialScript *string       `yaml:"material_script,omitempty"`
	MaterialColor  *common.Color `yaml:"material_color,omitempty"`
	NormalMap      *string       `yaml:"normal_map,omitempty"`
	CastShadows    *bool         `yaml:"cast_shadows,omitempty"`
	Scale          *mgl32.Vec3   `yaml:"scale,omitempty"`
	Visible        *bool         `yaml:"visible,omitempty"`
	Transparency   *float32      `yaml:"transparency,omitempty"`
	IsStatic       *bool         `yaml:"is_static,omitempty"`
}

// Changes reports which parts of a descriptor a Merge touched.
type Changes struct {
	Geometry bool
	Material bool
	Scale    bool
}

// Merge applies the present fields of msg onto the descriptor. A geometry replaces the
// previous variant. A material script clears the color and a color clears the script.
// Scale is written into the geometry parameters after any geometry replacement, and
// transparency is clamped to [0,1].
//
// Parameters:
//   - msg: the update
//
// Returns:
//   - Changes: the parts that changed
func (d *Descriptor) Merge(msg *Message) Changes {
	var ch Changes
	if msg == nil {
		return ch
	}
	if msg.Geometry != nil {
		d.Geometry = msg.Geometry.clone()
		ch.Geometry = true
	}
	if msg.Pose != nil {
		p := *msg.Pose
		d.Pose = &p
	}
	if msg.MaterialScript != nil {
		m := d.EnsureMaterial()
		if m.Script != *msg.MaterialScript {
			ch.Material = true
		}
		m.Script = *msg.MaterialScript
		m.Color = nil
	}
	if msg.MaterialColor != nil {
		m := d.EnsureMaterial()
		c := *msg.MaterialColor
		m.Color = &c
		m.Script = ""
		ch.Material = true
	}
	if msg.NormalMap != nil {
		d.EnsureMaterial().NormalMap = *msg.NormalMap
	}
	if msg.CastShadows != nil {
		d.CastShadows = Ptr(*msg.CastShadows)
	}
	if msg.Scale != nil {
		d.Geometry.SetScale(*msg.Scale)
		ch.Scale = true
	}
	if msg.Visible != nil {
		d.Visible = Ptr(*msg.Visible)
	}
	if msg.Transparency != nil {
		d.Transparency = Ptr(common.Clamp01(*msg.Transparency))
	}
	if msg.IsStatic != nil && *msg.IsStatic {
		d.Static = true
	}
	return ch
}

// ToMessage expresses the whole descriptor as a message that recreates it.
//
// Returns:
//   - *Message: the message
func (d *Descriptor) ToMessage() *Message {
	c := d.Clone()
	msg := &Message{
		Name:         c.Name,
		Pose:         c.Pose,
		CastShadows:  c.CastShadows,
		Visible:      c.Visible,
		Transparency: c.Transparency,
	}
	if c.Geometry.Kind() != KindNone {
		msg.Geometry = &c.Geometry
	}
	if c.Material != nil {
		if c.Material.Script != "" {
			msg.MaterialScript = Ptr(c.Material.Script)
		}
		msg.MaterialColor = c.Material.Color
		if c.Material.NormalMap != "" {
			msg.NormalMap = Ptr(c.Material.NormalMap)
		}
	}
	if c.Static {
		msg.IsStatic = Ptr(true)
	}
	return msg
}
