package descriptor

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-visual/common"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeometryUnion(t *testing.T) {
	var g Geometry
	assert.Equal(t, KindNone, g.Kind())
	assert.Equal(t, "", g.MeshName())
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, g.Scale())

	g.SetBox(mgl32.Vec3{1, 2, 3})
	assert.Equal(t, KindBox, g.Kind())
	g.SetSphere(2)
	assert.Equal(t, KindSphere, g.Kind())
	assert.Nil(t, g.Box)
	g.SetMesh("robot.glb", mgl32.Vec3{1, 1, 1})
	assert.Nil(t, g.Sphere)
	assert.Equal(t, "robot.glb", g.MeshName())
	require.NoError(t, g.Validate())

	g.Box = &Box{}
	assert.ErrorIs(t, g.Validate(), ErrMultipleGeometries)
	g.Clear()
	assert.Equal(t, KindNone, g.Kind())
}

func TestGeometryScale(t *testing.T) {
	v := mgl32.Vec3{1, 2, 3}
	tests := []struct {
		name string
		set  func(*Geometry)
		want mgl32.Vec3
		mesh string
	}{
		{"box", func(g *Geometry) { g.SetBox(mgl32.Vec3{1, 1, 1}) }, v, MeshUnitBox},
		{"sphere", func(g *Geometry) { g.SetSphere(1) }, mgl32.Vec3{1, 1, 1}, MeshUnitSphere},
		{"cylinder", func(g *Geometry) { g.SetCylinder(1, 1) }, mgl32.Vec3{1, 1, 3}, MeshUnitCylinder},
		{"plane", func(g *Geometry) { g.SetPlane(mgl32.Vec3{0, 0, 1}) }, mgl32.Vec3{1, 1, 1}, MeshUnitPlane},
		{"mesh", func(g *Geometry) { g.SetMesh("m.glb", mgl32.Vec3{1, 1, 1}) }, v, "m.glb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var g Geometry
			tt.set(&g)
			g.SetScale(v)
			assert.Equal(t, tt.want, g.Scale())
			assert.Equal(t, tt.mesh, g.MeshName())
		})
	}
}

func TestMergePartial(t *testing.T) {
	d := New("v")
	d.Merge(&Message{
		Geometry:       &Geometry{Box: &Box{Size: mgl32.Vec3{1, 1, 1}}},
		MaterialScript: Ptr("Oxy/Red"),
		Visible:        Ptr(false),
		Scale:          &mgl32.Vec3{2, 2, 2},
	})

	pose := common.NewPose(mgl32.Vec3{1, 2, 3}, mgl32.QuatIdent())
	ch := d.Merge(&Message{Pose: &pose})
	assert.Equal(t, Changes{}, ch)
	assert.Equal(t, pose, *d.Pose)
	assert.Equal(t, "Oxy/Red", d.MaterialScript())
	assert.Equal(t, mgl32.Vec3{2, 2, 2}, d.Geometry.Scale())
	assert.False(t, *d.Visible)
}

func TestMergeMaterialExclusive(t *testing.T) {
	d := New("v")
	ch := d.Merge(&Message{MaterialScript: Ptr("Oxy/Red")})
	assert.True(t, ch.Material)

	ch = d.Merge(&Message{MaterialScript: Ptr("Oxy/Red")})
	assert.False(t, ch.Material)

	d.Merge(&Message{MaterialColor: &common.ColorBlue})
	c, ok := d.MaterialColor()
	require.True(t, ok)
	assert.Equal(t, common.ColorBlue, c)
	assert.Equal(t, "", d.MaterialScript())

	d.Merge(&Message{MaterialScript: Ptr("Oxy/Green"), NormalMap: Ptr("bumps.png")})
	_, ok = d.MaterialColor()
	assert.False(t, ok)
	assert.Equal(t, "bumps.png", d.NormalMap())
}

func TestMergeGeometryCopies(t *testing.T) {
	geom := &Geometry{Sphere: &Sphere{Radius: 1}}
	d := New("v")
	ch := d.Merge(&Message{Geometry: geom, Transparency: Ptr[float32](3)})
	assert.True(t, ch.Geometry)
	assert.Equal(t, float32(1), *d.Transparency)

	geom.Sphere.Radius = 9
	assert.Equal(t, float32(1), d.Geometry.Sphere.Radius)
}

func TestCloneIsDeep(t *testing.T) {
	d := New("v")
	d.Geometry.SetBox(mgl32.Vec3{1, 1, 1})
	d.Merge(&Message{MaterialColor: &common.ColorRed, CastShadows: Ptr(true)})

	c := d.Clone()
	c.Geometry.Box.Size = mgl32.Vec3{5, 5, 5}
	c.Material.Color.R = 0
	*c.CastShadows = false

	assert.Equal(t, mgl32.Vec3{1, 1, 1}, d.Geometry.Box.Size)
	assert.Equal(t, float32(1), d.Material.Color.R)
	assert.True(t, *d.CastShadows)
}

func TestYAMLRoundTrip(t *testing.T) {
	pose := common.NewPose(mgl32.Vec3{1, 2, 3}, mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 0, 1}))
	d := New("crate")
	d.Geometry.SetCylinder(0.5, 2)
	d.Pose = &pose
	d.Material = &Material{Script: "Oxy/Red", NormalMap: "n.png"}
	d.Transparency = Ptr[float32](0.25)

	data, err := Marshal(d)
	require.NoError(t, err)
	got, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, d, got)

	doc, err := MarshalDocument([]*Descriptor{d, New("empty")})
	require.NoError(t, err)
	all, err := UnmarshalDocument(doc)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, KindNone, all[1].Geometry.Kind())
}

func TestUnmarshalRejects(t *testing.T) {
	_, err := Unmarshal([]byte("name: a\ngeometry:\n  box: {size: [1, 1, 1]}\n  sphere: {radius: 1}\n"))
	assert.ErrorIs(t, err, ErrMultipleGeometries)

	_, err = Unmarshal([]byte("name: a\nmaterial:\n  script: X\n  color: {r: 1, g: 0, b: 0, a: 1}\n"))
	assert.ErrorIs(t, err, ErrMaterialConflict)

	_, err = Unmarshal([]byte("name: a\ncolour: red\n"))
	assert.Error(t, err)
}

func TestUnmarshalMessages(t *testing.T) {
	stream := []byte(`name: a
geometry:
  box: {size: [1, 2, 3]}
---
name: a
visible: false
---
name: b
delete: true
`)
	msgs, err := UnmarshalMessages(stream)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, KindBox, msgs[0].Geometry.Kind())
	assert.False(t, *msgs[1].Visible)
	assert.Nil(t, msgs[1].Geometry)
	assert.True(t, msgs[2].Delete)

	_, err = UnmarshalMessages([]byte("name: a\nmaterial_script: X\nmaterial_color: {r: 1}\n"))
	assert.ErrorIs(t, err, ErrMaterialConflict)
}

func TestMeshScaleDefaultsToUnit(t *testing.T) {
	msgs, err := UnmarshalMessages([]byte("name: duck\ngeometry:\n  mesh: {filename: duck.glb}\n"))
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, msgs[0].Geometry.Scale())

	d, err := Unmarshal([]byte("name: duck\ngeometry:\n  mesh: {filename: duck.glb, scale: [2, 3, 4]}\n"))
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec3{2, 3, 4}, d.Geometry.Scale())

	_, err = Unmarshal([]byte("name: duck\ngeometry:\n  mesh: {filename: duck.glb, size: [1, 1, 1]}\n"))
	assert.Error(t, err)
}

func TestToMessageRecreates(t *testing.T) {
	d := New("v")
	d.Geometry.SetMesh("m.glb", mgl32.Vec3{2, 2, 2})
	d.Material = &Material{Color: &common.ColorGreen}
	d.Visible = Ptr(false)
	d.Static = true

	got := New("v")
	got.Merge(d.ToMessage())
	assert.Equal(t, d, got)
}
