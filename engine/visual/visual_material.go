package visual

import (
	"strings"

	"github.com/Carmen-Shannon/oxy-visual/common"
	"github.com/Carmen-Shannon/oxy-visual/engine/renderer"
	"github.com/Carmen-Shannon/oxy-visual/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-visual/internal/logger"
	"go.uber.org/zap"
)

// Base materials of the helper geometry, registered on first use.
const (
	MaterialRed   = "Oxy/Red"
	MaterialGreen = "Oxy/Green"
	MaterialBlue  = "Oxy/Blue"
)

var helperColors = map[string]common.Color{
	MaterialRed:   common.ColorRed,
	MaterialGreen: common.ColorGreen,
	MaterialBlue:  common.ColorBlue,
}

func (v *visual) SetMaterial(name string) {
	if name == "" {
		return
	}
	if !v.ready() {
		m := v.desc.EnsureMaterial()
		m.Script = name
		m.Color = nil
		return
	}
	if v.materialName == v.ctx.Instancer().InstanceKey(v.name, name) {
		return
	}
	if err := v.applyMaterial(name); err != nil {
		logger.Log.Warn("unable to set material, keeping the previous one",
			zap.String("visual", v.name),
			zap.String("material", name),
			zap.Error(err))
		return
	}
	m := v.desc.EnsureMaterial()
	m.Script = name
	m.Color = nil
}

// applyMaterial binds the node's instance of base to every renderable and carries the
// current transparency, emissive color and normal map over to it.
func (v *visual) applyMaterial(base string) error {
	in := v.ctx.Instancer()
	inst, err := in.Instance(v.name, base)
	if err != nil {
		return err
	}
	v.materialName = inst.Name()

	b := v.backend()
	for i := 0; i < b.NumAttached(v.node); i++ {
		b.Attached(v.node, i).SetMaterialName(inst.Name())
	}
	if v.transparency > 0 {
		in.ApplyTransparency(inst, v.transparency)
	}
	if v.emissive != nil {
		in.ApplyEmissive(inst, *v.emissive)
	}
	if nm := v.desc.NormalMap(); nm != "" {
		inst.SetNormalMap(nm)
	}
	v.updateShaders()
	return nil
}

func (v *visual) MaterialName() string {
	return v.materialName
}

func (v *visual) SetColor(color common.Color) {
	m := v.desc.EnsureMaterial()
	m.Color = &color
	m.Script = ""
	if !v.ready() {
		return
	}
	if v.materialName == "" {
		if err := v.applyMaterial(renderer.DefaultMaterialName); err != nil {
			logger.Log.Warn("unable to instance a material for color", zap.String("visual", v.name), zap.Error(err))
			return
		}
	}
	if inst, ok := v.backend().Materials().Get(v.materialName); ok {
		v.ctx.Instancer().ApplyDiffuse(inst, color)
	}
}

func (v *visual) SetTransparency(t float32) {
	t = common.Clamp01(t)
	v.transparency = t
	v.desc.Transparency = &t
	if v.ctx == nil {
		return
	}
	v.forEachInstance(func(m material.Material) {
		v.ctx.Instancer().ApplyTransparency(m, t)
	})
}

func (v *visual) Transparency() float32 {
	return v.transparency
}

func (v *visual) SetEmissive(color common.Color) {
	v.emissive = &color
	if v.ctx == nil {
		return
	}
	v.forEachInstance(func(m material.Material) {
		v.ctx.Instancer().ApplyEmissive(m, color)
	})
}

// forEachInstance visits each per-node material instance of the renderables that carry
// per-pass materials once. A sub-part still rendering with a shared base material is
// switched to the node's instance of it first.
func (v *visual) forEachInstance(fn func(material.Material)) {
	if !v.ready() {
		return
	}
	b := v.backend()
	in := v.ctx.Instancer()
	prefix := in.InstanceKey(v.name, "")
	seen := make(map[string]bool)
	for i := 0; i < b.NumAttached(v.node); i++ {
		carrier, ok := b.Attached(v.node, i).(renderer.MaterialCarrier)
		if !ok {
			continue
		}
		for j := 0; j < carrier.NumSubMaterials(); j++ {
			name := carrier.SubMaterialName(j)
			if !strings.HasPrefix(name, prefix) {
				inst, err := in.Instance(v.name, name)
				if err != nil {
					logger.Log.Warn("unable to instance sub-material",
						zap.String("visual", v.name),
						zap.String("material", name),
						zap.Error(err))
					continue
				}
				name = inst.Name()
				carrier.SetSubMaterialName(j, name)
			}
			if seen[name] {
				continue
			}
			seen[name] = true
			if m, ok := b.Materials().Get(name); ok {
				fn(m)
			}
		}
	}
}

func (v *visual) SetCastShadows(cast bool) {
	v.desc.CastShadows = &cast
	v.applyCastShadows(cast)
}

func (v *visual) applyCastShadows(cast bool) {
	if !v.ready() {
		return
	}
	b := v.backend()
	for i := 0; i < b.NumAttached(v.node); i++ {
		b.Attached(v.node, i).SetCastShadows(cast)
	}
	if v.isStatic {
		v.buildStatic(cast)
	}
}

func (v *visual) SetNormalMap(name string) {
	v.desc.EnsureMaterial().NormalMap = name
	if !v.ready() {
		return
	}
	if inst, ok := v.backend().Materials().Get(v.materialName); ok {
		inst.SetNormalMap(name)
	}
	v.updateShaders()
}

func (v *visual) NormalMap() string {
	return v.desc.NormalMap()
}

func (v *visual) updateShaders() {
	if err := v.ctx.Shaders().UpdateShaders(); err != nil {
		logger.Log.Warn("shader update failed", zap.String("visual", v.name), zap.Error(err))
	}
}

// ensureHelperMaterial registers one of the helper colors as a base material if missing.
func (v *visual) ensureHelperMaterial(name string) {
	reg := v.backend().Materials()
	if reg.Has(name) {
		return
	}
	if err := reg.Register(material.NewMaterial(name, material.WithDiffuse(helperColors[name]))); err != nil && !reg.Has(name) {
		logger.Log.Warn("failed to register helper material", zap.String("material", name), zap.Error(err))
	}
}
