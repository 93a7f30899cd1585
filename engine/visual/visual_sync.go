package visual

import (
	"github.com/Carmen-Shannon/oxy-visual/common"
	"github.com/Carmen-Shannon/oxy-visual/engine/descriptor"
	"github.com/Carmen-Shannon/oxy-visual/engine/renderer"
	"github.com/Carmen-Shannon/oxy-visual/internal/logger"
	"go.uber.org/zap"
)

// geometryEntityPrefix names the entity that renders a visual's descriptor geometry.
const geometryEntityPrefix = "VISUAL_"

func (v *visual) Load() error {
	if !v.ready() {
		logger.Log.Error("cannot load visual", zap.String("visual", v.name), zap.Error(ErrNoBackendNode))
		return ErrNoBackendNode
	}
	pose := common.IdentityPose()
	if v.desc.Pose != nil {
		pose = *v.desc.Pose
	}

	if meshName := v.desc.MeshName(); meshName != "" {
		created, err := v.bindGeometry(meshName)
		if err != nil {
			logger.Log.Warn("failed to load visual geometry",
				zap.String("visual", v.name),
				zap.String("mesh", meshName),
				zap.Error(err))
			return err
		}
		if created {
			v.materialName = ""
		}
	}

	v.SetPose(pose)
	v.scale = v.desc.Geometry.Scale()
	v.backend().SetScale(v.node, v.scale)

	if script := v.desc.MaterialScript(); script != "" {
		v.SetMaterial(script)
	} else if color, ok := v.desc.MaterialColor(); ok {
		v.SetColor(color)
	}

	cast := v.ctx.CastShadowsDefault()
	if v.desc.CastShadows != nil {
		cast = *v.desc.CastShadows
	}
	v.applyCastShadows(cast)

	if v.desc.Visible != nil {
		v.SetVisible(*v.desc.Visible, true)
	}
	if v.desc.Transparency != nil {
		v.SetTransparency(*v.desc.Transparency)
	}
	if v.emissive != nil {
		v.SetEmissive(*v.emissive)
	}
	if v.desc.Static && !v.isStatic {
		v.MakeStatic()
	}
	v.loaded = true
	return nil
}

// bindGeometry makes sure the geometry entity instantiates meshName and is bound to the node.
// It reports whether a new entity was created.
func (v *visual) bindGeometry(meshName string) (bool, error) {
	if _, err := v.meshResource(meshName); err != nil {
		return false, err
	}
	b := v.backend()
	name := geometryEntityPrefix + v.name
	e, ok := b.Entity(name)
	if ok && e.MeshName() != meshName {
		b.DestroyObject(e)
		ok = false
	}
	created := false
	if !ok {
		var err error
		if e, err = b.CreateEntity(name, meshName); err != nil {
			return false, err
		}
		created = true
	}
	if node, attached := e.ParentNode(); !attached || node != v.node {
		if attached {
			b.DetachObject(node, e)
		}
		if err := v.AttachObject(e); err != nil {
			return created, err
		}
	}
	return created, nil
}

func (v *visual) LoadFromMessage(msg *descriptor.Message) error {
	if msg == nil {
		return nil
	}
	ch := v.desc.Merge(&descriptor.Message{
		Geometry:       msg.Geometry,
		MaterialScript: msg.MaterialScript,
		MaterialColor:  msg.MaterialColor,
		NormalMap:      msg.NormalMap,
		CastShadows:    msg.CastShadows,
	})

	if ch.Geometry || !v.loaded {
		if err := v.Load(); err != nil {
			return err
		}
	} else {
		if msg.MaterialColor != nil {
			v.SetColor(*msg.MaterialColor)
		}
		if msg.NormalMap != nil {
			v.SetNormalMap(*msg.NormalMap)
		}
		if msg.CastShadows != nil {
			v.SetCastShadows(*msg.CastShadows)
		}
	}
	v.UpdateFromMessage(msg)
	return nil
}

func (v *visual) LoadDescriptor(desc *descriptor.Descriptor) error {
	if desc == nil {
		return nil
	}
	if err := desc.Validate(); err != nil {
		logger.Log.Warn("invalid descriptor", zap.String("visual", v.name), zap.Error(err))
		return err
	}
	v.desc = desc.Clone()
	v.desc.Name = v.name
	v.isStatic = false
	return v.Load()
}

func (v *visual) UpdateFromMessage(msg *descriptor.Message) {
	if msg == nil {
		return
	}
	if msg.IsStatic != nil && *msg.IsStatic {
		v.MakeStatic()
	}
	if msg.Pose != nil {
		v.SetWorldPose(*msg.Pose)
	}
	if msg.Scale != nil {
		v.SetScale(*msg.Scale)
	}
	if msg.Visible != nil {
		v.SetVisible(*msg.Visible, true)
	}
	if msg.Transparency != nil {
		v.SetTransparency(*msg.Transparency)
	}
	if msg.MaterialScript != nil {
		v.SetMaterial(*msg.MaterialScript)
	}
}

func (v *visual) MakeStatic() {
	v.isStatic = true
	v.desc.Static = true
	cast := v.ctx != nil && v.ctx.CastShadowsDefault()
	if v.desc.CastShadows != nil {
		cast = *v.desc.CastShadows
	}
	v.buildStatic(cast)
}

// buildStatic bakes the subtree when the backend can; other backends render it dynamically.
func (v *visual) buildStatic(cast bool) {
	if !v.ready() {
		return
	}
	sg, ok := v.backend().(renderer.StaticGeometryBuilder)
	if !ok {
		logger.Log.Debug("backend has no static geometry support", zap.String("visual", v.name))
		return
	}
	if err := sg.BuildStaticGeometry(v.name+"_Static", v.node, cast); err != nil {
		logger.Log.Warn("failed to build static geometry", zap.String("visual", v.name), zap.Error(err))
	}
}
