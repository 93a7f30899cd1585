package visual

import (
	"fmt"
	"math"

	"github.com/Carmen-Shannon/oxy-visual/engine/loader"
	"github.com/Carmen-Shannon/oxy-visual/engine/renderer"
	"github.com/Carmen-Shannon/oxy-visual/internal/logger"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// Ribbon trail defaults.
const (
	ribbonTrailLength   float32 = 200
	ribbonMaxElements           = 1000
	ribbonInitialWidth  float32 = 0.05
	ribbonChains                = 1
	axesNodeSuffix              = "_AXES_NODE"
	axisCylinderOffset  float32 = 0.25
)

func (v *visual) Update() {
	if !v.visible {
		return
	}
	for _, l := range v.lines {
		l.Update()
	}
}

func (v *visual) CreateDynamicLine(op renderer.RenderOp) (renderer.DynamicLines, error) {
	if !v.ready() {
		return nil, ErrNoBackendNode
	}
	if !v.connected {
		v.preRender = v.ctx.Bus().ConnectPreRender(v.Update)
		v.connected = true
	}
	name := fmt.Sprintf("%s_LINE_%d", v.name, v.lineCount)
	v.lineCount++
	l, err := v.backend().CreateDynamicLines(name, op)
	if err != nil {
		return nil, err
	}
	if err := v.AttachObject(l); err != nil {
		v.backend().DestroyObject(l)
		return nil, err
	}
	v.lines = append(v.lines, l)
	return l, nil
}

func (v *visual) DeleteDynamicLine(line renderer.DynamicLines) {
	i := -1
	for k, l := range v.lines {
		if l == line {
			i = k
			break
		}
	}
	if i < 0 {
		return
	}
	v.lines = append(v.lines[:i], v.lines[i+1:]...)
	kept := v.lineVertices[:0]
	for _, lv := range v.lineVertices {
		if lv.line != line {
			kept = append(kept, lv)
		}
	}
	v.lineVertices = kept
	if v.ready() {
		v.backend().DestroyObject(line)
	}
}

func (v *visual) AttachLineVertex(line renderer.DynamicLines, index int) {
	if line == nil {
		return
	}
	v.lineVertices = append(v.lineVertices, lineVertex{line: line, index: index})
	line.SetPoint(index, v.WorldPose().Position)
}

func (v *visual) updateLineVertices() {
	if len(v.lineVertices) == 0 {
		return
	}
	pos := v.WorldPose().Position
	for _, lv := range v.lineVertices {
		lv.line.SetPoint(lv.index, pos)
		lv.line.Update()
	}
}

func (v *visual) SetRibbonTrail(enabled bool) {
	if !v.ready() {
		return
	}
	b := v.backend()
	if v.ribbon == nil {
		trail, err := b.CreateRibbonTrail(v.name + "_RIBBON_TRAIL")
		if err != nil {
			logger.Log.Warn("failed to create ribbon trail", zap.String("visual", v.name), zap.Error(err))
			return
		}
		v.ensureHelperMaterial(MaterialRed)
		trail.SetMaterialName(MaterialRed)
		trail.SetTrailLength(ribbonTrailLength)
		trail.SetMaxChainElements(ribbonMaxElements)
		trail.SetNumberOfChains(ribbonChains)
		trail.SetVisible(false)
		trail.SetInitialWidth(0, ribbonInitialWidth)
		if err := b.AttachObject(v.node, trail); err != nil {
			logger.Log.Warn("failed to attach ribbon trail", zap.String("visual", v.name), zap.Error(err))
			b.DestroyObject(trail)
			return
		}
		v.ribbon = trail
	}

	if enabled {
		if err := v.ribbon.AddNode(v.node); err != nil {
			logger.Log.Debug("ribbon trail already follows visual", zap.String("visual", v.name), zap.Error(err))
		}
	} else {
		v.ribbon.RemoveNode(v.node)
		v.ribbon.ClearChain(0)
	}
	v.ribbon.SetVisible(enabled)
}

// axisSpec places one axis cylinder: the unit cylinder runs along Z.
type axisSpec struct {
	suffix   string
	entity   string
	offset   mgl32.Vec3
	rotation mgl32.Quat
	material string
}

func axisSpecs() []axisSpec {
	half := float32(math.Pi / 2)
	return []axisSpec{
		{"_axisX", "X_AXIS", mgl32.Vec3{axisCylinderOffset, 0, 0}, mgl32.QuatRotate(half, mgl32.Vec3{0, 1, 0}), MaterialRed},
		{"_axisY", "Y_AXIS", mgl32.Vec3{0, axisCylinderOffset, 0}, mgl32.QuatRotate(-half, mgl32.Vec3{1, 0, 0}), MaterialGreen},
		{"_axisZ", "Z_AXIS", mgl32.Vec3{0, 0, axisCylinderOffset}, mgl32.QuatIdent(), MaterialBlue},
	}
}

func (v *visual) AttachAxes() error {
	if !v.ready() {
		return ErrNoBackendNode
	}
	b := v.backend()
	axesName := v.name + axesNodeSuffix
	if b.HasNode(axesName) {
		return nil
	}
	if _, err := v.meshResource(loader.MeshAxisCylinder); err != nil {
		return err
	}
	axes, err := b.CreateNode(axesName, v.node)
	if err != nil {
		return err
	}
	for _, spec := range axisSpecs() {
		node, err := b.CreateNode(axesName+spec.suffix, axes)
		if err != nil {
			return err
		}
		b.SetPosition(node, spec.offset)
		b.SetOrientation(node, spec.rotation)

		e, err := b.CreateEntity(axesName+spec.entity, loader.MeshAxisCylinder)
		if err != nil {
			return err
		}
		v.ensureHelperMaterial(spec.material)
		e.SetMaterialName(spec.material)
		e.SetCastShadows(false)
		if err := b.AttachObject(node, e); err != nil {
			return err
		}
		e.SetTag(v.name)
	}
	return nil
}

// destroyAxes releases the axis helper nodes and entities, if any.
func (v *visual) destroyAxes() {
	b := v.backend()
	axes := renderer.NodeHandle(v.name + axesNodeSuffix)
	if !b.HasNode(string(axes)) {
		return
	}
	for _, child := range b.ChildNodes(axes) {
		for i := b.NumAttached(child) - 1; i >= 0; i-- {
			if obj := b.Attached(child, i); obj != nil {
				b.DestroyObject(obj)
			}
		}
		_ = b.DestroyNode(child)
	}
	_ = b.DestroyNode(axes)
}
