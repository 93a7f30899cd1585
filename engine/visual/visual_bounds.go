package visual

import (
	"strings"

	"github.com/Carmen-Shannon/oxy-visual/common"
	"github.com/Carmen-Shannon/oxy-visual/engine/renderer"
)

// Tag prefixes of editor handles that never count toward bounds.
var boundsSkipPrefixes = []string{"rot", "trans"}

func (v *visual) BoundingBox() common.Box {
	box := common.NewEmptyBox()
	if v.ready() {
		v.boundsHelper(v.node, &box)
	}
	return box
}

func (v *visual) boundsHelper(node renderer.NodeHandle, box *common.Box) {
	b := v.backend()
	b.UpdateBounds(node)
	for i := 0; i < b.NumAttached(node); i++ {
		obj := b.Attached(node, i)
		if obj == nil || !obj.Visible() || obj.MovableType() == renderer.MovableTypeDynamicLines {
			continue
		}
		if skipBounds(obj.Tag()) {
			continue
		}
		box.Merge(obj.WorldBoundingBox())
	}
	for _, child := range b.ChildNodes(node) {
		v.boundsHelper(child, box)
	}
}

func skipBounds(tag string) bool {
	for _, p := range boundsSkipPrefixes {
		if strings.HasPrefix(tag, p) {
			return true
		}
	}
	return false
}
