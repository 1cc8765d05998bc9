package lotpack

import (
	"strings"

	"github.com/brindlerow/pzmap/internal/cellmodel"
)

// classifyLayer resolves the layer a placed tile belongs in from its
// resolved name, by case-insensitive substring test. A name like
// "floorwall_01" resolves to wall — the checks are deliberately not
// reordered, matching the source this format comes from.
func classifyLayer(name string) cellmodel.Layer {
	lower := strings.ToLower(name)
	if strings.Contains(lower, "wall") {
		return cellmodel.LayerWall
	}
	if strings.Contains(lower, "floor") {
		return cellmodel.LayerFloor
	}
	return cellmodel.LayerObject
}
