package physics

import (
	"github.com/gekko3d/debugdraw/core"
)

var (
	ContactColor = core.Color{1, 1, 0}
	WarningColor = core.Color{1, 0.5, 0}
)

// sleepDim scales the color of sleeping bodies.
const sleepDim = 0.5

// DebugDraw emits the world's shapes and contacts to sink, as selected by
// sink.DebugMode. Pending warnings are always emitted, then cleared.
func (w *World) DebugDraw(sink core.PrimitiveSink) {
	for _, msg := range w.warnings {
		sink.OnPrimitive(core.Warning{Message: msg}, WarningColor)
	}
	w.warnings = w.warnings[:0]

	mode := sink.DebugMode()
	if mode.Has(core.DebugDrawShapes) {
		for _, b := range w.bodies {
			p := b.primitive()
			if p == nil {
				continue
			}
			color := b.Color
			if b.Sleeping {
				color = core.Color{color[0] * sleepDim, color[1] * sleepDim, color[2] * sleepDim}
			}
			sink.OnPrimitive(p, color)
		}
	}

	if mode.Has(core.DebugDrawContacts) {
		for _, c := range w.contacts {
			sink.OnPrimitive(core.ContactPoint{
				Point:    c.Point,
				Normal:   c.Normal,
				Distance: -c.Depth,
			}, ContactColor)
		}
	}
}
