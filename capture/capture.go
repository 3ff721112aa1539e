// Package capture records the shapes a physics world debug-draws during one
// step, grouped by shape kind in emission order.
package capture

import (
	"github.com/gekko3d/debugdraw/core"
)

type Capture struct {
	sequences [core.ShapeKindCount][]core.InstanceRecord
	mode      core.DebugMode
	logger    core.Logger
}

var _ core.PrimitiveSink = (*Capture)(nil)

func New(logger core.Logger) *Capture {
	c := &Capture{
		mode:   core.DebugDrawShapes,
		logger: core.LoggerOrNop(logger),
	}
	for i := range c.sequences {
		c.sequences[i] = make([]core.InstanceRecord, 0, core.DefaultMaxInstances)
	}
	return c
}

// BeginFrame empties every sequence. It must run before the physics step that refills them.
func (c *Capture) BeginFrame() {
	for i := range c.sequences {
		c.sequences[i] = c.sequences[i][:0]
	}
}

// OnPrimitive appends shapes to their sequence. Lines, contact points and text
// are accepted and dropped; warnings go to the logger.
func (c *Capture) OnPrimitive(p core.Primitive, color core.Color) {
	switch v := p.(type) {
	case core.Sphere:
		c.push(v, color)
	case core.Box:
		c.push(v, color)
	case core.Capsule:
		c.push(v, color)
	case core.Warning:
		c.logger.Warnf("physics: %s", v.Message)
	case core.Line, core.ContactPoint, core.Text:
	case nil:
	default:
		c.logger.Debugf("capture: ignoring primitive %T", p)
	}
}

func (c *Capture) push(s core.Shape, color core.Color) {
	k := s.Kind()
	c.sequences[k] = append(c.sequences[k], core.InstanceRecord{
		Transform: s.Transform(),
		Color:     color,
	})
}

// Instances returns the captured sequence for kind. The slice aliases internal
// storage and is only valid until the next BeginFrame.
func (c *Capture) Instances(kind core.ShapeKind) []core.InstanceRecord {
	if !kind.Valid() {
		return nil
	}
	return c.sequences[kind]
}

func (c *Capture) Count(kind core.ShapeKind) int {
	return len(c.Instances(kind))
}

func (c *Capture) Total() int {
	n := 0
	for i := range c.sequences {
		n += len(c.sequences[i])
	}
	return n
}

func (c *Capture) SetDebugMode(mode core.DebugMode) {
	c.mode = mode
}

func (c *Capture) DebugMode() core.DebugMode {
	return c.mode
}
