package main

import (
	"testing"

	"github.com/gekko3d/debugdraw/core"
	"github.com/gekko3d/debugdraw/physics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSink struct {
	kinds map[core.ShapeKind]int
}

func (s *countingSink) OnPrimitive(p core.Primitive, _ core.Color) {
	if shape, ok := p.(core.Shape); ok {
		s.kinds[shape.Kind()]++
	}
}

func (s *countingSink) DebugMode() core.DebugMode {
	return core.DebugDrawShapes
}

func TestPopulate(t *testing.T) {
	w := physics.NewWorld()
	populate(w, 10)
	require.Len(t, w.Bodies(), 11)
	assert.True(t, w.Bodies()[0].Static)

	sink := &countingSink{kinds: map[core.ShapeKind]int{}}
	w.DebugDraw(sink)
	assert.Equal(t, 2, sink.kinds[core.ShapeSphere])
	assert.Equal(t, 3, sink.kinds[core.ShapeBox], "ground plus two boxes")
	assert.Equal(t, 6, sink.kinds[core.ShapeCapsule])
}
