package main

import (
	"github.com/gekko3d/debugdraw/core"
	"github.com/gekko3d/debugdraw/physics"
	"github.com/go-gl/mathgl/mgl32"
)

var palette = []core.Color{
	core.ColorRed,
	core.ColorGreen,
	core.ColorBlue,
	{1, 1, 0},
	{0, 1, 1},
	{1, 0, 1},
}

// populate adds a static ground and n dynamic bodies dropped from a grid.
// Bodies cycle through spheres, boxes and capsules on each up axis.
func populate(w *physics.World, n int) {
	ground := physics.NewBody(physics.BoxShape{HalfExtents: mgl32.Vec3{20, 0.5, 20}}, mgl32.Vec3{0, -0.5, 0}, 0)
	ground.Color = core.Color{0.8, 0.8, 0.8}
	w.AddBody(ground)

	const perRow = 5
	for i := 0; i < n; i++ {
		x := float32(i%perRow-perRow/2) * 2.5
		z := float32((i/perRow)%perRow-perRow/2) * 2.5
		y := 3 + float32(i/(perRow*perRow))*3

		var shape physics.Shape
		switch i % 5 {
		case 0:
			shape = physics.SphereShape{Radius: 0.6}
		case 1:
			shape = physics.BoxShape{HalfExtents: mgl32.Vec3{0.5, 0.5, 0.5}}
		case 2:
			shape = physics.CapsuleShape{Radius: 0.4, HalfHeight: 1, UpAxis: core.AxisX}
		case 3:
			shape = physics.CapsuleShape{Radius: 0.4, HalfHeight: 1, UpAxis: core.AxisY}
		default:
			shape = physics.CapsuleShape{Radius: 0.4, HalfHeight: 1, UpAxis: core.AxisZ}
		}

		b := physics.NewBody(shape, mgl32.Vec3{x, y, z}, 1)
		b.Color = palette[i%len(palette)]
		b.Restitution = 0.3
		if i%4 == 1 {
			b.AngularVelocity = mgl32.Vec3{0, 1.5, 0}
		}
		w.AddBody(b)
	}
}
