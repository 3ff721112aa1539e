package mesh

import (
	"math"

	"github.com/gekko3d/debugdraw/core"
	"github.com/go-gl/mathgl/mgl32"
)

// UnitBox is a cube from -0.5 to 0.5 with flat normals, 36 vertices.
func UnitBox() Source {
	type face struct{ n, u, v mgl32.Vec3 }
	// u x v == n so each quad winds counter-clockwise seen from outside.
	faces := []face{
		{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 0, 1}},
		{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}},
		{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}},
		{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}},
	}

	vertices := make([]core.Vertex, 0, 36)
	for _, f := range faces {
		corner := func(su, sv float32) core.Vertex {
			p := f.n.Mul(0.5).Add(f.u.Mul(su * 0.5)).Add(f.v.Mul(sv * 0.5))
			return core.Vertex{Position: p, Normal: f.n}
		}
		a, b, c, d := corner(-1, -1), corner(1, -1), corner(1, 1), corner(-1, 1)
		vertices = append(vertices, a, b, c, a, c, d)
	}
	return Static(vertices)
}

// ring is one latitude of a surface of revolution around Y.
type ring struct {
	y, radius float32
	normal    mgl32.Vec2 // (radial, y)
}

// lathe sweeps rings (ordered top to bottom) around the Y axis.
func lathe(rings []ring, segments int) []core.Vertex {
	at := func(r ring, seg int) core.Vertex {
		phi := 2 * math.Pi * float64(seg) / float64(segments)
		c, s := float32(math.Cos(phi)), float32(math.Sin(phi))
		n := mgl32.Vec3{r.normal[0] * c, r.normal[1], r.normal[0] * s}
		if l := n.Len(); l > 0 {
			n = n.Mul(1 / l)
		}
		return core.Vertex{
			Position: [3]float32{r.radius * c, r.y, r.radius * s},
			Normal:   n,
		}
	}

	vertices := make([]core.Vertex, 0, (len(rings)-1)*segments*6)
	for i := 0; i+1 < len(rings); i++ {
		for j := 0; j < segments; j++ {
			a, b := at(rings[i], j), at(rings[i], j+1)
			c, d := at(rings[i+1], j), at(rings[i+1], j+1)
			vertices = append(vertices, a, b, c, b, d, c)
		}
	}
	return vertices
}

func clampTessellation(rings, segments int) (int, int) {
	if rings < 2 {
		rings = 2
	}
	if segments < 3 {
		segments = 3
	}
	return rings, segments
}

// UnitSphere is a UV sphere of radius 1 with smooth normals.
func UnitSphere(rings, segments int) Source {
	rings, segments = clampTessellation(rings, segments)
	profile := make([]ring, 0, rings+1)
	for i := 0; i <= rings; i++ {
		theta := math.Pi * float64(i) / float64(rings)
		s, c := float32(math.Sin(theta)), float32(math.Cos(theta))
		profile = append(profile, ring{y: c, radius: s, normal: mgl32.Vec2{s, c}})
	}
	return Static(lathe(profile, segments))
}

// UnitCapsule spans y in [-1, 1] with radius 1: a cylinder over [-0.5, 0.5]
// capped by half-ellipsoids. Scale(r, halfHeight, r) turns it into a capsule
// of radius r and total half height halfHeight.
func UnitCapsule(rings, segments int) Source {
	rings, segments = clampTessellation(rings, segments)
	half := rings/2 + 1

	profile := make([]ring, 0, 2*half)
	for i := 0; i < half; i++ {
		theta := (math.Pi / 2) * float64(i) / float64(half-1)
		s, c := float32(math.Sin(theta)), float32(math.Cos(theta))
		profile = append(profile, ring{y: 0.5 + 0.5*c, radius: s, normal: mgl32.Vec2{s, c}})
	}
	for i := 0; i < half; i++ {
		theta := math.Pi/2 + (math.Pi/2)*float64(i)/float64(half-1)
		s, c := float32(math.Sin(theta)), float32(math.Cos(theta))
		profile = append(profile, ring{y: -0.5 + 0.5*c, radius: s, normal: mgl32.Vec2{s, c}})
	}
	return Static(lathe(profile, segments))
}

// Defaults returns the mesh used for each shape kind when none is configured.
func Defaults() map[core.ShapeKind]Source {
	return map[core.ShapeKind]Source{
		core.ShapeSphere:  UnitSphere(16, 24),
		core.ShapeBox:     UnitBox(),
		core.ShapeCapsule: UnitCapsule(16, 24),
	}
}
