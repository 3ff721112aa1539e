package physics

import (
	"github.com/gekko3d/debugdraw/core"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// Shape is a collision shape. Collision is resolved on its bounding box.
type Shape interface {
	// LocalHalfExtents is the half size of the shape before rotation.
	LocalHalfExtents() mgl32.Vec3
}

type SphereShape struct {
	Radius float32
}

type BoxShape struct {
	HalfExtents mgl32.Vec3
}

// CapsuleShape is a capsule along UpAxis. HalfHeight includes the caps.
type CapsuleShape struct {
	Radius     float32
	HalfHeight float32
	UpAxis     core.Axis
}

func (s SphereShape) LocalHalfExtents() mgl32.Vec3 {
	return mgl32.Vec3{s.Radius, s.Radius, s.Radius}
}

func (s BoxShape) LocalHalfExtents() mgl32.Vec3 {
	return s.HalfExtents
}

func (s CapsuleShape) LocalHalfExtents() mgl32.Vec3 {
	h := mgl32.Vec3{s.Radius, s.Radius, s.Radius}
	switch s.UpAxis {
	case core.AxisX:
		h[0] = s.HalfHeight
	case core.AxisZ:
		h[2] = s.HalfHeight
	default:
		h[1] = s.HalfHeight
	}
	return h
}

type Body struct {
	ID    uuid.UUID
	Shape Shape

	Position        mgl32.Vec3
	Rotation        mgl32.Quat
	Velocity        mgl32.Vec3
	AngularVelocity mgl32.Vec3

	Mass        float32
	Restitution float32
	Static      bool
	Sleeping    bool
	IdleTime    float32

	Color core.Color
}

// NewBody returns a body at pos. A non-positive mass makes it static.
func NewBody(shape Shape, pos mgl32.Vec3, mass float32) *Body {
	return &Body{
		ID:       uuid.New(),
		Shape:    shape,
		Position: pos,
		Rotation: mgl32.QuatIdent(),
		Mass:     mass,
		Static:   mass <= 0,
		Color:    core.ColorWhite,
	}
}

func (b *Body) Wake() {
	b.Sleeping = false
	b.IdleTime = 0
}

func (b *Body) ApplyImpulse(impulse mgl32.Vec3) {
	if b.Static {
		return
	}
	b.Wake()
	if b.Mass > 0 {
		b.Velocity = b.Velocity.Add(impulse.Mul(1.0 / b.Mass))
	} else {
		b.Velocity = b.Velocity.Add(impulse)
	}
}

func (b *Body) rigid() core.RigidTransform {
	return core.RigidTransform{Origin: b.Position, Rotation: b.Rotation}
}

// aabb returns the world space bounds of the rotated shape.
func (b *Body) aabb() (lo, hi mgl32.Vec3) {
	local := b.Shape.LocalHalfExtents()
	rot := b.Rotation
	if rot.Len() == 0 {
		rot = mgl32.QuatIdent()
	}
	m := rot.Normalize().Mat4().Mat3()

	var half mgl32.Vec3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			half[i] += abs(m.At(i, j)) * local[j]
		}
	}
	return b.Position.Sub(half), b.Position.Add(half)
}

// primitive is the debug-draw form of the body's shape.
func (b *Body) primitive() core.Primitive {
	switch s := b.Shape.(type) {
	case SphereShape:
		return core.Sphere{Center: b.Position, Radius: s.Radius}
	case BoxShape:
		rigid := b.rigid()
		return core.Box{
			Min:   s.HalfExtents.Mul(-1),
			Max:   s.HalfExtents,
			Rigid: &rigid,
		}
	case CapsuleShape:
		return core.Capsule{
			Radius:     s.Radius,
			HalfHeight: s.HalfHeight,
			UpAxis:     s.UpAxis,
			Rigid:      b.rigid(),
		}
	}
	return nil
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
