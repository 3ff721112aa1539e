package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// RigidTransform is a rotation followed by a translation.
type RigidTransform struct {
	Origin   mgl32.Vec3
	Rotation mgl32.Quat
}

func IdentityTransform() RigidTransform {
	return RigidTransform{Rotation: mgl32.QuatIdent()}
}

// Mat4 returns T(origin) * R(rotation).
func (t RigidTransform) Mat4() mgl32.Mat4 {
	rot := t.Rotation
	if rot.Len() == 0 {
		rot = mgl32.QuatIdent()
	}
	return mgl32.Translate3D(t.Origin.X(), t.Origin.Y(), t.Origin.Z()).Mul4(rot.Normalize().Mat4())
}

// Primitive is anything a physics world may emit while debug drawing.
// The set of variants is closed: Sphere, Box, Capsule, Line, ContactPoint, Text and Warning.
type Primitive interface {
	primitive()
}

// Shape is a Primitive that produces an instance.
type Shape interface {
	Primitive
	Kind() ShapeKind
	Transform() mgl32.Mat4
}

type Sphere struct {
	Center mgl32.Vec3
	Radius float32
}

// Box is an axis aligned box in local space, optionally placed by a rigid transform.
type Box struct {
	Min, Max mgl32.Vec3
	Rigid    *RigidTransform
}

type Capsule struct {
	Radius     float32
	HalfHeight float32
	UpAxis     Axis
	Rigid      RigidTransform
}

type Line struct {
	From, To           mgl32.Vec3
	FromColor, ToColor Color
}

type ContactPoint struct {
	Point    mgl32.Vec3
	Normal   mgl32.Vec3
	Distance float32
	LifeTime int
}

type Text struct {
	Location mgl32.Vec3
	Text     string
}

type Warning struct {
	Message string
}

func (Sphere) primitive()       {}
func (Box) primitive()          {}
func (Capsule) primitive()      {}
func (Line) primitive()         {}
func (ContactPoint) primitive() {}
func (Text) primitive()         {}
func (Warning) primitive()      {}

func (Sphere) Kind() ShapeKind  { return ShapeSphere }
func (Box) Kind() ShapeKind     { return ShapeBox }
func (Capsule) Kind() ShapeKind { return ShapeCapsule }

// Transform is Translate(center) * Scale(radius).
func (s Sphere) Transform() mgl32.Mat4 {
	r := s.Radius
	return mgl32.Translate3D(s.Center.X(), s.Center.Y(), s.Center.Z()).Mul4(mgl32.Scale3D(r, r, r))
}

// Transform centers and scales the unit box, then applies the rigid transform if any.
func (b Box) Transform() mgl32.Mat4 {
	extent := b.Max.Sub(b.Min)
	center := b.Max.Add(b.Min).Mul(0.5)

	m := mgl32.Translate3D(center.X(), center.Y(), center.Z()).Mul4(mgl32.Scale3D(extent.X(), extent.Y(), extent.Z()))
	if b.Rigid != nil {
		m = b.Rigid.Mat4().Mul4(m)
	}
	return m
}

// Transform scales the unit capsule, aligns its Y axis with UpAxis and applies the rigid transform.
func (c Capsule) Transform() mgl32.Mat4 {
	scale := mgl32.Scale3D(c.Radius, c.HalfHeight, c.Radius)
	return c.Rigid.Mat4().Mul4(UpAxisRotation(c.UpAxis)).Mul4(scale)
}

// UpAxisRotation maps the mesh's Y axis onto axis. Unknown axes behave like Y.
func UpAxisRotation(axis Axis) mgl32.Mat4 {
	switch axis {
	case AxisX:
		return mgl32.HomogRotate3DZ(math.Pi / 2)
	case AxisZ:
		return mgl32.HomogRotate3DX(math.Pi / 2)
	default:
		return mgl32.Ident4()
	}
}

// DebugMode selects which primitives a producer emits.
type DebugMode uint32

const (
	DebugDrawShapes DebugMode = 1 << iota
	DebugDrawContacts

	DebugDrawNone DebugMode = 0
)

func (m DebugMode) Has(flag DebugMode) bool {
	return m&flag != 0
}

// PrimitiveSink receives debug-draw output from a producer.
type PrimitiveSink interface {
	OnPrimitive(p Primitive, color Color)
	DebugMode() DebugMode
}
