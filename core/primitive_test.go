package core

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-5

func assertMat(t *testing.T, expected, actual mgl32.Mat4) {
	t.Helper()
	for i := range expected {
		assert.InDelta(t, expected[i], actual[i], eps, "element %d: expected\n%v\ngot\n%v", i, expected, actual)
	}
}

func TestSphereTransform(t *testing.T) {
	s := Sphere{Center: mgl32.Vec3{0, 0, 0}, Radius: 2}
	assert.Equal(t, ShapeSphere, s.Kind())
	assertMat(t, mgl32.Scale3D(2, 2, 2), s.Transform())

	moved := Sphere{Center: mgl32.Vec3{1, 2, 3}, Radius: 0.5}
	p := moved.Transform().Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	assert.InDelta(t, 1.5, p.X(), eps)
	assert.InDelta(t, 2, p.Y(), eps)
	assert.InDelta(t, 3, p.Z(), eps)
}

func TestBoxTransformWithoutRigid(t *testing.T) {
	b := Box{Min: mgl32.Vec3{-1, -1, -1}, Max: mgl32.Vec3{1, 1, 1}}
	assertMat(t, mgl32.Scale3D(2, 2, 2), b.Transform())

	// Off-center box: the unit box corner (0.5, 0.5, 0.5) lands on Max.
	off := Box{Min: mgl32.Vec3{0, 0, 0}, Max: mgl32.Vec3{2, 4, 6}}
	corner := off.Transform().Mul4x1(mgl32.Vec4{0.5, 0.5, 0.5, 1})
	assert.InDelta(t, 2, corner.X(), eps)
	assert.InDelta(t, 4, corner.Y(), eps)
	assert.InDelta(t, 6, corner.Z(), eps)
}

func TestBoxTransformWithRigid(t *testing.T) {
	rot := mgl32.QuatRotate(math.Pi/2, mgl32.Vec3{0, 1, 0})
	b := Box{
		Min:   mgl32.Vec3{-1, -1, -1},
		Max:   mgl32.Vec3{1, 1, 1},
		Rigid: &RigidTransform{Origin: mgl32.Vec3{10, 0, 0}, Rotation: rot},
	}

	expected := mgl32.Translate3D(10, 0, 0).Mul4(rot.Mat4()).Mul4(mgl32.Scale3D(2, 2, 2))
	assertMat(t, expected, b.Transform())

	// Local +X face center rotates onto -Z before the translation.
	p := b.Transform().Mul4x1(mgl32.Vec4{0.5, 0, 0, 1})
	assert.InDelta(t, 10, p.X(), eps)
	assert.InDelta(t, -1, p.Z(), eps)
}

func TestCapsuleUpAxis(t *testing.T) {
	rigid := RigidTransform{Origin: mgl32.Vec3{0, 5, 0}, Rotation: mgl32.QuatIdent()}
	scale := mgl32.Scale3D(0.5, 2, 0.5)

	yUp := Capsule{Radius: 0.5, HalfHeight: 2, UpAxis: AxisY, Rigid: rigid}
	assertMat(t, mgl32.Translate3D(0, 5, 0).Mul4(scale), yUp.Transform())

	xUp := Capsule{Radius: 0.5, HalfHeight: 2, UpAxis: AxisX, Rigid: rigid}
	assertMat(t, mgl32.Translate3D(0, 5, 0).Mul4(mgl32.HomogRotate3DZ(math.Pi/2)).Mul4(scale), xUp.Transform())
	// The capsule's top lies along the X axis.
	top := xUp.Transform().Mul4x1(mgl32.Vec4{0, 1, 0, 1})
	assert.InDelta(t, 2, math.Abs(float64(top.X())), eps)
	assert.InDelta(t, 5, top.Y(), eps)

	zUp := Capsule{Radius: 0.5, HalfHeight: 2, UpAxis: AxisZ, Rigid: rigid}
	assertMat(t, mgl32.Translate3D(0, 5, 0).Mul4(mgl32.HomogRotate3DX(math.Pi/2)).Mul4(scale), zUp.Transform())
	top = zUp.Transform().Mul4x1(mgl32.Vec4{0, 1, 0, 1})
	assert.InDelta(t, 2, math.Abs(float64(top.Z())), eps)
}

func TestCapsuleRigidRotationAppliedAfterAxis(t *testing.T) {
	rot := mgl32.QuatRotate(math.Pi/2, mgl32.Vec3{0, 0, 1})
	c := Capsule{Radius: 1, HalfHeight: 1, UpAxis: AxisX, Rigid: RigidTransform{Rotation: rot}}

	expected := rot.Mat4().Mul4(mgl32.HomogRotate3DZ(math.Pi / 2))
	assertMat(t, expected, c.Transform())
}

func TestZeroQuaternionTreatedAsIdentity(t *testing.T) {
	rigid := RigidTransform{Origin: mgl32.Vec3{1, 2, 3}}
	assertMat(t, mgl32.Translate3D(1, 2, 3), rigid.Mat4())
}

func TestInstanceEncoding(t *testing.T) {
	r := InstanceRecord{Transform: mgl32.Translate3D(1, 2, 3), Color: ColorGreen}
	buf := make([]byte, InstanceStride)
	PutInstance(buf, r)

	assert.Equal(t, r, ReadInstance(buf))
	assert.Equal(t, []byte{0, 0, 0, 0}, buf[76:80])
}

func TestVertexBytes(t *testing.T) {
	b := VertexBytes([]Vertex{{Position: [3]float32{1, 0, 0}, Normal: [3]float32{0, 1, 0}}, {}})
	require.Len(t, b, 2*VertexStride)
	assert.Equal(t, math.Float32bits(1), binary.LittleEndian.Uint32(b[0:]))
	assert.Equal(t, math.Float32bits(1), binary.LittleEndian.Uint32(b[16:]))
}

func TestVertexBytesDecodesWithBinaryRead(t *testing.T) {
	in := []Vertex{
		{Position: [3]float32{-0.5, 0.25, 3}, Normal: [3]float32{0, 0, -1}},
		{Position: [3]float32{1e-7, -2, 0}, Normal: [3]float32{1, 0, 0}},
	}
	out := make([]Vertex, len(in))
	require.NoError(t, binary.Read(bytes.NewReader(VertexBytes(in)), binary.LittleEndian, out))
	assert.Equal(t, in, out)
	assert.Empty(t, VertexBytes(nil))
}

func TestCapacityError(t *testing.T) {
	var err error = &CapacityError{Kind: ShapeBox, Requested: 257, Capacity: 256, Clamped: true}
	assert.True(t, errors.Is(err, ErrCapacityExceeded))
	assert.Contains(t, err.Error(), "257 box instances")
	assert.Contains(t, err.Error(), "clamped")

	var ce *CapacityError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, 256, ce.Capacity)
}

func TestLoadError(t *testing.T) {
	cause := errors.New("boom")
	err := LoadError("mesh sphere", cause)
	assert.True(t, errors.Is(err, ErrResourceLoad))
	assert.True(t, errors.Is(err, cause))
	assert.True(t, errors.Is(LoadError("shader", nil), ErrResourceLoad))
}

func TestShapeKindString(t *testing.T) {
	assert.Equal(t, "sphere", ShapeSphere.String())
	assert.Equal(t, "capsule", ShapeCapsule.String())
	assert.Equal(t, "unknown", ShapeKindCount.String())
	assert.False(t, ShapeKindCount.Valid())
}

func TestCameraOrbitKeepsDistance(t *testing.T) {
	c := NewCamera()
	before := c.Position.Sub(c.Target).Len()
	c.Orbit(40, -25)
	assert.InDelta(t, before, c.Position.Sub(c.Target).Len(), 1e-3)

	vp := c.ViewProj(16.0 / 9.0)
	clip := vp.Mul4x1(c.Target.Vec4(1))
	// Target is in front of the camera and centered.
	assert.Greater(t, clip.W(), float32(0))
	assert.InDelta(t, 0, clip.X()/clip.W(), 1e-3)
	assert.InDelta(t, 0, clip.Y()/clip.W(), 1e-3)
}
