package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera is an orbit camera looking at Target. Y is up.
type Camera struct {
	Position mgl32.Vec3
	Target   mgl32.Vec3
	Up       mgl32.Vec3
	FovY     float32 // radians
	Near     float32
	Far      float32

	Sensitivity float32
}

func NewCamera() *Camera {
	return &Camera{
		Position:    mgl32.Vec3{0, 10, -25},
		Target:      mgl32.Vec3{0, 2, 0},
		Up:          mgl32.Vec3{0, 1, 0},
		FovY:        mgl32.DegToRad(60),
		Near:        0.1,
		Far:         500,
		Sensitivity: 0.005,
	}
}

func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Target, c.Up)
}

func (c *Camera) ProjectionMatrix(aspect float32) mgl32.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return depthZeroToOne.Mul4(mgl32.Perspective(c.FovY, aspect, c.Near, c.Far))
}

// depthZeroToOne remaps OpenGL clip depth [-w, w] to the [0, w] range WebGPU expects.
var depthZeroToOne = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// ViewProj is the matrix written to the shared camera buffer.
func (c *Camera) ViewProj(aspect float32) mgl32.Mat4 {
	return c.ProjectionMatrix(aspect).Mul4(c.ViewMatrix())
}

// Orbit rotates the camera around Target by mouse deltas in pixels.
func (c *Camera) Orbit(dx, dy float32) {
	offset := c.Position.Sub(c.Target)
	radius := offset.Len()
	if radius == 0 {
		return
	}

	yaw := float32(math.Atan2(float64(offset.X()), float64(offset.Z())))
	pitch := float32(math.Asin(float64(offset.Y() / radius)))

	yaw -= dx * c.Sensitivity
	pitch += dy * c.Sensitivity

	// Keep away from the poles so LookAt stays defined.
	limit := float32(math.Pi/2 - 0.01)
	if pitch > limit {
		pitch = limit
	}
	if pitch < -limit {
		pitch = -limit
	}

	cp := float32(math.Cos(float64(pitch)))
	c.Position = c.Target.Add(mgl32.Vec3{
		radius * cp * float32(math.Sin(float64(yaw))),
		radius * float32(math.Sin(float64(pitch))),
		radius * cp * float32(math.Cos(float64(yaw))),
	})
}

// Zoom scales the distance to Target.
func (c *Camera) Zoom(factor float32) {
	if factor <= 0 {
		return
	}
	offset := c.Position.Sub(c.Target).Mul(factor)
	if offset.Len() < c.Near*2 {
		return
	}
	c.Position = c.Target.Add(offset)
}
