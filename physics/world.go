// Package physics is a small rigid-body world that debug draws itself
// through a core.PrimitiveSink.
package physics

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

const (
	DefaultFixedTimeStep = float32(1.0 / 60.0)
	// maxStep caps a single StepSimulation call, in seconds.
	maxStep = float32(1.0)
)

// Contact is one resolved overlap from the last step. Normal points from A to B.
type Contact struct {
	A, B   uuid.UUID
	Point  mgl32.Vec3
	Normal mgl32.Vec3
	Depth  float32
}

type World struct {
	Gravity        mgl32.Vec3
	SleepThreshold float32
	SleepTime      float32
	// FixedTimeStep and MaxSubSteps work like Bullet's stepSimulation.
	// MaxSubSteps == 0 takes one variable step of dt instead.
	FixedTimeStep float32
	MaxSubSteps   int

	bodies      []*Body
	contacts    []Contact
	warnings    []string
	accumulator float32
}

func NewWorld() *World {
	return &World{
		Gravity:        mgl32.Vec3{0, -9.81, 0},
		SleepThreshold: 0.05,
		SleepTime:      1.0,
		FixedTimeStep:  DefaultFixedTimeStep,
		MaxSubSteps:    1,
	}
}

// AddBody adds b and returns its id. Bodies are simulated and drawn in the
// order they were added.
func (w *World) AddBody(b *Body) uuid.UUID {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.Rotation.Len() == 0 {
		b.Rotation = mgl32.QuatIdent()
	}
	w.bodies = append(w.bodies, b)
	return b.ID
}

func (w *World) RemoveBody(id uuid.UUID) bool {
	for i, b := range w.bodies {
		if b.ID == id {
			w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
			return true
		}
	}
	return false
}

func (w *World) Bodies() []*Body {
	return w.bodies
}

// Contacts returns the contacts of the last fixed step.
func (w *World) Contacts() []Contact {
	return w.contacts
}

// StepSimulation advances the world by dt seconds. Non-positive dt is
// ignored and dt is capped at one second. It returns the number of steps taken.
func (w *World) StepSimulation(dt float32) int {
	if !(dt > 0) {
		return 0
	}
	if dt > maxStep {
		dt = maxStep
	}

	if w.MaxSubSteps <= 0 {
		w.step(dt)
		return 1
	}

	fixed := w.FixedTimeStep
	if fixed <= 0 {
		fixed = DefaultFixedTimeStep
	}
	w.accumulator += dt
	steps := int(w.accumulator / fixed)
	w.accumulator -= float32(steps) * fixed
	// Time beyond MaxSubSteps is dropped.
	steps = min(steps, w.MaxSubSteps)
	for i := 0; i < steps; i++ {
		w.step(fixed)
	}
	return steps
}

func (w *World) step(dt float32) {
	w.contacts = w.contacts[:0]

	for _, b := range w.bodies {
		if b.Static || b.Sleeping {
			continue
		}
		b.Velocity = b.Velocity.Add(w.Gravity.Mul(dt))

		displacement := b.Velocity.Mul(dt)
		if l := float64(displacement.Len()); math.IsNaN(l) || math.IsInf(l, 0) {
			w.warnings = append(w.warnings, fmt.Sprintf("body %s has a non-finite velocity, reset to zero", b.ID))
			b.Velocity = mgl32.Vec3{}
			b.AngularVelocity = mgl32.Vec3{}
			continue
		}
		b.Position = b.Position.Add(displacement)

		if b.AngularVelocity.Len() > 0 {
			spin := mgl32.Quat{V: b.AngularVelocity}.Mul(b.Rotation).Scale(0.5 * dt)
			b.Rotation = b.Rotation.Add(spin).Normalize()
		}
	}

	for i := 0; i < len(w.bodies); i++ {
		for j := i + 1; j < len(w.bodies); j++ {
			w.resolve(w.bodies[i], w.bodies[j])
		}
	}

	for _, b := range w.bodies {
		if b.Static || b.Sleeping {
			continue
		}
		if b.Velocity.Len() < w.SleepThreshold && b.AngularVelocity.Len() < w.SleepThreshold {
			b.IdleTime += dt
			if b.IdleTime > w.SleepTime {
				b.Sleeping = true
				b.Velocity = mgl32.Vec3{}
				b.AngularVelocity = mgl32.Vec3{}
			}
		} else {
			b.IdleTime = 0
		}
	}
}

// resolve pushes a and b apart along the axis of least penetration.
func (w *World) resolve(a, b *Body) {
	if !a.active() && !b.active() {
		return
	}
	aLo, aHi := a.aabb()
	bLo, bHi := b.aabb()
	depth, axis := penetrationAxis(aLo, aHi, bLo, bHi)
	if axis < 0 {
		return
	}

	dir := float32(1)
	if b.Position[axis] < a.Position[axis] {
		dir = -1
	}

	var moveA, moveB float32
	switch {
	case a.Static || a.Sleeping:
		moveB = depth
	case b.Static || b.Sleeping:
		moveA = depth
	default:
		total := a.Mass + b.Mass
		if total <= 0 {
			moveA, moveB = depth/2, depth/2
		} else {
			moveA = depth * b.Mass / total
			moveB = depth * a.Mass / total
		}
	}
	a.Position[axis] -= dir * moveA
	b.Position[axis] += dir * moveB

	e := a.Restitution * b.Restitution
	bounce(a, axis, -dir, e)
	bounce(b, axis, dir, e)

	// A moving body wakes what it lands on.
	if a.Sleeping && b.active() {
		a.Wake()
	}
	if b.Sleeping && a.active() {
		b.Wake()
	}

	var point mgl32.Vec3
	for k := 0; k < 3; k++ {
		point[k] = (max(aLo[k], bLo[k]) + min(aHi[k], bHi[k])) / 2
	}
	var normal mgl32.Vec3
	normal[axis] = dir
	w.contacts = append(w.contacts, Contact{A: a.ID, B: b.ID, Point: point, Normal: normal, Depth: depth})
}

func (b *Body) active() bool {
	return !b.Static && !b.Sleeping
}

// bounce reflects the velocity component heading against push.
func bounce(b *Body, axis int, push, restitution float32) {
	if !b.active() {
		return
	}
	if b.Velocity[axis]*push >= 0 {
		return
	}
	b.Velocity[axis] = -b.Velocity[axis] * restitution
	if abs(b.Velocity[axis]) < 0.1 {
		b.Velocity[axis] = 0
	}
}

// penetrationAxis returns the overlap depth and axis (0=X, 1=Y, 2=Z) of the
// minimum penetration, or axis -1 when the boxes do not overlap.
func penetrationAxis(aLo, aHi, bLo, bHi mgl32.Vec3) (depth float32, axis int) {
	axis = -1
	for k := 0; k < 3; k++ {
		overlap := min(aHi[k], bHi[k]) - max(aLo[k], bLo[k])
		if overlap <= 0 {
			return 0, -1
		}
		if axis < 0 || overlap < depth {
			depth, axis = overlap, k
		}
	}
	return depth, axis
}
