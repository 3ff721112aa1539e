package core

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// ShapeKind identifies one of the instanced shape streams.
type ShapeKind int

const (
	ShapeSphere ShapeKind = iota
	ShapeBox
	ShapeCapsule

	ShapeKindCount
)

// ShapeKinds lists every kind in draw order.
var ShapeKinds = [ShapeKindCount]ShapeKind{ShapeSphere, ShapeBox, ShapeCapsule}

func (k ShapeKind) String() string {
	switch k {
	case ShapeSphere:
		return "sphere"
	case ShapeBox:
		return "box"
	case ShapeCapsule:
		return "capsule"
	default:
		return "unknown"
	}
}

func (k ShapeKind) Valid() bool {
	return k >= 0 && k < ShapeKindCount
}

// Axis is a capsule up axis, numbered like the physics engine does (0=X, 1=Y, 2=Z).
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

type Color [3]float32

var (
	ColorRed   = Color{1, 0, 0}
	ColorGreen = Color{0, 1, 0}
	ColorBlue  = Color{0, 0, 1}
	ColorWhite = Color{1, 1, 1}
)

// Vertex matches the shape shader's vertex input (location 0 position, location 1 normal).
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
}

// InstanceRecord is one instance of a shape for one frame.
type InstanceRecord struct {
	Transform mgl32.Mat4
	Color     Color
}

const (
	// VertexStride is the packed size of a Vertex on the GPU.
	VertexStride = 24
	// InstanceStride is the std430 size of the WGSL Instance struct:
	// mat4x4<f32> (64) + vec3<f32> (12) + 4 bytes of padding.
	InstanceStride = 80

	// DefaultMaxInstances caps each shape's instance buffer.
	DefaultMaxInstances = 256
)

// VertexBytes packs vertices little endian, tightly. It is the inverse of
// binary.Read into a []Vertex.
func VertexBytes(vertices []Vertex) []byte {
	var buf bytes.Buffer
	buf.Grow(len(vertices) * VertexStride)
	// Vertex is fixed size, so Write cannot fail.
	_ = binary.Write(&buf, binary.LittleEndian, vertices)
	return buf.Bytes()
}

// PutInstance writes r into dst using the GPU layout. dst must hold InstanceStride bytes.
func PutInstance(dst []byte, r InstanceRecord) {
	_ = dst[InstanceStride-1]
	for i := 0; i < 16; i++ {
		binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(r.Transform[i]))
	}
	for i := 0; i < 3; i++ {
		binary.LittleEndian.PutUint32(dst[64+i*4:], math.Float32bits(r.Color[i]))
	}
	binary.LittleEndian.PutUint32(dst[76:], 0)
}

// ReadInstance is the inverse of PutInstance.
func ReadInstance(src []byte) InstanceRecord {
	var r InstanceRecord
	for i := 0; i < 16; i++ {
		r.Transform[i] = math.Float32frombits(binary.LittleEndian.Uint32(src[i*4:]))
	}
	for i := 0; i < 3; i++ {
		r.Color[i] = math.Float32frombits(binary.LittleEndian.Uint32(src[64+i*4:]))
	}
	return r
}
