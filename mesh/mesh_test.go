package mesh

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/gekko3d/debugdraw/core"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestUnitBox(t *testing.T) {
	vertices, err := UnitBox().Vertices()
	require.NoError(t, err)
	require.Len(t, vertices, 36)

	for i := 0; i < len(vertices); i += 3 {
		a, b, c := mgl32.Vec3(vertices[i].Position), mgl32.Vec3(vertices[i+1].Position), mgl32.Vec3(vertices[i+2].Position)
		n := mgl32.Vec3(vertices[i].Normal)
		// Counter-clockwise seen from outside: the geometric normal agrees with the stored one.
		assert.Greater(t, b.Sub(a).Cross(c.Sub(a)).Dot(n), float32(0), "triangle %d", i/3)
		for _, v := range []mgl32.Vec3{a, b, c} {
			for k := 0; k < 3; k++ {
				assert.InDelta(t, 0.5, math.Abs(float64(v[k])), 1e-6)
			}
		}
	}
}

func TestUnitSphere(t *testing.T) {
	vertices, err := UnitSphere(4, 8).Vertices()
	require.NoError(t, err)
	assert.Len(t, vertices, 4*8*6)

	for _, v := range vertices {
		assert.InDelta(t, 1, mgl32.Vec3(v.Position).Len(), 1e-5)
		assert.InDelta(t, 1, mgl32.Vec3(v.Normal).Len(), 1e-5)
	}

	// Triangles face outward wherever they are not degenerate at the poles.
	for i := 0; i < len(vertices); i += 3 {
		a, b, c := mgl32.Vec3(vertices[i].Position), mgl32.Vec3(vertices[i+1].Position), mgl32.Vec3(vertices[i+2].Position)
		cross := b.Sub(a).Cross(c.Sub(a))
		if cross.Len() < 1e-6 {
			continue
		}
		centroid := a.Add(b).Add(c).Mul(1.0 / 3)
		assert.Greater(t, cross.Dot(centroid), float32(0), "triangle %d", i/3)
	}
}

func TestUnitCapsule(t *testing.T) {
	vertices, err := UnitCapsule(4, 8).Vertices()
	require.NoError(t, err)
	assert.Len(t, vertices, 5*8*6)

	minY, maxY := float32(math.MaxFloat32), float32(-math.MaxFloat32)
	for _, v := range vertices {
		minY = min(minY, v.Position[1])
		maxY = max(maxY, v.Position[1])
		r := mgl32.Vec2{v.Position[0], v.Position[2]}.Len()
		assert.LessOrEqual(t, r, float32(1+1e-5))
	}
	assert.InDelta(t, -1, minY, 1e-5)
	assert.InDelta(t, 1, maxY, 1e-5)
}

func TestTessellationIsClamped(t *testing.T) {
	vertices, err := UnitSphere(0, 0).Vertices()
	require.NoError(t, err)
	assert.Len(t, vertices, 2*3*6)
}

func TestReaderRoundTrip(t *testing.T) {
	src, err := UnitBox().Vertices()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, src))

	decoded, err := Reader("box", &buf).Vertices()
	require.NoError(t, err)
	assert.Equal(t, src, decoded)
}

func TestReaderErrors(t *testing.T) {
	cases := map[string]Source{
		"empty":     Reader("empty", bytes.NewReader(nil)),
		"truncated": Reader("truncated", bytes.NewReader(make([]byte, core.VertexStride+5))),
		"failing":   Reader("failing", failingReader{}),
		"nil":       Reader("nil", nil),
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := src.Vertices()
			assert.ErrorIs(t, err, core.ErrResourceLoad)
		})
	}
}

func TestReaderRejectsNaN(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, []core.Vertex{{Position: [3]float32{float32(math.NaN()), 0, 0}}}))
	_, err := Reader("nan", &buf).Vertices()
	assert.ErrorIs(t, err, core.ErrResourceLoad)
}

func TestFileSource(t *testing.T) {
	_, err := File(filepath.Join(t.TempDir(), "missing.bin")).Vertices()
	assert.ErrorIs(t, err, core.ErrResourceLoad)

	path := filepath.Join(t.TempDir(), "tri.bin")
	tri := []core.Vertex{
		{Position: [3]float32{0, 0, 0}, Normal: [3]float32{0, 0, 1}},
		{Position: [3]float32{1, 0, 0}, Normal: [3]float32{0, 0, 1}},
		{Position: [3]float32{0, 1, 0}, Normal: [3]float32{0, 0, 1}},
	}
	require.NoError(t, os.WriteFile(path, core.VertexBytes(tri), 0o644))

	got, err := File(path).Vertices()
	require.NoError(t, err)
	assert.Equal(t, tri, got)
}

func TestDefaultsCoverEveryKind(t *testing.T) {
	d := Defaults()
	for _, k := range core.ShapeKinds {
		require.Contains(t, d, k)
		vertices, err := d[k].Vertices()
		require.NoError(t, err)
		assert.NotEmpty(t, vertices)
	}
}
