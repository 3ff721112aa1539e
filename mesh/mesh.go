// Package mesh provides vertex sources for shape resources: procedural unit
// shapes and raw vertex streams.
package mesh

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/gekko3d/debugdraw/core"
)

// Source yields a non-indexed triangle list.
type Source interface {
	Vertices() ([]core.Vertex, error)
}

type staticSource []core.Vertex

func (s staticSource) Vertices() ([]core.Vertex, error) {
	return s, nil
}

// Static wraps vertices that are already in memory.
func Static(vertices []core.Vertex) Source {
	return staticSource(vertices)
}

type readerSource struct {
	name string
	r    io.Reader
}

// Reader decodes little-endian float32 records of position xyz followed by normal xyz.
func Reader(name string, r io.Reader) Source {
	return readerSource{name: name, r: r}
}

func (s readerSource) Vertices() ([]core.Vertex, error) {
	if s.r == nil {
		return nil, core.LoadError(s.name, fmt.Errorf("nil reader"))
	}
	data, err := io.ReadAll(s.r)
	if err != nil {
		return nil, core.LoadError(s.name, err)
	}
	return decode(s.name, data)
}

type fileSource string

// File reads a raw vertex stream from path when Vertices is called.
func File(path string) Source {
	return fileSource(path)
}

func (f fileSource) Vertices() ([]core.Vertex, error) {
	data, err := os.ReadFile(string(f))
	if err != nil {
		return nil, core.LoadError(string(f), err)
	}
	return decode(string(f), data)
}

func decode(name string, data []byte) ([]core.Vertex, error) {
	if len(data) == 0 {
		return nil, core.LoadError(name, fmt.Errorf("empty vertex stream"))
	}
	if len(data)%core.VertexStride != 0 {
		return nil, core.LoadError(name, fmt.Errorf("stream length %d is not a multiple of %d", len(data), core.VertexStride))
	}

	vertices := make([]core.Vertex, len(data)/core.VertexStride)
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, vertices); err != nil {
		return nil, core.LoadError(name, err)
	}
	for i, v := range vertices {
		for j := 0; j < 3; j++ {
			if !finite(v.Position[j]) || !finite(v.Normal[j]) {
				return nil, core.LoadError(name, fmt.Errorf("vertex %d is not finite", i))
			}
		}
	}
	return vertices, nil
}

func finite(f float32) bool {
	return !math.IsNaN(float64(f)) && !math.IsInf(float64(f), 0)
}

// Encode writes vertices in the format Reader decodes.
func Encode(w io.Writer, vertices []core.Vertex) error {
	_, err := w.Write(core.VertexBytes(vertices))
	return err
}
