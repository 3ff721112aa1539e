package gpu

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// CameraBlockSize is the padded size of the WGSL Camera uniform.
//
//	struct Camera {
//	  view_proj: mat4x4<f32>; -- 64
//	} -> 256 bytes (padded)
const CameraBlockSize = 256

// CameraBuffer is the uniform shared read-only by every shape resource.
type CameraBuffer struct {
	upload *UploadBuffer
}

func NewCameraBuffer(dev Device) (*CameraBuffer, error) {
	upload, err := NewUploadBuffer(dev, "ShapeCameraBuffer", CameraBlockSize, BufferUsageUniform)
	if err != nil {
		return nil, err
	}
	return &CameraBuffer{upload: upload}, nil
}

// Update writes the view-projection matrix. Call once per frame before drawing.
func (c *CameraBuffer) Update(viewProj mgl32.Mat4) error {
	return c.upload.Update(func(dst []byte) (int, error) {
		for i, f := range viewProj {
			binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(f))
		}
		return 64, nil
	})
}

func (c *CameraBuffer) Buffer() Buffer {
	return c.upload.Buffer()
}

func (c *CameraBuffer) Release() {
	c.upload.Release()
}
