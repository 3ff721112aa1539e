package gpu

import (
	"fmt"
)

// UploadBuffer is a CPU-writable, GPU-readable buffer. Writes go to a host
// staging copy between Map and Unmap; Unmap pushes the written prefix to the GPU.
type UploadBuffer struct {
	buf     Buffer
	staging []byte
	mapped  bool
}

func NewUploadBuffer(dev Device, label string, size uint64, usage BufferUsage) (*UploadBuffer, error) {
	size = AlignUp(max(size, 1), dev.MinBufferAlignment())
	buf, err := dev.CreateBuffer(&BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: usage | BufferUsageCopyDst,
	})
	if err != nil {
		return nil, allocError(label, err)
	}
	return &UploadBuffer{
		buf:     buf,
		staging: make([]byte, size),
	}, nil
}

func (u *UploadBuffer) Buffer() Buffer {
	return u.buf
}

func (u *UploadBuffer) Size() uint64 {
	return uint64(len(u.staging))
}

func (u *UploadBuffer) Mapped() bool {
	return u.mapped
}

// Map exposes the staging bytes for writing.
func (u *UploadBuffer) Map() ([]byte, error) {
	if u.mapped {
		return nil, fmt.Errorf("%s: %w", u.buf.Label(), ErrAlreadyMapped)
	}
	u.mapped = true
	return u.staging, nil
}

// Unmap flushes the first written bytes and ends the mapping. The mapping is
// released even if the flush fails.
func (u *UploadBuffer) Unmap(written int) error {
	if !u.mapped {
		return fmt.Errorf("%s: %w", u.buf.Label(), ErrNotMapped)
	}
	u.mapped = false

	if written <= 0 {
		return nil
	}
	if written > len(u.staging) {
		written = len(u.staging)
	}
	if err := u.buf.Write(0, u.staging[:written]); err != nil {
		return fmt.Errorf("%s: write %d bytes: %w", u.buf.Label(), written, err)
	}
	return nil
}

// Update maps the buffer, lets fn fill it and always unmaps, including when fn
// fails or panics. fn returns how many bytes it wrote; nothing is flushed on error.
func (u *UploadBuffer) Update(fn func(dst []byte) (int, error)) (err error) {
	dst, err := u.Map()
	if err != nil {
		return err
	}

	written := 0
	defer func() {
		if err != nil {
			written = 0
		}
		if unmapErr := u.Unmap(written); unmapErr != nil && err == nil {
			err = unmapErr
		}
	}()

	written, err = fn(dst)
	return err
}

func (u *UploadBuffer) Release() {
	if u.buf != nil {
		u.buf.Release()
		u.buf = nil
	}
	u.staging = nil
	u.mapped = false
}
