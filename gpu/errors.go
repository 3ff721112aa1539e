package gpu

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfMemory reports a failed GPU allocation. There is no fallback allocator.
	ErrOutOfMemory = errors.New("gpu allocation failed")
	// ErrAlreadyMapped reports a second Map before Unmap.
	ErrAlreadyMapped = errors.New("buffer already mapped")
	ErrNotMapped     = errors.New("buffer not mapped")
)

func allocError(label string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrOutOfMemory, label, err)
}
