package core

import (
	"errors"
	"fmt"
)

var (
	// ErrResourceLoad reports an unreadable or malformed mesh or shader source.
	ErrResourceLoad = errors.New("resource load failed")
	// ErrCapacityExceeded reports more instances than a shape buffer holds.
	ErrCapacityExceeded = errors.New("instance capacity exceeded")
)

type CapacityError struct {
	Kind      ShapeKind
	Requested int
	Capacity  int
	// Clamped is true when the first Capacity records were still uploaded.
	Clamped bool
}

func (e *CapacityError) Error() string {
	action := "rejected"
	if e.Clamped {
		action = "clamped"
	}
	return fmt.Sprintf("%s: %d %s instances, capacity %d (%s)", ErrCapacityExceeded, e.Requested, e.Kind, e.Capacity, action)
}

func (e *CapacityError) Unwrap() error {
	return ErrCapacityExceeded
}

// LoadError wraps err so that it matches ErrResourceLoad.
func LoadError(what string, err error) error {
	if err == nil {
		return fmt.Errorf("%w: %s", ErrResourceLoad, what)
	}
	return fmt.Errorf("%w: %s: %w", ErrResourceLoad, what, err)
}
