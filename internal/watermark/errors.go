// BYZRA ⸻ internal/watermark/errors.go
// failure taxonomy of a composite call

package watermark

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidSizeSpec  = errors.New("invalid size spec")
	ErrIconResolution   = errors.New("icon resolution failed")
	ErrCanvasAllocation = errors.New("invalid canvas dimensions")
)

// a configuration value that is not a valid size, percentage or ratio
type InvalidSizeSpecError struct {
	Value  any
	Reason string
}

func (e *InvalidSizeSpecError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%v: %#v", ErrInvalidSizeSpec, e.Value)
	}
	return fmt.Sprintf("%v: %#v (%s)", ErrInvalidSizeSpec, e.Value, e.Reason)
}

func (e *InvalidSizeSpecError) Unwrap() error {
	return ErrInvalidSizeSpec
}

func invalidSpec(value any, reason string) error {
	return &InvalidSizeSpecError{Value: value, Reason: reason}
}

// the icon rasterizer could not produce a bitmap
type IconError struct {
	ID  string
	Err error
}

func (e *IconError) Error() string {
	return fmt.Sprintf("%v: %s: %v", ErrIconResolution, e.ID, e.Err)
}

func (e *IconError) Unwrap() []error {
	return []error{ErrIconResolution, e.Err}
}

// resolved output dimensions that cannot back a canvas
type CanvasError struct {
	Width  int
	Height int
}

func (e *CanvasError) Error() string {
	return fmt.Sprintf("%v: %dx%d", ErrCanvasAllocation, e.Width, e.Height)
}

func (e *CanvasError) Unwrap() error {
	return ErrCanvasAllocation
}
