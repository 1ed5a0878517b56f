package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for body registration and camera state.
var (
	// ErrUnknownParent indicates a moon referencing a body that is not registered yet.
	ErrUnknownParent = errors.New("dynamo: parent body is not registered")

	// ErrInvalidBody indicates NaN/Inf or negative distance/radius in a body record.
	ErrInvalidBody = errors.New("dynamo: invalid body parameters")

	// ErrDegenerateBasis indicates a camera basis that cannot be orthonormalized.
	ErrDegenerateBasis = errors.New("dynamo: degenerate orientation basis")

	// ErrInvalidCamera indicates non-finite camera position or unusable speed bounds.
	ErrInvalidCamera = errors.New("dynamo: invalid camera options")

	// ErrUnknownBody indicates a lookup by name or id that matched nothing.
	ErrUnknownBody = errors.New("dynamo: unknown body")
)

// BodyError wraps an error with the body it was raised for.
type BodyError struct {
	ID      int
	Name    string
	Wrapped error
}

func (e *BodyError) Error() string {
	return fmt.Sprintf("body %d (%s): %v", e.ID, e.Name, e.Wrapped)
}

func (e *BodyError) Unwrap() error {
	return e.Wrapped
}
