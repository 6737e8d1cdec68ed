package cloth

import (
	"errors"
	"fmt"
)

// Domain errors for cloth construction and stepping.
var (
	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("cloth: parameter out of valid bounds")

	// ErrInvalidSize indicates a grid with zero or negative extent.
	ErrInvalidSize = fmt.Errorf("%w: grid size must be positive", ErrParameterBounds)

	// ErrInvalidSpacing indicates a non-positive or non-finite grid spacing.
	ErrInvalidSpacing = fmt.Errorf("%w: spacing must be positive and finite", ErrParameterBounds)

	// ErrInvalidState indicates a point with NaN or Inf coordinates.
	ErrInvalidState = errors.New("cloth: invalid state (NaN or Inf detected)")
)

// StepError wraps an error with the frame it happened on.
type StepError struct {
	Frame   int
	Time    float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("frame %d (t=%.4f): %v", e.Frame, e.Time, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
