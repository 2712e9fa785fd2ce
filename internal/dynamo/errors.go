package dynamo

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidState indicates a state vector holding NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrParameterBounds indicates a parameter value is outside its slider range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	ErrUnknownParam = errors.New("dynamo: unknown parameter")

	ErrUnknownPage = errors.New("dynamo: unknown page")

	// ErrNoSurface indicates the drawing element or its 2D context is not available.
	// Expected transiently around mount and unmount.
	ErrNoSurface = errors.New("dynamo: drawing surface unavailable")

	// ErrDegenerateLayout indicates a zero-area element at resize time.
	ErrDegenerateLayout = errors.New("dynamo: degenerate layout (zero width or height)")

	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between state and system")
)

// ParamError reports a rejected parameter assignment.
type ParamError struct {
	Name     string
	Value    float64
	Min, Max float64
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("dynamo: parameter %s=%g out of range [%g, %g]", e.Name, e.Value, e.Min, e.Max)
}

func (e *ParamError) Unwrap() error {
	return ErrParameterBounds
}
