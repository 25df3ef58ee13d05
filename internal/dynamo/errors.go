package dynamo

import "errors"

// Domain errors for simulation operations.
var (
	// ErrNoBodies indicates an empty body set, which has no bounding box.
	ErrNoBodies = errors.New("dynamo: body set is empty")

	// ErrInvalidMass indicates a body with zero, negative or non-finite mass.
	ErrInvalidMass = errors.New("dynamo: body mass must be positive")

	// ErrInvalidState indicates a body with NaN or Inf position or velocity.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrUnstable indicates the simulation became numerically unstable.
	ErrUnstable = errors.New("dynamo: simulation unstable (state diverged)")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrBodyIndex indicates an index outside the body set.
	ErrBodyIndex = errors.New("dynamo: body index out of range")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return e.Wrapped.Error()
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
