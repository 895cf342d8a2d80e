package sim

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrConfiguration indicates a rejected body, seed request or simulation
	// parameter. Existing state is never modified when it is returned.
	ErrConfiguration = errors.New("sim: configuration error")

	// ErrCapacityExceeded indicates AddBody on a full simulation. It matches
	// ErrConfiguration under errors.Is.
	ErrCapacityExceeded = fmt.Errorf("%w: capacity exceeded", ErrConfiguration)

	// ErrNumericalInstability indicates a tick would have produced a
	// non-finite position or velocity and was discarded.
	ErrNumericalInstability = errors.New("sim: numerical instability")
)

// StepError wraps a rejected tick with its context.
type StepError struct {
	Step int
	Time float64
	// Body is the first offending body index, or -1 if unknown.
	Body    int
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f) body %d: %v", e.Step, e.Time, e.Body, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}

func configErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}
