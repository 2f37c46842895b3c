package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrNoViewport indicates the host did not supply viewport extents for a tick.
	ErrNoViewport = errors.New("sim: viewport unavailable")

	// ErrInvalidDt indicates a negative, NaN or infinite timestep.
	ErrInvalidDt = errors.New("sim: invalid timestep")

	// ErrUnknownCommand indicates a command value outside the known set.
	ErrUnknownCommand = errors.New("sim: unknown command")
)

// StepError wraps an error with the tick it happened on.
type StepError struct {
	Tick uint64
	Time float64
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("tick %d (t=%.4f): %v", e.Tick, e.Time, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
