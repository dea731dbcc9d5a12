package sim

import (
	"errors"
	"fmt"
)

// Domain errors for lifecycle operations.
var (
	// ErrInvalidState indicates an operation on a disposed simulator, or a
	// second Dispose.
	ErrInvalidState = errors.New("sim: invalid state")

	// ErrInvalidArgument indicates a precondition failure such as a missing
	// creation callback.
	ErrInvalidArgument = errors.New("sim: invalid argument")
)

// LifecycleError wraps a domain error with the failing operation.
type LifecycleError struct {
	Op     string
	Reason string
	Err    error
}

func (e *LifecycleError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %v: %s", e.Op, e.Err, e.Reason)
}

func (e *LifecycleError) Unwrap() error {
	return e.Err
}

func errDisposed(op string) error {
	return &LifecycleError{Op: op, Reason: "simulator disposed", Err: ErrInvalidState}
}

func errArgument(op, reason string) error {
	return &LifecycleError{Op: op, Reason: reason, Err: ErrInvalidArgument}
}
