package event

import "fmt"

// InvalidEventError indicates an event that fails structural
// validation: an unknown trigger, a missing object reference, or a
// missing request reference. Invalid events never reach a controller.
type InvalidEventError struct {
	// Reason describes which invariant the event violated.
	Reason string
}

// Error implements the error interface.
func (e *InvalidEventError) Error() string {
	return fmt.Sprintf("invalid event: %s", e.Reason)
}

// NewInvalidEventError creates an InvalidEventError with the given reason.
func NewInvalidEventError(reason string) *InvalidEventError {
	return &InvalidEventError{Reason: reason}
}
