package mc

import (
	"errors"
	"fmt"

	"github.com/marmos91/triggerfish/pkg/event"
)

// MissingMetadataError indicates that a handler required a metadata
// attribute the accessed object does not carry. The engine treats it
// as a recoverable condition: the invocation is logged and counted as
// recovered, and the event chain continues.
type MissingMetadataError struct {
	// Attribute is the name of the missing metadata attribute.
	Attribute string
}

// Error implements the error interface.
func (e *MissingMetadataError) Error() string {
	return fmt.Sprintf("object metadata missing required attribute %q", e.Attribute)
}

// NewMissingMetadataError creates a MissingMetadataError for the named
// attribute.
func NewMissingMetadataError(attribute string) *MissingMetadataError {
	return &MissingMetadataError{Attribute: attribute}
}

// IsMissingMetadata returns true if the error indicates a missing
// metadata attribute.
func IsMissingMetadata(err error) bool {
	var missing *MissingMetadataError
	return errors.As(err, &missing)
}

// IsInvalidEvent returns true if the error indicates a structurally
// invalid event.
func IsInvalidEvent(err error) bool {
	var invalid *event.InvalidEventError
	return errors.As(err, &invalid)
}
