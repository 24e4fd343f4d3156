// Package gateway defines the client contract toward the storage
// platform.
//
// The engine and the prefetch subsystem only ever see this interface;
// the S3 implementation in the s3 subpackage talks to the real
// platform gateway. Keeping the surface small (metadata lookup, cache
// warming, health) is what lets handler tests run against fakes.
package gateway

import (
	"context"
	"errors"
	"strings"

	"github.com/marmos91/triggerfish/pkg/event"
)

// Gateway is a read-only client for the storage platform.
type Gateway interface {
	// ObjectMetadata returns the user metadata attributes of the
	// referenced object. Returns a *NotFoundError when the object
	// does not exist.
	ObjectMetadata(ctx context.Context, ref event.ObjectRef) (map[string]string, error)

	// Warm reads the referenced object through the platform so its
	// cache tiers are populated, discarding the payload. A positive
	// maxBytes limits the read to the head of the object. Returns the
	// number of bytes pulled.
	Warm(ctx context.Context, ref event.ObjectRef, maxBytes int64) (int64, error)

	// HealthCheck verifies platform connectivity.
	HealthCheck(ctx context.Context) error
}

// NotFoundError indicates the referenced object does not exist on the
// platform.
type NotFoundError struct {
	// Object is the "bucket/key" reference that was not found.
	Object string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return "object not found: " + e.Object
}

// NewNotFoundError creates a NotFoundError for the reference.
func NewNotFoundError(ref event.ObjectRef) *NotFoundError {
	return &NotFoundError{Object: ref.String()}
}

// IsNotFound returns true if the error indicates a missing object.
func IsNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}

// ResolveIdentifier maps a prefetch identifier to an object reference.
//
// An identifier containing a slash is absolute, "bucket/key". Without
// one it names an object in the same bucket as the source object, the
// common case for resources linked from metadata.
func ResolveIdentifier(source event.ObjectRef, identifier string) event.ObjectRef {
	if bucket, key, found := strings.Cut(identifier, "/"); found && bucket != "" && key != "" {
		return event.ObjectRef{Bucket: bucket, Key: key}
	}
	return event.ObjectRef{Bucket: source.Bucket, Key: identifier}
}
