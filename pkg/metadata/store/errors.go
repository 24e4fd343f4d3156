// Package store defines the storage contract for the cached attribute
// service.
//
// An AttributeStore holds object attribute maps keyed by object
// reference, with a bounded lifetime so stale platform metadata ages
// out on its own. Implementations live in the badger and memory
// subpackages.
package store

import "errors"

// StoreError represents a domain error from attribute store operations.
//
// These are cache-semantics errors (entry not found, entry expired) as
// opposed to infrastructure errors (disk failure, closed database),
// which are wrapped and reported with ErrIOError.
type StoreError struct {
	// Code is the error category.
	Code ErrorCode

	// Message is a human-readable error description.
	Message string

	// Object is the "bucket/key" reference related to the error.
	Object string
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	if e.Object != "" {
		return e.Message + ": " + e.Object
	}
	return e.Message
}

// ErrorCode represents the category of an attribute store error.
type ErrorCode int

const (
	// ErrNotFound indicates no cached entry exists for the reference.
	// Callers treat this as a cache miss, not a failure.
	ErrNotFound ErrorCode = iota

	// ErrEncoding indicates a cached entry could not be decoded.
	ErrEncoding

	// ErrIOError indicates the underlying database failed.
	ErrIOError

	// ErrClosed indicates the store has been closed.
	ErrClosed
)

// NewNotFoundError creates a StoreError for a cache miss.
func NewNotFoundError(object string) *StoreError {
	return &StoreError{
		Code:    ErrNotFound,
		Message: "no cached attributes",
		Object:  object,
	}
}

// NewEncodingError creates a StoreError for an undecodable entry.
func NewEncodingError(object string, cause error) *StoreError {
	return &StoreError{
		Code:    ErrEncoding,
		Message: "failed to decode cached attributes: " + cause.Error(),
		Object:  object,
	}
}

// NewIOError creates a StoreError for an underlying database failure.
func NewIOError(object string, cause error) *StoreError {
	return &StoreError{
		Code:    ErrIOError,
		Message: "attribute store failure: " + cause.Error(),
		Object:  object,
	}
}

// NewClosedError creates a StoreError for operations on a closed store.
func NewClosedError() *StoreError {
	return &StoreError{
		Code:    ErrClosed,
		Message: "attribute store is closed",
	}
}

// IsNotFound returns true if the error is a cache miss.
func IsNotFound(err error) bool {
	var storeErr *StoreError
	return errors.As(err, &storeErr) && storeErr.Code == ErrNotFound
}
