package store

import (
	"context"

	"github.com/marmos91/triggerfish/pkg/event"
)

// AttributeStore caches object attribute maps keyed by object
// reference.
//
// Entries are written with the store's configured TTL; an expired
// entry behaves exactly like a missing one. The store never talks to
// the platform itself; the metadata service populates it on cache
// misses.
type AttributeStore interface {
	// Get returns the cached attribute map for the reference.
	// Returns a StoreError with ErrNotFound when no live entry exists.
	Get(ctx context.Context, ref event.ObjectRef) (map[string]string, error)

	// Put caches the attribute map for the reference, replacing any
	// existing entry and restarting its lifetime.
	Put(ctx context.Context, ref event.ObjectRef, attrs map[string]string) error

	// Delete drops the cached entry for the reference.
	// Deleting an absent entry is not an error.
	Delete(ctx context.Context, ref event.ObjectRef) error

	// HealthCheck verifies the store is operational.
	HealthCheck(ctx context.Context) error

	// Close releases store resources.
	Close() error
}
