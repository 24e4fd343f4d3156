// Package memory implements the attribute store as an in-process map.
//
// Used by unit tests and single-node dev setups where persistence
// across restarts does not matter. Expiry is enforced lazily on read.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/marmos91/triggerfish/pkg/event"
	"github.com/marmos91/triggerfish/pkg/metadata/store"
)

// DefaultTTL matches the badger store default.
const DefaultTTL = 5 * time.Minute

type entry struct {
	attrs     map[string]string
	expiresAt time.Time
}

// Store is a mutex-guarded in-memory AttributeStore.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	closed  bool

	// now is replaceable so tests can age entries without sleeping.
	now func() time.Time
}

var _ store.AttributeStore = (*Store)(nil)

// New creates an in-memory attribute store. A non-positive ttl means
// DefaultTTL.
func New(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached attribute map for the reference.
func (s *Store) Get(ctx context.Context, ref event.ObjectRef) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, store.NewClosedError()
	}

	e, ok := s.entries[ref.String()]
	if !ok || s.now().After(e.expiresAt) {
		return nil, store.NewNotFoundError(ref.String())
	}

	// Copy so callers cannot mutate the cached map.
	attrs := make(map[string]string, len(e.attrs))
	for k, v := range e.attrs {
		attrs[k] = v
	}
	return attrs, nil
}

// Put caches the attribute map for the reference.
func (s *Store) Put(ctx context.Context, ref event.ObjectRef, attrs map[string]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return store.NewClosedError()
	}

	stored := make(map[string]string, len(attrs))
	for k, v := range attrs {
		stored[k] = v
	}

	s.entries[ref.String()] = entry{
		attrs:     stored,
		expiresAt: s.now().Add(s.ttl),
	}
	return nil
}

// Delete drops the cached entry for the reference.
func (s *Store) Delete(ctx context.Context, ref event.ObjectRef) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return store.NewClosedError()
	}

	delete(s.entries, ref.String())
	return nil
}

// HealthCheck reports whether the store is open.
func (s *Store) HealthCheck(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return store.NewClosedError()
	}
	return nil
}

// Close drops all entries and rejects further operations.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.entries = nil
	return nil
}

// SetClockForTesting replaces the store clock.
func (s *Store) SetClockForTesting(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}
