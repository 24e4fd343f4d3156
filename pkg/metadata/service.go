// Package metadata provides cached read access to object attributes.
//
// Handlers read attributes on every qualifying event and the same
// object is typically hit in bursts, so the service keeps a
// read-through cache in front of the platform gateway: lookups check
// the attribute store first and only fall through to the platform on
// a miss. Attributes are never written back to the platform; the
// engine invalidates entries on mutating triggers and the store TTL
// bounds staleness otherwise.
package metadata

import (
	"context"
	"fmt"

	"github.com/marmos91/triggerfish/internal/logger"
	"github.com/marmos91/triggerfish/pkg/event"
	"github.com/marmos91/triggerfish/pkg/gateway"
	"github.com/marmos91/triggerfish/pkg/mc"
	"github.com/marmos91/triggerfish/pkg/metadata/store"
)

// CacheMetrics records attribute cache outcomes.
//
// A nil CacheMetrics disables recording with zero overhead; the
// service nil-checks before every call.
type CacheMetrics interface {
	// RecordHit counts a lookup served from the store.
	RecordHit()

	// RecordMiss counts a lookup that fell through to the gateway.
	RecordMiss()

	// RecordInvalidation counts a cache entry dropped by the engine.
	RecordInvalidation()
}

// Service is the cached attribute service.
type Service struct {
	store   store.AttributeStore
	gw      gateway.Gateway
	metrics CacheMetrics
}

// NewService creates a Service over the given store and gateway.
// metrics may be nil to disable cache metrics.
func NewService(attrStore store.AttributeStore, gw gateway.Gateway, metrics CacheMetrics) *Service {
	return &Service{
		store:   attrStore,
		gw:      gw,
		metrics: metrics,
	}
}

// Attribute returns the named metadata attribute of the referenced
// object. The second return is false when the object exists but does
// not carry the attribute.
func (s *Service) Attribute(ctx context.Context, ref event.ObjectRef, name string) (string, bool, error) {
	attrs, err := s.attributes(ctx, ref)
	if err != nil {
		return "", false, err
	}

	value, ok := attrs[name]
	return value, ok, nil
}

// attributes returns the full attribute map, reading through the cache.
func (s *Service) attributes(ctx context.Context, ref event.ObjectRef) (map[string]string, error) {
	attrs, err := s.store.Get(ctx, ref)
	if err == nil {
		if s.metrics != nil {
			s.metrics.RecordHit()
		}
		return attrs, nil
	}
	if !store.IsNotFound(err) {
		// A degraded cache must not take reads down with it.
		logger.WarnCtx(ctx, "Attribute store lookup failed, falling through to gateway",
			"object", ref.String(), "error", err)
	}
	if s.metrics != nil {
		s.metrics.RecordMiss()
	}

	attrs, err = s.gw.ObjectMetadata(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("fetching object metadata: %w", err)
	}

	if putErr := s.store.Put(ctx, ref, attrs); putErr != nil {
		logger.WarnCtx(ctx, "Failed to cache object attributes",
			"object", ref.String(), "error", putErr)
	}

	return attrs, nil
}

// Invalidate drops the cached attributes for the reference. Called by
// the engine on mutating triggers so handlers observe fresh metadata.
func (s *Service) Invalidate(ctx context.Context, ref event.ObjectRef) error {
	if s.metrics != nil {
		s.metrics.RecordInvalidation()
	}
	if err := s.store.Delete(ctx, ref); err != nil {
		return fmt.Errorf("invalidating cached attributes: %w", err)
	}
	return nil
}

// HealthCheck verifies the backing store is operational.
func (s *Service) HealthCheck(ctx context.Context) error {
	return s.store.HealthCheck(ctx)
}

// Close releases the backing store.
func (s *Service) Close() error {
	return s.store.Close()
}

// For returns a read-only accessor bound to one object, the shape
// handlers consume through their capability bundle.
func (s *Service) For(ref event.ObjectRef) *BoundObject {
	return &BoundObject{svc: s, ref: ref}
}

// BoundObject is an ObjectAccessor view of the service scoped to a
// single object reference.
type BoundObject struct {
	svc *Service
	ref event.ObjectRef
}

var _ mc.ObjectAccessor = (*BoundObject)(nil)

// Attribute implements mc.ObjectAccessor.
func (b *BoundObject) Attribute(ctx context.Context, name string) (string, bool, error) {
	return b.svc.Attribute(ctx, b.ref, name)
}
