package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Common attribute keys for event processing spans.
// These follow OpenTelemetry semantic conventions where applicable.
const (
	// ========================================================================
	// Client attributes
	// ========================================================================
	AttrClientIP   = "client.ip"
	AttrClientAddr = "client.address"

	// ========================================================================
	// Event attributes
	// ========================================================================
	AttrEventID   = "event.id"
	AttrTrigger   = "event.trigger"
	AttrRequestID = "event.request_id"
	AttrAccount   = "event.account"

	// ========================================================================
	// Controller attributes
	// ========================================================================
	AttrController = "controller.name"
	AttrOutcome    = "controller.outcome"
	AttrSubmitted  = "controller.submitted"
	AttrForwarded  = "controller.forwarded"

	// ========================================================================
	// Prefetch attributes
	// ========================================================================
	AttrLane       = "prefetch.lane"
	AttrIdentifier = "prefetch.identifier"
	AttrBytes      = "prefetch.bytes"

	// ========================================================================
	// Gateway attributes
	// ========================================================================
	AttrGatewayOp = "gateway.operation"

	// ========================================================================
	// User/Auth attributes
	// ========================================================================
	AttrUsername = "user.name"
	AttrAuth     = "auth.method"

	// ========================================================================
	// Attribute cache
	// ========================================================================
	AttrCacheHit    = "cache.hit"
	AttrCacheSource = "cache.source"
	AttrAttribute   = "metadata.attribute"

	// ========================================================================
	// Storage backend attributes
	// ========================================================================
	AttrStoreName = "store.name"
	AttrStoreType = "store.type"
	AttrBucket    = "storage.bucket"
	AttrKey       = "storage.key"
	AttrRegion    = "storage.region"
)

// Span names for operations.
// Format: <component>.<operation>
const (
	// Root span for event processing
	SpanEventHandle = "event.handle"

	// Per-trigger event spans
	SpanEventOnGet    = "event.onget"
	SpanEventOnPut    = "event.onput"
	SpanEventOnDelete = "event.ondelete"
	SpanEventOnTimer  = "event.ontimer"

	// Engine internals
	SpanEngineResolve = "engine.resolve"
	SpanEngineInvoke  = "engine.invoke"

	// Attribute service
	SpanMetaLookup     = "metadata.lookup"
	SpanMetaInvalidate = "metadata.invalidate"

	// Gateway operations
	SpanGatewayHead   = "gateway.head_object"
	SpanGatewayWarm   = "gateway.warm"
	SpanGatewayHealth = "gateway.health"

	// Prefetch queue
	SpanPrefetchSubmit = "prefetch.submit"
	SpanPrefetchFetch  = "prefetch.fetch"

	// Journal
	SpanJournalRecord = "journal.record"
	SpanJournalRecent = "journal.recent"
)

// ClientIP returns an attribute for client IP address
func ClientIP(ip string) attribute.KeyValue {
	return attribute.String(AttrClientIP, ip)
}

// ClientAddr returns an attribute for full client address
func ClientAddr(addr string) attribute.KeyValue {
	return attribute.String(AttrClientAddr, addr)
}

// EventID returns an attribute for event identifier
func EventID(id string) attribute.KeyValue {
	return attribute.String(AttrEventID, id)
}

// Trigger returns an attribute for event trigger name
func Trigger(trigger string) attribute.KeyValue {
	return attribute.String(AttrTrigger, trigger)
}

// RequestID returns an attribute for platform request ID
func RequestID(id string) attribute.KeyValue {
	return attribute.String(AttrRequestID, id)
}

// Account returns an attribute for the storage account
func Account(account string) attribute.KeyValue {
	return attribute.String(AttrAccount, account)
}

// Controller returns an attribute for controller name
func Controller(name string) attribute.KeyValue {
	return attribute.String(AttrController, name)
}

// Outcome returns an attribute for invocation outcome
func Outcome(outcome string) attribute.KeyValue {
	return attribute.String(AttrOutcome, outcome)
}

// Submitted returns an attribute for the number of prefetches submitted
func Submitted(n int) attribute.KeyValue {
	return attribute.Int(AttrSubmitted, n)
}

// Forwarded returns an attribute for the response release indicator
func Forwarded(forwarded bool) attribute.KeyValue {
	return attribute.Bool(AttrForwarded, forwarded)
}

// Lane returns an attribute for prefetch lane
func Lane(lane string) attribute.KeyValue {
	return attribute.String(AttrLane, lane)
}

// Identifier returns an attribute for prefetch resource identifier
func Identifier(id string) attribute.KeyValue {
	return attribute.String(AttrIdentifier, id)
}

// FetchedBytes returns an attribute for bytes pulled through the gateway
func FetchedBytes(n int64) attribute.KeyValue {
	return attribute.Int64(AttrBytes, n)
}

// GatewayOp returns an attribute for gateway operation name
func GatewayOp(op string) attribute.KeyValue {
	return attribute.String(AttrGatewayOp, op)
}

// Username returns an attribute for username
func Username(name string) attribute.KeyValue {
	return attribute.String(AttrUsername, name)
}

// AuthMethod returns an attribute for authentication method
func AuthMethod(method string) attribute.KeyValue {
	return attribute.String(AttrAuth, method)
}

// CacheHit returns an attribute for cache hit indicator
func CacheHit(hit bool) attribute.KeyValue {
	return attribute.Bool(AttrCacheHit, hit)
}

// CacheSource returns an attribute for cache source
func CacheSource(source string) attribute.KeyValue {
	return attribute.String(AttrCacheSource, source)
}

// Attribute returns an attribute for metadata attribute name
func Attribute(name string) attribute.KeyValue {
	return attribute.String(AttrAttribute, name)
}

// StoreName returns an attribute for store name
func StoreName(name string) attribute.KeyValue {
	return attribute.String(AttrStoreName, name)
}

// StoreType returns an attribute for store type
func StoreType(t string) attribute.KeyValue {
	return attribute.String(AttrStoreType, t)
}

// Bucket returns an attribute for bucket name
func Bucket(name string) attribute.KeyValue {
	return attribute.String(AttrBucket, name)
}

// StorageKey returns an attribute for object key
func StorageKey(key string) attribute.KeyValue {
	return attribute.String(AttrKey, key)
}

// Region returns an attribute for cloud region
func Region(region string) attribute.KeyValue {
	return attribute.String(AttrRegion, region)
}

// StartEventSpan starts a span for processing an object-access event.
// This is a convenience function that sets common attributes.
func StartEventSpan(ctx context.Context, trigger string, eventID string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := []attribute.KeyValue{
		Trigger(trigger),
	}
	if eventID != "" {
		allAttrs = append(allAttrs, EventID(eventID))
	}
	allAttrs = append(allAttrs, attrs...)

	return StartSpan(ctx, "event."+trigger, trace.WithAttributes(allAttrs...))
}

// StartControllerSpan starts a span for a single controller invocation.
func StartControllerSpan(ctx context.Context, controller string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := []attribute.KeyValue{
		Controller(controller),
	}
	allAttrs = append(allAttrs, attrs...)

	return StartSpan(ctx, "controller."+controller, trace.WithAttributes(allAttrs...))
}

// StartGatewaySpan starts a span for a platform gateway operation.
func StartGatewaySpan(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := []attribute.KeyValue{
		GatewayOp(operation),
	}
	allAttrs = append(allAttrs, attrs...)

	return StartSpan(ctx, "gateway."+operation, trace.WithAttributes(allAttrs...))
}

// StartMetadataSpan starts a span for an attribute service operation.
func StartMetadataSpan(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return StartSpan(ctx, "metadata."+operation, trace.WithAttributes(attrs...))
}

// StartPrefetchSpan starts a span for a prefetch queue operation.
func StartPrefetchSpan(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return StartSpan(ctx, "prefetch."+operation, trace.WithAttributes(attrs...))
}
