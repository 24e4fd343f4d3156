package logger

import "log/slog"

// Standard field keys for structured logging.
// Use these keys consistently across all log statements so that event
// pipelines can be correlated end to end in log aggregation.
const (
	// ========================================================================
	// Distributed Tracing
	// ========================================================================
	KeyTraceID = "trace_id" // OpenTelemetry trace ID for event correlation
	KeySpanID  = "span_id"  // OpenTelemetry span ID for operation tracking

	// ========================================================================
	// Events & Triggers
	// ========================================================================
	KeyEventID   = "event_id"   // Platform event ID (UUID)
	KeyTrigger   = "trigger"    // Trigger kind: onget, onput, ondelete, ontimer
	KeyRequestID = "request_id" // Platform request ID attached to the event
	KeyAccount   = "account"    // Tenant account (if the platform is multi-tenant)

	// ========================================================================
	// Object Storage
	// ========================================================================
	KeyBucket     = "bucket"     // Bucket holding the accessed object
	KeyKey        = "key"        // Object key
	KeyIdentifier = "identifier" // Raw object identifier as listed in metadata
	KeyAttribute  = "attribute"  // Metadata attribute name
	KeyRegion     = "region"     // Gateway region
	KeyEndpoint   = "endpoint"   // Gateway endpoint URL
	KeyAttempt    = "attempt"    // Retry attempt number
	KeyMaxRetries = "max_retries" // Maximum retry attempts

	// ========================================================================
	// Microcontrollers
	// ========================================================================
	KeyController = "controller" // Registered microcontroller name
	KeyDeployment = "deployment" // Deployment name that bound the controller
	KeyOutcome    = "outcome"    // Invocation outcome: completed, recovered, failed

	// ========================================================================
	// Prefetch Subsystem
	// ========================================================================
	KeyLane         = "lane"          // Queue lane: demand, speculative
	KeyQueueDepth   = "queue_depth"   // Items waiting in a queue lane
	KeySubmitted    = "submitted"     // Number of prefetch submissions
	KeyBytesFetched = "bytes_fetched" // Bytes pulled through the gateway by a warm

	// ========================================================================
	// Client Identification
	// ========================================================================
	KeyClientIP = "client_ip" // Client IP address
	KeyUsername = "username"  // Admin API username

	// ========================================================================
	// Operation Metadata
	// ========================================================================
	KeyDurationMs = "duration_ms" // Operation duration in milliseconds
	KeyError      = "error"       // Error message
	KeyStatus     = "status"      // HTTP or store status code
	KeySource     = "source"      // Data source: cache, gateway
	KeyOperation  = "operation"   // Sub-operation type for complex operations

	// ========================================================================
	// Stores
	// ========================================================================
	KeyStoreType = "store_type" // Store type: badger, memory, sqlite, postgres
	KeyCacheHit  = "cache_hit"  // Attribute cache hit indicator
	KeyEntries   = "entries"    // Number of entries touched or returned
)

// ============================================================================
// Field constructors for type safety
// These functions provide type-safe construction of slog.Attr values.
// ============================================================================

// TraceID returns a slog.Attr for OpenTelemetry trace ID
func TraceID(id string) slog.Attr {
	return slog.String(KeyTraceID, id)
}

// SpanID returns a slog.Attr for OpenTelemetry span ID
func SpanID(id string) slog.Attr {
	return slog.String(KeySpanID, id)
}

// EventID returns a slog.Attr for the platform event ID
func EventID(id string) slog.Attr {
	return slog.String(KeyEventID, id)
}

// Trigger returns a slog.Attr for the trigger kind
func Trigger(t string) slog.Attr {
	return slog.String(KeyTrigger, t)
}

// RequestID returns a slog.Attr for the platform request ID
func RequestID(id string) slog.Attr {
	return slog.String(KeyRequestID, id)
}

// Account returns a slog.Attr for the tenant account
func Account(name string) slog.Attr {
	return slog.String(KeyAccount, name)
}

// Bucket returns a slog.Attr for a bucket name
func Bucket(name string) slog.Attr {
	return slog.String(KeyBucket, name)
}

// Key returns a slog.Attr for an object key
func Key(k string) slog.Attr {
	return slog.String(KeyKey, k)
}

// Identifier returns a slog.Attr for a raw object identifier
func Identifier(id string) slog.Attr {
	return slog.String(KeyIdentifier, id)
}

// Attribute returns a slog.Attr for a metadata attribute name
func Attribute(name string) slog.Attr {
	return slog.String(KeyAttribute, name)
}

// Region returns a slog.Attr for the gateway region
func Region(r string) slog.Attr {
	return slog.String(KeyRegion, r)
}

// Endpoint returns a slog.Attr for the gateway endpoint
func Endpoint(url string) slog.Attr {
	return slog.String(KeyEndpoint, url)
}

// Attempt returns a slog.Attr for a retry attempt number
func Attempt(n int) slog.Attr {
	return slog.Int(KeyAttempt, n)
}

// MaxRetries returns a slog.Attr for maximum retry attempts
func MaxRetries(n int) slog.Attr {
	return slog.Int(KeyMaxRetries, n)
}

// Controller returns a slog.Attr for a microcontroller name
func Controller(name string) slog.Attr {
	return slog.String(KeyController, name)
}

// Deployment returns a slog.Attr for a deployment name
func Deployment(name string) slog.Attr {
	return slog.String(KeyDeployment, name)
}

// Outcome returns a slog.Attr for an invocation outcome
func Outcome(o string) slog.Attr {
	return slog.String(KeyOutcome, o)
}

// Lane returns a slog.Attr for a prefetch queue lane
func Lane(l string) slog.Attr {
	return slog.String(KeyLane, l)
}

// QueueDepth returns a slog.Attr for queue depth
func QueueDepth(n int) slog.Attr {
	return slog.Int(KeyQueueDepth, n)
}

// Submitted returns a slog.Attr for a prefetch submission count
func Submitted(n int) slog.Attr {
	return slog.Int(KeySubmitted, n)
}

// BytesFetched returns a slog.Attr for bytes pulled by a warm
func BytesFetched(n int64) slog.Attr {
	return slog.Int64(KeyBytesFetched, n)
}

// ClientIP returns a slog.Attr for client IP address
func ClientIP(addr string) slog.Attr {
	return slog.String(KeyClientIP, addr)
}

// Username returns a slog.Attr for username
func Username(name string) slog.Attr {
	return slog.String(KeyUsername, name)
}

// DurationMs returns a slog.Attr for duration in milliseconds
func DurationMs(ms float64) slog.Attr {
	return slog.Float64(KeyDurationMs, ms)
}

// Err returns a slog.Attr for an error
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// Status returns a slog.Attr for a status code
func Status(code int) slog.Attr {
	return slog.Int(KeyStatus, code)
}

// Source returns a slog.Attr for data source
func Source(src string) slog.Attr {
	return slog.String(KeySource, src)
}

// Operation returns a slog.Attr for sub-operation type
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// StoreType returns a slog.Attr for store type
func StoreType(t string) slog.Attr {
	return slog.String(KeyStoreType, t)
}

// CacheHit returns a slog.Attr for cache hit indicator
func CacheHit(hit bool) slog.Attr {
	return slog.Bool(KeyCacheHit, hit)
}

// Entries returns a slog.Attr for number of entries
func Entries(n int) slog.Attr {
	return slog.Int(KeyEntries, n)
}
