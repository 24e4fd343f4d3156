package logger

import (
	"context"
	"time"
)

// contextKey is a private type for context keys to avoid collisions
type contextKey struct{}

// logContextKey is the key for LogContext in context.Context
var logContextKey = contextKey{}

// LogContext holds event-scoped logging context
type LogContext struct {
	TraceID    string    // OpenTelemetry trace ID
	SpanID     string    // OpenTelemetry span ID
	EventID    string    // Platform event ID
	Trigger    string    // Trigger kind (onget, onput, ondelete, ontimer)
	Bucket     string    // Accessed object's bucket
	Key        string    // Accessed object's key
	Controller string    // Microcontroller currently being invoked
	ClientIP   string    // Originating client IP as reported by the gateway
	StartTime  time.Time // For duration calculation
}

// WithContext returns a new context with the given LogContext
func WithContext(ctx context.Context, lc *LogContext) context.Context {
	return context.WithValue(ctx, logContextKey, lc)
}

// FromContext retrieves the LogContext from context, or nil if not present
func FromContext(ctx context.Context) *LogContext {
	if ctx == nil {
		return nil
	}
	lc, _ := ctx.Value(logContextKey).(*LogContext)
	return lc
}

// NewLogContext creates a new LogContext with the given client IP
func NewLogContext(clientIP string) *LogContext {
	return &LogContext{
		ClientIP:  clientIP,
		StartTime: time.Now(),
	}
}

// Clone creates a copy of the LogContext
func (lc *LogContext) Clone() *LogContext {
	if lc == nil {
		return nil
	}
	return &LogContext{
		TraceID:    lc.TraceID,
		SpanID:     lc.SpanID,
		EventID:    lc.EventID,
		Trigger:    lc.Trigger,
		Bucket:     lc.Bucket,
		Key:        lc.Key,
		Controller: lc.Controller,
		ClientIP:   lc.ClientIP,
		StartTime:  lc.StartTime,
	}
}

// WithEvent returns a copy with the event ID and trigger set
func (lc *LogContext) WithEvent(eventID, trigger string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.EventID = eventID
		clone.Trigger = trigger
	}
	return clone
}

// WithObject returns a copy with the accessed object reference set
func (lc *LogContext) WithObject(bucket, key string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.Bucket = bucket
		clone.Key = key
	}
	return clone
}

// WithController returns a copy with the controller name set
func (lc *LogContext) WithController(name string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.Controller = name
	}
	return clone
}

// WithTrace returns a copy with trace info set
func (lc *LogContext) WithTrace(traceID, spanID string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.TraceID = traceID
		clone.SpanID = spanID
	}
	return clone
}

// DurationMs returns the duration since StartTime in milliseconds
func (lc *LogContext) DurationMs() float64 {
	if lc == nil || lc.StartTime.IsZero() {
		return 0
	}
	return float64(time.Since(lc.StartTime).Microseconds()) / 1000.0
}
