package intake

import (
	"net/http"
	"sync"
	"time"

	"github.com/marmos91/triggerfish/internal/logger"
)

// httpResponder binds a RequestController to an in-flight HTTP
// response. Forward writes 204 No Content and flushes it to the wire,
// which releases the platform gateway and, transitively, the client.
//
// The forward timer force-releases the response when the controller
// chain holds it open for longer than the configured forward timeout.
// It may only fire while the request goroutine is still inside the
// engine; Conclude stops it before the handler returns.
type httpResponder struct {
	w http.ResponseWriter

	mu        sync.Mutex
	forwarded bool
	timer     *time.Timer
}

func newHTTPResponder(w http.ResponseWriter, forwardTimeout time.Duration, eventID string) *httpResponder {
	r := &httpResponder{w: w}
	r.timer = time.AfterFunc(forwardTimeout, func() {
		if r.forward() {
			logger.Warn("Forward timeout reached, response force-released",
				"event_id", eventID,
				"timeout", forwardTimeout.String())
		}
	})
	return r
}

// forward performs the release. Returns true when this call did it,
// false when the response was already released.
func (r *httpResponder) forward() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.forwarded {
		return false
	}
	r.forwarded = true

	r.w.WriteHeader(http.StatusNoContent)
	if f, ok := r.w.(http.Flusher); ok {
		f.Flush()
	}
	return true
}

// Forward releases the client response. Safe for concurrent use;
// repeat calls are no-ops returning nil.
func (r *httpResponder) Forward() error {
	r.forward()
	return nil
}

// Forwarded reports whether the response has been released.
func (r *httpResponder) Forwarded() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.forwarded
}

// Conclude stops the force-release timer. Called when the engine has
// returned and the response lifecycle is over.
func (r *httpResponder) Conclude() {
	r.timer.Stop()
}
