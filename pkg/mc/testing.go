package mc

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/marmos91/triggerfish/pkg/event"
)

// Recorder captures the ordered sequence of collaborator calls a
// microcontroller makes during an invocation. It implements all three
// collaborator interfaces over a single call log, so tests can assert
// cross-collaborator ordering (forward before submit) as well as per
// collaborator counts.
//
// The zero value is not usable; construct with NewRecorder.
type Recorder struct {
	mu         sync.Mutex
	calls      []string
	attributes map[string]string
	attrErr    error
	forwardErr error
}

// NewRecorder creates a Recorder with no attributes set.
func NewRecorder() *Recorder {
	return &Recorder{attributes: make(map[string]string)}
}

// SetAttribute sets a metadata attribute returned by the fake object.
func (r *Recorder) SetAttribute(name, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attributes[name] = value
}

// SetAttributeError makes every attribute lookup fail with err.
func (r *Recorder) SetAttributeError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attrErr = err
}

// SetForwardError makes every Forward call fail with err.
func (r *Recorder) SetForwardError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.forwardErr = err
}

// Calls returns a copy of the recorded call sequence. Entries are
// "forward", "attribute:<name>", and "submit:<identifier>" in the
// order the controller issued them.
func (r *Recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.calls))
	copy(out, r.calls)
	return out
}

// Forwards returns how many times Forward was called.
func (r *Recorder) Forwards() int {
	return r.count("forward")
}

// Submitted returns the submitted prefetch identifiers in order.
func (r *Recorder) Submitted() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, call := range r.calls {
		if id, ok := strings.CutPrefix(call, "submit:"); ok {
			out = append(out, id)
		}
	}
	return out
}

// API builds a capability bundle backed by this recorder, with a
// discard logger. The event may be nil for handlers that do not read
// it.
func (r *Recorder) API(ev *event.Event) *API {
	return &API{
		Log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		Request:  r,
		Object:   r,
		Prefetch: r,
		Event:    ev,
	}
}

// Forward implements RequestController.
func (r *Recorder) Forward() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, "forward")
	return r.forwardErr
}

// Attribute implements ObjectAccessor.
func (r *Recorder) Attribute(_ context.Context, name string) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, "attribute:"+name)
	if r.attrErr != nil {
		return "", false, r.attrErr
	}
	value, ok := r.attributes[name]
	return value, ok, nil
}

// Submit implements PrefetchSubmitter.
func (r *Recorder) Submit(identifier string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, "submit:"+identifier)
}

func (r *Recorder) count(call string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if c == call {
			n++
		}
	}
	return n
}
