package event

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

// ObjectRef identifies a stored object by bucket and key.
type ObjectRef struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
}

// String returns the canonical "bucket/key" form of the reference.
func (r ObjectRef) String() string {
	return r.Bucket + "/" + r.Key
}

// IsZero returns true if the reference carries no object.
func (r ObjectRef) IsZero() bool {
	return r.Bucket == "" && r.Key == ""
}

// RequestInfo describes the client request that produced the event.
//
// The request ID links the event back to the response held open by the
// platform gateway; an event without one cannot release anything and
// is rejected by Validate.
type RequestInfo struct {
	ID       string `json:"id"`
	Method   string `json:"method,omitempty"`
	ClientIP string `json:"client_ip,omitempty"`
}

// Event is a single object-access notification from the platform.
type Event struct {
	ID         uuid.UUID   `json:"id"`
	Trigger    Trigger     `json:"trigger"`
	Object     ObjectRef   `json:"object"`
	Request    RequestInfo `json:"request"`
	Account    string      `json:"account,omitempty"`
	OccurredAt time.Time   `json:"occurred_at"`
}

// New creates an event for the given trigger and object with a fresh
// ID and the current timestamp.
func New(trigger Trigger, object ObjectRef, request RequestInfo) *Event {
	return &Event{
		ID:         uuid.New(),
		Trigger:    trigger,
		Object:     object,
		Request:    request,
		OccurredAt: time.Now().UTC(),
	}
}

// EnsureID assigns a fresh ID and timestamp where the wire payload left
// them empty. Called by the intake listener before validation so every
// event entering the engine is traceable.
func (e *Event) EnsureID() {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}
}

// Validate checks the structural invariants every event must satisfy
// before it reaches a controller: a known trigger, an object reference,
// and a request reference. Violations are reported as
// *InvalidEventError.
func (e *Event) Validate() error {
	if !e.Trigger.IsValid() {
		return NewInvalidEventError(fmt.Sprintf("unknown trigger %q", string(e.Trigger)))
	}
	if e.Object.Bucket == "" {
		return NewInvalidEventError("missing object bucket")
	}
	if e.Object.Key == "" {
		return NewInvalidEventError("missing object key")
	}
	if e.Request.ID == "" {
		return NewInvalidEventError("missing request reference")
	}
	return nil
}

// Decode parses an event from its JSON wire form.
// Decode does not validate; callers run Validate separately so a parse
// failure and a semantic failure stay distinguishable.
func Decode(r io.Reader) (*Event, error) {
	var ev Event
	if err := json.NewDecoder(r).Decode(&ev); err != nil {
		return nil, NewInvalidEventError(fmt.Sprintf("malformed event payload: %v", err))
	}
	return &ev, nil
}

// Encode writes the event in its JSON wire form.
func (e *Event) Encode(w io.Writer) error {
	return json.NewEncoder(w).Encode(e)
}
