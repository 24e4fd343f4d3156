// Package mc defines the microcontroller contract: small, stateless
// event handlers invoked by the engine once per qualifying storage
// event.
//
// A microcontroller never talks to the platform directly. Everything
// it may touch arrives through the API capability bundle: a logger, a
// controller for the held client response, read-only access to the
// accessed object's metadata, and a best-effort prefetch submitter.
// The bundle makes every collaborator substitutable, so handlers are
// tested against the recording fakes in testing.go without a running
// platform.
package mc

import (
	"context"
	"log/slog"

	"github.com/marmos91/triggerfish/pkg/event"
)

// Microcontroller is an event handler bound to storage triggers.
//
// Invoke is called once per event. Implementations must be stateless
// across invocations and safe for concurrent invocation on independent
// events; any state lives in the collaborators behind the API.
type Microcontroller interface {
	// Invoke runs the handler against a single event. The returned
	// error is observed by the engine only; by the time a handler can
	// fail the client response has typically already been released.
	Invoke(ctx context.Context, api *API) error

	// Name returns the registry name of the controller.
	Name() string

	// Description returns a one-line description for CLI listings.
	Description() string
}

// RequestController releases the client-facing response held open by
// the platform gateway while controllers run.
type RequestController interface {
	// Forward releases the response. The release happens at most once;
	// repeat calls are no-ops returning nil, so several controllers in
	// a chain may each call Forward safely.
	Forward() error
}

// ObjectAccessor provides read-only access to the accessed object's
// user metadata. Handlers never mutate object state.
type ObjectAccessor interface {
	// Attribute returns the named metadata attribute. The second
	// return is false when the object carries no such attribute.
	Attribute(ctx context.Context, name string) (string, bool, error)
}

// PrefetchSubmitter hands prefetch work to the prefetch subsystem.
type PrefetchSubmitter interface {
	// Submit enqueues a best-effort prefetch for the identified
	// resource. Submission is non-blocking; ownership of the request
	// transfers entirely to the subsystem and no result is reported
	// back.
	Submit(identifier string)
}

// API is the capability bundle passed to each invocation.
type API struct {
	// Log is scoped to the invocation (event ID, trigger, controller).
	Log *slog.Logger

	// Request controls the held client response.
	Request RequestController

	// Object reads the accessed object's metadata.
	Object ObjectAccessor

	// Prefetch submits background fetch work.
	Prefetch PrefetchSubmitter

	// Event is the triggering event. Read-only.
	Event *event.Event
}
