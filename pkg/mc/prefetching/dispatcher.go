// Package prefetching implements the built-in prefetch dispatcher
// microcontroller.
//
// The dispatcher reacts to object-access events: it releases the
// held client response first, then reads the accessed object's
// "resources" metadata attribute, a comma-separated list naming the
// resources typically requested next, and submits one background
// prefetch per entry. The client never waits on prefetch work, and
// fetch failures stay invisible to it.
package prefetching

import (
	"context"
	"fmt"
	"strings"

	"github.com/marmos91/triggerfish/pkg/event"
	"github.com/marmos91/triggerfish/pkg/mc"
)

// DefaultAttribute is the metadata attribute listing related resources.
const DefaultAttribute = "resources"

// Name is the registry name of the dispatcher.
const Name = "prefetching"

// Dispatcher submits prefetches for the resources linked to an
// accessed object. Stateless; a single Dispatcher serves concurrent
// invocations.
type Dispatcher struct {
	attribute string
}

// New creates a Dispatcher reading the default "resources" attribute.
func New() *Dispatcher {
	return NewWithAttribute(DefaultAttribute)
}

// NewWithAttribute creates a Dispatcher reading the named metadata
// attribute instead of the default.
func NewWithAttribute(attribute string) *Dispatcher {
	if attribute == "" {
		attribute = DefaultAttribute
	}
	return &Dispatcher{attribute: attribute}
}

// Name implements mc.Microcontroller.
func (d *Dispatcher) Name() string {
	return Name
}

// Description implements mc.Microcontroller.
func (d *Dispatcher) Description() string {
	return "Prefetches the resources linked to the accessed object via its metadata"
}

// Invoke handles one object-access event.
//
// Side effects, in order: start log, response release, attribute read,
// one prefetch submission per non-empty token, end log. The release
// strictly precedes every submission, so client latency never depends
// on prefetch work.
//
// A missing attribute is reported as *mc.MissingMetadataError with the
// response already released and no prefetches submitted. An event
// without an object or request reference is rejected up front as
// *event.InvalidEventError with no side effects at all.
func (d *Dispatcher) Invoke(ctx context.Context, api *mc.API) error {
	if api.Event == nil {
		return event.NewInvalidEventError("no event attached to invocation")
	}
	if err := api.Event.Validate(); err != nil {
		return err
	}

	api.Log.Info("prefetch dispatch started", "object", api.Event.Object.String())

	if err := api.Request.Forward(); err != nil {
		return fmt.Errorf("releasing client response: %w", err)
	}

	value, ok, err := api.Object.Attribute(ctx, d.attribute)
	if err != nil {
		return fmt.Errorf("reading %q attribute: %w", d.attribute, err)
	}
	if !ok {
		return mc.NewMissingMetadataError(d.attribute)
	}

	submitted := 0
	for _, token := range strings.Split(value, ",") {
		identifier := strings.TrimSpace(token)
		if identifier == "" {
			continue
		}
		api.Prefetch.Submit(identifier)
		submitted++
	}

	api.Log.Info("prefetch dispatch completed", "submitted", submitted)
	return nil
}
