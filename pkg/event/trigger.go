// Package event defines the trigger events delivered by the storage
// platform gateway.
//
// An Event describes a single object access (GET, PUT, DELETE) or a
// synthetic timer tick, carries a reference to the accessed object and
// to the in-flight client request, and is the unit of work handed to
// the engine. Events arrive over the intake listener as JSON and are
// validated before any controller runs.
package event

import "fmt"

// Trigger identifies the platform operation that produced an event.
//
// The four triggers match the assignment suffixes used by the storage
// platform middleware, so deployments and per-object assignment
// attributes share the same vocabulary.
type Trigger string

const (
	// TriggerGet fires when an object is read.
	TriggerGet Trigger = "onget"

	// TriggerPut fires when an object is created or overwritten.
	TriggerPut Trigger = "onput"

	// TriggerDelete fires when an object is deleted.
	TriggerDelete Trigger = "ondelete"

	// TriggerTimer fires on a schedule rather than on client traffic.
	TriggerTimer Trigger = "ontimer"
)

// IsValid returns true if this is a known trigger.
func (t Trigger) IsValid() bool {
	switch t {
	case TriggerGet, TriggerPut, TriggerDelete, TriggerTimer:
		return true
	default:
		return false
	}
}

// String returns the string representation of the trigger.
func (t Trigger) String() string {
	return string(t)
}

// Mutates returns true if the triggering operation changes object
// state. The engine invalidates cached attributes for these triggers
// before resolving controllers.
func (t Trigger) Mutates() bool {
	switch t {
	case TriggerPut, TriggerDelete:
		return true
	default:
		return false
	}
}

// ParseTrigger converts a string to a Trigger.
// Returns an error if the string is not a known trigger.
func ParseTrigger(s string) (Trigger, error) {
	t := Trigger(s)
	if !t.IsValid() {
		return "", fmt.Errorf("unknown trigger %q (valid: onget, onput, ondelete, ontimer)", s)
	}
	return t, nil
}

// AllTriggers returns all valid triggers for display/validation.
func AllTriggers() []Trigger {
	return []Trigger{TriggerGet, TriggerPut, TriggerDelete, TriggerTimer}
}
