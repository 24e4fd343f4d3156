package engine

import (
	"context"
	"log/slog"
	"strings"

	"github.com/marmos91/triggerfish/internal/logger"
	"github.com/marmos91/triggerfish/pkg/event"
	"github.com/marmos91/triggerfish/pkg/gateway"
)

// assignmentNone is the attribute value that explicitly assigns no
// controller. The platform middleware writes it as a placeholder when
// clearing assignments, so it must not resolve to a controller name.
const assignmentNone = "none"

// resolve returns the controller names to invoke for the event:
// matching deployments in position order, then per-object assignments.
// Duplicates keep their first slot.
func (e *Engine) resolve(ctx context.Context, ev *event.Event, log *slog.Logger) []string {
	var names []string
	seen := make(map[string]bool)

	if e.deployments != nil {
		deployments, err := e.deployments.DeploymentsForTrigger(ctx, ev.Trigger)
		if err != nil {
			log.Warn("Listing deployments failed", logger.Err(err))
		}
		for _, d := range deployments {
			if !d.Matches(ev.Object.Bucket, ev.Object.Key) {
				continue
			}
			if seen[d.Controller] {
				continue
			}
			seen[d.Controller] = true
			names = append(names, d.Controller)
		}
	}

	if e.cfg.ObjectAssignments {
		names = append(names, e.assignedControllers(ctx, ev, seen, log)...)
	}

	return names
}

// assignedControllers reads the object's assignment attribute, named
// after the trigger ("onget", "onput", ...), holding a comma-separated
// controller list.
func (e *Engine) assignedControllers(ctx context.Context, ev *event.Event, seen map[string]bool, log *slog.Logger) []string {
	value, ok, err := e.attrs.Attribute(ctx, ev.Object, ev.Trigger.String())
	if err != nil {
		// A missing object simply has no assignments. Anything else is
		// a degraded metadata path worth surfacing.
		if !gateway.IsNotFound(err) {
			log.Warn("Reading controller assignment failed",
				logger.Attribute(ev.Trigger.String()),
				logger.Err(err))
		}
		return nil
	}
	if !ok {
		return nil
	}

	var names []string
	for _, token := range strings.Split(value, ",") {
		name := strings.TrimSpace(token)
		if name == "" || strings.EqualFold(name, assignmentNone) {
			continue
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}
