// Package engine dispatches storage events to deployed microcontrollers.
//
// The engine sits between the intake listener and the controllers: it
// validates each event, resolves which controllers apply (persistent
// deployments first, then per-object assignment attributes), and
// invokes them in order with a scoped capability bundle. Controller
// failures never reach the client; the engine guarantees the held
// response is released exactly once per event even when every
// controller fails or none is deployed.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/marmos91/triggerfish/internal/logger"
	"github.com/marmos91/triggerfish/internal/telemetry"
	"github.com/marmos91/triggerfish/pkg/controlplane/models"
	"github.com/marmos91/triggerfish/pkg/event"
	"github.com/marmos91/triggerfish/pkg/journal"
	"github.com/marmos91/triggerfish/pkg/mc"
	"github.com/marmos91/triggerfish/pkg/metadata"
	"github.com/marmos91/triggerfish/pkg/prefetch"
)

// DefaultInvokeTimeout bounds a single controller invocation.
const DefaultInvokeTimeout = 30 * time.Second

// EngineMetrics defines the metrics interface for the engine.
// A nil implementation disables metrics collection.
type EngineMetrics interface {
	// RecordEvent counts an accepted event by trigger.
	RecordEvent(trigger string)

	// RecordInvocation counts a finished invocation by controller and outcome.
	RecordInvocation(controller, outcome string)

	// ObserveInvocation records how long an invocation took.
	ObserveInvocation(controller string, duration time.Duration)

	// ObserveForwardLatency records the time from event receipt to
	// response release.
	ObserveForwardLatency(trigger string, duration time.Duration)
}

// DeploymentSource lists the enabled deployments for a trigger, ordered
// by position. The control plane store implements this.
type DeploymentSource interface {
	DeploymentsForTrigger(ctx context.Context, trigger event.Trigger) ([]models.Deployment, error)
}

// Config holds the engine tunables.
type Config struct {
	// InvokeTimeout bounds each controller invocation.
	InvokeTimeout time.Duration `mapstructure:"invoke_timeout" yaml:"invoke_timeout"`

	// ObjectAssignments enables resolving controllers from per-object
	// assignment attributes (an attribute named after the trigger,
	// holding a comma-separated controller list).
	ObjectAssignments bool `mapstructure:"object_assignments" yaml:"object_assignments"`
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		InvokeTimeout:     DefaultInvokeTimeout,
		ObjectAssignments: true,
	}
}

// Options carries the engine's collaborators.
type Options struct {
	// Registry holds the available controllers. Required.
	Registry *Registry

	// Attributes serves object metadata reads. Required.
	Attributes *metadata.Service

	// Queue accepts prefetch submissions. Optional; controllers see a
	// submitter that silently discards when absent.
	Queue *prefetch.Queue

	// Deployments lists the persistent controller bindings. Optional.
	Deployments DeploymentSource

	// Journal records invocations. Optional; nil disables journaling.
	Journal journal.Journal

	// Metrics records engine metrics. Optional.
	Metrics EngineMetrics

	// Config holds the tunables. Zero values fall back to defaults.
	Config Config
}

// Engine routes events to controllers.
type Engine struct {
	registry    *Registry
	attrs       *metadata.Service
	queue       *prefetch.Queue
	deployments DeploymentSource
	journal     journal.Journal
	metrics     EngineMetrics
	cfg         Config
}

// New creates an engine from the given options.
func New(opts Options) (*Engine, error) {
	if opts.Registry == nil {
		return nil, fmt.Errorf("controller registry is required")
	}
	if opts.Attributes == nil {
		return nil, fmt.Errorf("attribute service is required")
	}

	cfg := opts.Config
	if cfg.InvokeTimeout <= 0 {
		cfg.InvokeTimeout = DefaultInvokeTimeout
	}

	jrnl := opts.Journal
	if jrnl == nil {
		jrnl = journal.NewNoop()
	}

	return &Engine{
		registry:    opts.Registry,
		attrs:       opts.Attributes,
		queue:       opts.Queue,
		deployments: opts.Deployments,
		journal:     jrnl,
		metrics:     opts.Metrics,
		cfg:         cfg,
	}, nil
}

// Registry returns the controller registry.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Handle processes one event end to end: validate, invalidate cached
// attributes for mutating triggers, resolve the applicable controllers,
// invoke them in order, and release the client response.
//
// Handle returns an error only for events rejected before any side
// effect: a nil event or one failing validation, reported as
// *event.InvalidEventError. Once an event is accepted, controller
// failures are absorbed, journaled, and logged; the client response is
// released regardless.
func (e *Engine) Handle(ctx context.Context, ev *event.Event, responder mc.RequestController) error {
	if ev == nil {
		return event.NewInvalidEventError("nil event")
	}
	ev.EnsureID()
	if err := ev.Validate(); err != nil {
		return err
	}

	ctx, span := telemetry.StartEventSpan(ctx, ev.Trigger.String(), ev.ID.String(),
		telemetry.Bucket(ev.Object.Bucket),
		telemetry.StorageKey(ev.Object.Key))
	defer span.End()

	log := e.eventLogger(ev)
	log.Debug("Event received")

	if ev.Trigger.Mutates() {
		if err := e.attrs.Invalidate(ctx, ev.Object); err != nil {
			log.Warn("Attribute invalidation failed", logger.Err(err))
		}
	}

	names := e.resolve(ctx, ev, log)
	return e.process(ctx, ev, names, responder, log)
}

// HandleDirect validates the event and invokes a single named
// controller, bypassing deployment resolution. The timer source uses
// it after matching a deployment itself, and the admin API uses it for
// manual invocations.
func (e *Engine) HandleDirect(ctx context.Context, ev *event.Event, controller string, responder mc.RequestController) error {
	if ev == nil {
		return event.NewInvalidEventError("nil event")
	}
	ev.EnsureID()
	if err := ev.Validate(); err != nil {
		return err
	}

	ctx, span := telemetry.StartEventSpan(ctx, ev.Trigger.String(), ev.ID.String(),
		telemetry.Bucket(ev.Object.Bucket),
		telemetry.StorageKey(ev.Object.Key),
		telemetry.Controller(controller))
	defer span.End()

	return e.process(ctx, ev, []string{controller}, responder, e.eventLogger(ev))
}

// process runs the resolved controller chain and releases the response.
func (e *Engine) process(ctx context.Context, ev *event.Event, names []string, responder mc.RequestController, log *slog.Logger) error {
	received := time.Now()
	if e.metrics != nil {
		e.metrics.RecordEvent(ev.Trigger.String())
	}

	if responder == nil {
		responder = noopResponder{}
	}
	tracked := &trackedResponder{inner: responder}

	if len(names) == 0 {
		log.Debug("No controllers resolved for event")
	}
	for _, name := range names {
		e.invoke(ctx, ev, name, tracked, log)
	}

	// The response is released exactly once per event: by the first
	// controller that forwards, or here when none did.
	if err := tracked.Forward(); err != nil {
		log.Error("Releasing client response failed", logger.Err(err))
	} else if e.metrics != nil {
		e.metrics.ObserveForwardLatency(ev.Trigger.String(), tracked.ForwardedAt().Sub(received))
	}

	return nil
}

// invoke runs one controller against the event and journals the result.
func (e *Engine) invoke(ctx context.Context, ev *event.Event, name string, tracked *trackedResponder, log *slog.Logger) {
	entry := journal.Entry{
		EventID:    ev.ID,
		Trigger:    ev.Trigger,
		Bucket:     ev.Object.Bucket,
		Key:        ev.Object.Key,
		Controller: name,
		InvokedAt:  time.Now(),
	}

	controller, err := e.registry.Get(name)
	if err != nil {
		log.Error("Deployed controller not registered", logger.Controller(name))
		entry.Outcome = journal.OutcomeFailed
		entry.Error = err.Error()
		entry.Forwarded = tracked.Forwarded()
		e.finish(entry)
		return
	}

	ictx, span := telemetry.StartControllerSpan(ctx, name, telemetry.Trigger(ev.Trigger.String()))
	defer span.End()

	ictx, cancel := context.WithTimeout(ictx, e.cfg.InvokeTimeout)
	defer cancel()

	lane := &countingLane{inner: &speculativeLane{queue: e.queue, source: ev.Object}}
	api := &mc.API{
		Log:      log.With(logger.Controller(name)),
		Request:  tracked,
		Object:   e.attrs.For(ev.Object),
		Prefetch: lane,
		Event:    ev,
	}

	start := time.Now()
	err = e.safeInvoke(ictx, controller, api)
	entry.Duration = time.Since(start)
	entry.Submitted = lane.Count()
	entry.Forwarded = tracked.Forwarded()

	switch {
	case err == nil:
		entry.Outcome = journal.OutcomeCompleted
		log.Debug("Controller completed",
			logger.Controller(name),
			logger.Submitted(entry.Submitted),
			logger.DurationMs(logger.Duration(start)))
	case mc.IsMissingMetadata(err):
		// Missing metadata is a normal condition for objects without
		// assignments; the chain continues.
		entry.Outcome = journal.OutcomeRecovered
		entry.Error = err.Error()
		log.Warn("Controller recovered",
			logger.Controller(name),
			logger.Err(err))
	default:
		entry.Outcome = journal.OutcomeFailed
		entry.Error = err.Error()
		telemetry.RecordError(ictx, err)
		log.Error("Controller failed",
			logger.Controller(name),
			logger.Err(err),
			logger.DurationMs(logger.Duration(start)))
	}

	telemetry.SetAttributes(ictx,
		telemetry.Outcome(entry.Outcome.String()),
		telemetry.Submitted(entry.Submitted))

	e.finish(entry)
}

// safeInvoke shields the engine from controller panics.
func (e *Engine) safeInvoke(ctx context.Context, controller mc.Microcontroller, api *mc.API) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("controller panic: %v", r)
		}
	}()
	return controller.Invoke(ctx, api)
}

// finish journals the invocation and records metrics.
func (e *Engine) finish(entry journal.Entry) {
	e.journal.Record(entry)
	if e.metrics != nil {
		e.metrics.RecordInvocation(entry.Controller, entry.Outcome.String())
		e.metrics.ObserveInvocation(entry.Controller, entry.Duration)
	}
}

func (e *Engine) eventLogger(ev *event.Event) *slog.Logger {
	return logger.With(
		logger.EventID(ev.ID.String()),
		logger.Trigger(ev.Trigger.String()),
		logger.Bucket(ev.Object.Bucket),
		logger.Key(ev.Object.Key))
}

// ============================================================================
// Responders and lanes
// ============================================================================

// trackedResponder wraps the intake responder so a chain of controllers
// releases the client response at most once. A failed release is
// retried on the next Forward call; a successful one makes every later
// call a no-op.
type trackedResponder struct {
	mu          sync.Mutex
	inner       mc.RequestController
	forwarded   bool
	forwardedAt time.Time
}

// Forward implements mc.RequestController.
func (t *trackedResponder) Forward() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.forwarded {
		return nil
	}
	if err := t.inner.Forward(); err != nil {
		return err
	}
	t.forwarded = true
	t.forwardedAt = time.Now()
	return nil
}

// Forwarded reports whether the response has been released.
func (t *trackedResponder) Forwarded() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.forwarded
}

// ForwardedAt returns when the response was released.
func (t *trackedResponder) ForwardedAt() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.forwardedAt
}

// noopResponder satisfies mc.RequestController for events with nothing
// to release, such as timer ticks.
type noopResponder struct{}

func (noopResponder) Forward() error { return nil }

// speculativeLane adapts the prefetch queue to the controller-facing
// submitter capability: identifiers are resolved against the accessed
// object and enqueued on the speculative lane.
type speculativeLane struct {
	queue  *prefetch.Queue
	source event.ObjectRef
}

// Submit implements mc.PrefetchSubmitter.
func (l *speculativeLane) Submit(identifier string) {
	if l.queue == nil {
		return
	}
	l.queue.Submit(prefetch.Request{
		Source:     l.source,
		Identifier: identifier,
	})
}

// countingLane counts submissions for the invocation journal.
type countingLane struct {
	mu    sync.Mutex
	inner mc.PrefetchSubmitter
	count int
}

// Submit implements mc.PrefetchSubmitter.
func (l *countingLane) Submit(identifier string) {
	l.mu.Lock()
	l.count++
	l.mu.Unlock()
	l.inner.Submit(identifier)
}

// Count returns how many submissions went through this lane.
func (l *countingLane) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count
}
