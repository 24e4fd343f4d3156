package config

import (
	"context"
	"fmt"
	"time"

	"github.com/marmos91/triggerfish/internal/logger"
	"github.com/marmos91/triggerfish/pkg/engine"
	"github.com/marmos91/triggerfish/pkg/gateway"
	"github.com/marmos91/triggerfish/pkg/gateway/s3"
	"github.com/marmos91/triggerfish/pkg/journal"
	"github.com/marmos91/triggerfish/pkg/journal/postgres"
	"github.com/marmos91/triggerfish/pkg/mc/prefetching"
	"github.com/marmos91/triggerfish/pkg/metadata"
	attrstore "github.com/marmos91/triggerfish/pkg/metadata/store"
	attrbadger "github.com/marmos91/triggerfish/pkg/metadata/store/badger"
	attrmemory "github.com/marmos91/triggerfish/pkg/metadata/store/memory"
	"github.com/marmos91/triggerfish/pkg/prefetch"
)

// RuntimeMetrics bundles the metric recorders for the data-path
// components. Nil fields disable recording for that component.
type RuntimeMetrics struct {
	Engine engine.EngineMetrics
	Queue  prefetch.QueueMetrics
	Cache  metadata.CacheMetrics
	S3     s3.S3Metrics
}

// RuntimeOptions carries the collaborators InitializeRuntime cannot
// build from configuration alone.
type RuntimeOptions struct {
	// Deployments lists the persistent controller bindings. Usually the
	// control plane store. Optional; without it only per-object
	// assignments resolve and the timer source is not created.
	Deployments engine.DeploymentSource

	// Gateway overrides the S3 gateway built from cfg.Gateway.
	// Used by tests.
	Gateway gateway.Gateway

	// Journal overrides the journal built from cfg.Journal.
	// Used by tests.
	Journal journal.Journal

	// Metrics holds the metric recorders. Zero value disables metrics.
	Metrics RuntimeMetrics
}

// Runtime is the assembled event-handling data path: gateway, attribute
// cache, warming queue, journal, controller registry, engine, and timer
// source. Build one with InitializeRuntime, then Start it and hand
// Engine to the intake server.
type Runtime struct {
	Gateway    gateway.Gateway
	Attributes *metadata.Service
	Queue      *prefetch.Queue
	Journal    journal.Journal
	Registry   *engine.Registry
	Engine     *engine.Engine
	Timers     *engine.TimerSource

	// JournalEnabled reports whether invocations are being recorded.
	// The audit API responds 501 when false.
	JournalEnabled bool
}

// InitializeRuntime creates a fully wired Runtime from the provided
// configuration.
//
// This function orchestrates the complete initialization process:
//  1. Connects the platform gateway (with startup probe when configured)
//  2. Opens the attribute cache and wraps it in the metadata service
//  3. Creates the warming queue with a gateway-backed fetcher
//  4. Connects the invocation journal when enabled
//  5. Builds the controller registry with the built-in controllers
//  6. Assembles the engine and, when deployments are available, the
//     timer source
//
// The returned Runtime is not running yet: call Start to launch the
// queue workers and timer loop, and Shutdown to stop them and release
// the stores.
func InitializeRuntime(ctx context.Context, cfg *Config, opts RuntimeOptions) (*Runtime, error) {
	logger.Debug("Initializing runtime from configuration")

	gw := opts.Gateway
	if gw == nil {
		client, err := s3.New(ctx, cfg.Gateway.ClientConfig(), opts.Metrics.S3)
		if err != nil {
			return nil, fmt.Errorf("failed to connect platform gateway: %w", err)
		}
		gw = client
	}

	attrs, err := newAttributeStore(ctx, cfg.AttributeCache)
	if err != nil {
		return nil, fmt.Errorf("failed to open attribute cache: %w", err)
	}
	attrService := metadata.NewService(attrs, gw, opts.Metrics.Cache)

	fetcher := prefetch.NewGatewayFetcher(gw, int64(cfg.Prefetch.WarmBytes))
	queue := prefetch.New(fetcher, cfg.Prefetch.QueueConfig(), opts.Metrics.Queue)

	jrnl, err := newJournal(ctx, cfg.Journal, opts)
	if err != nil {
		// The attribute store is already open; release it before bailing.
		_ = attrService.Close()
		return nil, err
	}

	registry := buildRegistry()
	logger.Info("Registered controllers", "count", registry.Count())

	eng, err := engine.New(engine.Options{
		Registry:    registry,
		Attributes:  attrService,
		Queue:       queue,
		Deployments: opts.Deployments,
		Journal:     jrnl,
		Metrics:     opts.Metrics.Engine,
		Config:      cfg.Engine,
	})
	if err != nil {
		_ = jrnl.Close()
		_ = attrService.Close()
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	rt := &Runtime{
		Gateway:        gw,
		Attributes:     attrService,
		Queue:          queue,
		Journal:        jrnl,
		Registry:       registry,
		Engine:         eng,
		JournalEnabled: cfg.Journal.Enabled || opts.Journal != nil,
	}

	// Timer deployments fire from the store; without one there is
	// nothing to tick.
	if opts.Deployments != nil {
		rt.Timers = engine.NewTimerSource(eng, opts.Deployments)
	}

	return rt, nil
}

// Start launches the queue workers and the timer loop.
func (r *Runtime) Start(ctx context.Context) {
	r.Queue.Start(ctx)
	if r.Timers != nil {
		r.Timers.Start()
	}
	logger.Info("Runtime started", "controllers", r.Registry.Count())
}

// Shutdown stops the timer loop and queue workers, then releases the
// journal and attribute cache. Waits up to timeout for in-flight work.
func (r *Runtime) Shutdown(timeout time.Duration) {
	if r.Timers != nil {
		r.Timers.Stop(timeout)
	}
	r.Queue.Stop(timeout)

	if err := r.Journal.Close(); err != nil {
		logger.Warn("Failed to close invocation journal", "error", err)
	}
	if err := r.Attributes.Close(); err != nil {
		logger.Warn("Failed to close attribute cache", "error", err)
	}
	logger.Info("Runtime stopped")
}

// newAttributeStore opens the configured attribute cache backend.
func newAttributeStore(ctx context.Context, cfg AttributeCacheConfig) (attrstore.AttributeStore, error) {
	switch cfg.Type {
	case "badger", "":
		return attrbadger.New(ctx, attrbadger.Config{
			Path: cfg.Path,
			TTL:  cfg.TTL,
		})
	case "memory":
		return attrmemory.New(cfg.TTL), nil
	default:
		return nil, fmt.Errorf("unknown attribute cache type: %q", cfg.Type)
	}
}

// newJournal connects the invocation journal, honoring the test
// override and falling back to the no-op journal when disabled.
func newJournal(ctx context.Context, cfg JournalConfig, opts RuntimeOptions) (journal.Journal, error) {
	if opts.Journal != nil {
		return opts.Journal, nil
	}
	if !cfg.Enabled {
		return journal.NewNoop(), nil
	}

	jrnl, err := postgres.New(ctx, cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("failed to connect invocation journal: %w", err)
	}
	return jrnl, nil
}

// buildRegistry creates the controller registry with the built-in
// controllers. Additional controllers register here as they are added.
func buildRegistry() *engine.Registry {
	registry := engine.NewRegistry()
	registry.MustRegister(prefetching.New())
	return registry
}
