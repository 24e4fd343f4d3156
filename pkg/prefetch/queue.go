package prefetch

import (
	"context"
	"sync"
	"time"

	"github.com/marmos91/triggerfish/internal/logger"
)

// Config controls queue sizing and worker behavior.
type Config struct {
	// QueueSize is the per-lane channel capacity.
	QueueSize int

	// Workers is the number of fetch workers.
	Workers int

	// FetchTimeout bounds a single warm operation.
	FetchTimeout time.Duration
}

// DefaultConfig returns the default queue configuration.
func DefaultConfig() Config {
	return Config{
		QueueSize:    1024,
		Workers:      4,
		FetchTimeout: 2 * time.Minute,
	}
}

// Queue schedules warming requests across two lanes.
//
// Lane order (highest to lowest):
//  1. Demand - an operator is waiting for the object to be hot
//  2. Speculative - controller-submitted optimization
//
// Workers check lanes in order, so demand warms are always processed first
// even when the speculative lane is full.
type Queue struct {
	fetcher Fetcher
	metrics QueueMetrics
	timeout time.Duration

	// Lane channels - workers check in lane order
	demand      chan Request
	speculative chan Request

	// Worker management
	workers   int
	wg        sync.WaitGroup
	stopCh    chan struct{}
	stoppedCh chan struct{}
	started   bool // tracks whether Start() was called

	// Counters
	mu                 sync.Mutex
	pendingDemand      int
	pendingSpeculative int
	completed          int
	failed             int
	dropped            int
	fetchedBytes       int64
	lastError          error
	lastErrorAt        time.Time
}

// Stats is a point-in-time snapshot of queue activity.
type Stats struct {
	PendingDemand      int       `json:"pending_demand"`
	PendingSpeculative int       `json:"pending_speculative"`
	Completed          int       `json:"completed"`
	Failed             int       `json:"failed"`
	Dropped            int       `json:"dropped"`
	FetchedBytes       int64     `json:"fetched_bytes"`
	LastError          string    `json:"last_error,omitempty"`
	LastErrorAt        time.Time `json:"last_error_at"`
}

// New creates a prefetch queue. Zero or negative config fields fall back to
// defaults. A nil metrics recorder disables metrics.
func New(fetcher Fetcher, cfg Config, metrics QueueMetrics) *Queue {
	defaults := DefaultConfig()
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaults.QueueSize
	}
	if cfg.Workers <= 0 {
		cfg.Workers = defaults.Workers
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = defaults.FetchTimeout
	}

	return &Queue{
		fetcher:     fetcher,
		metrics:     metrics,
		timeout:     cfg.FetchTimeout,
		demand:      make(chan Request, cfg.QueueSize),
		speculative: make(chan Request, cfg.QueueSize),
		workers:     cfg.Workers,
		stopCh:      make(chan struct{}),
		stoppedCh:   make(chan struct{}),
	}
}

// Start launches the fetch workers.
func (q *Queue) Start(ctx context.Context) {
	q.mu.Lock()
	if q.started {
		q.mu.Unlock()
		return
	}
	q.started = true
	q.mu.Unlock()

	logger.Info("Starting prefetch queue", "workers", q.workers)

	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker(ctx, i)
	}

	// Monitor goroutine to close stoppedCh when all workers exit
	go func() {
		q.wg.Wait()
		close(q.stoppedCh)
	}()
}

// Stop gracefully shuts down the queue. Queued requests are drained unless
// the timeout expires first.
func (q *Queue) Stop(timeout time.Duration) {
	q.mu.Lock()
	if !q.started {
		q.mu.Unlock()
		// Never started - nothing to stop
		return
	}
	q.mu.Unlock()

	logger.Info("Stopping prefetch queue", "pending", q.Pending())

	// Signal workers to stop
	close(q.stopCh)

	// Wait with timeout
	select {
	case <-q.stoppedCh:
		logger.Info("Prefetch queue stopped gracefully")
	case <-time.After(timeout):
		logger.Warn("Prefetch queue stop timed out", "pending", q.Pending())
	}
}

// Submit queues a speculative warming request.
// Returns false if the lane is full (non-blocking, best effort).
func (q *Queue) Submit(req Request) bool {
	if req.EnqueuedAt.IsZero() {
		req.EnqueuedAt = time.Now()
	}

	select {
	case q.speculative <- req:
		q.noteEnqueued(LaneSpeculative)
		return true
	default:
		// Speculative work is best effort, drop silently beyond the counter
		q.noteDropped(LaneSpeculative)
		return false
	}
}

// SubmitDemand queues an operator-initiated warming request on the demand
// lane. Returns false if the lane is full (non-blocking).
func (q *Queue) SubmitDemand(req Request) bool {
	if req.EnqueuedAt.IsZero() {
		req.EnqueuedAt = time.Now()
	}

	select {
	case q.demand <- req:
		q.noteEnqueued(LaneDemand)
		return true
	default:
		logger.Warn("Demand lane full, dropping warm request",
			"source", req.Source.String(),
			"identifier", req.Identifier)
		q.noteDropped(LaneDemand)
		return false
	}
}

// Pending returns the total number of queued requests across both lanes.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pendingDemand + q.pendingSpeculative
}

// PendingByLane returns queued counts per lane.
func (q *Queue) PendingByLane() (demand, speculative int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pendingDemand, q.pendingSpeculative
}

// Stats returns a snapshot of queue counters.
func (q *Queue) Stats() Stats {
	q.mu.Lock()
	defer q.mu.Unlock()

	s := Stats{
		PendingDemand:      q.pendingDemand,
		PendingSpeculative: q.pendingSpeculative,
		Completed:          q.completed,
		Failed:             q.failed,
		Dropped:            q.dropped,
		FetchedBytes:       q.fetchedBytes,
		LastErrorAt:        q.lastErrorAt,
	}
	if q.lastError != nil {
		s.LastError = q.lastError.Error()
	}
	return s
}

// LastError returns when the last fetch failure occurred and the error itself.
func (q *Queue) LastError() (time.Time, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.lastErrorAt, q.lastError
}

// worker processes warming requests with lane ordering.
// Lane order: demand > speculative
//
// The worker uses a two-phase select to keep demand ahead of speculative
// without busy-waiting (CPU spin) when both lanes are empty.
//
// IMPORTANT: Workers ignore the passed context for lifecycle management and
// only exit when stopCh is closed. This prevents workers from exiting early
// if the initialization context is short-lived or cancelled. Each fetch gets
// its own fresh context with timeout in processRequest().
func (q *Queue) worker(_ context.Context, id int) {
	defer q.wg.Done()

	logger.Debug("Prefetch worker started", "workerID", id)

	for {
		// Phase 1: Check the demand lane (non-blocking)
		select {
		case req := <-q.demand:
			q.processRequest(req, LaneDemand)
			continue
		default:
		}

		// Phase 2: Wait for any work (blocking - no CPU spin)
		select {
		case req := <-q.demand:
			q.processRequest(req, LaneDemand)
		case req := <-q.speculative:
			q.processRequest(req, LaneSpeculative)
		case <-q.stopCh:
			q.drainLanes()
			logger.Debug("Prefetch worker stopped", "workerID", id)
			return
		}
	}
}

// drainLanes processes remaining items in both lanes during shutdown.
func (q *Queue) drainLanes() {
	for {
		select {
		case req := <-q.demand:
			q.processRequest(req, LaneDemand)
		case req := <-q.speculative:
			q.processRequest(req, LaneSpeculative)
		default:
			return
		}
	}
}

// processRequest warms a single object.
// Each fetch gets a fresh context with timeout - worker contexts are not used
// so that worker lifetime and fetch deadlines stay independent.
func (q *Queue) processRequest(req Request, lane Lane) {
	ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
	defer cancel()

	start := time.Now()
	bytes, err := q.fetcher.Warm(ctx, req.Source, req.Identifier)
	q.recordResult(req, lane, bytes, err, time.Since(start))
}

// noteEnqueued updates counters and metrics after an accepted submission.
func (q *Queue) noteEnqueued(lane Lane) {
	q.mu.Lock()
	var depth int
	switch lane {
	case LaneDemand:
		q.pendingDemand++
		depth = q.pendingDemand
	case LaneSpeculative:
		q.pendingSpeculative++
		depth = q.pendingSpeculative
	}
	q.mu.Unlock()

	if q.metrics != nil {
		q.metrics.RecordSubmission(lane.String())
		q.metrics.SetQueueDepth(lane.String(), depth)
	}
}

// noteDropped updates counters and metrics after a rejected submission.
func (q *Queue) noteDropped(lane Lane) {
	q.mu.Lock()
	q.dropped++
	q.mu.Unlock()

	if q.metrics != nil {
		q.metrics.RecordDrop(lane.String())
	}
}

// recordResult updates counters and metrics after a fetch completes.
func (q *Queue) recordResult(req Request, lane Lane, bytes int64, err error, elapsed time.Duration) {
	q.mu.Lock()
	var depth int
	switch lane {
	case LaneDemand:
		q.pendingDemand--
		depth = q.pendingDemand
	case LaneSpeculative:
		q.pendingSpeculative--
		depth = q.pendingSpeculative
	}
	outcome := "completed"
	if err != nil {
		outcome = "failed"
		q.failed++
		q.lastError = err
		q.lastErrorAt = time.Now()
	} else {
		q.completed++
		q.fetchedBytes += bytes
	}
	q.mu.Unlock()

	if err != nil {
		logger.Warn("Prefetch failed",
			"lane", lane.String(),
			"source", req.Source.String(),
			"identifier", req.Identifier,
			"error", err)
	} else {
		logger.Debug("Prefetch completed",
			"lane", lane.String(),
			"identifier", req.Identifier,
			"bytes", bytes,
			"duration", elapsed)
	}

	if q.metrics != nil {
		q.metrics.ObserveFetch(outcome, bytes, elapsed)
		q.metrics.SetQueueDepth(lane.String(), depth)
	}
}
