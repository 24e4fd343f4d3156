package engine

import (
	"context"
	"sync"
	"time"

	"github.com/marmos91/triggerfish/internal/logger"
	"github.com/marmos91/triggerfish/pkg/event"
)

// timerListTimeout bounds the deployment listing on each tick.
const timerListTimeout = 5 * time.Second

// TimerSource fires ontimer deployments on their configured intervals.
//
// Each tick lists the enabled ontimer deployments and fires those whose
// interval has elapsed since their last firing. A fired deployment
// synthesizes an ontimer event for the deployment's target object and
// invokes the deployed controller directly; there is no client response
// to release, so the responder is a no-op.
type TimerSource struct {
	engine      *Engine
	deployments DeploymentSource
	resolution  time.Duration

	mu        sync.Mutex
	lastFired map[string]time.Time
	started   bool
	stopCh    chan struct{}
	stoppedCh chan struct{}
}

// NewTimerSource creates a timer source with one second resolution.
func NewTimerSource(engine *Engine, deployments DeploymentSource) *TimerSource {
	return &TimerSource{
		engine:      engine,
		deployments: deployments,
		resolution:  time.Second,
		lastFired:   make(map[string]time.Time),
		stopCh:      make(chan struct{}),
		stoppedCh:   make(chan struct{}),
	}
}

// Start launches the tick loop. Calling Start twice is a no-op.
func (t *TimerSource) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.started {
		logger.Warn("Timer source already started")
		return
	}
	t.started = true

	go t.run()
	logger.Debug("Timer source started", "resolution", t.resolution)
}

// Stop halts the tick loop, waiting up to timeout for the current tick
// to finish.
func (t *TimerSource) Stop(timeout time.Duration) {
	t.mu.Lock()
	if !t.started {
		t.mu.Unlock()
		return
	}
	t.mu.Unlock()

	close(t.stopCh)
	select {
	case <-t.stoppedCh:
		logger.Debug("Timer source stopped")
	case <-time.After(timeout):
		logger.Warn("Timer source stop timed out")
	}
}

func (t *TimerSource) run() {
	defer close(t.stoppedCh)

	ticker := time.NewTicker(t.resolution)
	defer ticker.Stop()

	for {
		select {
		case <-t.stopCh:
			return
		case now := <-ticker.C:
			t.tick(now)
		}
	}
}

// tick fires every due deployment and prunes firing state for
// deployments that no longer exist.
func (t *TimerSource) tick(now time.Time) {
	ctx, cancel := context.WithTimeout(context.Background(), timerListTimeout)
	deployments, err := t.deployments.DeploymentsForTrigger(ctx, event.TriggerTimer)
	cancel()
	if err != nil {
		logger.Warn("Listing timer deployments failed", logger.Err(err))
		return
	}

	live := make(map[string]bool, len(deployments))
	for _, d := range deployments {
		live[d.ID] = true
		if d.Interval <= 0 {
			continue
		}
		if !t.due(d.ID, now, d.Interval) {
			continue
		}
		t.fire(d.ID, d.Controller, d.TimerObject(), d.Name)
	}
	t.prune(live)
}

// due marks the deployment fired at now when its interval has elapsed.
func (t *TimerSource) due(id string, now time.Time, interval time.Duration) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	last, ok := t.lastFired[id]
	if ok && now.Sub(last) < interval {
		return false
	}
	t.lastFired[id] = now
	return true
}

func (t *TimerSource) prune(live map[string]bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for id := range t.lastFired {
		if !live[id] {
			delete(t.lastFired, id)
		}
	}
}

// fire synthesizes an ontimer event and invokes the deployed controller.
func (t *TimerSource) fire(id, controller string, object event.ObjectRef, name string) {
	ev := event.New(event.TriggerTimer, object, event.RequestInfo{ID: "timer:" + id})

	logger.Debug("Timer deployment fired",
		logger.Deployment(name),
		logger.Controller(controller),
		logger.Bucket(object.Bucket),
		logger.Key(object.Key))

	if err := t.engine.HandleDirect(context.Background(), ev, controller, noopResponder{}); err != nil {
		logger.Warn("Timer event rejected",
			logger.Deployment(name),
			logger.Err(err))
	}
}
