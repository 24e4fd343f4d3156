// Package prefetch implements the asynchronous object warming subsystem.
//
// Controllers hand object identifiers to the queue and move on: ownership of
// the work transfers entirely to the queue at submission. Workers resolve
// each identifier against the platform gateway and pull the resolved object
// through the storage cache tiers so subsequent reads are served hot.
package prefetch

import (
	"context"
	"time"

	"github.com/marmos91/triggerfish/pkg/event"
)

// Lane identifies the scheduling class of a warming request.
type Lane string

const (
	// LaneDemand carries operator-initiated warms. Workers drain it first.
	LaneDemand Lane = "demand"

	// LaneSpeculative carries controller-submitted prefetches. Best effort:
	// submissions are dropped when the lane is full.
	LaneSpeculative Lane = "speculative"
)

// String returns the lane name.
func (l Lane) String() string {
	return string(l)
}

// Request is a single warming request.
//
// The identifier is resolved against the source object at fetch time, not at
// submission, so submitters never need to know whether it names a sibling key
// or a fully qualified "bucket/key" pair.
type Request struct {
	Source     event.ObjectRef
	Identifier string
	EnqueuedAt time.Time
}

// Fetcher pulls one object through the platform cache tiers.
type Fetcher interface {
	// Warm resolves identifier relative to the source object and reads the
	// resolved object. It returns the number of bytes pulled.
	Warm(ctx context.Context, source event.ObjectRef, identifier string) (int64, error)
}

// QueueMetrics records prefetch queue activity.
//
// A nil QueueMetrics disables recording with zero overhead.
type QueueMetrics interface {
	// RecordSubmission counts an accepted submission on a lane.
	RecordSubmission(lane string)

	// RecordDrop counts a submission rejected because its lane was full.
	RecordDrop(lane string)

	// ObserveFetch records one finished fetch with its outcome
	// ("completed" or "failed"), bytes pulled and duration.
	ObserveFetch(outcome string, bytes int64, duration time.Duration)

	// SetQueueDepth records the current depth of a lane.
	SetQueueDepth(lane string, depth int)
}
