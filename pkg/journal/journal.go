// Package journal records controller invocations for operator inspection.
//
// The journal sits off the hot path: Record never blocks the invoking
// goroutine, and implementations are free to drop entries under pressure.
// An event that was handled but not journaled is an acceptable loss; an
// event delayed by journaling is not.
package journal

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/marmos91/triggerfish/pkg/event"
)

// Outcome classifies how a controller invocation ended.
type Outcome string

const (
	// OutcomeCompleted means the controller returned without error.
	OutcomeCompleted Outcome = "completed"

	// OutcomeRecovered means the controller failed with a recoverable error
	// (missing metadata) and the engine absorbed it.
	OutcomeRecovered Outcome = "recovered"

	// OutcomeFailed means the controller failed with any other error.
	OutcomeFailed Outcome = "failed"
)

// String returns the outcome name.
func (o Outcome) String() string {
	return string(o)
}

// Entry describes one controller invocation.
type Entry struct {
	ID         int64         `json:"id,omitempty"`
	EventID    uuid.UUID     `json:"event_id"`
	Trigger    event.Trigger `json:"trigger"`
	Bucket     string        `json:"bucket"`
	Key        string        `json:"key"`
	Controller string        `json:"controller"`
	Outcome    Outcome       `json:"outcome"`
	Error      string        `json:"error,omitempty"`
	Forwarded  bool          `json:"forwarded"`
	Submitted  int           `json:"submitted"`
	Duration   time.Duration `json:"duration"`
	InvokedAt  time.Time     `json:"invoked_at"`
}

// Journal stores invocation entries.
type Journal interface {
	// Record enqueues an entry. It never blocks: entries are dropped when
	// the implementation cannot keep up.
	Record(entry Entry)

	// Recent returns up to limit entries, newest first.
	Recent(ctx context.Context, limit int) ([]Entry, error)

	// Close flushes buffered entries and releases resources.
	Close() error
}

// Noop discards every entry. Used when journaling is disabled.
type Noop struct{}

// NewNoop returns a journal that discards everything.
func NewNoop() *Noop {
	return &Noop{}
}

// Record discards the entry.
func (*Noop) Record(Entry) {}

// Recent returns no entries.
func (*Noop) Recent(context.Context, int) ([]Entry, error) {
	return nil, nil
}

// Close is a no-op.
func (*Noop) Close() error {
	return nil
}
