package apiclient

import (
	"fmt"
	"time"
)

// Invocation is one journaled controller invocation.
type Invocation struct {
	ID         int64         `json:"id,omitempty"`
	EventID    string        `json:"event_id"`
	Trigger    string        `json:"trigger"`
	Bucket     string        `json:"bucket"`
	Key        string        `json:"key"`
	Controller string        `json:"controller"`
	Outcome    string        `json:"outcome"`
	Error      string        `json:"error,omitempty"`
	Forwarded  bool          `json:"forwarded"`
	Submitted  int           `json:"submitted"`
	Duration   time.Duration `json:"duration"`
	InvokedAt  time.Time     `json:"invoked_at"`
}

// ListInvocations returns recent controller invocations, newest first.
// A limit of 0 uses the server default.
func (c *Client) ListInvocations(limit int) ([]Invocation, error) {
	path := "/api/v1/invocations"
	if limit > 0 {
		path = fmt.Sprintf("%s?limit=%d", path, limit)
	}
	return listResources[Invocation](c, path)
}
