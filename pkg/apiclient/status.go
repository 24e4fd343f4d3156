package apiclient

import (
	"time"
)

// PrefetchStats is a snapshot of the warming queue.
type PrefetchStats struct {
	PendingDemand      int       `json:"pending_demand"`
	PendingSpeculative int       `json:"pending_speculative"`
	Completed          int       `json:"completed"`
	Failed             int       `json:"failed"`
	Dropped            int       `json:"dropped"`
	FetchedBytes       int64     `json:"fetched_bytes"`
	LastError          string    `json:"last_error,omitempty"`
	LastErrorAt        time.Time `json:"last_error_at"`
}

// Status is the daemon status report.
type Status struct {
	Version     string         `json:"version"`
	StartedAt   time.Time      `json:"started_at"`
	Uptime      string         `json:"uptime"`
	UptimeSec   int64          `json:"uptime_sec"`
	Controllers int            `json:"controllers"`
	Prefetch    *PrefetchStats `json:"prefetch,omitempty"`
}

// GetStatus returns the daemon status.
func (c *Client) GetStatus() (*Status, error) {
	return getResource[Status](c, "/api/v1/status")
}
