package handlers

import (
	"net/http"
	"time"

	"github.com/marmos91/triggerfish/pkg/engine"
	"github.com/marmos91/triggerfish/pkg/prefetch"
)

// StatusHandler reports a point-in-time snapshot of the daemon.
type StatusHandler struct {
	registry  *engine.Registry
	queue     *prefetch.Queue
	version   string
	startTime time.Time
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(registry *engine.Registry, queue *prefetch.Queue, version string) *StatusHandler {
	return &StatusHandler{
		registry:  registry,
		queue:     queue,
		version:   version,
		startTime: time.Now(),
	}
}

// StatusResponse is the response body for GET /api/v1/status.
type StatusResponse struct {
	Version     string          `json:"version"`
	StartedAt   time.Time       `json:"started_at"`
	Uptime      string          `json:"uptime"`
	UptimeSec   int64           `json:"uptime_sec"`
	Controllers int             `json:"controllers"`
	Prefetch    *prefetch.Stats `json:"prefetch,omitempty"`
}

// Get handles GET /api/v1/status.
func (h *StatusHandler) Get(w http.ResponseWriter, r *http.Request) {
	uptime := time.Since(h.startTime)
	response := StatusResponse{
		Version:   h.version,
		StartedAt: h.startTime.UTC(),
		Uptime:    uptime.Round(time.Second).String(),
		UptimeSec: int64(uptime.Seconds()),
	}

	if h.registry != nil {
		response.Controllers = h.registry.Count()
	}
	if h.queue != nil {
		stats := h.queue.Stats()
		response.Prefetch = &stats
	}

	WriteJSONOK(w, response)
}
