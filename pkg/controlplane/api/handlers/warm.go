package handlers

import (
	"net/http"
	"time"

	"github.com/marmos91/triggerfish/pkg/event"
	"github.com/marmos91/triggerfish/pkg/prefetch"
)

// WarmHandler accepts operator-initiated cache warming requests.
//
// Requests go through the demand lane of the prefetch queue, so they
// take priority over speculative prefetches but still run best-effort:
// acceptance means "queued", not "warmed".
type WarmHandler struct {
	queue *prefetch.Queue
}

// NewWarmHandler creates a new WarmHandler.
func NewWarmHandler(queue *prefetch.Queue) *WarmHandler {
	return &WarmHandler{queue: queue}
}

// WarmRequest is the request body for POST /api/v1/prefetch/warm.
type WarmRequest struct {
	Bucket      string   `json:"bucket"`
	Identifiers []string `json:"identifiers"`
}

// WarmResponse is the response body for POST /api/v1/prefetch/warm.
type WarmResponse struct {
	Accepted int `json:"accepted"`
	Dropped  int `json:"dropped"`
}

// Warm handles POST /api/v1/prefetch/warm.
// Queues the named objects for cache warming (admin only).
func (h *WarmHandler) Warm(w http.ResponseWriter, r *http.Request) {
	if h.queue == nil {
		InternalServerError(w, "Prefetch queue not initialized")
		return
	}

	var req WarmRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if req.Bucket == "" {
		BadRequest(w, "Bucket is required")
		return
	}
	if len(req.Identifiers) == 0 {
		BadRequest(w, "At least one identifier is required")
		return
	}

	source := event.ObjectRef{Bucket: req.Bucket}
	now := time.Now()

	var response WarmResponse
	for _, identifier := range req.Identifiers {
		if identifier == "" {
			continue
		}
		ok := h.queue.SubmitDemand(prefetch.Request{
			Source:     source,
			Identifier: identifier,
			EnqueuedAt: now,
		})
		if ok {
			response.Accepted++
		} else {
			response.Dropped++
		}
	}

	// 202: the queue accepted work, completion is asynchronous.
	WriteJSON(w, http.StatusAccepted, response)
}
