package handlers

import (
	"net/http"
	"strconv"

	"github.com/marmos91/triggerfish/pkg/journal"
)

// DefaultInvocationLimit is the number of entries returned when the
// client does not ask for a specific limit.
const DefaultInvocationLimit = 50

// MaxInvocationLimit caps the number of entries a single request can pull.
const MaxInvocationLimit = 1000

// InvocationHandler exposes the controller invocation journal.
type InvocationHandler struct {
	journal journal.Journal
	enabled bool
}

// NewInvocationHandler creates a new InvocationHandler. enabled should be
// false when journaling is disabled so the API can distinguish "no
// invocations yet" from "journal turned off".
func NewInvocationHandler(j journal.Journal, enabled bool) *InvocationHandler {
	return &InvocationHandler{journal: j, enabled: enabled}
}

// List handles GET /api/v1/invocations.
// Returns recent controller invocations, newest first.
func (h *InvocationHandler) List(w http.ResponseWriter, r *http.Request) {
	if !h.enabled || h.journal == nil {
		NotImplemented(w, "Invocation journal is disabled")
		return
	}

	limit := DefaultInvocationLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			BadRequest(w, "Limit must be a positive integer")
			return
		}
		limit = parsed
	}
	if limit > MaxInvocationLimit {
		limit = MaxInvocationLimit
	}

	entries, err := h.journal.Recent(r.Context(), limit)
	if err != nil {
		InternalServerError(w, "Failed to read invocation journal")
		return
	}

	if entries == nil {
		entries = []journal.Entry{}
	}
	WriteJSONOK(w, entries)
}
