package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/marmos91/triggerfish/pkg/controlplane/models"
	"github.com/marmos91/triggerfish/pkg/controlplane/store"
	"github.com/marmos91/triggerfish/pkg/engine"
	"github.com/marmos91/triggerfish/pkg/event"
)

// DeploymentHandler handles deployment management API endpoints.
//
// Deployments bind registered controllers to triggers; the engine picks up
// changes on the next event, so no restart is needed after a mutation.
type DeploymentHandler struct {
	store    store.Store
	registry *engine.Registry
}

// NewDeploymentHandler creates a new DeploymentHandler.
func NewDeploymentHandler(s store.Store, registry *engine.Registry) *DeploymentHandler {
	return &DeploymentHandler{store: s, registry: registry}
}

// CreateDeploymentRequest is the request body for POST /api/v1/deployments.
type CreateDeploymentRequest struct {
	Name       string `json:"name"`
	Controller string `json:"controller"`
	Trigger    string `json:"trigger"`
	Bucket     string `json:"bucket,omitempty"`
	KeyPrefix  string `json:"key_prefix,omitempty"`
	Position   int    `json:"position,omitempty"`
	Interval   string `json:"interval,omitempty"`
	Enabled    *bool  `json:"enabled,omitempty"`
}

// UpdateDeploymentRequest is the request body for PUT /api/v1/deployments/{name}.
type UpdateDeploymentRequest struct {
	Controller *string `json:"controller,omitempty"`
	Trigger    *string `json:"trigger,omitempty"`
	Bucket     *string `json:"bucket,omitempty"`
	KeyPrefix  *string `json:"key_prefix,omitempty"`
	Position   *int    `json:"position,omitempty"`
	Interval   *string `json:"interval,omitempty"`
	Enabled    *bool   `json:"enabled,omitempty"`
}

// DeploymentResponse is the deployment representation for API responses.
type DeploymentResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Controller string    `json:"controller"`
	Trigger    string    `json:"trigger"`
	Bucket     string    `json:"bucket,omitempty"`
	KeyPrefix  string    `json:"key_prefix,omitempty"`
	Position   int       `json:"position"`
	Interval   string    `json:"interval,omitempty"`
	Enabled    bool      `json:"enabled"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Create handles POST /api/v1/deployments.
// Creates a new deployment (admin only).
func (h *DeploymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateDeploymentRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	interval, ok := parseInterval(w, req.Interval)
	if !ok {
		return
	}

	deployment := &models.Deployment{
		Name:       req.Name,
		Controller: req.Controller,
		Trigger:    req.Trigger,
		Bucket:     req.Bucket,
		KeyPrefix:  req.KeyPrefix,
		Position:   req.Position,
		Interval:   interval,
		Enabled:    true,
	}
	if req.Enabled != nil {
		deployment.Enabled = *req.Enabled
	}

	if err := deployment.Validate(); err != nil {
		BadRequest(w, err.Error())
		return
	}

	// Reject deployments that name a controller the engine doesn't know.
	if h.registry != nil && !h.registry.Has(deployment.Controller) {
		UnprocessableEntity(w, fmt.Sprintf("Unknown controller %q", deployment.Controller))
		return
	}

	if _, err := h.store.CreateDeployment(r.Context(), deployment); err != nil {
		if errors.Is(err, models.ErrDuplicateDeployment) {
			Conflict(w, "Deployment already exists")
			return
		}
		InternalServerError(w, "Failed to create deployment")
		return
	}

	WriteJSONCreated(w, deploymentToResponse(deployment))
}

// List handles GET /api/v1/deployments.
// Lists all deployments, optionally filtered by trigger.
func (h *DeploymentHandler) List(w http.ResponseWriter, r *http.Request) {
	deployments, err := h.store.ListDeployments(r.Context())
	if err != nil {
		InternalServerError(w, "Failed to list deployments")
		return
	}

	// Optional ?trigger= filter
	triggerFilter := r.URL.Query().Get("trigger")
	if triggerFilter != "" {
		if _, err := event.ParseTrigger(triggerFilter); err != nil {
			BadRequest(w, err.Error())
			return
		}
	}

	response := make([]DeploymentResponse, 0, len(deployments))
	for _, d := range deployments {
		if triggerFilter != "" && d.Trigger != triggerFilter {
			continue
		}
		response = append(response, deploymentToResponse(d))
	}

	WriteJSONOK(w, response)
}

// Get handles GET /api/v1/deployments/{name}.
func (h *DeploymentHandler) Get(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		BadRequest(w, "Deployment name is required")
		return
	}

	deployment, err := h.store.GetDeployment(r.Context(), name)
	if err != nil {
		if errors.Is(err, models.ErrDeploymentNotFound) {
			NotFound(w, "Deployment not found")
			return
		}
		InternalServerError(w, "Failed to get deployment")
		return
	}

	WriteJSONOK(w, deploymentToResponse(deployment))
}

// Update handles PUT /api/v1/deployments/{name}.
// Updates a deployment (admin only).
func (h *DeploymentHandler) Update(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		BadRequest(w, "Deployment name is required")
		return
	}

	var req UpdateDeploymentRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	deployment, err := h.store.GetDeployment(r.Context(), name)
	if err != nil {
		if errors.Is(err, models.ErrDeploymentNotFound) {
			NotFound(w, "Deployment not found")
			return
		}
		InternalServerError(w, "Failed to get deployment")
		return
	}

	// Apply updates
	if req.Controller != nil {
		deployment.Controller = *req.Controller
	}
	if req.Trigger != nil {
		deployment.Trigger = *req.Trigger
	}
	if req.Bucket != nil {
		deployment.Bucket = *req.Bucket
	}
	if req.KeyPrefix != nil {
		deployment.KeyPrefix = *req.KeyPrefix
	}
	if req.Position != nil {
		deployment.Position = *req.Position
	}
	if req.Interval != nil {
		interval, ok := parseInterval(w, *req.Interval)
		if !ok {
			return
		}
		deployment.Interval = interval
	}
	if req.Enabled != nil {
		deployment.Enabled = *req.Enabled
	}

	if err := deployment.Validate(); err != nil {
		BadRequest(w, err.Error())
		return
	}

	if h.registry != nil && !h.registry.Has(deployment.Controller) {
		UnprocessableEntity(w, fmt.Sprintf("Unknown controller %q", deployment.Controller))
		return
	}

	if err := h.store.UpdateDeployment(r.Context(), deployment); err != nil {
		InternalServerError(w, "Failed to update deployment")
		return
	}

	WriteJSONOK(w, deploymentToResponse(deployment))
}

// Delete handles DELETE /api/v1/deployments/{name}.
// Deletes a deployment (admin only).
func (h *DeploymentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		BadRequest(w, "Deployment name is required")
		return
	}

	if err := h.store.DeleteDeployment(r.Context(), name); err != nil {
		if errors.Is(err, models.ErrDeploymentNotFound) {
			NotFound(w, "Deployment not found")
			return
		}
		InternalServerError(w, "Failed to delete deployment")
		return
	}

	WriteNoContent(w)
}

// Enable handles POST /api/v1/deployments/{name}/enable.
func (h *DeploymentHandler) Enable(w http.ResponseWriter, r *http.Request) {
	h.setEnabled(w, r, true)
}

// Disable handles POST /api/v1/deployments/{name}/disable.
func (h *DeploymentHandler) Disable(w http.ResponseWriter, r *http.Request) {
	h.setEnabled(w, r, false)
}

func (h *DeploymentHandler) setEnabled(w http.ResponseWriter, r *http.Request, enabled bool) {
	name := chi.URLParam(r, "name")
	if name == "" {
		BadRequest(w, "Deployment name is required")
		return
	}

	if err := h.store.SetDeploymentEnabled(r.Context(), name, enabled); err != nil {
		if errors.Is(err, models.ErrDeploymentNotFound) {
			NotFound(w, "Deployment not found")
			return
		}
		InternalServerError(w, "Failed to update deployment")
		return
	}

	WriteNoContent(w)
}

// parseInterval parses an interval string like "30s". An empty string is
// zero. Writes a 400 response and returns false on parse failure.
func parseInterval(w http.ResponseWriter, s string) (time.Duration, bool) {
	if s == "" {
		return 0, true
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		BadRequest(w, fmt.Sprintf("Invalid interval %q", s))
		return 0, false
	}
	return d, true
}

// deploymentToResponse converts a Deployment to its API representation.
func deploymentToResponse(d *models.Deployment) DeploymentResponse {
	resp := DeploymentResponse{
		ID:         d.ID,
		Name:       d.Name,
		Controller: d.Controller,
		Trigger:    d.Trigger,
		Bucket:     d.Bucket,
		KeyPrefix:  d.KeyPrefix,
		Position:   d.Position,
		Enabled:    d.Enabled,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
	if d.Interval > 0 {
		resp.Interval = d.Interval.String()
	}
	return resp
}
