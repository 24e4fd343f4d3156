package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/marmos91/triggerfish/pkg/engine"
)

// ControllerHandler exposes the engine's controller registry.
//
// Controllers are compiled in, so this surface is read-only: the API can
// inspect what is registered but never mutate it.
type ControllerHandler struct {
	registry *engine.Registry
}

// NewControllerHandler creates a new ControllerHandler.
func NewControllerHandler(registry *engine.Registry) *ControllerHandler {
	return &ControllerHandler{registry: registry}
}

// ControllerResponse is the controller representation for API responses.
type ControllerResponse struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// List handles GET /api/v1/controllers.
// Lists all registered controllers.
func (h *ControllerHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.registry == nil {
		InternalServerError(w, "Controller registry not initialized")
		return
	}

	controllers := h.registry.List()
	response := make([]ControllerResponse, len(controllers))
	for i, c := range controllers {
		response[i] = ControllerResponse{
			Name:        c.Name(),
			Description: c.Description(),
		}
	}

	WriteJSONOK(w, response)
}

// Get handles GET /api/v1/controllers/{name}.
func (h *ControllerHandler) Get(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		BadRequest(w, "Controller name is required")
		return
	}

	if h.registry == nil {
		InternalServerError(w, "Controller registry not initialized")
		return
	}

	controller, err := h.registry.Get(name)
	if err != nil {
		NotFound(w, "Controller not found")
		return
	}

	WriteJSONOK(w, ControllerResponse{
		Name:        controller.Name(),
		Description: controller.Description(),
	})
}
