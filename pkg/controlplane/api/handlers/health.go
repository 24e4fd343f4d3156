package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/marmos91/triggerfish/pkg/controlplane/store"
	"github.com/marmos91/triggerfish/pkg/gateway"
	"github.com/marmos91/triggerfish/pkg/metadata"
)

// HealthCheckTimeout is the maximum time allowed for health check operations.
// This timeout applies to dependency checks to prevent a slow backend from
// blocking health probes indefinitely.
const HealthCheckTimeout = 5 * time.Second

// HealthHandler handles health check endpoints.
//
// Health endpoints are unauthenticated and provide:
//   - Liveness probe: Is the server process running?
//   - Readiness probe: Are the daemon's dependencies reachable?
type HealthHandler struct {
	store     store.Store
	gateway   gateway.Gateway
	metadata  *metadata.Service
	startTime time.Time
}

// NewHealthHandler creates a new health handler.
//
// Any dependency may be nil; nil dependencies are skipped during
// readiness checks.
func NewHealthHandler(s store.Store, gw gateway.Gateway, meta *metadata.Service) *HealthHandler {
	return &HealthHandler{
		store:     s,
		gateway:   gw,
		metadata:  meta,
		startTime: time.Now(),
	}
}

// Liveness handles GET /health - simple liveness probe.
//
// Returns 200 OK if the server process is running. This endpoint is designed
// for Kubernetes liveness probes and should always succeed as long as the
// HTTP server is responsive.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	uptime := time.Since(h.startTime)
	WriteJSON(w, http.StatusOK, healthyResponse(map[string]interface{}{
		"service":    "triggerfish",
		"started_at": h.startTime.UTC().Format(time.RFC3339),
		"uptime":     uptime.Round(time.Second).String(),
		"uptime_sec": int64(uptime.Seconds()),
	}))
}

// DependencyHealth represents the health status of a single dependency.
type DependencyHealth struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// Readiness handles GET /health/ready - readiness probe.
//
// Checks connectivity to the control plane database, the storage platform
// gateway, and the attribute cache. Returns 200 OK when every configured
// dependency is healthy, 503 Service Unavailable otherwise.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), HealthCheckTimeout)
	defer cancel()

	checks := make([]DependencyHealth, 0, 3)
	allHealthy := true

	if h.store != nil {
		check := runCheck(ctx, "database", h.store.Healthcheck)
		allHealthy = allHealthy && check.Status == "healthy"
		checks = append(checks, check)
	}
	if h.gateway != nil {
		check := runCheck(ctx, "gateway", h.gateway.HealthCheck)
		allHealthy = allHealthy && check.Status == "healthy"
		checks = append(checks, check)
	}
	if h.metadata != nil {
		check := runCheck(ctx, "attribute_cache", h.metadata.HealthCheck)
		allHealthy = allHealthy && check.Status == "healthy"
		checks = append(checks, check)
	}

	data := map[string]interface{}{"dependencies": checks}
	if allHealthy {
		WriteJSON(w, http.StatusOK, healthyResponse(data))
	} else {
		WriteJSON(w, http.StatusServiceUnavailable, unhealthyResponse(data))
	}
}

// runCheck times a single dependency check.
func runCheck(ctx context.Context, name string, fn func(context.Context) error) DependencyHealth {
	start := time.Now()
	err := fn(ctx)
	check := DependencyHealth{
		Name:    name,
		Latency: time.Since(start).String(),
	}
	if err != nil {
		check.Status = "unhealthy"
		check.Error = err.Error()
	} else {
		check.Status = "healthy"
	}
	return check
}
