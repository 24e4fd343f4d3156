package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/marmos91/triggerfish/internal/logger"
	"github.com/marmos91/triggerfish/pkg/controlplane/api/auth"
	"github.com/marmos91/triggerfish/pkg/controlplane/api/handlers"
	apiMiddleware "github.com/marmos91/triggerfish/pkg/controlplane/api/middleware"
)

// NewRouter creates and configures the chi router with all middleware and routes.
//
// The router is configured with:
//   - Request ID middleware for request tracking
//   - Real IP extraction for proper client identification
//   - Custom request logging using the internal logger
//   - Panic recovery to prevent server crashes
//   - Request timeout to prevent hung requests
//
// Routes:
//   - GET /health - Liveness probe
//   - GET /health/ready - Readiness probe
//   - POST /api/v1/auth/login - User authentication
//   - POST /api/v1/auth/refresh - Token refresh
//   - GET /api/v1/auth/me - Current user info
//   - POST /api/v1/users/me/password - Change own password
//   - /api/v1/users/* - User management (admin only)
//   - /api/v1/deployments/* - Deployment management (admin only)
//   - GET /api/v1/controllers - Registered controller listing
//   - GET /api/v1/status - Daemon status snapshot
//   - POST /api/v1/prefetch/warm - Manual cache warming (admin only)
//   - GET /api/v1/invocations - Recent controller invocations
func NewRouter(deps Dependencies, jwtService *auth.JWTService) http.Handler {
	r := chi.NewRouter()

	// Middleware stack - order matters
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	// Health routes - unauthenticated
	healthHandler := handlers.NewHealthHandler(deps.Store, deps.Gateway, deps.Metadata)
	r.Route("/health", func(r chi.Router) {
		r.Get("/", healthHandler.Liveness)
		r.Get("/ready", healthHandler.Readiness)
	})

	// Root redirect to health for convenience
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/health", http.StatusTemporaryRedirect)
	})

	// API handlers
	authHandler := handlers.NewAuthHandler(deps.Store, jwtService)
	userHandler, err := handlers.NewUserHandler(deps.Store, jwtService)
	if err != nil {
		// This is a programming error - jwtService should always be provided
		panic("failed to create user handler: " + err.Error())
	}
	deploymentHandler := handlers.NewDeploymentHandler(deps.Store, deps.Registry)
	controllerHandler := handlers.NewControllerHandler(deps.Registry)
	statusHandler := handlers.NewStatusHandler(deps.Registry, deps.Queue, deps.Version)
	warmHandler := handlers.NewWarmHandler(deps.Queue)
	invocationHandler := handlers.NewInvocationHandler(deps.Journal, deps.JournalEnabled)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Auth routes - mostly unauthenticated
		r.Route("/auth", func(r chi.Router) {
			// Public endpoints
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)

			// Authenticated endpoint
			r.Group(func(r chi.Router) {
				r.Use(apiMiddleware.JWTAuth(jwtService))
				r.Get("/me", authHandler.Me)
			})
		})

		// Password change - authenticated but exempt from MustChangePassword check
		// This allows users who must change their password to actually change it
		r.Route("/users/me/password", func(r chi.Router) {
			r.Use(apiMiddleware.JWTAuth(jwtService))
			r.Post("/", userHandler.ChangeOwnPassword)
		})

		// Protected routes - require authentication and password change complete
		r.Group(func(r chi.Router) {
			r.Use(apiMiddleware.JWTAuth(jwtService))
			r.Use(apiMiddleware.RequirePasswordChange("/api/v1/users/me/password"))

			// User management
			r.Route("/users", func(r chi.Router) {
				// Self-access allowed - handler does its own authorization
				r.Get("/{username}", userHandler.Get)

				// Admin-only operations
				r.Group(func(r chi.Router) {
					r.Use(apiMiddleware.RequireAdmin())

					r.Post("/", userHandler.Create)
					r.Get("/", userHandler.List)
					r.Put("/{username}", userHandler.Update)
					r.Delete("/{username}", userHandler.Delete)
					r.Post("/{username}/password", userHandler.ResetPassword)
				})
			})

			// Deployment management - reads for everyone, writes admin only
			r.Route("/deployments", func(r chi.Router) {
				r.Get("/", deploymentHandler.List)
				r.Get("/{name}", deploymentHandler.Get)

				r.Group(func(r chi.Router) {
					r.Use(apiMiddleware.RequireAdmin())

					r.Post("/", deploymentHandler.Create)
					r.Put("/{name}", deploymentHandler.Update)
					r.Delete("/{name}", deploymentHandler.Delete)
					r.Post("/{name}/enable", deploymentHandler.Enable)
					r.Post("/{name}/disable", deploymentHandler.Disable)
				})
			})

			// Controller listing - read-only, controllers are compiled in
			r.Route("/controllers", func(r chi.Router) {
				r.Get("/", controllerHandler.List)
				r.Get("/{name}", controllerHandler.Get)
			})

			// Daemon status
			r.Get("/status", statusHandler.Get)

			// Manual cache warming (admin only)
			r.Group(func(r chi.Router) {
				r.Use(apiMiddleware.RequireAdmin())
				r.Post("/prefetch/warm", warmHandler.Warm)
			})

			// Invocation journal
			r.Get("/invocations", invocationHandler.List)
		})
	})

	return r
}

// isHealthPath returns true if the request path is a healthcheck endpoint.
func isHealthPath(path string) bool {
	return path == "/health" || strings.HasPrefix(path, "/health/")
}

// requestLogger is a custom middleware that logs requests using the internal logger.
//
// It logs:
//   - Request start (DEBUG level): method, path, remote addr
//   - Request completion (INFO level): method, path, status, duration
//   - Healthcheck requests are logged at DEBUG level to reduce noise
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := middleware.GetReqID(r.Context())

		logger.Debug("API request started",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
		)

		// Wrap response writer to capture status code
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		duration := time.Since(start)

		logArgs := []any{
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", duration.String(),
		}

		// Log healthcheck requests at DEBUG to avoid polluting logs in k8s
		if isHealthPath(r.URL.Path) {
			logger.Debug("API request completed", logArgs...)
		} else {
			logger.Info("API request completed", logArgs...)
		}
	})
}
