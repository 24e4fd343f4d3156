// Package intake provides the platform-facing event listener.
//
// The storage gateway POSTs one event per client request and keeps the
// client response held open until Triggerfish releases it. The intake
// handler runs the engine synchronously on the request goroutine: the
// 204 written by the responder's Forward is the release signal, and
// anything the controller chain does after forwarding only extends the
// HTTP exchange, never the client's wait.
package intake

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/marmos91/triggerfish/internal/logger"
	"github.com/marmos91/triggerfish/pkg/event"
	"github.com/marmos91/triggerfish/pkg/mc"
)

// EventHandler processes one accepted event. *engine.Engine implements it.
type EventHandler interface {
	Handle(ctx context.Context, ev *event.Event, responder mc.RequestController) error
}

// Server is the intake HTTP server.
//
// Endpoints:
//   - POST /v1/events: signed event submission
//   - GET /v1/health: liveness for the platform side
type Server struct {
	server       *http.Server
	handler      EventHandler
	secret       string
	config       Config
	shutdownOnce sync.Once
}

// NewServer creates a new intake HTTP server.
//
// The server is created in a stopped state. Call Start() to begin serving
// requests. The shared secret must be configured via config.Secret or the
// TRIGGERFISH_INTAKE_SECRET environment variable.
func NewServer(config Config, handler EventHandler) (*Server, error) {
	config.ApplyDefaults()

	if handler == nil {
		return nil, fmt.Errorf("event handler is required")
	}

	secret := config.GetSecret()
	if secret == "" {
		return nil, fmt.Errorf("intake secret is required; set via %s env var or config", EnvIntakeSecret)
	}

	s := &Server{
		handler: handler,
		secret:  secret,
		config:  config,
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Get("/v1/health", s.handleHealth)
	r.Post("/v1/events", s.handleEvent)

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", config.Port),
		Handler:      r,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	return s, nil
}

// handleHealth implements GET /v1/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}` + "\n"))
}

// handleEvent implements POST /v1/events.
//
// Response codes:
//   - 204: event accepted and the chain (or fail-open) released it
//   - 400: malformed payload or failed event validation
//   - 401: bad or missing signature
//   - 413: payload over max_body_bytes
func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "payload too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "failed to read payload", http.StatusBadRequest)
		return
	}

	// Authenticate before parsing: unsigned payloads get no parser time.
	if !verifySignature(s.secret, body, r.Header.Get(SignatureHeader)) {
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	ev, err := event.Decode(bytes.NewReader(body))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	ev.EnsureID()
	if ev.Request.ClientIP == "" {
		ev.Request.ClientIP = r.RemoteAddr
	}

	responder := newHTTPResponder(w, s.config.ForwardTimeout, ev.ID.String())
	defer responder.Conclude()

	if err := s.handler.Handle(r.Context(), ev, responder); err != nil {
		// The engine rejects events only before any side effect, so the
		// response is still writable unless the forward timer raced us.
		if !responder.Forwarded() {
			var invalid *event.InvalidEventError
			if errors.As(err, &invalid) {
				http.Error(w, invalid.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "event processing failed", http.StatusInternalServerError)
		}
		return
	}

	// Fail-open inside the engine guarantees the responder has been
	// released by now; Forward here is a no-op safety net.
	_ = responder.Forward()
}

// Start starts the intake HTTP server and blocks until the context is
// cancelled or an error occurs.
func (s *Server) Start(ctx context.Context) error {
	errChan := make(chan error, 1)
	go func() {
		logger.Info("Intake server listening", "port", s.config.Port)

		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			select {
			case errChan <- err:
			default:
				// Context was cancelled, error is not needed
			}
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Intake server shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Stop(shutdownCtx)
	case err := <-errChan:
		return fmt.Errorf("intake server failed: %w", err)
	}
}

// Stop initiates graceful shutdown of the intake server.
//
// Stop is safe to call multiple times and safe to call concurrently with Start().
func (s *Server) Stop(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		logger.Debug("Intake server shutdown initiated")

		if err := s.server.Shutdown(ctx); err != nil {
			shutdownErr = fmt.Errorf("intake server shutdown error: %w", err)
			logger.Error("Intake server shutdown error", "error", err)
		} else {
			logger.Info("Intake server stopped gracefully")
		}
	})
	return shutdownErr
}

// Port returns the TCP port the server is listening on.
func (s *Server) Port() int {
	return s.config.Port
}
