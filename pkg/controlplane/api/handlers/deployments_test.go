//go:build integration

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/marmos91/triggerfish/pkg/controlplane/store"
	"github.com/marmos91/triggerfish/pkg/engine"
	"github.com/marmos91/triggerfish/pkg/event"
	"github.com/marmos91/triggerfish/pkg/mc"
)

type namedController struct{ name string }

func (n *namedController) Invoke(context.Context, *mc.API) error { return nil }
func (n *namedController) Name() string                          { return n.name }
func (n *namedController) Description() string                   { return "test controller" }

func setupDeploymentTest(t *testing.T) (store.Store, *DeploymentHandler) {
	t.Helper()

	dbConfig := store.Config{
		Type: store.DatabaseTypeSQLite,
		SQLite: store.SQLiteConfig{
			Path: ":memory:",
		},
	}
	cpStore, err := store.New(&dbConfig)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { _ = cpStore.Close() })

	registry := engine.NewRegistry()
	registry.MustRegister(&namedController{name: "prefetching"})

	return cpStore, NewDeploymentHandler(cpStore, registry)
}

func TestDeploymentHandler_Create(t *testing.T) {
	_, handler := setupDeploymentTest(t)

	tests := []struct {
		name       string
		body       CreateDeploymentRequest
		wantStatus int
	}{
		{
			name: "valid deployment",
			body: CreateDeploymentRequest{
				Name:       "warm-models",
				Controller: "prefetching",
				Trigger:    "onget",
				Bucket:     "models",
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "unknown controller",
			body: CreateDeploymentRequest{
				Name:       "bad-controller",
				Controller: "nonexistent",
				Trigger:    "onget",
			},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "invalid trigger",
			body: CreateDeploymentRequest{
				Name:       "bad-trigger",
				Controller: "prefetching",
				Trigger:    "onwrite",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "missing name",
			body: CreateDeploymentRequest{
				Controller: "prefetching",
				Trigger:    "onget",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "timer without interval",
			body: CreateDeploymentRequest{
				Name:       "ticker",
				Controller: "prefetching",
				Trigger:    "ontimer",
				Bucket:     "models",
				KeyPrefix:  "weights.bin",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "valid timer deployment",
			body: CreateDeploymentRequest{
				Name:       "refresh-index",
				Controller: "prefetching",
				Trigger:    "ontimer",
				Bucket:     "models",
				KeyPrefix:  "index.json",
				Interval:   "30s",
			},
			wantStatus: http.StatusCreated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/deployments", bytes.NewReader(body))
			w := httptest.NewRecorder()

			handler.Create(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Create() status = %d, want %d, body = %s", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestDeploymentHandler_EnableDisable(t *testing.T) {
	cpStore, handler := setupDeploymentTest(t)

	body, _ := json.Marshal(CreateDeploymentRequest{
		Name:       "toggle-me",
		Controller: "prefetching",
		Trigger:    "onget",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/deployments", bytes.NewReader(body))
	w := httptest.NewRecorder()
	handler.Create(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("Create() status = %d, want %d", w.Code, http.StatusCreated)
	}

	// Disable
	req = withURLParam(httptest.NewRequest(http.MethodPost, "/api/v1/deployments/toggle-me/disable", nil), "name", "toggle-me")
	w = httptest.NewRecorder()
	handler.Disable(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("Disable() status = %d, want %d", w.Code, http.StatusNoContent)
	}

	// Disabled deployments disappear from the engine's read path
	deployments, err := cpStore.DeploymentsForTrigger(context.Background(), event.TriggerGet)
	if err != nil {
		t.Fatalf("DeploymentsForTrigger() error = %v", err)
	}
	if len(deployments) != 0 {
		t.Errorf("expected no enabled deployments, got %d", len(deployments))
	}

	// Enable again
	req = withURLParam(httptest.NewRequest(http.MethodPost, "/api/v1/deployments/toggle-me/enable", nil), "name", "toggle-me")
	w = httptest.NewRecorder()
	handler.Enable(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("Enable() status = %d, want %d", w.Code, http.StatusNoContent)
	}

	deployments, err = cpStore.DeploymentsForTrigger(context.Background(), event.TriggerGet)
	if err != nil {
		t.Fatalf("DeploymentsForTrigger() error = %v", err)
	}
	if len(deployments) != 1 {
		t.Errorf("expected one enabled deployment, got %d", len(deployments))
	}
}

func TestDeploymentHandler_GetNotFound(t *testing.T) {
	_, handler := setupDeploymentTest(t)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/deployments/missing", nil), "name", "missing")
	w := httptest.NewRecorder()
	handler.Get(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Get() status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestDeploymentHandler_ListFilterByTrigger(t *testing.T) {
	_, handler := setupDeploymentTest(t)

	for _, d := range []CreateDeploymentRequest{
		{Name: "on-get", Controller: "prefetching", Trigger: "onget"},
		{Name: "on-put", Controller: "prefetching", Trigger: "onput"},
	} {
		body, _ := json.Marshal(d)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/deployments", bytes.NewReader(body))
		w := httptest.NewRecorder()
		handler.Create(w, req)
		if w.Code != http.StatusCreated {
			t.Fatalf("Create(%s) status = %d", d.Name, w.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/deployments?trigger=onput", nil)
	w := httptest.NewRecorder()
	handler.List(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("List() status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp []DeploymentResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(resp) != 1 || resp[0].Name != "on-put" {
		t.Errorf("List(trigger=onput) = %+v, want only on-put", resp)
	}
}
