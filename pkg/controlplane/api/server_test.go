//go:build integration

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/marmos91/triggerfish/pkg/controlplane/store"
	"github.com/marmos91/triggerfish/pkg/engine"
)

// testSetup creates a control plane store and APIConfig for testing.
func testSetup(t *testing.T, port int) (store.Store, APIConfig) {
	t.Helper()

	dbConfig := store.Config{
		Type: store.DatabaseTypeSQLite,
		SQLite: store.SQLiteConfig{
			Path: ":memory:",
		},
	}
	cpStore, err := store.New(&dbConfig)
	if err != nil {
		t.Fatalf("Failed to create control plane store: %v", err)
	}
	t.Cleanup(func() { _ = cpStore.Close() })

	// Create API config with a valid JWT secret (>= 32 characters)
	cfg := APIConfig{
		Port:         port,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		IdleTimeout:  10 * time.Second,
		JWT: JWTConfig{
			Secret:               "test-secret-key-for-testing-only-32chars",
			AccessTokenDuration:  15 * time.Minute,
			RefreshTokenDuration: 7 * 24 * time.Hour,
		},
	}

	return cpStore, cfg
}

func startServer(t *testing.T, server *Server) context.CancelFunc {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = server.Start(ctx) }()

	// Give the listener time to come up
	time.Sleep(100 * time.Millisecond)
	return cancel
}

func TestAPIServer_Lifecycle(t *testing.T) {
	cpStore, cfg := testSetup(t, 18080)

	server, err := NewServer(cfg, Dependencies{Store: cpStore, Registry: engine.NewRegistry()})
	if err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}

	cancel := startServer(t, server)
	defer cancel()

	resp, err := http.Get(fmt.Sprintf("http://localhost:%d/health", cfg.Port))
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected Content-Type application/json, got %s", ct)
	}

	// Shut down and verify the port is released
	cancel()
	time.Sleep(200 * time.Millisecond)

	if _, err := http.Get(fmt.Sprintf("http://localhost:%d/health", cfg.Port)); err == nil {
		t.Error("Expected request to fail after shutdown")
	}
}

func TestAPIServer_RequiresJWTSecret(t *testing.T) {
	cpStore, cfg := testSetup(t, 18081)
	cfg.JWT.Secret = ""

	if _, err := NewServer(cfg, Dependencies{Store: cpStore}); err == nil {
		t.Fatal("Expected error for missing JWT secret")
	}
}

func TestAPIServer_RequiresStore(t *testing.T) {
	_, cfg := testSetup(t, 18082)

	if _, err := NewServer(cfg, Dependencies{}); err == nil {
		t.Fatal("Expected error for missing store")
	}
}

func TestAPIServer_AuthFlow(t *testing.T) {
	cpStore, cfg := testSetup(t, 18083)
	cfg.Port = 18083

	// Seed the admin user with a known password
	t.Setenv("TRIGGERFISH_ADMIN_INITIAL_PASSWORD", "integration-test-password")
	if _, err := cpStore.EnsureAdminUser(context.Background()); err != nil {
		t.Fatalf("EnsureAdminUser() error = %v", err)
	}

	server, err := NewServer(cfg, Dependencies{Store: cpStore, Registry: engine.NewRegistry()})
	if err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}

	cancel := startServer(t, server)
	defer cancel()

	base := fmt.Sprintf("http://localhost:%d", cfg.Port)

	// Unauthenticated request to a protected endpoint fails
	resp, err := http.Get(base + "/api/v1/status")
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected status %d for unauthenticated request, got %d", http.StatusUnauthorized, resp.StatusCode)
	}

	// Login
	loginBody, _ := json.Marshal(map[string]string{
		"username": "admin",
		"password": "integration-test-password",
	})
	resp, err = http.Post(base+"/api/v1/auth/login", "application/json", bytes.NewReader(loginBody))
	if err != nil {
		t.Fatalf("Login request failed: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Login status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var login struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&login); err != nil {
		t.Fatalf("Failed to decode login response: %v", err)
	}
	if login.AccessToken == "" {
		t.Fatal("Expected non-empty access token")
	}
}
