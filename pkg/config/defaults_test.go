package config

import (
	"testing"
	"time"

	"github.com/marmos91/triggerfish/pkg/controlplane/store"
	"github.com/marmos91/triggerfish/pkg/engine"
)

func TestApplyDefaults_EmptyConfig(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Logging.Level != "INFO" {
		t.Errorf("Expected default level INFO, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Expected default format text, got %q", cfg.Logging.Format)
	}
	if cfg.Logging.Output != "stdout" {
		t.Errorf("Expected default output stdout, got %q", cfg.Logging.Output)
	}
	if cfg.Telemetry.Endpoint != "localhost:4317" {
		t.Errorf("Expected default OTLP endpoint, got %q", cfg.Telemetry.Endpoint)
	}
	if cfg.Telemetry.SampleRate != 1.0 {
		t.Errorf("Expected default sample rate 1.0, got %v", cfg.Telemetry.SampleRate)
	}
	if cfg.Telemetry.Profiling.Endpoint != "http://localhost:4040" {
		t.Errorf("Expected default Pyroscope endpoint, got %q", cfg.Telemetry.Profiling.Endpoint)
	}
	if len(cfg.Telemetry.Profiling.ProfileTypes) == 0 {
		t.Error("Expected default profile types")
	}
	if cfg.ShutdownTimeout != 30*time.Second {
		t.Errorf("Expected default shutdown timeout 30s, got %v", cfg.ShutdownTimeout)
	}
	if cfg.ControlPlane.Port != 8080 {
		t.Errorf("Expected default control plane port 8080, got %d", cfg.ControlPlane.Port)
	}
	if cfg.Intake.Port != 8081 {
		t.Errorf("Expected default intake port 8081, got %d", cfg.Intake.Port)
	}
	if cfg.Intake.ForwardTimeout != 2*time.Second {
		t.Errorf("Expected default forward timeout 2s, got %v", cfg.Intake.ForwardTimeout)
	}
	if cfg.Gateway.Region != "us-east-1" {
		t.Errorf("Expected default gateway region, got %q", cfg.Gateway.Region)
	}
	if cfg.AttributeCache.Type != "badger" {
		t.Errorf("Expected default attribute cache type badger, got %q", cfg.AttributeCache.Type)
	}
	if cfg.Prefetch.QueueSize != 1024 || cfg.Prefetch.Workers != 4 {
		t.Errorf("Expected default prefetch sizing 1024/4, got %d/%d",
			cfg.Prefetch.QueueSize, cfg.Prefetch.Workers)
	}
	if cfg.Prefetch.FetchTimeout != 2*time.Minute {
		t.Errorf("Expected default fetch timeout 2m, got %v", cfg.Prefetch.FetchTimeout)
	}
	if cfg.Engine.InvokeTimeout != engine.DefaultInvokeTimeout {
		t.Errorf("Expected default invoke timeout, got %v", cfg.Engine.InvokeTimeout)
	}
}

func TestApplyDefaults_PreservesExplicitValues(t *testing.T) {
	cfg := &Config{
		Logging: LoggingConfig{
			Level:  "ERROR",
			Format: "json",
			Output: "stderr",
		},
		ShutdownTimeout: 5 * time.Second,
		Prefetch: PrefetchConfig{
			QueueSize: 16,
			Workers:   1,
		},
	}
	ApplyDefaults(cfg)

	if cfg.Logging.Level != "ERROR" {
		t.Errorf("Expected explicit level preserved, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Expected explicit format preserved, got %q", cfg.Logging.Format)
	}
	if cfg.ShutdownTimeout != 5*time.Second {
		t.Errorf("Expected explicit shutdown timeout preserved, got %v", cfg.ShutdownTimeout)
	}
	if cfg.Prefetch.QueueSize != 16 || cfg.Prefetch.Workers != 1 {
		t.Errorf("Expected explicit prefetch sizing preserved, got %d/%d",
			cfg.Prefetch.QueueSize, cfg.Prefetch.Workers)
	}
}

func TestApplyDefaults_NormalizesLogLevel(t *testing.T) {
	cfg := &Config{Logging: LoggingConfig{Level: "debug"}}
	ApplyDefaults(cfg)

	if cfg.Logging.Level != "DEBUG" {
		t.Errorf("Expected log level normalized to DEBUG, got %q", cfg.Logging.Level)
	}
}

func TestApplyDefaults_MetricsPortOnlyWhenEnabled(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	if cfg.Metrics.Port != 0 {
		t.Errorf("Expected no metrics port when disabled, got %d", cfg.Metrics.Port)
	}

	cfg = &Config{Metrics: MetricsConfig{Enabled: true}}
	ApplyDefaults(cfg)
	if cfg.Metrics.Port != 9090 {
		t.Errorf("Expected default metrics port 9090 when enabled, got %d", cfg.Metrics.Port)
	}
}

func TestApplyDefaults_JournalPostgresOnlyWhenEnabled(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	if cfg.Journal.Postgres.SSLMode != "" {
		t.Errorf("Expected untouched journal section when disabled, got ssl_mode %q",
			cfg.Journal.Postgres.SSLMode)
	}

	cfg = &Config{}
	cfg.Journal.Enabled = true
	ApplyDefaults(cfg)
	if cfg.Journal.Postgres.SSLMode != "prefer" {
		t.Errorf("Expected journal ssl_mode default prefer, got %q", cfg.Journal.Postgres.SSLMode)
	}
	if cfg.Journal.Postgres.MaxConns == 0 {
		t.Error("Expected journal pool defaults applied when enabled")
	}
}

func TestGetDefaultConfig(t *testing.T) {
	cfg := GetDefaultConfig()

	if cfg.Database.Type != store.DatabaseTypeSQLite {
		t.Errorf("Expected default database type sqlite, got %q", cfg.Database.Type)
	}
	if cfg.AttributeCache.Type != "badger" {
		t.Errorf("Expected default attribute cache type badger, got %q", cfg.AttributeCache.Type)
	}
	if cfg.AttributeCache.Path == "" {
		t.Error("Expected default attribute cache path to be set")
	}
	if !cfg.Gateway.ForcePathStyle {
		t.Error("Expected path-style addressing in default config")
	}
	if !cfg.Engine.ObjectAssignments {
		t.Error("Expected object assignments enabled in default config")
	}

	if err := Validate(cfg); err != nil {
		t.Errorf("Expected default config to validate, got: %v", err)
	}
}
