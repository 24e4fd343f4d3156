package config

import (
	"strings"
	"time"

	"github.com/marmos91/triggerfish/pkg/controlplane/api"
	"github.com/marmos91/triggerfish/pkg/controlplane/store"
	"github.com/marmos91/triggerfish/pkg/engine"
	"github.com/marmos91/triggerfish/pkg/gateway/s3"
	"github.com/marmos91/triggerfish/pkg/intake"
)

// ApplyDefaults sets default values for any unspecified configuration fields.
//
// This function is called after loading configuration from file and environment
// variables to fill in any missing values with sensible defaults.
//
// Default Strategy:
//   - Zero values (0, "", false, nil) are replaced with defaults
//   - Explicit values are preserved
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyTelemetryDefaults(&cfg.Telemetry)
	applyShutdownTimeoutDefaults(cfg)
	applyDatabaseDefaults(&cfg.Database)
	applyMetricsDefaults(&cfg.Metrics)
	applyControlPlaneDefaults(&cfg.ControlPlane)
	applyIntakeDefaults(&cfg.Intake)
	applyGatewayDefaults(&cfg.Gateway)
	applyAttributeCacheDefaults(&cfg.AttributeCache)
	applyPrefetchDefaults(&cfg.Prefetch)
	applyEngineDefaults(&cfg.Engine)
	applyJournalDefaults(&cfg.Journal)
}

// applyLoggingDefaults sets logging defaults and normalizes values.
func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	// Normalize log level to uppercase for consistent internal representation
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.Output == "" {
		cfg.Output = "stdout"
	}
}

// applyTelemetryDefaults sets OpenTelemetry defaults.
func applyTelemetryDefaults(cfg *TelemetryConfig) {
	// Enabled defaults to false (opt-in for telemetry)
	// No need to set, zero value is false

	// Default endpoint is localhost:4317 (standard OTLP gRPC port)
	if cfg.Endpoint == "" {
		cfg.Endpoint = "localhost:4317"
	}

	// Default sample rate is 1.0 (sample all traces)
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 1.0
	}

	// Apply profiling defaults
	applyProfilingDefaults(&cfg.Profiling)
}

// applyProfilingDefaults sets Pyroscope profiling defaults.
func applyProfilingDefaults(cfg *ProfilingConfig) {
	// Enabled defaults to false (opt-in for profiling)
	// No need to set, zero value is false

	// Default endpoint is localhost:4040 (standard Pyroscope port)
	if cfg.Endpoint == "" {
		cfg.Endpoint = "http://localhost:4040"
	}

	// Default profile types include CPU, memory allocation, and goroutines
	if len(cfg.ProfileTypes) == 0 {
		cfg.ProfileTypes = []string{
			"cpu",
			"alloc_objects",
			"alloc_space",
			"inuse_objects",
			"inuse_space",
			"goroutines",
		}
	}
}

// applyShutdownTimeoutDefaults sets shutdown timeout defaults.
func applyShutdownTimeoutDefaults(cfg *Config) {
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 30 * time.Second
	}
}

// applyDatabaseDefaults sets control plane database defaults.
func applyDatabaseDefaults(cfg *store.Config) {
	cfg.ApplyDefaults()
}

// applyMetricsDefaults sets metrics defaults.
func applyMetricsDefaults(cfg *MetricsConfig) {
	// Enabled defaults to false (opt-in for metrics)
	// Port defaults to 9090 if metrics are enabled
	if cfg.Enabled && cfg.Port == 0 {
		cfg.Port = 9090
	}
}

// applyControlPlaneDefaults sets admin API server defaults.
// The API is always enabled (mandatory for managing deployments and users).
func applyControlPlaneDefaults(cfg *api.APIConfig) {
	cfg.ApplyDefaults()
}

// applyIntakeDefaults sets intake listener defaults.
func applyIntakeDefaults(cfg *intake.Config) {
	cfg.ApplyDefaults()
}

// applyGatewayDefaults sets platform gateway defaults.
func applyGatewayDefaults(cfg *GatewayConfig) {
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = s3.DefaultConnectTimeout
	}
	// Endpoint and HealthBucket have no defaults - empty means standard
	// AWS resolution and no startup probe respectively.
	// ForcePathStyle is set by GetDefaultConfig; a file that configures
	// the gateway section chooses its own addressing style.
}

// applyAttributeCacheDefaults sets attribute cache defaults.
func applyAttributeCacheDefaults(cfg *AttributeCacheConfig) {
	if cfg.Type == "" {
		cfg.Type = "badger"
	}
	// TTL defaults to the store default (5m) inside the store itself.
	// Path has no default for the badger backend - it must be configured.
}

// applyPrefetchDefaults sets warming queue defaults.
func applyPrefetchDefaults(cfg *PrefetchConfig) {
	if cfg.QueueSize == 0 {
		cfg.QueueSize = 1024
	}
	if cfg.Workers == 0 {
		cfg.Workers = 4
	}
	if cfg.FetchTimeout == 0 {
		cfg.FetchTimeout = 2 * time.Minute
	}
	// WarmBytes defaults to 0 (whole objects)
}

// applyEngineDefaults sets engine defaults.
func applyEngineDefaults(cfg *engine.Config) {
	if cfg.InvokeTimeout == 0 {
		cfg.InvokeTimeout = engine.DefaultInvokeTimeout
	}
	// ObjectAssignments cannot be defaulted here - a false is
	// indistinguishable from unset. GetDefaultConfig enables it, and
	// the generated config file carries the value explicitly.
}

// applyJournalDefaults sets invocation journal defaults.
func applyJournalDefaults(cfg *JournalConfig) {
	// Enabled defaults to false (opt-in)
	if cfg.Enabled {
		cfg.Postgres.ApplyDefaults()
	}
}

// GetDefaultConfig returns a Config struct with all default values applied.
//
// This is useful for:
//   - Generating sample configuration files
//   - Testing
//   - Documentation
func GetDefaultConfig() *Config {
	cfg := &Config{
		Logging: LoggingConfig{},
		Database: store.Config{
			Type: store.DatabaseTypeSQLite, // Default to SQLite for single-node
		},
		Gateway: GatewayConfig{
			ForcePathStyle: true, // On-prem gateways need path-style addressing
		},
		AttributeCache: AttributeCacheConfig{
			Type: "badger",
			Path: "/var/lib/triggerfish/attributes",
		},
		Engine: engine.DefaultConfig(),
	}

	ApplyDefaults(cfg)
	return cfg
}
