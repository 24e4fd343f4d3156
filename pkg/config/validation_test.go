package config

import (
	"strings"
	"testing"

	"github.com/marmos91/triggerfish/pkg/controlplane/store"
)

func TestValidate_ValidConfig(t *testing.T) {
	cfg := GetDefaultConfig()

	err := Validate(cfg)
	if err != nil {
		t.Errorf("Expected valid config to pass validation, got error: %v", err)
	}
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Logging.Level = "INVALID"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for invalid log level")
	}
	if !strings.Contains(err.Error(), "oneof") {
		t.Errorf("Expected 'oneof' validation error, got: %v", err)
	}
}

func TestValidate_InvalidLogFormat(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Logging.Format = "xml"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for invalid log format")
	}
}

func TestValidate_InvalidMetricsPort(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Metrics.Port = 99999

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for out-of-range metrics port")
	}
}

func TestValidate_InvalidSampleRate(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Telemetry.SampleRate = 1.5

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for sample rate above 1.0")
	}
}

func TestValidate_MissingShutdownTimeout(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.ShutdownTimeout = 0

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for zero shutdown timeout")
	}
}

func TestValidate_UnknownDatabaseType(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Database.Type = store.DatabaseType("oracle")

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for unknown database type")
	}
	if !strings.Contains(err.Error(), "oracle") {
		t.Errorf("Expected error to name the bad type, got: %v", err)
	}
}

func TestValidate_InvalidAttributeCacheType(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.AttributeCache.Type = "redis"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for unknown attribute cache type")
	}
}

func TestValidate_BadgerRequiresPath(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.AttributeCache.Type = "badger"
	cfg.AttributeCache.Path = ""

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for badger cache without path")
	}
	if !strings.Contains(err.Error(), "path") {
		t.Errorf("Expected error to mention path, got: %v", err)
	}
}

func TestValidate_MemoryCacheNeedsNoPath(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.AttributeCache.Type = "memory"
	cfg.AttributeCache.Path = ""

	if err := Validate(cfg); err != nil {
		t.Errorf("Expected memory cache without path to validate, got: %v", err)
	}
}

func TestValidate_JournalDisabledSkipsConnection(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Journal.Enabled = false
	// Connection section left empty on purpose

	if err := Validate(cfg); err != nil {
		t.Errorf("Expected disabled journal to skip connection validation, got: %v", err)
	}
}

func TestValidate_JournalEnabledRequiresConnection(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Journal.Enabled = true
	ApplyDefaults(cfg)

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for enabled journal without host")
	}
	if !strings.Contains(err.Error(), "journal") {
		t.Errorf("Expected error scoped to journal section, got: %v", err)
	}
}

func TestValidate_JournalEnabledWithConnection(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Journal.Enabled = true
	cfg.Journal.Postgres.Host = "localhost"
	cfg.Journal.Postgres.Port = 5432
	cfg.Journal.Postgres.Database = "triggerfish"
	cfg.Journal.Postgres.User = "triggerfish"
	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		t.Errorf("Expected configured journal to validate, got: %v", err)
	}
}
