package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/marmos91/triggerfish/pkg/controlplane/store"
)

// Validate checks the configuration for structural and semantic errors.
//
// Field-level constraints (ranges, enumerations, required fields) are
// declared as `validate` struct tags and checked with the validator
// package. Cross-field rules that the tag language cannot express are
// checked explicitly afterwards.
func Validate(cfg *Config) error {
	v := validator.New()

	if err := v.Struct(cfg); err != nil {
		return err
	}

	switch cfg.Database.Type {
	case store.DatabaseTypeSQLite, store.DatabaseTypePostgres:
	default:
		return fmt.Errorf("database: unknown type %q (must be sqlite or postgres)", cfg.Database.Type)
	}

	// The badger backend persists to disk and needs a directory.
	if cfg.AttributeCache.Type == "badger" && cfg.AttributeCache.Path == "" {
		return fmt.Errorf("attribute_cache: path is required for the badger backend")
	}

	// The journal connection is only meaningful when journaling is on,
	// so its section is excluded from tag validation and checked here.
	if cfg.Journal.Enabled {
		if err := cfg.Journal.Postgres.Validate(); err != nil {
			return fmt.Errorf("journal: %w", err)
		}
	}

	return nil
}
