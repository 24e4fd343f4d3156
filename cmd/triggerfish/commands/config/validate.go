package config

import (
	"fmt"

	"github.com/marmos91/triggerfish/pkg/config"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long: `Validate the Triggerfish configuration file.

Checks for syntax errors, missing required fields, and invalid values.

Examples:
  # Validate default config
  triggerfish config validate

  # Validate specific config file
  triggerfish config validate --config /etc/triggerfish/config.yaml`,
	RunE: runConfigValidate,
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	// Get config path from parent's persistent flag
	configPath, _ := cmd.Flags().GetString("config")

	cfg, err := config.MustLoad(configPath)
	if err != nil {
		return err
	}

	// Determine path for display
	displayPath := configPath
	if displayPath == "" {
		displayPath = config.GetDefaultConfigPath()
	}

	// Additional validation checks
	var warnings []string

	if !cfg.ControlPlane.HasJWTSecret() {
		warnings = append(warnings, "JWT secret not configured - API authentication will fail")
	}

	if cfg.Intake.GetSecret() == "" {
		warnings = append(warnings, "Intake secret not configured - event delivery will fail")
	}

	if cfg.Gateway.Endpoint == "" {
		warnings = append(warnings, "Gateway endpoint not configured - using AWS default resolution")
	}

	if !cfg.Journal.Enabled {
		warnings = append(warnings, "Invocation journal disabled - audit queries will return 501")
	}

	// Print results
	fmt.Printf("Configuration file: %s\n", displayPath)
	fmt.Println("Validation: OK")

	if len(warnings) > 0 {
		fmt.Println("\nWarnings:")
		for _, w := range warnings {
			fmt.Printf("  - %s\n", w)
		}
	}

	fmt.Printf("\nConfiguration summary:\n")
	fmt.Printf("  Database type:   %s\n", cfg.Database.Type)
	fmt.Printf("  API port:        %d\n", cfg.ControlPlane.Port)
	fmt.Printf("  Intake port:     %d\n", cfg.Intake.Port)
	fmt.Printf("  Attribute cache: %s\n", cfg.AttributeCache.Type)
	fmt.Printf("  Log level:       %s\n", cfg.Logging.Level)

	return nil
}
