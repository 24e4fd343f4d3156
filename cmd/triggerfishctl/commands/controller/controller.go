// Package controller implements controller inspection commands for triggerfishctl.
package controller

import (
	"github.com/spf13/cobra"
)

// Cmd is the parent command for controller inspection.
var Cmd = &cobra.Command{
	Use:   "controller",
	Short: "Inspect registered controllers",
	Long: `Inspect the controllers compiled into the Triggerfish daemon.

Controllers are registered at daemon startup and cannot be added or
removed at runtime. Use deployments to bind a controller to a trigger.

Examples:
  # List registered controllers
  triggerfishctl controller list

  # Get details about a controller
  triggerfishctl controller get thumbnailer`,
}

func init() {
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(getCmd)
}
