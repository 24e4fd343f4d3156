// Package deployment implements deployment management commands for triggerfishctl.
package deployment

import (
	"github.com/spf13/cobra"
)

// Cmd is the parent command for deployment management.
var Cmd = &cobra.Command{
	Use:     "deployment",
	Aliases: []string{"deploy"},
	Short:   "Controller deployment management",
	Long: `Manage controller deployments on the Triggerfish daemon.

A deployment binds a registered controller to a trigger, optionally
scoped to a bucket and key prefix. Deployments on the same trigger run
in position order.

Examples:
  # List all deployments
  triggerfishctl deployment list

  # Deploy a controller on the onput trigger
  triggerfishctl deployment create --name thumbs --controller thumbnailer --trigger onput --bucket media

  # Disable a deployment without deleting it
  triggerfishctl deployment disable thumbs`,
}

func init() {
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(getCmd)
	Cmd.AddCommand(createCmd)
	Cmd.AddCommand(editCmd)
	Cmd.AddCommand(deleteCmd)
	Cmd.AddCommand(enableCmd)
	Cmd.AddCommand(disableCmd)
}
