package controller

import (
	"fmt"
	"os"

	"github.com/marmos91/triggerfish/cmd/triggerfishctl/cmdutil"
	"github.com/marmos91/triggerfish/pkg/apiclient"
	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "Get controller details",
	Long: `Get detailed information about a registered controller.

Examples:
  # Get controller details as table
  triggerfishctl controller get thumbnailer

  # Get as JSON
  triggerfishctl controller get thumbnailer -o json`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

// SingleControllerList wraps a single controller for table rendering.
type SingleControllerList []apiclient.Controller

// Headers implements TableRenderer.
func (cl SingleControllerList) Headers() []string {
	return []string{"FIELD", "VALUE"}
}

// Rows implements TableRenderer.
func (cl SingleControllerList) Rows() [][]string {
	if len(cl) == 0 {
		return nil
	}
	c := cl[0]

	return [][]string{
		{"Name", c.Name},
		{"Description", cmdutil.EmptyOr(c.Description, "-")},
	}
}

func runGet(cmd *cobra.Command, args []string) error {
	name := args[0]

	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}

	controller, err := client.GetController(name)
	if err != nil {
		return fmt.Errorf("failed to get controller: %w", err)
	}

	return cmdutil.PrintResource(os.Stdout, controller, SingleControllerList{*controller})
}
