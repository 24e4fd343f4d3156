package controller

import (
	"fmt"
	"os"

	"github.com/marmos91/triggerfish/cmd/triggerfishctl/cmdutil"
	"github.com/marmos91/triggerfish/pkg/apiclient"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered controllers",
	Long: `List the controllers registered in the Triggerfish daemon.

Examples:
  # List controllers as table
  triggerfishctl controller list

  # List as JSON
  triggerfishctl controller list -o json`,
	RunE: runList,
}

// ControllerList is a list of controllers for table rendering.
type ControllerList []apiclient.Controller

// Headers implements TableRenderer.
func (cl ControllerList) Headers() []string {
	return []string{"NAME", "DESCRIPTION"}
}

// Rows implements TableRenderer.
func (cl ControllerList) Rows() [][]string {
	rows := make([][]string, 0, len(cl))
	for _, c := range cl {
		rows = append(rows, []string{c.Name, cmdutil.EmptyOr(c.Description, "-")})
	}
	return rows
}

func runList(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}

	controllers, err := client.ListControllers()
	if err != nil {
		return fmt.Errorf("failed to list controllers: %w", err)
	}

	return cmdutil.PrintOutput(os.Stdout, controllers, len(controllers) == 0, "No controllers registered.", ControllerList(controllers))
}
