package deployment

import (
	"fmt"

	"github.com/marmos91/triggerfish/cmd/triggerfishctl/cmdutil"
	"github.com/spf13/cobra"
)

var enableCmd = &cobra.Command{
	Use:   "enable <name>",
	Short: "Enable a deployment",
	Long: `Enable a disabled deployment.

The deployment starts receiving events from its trigger on the next
matching event.

Examples:
  triggerfishctl deployment enable thumbs`,
	Args: cobra.ExactArgs(1),
	RunE: runEnable,
}

func runEnable(cmd *cobra.Command, args []string) error {
	name := args[0]

	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}

	if err := client.EnableDeployment(name); err != nil {
		return fmt.Errorf("failed to enable deployment: %w", err)
	}

	cmdutil.PrintSuccess(fmt.Sprintf("Deployment '%s' enabled", name))
	return nil
}
