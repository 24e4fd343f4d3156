package deployment

import (
	"fmt"

	"github.com/marmos91/triggerfish/cmd/triggerfishctl/cmdutil"
	"github.com/spf13/cobra"
)

var disableCmd = &cobra.Command{
	Use:   "disable <name>",
	Short: "Disable a deployment",
	Long: `Disable a deployment without deleting it.

Disabled deployments are skipped during event dispatch but keep their
configuration and can be re-enabled at any time.

Examples:
  triggerfishctl deployment disable thumbs`,
	Args: cobra.ExactArgs(1),
	RunE: runDisable,
}

func runDisable(cmd *cobra.Command, args []string) error {
	name := args[0]

	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}

	if err := client.DisableDeployment(name); err != nil {
		return fmt.Errorf("failed to disable deployment: %w", err)
	}

	cmdutil.PrintSuccess(fmt.Sprintf("Deployment '%s' disabled", name))
	return nil
}
