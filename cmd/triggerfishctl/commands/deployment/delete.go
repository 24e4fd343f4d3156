package deployment

import (
	"fmt"

	"github.com/marmos91/triggerfish/cmd/triggerfishctl/cmdutil"
	"github.com/spf13/cobra"
)

var deleteForce bool

var deleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a deployment",
	Long: `Delete a deployment from the Triggerfish daemon.

The controller itself stays registered; only the binding to the trigger
is removed. You will be prompted for confirmation unless --force is
specified.

Examples:
  # Delete deployment with confirmation
  triggerfishctl deployment delete thumbs

  # Delete deployment without confirmation
  triggerfishctl deployment delete thumbs --force`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "Skip confirmation prompt")
}

func runDelete(cmd *cobra.Command, args []string) error {
	name := args[0]

	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}

	return cmdutil.RunDeleteWithConfirmation("Deployment", name, deleteForce, func() error {
		if err := client.DeleteDeployment(name); err != nil {
			return fmt.Errorf("failed to delete deployment: %w", err)
		}
		return nil
	})
}
