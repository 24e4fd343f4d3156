package deployment

import (
	"fmt"
	"os"
	"strings"

	"github.com/marmos91/triggerfish/cmd/triggerfishctl/cmdutil"
	"github.com/marmos91/triggerfish/pkg/apiclient"
	"github.com/spf13/cobra"
)

var (
	editController string
	editTrigger    string
	editBucket     string
	editKeyPrefix  string
	editPosition   int
	editInterval   string
	editEnabled    string // "true", "false", or "" for unchanged
)

var editCmd = &cobra.Command{
	Use:   "edit <name>",
	Short: "Edit a deployment",
	Long: `Edit an existing deployment. Only the specified fields are updated.

Examples:
  # Narrow a deployment to a key prefix
  triggerfishctl deployment edit thumbs --prefix photos/

  # Move a deployment earlier in the trigger order
  triggerfishctl deployment edit thumbs --position 0

  # Swap in a different controller
  triggerfishctl deployment edit thumbs --controller thumbnailer-v2

  # Change a timer interval
  triggerfishctl deployment edit sweeper --interval 10m`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	editCmd.Flags().StringVarP(&editController, "controller", "c", "", "Controller name")
	editCmd.Flags().StringVarP(&editTrigger, "trigger", "t", "", "Trigger (onput|onget|ondelete|ontimer)")
	editCmd.Flags().StringVarP(&editBucket, "bucket", "b", "", "Bucket scope")
	editCmd.Flags().StringVar(&editKeyPrefix, "prefix", "", "Key prefix scope")
	editCmd.Flags().IntVar(&editPosition, "position", 0, "Ordering position within the trigger")
	editCmd.Flags().StringVar(&editInterval, "interval", "", "Firing interval for ontimer deployments")
	editCmd.Flags().StringVar(&editEnabled, "enabled", "", "Enable/disable the deployment (true|false)")
}

func runEdit(cmd *cobra.Command, args []string) error {
	name := args[0]

	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}

	req := &apiclient.UpdateDeploymentRequest{}
	hasUpdate := false

	if cmd.Flags().Changed("controller") {
		req.Controller = &editController
		hasUpdate = true
	}

	if cmd.Flags().Changed("trigger") {
		req.Trigger = &editTrigger
		hasUpdate = true
	}

	if cmd.Flags().Changed("bucket") {
		req.Bucket = &editBucket
		hasUpdate = true
	}

	if cmd.Flags().Changed("prefix") {
		req.KeyPrefix = &editKeyPrefix
		hasUpdate = true
	}

	if cmd.Flags().Changed("position") {
		req.Position = &editPosition
		hasUpdate = true
	}

	if cmd.Flags().Changed("interval") {
		req.Interval = &editInterval
		hasUpdate = true
	}

	if editEnabled != "" {
		enabled := strings.ToLower(editEnabled) == "true"
		req.Enabled = &enabled
		hasUpdate = true
	}

	if !hasUpdate {
		return fmt.Errorf("no fields specified. Use --controller, --trigger, --bucket, --prefix, --position, --interval, or --enabled")
	}

	deployment, err := client.UpdateDeployment(name, req)
	if err != nil {
		return fmt.Errorf("failed to update deployment: %w", err)
	}

	return cmdutil.PrintResourceWithSuccess(os.Stdout, deployment, fmt.Sprintf("Deployment '%s' updated successfully", deployment.Name))
}
