package deployment

import (
	"fmt"
	"os"
	"strconv"

	"github.com/marmos91/triggerfish/cmd/triggerfishctl/cmdutil"
	"github.com/marmos91/triggerfish/pkg/apiclient"
	"github.com/spf13/cobra"
)

var listTrigger string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all deployments",
	Long: `List all controller deployments on the Triggerfish daemon.

Examples:
  # List deployments as table
  triggerfishctl deployment list

  # List only deployments on the onput trigger
  triggerfishctl deployment list --trigger onput

  # List as JSON
  triggerfishctl deployment list -o json`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVarP(&listTrigger, "trigger", "t", "", "Filter by trigger (onput|onget|ondelete|ontimer)")
}

// DeploymentList is a list of deployments for table rendering.
type DeploymentList []apiclient.Deployment

// Headers implements TableRenderer.
func (dl DeploymentList) Headers() []string {
	return []string{"NAME", "CONTROLLER", "TRIGGER", "BUCKET", "PREFIX", "POS", "ENABLED"}
}

// Rows implements TableRenderer.
func (dl DeploymentList) Rows() [][]string {
	rows := make([][]string, 0, len(dl))
	for _, d := range dl {
		rows = append(rows, []string{
			d.Name,
			d.Controller,
			d.Trigger,
			cmdutil.EmptyOr(d.Bucket, "*"),
			cmdutil.EmptyOr(d.KeyPrefix, "*"),
			strconv.Itoa(d.Position),
			cmdutil.BoolToYesNo(d.Enabled),
		})
	}
	return rows
}

func runList(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}

	deployments, err := client.ListDeployments(listTrigger)
	if err != nil {
		return fmt.Errorf("failed to list deployments: %w", err)
	}

	return cmdutil.PrintOutput(os.Stdout, deployments, len(deployments) == 0, "No deployments found.", DeploymentList(deployments))
}
