package deployment

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/marmos91/triggerfish/cmd/triggerfishctl/cmdutil"
	"github.com/marmos91/triggerfish/pkg/apiclient"
	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "Get deployment details",
	Long: `Get detailed information about a deployment.

Examples:
  # Get deployment details as table
  triggerfishctl deployment get thumbs

  # Get as JSON
  triggerfishctl deployment get thumbs -o json`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

// SingleDeploymentList wraps a single deployment for table rendering.
type SingleDeploymentList []apiclient.Deployment

// Headers implements TableRenderer.
func (dl SingleDeploymentList) Headers() []string {
	return []string{"FIELD", "VALUE"}
}

// Rows implements TableRenderer.
func (dl SingleDeploymentList) Rows() [][]string {
	if len(dl) == 0 {
		return nil
	}
	d := dl[0]

	return [][]string{
		{"ID", d.ID},
		{"Name", d.Name},
		{"Controller", d.Controller},
		{"Trigger", d.Trigger},
		{"Bucket", cmdutil.EmptyOr(d.Bucket, "* (all buckets)")},
		{"Key Prefix", cmdutil.EmptyOr(d.KeyPrefix, "* (all keys)")},
		{"Position", strconv.Itoa(d.Position)},
		{"Interval", cmdutil.EmptyOr(d.Interval, "-")},
		{"Enabled", cmdutil.BoolToYesNo(d.Enabled)},
		{"Created", d.CreatedAt.Local().Format(time.RFC3339)},
		{"Updated", d.UpdatedAt.Local().Format(time.RFC3339)},
	}
}

func runGet(cmd *cobra.Command, args []string) error {
	name := args[0]

	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}

	deployment, err := client.GetDeployment(name)
	if err != nil {
		return fmt.Errorf("failed to get deployment: %w", err)
	}

	return cmdutil.PrintResource(os.Stdout, deployment, SingleDeploymentList{*deployment})
}
