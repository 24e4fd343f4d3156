package commands

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/marmos91/triggerfish/cmd/triggerfishctl/cmdutil"
	"github.com/marmos91/triggerfish/pkg/apiclient"
	"github.com/spf13/cobra"
)

var invocationsLimit int

var invocationsCmd = &cobra.Command{
	Use:   "invocations",
	Short: "List recent controller invocations",
	Long: `List recent controller invocations from the invocation journal,
newest first.

The journal must be enabled in the daemon configuration. When it is
disabled, the daemon rejects this request.

Examples:
  # List the 50 most recent invocations
  triggerfishctl invocations

  # List the last 10
  triggerfishctl invocations --limit 10

  # Output as JSON
  triggerfishctl invocations -o json`,
	RunE: runInvocations,
}

func init() {
	invocationsCmd.Flags().IntVarP(&invocationsLimit, "limit", "n", 0, "Maximum number of invocations to return (0 = server default)")
}

// InvocationList is a list of invocations for table rendering.
type InvocationList []apiclient.Invocation

// Headers implements TableRenderer.
func (il InvocationList) Headers() []string {
	return []string{"INVOKED AT", "TRIGGER", "CONTROLLER", "BUCKET", "KEY", "OUTCOME", "DURATION"}
}

// Rows implements TableRenderer.
func (il InvocationList) Rows() [][]string {
	rows := make([][]string, 0, len(il))
	for _, inv := range il {
		rows = append(rows, []string{
			inv.InvokedAt.Local().Format(time.RFC3339),
			inv.Trigger,
			inv.Controller,
			cmdutil.EmptyOr(inv.Bucket, "-"),
			cmdutil.EmptyOr(inv.Key, "-"),
			inv.Outcome,
			inv.Duration.Round(time.Millisecond).String(),
		})
	}
	return rows
}

func runInvocations(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}

	invocations, err := client.ListInvocations(invocationsLimit)
	if err != nil {
		var apiErr *apiclient.APIError
		if errors.As(err, &apiErr) && apiErr.IsNotImplemented() {
			return fmt.Errorf("the invocation journal is not enabled on this daemon\n\n" +
				"Enable it in the daemon configuration:\n" +
				"  journal:\n" +
				"    enabled: true")
		}
		return fmt.Errorf("failed to list invocations: %w", err)
	}

	return cmdutil.PrintOutput(os.Stdout, invocations, len(invocations) == 0, "No invocations recorded.", InvocationList(invocations))
}
