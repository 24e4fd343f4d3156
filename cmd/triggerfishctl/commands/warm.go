package commands

import (
	"fmt"
	"os"

	"github.com/marmos91/triggerfish/cmd/triggerfishctl/cmdutil"
	"github.com/spf13/cobra"
)

var warmBucket string

var warmCmd = &cobra.Command{
	Use:   "warm <identifier>...",
	Short: "Warm objects into the platform cache",
	Long: `Queue objects for demand prefetching into the platform cache.

Identifiers are object keys in the bucket given with --bucket, or
"bucket/key" references that name their own bucket. Warming requests
take the demand lane of the prefetch queue and are served ahead of
speculative prefetches.

Examples:
  # Warm two objects in a bucket
  triggerfishctl warm --bucket media photos/a.jpg photos/b.jpg

  # Warm objects across buckets
  triggerfishctl warm media/photos/a.jpg thumbnails/b.jpg`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWarm,
}

func init() {
	warmCmd.Flags().StringVarP(&warmBucket, "bucket", "b", "", "Default bucket for bare object keys")
}

func runWarm(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}

	result, err := client.Warm(warmBucket, args)
	if err != nil {
		return fmt.Errorf("failed to queue warming requests: %w", err)
	}

	msg := fmt.Sprintf("Queued %d object(s) for warming", result.Accepted)
	if result.Dropped > 0 {
		msg = fmt.Sprintf("%s (%d dropped, queue full)", msg, result.Dropped)
	}

	return cmdutil.PrintResourceWithSuccess(os.Stdout, result, msg)
}
