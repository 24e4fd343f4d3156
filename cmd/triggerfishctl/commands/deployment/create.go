package deployment

import (
	"fmt"
	"os"

	"github.com/marmos91/triggerfish/cmd/triggerfishctl/cmdutil"
	"github.com/marmos91/triggerfish/internal/cli/prompt"
	"github.com/marmos91/triggerfish/pkg/apiclient"
	"github.com/spf13/cobra"
)

var (
	createName       string
	createController string
	createTrigger    string
	createBucket     string
	createKeyPrefix  string
	createPosition   int
	createInterval   string
	createEnabled    bool
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new deployment",
	Long: `Deploy a registered controller on a trigger.

If name, controller, or trigger are not provided via flags, you will be
prompted to enter them interactively. Timer deployments (trigger
"ontimer") require --interval.

Examples:
  # Deploy interactively
  triggerfishctl deployment create

  # Deploy a thumbnailer on object uploads in the media bucket
  triggerfishctl deployment create --name thumbs --controller thumbnailer \
    --trigger onput --bucket media --prefix photos/

  # Deploy a timer controller firing every five minutes
  triggerfishctl deployment create --name sweeper --controller cache-sweeper \
    --trigger ontimer --interval 5m

  # Deploy disabled, enable later
  triggerfishctl deployment create --name thumbs --controller thumbnailer \
    --trigger onput --enabled=false`,
	RunE: runCreate,
}

func init() {
	createCmd.Flags().StringVarP(&createName, "name", "n", "", "Deployment name (required)")
	createCmd.Flags().StringVarP(&createController, "controller", "c", "", "Controller name (required)")
	createCmd.Flags().StringVarP(&createTrigger, "trigger", "t", "", "Trigger (onput|onget|ondelete|ontimer)")
	createCmd.Flags().StringVarP(&createBucket, "bucket", "b", "", "Bucket scope (empty = all buckets)")
	createCmd.Flags().StringVar(&createKeyPrefix, "prefix", "", "Key prefix scope (empty = all keys)")
	createCmd.Flags().IntVar(&createPosition, "position", 0, "Ordering position within the trigger")
	createCmd.Flags().StringVar(&createInterval, "interval", "", "Firing interval for ontimer deployments (e.g. 30s, 5m)")
	createCmd.Flags().BoolVar(&createEnabled, "enabled", true, "Enable the deployment")
}

func runCreate(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}

	interactive := !cmd.Flags().Changed("name")

	name := createName
	if name == "" {
		name, err = prompt.InputRequired("Deployment name")
		if err != nil {
			return cmdutil.HandleAbort(err)
		}
	}

	controller := createController
	if controller == "" {
		// Offer registered controllers when running interactively
		if controllers, err := client.ListControllers(); err == nil && len(controllers) > 0 {
			options := make([]prompt.SelectOption, 0, len(controllers))
			for _, c := range controllers {
				options = append(options, prompt.SelectOption{
					Label:       c.Name,
					Value:       c.Name,
					Description: c.Description,
				})
			}
			controller, err = prompt.Select("Controller", options)
			if err != nil {
				return cmdutil.HandleAbort(err)
			}
		} else {
			controller, err = prompt.InputRequired("Controller")
			if err != nil {
				return cmdutil.HandleAbort(err)
			}
		}
	}

	trigger := createTrigger
	if trigger == "" {
		trigger, err = prompt.Select("Trigger", []prompt.SelectOption{
			{Label: "onput", Value: "onput", Description: "Fires when an object is written"},
			{Label: "onget", Value: "onget", Description: "Fires when an object is read"},
			{Label: "ondelete", Value: "ondelete", Description: "Fires when an object is deleted"},
			{Label: "ontimer", Value: "ontimer", Description: "Fires on a fixed interval"},
		})
		if err != nil {
			return cmdutil.HandleAbort(err)
		}
	}

	interval := createInterval
	if trigger == "ontimer" && interval == "" {
		interval, err = prompt.InputRequired("Interval (e.g. 30s, 5m)")
		if err != nil {
			return cmdutil.HandleAbort(err)
		}
	}

	bucket := createBucket
	if interactive && !cmd.Flags().Changed("bucket") && trigger != "ontimer" {
		bucket, err = prompt.InputOptional("Bucket (empty for all buckets)")
		if err != nil {
			return cmdutil.HandleAbort(err)
		}
	}

	prefix := createKeyPrefix
	if interactive && !cmd.Flags().Changed("prefix") && trigger != "ontimer" {
		prefix, err = prompt.InputOptional("Key prefix (empty for all keys)")
		if err != nil {
			return cmdutil.HandleAbort(err)
		}
	}

	req := &apiclient.CreateDeploymentRequest{
		Name:       name,
		Controller: controller,
		Trigger:    trigger,
		Bucket:     bucket,
		KeyPrefix:  prefix,
		Position:   createPosition,
		Interval:   interval,
		Enabled:    &createEnabled,
	}

	deployment, err := client.CreateDeployment(req)
	if err != nil {
		return fmt.Errorf("failed to create deployment: %w", err)
	}

	return cmdutil.PrintResourceWithSuccess(os.Stdout, deployment, fmt.Sprintf("Deployment '%s' created successfully", deployment.Name))
}
