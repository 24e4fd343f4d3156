package user

import (
	"fmt"
	"os"
	"strings"

	"github.com/marmos91/triggerfish/cmd/triggerfishctl/cmdutil"
	"github.com/marmos91/triggerfish/internal/cli/prompt"
	"github.com/marmos91/triggerfish/pkg/apiclient"
	"github.com/spf13/cobra"
)

var (
	editEmail       string
	editDisplayName string
	editRole        string
	editEnabled     string // "true", "false", or "" for unchanged
)

var editCmd = &cobra.Command{
	Use:   "edit <username>",
	Short: "Edit a user",
	Long: `Edit an existing user on the Triggerfish daemon.

When run without flags, opens an interactive editor to modify user properties.
When flags are provided, only the specified fields are updated.

Examples:
  # Edit user interactively
  triggerfishctl user edit alice

  # Update email directly
  triggerfishctl user edit alice --email alice@newdomain.com

  # Update role to admin
  triggerfishctl user edit alice --role admin

  # Disable user
  triggerfishctl user edit alice --enabled false`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	editCmd.Flags().StringVar(&editEmail, "email", "", "Email address")
	editCmd.Flags().StringVar(&editDisplayName, "display-name", "", "Display name")
	editCmd.Flags().StringVar(&editRole, "role", "", "Role (user|admin)")
	editCmd.Flags().StringVar(&editEnabled, "enabled", "", "Enable/disable account (true|false)")
}

func runEdit(cmd *cobra.Command, args []string) error {
	username := args[0]

	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}

	// Check if any flags were provided
	hasFlags := cmd.Flags().Changed("email") || cmd.Flags().Changed("display-name") ||
		cmd.Flags().Changed("role") || cmd.Flags().Changed("enabled")

	// If no flags provided, run interactive mode
	if !hasFlags {
		return runEditInteractive(client, username)
	}

	req := &apiclient.UpdateUserRequest{}
	hasUpdate := false

	if editEmail != "" {
		req.Email = &editEmail
		hasUpdate = true
	}

	if editDisplayName != "" {
		req.DisplayName = &editDisplayName
		hasUpdate = true
	}

	if editRole != "" {
		req.Role = &editRole
		hasUpdate = true
	}

	if editEnabled != "" {
		enabled := strings.ToLower(editEnabled) == "true"
		req.Enabled = &enabled
		hasUpdate = true
	}

	if !hasUpdate {
		return fmt.Errorf("no fields specified. Use --email, --display-name, --role, or --enabled")
	}

	user, err := client.UpdateUser(username, req)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	return cmdutil.PrintResourceWithSuccess(os.Stdout, user, fmt.Sprintf("User '%s' updated successfully", user.Username))
}

func runEditInteractive(client *apiclient.Client, username string) error {
	// Fetch current user
	current, err := client.GetUser(username)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	fmt.Printf("Editing user: %s\n", current.Username)
	fmt.Println("Press Enter to keep current value, or enter a new value.")
	fmt.Println("Press Ctrl+C to abort.")
	fmt.Println()

	req := &apiclient.UpdateUserRequest{}
	hasUpdate := false

	// Email
	newEmail, err := prompt.Input("Email", current.Email)
	if err != nil {
		return cmdutil.HandleAbort(err)
	}
	if newEmail != current.Email {
		req.Email = &newEmail
		hasUpdate = true
	}

	// Role
	roleOptions := []prompt.SelectOption{
		{Label: "user", Value: "user", Description: "Regular user with standard permissions"},
		{Label: "admin", Value: "admin", Description: "Administrator with full access"},
	}
	fmt.Printf("Current role: %s\n", current.Role)
	newRole, err := prompt.Select("Role", roleOptions)
	if err != nil {
		return cmdutil.HandleAbort(err)
	}
	if newRole != current.Role {
		req.Role = &newRole
		hasUpdate = true
	}

	// Enabled
	enabledOptions := []prompt.SelectOption{
		{Label: "enabled", Value: "true", Description: "User can log in"},
		{Label: "disabled", Value: "false", Description: "User cannot log in"},
	}
	currentStatus := "enabled"
	if !current.Enabled {
		currentStatus = "disabled"
	}
	fmt.Printf("Currently: %s\n", currentStatus)
	newEnabledStr, err := prompt.Select("Account status", enabledOptions)
	if err != nil {
		return cmdutil.HandleAbort(err)
	}
	newEnabled := newEnabledStr == "true"
	if newEnabled != current.Enabled {
		req.Enabled = &newEnabled
		hasUpdate = true
	}

	if !hasUpdate {
		fmt.Println("No changes made.")
		return nil
	}

	user, err := client.UpdateUser(username, req)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	return cmdutil.PrintResourceWithSuccess(os.Stdout, user, fmt.Sprintf("User '%s' updated successfully", user.Username))
}
