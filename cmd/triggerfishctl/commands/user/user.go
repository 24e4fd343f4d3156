// Package user implements user management commands for triggerfishctl.
package user

import (
	"github.com/spf13/cobra"
)

// Cmd is the parent command for user management.
var Cmd = &cobra.Command{
	Use:   "user",
	Short: "User management",
	Long: `Manage users on the Triggerfish daemon.

User commands allow you to create, list, edit, and delete users.
These operations require admin privileges.

Examples:
  # List all users
  triggerfishctl user list

  # Create a new user interactively
  triggerfishctl user create

  # Create a user with flags
  triggerfishctl user create --username alice --password secret --role user

  # Edit a user interactively
  triggerfishctl user edit alice

  # Delete a user
  triggerfishctl user delete alice`,
}

func init() {
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(getCmd)
	Cmd.AddCommand(createCmd)
	Cmd.AddCommand(editCmd)
	Cmd.AddCommand(deleteCmd)
	Cmd.AddCommand(passwordCmd)
	Cmd.AddCommand(changePasswordCmd)
}
