package user

import (
	"fmt"
	"os"
	"time"

	"github.com/marmos91/triggerfish/cmd/triggerfishctl/cmdutil"
	"github.com/marmos91/triggerfish/pkg/apiclient"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all users",
	Long: `List all users on the Triggerfish daemon.

Examples:
  # List users as table
  triggerfishctl user list

  # List as JSON
  triggerfishctl user list -o json

  # List as YAML
  triggerfishctl user list -o yaml`,
	RunE: runList,
}

// UserList is a list of users for table rendering.
type UserList []apiclient.User

// Headers implements TableRenderer.
func (ul UserList) Headers() []string {
	return []string{"USERNAME", "ROLE", "EMAIL", "ENABLED", "LAST LOGIN"}
}

// Rows implements TableRenderer.
func (ul UserList) Rows() [][]string {
	rows := make([][]string, 0, len(ul))
	for _, u := range ul {
		email := cmdutil.EmptyOr(u.Email, "-")
		lastLogin := "-"
		if u.LastLogin != nil {
			lastLogin = u.LastLogin.Local().Format(time.RFC3339)
		}
		rows = append(rows, []string{u.Username, u.Role, email, cmdutil.BoolToYesNo(u.Enabled), lastLogin})
	}
	return rows
}

func runList(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}

	users, err := client.ListUsers()
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	return cmdutil.PrintOutput(os.Stdout, users, len(users) == 0, "No users found.", UserList(users))
}
