package user

import (
	"fmt"
	"os"
	"time"

	"github.com/marmos91/triggerfish/cmd/triggerfishctl/cmdutil"
	"github.com/marmos91/triggerfish/pkg/apiclient"
	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <username>",
	Short: "Get user details",
	Long: `Get detailed information about a user.

Examples:
  # Get user details as table
  triggerfishctl user get alice

  # Get as JSON
  triggerfishctl user get alice -o json`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

// SingleUserList wraps a single user for table rendering.
type SingleUserList []apiclient.User

// Headers implements TableRenderer.
func (ul SingleUserList) Headers() []string {
	return []string{"FIELD", "VALUE"}
}

// Rows implements TableRenderer.
func (ul SingleUserList) Rows() [][]string {
	if len(ul) == 0 {
		return nil
	}
	u := ul[0]
	lastLogin := "-"
	if u.LastLogin != nil {
		lastLogin = u.LastLogin.Local().Format(time.RFC3339)
	}

	return [][]string{
		{"ID", u.ID},
		{"Username", u.Username},
		{"Display Name", cmdutil.EmptyOr(u.DisplayName, "-")},
		{"Email", cmdutil.EmptyOr(u.Email, "-")},
		{"Role", u.Role},
		{"Enabled", cmdutil.BoolToYesNo(u.Enabled)},
		{"Must Change Password", cmdutil.BoolToYesNo(u.MustChangePassword)},
		{"Last Login", lastLogin},
	}
}

func runGet(cmd *cobra.Command, args []string) error {
	username := args[0]

	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}

	user, err := client.GetUser(username)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	return cmdutil.PrintResource(os.Stdout, user, SingleUserList{*user})
}
