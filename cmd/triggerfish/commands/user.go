package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/marmos91/triggerfish/internal/cli/prompt"
	"github.com/marmos91/triggerfish/pkg/config"
	"github.com/marmos91/triggerfish/pkg/controlplane/models"
	"github.com/marmos91/triggerfish/pkg/controlplane/store"
	"github.com/spf13/cobra"
)

// The user command manages accounts directly in the control plane
// database, without going through the admin API. Useful for bootstrap
// and recovery when the daemon is not running.

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users in the control plane database",
	Long: `Manage user accounts directly in the control plane database.

Unlike 'triggerfishctl user', these commands operate on the database without
the daemon running. Use them for bootstrap and password recovery.

Examples:
  # Add a user (prompts for password)
  triggerfish user add alice

  # Add an admin user
  triggerfish user add alice --role admin

  # List all users
  triggerfish user list

  # Reset a password
  triggerfish user passwd alice

  # Delete a user
  triggerfish user delete alice`,
}

var userAddRole string

var userAddCmd = &cobra.Command{
	Use:   "add <username>",
	Short: "Add a new user",
	Args:  cobra.ExactArgs(1),
	RunE:  runUserAdd,
}

var userDeleteCmd = &cobra.Command{
	Use:     "delete <username>",
	Aliases: []string{"remove"},
	Short:   "Delete a user",
	Args:    cobra.ExactArgs(1),
	RunE:    runUserDelete,
}

var userListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List all users",
	RunE:    runUserList,
}

var userPasswdCmd = &cobra.Command{
	Use:     "passwd <username>",
	Aliases: []string{"password"},
	Short:   "Change a user password",
	Args:    cobra.ExactArgs(1),
	RunE:    runUserPasswd,
}

func init() {
	userAddCmd.Flags().StringVar(&userAddRole, "role", "user", "Role (user|admin)")

	userCmd.AddCommand(userAddCmd)
	userCmd.AddCommand(userDeleteCmd)
	userCmd.AddCommand(userListCmd)
	userCmd.AddCommand(userPasswdCmd)
}

// openStore loads the configuration and connects the control plane store.
func openStore() (*store.GORMStore, error) {
	cfg, err := config.MustLoad(GetConfigFile())
	if err != nil {
		return nil, err
	}
	cpStore, err := store.New(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open control plane store: %w", err)
	}
	return cpStore, nil
}

func runUserAdd(cmd *cobra.Command, args []string) error {
	username := args[0]

	if !models.UserRole(userAddRole).IsValid() {
		return fmt.Errorf("invalid role %q (valid: user, admin)", userAddRole)
	}

	cpStore, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = cpStore.Close() }()

	ctx := context.Background()
	if _, err := cpStore.GetUser(ctx, username); err == nil {
		return fmt.Errorf("user %q already exists", username)
	}

	password, err := prompt.PasswordWithConfirmation("Password", "Confirm password", 8)
	if err != nil {
		if prompt.IsAborted(err) {
			fmt.Println("\nAborted.")
			return nil
		}
		return err
	}

	if err := models.ValidatePassword(password); err != nil {
		return fmt.Errorf("invalid password: %w", err)
	}

	hash, err := models.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hash,
		Role:         userAddRole,
		Enabled:      true,
	}

	if _, err := cpStore.CreateUser(ctx, user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Printf("User %q created (role: %s)\n", username, userAddRole)
	return nil
}

func runUserDelete(cmd *cobra.Command, args []string) error {
	username := args[0]

	cpStore, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = cpStore.Close() }()

	ctx := context.Background()
	if _, err := cpStore.GetUser(ctx, username); err != nil {
		return fmt.Errorf("user %q not found", username)
	}

	if err := cpStore.DeleteUser(ctx, username); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	fmt.Printf("User %q deleted\n", username)
	return nil
}

func runUserList(cmd *cobra.Command, args []string) error {
	cpStore, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = cpStore.Close() }()

	users, err := cpStore.ListUsers(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	if len(users) == 0 {
		fmt.Println("No users configured")
		return nil
	}

	fmt.Printf("%-20s %-8s %-8s %s\n", "USERNAME", "ROLE", "ENABLED", "LAST LOGIN")
	fmt.Println(strings.Repeat("-", 60))
	for _, u := range users {
		enabled := "yes"
		if !u.Enabled {
			enabled = "no"
		}
		lastLogin := "-"
		if u.LastLogin != nil {
			lastLogin = u.LastLogin.Format("2006-01-02 15:04:05")
		}
		fmt.Printf("%-20s %-8s %-8s %s\n", u.Username, u.Role, enabled, lastLogin)
	}

	return nil
}

func runUserPasswd(cmd *cobra.Command, args []string) error {
	username := args[0]

	cpStore, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = cpStore.Close() }()

	ctx := context.Background()
	if _, err := cpStore.GetUser(ctx, username); err != nil {
		return fmt.Errorf("user %q not found", username)
	}

	password, err := prompt.PasswordWithConfirmation("New password", "Confirm password", 8)
	if err != nil {
		if prompt.IsAborted(err) {
			fmt.Println("\nAborted.")
			return nil
		}
		return err
	}

	if err := models.ValidatePassword(password); err != nil {
		return fmt.Errorf("invalid password: %w", err)
	}

	hash, err := models.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := cpStore.UpdatePassword(ctx, username, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	fmt.Printf("Password changed for user %q\n", username)
	return nil
}
