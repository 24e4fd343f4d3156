// Package store provides the control plane persistence layer.
//
// This package implements the Store interface for managing control plane
// data: operator accounts for the admin API and controller deployments
// consumed by the engine.
//
// Two backends are supported:
//   - SQLite (single-node, default)
//   - PostgreSQL (HA-capable)
package store

import (
	"context"
	"time"

	"github.com/marmos91/triggerfish/pkg/controlplane/models"
	"github.com/marmos91/triggerfish/pkg/event"
)

// Store provides the control plane persistence interface.
//
// Thread Safety: Implementations must be safe for concurrent use from multiple
// goroutines. The engine reads deployments on every event; the admin API
// mutates them.
type Store interface {
	// ============================================
	// USER OPERATIONS
	// ============================================

	// GetUser returns a user by username.
	// Returns models.ErrUserNotFound if the user doesn't exist.
	GetUser(ctx context.Context, username string) (*models.User, error)

	// GetUserByID returns a user by their unique ID (UUID).
	// Returns models.ErrUserNotFound if no user has this ID.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// ListUsers returns all users.
	ListUsers(ctx context.Context) ([]*models.User, error)

	// CreateUser creates a new user.
	// The user ID will be generated if empty.
	// Returns the generated ID.
	// Returns models.ErrDuplicateUser if a user with the same username exists.
	CreateUser(ctx context.Context, user *models.User) (string, error)

	// UpdateUser updates an existing user.
	// Returns models.ErrUserNotFound if the user doesn't exist.
	UpdateUser(ctx context.Context, user *models.User) error

	// DeleteUser deletes a user by username.
	// Returns models.ErrUserNotFound if the user doesn't exist.
	DeleteUser(ctx context.Context, username string) error

	// UpdatePassword updates a user's password hash.
	// Returns models.ErrUserNotFound if the user doesn't exist.
	UpdatePassword(ctx context.Context, username, passwordHash string) error

	// UpdateLastLogin updates the user's last login timestamp.
	// Returns models.ErrUserNotFound if the user doesn't exist.
	UpdateLastLogin(ctx context.Context, username string, timestamp time.Time) error

	// ValidateCredentials verifies username/password credentials.
	// Returns the user if credentials are valid.
	// Returns models.ErrInvalidCredentials if the credentials are invalid.
	// Returns models.ErrUserDisabled if the user account is disabled.
	ValidateCredentials(ctx context.Context, username, password string) (*models.User, error)

	// EnsureAdminUser creates the initial admin user if no admin exists.
	// Returns the generated plaintext password so it can be shown once,
	// or "" when the admin already existed.
	EnsureAdminUser(ctx context.Context) (string, error)

	// IsAdminInitialized reports whether the admin user exists.
	IsAdminInitialized(ctx context.Context) (bool, error)

	// ============================================
	// DEPLOYMENT OPERATIONS
	// ============================================

	// GetDeployment returns a deployment by name.
	// Returns models.ErrDeploymentNotFound if the deployment doesn't exist.
	GetDeployment(ctx context.Context, name string) (*models.Deployment, error)

	// GetDeploymentByID returns a deployment by its unique ID (UUID).
	// Returns models.ErrDeploymentNotFound if no deployment has this ID.
	GetDeploymentByID(ctx context.Context, id string) (*models.Deployment, error)

	// ListDeployments returns all deployments ordered by trigger and position.
	ListDeployments(ctx context.Context) ([]*models.Deployment, error)

	// DeploymentsForTrigger returns the enabled deployments for a trigger,
	// ordered by position. This is the engine's per-event read path.
	DeploymentsForTrigger(ctx context.Context, trigger event.Trigger) ([]models.Deployment, error)

	// CreateDeployment creates a new deployment.
	// The deployment ID will be generated if empty.
	// Returns the generated ID.
	// Returns models.ErrDuplicateDeployment if a deployment with the same name exists.
	CreateDeployment(ctx context.Context, deployment *models.Deployment) (string, error)

	// UpdateDeployment updates an existing deployment.
	// Returns models.ErrDeploymentNotFound if the deployment doesn't exist.
	UpdateDeployment(ctx context.Context, deployment *models.Deployment) error

	// DeleteDeployment deletes a deployment by name.
	// Returns models.ErrDeploymentNotFound if the deployment doesn't exist.
	DeleteDeployment(ctx context.Context, name string) error

	// SetDeploymentEnabled enables or disables a deployment by name.
	// Returns models.ErrDeploymentNotFound if the deployment doesn't exist.
	SetDeploymentEnabled(ctx context.Context, name string, enabled bool) error

	// ============================================
	// HEALTH & LIFECYCLE
	// ============================================

	// Healthcheck verifies database connectivity.
	Healthcheck(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
