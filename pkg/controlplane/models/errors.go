package models

import "errors"

// Common errors for control plane operations.
var (
	// User errors
	ErrUserNotFound  = errors.New("user not found")
	ErrDuplicateUser = errors.New("user already exists")
	ErrUserDisabled  = errors.New("user account is disabled")

	// Deployment errors
	ErrDeploymentNotFound  = errors.New("deployment not found")
	ErrDuplicateDeployment = errors.New("deployment already exists")
)
