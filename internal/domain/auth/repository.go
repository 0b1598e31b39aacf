package auth

import (
	"context"

	"fieldops/internal/core/id"
)

// UserRepository defines user storage operations.
type UserRepository interface {
	// Create creates a new user.
	Create(ctx context.Context, user *User) error

	// GetByID retrieves user by ID.
	GetByID(ctx context.Context, userID id.ID) (*User, error)

	// GetByEmail retrieves user by email within the tenant.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// Update updates user data.
	Update(ctx context.Context, user *User) error

	// Exists checks if email exists within the tenant.
	Exists(ctx context.Context, email string) (bool, error)
}
