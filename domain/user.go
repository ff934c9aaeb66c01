package domain

import (
	"context"
	"time"
)

// User represents an account known to the system. Accounts are created by the
// external auth service; this service only reads them.
type User struct {
	ID        int64     // Unique identifier
	Name      string    // Display name
	Username  string    // Login username (unique)
	Avatar    string    // Profile picture url
	CreatedAt time.Time // Account creation timestamp
	UpdatedAt time.Time // Last profile update timestamp
}

// UserRepository defines the contract for user data persistence.
type UserRepository interface {
	// GetByID retrieves a user by their ID.
	// Returns ErrNotFound if the user doesn't exist.
	GetByID(ctx context.Context, id int64) (User, error)

	// GetByUsername retrieves a user by their username.
	// Returns ErrNotFound if the user doesn't exist.
	GetByUsername(ctx context.Context, username string) (User, error)

	// GetByIDs retrieves all users in ids. Missing ids are skipped.
	GetByIDs(ctx context.Context, userIDs []int64) ([]User, error)
}
