package domain

import (
	"context"
	"time"
)

// User represents an account able to call the conversion API
type User struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// UserRepository is the credential store.
type UserRepository interface {
	// Create persists a new user. Returns ErrUsernameTaken when the username exists.
	Create(ctx context.Context, user *User) error
	// GetByUsername returns ErrUserNotFound when no user matches.
	GetByUsername(ctx context.Context, username string) (*User, error)
	// GetByID returns ErrUserNotFound when no user matches.
	GetByID(ctx context.Context, id string) (*User, error)
}
