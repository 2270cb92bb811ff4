package domain

import (
	"context"
	"time"
)

// User represents a registered account
type User struct {
	ID           string    `json:"_id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"` // Unique across all users
	PasswordHash string    `json:"-"`     // Bcrypt hash, never returned in API
	CreatedAt    time.Time `json:"created_at"`
}

// UserRepository defines data access for users.
// Create must return ErrDuplicateEmail when the store's uniqueness
// constraint on email rejects the insert.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
}
