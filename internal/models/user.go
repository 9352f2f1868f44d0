// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"time"

	"github.com/google/uuid"
)

// UserStatus represents the account state of a user.
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

// User represents an author account. Users own posts and may author
// comments; comments can also be left anonymously without a user.
type User struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email" validate:"required,email"`
	Name         string     `json:"name" validate:"required"`
	Status       UserStatus `json:"status" validate:"required,oneof=active inactive"`
	PasswordHash string     `json:"-"` // Never serialize the hash
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// IsActive returns true if the user account is active.
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}
