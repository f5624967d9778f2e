package domain

import (
	"context"
	"errors"
	"time"
)

// User represents a registered platform user or administrator.
type User struct {
	ID             string
	Email          string
	FirstName      string
	LastName       string
	HashedPassword string
	Role           Role
	Status         AccountStatus
	LastLoginAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// FullName returns the user's display name.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Role represents a user's access level.
type Role string

const (
	// RoleUser can trade and submit gift cards against their own account.
	RoleUser Role = "user"

	// RoleAdmin can review submissions, manage users and set rates.
	RoleAdmin Role = "admin"
)

// IsValid checks if the role is a known role.
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}

// CanReview checks if the role can review gift card submissions.
func (r Role) CanReview() bool {
	return r == RoleAdmin
}

// CanManageRates checks if the role can update platform rates.
func (r Role) CanManageRates() bool {
	return r == RoleAdmin
}

// Authentication errors
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrForbidden    = errors.New("insufficient role for this operation")
)

type contextKey string

const userContextKey contextKey = "user"

// WithUser returns a context carrying the authenticated user.
// Core operations read the actor from here for audit rows; nothing is
// ever kept in ambient global state.
func WithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext extracts the authenticated user from the context.
func UserFromContext(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(userContextKey).(*User)
	return user, ok
}
