package domain

import (
	"errors"
	"time"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

var ErrUserNotFound = errors.New("user not found")
var ErrEmailTaken = errors.New("email already registered")
var ErrInvalidCredentials = errors.New("invalid credentials")

// User models an account holder: credentials, role references, and the token
// state driving the verification / reset / refresh lifecycles.
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	// Roles holds role document ids; names and permission sets are
	// resolved through the role repository.
	Roles      []string `json:"-"`
	Avatar     string   `json:"avatar,omitempty"`
	IsVerified bool     `json:"is_verified"`

	// Verification and reset tokens are single-use; the repository clears
	// them atomically in the same update that consumes them.
	VerificationToken   string    `json:"-"`
	VerificationExpires time.Time `json:"-"`
	ResetToken          string    `json:"-"`
	ResetExpires        time.Time `json:"-"`

	// RefreshToken is the one active refresh token for this user.
	// Empty means no live session.
	RefreshToken string `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
