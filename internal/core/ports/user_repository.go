package ports

import (
	"context"
	"time"

	"github.com/inkpress/blog-platform/internal/core/domain"
)

// UserRepository defines persistence for user accounts and their token state.
//
// The token-consuming operations (ConsumeVerificationToken, ConsumeResetToken,
// ClearRefreshToken, RotateVerificationToken, SetResetToken) must be atomic
// single-document find-and-update calls: the match condition and the mutation
// happen in one step so a token can never be consumed twice under concurrent
// requests.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, input ListInput) ([]domain.User, int64, error)
	Update(ctx context.Context, id string, update UserUpdate) (*domain.User, error)
	Delete(ctx context.Context, id string) error

	// ConsumeVerificationToken matches {verification_token, expires > now},
	// sets is_verified and clears both token fields. Returns
	// domain.ErrInvalidOrExpiredToken when nothing matches.
	ConsumeVerificationToken(ctx context.Context, tokenValue string, now time.Time) (*domain.User, error)

	// RotateVerificationToken matches an unverified user by email and installs
	// a fresh token + expiry, invalidating the previous one by overwrite.
	// Returns domain.ErrUserNotFound when no unverified user has that email.
	RotateVerificationToken(ctx context.Context, email, tokenValue string, expires time.Time) (*domain.User, error)

	// SetRefreshToken overwrites the user's stored refresh token,
	// invalidating any prior session's token.
	SetRefreshToken(ctx context.Context, userID, tokenValue string) error

	// FindByRefreshToken returns the user currently holding this exact
	// refresh token, or domain.ErrInvalidOrExpiredToken.
	FindByRefreshToken(ctx context.Context, tokenValue string) (*domain.User, error)

	// ClearRefreshToken matches the user holding this refresh token and nulls
	// it. Returns domain.ErrInvalidOrExpiredToken when no user holds it.
	ClearRefreshToken(ctx context.Context, tokenValue string) (*domain.User, error)

	// SetResetToken matches a verified user by email and installs a reset
	// token + expiry. Returns domain.ErrUserNotFound when no verified user
	// has that email.
	SetResetToken(ctx context.Context, email, tokenValue string, expires time.Time) (*domain.User, error)

	// ConsumeResetToken matches {reset_token, expires > now}, replaces the
	// password hash and clears the reset fields. Returns
	// domain.ErrInvalidOrExpiredToken when nothing matches.
	ConsumeResetToken(ctx context.Context, tokenValue, passwordHash string, now time.Time) (*domain.User, error)

	// DeleteUnverifiedBefore removes unverified accounts created before the
	// cutoff and reports how many were deleted.
	DeleteUnverifiedBefore(ctx context.Context, cutoff time.Time) (int64, error)

	Count(ctx context.Context) (int64, error)

	// CountCreatedSince counts accounts created at or after the given time.
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
}

// UserUpdate carries the mutable profile fields. Nil pointers mean
// "leave unchanged".
type UserUpdate struct {
	Username *string
	Avatar   *string
	Roles    *[]string
}

// ListInput is the shared pagination/search parameter set for list endpoints.
type ListInput struct {
	Page   int
	Limit  int
	Search string
}

// Normalize clamps page and limit into sane bounds.
func (l *ListInput) Normalize() {
	if l.Page < 1 {
		l.Page = 1
	}
	if l.Limit < 1 || l.Limit > 100 {
		l.Limit = 20
	}
}
