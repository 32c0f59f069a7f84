package ports

import (
	"context"

	"github.com/inkpress/blog-platform/internal/core/domain"
)

// SignupInput carries the fields required to open an account.
type SignupInput struct {
	Username string
	Email    string
	Password string
}

// SigninInput carries the credentials for an authentication attempt.
type SigninInput struct {
	Email    string
	Password string
}

// SigninResult is returned after a successful signin. RefreshToken is set as
// an httpOnly cookie by the transport layer and never appears in the body.
type SigninResult struct {
	AccessToken  string
	RefreshToken string
	User         *domain.User
	Roles        []string
	Permissions  []string
}

// AuthService orchestrates the credential lifecycle: signup, verification,
// session issuance and revocation, and password reset.
type AuthService interface {
	// Signup creates an unverified account and emails a verification link.
	// A duplicate email is a silent no-op: the caller cannot distinguish it
	// from a fresh signup.
	Signup(ctx context.Context, input SignupInput) error

	// VerifyEmail consumes a verification token, marking the account verified.
	VerifyEmail(ctx context.Context, tokenValue string) error

	// ResendVerification re-issues the verification token for an unverified
	// account. Unknown or already-verified emails are a silent no-op.
	ResendVerification(ctx context.Context, email string) error

	// Signin validates credentials and issues the access/refresh token pair.
	Signin(ctx context.Context, input SigninInput) (*SigninResult, error)

	// Signout revokes the refresh token: nulls it on the user record and
	// appends it to the blacklist.
	Signout(ctx context.Context, refreshToken string) error

	// Refresh exchanges a live refresh token for a new access token.
	// The refresh token itself is not rotated.
	Refresh(ctx context.Context, refreshToken string) (string, error)

	// RequestPasswordReset emails a reset link to a verified account.
	// Unknown or unverified emails are a silent no-op.
	RequestPasswordReset(ctx context.Context, email string) error

	// ResetPassword consumes a reset token and installs the new password.
	ResetPassword(ctx context.Context, tokenValue, newPassword string) error
}
