package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/inkpress/blog-platform/internal/api/metrics"
	"github.com/inkpress/blog-platform/internal/core/domain"
	"github.com/inkpress/blog-platform/internal/core/ports"
	"github.com/inkpress/blog-platform/internal/core/token"
)

const (
	verificationTokenTTL = 24 * time.Hour
	resetTokenTTL        = time.Hour
	// secureTokenBytes is the entropy of verification/reset tokens.
	secureTokenBytes = 32
	bcryptCost       = 10
)

// AuthService implements the credential lifecycle against the user store,
// the token issuer, and the outbound mail queue.
type AuthService struct {
	users     ports.UserRepository
	roles     ports.RoleRepository
	perms     ports.PermissionRepository
	blacklist ports.BlacklistRepository
	issuer    *token.Issuer
	mail      ports.MailQueue
	baseURL   string
	log       zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	roles ports.RoleRepository,
	perms ports.PermissionRepository,
	blacklist ports.BlacklistRepository,
	issuer *token.Issuer,
	mail ports.MailQueue,
	baseURL string,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		roles:     roles,
		perms:     perms,
		blacklist: blacklist,
		issuer:    issuer,
		mail:      mail,
		baseURL:   baseURL,
		log:       log,
	}
}

// Signup creates an unverified account and queues a verification email.
// When the email is already registered nothing happens: the caller receives
// the same nil result either way, so responses cannot be used to enumerate
// registered addresses.
func (s *AuthService) Signup(ctx context.Context, input ports.SignupInput) error {
	if input.Username == "" || input.Email == "" || len(input.Password) < 6 {
		return domain.NewValidationError(map[string]string{"password": "password must be at least 6 characters"})
	}

	if _, err := s.users.FindByEmail(ctx, input.Email); err == nil {
		s.log.Info().Str("email", input.Email).Msg("signup for existing email ignored")
		metrics.SignupsTotal.WithLabelValues("duplicate").Inc()
		return nil
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	verifyToken, err := secureToken()
	if err != nil {
		return err
	}

	defaultRole, err := s.roles.FindByName(ctx, domain.RoleUser)
	if err != nil {
		return fmt.Errorf("resolve default role: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:            input.Username,
		Email:               input.Email,
		PasswordHash:        string(hash),
		Roles:               []string{defaultRole.ID},
		IsVerified:          false,
		VerificationToken:   verifyToken,
		VerificationExpires: now.Add(verificationTokenTTL),
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		// A concurrent signup can still lose the race on the unique index;
		// swallow it the same way as the early duplicate check.
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil
		}
		return err
	}

	s.mail.Enqueue(verificationMail(s.baseURL, created.Email, created.Username, verifyToken))
	metrics.SignupsTotal.WithLabelValues("created").Inc()
	s.log.Info().Str("user_id", created.ID).Msg("user signed up")
	return nil
}

// VerifyEmail consumes a verification token. The repository match-and-clear is
// atomic, so a token can be consumed exactly once.
func (s *AuthService) VerifyEmail(ctx context.Context, tokenValue string) error {
	if tokenValue == "" {
		return domain.ErrInvalidOrExpiredToken
	}
	user, err := s.users.ConsumeVerificationToken(ctx, tokenValue, time.Now().UTC())
	if err != nil {
		return err
	}
	s.log.Info().Str("user_id", user.ID).Msg("email verified")
	return nil
}

// ResendVerification rotates the verification token for an unverified account
// and queues a new email. Unknown or already-verified emails are silently
// ignored (anti-enumeration).
func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	verifyToken, err := secureToken()
	if err != nil {
		return err
	}

	user, err := s.users.RotateVerificationToken(ctx, email, verifyToken, time.Now().UTC().Add(verificationTokenTTL))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil
		}
		return err
	}

	s.mail.Enqueue(verificationMail(s.baseURL, user.Email, user.Username, verifyToken))
	return nil
}

// Signin validates credentials and issues the token pair. Unknown email and
// wrong password are indistinguishable to the caller. The new refresh token
// overwrites any previously stored one, invalidating the prior session.
func (s *AuthService) Signin(ctx context.Context, input ports.SigninInput) (*ports.SigninResult, error) {
	user, err := s.users.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.SigninsTotal.WithLabelValues("failure").Inc()
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
		metrics.SigninsTotal.WithLabelValues("failure").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	roleNames, permKeys, err := s.resolveRoles(ctx, user.Roles)
	if err != nil {
		return nil, err
	}

	accessToken, err := s.issuer.IssueAccess(user.ID, roleNames)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refreshToken, err := s.issuer.IssueRefresh(user.ID, roleNames)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}

	if err := s.users.SetRefreshToken(ctx, user.ID, refreshToken); err != nil {
		return nil, err
	}

	metrics.SigninsTotal.WithLabelValues("success").Inc()
	s.log.Info().Str("user_id", user.ID).Strs("roles", roleNames).Msg("user signed in")

	return &ports.SigninResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
		Roles:        roleNames,
		Permissions:  permKeys,
	}, nil
}

// Signout nulls the stored refresh token and appends it to the blacklist so
// replayed copies are permanently rejected.
func (s *AuthService) Signout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return domain.ErrMissingToken
	}

	user, err := s.users.ClearRefreshToken(ctx, refreshToken)
	if err != nil {
		return err
	}

	if err := s.blacklist.Add(ctx, domain.BlacklistEntry{
		Token:         refreshToken,
		BlacklistedAt: time.Now().UTC(),
	}); err != nil {
		// The session is already dead; failing the request now would leave
		// the client holding a cookie it cannot clear.
		s.log.Error().Err(err).Str("user_id", user.ID).Msg("blacklist append failed")
	}

	metrics.TokensRevokedTotal.Inc()
	s.log.Info().Str("user_id", user.ID).Msg("user signed out")
	return nil
}

// Refresh exchanges a live refresh token for a new access token. The checks
// run strictest-first: revocation, current-holder, then signature/expiry.
// The refresh token itself is not rotated.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", domain.ErrMissingToken
	}

	revoked, err := s.blacklist.Contains(ctx, refreshToken)
	if err != nil {
		return "", err
	}
	if revoked {
		return "", domain.ErrTokenRevoked
	}

	// A token that was valid but has since been superseded by a new signin
	// no longer matches any user record.
	user, err := s.users.FindByRefreshToken(ctx, refreshToken)
	if err != nil {
		return "", err
	}

	claims, err := s.issuer.VerifyRefresh(refreshToken)
	if err != nil {
		return "", err
	}

	accessToken, err := s.issuer.IssueAccess(user.ID, claims.Roles)
	if err != nil {
		return "", fmt.Errorf("issue access token: %w", err)
	}
	return accessToken, nil
}

// RequestPasswordReset installs a reset token on a verified account and
// queues the reset email. Unknown or unverified emails are silently ignored.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	resetToken, err := secureToken()
	if err != nil {
		return err
	}

	user, err := s.users.SetResetToken(ctx, email, resetToken, time.Now().UTC().Add(resetTokenTTL))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil
		}
		return err
	}

	s.mail.Enqueue(resetMail(s.baseURL, user.Email, user.Username, resetToken))
	return nil
}

// ResetPassword consumes a reset token and installs the new password.
// Possession of the token is the proof of identity; no old password is
// required.
func (s *AuthService) ResetPassword(ctx context.Context, tokenValue, newPassword string) error {
	if tokenValue == "" {
		return domain.ErrInvalidOrExpiredToken
	}
	if len(newPassword) < 6 {
		return domain.NewValidationError(map[string]string{"password": "password must be at least 6 characters"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.ConsumeResetToken(ctx, tokenValue, string(hash), time.Now().UTC())
	if err != nil {
		return err
	}

	s.log.Info().Str("user_id", user.ID).Msg("password reset")
	return nil
}

// resolveRoles maps role ids to role names and the union of permission keys
// across all roles.
func (s *AuthService) resolveRoles(ctx context.Context, roleIDs []string) ([]string, []string, error) {
	roles, err := s.roles.FindByIDs(ctx, roleIDs)
	if err != nil {
		return nil, nil, err
	}

	names := make([]string, 0, len(roles))
	permIDs := make([]string, 0)
	for _, r := range roles {
		names = append(names, r.Name)
		permIDs = append(permIDs, r.Permissions...)
	}

	perms, err := s.perms.FindByIDs(ctx, permIDs)
	if err != nil {
		return nil, nil, err
	}

	seen := make(map[string]struct{}, len(perms))
	keys := make([]string, 0, len(perms))
	for _, p := range perms {
		if _, dup := seen[p.Key()]; dup {
			continue
		}
		seen[p.Key()] = struct{}{}
		keys = append(keys, p.Key())
	}
	return names, keys, nil
}

func secureToken() (string, error) {
	buf := make([]byte, secureTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func verificationMail(baseURL, to, username, tokenValue string) ports.MailMessage {
	return ports.MailMessage{
		To:      to,
		Subject: "Verify your email address",
		Body: fmt.Sprintf(
			"Hi %s,\n\nPlease verify your email address by opening the link below within 24 hours:\n\n%s/auth/verify-email/%s\n",
			username, baseURL, tokenValue,
		),
	}
}

func resetMail(baseURL, to, username, tokenValue string) ports.MailMessage {
	return ports.MailMessage{
		To:      to,
		Subject: "Reset your password",
		Body: fmt.Sprintf(
			"Hi %s,\n\nA password reset was requested for your account. The link below is valid for one hour:\n\n%s/auth/reset-password/%s\n\nIf you did not request this, you can ignore this email.\n",
			username, baseURL, tokenValue,
		),
	}
}
