package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/inkpress/blog-platform/internal/core/domain"
	"github.com/inkpress/blog-platform/internal/core/ports"
	"github.com/inkpress/blog-platform/internal/core/token"
)

// --- Stub repositories ---

type stubUserRepo struct {
	users  map[string]*domain.User
	nextID int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User), nextID: 1}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	copy := cloneUser(user)
	copy.ID = "user-" + strconv.Itoa(r.nextID)
	r.nextID++
	r.users[copy.ID] = cloneUser(copy)
	return cloneUser(copy), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(_ context.Context, _ ports.ListInput) ([]domain.User, int64, error) {
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (r *stubUserRepo) Update(_ context.Context, id string, update ports.UserUpdate) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if update.Username != nil {
		u.Username = *update.Username
	}
	if update.Avatar != nil {
		u.Avatar = *update.Avatar
	}
	if update.Roles != nil {
		u.Roles = *update.Roles
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *stubUserRepo) ConsumeVerificationToken(_ context.Context, tokenValue string, now time.Time) (*domain.User, error) {
	for _, u := range r.users {
		if u.VerificationToken == tokenValue && u.VerificationToken != "" && u.VerificationExpires.After(now) {
			u.IsVerified = true
			u.VerificationToken = ""
			u.VerificationExpires = time.Time{}
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrInvalidOrExpiredToken
}

func (r *stubUserRepo) RotateVerificationToken(_ context.Context, email, tokenValue string, expires time.Time) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email && !u.IsVerified {
			u.VerificationToken = tokenValue
			u.VerificationExpires = expires
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) SetRefreshToken(_ context.Context, userID, tokenValue string) error {
	u, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.RefreshToken = tokenValue
	return nil
}

func (r *stubUserRepo) FindByRefreshToken(_ context.Context, tokenValue string) (*domain.User, error) {
	for _, u := range r.users {
		if u.RefreshToken != "" && u.RefreshToken == tokenValue {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrInvalidOrExpiredToken
}

func (r *stubUserRepo) ClearRefreshToken(_ context.Context, tokenValue string) (*domain.User, error) {
	for _, u := range r.users {
		if u.RefreshToken != "" && u.RefreshToken == tokenValue {
			u.RefreshToken = ""
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrInvalidOrExpiredToken
}

func (r *stubUserRepo) SetResetToken(_ context.Context, email, tokenValue string, expires time.Time) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email && u.IsVerified {
			u.ResetToken = tokenValue
			u.ResetExpires = expires
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) ConsumeResetToken(_ context.Context, tokenValue, passwordHash string, now time.Time) (*domain.User, error) {
	for _, u := range r.users {
		if u.ResetToken == tokenValue && u.ResetToken != "" && u.ResetExpires.After(now) {
			u.PasswordHash = passwordHash
			u.ResetToken = ""
			u.ResetExpires = time.Time{}
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrInvalidOrExpiredToken
}

func (r *stubUserRepo) DeleteUnverifiedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	var n int64
	for id, u := range r.users {
		if !u.IsVerified && u.CreatedAt.Before(cutoff) {
			delete(r.users, id)
			n++
		}
	}
	return n, nil
}

func (r *stubUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.users)), nil
}

func (r *stubUserRepo) CountCreatedSince(_ context.Context, since time.Time) (int64, error) {
	var n int64
	for _, u := range r.users {
		if !u.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

type stubRoleRepo struct {
	roles map[string]*domain.Role
}

func (r *stubRoleRepo) Create(_ context.Context, role *domain.Role) (*domain.Role, error) {
	r.roles[role.ID] = role
	return role, nil
}

func (r *stubRoleRepo) FindByID(_ context.Context, id string) (*domain.Role, error) {
	role, ok := r.roles[id]
	if !ok {
		return nil, domain.ErrRoleNotFound
	}
	return role, nil
}

func (r *stubRoleRepo) FindByIDs(_ context.Context, ids []string) ([]domain.Role, error) {
	out := make([]domain.Role, 0, len(ids))
	for _, id := range ids {
		if role, ok := r.roles[id]; ok {
			out = append(out, *role)
		}
	}
	return out, nil
}

func (r *stubRoleRepo) FindByName(_ context.Context, name string) (*domain.Role, error) {
	for _, role := range r.roles {
		if role.Name == name {
			return role, nil
		}
	}
	return nil, domain.ErrRoleNotFound
}

func (r *stubRoleRepo) List(_ context.Context) ([]domain.Role, error) {
	out := make([]domain.Role, 0, len(r.roles))
	for _, role := range r.roles {
		out = append(out, *role)
	}
	return out, nil
}

func (r *stubRoleRepo) Update(_ context.Context, id string, role *domain.Role) (*domain.Role, error) {
	r.roles[id] = role
	return role, nil
}

func (r *stubRoleRepo) Delete(_ context.Context, id string) error {
	delete(r.roles, id)
	return nil
}

func (r *stubRoleRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.roles)), nil
}

type stubPermRepo struct {
	perms map[string]*domain.Permission
}

func (r *stubPermRepo) Create(_ context.Context, p *domain.Permission) (*domain.Permission, error) {
	r.perms[p.ID] = p
	return p, nil
}

func (r *stubPermRepo) FindByID(_ context.Context, id string) (*domain.Permission, error) {
	p, ok := r.perms[id]
	if !ok {
		return nil, domain.ErrPermissionNotFound
	}
	return p, nil
}

func (r *stubPermRepo) FindByIDs(_ context.Context, ids []string) ([]domain.Permission, error) {
	out := make([]domain.Permission, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.perms[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubPermRepo) List(_ context.Context) ([]domain.Permission, error) {
	out := make([]domain.Permission, 0, len(r.perms))
	for _, p := range r.perms {
		out = append(out, *p)
	}
	return out, nil
}

func (r *stubPermRepo) Delete(_ context.Context, id string) error {
	delete(r.perms, id)
	return nil
}

func (r *stubPermRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.perms)), nil
}

type stubBlacklist struct {
	tokens map[string]bool
}

func (b *stubBlacklist) Add(_ context.Context, entry domain.BlacklistEntry) error {
	b.tokens[entry.Token] = true
	return nil
}

func (b *stubBlacklist) Contains(_ context.Context, tokenValue string) (bool, error) {
	return b.tokens[tokenValue], nil
}

type captureQueue struct {
	messages []ports.MailMessage
}

func (q *captureQueue) Enqueue(msg ports.MailMessage) {
	q.messages = append(q.messages, msg)
}

// --- Fixture ---

type authFixture struct {
	svc   *AuthService
	users *stubUserRepo
	black *stubBlacklist
	mail  *captureQueue
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	perms := &stubPermRepo{perms: map[string]*domain.Permission{
		"p1": {ID: "p1", Action: domain.ActionCreate, Resource: domain.ResourcePost},
		"p2": {ID: "p2", Action: domain.ActionRead, Resource: domain.ResourcePost},
	}}
	roles := &stubRoleRepo{roles: map[string]*domain.Role{
		"r-user": {ID: "r-user", Name: domain.RoleUser, Permissions: []string{"p1", "p2", "p2"}},
	}}
	users := newStubUserRepo()
	black := &stubBlacklist{tokens: make(map[string]bool)}
	mail := &captureQueue{}
	issuer := token.NewIssuer("access-secret", "refresh-secret", time.Minute, time.Hour)

	svc := NewAuthService(users, roles, perms, black, issuer, mail, "http://localhost:8080", zerolog.Nop())
	return &authFixture{svc: svc, users: users, black: black, mail: mail}
}

func (f *authFixture) signup(t *testing.T, email string) *domain.User {
	t.Helper()
	if err := f.svc.Signup(context.Background(), ports.SignupInput{
		Username: "alice",
		Email:    email,
		Password: "s3cret",
	}); err != nil {
		t.Fatalf("signup: %v", err)
	}
	user, err := f.users.FindByEmail(context.Background(), email)
	if err != nil {
		t.Fatalf("signed-up user missing: %v", err)
	}
	return user
}

func (f *authFixture) signupVerified(t *testing.T, email string) *domain.User {
	t.Helper()
	user := f.signup(t, email)
	if err := f.svc.VerifyEmail(context.Background(), user.VerificationToken); err != nil {
		t.Fatalf("verify: %v", err)
	}
	return user
}

// --- Signup ---

func TestAuthService_Signup(t *testing.T) {
	f := newAuthFixture(t)
	user := f.signup(t, "alice@example.com")

	if user.IsVerified {
		t.Fatalf("new account must start unverified")
	}
	if user.PasswordHash == "s3cret" {
		t.Fatalf("password stored in the clear")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if len(user.Roles) != 1 || user.Roles[0] != "r-user" {
		t.Fatalf("default role not assigned: %v", user.Roles)
	}
	if user.VerificationToken == "" {
		t.Fatalf("verification token not installed")
	}

	if len(f.mail.messages) != 1 {
		t.Fatalf("expected 1 mail, got %d", len(f.mail.messages))
	}
	msg := f.mail.messages[0]
	if msg.To != "alice@example.com" {
		t.Fatalf("mail sent to %q", msg.To)
	}
	if !strings.Contains(msg.Body, "/auth/verify-email/"+user.VerificationToken) {
		t.Fatalf("mail body missing verification link: %q", msg.Body)
	}
}

func TestAuthService_Signup_DuplicateIsSilent(t *testing.T) {
	f := newAuthFixture(t)
	f.signup(t, "alice@example.com")

	err := f.svc.Signup(context.Background(), ports.SignupInput{
		Username: "mallory",
		Email:    "alice@example.com",
		Password: "different",
	})
	if err != nil {
		t.Fatalf("duplicate signup must look like success, got %v", err)
	}
	if len(f.mail.messages) != 1 {
		t.Fatalf("duplicate signup must not send mail, got %d messages", len(f.mail.messages))
	}
	if n, _ := f.users.Count(context.Background()); n != 1 {
		t.Fatalf("duplicate signup created an account")
	}
}

func TestAuthService_Signup_ShortPassword(t *testing.T) {
	f := newAuthFixture(t)
	err := f.svc.Signup(context.Background(), ports.SignupInput{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "short",
	})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

// --- Verification ---

func TestAuthService_VerifyEmail_SingleUse(t *testing.T) {
	f := newAuthFixture(t)
	user := f.signup(t, "alice@example.com")

	if err := f.svc.VerifyEmail(context.Background(), user.VerificationToken); err != nil {
		t.Fatalf("verify: %v", err)
	}
	verified, _ := f.users.FindByEmail(context.Background(), "alice@example.com")
	if !verified.IsVerified {
		t.Fatalf("account not marked verified")
	}

	// The same token must not be consumable twice.
	if err := f.svc.VerifyEmail(context.Background(), user.VerificationToken); !errors.Is(err, domain.ErrInvalidOrExpiredToken) {
		t.Fatalf("second consume: expected ErrInvalidOrExpiredToken, got %v", err)
	}
}

func TestAuthService_VerifyEmail_Expired(t *testing.T) {
	f := newAuthFixture(t)
	user := f.signup(t, "alice@example.com")

	stored := f.users.users[user.ID]
	stored.VerificationExpires = time.Now().UTC().Add(-time.Minute)

	if err := f.svc.VerifyEmail(context.Background(), user.VerificationToken); !errors.Is(err, domain.ErrInvalidOrExpiredToken) {
		t.Fatalf("expected ErrInvalidOrExpiredToken, got %v", err)
	}
}

func TestAuthService_ResendVerification(t *testing.T) {
	f := newAuthFixture(t)
	user := f.signup(t, "alice@example.com")
	oldToken := user.VerificationToken

	if err := f.svc.ResendVerification(context.Background(), "alice@example.com"); err != nil {
		t.Fatalf("resend: %v", err)
	}
	if len(f.mail.messages) != 2 {
		t.Fatalf("expected 2 mails, got %d", len(f.mail.messages))
	}

	// The old token is overwritten and no longer consumable.
	if err := f.svc.VerifyEmail(context.Background(), oldToken); !errors.Is(err, domain.ErrInvalidOrExpiredToken) {
		t.Fatalf("old token still valid after rotation: %v", err)
	}
	rotated, _ := f.users.FindByEmail(context.Background(), "alice@example.com")
	if err := f.svc.VerifyEmail(context.Background(), rotated.VerificationToken); err != nil {
		t.Fatalf("rotated token rejected: %v", err)
	}
}

func TestAuthService_ResendVerification_UnknownOrVerified(t *testing.T) {
	f := newAuthFixture(t)
	f.signupVerified(t, "alice@example.com")
	sent := len(f.mail.messages)

	if err := f.svc.ResendVerification(context.Background(), "nobody@example.com"); err != nil {
		t.Fatalf("unknown email must be silent, got %v", err)
	}
	if err := f.svc.ResendVerification(context.Background(), "alice@example.com"); err != nil {
		t.Fatalf("verified email must be silent, got %v", err)
	}
	if len(f.mail.messages) != sent {
		t.Fatalf("silent paths must not send mail")
	}
}

// --- Signin ---

func TestAuthService_Signin(t *testing.T) {
	f := newAuthFixture(t)
	f.signupVerified(t, "alice@example.com")

	result, err := f.svc.Signin(context.Background(), ports.SigninInput{Email: "alice@example.com", Password: "s3cret"})
	if err != nil {
		t.Fatalf("signin: %v", err)
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Fatalf("missing tokens in result")
	}
	if len(result.Roles) != 1 || result.Roles[0] != domain.RoleUser {
		t.Fatalf("unexpected roles: %v", result.Roles)
	}
	// Duplicate permission references collapse to unique keys.
	if len(result.Permissions) != 2 {
		t.Fatalf("unexpected permissions: %v", result.Permissions)
	}

	stored, _ := f.users.FindByEmail(context.Background(), "alice@example.com")
	if stored.RefreshToken != result.RefreshToken {
		t.Fatalf("refresh token not persisted")
	}
}

func TestAuthService_Signin_BadCredentialsIndistinguishable(t *testing.T) {
	f := newAuthFixture(t)
	f.signupVerified(t, "alice@example.com")

	_, errUnknown := f.svc.Signin(context.Background(), ports.SigninInput{Email: "nobody@example.com", Password: "s3cret"})
	_, errWrongPw := f.svc.Signin(context.Background(), ports.SigninInput{Email: "alice@example.com", Password: "wrong"})

	if !errors.Is(errUnknown, domain.ErrInvalidCredentials) || !errors.Is(errWrongPw, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for both, got %v / %v", errUnknown, errWrongPw)
	}
	if errUnknown.Error() != errWrongPw.Error() {
		t.Fatalf("unknown email and wrong password must be indistinguishable")
	}
}

func TestAuthService_Signin_SupersedesPriorSession(t *testing.T) {
	f := newAuthFixture(t)
	f.signupVerified(t, "alice@example.com")

	first, err := f.svc.Signin(context.Background(), ports.SigninInput{Email: "alice@example.com", Password: "s3cret"})
	if err != nil {
		t.Fatalf("first signin: %v", err)
	}
	if _, err := f.svc.Signin(context.Background(), ports.SigninInput{Email: "alice@example.com", Password: "s3cret"}); err != nil {
		t.Fatalf("second signin: %v", err)
	}

	// The first session's refresh token no longer matches any user record.
	if _, err := f.svc.Refresh(context.Background(), first.RefreshToken); !errors.Is(err, domain.ErrInvalidOrExpiredToken) {
		t.Fatalf("superseded refresh token accepted: %v", err)
	}
}

// --- Signout / refresh ---

func TestAuthService_SignoutRevokesToken(t *testing.T) {
	f := newAuthFixture(t)
	f.signupVerified(t, "alice@example.com")
	result, _ := f.svc.Signin(context.Background(), ports.SigninInput{Email: "alice@example.com", Password: "s3cret"})

	if err := f.svc.Signout(context.Background(), result.RefreshToken); err != nil {
		t.Fatalf("signout: %v", err)
	}

	stored, _ := f.users.FindByEmail(context.Background(), "alice@example.com")
	if stored.RefreshToken != "" {
		t.Fatalf("refresh token not cleared")
	}
	if revoked, _ := f.black.Contains(context.Background(), result.RefreshToken); !revoked {
		t.Fatalf("token not blacklisted")
	}

	// A second signout with the same token fails: nothing holds it anymore.
	if err := f.svc.Signout(context.Background(), result.RefreshToken); !errors.Is(err, domain.ErrInvalidOrExpiredToken) {
		t.Fatalf("second signout: expected ErrInvalidOrExpiredToken, got %v", err)
	}

	// A blacklisted token can never refresh, even though it has not expired.
	if _, err := f.svc.Refresh(context.Background(), result.RefreshToken); !errors.Is(err, domain.ErrTokenRevoked) {
		t.Fatalf("refresh after signout: expected ErrTokenRevoked, got %v", err)
	}
}

func TestAuthService_Signout_MissingToken(t *testing.T) {
	f := newAuthFixture(t)
	if err := f.svc.Signout(context.Background(), ""); !errors.Is(err, domain.ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
}

func TestAuthService_Refresh(t *testing.T) {
	f := newAuthFixture(t)
	f.signupVerified(t, "alice@example.com")
	result, _ := f.svc.Signin(context.Background(), ports.SigninInput{Email: "alice@example.com", Password: "s3cret"})

	accessToken, err := f.svc.Refresh(context.Background(), result.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if accessToken == "" {
		t.Fatalf("empty access token")
	}

	// The refresh token itself is not rotated: it still works.
	if _, err := f.svc.Refresh(context.Background(), result.RefreshToken); err != nil {
		t.Fatalf("refresh token must remain valid: %v", err)
	}
}

// TestAuthService_SessionLifecycle walks one account through the whole chain:
// signup, verify, signin, refresh, signout, and the failures that must follow.
func TestAuthService_SessionLifecycle(t *testing.T) {
	f := newAuthFixture(t)

	user := f.signup(t, "alice@example.com")
	if err := f.svc.VerifyEmail(context.Background(), user.VerificationToken); err != nil {
		t.Fatalf("verify: %v", err)
	}

	result, err := f.svc.Signin(context.Background(), ports.SigninInput{Email: "alice@example.com", Password: "s3cret"})
	if err != nil {
		t.Fatalf("signin: %v", err)
	}

	accessToken, err := f.svc.Refresh(context.Background(), result.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if accessToken == "" {
		t.Fatalf("empty access token from refresh")
	}

	if err := f.svc.Signout(context.Background(), result.RefreshToken); err != nil {
		t.Fatalf("signout: %v", err)
	}

	// After signout, nothing holds the token anymore.
	if err := f.svc.Signout(context.Background(), result.RefreshToken); !errors.Is(err, domain.ErrInvalidOrExpiredToken) {
		t.Fatalf("second signout: expected ErrInvalidOrExpiredToken, got %v", err)
	}
	// And the blacklist blocks any further refresh.
	if _, err := f.svc.Refresh(context.Background(), result.RefreshToken); !errors.Is(err, domain.ErrTokenRevoked) {
		t.Fatalf("refresh after signout: expected ErrTokenRevoked, got %v", err)
	}
	// A fresh signin starts a new session cleanly.
	if _, err := f.svc.Signin(context.Background(), ports.SigninInput{Email: "alice@example.com", Password: "s3cret"}); err != nil {
		t.Fatalf("signin after signout: %v", err)
	}
}

func TestAuthService_Refresh_UnknownToken(t *testing.T) {
	f := newAuthFixture(t)
	if _, err := f.svc.Refresh(context.Background(), "never-issued"); !errors.Is(err, domain.ErrInvalidOrExpiredToken) {
		t.Fatalf("expected ErrInvalidOrExpiredToken, got %v", err)
	}
	if _, err := f.svc.Refresh(context.Background(), ""); !errors.Is(err, domain.ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
}

// --- Password reset ---

func TestAuthService_PasswordReset(t *testing.T) {
	f := newAuthFixture(t)
	f.signupVerified(t, "alice@example.com")
	sent := len(f.mail.messages)

	if err := f.svc.RequestPasswordReset(context.Background(), "alice@example.com"); err != nil {
		t.Fatalf("request reset: %v", err)
	}
	if len(f.mail.messages) != sent+1 {
		t.Fatalf("reset mail not sent")
	}

	stored, _ := f.users.FindByEmail(context.Background(), "alice@example.com")
	if !strings.Contains(f.mail.messages[sent].Body, "/auth/reset-password/"+stored.ResetToken) {
		t.Fatalf("mail body missing reset link")
	}

	if err := f.svc.ResetPassword(context.Background(), stored.ResetToken, "newpassword"); err != nil {
		t.Fatalf("reset password: %v", err)
	}

	if _, err := f.svc.Signin(context.Background(), ports.SigninInput{Email: "alice@example.com", Password: "s3cret"}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("old password still accepted")
	}
	if _, err := f.svc.Signin(context.Background(), ports.SigninInput{Email: "alice@example.com", Password: "newpassword"}); err != nil {
		t.Fatalf("new password rejected: %v", err)
	}

	// The reset token is single-use.
	if err := f.svc.ResetPassword(context.Background(), stored.ResetToken, "anotherpass"); !errors.Is(err, domain.ErrInvalidOrExpiredToken) {
		t.Fatalf("reset token reused: %v", err)
	}
}

func TestAuthService_RequestPasswordReset_Silent(t *testing.T) {
	f := newAuthFixture(t)
	f.signup(t, "unverified@example.com")
	sent := len(f.mail.messages)

	if err := f.svc.RequestPasswordReset(context.Background(), "nobody@example.com"); err != nil {
		t.Fatalf("unknown email must be silent, got %v", err)
	}
	if err := f.svc.RequestPasswordReset(context.Background(), "unverified@example.com"); err != nil {
		t.Fatalf("unverified email must be silent, got %v", err)
	}
	if len(f.mail.messages) != sent {
		t.Fatalf("silent paths must not send mail")
	}
}

func TestAuthService_ResetPassword_ShortPassword(t *testing.T) {
	f := newAuthFixture(t)
	var ve *domain.ValidationError
	if err := f.svc.ResetPassword(context.Background(), "some-token", "pw"); !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}
