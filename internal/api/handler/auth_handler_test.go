package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/inkpress/blog-platform/internal/core/domain"
	"github.com/inkpress/blog-platform/internal/core/ports"
)

type stubAuthService struct {
	signupFn       func(ctx context.Context, input ports.SignupInput) error
	signinFn       func(ctx context.Context, input ports.SigninInput) (*ports.SigninResult, error)
	signoutFn      func(ctx context.Context, refreshToken string) error
	refreshFn      func(ctx context.Context, refreshToken string) (string, error)
	verifyFn       func(ctx context.Context, tokenValue string) error
	resendFn       func(ctx context.Context, email string) error
	requestResetFn func(ctx context.Context, email string) error
	resetFn        func(ctx context.Context, tokenValue, newPassword string) error
}

func (s *stubAuthService) Signup(ctx context.Context, input ports.SignupInput) error {
	return s.signupFn(ctx, input)
}

func (s *stubAuthService) VerifyEmail(ctx context.Context, tokenValue string) error {
	return s.verifyFn(ctx, tokenValue)
}

func (s *stubAuthService) ResendVerification(ctx context.Context, email string) error {
	return s.resendFn(ctx, email)
}

func (s *stubAuthService) Signin(ctx context.Context, input ports.SigninInput) (*ports.SigninResult, error) {
	return s.signinFn(ctx, input)
}

func (s *stubAuthService) Signout(ctx context.Context, refreshToken string) error {
	return s.signoutFn(ctx, refreshToken)
}

func (s *stubAuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	return s.refreshFn(ctx, refreshToken)
}

func (s *stubAuthService) RequestPasswordReset(ctx context.Context, email string) error {
	return s.requestResetFn(ctx, email)
}

func (s *stubAuthService) ResetPassword(ctx context.Context, tokenValue, newPassword string) error {
	return s.resetFn(ctx, tokenValue, newPassword)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func TestAuthHandler_Signup_GenericMessage(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		signupFn: func(_ context.Context, input ports.SignupInput) error {
			if input.Email != "a@example.com" || input.Username != "alice" {
				t.Fatalf("unexpected input: %+v", input)
			}
			return nil
		},
	}
	h := NewAuthHandler(stub, time.Hour)

	body := strings.NewReader(`{"username":"alice","email":"a@example.com","password":"s3cret"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/signup", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := h.Signup(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["message"] != checkEmailMessage {
		t.Fatalf("unexpected message: %v", resp["message"])
	}
}

func TestAuthHandler_Signup_ValidationCollectsAllFields(t *testing.T) {
	e := newTestEcho()
	h := NewAuthHandler(&stubAuthService{}, time.Hour)

	// every field invalid
	body := strings.NewReader(`{"username":"ab","email":"not-an-email","password":"pw"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/signup", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	err := h.Signup(e.NewContext(req, rec))
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	for _, field := range []string{"username", "email", "password"} {
		if _, ok := ve.Fields[field]; !ok {
			t.Fatalf("missing field %q in %v", field, ve.Fields)
		}
	}
}

func TestAuthHandler_Signin_SetsRefreshCookie(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		signinFn: func(_ context.Context, input ports.SigninInput) (*ports.SigninResult, error) {
			return &ports.SigninResult{
				AccessToken:  "access-jwt",
				RefreshToken: "refresh-jwt",
				User:         &domain.User{ID: "user-1", Username: "alice", Email: input.Email, IsVerified: true},
				Roles:        []string{"user"},
				Permissions:  []string{"create_post"},
			}, nil
		},
	}
	h := NewAuthHandler(stub, time.Hour)

	body := strings.NewReader(`{"email":"a@example.com","password":"s3cret"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/signin", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := h.Signin(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	cookies := rec.Result().Cookies()
	var refresh *http.Cookie
	for _, ck := range cookies {
		if ck.Name == refreshCookieName {
			refresh = ck
		}
	}
	if refresh == nil {
		t.Fatalf("refresh cookie not set")
	}
	if refresh.Value != "refresh-jwt" {
		t.Fatalf("unexpected cookie value: %q", refresh.Value)
	}
	if !refresh.HttpOnly {
		t.Fatalf("refresh cookie must be httpOnly")
	}
	if refresh.MaxAge != int(time.Hour.Seconds()) {
		t.Fatalf("cookie max-age %d does not match refresh TTL", refresh.MaxAge)
	}

	// The refresh token must never appear in the response body.
	if strings.Contains(rec.Body.String(), "refresh-jwt") {
		t.Fatalf("refresh token leaked into body: %s", rec.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	data, ok := resp["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data in response")
	}
	if data["token"] != "access-jwt" {
		t.Fatalf("unexpected access token: %v", data["token"])
	}
	if _, ok := data["permissions"]; !ok {
		t.Fatalf("permissions missing from response")
	}
}

func TestAuthHandler_Signin_BadCredentials(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		signinFn: func(_ context.Context, _ ports.SigninInput) (*ports.SigninResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(stub, time.Hour)

	body := strings.NewReader(`{"email":"a@example.com","password":"wrong"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/signin", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := h.Signin(e.NewContext(req, rec)); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("no cookie must be set on failure")
	}
}

func TestAuthHandler_Signout_ClearsCookie(t *testing.T) {
	e := newTestEcho()
	var got string
	stub := &stubAuthService{
		signoutFn: func(_ context.Context, refreshToken string) error {
			got = refreshToken
			return nil
		},
	}
	h := NewAuthHandler(stub, time.Hour)

	req := httptest.NewRequest(http.MethodPost, "/auth/signout", nil)
	req.AddCookie(&http.Cookie{Name: refreshCookieName, Value: "refresh-jwt"})
	rec := httptest.NewRecorder()

	if err := h.Signout(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if got != "refresh-jwt" {
		t.Fatalf("cookie value not forwarded: %q", got)
	}

	var cleared *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == refreshCookieName {
			cleared = ck
		}
	}
	if cleared == nil || cleared.Value != "" || cleared.MaxAge >= 0 {
		t.Fatalf("cookie not cleared: %+v", cleared)
	}
}

func TestAuthHandler_Signout_MissingCookie(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		signoutFn: func(_ context.Context, refreshToken string) error {
			if refreshToken != "" {
				t.Fatalf("expected empty token, got %q", refreshToken)
			}
			return domain.ErrMissingToken
		},
	}
	h := NewAuthHandler(stub, time.Hour)

	req := httptest.NewRequest(http.MethodPost, "/auth/signout", nil)
	rec := httptest.NewRecorder()

	if err := h.Signout(e.NewContext(req, rec)); !errors.Is(err, domain.ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
}

func TestAuthHandler_Refresh(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		refreshFn: func(_ context.Context, refreshToken string) (string, error) {
			if refreshToken != "refresh-jwt" {
				t.Fatalf("cookie value not forwarded: %q", refreshToken)
			}
			return "new-access-jwt", nil
		},
	}
	h := NewAuthHandler(stub, time.Hour)

	req := httptest.NewRequest(http.MethodPost, "/auth/refresh-token", nil)
	req.AddCookie(&http.Cookie{Name: refreshCookieName, Value: "refresh-jwt"})
	rec := httptest.NewRecorder()

	if err := h.Refresh(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	data, _ := resp["data"].(map[string]any)
	if data["token"] != "new-access-jwt" {
		t.Fatalf("unexpected token: %v", data)
	}
}

func TestAuthHandler_VerifyEmail_TokenFromPath(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		verifyFn: func(_ context.Context, tokenValue string) error {
			if tokenValue != "tok-123" {
				t.Fatalf("unexpected token: %q", tokenValue)
			}
			return nil
		},
	}
	h := NewAuthHandler(stub, time.Hour)

	req := httptest.NewRequest(http.MethodPost, "/auth/verify-email/tok-123", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("token")
	c.SetParamValues("tok-123")

	if err := h.VerifyEmail(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
