package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/inkpress/blog-platform/internal/core/domain"
	"github.com/inkpress/blog-platform/internal/core/ports"
)

// refreshCookieName is the httpOnly cookie carrying the refresh token.
const refreshCookieName = "refreshToken"

// checkEmailMessage is the generic response for signup, resend-verification,
// and request-reset-password. It is identical whether or not the email is
// registered, so responses cannot be used to enumerate accounts.
const checkEmailMessage = "check your email for further instructions"

type AuthHandler struct {
	authService ports.AuthService
	refreshTTL  time.Duration
}

func NewAuthHandler(authService ports.AuthService, refreshTTL time.Duration) *AuthHandler {
	return &AuthHandler{authService: authService, refreshTTL: refreshTTL}
}

// Signup opens a new account.
//
// @Summary      Sign up
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Account details"
// @Success      200   {object}  envelope
// @Failure      400   {object}  envelope
// @Router       /auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.authService.Signup(c.Request().Context(), ports.SignupInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	}); err != nil {
		return err
	}

	return respond(c, http.StatusOK, checkEmailMessage, nil)
}

// VerifyEmail consumes a verification token.
//
// @Summary      Verify email
// @Tags         auth
// @Produce      json
// @Param        token  path      string  true  "Verification token"
// @Success      200    {object}  envelope
// @Failure      401    {object}  envelope
// @Router       /auth/verify-email/{token} [post]
func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	if err := h.authService.VerifyEmail(c.Request().Context(), c.Param("token")); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "email verified", nil)
}

// ResendVerification re-issues the verification email.
//
// @Summary      Resend verification email
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      emailRequest  true  "Account email"
// @Success      200   {object}  envelope
// @Router       /auth/resend-verification [post]
func (h *AuthHandler) ResendVerification(c echo.Context) error {
	var req emailRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.authService.ResendVerification(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return respond(c, http.StatusOK, checkEmailMessage, nil)
}

// Signin authenticates a user and issues the token pair.
//
// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signinRequest  true  "Credentials"
// @Success      200   {object}  envelope{data=signinResponse}
// @Failure      401   {object}  envelope
// @Router       /auth/signin [post]
func (h *AuthHandler) Signin(c echo.Context) error {
	var req signinRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.authService.Signin(c.Request().Context(), ports.SigninInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	c.SetCookie(h.refreshCookie(result.RefreshToken, h.refreshTTL))

	return respond(c, http.StatusOK, "signed in", signinResponse{
		Token:       result.AccessToken,
		User:        toUserResponse(result.User),
		Roles:       result.Roles,
		Permissions: result.Permissions,
	})
}

// Signout revokes the refresh token and clears the cookie.
//
// @Summary      Sign out
// @Tags         auth
// @Produce      json
// @Success      204  "signed out"
// @Failure      401  {object}  envelope
// @Router       /auth/signout [post]
func (h *AuthHandler) Signout(c echo.Context) error {
	refreshToken := readRefreshCookie(c)

	if err := h.authService.Signout(c.Request().Context(), refreshToken); err != nil {
		return err
	}

	c.SetCookie(h.refreshCookie("", -time.Second))
	return c.NoContent(http.StatusNoContent)
}

// Refresh exchanges the refresh cookie for a new access token.
//
// @Summary      Refresh access token
// @Tags         auth
// @Produce      json
// @Success      200  {object}  envelope{data=refreshResponse}
// @Failure      401  {object}  envelope
// @Router       /auth/refresh-token [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	refreshToken := readRefreshCookie(c)

	accessToken, err := h.authService.Refresh(c.Request().Context(), refreshToken)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "token refreshed", refreshResponse{Token: accessToken})
}

// RequestPasswordReset emails a reset link.
//
// @Summary      Request password reset
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      emailRequest  true  "Account email"
// @Success      200   {object}  envelope
// @Router       /auth/request-reset-password [post]
func (h *AuthHandler) RequestPasswordReset(c echo.Context) error {
	var req emailRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.authService.RequestPasswordReset(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return respond(c, http.StatusOK, checkEmailMessage, nil)
}

// ResetPassword consumes a reset token and installs the new password.
//
// @Summary      Reset password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        token  path      string                true  "Reset token"
// @Param        body   body      resetPasswordRequest  true  "New password"
// @Success      200    {object}  envelope
// @Failure      401    {object}  envelope
// @Router       /auth/reset-password/{token} [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.authService.ResetPassword(c.Request().Context(), c.Param("token"), req.Password); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "password reset", nil)
}

func (h *AuthHandler) refreshCookie(value string, maxAge time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     refreshCookieName,
		Value:    value,
		Path:     "/auth",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
}

func readRefreshCookie(c echo.Context) string {
	cookie, err := c.Cookie(refreshCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		Avatar:     u.Avatar,
		IsVerified: u.IsVerified,
	}
}
