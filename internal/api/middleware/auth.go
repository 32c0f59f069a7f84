package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/inkpress/blog-platform/internal/core/domain"
	"github.com/inkpress/blog-platform/internal/core/token"
)

// Context keys set by Auth and read by the authorization middleware and
// handlers.
const (
	CtxUserID = "user_id"
	CtxRoles  = "roles"
)

// AccessVerifier validates an access token and returns its claims.
type AccessVerifier interface {
	VerifyAccess(tokenString string) (*token.Claims, error)
}

// Auth validates the bearer access token and injects the resolved identity
// into the request context. Missing, malformed, and expired tokens all
// short-circuit with 401.
func Auth(verifier AccessVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return domain.ErrMissingToken
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return domain.ErrInvalidOrExpiredToken
			}

			claims, err := verifier.VerifyAccess(parts[1])
			if err != nil {
				return err
			}

			c.Set(CtxUserID, claims.UserID())
			c.Set(CtxRoles, claims.Roles)

			return next(c)
		}
	}
}

// CallerID returns the authenticated user id from the context, empty when the
// Auth middleware did not run.
func CallerID(c echo.Context) string {
	id, _ := c.Get(CtxUserID).(string)
	return id
}

// CallerRoles returns the authenticated caller's role names.
func CallerRoles(c echo.Context) []string {
	roles, _ := c.Get(CtxRoles).([]string)
	return roles
}

// IsAdmin reports whether the caller holds the admin role.
func IsAdmin(c echo.Context) bool {
	for _, r := range CallerRoles(c) {
		if r == domain.RoleAdmin {
			return true
		}
	}
	return false
}
