package middleware

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/inkpress/blog-platform/internal/core/domain"
)

// PermissionResolver maps role names to the union of their permission keys
// ("action_resource").
type PermissionResolver interface {
	PermissionsFor(ctx context.Context, roleNames []string) (map[string]struct{}, error)
}

// RequireRoles enforces a role allow-list: the caller must hold at least one
// of the named roles. Denial is 403, not 401 — the caller is authenticated
// but not allowed. Must run after Auth.
func RequireRoles(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			for _, role := range CallerRoles(c) {
				if _, ok := allowed[role]; ok {
					return next(c)
				}
			}
			return domain.ErrPermissionDenied
		}
	}
}

// RequirePermission enforces an (action, resource) permission check: the
// caller's resolved permission set must contain the exact pair. The admin
// role bypasses resolution entirely. Must run after Auth.
func RequirePermission(action, resource string, resolver PermissionResolver) echo.MiddlewareFunc {
	key := domain.Permission{Action: action, Resource: resource}.Key()

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if IsAdmin(c) {
				return next(c)
			}

			perms, err := resolver.PermissionsFor(c.Request().Context(), CallerRoles(c))
			if err != nil {
				return err
			}
			if _, ok := perms[key]; !ok {
				return domain.ErrPermissionDenied
			}
			return next(c)
		}
	}
}
