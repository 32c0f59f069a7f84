package middleware

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/inkpress/blog-platform/internal/core/domain"
)

// OwnerLoader resolves the owning user id of a resource. A missing resource
// must surface its not-found sentinel so the response is 404 before any
// ownership comparison happens.
type OwnerLoader func(ctx context.Context, id string) (string, error)

// OwnUser restricts a /users/:id route to the user themselves. The path id is
// compared directly to the caller's id; no load is needed. Admin bypasses.
func OwnUser() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if IsAdmin(c) {
				return next(c)
			}
			if c.Param("id") != CallerID(c) {
				return domain.ErrPermissionDenied
			}
			return next(c)
		}
	}
}

// OwnResource restricts a mutation on /:id to the resource's owner. The
// loader runs first, so a missing resource is 404, then a mismatched owner is
// 403. Admin bypasses the check without loading.
func OwnResource(load OwnerLoader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if IsAdmin(c) {
				return next(c)
			}

			ownerID, err := load(c.Request().Context(), c.Param("id"))
			if err != nil {
				return err
			}
			if ownerID != CallerID(c) {
				return domain.ErrPermissionDenied
			}
			return next(c)
		}
	}
}
