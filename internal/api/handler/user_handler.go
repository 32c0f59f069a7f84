package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/inkpress/blog-platform/internal/api/middleware"
	"github.com/inkpress/blog-platform/internal/core/domain"
	"github.com/inkpress/blog-platform/internal/core/ports"
	"github.com/inkpress/blog-platform/internal/infrastructure/storage"
)

type UserHandler struct {
	userService ports.UserService
	uploads     *storage.Store
	baseURL     string
}

func NewUserHandler(userService ports.UserService, uploads *storage.Store, baseURL string) *UserHandler {
	return &UserHandler{userService: userService, uploads: uploads, baseURL: baseURL}
}

// List returns a page of accounts.
//
// @Summary      List users
// @Tags         users
// @Security     BearerAuth
// @Produce      json
// @Param        page    query     int     false  "Page number"
// @Param        limit   query     int     false  "Page size"
// @Param        search  query     string  false  "Match against username or email"
// @Success      200     {object}  envelope{data=[]userDetailResponse}
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	result, err := h.userService.List(c.Request().Context(), listInput(c))
	if err != nil {
		return err
	}
	return respondList(c, http.StatusOK, "users", toUserDetailList(result.Items, h.baseURL), meta{
		Page:       result.Page,
		Limit:      result.Limit,
		Total:      result.Total,
		TotalPages: result.TotalPages,
	})
}

// Get returns a single account.
//
// @Summary      Get user
// @Tags         users
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  envelope{data=userDetailResponse}
// @Failure      404  {object}  envelope
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.userService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "user", toUserDetail(user, h.baseURL))
}

// Update mutates profile fields. The request is multipart so the avatar can
// ride along; absent fields are left unchanged. Only admins may change role
// assignments.
//
// @Summary      Update user
// @Tags         users
// @Security     BearerAuth
// @Accept       multipart/form-data
// @Produce      json
// @Param        id        path      string  true   "User id"
// @Param        username  formData  string  false  "New username"
// @Param        roles     formData  []string  false  "Role ids (admin only)"
// @Param        avatar    formData  file    false  "Avatar image"
// @Success      200       {object}  envelope{data=userDetailResponse}
// @Failure      400       {object}  envelope
// @Failure      403       {object}  envelope
// @Router       /users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	var update ports.UserUpdate

	if username := c.FormValue("username"); username != "" {
		if len(username) < 3 || len(username) > 50 {
			return domain.NewValidationError(map[string]string{"username": "username must be between 3 and 50 characters"})
		}
		update.Username = &username
	}

	if roles, ok := formValues(c, "roles"); ok {
		if !middleware.IsAdmin(c) {
			return domain.ErrPermissionDenied
		}
		update.Roles = &roles
	}

	var oldAvatar string
	if file, err := c.FormFile("avatar"); err == nil {
		current, err := h.userService.Get(ctx, id)
		if err != nil {
			return err
		}
		oldAvatar = current.Avatar

		name, err := saveUpload(h.uploads, storage.KindAvatar, file)
		if err != nil {
			return err
		}
		update.Avatar = &name
	}

	user, err := h.userService.Update(ctx, id, update)
	if err != nil {
		if update.Avatar != nil {
			_ = h.uploads.Remove(storage.KindAvatar, *update.Avatar)
		}
		return err
	}

	if update.Avatar != nil && oldAvatar != "" {
		_ = h.uploads.Remove(storage.KindAvatar, oldAvatar)
	}

	return respond(c, http.StatusOK, "user updated", toUserDetail(user, h.baseURL))
}

// Delete removes an account.
//
// @Summary      Delete user
// @Tags         users
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "User id"
// @Success      204  "deleted"
// @Failure      404  {object}  envelope
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	user, err := h.userService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	if err := h.userService.Delete(c.Request().Context(), user.ID); err != nil {
		return err
	}
	if user.Avatar != "" {
		_ = h.uploads.Remove(storage.KindAvatar, user.Avatar)
	}
	return c.NoContent(http.StatusNoContent)
}

// formValues returns the repeated values of a multipart/form field and whether
// the field was present at all. Presence distinguishes "clear the list" from
// "leave unchanged".
func formValues(c echo.Context, key string) ([]string, bool) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, false
	}
	values, ok := form.Value[key]
	return values, ok
}
