package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/inkpress/blog-platform/internal/core/domain"
	"github.com/inkpress/blog-platform/internal/core/ports"
)

type permissionRequest struct {
	Action   string `json:"action" validate:"required,oneof=create read update delete"`
	Resource string `json:"resource" validate:"required,oneof=user post comment category role permission"`
}

type permissionResponse struct {
	ID       string `json:"id"`
	Action   string `json:"action"`
	Resource string `json:"resource"`
	Key      string `json:"key"`
}

func toPermissionResponse(p *domain.Permission) permissionResponse {
	return permissionResponse{
		ID:       p.ID,
		Action:   p.Action,
		Resource: p.Resource,
		Key:      p.Key(),
	}
}

type PermissionHandler struct {
	permissionService ports.PermissionService
}

func NewPermissionHandler(permissionService ports.PermissionService) *PermissionHandler {
	return &PermissionHandler{permissionService: permissionService}
}

// Create adds an (action, resource) permission to the catalogue.
//
// @Summary      Create permission
// @Tags         permissions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      permissionRequest  true  "Permission pair"
// @Success      201   {object}  envelope{data=permissionResponse}
// @Failure      409   {object}  envelope
// @Router       /permissions [post]
func (h *PermissionHandler) Create(c echo.Context) error {
	var req permissionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	permission, err := h.permissionService.Create(c.Request().Context(), req.Action, req.Resource)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "permission created", toPermissionResponse(permission))
}

// List returns the whole permission catalogue.
//
// @Summary      List permissions
// @Tags         permissions
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  envelope{data=[]permissionResponse}
// @Router       /permissions [get]
func (h *PermissionHandler) List(c echo.Context) error {
	permissions, err := h.permissionService.List(c.Request().Context())
	if err != nil {
		return err
	}

	out := make([]permissionResponse, 0, len(permissions))
	for i := range permissions {
		out = append(out, toPermissionResponse(&permissions[i]))
	}
	return respond(c, http.StatusOK, "permissions", out)
}

// Delete removes a permission from the catalogue.
//
// @Summary      Delete permission
// @Tags         permissions
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Permission id"
// @Success      204  "deleted"
// @Failure      404  {object}  envelope
// @Router       /permissions/{id} [delete]
func (h *PermissionHandler) Delete(c echo.Context) error {
	if err := h.permissionService.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
