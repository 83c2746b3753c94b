package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medstock/inventory-tracker/internal/core/ports"
)

type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// List handles GET /api/users.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listResponse[domain.User]
// @Failure      403  {object}  errorResponse
// @Router       /api/users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newList(users))
}

// ListByRole handles GET /api/users/role/:role.
//
// @Summary      List users holding a role
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        role  path      string  true  "Role name, e.g. Medical Rep"
// @Success      200   {object}  listResponse[domain.User]
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /api/users/role/{role} [get]
func (h *UserHandler) ListByRole(c echo.Context) error {
	users, err := h.service.ListByRole(c.Request().Context(), c.Param("role"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newList(users))
}
