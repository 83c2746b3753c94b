package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medstock/inventory-tracker/internal/core/ports"
)

type MovementHandler struct {
	service ports.MovementService
}

func NewMovementHandler(service ports.MovementService) *MovementHandler {
	return &MovementHandler{service: service}
}

// List handles GET /api/movements.
//
// @Summary      Full movement ledger
// @Tags         movements
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listResponse[domain.Movement]
// @Failure      403  {object}  errorResponse
// @Router       /api/movements [get]
func (h *MovementHandler) List(c echo.Context) error {
	moves, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newList(moves))
}

// ListForStockItem handles GET /api/movements/stock/:id.
//
// @Summary      Movements of one stock item
// @Tags         movements
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Stock item ID"
// @Success      200  {object}  listResponse[domain.Movement]
// @Failure      403  {object}  errorResponse
// @Router       /api/movements/stock/{id} [get]
func (h *MovementHandler) ListForStockItem(c echo.Context) error {
	moves, err := h.service.ListForStockItem(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newList(moves))
}
