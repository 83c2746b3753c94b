package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/medstock/inventory-tracker/internal/core/domain"
	"github.com/medstock/inventory-tracker/internal/core/ports"
)

// StockHandler serves stock item reads and direct edits.
type StockHandler struct {
	service ports.StockService
}

func NewStockHandler(service ports.StockService) *StockHandler {
	return &StockHandler{service: service}
}

// List handles GET /api/stock.
//
// @Summary      List stock items
// @Tags         stock
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listResponse[domain.StockItem]
// @Failure      401  {object}  errorResponse
// @Router       /api/stock [get]
func (h *StockHandler) List(c echo.Context) error {
	items, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newList(items))
}

// Get handles GET /api/stock/:id.
//
// @Summary      Get a stock item
// @Tags         stock
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Stock item ID"
// @Success      200  {object}  domain.StockItem
// @Failure      404  {object}  errorResponse
// @Router       /api/stock/{id} [get]
func (h *StockHandler) Get(c echo.Context) error {
	item, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

// GetByUniqueNumber handles GET /api/stock/unique/:number.
//
// @Summary      Look up a stock item by its unique number
// @Tags         stock
// @Produce      json
// @Security     BearerAuth
// @Param        number  path      string  true  "Unique number"
// @Success      200     {object}  domain.StockItem
// @Failure      404     {object}  errorResponse
// @Router       /api/stock/unique/{number} [get]
func (h *StockHandler) GetByUniqueNumber(c echo.Context) error {
	item, err := h.service.GetByUniqueNumber(c.Request().Context(), c.Param("number"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

// Create handles POST /api/stock.
//
// @Summary      Register a stock item
// @Tags         stock
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createStockRequest  true  "Stock item"
// @Success      201   {object}  domain.StockItem
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/stock [post]
func (h *StockHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req createStockRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	item, err := h.service.Create(c.Request().Context(), ports.CreateStockItemInput{
		Name:         req.Name,
		UniqueNumber: req.UniqueNumber,
		Category:     req.Category,
		Quantity:     req.Quantity,
		ExpiryDate:   req.ExpiryDate,
		ImageURL:     req.ImageURL,
		ActorID:      actor.ID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, item)
}

// Update handles PUT /api/stock/:id.
//
// @Summary      Edit a stock item
// @Tags         stock
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Stock item ID"
// @Param        body  body      updateStockRequest  true  "Fields to change"
// @Success      200   {object}  domain.StockItem
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/stock/{id} [put]
func (h *StockHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req updateStockRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	item, err := h.service.Update(c.Request().Context(), ports.UpdateStockItemInput{
		ID:           c.Param("id"),
		Name:         req.Name,
		UniqueNumber: req.UniqueNumber,
		Category:     req.Category,
		Quantity:     req.Quantity,
		ExpiryDate:   req.ExpiryDate,
		ClearExpiry:  req.ClearExpiry,
		ImageURL:     req.ImageURL,
		ActorID:      actor.ID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

// ListExpiring handles GET /api/stock/expiring/:days.
//
// @Summary      Items expiring within a number of days
// @Tags         stock
// @Produce      json
// @Security     BearerAuth
// @Param        days  path      int  true  "Window in days"
// @Success      200   {object}  listResponse[domain.StockItem]
// @Failure      400   {object}  errorResponse
// @Router       /api/stock/expiring/{days} [get]
func (h *StockHandler) ListExpiring(c echo.Context) error {
	days, err := intParam(c, "days")
	if err != nil {
		return err
	}
	items, err := h.service.ListExpiring(c.Request().Context(), days)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newList(items))
}

// ListLowStock handles GET /api/stock/low/:threshold.
//
// @Summary      Items at or below a quantity threshold
// @Tags         stock
// @Produce      json
// @Security     BearerAuth
// @Param        threshold  path      int  true  "Quantity threshold"
// @Success      200        {object}  listResponse[domain.StockItem]
// @Failure      400        {object}  errorResponse
// @Router       /api/stock/low/{threshold} [get]
func (h *StockHandler) ListLowStock(c echo.Context) error {
	threshold, err := intParam(c, "threshold")
	if err != nil {
		return err
	}
	items, err := h.service.ListLowStock(c.Request().Context(), threshold)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newList(items))
}

func intParam(c echo.Context, name string) (int, error) {
	n, err := strconv.Atoi(c.Param(name))
	if err != nil {
		return 0, domain.InvalidInput("%s must be an integer", name)
	}
	return n, nil
}
