package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medstock/inventory-tracker/internal/api/middleware"
	"github.com/medstock/inventory-tracker/internal/core/authz"
)

// ctxActor returns the caller resolved by the Auth middleware. A missing
// actor means the route was mounted without Auth; reject with 401.
func ctxActor(c echo.Context) (*authz.Actor, error) {
	actor := middleware.Actor(c)
	if actor == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return actor, nil
}

// bindAndValidate decodes the body into req and runs struct validation.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
