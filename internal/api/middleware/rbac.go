package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/medstock/inventory-tracker/internal/api/metrics"
	"github.com/medstock/inventory-tracker/internal/core/authz"
	"github.com/medstock/inventory-tracker/internal/core/domain"
)

// Actor builds the authenticated caller from the values set by Auth.
func Actor(c echo.Context) *authz.Actor {
	userID, _ := c.Get(KeyUserID).(string)
	role, _ := c.Get(KeyRole).(string)
	if userID == "" || role == "" {
		return nil
	}
	return &authz.Actor{ID: userID, Role: domain.Role(role)}
}

// RBAC enforces role-based access control for a single guarded operation.
// Denials are returned as domain errors and rendered by the HTTP error handler.
func RBAC(guard *authz.Guard, op authz.Operation) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := guard.Authorize(Actor(c), op); err != nil {
				metrics.AuthzDeniedTotal.WithLabelValues(string(op), domain.Kind(err)).Inc()
				return err
			}
			return next(c)
		}
	}
}
