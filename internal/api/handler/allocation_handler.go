package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/medstock/inventory-tracker/internal/core/authz"
	"github.com/medstock/inventory-tracker/internal/core/domain"
	"github.com/medstock/inventory-tracker/internal/core/ports"
)

const headerIdempotencyKey = "Idempotency-Key"

// IdempotencyStore remembers the response to an allocation request so that a
// retried POST with the same Idempotency-Key replays it instead of
// allocating twice.
type IdempotencyStore interface {
	// Lookup returns the stored response body for key, if one was saved.
	Lookup(ctx context.Context, key string) ([]byte, bool, error)
	// Reserve claims key for an in-flight request. It reports false when
	// another request already holds or has completed the key.
	Reserve(ctx context.Context, key string) (bool, error)
	Save(ctx context.Context, key string, body []byte) error
	Release(ctx context.Context, key string) error
}

// AllocationHandler exposes the allocation engine.
type AllocationHandler struct {
	service ports.AllocationService
	idem    IdempotencyStore
	logger  zerolog.Logger
}

// NewAllocationHandler wires the handler. idem may be nil, in which case
// Idempotency-Key headers are ignored.
func NewAllocationHandler(service ports.AllocationService, idem IdempotencyStore, logger zerolog.Logger) *AllocationHandler {
	return &AllocationHandler{service: service, idem: idem, logger: logger}
}

// List handles GET /api/allocations. Medical reps only see allocations they
// received.
//
// @Summary      List allocations
// @Tags         allocations
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listResponse[domain.Allocation]
// @Failure      401  {object}  errorResponse
// @Router       /api/allocations [get]
func (h *AllocationHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	allocs, err := h.service.List(c.Request().Context(), authz.AllocationScope(actor))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newList(allocs))
}

// ListForUser handles GET /api/allocations/user/:id.
//
// @Summary      List allocations received by a user
// @Tags         allocations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Recipient user ID"
// @Success      200  {object}  listResponse[domain.Allocation]
// @Failure      403  {object}  errorResponse
// @Router       /api/allocations/user/{id} [get]
func (h *AllocationHandler) ListForUser(c echo.Context) error {
	allocs, err := h.service.ListForUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newList(allocs))
}

// Create handles POST /api/allocations.
//
// @Summary      Allocate stock to a user
// @Tags         allocations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string                   false  "Replays the first response for retried requests"
// @Param        body             body      createAllocationRequest  true   "Allocation"
// @Success      201              {object}  domain.Allocation
// @Failure      400              {object}  errorResponse
// @Failure      403              {object}  errorResponse
// @Failure      404              {object}  errorResponse
// @Failure      409              {object}  errorResponse
// @Router       /api/allocations [post]
func (h *AllocationHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req createAllocationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	key := h.idempotencyKey(c, actor)
	if key != "" {
		if body, found, err := h.idem.Lookup(ctx, key); err != nil {
			h.logger.Warn().Err(err).Msg("idempotency lookup failed, continuing without replay")
			key = ""
		} else if found {
			return c.JSONBlob(http.StatusCreated, body)
		}
	}
	if key != "" {
		ok, err := h.idem.Reserve(ctx, key)
		switch {
		case err != nil:
			h.logger.Warn().Err(err).Msg("idempotency reserve failed, continuing without replay")
			key = ""
		case !ok:
			// The holder may have finished between Lookup and Reserve.
			if body, found, err := h.idem.Lookup(ctx, key); err == nil && found {
				return c.JSONBlob(http.StatusCreated, body)
			}
			return fmt.Errorf("%w: a request with this idempotency key is already in progress", domain.ErrConflict)
		}
	}

	alloc, err := h.service.Create(ctx, ports.CreateAllocationInput{
		StockItemID: req.StockItemID,
		UserID:      req.UserID,
		Quantity:    req.Quantity,
		ActorID:     actor.ID,
	})
	if err != nil {
		if key != "" {
			if rerr := h.idem.Release(ctx, key); rerr != nil {
				h.logger.Warn().Err(rerr).Msg("idempotency release failed")
			}
		}
		return err
	}

	body, err := json.Marshal(alloc)
	if err != nil {
		return err
	}
	if key != "" {
		if err := h.idem.Save(ctx, key, body); err != nil {
			h.logger.Warn().Err(err).Str("allocation_id", alloc.ID).Msg("idempotency save failed")
		}
	}
	return c.JSONBlob(http.StatusCreated, body)
}

// UpdateStatus handles PUT /api/allocations/:id/status.
//
// @Summary      Change an allocation's status
// @Tags         allocations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                         true  "Allocation ID"
// @Param        body  body      updateAllocationStatusRequest  true  "New status"
// @Success      200   {object}  domain.Allocation
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/allocations/{id}/status [put]
func (h *AllocationHandler) UpdateStatus(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req updateAllocationStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	alloc, err := h.service.UpdateStatus(c.Request().Context(), ports.UpdateAllocationStatusInput{
		AllocationID: c.Param("id"),
		Status:       req.Status,
		ActorID:      actor.ID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, alloc)
}

// idempotencyKey scopes the client-supplied key to the caller so two users
// cannot collide on the same value.
func (h *AllocationHandler) idempotencyKey(c echo.Context, actor *authz.Actor) string {
	raw := c.Request().Header.Get(headerIdempotencyKey)
	if raw == "" || h.idem == nil {
		return ""
	}
	return actor.ID + ":" + raw
}
