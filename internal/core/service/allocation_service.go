package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/medstock/inventory-tracker/internal/api/metrics"
	"github.com/medstock/inventory-tracker/internal/core/domain"
	"github.com/medstock/inventory-tracker/internal/core/ports"
)

// AllocationService is the allocation engine. Each operation runs as one
// unit of work: the stock quantity, the allocation record and the ledger
// entry are committed together or not at all.
type AllocationService struct {
	tx     ports.TxRunner
	repo   ports.AllocationRepository
	logger zerolog.Logger
}

func NewAllocationService(tx ports.TxRunner, repo ports.AllocationRepository, logger zerolog.Logger) *AllocationService {
	return &AllocationService{tx: tx, repo: repo, logger: logger}
}

// Create allocates stock to a recipient, moving the quantity out of the
// item's free pool.
func (s *AllocationService) Create(ctx context.Context, in ports.CreateAllocationInput) (*domain.Allocation, error) {
	switch {
	case in.Quantity <= 0:
		return nil, s.failed(domain.InvalidInput("quantity must be greater than 0"))
	case in.StockItemID == "":
		return nil, s.failed(domain.InvalidInput("stock item is required"))
	case in.UserID == "":
		return nil, s.failed(domain.InvalidInput("recipient is required"))
	}

	var created *domain.Allocation
	err := s.tx.Run(ctx, func(ctx context.Context, repos ports.Repositories) error {
		item, err := repos.Stock.FindByID(ctx, in.StockItemID)
		if err != nil {
			return err
		}
		if in.Quantity > item.Quantity {
			return fmt.Errorf("%w: requested %d, available %d", domain.ErrInsufficientStock, in.Quantity, item.Quantity)
		}
		if _, err := repos.Users.FindByID(ctx, in.UserID); err != nil {
			return err
		}

		// The conditional decrement is the guard against a concurrent
		// allocation that read the same starting quantity.
		if _, err := repos.Stock.AdjustQuantity(ctx, item.ID, -in.Quantity); err != nil {
			return err
		}

		created, err = repos.Allocations.Create(ctx, &domain.Allocation{
			StockItemID: item.ID,
			UserID:      in.UserID,
			Quantity:    in.Quantity,
			Status:      domain.StatusPending,
			AllocatedBy: in.ActorID,
			AllocatedAt: time.Now().UTC(),
		})
		if err != nil {
			return err
		}

		_, err = recordMovement(ctx, repos.Movements, ports.RecordMovementInput{
			StockItemID: item.ID,
			Quantity:    in.Quantity,
			Type:        domain.MovementAllocate,
			ToUserID:    in.UserID,
			PerformedBy: in.ActorID,
		})
		return err
	})
	if err != nil {
		s.logger.Warn().Err(err).
			Str("stock_item_id", in.StockItemID).
			Str("recipient_id", in.UserID).
			Int("quantity", in.Quantity).
			Msg("allocation rejected")
		return nil, s.failed(err)
	}

	metrics.AllocationsCreatedTotal.Inc()
	metrics.StockMovementsTotal.WithLabelValues(string(domain.MovementAllocate)).Inc()
	s.logger.Info().
		Str("allocation_id", created.ID).
		Str("stock_item_id", created.StockItemID).
		Str("recipient_id", created.UserID).
		Int("quantity", created.Quantity).
		Msg("allocation created")
	return created, nil
}

// UpdateStatus moves an allocation through its lifecycle. The first move
// into cancelled returns the quantity to the stock item and records a
// "deallocate" movement; repeating a status is a no-op.
func (s *AllocationService) UpdateStatus(ctx context.Context, in ports.UpdateAllocationStatusInput) (*domain.Allocation, error) {
	next, ok := domain.ParseAllocationStatus(in.Status)
	if !ok {
		return nil, domain.InvalidInput("status must be one of: pending, received, cancelled")
	}

	var (
		updated  *domain.Allocation
		from     domain.AllocationStatus
		restored bool
	)
	err := s.tx.Run(ctx, func(ctx context.Context, repos ports.Repositories) error {
		// Run may retry fn on transient conflicts.
		restored = false
		current, err := repos.Allocations.FindByID(ctx, in.AllocationID)
		if err != nil {
			return err
		}
		from = current.Status

		if current.Status == next {
			updated = current
			return nil
		}
		if !current.Status.CanTransitionTo(next) {
			return fmt.Errorf("%w: from %s to %s", domain.ErrInvalidTransition, current.Status, next)
		}

		updated, err = repos.Allocations.UpdateStatus(ctx, current.ID, current.Status, next)
		if errors.Is(err, domain.ErrConcurrentUpdate) {
			// Another request moved it first; landing on the same status is a no-op.
			latest, ferr := repos.Allocations.FindByID(ctx, current.ID)
			if ferr != nil {
				return ferr
			}
			if latest.Status != next {
				return err
			}
			from, updated = next, latest
			return nil
		}
		if err != nil {
			return err
		}

		if !current.Status.RestoresStock(next) {
			return nil
		}
		if _, err := repos.Stock.AdjustQuantity(ctx, current.StockItemID, current.Quantity); err != nil {
			return err
		}
		if _, err := recordMovement(ctx, repos.Movements, ports.RecordMovementInput{
			StockItemID: current.StockItemID,
			Quantity:    current.Quantity,
			Type:        domain.MovementDeallocate,
			FromUserID:  current.UserID,
			PerformedBy: in.ActorID,
		}); err != nil {
			return err
		}
		restored = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if from != next {
		metrics.AllocationStatusChangesTotal.WithLabelValues(string(from), string(next)).Inc()
	}
	if restored {
		metrics.StockMovementsTotal.WithLabelValues(string(domain.MovementDeallocate)).Inc()
	}
	s.logger.Info().
		Str("allocation_id", updated.ID).
		Str("from", string(from)).
		Str("to", string(next)).
		Bool("stock_restored", restored).
		Msg("allocation status updated")
	return updated, nil
}

func (s *AllocationService) Get(ctx context.Context, id string) (*domain.Allocation, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *AllocationService) List(ctx context.Context, scopeUserID string) ([]*domain.Allocation, error) {
	return s.repo.List(ctx, ports.AllocationFilter{UserID: scopeUserID})
}

func (s *AllocationService) ListForUser(ctx context.Context, userID string) ([]*domain.Allocation, error) {
	if userID == "" {
		return nil, domain.InvalidInput("user is required")
	}
	return s.repo.List(ctx, ports.AllocationFilter{UserID: userID})
}

func (s *AllocationService) failed(err error) error {
	metrics.AllocationsFailedTotal.WithLabelValues(domain.Kind(err)).Inc()
	return err
}
