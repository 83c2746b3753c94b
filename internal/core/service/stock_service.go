package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/medstock/inventory-tracker/internal/api/metrics"
	"github.com/medstock/inventory-tracker/internal/core/domain"
	"github.com/medstock/inventory-tracker/internal/core/ports"
)

// StockService handles direct stock edits and the read-side projections.
// Every quantity change is written together with its ledger entry.
type StockService struct {
	tx     ports.TxRunner
	repo   ports.StockRepository
	logger zerolog.Logger
}

func NewStockService(tx ports.TxRunner, repo ports.StockRepository, logger zerolog.Logger) *StockService {
	return &StockService{tx: tx, repo: repo, logger: logger}
}

// Create registers a new item. A positive opening quantity is recorded as an
// "add" movement in the same unit of work.
func (s *StockService) Create(ctx context.Context, in ports.CreateStockItemInput) (*domain.StockItem, error) {
	name := strings.TrimSpace(in.Name)
	uniqueNumber := strings.TrimSpace(in.UniqueNumber)
	switch {
	case name == "":
		return nil, domain.InvalidInput("name is required")
	case uniqueNumber == "":
		return nil, domain.InvalidInput("unique number is required")
	case in.Quantity < 0:
		return nil, domain.InvalidInput("quantity must not be negative")
	}

	var created *domain.StockItem
	var movement *domain.Movement
	err := s.tx.Run(ctx, func(ctx context.Context, repos ports.Repositories) error {
		movement = nil
		var err error
		created, err = repos.Stock.Create(ctx, &domain.StockItem{
			Name:         name,
			UniqueNumber: uniqueNumber,
			Category:     strings.TrimSpace(in.Category),
			Quantity:     in.Quantity,
			ExpiryDate:   in.ExpiryDate,
			ImageURL:     in.ImageURL,
			CreatedBy:    in.ActorID,
			CreatedAt:    time.Now().UTC(),
		})
		if err != nil {
			return err
		}
		if created.Quantity == 0 {
			return nil
		}
		movement, err = recordMovement(ctx, repos.Movements, ports.RecordMovementInput{
			StockItemID: created.ID,
			Quantity:    created.Quantity,
			Type:        domain.MovementAdd,
			PerformedBy: in.ActorID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	if movement != nil {
		metrics.StockMovementsTotal.WithLabelValues(string(movement.Type)).Inc()
	}
	s.logger.Info().
		Str("stock_item_id", created.ID).
		Str("unique_number", created.UniqueNumber).
		Int("quantity", created.Quantity).
		Msg("stock item created")
	return created, nil
}

// Update applies a partial edit. A quantity change is recorded as an
// "add" or "remove" movement of the absolute delta.
func (s *StockService) Update(ctx context.Context, in ports.UpdateStockItemInput) (*domain.StockItem, error) {
	var updated *domain.StockItem
	var movement *domain.Movement
	err := s.tx.Run(ctx, func(ctx context.Context, repos ports.Repositories) error {
		movement = nil
		current, err := repos.Stock.FindByID(ctx, in.ID)
		if err != nil {
			return err
		}

		next := *current
		if err := applyStockPatch(&next, in); err != nil {
			return err
		}

		updated, err = repos.Stock.Update(ctx, &next, current.Quantity)
		if err != nil {
			return err
		}

		typ, qty, changed := domain.DeltaMovement(current.Quantity, updated.Quantity)
		if !changed {
			return nil
		}
		movement, err = recordMovement(ctx, repos.Movements, ports.RecordMovementInput{
			StockItemID: updated.ID,
			Quantity:    qty,
			Type:        typ,
			PerformedBy: in.ActorID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	if movement != nil {
		metrics.StockMovementsTotal.WithLabelValues(string(movement.Type)).Inc()
	}
	s.logger.Info().Str("stock_item_id", updated.ID).Int("quantity", updated.Quantity).Msg("stock item updated")
	return updated, nil
}

func applyStockPatch(item *domain.StockItem, in ports.UpdateStockItemInput) error {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return domain.InvalidInput("name must not be empty")
		}
		item.Name = name
	}
	if in.UniqueNumber != nil {
		un := strings.TrimSpace(*in.UniqueNumber)
		if un == "" {
			return domain.InvalidInput("unique number must not be empty")
		}
		item.UniqueNumber = un
	}
	if in.Category != nil {
		item.Category = strings.TrimSpace(*in.Category)
	}
	if in.Quantity != nil {
		if *in.Quantity < 0 {
			return domain.InvalidInput("quantity must not be negative")
		}
		item.Quantity = *in.Quantity
	}
	switch {
	case in.ClearExpiry:
		item.ExpiryDate = nil
	case in.ExpiryDate != nil:
		exp := *in.ExpiryDate
		item.ExpiryDate = &exp
	}
	if in.ImageURL != nil {
		item.ImageURL = *in.ImageURL
	}
	return nil
}

func (s *StockService) Get(ctx context.Context, id string) (*domain.StockItem, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *StockService) GetByUniqueNumber(ctx context.Context, uniqueNumber string) (*domain.StockItem, error) {
	return s.repo.FindByUniqueNumber(ctx, uniqueNumber)
}

func (s *StockService) List(ctx context.Context) ([]*domain.StockItem, error) {
	return s.repo.List(ctx, ports.StockFilter{})
}

// ListExpiring returns items whose expiry date falls on or before now plus
// days, including items that have already expired.
func (s *StockService) ListExpiring(ctx context.Context, days int) ([]*domain.StockItem, error) {
	if days < 0 {
		return nil, domain.InvalidInput("days must not be negative")
	}
	cutoff := time.Now().UTC().AddDate(0, 0, days)
	return s.repo.List(ctx, ports.StockFilter{ExpiringBefore: &cutoff})
}

// ListLowStock returns items whose quantity is at or below threshold.
func (s *StockService) ListLowStock(ctx context.Context, threshold int) ([]*domain.StockItem, error) {
	if threshold < 0 {
		return nil, domain.InvalidInput("threshold must not be negative")
	}
	return s.repo.List(ctx, ports.StockFilter{MaxQuantity: &threshold})
}
