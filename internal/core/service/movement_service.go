package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/medstock/inventory-tracker/internal/api/metrics"
	"github.com/medstock/inventory-tracker/internal/core/domain"
	"github.com/medstock/inventory-tracker/internal/core/ports"
)

// MovementService is the append-only movement ledger.
type MovementService struct {
	repo   ports.MovementRepository
	logger zerolog.Logger
}

func NewMovementService(repo ports.MovementRepository, logger zerolog.Logger) *MovementService {
	return &MovementService{repo: repo, logger: logger}
}

// Record appends a movement. There is no business validation; the store
// assigns the identifier and timestamp.
func (s *MovementService) Record(ctx context.Context, in ports.RecordMovementInput) (*domain.Movement, error) {
	m, err := recordMovement(ctx, s.repo, in)
	if err != nil {
		s.logger.Error().Err(err).Str("stock_item_id", in.StockItemID).Msg("failed to record movement")
		return nil, err
	}
	metrics.StockMovementsTotal.WithLabelValues(string(m.Type)).Inc()
	return m, nil
}

func (s *MovementService) List(ctx context.Context) ([]*domain.Movement, error) {
	return s.repo.List(ctx, "")
}

func (s *MovementService) ListForStockItem(ctx context.Context, stockItemID string) ([]*domain.Movement, error) {
	return s.repo.List(ctx, stockItemID)
}

// recordMovement is the single write path into the ledger, shared by the
// allocation engine and direct stock edits so they can run it inside their
// own unit of work.
func recordMovement(ctx context.Context, repo ports.MovementRepository, in ports.RecordMovementInput) (*domain.Movement, error) {
	return repo.Insert(ctx, &domain.Movement{
		StockItemID: in.StockItemID,
		Quantity:    in.Quantity,
		Type:        in.Type,
		FromUserID:  in.FromUserID,
		ToUserID:    in.ToUserID,
		PerformedBy: in.PerformedBy,
	})
}
