package ports

import (
	"context"

	"github.com/medstock/inventory-tracker/internal/core/domain"
)

// RecordMovementInput describes a ledger entry. Quantity is unsigned.
type RecordMovementInput struct {
	StockItemID string
	Quantity    int
	Type        domain.MovementType
	PerformedBy string
	FromUserID  string
	ToUserID    string
}

// MovementService is the append-only movement ledger.
type MovementService interface {
	Record(ctx context.Context, in RecordMovementInput) (*domain.Movement, error)
	List(ctx context.Context) ([]*domain.Movement, error)
	ListForStockItem(ctx context.Context, stockItemID string) ([]*domain.Movement, error)
}
