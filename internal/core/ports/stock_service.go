package ports

import (
	"context"
	"time"

	"github.com/medstock/inventory-tracker/internal/core/domain"
)

// CreateStockItemInput carries all data needed to register a stock item.
type CreateStockItemInput struct {
	Name         string
	UniqueNumber string
	Category     string
	Quantity     int
	ExpiryDate   *time.Time
	ImageURL     string
	ActorID      string
}

// UpdateStockItemInput is a partial update; nil fields are left unchanged.
type UpdateStockItemInput struct {
	ID           string
	Name         *string
	UniqueNumber *string
	Category     *string
	Quantity     *int
	ExpiryDate   *time.Time
	ClearExpiry  bool
	ImageURL     *string
	ActorID      string
}

// StockService covers direct stock edits and the read-side projections.
type StockService interface {
	Create(ctx context.Context, in CreateStockItemInput) (*domain.StockItem, error)
	Update(ctx context.Context, in UpdateStockItemInput) (*domain.StockItem, error)
	Get(ctx context.Context, id string) (*domain.StockItem, error)
	GetByUniqueNumber(ctx context.Context, uniqueNumber string) (*domain.StockItem, error)
	List(ctx context.Context) ([]*domain.StockItem, error)
	ListExpiring(ctx context.Context, days int) ([]*domain.StockItem, error)
	ListLowStock(ctx context.Context, threshold int) ([]*domain.StockItem, error)
}
