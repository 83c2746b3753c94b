package ports

import (
	"context"

	"github.com/medstock/inventory-tracker/internal/core/domain"
)

// CreateAllocationInput carries the data for a new allocation.
type CreateAllocationInput struct {
	StockItemID string
	UserID      string // recipient
	Quantity    int
	ActorID     string
}

// UpdateAllocationStatusInput carries a requested status change.
type UpdateAllocationStatusInput struct {
	AllocationID string
	Status       string
	ActorID      string
}

// AllocationService is the allocation engine.
type AllocationService interface {
	Create(ctx context.Context, in CreateAllocationInput) (*domain.Allocation, error)
	UpdateStatus(ctx context.Context, in UpdateAllocationStatusInput) (*domain.Allocation, error)
	Get(ctx context.Context, id string) (*domain.Allocation, error)
	// List returns every allocation, or only those received by scopeUserID
	// when it is non-empty.
	List(ctx context.Context, scopeUserID string) ([]*domain.Allocation, error)
	ListForUser(ctx context.Context, userID string) ([]*domain.Allocation, error)
}
