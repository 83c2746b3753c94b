package ports

import (
	"context"
	"time"

	"github.com/medstock/inventory-tracker/internal/core/domain"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	ListByRole(ctx context.Context, role domain.Role) ([]*domain.User, error)
}

// StockFilter narrows a stock listing. Zero values disable a criterion.
type StockFilter struct {
	// ExpiringBefore keeps items whose expiry date is set and not after it.
	ExpiringBefore *time.Time
	// MaxQuantity keeps items whose quantity is at or below it.
	MaxQuantity *int
}

// StockRepository defines persistence operations for stock items.
type StockRepository interface {
	Create(ctx context.Context, item *domain.StockItem) (*domain.StockItem, error)
	FindByID(ctx context.Context, id string) (*domain.StockItem, error)
	FindByUniqueNumber(ctx context.Context, uniqueNumber string) (*domain.StockItem, error)
	List(ctx context.Context, filter StockFilter) ([]*domain.StockItem, error)

	// Update replaces the mutable fields of item. The write only applies while
	// the stored quantity still equals expectedQuantity; otherwise it fails
	// with domain.ErrConcurrentUpdate.
	Update(ctx context.Context, item *domain.StockItem, expectedQuantity int) (*domain.StockItem, error)

	// AdjustQuantity atomically adds delta to the item's quantity and returns
	// the updated item. A result below zero is rejected with
	// domain.ErrInsufficientStock and leaves the item untouched.
	AdjustQuantity(ctx context.Context, id string, delta int) (*domain.StockItem, error)
}

// AllocationFilter narrows an allocation listing. Empty fields are ignored.
type AllocationFilter struct {
	UserID      string
	StockItemID string
	Status      domain.AllocationStatus
}

// AllocationRepository defines persistence operations for allocations.
type AllocationRepository interface {
	Create(ctx context.Context, a *domain.Allocation) (*domain.Allocation, error)
	FindByID(ctx context.Context, id string) (*domain.Allocation, error)
	List(ctx context.Context, filter AllocationFilter) ([]*domain.Allocation, error)

	// UpdateStatus moves the allocation from one status to another. It fails
	// with domain.ErrConcurrentUpdate when the stored status is no longer from.
	UpdateStatus(ctx context.Context, id string, from, to domain.AllocationStatus) (*domain.Allocation, error)
}

// MovementRepository is the append-only movement ledger store.
type MovementRepository interface {
	Insert(ctx context.Context, m *domain.Movement) (*domain.Movement, error)
	List(ctx context.Context, stockItemID string) ([]*domain.Movement, error)
}

// Repositories groups the repositories bound to one unit of work.
type Repositories struct {
	Users       UserRepository
	Stock       StockRepository
	Allocations AllocationRepository
	Movements   MovementRepository
}

// TxRunner executes fn inside a single atomic unit of work. Repositories
// handed to fn share the transaction; fn must use the ctx it receives. Any
// error returned by fn aborts the whole unit.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}

// Store is a complete Entity Store backend.
type Store interface {
	TxRunner
	Repositories() Repositories
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
