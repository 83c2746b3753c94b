package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/medstock/inventory-tracker/internal/core/domain"
	"github.com/medstock/inventory-tracker/internal/core/ports"
	"github.com/medstock/inventory-tracker/internal/infrastructure/db/memory"
)

// ---------------------------------------------------------------------------
// Shared fixtures
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

type fixture struct {
	store  *memory.Store
	repos  ports.Repositories
	admin  *domain.User
	rep    *domain.User
	rep2   *domain.User
	stock  *StockService
	engine *AllocationService
	ledger *MovementService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	repos := store.Repositories()

	f := &fixture{
		store:  store,
		repos:  repos,
		stock:  NewStockService(store, repos.Stock, discardLogger),
		engine: NewAllocationService(store, repos.Allocations, discardLogger),
		ledger: NewMovementService(repos.Movements, discardLogger),
	}
	f.admin = f.user(t, "admin", domain.RoleAdmin)
	f.rep = f.user(t, "rep", domain.RoleMedicalRep)
	f.rep2 = f.user(t, "rep2", domain.RoleMedicalRep)
	return f
}

func (f *fixture) user(t *testing.T, username string, role domain.Role) *domain.User {
	t.Helper()
	u, err := f.repos.Users.Create(context.Background(), &domain.User{Username: username, FullName: username, Role: role})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func (f *fixture) item(t *testing.T, unique string, qty int) *domain.StockItem {
	t.Helper()
	item, err := f.stock.Create(context.Background(), ports.CreateStockItemInput{
		Name:         "Amoxicillin " + unique,
		UniqueNumber: unique,
		Category:     "Antibiotics",
		Quantity:     qty,
		ActorID:      f.admin.ID,
	})
	if err != nil {
		t.Fatalf("seed stock item: %v", err)
	}
	return item
}

func (f *fixture) quantity(t *testing.T, id string) int {
	t.Helper()
	item, err := f.repos.Stock.FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("find stock item: %v", err)
	}
	return item.Quantity
}

func (f *fixture) movements(t *testing.T, stockItemID string, typ domain.MovementType) []*domain.Movement {
	t.Helper()
	all, err := f.ledger.ListForStockItem(context.Background(), stockItemID)
	if err != nil {
		t.Fatalf("list movements: %v", err)
	}
	var out []*domain.Movement
	for _, m := range all {
		if m.Type == typ {
			out = append(out, m)
		}
	}
	return out
}
