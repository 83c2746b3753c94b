package memory

import (
	"maps"
	"slices"

	"github.com/medstock/inventory-tracker/internal/core/domain"
)

// state is one consistent snapshot of every collection. Records are stored
// by value; the order slices keep listings in insertion order.
type state struct {
	users      map[string]domain.User
	userOrder  []string
	stock      map[string]domain.StockItem
	stockOrder []string
	allocs     map[string]domain.Allocation
	allocOrder []string
	movements  []domain.Movement
}

func newState() *state {
	return &state{
		users:  make(map[string]domain.User),
		stock:  make(map[string]domain.StockItem),
		allocs: make(map[string]domain.Allocation),
	}
}

func (s *state) clone() *state {
	return &state{
		users:      maps.Clone(s.users),
		userOrder:  slices.Clone(s.userOrder),
		stock:      cloneStock(s.stock),
		stockOrder: slices.Clone(s.stockOrder),
		allocs:     maps.Clone(s.allocs),
		allocOrder: slices.Clone(s.allocOrder),
		movements:  slices.Clone(s.movements),
	}
}

func cloneStock(in map[string]domain.StockItem) map[string]domain.StockItem {
	out := make(map[string]domain.StockItem, len(in))
	for id, it := range in {
		out[id] = cloneItem(it)
	}
	return out
}
