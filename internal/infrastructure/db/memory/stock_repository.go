package memory

import (
	"context"

	"github.com/medstock/inventory-tracker/internal/core/domain"
	"github.com/medstock/inventory-tracker/internal/core/ports"
)

type stockRepo struct{ v view }

func (r *stockRepo) Create(_ context.Context, item *domain.StockItem) (*domain.StockItem, error) {
	var out domain.StockItem
	err := r.v.write(func(st *state) error {
		if findByUniqueNumber(st, item.UniqueNumber) != nil {
			return domain.ErrDuplicateUniqueNum
		}
		out = cloneItem(*item)
		out.ID = r.v.store.ids()
		if out.CreatedAt.IsZero() {
			out.CreatedAt = r.v.store.now()
		}
		st.stock[out.ID] = out
		st.stockOrder = append(st.stockOrder, out.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	out = cloneItem(out)
	return &out, nil
}

func (r *stockRepo) FindByID(_ context.Context, id string) (*domain.StockItem, error) {
	var out domain.StockItem
	err := r.v.read(func(st *state) error {
		item, ok := st.stock[id]
		if !ok {
			return domain.ErrStockItemNotFound
		}
		out = cloneItem(item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *stockRepo) FindByUniqueNumber(_ context.Context, uniqueNumber string) (*domain.StockItem, error) {
	var out *domain.StockItem
	err := r.v.read(func(st *state) error {
		out = findByUniqueNumber(st, uniqueNumber)
		if out == nil {
			return domain.ErrStockItemNotFound
		}
		return nil
	})
	return out, err
}

func (r *stockRepo) List(_ context.Context, f ports.StockFilter) ([]*domain.StockItem, error) {
	out := []*domain.StockItem{}
	err := r.v.read(func(st *state) error {
		for _, id := range st.stockOrder {
			item := st.stock[id]
			if f.ExpiringBefore != nil && (item.ExpiryDate == nil || item.ExpiryDate.After(*f.ExpiringBefore)) {
				continue
			}
			if f.MaxQuantity != nil && item.Quantity > *f.MaxQuantity {
				continue
			}
			item = cloneItem(item)
			out = append(out, &item)
		}
		return nil
	})
	return out, err
}

func (r *stockRepo) Update(_ context.Context, item *domain.StockItem, expectedQuantity int) (*domain.StockItem, error) {
	var out domain.StockItem
	err := r.v.write(func(st *state) error {
		current, ok := st.stock[item.ID]
		if !ok {
			return domain.ErrStockItemNotFound
		}
		if current.Quantity != expectedQuantity {
			return domain.ErrConcurrentUpdate
		}
		if other := findByUniqueNumber(st, item.UniqueNumber); other != nil && other.ID != item.ID {
			return domain.ErrDuplicateUniqueNum
		}
		out = cloneItem(*item)
		out.CreatedBy = current.CreatedBy
		out.CreatedAt = current.CreatedAt
		st.stock[item.ID] = out
		return nil
	})
	if err != nil {
		return nil, err
	}
	out = cloneItem(out)
	return &out, nil
}

func (r *stockRepo) AdjustQuantity(_ context.Context, id string, delta int) (*domain.StockItem, error) {
	var out domain.StockItem
	err := r.v.write(func(st *state) error {
		item, ok := st.stock[id]
		if !ok {
			return domain.ErrStockItemNotFound
		}
		if item.Quantity+delta < 0 {
			return domain.ErrInsufficientStock
		}
		item.Quantity += delta
		st.stock[id] = item
		out = cloneItem(item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func findByUniqueNumber(st *state, uniqueNumber string) *domain.StockItem {
	for _, id := range st.stockOrder {
		if item := st.stock[id]; item.UniqueNumber == uniqueNumber {
			item = cloneItem(item)
			return &item
		}
	}
	return nil
}

// cloneItem copies it so that the expiry date is never shared with callers
// or between staged and live state.
func cloneItem(it domain.StockItem) domain.StockItem {
	if it.ExpiryDate != nil {
		exp := *it.ExpiryDate
		it.ExpiryDate = &exp
	}
	return it
}
