package memory

import (
	"context"

	"github.com/medstock/inventory-tracker/internal/core/domain"
	"github.com/medstock/inventory-tracker/internal/core/ports"
)

type allocationRepo struct{ v view }

func (r *allocationRepo) Create(_ context.Context, a *domain.Allocation) (*domain.Allocation, error) {
	var out domain.Allocation
	err := r.v.write(func(st *state) error {
		out = *a
		out.ID = r.v.store.ids()
		if out.AllocatedAt.IsZero() {
			out.AllocatedAt = r.v.store.now()
		}
		st.allocs[out.ID] = out
		st.allocOrder = append(st.allocOrder, out.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *allocationRepo) FindByID(_ context.Context, id string) (*domain.Allocation, error) {
	var out domain.Allocation
	err := r.v.read(func(st *state) error {
		a, ok := st.allocs[id]
		if !ok {
			return domain.ErrAllocationNotFound
		}
		out = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *allocationRepo) List(_ context.Context, f ports.AllocationFilter) ([]*domain.Allocation, error) {
	out := []*domain.Allocation{}
	err := r.v.read(func(st *state) error {
		for _, id := range st.allocOrder {
			a := st.allocs[id]
			if f.UserID != "" && a.UserID != f.UserID {
				continue
			}
			if f.StockItemID != "" && a.StockItemID != f.StockItemID {
				continue
			}
			if f.Status != "" && a.Status != f.Status {
				continue
			}
			out = append(out, &a)
		}
		return nil
	})
	return out, err
}

func (r *allocationRepo) UpdateStatus(_ context.Context, id string, from, to domain.AllocationStatus) (*domain.Allocation, error) {
	var out domain.Allocation
	err := r.v.write(func(st *state) error {
		a, ok := st.allocs[id]
		if !ok {
			return domain.ErrAllocationNotFound
		}
		if a.Status != from {
			return domain.ErrConcurrentUpdate
		}
		a.Status = to
		st.allocs[id] = a
		out = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
