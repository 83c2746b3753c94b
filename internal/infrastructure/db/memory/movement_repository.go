package memory

import (
	"context"

	"github.com/medstock/inventory-tracker/internal/core/domain"
)

type movementRepo struct{ v view }

func (r *movementRepo) Insert(_ context.Context, m *domain.Movement) (*domain.Movement, error) {
	var out domain.Movement
	err := r.v.write(func(st *state) error {
		out = *m
		out.ID = r.v.store.ids()
		if out.PerformedAt.IsZero() {
			out.PerformedAt = r.v.store.now()
		}
		st.movements = append(st.movements, out)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// List returns the movements of one stock item, or all of them when
// stockItemID is empty.
func (r *movementRepo) List(_ context.Context, stockItemID string) ([]*domain.Movement, error) {
	out := []*domain.Movement{}
	err := r.v.read(func(st *state) error {
		for _, m := range st.movements {
			if stockItemID != "" && m.StockItemID != stockItemID {
				continue
			}
			out = append(out, &m)
		}
		return nil
	})
	return out, err
}
