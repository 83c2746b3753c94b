package memory

import (
	"context"

	"github.com/medstock/inventory-tracker/internal/core/domain"
)

type userRepo struct{ v view }

func (r *userRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	var out domain.User
	err := r.v.write(func(st *state) error {
		for _, u := range st.users {
			if u.Username == user.Username {
				return domain.ErrUserExists
			}
		}
		out = *user
		out.ID = r.v.store.ids()
		if out.CreatedAt.IsZero() {
			out.CreatedAt = r.v.store.now()
		}
		st.users[out.ID] = out
		st.userOrder = append(st.userOrder, out.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *userRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	var out domain.User
	err := r.v.read(func(st *state) error {
		u, ok := st.users[id]
		if !ok {
			return domain.ErrUserNotFound
		}
		out = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *userRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	var out *domain.User
	err := r.v.read(func(st *state) error {
		for _, id := range st.userOrder {
			if u := st.users[id]; u.Username == username {
				out = &u
				return nil
			}
		}
		return domain.ErrUserNotFound
	})
	return out, err
}

func (r *userRepo) List(ctx context.Context) ([]*domain.User, error) {
	return r.list(func(*domain.User) bool { return true })
}

func (r *userRepo) ListByRole(_ context.Context, role domain.Role) ([]*domain.User, error) {
	return r.list(func(u *domain.User) bool { return u.Role == role })
}

func (r *userRepo) list(keep func(*domain.User) bool) ([]*domain.User, error) {
	out := []*domain.User{}
	err := r.v.read(func(st *state) error {
		for _, id := range st.userOrder {
			u := st.users[id]
			if keep(&u) {
				out = append(out, &u)
			}
		}
		return nil
	})
	return out, err
}
