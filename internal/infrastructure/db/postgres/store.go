package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medstock/inventory-tracker/internal/core/domain"
	"github.com/medstock/inventory-tracker/internal/core/ports"
)

var _ ports.Store = (*Store)(nil)

// Store implements ports.Store on a pgx pool.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Run begins a transaction, runs fn with repositories bound to it, and
// commits only when fn succeeds.
func (s *Store) Run(ctx context.Context, fn func(ctx context.Context, repos ports.Repositories) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return domain.StorageError("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(ctx, repositories(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.StorageError("commit transaction", err)
	}
	return nil
}

func (s *Store) Repositories() ports.Repositories {
	return repositories(s.pool)
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Close(context.Context) error {
	s.pool.Close()
	return nil
}

func repositories(q querier) ports.Repositories {
	return ports.Repositories{
		Users:       &UserRepository{q: q},
		Stock:       &StockRepository{q: q},
		Allocations: &AllocationRepository{q: q},
		Movements:   &MovementRepository{q: q},
	}
}

// rowScanner is implemented by pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// exists reports whether table holds a row with the given id.
func exists(ctx context.Context, q querier, table, id string) (bool, error) {
	var found bool
	err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM `+table+` WHERE id = $1)`, id).Scan(&found)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return false, domain.StorageError("check "+table, err)
	}
	return found, nil
}

func newID() string {
	return uuid.NewString()
}
