// Package memory is an in-process Entity Store. Writers are serialized by a
// single mutex and a unit of work is applied only when it succeeds, so it
// offers the same atomicity guarantees as the database backends. Intended for
// tests and local runs.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/medstock/inventory-tracker/internal/core/ports"
)

var _ ports.Store = (*Store)(nil)

// Store holds all entities in memory.
type Store struct {
	mu  sync.RWMutex
	st  *state
	now func() time.Time
	ids func() string
}

// Option customises a Store.
type Option func(*Store)

// WithClock overrides the time source used for server-assigned timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New returns an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		st:  newState(),
		now: func() time.Time { return time.Now().UTC() },
		ids: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes fn against a staged copy of the store. The copy replaces the
// live state only when fn returns nil. Concurrent Run calls are serialized.
func (s *Store) Run(ctx context.Context, fn func(ctx context.Context, repos ports.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	staged := s.st.clone()
	if err := fn(ctx, s.repositories(staged)); err != nil {
		return err
	}
	s.st = staged
	return nil
}

// Repositories returns repositories that apply each call immediately.
func (s *Store) Repositories() ports.Repositories {
	return s.repositories(nil)
}

func (s *Store) repositories(tx *state) ports.Repositories {
	v := view{store: s, tx: tx}
	return ports.Repositories{
		Users:       &userRepo{v},
		Stock:       &stockRepo{v},
		Allocations: &allocationRepo{v},
		Movements:   &movementRepo{v},
	}
}

func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

func (s *Store) Close(context.Context) error { return nil }

// view routes repository calls either to a staged transaction state (already
// guarded by the Run lock) or to the live state under the store lock.
type view struct {
	store *Store
	tx    *state
}

func (v view) read(fn func(st *state) error) error {
	if v.tx != nil {
		return fn(v.tx)
	}
	v.store.mu.RLock()
	defer v.store.mu.RUnlock()
	return fn(v.store.st)
}

func (v view) write(fn func(st *state) error) error {
	if v.tx != nil {
		return fn(v.tx)
	}
	v.store.mu.Lock()
	defer v.store.mu.Unlock()
	return fn(v.store.st)
}
