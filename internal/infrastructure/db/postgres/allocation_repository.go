package postgres

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/medstock/inventory-tracker/internal/core/domain"
	"github.com/medstock/inventory-tracker/internal/core/ports"
)

const allocationColumns = `id, stock_item_id, user_id, quantity, status, allocated_by, allocated_at`

type AllocationRepository struct {
	q querier
}

func (r *AllocationRepository) Create(ctx context.Context, a *domain.Allocation) (*domain.Allocation, error) {
	allocatedAt := a.AllocatedAt
	if allocatedAt.IsZero() {
		allocatedAt = time.Now()
	}
	query := `
		INSERT INTO allocations (id, stock_item_id, user_id, quantity, status, allocated_by, allocated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + allocationColumns
	created, err := scanAllocation(r.q.QueryRow(ctx, query,
		newID(), a.StockItemID, a.UserID, a.Quantity, string(a.Status), a.AllocatedBy, allocatedAt.UTC(),
	))
	if err != nil {
		return nil, domain.StorageError("insert allocation", err)
	}
	return created, nil
}

func (r *AllocationRepository) FindByID(ctx context.Context, id string) (*domain.Allocation, error) {
	a, err := scanAllocation(r.q.QueryRow(ctx, `SELECT `+allocationColumns+` FROM allocations WHERE id = $1`, id))
	if err != nil {
		return nil, mapErr("find allocation", err, domain.ErrAllocationNotFound)
	}
	return a, nil
}

func (r *AllocationRepository) List(ctx context.Context, f ports.AllocationFilter) ([]*domain.Allocation, error) {
	var (
		conds []string
		args  []any
	)
	add := func(col string, v any) {
		args = append(args, v)
		conds = append(conds, col+" = $"+strconv.Itoa(len(args)))
	}
	if f.UserID != "" {
		add("user_id", f.UserID)
	}
	if f.StockItemID != "" {
		add("stock_item_id", f.StockItemID)
	}
	if f.Status != "" {
		add("status", string(f.Status))
	}

	query := `SELECT ` + allocationColumns + ` FROM allocations`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY allocated_at, id`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.StorageError("list allocations", err)
	}
	defer rows.Close()

	list := []*domain.Allocation{}
	for rows.Next() {
		a, err := scanAllocation(rows)
		if err != nil {
			return nil, domain.StorageError("scan allocation", err)
		}
		list = append(list, a)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StorageError("list allocations", err)
	}
	return list, nil
}

func (r *AllocationRepository) UpdateStatus(ctx context.Context, id string, from, to domain.AllocationStatus) (*domain.Allocation, error) {
	query := `
		UPDATE allocations SET status = $3
		WHERE id = $1 AND status = $2
		RETURNING ` + allocationColumns
	a, err := scanAllocation(r.q.QueryRow(ctx, query, id, string(from), string(to)))
	if err == nil {
		return a, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.StorageError("update allocation status", err)
	}

	found, err := exists(ctx, r.q, "allocations", id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrAllocationNotFound
	}
	return nil, domain.ErrConcurrentUpdate
}

func scanAllocation(row rowScanner) (*domain.Allocation, error) {
	var (
		a      domain.Allocation
		status string
	)
	if err := row.Scan(&a.ID, &a.StockItemID, &a.UserID, &a.Quantity, &status, &a.AllocatedBy, &a.AllocatedAt); err != nil {
		return nil, err
	}
	a.Status = domain.AllocationStatus(status)
	a.AllocatedAt = a.AllocatedAt.UTC()
	return &a, nil
}
