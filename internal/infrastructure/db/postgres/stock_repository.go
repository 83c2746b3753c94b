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

const stockColumns = `id, name, unique_number, category, quantity, expiry_date, image_url, created_by, created_at`

type StockRepository struct {
	q querier
}

func (r *StockRepository) Create(ctx context.Context, item *domain.StockItem) (*domain.StockItem, error) {
	createdAt := item.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	query := `
		INSERT INTO stock_items (id, name, unique_number, category, quantity, expiry_date, image_url, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + stockColumns
	created, err := scanStockItem(r.q.QueryRow(ctx, query,
		newID(), item.Name, item.UniqueNumber, item.Category, item.Quantity,
		item.ExpiryDate, item.ImageURL, item.CreatedBy, createdAt.UTC(),
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicateUniqueNum
		}
		return nil, domain.StorageError("insert stock item", err)
	}
	return created, nil
}

func (r *StockRepository) FindByID(ctx context.Context, id string) (*domain.StockItem, error) {
	item, err := scanStockItem(r.q.QueryRow(ctx, `SELECT `+stockColumns+` FROM stock_items WHERE id = $1`, id))
	if err != nil {
		return nil, mapErr("find stock item", err, domain.ErrStockItemNotFound)
	}
	return item, nil
}

func (r *StockRepository) FindByUniqueNumber(ctx context.Context, uniqueNumber string) (*domain.StockItem, error) {
	item, err := scanStockItem(r.q.QueryRow(ctx, `SELECT `+stockColumns+` FROM stock_items WHERE unique_number = $1`, uniqueNumber))
	if err != nil {
		return nil, mapErr("find stock item", err, domain.ErrStockItemNotFound)
	}
	return item, nil
}

func (r *StockRepository) List(ctx context.Context, f ports.StockFilter) ([]*domain.StockItem, error) {
	var (
		conds []string
		args  []any
	)
	if f.ExpiringBefore != nil {
		args = append(args, f.ExpiringBefore.UTC())
		conds = append(conds, "expiry_date IS NOT NULL AND expiry_date <= $"+strconv.Itoa(len(args)))
	}
	if f.MaxQuantity != nil {
		args = append(args, *f.MaxQuantity)
		conds = append(conds, "quantity <= $"+strconv.Itoa(len(args)))
	}

	query := `SELECT ` + stockColumns + ` FROM stock_items`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY created_at, id`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.StorageError("list stock items", err)
	}
	defer rows.Close()

	list := []*domain.StockItem{}
	for rows.Next() {
		item, err := scanStockItem(rows)
		if err != nil {
			return nil, domain.StorageError("scan stock item", err)
		}
		list = append(list, item)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StorageError("list stock items", err)
	}
	return list, nil
}

func (r *StockRepository) Update(ctx context.Context, item *domain.StockItem, expectedQuantity int) (*domain.StockItem, error) {
	query := `
		UPDATE stock_items
		SET name = $2, unique_number = $3, category = $4, quantity = $5, expiry_date = $6, image_url = $7
		WHERE id = $1 AND quantity = $8
		RETURNING ` + stockColumns
	updated, err := scanStockItem(r.q.QueryRow(ctx, query,
		item.ID, item.Name, item.UniqueNumber, item.Category, item.Quantity,
		item.ExpiryDate, item.ImageURL, expectedQuantity,
	))
	switch {
	case err == nil:
		return updated, nil
	case isUniqueViolation(err):
		return nil, domain.ErrDuplicateUniqueNum
	case errors.Is(err, pgx.ErrNoRows):
		return nil, r.missOrConflict(ctx, item.ID, domain.ErrConcurrentUpdate)
	default:
		return nil, domain.StorageError("update stock item", err)
	}
}

// AdjustQuantity adds delta in a single guarded UPDATE. Concurrent writers
// queue on the row lock and the guard is re-checked against the new value.
func (r *StockRepository) AdjustQuantity(ctx context.Context, id string, delta int) (*domain.StockItem, error) {
	query := `
		UPDATE stock_items
		SET quantity = quantity + $2
		WHERE id = $1 AND quantity + $2 >= 0
		RETURNING ` + stockColumns
	item, err := scanStockItem(r.q.QueryRow(ctx, query, id, delta))
	switch {
	case err == nil:
		return item, nil
	case errors.Is(err, pgx.ErrNoRows):
		return nil, r.missOrConflict(ctx, id, domain.ErrInsufficientStock)
	default:
		return nil, domain.StorageError("adjust stock quantity", err)
	}
}

func (r *StockRepository) missOrConflict(ctx context.Context, id string, guardErr error) error {
	found, err := exists(ctx, r.q, "stock_items", id)
	if err != nil {
		return err
	}
	if !found {
		return domain.ErrStockItemNotFound
	}
	return guardErr
}

func scanStockItem(row rowScanner) (*domain.StockItem, error) {
	var it domain.StockItem
	err := row.Scan(&it.ID, &it.Name, &it.UniqueNumber, &it.Category, &it.Quantity,
		&it.ExpiryDate, &it.ImageURL, &it.CreatedBy, &it.CreatedAt)
	if err != nil {
		return nil, err
	}
	if it.ExpiryDate != nil {
		t := it.ExpiryDate.UTC()
		it.ExpiryDate = &t
	}
	it.CreatedAt = it.CreatedAt.UTC()
	return &it, nil
}
