package postgres

import (
	"context"
	"time"

	"github.com/medstock/inventory-tracker/internal/core/domain"
)

const movementColumns = `id, stock_item_id, quantity, type, from_user_id, to_user_id, performed_by, performed_at`

// MovementRepository appends to the movements table. Rows are never updated.
type MovementRepository struct {
	q querier
}

func (r *MovementRepository) Insert(ctx context.Context, m *domain.Movement) (*domain.Movement, error) {
	performedAt := m.PerformedAt
	if performedAt.IsZero() {
		performedAt = time.Now()
	}
	query := `
		INSERT INTO movements (id, stock_item_id, quantity, type, from_user_id, to_user_id, performed_by, performed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + movementColumns
	created, err := scanMovement(r.q.QueryRow(ctx, query,
		newID(), m.StockItemID, m.Quantity, string(m.Type), m.FromUserID, m.ToUserID, m.PerformedBy, performedAt.UTC(),
	))
	if err != nil {
		return nil, domain.StorageError("insert movement", err)
	}
	return created, nil
}

func (r *MovementRepository) List(ctx context.Context, stockItemID string) ([]*domain.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements`
	var args []any
	if stockItemID != "" {
		query += ` WHERE stock_item_id = $1`
		args = append(args, stockItemID)
	}
	query += ` ORDER BY performed_at, seq`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.StorageError("list movements", err)
	}
	defer rows.Close()

	list := []*domain.Movement{}
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, domain.StorageError("scan movement", err)
		}
		list = append(list, m)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StorageError("list movements", err)
	}
	return list, nil
}

func scanMovement(row rowScanner) (*domain.Movement, error) {
	var (
		m   domain.Movement
		typ string
	)
	if err := row.Scan(&m.ID, &m.StockItemID, &m.Quantity, &typ, &m.FromUserID, &m.ToUserID, &m.PerformedBy, &m.PerformedAt); err != nil {
		return nil, err
	}
	m.Type = domain.MovementType(typ)
	m.PerformedAt = m.PerformedAt.UTC()
	return &m, nil
}
