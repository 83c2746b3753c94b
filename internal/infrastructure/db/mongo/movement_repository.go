package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/medstock/inventory-tracker/internal/core/domain"
)

// MovementRepository is the append-only ledger collection. Documents are
// never updated or deleted.
type MovementRepository struct {
	col *mongo.Collection
}

func (r *MovementRepository) Insert(ctx context.Context, m *domain.Movement) (*domain.Movement, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	doc := movementDoc{
		ID:          primitive.NewObjectID(),
		StockItemID: m.StockItemID,
		Quantity:    m.Quantity,
		Type:        string(m.Type),
		FromUserID:  m.FromUserID,
		ToUserID:    m.ToUserID,
		PerformedBy: m.PerformedBy,
		PerformedAt: m.PerformedAt.UTC(),
	}
	if doc.PerformedAt.IsZero() {
		doc.PerformedAt = now()
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, domain.StorageError("insert movement", err)
	}
	return doc.toDomain(), nil
}

// List returns movements oldest first, optionally restricted to one item.
func (r *MovementRepository) List(ctx context.Context, stockItemID string) ([]*domain.Movement, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	filter := bson.M{}
	if stockItemID != "" {
		filter["stock_item_id"] = stockItemID
	}

	opts := options.Find().SetSort(bson.D{{Key: "performed_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, domain.StorageError("list movements", err)
	}
	var docs []movementDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, domain.StorageError("decode movements", err)
	}
	out := make([]*domain.Movement, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}
