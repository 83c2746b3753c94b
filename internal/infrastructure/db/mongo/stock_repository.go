package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/medstock/inventory-tracker/internal/core/domain"
	"github.com/medstock/inventory-tracker/internal/core/ports"
)

type StockRepository struct {
	col *mongo.Collection
}

func (r *StockRepository) Create(ctx context.Context, item *domain.StockItem) (*domain.StockItem, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	doc := newStockDoc(item)
	doc.ID = primitive.NewObjectID()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now()
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateUniqueNum
		}
		return nil, domain.StorageError("insert stock item", err)
	}
	return doc.toDomain(), nil
}

func (r *StockRepository) FindByID(ctx context.Context, id string) (*domain.StockItem, error) {
	oid, err := objectID(id, domain.ErrStockItemNotFound)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *StockRepository) FindByUniqueNumber(ctx context.Context, uniqueNumber string) (*domain.StockItem, error) {
	return r.findOne(ctx, bson.M{"unique_number": uniqueNumber})
}

func (r *StockRepository) List(ctx context.Context, f ports.StockFilter) ([]*domain.StockItem, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	filter := bson.M{}
	if f.ExpiringBefore != nil {
		filter["expiry_date"] = bson.M{"$ne": nil, "$lte": f.ExpiringBefore.UTC()}
	}
	if f.MaxQuantity != nil {
		filter["quantity"] = bson.M{"$lte": *f.MaxQuantity}
	}

	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, domain.StorageError("list stock items", err)
	}
	var docs []stockDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, domain.StorageError("decode stock items", err)
	}
	out := make([]*domain.StockItem, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

// Update replaces the mutable fields while the stored quantity still equals
// expectedQuantity.
func (r *StockRepository) Update(ctx context.Context, item *domain.StockItem, expectedQuantity int) (*domain.StockItem, error) {
	oid, err := objectID(item.ID, domain.ErrStockItemNotFound)
	if err != nil {
		return nil, err
	}

	ctx, cancel := opCtx(ctx)
	defer cancel()

	set := bson.M{
		"name":          item.Name,
		"unique_number": item.UniqueNumber,
		"category":      item.Category,
		"quantity":      item.Quantity,
		"expiry_date":   utcPtr(item.ExpiryDate),
		"image_url":     item.ImageURL,
	}
	var doc stockDoc
	err = r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "quantity": expectedQuantity},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	switch {
	case err == nil:
		return doc.toDomain(), nil
	case mongo.IsDuplicateKeyError(err):
		return nil, domain.ErrDuplicateUniqueNum
	case errors.Is(err, mongo.ErrNoDocuments):
		return nil, r.missOrConflict(ctx, oid, domain.ErrConcurrentUpdate)
	default:
		return nil, domain.StorageError("update stock item", err)
	}
}

// AdjustQuantity applies delta with a guarded $inc so that the quantity can
// never drop below zero, even under concurrent writers.
func (r *StockRepository) AdjustQuantity(ctx context.Context, id string, delta int) (*domain.StockItem, error) {
	oid, err := objectID(id, domain.ErrStockItemNotFound)
	if err != nil {
		return nil, err
	}

	ctx, cancel := opCtx(ctx)
	defer cancel()

	filter := bson.M{"_id": oid}
	if delta < 0 {
		filter["quantity"] = bson.M{"$gte": -delta}
	}
	var doc stockDoc
	err = r.col.FindOneAndUpdate(ctx, filter,
		bson.M{"$inc": bson.M{"quantity": delta}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	switch {
	case err == nil:
		return doc.toDomain(), nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return nil, r.missOrConflict(ctx, oid, domain.ErrInsufficientStock)
	default:
		return nil, domain.StorageError("adjust stock quantity", err)
	}
}

// missOrConflict tells a missing document apart from a failed guard.
func (r *StockRepository) missOrConflict(ctx context.Context, oid primitive.ObjectID, guardErr error) error {
	n, err := r.col.CountDocuments(ctx, bson.M{"_id": oid}, options.Count().SetLimit(1))
	if err != nil {
		return domain.StorageError("count stock item", err)
	}
	if n == 0 {
		return domain.ErrStockItemNotFound
	}
	return guardErr
}

func (r *StockRepository) findOne(ctx context.Context, filter bson.M) (*domain.StockItem, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	var doc stockDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, mapErr("find stock item", err, domain.ErrStockItemNotFound)
	}
	return doc.toDomain(), nil
}
