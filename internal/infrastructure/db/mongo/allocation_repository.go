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

type AllocationRepository struct {
	col *mongo.Collection
}

func (r *AllocationRepository) Create(ctx context.Context, a *domain.Allocation) (*domain.Allocation, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	doc := allocationDoc{
		ID:          primitive.NewObjectID(),
		StockItemID: a.StockItemID,
		UserID:      a.UserID,
		Quantity:    a.Quantity,
		Status:      string(a.Status),
		AllocatedBy: a.AllocatedBy,
		AllocatedAt: a.AllocatedAt.UTC(),
	}
	if doc.AllocatedAt.IsZero() {
		doc.AllocatedAt = now()
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, domain.StorageError("insert allocation", err)
	}
	return doc.toDomain(), nil
}

func (r *AllocationRepository) FindByID(ctx context.Context, id string) (*domain.Allocation, error) {
	oid, err := objectID(id, domain.ErrAllocationNotFound)
	if err != nil {
		return nil, err
	}

	ctx, cancel := opCtx(ctx)
	defer cancel()

	var doc allocationDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, mapErr("find allocation", err, domain.ErrAllocationNotFound)
	}
	return doc.toDomain(), nil
}

func (r *AllocationRepository) List(ctx context.Context, f ports.AllocationFilter) ([]*domain.Allocation, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	filter := bson.M{}
	if f.UserID != "" {
		filter["user_id"] = f.UserID
	}
	if f.StockItemID != "" {
		filter["stock_item_id"] = f.StockItemID
	}
	if f.Status != "" {
		filter["status"] = string(f.Status)
	}

	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, domain.StorageError("list allocations", err)
	}
	var docs []allocationDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, domain.StorageError("decode allocations", err)
	}
	out := make([]*domain.Allocation, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

// UpdateStatus applies the transition only while the stored status is from.
func (r *AllocationRepository) UpdateStatus(ctx context.Context, id string, from, to domain.AllocationStatus) (*domain.Allocation, error) {
	oid, err := objectID(id, domain.ErrAllocationNotFound)
	if err != nil {
		return nil, err
	}

	ctx, cancel := opCtx(ctx)
	defer cancel()

	var doc allocationDoc
	err = r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "status": string(from)},
		bson.M{"$set": bson.M{"status": string(to)}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err == nil {
		return doc.toDomain(), nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.StorageError("update allocation status", err)
	}

	n, err := r.col.CountDocuments(ctx, bson.M{"_id": oid}, options.Count().SetLimit(1))
	if err != nil {
		return nil, domain.StorageError("count allocation", err)
	}
	if n == 0 {
		return nil, domain.ErrAllocationNotFound
	}
	return nil, domain.ErrConcurrentUpdate
}
