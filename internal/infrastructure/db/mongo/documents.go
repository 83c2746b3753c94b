package mongo

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/medstock/inventory-tracker/internal/core/domain"
)

type userDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     string             `bson:"username"`
	PasswordHash string             `bson:"password_hash"`
	FullName     string             `bson:"full_name"`
	Role         string             `bson:"role"`
	Department   string             `bson:"department,omitempty"`
	CreatedAt    time.Time          `bson:"created_at"`
}

func (d userDoc) toDomain() *domain.User {
	return &domain.User{
		ID:           d.ID.Hex(),
		Username:     d.Username,
		PasswordHash: d.PasswordHash,
		FullName:     d.FullName,
		Role:         domain.Role(d.Role),
		Department:   d.Department,
		CreatedAt:    d.CreatedAt.UTC(),
	}
}

type stockDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	UniqueNumber string             `bson:"unique_number"`
	Category     string             `bson:"category,omitempty"`
	Quantity     int                `bson:"quantity"`
	ExpiryDate   *time.Time         `bson:"expiry_date"`
	ImageURL     string             `bson:"image_url,omitempty"`
	CreatedBy    string             `bson:"created_by"`
	CreatedAt    time.Time          `bson:"created_at"`
}

func newStockDoc(it *domain.StockItem) stockDoc {
	return stockDoc{
		Name:         it.Name,
		UniqueNumber: it.UniqueNumber,
		Category:     it.Category,
		Quantity:     it.Quantity,
		ExpiryDate:   utcPtr(it.ExpiryDate),
		ImageURL:     it.ImageURL,
		CreatedBy:    it.CreatedBy,
		CreatedAt:    it.CreatedAt.UTC(),
	}
}

func (d stockDoc) toDomain() *domain.StockItem {
	return &domain.StockItem{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		UniqueNumber: d.UniqueNumber,
		Category:     d.Category,
		Quantity:     d.Quantity,
		ExpiryDate:   utcPtr(d.ExpiryDate),
		ImageURL:     d.ImageURL,
		CreatedBy:    d.CreatedBy,
		CreatedAt:    d.CreatedAt.UTC(),
	}
}

type allocationDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	StockItemID string             `bson:"stock_item_id"`
	UserID      string             `bson:"user_id"`
	Quantity    int                `bson:"quantity"`
	Status      string             `bson:"status"`
	AllocatedBy string             `bson:"allocated_by"`
	AllocatedAt time.Time          `bson:"allocated_at"`
}

func (d allocationDoc) toDomain() *domain.Allocation {
	return &domain.Allocation{
		ID:          d.ID.Hex(),
		StockItemID: d.StockItemID,
		UserID:      d.UserID,
		Quantity:    d.Quantity,
		Status:      domain.AllocationStatus(d.Status),
		AllocatedBy: d.AllocatedBy,
		AllocatedAt: d.AllocatedAt.UTC(),
	}
}

type movementDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	StockItemID string             `bson:"stock_item_id"`
	Quantity    int                `bson:"quantity"`
	Type        string             `bson:"type"`
	FromUserID  string             `bson:"from_user_id,omitempty"`
	ToUserID    string             `bson:"to_user_id,omitempty"`
	PerformedBy string             `bson:"performed_by"`
	PerformedAt time.Time          `bson:"performed_at"`
}

func (d movementDoc) toDomain() *domain.Movement {
	return &domain.Movement{
		ID:          d.ID.Hex(),
		StockItemID: d.StockItemID,
		Quantity:    d.Quantity,
		Type:        domain.MovementType(d.Type),
		FromUserID:  d.FromUserID,
		ToUserID:    d.ToUserID,
		PerformedBy: d.PerformedBy,
		PerformedAt: d.PerformedAt.UTC(),
	}
}

// objectID parses a hex identifier. Malformed ids can never match a stored
// document, so they map to notFound.
func objectID(id string, notFound error) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, notFound
	}
	return oid, nil
}

// mapErr translates driver errors into domain errors.
func mapErr(op string, err error, notFound error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return notFound
	}
	return domain.StorageError(op, err)
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func now() time.Time {
	// BSON dates carry millisecond precision.
	return time.Now().UTC().Truncate(time.Millisecond)
}
