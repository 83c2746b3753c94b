package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/medstock/inventory-tracker/internal/core/domain"
	"github.com/medstock/inventory-tracker/internal/core/ports"
)

const (
	collectionUsers       = "users"
	collectionStockItems  = "stock_items"
	collectionAllocations = "allocations"
	collectionMovements   = "movements"
)

var _ ports.Store = (*Store)(nil)

// Store implements ports.Store on a MongoDB database.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

func NewStore(client *mongo.Client, db *mongo.Database) *Store {
	return &Store{client: client, db: db}
}

// Run executes fn inside a session transaction. The driver retries fn on
// transient errors such as write conflicts, so fn may run more than once.
func (s *Store) Run(ctx context.Context, fn func(ctx context.Context, repos ports.Repositories) error) error {
	session, err := s.client.StartSession()
	if err != nil {
		return domain.StorageError("start session", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc, s.Repositories())
	})
	return err
}

func (s *Store) Repositories() ports.Repositories {
	return ports.Repositories{
		Users:       &UserRepository{col: s.db.Collection(collectionUsers)},
		Stock:       &StockRepository{col: s.db.Collection(collectionStockItems)},
		Allocations: &AllocationRepository{col: s.db.Collection(collectionAllocations)},
		Movements:   &MovementRepository{col: s.db.Collection(collectionMovements)},
	}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// EnsureIndexes creates the unique and lookup indexes of every collection.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := map[string][]mongo.IndexModel{
		collectionUsers: {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "role", Value: 1}}},
		},
		collectionStockItems: {
			{Keys: bson.D{{Key: "unique_number", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "expiry_date", Value: 1}}},
			{Keys: bson.D{{Key: "quantity", Value: 1}}},
		},
		collectionAllocations: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "allocated_at", Value: 1}}},
			{Keys: bson.D{{Key: "stock_item_id", Value: 1}}},
		},
		collectionMovements: {
			{Keys: bson.D{{Key: "stock_item_id", Value: 1}, {Key: "performed_at", Value: 1}}},
		},
	}
	for name, models := range indexes {
		if _, err := s.db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return domain.StorageError("create indexes on "+name, err)
		}
	}
	return nil
}

// opCtx bounds a single driver call. The session carried by ctx, if any, is
// preserved.
func opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, defaultTimeout)
}
