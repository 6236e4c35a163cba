package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/letterdraw/letterdraw-backend/internal/models"
	"github.com/letterdraw/letterdraw-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FeeLedgerRepository implements the global fee accumulator as a
// single upserted document.
type FeeLedgerRepository struct {
	collection *mongo.Collection
}

// NewFeeLedgerRepository creates a new FeeLedgerRepository
func NewFeeLedgerRepository(db *mongo.Database) repositories.FeeLedgerRepository {
	return &FeeLedgerRepository{collection: db.Collection("fee_ledger")}
}

// AddFees atomically adds amount to the running total and returns the
// new total.
func (r *FeeLedgerRepository) AddFees(ctx context.Context, amount int64) (int64, error) {
	update := bson.M{
		"$inc": bson.M{"totalCollected": amount},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var ledger models.FeeLedger
	err := r.collection.FindOneAndUpdate(ctx, bson.M{}, update, opts).Decode(&ledger)
	if err != nil {
		return 0, err
	}
	return ledger.TotalCollected, nil
}

// Total returns the running fee total
func (r *FeeLedgerRepository) Total(ctx context.Context) (int64, error) {
	var ledger models.FeeLedger
	err := r.collection.FindOne(ctx, bson.M{}).Decode(&ledger)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, nil
		}
		return 0, err
	}
	return ledger.TotalCollected, nil
}
