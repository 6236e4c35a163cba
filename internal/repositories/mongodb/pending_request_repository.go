package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/letterdraw/letterdraw-backend/internal/models"
	"github.com/letterdraw/letterdraw-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// PendingRequestRepository implements the single-flight correlation
// table. The collection holds zero or one document.
type PendingRequestRepository struct {
	collection *mongo.Collection
}

// NewPendingRequestRepository creates a new PendingRequestRepository
func NewPendingRequestRepository(db *mongo.Database) repositories.PendingRequestRepository {
	return &PendingRequestRepository{collection: db.Collection("pending_requests")}
}

// Put records the in-flight request. Fails with ErrDuplicate if one
// already exists, preserving the single-flight guard.
func (r *PendingRequestRepository) Put(ctx context.Context, req *models.PendingRequest) error {
	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return err
	}
	if count > 0 {
		return repositories.ErrDuplicate
	}
	req.RequestedAt = time.Now()
	res, err := r.collection.InsertOne(ctx, req)
	if err != nil {
		return err
	}
	req.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// Get returns the pending request, or ErrNotFound if none exists.
func (r *PendingRequestRepository) Get(ctx context.Context) (*models.PendingRequest, error) {
	var req models.PendingRequest
	err := r.collection.FindOne(ctx, bson.M{}).Decode(&req)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

// Consume atomically removes and returns the entry matching requestID.
// A second Consume with the same id, or one with an unknown id, fails
// with ErrNotFound.
func (r *PendingRequestRepository) Consume(ctx context.Context, requestID string) (*models.PendingRequest, error) {
	var req models.PendingRequest
	err := r.collection.FindOneAndDelete(ctx, bson.M{"requestId": requestID}).Decode(&req)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}
