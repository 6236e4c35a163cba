package mongodb

import (
	"context"
	"time"

	"github.com/letterdraw/letterdraw-backend/internal/models"
	"github.com/letterdraw/letterdraw-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ClaimRepository implements the repositories.ClaimRepository
// interface over a collection with a unique index on the digest, so
// first-claim-wins is enforced by the store itself.
type ClaimRepository struct {
	collection *mongo.Collection
}

// NewClaimRepository creates a new ClaimRepository
func NewClaimRepository(db *mongo.Database) repositories.ClaimRepository {
	coll := db.Collection("claimed_digests")
	idx := mongo.IndexModel{
		Keys:    bson.D{{Key: "digest", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	_, _ = coll.Indexes().CreateOne(context.Background(), idx)
	return &ClaimRepository{collection: coll}
}

// MarkClaimed records a digest as paid out
func (r *ClaimRepository) MarkClaimed(ctx context.Context, claimed *models.ClaimedDigest) error {
	claimed.ClaimedAt = time.Now()
	res, err := r.collection.InsertOne(ctx, claimed)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repositories.ErrDuplicate
		}
		return err
	}
	claimed.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// Unmark removes a claimed mark. Compensation only: called when the
// prize transfer failed inside the same claim operation.
func (r *ClaimRepository) Unmark(ctx context.Context, digest string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"digest": digest})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// IsClaimed reports whether a digest has been paid out
func (r *ClaimRepository) IsClaimed(ctx context.Context, digest string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"digest": digest})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindByRound returns the claimed digests of a round
func (r *ClaimRepository) FindByRound(ctx context.Context, roundNumber uint64) ([]*models.ClaimedDigest, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"roundNumber": roundNumber})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var claimed []*models.ClaimedDigest
	if err := cursor.All(ctx, &claimed); err != nil {
		return nil, err
	}
	if claimed == nil {
		claimed = []*models.ClaimedDigest{}
	}
	return claimed, nil
}
