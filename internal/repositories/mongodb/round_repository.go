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
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RoundRepository implements the repositories.RoundRepository interface
type RoundRepository struct {
	collection *mongo.Collection
}

// NewRoundRepository creates a new RoundRepository
func NewRoundRepository(db *mongo.Database) repositories.RoundRepository {
	coll := db.Collection("rounds")
	idx := mongo.IndexModel{
		Keys:    bson.D{{Key: "number", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	_, _ = coll.Indexes().CreateOne(context.Background(), idx)
	return &RoundRepository{collection: coll}
}

// Create creates a new round
func (r *RoundRepository) Create(ctx context.Context, round *models.Round) error {
	round.CreatedAt = time.Now()
	round.UpdatedAt = time.Now()
	res, err := r.collection.InsertOne(ctx, round)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repositories.ErrDuplicate
		}
		return err
	}
	round.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByNumber finds a round by its number
func (r *RoundRepository) FindByNumber(ctx context.Context, number uint64) (*models.Round, error) {
	var round models.Round
	err := r.collection.FindOne(ctx, bson.M{"number": number}).Decode(&round)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return &round, nil
}

// FindCurrent finds the round with the highest number
func (r *RoundRepository) FindCurrent(ctx context.Context) (*models.Round, error) {
	opts := options.FindOne().SetSort(bson.M{"number": -1})
	var round models.Round
	err := r.collection.FindOne(ctx, bson.M{}, opts).Decode(&round)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return &round, nil
}

// Update updates a round
func (r *RoundRepository) Update(ctx context.Context, round *models.Round) error {
	round.UpdatedAt = time.Now()
	res, err := r.collection.ReplaceOne(ctx, bson.M{"number": round.Number}, round)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// FindAll returns rounds sorted by number descending
func (r *RoundRepository) FindAll(ctx context.Context, page, limit int64) ([]*models.Round, error) {
	if limit <= 0 {
		limit = 50
	}
	if page < 1 {
		page = 1
	}
	opts := options.Find().
		SetSort(bson.M{"number": -1}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rounds []*models.Round
	if err := cursor.All(ctx, &rounds); err != nil {
		return nil, err
	}
	if rounds == nil {
		rounds = []*models.Round{}
	}
	return rounds, nil
}

// Count returns the number of rounds
func (r *RoundRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}
