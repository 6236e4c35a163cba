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

// TicketRepository implements the repositories.TicketRepository interface
type TicketRepository struct {
	collection *mongo.Collection
}

// NewTicketRepository creates a new TicketRepository
func NewTicketRepository(db *mongo.Database) repositories.TicketRepository {
	coll := db.Collection("tickets")
	idx := mongo.IndexModel{Keys: bson.D{{Key: "roundNumber", Value: 1}}}
	_, _ = coll.Indexes().CreateOne(context.Background(), idx)
	return &TicketRepository{collection: coll}
}

// Create creates a new ticket
func (r *TicketRepository) Create(ctx context.Context, ticket *models.Ticket) error {
	ticket.CreatedAt = time.Now()
	res, err := r.collection.InsertOne(ctx, ticket)
	if err != nil {
		return err
	}
	ticket.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// Delete removes a ticket. Used only as the compensation step when a
// draw trigger fails after the purchase was recorded.
func (r *TicketRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// FindByRound returns a round's tickets in purchase order
func (r *TicketRepository) FindByRound(ctx context.Context, roundNumber uint64, page, limit int64) ([]*models.Ticket, error) {
	if limit <= 0 {
		limit = 100
	}
	if page < 1 {
		page = 1
	}
	opts := options.Find().
		SetSort(bson.M{"createdAt": 1}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)
	cursor, err := r.collection.Find(ctx, bson.M{"roundNumber": roundNumber}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tickets []*models.Ticket
	if err := cursor.All(ctx, &tickets); err != nil {
		return nil, err
	}
	if tickets == nil {
		tickets = []*models.Ticket{}
	}
	return tickets, nil
}

// CountByRound counts a round's tickets
func (r *TicketRepository) CountByRound(ctx context.Context, roundNumber uint64) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"roundNumber": roundNumber})
}
