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

// SettingsRepository stores the single engine settings document.
type SettingsRepository struct {
	collection *mongo.Collection
}

// NewSettingsRepository creates a new SettingsRepository
func NewSettingsRepository(db *mongo.Database) repositories.SettingsRepository {
	return &SettingsRepository{collection: db.Collection("engine_settings")}
}

// Get returns the settings document, or ErrNotFound before seeding.
func (r *SettingsRepository) Get(ctx context.Context) (*models.EngineSettings, error) {
	var settings models.EngineSettings
	err := r.collection.FindOne(ctx, bson.M{}).Decode(&settings)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return &settings, nil
}

// Update upserts the settings document
func (r *SettingsRepository) Update(ctx context.Context, settings *models.EngineSettings) error {
	settings.UpdatedAt = time.Now()
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{}, settings, opts)
	return err
}
