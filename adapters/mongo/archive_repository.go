package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/danisworo/wicara/domain/entities"
	"github.com/danisworo/wicara/domain/repositories"
)

type ArchiveRepository struct {
	collection *mongo.Collection
}

// NewArchiveRepository creates a new MongoDB archive repository
func NewArchiveRepository(db *mongo.Database) repositories.ArchiveRepository {
	return &ArchiveRepository{
		collection: db.Collection("session_archives"),
	}
}

// Save implements repositories.ArchiveRepository
func (r *ArchiveRepository) Save(ctx context.Context, archive *entities.SessionArchive) error {
	if archive == nil {
		return errors.New("archive cannot be nil")
	}
	if _, err := r.collection.InsertOne(ctx, archive); err != nil {
		return fmt.Errorf("failed to save session archive: %w", err)
	}
	return nil
}

// List implements repositories.ArchiveRepository, most recent first
func (r *ArchiveRepository) List(ctx context.Context, limit int) ([]*entities.SessionArchive, error) {
	opts := options.Find().SetSort(bson.D{{Key: "started_at", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list session archives: %w", err)
	}
	defer cursor.Close(ctx)

	var archives []*entities.SessionArchive
	if err := cursor.All(ctx, &archives); err != nil {
		return nil, fmt.Errorf("failed to decode session archives: %w", err)
	}
	return archives, nil
}
