package database

import (
	"context"
	"fmt"
	"time"

	"gridblitz/logging"
	"gridblitz/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoSeasonRepository struct {
	collection *mongo.Collection
	logger     *logging.Logger
}

func NewMongoSeasonRepository(db *MongoDB) *MongoSeasonRepository {
	collection := db.GetCollection("seasons")
	logger := logging.WithPrefix("mongo_season_repo")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "seasonNumber", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		logger.Errorf("Failed to create indexes on seasons collection: %v", err)
	}

	return &MongoSeasonRepository{collection: collection, logger: logger}
}

func (r *MongoSeasonRepository) CreateSeason(ctx context.Context, season *models.Season) error {
	if _, err := r.collection.InsertOne(ctx, season); err != nil {
		return fmt.Errorf("%w: insert season %s: %v", models.ErrPersistenceFailure, season.ID, err)
	}
	return nil
}

// GetCurrentSeason returns the newest season. The controller always operates
// on the latest one; earlier seasons are history.
func (r *MongoSeasonRepository) GetCurrentSeason(ctx context.Context) (*models.Season, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "seasonNumber", Value: -1}})

	var season models.Season
	err := r.collection.FindOne(ctx, bson.M{}, opts).Decode(&season)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("current season: %w", models.ErrNotFound)
		}
		return nil, fmt.Errorf("%w: find current season: %v", models.ErrPersistenceFailure, err)
	}
	return &season, nil
}

func (r *MongoSeasonRepository) GetSeasonByID(ctx context.Context, id string) (*models.Season, error) {
	var season models.Season
	err := r.collection.FindOne(ctx, bson.M{"id": id}).Decode(&season)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("season %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("%w: find season %s: %v", models.ErrPersistenceFailure, id, err)
	}
	return &season, nil
}

// AdvanceStatus moves a season from one status to the next with a guarded
// write: the update only lands if the stored status still matches, so two
// overlapping ticks cannot double-advance.
func (r *MongoSeasonRepository) AdvanceStatus(ctx context.Context, seasonID string, from, to models.SeasonStatus) error {
	if !from.CanTransitionTo(to) {
		return fmt.Errorf("season %s: %s -> %s: %w", seasonID, from, to, models.ErrInvalidState)
	}

	res, err := r.collection.UpdateOne(ctx,
		bson.M{"id": seasonID, "status": from},
		bson.M{"$set": bson.M{"status": to}})
	if err != nil {
		return fmt.Errorf("%w: advance season %s: %v", models.ErrPersistenceFailure, seasonID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("season %s no longer in status %s: %w", seasonID, from, models.ErrInvalidState)
	}
	return nil
}

// AdvanceWeek bumps the week pointer with the same stale-state guard.
func (r *MongoSeasonRepository) AdvanceWeek(ctx context.Context, seasonID string, fromWeek int) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"id": seasonID, "currentWeek": fromWeek},
		bson.M{"$set": bson.M{"currentWeek": fromWeek + 1, "weekAdvancedAt": time.Now().UTC()}})
	if err != nil {
		return fmt.Errorf("%w: advance week for season %s: %v", models.ErrPersistenceFailure, seasonID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("season %s no longer at week %d: %w", seasonID, fromWeek, models.ErrInvalidState)
	}
	return nil
}
