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

type MongoPlayerRepository struct {
	collection *mongo.Collection
	logger     *logging.Logger
}

func NewMongoPlayerRepository(db *MongoDB) *MongoPlayerRepository {
	collection := db.GetCollection("players")
	logger := logging.WithPrefix("mongo_player_repo")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "teamId", Value: 1}}},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		logger.Errorf("Failed to create indexes on players collection: %v", err)
	}

	return &MongoPlayerRepository{collection: collection, logger: logger}
}

func (r *MongoPlayerRepository) BulkUpsertPlayers(ctx context.Context, players []models.Player) error {
	if len(players) == 0 {
		return nil
	}

	writes := make([]mongo.WriteModel, 0, len(players))
	for i := range players {
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"id": players[i].ID}).
			SetReplacement(players[i]).
			SetUpsert(true))
	}

	if _, err := r.collection.BulkWrite(ctx, writes); err != nil {
		return fmt.Errorf("%w: bulk upsert of %d players: %v", models.ErrPersistenceFailure, len(players), err)
	}
	return nil
}

// GetRoster returns a team's players with the position index built.
func (r *MongoPlayerRepository) GetRoster(ctx context.Context, teamID string) (*models.Roster, error) {
	opts := options.Find().SetSort(bson.D{{Key: "id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"teamId": teamID}, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: find roster for %s: %v", models.ErrPersistenceFailure, teamID, err)
	}
	defer cursor.Close(ctx)

	var players []models.Player
	if err := cursor.All(ctx, &players); err != nil {
		return nil, fmt.Errorf("%w: decode roster for %s: %v", models.ErrPersistenceFailure, teamID, err)
	}
	if len(players) == 0 {
		return nil, fmt.Errorf("roster for team %s: %w", teamID, models.ErrNotFound)
	}
	return models.NewRoster(teamID, players), nil
}

func (r *MongoPlayerRepository) CountPlayers(ctx context.Context) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("%w: count players: %v", models.ErrPersistenceFailure, err)
	}
	return n, nil
}
