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

type MongoTeamRepository struct {
	collection *mongo.Collection
	logger     *logging.Logger
}

func NewMongoTeamRepository(db *MongoDB) *MongoTeamRepository {
	collection := db.GetCollection("teams")
	logger := logging.WithPrefix("mongo_team_repo")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "abbreviation", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "conference", Value: 1}, {Key: "division", Value: 1}}},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		logger.Errorf("Failed to create indexes on teams collection: %v", err)
	}

	return &MongoTeamRepository{collection: collection, logger: logger}
}

// BulkUpsertTeams writes the full league in one pass; seeding is idempotent.
func (r *MongoTeamRepository) BulkUpsertTeams(ctx context.Context, teams []models.Team) error {
	if len(teams) == 0 {
		return nil
	}

	writes := make([]mongo.WriteModel, 0, len(teams))
	for i := range teams {
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"id": teams[i].ID}).
			SetReplacement(teams[i]).
			SetUpsert(true))
	}

	if _, err := r.collection.BulkWrite(ctx, writes); err != nil {
		return fmt.Errorf("%w: bulk upsert of %d teams: %v", models.ErrPersistenceFailure, len(teams), err)
	}
	return nil
}

func (r *MongoTeamRepository) GetAllTeams(ctx context.Context) ([]models.Team, error) {
	opts := options.Find().SetSort(bson.D{{Key: "id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: find teams: %v", models.ErrPersistenceFailure, err)
	}
	defer cursor.Close(ctx)

	var teams []models.Team
	if err := cursor.All(ctx, &teams); err != nil {
		return nil, fmt.Errorf("%w: decode teams: %v", models.ErrPersistenceFailure, err)
	}
	return teams, nil
}

func (r *MongoTeamRepository) GetTeamByID(ctx context.Context, id string) (*models.Team, error) {
	var team models.Team
	err := r.collection.FindOne(ctx, bson.M{"id": id}).Decode(&team)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("team %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("%w: find team %s: %v", models.ErrPersistenceFailure, id, err)
	}
	return &team, nil
}

func (r *MongoTeamRepository) CountTeams(ctx context.Context) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("%w: count teams: %v", models.ErrPersistenceFailure, err)
	}
	return n, nil
}
