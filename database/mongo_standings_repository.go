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

type MongoStandingsRepository struct {
	collection *mongo.Collection
	logger     *logging.Logger
}

func NewMongoStandingsRepository(db *MongoDB) *MongoStandingsRepository {
	collection := db.GetCollection("standings")
	logger := logging.WithPrefix("mongo_standings_repo")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "seasonId", Value: 1}, {Key: "teamId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		logger.Errorf("Failed to create indexes on standings collection: %v", err)
	}

	return &MongoStandingsRepository{collection: collection, logger: logger}
}

// BulkUpsertRecords writes the full set of records for a season, replacing
// any existing documents keyed by (seasonId, teamId).
func (r *MongoStandingsRepository) BulkUpsertRecords(ctx context.Context, records []models.TeamRecord) error {
	if len(records) == 0 {
		return nil
	}
	writes := make([]mongo.WriteModel, 0, len(records))
	for i := range records {
		rec := records[i]
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"seasonId": rec.SeasonID, "teamId": rec.TeamID}).
			SetReplacement(rec).
			SetUpsert(true))
	}
	if _, err := r.collection.BulkWrite(ctx, writes); err != nil {
		return fmt.Errorf("%w: upsert %d records: %v", models.ErrPersistenceFailure, len(records), err)
	}
	return nil
}

// UpsertRecord writes a single team's record.
func (r *MongoStandingsRepository) UpsertRecord(ctx context.Context, record *models.TeamRecord) error {
	_, err := r.collection.ReplaceOne(ctx,
		bson.M{"seasonId": record.SeasonID, "teamId": record.TeamID},
		record,
		options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("%w: upsert record for %s: %v", models.ErrPersistenceFailure, record.TeamID, err)
	}
	return nil
}

// GetRecordsBySeason returns all team records for a season sorted by teamId.
func (r *MongoStandingsRepository) GetRecordsBySeason(ctx context.Context, seasonID string) ([]models.TeamRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "teamId", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"seasonId": seasonID}, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: find records for season %s: %v", models.ErrPersistenceFailure, seasonID, err)
	}
	defer cursor.Close(ctx)

	var records []models.TeamRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("%w: decode records for season %s: %v", models.ErrPersistenceFailure, seasonID, err)
	}
	return records, nil
}

// GetRecord returns a single team's record for a season.
func (r *MongoStandingsRepository) GetRecord(ctx context.Context, seasonID, teamID string) (*models.TeamRecord, error) {
	var record models.TeamRecord
	err := r.collection.FindOne(ctx, bson.M{"seasonId": seasonID, "teamId": teamID}).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("record for team %s: %w", teamID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("%w: find record for team %s: %v", models.ErrPersistenceFailure, teamID, err)
	}
	return &record, nil
}
