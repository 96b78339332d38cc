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

// appendBatchSize caps a single InsertMany so a 250-play game never pushes
// one oversized write at the server.
const appendBatchSize = 50

type MongoEventRepository struct {
	collection *mongo.Collection
	logger     *logging.Logger
}

func NewMongoEventRepository(db *MongoDB) *MongoEventRepository {
	collection := db.GetCollection("game_events")
	logger := logging.WithPrefix("mongo_event_repo")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "gameId", Value: 1}, {Key: "eventNumber", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		logger.Errorf("Failed to create indexes on game_events collection: %v", err)
	}

	return &MongoEventRepository{collection: collection, logger: logger}
}

// AppendEvents writes a game's event log in order. Events are immutable once
// written; the unique (gameId, eventNumber) index rejects rewrites, so a
// retried append of an already-stored game surfaces as ErrInvalidState.
func (r *MongoEventRepository) AppendEvents(ctx context.Context, events []models.GameEvent) error {
	for start := 0; start < len(events); start += appendBatchSize {
		end := start + appendBatchSize
		if end > len(events) {
			end = len(events)
		}

		docs := make([]interface{}, 0, end-start)
		for i := start; i < end; i++ {
			docs = append(docs, events[i])
		}

		if _, err := r.collection.InsertMany(ctx, docs); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return fmt.Errorf("event log already written: %w", models.ErrInvalidState)
			}
			return fmt.Errorf("%w: append events %d..%d: %v", models.ErrPersistenceFailure, start, end-1, err)
		}
	}
	return nil
}

// GetEventsByGame returns a game's full event log in event order.
func (r *MongoEventRepository) GetEventsByGame(ctx context.Context, gameID string) ([]models.GameEvent, error) {
	return r.GetEventsAfter(ctx, gameID, 0)
}

// GetEventsAfter returns the events of a game with EventNumber greater than
// afterEventNumber, in event order. Used for reconnect catchup.
func (r *MongoEventRepository) GetEventsAfter(ctx context.Context, gameID string, afterEventNumber int) ([]models.GameEvent, error) {
	filter := bson.M{"gameId": gameID, "eventNumber": bson.M{"$gt": afterEventNumber}}
	opts := options.Find().SetSort(bson.D{{Key: "eventNumber", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: find events for game %s: %v", models.ErrPersistenceFailure, gameID, err)
	}
	defer cursor.Close(ctx)

	var events []models.GameEvent
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("%w: decode events for game %s: %v", models.ErrPersistenceFailure, gameID, err)
	}
	return events, nil
}

func (r *MongoEventRepository) CountByGame(ctx context.Context, gameID string) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"gameId": gameID})
	if err != nil {
		return 0, fmt.Errorf("%w: count events for game %s: %v", models.ErrPersistenceFailure, gameID, err)
	}
	return n, nil
}
