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

type MongoGameRepository struct {
	collection *mongo.Collection
	logger     *logging.Logger
}

func NewMongoGameRepository(db *MongoDB) *MongoGameRepository {
	collection := db.GetCollection("games")
	logger := logging.WithPrefix("mongo_game_repo")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "seasonId", Value: 1}, {Key: "week", Value: 1}}},
		{Keys: bson.D{{Key: "seasonId", Value: 1}, {Key: "status", Value: 1}}},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		logger.Errorf("Failed to create indexes on games collection: %v", err)
	}

	return &MongoGameRepository{collection: collection, logger: logger}
}

// CreateGames inserts a slate of scheduled games. Duplicate ids fail the
// batch; the seeder only writes games that do not exist yet.
func (r *MongoGameRepository) CreateGames(ctx context.Context, games []models.Game) error {
	if len(games) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(games))
	for i := range games {
		docs = append(docs, games[i])
	}
	if _, err := r.collection.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("%w: insert %d games: %v", models.ErrPersistenceFailure, len(games), err)
	}
	return nil
}

func (r *MongoGameRepository) GetGameByID(ctx context.Context, id string) (*models.Game, error) {
	var game models.Game
	err := r.collection.FindOne(ctx, bson.M{"id": id}).Decode(&game)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("game %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("%w: find game %s: %v", models.ErrPersistenceFailure, id, err)
	}
	return &game, nil
}

func (r *MongoGameRepository) GetGamesByWeek(ctx context.Context, seasonID string, week int) ([]models.Game, error) {
	opts := options.Find().SetSort(bson.D{{Key: "id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"seasonId": seasonID, "week": week}, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: find games for week %d: %v", models.ErrPersistenceFailure, week, err)
	}
	defer cursor.Close(ctx)

	var games []models.Game
	if err := cursor.All(ctx, &games); err != nil {
		return nil, fmt.Errorf("%w: decode games for week %d: %v", models.ErrPersistenceFailure, week, err)
	}
	return games, nil
}

// GetBroadcastingGame returns the game currently on air, or ErrNotFound when
// the league is between games.
func (r *MongoGameRepository) GetBroadcastingGame(ctx context.Context, seasonID string) (*models.Game, error) {
	var game models.Game
	err := r.collection.FindOne(ctx, bson.M{"seasonId": seasonID, "status": models.GameBroadcasting}).Decode(&game)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("broadcasting game: %w", models.ErrNotFound)
		}
		return nil, fmt.Errorf("%w: find broadcasting game: %v", models.ErrPersistenceFailure, err)
	}
	return &game, nil
}

// GetNextScheduledGame returns the earliest game still waiting to be played.
// Featured games within a week go first so the marquee matchup is never
// buried at three in the morning.
func (r *MongoGameRepository) GetNextScheduledGame(ctx context.Context, seasonID string) (*models.Game, error) {
	opts := options.FindOne().SetSort(bson.D{
		{Key: "week", Value: 1},
		{Key: "isFeatured", Value: -1},
		{Key: "id", Value: 1},
	})

	var game models.Game
	err := r.collection.FindOne(ctx, bson.M{"seasonId": seasonID, "status": models.GameScheduled}, opts).Decode(&game)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("next scheduled game: %w", models.ErrNotFound)
		}
		return nil, fmt.Errorf("%w: find next scheduled game: %v", models.ErrPersistenceFailure, err)
	}
	return &game, nil
}

// GetLastCompletedGame returns the most recently finished game.
func (r *MongoGameRepository) GetLastCompletedGame(ctx context.Context, seasonID string) (*models.Game, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "completedAt", Value: -1}})

	var game models.Game
	err := r.collection.FindOne(ctx, bson.M{"seasonId": seasonID, "status": models.GameCompleted}, opts).Decode(&game)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("last completed game: %w", models.ErrNotFound)
		}
		return nil, fmt.Errorf("%w: find last completed game: %v", models.ErrPersistenceFailure, err)
	}
	return &game, nil
}

// CountByStatus counts a week's games in the given status.
func (r *MongoGameRepository) CountByStatus(ctx context.Context, seasonID string, week int, status models.GameStatus) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"seasonId": seasonID, "week": week, "status": status})
	if err != nil {
		return 0, fmt.Errorf("%w: count games: %v", models.ErrPersistenceFailure, err)
	}
	return n, nil
}

// BeginSimulation claims a scheduled game with a guarded write and publishes
// the seed commitment. A second caller loses the race and gets
// ErrInvalidState, which it treats as already-claimed.
func (r *MongoGameRepository) BeginSimulation(ctx context.Context, gameID, serverSeedHash string) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"id": gameID, "status": models.GameScheduled},
		bson.M{"$set": bson.M{
			"status":         models.GameSimulating,
			"serverSeedHash": serverSeedHash,
		}})
	if err != nil {
		return fmt.Errorf("%w: begin simulation of %s: %v", models.ErrPersistenceFailure, gameID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("game %s is not scheduled: %w", gameID, models.ErrInvalidState)
	}
	return nil
}

// StartBroadcast stores the simulation output and flips the game on air.
// The server seed is persisted here so a later tick can finalize the game,
// but stays hidden from public views until completion.
func (r *MongoGameRepository) StartBroadcast(ctx context.Context, game *models.Game) error {
	now := time.Now().UTC()
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"id": game.ID, "status": models.GameSimulating},
		bson.M{"$set": bson.M{
			"status":             models.GameBroadcasting,
			"homeScore":          game.HomeScore,
			"awayScore":          game.AwayScore,
			"totalPlays":         game.TotalPlays,
			"nonce":              game.Nonce,
			"boxScore":           game.BoxScore,
			"serverSeed":         game.ServerSeed,
			"broadcastStartedAt": now,
		}})
	if err != nil {
		return fmt.Errorf("%w: start broadcast of %s: %v", models.ErrPersistenceFailure, game.ID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("game %s is not simulating: %w", game.ID, models.ErrInvalidState)
	}
	game.Status = models.GameBroadcasting
	game.BroadcastStartedAt = &now
	return nil
}

// CompleteGame finishes the broadcast. Completion is what reveals the
// server seed through the public view.
func (r *MongoGameRepository) CompleteGame(ctx context.Context, gameID string) error {
	now := time.Now().UTC()
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"id": gameID, "status": models.GameBroadcasting},
		bson.M{"$set": bson.M{
			"status":      models.GameCompleted,
			"completedAt": now,
		}})
	if err != nil {
		return fmt.Errorf("%w: complete game %s: %v", models.ErrPersistenceFailure, gameID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("game %s is not broadcasting: %w", gameID, models.ErrInvalidState)
	}
	return nil
}
