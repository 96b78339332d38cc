package interfaces

import (
	"context"

	"gridblitz/models"
)

// TeamRepository defines methods for team persistence.
type TeamRepository interface {
	BulkUpsertTeams(ctx context.Context, teams []models.Team) error
	GetAllTeams(ctx context.Context) ([]models.Team, error)
	GetTeamByID(ctx context.Context, id string) (*models.Team, error)
	CountTeams(ctx context.Context) (int64, error)
}

// PlayerRepository defines methods for player persistence.
type PlayerRepository interface {
	BulkUpsertPlayers(ctx context.Context, players []models.Player) error
	GetRoster(ctx context.Context, teamID string) (*models.Roster, error)
	CountPlayers(ctx context.Context) (int64, error)
}

// SeasonRepository defines methods for season lifecycle persistence. Status
// and week advances are guarded writes that fail with ErrInvalidState when
// the stored document no longer matches the expected state.
type SeasonRepository interface {
	CreateSeason(ctx context.Context, season *models.Season) error
	GetCurrentSeason(ctx context.Context) (*models.Season, error)
	GetSeasonByID(ctx context.Context, id string) (*models.Season, error)
	AdvanceStatus(ctx context.Context, seasonID string, from, to models.SeasonStatus) error
	AdvanceWeek(ctx context.Context, seasonID string, fromWeek int) error
}

// GameRepository defines methods for game persistence and the guarded
// lifecycle transitions scheduled -> simulating -> broadcasting -> completed.
type GameRepository interface {
	CreateGames(ctx context.Context, games []models.Game) error
	GetGameByID(ctx context.Context, id string) (*models.Game, error)
	GetGamesByWeek(ctx context.Context, seasonID string, week int) ([]models.Game, error)
	GetBroadcastingGame(ctx context.Context, seasonID string) (*models.Game, error)
	GetNextScheduledGame(ctx context.Context, seasonID string) (*models.Game, error)
	GetLastCompletedGame(ctx context.Context, seasonID string) (*models.Game, error)
	CountByStatus(ctx context.Context, seasonID string, week int, status models.GameStatus) (int64, error)
	BeginSimulation(ctx context.Context, gameID, serverSeedHash string) error
	StartBroadcast(ctx context.Context, game *models.Game) error
	CompleteGame(ctx context.Context, gameID string) error
}

// EventRepository defines methods for the append-only game event log.
type EventRepository interface {
	AppendEvents(ctx context.Context, events []models.GameEvent) error
	GetEventsByGame(ctx context.Context, gameID string) ([]models.GameEvent, error)
	GetEventsAfter(ctx context.Context, gameID string, afterEventNumber int) ([]models.GameEvent, error)
	CountByGame(ctx context.Context, gameID string) (int64, error)
}

// StandingsRepository defines methods for season standings persistence.
type StandingsRepository interface {
	BulkUpsertRecords(ctx context.Context, records []models.TeamRecord) error
	UpsertRecord(ctx context.Context, record *models.TeamRecord) error
	GetRecordsBySeason(ctx context.Context, seasonID string) ([]models.TeamRecord, error)
	GetRecord(ctx context.Context, seasonID, teamID string) (*models.TeamRecord, error)
}
