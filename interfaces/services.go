package interfaces

import (
	"context"

	"gridblitz/models"
)

// SeederService bootstraps the league on first run. Both operations are
// idempotent so every process start can call them unconditionally.
type SeederService interface {
	EnsureLeague(ctx context.Context) error
	EnsureSeason(ctx context.Context) (*models.Season, error)
}

// SeasonService drives the season forward. Tick is the single entry point
// invoked by the cron endpoint; each call performs at most one action and
// returns a report of what changed.
type SeasonService interface {
	Tick(ctx context.Context) (*TickReport, error)
}

// TickAction tags what a single tick did.
type TickAction string

const (
	TickIdle         TickAction = "idle"
	TickCreateSeason TickAction = "create_season"
	TickStartGame    TickAction = "start_game"
	TickAdvanceWeek  TickAction = "advance_week"
	TickFinalize     TickAction = "finalize"
)

// TickReport summarizes one tick of the season state machine.
type TickReport struct {
	Action       TickAction          `json:"action"`
	SeasonID     string              `json:"seasonId,omitempty"`
	SeasonNumber int                 `json:"seasonNumber,omitempty"`
	Week         int                 `json:"week,omitempty"`
	Status       models.SeasonStatus `json:"status,omitempty"`
	GameID       string              `json:"gameId,omitempty"`
	Detail       string              `json:"detail,omitempty"`
	ElapsedMS    int64               `json:"elapsedMs"`
}

// GameService exposes spoiler-safe game queries and seed verification.
type GameService interface {
	GetCurrentGame(ctx context.Context) (*CurrentGameSummary, error)
	GetGameByID(ctx context.Context, id string) (*models.PublicGame, error)
	GetWeekGames(ctx context.Context, week int) ([]models.PublicGame, error)
	GetStandings(ctx context.Context) ([]models.TeamRecord, error)
	VerifyGame(ctx context.Context, gameID string) (*VerificationReport, error)
}

// CurrentGameSummary is the "what's on" view: the live or next game plus
// where the season stands.
type CurrentGameSummary struct {
	CurrentGame  *models.PublicGame  `json:"currentGame"`
	NextGame     *models.PublicGame  `json:"nextGame"`
	SeasonStatus models.SeasonStatus `json:"seasonStatus"`
	SeasonNumber int                 `json:"seasonNumber"`
	CurrentWeek  int                 `json:"currentWeek"`
	WeekProgress WeekProgress        `json:"weekProgress"`
}

// WeekProgress counts completed games in the current week.
type WeekProgress struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

// VerificationReport is the result of replaying a completed game's RNG
// stream against its published commitment.
type VerificationReport struct {
	GameID         string `json:"gameId"`
	Verified       bool   `json:"verified"`
	ServerSeed     string `json:"serverSeed"`
	ServerSeedHash string `json:"serverSeedHash"`
	ClientSeed     string `json:"clientSeed"`
	TotalDraws     int    `json:"totalDraws"`
}

// BroadcastService supplies the stream handler with a game's replay
// timeline and what airs after it.
type BroadcastService interface {
	LoadBroadcast(ctx context.Context, gameID string) (*BroadcastTimeline, error)
	NextGameInWeek(ctx context.Context, game *models.Game) (*models.Game, error)
}

// BroadcastTimeline is one game's full stored event log. The handler
// partitions it into catchup and future at connect time.
type BroadcastTimeline struct {
	Game   *models.Game
	Events []models.GameEvent
}
