package services

import (
	"context"
	"errors"
	"fmt"

	"gridblitz/interfaces"
	"gridblitz/logging"
	"gridblitz/metrics"
	"gridblitz/models"
	"gridblitz/sim"
)

// GameService answers read-only game queries through the spoiler guard and
// runs seed verification for completed games.
type GameService struct {
	gameRepo      interfaces.GameRepository
	seasonRepo    interfaces.SeasonRepository
	standingsRepo interfaces.StandingsRepository
	logger        *logging.Logger
}

func NewGameService(
	gameRepo interfaces.GameRepository,
	seasonRepo interfaces.SeasonRepository,
	standingsRepo interfaces.StandingsRepository,
) *GameService {
	return &GameService{
		gameRepo:      gameRepo,
		seasonRepo:    seasonRepo,
		standingsRepo: standingsRepo,
		logger:        logging.WithPrefix("GameService"),
	}
}

// GetCurrentGame returns the live game (or the next scheduled one when the
// league is between broadcasts) together with a season snapshot.
func (s *GameService) GetCurrentGame(ctx context.Context) (*interfaces.CurrentGameSummary, error) {
	season, err := s.seasonRepo.GetCurrentSeason(ctx)
	if err != nil {
		return nil, err
	}

	summary := &interfaces.CurrentGameSummary{
		SeasonStatus: season.Status,
		SeasonNumber: season.SeasonNumber,
		CurrentWeek:  season.CurrentWeek,
	}

	if live, err := s.gameRepo.GetBroadcastingGame(ctx, season.ID); err == nil {
		pub := live.PublicView()
		summary.CurrentGame = &pub
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	if next, err := s.gameRepo.GetNextScheduledGame(ctx, season.ID); err == nil {
		pub := next.PublicView()
		summary.NextGame = &pub
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	week, err := s.gameRepo.GetGamesByWeek(ctx, season.ID, season.CurrentWeek)
	if err != nil {
		return nil, err
	}
	summary.WeekProgress.Total = len(week)
	for i := range week {
		if week[i].Status == models.GameCompleted {
			summary.WeekProgress.Completed++
		}
	}
	return summary, nil
}

// GetGameByID returns the public view of one game. Scores and the server
// seed stay hidden until the game completes.
func (s *GameService) GetGameByID(ctx context.Context, id string) (*models.PublicGame, error) {
	game, err := s.gameRepo.GetGameByID(ctx, id)
	if err != nil {
		return nil, err
	}
	pub := game.PublicView()
	return &pub, nil
}

// GetWeekGames returns the public views of a week's slate in the current
// season.
func (s *GameService) GetWeekGames(ctx context.Context, week int) ([]models.PublicGame, error) {
	season, err := s.seasonRepo.GetCurrentSeason(ctx)
	if err != nil {
		return nil, err
	}
	games, err := s.gameRepo.GetGamesByWeek(ctx, season.ID, week)
	if err != nil {
		return nil, err
	}
	out := make([]models.PublicGame, 0, len(games))
	for i := range games {
		out = append(out, games[i].PublicView())
	}
	return out, nil
}

// GetStandings returns the current season's records.
func (s *GameService) GetStandings(ctx context.Context) ([]models.TeamRecord, error) {
	season, err := s.seasonRepo.GetCurrentSeason(ctx)
	if err != nil {
		return nil, err
	}
	return s.standingsRepo.GetRecordsBySeason(ctx, season.ID)
}

// VerifyGame replays a completed game's RNG stream against its published
// commitment. A hash or draw mismatch is an integrity failure and comes
// back as ErrSeedMismatch.
func (s *GameService) VerifyGame(ctx context.Context, gameID string) (*interfaces.VerificationReport, error) {
	game, err := s.gameRepo.GetGameByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if !game.IsCompleted() {
		return nil, fmt.Errorf("game %s has not revealed its seed yet: %w", gameID, models.ErrInvalidState)
	}

	res := sim.Verify(game.ServerSeed, game.ClientSeed, 0, int(game.Nonce), game.ServerSeedHash)
	report := &interfaces.VerificationReport{
		GameID:         game.ID,
		Verified:       res.Verified,
		ServerSeed:     game.ServerSeed,
		ServerSeedHash: game.ServerSeedHash,
		ClientSeed:     game.ClientSeed,
		TotalDraws:     res.TotalEvents,
	}
	if !res.Verified {
		metrics.Verifications.WithLabelValues("mismatch").Inc()
		s.logger.Errorf("Seed verification failed for game %s", game.ID)
		return report, fmt.Errorf("game %s: %w", game.ID, models.ErrSeedMismatch)
	}
	metrics.Verifications.WithLabelValues("verified").Inc()
	return report, nil
}
