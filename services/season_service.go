package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"gridblitz/interfaces"
	"gridblitz/logging"
	"gridblitz/metrics"
	"gridblitz/models"
	"gridblitz/sim"
)

// gameOverTailMS is the broadcast tail after the last event: the game_over
// pause plus the intermission message.
const gameOverTailMS = 3500

// SeasonService is the season state machine. Every external cron hit lands
// in Tick, which performs at most one action. Concurrent invocations are
// serialized in-process by a mutex and across processes by the guarded
// status updates in the repositories.
type SeasonService struct {
	mu sync.Mutex

	seasonRepo    interfaces.SeasonRepository
	gameRepo      interfaces.GameRepository
	eventRepo     interfaces.EventRepository
	teamRepo      interfaces.TeamRepository
	playerRepo    interfaces.PlayerRepository
	standingsRepo interfaces.StandingsRepository
	seeder        *LeagueSeeder

	tickBudget   time.Duration
	gameGap      time.Duration
	weekGap      time.Duration
	offseasonGap time.Duration

	now    func() time.Time
	logger *logging.Logger
}

// SeasonServiceConfig carries the tick gates.
type SeasonServiceConfig struct {
	TickBudget   time.Duration
	GameGap      time.Duration
	WeekGap      time.Duration
	OffseasonGap time.Duration
}

func NewSeasonService(
	seasonRepo interfaces.SeasonRepository,
	gameRepo interfaces.GameRepository,
	eventRepo interfaces.EventRepository,
	teamRepo interfaces.TeamRepository,
	playerRepo interfaces.PlayerRepository,
	standingsRepo interfaces.StandingsRepository,
	seeder *LeagueSeeder,
	cfg SeasonServiceConfig,
) *SeasonService {
	return &SeasonService{
		seasonRepo:    seasonRepo,
		gameRepo:      gameRepo,
		eventRepo:     eventRepo,
		teamRepo:      teamRepo,
		playerRepo:    playerRepo,
		standingsRepo: standingsRepo,
		seeder:        seeder,
		tickBudget:    cfg.TickBudget,
		gameGap:       cfg.GameGap,
		weekGap:       cfg.WeekGap,
		offseasonGap:  cfg.OffseasonGap,
		now:           func() time.Time { return time.Now().UTC() },
		logger:        logging.WithPrefix("SeasonService"),
	}
}

// Tick advances the league by at most one action: finalize a finished
// broadcast, start the next due game, advance the week or playoff round, or
// create a season. Returns idle when nothing is due.
func (s *SeasonService) Tick(ctx context.Context) (*interfaces.TickReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := s.now()
	ctx, cancel := context.WithTimeout(ctx, s.tickBudget)
	defer cancel()

	report, err := s.tick(ctx)
	elapsed := s.now().Sub(start)
	metrics.TickDuration.Observe(elapsed.Seconds())

	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			err = fmt.Errorf("%w: tick exceeded %s budget", models.ErrTimeout, s.tickBudget)
		}
		metrics.TickRuns.WithLabelValues("error").Inc()
		return nil, err
	}

	report.ElapsedMS = elapsed.Milliseconds()
	metrics.TickRuns.WithLabelValues(string(report.Action)).Inc()
	if report.Action != interfaces.TickIdle {
		s.logger.Infof("Tick action=%s season=%s week=%d game=%s (%dms)",
			report.Action, report.SeasonID, report.Week, report.GameID, report.ElapsedMS)
	}
	return report, nil
}

func (s *SeasonService) tick(ctx context.Context) (*interfaces.TickReport, error) {
	season, err := s.seasonRepo.GetCurrentSeason(ctx)
	if errors.Is(err, models.ErrNotFound) {
		created, err := s.seeder.CreateSeason(ctx, 1)
		if err != nil {
			return nil, err
		}
		return s.report(interfaces.TickCreateSeason, created, "", "inaugural season"), nil
	}
	if err != nil {
		return nil, err
	}

	if season.Status == models.SeasonOffseason {
		return s.tickOffseason(ctx, season)
	}

	// A broadcast in flight either finishes now or blocks everything else.
	live, err := s.gameRepo.GetBroadcastingGame(ctx, season.ID)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}
	if live != nil {
		return s.tickBroadcast(ctx, season, live)
	}

	next, err := s.gameRepo.GetNextScheduledGame(ctx, season.ID)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}
	if next != nil && next.Week == season.CurrentWeek {
		return s.tickStartGame(ctx, season, next)
	}

	return s.tickAdvanceWeek(ctx, season)
}

// tickBroadcast finalizes a broadcast whose timeline has elapsed, or stays
// idle while viewers are still mid-replay.
func (s *SeasonService) tickBroadcast(ctx context.Context, season *models.Season, game *models.Game) (*interfaces.TickReport, error) {
	if game.BroadcastStartedAt == nil {
		return nil, fmt.Errorf("game %s broadcasting without a start time: %w", game.ID, models.ErrInvalidState)
	}

	events, err := s.eventRepo.GetEventsByGame(ctx, game.ID)
	if err != nil {
		return nil, err
	}
	var durationMS int64
	if len(events) > 0 {
		durationMS = events[len(events)-1].DisplayTimestamp + gameOverTailMS
	}

	endsAt := game.BroadcastStartedAt.Add(time.Duration(durationMS) * time.Millisecond)
	if s.now().Before(endsAt) {
		return s.report(interfaces.TickIdle, season, game.ID,
			fmt.Sprintf("broadcast ends in %s", endsAt.Sub(s.now()).Round(time.Second))), nil
	}

	if err := s.gameRepo.CompleteGame(ctx, game.ID); err != nil {
		return nil, err
	}
	if game.GameType == models.GameTypeRegular {
		if err := s.applyStandings(ctx, season, game); err != nil {
			return nil, err
		}
	}
	return s.report(interfaces.TickFinalize, season, game.ID, ""), nil
}

// tickStartGame simulates the next due game end to end and puts it on air.
func (s *SeasonService) tickStartGame(ctx context.Context, season *models.Season, game *models.Game) (*interfaces.TickReport, error) {
	last, err := s.gameRepo.GetLastCompletedGame(ctx, season.ID)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}
	if last != nil && last.CompletedAt != nil {
		gate := last.CompletedAt.Add(s.gameGap)
		if s.now().Before(gate) {
			return s.report(interfaces.TickIdle, season, game.ID,
				fmt.Sprintf("next kickoff gated until %s", gate.Format(time.RFC3339))), nil
		}
	}

	serverSeed, err := sim.GenerateServerSeed()
	if err != nil {
		return nil, err
	}

	// Claim the game. Losing the claim race is not an error.
	if err := s.gameRepo.BeginSimulation(ctx, game.ID, sim.HashSeed(serverSeed)); err != nil {
		if errors.Is(err, models.ErrInvalidState) {
			return s.report(interfaces.TickIdle, season, game.ID, "game already claimed"), nil
		}
		return nil, err
	}

	result, err := s.simulate(ctx, game, serverSeed)
	if err != nil {
		return nil, err
	}

	for i := range result.Events {
		result.Events[i].GameID = game.ID
	}
	if err := s.eventRepo.AppendEvents(ctx, result.Events); err != nil {
		return nil, err
	}
	for _, ev := range result.Events {
		metrics.EventsPersisted.WithLabelValues(ev.EventType).Inc()
	}

	game.HomeScore = result.HomeScore
	game.AwayScore = result.AwayScore
	game.TotalPlays = result.TotalPlays
	game.Nonce = result.Nonce
	game.BoxScore = result.BoxScore
	game.ServerSeed = result.ServerSeed
	if err := s.gameRepo.StartBroadcast(ctx, game); err != nil {
		return nil, err
	}

	metrics.GamesSimulated.WithLabelValues(string(game.GameType)).Inc()
	s.logger.Infof("Simulated %s @ %s week %d: %d-%d over %d plays (~%dm broadcast)",
		game.AwayTeamID, game.HomeTeamID, game.Week,
		result.AwayScore, result.HomeScore, result.TotalPlays, result.DurationMS/60000)

	return s.report(interfaces.TickStartGame, season, game.ID, ""), nil
}

func (s *SeasonService) simulate(ctx context.Context, game *models.Game, serverSeed string) (*sim.SimulatedGame, error) {
	home, err := s.teamRepo.GetTeamByID(ctx, game.HomeTeamID)
	if err != nil {
		return nil, err
	}
	away, err := s.teamRepo.GetTeamByID(ctx, game.AwayTeamID)
	if err != nil {
		return nil, err
	}
	homeRoster, err := s.playerRepo.GetRoster(ctx, game.HomeTeamID)
	if err != nil {
		return nil, err
	}
	awayRoster, err := s.playerRepo.GetRoster(ctx, game.AwayTeamID)
	if err != nil {
		return nil, err
	}

	simStart := s.now()
	result, err := sim.Simulate(sim.GameConfig{
		ServerSeed: serverSeed,
		ClientSeed: game.ClientSeed,
		Home:       home,
		Away:       away,
		HomeRoster: homeRoster,
		AwayRoster: awayRoster,
		GameType:   game.GameType,
	})
	if err != nil {
		return nil, err
	}
	metrics.SimulationDuration.Observe(s.now().Sub(simStart).Seconds())

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// tickAdvanceWeek moves to the next week once every game in the current one
// is completed and the inter-week gap has passed. Crossing a phase boundary
// also generates the next playoff round.
func (s *SeasonService) tickAdvanceWeek(ctx context.Context, season *models.Season) (*interfaces.TickReport, error) {
	games, err := s.gameRepo.GetGamesByWeek(ctx, season.ID, season.CurrentWeek)
	if err != nil {
		return nil, err
	}
	if len(games) == 0 {
		return nil, fmt.Errorf("season %s week %d has no games: %w", season.ID, season.CurrentWeek, models.ErrInvalidState)
	}
	var lastDone *time.Time
	for i := range games {
		if games[i].Status != models.GameCompleted {
			return s.report(interfaces.TickIdle, season, games[i].ID, "week still in progress"), nil
		}
		if t := games[i].CompletedAt; t != nil && (lastDone == nil || t.After(*lastDone)) {
			lastDone = t
		}
	}

	if lastDone != nil {
		gate := lastDone.Add(s.weekGap)
		if s.now().Before(gate) {
			return s.report(interfaces.TickIdle, season, "",
				fmt.Sprintf("week advance gated until %s", gate.Format(time.RFC3339))), nil
		}
	}

	nextWeek := season.CurrentWeek + 1
	nextStatus := models.StatusForWeek(nextWeek)
	if season.CurrentWeek >= 22 {
		nextStatus = models.SeasonOffseason
	}

	// Phase boundaries produce the next slate before the week moves.
	if nextStatus != season.Status && nextStatus != models.SeasonOffseason {
		if err := s.createPlayoffWeek(ctx, season, games, nextWeek, nextStatus); err != nil {
			return nil, err
		}
	}

	if nextStatus != season.Status {
		if err := s.seasonRepo.AdvanceStatus(ctx, season.ID, season.Status, nextStatus); err != nil {
			return nil, err
		}
	}
	if nextStatus == models.SeasonOffseason {
		return s.report(interfaces.TickAdvanceWeek, season, "", "season complete, entering offseason"), nil
	}

	if err := s.seasonRepo.AdvanceWeek(ctx, season.ID, season.CurrentWeek); err != nil {
		return nil, err
	}
	rep := s.report(interfaces.TickAdvanceWeek, season, "", "")
	rep.Week = nextWeek
	rep.Status = nextStatus
	return rep, nil
}

// createPlayoffWeek builds the slate for the next playoff round from the
// standings (entering the wild card) or the previous round's winners.
func (s *SeasonService) createPlayoffWeek(ctx context.Context, season *models.Season, finished []models.Game, week int, phase models.SeasonStatus) error {
	teams, err := s.teamRepo.GetAllTeams(ctx)
	if err != nil {
		return err
	}
	records, err := s.standingsRepo.GetRecordsBySeason(ctx, season.ID)
	if err != nil {
		return err
	}
	seeding := sim.ComputeSeeding(teams, records)

	var matchups []sim.Matchup
	switch phase {
	case models.SeasonWildCard:
		if err := s.writePlayoffSeeds(ctx, seeding, records); err != nil {
			return err
		}
		matchups = sim.WildCardRound(seeding)
	case models.SeasonDivisional, models.SeasonConfChamp:
		matchups, err = sim.NextRound(seeding, playoffWinners(finished))
		if err != nil {
			return err
		}
	case models.SeasonSuperBowl:
		final, err := sim.SuperBowl(seeding, playoffWinners(finished))
		if err != nil {
			return err
		}
		matchups = []sim.Matchup{final}
	default:
		return fmt.Errorf("phase %s is not a playoff round: %w", phase, models.ErrInvalidState)
	}

	games := make([]models.Game, 0, len(matchups))
	for _, m := range matchups {
		games = append(games, NewScheduledGame(season, week, models.TypeForStatus(phase), m, true))
	}
	if err := s.gameRepo.CreateGames(ctx, games); err != nil {
		return err
	}
	s.logger.Infof("Created %d %s games for week %d", len(games), phase, week)
	return nil
}

// playoffWinners extracts the winning team ids from a finished round.
// Playoff games cannot tie, so scores always differ.
func playoffWinners(games []models.Game) []string {
	winners := make([]string, 0, len(games))
	for i := range games {
		if games[i].HomeScore > games[i].AwayScore {
			winners = append(winners, games[i].HomeTeamID)
		} else {
			winners = append(winners, games[i].AwayTeamID)
		}
	}
	return winners
}

// writePlayoffSeeds stamps seed numbers onto the standings as the league
// locks the bracket.
func (s *SeasonService) writePlayoffSeeds(ctx context.Context, seeding map[models.Conference][]sim.SeededTeam, records []models.TeamRecord) error {
	byTeam := make(map[string]*models.TeamRecord, len(records))
	for i := range records {
		byTeam[records[i].TeamID] = &records[i]
	}
	updated := make([]models.TeamRecord, 0, 14)
	for _, seeds := range seeding {
		for _, st := range seeds {
			rec, ok := byTeam[st.TeamID]
			if !ok {
				continue
			}
			rec.PlayoffSeed = st.Seed
			if st.Seed <= 4 {
				rec.Clinched = "division"
			} else {
				rec.Clinched = "playoff"
			}
			updated = append(updated, *rec)
		}
	}
	return s.standingsRepo.BulkUpsertRecords(ctx, updated)
}

// applyStandings folds one completed regular season game into both teams'
// records.
func (s *SeasonService) applyStandings(ctx context.Context, season *models.Season, game *models.Game) error {
	home, err := s.teamRepo.GetTeamByID(ctx, game.HomeTeamID)
	if err != nil {
		return err
	}
	away, err := s.teamRepo.GetTeamByID(ctx, game.AwayTeamID)
	if err != nil {
		return err
	}
	division := home.SameDivision(away)
	conference := home.Conference == away.Conference

	for _, side := range []struct {
		teamID string
		pf, pa int
	}{
		{game.HomeTeamID, game.HomeScore, game.AwayScore},
		{game.AwayTeamID, game.AwayScore, game.HomeScore},
	} {
		rec, err := s.standingsRepo.GetRecord(ctx, season.ID, side.teamID)
		if errors.Is(err, models.ErrNotFound) {
			rec = &models.TeamRecord{SeasonID: season.ID, TeamID: side.teamID}
		} else if err != nil {
			return err
		}
		rec.Apply(models.GameOutcome{
			PointsFor:      side.pf,
			PointsAgainst:  side.pa,
			DivisionGame:   division,
			ConferenceGame: conference,
		})
		if err := s.standingsRepo.UpsertRecord(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

// tickOffseason waits out the offseason gap, then rolls the next season.
func (s *SeasonService) tickOffseason(ctx context.Context, season *models.Season) (*interfaces.TickReport, error) {
	last, err := s.gameRepo.GetLastCompletedGame(ctx, season.ID)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}
	if last != nil && last.CompletedAt != nil {
		gate := last.CompletedAt.Add(s.offseasonGap)
		if s.now().Before(gate) {
			return s.report(interfaces.TickIdle, season, "",
				fmt.Sprintf("offseason until %s", gate.Format(time.RFC3339))), nil
		}
	}

	created, err := s.seeder.CreateSeason(ctx, season.SeasonNumber+1)
	if err != nil {
		return nil, err
	}
	return s.report(interfaces.TickCreateSeason, created, "",
		fmt.Sprintf("season %d", created.SeasonNumber)), nil
}

func (s *SeasonService) report(action interfaces.TickAction, season *models.Season, gameID, detail string) *interfaces.TickReport {
	return &interfaces.TickReport{
		Action:       action,
		SeasonID:     season.ID,
		SeasonNumber: season.SeasonNumber,
		Week:         season.CurrentWeek,
		Status:       season.Status,
		GameID:       gameID,
		Detail:       detail,
	}
}
