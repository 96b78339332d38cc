package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gridblitz/interfaces"
	"gridblitz/logging"
	"gridblitz/models"
	"gridblitz/sim"

	"github.com/google/uuid"
)

// LeagueSeeder bootstraps the database with the 32 franchises, their
// rosters, and the first season. All generation is driven by the master
// seed so a wiped database rebuilds the identical league.
type LeagueSeeder struct {
	teamRepo      interfaces.TeamRepository
	playerRepo    interfaces.PlayerRepository
	seasonRepo    interfaces.SeasonRepository
	gameRepo      interfaces.GameRepository
	standingsRepo interfaces.StandingsRepository
	masterSeed    string
	logger        *logging.Logger
}

func NewLeagueSeeder(
	teamRepo interfaces.TeamRepository,
	playerRepo interfaces.PlayerRepository,
	seasonRepo interfaces.SeasonRepository,
	gameRepo interfaces.GameRepository,
	standingsRepo interfaces.StandingsRepository,
	masterSeed string,
) *LeagueSeeder {
	return &LeagueSeeder{
		teamRepo:      teamRepo,
		playerRepo:    playerRepo,
		seasonRepo:    seasonRepo,
		gameRepo:      gameRepo,
		standingsRepo: standingsRepo,
		masterSeed:    masterSeed,
		logger:        logging.WithPrefix("LeagueSeeder"),
	}
}

// franchise is the static identity of one team; ratings and play styles are
// drawn from the seeded RNG on top of this.
type franchise struct {
	abbr      string
	city      string
	mascot    string
	conf      models.Conference
	div       models.Division
	primary   string
	secondary string
}

var franchises = []franchise{
	// AFC East
	{"BOS", "Boston", "Minutemen", models.ConferenceAFC, models.DivisionEast, "#C8102E", "#F5F5F5"},
	{"BRK", "Brooklyn", "Kings", models.ConferenceAFC, models.DivisionEast, "#101820", "#FFD700"},
	{"HAR", "Hartford", "Stags", models.ConferenceAFC, models.DivisionEast, "#046A38", "#C0C0C0"},
	{"VAB", "Virginia Beach", "Breakers", models.ConferenceAFC, models.DivisionEast, "#0077C8", "#FF6B00"},
	// AFC North
	{"PIT", "Pittsburgh", "Forge", models.ConferenceAFC, models.DivisionNorth, "#FFB612", "#101820"},
	{"CLE", "Cleveland", "Crushers", models.ConferenceAFC, models.DivisionNorth, "#311D00", "#FF3C00"},
	{"BAL", "Baltimore", "Admirals", models.ConferenceAFC, models.DivisionNorth, "#241773", "#9E7C0C"},
	{"CBS", "Columbus", "Discoverers", models.ConferenceAFC, models.DivisionNorth, "#BA0C2F", "#A2AAAD"},
	// AFC South
	{"NSH", "Nashville", "Outlaws", models.ConferenceAFC, models.DivisionSouth, "#4B92DB", "#101820"},
	{"MEM", "Memphis", "Blues", models.ConferenceAFC, models.DivisionSouth, "#12173F", "#5D9AD3"},
	{"JAX", "Jacksonville", "Stingrays", models.ConferenceAFC, models.DivisionSouth, "#006778", "#D7A22A"},
	{"HOU", "Houston", "Wildcatters", models.ConferenceAFC, models.DivisionSouth, "#03202F", "#A71930"},
	// AFC West
	{"DEN", "Denver", "Summit", models.ConferenceAFC, models.DivisionWest, "#FB4F14", "#002244"},
	{"LVG", "Las Vegas", "Gamblers", models.ConferenceAFC, models.DivisionWest, "#000000", "#A5ACAF"},
	{"SDA", "San Diego", "Armada", models.ConferenceAFC, models.DivisionWest, "#0080C6", "#FFC20E"},
	{"OAK", "Oakland", "Grizzlies", models.ConferenceAFC, models.DivisionWest, "#4F2D7F", "#C4CED4"},
	// NFC East
	{"PHI", "Philadelphia", "Founders", models.ConferenceNFC, models.DivisionEast, "#004C54", "#A5ACAF"},
	{"WAS", "Washington", "Sentinels", models.ConferenceNFC, models.DivisionEast, "#5A1414", "#FFB612"},
	{"NYE", "New York", "Empire", models.ConferenceNFC, models.DivisionEast, "#0B2265", "#A71930"},
	{"ACG", "Atlantic City", "Gulls", models.ConferenceNFC, models.DivisionEast, "#008E97", "#FC4C02"},
	// NFC North
	{"CHI", "Chicago", "Mechanics", models.ConferenceNFC, models.DivisionNorth, "#0B162A", "#C83803"},
	{"DET", "Detroit", "Motors", models.ConferenceNFC, models.DivisionNorth, "#0076B6", "#B0B7BC"},
	{"MIN", "Minneapolis", "Loons", models.ConferenceNFC, models.DivisionNorth, "#4F2683", "#FFC62F"},
	{"MKE", "Milwaukee", "Brewmasters", models.ConferenceNFC, models.DivisionNorth, "#203731", "#FFB612"},
	// NFC South
	{"ATL", "Atlanta", "Firebirds", models.ConferenceNFC, models.DivisionSouth, "#A71930", "#101820"},
	{"NOR", "New Orleans", "Revelers", models.ConferenceNFC, models.DivisionSouth, "#D3BC8D", "#101820"},
	{"TPA", "Tampa", "Cannons", models.ConferenceNFC, models.DivisionSouth, "#D50A0A", "#34302B"},
	{"CLT", "Charlotte", "Aviators", models.ConferenceNFC, models.DivisionSouth, "#0085CA", "#101820"},
	// NFC West
	{"SEA", "Seattle", "Evergreens", models.ConferenceNFC, models.DivisionWest, "#002244", "#69BE28"},
	{"SFO", "San Francisco", "Fog", models.ConferenceNFC, models.DivisionWest, "#AA0000", "#B3995D"},
	{"LAQ", "Los Angeles", "Quakes", models.ConferenceNFC, models.DivisionWest, "#003594", "#FFD100"},
	{"PHX", "Phoenix", "Scorpions", models.ConferenceNFC, models.DivisionWest, "#97233F", "#FFB612"},
}

var firstNames = []string{
	"Marcus", "DeShawn", "Tyler", "Jamal", "Connor", "Isaiah", "Brandon",
	"Xavier", "Caleb", "Darius", "Austin", "Malik", "Jordan", "Trevor",
	"Andre", "Logan", "Damien", "Cole", "Rashad", "Hunter", "Elijah",
	"Wyatt", "Terrell", "Gavin", "Jalen", "Mason", "Deonte", "Blake",
	"Quincy", "Nolan", "Kendrick", "Chase", "Omar", "Spencer", "Tariq",
	"Grant", "Devonte", "Reid", "Amari", "Walker", "Zion", "Pierce",
	"Lamont", "Brock", "Jevon", "Carson", "Tremaine", "Dalton",
}

var lastNames = []string{
	"Washington", "Brooks", "Callahan", "Ramsey", "Okafor", "Delgado",
	"Whitfield", "Barnes", "Kowalski", "Jefferson", "McAllister", "Rivers",
	"Thornton", "Vasquez", "Holloway", "Briggs", "Montgomery", "Slater",
	"Duval", "Hastings", "Ellison", "Pritchard", "Nakamura", "Beaumont",
	"Crowder", "Fontaine", "Gallagher", "Hendricks", "Irving", "Jessup",
	"Kirkland", "Lachance", "Mercer", "Novak", "Osborne", "Pemberton",
	"Quarles", "Redmond", "Satterfield", "Talbot", "Underwood", "Vance",
	"Wexler", "Yarbrough", "Zimmerman", "Ashford", "Boudreaux", "Caldwell",
}

// rosterPlan gives the position composition of every generated roster.
var rosterPlan = []struct {
	pos    models.Position
	count  int
	lo, hi int // jersey number range
}{
	{models.PositionQB, 3, 1, 19},
	{models.PositionRB, 4, 20, 49},
	{models.PositionWR, 6, 80, 89},
	{models.PositionTE, 3, 80, 89},
	{models.PositionOL, 5, 60, 79},
	{models.PositionDL, 4, 90, 99},
	{models.PositionLB, 4, 50, 59},
	{models.PositionCB, 4, 20, 39},
	{models.PositionS, 3, 20, 49},
	{models.PositionK, 1, 1, 9},
	{models.PositionP, 1, 1, 9},
}

// leagueSeed returns the seed that drives league generation. The master
// seed is per-deployment; a fixed fallback keeps development deterministic.
func (s *LeagueSeeder) leagueSeed() string {
	if s.masterSeed != "" {
		return s.masterSeed
	}
	return "gridblitz-default-league"
}

// EnsureLeague creates the 32 teams and their rosters if the database does
// not already hold them. Safe to call on every startup.
func (s *LeagueSeeder) EnsureLeague(ctx context.Context) error {
	teamCount, err := s.teamRepo.CountTeams(ctx)
	if err != nil {
		return fmt.Errorf("counting teams: %w", err)
	}
	playerCount, err := s.playerRepo.CountPlayers(ctx)
	if err != nil {
		return fmt.Errorf("counting players: %w", err)
	}
	if teamCount >= 32 && playerCount > 0 {
		s.logger.Debugf("League already seeded: %d teams, %d players", teamCount, playerCount)
		return nil
	}

	teams, players := GenerateLeague(s.leagueSeed())
	if err := s.teamRepo.BulkUpsertTeams(ctx, teams); err != nil {
		return fmt.Errorf("seeding teams: %w", err)
	}
	if err := s.playerRepo.BulkUpsertPlayers(ctx, players); err != nil {
		return fmt.Errorf("seeding players: %w", err)
	}
	s.logger.Infof("Seeded league: %d teams, %d players", len(teams), len(players))
	return nil
}

// GenerateLeague builds the full set of teams and players from a seed.
// Identical seeds produce identical leagues.
func GenerateLeague(seed string) ([]models.Team, []models.Player) {
	rng := sim.NewRNG(seed, "league", 0)

	teams := make([]models.Team, 0, len(franchises))
	players := make([]models.Player, 0, len(franchises)*38)

	styles := []sim.Weighted[models.PlayStyle]{
		{Value: models.StyleBalanced, Weight: 3},
		{Value: models.StylePassHeavy, Weight: 2},
		{Value: models.StyleRunHeavy, Weight: 2},
		{Value: models.StyleAggressive, Weight: 1.5},
		{Value: models.StyleConservative, Weight: 1.5},
	}

	for _, f := range franchises {
		team := models.Team{
			ID:             "team-" + f.abbr,
			Abbreviation:   f.abbr,
			City:           f.city,
			Mascot:         f.mascot,
			Conference:     f.conf,
			Division:       f.div,
			OffenseRating:  rng.IntBetween(62, 92),
			DefenseRating:  rng.IntBetween(62, 92),
			SpecialRating:  rng.IntBetween(65, 90),
			PlayStyle:      sim.WeightedChoice(rng, styles),
			PrimaryColor:   f.primary,
			SecondaryColor: f.secondary,
		}
		teams = append(teams, team)
		players = append(players, generateRoster(&team, rng)...)
	}
	return teams, players
}

// generateRoster builds one team's players. The first player drawn at each
// position gets a starter bump so depth charts have a clear front.
func generateRoster(team *models.Team, rng *sim.RNG) []models.Player {
	var out []models.Player
	usedNumbers := make(map[int]bool)
	serial := 0

	for _, slot := range rosterPlan {
		for i := 0; i < slot.count; i++ {
			serial++
			rating := rng.IntBetween(60, 84)
			if i == 0 {
				rating = rng.IntBetween(74, 95)
			}

			number := rng.IntBetween(slot.lo, slot.hi)
			for attempts := 0; usedNumbers[number] && attempts < 20; attempts++ {
				number = rng.IntBetween(slot.lo, slot.hi)
			}
			if usedNumbers[number] {
				number = 1 + serial%99
			}
			usedNumbers[number] = true

			name := firstNames[rng.IntBetween(0, len(firstNames)-1)] + " " +
				lastNames[rng.IntBetween(0, len(lastNames)-1)]

			out = append(out, models.Player{
				ID:           fmt.Sprintf("%s-p%02d", team.ID, serial),
				TeamID:       team.ID,
				Name:         name,
				Position:     slot.pos,
				JerseyNumber: number,
				Rating:       rating,
				Speed:        rng.IntBetween(60, 99),
				Strength:     rng.IntBetween(60, 99),
				Awareness:    rng.IntBetween(60, 99),
				ClutchRating: rng.IntBetween(60, 99),
				InjuryProne:  rng.Probability(0.12),
			})
		}
	}
	return out
}

// EnsureSeason returns the active season, creating season 1 when the
// database holds none.
func (s *LeagueSeeder) EnsureSeason(ctx context.Context) (*models.Season, error) {
	season, err := s.seasonRepo.GetCurrentSeason(ctx)
	if err == nil {
		return season, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("loading current season: %w", err)
	}
	return s.CreateSeason(ctx, 1)
}

// CreateSeason generates the schedule for season n and persists the season,
// its 272 regular season games, and zeroed standings.
func (s *LeagueSeeder) CreateSeason(ctx context.Context, seasonNumber int) (*models.Season, error) {
	teams, err := s.teamRepo.GetAllTeams(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading teams: %w", err)
	}

	masterSeed := s.masterSeed
	if masterSeed == "" {
		masterSeed, err = sim.GenerateServerSeed()
		if err != nil {
			return nil, fmt.Errorf("generating master seed: %w", err)
		}
	}

	scheduleRNG := sim.NewRNG(masterSeed, fmt.Sprintf("schedule-season-%d", seasonNumber), 0)
	schedule, err := sim.GenerateRegularSeason(teams, scheduleRNG)
	if err != nil {
		return nil, fmt.Errorf("generating schedule: %w", err)
	}

	season := &models.Season{
		ID:             uuid.NewString(),
		SeasonNumber:   seasonNumber,
		CurrentWeek:    1,
		TotalWeeks:     22,
		Status:         models.SeasonRegular,
		MasterSeed:     masterSeed,
		CreatedAt:      time.Now().UTC(),
		WeekAdvancedAt: time.Now().UTC(),
	}
	if err := s.seasonRepo.CreateSeason(ctx, season); err != nil {
		return nil, fmt.Errorf("creating season %d: %w", seasonNumber, err)
	}

	games := BuildWeekGames(season, schedule)
	if err := s.gameRepo.CreateGames(ctx, games); err != nil {
		return nil, fmt.Errorf("creating season %d games: %w", seasonNumber, err)
	}

	records := make([]models.TeamRecord, 0, len(teams))
	for _, t := range teams {
		records = append(records, models.TeamRecord{SeasonID: season.ID, TeamID: t.ID})
	}
	if err := s.standingsRepo.BulkUpsertRecords(ctx, records); err != nil {
		return nil, fmt.Errorf("initializing standings: %w", err)
	}

	s.logger.Infof("Created season %d: %d games over %d weeks",
		seasonNumber, len(games), len(schedule.Weeks))
	return season, nil
}

// BuildWeekGames turns a schedule into persisted Game documents with
// derived client seeds, one featured game per week.
func BuildWeekGames(season *models.Season, schedule *sim.Schedule) []models.Game {
	featuredRNG := sim.NewRNG(season.MasterSeed, fmt.Sprintf("featured-season-%d", season.SeasonNumber), 0)

	var games []models.Game
	for w, matchups := range schedule.Weeks {
		week := w + 1
		featured := featuredRNG.IntBetween(0, len(matchups)-1)
		for i, m := range matchups {
			games = append(games, NewScheduledGame(season, week, models.GameTypeRegular, m, i == featured))
		}
	}
	return games
}

// NewScheduledGame builds one game document. The client seed is derived
// from the master seed and the matchup so it is stable across reruns and
// published before simulation.
func NewScheduledGame(season *models.Season, week int, gameType models.GameType, m sim.Matchup, featured bool) models.Game {
	clientSeed := sim.HashSeed(fmt.Sprintf("%s:s%d:w%d:%s@%s",
		season.MasterSeed, season.SeasonNumber, week, m.AwayTeamID, m.HomeTeamID))

	return models.Game{
		ID:         uuid.NewString(),
		SeasonID:   season.ID,
		Week:       week,
		GameType:   gameType,
		HomeTeamID: m.HomeTeamID,
		AwayTeamID: m.AwayTeamID,
		Status:     models.GameScheduled,
		IsFeatured: featured,
		ClientSeed: clientSeed,
		CreatedAt:  time.Now().UTC(),
	}
}
