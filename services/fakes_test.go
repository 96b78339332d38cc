package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"gridblitz/models"
)

// memStore is an in-memory stand-in for the Mongo repositories. It keeps
// the same guarded-transition semantics so the tick state machine can be
// exercised without a database.
type memStore struct {
	mu      sync.Mutex
	teams   map[string]models.Team
	players map[string][]models.Player
	seasons map[string]*models.Season
	games   map[string]*models.Game
	events  map[string][]models.GameEvent
	records map[string]map[string]*models.TeamRecord
}

func newMemStore() *memStore {
	return &memStore{
		teams:   make(map[string]models.Team),
		players: make(map[string][]models.Player),
		seasons: make(map[string]*models.Season),
		games:   make(map[string]*models.Game),
		events:  make(map[string][]models.GameEvent),
		records: make(map[string]map[string]*models.TeamRecord),
	}
}

// --- TeamRepository ---

func (m *memStore) BulkUpsertTeams(_ context.Context, teams []models.Team) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range teams {
		m.teams[t.ID] = t
	}
	return nil
}

func (m *memStore) GetAllTeams(_ context.Context) ([]models.Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Team, 0, len(m.teams))
	for _, t := range m.teams {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) GetTeamByID(_ context.Context, id string) (*models.Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.teams[id]
	if !ok {
		return nil, fmt.Errorf("team %s: %w", id, models.ErrNotFound)
	}
	return &t, nil
}

func (m *memStore) CountTeams(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.teams)), nil
}

// --- PlayerRepository ---

func (m *memStore) BulkUpsertPlayers(_ context.Context, players []models.Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range players {
		m.players[p.TeamID] = append(m.players[p.TeamID], p)
	}
	return nil
}

func (m *memStore) GetRoster(_ context.Context, teamID string) (*models.Roster, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ps, ok := m.players[teamID]
	if !ok || len(ps) == 0 {
		return nil, fmt.Errorf("roster for %s: %w", teamID, models.ErrNotFound)
	}
	return models.NewRoster(teamID, ps), nil
}

func (m *memStore) CountPlayers(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, ps := range m.players {
		n += int64(len(ps))
	}
	return n, nil
}

// --- SeasonRepository ---

func (m *memStore) CreateSeason(_ context.Context, season *models.Season) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *season
	m.seasons[season.ID] = &cp
	return nil
}

func (m *memStore) GetCurrentSeason(_ context.Context) (*models.Season, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var newest *models.Season
	for _, s := range m.seasons {
		if newest == nil || s.SeasonNumber > newest.SeasonNumber {
			newest = s
		}
	}
	if newest == nil {
		return nil, fmt.Errorf("current season: %w", models.ErrNotFound)
	}
	cp := *newest
	return &cp, nil
}

func (m *memStore) GetSeasonByID(_ context.Context, id string) (*models.Season, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.seasons[id]
	if !ok {
		return nil, fmt.Errorf("season %s: %w", id, models.ErrNotFound)
	}
	cp := *s
	return &cp, nil
}

func (m *memStore) AdvanceStatus(_ context.Context, seasonID string, from, to models.SeasonStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.seasons[seasonID]
	if !ok {
		return fmt.Errorf("season %s: %w", seasonID, models.ErrNotFound)
	}
	if !from.CanTransitionTo(to) || s.Status != from {
		return fmt.Errorf("season %s is not %s: %w", seasonID, from, models.ErrInvalidState)
	}
	s.Status = to
	return nil
}

func (m *memStore) AdvanceWeek(_ context.Context, seasonID string, fromWeek int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.seasons[seasonID]
	if !ok {
		return fmt.Errorf("season %s: %w", seasonID, models.ErrNotFound)
	}
	if s.CurrentWeek != fromWeek {
		return fmt.Errorf("season %s is not at week %d: %w", seasonID, fromWeek, models.ErrInvalidState)
	}
	s.CurrentWeek++
	s.WeekAdvancedAt = time.Now().UTC()
	return nil
}

// --- GameRepository ---

func (m *memStore) CreateGames(_ context.Context, games []models.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range games {
		cp := games[i]
		m.games[cp.ID] = &cp
	}
	return nil
}

func (m *memStore) GetGameByID(_ context.Context, id string) (*models.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.games[id]
	if !ok {
		return nil, fmt.Errorf("game %s: %w", id, models.ErrNotFound)
	}
	cp := *g
	return &cp, nil
}

func (m *memStore) GetGamesByWeek(_ context.Context, seasonID string, week int) ([]models.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Game
	for _, g := range m.games {
		if g.SeasonID == seasonID && g.Week == week {
			out = append(out, *g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) GetBroadcastingGame(_ context.Context, seasonID string) (*models.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, g := range m.games {
		if g.SeasonID == seasonID && g.Status == models.GameBroadcasting {
			cp := *g
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("broadcasting game: %w", models.ErrNotFound)
}

func (m *memStore) GetNextScheduledGame(_ context.Context, seasonID string) (*models.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var best *models.Game
	for _, g := range m.games {
		if g.SeasonID != seasonID || g.Status != models.GameScheduled {
			continue
		}
		if best == nil || g.Week < best.Week ||
			(g.Week == best.Week && g.IsFeatured && !best.IsFeatured) ||
			(g.Week == best.Week && g.IsFeatured == best.IsFeatured && g.ID < best.ID) {
			best = g
		}
	}
	if best == nil {
		return nil, fmt.Errorf("next scheduled game: %w", models.ErrNotFound)
	}
	cp := *best
	return &cp, nil
}

func (m *memStore) GetLastCompletedGame(_ context.Context, seasonID string) (*models.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var best *models.Game
	for _, g := range m.games {
		if g.SeasonID != seasonID || g.Status != models.GameCompleted || g.CompletedAt == nil {
			continue
		}
		if best == nil || g.CompletedAt.After(*best.CompletedAt) {
			best = g
		}
	}
	if best == nil {
		return nil, fmt.Errorf("last completed game: %w", models.ErrNotFound)
	}
	cp := *best
	return &cp, nil
}

func (m *memStore) CountByStatus(_ context.Context, seasonID string, week int, status models.GameStatus) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, g := range m.games {
		if g.SeasonID == seasonID && g.Week == week && g.Status == status {
			n++
		}
	}
	return n, nil
}

func (m *memStore) BeginSimulation(_ context.Context, gameID, serverSeedHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.games[gameID]
	if !ok || g.Status != models.GameScheduled {
		return fmt.Errorf("game %s is not scheduled: %w", gameID, models.ErrInvalidState)
	}
	g.Status = models.GameSimulating
	g.ServerSeedHash = serverSeedHash
	return nil
}

func (m *memStore) StartBroadcast(_ context.Context, game *models.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.games[game.ID]
	if !ok || g.Status != models.GameSimulating {
		return fmt.Errorf("game %s is not simulating: %w", game.ID, models.ErrInvalidState)
	}
	now := time.Now().UTC()
	g.Status = models.GameBroadcasting
	g.HomeScore = game.HomeScore
	g.AwayScore = game.AwayScore
	g.TotalPlays = game.TotalPlays
	g.Nonce = game.Nonce
	g.BoxScore = game.BoxScore
	g.ServerSeed = game.ServerSeed
	g.BroadcastStartedAt = &now
	game.Status = models.GameBroadcasting
	game.BroadcastStartedAt = &now
	return nil
}

func (m *memStore) CompleteGame(_ context.Context, gameID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.games[gameID]
	if !ok || g.Status != models.GameBroadcasting {
		return fmt.Errorf("game %s is not broadcasting: %w", gameID, models.ErrInvalidState)
	}
	now := time.Now().UTC()
	g.Status = models.GameCompleted
	g.CompletedAt = &now
	return nil
}

// --- EventRepository ---

func (m *memStore) AppendEvents(_ context.Context, events []models.GameEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ev := range events {
		m.events[ev.GameID] = append(m.events[ev.GameID], ev)
	}
	return nil
}

func (m *memStore) GetEventsByGame(_ context.Context, gameID string) ([]models.GameEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.GameEvent, len(m.events[gameID]))
	copy(out, m.events[gameID])
	return out, nil
}

func (m *memStore) GetEventsAfter(_ context.Context, gameID string, after int) ([]models.GameEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.GameEvent
	for _, ev := range m.events[gameID] {
		if ev.EventNumber > after {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (m *memStore) CountByGame(_ context.Context, gameID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.events[gameID])), nil
}

// --- StandingsRepository ---

func (m *memStore) BulkUpsertRecords(_ context.Context, records []models.TeamRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range records {
		if m.records[r.SeasonID] == nil {
			m.records[r.SeasonID] = make(map[string]*models.TeamRecord)
		}
		cp := r
		m.records[r.SeasonID][r.TeamID] = &cp
	}
	return nil
}

func (m *memStore) UpsertRecord(_ context.Context, record *models.TeamRecord) error {
	return m.BulkUpsertRecords(context.Background(), []models.TeamRecord{*record})
}

func (m *memStore) GetRecordsBySeason(_ context.Context, seasonID string) ([]models.TeamRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.TeamRecord
	for _, r := range m.records[seasonID] {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TeamID < out[j].TeamID })
	return out, nil
}

func (m *memStore) GetRecord(_ context.Context, seasonID, teamID string) (*models.TeamRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[seasonID][teamID]
	if !ok {
		return nil, fmt.Errorf("record for team %s: %w", teamID, models.ErrNotFound)
	}
	cp := *r
	return &cp, nil
}
