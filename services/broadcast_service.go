package services

import (
	"context"
	"time"

	"gridblitz/interfaces"
	"gridblitz/logging"
	"gridblitz/models"
)

// BroadcastService reads replay timelines for the stream handler. It never
// writes; finalization belongs to the season controller.
type BroadcastService struct {
	gameRepo  interfaces.GameRepository
	eventRepo interfaces.EventRepository
	logger    *logging.Logger
}

func NewBroadcastService(gameRepo interfaces.GameRepository, eventRepo interfaces.EventRepository) *BroadcastService {
	return &BroadcastService{
		gameRepo:  gameRepo,
		eventRepo: eventRepo,
		logger:    logging.WithPrefix("BroadcastService"),
	}
}

// LoadBroadcast returns a game and its full ordered event log.
func (s *BroadcastService) LoadBroadcast(ctx context.Context, gameID string) (*interfaces.BroadcastTimeline, error) {
	game, err := s.gameRepo.GetGameByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	events, err := s.eventRepo.GetEventsByGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return &interfaces.BroadcastTimeline{Game: game, Events: events}, nil
}

// NextGameInWeek returns the next scheduled game in the same week as the
// given game, or ErrNotFound when the week is played out.
func (s *BroadcastService) NextGameInWeek(ctx context.Context, game *models.Game) (*models.Game, error) {
	games, err := s.gameRepo.GetGamesByWeek(ctx, game.SeasonID, game.Week)
	if err != nil {
		return nil, err
	}
	for i := range games {
		if games[i].Status == models.GameScheduled && games[i].ID != game.ID {
			return &games[i], nil
		}
	}
	return nil, models.ErrNotFound
}

// PartitionEvents splits a timeline into events the viewer has already
// missed and events still to come. A completed game is all catchup.
func PartitionEvents(events []models.GameEvent, elapsed time.Duration, completed bool) (catchup, future []models.GameEvent) {
	if completed {
		return events, nil
	}
	elapsedMS := elapsed.Milliseconds()
	split := len(events)
	for i, ev := range events {
		if ev.DisplayTimestamp > elapsedMS {
			split = i
			break
		}
	}
	return events[:split], events[split:]
}

// EventDelay computes the cancellable sleep before emitting one future
// event, capped so a stalled clock can never wedge a stream.
func EventDelay(startedAt time.Time, displayTimestampMS int64, now time.Time, maxDelay time.Duration) time.Duration {
	due := startedAt.Add(time.Duration(displayTimestampMS) * time.Millisecond)
	delay := due.Sub(now)
	if delay < 0 {
		return 0
	}
	if delay > maxDelay {
		return maxDelay
	}
	return delay
}
