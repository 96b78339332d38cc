package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"gridblitz/config"
	"gridblitz/interfaces"
	"gridblitz/logging"
	"gridblitz/metrics"
	"gridblitz/models"
	"gridblitz/services"

	"github.com/gorilla/mux"
)

// StreamHandler replays a game's event timeline to SSE viewers. Each
// connection is an independent task paced off the shared broadcast clock;
// the handler never writes to the store.
type StreamHandler struct {
	broadcast interfaces.BroadcastService
	cfg       config.BroadcastConfig
	gameGap   time.Duration
	now       func() time.Time
	logger    *logging.Logger
}

func NewStreamHandler(broadcast interfaces.BroadcastService, cfg config.BroadcastConfig, gameGap time.Duration) *StreamHandler {
	return &StreamHandler{
		broadcast: broadcast,
		cfg:       cfg,
		gameGap:   gameGap,
		now:       func() time.Time { return time.Now().UTC() },
		logger:    logging.WithPrefix("StreamHandler"),
	}
}

// Stream message payloads, one JSON object per data: frame.

type catchupMessage struct {
	Type      string               `json:"type"`
	Events    []models.GameEvent   `json:"events"`
	GameState *models.GameSnapshot `json:"gameState"`
}

type playMessage struct {
	Type  string           `json:"type"`
	Event models.GameEvent `json:"event"`
}

type gameOverMessage struct {
	Type       string            `json:"type"`
	FinalScore map[string]int    `json:"finalScore"`
	BoxScore   *models.BoxScore  `json:"boxScore"`
	MVP        *models.PlayerRef `json:"mvp"`
}

type intermissionMessage struct {
	Type       string  `json:"type"`
	Message    string  `json:"message"`
	NextGameID *string `json:"nextGameId"`
	Countdown  int     `json:"countdown"`
}

type controlMessage struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
}

// StreamGame handles GET /api/game/{gameId}/stream.
func (h *StreamHandler) StreamGame(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache, no-transform")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	gameID := mux.Vars(r)["gameId"]
	ctx := r.Context()

	timeline, err := h.broadcast.LoadBroadcast(ctx, gameID)
	if errors.Is(err, models.ErrNotFound) {
		h.send(w, flusher, controlMessage{Type: "error", Message: "Game not found"})
		return
	}
	if err != nil {
		h.send(w, flusher, controlMessage{Type: "error", Message: "Unable to load game"})
		return
	}
	game := timeline.Game
	if len(timeline.Events) == 0 && game.Status == models.GameScheduled {
		h.send(w, flusher, controlMessage{Type: "error", Message: "Game has not started yet"})
		return
	}

	metrics.SSEClients.Inc()
	defer metrics.SSEClients.Dec()
	h.logger.Debugf("Viewer connected to game %s (%d events stored)", gameID, len(timeline.Events))

	var startedAt time.Time
	var elapsed time.Duration
	if game.BroadcastStartedAt != nil {
		startedAt = *game.BroadcastStartedAt
		elapsed = h.now().Sub(startedAt)
	}
	catchup, future := services.PartitionEvents(timeline.Events, elapsed, game.IsCompleted())

	heartbeat := time.NewTicker(h.cfg.HeartbeatInterval)
	defer heartbeat.Stop()
	var reconnect <-chan time.Time
	if h.cfg.ReconnectAfter > 0 {
		timer := time.NewTimer(h.cfg.ReconnectAfter)
		defer timer.Stop()
		reconnect = timer.C
	}

	var lastState *models.GameSnapshot
	if len(catchup) > 0 {
		lastState = &catchup[len(catchup)-1].GameState
	}
	if !h.send(w, flusher, catchupMessage{Type: "catchup", Events: catchup, GameState: lastState}) {
		return
	}

	for i := range future {
		delay := services.EventDelay(startedAt, future[i].DisplayTimestamp, h.now(), h.cfg.MaxEventDelay)
		if !h.wait(ctx, w, flusher, heartbeat.C, reconnect, delay) {
			return
		}
		if !h.send(w, flusher, playMessage{Type: "play", Event: future[i]}) {
			return
		}
		metrics.EventsStreamed.Inc()
	}

	// The timeline is exhausted: close out with the final and what's next.
	if !h.wait(ctx, w, flusher, heartbeat.C, reconnect, 1500*time.Millisecond) {
		return
	}
	h.send(w, flusher, gameOverMessage{
		Type:       "game_over",
		FinalScore: map[string]int{"home": game.HomeScore, "away": game.AwayScore},
		BoxScore:   game.BoxScore,
		MVP:        mvpOf(game),
	})
	if !h.wait(ctx, w, flusher, heartbeat.C, reconnect, 2*time.Second) {
		return
	}
	h.send(w, flusher, h.intermission(ctx, game))
}

func mvpOf(game *models.Game) *models.PlayerRef {
	if game.BoxScore == nil {
		return nil
	}
	return game.BoxScore.MVP
}

func (h *StreamHandler) intermission(ctx context.Context, game *models.Game) intermissionMessage {
	next, err := h.broadcast.NextGameInWeek(ctx, game)
	if err != nil {
		return intermissionMessage{Type: "intermission", Message: "Week complete", NextGameID: nil, Countdown: 0}
	}
	id := next.ID
	return intermissionMessage{
		Type:       "intermission",
		Message:    fmt.Sprintf("Up next: %s @ %s", next.AwayTeamID, next.HomeTeamID),
		NextGameID: &id,
		Countdown:  int(h.gameGap.Seconds()),
	}
}

// send writes one data frame. A write failure means the peer is gone.
func (h *StreamHandler) send(w http.ResponseWriter, flusher http.Flusher, msg interface{}) bool {
	payload, err := json.Marshal(msg)
	if err != nil {
		h.logger.Errorf("Failed to marshal stream message: %v", err)
		return false
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
		h.logger.Debugf("Viewer write failed: %v", fmt.Errorf("%w: %v", models.ErrTransportClosed, err))
		return false
	}
	flusher.Flush()
	return true
}

// wait sleeps for d while servicing heartbeats. It returns false when the
// viewer disconnected or the reconnect deadline fired, in which case the
// stream must produce no further play frames.
func (h *StreamHandler) wait(ctx context.Context, w http.ResponseWriter, flusher http.Flusher, heartbeat, reconnect <-chan time.Time, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return false
		case <-reconnect:
			h.send(w, flusher, controlMessage{Type: "reconnect"})
			return false
		case <-heartbeat:
			if _, err := fmt.Fprint(w, ": heartbeat\n\n"); err != nil {
				return false
			}
			flusher.Flush()
		case <-timer.C:
			return true
		}
	}
}
