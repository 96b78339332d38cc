package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gridblitz/config"
	"gridblitz/interfaces"
	"gridblitz/models"

	"github.com/gorilla/mux"
)

type fakeBroadcastService struct {
	timeline *interfaces.BroadcastTimeline
	loadErr  error
	next     *models.Game
	nextErr  error
}

func (f *fakeBroadcastService) LoadBroadcast(context.Context, string) (*interfaces.BroadcastTimeline, error) {
	return f.timeline, f.loadErr
}

func (f *fakeBroadcastService) NextGameInWeek(context.Context, *models.Game) (*models.Game, error) {
	return f.next, f.nextErr
}

func streamConfig() config.BroadcastConfig {
	return config.BroadcastConfig{
		MaxEventDelay:     10 * time.Second,
		HeartbeatInterval: 15 * time.Second,
		ReconnectAfter:    0,
	}
}

// streamFrames runs the handler to completion (or ctx expiry) and decodes
// every data: frame in order.
func streamFrames(t *testing.T, h *StreamHandler, ctx context.Context, gameID string) []map[string]interface{} {
	t.Helper()
	r := mux.NewRouter()
	r.HandleFunc("/api/game/{gameId}/stream", h.StreamGame)

	req := httptest.NewRequest("GET", "/api/game/"+gameID+"/stream", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("Content-Type = %q, want text/event-stream", ct)
	}

	var frames []map[string]interface{}
	for _, chunk := range strings.Split(rec.Body.String(), "\n\n") {
		chunk = strings.TrimSpace(chunk)
		if !strings.HasPrefix(chunk, "data: ") {
			continue
		}
		var frame map[string]interface{}
		if err := json.Unmarshal([]byte(strings.TrimPrefix(chunk, "data: ")), &frame); err != nil {
			t.Fatalf("bad frame %q: %v", chunk, err)
		}
		frames = append(frames, frame)
	}
	return frames
}

func streamEvents(n int, spacingMS int64) []models.GameEvent {
	events := make([]models.GameEvent, n)
	for i := range events {
		events[i] = models.GameEvent{
			GameID:           "g1",
			EventNumber:      i + 1,
			EventType:        "play",
			DisplayTimestamp: int64(i) * spacingMS,
			GameState:        models.GameSnapshot{HomeScore: i, Quarter: 1},
		}
	}
	return events
}

func TestStreamGameNotFound(t *testing.T) {
	h := NewStreamHandler(&fakeBroadcastService{loadErr: models.ErrNotFound}, streamConfig(), 15*time.Minute)
	frames := streamFrames(t, h, context.Background(), "missing")

	if len(frames) != 1 || frames[0]["type"] != "error" || frames[0]["message"] != "Game not found" {
		t.Fatalf("frames = %v, want single not-found error", frames)
	}
}

func TestStreamGameNotStarted(t *testing.T) {
	svc := &fakeBroadcastService{timeline: &interfaces.BroadcastTimeline{
		Game: &models.Game{ID: "g1", Status: models.GameScheduled},
	}}
	h := NewStreamHandler(svc, streamConfig(), 15*time.Minute)
	frames := streamFrames(t, h, context.Background(), "g1")

	if len(frames) != 1 || frames[0]["message"] != "Game has not started yet" {
		t.Fatalf("frames = %v, want single not-started error", frames)
	}
}

func TestStreamCompletedGameReplaysAndCloses(t *testing.T) {
	started := time.Now().UTC().Add(-time.Hour)
	svc := &fakeBroadcastService{
		timeline: &interfaces.BroadcastTimeline{
			Game: &models.Game{
				ID:                 "g1",
				Week:               4,
				Status:             models.GameCompleted,
				HomeScore:          27,
				AwayScore:          13,
				BroadcastStartedAt: &started,
			},
			Events: streamEvents(5, 4000),
		},
		next: &models.Game{ID: "g2", HomeTeamID: "BOS", AwayTeamID: "CHI", Week: 4},
	}
	h := NewStreamHandler(svc, streamConfig(), 15*time.Minute)
	frames := streamFrames(t, h, context.Background(), "g1")

	if len(frames) != 3 {
		t.Fatalf("got %d frames, want catchup + game_over + intermission: %v", len(frames), frames)
	}
	catchup := frames[0]
	if catchup["type"] != "catchup" {
		t.Fatalf("first frame type = %v", catchup["type"])
	}
	if events := catchup["events"].([]interface{}); len(events) != 5 {
		t.Errorf("catchup carried %d events, want all 5 for a completed game", len(events))
	}
	if catchup["gameState"] == nil {
		t.Error("catchup missing final gameState")
	}

	over := frames[1]
	if over["type"] != "game_over" {
		t.Fatalf("second frame type = %v", over["type"])
	}
	score := over["finalScore"].(map[string]interface{})
	if score["home"].(float64) != 27 || score["away"].(float64) != 13 {
		t.Errorf("finalScore = %v", score)
	}

	inter := frames[2]
	if inter["type"] != "intermission" {
		t.Fatalf("third frame type = %v", inter["type"])
	}
	if inter["nextGameId"] == nil || inter["nextGameId"].(string) != "g2" {
		t.Errorf("nextGameId = %v, want g2", inter["nextGameId"])
	}
	if inter["countdown"].(float64) != 900 {
		t.Errorf("countdown = %v, want 900 seconds", inter["countdown"])
	}
}

func TestStreamIntermissionAfterLastGameOfWeek(t *testing.T) {
	started := time.Now().UTC().Add(-time.Hour)
	svc := &fakeBroadcastService{
		timeline: &interfaces.BroadcastTimeline{
			Game: &models.Game{
				ID:                 "g1",
				Status:             models.GameCompleted,
				BroadcastStartedAt: &started,
			},
			Events: streamEvents(1, 0),
		},
		nextErr: models.ErrNotFound,
	}
	h := NewStreamHandler(svc, streamConfig(), 15*time.Minute)
	frames := streamFrames(t, h, context.Background(), "g1")

	inter := frames[len(frames)-1]
	if inter["type"] != "intermission" || inter["message"] != "Week complete" {
		t.Fatalf("closing frame = %v", inter)
	}
	if inter["nextGameId"] != nil {
		t.Errorf("nextGameId = %v, want null after the last game", inter["nextGameId"])
	}
}

func TestStreamMidBroadcastStopsOnDisconnect(t *testing.T) {
	started := time.Now().UTC()
	events := streamEvents(3, 0)
	// Past events land in catchup; this one stays minutes in the future.
	events[2].DisplayTimestamp = 10 * 60 * 1000
	svc := &fakeBroadcastService{timeline: &interfaces.BroadcastTimeline{
		Game: &models.Game{
			ID:                 "g1",
			Status:             models.GameBroadcasting,
			BroadcastStartedAt: &started,
		},
		Events: events,
	}}
	h := NewStreamHandler(svc, streamConfig(), 15*time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	begin := time.Now()
	frames := streamFrames(t, h, ctx, "g1")
	took := time.Since(begin)

	if took > 5*time.Second {
		t.Fatalf("handler held the connection %v after disconnect", took)
	}
	if len(frames) != 1 || frames[0]["type"] != "catchup" {
		t.Fatalf("frames = %v, want catchup only before disconnect", frames)
	}
	if events := frames[0]["events"].([]interface{}); len(events) != 2 {
		t.Errorf("catchup carried %d events, want the 2 already elapsed", len(events))
	}
}

func TestStreamReconnectDeadline(t *testing.T) {
	started := time.Now().UTC()
	events := streamEvents(2, 0)
	events[1].DisplayTimestamp = 10 * 60 * 1000
	svc := &fakeBroadcastService{timeline: &interfaces.BroadcastTimeline{
		Game: &models.Game{
			ID:                 "g1",
			Status:             models.GameBroadcasting,
			BroadcastStartedAt: &started,
		},
		Events: events,
	}}
	cfg := streamConfig()
	cfg.ReconnectAfter = 50 * time.Millisecond
	h := NewStreamHandler(svc, cfg, 15*time.Minute)

	frames := streamFrames(t, h, context.Background(), "g1")

	last := frames[len(frames)-1]
	if last["type"] != "reconnect" {
		t.Fatalf("last frame = %v, want reconnect before dropping the viewer", last)
	}
}
