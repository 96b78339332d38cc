package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"gridblitz/interfaces"
	"gridblitz/models"

	"github.com/gorilla/mux"
)

type fakeGameService struct {
	summary   *interfaces.CurrentGameSummary
	game      *models.PublicGame
	games     []models.PublicGame
	standings []models.TeamRecord
	report    *interfaces.VerificationReport
	err       error
}

func (f *fakeGameService) GetCurrentGame(context.Context) (*interfaces.CurrentGameSummary, error) {
	return f.summary, f.err
}

func (f *fakeGameService) GetGameByID(context.Context, string) (*models.PublicGame, error) {
	return f.game, f.err
}

func (f *fakeGameService) GetWeekGames(context.Context, int) ([]models.PublicGame, error) {
	return f.games, f.err
}

func (f *fakeGameService) GetStandings(context.Context) ([]models.TeamRecord, error) {
	return f.standings, f.err
}

func (f *fakeGameService) VerifyGame(context.Context, string) (*interfaces.VerificationReport, error) {
	return f.report, f.err
}

func gameRouter(svc interfaces.GameService) *mux.Router {
	h := NewGameHandler(svc)
	r := mux.NewRouter()
	r.HandleFunc("/api/game/current", h.GetCurrentGame).Methods("GET")
	r.HandleFunc("/api/game/{gameId}/verify", h.VerifyGame).Methods("GET")
	r.HandleFunc("/api/game/{gameId}", h.GetGame).Methods("GET")
	r.HandleFunc("/api/games/week/{week}", h.GetWeekGames).Methods("GET")
	r.HandleFunc("/api/standings", h.GetStandings).Methods("GET")
	return r
}

func TestGetGameNotFound(t *testing.T) {
	svc := &fakeGameService{err: fmt.Errorf("game g9: %w", models.ErrNotFound)}
	rec := httptest.NewRecorder()
	gameRouter(svc).ServeHTTP(rec, httptest.NewRequest("GET", "/api/game/g9", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if body["error"] == "" {
		t.Error("error body missing message")
	}
}

func TestGetGameHidesScoresInFlight(t *testing.T) {
	svc := &fakeGameService{game: &models.PublicGame{
		ID:             "g1",
		Status:         models.GameBroadcasting,
		ServerSeedHash: "ffff",
	}}
	rec := httptest.NewRecorder()
	gameRouter(svc).ServeHTTP(rec, httptest.NewRequest("GET", "/api/game/g1", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body["homeScore"] != nil || body["serverSeed"] != nil {
		t.Errorf("spoilers in response: homeScore=%v serverSeed=%v", body["homeScore"], body["serverSeed"])
	}
	if body["serverSeedHash"] != "ffff" {
		t.Error("commitment hash missing from response")
	}
}

func TestGetCurrentGameSummaryPayload(t *testing.T) {
	svc := &fakeGameService{summary: &interfaces.CurrentGameSummary{
		SeasonStatus: models.SeasonRegular,
		SeasonNumber: 2,
		CurrentWeek:  7,
		WeekProgress: interfaces.WeekProgress{Completed: 5, Total: 16},
	}}
	rec := httptest.NewRecorder()
	gameRouter(svc).ServeHTTP(rec, httptest.NewRequest("GET", "/api/game/current", nil))

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body["seasonNumber"].(float64) != 2 || body["currentWeek"].(float64) != 7 {
		t.Errorf("season snapshot wrong: %v", body)
	}
	progress := body["weekProgress"].(map[string]interface{})
	if progress["completed"].(float64) != 5 || progress["total"].(float64) != 16 {
		t.Errorf("weekProgress = %v", progress)
	}
	if current, ok := body["currentGame"]; !ok || current != nil {
		t.Errorf("currentGame should be explicit null during intermission, got %v (present %t)", current, ok)
	}
}

func TestGetWeekGamesValidatesWeek(t *testing.T) {
	svc := &fakeGameService{}
	for _, path := range []string{"/api/games/week/0", "/api/games/week/23", "/api/games/week/abc"} {
		rec := httptest.NewRecorder()
		gameRouter(svc).ServeHTTP(rec, httptest.NewRequest("GET", path, nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s -> %d, want 400", path, rec.Code)
		}
	}
}

func TestVerifyGameMismatchStillReports(t *testing.T) {
	svc := &fakeGameService{
		report: &interfaces.VerificationReport{GameID: "g1", Verified: false, TotalDraws: 100},
		err:    fmt.Errorf("game g1: %w", models.ErrSeedMismatch),
	}
	rec := httptest.NewRecorder()
	gameRouter(svc).ServeHTTP(rec, httptest.NewRequest("GET", "/api/game/g1/verify", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 with unverified report", rec.Code)
	}
	var body map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["verified"] != false {
		t.Errorf("verified = %v, want false", body["verified"])
	}
}

func TestVerifyGameInvalidStateMapsTo409(t *testing.T) {
	svc := &fakeGameService{err: fmt.Errorf("not done: %w", models.ErrInvalidState)}
	rec := httptest.NewRecorder()
	gameRouter(svc).ServeHTTP(rec, httptest.NewRequest("GET", "/api/game/g1/verify", nil))

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}
