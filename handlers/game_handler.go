package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"gridblitz/interfaces"
	"gridblitz/logging"
	"gridblitz/models"

	"github.com/gorilla/mux"
)

// GameHandler serves the read-only game API.
type GameHandler struct {
	gameService interfaces.GameService
	logger      *logging.Logger
}

func NewGameHandler(gameService interfaces.GameService) *GameHandler {
	return &GameHandler{
		gameService: gameService,
		logger:      logging.WithPrefix("GameHandler"),
	}
}

// GetCurrentGame handles GET /api/game/current.
func (h *GameHandler) GetCurrentGame(w http.ResponseWriter, r *http.Request) {
	summary, err := h.gameService.GetCurrentGame(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// GetGame handles GET /api/game/{gameId}. Scores and the server seed are
// absent until the game completes.
func (h *GameHandler) GetGame(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["gameId"]
	game, err := h.gameService.GetGameByID(r.Context(), gameID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, game)
}

// GetWeekGames handles GET /api/games/week/{week}.
func (h *GameHandler) GetWeekGames(w http.ResponseWriter, r *http.Request) {
	week, err := strconv.Atoi(mux.Vars(r)["week"])
	if err != nil || week < 1 || week > 22 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "week must be 1-22"})
		return
	}
	games, err := h.gameService.GetWeekGames(r.Context(), week)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"week": week, "games": games})
}

// GetStandings handles GET /api/standings.
func (h *GameHandler) GetStandings(w http.ResponseWriter, r *http.Request) {
	records, err := h.gameService.GetStandings(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"standings": records})
}

// VerifyGame handles GET /api/game/{gameId}/verify. A mismatch is reported
// in the body, not hidden behind an opaque status.
func (h *GameHandler) VerifyGame(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["gameId"]
	report, err := h.gameService.VerifyGame(r.Context(), gameID)
	if err != nil {
		if errors.Is(err, models.ErrSeedMismatch) && report != nil {
			h.logger.Errorf("Integrity failure on game %s", gameID)
			writeJSON(w, http.StatusOK, report)
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
