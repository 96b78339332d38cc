package handlers

import (
	"net/http"

	"gridblitz/interfaces"
	"gridblitz/logging"
)

// SimulateHandler is the cron entry point that drives the season forward.
type SimulateHandler struct {
	seasonService interfaces.SeasonService
	logger        *logging.Logger
}

func NewSimulateHandler(seasonService interfaces.SeasonService) *SimulateHandler {
	return &SimulateHandler{
		seasonService: seasonService,
		logger:        logging.WithPrefix("SimulateHandler"),
	}
}

// Simulate handles POST /api/simulate. Auth is applied by middleware; the
// body is ignored. Each call performs at most one tick action.
func (h *SimulateHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	report, err := h.seasonService.Tick(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
