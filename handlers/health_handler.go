package handlers

import (
	"context"
	"net/http"
	"time"

	"gridblitz/database"
	"gridblitz/logging"
)

// HealthHandler reports process and database liveness.
type HealthHandler struct {
	db     *database.MongoDB
	logger *logging.Logger
}

func NewHealthHandler(db *database.MongoDB) *HealthHandler {
	return &HealthHandler{
		db:     db,
		logger: logging.WithPrefix("HealthHandler"),
	}
}

// Health handles GET /health.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		h.logger.Errorf("Health check failed: %v", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":   "degraded",
			"database": "unreachable",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "ok",
		"database": "connected",
	})
}
