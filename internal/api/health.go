package api

import (
	"context"
	"net/http"
	"time"

	respond "github.com/allana0-dev/refynely-backend/internal/api/respond"
)

// HealthPinger is implemented by store drivers that can probe their database.
type HealthPinger interface {
	HealthPing(ctx context.Context) error
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	db HealthPinger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db HealthPinger) *HealthHandler { return &HealthHandler{db: db} }

// CheckHealth handles GET /api/health
// Always returns 200; body reports service liveness only.
func (h *HealthHandler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// CheckStorageHealth handles GET /api/health/db
func (h *HealthHandler) CheckStorageHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.HealthPing(ctx); err != nil {
		respond.WriteJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "unhealthy",
			"error":     err.Error(),
			"timestamp": time.Now().Format(time.RFC3339),
		})
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
