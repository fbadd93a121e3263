package handler

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/oseni-a/paystack-marketplace/internal/cache"
)

type HealthHandler struct {
	db    *sql.DB
	cache *cache.Cache
}

func NewHealthHandler(db *sql.DB, c *cache.Cache) *HealthHandler {
	return &HealthHandler{db: db, cache: c}
}

func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"database": "ok"}
	httpStatus := http.StatusOK

	if err := h.db.PingContext(r.Context()); err != nil {
		slog.Warn("readiness check failed: database unreachable", "error", err)
		checks["database"] = "down"
		httpStatus = http.StatusServiceUnavailable
	}

	if h.cache != nil {
		checks["redis"] = "ok"
		if err := h.cache.Ping(r.Context()); err != nil {
			// The cache is an optimization, not a dependency.
			slog.Warn("readiness check: redis unreachable", "error", err)
			checks["redis"] = "down"
		}
	}

	status := "ok"
	if httpStatus != http.StatusOK {
		status = "down"
	}

	RespondJSON(w, httpStatus, map[string]any{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks":    checks,
	})
}
