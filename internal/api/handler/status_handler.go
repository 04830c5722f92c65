package handler

import (
	"database/sql"
	"net/http"
	"time"

	"profiledash/internal/common"

	"github.com/go-chi/chi/v5"
)

// StatusHandler is the operator-facing setup/status view: it reports whether
// the database behind the app is reachable. Connectivity problems surface
// here instead of being retried anywhere.
type StatusHandler struct {
	db *sql.DB
}

func NewStatusHandler(db *sql.DB) *StatusHandler {
	return &StatusHandler{db: db}
}

func (h *StatusHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.status)
}

func (h *StatusHandler) status(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"app":      "profiledash",
		"database": "ok",
		"time":     time.Now().UTC(),
	}

	if err := h.db.PingContext(r.Context()); err != nil {
		status["database"] = "unreachable: " + err.Error()
		common.RespondWithJSON(w, http.StatusServiceUnavailable, status)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, status)
}
