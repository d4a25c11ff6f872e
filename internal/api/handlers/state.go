package handlers

import (
	"net/http"
	"time"

	"github.com/leejgdh/youtube-dj/internal/intake"
	"go.uber.org/zap"
)

var startTime = time.Now()

type Pinger interface {
	Ping() error
}

type IntakeStats interface {
	Stats() intake.Stats
}

type StateHandler struct {
	hub    Hub
	db     Pinger
	intake IntakeStats
	log    *zap.Logger
}

func NewStateHandler(hub Hub, db Pinger, intake IntakeStats, log *zap.Logger) *StateHandler {
	return &StateHandler{hub: hub, db: db, intake: intake, log: log}
}

func (h *StateHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	body := map[string]interface{}{
		"status":         "ok",
		"clients":        h.hub.Clients(),
		"uptime_seconds": int(time.Since(startTime).Seconds()),
	}
	if h.intake != nil {
		body["intake"] = h.intake.Stats()
	}
	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			h.log.Error("health: database unreachable", zap.Error(err))
			body["status"] = "degraded"
			body["database"] = "unreachable"
			status = http.StatusServiceUnavailable
		}
	}
	jsonResponse(w, body, status)
}

// State returns the current queue snapshot.
func (h *StateHandler) State(w http.ResponseWriter, r *http.Request) {
	st, err := h.hub.Snapshot(r.Context())
	if err != nil {
		jsonError(w, "state unavailable", http.StatusServiceUnavailable)
		return
	}
	jsonResponse(w, st, http.StatusOK)
}
