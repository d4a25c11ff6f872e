package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/leejgdh/youtube-dj/internal/api/middleware"
)

type AdminHandler struct {
	hub     Hub
	intake  IntakeStats
	limiter *middleware.RateLimiter
}

func NewAdminHandler(hub Hub, intake IntakeStats, limiter *middleware.RateLimiter) *AdminHandler {
	return &AdminHandler{hub: hub, intake: intake, limiter: limiter}
}

// Stats reports queue sizes and process health for the admin page.
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.hub.Snapshot(r.Context())
	if err != nil {
		jsonError(w, "state unavailable", http.StatusServiceUnavailable)
		return
	}

	var memStat runtime.MemStats
	runtime.ReadMemStats(&memStat)

	body := map[string]interface{}{
		"queue": map[string]interface{}{
			"playlist":          len(st.Playlist),
			"pending":           len(st.PendingRequests),
			"history":           len(st.PlayHistory),
			"playing":           st.IsPlaying,
			"approval_required": st.AdminMode.ApprovalRequired,
		},
		"clients": h.hub.Clients(),
		"system": map[string]interface{}{
			"go_version":     runtime.Version(),
			"goroutines":     runtime.NumGoroutine(),
			"uptime_seconds": int(time.Since(startTime).Seconds()),
			"mem_alloc":      memStat.Alloc,
			"mem_sys":        memStat.Sys,
		},
	}
	if h.intake != nil {
		body["intake"] = h.intake.Stats()
	}
	jsonResponse(w, body, http.StatusOK)
}

func (h *AdminHandler) RateLimits(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, h.limiter.Status(), http.StatusOK)
}

func (h *AdminHandler) ClearRateLimits(w http.ResponseWriter, r *http.Request) {
	h.limiter.Clear()
	jsonResponse(w, map[string]bool{"success": true}, http.StatusOK)
}
