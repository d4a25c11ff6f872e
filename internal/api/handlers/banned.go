package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/leejgdh/youtube-dj/internal/api/middleware"
	"github.com/leejgdh/youtube-dj/internal/db"
	"github.com/leejgdh/youtube-dj/internal/db/models"
	"github.com/leejgdh/youtube-dj/internal/queue"
	"github.com/leejgdh/youtube-dj/internal/youtube"
	"go.uber.org/zap"
)

type BanStore interface {
	BanSong(b models.BannedSong) (*models.BannedSong, error)
	ListBannedSongs() ([]models.BannedSong, error)
	UnbanSong(id int64) error
	IsBanned(youtubeURL, videoID string) (bool, error)
}

type BanHandler struct {
	store BanStore
	hub   Hub
	meta  MetadataResolver
	log   *zap.Logger
}

func NewBanHandler(store BanStore, hub Hub, meta MetadataResolver, log *zap.Logger) *BanHandler {
	return &BanHandler{store: store, hub: hub, meta: meta, log: log.Named("ban")}
}

type banRequest struct {
	YoutubeURL string `json:"youtubeUrl" validate:"required"`
	VideoID    string `json:"videoId"`
	Title      string `json:"title" validate:"max=300"`
	Author     string `json:"author" validate:"max=200"`
}

type banResponse struct {
	Song    *models.BannedSong `json:"song"`
	Removed int                `json:"removed"`
}

// List returns the ban list, newest first.
func (h *BanHandler) List(w http.ResponseWriter, r *http.Request) {
	songs, err := h.store.ListBannedSongs()
	if err != nil {
		h.log.Error("list banned songs", zap.Error(err))
		jsonError(w, "failed to list banned songs", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, songs, http.StatusOK)
}

// Create bans a song and purges it from the live queue. Connected clients get
// the resulting playlist events and song-ban-result.
func (h *BanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req banRequest
	if err := decodeBody(r, &req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		jsonError(w, "youtubeUrl is required", http.StatusBadRequest)
		return
	}
	if !youtube.IsValidURL(req.YoutubeURL) {
		jsonError(w, "invalid YouTube URL", http.StatusBadRequest)
		return
	}
	if req.VideoID == "" {
		req.VideoID, _ = youtube.ExtractVideoID(req.YoutubeURL)
	}
	if req.Title == "" && h.meta != nil {
		if md, err := h.meta.Resolve(r.Context(), req.YoutubeURL); err == nil && md.Resolved {
			req.Title = md.Title
			if req.Author == "" {
				req.Author = md.Author
			}
		}
	}

	bannedBy := ""
	if claims := middleware.GetClaims(r); claims != nil {
		bannedBy = claims.Username
	}

	song, err := h.store.BanSong(models.BannedSong{
		YoutubeURL: req.YoutubeURL,
		VideoID:    req.VideoID,
		Title:      req.Title,
		Author:     req.Author,
		BannedBy:   bannedBy,
	})
	if errors.Is(err, db.ErrAlreadyBanned) {
		jsonError(w, "song is already banned", http.StatusConflict)
		return
	}
	if err != nil {
		h.log.Error("ban song", zap.String("url", req.YoutubeURL), zap.Error(err))
		jsonError(w, "failed to ban song", http.StatusInternalServerError)
		return
	}

	match := queue.BanMatch{YoutubeURL: song.YoutubeURL, VideoID: song.VideoID, Title: song.Title, Author: song.Author}
	removed := 0
	err = h.hub.Do(r.Context(), func(e *queue.Engine) []queue.Event {
		events := e.PurgeBanned(match, queue.Broadcast)
		for _, ev := range events {
			if res, ok := ev.Payload.(queue.BanResult); ok {
				removed = res.Removed
			}
		}
		return events
	})
	if err != nil {
		// the ban is stored; intake refuses the song from now on
		h.log.Warn("live purge skipped", zap.Int64("id", song.ID), zap.Error(err))
	}

	h.log.Info("song banned", zap.Int64("id", song.ID), zap.String("url", song.YoutubeURL),
		zap.String("by", bannedBy), zap.Int("removed", removed))
	jsonResponse(w, banResponse{Song: song, Removed: removed}, http.StatusCreated)
}

// Delete lifts a ban: DELETE /api/admin/banned-songs?id=<id>.
func (h *BanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil || id <= 0 {
		jsonError(w, "valid id is required", http.StatusBadRequest)
		return
	}

	if err := h.store.UnbanSong(id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			jsonError(w, "banned song not found", http.StatusNotFound)
			return
		}
		h.log.Error("unban song", zap.Int64("id", id), zap.Error(err))
		jsonError(w, "failed to unban song", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, map[string]bool{"success": true}, http.StatusOK)
}

type checkRequest struct {
	YoutubeURL string `json:"youtubeUrl"`
	VideoID    string `json:"videoId"`
}

// Check tells the request form whether a link is banned before it is sent.
func (h *BanHandler) Check(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if err := decodeBody(r, &req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.YoutubeURL == "" && req.VideoID == "" {
		jsonError(w, "youtubeUrl or videoId is required", http.StatusBadRequest)
		return
	}
	if req.VideoID == "" {
		req.VideoID, _ = youtube.ExtractVideoID(req.YoutubeURL)
	}

	banned, err := h.store.IsBanned(req.YoutubeURL, req.VideoID)
	if err != nil {
		h.log.Error("check banned", zap.String("url", req.YoutubeURL), zap.Error(err))
		jsonError(w, "failed to check ban list", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, map[string]bool{"banned": banned}, http.StatusOK)
}
