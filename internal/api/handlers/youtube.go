package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/leejgdh/youtube-dj/internal/youtube"
)

// MetadataResolver looks up a YouTube link.
type MetadataResolver interface {
	Resolve(ctx context.Context, raw string) (youtube.Metadata, error)
}

type YouTubeHandler struct {
	meta MetadataResolver
}

func NewYouTubeHandler(meta MetadataResolver) *YouTubeHandler {
	return &YouTubeHandler{meta: meta}
}

type resolveRequest struct {
	URL string `json:"url" validate:"required"`
}

// Resolve returns title, channel and thumbnail for the request form. Lookup
// failures still answer 200 with placeholder values.
func (h *YouTubeHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := decodeBody(r, &req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		jsonError(w, "url is required", http.StatusBadRequest)
		return
	}

	md, err := h.meta.Resolve(r.Context(), req.URL)
	if errors.Is(err, youtube.ErrInvalidURL) {
		jsonError(w, "invalid YouTube URL", http.StatusBadRequest)
		return
	}
	if err != nil {
		jsonError(w, "failed to resolve video", http.StatusBadGateway)
		return
	}
	jsonResponse(w, md, http.StatusOK)
}
