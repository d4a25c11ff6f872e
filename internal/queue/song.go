package queue

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/leejgdh/youtube-dj/internal/youtube"
)

// PlaceholderTitle is used when metadata could not be resolved upstream.
const PlaceholderTitle = youtube.PlaceholderTitle

var ErrNicknameRequired = errors.New("nickname is required")

var validate = validator.New()

// SongRequest is the raw payload of a request-song event.
// Id and timestamp sent by clients are never trusted and therefore not decoded.
type SongRequest struct {
	YoutubeURL string  `json:"youtubeUrl"`
	VideoID    string  `json:"videoId,omitempty"`
	Title      string  `json:"title,omitempty"`
	Author     string  `json:"author,omitempty"`
	Thumbnail  string  `json:"thumbnail,omitempty"`
	Duration   float64 `json:"duration,omitempty" validate:"gte=0"`
	Nickname   string  `json:"nickname" validate:"required,max=64"`
}

// SongEntry is a single requested/queued track.
type SongEntry struct {
	ID         string    `json:"id"`
	YoutubeURL string    `json:"youtubeUrl"`
	VideoID    string    `json:"videoId,omitempty"`
	Title      string    `json:"title,omitempty"`
	Author     string    `json:"author,omitempty"`
	Thumbnail  string    `json:"thumbnail,omitempty"`
	Duration   float64   `json:"duration,omitempty"`
	Nickname   string    `json:"nickname"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewEntry shapes a request into a queue entry with a fresh id and timestamp.
func NewEntry(req SongRequest, now time.Time) (SongEntry, error) {
	req.Nickname = strings.TrimSpace(req.Nickname)
	req.YoutubeURL = strings.TrimSpace(req.YoutubeURL)
	if req.Nickname == "" {
		return SongEntry{}, ErrNicknameRequired
	}
	if err := validate.Struct(req); err != nil {
		return SongEntry{}, fmt.Errorf("invalid song request: %w", err)
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = PlaceholderTitle
	}

	return SongEntry{
		ID:         newEntryID(now),
		YoutubeURL: req.YoutubeURL,
		VideoID:    req.VideoID,
		Title:      title,
		Author:     req.Author,
		Thumbnail:  req.Thumbnail,
		Duration:   req.Duration,
		Nickname:   req.Nickname,
		Timestamp:  now,
	}, nil
}

// newEntryID combines the server clock with a random suffix so that requests
// accepted within the same millisecond still get distinct ids.
func newEntryID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("%d-%s", now.UnixMilli(), suffix)
}

// videoKey identifies the underlying video for history de-duplication.
func (e SongEntry) videoKey() string {
	switch {
	case e.VideoID != "":
		return "v:" + e.VideoID
	case e.YoutubeURL != "":
		return "u:" + e.YoutubeURL
	default:
		return "id:" + e.ID
	}
}
