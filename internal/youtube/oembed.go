// Package youtube resolves display metadata for YouTube links.
package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultOEmbedURL = "https://www.youtube.com/oembed"

	PlaceholderTitle  = "Untitled request"
	PlaceholderAuthor = "Unknown"
)

// Metadata is what the request form shows before a song is submitted.
type Metadata struct {
	Title     string  `json:"title"`
	Author    string  `json:"author"`
	Thumbnail string  `json:"thumbnail"`
	VideoID   string  `json:"videoId"`
	Duration  float64 `json:"duration"`
	URL       string  `json:"url"`
	Resolved  bool    `json:"resolved"`
}

// Client talks to the oEmbed endpoint.
type Client struct {
	endpoint string
	http     *http.Client
	log      *zap.Logger
}

func NewClient(endpoint string, log *zap.Logger) *Client {
	if endpoint == "" {
		endpoint = DefaultOEmbedURL
	}
	return &Client{
		endpoint: endpoint,
		http: &http.Client{
			Timeout: 5 * time.Second,
		},
		log: log,
	}
}

type oembedResponse struct {
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// Resolve validates the link and looks up its title and channel. A failed
// lookup is not an error: placeholder metadata is returned instead, so a
// request is never blocked by oEmbed being unavailable.
func (c *Client) Resolve(ctx context.Context, raw string) (Metadata, error) {
	if !IsValidURL(raw) {
		return Metadata{}, ErrInvalidURL
	}
	videoID, ok := ExtractVideoID(raw)
	if !ok {
		return Metadata{}, ErrInvalidURL
	}

	md := Metadata{
		Title:     PlaceholderTitle,
		Author:    PlaceholderAuthor,
		Thumbnail: ThumbnailURL(videoID),
		VideoID:   videoID,
		URL:       raw,
	}

	body, err := c.fetch(ctx, videoID)
	if err != nil {
		c.log.Warn("oembed lookup failed", zap.String("video_id", videoID), zap.Error(err))
		return md, nil
	}
	if body.Title != "" {
		md.Title = body.Title
	}
	if body.AuthorName != "" {
		md.Author = body.AuthorName
	}
	md.Resolved = true
	return md, nil
}

func (c *Client) fetch(ctx context.Context, videoID string) (*oembedResponse, error) {
	val := url.Values{}
	val.Set("url", WatchURL(videoID))
	val.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+val.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("oembed status %d", resp.StatusCode)
	}

	var body oembedResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode oembed: %w", err)
	}
	return &body, nil
}
