package intake

import (
	"context"
	"errors"

	"github.com/leejgdh/youtube-dj/internal/youtube"
	"go.uber.org/zap"
)

// BanChecker looks a request up on the ban list.
type BanChecker interface {
	IsBanned(youtubeURL, videoID string) (bool, error)
}

// MetadataResolver fills in the title and channel of a link.
type MetadataResolver interface {
	Resolve(ctx context.Context, raw string) (youtube.Metadata, error)
}

type Preparer struct {
	bans BanChecker
	meta MetadataResolver
	log  *zap.Logger
}

// NewPreparer builds the intake handler. Either dependency may be nil to
// skip that step.
func NewPreparer(bans BanChecker, meta MetadataResolver, log *zap.Logger) *Preparer {
	return &Preparer{bans: bans, meta: meta, log: log.Named("intake")}
}

// Prepare is a Handler. A ban list error lets the request through.
func (p *Preparer) Prepare(ctx context.Context, job *Job) error {
	req := job.Request

	if req.VideoID == "" && req.YoutubeURL != "" {
		if id, ok := youtube.ExtractVideoID(req.YoutubeURL); ok {
			req.VideoID = id
		}
	}

	if p.bans != nil {
		banned, err := p.bans.IsBanned(req.YoutubeURL, req.VideoID)
		if err != nil {
			p.log.Error("ban list lookup failed", zap.String("url", req.YoutubeURL), zap.Error(err))
		} else if banned {
			return ErrBanned
		}
	}

	if req.Title == "" && p.meta != nil && youtube.IsValidURL(req.YoutubeURL) {
		md, err := p.meta.Resolve(ctx, req.YoutubeURL)
		switch {
		case errors.Is(err, youtube.ErrInvalidURL):
		case err != nil:
			p.log.Warn("metadata lookup failed", zap.String("url", req.YoutubeURL), zap.Error(err))
		case md.Resolved:
			req.Title = md.Title
			if req.Author == "" {
				req.Author = md.Author
			}
		}
		if req.Thumbnail == "" && md.Thumbnail != "" {
			req.Thumbnail = md.Thumbnail
		}
	}

	job.Result = req
	return nil
}
