package handlers

import (
	"context"

	"github.com/leejgdh/youtube-dj/internal/queue"
)

// Hub is the part of the realtime hub the REST handlers use.
type Hub interface {
	Do(ctx context.Context, fn func(*queue.Engine) []queue.Event) error
	Snapshot(ctx context.Context) (queue.State, error)
	Clients() int
}
