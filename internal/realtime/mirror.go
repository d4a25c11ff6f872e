package realtime

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisMirror publishes broadcast frames to a Redis channel for outside
// consumers. It is write only; nothing is read back into the hub.
type RedisMirror struct {
	rdb     *redis.Client
	channel string
	frames  chan []byte
	log     *zap.Logger
}

func NewRedisMirror(rdb *redis.Client, channel string, log *zap.Logger) *RedisMirror {
	return &RedisMirror{
		rdb:     rdb,
		channel: channel,
		frames:  make(chan []byte, 256),
		log:     log.Named("mirror"),
	}
}

// Publish queues a frame. Frames are dropped while the buffer is full.
func (m *RedisMirror) Publish(frame []byte) {
	select {
	case m.frames <- frame:
	default:
		m.log.Warn("mirror buffer full, frame dropped")
	}
}

// Run drains the buffer into Redis until ctx is cancelled.
func (m *RedisMirror) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case frame := <-m.frames:
			if err := m.rdb.Publish(ctx, m.channel, frame).Err(); err != nil && ctx.Err() == nil {
				m.log.Warn("publish failed", zap.String("channel", m.channel), zap.Error(err))
			}
		}
	}
}
