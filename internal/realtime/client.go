package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/gorilla/websocket"
	"github.com/leejgdh/youtube-dj/internal/intake"
	"github.com/leejgdh/youtube-dj/internal/queue"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512 * 1024
	intakeTimeout  = 15 * time.Second
	sendBuffer     = 256
)

// Submitter prepares a song request before it reaches the hub.
type Submitter interface {
	Submit(ctx context.Context, req queue.SongRequest) (queue.SongRequest, error)
}

// Client is one WebSocket connection.
type Client struct {
	id     string
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	intake Submitter
	log    *zap.Logger
}

// readPump forwards frames to the hub in arrival order. request-song frames
// pass through intake first, and the next frame is not read until that is done.
func (c *Client) readPump() {
	defer func() {
		c.hub.leave(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn("read error", zap.Error(err))
			}
			return
		}

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil || env.Event == "" {
			c.log.Debug("malformed frame ignored")
			continue
		}

		msg := inbound{client: c, event: env.Event, data: env.Data}
		if env.Event == queue.EventRequestSong {
			var ok bool
			if msg, ok = c.prepare(msg); !ok {
				continue
			}
		}
		if !c.hub.enqueue(msg) {
			return
		}
	}
}

func (c *Client) prepare(msg inbound) (inbound, bool) {
	req, ok := decode[queue.SongRequest](msg.data)
	if !ok {
		return msg, false
	}
	if c.intake == nil {
		msg.request = &req
		return msg, true
	}

	ctx, cancel := context.WithTimeout(context.Background(), intakeTimeout)
	defer cancel()

	prepared, err := c.intake.Submit(ctx, req)
	switch {
	case err == nil:
		msg.request = &prepared
	case errors.Is(err, intake.ErrBanned):
		c.log.Info("banned song refused", zap.String("url", req.YoutubeURL))
		msg.request = &req
		msg.rejected = true
	case errors.Is(err, intake.ErrStopped):
		return msg, false
	default:
		// intake is best effort; the raw request still goes through
		c.log.Warn("intake failed", zap.String("url", req.YoutubeURL), zap.Error(err))
		msg.request = &req
	}
	return msg, true
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
