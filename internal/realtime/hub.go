// Package realtime is the WebSocket gateway in front of the queue engine.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"

	"github.com/leejgdh/youtube-dj/internal/queue"
	"go.uber.org/zap"
)

var ErrHubStopped = errors.New("hub stopped")

// Mirror receives a copy of every frame sent to more than one client.
// Publish must not block.
type Mirror interface {
	Publish(frame []byte)
}

type inbound struct {
	client *Client
	event  string
	data   json.RawMessage

	// set for request-song once intake has run
	request  *queue.SongRequest
	rejected bool
}

type command struct {
	fn   func(*queue.Engine) []queue.Event
	done chan struct{}
}

// Hub owns the engine and the client set. Everything that touches either runs
// on the Run goroutine.
type Hub struct {
	engine  *queue.Engine
	mirror  Mirror
	log     *zap.Logger
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client
	inbound    chan inbound
	commands   chan command
	done       chan struct{}

	connected atomic.Int64
}

func NewHub(engine *queue.Engine, mirror Mirror, log *zap.Logger) *Hub {
	return &Hub{
		engine:     engine,
		mirror:     mirror,
		log:        log.Named("hub"),
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbound:    make(chan inbound, 64),
		commands:   make(chan command),
		done:       make(chan struct{}),
	}
}

// Run processes connections, frames and commands until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				h.drop(c)
			}
			h.log.Info("hub stopped")
			return
		case c := <-h.register:
			h.clients[c] = true
			h.connected.Store(int64(len(h.clients)))
			h.log.Info("client connected", zap.String("client", c.id), zap.Int("clients", len(h.clients)))
			h.deliver(c, h.engine.ServerState())
		case c := <-h.unregister:
			if h.clients[c] {
				h.drop(c)
				h.log.Info("client disconnected", zap.String("client", c.id), zap.Int("clients", len(h.clients)))
			}
		case msg := <-h.inbound:
			if !h.clients[msg.client] {
				continue
			}
			h.deliver(msg.client, h.dispatch(msg))
		case cmd := <-h.commands:
			h.deliver(nil, cmd.fn(h.engine))
			close(cmd.done)
		}
	}
}

// Do runs fn on the hub goroutine and delivers the events it returns. Events
// targeted at the sender are dropped since there is no originating client.
func (h *Hub) Do(ctx context.Context, fn func(*queue.Engine) []queue.Event) error {
	cmd := command{fn: fn, done: make(chan struct{})}
	select {
	case h.commands <- cmd:
	case <-h.done:
		return ErrHubStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-cmd.done:
		return nil
	case <-h.done:
		return ErrHubStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Snapshot reads the state through the hub.
func (h *Hub) Snapshot(ctx context.Context) (queue.State, error) {
	var st queue.State
	err := h.Do(ctx, func(e *queue.Engine) []queue.Event {
		st = e.Snapshot()
		return nil
	})
	return st, err
}

// Clients is the number of open connections.
func (h *Hub) Clients() int {
	return int(h.connected.Load())
}

func (h *Hub) join(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) leave(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) enqueue(msg inbound) bool {
	select {
	case h.inbound <- msg:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) drop(c *Client) {
	delete(h.clients, c)
	close(c.send)
	h.connected.Store(int64(len(h.clients)))
}

func (h *Hub) deliver(origin *Client, events []queue.Event) {
	for _, ev := range events {
		frame, err := encodeFrame(ev.Name, ev.Payload)
		if err != nil {
			h.log.Error("encode event", zap.String("event", ev.Name), zap.Error(err))
			continue
		}

		switch ev.Target {
		case queue.Sender:
			if origin != nil && h.clients[origin] {
				h.send(origin, frame)
			}
			continue
		case queue.Others:
			for c := range h.clients {
				if c != origin {
					h.send(c, frame)
				}
			}
		default:
			for c := range h.clients {
				h.send(c, frame)
			}
		}

		if h.mirror != nil {
			h.mirror.Publish(frame)
		}
	}
}

func (h *Hub) send(c *Client, frame []byte) {
	select {
	case c.send <- frame:
	default:
		h.log.Warn("client too slow, dropping", zap.String("client", c.id))
		h.drop(c)
	}
}
