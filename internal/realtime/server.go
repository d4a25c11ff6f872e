package realtime

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Server upgrades HTTP requests on /ws and attaches them to the hub.
type Server struct {
	hub      *Hub
	intake   Submitter
	upgrader websocket.Upgrader
	log      *zap.Logger
}

// NewServer accepts any origin when allowedOrigins is empty or contains "*".
func NewServer(hub *Hub, intake Submitter, allowedOrigins []string, log *zap.Logger) *Server {
	s := &Server{
		hub:    hub,
		intake: intake,
		log:    log.Named("ws"),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return s
}

func originChecker(allowed []string) func(r *http.Request) bool {
	for _, o := range allowed {
		if o == "*" {
			return func(r *http.Request) bool { return true }
		}
	}
	if len(allowed) == 0 {
		return func(r *http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if strings.EqualFold(strings.TrimRight(o, "/"), origin) {
				return true
			}
		}
		return false
	}
}

func (s *Server) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("upgrade failed", zap.String("remote", r.RemoteAddr), zap.Error(err))
		return
	}

	id := uuid.NewString()
	c := &Client{
		id:     id,
		hub:    s.hub,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		intake: s.intake,
		log:    s.log.With(zap.String("client", id)),
	}
	if !s.hub.join(c) {
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}
