package relay

import (
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// writeWait is the deadline for a single write to a session.
	writeWait = 10 * time.Second

	// pongWait is how long a session may stay silent before it is dropped.
	pongWait = 60 * time.Second

	// pingPeriod must be shorter than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// sendBufferSize bounds the per-session outbound queue. Events beyond
	// it are dropped for that session, never queued unboundedly.
	sendBufferSize = 32
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin checking is the auth middleware's concern; the JWT already
	// gates the upgrade.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Session is one live WebSocket connection belonging to a user.
type Session struct {
	id     string
	userID string
	conn   *websocket.Conn
	send   chan []byte
}

// enqueue hands an event to the session's writer without ever blocking the
// hub. A full buffer drops the event for this session only.
func (s *Session) enqueue(data []byte) {
	select {
	case s.send <- data:
	default:
		log.Printf("[Relay] Session buffer full, dropping event: user=%s session=%s", s.userID, s.id)
	}
}

// ServeWS upgrades an HTTP request into a relay session for the given user
// and runs the read/write pumps until the connection closes.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, userID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Relay] Upgrade failed: user=%s err=%v", userID, err)
		return
	}

	s := &Session{
		id:     uuid.NewString(),
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
	}
	h.register(s)

	go s.writePump()
	go s.readPump(h)
}

// readPump discards inbound frames (the relay is one-way) and tears the
// session down when the client goes away.
func (s *Session) readPump(h *Hub) {
	defer func() {
		h.unregister(s)
		s.conn.Close()
	}()

	s.conn.SetReadLimit(512)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump pushes queued events and keepalive pings to the client.
func (s *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case data, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
