package relay

import (
	"encoding/json"
	"log"
	"sync"
)

// Hub tracks the live WebSocket sessions of each user and pushes events to
// them. The fan-out engine's job ends at "notify this user"; the hub is the
// delivery channel for users who happen to be connected right now.
//
// Delivery is best-effort: events for a user with no sessions are dropped,
// and a session whose send buffer is full skips the event rather than
// blocking the publisher.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]map[*Session]bool // userID -> live sessions
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		sessions: make(map[string]map[*Session]bool),
	}
}

// Publish sends an event to every live session of one user.
func (h *Hub) Publish(userID string, event interface{}) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[Relay] Dropping unmarshalable event for user=%s: %v", userID, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for s := range h.sessions[userID] {
		s.enqueue(data)
	}
}

// Broadcast sends an event to every live session of every user.
func (h *Hub) Broadcast(event interface{}) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[Relay] Dropping unmarshalable broadcast event: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, sessions := range h.sessions {
		for s := range sessions {
			s.enqueue(data)
		}
	}
}

// SessionCount reports the number of live sessions for a user.
func (h *Hub) SessionCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[userID])
}

func (h *Hub) register(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.sessions[s.userID] == nil {
		h.sessions[s.userID] = make(map[*Session]bool)
	}
	h.sessions[s.userID][s] = true
	log.Printf("[Relay] Session connected: user=%s session=%s total=%d",
		s.userID, s.id, len(h.sessions[s.userID]))
}

func (h *Hub) unregister(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if sessions, ok := h.sessions[s.userID]; ok {
		if _, ok := sessions[s]; ok {
			delete(sessions, s)
			close(s.send)
			if len(sessions) == 0 {
				delete(h.sessions, s.userID)
			}
		}
	}
	log.Printf("[Relay] Session disconnected: user=%s session=%s", s.userID, s.id)
}
