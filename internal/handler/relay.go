package handler

import (
	"net/http"

	"pulsegram/internal/httputil"
	"pulsegram/internal/relay"
	"pulsegram/internal/transport/http/middleware"
)

type RelayHandler struct {
	hub *relay.Hub
}

func NewRelayHandler(hub *relay.Hub) *RelayHandler {
	return &RelayHandler{hub: hub}
}

// Connect handles GET /ws
// Upgrades the request into a realtime session for the authenticated user.
func (h *RelayHandler) Connect(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	h.hub.ServeWS(w, r, userID)
}
