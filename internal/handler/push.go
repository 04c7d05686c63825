package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"pulsegram/internal/httputil"
	"pulsegram/internal/model"
	"pulsegram/internal/service"
	"pulsegram/internal/transport/http/middleware"
)

type PushHandler struct {
	subs       *service.SubscriptionService
	dispatcher *service.Dispatcher
}

func NewPushHandler(subs *service.SubscriptionService, dispatcher *service.Dispatcher) *PushHandler {
	return &PushHandler{
		subs:       subs,
		dispatcher: dispatcher,
	}
}

// GetVAPIDKey handles GET /push/vapid-key
// Returns the server's public key for client-side PushManager.subscribe().
func (h *PushHandler) GetVAPIDKey(w http.ResponseWriter, r *http.Request) {
	key, err := h.dispatcher.VAPIDPublicKey()
	if err != nil {
		httputil.WriteNotConfigured(w, "Push notifications are not configured")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"public_key": key,
	})
}

// Subscribe handles POST /push/subscribe
// Registers a push subscription for the authenticated user's device.
func (h *PushHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req model.SubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	sub, err := h.subs.Subscribe(r.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, model.ErrEndpointRequired) || errors.Is(err, model.ErrKeysRequired) {
			httputil.WriteBadRequest(w, err.Error())
			return
		}
		log.Printf("[ERROR] Subscribe: user=%s err=%v", userID, err)
		httputil.WriteInternalError(w, "Failed to register subscription")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, sub)
}

// Unsubscribe handles DELETE /push/subscribe
// Removes one endpoint, or all of the user's subscriptions when the body has
// no endpoint. Idempotent either way.
func (h *PushHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	// Body is optional: no body means full opt-out.
	var req model.UnsubscribeRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	deleted, err := h.subs.Unsubscribe(r.Context(), userID, req.Endpoint)
	if err != nil {
		log.Printf("[ERROR] Unsubscribe: user=%s err=%v", userID, err)
		httputil.WriteInternalError(w, "Failed to remove subscription")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]int64{
		"deleted_count": deleted,
	})
}

// ListSubscriptions handles GET /push/subscriptions
// Returns the authenticated user's active subscriptions.
func (h *PushHandler) ListSubscriptions(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	subs, err := h.subs.ListActive(r.Context(), userID)
	if err != nil {
		log.Printf("[ERROR] List subscriptions: user=%s err=%v", userID, err)
		httputil.WriteInternalError(w, "Failed to list subscriptions")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"subscriptions": subs,
	})
}

// CountSubscriptions handles GET /push/count
// Counts active subscriptions, optionally scoped with ?user_id=.
func (h *PushHandler) CountSubscriptions(w http.ResponseWriter, r *http.Request) {
	count, err := h.subs.CountActive(r.Context(), r.URL.Query().Get("user_id"))
	if err != nil {
		log.Printf("[ERROR] Count subscriptions: err=%v", err)
		httputil.WriteInternalError(w, "Failed to count subscriptions")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]int{
		"active_count": count,
	})
}

// BroadcastRequest is the request body for broadcasts.
type BroadcastRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url,omitempty"`
}

// Broadcast handles POST /push/broadcast
// Sends a notification to every active subscriber and returns the aggregate
// counts. Which specific subscriptions failed stays in the logs.
func (h *PushHandler) Broadcast(w http.ResponseWriter, r *http.Request) {
	var req BroadcastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}
	if req.Title == "" || req.Body == "" {
		httputil.WriteBadRequest(w, "title and body are required")
		return
	}

	result, err := h.dispatcher.Broadcast(r.Context(), req.Title, req.Body, req.URL)
	if err != nil {
		if errors.Is(err, model.ErrVAPIDNotConfigured) {
			httputil.WriteNotConfigured(w, "Push notifications are not configured")
			return
		}
		log.Printf("[ERROR] Broadcast: err=%v", err)
		httputil.WriteInternalError(w, "Failed to dispatch broadcast")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}
