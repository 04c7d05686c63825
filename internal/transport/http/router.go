package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"pulsegram/internal/handler"
	"pulsegram/internal/httputil"
	authmw "pulsegram/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	PushHandler  *handler.PushHandler
	RelayHandler *handler.RelayHandler
	JWTSecret    string
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	// Unmatched routes answer in the same JSON envelope as everything else.
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteNotFound(w, "Resource not found")
	})

	// Health check endpoint (useful for deployment/monitoring)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, 200, map[string]string{"status": "ok"})
	})

	// Public: clients need the VAPID key before they can authenticate a
	// subscription flow from a service worker.
	r.Get("/push/vapid-key", cfg.PushHandler.GetVAPIDKey)

	// Protected routes - require authentication
	r.Group(func(r chi.Router) {
		r.Use(authmw.AuthMiddleware(cfg.JWTSecret))

		r.Route("/push", func(r chi.Router) {
			r.Post("/subscribe", cfg.PushHandler.Subscribe)
			r.Delete("/subscribe", cfg.PushHandler.Unsubscribe)
			r.Get("/subscriptions", cfg.PushHandler.ListSubscriptions)
			r.Get("/count", cfg.PushHandler.CountSubscriptions)
			r.Post("/broadcast", cfg.PushHandler.Broadcast)
		})

		// Realtime relay for connected clients
		r.Get("/ws", cfg.RelayHandler.Connect)
	})

	return r
}
