package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"pulsegram/internal/handler"
	"pulsegram/internal/httputil"
)

func newTestRouter() http.Handler {
	return NewRouter(RouterConfig{
		PushHandler:  handler.NewPushHandler(nil, nil),
		RelayHandler: handler.NewRelayHandler(nil),
		JWTSecret:    "test-secret",
	})
}

func TestRouter_Health(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %q, want ok", body["status"])
	}
}

func TestRouter_UnknownRouteAnswersJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	var body httputil.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("404 body is not the JSON error envelope: %v", err)
	}
	if body.Error.Code != httputil.ErrCodeNotFound {
		t.Errorf("error code = %q, want %q", body.Error.Code, httputil.ErrCodeNotFound)
	}
}

func TestRouter_ProtectedRoutesRequireAuth(t *testing.T) {
	paths := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/push/subscribe"},
		{http.MethodDelete, "/push/subscribe"},
		{http.MethodGet, "/push/subscriptions"},
		{http.MethodGet, "/push/count"},
		{http.MethodPost, "/push/broadcast"},
		{http.MethodGet, "/ws"},
	}

	router := newTestRouter()
	for _, p := range paths {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(p.method, p.path, nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s without token: status = %d, want %d", p.method, p.path, rec.Code, http.StatusUnauthorized)
		}
	}
}
