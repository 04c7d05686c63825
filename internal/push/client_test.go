package push

import (
	"errors"
	"net/http"
	"testing"
)

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		name     string
		code     int
		wantNil  bool
		wantKind FailureKind
	}{
		{name: "created", code: http.StatusCreated, wantNil: true},
		{name: "ok", code: http.StatusOK, wantNil: true},
		{name: "gone", code: http.StatusGone, wantKind: FailureGone},
		{name: "not found is gone", code: http.StatusNotFound, wantKind: FailureGone},
		{name: "too large", code: http.StatusRequestEntityTooLarge, wantKind: FailureTooLarge},
		{name: "bad request", code: http.StatusBadRequest, wantKind: FailureBadRequest},
		{name: "unauthorized is other", code: http.StatusUnauthorized, wantKind: FailureOther},
		{name: "server error is other", code: http.StatusBadGateway, wantKind: FailureOther},
		{name: "too many requests is other", code: http.StatusTooManyRequests, wantKind: FailureOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyStatus(tt.code)
			if tt.wantNil {
				if err != nil {
					t.Fatalf("classifyStatus(%d) = %v, want nil", tt.code, err)
				}
				return
			}

			var de *DeliveryError
			if !errors.As(err, &de) {
				t.Fatalf("classifyStatus(%d) = %T, want *DeliveryError", tt.code, err)
			}
			if de.Kind != tt.wantKind {
				t.Errorf("kind = %s, want %s", de.Kind, tt.wantKind)
			}
			if de.StatusCode != tt.code {
				t.Errorf("status = %d, want %d", de.StatusCode, tt.code)
			}
		})
	}
}

func TestNewWebPushClient_RequiresKeys(t *testing.T) {
	if _, err := NewWebPushClient("", "priv", "admin@example.com", 60); err == nil {
		t.Error("expected error when public key missing")
	}
	if _, err := NewWebPushClient("pub", "", "admin@example.com", 60); err == nil {
		t.Error("expected error when private key missing")
	}

	c, err := NewWebPushClient("pub", "priv", "admin@example.com", 60)
	if err != nil {
		t.Fatalf("expected no error with both keys, got: %v", err)
	}
	if c.VAPIDPublicKey() != "pub" {
		t.Errorf("public key = %q, want %q", c.VAPIDPublicKey(), "pub")
	}
}
