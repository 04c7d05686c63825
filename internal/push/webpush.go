package push

import (
	"context"
	"io"
	"net/http"

	webpush "github.com/SherClockHolmes/webpush-go"

	"pulsegram/internal/model"
)

// WebPushClient sends notifications over the Web Push protocol, signed with
// the server's VAPID keypair and encrypted per-subscription with the keys the
// browser handed out at subscribe time.
//
// Constructed once at startup and passed to the dispatcher; there is no
// package-level client state.
type WebPushClient struct {
	publicKey  string
	privateKey string
	subscriber string
	ttl        int
	httpClient *http.Client
}

// NewWebPushClient creates a Web Push client. ttl is the push service's
// queueing time-to-live in seconds; it is distinct from the per-request
// timeout the caller applies through ctx.
func NewWebPushClient(publicKey, privateKey, subscriber string, ttl int) (*WebPushClient, error) {
	if publicKey == "" || privateKey == "" {
		return nil, model.ErrVAPIDNotConfigured
	}
	return &WebPushClient{
		publicKey:  publicKey,
		privateKey: privateKey,
		subscriber: subscriber,
		ttl:        ttl,
		httpClient: &http.Client{},
	}, nil
}

// VAPIDPublicKey returns the key clients need for PushManager.subscribe().
func (c *WebPushClient) VAPIDPublicKey() string {
	return c.publicKey
}

// Send delivers one payload to one subscription endpoint and maps the push
// service's response onto the typed failure set.
func (c *WebPushClient) Send(ctx context.Context, sub *model.PushSubscription, payload []byte) error {
	s := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dh,
			Auth:   sub.Auth,
		},
	}

	resp, err := webpush.SendNotificationWithContext(ctx, payload, s, &webpush.Options{
		HTTPClient:      c.httpClient,
		Subscriber:      c.subscriber, // webpush-go adds mailto: automatically
		VAPIDPublicKey:  c.publicKey,
		VAPIDPrivateKey: c.privateKey,
		TTL:             c.ttl,
	})
	if err != nil {
		return &DeliveryError{Kind: FailureOther, Err: err}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	return classifyStatus(resp.StatusCode)
}

// classifyStatus maps a push-service HTTP status onto the outcome taxonomy.
// 404 and 410 both mean the endpoint is permanently invalid; Mozilla's
// service answers 404 where others answer 410.
func classifyStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound || code == http.StatusGone:
		return &DeliveryError{Kind: FailureGone, StatusCode: code}
	case code == http.StatusRequestEntityTooLarge:
		return &DeliveryError{Kind: FailureTooLarge, StatusCode: code}
	case code == http.StatusBadRequest:
		return &DeliveryError{Kind: FailureBadRequest, StatusCode: code}
	default:
		return &DeliveryError{Kind: FailureOther, StatusCode: code}
	}
}
