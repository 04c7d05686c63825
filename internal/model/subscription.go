package model

import (
	"time"
)

// PushSubscription represents one registered push delivery channel for a
// user's device. A user can hold several subscriptions (one per browser or
// device), but at most one per endpoint and at most one active per device
// fingerprint.
type PushSubscription struct {
	ID       int64  `db:"id" json:"id"`
	UserID   string `db:"user_id" json:"-"`
	Endpoint string `db:"endpoint" json:"endpoint"`
	// Encryption keys supplied by the browser's push service. Never
	// inspected, only forwarded to the transport.
	P256dh string `db:"p256dh" json:"-"`
	Auth   string `db:"auth" json:"-"`
	// DeviceFingerprint is a client-supplied identifier (user agent) used to
	// detect the same device re-subscribing after a cache clear.
	DeviceFingerprint *string   `db:"device_fingerprint" json:"device_fingerprint,omitempty"`
	IsActive          bool      `db:"is_active" json:"is_active"`
	LastUsedAt        time.Time `db:"last_used_at" json:"last_used_at"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// SubscriptionKeys mirrors the "keys" object of the browser PushSubscription
// JSON shape.
type SubscriptionKeys struct {
	P256dh string `json:"p256dh"`
	Auth   string `json:"auth"`
}

// SubscribeRequest is the request body for registering a push subscription.
// Matches what PushManager.subscribe() serializes on the client, plus an
// optional device fingerprint.
type SubscribeRequest struct {
	Endpoint          string           `json:"endpoint"`
	Keys              SubscriptionKeys `json:"keys"`
	DeviceFingerprint string           `json:"device_fingerprint,omitempty"`
}

// UnsubscribeRequest is the request body for removing subscriptions.
// An empty endpoint means "remove every subscription for this user".
type UnsubscribeRequest struct {
	Endpoint string `json:"endpoint,omitempty"`
}
