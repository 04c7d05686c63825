package model

import "errors"

// Validation errors, rejected before any persistence.
var (
	ErrEndpointRequired = errors.New("endpoint is required")
	ErrKeysRequired     = errors.New("subscription keys p256dh and auth are required")
)

// ErrVAPIDNotConfigured is returned by any operation that needs the server's
// VAPID keypair when it was not provided at startup. The engine never sends
// unsigned or unencrypted payloads.
var ErrVAPIDNotConfigured = errors.New("VAPID keys are not configured")
