package push

import (
	"context"
	"fmt"

	"pulsegram/internal/model"
)

// Client delivers one serialized payload to one subscription's endpoint.
// Implementations report success as a nil error and typed failures as
// *DeliveryError so callers can apply the outcome decision table.
type Client interface {
	Send(ctx context.Context, sub *model.PushSubscription, payload []byte) error
}

// FailureKind classifies a failed delivery attempt.
type FailureKind int

const (
	// FailureOther covers network errors, timeouts, and unrecognized
	// status codes. Treated as transient.
	FailureOther FailureKind = iota
	// FailureGone means the push service reported the endpoint permanently
	// invalid (HTTP 404/410). The subscription must not be retried.
	FailureGone
	// FailureTooLarge means the payload exceeded the push service's limit
	// (HTTP 413). A payload problem, not an endpoint problem.
	FailureTooLarge
	// FailureBadRequest means the push service rejected the request as
	// malformed (HTTP 400), usually a subscription-key or VAPID issue.
	FailureBadRequest
)

func (k FailureKind) String() string {
	switch k {
	case FailureGone:
		return "gone"
	case FailureTooLarge:
		return "payload_too_large"
	case FailureBadRequest:
		return "bad_request"
	default:
		return "other"
	}
}

// DeliveryError is the typed failure of one delivery attempt.
type DeliveryError struct {
	Kind       FailureKind
	StatusCode int // 0 when the request never got a response
	Err        error
}

func (e *DeliveryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("push delivery failed (%s): %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("push delivery failed (%s): status %d", e.Kind, e.StatusCode)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}
