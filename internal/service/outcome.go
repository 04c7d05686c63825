package service

import (
	"context"
	"errors"
	"log"

	"pulsegram/internal/model"
	"pulsegram/internal/push"
)

// handleOutcome applies one delivery attempt's result to one subscription.
// It is a pure decision table, not a retry loop: a failed delivery is only
// retried naturally by the next domain event that targets the subscription.
//
//	success          -> record last_used_at
//	gone / not-found -> deactivate; excluded from future audiences
//	payload too large-> keep active; the payload is at fault, not the endpoint
//	bad request      -> keep active; logged for review, may be a key-config
//	                    problem rather than a dead endpoint
//	anything else    -> keep active; treated as transient
//
// Each outcome touches only its own subscription row, so concurrent units
// within one dispatch never contend.
func (d *Dispatcher) handleOutcome(ctx context.Context, sub *model.PushSubscription, err error) bool {
	if err == nil {
		if terr := d.subRepo.TouchLastUsed(ctx, sub.ID); terr != nil {
			log.Printf("[Dispatcher] Failed to record delivery for sub=%d: %v", sub.ID, terr)
		}
		return true
	}

	var de *push.DeliveryError
	if !errors.As(err, &de) {
		log.Printf("[Dispatcher] Delivery failed: sub=%d user=%s err=%v", sub.ID, sub.UserID, err)
		return false
	}

	switch de.Kind {
	case push.FailureGone:
		log.Printf("[Dispatcher] Endpoint gone (status %d), deactivating: sub=%d user=%s",
			de.StatusCode, sub.ID, sub.UserID)
		if derr := d.subRepo.Deactivate(ctx, sub.ID); derr != nil {
			log.Printf("[Dispatcher] Failed to deactivate sub=%d: %v", sub.ID, derr)
		}
	case push.FailureTooLarge:
		log.Printf("[Dispatcher] Payload too large for sub=%d user=%s", sub.ID, sub.UserID)
	case push.FailureBadRequest:
		// Not deactivated: a 400 from the push service usually points at a
		// key-configuration problem, which needs a human, not pruning.
		log.Printf("[Dispatcher] Push service rejected request for sub=%d user=%s, review subscription keys",
			sub.ID, sub.UserID)
	default:
		log.Printf("[Dispatcher] Transient delivery failure: sub=%d user=%s err=%v", sub.ID, sub.UserID, err)
	}
	return false
}
