package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"pulsegram/internal/model"
	"pulsegram/internal/push"
	"pulsegram/internal/repository"
)

// EventRelay pushes events to a user's live WebSocket sessions. Delivery is
// best-effort; the dispatcher does not care whether anyone is connected.
type EventRelay interface {
	Publish(userID string, event interface{})
	Broadcast(event interface{})
}

// Dispatcher resolves an audience to its active subscriptions and delivers a
// payload to every one of them concurrently. One failing delivery never
// blocks or aborts the others; every unit settles before Dispatch returns.
type Dispatcher struct {
	subRepo repository.SubscriptionRepository
	client  push.Client // nil when VAPID keys are not configured
	relay   EventRelay  // nil when no realtime relay is wired

	vapidPublicKey string
	timeout        time.Duration
}

const defaultPushTimeout = 10 * time.Second

func NewDispatcher(
	subRepo repository.SubscriptionRepository,
	client push.Client,
	relay EventRelay,
	vapidPublicKey string,
	timeout time.Duration,
) *Dispatcher {
	if timeout <= 0 {
		timeout = defaultPushTimeout
	}
	return &Dispatcher{
		subRepo:        subRepo,
		client:         client,
		relay:          relay,
		vapidPublicKey: vapidPublicKey,
		timeout:        timeout,
	}
}

// VAPIDPublicKey returns the key clients need to create a subscription.
func (d *Dispatcher) VAPIDPublicKey() (string, error) {
	if d.vapidPublicKey == "" {
		return "", model.ErrVAPIDNotConfigured
	}
	return d.vapidPublicKey, nil
}

// Dispatch delivers payload to every active subscription in the audience.
//
// All deliveries run concurrently and Dispatch waits for every one to settle
// before returning counts. Failures local to one subscription stay local;
// only audience-resolution errors propagate, since no partial result is
// meaningful without a resolved audience.
func (d *Dispatcher) Dispatch(ctx context.Context, payload *model.NotificationPayload, audience model.Audience) (*model.DispatchResult, error) {
	if d.client == nil {
		return nil, model.ErrVAPIDNotConfigured
	}

	subs, err := d.resolve(ctx, audience)
	if err != nil {
		return nil, fmt.Errorf("resolve audience: %w", err)
	}
	if len(subs) == 0 {
		return &model.DispatchResult{}, nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	var (
		wg         sync.WaitGroup
		successful atomic.Int64
	)
	for i := range subs {
		sub := &subs[i]
		wg.Add(1)
		go func() {
			defer wg.Done()
			if d.deliver(ctx, sub, body) {
				successful.Add(1)
			}
		}()
	}
	wg.Wait()

	result := &model.DispatchResult{
		Successful: int(successful.Load()),
		Failed:     len(subs) - int(successful.Load()),
		Total:      len(subs),
	}

	log.Printf("[Dispatcher] Dispatched %q: total=%d success=%d failed=%d",
		payload.Title, result.Total, result.Successful, result.Failed)
	return result, nil
}

// resolve queries the registry for the audience's active subscriptions.
func (d *Dispatcher) resolve(ctx context.Context, audience model.Audience) ([]model.PushSubscription, error) {
	if audience.All {
		return d.subRepo.ListAllActive(ctx)
	}
	return d.subRepo.ListActiveByUsers(ctx, audience.UserIDs)
}

// deliver attempts one delivery with a bounded timeout and applies the
// outcome to the subscription. Reports whether the delivery succeeded.
func (d *Dispatcher) deliver(ctx context.Context, sub *model.PushSubscription, body []byte) bool {
	sendCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	err := d.client.Send(sendCtx, sub, body)
	return d.handleOutcome(ctx, sub, err)
}
