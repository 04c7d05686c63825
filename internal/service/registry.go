package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"pulsegram/internal/model"
	"pulsegram/internal/repository"
)

// SubscriptionService owns the subscription collection: registration with
// per-device dedup, opt-out, audience listing, and retention cleanup.
type SubscriptionService struct {
	subRepo repository.SubscriptionRepository
}

func NewSubscriptionService(subRepo repository.SubscriptionRepository) *SubscriptionService {
	return &SubscriptionService{subRepo: subRepo}
}

// Subscribe registers a push channel for one of the user's devices.
// A re-registration from the same device (matched by fingerprint, or by the
// exact endpoint) replaces the prior subscription instead of stacking a
// stale one next to it.
func (s *SubscriptionService) Subscribe(ctx context.Context, userID string, req *model.SubscribeRequest) (*model.PushSubscription, error) {
	if req.Endpoint == "" {
		return nil, model.ErrEndpointRequired
	}
	if req.Keys.P256dh == "" || req.Keys.Auth == "" {
		return nil, model.ErrKeysRequired
	}

	sub := &model.PushSubscription{
		UserID:   userID,
		Endpoint: req.Endpoint,
		P256dh:   req.Keys.P256dh,
		Auth:     req.Keys.Auth,
	}
	if req.DeviceFingerprint != "" {
		fp := req.DeviceFingerprint
		sub.DeviceFingerprint = &fp
	}

	if err := s.subRepo.Save(ctx, sub); err != nil {
		return nil, fmt.Errorf("save subscription: %w", err)
	}

	log.Printf("[Registry] Subscribed: user=%s sub=%d", userID, sub.ID)
	return sub, nil
}

// Unsubscribe removes one endpoint, or every subscription for the user when
// endpoint is empty. Idempotent: deleting nothing is not an error.
func (s *SubscriptionService) Unsubscribe(ctx context.Context, userID, endpoint string) (int64, error) {
	var (
		deleted int64
		err     error
	)
	if endpoint == "" {
		deleted, err = s.subRepo.DeleteAllForUser(ctx, userID)
	} else {
		deleted, err = s.subRepo.DeleteByEndpoint(ctx, userID, endpoint)
	}
	if err != nil {
		return 0, fmt.Errorf("unsubscribe: %w", err)
	}

	log.Printf("[Registry] Unsubscribed: user=%s deleted=%d", userID, deleted)
	return deleted, nil
}

// ListActive returns the user's active subscriptions.
func (s *SubscriptionService) ListActive(ctx context.Context, userID string) ([]model.PushSubscription, error) {
	return s.subRepo.ListActiveByUser(ctx, userID)
}

// CountActive counts active subscriptions, scoped to one user when userID is
// non-empty.
func (s *SubscriptionService) CountActive(ctx context.Context, userID string) (int, error) {
	if userID == "" {
		return s.subRepo.CountActive(ctx)
	}
	return s.subRepo.CountActiveForUser(ctx, userID)
}

// Cleanup deletes subscriptions that have been inactive for longer than the
// retention window. Pure maintenance; runs off the request path.
func (s *SubscriptionService) Cleanup(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		retentionDays = 30
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	deleted, err := s.subRepo.DeleteInactiveBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("cleanup: %w", err)
	}

	if deleted > 0 {
		log.Printf("[Registry] Cleanup removed %d lapsed subscriptions older than %d days", deleted, retentionDays)
	}
	return deleted, nil
}
