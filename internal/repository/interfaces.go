package repository

import (
	"context"
	"time"

	"pulsegram/internal/model"
)

type SubscriptionRepository interface {
	// Save inserts a subscription, first removing any prior registration
	// for the same (user, device fingerprint) and the same (user, endpoint).
	// The dedup and insert run in a single transaction. The stored ID and
	// timestamps are written back into sub.
	Save(ctx context.Context, sub *model.PushSubscription) error
	// DeleteByEndpoint removes one (user, endpoint) row. Returns the number
	// of rows deleted; zero matches is not an error.
	DeleteByEndpoint(ctx context.Context, userID, endpoint string) (int64, error)
	// DeleteAllForUser removes every subscription for a user (full opt-out).
	DeleteAllForUser(ctx context.Context, userID string) (int64, error)
	// ListActiveByUser returns a user's active subscriptions.
	ListActiveByUser(ctx context.Context, userID string) ([]model.PushSubscription, error)
	// ListActiveByUsers resolves an explicit-user audience.
	ListActiveByUsers(ctx context.Context, userIDs []string) ([]model.PushSubscription, error)
	// ListAllActive resolves the "all active subscribers" audience.
	ListAllActive(ctx context.Context) ([]model.PushSubscription, error)
	// CountActive counts active subscriptions, all users.
	CountActive(ctx context.Context) (int, error)
	// CountActiveForUser counts one user's active subscriptions.
	CountActiveForUser(ctx context.Context, userID string) (int, error)
	// Deactivate flips is_active off after a gone/not-found outcome.
	// The row is retained for audit until cleanup removes it.
	Deactivate(ctx context.Context, id int64) error
	// TouchLastUsed records a successful delivery.
	TouchLastUsed(ctx context.Context, id int64) error
	// DeleteInactiveBefore removes inactive rows last updated before cutoff.
	DeleteInactiveBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
