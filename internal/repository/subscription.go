package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"pulsegram/internal/model"
)

type subscriptionRepository struct {
	db *sqlx.DB
}

func NewSubscriptionRepository(db *sqlx.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

// Save registers a subscription, replacing any prior registration from the
// same device. A new registration from a device that re-subscribed (browser
// cache clear, permission re-grant) must not stack stale channels, so:
//   - rows matching (user_id, device_fingerprint) are deleted first
//   - a row matching (user_id, endpoint) is deleted independently, covering
//     devices that never supplied a fingerprint
//
// Both deletes and the insert run in one transaction. The uniqueness scope is
// per-user, so no cross-user locking is involved.
func (r *subscriptionRepository) Save(ctx context.Context, sub *model.PushSubscription) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin subscribe tx: %w", err)
	}
	defer tx.Rollback()

	if sub.DeviceFingerprint != nil && *sub.DeviceFingerprint != "" {
		_, err = tx.ExecContext(ctx,
			`DELETE FROM push_subscriptions WHERE user_id = $1 AND device_fingerprint = $2`,
			sub.UserID, *sub.DeviceFingerprint)
		if err != nil {
			return fmt.Errorf("delete by fingerprint: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`DELETE FROM push_subscriptions WHERE user_id = $1 AND endpoint = $2`,
		sub.UserID, sub.Endpoint)
	if err != nil {
		return fmt.Errorf("delete by endpoint: %w", err)
	}

	row := tx.QueryRowxContext(ctx, `
		INSERT INTO push_subscriptions
			(user_id, endpoint, p256dh, auth, device_fingerprint, is_active, last_used_at)
		VALUES ($1, $2, $3, $4, $5, TRUE, NOW())
		RETURNING id, is_active, last_used_at, created_at, updated_at
	`, sub.UserID, sub.Endpoint, sub.P256dh, sub.Auth, sub.DeviceFingerprint)

	err = row.Scan(&sub.ID, &sub.IsActive, &sub.LastUsedAt, &sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert subscription: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit subscribe tx: %w", err)
	}
	return nil
}

func (r *subscriptionRepository) DeleteByEndpoint(ctx context.Context, userID, endpoint string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM push_subscriptions WHERE user_id = $1 AND endpoint = $2`,
		userID, endpoint)
	if err != nil {
		return 0, fmt.Errorf("delete subscription: %w", err)
	}
	return res.RowsAffected()
}

func (r *subscriptionRepository) DeleteAllForUser(ctx context.Context, userID string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM push_subscriptions WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("delete user subscriptions: %w", err)
	}
	return res.RowsAffected()
}

func (r *subscriptionRepository) ListActiveByUser(ctx context.Context, userID string) ([]model.PushSubscription, error) {
	var subs []model.PushSubscription
	err := r.db.SelectContext(ctx, &subs, `
		SELECT id, user_id, endpoint, p256dh, auth, device_fingerprint,
		       is_active, last_used_at, created_at, updated_at
		FROM push_subscriptions
		WHERE user_id = $1 AND is_active = TRUE
		ORDER BY updated_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list active subscriptions: %w", err)
	}
	return subs, nil
}

func (r *subscriptionRepository) ListActiveByUsers(ctx context.Context, userIDs []string) ([]model.PushSubscription, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`
		SELECT id, user_id, endpoint, p256dh, auth, device_fingerprint,
		       is_active, last_used_at, created_at, updated_at
		FROM push_subscriptions
		WHERE is_active = TRUE AND user_id IN (?)
	`, userIDs)
	if err != nil {
		return nil, fmt.Errorf("build audience query: %w", err)
	}

	var subs []model.PushSubscription
	err = r.db.SelectContext(ctx, &subs, r.db.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("list audience subscriptions: %w", err)
	}
	return subs, nil
}

func (r *subscriptionRepository) ListAllActive(ctx context.Context) ([]model.PushSubscription, error) {
	var subs []model.PushSubscription
	err := r.db.SelectContext(ctx, &subs, `
		SELECT id, user_id, endpoint, p256dh, auth, device_fingerprint,
		       is_active, last_used_at, created_at, updated_at
		FROM push_subscriptions
		WHERE is_active = TRUE
	`)
	if err != nil {
		return nil, fmt.Errorf("list all active subscriptions: %w", err)
	}
	return subs, nil
}

func (r *subscriptionRepository) CountActive(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM push_subscriptions WHERE is_active = TRUE`)
	if err != nil {
		return 0, fmt.Errorf("count active subscriptions: %w", err)
	}
	return count, nil
}

func (r *subscriptionRepository) CountActiveForUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM push_subscriptions WHERE is_active = TRUE AND user_id = $1`,
		userID)
	if err != nil {
		return 0, fmt.Errorf("count user subscriptions: %w", err)
	}
	return count, nil
}

func (r *subscriptionRepository) Deactivate(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE push_subscriptions SET is_active = FALSE, updated_at = NOW() WHERE id = $1`,
		id)
	if err != nil {
		return fmt.Errorf("deactivate subscription: %w", err)
	}
	return nil
}

func (r *subscriptionRepository) TouchLastUsed(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE push_subscriptions SET last_used_at = NOW(), updated_at = NOW() WHERE id = $1`,
		id)
	if err != nil {
		return fmt.Errorf("touch subscription: %w", err)
	}
	return nil
}

func (r *subscriptionRepository) DeleteInactiveBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM push_subscriptions WHERE is_active = FALSE AND updated_at < $1`,
		cutoff)
	if err != nil {
		return 0, fmt.Errorf("cleanup subscriptions: %w", err)
	}
	return res.RowsAffected()
}
