package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// schema holds the DDL for the subscription store. Applied at startup so a
// fresh database is usable without a separate migration step.
//
// Uniqueness on (user_id, endpoint) prevents duplicate channels per user;
// the user_id and is_active indexes keep audience resolution and per-user
// listing cheap.
const schema = `
CREATE TABLE IF NOT EXISTS push_subscriptions (
	id                 BIGSERIAL PRIMARY KEY,
	user_id            TEXT        NOT NULL,
	endpoint           TEXT        NOT NULL,
	p256dh             TEXT        NOT NULL,
	auth               TEXT        NOT NULL,
	device_fingerprint TEXT,
	is_active          BOOLEAN     NOT NULL DEFAULT TRUE,
	last_used_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at         TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (user_id, endpoint)
);

CREATE INDEX IF NOT EXISTS idx_push_subscriptions_user_id
	ON push_subscriptions (user_id);

CREATE INDEX IF NOT EXISTS idx_push_subscriptions_is_active
	ON push_subscriptions (is_active);
`

// EnsureSchema creates the subscription table and indexes if missing.
func EnsureSchema(db *sqlx.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
