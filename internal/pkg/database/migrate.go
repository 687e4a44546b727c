package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// Schema statements, applied once at startup in order. Everything downstream
// assumes the schema exists and fails loudly if it does not.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            UUID PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role          TEXT NOT NULL DEFAULT 'customer',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS user_wallets (
		user_id    UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		balance    BIGINT NOT NULL DEFAULT 0,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS wallet_transactions (
		id           UUID PRIMARY KEY,
		user_id      UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		amount       BIGINT NOT NULL,
		type         TEXT NOT NULL,
		reference_id TEXT,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS wallet_transactions_ref_uniq
		ON wallet_transactions (user_id, type, reference_id)
		WHERE reference_id IS NOT NULL`,

	`CREATE TABLE IF NOT EXISTS price_tiers (
		id         SERIAL PRIMARY KEY,
		name       TEXT NOT NULL,
		unit_price BIGINT NOT NULL,
		is_active  BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	// Unconsumed pins only: allocation hard-deletes rows, so a plain count per
	// tier is always the available count.
	`CREATE TABLE IF NOT EXISTS pin_units (
		id         BIGSERIAL PRIMARY KEY,
		tier_id    INTEGER NOT NULL REFERENCES price_tiers(id),
		code       TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS pin_units_tier_code_uniq
		ON pin_units (tier_id, code)`,

	`CREATE TABLE IF NOT EXISTS tier_sources (
		tier_id    INTEGER PRIMARY KEY REFERENCES price_tiers(id),
		source     TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS orders (
		id             UUID PRIMARY KEY,
		user_id        UUID NOT NULL REFERENCES users(id),
		tier_id        INTEGER NOT NULL REFERENCES price_tiers(id),
		requested      INTEGER NOT NULL,
		obtained       INTEGER NOT NULL,
		unit_price     BIGINT NOT NULL,
		amount_charged BIGINT NOT NULL,
		status         TEXT NOT NULL,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS order_pins (
		id       BIGSERIAL PRIMARY KEY,
		order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		code     TEXT NOT NULL,
		source   TEXT NOT NULL
	)`,
}

// Migrate applies the schema. Safe to run on every startup.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for i, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d failed: %w", i, err)
		}
	}
	log.Info().Int("statements", len(migrations)).Msg("Schema migration complete")
	return nil
}
