package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// El PRIMARY KEY de users.id respalda la condición de carrera del primer
// login: dos provisiones simultáneas del mismo subject colisionan ahí.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id           TEXT PRIMARY KEY,
	email        TEXT NOT NULL DEFAULT '',
	display_name TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS subscriptions (
	id               BIGSERIAL PRIMARY KEY,
	user_id          TEXT NOT NULL REFERENCES users(id),
	name             TEXT NOT NULL,
	date_started     DATE NOT NULL,
	price_in_dollars DOUBLE PRECISION NOT NULL CHECK (price_in_dollars >= 0),
	recurs           BOOLEAN NOT NULL,
	created_at       TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_subscriptions_user_id ON subscriptions (user_id);

CREATE TABLE IF NOT EXISTS gmail_credentials (
	id            TEXT PRIMARY KEY,
	user_id       TEXT NOT NULL UNIQUE REFERENCES users(id),
	access_token  TEXT NOT NULL DEFAULT '',
	refresh_token TEXT NOT NULL DEFAULT '',
	token_expiry  TIMESTAMPTZ,
	created_at    TIMESTAMPTZ NOT NULL
);
`

// EnsureSchema aplica el esquema mínimo que el servicio necesita.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schema)
	return err
}
