package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema holds the table definitions. Uniqueness of natural keys lives here,
// in the database, so concurrent upserts serialize on the constraint instead
// of on application-level locks.
const schema = `
CREATE TABLE IF NOT EXISTS stocks (
	id             BIGSERIAL PRIMARY KEY,
	symbol         TEXT NOT NULL UNIQUE,
	name           TEXT NOT NULL,
	price          NUMERIC(18,4) NOT NULL,
	change         NUMERIC(18,4) NOT NULL,
	change_percent NUMERIC(10,4) NOT NULL,
	volume         TEXT NOT NULL DEFAULT '',
	market_cap     TEXT NOT NULL DEFAULT '',
	pe_ratio       NUMERIC(12,4),
	week52_high    NUMERIC(18,4),
	week52_low     NUMERIC(18,4),
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS currency_pairs (
	id             BIGSERIAL PRIMARY KEY,
	symbol         TEXT NOT NULL UNIQUE,
	base_currency  TEXT NOT NULL,
	quote_currency TEXT NOT NULL,
	rate           NUMERIC(18,6) NOT NULL,
	change         NUMERIC(18,6) NOT NULL,
	change_percent NUMERIC(10,4) NOT NULL,
	margin         NUMERIC(8,4) NOT NULL DEFAULT 0,
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS market_indices (
	id             BIGSERIAL PRIMARY KEY,
	name           TEXT NOT NULL UNIQUE,
	symbol         TEXT NOT NULL UNIQUE,
	value          NUMERIC(18,4) NOT NULL,
	change         NUMERIC(18,4) NOT NULL,
	change_percent NUMERIC(10,4) NOT NULL,
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS news_articles (
	id           BIGSERIAL PRIMARY KEY,
	title        TEXT NOT NULL,
	summary      TEXT NOT NULL,
	content      TEXT NOT NULL DEFAULT '',
	source       TEXT NOT NULL,
	image_url    TEXT NOT NULL DEFAULT '',
	published_at TIMESTAMPTZ NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_news_published_at ON news_articles (published_at DESC);

CREATE TABLE IF NOT EXISTS user_favorites (
	id         BIGSERIAL PRIMARY KEY,
	user_id    TEXT NOT NULL,
	item_type  TEXT NOT NULL,
	item_id    TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_favorites_user ON user_favorites (user_id, created_at DESC);

CREATE TABLE IF NOT EXISTS users (
	id         TEXT PRIMARY KEY,
	email      TEXT NOT NULL UNIQUE,
	first_name TEXT NOT NULL DEFAULT '',
	last_name  TEXT NOT NULL DEFAULT '',
	avatar_url TEXT NOT NULL DEFAULT '',
	role       TEXT NOT NULL DEFAULT 'user',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// InitSchema creates all tables and indexes if they do not exist.
func InitSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}
