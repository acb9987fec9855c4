package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ddlSession and ddlInteraction mirror the logical schema in spec.md §6:
// session(id, started, ended, interface, voice, sensitivity, model, data_dir)
// interaction(id, session_id, query, response, query_duration, response_duration,
//             query_file, response_file, capture_file, started, ended)
//
// Both are append-and-update tables — rows are never deleted.
const ddlSession = `
CREATE TABLE IF NOT EXISTS session (
    id          BIGSERIAL    PRIMARY KEY,
    started     TIMESTAMPTZ  NOT NULL,
    ended       TIMESTAMPTZ  NULL,
    interface   TEXT         NOT NULL DEFAULT '',
    voice       TEXT         NOT NULL DEFAULT '',
    sensitivity TEXT         NOT NULL DEFAULT '',
    model       TEXT         NOT NULL DEFAULT '',
    data_dir    TEXT         NULL
);
`

const ddlInteraction = `
CREATE TABLE IF NOT EXISTS interaction (
    id                 BIGSERIAL    PRIMARY KEY,
    session_id         BIGINT       NOT NULL REFERENCES session(id),
    query              TEXT         NOT NULL,
    response           TEXT         NULL,
    query_duration     BIGINT       NULL,
    response_duration  BIGINT       NULL,
    query_file         TEXT         NULL,
    response_file      TEXT         NULL,
    capture_file       TEXT         NULL,
    started            TIMESTAMPTZ  NOT NULL,
    ended              TIMESTAMPTZ  NULL
);

CREATE INDEX IF NOT EXISTS idx_interaction_session_id ON interaction (session_id);
`

// Migrate creates the session and interaction tables if they do not already
// exist. It is idempotent and safe to call on every process start.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, ddlSession); err != nil {
		return fmt.Errorf("store: migrate session table: %w", err)
	}
	if _, err := pool.Exec(ctx, ddlInteraction); err != nil {
		return fmt.Errorf("store: migrate interaction table: %w", err)
	}
	return nil
}
