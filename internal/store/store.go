package store

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clonder/varys/internal/varyserr"
)

// DSNEnvVar is the environment variable the connection string is read from;
// spec.md's external interfaces call this out explicitly rather than routing
// it through the YAML config.
const DSNEnvVar = "VARYS_DATABASE_URL"

// Store is the durable session/interaction log, backed by a PostgreSQL
// connection pool. All methods are safe for concurrent use, though the
// interaction engine only ever drives one session at a time.
type Store struct {
	pool *pgxpool.Pool
}

// Connect opens a Store using the connection string from [DSNEnvVar] and
// runs [Migrate]. Mirrors the teacher's NewStore: parse, pool, ping, migrate.
func Connect(ctx context.Context) (*Store, error) {
	dsn := os.Getenv(DSNEnvVar)
	if dsn == "" {
		return nil, fmt.Errorf("store: %s is not set: %w", DSNEnvVar, varyserr.ErrStoreConnect)
	}
	return ConnectDSN(ctx, dsn)
}

// ConnectDSN opens a Store using an explicit DSN, bypassing the environment.
// Exposed for tests that spin up an ephemeral database.
func ConnectDSN(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("store: parse dsn: %w: %w", err, varyserr.ErrStoreConnect)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("store: create pool: %w: %w", err, varyserr.ErrStoreConnect)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("store: ping: %w: %w", err, varyserr.ErrStoreConnect)
	}

	if err := Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return &Store{pool: pool}, nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// Ping is a [health.Checker]-compatible readiness probe.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("store: ping: %w", err)
	}
	return nil
}

// NewSessionConfig is the snapshot of interactor configuration persisted
// onto a Session row at creation time.
type NewSessionConfig struct {
	Interface   string
	Voice       string
	Sensitivity string
	Model       string
}

// CreateSession inserts a new Session row with started = now and returns the
// assigned Session.
func (s *Store) CreateSession(ctx context.Context, cfg NewSessionConfig) (*Session, error) {
	const q = `
		INSERT INTO session (started, interface, voice, sensitivity, model)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	started := time.Now().UTC()
	var id int64
	if err := s.pool.QueryRow(ctx, q, started, cfg.Interface, cfg.Voice, cfg.Sensitivity, cfg.Model).Scan(&id); err != nil {
		return nil, fmt.Errorf("store: create session: %w: %w", err, varyserr.ErrStoreQuery)
	}

	return &Session{
		ID:          id,
		Interface:   cfg.Interface,
		Voice:       cfg.Voice,
		Sensitivity: cfg.Sensitivity,
		Model:       cfg.Model,
		Started:     started,
	}, nil
}

// UpdateSession persists the current mutable fields (data_dir, ended) of sess.
func (s *Store) UpdateSession(ctx context.Context, sess *Session) error {
	const q = `
		UPDATE session
		SET data_dir = $2, ended = $3
		WHERE id = $1`

	if _, err := s.pool.Exec(ctx, q, sess.ID, sess.DataDir, sess.Ended); err != nil {
		return fmt.Errorf("store: update session %d: %w: %w", sess.ID, err, varyserr.ErrStoreQuery)
	}
	return nil
}

// CompleteSession sets sess.Ended = now and persists the row.
func (s *Store) CompleteSession(ctx context.Context, sess *Session) error {
	now := time.Now().UTC()
	sess.Ended = &now
	return s.UpdateSession(ctx, sess)
}

// CreateInteraction inserts a new Interaction row under sessionID with
// started = now and returns the assigned Interaction.
func (s *Store) CreateInteraction(ctx context.Context, sessionID int64, query string) (*Interaction, error) {
	const q = `
		INSERT INTO interaction (session_id, query, started)
		VALUES ($1, $2, $3)
		RETURNING id`

	started := time.Now().UTC()
	var id int64
	if err := s.pool.QueryRow(ctx, q, sessionID, query, started).Scan(&id); err != nil {
		return nil, fmt.Errorf("store: create interaction: %w: %w", err, varyserr.ErrStoreQuery)
	}

	return &Interaction{
		ID:        id,
		SessionID: sessionID,
		Query:     query,
		Started:   started,
	}, nil
}

// UpdateInteraction persists all mutable fields of ia.
func (s *Store) UpdateInteraction(ctx context.Context, ia *Interaction) error {
	const q = `
		UPDATE interaction
		SET response = $2, query_duration = $3, response_duration = $4,
		    query_file = $5, response_file = $6, capture_file = $7, ended = $8
		WHERE id = $1`

	if _, err := s.pool.Exec(ctx, q,
		ia.ID, ia.Response, ia.QueryDurationMS, ia.ResponseDurationMS,
		ia.QueryFile, ia.ResponseFile, ia.CaptureFile, ia.Ended,
	); err != nil {
		return fmt.Errorf("store: update interaction %d: %w: %w", ia.ID, err, varyserr.ErrStoreQuery)
	}
	return nil
}

// CompleteInteraction sets ia.Ended = now and persists the row.
func (s *Store) CompleteInteraction(ctx context.Context, ia *Interaction) error {
	now := time.Now().UTC()
	ia.Ended = &now
	return s.UpdateInteraction(ctx, ia)
}

// GetInteraction fetches a single interaction by id. It fails with
// [varyserr.ErrStoreNotFound] when no row has that id.
func (s *Store) GetInteraction(ctx context.Context, id int64) (*Interaction, error) {
	const q = `
		SELECT id, session_id, query, response, query_duration, response_duration,
		       query_file, response_file, capture_file, started, ended
		FROM interaction WHERE id = $1`

	rows, err := s.pool.Query(ctx, q, id)
	if err != nil {
		return nil, fmt.Errorf("store: get interaction %d: %w: %w", id, err, varyserr.ErrStoreQuery)
	}
	ia, err := pgx.CollectExactlyOneRow(rows, scanInteraction)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("store: interaction %d: %w", id, varyserr.ErrStoreNotFound)
		}
		return nil, fmt.Errorf("store: scan interaction %d: %w: %w", id, err, varyserr.ErrStoreQuery)
	}
	return &ia, nil
}

func scanInteraction(row pgx.CollectableRow) (Interaction, error) {
	var ia Interaction
	err := row.Scan(
		&ia.ID, &ia.SessionID, &ia.Query, &ia.Response, &ia.QueryDurationMS, &ia.ResponseDurationMS,
		&ia.QueryFile, &ia.ResponseFile, &ia.CaptureFile, &ia.Started, &ia.Ended,
	)
	return ia, err
}
