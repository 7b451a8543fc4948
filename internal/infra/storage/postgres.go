package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MRamiBalles/PocketOffice/server/internal/engine"
	"github.com/MRamiBalles/PocketOffice/server/internal/events"
)

var postgresSchemas = []string{
	`CREATE TABLE IF NOT EXISTS office_snapshots (
		id BIGSERIAL PRIMARY KEY,
		company TEXT NOT NULL,
		version INTEGER NOT NULL,
		saved_at TIMESTAMPTZ NOT NULL,
		payload JSONB NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS office_notifications (
		id BIGSERIAL PRIMARY KEY,
		seq BIGINT NOT NULL,
		event_type TEXT NOT NULL,
		year INTEGER NOT NULL,
		month INTEGER NOT NULL,
		day INTEGER NOT NULL,
		payload JSONB
	)`,
	`CREATE INDEX IF NOT EXISTS idx_office_notifications_type ON office_notifications(event_type)`,
}

// PostgresStore implements Store using PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// ConnectPostgres opens a pool, verifies it and creates the schema.
func ConnectPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	for _, q := range postgresSchemas {
		if _, err := pool.Exec(ctx, q); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return &PostgresStore{pool: pool}, nil
}

// Save inserts snap as the newest save.
func (s *PostgresStore) Save(ctx context.Context, snap *engine.Snapshot) error {
	raw, err := EncodeSnapshot(snap)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO office_snapshots (company, version, saved_at, payload) VALUES ($1, $2, $3, $4)`,
		snap.Company.Name, snap.Version, snap.SavedAt, raw,
	)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// Load returns the newest save, or nil when the table is empty.
func (s *PostgresStore) Load(ctx context.Context) (*engine.Snapshot, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT payload FROM office_snapshots ORDER BY id DESC LIMIT 1`).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	return DecodeSnapshot(raw)
}

// Append stores a batch of notifications in one round trip.
func (s *PostgresStore) Append(ctx context.Context, batch []events.GameEvent) error {
	if len(batch) == 0 {
		return nil
	}
	b := &pgx.Batch{}
	for _, e := range batch {
		payload, err := json.Marshal(e.Payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		b.Queue(
			`INSERT INTO office_notifications (seq, event_type, year, month, day, payload) VALUES ($1, $2, $3, $4, $5, $6)`,
			e.Seq, string(e.Type), e.Year, e.Month, e.Day, payload,
		)
	}
	if err := s.pool.SendBatch(ctx, b).Close(); err != nil {
		return fmt.Errorf("failed to append notifications: %w", err)
	}
	return nil
}

// Recent returns up to limit notifications, oldest first.
func (s *PostgresStore) Recent(ctx context.Context, limit int) ([]events.GameEvent, error) {
	return s.queryNotifications(ctx, `
		SELECT seq, event_type, year, month, day, payload FROM (
			SELECT * FROM office_notifications ORDER BY id DESC LIMIT $1
		) recent ORDER BY id ASC`, limit)
}

// ByType returns up to limit notifications of type t, oldest first.
func (s *PostgresStore) ByType(ctx context.Context, t events.EventType, limit int) ([]events.GameEvent, error) {
	return s.queryNotifications(ctx, `
		SELECT seq, event_type, year, month, day, payload FROM (
			SELECT * FROM office_notifications WHERE event_type = $1 ORDER BY id DESC LIMIT $2
		) recent ORDER BY id ASC`, string(t), limit)
}

func (s *PostgresStore) queryNotifications(ctx context.Context, query string, args ...interface{}) ([]events.GameEvent, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	var out []events.GameEvent
	for rows.Next() {
		var e events.GameEvent
		var eventType string
		var payload []byte
		if err := rows.Scan(&e.Seq, &eventType, &e.Year, &e.Month, &e.Day, &payload); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		e.Type = events.EventType(eventType)
		if len(payload) > 0 && string(payload) != "null" {
			e.Payload = json.RawMessage(payload)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close releases the pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

var _ Store = (*PostgresStore)(nil)
