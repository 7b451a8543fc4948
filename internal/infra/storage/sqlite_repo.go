package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MRamiBalles/PocketOffice/server/internal/engine"
	"github.com/MRamiBalles/PocketOffice/server/internal/events"
)

// SQLiteStore implements Store for SQLite.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Save(ctx context.Context, snap *engine.Snapshot) error {
	raw, err := EncodeSnapshot(snap)
	if err != nil {
		return err
	}
	query := `INSERT INTO snapshots (company, version, saved_at, payload) VALUES (?, ?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, query, snap.Company.Name, snap.Version, snap.SavedAt, string(raw)); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context) (*engine.Snapshot, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM snapshots ORDER BY id DESC LIMIT 1`).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	return DecodeSnapshot([]byte(payload))
}

func (s *SQLiteStore) Append(ctx context.Context, batch []events.GameEvent) error {
	if len(batch) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO notifications (seq, event_type, year, month, day, payload) VALUES (?, ?, ?, ?, ?, ?)`
	for _, e := range batch {
		payload, err := json.Marshal(e.Payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, e.Seq, string(e.Type), e.Year, e.Month, e.Day, string(payload)); err != nil {
			return fmt.Errorf("failed to append notification: %w", err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]events.GameEvent, error) {
	query := `SELECT seq, event_type, year, month, day, payload FROM (
		SELECT id, seq, event_type, year, month, day, payload FROM notifications ORDER BY id DESC LIMIT ?
	) ORDER BY id ASC`
	return s.getMany(ctx, query, limit)
}

func (s *SQLiteStore) ByType(ctx context.Context, t events.EventType, limit int) ([]events.GameEvent, error) {
	query := `SELECT seq, event_type, year, month, day, payload FROM (
		SELECT id, seq, event_type, year, month, day, payload FROM notifications
		WHERE event_type = ? ORDER BY id DESC LIMIT ?
	) ORDER BY id ASC`
	return s.getMany(ctx, query, string(t), limit)
}

func (s *SQLiteStore) getMany(ctx context.Context, query string, args ...interface{}) ([]events.GameEvent, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []events.GameEvent
	for rows.Next() {
		var e events.GameEvent
		var eventType string
		var payload sql.NullString
		if err := rows.Scan(&e.Seq, &eventType, &e.Year, &e.Month, &e.Day, &payload); err != nil {
			return nil, err
		}
		e.Type = events.EventType(eventType)
		if payload.Valid && payload.String != "null" {
			e.Payload = json.RawMessage(payload.String)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var _ Store = (*SQLiteStore)(nil)
