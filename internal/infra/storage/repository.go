// Package storage provides the persistence gateway for the simulation server.
// This package implements the repository pattern to keep the engine free of I/O.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/MRamiBalles/PocketOffice/server/internal/engine"
	"github.com/MRamiBalles/PocketOffice/server/internal/events"
)

// ErrCorruptSnapshot is returned by Load when the stored snapshot cannot be applied.
// The snapshot is reported absent; nothing is handed to the engine.
var ErrCorruptSnapshot = errors.New("corrupt snapshot")

// SnapshotRepository is the save/load contract of the engine.
type SnapshotRepository interface {
	// Save stores snap as the newest save.
	Save(ctx context.Context, snap *engine.Snapshot) error

	// Load returns the newest save, or nil when there is none.
	Load(ctx context.Context) (*engine.Snapshot, error)
}

// NotificationRepository archives drained notifications for later inspection.
type NotificationRepository interface {
	// Append stores a batch in order.
	Append(ctx context.Context, batch []events.GameEvent) error

	// Recent returns up to limit archived notifications, oldest first.
	Recent(ctx context.Context, limit int) ([]events.GameEvent, error)

	// ByType returns up to limit archived notifications of one type, oldest first.
	ByType(ctx context.Context, t events.EventType, limit int) ([]events.GameEvent, error)
}

// Store is a database-backed implementation of both repositories.
type Store interface {
	SnapshotRepository
	NotificationRepository
	Close() error
}

// Open connects to the configured backend and makes sure its schema exists.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case "sqlite", "":
		db, err := InitSQLite(dsn)
		if err != nil {
			return nil, err
		}
		return NewSQLiteStore(db), nil
	case "postgres":
		return ConnectPostgres(ctx, dsn)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}
