package storage

import (
	"context"
	"encoding/json"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MRamiBalles/PocketOffice/server/internal/engine"
	"github.com/MRamiBalles/PocketOffice/server/internal/events"
	"github.com/MRamiBalles/PocketOffice/server/internal/platform/logger"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := InitSQLite(filepath.Join(t.TempDir(), "office.db"))
	require.NoError(t, err)
	s := NewSQLiteStore(db)
	t.Cleanup(func() { s.Close() })
	return s
}

func newEngine(seed uint64) *engine.Engine {
	cfg := engine.DefaultConfig()
	cfg.EventPool = nil
	return engine.New(cfg, rand.New(rand.NewPCG(seed, seed)), logger.Discard())
}

func playedSnapshot(t *testing.T) *engine.Snapshot {
	t.Helper()
	e := newEngine(7)
	for _, c := range e.Candidates()[:2] {
		_, err := e.Hire(c.ID)
		require.NoError(t, err)
	}
	for i := 0; i < 12; i++ {
		e.AdvanceDay()
	}
	return e.Snapshot()
}

func TestLoadEmptyIsAbsent(t *testing.T) {
	s := newTestStore(t)
	snap, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	snap := playedSnapshot(t)

	require.NoError(t, s.Save(ctx, snap))
	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)

	assert.Equal(t, snap.Company, loaded.Company)
	assert.Equal(t, snap.Cash, loaded.Cash)
	assert.Equal(t, snap.Employees, loaded.Employees)
	assert.Equal(t, snap.Layout, loaded.Layout)
	assert.True(t, snap.SavedAt.Equal(loaded.SavedAt))

	dst := newEngine(99)
	require.NoError(t, dst.Restore(loaded))
	assert.Equal(t, snap.Cash, dst.State().Cash)
}

func TestLoadReturnsNewestSave(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	first := playedSnapshot(t)
	second := playedSnapshot(t)
	second.Company.Name = "Second Co"
	require.NoError(t, s.Save(ctx, first))
	require.NoError(t, s.Save(ctx, second))

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Second Co", loaded.Company.Name)
}

func TestCorruptSaveIsRejected(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	_, err := s.db.Exec(`INSERT INTO snapshots (company, version, saved_at, payload) VALUES ('x', 1, ?, ?)`,
		time.Now(), `{"version":1,"company":{"name":"x"}}`)
	require.NoError(t, err)

	snap, err := s.Load(ctx)
	assert.Nil(t, snap)
	assert.ErrorIs(t, err, ErrCorruptSnapshot)
}

func TestDecodeSnapshot(t *testing.T) {
	raw, err := EncodeSnapshot(playedSnapshot(t))
	require.NoError(t, err)
	_, err = DecodeSnapshot(raw)
	require.NoError(t, err)

	cases := map[string]string{
		"not json":        `{`,
		"empty":           `{}`,
		"bad tier":        `{"version":1,"saved_at":"2026-01-01T00:00:00Z","cash":0,"employees":[],"active_projects":[],"floors":1,"company":{"name":"x","reputation":1,"tier":"Mega","year":2024,"month":1,"day":1}}`,
		"stat range":      `{"version":1,"saved_at":"2026-01-01T00:00:00Z","cash":0,"active_projects":[],"floors":1,"company":{"name":"x","reputation":1,"tier":"Startup","year":2024,"month":1,"day":1},"employees":[{"id":"a","first_name":"A","last_name":"B","role":"Developer","personality":"Lazy","skill":140,"motivation":1,"teamwork":1,"creativity":1,"level":1,"monthly_salary":1}]}`,
		"too many floors": `{"version":1,"saved_at":"2026-01-01T00:00:00Z","cash":0,"employees":[],"active_projects":[],"floors":4,"company":{"name":"x","reputation":1,"tier":"Startup","year":2024,"month":1,"day":1}}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			snap, err := DecodeSnapshot([]byte(doc))
			assert.Nil(t, snap)
			assert.ErrorIs(t, err, ErrCorruptSnapshot)
		})
	}
}

func TestNotificationArchive(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	batch := []events.GameEvent{
		{Seq: 1, Type: events.EventTypeDayPassed, Payload: events.CounterPayload{Value: 2}, Year: 2024, Month: 1, Day: 2},
		{Seq: 2, Type: events.EventTypeTierUpgraded, Payload: events.TierPayload{Tier: "SME"}, Year: 2024, Month: 2, Day: 1},
		{Seq: 3, Type: events.EventTypeDayPassed, Payload: events.CounterPayload{Value: 3}, Year: 2024, Month: 1, Day: 3},
	}
	require.NoError(t, s.Append(ctx, batch))
	require.NoError(t, s.Append(ctx, nil))

	recent, err := s.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, int64(2), recent[0].Seq)
	assert.Equal(t, int64(3), recent[1].Seq)
	assert.JSONEq(t, `{"value":3}`, string(recent[1].Payload.(json.RawMessage)))

	tiers, err := s.ByType(ctx, events.EventTypeTierUpgraded, 10)
	require.NoError(t, err)
	require.Len(t, tiers, 1)
	assert.Equal(t, 2, tiers[0].Month)
}

func TestRecapSummarizes(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.Append(ctx, []events.GameEvent{
		{Seq: 1, Type: events.EventTypeDayPassed, Payload: events.CounterPayload{Value: 2}},
		{Seq: 2, Type: events.EventTypeTierUpgraded, Payload: events.TierPayload{Tier: "SME"}, Year: 2024, Month: 3, Day: 1},
		{Seq: 3, Type: events.EventTypeBankrupt, Payload: events.CashChangedPayload{Cash: -20}},
	}))

	recap, err := Recap(ctx, s, 50)
	require.NoError(t, err)
	require.Len(t, recap, 2, "day ticks are skipped")
	assert.Equal(t, "Reached SME", recap[0].Summary)
	assert.Equal(t, ImpactPositive, recap[0].Impact)
	assert.Equal(t, "2024-03-01", recap[0].Date)
	assert.Equal(t, "Cash fell to -20", recap[1].Summary)
	assert.Equal(t, ImpactNegative, recap[1].Impact)
}

func TestArchiverWritesInBackground(t *testing.T) {
	s := newTestStore(t)
	a := NewArchiver(s, logger.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	assert.Zero(t, a.Publish([]events.GameEvent{{Seq: 1, Type: events.EventTypeGameMessage, Payload: events.MessagePayload{Text: "hi"}}}))
	require.Eventually(t, func() bool {
		got, err := s.Recent(context.Background(), 10)
		return err == nil && len(got) == 1
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "mongo", "")
	assert.Error(t, err)
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("OFFICE_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("OFFICE_TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()
	s, err := ConnectPostgres(ctx, dsn)
	require.NoError(t, err)
	defer s.Close()

	snap := playedSnapshot(t)
	snap.Company.Name = "PG Co"
	require.NoError(t, s.Save(ctx, snap))
	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "PG Co", loaded.Company.Name)

	require.NoError(t, s.Append(ctx, []events.GameEvent{{Seq: 1, Type: events.EventTypeYearPassed, Payload: events.CounterPayload{Value: 2025}}}))
	years, err := s.ByType(ctx, events.EventTypeYearPassed, 1)
	require.NoError(t, err)
	assert.Len(t, years, 1)
}
