package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MRamiBalles/PocketOffice/server/internal/events"
	"github.com/MRamiBalles/PocketOffice/server/internal/platform/logger"
	"github.com/MRamiBalles/PocketOffice/server/internal/platform/metrics"
)

type recordingPublisher struct {
	mu      sync.Mutex
	batches [][]events.GameEvent
	drop    int
}

func (r *recordingPublisher) Publish(batch []events.GameEvent) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, batch)
	return r.drop
}

func (r *recordingPublisher) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, b := range r.batches {
		n += len(b)
	}
	return n
}

func TestFlushFansOutAndRecords(t *testing.T) {
	e := newTestEngine(quietConfig(), 31)
	pub := &recordingPublisher{drop: 1}
	collector := metrics.NewCollector()
	tk := NewTicker(e, logger.Discard(), collector, pub, &recordingPublisher{})

	tk.Flush()
	assert.Equal(t, 1, pub.count(), "welcome message")
	assert.Equal(t, int64(1), collector.NotificationsEmitted)
	assert.Equal(t, int64(1), collector.NotificationsDropped)

	tk.Flush()
	assert.Len(t, pub.batches, 1, "empty drains are not published")
}

func TestTickerAdvancesWithRealTime(t *testing.T) {
	cfg := quietConfig()
	cfg.DayDuration = 10 * time.Millisecond
	e := newTestEngine(cfg, 32)
	pub := &recordingPublisher{}
	collector := metrics.NewCollector()
	tk := NewTicker(e, logger.Discard(), collector, pub)
	tk.interval = 5 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- tk.Start(ctx) }()

	require.Eventually(t, func() bool {
		return e.State().Company.Day > 3
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	assert.Positive(t, pub.count())
	assert.Positive(t, collector.DaysSimulated)
}

func TestTickerStop(t *testing.T) {
	tk := NewTicker(newTestEngine(quietConfig(), 33), logger.Discard(), metrics.NewCollector())
	done := make(chan error, 1)
	go func() { done <- tk.Start(context.Background()) }()
	tk.Stop()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("ticker did not stop")
	}
	assert.NotPanics(t, tk.Stop, "a second stop is a no-op")
}
