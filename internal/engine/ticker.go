package engine

import (
	"context"
	"sync"
	"time"

	"github.com/MRamiBalles/PocketOffice/server/internal/events"
	"github.com/MRamiBalles/PocketOffice/server/internal/platform/logger"
	"github.com/MRamiBalles/PocketOffice/server/internal/platform/metrics"
)

// FrameRate is how often the driver feeds real time to the engine.
const FrameRate = 250 * time.Millisecond

// Publisher receives drained notifications. It returns how many it could not deliver
// and must not block.
type Publisher interface {
	Publish(batch []events.GameEvent) int
}

// Ticker is the real-time driver. It owns no game state: it measures elapsed wall time,
// hands it to the engine and forwards whatever notifications that produced.
type Ticker struct {
	engine     *Engine
	logger     *logger.Logger
	metrics    *metrics.Collector
	publishers []Publisher
	interval   time.Duration
	stopChan   chan struct{}
	stopOnce   sync.Once
}

// NewTicker creates a driver for e.
func NewTicker(e *Engine, log *logger.Logger, collector *metrics.Collector, publishers ...Publisher) *Ticker {
	return &Ticker{
		engine:     e,
		logger:     log,
		metrics:    collector,
		publishers: publishers,
		interval:   FrameRate,
		stopChan:   make(chan struct{}),
	}
}

// Start runs the loop until ctx is done or Stop is called. Call in a goroutine.
func (t *Ticker) Start(ctx context.Context) error {
	t.logger.Info("simulation ticker started", "frame", t.interval)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			t.logger.Info("simulation ticker stopped by context")
			return nil
		case <-t.stopChan:
			t.logger.Info("simulation ticker stopped manually")
			return nil
		case now := <-ticker.C:
			t.frame(now.Sub(last))
			last = now
		}
	}
}

// Stop ends the loop. Safe to call more than once.
func (t *Ticker) Stop() {
	t.stopOnce.Do(func() { close(t.stopChan) })
}

func (t *Ticker) frame(elapsed time.Duration) {
	start := time.Now()
	days := t.engine.Update(elapsed)
	t.Flush()
	t.metrics.RecordUpdate(time.Since(start), days)
}

// Flush drains the engine and fans the batch out to every publisher.
func (t *Ticker) Flush() {
	batch := t.engine.Drain()
	if len(batch) == 0 {
		return
	}
	dropped := 0
	for _, p := range t.publishers {
		dropped += p.Publish(batch)
	}
	t.metrics.RecordNotifications(len(batch), dropped)
}
