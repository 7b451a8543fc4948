package storage

import (
	"context"

	"github.com/MRamiBalles/PocketOffice/server/internal/events"
	"github.com/MRamiBalles/PocketOffice/server/internal/platform/logger"
)

const archiveBuffer = 256

// Archiver writes drained notifications to a NotificationRepository off the tick path.
type Archiver struct {
	repo   NotificationRepository
	logger *logger.Logger
	queue  chan []events.GameEvent
}

// NewArchiver creates an archiver; call Run to start writing.
func NewArchiver(repo NotificationRepository, log *logger.Logger) *Archiver {
	return &Archiver{repo: repo, logger: log, queue: make(chan []events.GameEvent, archiveBuffer)}
}

// Publish queues a batch without blocking. Returns the batch size if the queue is full.
func (a *Archiver) Publish(batch []events.GameEvent) int {
	select {
	case a.queue <- batch:
		return 0
	default:
		a.logger.Warn("notification archive queue full", "dropped", len(batch))
		return len(batch)
	}
}

// Run writes queued batches until ctx is done, then flushes what is left.
func (a *Archiver) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			a.flush(context.WithoutCancel(ctx))
			return nil
		case batch := <-a.queue:
			a.write(ctx, batch)
		}
	}
}

func (a *Archiver) flush(ctx context.Context) {
	for {
		select {
		case batch := <-a.queue:
			a.write(ctx, batch)
		default:
			return
		}
	}
}

func (a *Archiver) write(ctx context.Context, batch []events.GameEvent) {
	if err := a.repo.Append(ctx, batch); err != nil {
		a.logger.Error("failed to archive notifications", "count", len(batch), "error", err)
	}
}
