package notify

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sgovph/sgov-backend/internal/metrics"
	"github.com/sgovph/sgov-backend/internal/observability"
)

// QueueSink hands notes off to the outbound queue so the primary operation
// never waits on delivery. Publish failures are degraded, not fatal.
type QueueSink struct {
	queue Queue
	log   *zap.Logger
}

func NewQueueSink(queue Queue, log *zap.Logger) *QueueSink {
	return &QueueSink{queue: queue, log: log}
}

func (s *QueueSink) Emit(ctx context.Context, n Note) {
	// Detach from the caller's deadline: the primary operation may already
	// be done, and a short publish timeout of its own is enough.
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if err := s.queue.Publish(pubCtx, n); err != nil {
		metrics.NotifyEmitFailed()
		observability.CaptureErr(err)
		s.log.Warn("notification publish failed",
			zap.String("user_id", n.UserID.String()),
			zap.String("type", string(n.Type)),
			zap.Error(err))
		return
	}
	metrics.NotifyEmitted()
}

// Worker drains the queue into the store. Runs until ctx is cancelled.
type Worker struct {
	queue Queue
	repo  *Repo
	log   *zap.Logger
}

func NewWorker(queue Queue, repo *Repo, log *zap.Logger) *Worker {
	return &Worker{queue: queue, repo: repo, log: log}
}

func (w *Worker) Run(ctx context.Context) error {
	notes, err := w.queue.Consume(ctx)
	if err != nil {
		return err
	}
	w.log.Info("notification worker started")
	for n := range notes {
		if err := w.repo.Insert(ctx, n); err != nil {
			metrics.NotifyEmitDropped()
			observability.CaptureErr(err)
			w.log.Warn("notification persist failed",
				zap.String("user_id", n.UserID.String()), zap.Error(err))
			continue
		}
	}
	w.log.Info("notification worker stopped")
	return nil
}
