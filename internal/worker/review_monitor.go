package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/openpaygo/antifraud/internal/domain"
	"github.com/openpaygo/antifraud/internal/observability"
)

// ReviewCounter counts transactions currently in a given status.
type ReviewCounter interface {
	CountByStatus(ctx context.Context, status domain.TransactionStatus) (int64, error)
}

// ReviewMonitor periodically refreshes the manual-review backlog gauge.
type ReviewMonitor struct {
	counter  ReviewCounter
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewReviewMonitor constructs a monitor with a default one-minute interval.
func NewReviewMonitor(counter ReviewCounter) *ReviewMonitor {
	return &ReviewMonitor{
		counter:  counter,
		interval: time.Minute,
		stopCh:   make(chan struct{}),
	}
}

// WithInterval updates the run interval.
func (w *ReviewMonitor) WithInterval(interval time.Duration) *ReviewMonitor {
	if interval > 0 {
		w.interval = interval
	}
	return w
}

// Start blocks and refreshes the gauge at the configured interval.
func (w *ReviewMonitor) Start(ctx context.Context) {
	zap.L().Info("review monitor starting", zap.Duration("interval", w.interval))
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// Run once immediately at startup.
	w.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("review monitor context canceled")
			return
		case <-w.stopCh:
			zap.L().Info("review monitor stop signal received")
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

// Stop stops the running monitor loop.
func (w *ReviewMonitor) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
	})
}

// Run starts the monitor in a goroutine and returns a stop function.
func (w *ReviewMonitor) Run(ctx context.Context) func() {
	go w.Start(ctx)
	return w.Stop
}

func (w *ReviewMonitor) runOnce(ctx context.Context) {
	count, err := w.counter.CountByStatus(ctx, domain.StatusReview)
	if err != nil {
		observability.IncrementWorkerRun("review_monitor", "failed")
		zap.L().Error("review backlog count failed", zap.Error(err))
		return
	}
	observability.SetReviewQueueSize(count)
	observability.IncrementWorkerRun("review_monitor", "success")
}
