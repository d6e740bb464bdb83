package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Reloader runs one directory load cycle.
type Reloader interface {
	Reload(ctx context.Context) error
}

// RefreshWorker reloads the directory on a fixed interval.
type RefreshWorker struct {
	cron     *cron.Cron
	reloader Reloader
	interval time.Duration
	logger   *zap.Logger
}

// NewRefreshWorker schedules reloads every interval.
func NewRefreshWorker(reloader Reloader, interval time.Duration, logger *zap.Logger) (*RefreshWorker, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &RefreshWorker{
		cron:     cron.New(),
		reloader: reloader,
		interval: interval,
		logger:   logger,
	}
	if _, err := w.cron.AddFunc(fmt.Sprintf("@every %s", interval), w.tick); err != nil {
		return nil, fmt.Errorf("schedule directory refresh: %w", err)
	}
	return w, nil
}

func (w *RefreshWorker) tick() {
	if err := w.reloader.Reload(context.Background()); err != nil {
		w.logger.Warn("scheduled directory refresh failed", zap.Error(err))
	}
}

// Start begins the schedule in the background.
func (w *RefreshWorker) Start() {
	w.logger.Info("directory refresh scheduled", zap.Duration("interval", w.interval))
	w.cron.Start()
}

// Stop halts the schedule and waits for a running reload to return or ctx
// to expire.
func (w *RefreshWorker) Stop(ctx context.Context) {
	done := w.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		w.logger.Warn("directory refresh still running at shutdown")
	}
}
