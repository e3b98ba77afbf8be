package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

const DefaultStaleLeadSchedule = "0 9 * * *"

// DigestRunner sends one stale lead digest and reports how many leads it held.
type DigestRunner interface {
	Run(ctx context.Context) (int, error)
}

// StaleLeadWorker runs the stale lead digest on a cron schedule.
type StaleLeadWorker struct {
	runner   DigestRunner
	schedule string
	logger   *slog.Logger
}

func NewStaleLeadWorker(runner DigestRunner, schedule string, logger *slog.Logger) (*StaleLeadWorker, error) {
	if schedule == "" {
		schedule = DefaultStaleLeadSchedule
	}
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("invalid stale lead schedule %q: %w", schedule, err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &StaleLeadWorker{runner: runner, schedule: schedule, logger: logger}, nil
}

// Start blocks until ctx is done. A run in progress is allowed to finish.
func (w *StaleLeadWorker) Start(ctx context.Context) error {
	c := cron.New()
	if _, err := c.AddFunc(w.schedule, func() { w.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("schedule stale lead digest: %w", err)
	}

	w.logger.Info("stale lead worker started", "schedule", w.schedule)
	c.Start()

	<-ctx.Done()
	<-c.Stop().Done()
	w.logger.Info("stale lead worker stopped")
	return nil
}

func (w *StaleLeadWorker) RunOnce(ctx context.Context) {
	n, err := w.runner.Run(ctx)
	if err != nil {
		w.logger.Error("stale lead digest failed", "error", err)
		return
	}
	if n > 0 {
		w.logger.Info("stale lead digest finished", "leads", n)
	}
}
