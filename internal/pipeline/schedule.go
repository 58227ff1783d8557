package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// ParseSchedule validates a standard five-field cron expression or a
// descriptor such as "@daily" or "@every 6h".
func ParseSchedule(expr string) error {
	if _, err := cron.ParseStandard(expr); err != nil {
		return fmt.Errorf("schedule %q: %w", expr, err)
	}
	return nil
}

// Schedule calls run on every tick of expr until ctx is cancelled. A tick
// that fires while the previous run is still going is skipped. Run errors
// are logged and do not stop the schedule. Schedule returns after the
// in-flight run, if any, has finished.
func Schedule(ctx context.Context, expr string, run func(context.Context) error, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	_, err := c.AddFunc(expr, func() {
		if err := run(ctx); err != nil {
			logger.Error("scheduled run failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule %q: %w", expr, err)
	}

	logger.Info("scheduler started", "schedule", expr)
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	logger.Info("scheduler stopped")
	return nil
}
