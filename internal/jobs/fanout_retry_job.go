package jobs

import (
	"context"
	"log/slog"

	"dispatch/internal/core/application/fanout"
	"dispatch/internal/metrics"

	"github.com/robfig/cron/v3"
)

// FanoutRetryJob periodically retries notification inserts that failed during
// fan-out. Runs every five seconds; the projector itself spaces attempts per entry
// with exponential backoff, so the schedule only bounds retry latency.
type FanoutRetryJob struct {
	projector *fanout.Projector
	cron      *cron.Cron
	logger    *slog.Logger
}

// NewFanoutRetryJob creates the retry job over the notification projector.
func NewFanoutRetryJob(projector *fanout.Projector, logger *slog.Logger) *FanoutRetryJob {
	return &FanoutRetryJob{
		projector: projector,
		cron:      cron.New(cron.WithSeconds()),
		logger:    logger.With("component", "fanout_retry_job"),
	}
}

// Start begins the retry schedule.
func (j *FanoutRetryJob) Start() error {
	_, err := j.cron.AddFunc("*/5 * * * * *", func() {
		ctx := context.Background()
		j.projector.RetryPending(ctx)
		metrics.NotificationRetryQueueDepth.Set(float64(j.projector.PendingCount()))
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "fan-out retry job started (running every five seconds)")
	return nil
}

// Stop stops the retry schedule.
func (j *FanoutRetryJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "fan-out retry job stopped")
}
