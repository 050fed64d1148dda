// Package jobs provides the service's scheduled background tasks, built on
// github.com/robfig/cron/v3 and coordinated through JobManager.
package jobs

import (
	"fmt"
	"log/slog"

	"dispatch/internal/core/application/fanout"
)

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	fanoutRetryJob *FanoutRetryJob
}

// NewJobManager creates a job manager with all required jobs.
func NewJobManager(projector *fanout.Projector, logger *slog.Logger) *JobManager {
	return &JobManager{
		fanoutRetryJob: NewFanoutRetryJob(projector, logger),
	}
}

// StartAll starts all scheduled jobs.
func (jm *JobManager) StartAll() error {
	if err := jm.fanoutRetryJob.Start(); err != nil {
		return fmt.Errorf("failed to start fan-out retry job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.fanoutRetryJob.Stop()
}
