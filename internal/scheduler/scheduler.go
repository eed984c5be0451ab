// Package scheduler wires the background jobs onto cron schedules. All
// schedules run in UTC with seconds precision.
package scheduler

import (
	"fmt"
	"time"

	"campuslink-backend/internal/config"
	"campuslink-backend/internal/jobs"
	"campuslink-backend/internal/logger"

	"github.com/robfig/cron/v3"
)

type Scheduler struct {
	cron   *cron.Cron
	runner *jobs.JobRunner
}

func New(cfg config.SchedulerConfig, dispatcher *jobs.OutboxDispatcher, maintenance *jobs.MaintenanceJobs) (*Scheduler, error) {
	s := &Scheduler{
		cron:   cron.New(cron.WithLocation(time.UTC), cron.WithSeconds()),
		runner: jobs.NewJobRunner(5 * time.Minute),
	}

	entries := []struct {
		name     string
		schedule string
		job      jobs.Job
	}{
		{"dispatch_outbox", cfg.DispatchOutbox, dispatcher.Dispatch},
		{"expire_resubmissions", cfg.ExpireResubmissions, maintenance.ExpireResubmissionWindows},
		{"cleanup_orphan_uploads", cfg.CleanupOrphanUploads, maintenance.CleanupOrphanUploads},
	}

	for _, entry := range entries {
		name, job := entry.name, entry.job
		if _, err := s.cron.AddFunc(entry.schedule, func() {
			s.runner.Run(name, job)
		}); err != nil {
			return nil, fmt.Errorf("failed to schedule %s: %w", name, err)
		}
		logger.Info("Job scheduled", "job", name, "schedule", entry.schedule)
	}

	return s, nil
}

// Start begins running scheduled jobs in the background
func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Info("Scheduler started")
}

// Stop halts scheduling and waits for running jobs to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Scheduler stopped")
}
