// Package jobs holds the background work the scheduler triggers: outbox
// dispatch, resubmission-deadline sweeps and upload cleanup.
package jobs

import (
	"context"
	"fmt"
	"time"

	"campuslink-backend/internal/logger"
)

// Job is a unit of scheduled background work
type Job func(ctx context.Context) error

// JobRunner executes jobs with a bounded context and panic recovery so one
// bad run never takes the scheduler down.
type JobRunner struct {
	timeout time.Duration
}

func NewJobRunner(timeout time.Duration) *JobRunner {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &JobRunner{timeout: timeout}
}

// Run executes the job synchronously and logs the outcome
func (r *JobRunner) Run(name string, job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	start := time.Now()
	err := runWithRecovery(ctx, name, job)
	if err != nil {
		logger.Error("Job failed", "job", name, "duration_ms", time.Since(start).Milliseconds(), "error", err)
		return
	}
	logger.Debug("Job completed", "job", name, "duration_ms", time.Since(start).Milliseconds())
}

func runWithRecovery(ctx context.Context, name string, job Job) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("job %s panicked: %v", name, rec)
		}
	}()
	return job(ctx)
}
