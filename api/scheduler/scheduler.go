package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// jobTimeout bounds one scheduled expiration scan
const jobTimeout = 10 * time.Minute

// Job is a unit of work the scheduler runs on every tick
type Job interface {
	Run(ctx context.Context) (*Summary, error)
}

// Scheduler runs the expiration scan periodically when the notifier is kept
// resident instead of being invoked once
type Scheduler struct {
	cron *cron.Cron
	job  Job
}

// NewScheduler creates a new scheduler instance evaluating cron expressions in loc
func NewScheduler(job Job, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		cron: cron.New(cron.WithLocation(loc)),
		job:  job,
	}
}

// Start registers the scan under spec and begins the scheduler
func (s *Scheduler) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.runExpirationScan); err != nil {
		zap.S().Errorw("failed to register expiration job", "schedule", spec, "error", err)
		return err
	}
	s.cron.Start()
	zap.S().Infow("Expiration scheduler started", "schedule", spec)
	return nil
}

// Stop gracefully stops the scheduler, waiting for a running scan to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("Expiration scheduler stopped")
}

func (s *Scheduler) runExpirationScan() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if _, err := s.job.Run(ctx); err != nil {
		zap.S().Errorw("expiration scan failed", "error", err)
	}
}
