package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"

	"summitclub-backend/internal/config"
	"summitclub-backend/internal/jobs"
	"summitclub-backend/internal/logger"
)

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron *cron.Cron
	jobs *jobs.Runner
}

// NewScheduler creates a scheduler with the provided job runner. Cron
// expressions use UTC and seconds precision.
func NewScheduler(runner *jobs.Runner, cfg config.SchedulerConfig) *Scheduler {
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
	)

	s := &Scheduler{
		cron: c,
		jobs: runner,
	}

	if _, err := c.AddFunc(cfg.SweepExpiredOTPCodes, runner.SweepExpiredOTPCodes); err != nil {
		logger.Error("Failed to register SweepExpiredOTPCodes job", "error", err)
	}

	logger.Info("Cron jobs registered", "sweep_expired_otp_codes", cfg.SweepExpiredOTPCodes)
	return s
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Info("Cron scheduler started")
}

// Stop gracefully stops the cron scheduler, waiting for running jobs
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Cron scheduler stopped")
}
