package jobs

import (
	"context"
	"time"

	"summitclub-backend/internal/logger"
	"summitclub-backend/internal/repository"
)

const jobTimeout = 5 * time.Minute

// Runner coordinates the scheduled maintenance jobs.
type Runner struct {
	users repository.UserRepository
}

func NewRunner(users repository.UserRepository) *Runner {
	return &Runner{users: users}
}

// runWithRecovery wraps job execution with panic recovery so a bad job
// cannot take the scheduler down.
func (r *Runner) runWithRecovery(jobName string, jobFunc func(ctx context.Context)) {
	defer func() {
		if p := recover(); p != nil {
			logger.Error("Job panicked", "job", jobName, "panic", p)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	logger.Info("Starting job", "job", jobName)
	jobFunc(ctx)
	logger.Info("Job completed", "job", jobName)
}

// SweepExpiredOTPCodes clears one-time login codes whose expiry has
// passed, so stale codes do not linger in the users table.
func (r *Runner) SweepExpiredOTPCodes() {
	r.runWithRecovery("SweepExpiredOTPCodes", func(ctx context.Context) {
		cleared, err := r.users.ClearExpiredOTPCodes(ctx)
		if err != nil {
			logger.Error("Failed to clear expired OTP codes", "error", err)
			return
		}
		logger.Info("Cleared expired OTP codes", "count", cleared)
	})
}
