package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// ProposalExpiryJobName is the scheduler key for the proposal expiry sweep
const ProposalExpiryJobName = "proposal_expiry"

// ProposalExpiryService sweeps submitted proposals past their validity date
// and notifies the opportunity owners.
type ProposalExpiryService interface {
	SweepExpired(ctx context.Context, now time.Time) (notified int, err error)
}

// ProposalExpiryJob runs the expiry sweep on a cron schedule
type ProposalExpiryJob struct {
	proposalService ProposalExpiryService
	logger          *zap.Logger
	timeout         time.Duration
}

func NewProposalExpiryJob(proposalService ProposalExpiryService, logger *zap.Logger, timeout time.Duration) *ProposalExpiryJob {
	return &ProposalExpiryJob{
		proposalService: proposalService,
		logger:          logger,
		timeout:         timeout,
	}
}

// Run executes one expiry sweep
func (j *ProposalExpiryJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	j.logger.Info("starting proposal expiry job")

	notified, err := j.proposalService.SweepExpired(ctx, time.Now().UTC())
	if err != nil {
		j.logger.Error("proposal expiry job failed",
			zap.Error(err),
			zap.Int("notified_before_failure", notified),
			zap.Duration("duration", time.Since(start)))
		return
	}

	j.logger.Info("proposal expiry job completed",
		zap.Int("owners_notified", notified),
		zap.Duration("duration", time.Since(start)))
}
