package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// DirectorySyncJobName is the scheduler key for the directory user sync
const DirectorySyncJobName = "directory_sync"

// UserSyncService pulls the sales staff from the corporate directory into the
// local users table. Declared here so the job does not import the service
// package directly.
type UserSyncService interface {
	SyncFromDirectory(ctx context.Context) error
}

// DirectorySyncJob refreshes the assignable user list from the directory
type DirectorySyncJob struct {
	userService UserSyncService
	logger      *zap.Logger
	timeout     time.Duration
}

func NewDirectorySyncJob(userService UserSyncService, logger *zap.Logger, timeout time.Duration) *DirectorySyncJob {
	return &DirectorySyncJob{
		userService: userService,
		logger:      logger,
		timeout:     timeout,
	}
}

// Run executes one sync pass. Called by the scheduler; also invoked once at
// startup so the user list is fresh before the first cron tick.
func (j *DirectorySyncJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	j.logger.Info("starting directory sync job")

	if err := j.userService.SyncFromDirectory(ctx); err != nil {
		j.logger.Error("directory sync job failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}

	j.logger.Info("directory sync job completed",
		zap.Duration("duration", time.Since(start)))
}
