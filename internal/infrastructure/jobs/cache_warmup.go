package jobs

import (
	"context"
	"fmt"
	"time"

	"crew-directory.backend/pkg/logger"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Warmer repopulates a cache from its source
type Warmer interface {
	Warm(ctx context.Context) error
}

// CacheWarmupJob periodically reloads the freelancer snapshots so the first
// visitor after expiry does not pay for the queries.
type CacheWarmupJob struct {
	warmer   Warmer
	schedule string
	timeout  time.Duration
	cron     *cron.Cron
}

// NewCacheWarmupJob creates a job that warms the freelancer cache on schedule
func NewCacheWarmupJob(warmer Warmer, schedule string) *CacheWarmupJob {
	return &CacheWarmupJob{
		warmer:   warmer,
		schedule: schedule,
		timeout:  time.Minute,
		cron:     cron.New(),
	}
}

// Start schedules the job and runs one warm-up right away. The scheduler
// stops when ctx is cancelled.
func (j *CacheWarmupJob) Start(ctx context.Context) error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.run(ctx) }); err != nil {
		return fmt.Errorf("invalid cache warm-up schedule %q: %w", j.schedule, err)
	}
	j.cron.Start()
	logger.Info(ctx, "Cache warm-up job started", zap.String("schedule", j.schedule))

	go j.run(ctx)
	go func() {
		<-ctx.Done()
		j.Stop()
	}()
	return nil
}

// Stop halts the scheduler and waits for a running warm-up to finish
func (j *CacheWarmupJob) Stop() {
	<-j.cron.Stop().Done()
}

func (j *CacheWarmupJob) run(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	runCtx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	start := time.Now()
	if err := j.warmer.Warm(runCtx); err != nil {
		logger.Error(ctx, "Cache warm-up failed", zap.Error(err))
		return
	}
	logger.Debug(ctx, "Cache warmed", zap.Duration("took", time.Since(start)))
}
