package reminder

import (
	"context"
	"time"

	"Gin_postgres_redis_device_rental/models"

	"go.uber.org/zap"
)

// Scheduler runs a sweep at start and then on every tick until ctx is done.
type Scheduler struct {
	d        *Dispatcher
	interval time.Duration
	now      func() time.Time
	log      *zap.Logger
}

func NewScheduler(d *Dispatcher, interval time.Duration, log *zap.Logger) *Scheduler {
	return &Scheduler{d: d, interval: interval, now: time.Now, log: log.Named("scheduler")}
}

func (s *Scheduler) Run(ctx context.Context) error {
	s.log.Info("reminder scheduler started", zap.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.d.Dispatch(ctx, models.Day(s.now()))
	for {
		select {
		case <-ticker.C:
			s.d.Dispatch(ctx, models.Day(s.now()))
		case <-ctx.Done():
			s.log.Info("reminder scheduler stopped")
			return nil
		}
	}
}
