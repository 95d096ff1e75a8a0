package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/shopcore/inventory/usecase/promotion"
)

// Sweeper periodically invokes the promotion sweep so expired promotions
// are finalized without manual intervention.
type Sweeper struct {
	manager  *promotion.Manager
	logger   *zap.Logger
	cron     *cron.Cron
	interval time.Duration
}

func NewSweeper(manager *promotion.Manager, interval time.Duration, logger *zap.Logger) *Sweeper {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Sweeper{
		manager:  manager,
		logger:   logger,
		interval: interval,
		cron:     cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", int(interval.Seconds()))
	_, _ = s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), interval)
		defer cancel()
		report := s.manager.SweepExpired(ctx, time.Now())
		if report.Status != promotion.SweepStatusOK {
			s.logger.Warn("scheduled sweep had failures",
				zap.String("status", report.Status),
				zap.Int("failed", report.Failed))
		}
	})

	return s
}

// Start launches the sweep schedule.
func (s *Sweeper) Start() {
	if s == nil || s.cron == nil {
		return
	}
	s.cron.Start()
	s.logger.Info("promotion sweeper started", zap.Duration("interval", s.interval))
}

// Stop gracefully stops the scheduler, waiting for an in-flight sweep.
func (s *Sweeper) Stop(ctx context.Context) {
	if s == nil || s.cron == nil {
		return
	}
	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	s.logger.Info("promotion sweeper stopped")
}
