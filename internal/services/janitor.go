package services

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/shopcore/inventory/internal/infrastructure/journal"
)

// Janitor trims the alert journal to its retention window once an hour.
type Janitor struct {
	store     *journal.Store
	retention time.Duration
	logger    *zap.Logger
	cron      *cron.Cron
}

func NewJanitor(store *journal.Store, retention time.Duration, logger *zap.Logger) *Janitor {
	if retention <= 0 {
		retention = 7 * 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	j := &Janitor{
		store:     store,
		retention: retention,
		logger:    logger,
		cron:      cron.New(),
	}
	_, _ = j.cron.AddFunc("@hourly", j.run)
	return j
}

func (j *Janitor) run() {
	cutoff := time.Now().Add(-j.retention)
	if err := j.store.Cleanup(cutoff); err != nil {
		j.logger.Warn("journal cleanup failed", zap.Error(err))
	}
}

func (j *Janitor) Start() {
	if j == nil || j.cron == nil {
		return
	}
	j.cron.Start()
}

func (j *Janitor) Stop(ctx context.Context) {
	if j == nil || j.cron == nil {
		return
	}
	stopCtx := j.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
}
