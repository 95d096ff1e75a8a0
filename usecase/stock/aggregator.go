package stock

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/shopcore/inventory/domain"
	"github.com/shopcore/inventory/repository"
)

// Snapshot is the immutable result set the aggregator publishes to its
// observers. Observers only ever see a fully-built snapshot, never a
// half-updated list.
type Snapshot struct {
	Alerts        []domain.StockAlert `json:"alerts"`
	CriticalCount int                 `json:"critical_count"`
	WarningCount  int                 `json:"warning_count"`
	TotalCount    int                 `json:"total_count"`
	IsLoading     bool                `json:"is_loading"`
	Error         string              `json:"error,omitempty"`
	RefreshedAt   time.Time           `json:"refreshed_at"`
}

// Subscriber is invoked with every published snapshot.
type Subscriber func(Snapshot)

// Aggregator polls the catalog for low-stock and out-of-stock products,
// merges the two result sets by severity and publishes memoized snapshots.
// A transient query failure never clears a previously published snapshot.
type Aggregator struct {
	products   repository.ProductRepository
	thresholds repository.ThresholdRepository
	logger     *zap.Logger
	intervals  []time.Duration
	cron       *cron.Cron

	mu      sync.RWMutex
	snap    Snapshot
	hasData bool
	subs    []Subscriber
}

// NewAggregator builds an aggregator. Each interval registers its own poll
// schedule: a baseline cadence for the dashboard plus a faster one for the
// alert-count consumer.
func NewAggregator(
	products repository.ProductRepository,
	thresholds repository.ThresholdRepository,
	logger *zap.Logger,
	intervals ...time.Duration,
) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(intervals) == 0 {
		intervals = []time.Duration{time.Minute}
	}
	return &Aggregator{
		products:   products,
		thresholds: thresholds,
		logger:     logger,
		intervals:  intervals,
		snap:       Snapshot{IsLoading: true},
	}
}

// Snapshot returns the currently published snapshot.
func (a *Aggregator) Snapshot() Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.snap
}

// Subscribe registers a callback invoked after every publish. Callbacks run
// on the refreshing goroutine and must not block for long.
func (a *Aggregator) Subscribe(fn Subscriber) {
	if fn == nil {
		return
	}
	a.mu.Lock()
	a.subs = append(a.subs, fn)
	a.mu.Unlock()
}

// Start launches the poll schedules.
func (a *Aggregator) Start() {
	if a.cron != nil {
		return
	}
	a.cron = cron.New(cron.WithSeconds())
	for _, interval := range a.intervals {
		if interval <= 0 {
			continue
		}
		timeout := interval
		schedule := fmt.Sprintf("@every %ds", int(interval.Seconds()))
		_, _ = a.cron.AddFunc(schedule, func() {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			if err := a.Refresh(ctx); err != nil {
				a.logger.Warn("alert refresh failed", zap.Error(err))
			}
		})
	}
	a.cron.Start()
	a.logger.Info("alert aggregator started", zap.Int("schedules", len(a.intervals)))
}

// Stop halts the poll schedules and waits for any in-flight refresh.
func (a *Aggregator) Stop(ctx context.Context) {
	if a.cron == nil {
		return
	}
	stopCtx := a.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	a.cron = nil
	a.logger.Info("alert aggregator stopped")
}

// Refresh runs one poll cycle: the out-of-stock and low-stock queries are
// issued concurrently and may fail independently; a failed query
// contributes an empty list instead of aborting the cycle.
func (a *Aggregator) Refresh(ctx context.Context) error {
	global, err := a.thresholds.Load(ctx)
	if err != nil {
		// Load falls back to the seeded defaults; classification proceeds.
		a.logger.Warn("threshold load failed, using defaults", zap.Error(err))
	}

	var (
		wg         sync.WaitGroup
		outOfStock []domain.Product
		lowStock   []domain.Product
		outErr     error
		lowErr     error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		outOfStock, outErr = a.products.FindByStockStatus(ctx, domain.StockStatusOut, global)
	}()
	go func() {
		defer wg.Done()
		lowStock, lowErr = a.products.FindByStockStatus(ctx, domain.StockStatusLow, global)
	}()
	wg.Wait()

	cycleErr := errors.Join(outErr, lowErr)
	bothFailed := outErr != nil && lowErr != nil

	alerts := buildAlerts(outOfStock, lowStock, global)

	a.mu.Lock()
	var next Snapshot
	switch {
	case bothFailed && a.hasData:
		// Refresh failure with a prior snapshot: retain it, record the
		// error silently so the view never flickers to empty.
		next = a.snap
		next.Error = cycleErr.Error()
	case bothFailed:
		// First-load failure: keep loading until a cycle succeeds.
		next = Snapshot{IsLoading: true, Error: cycleErr.Error()}
	default:
		next = Snapshot{
			Alerts:        alerts,
			CriticalCount: len(outOfStock),
			WarningCount:  len(lowStock),
			TotalCount:    len(alerts),
			RefreshedAt:   time.Now(),
		}
		if cycleErr != nil {
			next.Error = cycleErr.Error()
		}
		a.hasData = true
	}
	a.snap = next
	subs := make([]Subscriber, len(a.subs))
	copy(subs, a.subs)
	a.mu.Unlock()

	for _, fn := range subs {
		fn(next)
	}
	return cycleErr
}

func buildAlerts(outOfStock, lowStock []domain.Product, global domain.Thresholds) []domain.StockAlert {
	alerts := make([]domain.StockAlert, 0, len(outOfStock)+len(lowStock))
	appendAlerts := func(products []domain.Product, status domain.StockStatus) {
		for i := range products {
			p := &products[i]
			effective := domain.EffectiveThresholds(p, global)
			alerts = append(alerts, domain.StockAlert{
				ID:              p.ID,
				Name:            p.Name,
				CountInStock:    p.CountInStock,
				MinStockLevel:   effective.Critical,
				StockStatus:     status,
				LastStockUpdate: p.UpdatedAt,
			})
		}
	}
	// Out-of-stock entries first, then low-stock (severity ordering).
	appendAlerts(outOfStock, domain.StockStatusOut)
	appendAlerts(lowStock, domain.StockStatusLow)

	sort.SliceStable(alerts, func(i, j int) bool {
		si := domain.StockSeverity(alerts[i].StockStatus, alerts[i].CountInStock, alerts[i].MinStockLevel)
		sj := domain.StockSeverity(alerts[j].StockStatus, alerts[j].CountInStock, alerts[j].MinStockLevel)
		if si != sj {
			return si < sj
		}
		return alerts[i].CountInStock < alerts[j].CountInStock
	})
	return alerts
}
