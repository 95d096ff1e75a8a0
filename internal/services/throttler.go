package services

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// NotificationKind is the severity of a queued notification.
type NotificationKind string

const (
	NotificationCritical NotificationKind = "critical"
	NotificationWarning  NotificationKind = "warning"
)

// QueuedNotification is a pending user-facing notification. Transient:
// created on enqueue, discarded after delivery, never persisted.
type QueuedNotification struct {
	Kind       NotificationKind
	Count      int
	EnqueuedAt time.Time
}

// Deliverer is the presentation boundary the throttler calls out to.
// durationHint suggests how long the notification stays on screen.
type Deliverer interface {
	Deliver(kind NotificationKind, count int, durationHint time.Duration)
}

// ThrottlerConfig controls spacing and queue bounds.
type ThrottlerConfig struct {
	// MinSpacing is the minimum gap between two deliveries.
	MinSpacing time.Duration
	// QueueCap bounds the queue; 0 means unbounded. When the cap is hit
	// the oldest entry wins and the newest is dropped with a warning --
	// a documented deviation from strict no-drop coalescing.
	QueueCap int
	// On-screen duration hints per severity.
	CriticalDuration time.Duration
	WarningDuration  time.Duration
	// Clock defaults to the system clock; tests inject a fake.
	Clock Clock
}

func (c *ThrottlerConfig) applyDefaults() {
	if c.MinSpacing <= 0 {
		c.MinSpacing = 5 * time.Second
	}
	if c.CriticalDuration <= 0 {
		c.CriticalDuration = 8 * time.Second
	}
	if c.WarningDuration <= 0 {
		c.WarningDuration = 4 * time.Second
	}
	if c.Clock == nil {
		c.Clock = SystemClock
	}
}

type throttleState int

const (
	stateIdle throttleState = iota
	stateQueued
	stateDelivering
)

// Throttler paces notification delivery: per channel, FIFO order with at
// least MinSpacing between deliveries. Bursts coalesce by queueing, not by
// dropping. The mutex doubles as the re-entrancy guard: a drain never
// starts while a delivery is in flight.
type Throttler struct {
	deliverer Deliverer
	cfg       ThrottlerConfig
	logger    *zap.Logger

	mu           sync.Mutex
	state        throttleState
	queue        []QueuedNotification
	lastDelivery time.Time
	timer        Timer
	closed       bool
}

func NewThrottler(deliverer Deliverer, cfg ThrottlerConfig, logger *zap.Logger) *Throttler {
	cfg.applyDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Throttler{
		deliverer: deliverer,
		cfg:       cfg,
		logger:    logger,
	}
}

// Enqueue pushes a notification and attempts to drain.
func (t *Throttler) Enqueue(kind NotificationKind, count int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}

	if t.cfg.QueueCap > 0 && len(t.queue) >= t.cfg.QueueCap {
		t.logger.Warn("notification queue full, dropping newest",
			zap.String("kind", string(kind)),
			zap.Int("cap", t.cfg.QueueCap))
		return
	}

	t.queue = append(t.queue, QueuedNotification{
		Kind:       kind,
		Count:      count,
		EnqueuedAt: t.cfg.Clock.Now(),
	})
	t.drainLocked()
}

// Pending returns the current queue depth.
func (t *Throttler) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.queue)
}

// Close cancels any scheduled drain and discards the queue. Nothing is
// delivered after Close returns.
func (t *Throttler) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.queue = nil
	t.state = stateIdle
}

// drainLocked is called with t.mu held. The lock is released around the
// delivery callback so a slow presentation layer never blocks enqueues.
func (t *Throttler) drainLocked() {
	if t.state == stateDelivering {
		return
	}
	if len(t.queue) == 0 {
		t.state = stateIdle
		return
	}

	now := t.cfg.Clock.Now()
	if !t.lastDelivery.IsZero() {
		if wait := t.cfg.MinSpacing - now.Sub(t.lastDelivery); wait > 0 {
			t.scheduleLocked(wait)
			return
		}
	}

	item := t.queue[0]
	t.queue = t.queue[1:]
	t.state = stateDelivering
	t.lastDelivery = now

	t.mu.Unlock()
	t.deliverer.Deliver(item.Kind, item.Count, t.durationFor(item.Kind))
	t.mu.Lock()

	t.state = stateIdle
	if t.closed {
		return
	}
	if len(t.queue) > 0 {
		t.scheduleLocked(t.cfg.MinSpacing)
	}
}

func (t *Throttler) scheduleLocked(wait time.Duration) {
	t.state = stateQueued
	if t.timer != nil {
		// a drain attempt is already scheduled
		return
	}
	t.timer = t.cfg.Clock.AfterFunc(wait, t.onTimer)
}

func (t *Throttler) onTimer() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.timer = nil
	if t.closed {
		return
	}
	t.drainLocked()
}

func (t *Throttler) durationFor(kind NotificationKind) time.Duration {
	if kind == NotificationCritical {
		return t.cfg.CriticalDuration
	}
	return t.cfg.WarningDuration
}

// LogDeliverer is the default presentation boundary: it writes the
// notification to the structured log. The admin UI swaps in its own
// Deliverer at wiring time.
type LogDeliverer struct {
	logger *zap.Logger
}

func NewLogDeliverer(logger *zap.Logger) *LogDeliverer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogDeliverer{logger: logger}
}

func (d *LogDeliverer) Deliver(kind NotificationKind, count int, durationHint time.Duration) {
	d.logger.Info("stock notification",
		zap.String("kind", string(kind)),
		zap.Int("count", count),
		zap.Duration("duration_hint", durationHint))
}
