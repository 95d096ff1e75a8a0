package services

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/shopcore/inventory/internal/infrastructure/journal"
	"github.com/shopcore/inventory/usecase/stock"
)

// Verbosity controls which notification severities reach the user.
type Verbosity string

const (
	VerbosityAll      Verbosity = "all"
	VerbosityCritical Verbosity = "critical"
	VerbosityNone     Verbosity = "none"
)

// ParseVerbosity maps a config string to a Verbosity, defaulting to all.
func ParseVerbosity(s string) Verbosity {
	switch Verbosity(s) {
	case VerbosityCritical, VerbosityNone:
		return Verbosity(s)
	default:
		return VerbosityAll
	}
}

// AlertJournal records published alert deltas.
type AlertJournal interface {
	Append(entry journal.Entry) error
}

// AlertBridge turns aggregator snapshots into throttled notifications. It
// diffs each snapshot's counts against the last one it saw; when criticals
// increased, a single critical notification is enqueued and warnings are
// not separately queued that cycle. The seen-counts marker always advances,
// so suppressed alerts never re-trigger when verbosity changes.
type AlertBridge struct {
	throttler *Throttler
	journal   AlertJournal
	logger    *zap.Logger

	mu           sync.Mutex
	verbosity    Verbosity
	primed       bool
	lastCritical int
	lastWarning  int
}

func NewAlertBridge(throttler *Throttler, jnl AlertJournal, verbosity Verbosity, logger *zap.Logger) *AlertBridge {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AlertBridge{
		throttler: throttler,
		journal:   jnl,
		verbosity: verbosity,
		logger:    logger,
	}
}

// SetVerbosity adjusts delivery suppression at runtime.
func (b *AlertBridge) SetVerbosity(v Verbosity) {
	b.mu.Lock()
	b.verbosity = v
	b.mu.Unlock()
}

// OnSnapshot is the aggregator subscription entry point.
func (b *AlertBridge) OnSnapshot(s stock.Snapshot) {
	b.mu.Lock()
	newCritical := s.CriticalCount - b.lastCritical
	newWarning := s.WarningCount - b.lastWarning
	primed := b.primed
	verbosity := b.verbosity
	b.primed = true
	b.lastCritical = s.CriticalCount
	b.lastWarning = s.WarningCount
	b.mu.Unlock()

	if !primed {
		// The first snapshot establishes the baseline; pre-existing
		// alerts are visible on the dashboard without a notification.
		return
	}
	if newCritical <= 0 && newWarning <= 0 {
		return
	}

	kind := NotificationWarning
	if newCritical > 0 {
		kind = NotificationCritical
	}

	if b.journal != nil {
		if err := b.journal.Append(journal.Entry{
			Kind:          string(kind),
			CriticalCount: s.CriticalCount,
			WarningCount:  s.WarningCount,
			At:            time.Now(),
		}); err != nil {
			b.logger.Warn("alert journal append failed", zap.Error(err))
		}
	}

	switch {
	case verbosity == VerbosityNone:
		return
	case newCritical > 0:
		b.throttler.Enqueue(NotificationCritical, s.CriticalCount)
	case verbosity == VerbosityAll:
		b.throttler.Enqueue(NotificationWarning, s.WarningCount)
	}
}
