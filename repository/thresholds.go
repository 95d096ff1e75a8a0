package repository

import (
	"context"

	"github.com/shopcore/inventory/domain"
)

// ThresholdRepository stores the mutable global threshold configuration.
// There is no ambient singleton: callers hold a reference and re-load when
// they need the current values.
type ThresholdRepository interface {
	// Load returns the saved configuration, or the seeded default when
	// nothing has been saved yet.
	Load(ctx context.Context) (domain.Thresholds, error)
	// Save validates and persists the configuration.
	Save(ctx context.Context, thresholds domain.Thresholds) error
}
