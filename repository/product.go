package repository

import (
	"context"
	"time"

	"github.com/shopcore/inventory/domain"
)

// ProductFilter narrows List queries.
type ProductFilter struct {
	// MissingThresholdsOnly restricts the result to products without a
	// per-product threshold override.
	MissingThresholdsOnly bool
	Limit                 int
	Offset                int
}

// ProductRepository is the store contract the engine consumes. Query
// failures surface as STORE errors, distinct from NOT_FOUND.
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, error)
	// FindExpiredPromotions returns products whose promotion is still
	// flagged active but whose expiry is at or before now.
	FindExpiredPromotions(ctx context.Context, now time.Time) ([]domain.Product, error)
	// FindByStockStatus returns products classified low_stock or
	// out_of_stock, resolving per-product overrides against the given
	// global thresholds inside the query.
	FindByStockStatus(ctx context.Context, status domain.StockStatus, global domain.Thresholds) ([]domain.Product, error)
	// Update writes back the engine-owned fields of the product.
	Update(ctx context.Context, product *domain.Product) error
	// UpdateThresholds sets only the per-product threshold pair.
	UpdateThresholds(ctx context.Context, id string, minLevel, maxLevel int) error
}
