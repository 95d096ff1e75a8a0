package promotion

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/shopcore/inventory/domain"
	"github.com/shopcore/inventory/repository"
)

// ActivationInput carries the promotion parameters for Activate.
type ActivationInput struct {
	StartDate     *time.Time
	ExpiryDate    time.Time
	OriginalPrice float64
	SalePrice     float64
}

func (in ActivationInput) validate() error {
	if in.ExpiryDate.IsZero() {
		return domain.NewError(domain.ErrCodeInvalid, "expiry date is required")
	}
	if in.OriginalPrice <= 0 || in.SalePrice <= 0 {
		return domain.NewError(domain.ErrCodeInvalid, "prices must be positive")
	}
	if in.SalePrice >= in.OriginalPrice {
		return domain.NewError(domain.ErrCodeInvalid, "sale price must be below original price")
	}
	return nil
}

// SweepFailure records one product the sweep could not finalize.
type SweepFailure struct {
	ProductID string `json:"product_id"`
	Reason    string `json:"reason"`
}

// SweepReport summarizes one sweep invocation. Per-item failures are
// counted and reported, never raised.
type SweepReport struct {
	Matched  int            `json:"matched"`
	Updated  int            `json:"updated"`
	Failed   int            `json:"failed"`
	Failures []SweepFailure `json:"failures,omitempty"`
	Status   string         `json:"status"`
}

const (
	SweepStatusOK      = "ok"
	SweepStatusPartial = "partial"
	SweepStatusFailed  = "failed"
)

// Manager owns the promotion state transitions of catalog products.
type Manager struct {
	products repository.ProductRepository
	logger   *zap.Logger
}

func NewManager(products repository.ProductRepository, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		products: products,
		logger:   logger,
	}
}

// Activate starts (or re-parameterizes) a promotion on a product. The
// original tag set is snapshotted only on the Inactive->Active edge:
// re-activating an already-active promotion overwrites dates and prices
// but never the saved original tags.
func (m *Manager) Activate(ctx context.Context, productID string, input ActivationInput) (*domain.Product, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	product, err := m.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if !product.IsPromotionActive {
		product.OriginalTags = domain.CloneTags(product.Tags)
	}
	product.Tags = domain.AddTag(product.Tags, domain.TagDealOfDay)

	start := time.Now()
	if input.StartDate != nil && !input.StartDate.IsZero() {
		start = *input.StartDate
	}
	expiry := input.ExpiryDate

	product.IsPromotionActive = true
	product.PromotionStartDate = &start
	product.PromotionExpiryDate = &expiry
	product.ListPrice = input.OriginalPrice
	product.Price = input.SalePrice

	if err := m.products.Update(ctx, product); err != nil {
		return nil, err
	}

	m.logger.Info("promotion activated",
		zap.String("product_id", product.ID),
		zap.Time("expires", expiry),
		zap.Float64("sale_price", input.SalePrice))
	return product, nil
}

// Deactivate ends a promotion manually, restoring the saved original tags
// (or a single default tag when none were saved) and the pre-promotion price.
func (m *Manager) Deactivate(ctx context.Context, productID string) (*domain.Product, error) {
	product, err := m.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if len(product.OriginalTags) > 0 {
		product.Tags = domain.CloneTags(product.OriginalTags)
	} else {
		product.Tags = []string{domain.TagNewArrival}
	}

	m.clearPromotion(product)

	if err := m.products.Update(ctx, product); err != nil {
		return nil, err
	}

	m.logger.Info("promotion deactivated", zap.String("product_id", product.ID))
	return product, nil
}

// SweepExpired finalizes every promotion whose expiry has passed. Each
// product is processed independently: one failure is logged and counted
// without aborting the rest. Re-running the sweep is a no-op for products
// already cleared, because the query predicate excludes them.
func (m *Manager) SweepExpired(ctx context.Context, now time.Time) SweepReport {
	report := SweepReport{Status: SweepStatusOK}

	expired, err := m.products.FindExpiredPromotions(ctx, now)
	if err != nil {
		m.logger.Error("expired promotion query failed", zap.Error(err))
		report.Status = SweepStatusFailed
		report.Failures = append(report.Failures, SweepFailure{Reason: err.Error()})
		report.Failed = 1
		return report
	}

	report.Matched = len(expired)
	for i := range expired {
		product := &expired[i]
		if err := m.expireOne(ctx, product, now); err != nil {
			m.logger.Error("failed to expire promotion",
				zap.String("product_id", product.ID),
				zap.Error(err))
			report.Failed++
			report.Failures = append(report.Failures, SweepFailure{
				ProductID: product.ID,
				Reason:    err.Error(),
			})
			continue
		}
		report.Updated++
	}

	if report.Failed > 0 {
		report.Status = SweepStatusPartial
	}
	m.logger.Info("promotion sweep finished",
		zap.Int("matched", report.Matched),
		zap.Int("updated", report.Updated),
		zap.Int("failed", report.Failed))
	return report
}

func (m *Manager) expireOne(ctx context.Context, product *domain.Product, now time.Time) error {
	current := domain.RemoveTag(product.Tags, domain.TagDealOfDay)
	// Restore the pre-promotion price first so the retag rules see the
	// product's real price, not the discounted one.
	m.clearPromotion(product)
	product.Tags = domain.DetermineNewTags(product, current, now)
	return m.products.Update(ctx, product)
}

func (m *Manager) clearPromotion(product *domain.Product) {
	product.IsPromotionActive = false
	product.PromotionStartDate = nil
	product.PromotionExpiryDate = nil
	if product.ListPrice > 0 {
		product.Price = product.ListPrice
	}
	product.ListPrice = 0
}
