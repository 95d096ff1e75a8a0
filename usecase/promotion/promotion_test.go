package promotion_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopcore/inventory/domain"
	"github.com/shopcore/inventory/repository"
	"github.com/shopcore/inventory/usecase/promotion"
)

// memProductRepo is an in-memory ProductRepository with per-product
// failure injection for partial-failure tests.
type memProductRepo struct {
	products  map[string]*domain.Product
	updateErr map[string]error
}

func newMemProductRepo(products ...*domain.Product) *memProductRepo {
	repo := &memProductRepo{
		products:  map[string]*domain.Product{},
		updateErr: map[string]error{},
	}
	for _, p := range products {
		repo.products[p.ID] = cloneProduct(p)
	}
	return repo
}

func cloneProduct(p *domain.Product) *domain.Product {
	cp := *p
	cp.Tags = domain.CloneTags(p.Tags)
	cp.OriginalTags = domain.CloneTags(p.OriginalTags)
	if p.PromotionStartDate != nil {
		start := *p.PromotionStartDate
		cp.PromotionStartDate = &start
	}
	if p.PromotionExpiryDate != nil {
		expiry := *p.PromotionExpiryDate
		cp.PromotionExpiryDate = &expiry
	}
	return &cp
}

func (r *memProductRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return cloneProduct(p), nil
}

func (r *memProductRepo) List(_ context.Context, filter repository.ProductFilter) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range r.products {
		if filter.MissingThresholdsOnly && p.HasThresholdOverride() {
			continue
		}
		out = append(out, *cloneProduct(p))
	}
	return out, nil
}

func (r *memProductRepo) FindExpiredPromotions(_ context.Context, now time.Time) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range r.products {
		if p.PromotionExpired(now) {
			out = append(out, *cloneProduct(p))
		}
	}
	return out, nil
}

func (r *memProductRepo) FindByStockStatus(_ context.Context, status domain.StockStatus, global domain.Thresholds) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range r.products {
		effective := domain.EffectiveThresholds(p, global)
		if domain.ClassifyStock(p.CountInStock, effective.Critical, effective.Low) == status {
			out = append(out, *cloneProduct(p))
		}
	}
	return out, nil
}

func (r *memProductRepo) Update(_ context.Context, product *domain.Product) error {
	if err := r.updateErr[product.ID]; err != nil {
		return err
	}
	if _, ok := r.products[product.ID]; !ok {
		return domain.ErrProductNotFound
	}
	r.products[product.ID] = cloneProduct(product)
	return nil
}

func (r *memProductRepo) UpdateThresholds(_ context.Context, id string, minLevel, maxLevel int) error {
	p, ok := r.products[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	p.MinStockLevel = minLevel
	p.MaxStockLevel = maxLevel
	return nil
}

func testProduct() *domain.Product {
	return &domain.Product{
		ID:           "p1",
		Name:         "Trail Jacket",
		Price:        100,
		CountInStock: 12,
		Tags:         []string{"outdoor", "jackets"},
		NumSales:     3,
		CreatedAt:    time.Now().Add(-90 * 24 * time.Hour),
	}
}

func TestActivate_SetsPromotionFields(t *testing.T) {
	repo := newMemProductRepo(testProduct())
	mgr := promotion.NewManager(repo, nil)
	ctx := context.Background()

	expiry := time.Now().Add(7 * 24 * time.Hour)
	got, err := mgr.Activate(ctx, "p1", promotion.ActivationInput{
		ExpiryDate:    expiry,
		OriginalPrice: 100,
		SalePrice:     69,
	})
	require.NoError(t, err)

	assert.True(t, got.IsPromotionActive)
	assert.Equal(t, 69.0, got.Price)
	assert.Equal(t, 100.0, got.ListPrice)
	assert.Contains(t, got.Tags, domain.TagDealOfDay)
	assert.ElementsMatch(t, []string{"outdoor", "jackets"}, got.OriginalTags)
	require.NotNil(t, got.PromotionExpiryDate)
	assert.True(t, got.PromotionExpiryDate.Equal(expiry))
	require.NotNil(t, got.PromotionStartDate)
}

func TestActivate_MissingProduct(t *testing.T) {
	repo := newMemProductRepo()
	mgr := promotion.NewManager(repo, nil)

	_, err := mgr.Activate(context.Background(), "ghost", promotion.ActivationInput{
		ExpiryDate:    time.Now().Add(time.Hour),
		OriginalPrice: 10,
		SalePrice:     5,
	})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
}

func TestActivate_RejectsBadInput(t *testing.T) {
	repo := newMemProductRepo(testProduct())
	mgr := promotion.NewManager(repo, nil)
	ctx := context.Background()

	_, err := mgr.Activate(ctx, "p1", promotion.ActivationInput{OriginalPrice: 10, SalePrice: 5})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid), "missing expiry")

	_, err = mgr.Activate(ctx, "p1", promotion.ActivationInput{
		ExpiryDate:    time.Now().Add(time.Hour),
		OriginalPrice: 10,
		SalePrice:     15,
	})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid), "sale above original")
}

func TestReactivate_DoesNotClobberOriginalTags(t *testing.T) {
	repo := newMemProductRepo(testProduct())
	mgr := promotion.NewManager(repo, nil)
	ctx := context.Background()

	_, err := mgr.Activate(ctx, "p1", promotion.ActivationInput{
		ExpiryDate:    time.Now().Add(24 * time.Hour),
		OriginalPrice: 100,
		SalePrice:     80,
	})
	require.NoError(t, err)

	// Re-activating while active overwrites dates and prices only.
	got, err := mgr.Activate(ctx, "p1", promotion.ActivationInput{
		ExpiryDate:    time.Now().Add(48 * time.Hour),
		OriginalPrice: 100,
		SalePrice:     60,
	})
	require.NoError(t, err)

	assert.Equal(t, 60.0, got.Price)
	assert.ElementsMatch(t, []string{"outdoor", "jackets"}, got.OriginalTags,
		"original tags must survive re-activation")
}

func TestActivateDeactivate_RoundTripRestoresTags(t *testing.T) {
	repo := newMemProductRepo(testProduct())
	mgr := promotion.NewManager(repo, nil)
	ctx := context.Background()

	_, err := mgr.Activate(ctx, "p1", promotion.ActivationInput{
		ExpiryDate:    time.Now().Add(24 * time.Hour),
		OriginalPrice: 100,
		SalePrice:     69,
	})
	require.NoError(t, err)

	got, err := mgr.Deactivate(ctx, "p1")
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"outdoor", "jackets"}, got.Tags)
	assert.False(t, got.IsPromotionActive)
	assert.Equal(t, 100.0, got.Price)
	assert.Equal(t, 0.0, got.ListPrice)
	assert.Nil(t, got.PromotionStartDate)
	assert.Nil(t, got.PromotionExpiryDate)
}

func TestDeactivate_FallsBackToDefaultTag(t *testing.T) {
	p := testProduct()
	p.IsPromotionActive = true
	p.Tags = []string{domain.TagDealOfDay}
	p.OriginalTags = nil
	repo := newMemProductRepo(p)
	mgr := promotion.NewManager(repo, nil)

	got, err := mgr.Deactivate(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, []string{domain.TagNewArrival}, got.Tags)
}

func TestSweepExpired_PriceScenario(t *testing.T) {
	repo := newMemProductRepo(testProduct())
	mgr := promotion.NewManager(repo, nil)
	ctx := context.Background()

	now := time.Now()
	_, err := mgr.Activate(ctx, "p1", promotion.ActivationInput{
		ExpiryDate:    now.Add(7 * 24 * time.Hour),
		OriginalPrice: 100,
		SalePrice:     69,
	})
	require.NoError(t, err)

	active, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, active.IsPromotionActive)
	assert.Equal(t, 69.0, active.Price)
	assert.Equal(t, 100.0, active.ListPrice)

	report := mgr.SweepExpired(ctx, now.Add(8*24*time.Hour))
	assert.Equal(t, promotion.SweepStatusOK, report.Status)
	assert.Equal(t, 1, report.Matched)
	assert.Equal(t, 1, report.Updated)

	swept, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.False(t, swept.IsPromotionActive)
	assert.Equal(t, 100.0, swept.Price)
	assert.Equal(t, 0.0, swept.ListPrice)
	assert.Nil(t, swept.PromotionExpiryDate)
	assert.NotContains(t, swept.Tags, domain.TagDealOfDay)
}

func TestSweepExpired_RetagsByPerformance(t *testing.T) {
	p := testProduct()
	p.NumSales = 15
	p.Price = 600
	p.CreatedAt = time.Now().Add(-40 * 24 * time.Hour)
	p.Tags = []string{domain.TagDealOfDay}
	p.IsPromotionActive = true
	expiry := time.Now().Add(-time.Hour)
	p.PromotionExpiryDate = &expiry

	repo := newMemProductRepo(p)
	mgr := promotion.NewManager(repo, nil)

	report := mgr.SweepExpired(context.Background(), time.Now())
	require.Equal(t, 1, report.Updated)

	swept, err := repo.GetByID(context.Background(), "p1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		domain.TagBestSeller,
		domain.TagFeatured,
		domain.TagPremium,
	}, swept.Tags)
}

func TestSweepExpired_Idempotent(t *testing.T) {
	p := testProduct()
	p.IsPromotionActive = true
	p.ListPrice = 100
	p.Price = 69
	expiry := time.Now().Add(-time.Minute)
	p.PromotionExpiryDate = &expiry

	repo := newMemProductRepo(p)
	mgr := promotion.NewManager(repo, nil)
	ctx := context.Background()
	now := time.Now()

	first := mgr.SweepExpired(ctx, now)
	assert.Equal(t, 1, first.Updated)

	after, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)

	second := mgr.SweepExpired(ctx, now)
	assert.Equal(t, 0, second.Matched)
	assert.Equal(t, promotion.SweepStatusOK, second.Status)

	again, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, after, again)
}

func TestSweepExpired_PartialFailure(t *testing.T) {
	expiry := time.Now().Add(-time.Hour)

	good := testProduct()
	good.ID = "good"
	good.IsPromotionActive = true
	good.PromotionExpiryDate = &expiry

	bad := testProduct()
	bad.ID = "bad"
	bad.IsPromotionActive = true
	bad.PromotionExpiryDate = &expiry

	repo := newMemProductRepo(good, bad)
	repo.updateErr["bad"] = errors.New("connection reset")
	mgr := promotion.NewManager(repo, nil)

	report := mgr.SweepExpired(context.Background(), time.Now())

	assert.Equal(t, promotion.SweepStatusPartial, report.Status)
	assert.Equal(t, 2, report.Matched)
	assert.Equal(t, 1, report.Updated)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "bad", report.Failures[0].ProductID)

	swept, err := repo.GetByID(context.Background(), "good")
	require.NoError(t, err)
	assert.False(t, swept.IsPromotionActive)

	untouched, err := repo.GetByID(context.Background(), "bad")
	require.NoError(t, err)
	assert.True(t, untouched.IsPromotionActive)
}
