package thresholds_test

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopcore/inventory/domain"
	"github.com/shopcore/inventory/repository"
	"github.com/shopcore/inventory/usecase/thresholds"
)

type fakeConfigRepo struct {
	thresholds domain.Thresholds
	loadErr    error
	saveErr    error
	saves      int
}

func (r *fakeConfigRepo) Load(context.Context) (domain.Thresholds, error) {
	if r.loadErr != nil {
		return domain.DefaultThresholds, r.loadErr
	}
	return r.thresholds, nil
}

func (r *fakeConfigRepo) Save(_ context.Context, t domain.Thresholds) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.thresholds = t
	r.saves++
	return nil
}

type fakeCatalog struct {
	products  map[string]*domain.Product
	updateErr map[string]error
}

func newFakeCatalog(products ...*domain.Product) *fakeCatalog {
	c := &fakeCatalog{
		products:  map[string]*domain.Product{},
		updateErr: map[string]error{},
	}
	for _, p := range products {
		c.products[p.ID] = p
	}
	return c
}

func (c *fakeCatalog) GetByID(_ context.Context, id string) (*domain.Product, error) {
	p, ok := c.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return p, nil
}

func (c *fakeCatalog) List(_ context.Context, filter repository.ProductFilter) ([]domain.Product, error) {
	var matched []domain.Product
	for _, p := range c.products {
		if filter.MissingThresholdsOnly && p.HasThresholdOverride() {
			continue
		}
		matched = append(matched, *p)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	if filter.Offset >= len(matched) {
		return nil, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

func (c *fakeCatalog) FindExpiredPromotions(context.Context, time.Time) ([]domain.Product, error) {
	return nil, nil
}

func (c *fakeCatalog) FindByStockStatus(context.Context, domain.StockStatus, domain.Thresholds) ([]domain.Product, error) {
	return nil, nil
}

func (c *fakeCatalog) Update(context.Context, *domain.Product) error { return nil }

func (c *fakeCatalog) UpdateThresholds(_ context.Context, id string, minLevel, maxLevel int) error {
	if err := c.updateErr[id]; err != nil {
		return err
	}
	p, ok := c.products[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	p.MinStockLevel = minLevel
	p.MaxStockLevel = maxLevel
	return nil
}

func TestUpdate_RejectsInvalidThresholds(t *testing.T) {
	config := &fakeConfigRepo{thresholds: domain.DefaultThresholds}
	svc := thresholds.New(config, newFakeCatalog(), nil)

	err := svc.Update(context.Background(), domain.Thresholds{Low: 2, Critical: 5})
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
	assert.Zero(t, config.saves, "invalid values must not reach the store")
}

func TestUpdate_PersistsValidThresholds(t *testing.T) {
	config := &fakeConfigRepo{thresholds: domain.DefaultThresholds}
	svc := thresholds.New(config, newFakeCatalog(), nil)

	require.NoError(t, svc.Update(context.Background(), domain.Thresholds{Low: 10, Critical: 3}))
	assert.Equal(t, domain.Thresholds{Low: 10, Critical: 3}, config.thresholds)
}

func TestApplyGlobal_SkipsExistingOverrides(t *testing.T) {
	overridden := &domain.Product{ID: "a", MinStockLevel: 1, MaxStockLevel: 8}
	plain := &domain.Product{ID: "b"}
	catalog := newFakeCatalog(overridden, plain)
	svc := thresholds.New(&fakeConfigRepo{thresholds: domain.Thresholds{Low: 6, Critical: 2}}, catalog, nil)

	report, err := svc.ApplyGlobal(context.Background(), false)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Matched)
	assert.Equal(t, 1, report.Updated)
	assert.Equal(t, thresholds.ApplyStatusOK, report.Status)

	assert.Equal(t, 8, catalog.products["a"].MaxStockLevel, "existing override untouched")
	assert.Equal(t, 6, catalog.products["b"].MaxStockLevel)
	assert.Equal(t, 2, catalog.products["b"].MinStockLevel)
}

func TestApplyGlobal_OverwriteTouchesEverything(t *testing.T) {
	overridden := &domain.Product{ID: "a", MinStockLevel: 1, MaxStockLevel: 8}
	plain := &domain.Product{ID: "b"}
	catalog := newFakeCatalog(overridden, plain)
	svc := thresholds.New(&fakeConfigRepo{thresholds: domain.Thresholds{Low: 6, Critical: 2}}, catalog, nil)

	report, err := svc.ApplyGlobal(context.Background(), true)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Matched)
	assert.Equal(t, 2, report.Updated)
	assert.Equal(t, 6, catalog.products["a"].MaxStockLevel)
}

func TestApplyGlobal_PartialFailure(t *testing.T) {
	catalog := newFakeCatalog(&domain.Product{ID: "a"}, &domain.Product{ID: "b"})
	catalog.updateErr["a"] = errors.New("row lock timeout")
	svc := thresholds.New(&fakeConfigRepo{thresholds: domain.DefaultThresholds}, catalog, nil)

	report, err := svc.ApplyGlobal(context.Background(), false)
	require.NoError(t, err)

	assert.Equal(t, thresholds.ApplyStatusPartial, report.Status)
	assert.Equal(t, 2, report.Matched)
	assert.Equal(t, 1, report.Updated)
	assert.Equal(t, 1, report.Failed)
}

func TestApplyGlobal_LoadFailureAborts(t *testing.T) {
	config := &fakeConfigRepo{loadErr: errors.New("redis down")}
	svc := thresholds.New(config, newFakeCatalog(&domain.Product{ID: "a"}), nil)

	_, err := svc.ApplyGlobal(context.Background(), false)
	require.Error(t, err)
}
