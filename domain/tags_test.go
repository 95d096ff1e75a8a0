package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/shopcore/inventory/domain"
)

func TestDetermineNewTags_PerformanceScenario(t *testing.T) {
	now := time.Now()
	p := &domain.Product{
		NumSales:  15,
		CreatedAt: now.Add(-40 * 24 * time.Hour),
		Price:     600,
	}

	// The promo tag has already been stripped from the live set.
	got := domain.DetermineNewTags(p, []string{}, now)

	assert.ElementsMatch(t, []string{
		domain.TagBestSeller,
		domain.TagFeatured,
		domain.TagPremium,
	}, got)
	assert.NotContains(t, got, domain.TagNewArrival, "40 days old is past the new-arrival window")
}

func TestDetermineNewTags_NewArrivalWindow(t *testing.T) {
	now := time.Now()
	p := &domain.Product{
		NumSales:  0,
		CreatedAt: now.Add(-10 * 24 * time.Hour),
		Price:     20,
	}

	got := domain.DetermineNewTags(p, []string{"clearance"}, now)
	assert.ElementsMatch(t, []string{"clearance", domain.TagNewArrival}, got)
}

func TestDetermineNewTags_NoDuplicates(t *testing.T) {
	now := time.Now()
	p := &domain.Product{NumSales: 50, CreatedAt: now.Add(-100 * 24 * time.Hour), Price: 999}

	got := domain.DetermineNewTags(p, []string{domain.TagBestSeller, domain.TagPremium}, now)

	seen := map[string]int{}
	for _, tag := range got {
		seen[tag]++
	}
	for tag, n := range seen {
		assert.Equal(t, 1, n, "tag %q duplicated", tag)
	}
}

func TestDetermineNewTags_OrderIndependent(t *testing.T) {
	now := time.Now()
	p := &domain.Product{NumSales: 20, CreatedAt: now.Add(-5 * 24 * time.Hour), Price: 600}

	a := domain.DetermineNewTags(p, []string{"x", "y", "z"}, now)
	b := domain.DetermineNewTags(p, []string{"z", "x", "y"}, now)

	assert.ElementsMatch(t, a, b)
}

func TestTagSetHelpers(t *testing.T) {
	tags := []string{"a", "b"}

	assert.True(t, domain.HasTag(tags, "a"))
	assert.False(t, domain.HasTag(tags, "c"))

	added := domain.AddTag(tags, "c")
	assert.Equal(t, []string{"a", "b", "c"}, added)
	assert.Len(t, domain.AddTag(added, "c"), 3)

	removed := domain.RemoveTag(added, "b")
	assert.Equal(t, []string{"a", "c"}, removed)
}
