package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shopcore/inventory/domain"
)

func TestClassifyStock(t *testing.T) {
	const (
		low      = 10
		critical = 3
	)

	tests := []struct {
		name  string
		count int
		want  domain.StockStatus
	}{
		{"zero is out of stock", 0, domain.StockStatusOut},
		{"one is low stock", 1, domain.StockStatusLow},
		{"at critical threshold is low stock", critical, domain.StockStatusLow},
		{"above critical below low is low stock", critical + 1, domain.StockStatusLow},
		{"exactly at low threshold is low stock", low, domain.StockStatusLow},
		{"just above low threshold is in stock", low + 1, domain.StockStatusIn},
		{"far above low threshold is in stock", 1000, domain.StockStatusIn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.ClassifyStock(tt.count, critical, low))
		})
	}
}

func TestClassifyStock_GlobalDefaultScenario(t *testing.T) {
	// low=5, critical=2
	assert.Equal(t, domain.StockStatusLow, domain.ClassifyStock(5, 2, 5))
	assert.Equal(t, domain.StockStatusLow, domain.ClassifyStock(2, 2, 5))
	assert.Equal(t, domain.StockStatusOut, domain.ClassifyStock(0, 2, 5))
}

func TestStockSeverity_Ordering(t *testing.T) {
	out := domain.StockSeverity(domain.StockStatusOut, 0, 2)
	nearZero := domain.StockSeverity(domain.StockStatusLow, 1, 2)
	lowBand := domain.StockSeverity(domain.StockStatusLow, 4, 2)
	healthy := domain.StockSeverity(domain.StockStatusIn, 50, 2)

	assert.Less(t, out, nearZero)
	assert.Less(t, nearZero, lowBand)
	assert.Less(t, lowBand, healthy)
}
