package domain

// StockStatus is the user-facing stock classification of a product.
type StockStatus string

const (
	StockStatusIn  StockStatus = "in_stock"
	StockStatusLow StockStatus = "low_stock"
	StockStatusOut StockStatus = "out_of_stock"
)

// ClassifyStock maps a stock count to its status. Only a count of zero is
// out-of-stock; anything at or below the low threshold is low-stock. The
// critical threshold never produces a bucket of its own, it only drives
// severity ordering (see StockSeverity).
func ClassifyStock(countInStock, criticalThreshold, lowThreshold int) StockStatus {
	switch {
	case countInStock <= 0:
		return StockStatusOut
	case countInStock <= lowThreshold:
		return StockStatusLow
	default:
		return StockStatusIn
	}
}

// StockSeverity ranks a classified product for display ordering. Lower is
// more urgent: out-of-stock first, then low-stock at or under the critical
// threshold, then the rest of the low-stock band.
func StockSeverity(status StockStatus, countInStock, criticalThreshold int) int {
	switch status {
	case StockStatusOut:
		return 0
	case StockStatusLow:
		if countInStock <= criticalThreshold {
			return 1
		}
		return 2
	default:
		return 3
	}
}
