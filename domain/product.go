package domain

import "time"

// Product is the subset of the catalog record the engine reads and writes.
// The surrounding storefront owns the rest (descriptions, images, variants).
type Product struct {
	ID                  string     `json:"id"`
	Name                string     `json:"name"`
	Price               float64    `json:"price"`
	ListPrice           float64    `json:"list_price"`
	CountInStock        int        `json:"count_in_stock"`
	MinStockLevel       int        `json:"min_stock_level"`
	MaxStockLevel       int        `json:"max_stock_level"`
	Tags                []string   `json:"tags"`
	OriginalTags        []string   `json:"original_tags,omitempty"`
	IsPromotionActive   bool       `json:"is_promotion_active"`
	PromotionStartDate  *time.Time `json:"promotion_start_date,omitempty"`
	PromotionExpiryDate *time.Time `json:"promotion_expiry_date,omitempty"`
	NumSales            int        `json:"num_sales"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// HasThresholdOverride reports whether the product carries its own stock
// thresholds instead of inheriting the global configuration.
func (p *Product) HasThresholdOverride() bool {
	return p != nil && p.MinStockLevel > 0 && p.MaxStockLevel > 0
}

// PromotionExpired reports whether an active promotion has passed its expiry.
func (p *Product) PromotionExpired(reference time.Time) bool {
	if p == nil || !p.IsPromotionActive || p.PromotionExpiryDate == nil {
		return false
	}
	return !p.PromotionExpiryDate.After(reference)
}

// StockAlert is a derived, immutable view of a product that breached its
// stock thresholds. A fresh set is produced on every aggregator cycle.
type StockAlert struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	CountInStock    int         `json:"count_in_stock"`
	MinStockLevel   int         `json:"min_stock_level"`
	StockStatus     StockStatus `json:"stock_status"`
	LastStockUpdate time.Time   `json:"last_stock_update"`
}

// HasTag reports membership in a tag list, ignoring order.
func HasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// AddTag appends the tag unless it is already present.
func AddTag(tags []string, tag string) []string {
	if HasTag(tags, tag) {
		return tags
	}
	return append(tags, tag)
}

// RemoveTag returns the list without the given tag, preserving display order.
func RemoveTag(tags []string, tag string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t != tag {
			out = append(out, t)
		}
	}
	return out
}

// CloneTags copies a tag list so callers can mutate without aliasing.
func CloneTags(tags []string) []string {
	if tags == nil {
		return nil
	}
	return append([]string(nil), tags...)
}
