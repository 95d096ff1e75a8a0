package domain

import "time"

// Tags the engine manages on products.
const (
	TagDealOfDay  = "deal-of-day"
	TagBestSeller = "best-seller"
	TagFeatured   = "featured"
	TagNewArrival = "new-arrival"
	TagPremium    = "premium"
)

const (
	// Sales count above which a product earns performance tags at expiry.
	bestSellerSalesFloor = 10
	// Age under which a product still counts as a new arrival.
	newArrivalWindow = 30 * 24 * time.Hour
	// Price above which a product is tagged premium, in base currency units.
	premiumPriceFloor = 500
)

// DetermineNewTags computes the tag set a product carries after its
// promotion expires. currentTags is the live set with the promotional tag
// already removed. Pure: the result depends only on the arguments, and
// permuting currentTags never changes the resulting set.
func DetermineNewTags(p *Product, currentTags []string, now time.Time) []string {
	tags := CloneTags(currentTags)
	if tags == nil {
		tags = []string{}
	}

	if p.NumSales > bestSellerSalesFloor {
		tags = AddTag(tags, TagBestSeller)
		tags = AddTag(tags, TagFeatured)
	}
	if now.Sub(p.CreatedAt) <= newArrivalWindow {
		tags = AddTag(tags, TagNewArrival)
	}
	if p.Price > premiumPriceFloor {
		tags = AddTag(tags, TagPremium)
	}
	return tags
}
