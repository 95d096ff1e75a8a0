package transport

// ActivatePromotionRequest parameterizes a promotion activation. Dates are
// RFC3339; start_date is optional and defaults to now.
type ActivatePromotionRequest struct {
	StartDate     string  `json:"start_date,omitempty"`
	ExpiryDate    string  `json:"expiry_date"`
	OriginalPrice float64 `json:"original_price"`
	SalePrice     float64 `json:"sale_price"`
}

// ThresholdsRequest updates the global stock thresholds.
type ThresholdsRequest struct {
	Low      int `json:"low"`
	Critical int `json:"critical"`
}

// ApplyThresholdsRequest triggers a bulk threshold application.
type ApplyThresholdsRequest struct {
	OverwriteExisting bool `json:"overwrite_existing"`
}
