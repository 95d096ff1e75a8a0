package domain

// Thresholds is the global stock threshold configuration. Critical is the
// more severe cutoff and must stay strictly below Low.
type Thresholds struct {
	Low      int `json:"low"`
	Critical int `json:"critical"`
}

// DefaultThresholds seeds the configuration when none has been saved yet.
var DefaultThresholds = Thresholds{Low: 5, Critical: 2}

// Validate enforces the threshold invariant: non-negative values with
// critical strictly below low.
func (t Thresholds) Validate() error {
	if t.Low < 0 || t.Critical < 0 {
		return NewError(ErrCodeInvalid, "thresholds must not be negative")
	}
	if t.Critical >= t.Low {
		return NewError(ErrCodeInvalid, "critical threshold must be below low threshold")
	}
	return nil
}

// EffectiveThresholds resolves the thresholds that apply to a product:
// the per-product pair (MinStockLevel as the critical floor, MaxStockLevel
// as the low cutoff) when both are set, otherwise the global configuration.
func EffectiveThresholds(p *Product, global Thresholds) Thresholds {
	if p.HasThresholdOverride() {
		return Thresholds{Low: p.MaxStockLevel, Critical: p.MinStockLevel}
	}
	return global
}
