package services

import (
	"os"
)

// FeatureFlags holds display-policy toggles read once at startup.
type FeatureFlags struct {
	excludeOutOfStock bool
	priceRangeEnabled bool
}

func NewFeatureFlags() *FeatureFlags {
	// The booking-enabled view drops zero-quantity rows before grouping;
	// set FEATURE_INCLUDE_OUT_OF_STOCK=true to keep them listed with the
	// booking action disabled instead.
	include := os.Getenv("FEATURE_INCLUDE_OUT_OF_STOCK") == "true"
	priceRange := os.Getenv("FEATURE_PRICE_RANGE") == "true"

	return &FeatureFlags{
		excludeOutOfStock: !include,
		priceRangeEnabled: priceRange,
	}
}

func (f *FeatureFlags) ExcludeOutOfStock() bool {
	return f.excludeOutOfStock
}

// PriceRangeEnabled selects showing a min–max price range for grouped rows
// with multiple observed prices instead of the minimum alone.
func (f *FeatureFlags) PriceRangeEnabled() bool {
	return f.priceRangeEnabled
}
