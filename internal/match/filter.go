// File path: internal/match/filter.go
package match

import (
	"math"

	"github.com/TrunderHunter/SkillBridgeBE-sub000/internal/catalog"
)

// BuildFilter compiles a source listing into the structured candidate
// predicate for the opposite side. Every absent attribute on the source
// disables its constraint; the filter can only narrow, never empty out by
// default.
func BuildFilter(source catalog.Listing, limit int) catalog.Filter {
	filter := catalog.Filter{
		Side:  source.Side.Opposite(),
		Limit: limit,
	}
	if len(source.Subjects) > 0 {
		filter.Subjects = append([]string(nil), source.Subjects...)
	}
	if source.Side == catalog.SideSeeker {
		filter.Levels = MapSeekerLevels(source.Levels)
		if priceRange := seekerPriceRange(source); priceRange != nil {
			filter.PriceRange = priceRange
		}
	} else {
		filter.Levels = MapProviderLevels(source.Levels)
		if source.Price != nil {
			point := *source.Price
			filter.PricePoint = &point
		}
	}
	if source.Mode == catalog.ModeOnline || source.Mode == catalog.ModeOffline {
		filter.Mode = source.Mode
	}
	return filter
}

// seekerPriceRange normalizes a seeker's budget into a closed interval. A
// half-open budget is completed with 0 or +Inf so a single bound still
// constrains candidates.
func seekerPriceRange(source catalog.Listing) *catalog.PriceRange {
	if source.PriceMin == nil && source.PriceMax == nil {
		return nil
	}
	priceRange := catalog.PriceRange{Min: 0, Max: math.Inf(1)}
	if source.PriceMin != nil {
		priceRange.Min = *source.PriceMin
	}
	if source.PriceMax != nil {
		priceRange.Max = *source.PriceMax
	}
	return &priceRange
}
