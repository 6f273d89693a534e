// File path: internal/match/scorer.go
package match

import (
	"github.com/TrunderHunter/SkillBridgeBE-sub000/internal/catalog"
)

// Canonical structured weights, applied uniformly in both directions. The
// pre-unification engines disagreed on these constants; this set is the one
// the product treats as authoritative (see DESIGN.md).
const (
	weightSubject = 0.4
	weightLevel   = 0.3
	weightPrice   = 0.2
	weightMode    = 0.1
)

// ScoreStructured computes the deterministic attribute-overlap score between
// the querying listing and one candidate, normalized to [0,1]. A factor
// absent on either side is excluded from both numerator and denominator, so
// sparse listings are scored over what they do declare rather than punished
// for what they omit.
func ScoreStructured(source, candidate catalog.Listing) (float64, MatchDetail) {
	detail := MatchDetail{}
	var score, totalWeight float64

	if len(source.Subjects) > 0 && len(candidate.Subjects) > 0 {
		detail.SubjectConsidered = true
		detail.SharedSubjects = intersect(source.Subjects, candidate.Subjects)
		detail.SubjectRatio = float64(len(detail.SharedSubjects)) / float64(len(source.Subjects))
		score += weightSubject * detail.SubjectRatio
		totalWeight += weightSubject
	}

	sourceBuckets := canonicalBuckets(source)
	candidateBuckets := canonicalBuckets(candidate)
	if len(sourceBuckets) > 0 && len(candidateBuckets) > 0 {
		detail.LevelConsidered = true
		detail.SharedLevels = intersect(sourceBuckets, candidateBuckets)
		detail.LevelMatch = len(detail.SharedLevels) > 0
		if detail.LevelMatch {
			score += weightLevel
		}
		totalWeight += weightLevel
	}

	if priceMatch, considered := priceCompatible(source, candidate); considered {
		detail.PriceConsidered = true
		detail.PriceMatch = priceMatch
		if priceMatch {
			score += weightPrice
		}
		totalWeight += weightPrice
	}

	if source.Mode != "" && candidate.Mode != "" {
		detail.ModeConsidered = true
		detail.ModeMatch = modesCompatible(source.Mode, candidate.Mode)
		if detail.ModeMatch {
			score += weightMode
		}
		totalWeight += weightMode
	}

	if totalWeight == 0 {
		return 0, detail
	}
	return score / totalWeight, detail
}

// priceCompatible applies the direction-aware price rule: the provider's
// point price must fall within the seeker's budget range. The factor is
// considered only when both sides declare their half of the comparison.
func priceCompatible(source, candidate catalog.Listing) (match, considered bool) {
	seeker, provider := source, candidate
	if source.Side == catalog.SideProvider {
		seeker, provider = candidate, source
	}
	if provider.Price == nil {
		return false, false
	}
	if seeker.PriceMin == nil && seeker.PriceMax == nil {
		return false, false
	}
	price := *provider.Price
	if seeker.PriceMin != nil && price < *seeker.PriceMin {
		return false, true
	}
	if seeker.PriceMax != nil && price > *seeker.PriceMax {
		return false, true
	}
	return true, true
}

// modesCompatible treats BOTH as a wildcard; otherwise delivery modes must
// match exactly.
func modesCompatible(a, b catalog.DeliveryMode) bool {
	if a == catalog.ModeBoth || b == catalog.ModeBoth {
		return true
	}
	return a == b
}

func intersect(a, b []string) []string {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(b))
	for _, v := range b {
		set[v] = struct{}{}
	}
	var shared []string
	for _, v := range a {
		if _, ok := set[v]; ok {
			shared = append(shared, v)
		}
	}
	return shared
}
