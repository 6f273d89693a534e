// File path: internal/match/semantic.go
package match

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/TrunderHunter/SkillBridgeBE-sub000/internal/catalog"
)

// ErrDimensionMismatch reports vectors of different lengths. Vectors from
// the same embedding provider and version always agree on dimensionality, so
// hitting this means mixed-provider data; the offending candidate is scored
// without a semantic component and the event is logged loudly.
var ErrDimensionMismatch = errors.New("match: embedding dimension mismatch")

// CosineSimilarity returns the cosine of the angle between two vectors in
// [-1,1]. It is defined as 0 when either vector has zero norm.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(a), len(b))
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

// semanticScore clamps cosine similarity into the [0,1] band used for
// ranking; anti-correlated text is no worse than unrelated text.
func semanticScore(cos float64) float64 {
	if cos < 0 {
		return 0
	}
	if cos > 1 {
		return 1
	}
	return cos
}

// listingText assembles the textual summary a listing is embedded from:
// subjects, levels, free text and requirements. The same construction is
// used for hashing, so an edit to any of these fields makes the cached
// vector stale.
func listingText(listing catalog.Listing) string {
	parts := make([]string, 0, 4)
	if len(listing.Subjects) > 0 {
		parts = append(parts, "Subjects: "+strings.Join(listing.Subjects, ", "))
	}
	if len(listing.Levels) > 0 {
		parts = append(parts, "Levels: "+strings.Join(listing.Levels, ", "))
	}
	if desc := strings.TrimSpace(listing.Description); desc != "" {
		parts = append(parts, desc)
	}
	if reqs := strings.TrimSpace(listing.Requirements); reqs != "" {
		parts = append(parts, "Requirements: "+reqs)
	}
	return strings.Join(parts, "\n")
}

// ProfileText builds the semantic anchor for a provider profile: the
// profile's own text plus a bounded sample of the provider's active
// listings.
func ProfileText(profile catalog.ProviderProfile, listings []catalog.Listing) string {
	parts := make([]string, 0, 3+len(listings))
	if headline := strings.TrimSpace(profile.Headline); headline != "" {
		parts = append(parts, headline)
	}
	if bio := strings.TrimSpace(profile.Biography); bio != "" {
		parts = append(parts, bio)
	}
	if exp := strings.TrimSpace(profile.Experience); exp != "" {
		parts = append(parts, "Experience: "+exp)
	}
	for _, listing := range listings {
		if text := listingText(listing); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n")
}
