// File path: internal/match/semantic_test.go
package match

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/TrunderHunter/SkillBridgeBE-sub000/internal/catalog"
)

func TestCosineSimilarityIdenticalVectors(t *testing.T) {
	v := []float32{0.5, 1.25, -2}
	cos, err := CosineSimilarity(v, v)
	if err != nil {
		t.Fatalf("cosine: %v", err)
	}
	if math.Abs(cos-1) > 1e-9 {
		t.Fatalf("expected cosine 1, got %f", cos)
	}
}

func TestCosineSimilarityOppositeVectors(t *testing.T) {
	a := []float32{1, 2, 3}
	b := []float32{-1, -2, -3}
	cos, err := CosineSimilarity(a, b)
	if err != nil {
		t.Fatalf("cosine: %v", err)
	}
	if math.Abs(cos+1) > 1e-9 {
		t.Fatalf("expected cosine -1, got %f", cos)
	}
	if semanticScore(cos) != 0 {
		t.Fatalf("expected anti-correlation clamped to 0, got %f", semanticScore(cos))
	}
}

func TestCosineSimilarityOrthogonalVectors(t *testing.T) {
	cos, err := CosineSimilarity([]float32{1, 0}, []float32{0, 1})
	if err != nil {
		t.Fatalf("cosine: %v", err)
	}
	if cos != 0 {
		t.Fatalf("expected cosine 0, got %f", cos)
	}
}

func TestCosineSimilarityZeroNorm(t *testing.T) {
	cos, err := CosineSimilarity([]float32{0, 0, 0}, []float32{1, 2, 3})
	if err != nil {
		t.Fatalf("cosine: %v", err)
	}
	if cos != 0 {
		t.Fatalf("expected 0 for zero-norm vector, got %f", cos)
	}
}

func TestCosineSimilarityDimensionMismatch(t *testing.T) {
	_, err := CosineSimilarity([]float32{1, 2}, []float32{1, 2, 3})
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestListingTextTracksContentFields(t *testing.T) {
	listing := catalog.Listing{
		Subjects:     []string{"math"},
		Levels:       []string{"grade_10"},
		Description:  "Looking for exam prep help.",
		Requirements: "Evenings only.",
	}
	text := listingText(listing)
	for _, want := range []string{"math", "grade_10", "exam prep", "Evenings only"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected text to mention %q: %s", want, text)
		}
	}
	edited := listing
	edited.Description = "Looking for homework help."
	if listingText(edited) == text {
		t.Fatalf("expected text to change when description changes")
	}
}

func TestListingTextEmptyListing(t *testing.T) {
	if text := listingText(catalog.Listing{}); text != "" {
		t.Fatalf("expected empty text for empty listing, got %q", text)
	}
}

func TestProfileTextIncludesListings(t *testing.T) {
	profile := catalog.ProviderProfile{
		Headline:  "Experienced math tutor",
		Biography: "Ten years teaching high school math.",
	}
	listings := []catalog.Listing{{Subjects: []string{"calculus"}}}
	text := ProfileText(profile, listings)
	for _, want := range []string{"Experienced math tutor", "Ten years", "calculus"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected profile text to mention %q: %s", want, text)
		}
	}
}
