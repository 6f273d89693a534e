// File path: internal/match/scorer_test.go
package match

import (
	"math"
	"testing"

	"github.com/TrunderHunter/SkillBridgeBE-sub000/internal/catalog"
)

func fptr(v float64) *float64 {
	return &v
}

func seekerListing() catalog.Listing {
	return catalog.Listing{
		ID:       "seeker-1",
		OwnerID:  "owner-s",
		Side:     catalog.SideSeeker,
		Subjects: []string{"math", "physics"},
		Levels:   []string{"grade_10"},
		PriceMin: fptr(10),
		PriceMax: fptr(30),
		Mode:     catalog.ModeOnline,
		Status:   catalog.StatusActive,
	}
}

func providerListing() catalog.Listing {
	return catalog.Listing{
		ID:       "provider-1",
		OwnerID:  "owner-p",
		Side:     catalog.SideProvider,
		Subjects: []string{"math", "physics", "chemistry"},
		Levels:   []string{BucketHighSchool},
		Price:    fptr(20),
		Mode:     catalog.ModeOnline,
		Status:   catalog.StatusActive,
	}
}

func TestScoreStructuredPerfectMatch(t *testing.T) {
	score, detail := ScoreStructured(seekerListing(), providerListing())
	if math.Abs(score-1.0) > 1e-9 {
		t.Fatalf("expected perfect score, got %f (%+v)", score, detail)
	}
	if !detail.SubjectConsidered || !detail.LevelConsidered || !detail.PriceConsidered || !detail.ModeConsidered {
		t.Fatalf("expected all factors considered: %+v", detail)
	}
	if len(detail.SharedSubjects) != 2 {
		t.Fatalf("expected 2 shared subjects, got %v", detail.SharedSubjects)
	}
}

func TestScoreStructuredSubjectRatioIsRelativeToSource(t *testing.T) {
	source := seekerListing()
	candidate := providerListing()
	candidate.Subjects = []string{"math"}
	score, detail := ScoreStructured(source, candidate)
	if math.Abs(detail.SubjectRatio-0.5) > 1e-9 {
		t.Fatalf("expected subject ratio 0.5, got %f", detail.SubjectRatio)
	}
	// 0.4*0.5 + 0.3 + 0.2 + 0.1 over full weight 1.0
	if math.Abs(score-0.8) > 1e-9 {
		t.Fatalf("expected score 0.8, got %f", score)
	}
}

func TestScoreStructuredNoSubjectOverlapScoresStrictlyLower(t *testing.T) {
	source := seekerListing()
	source.Subjects = []string{"math"}
	full := providerListing()
	full.Subjects = []string{"math", "physics"}
	disjoint := providerListing()
	disjoint.Subjects = []string{"physics"}

	fullScore, _ := ScoreStructured(source, full)
	disjointScore, detail := ScoreStructured(source, disjoint)
	if math.Abs(fullScore-1.0) > 1e-9 {
		t.Fatalf("expected full overlap score 1.0, got %f", fullScore)
	}
	if detail.SubjectRatio != 0 || len(detail.SharedSubjects) != 0 {
		t.Fatalf("expected zero subject contribution, got %+v", detail)
	}
	if disjointScore < 0 {
		t.Fatalf("subject factor must never go negative, got %f", disjointScore)
	}
	if disjointScore >= fullScore {
		t.Fatalf("disjoint subjects %f must score below full overlap %f", disjointScore, fullScore)
	}
}

func TestScoreStructuredRenormalizesOverConsideredFactors(t *testing.T) {
	source := seekerListing()
	source.PriceMin = nil
	source.PriceMax = nil
	source.Mode = ""
	candidate := providerListing()
	candidate.Levels = nil
	// Only subjects remain comparable. The score must equal the subject
	// ratio, not the ratio diluted by absent factors.
	score, detail := ScoreStructured(source, candidate)
	if detail.LevelConsidered || detail.PriceConsidered || detail.ModeConsidered {
		t.Fatalf("expected only subjects considered: %+v", detail)
	}
	if math.Abs(score-detail.SubjectRatio) > 1e-9 {
		t.Fatalf("expected score %f to equal subject ratio %f", score, detail.SubjectRatio)
	}
}

func TestScoreStructuredNoComparableFactors(t *testing.T) {
	source := catalog.Listing{Side: catalog.SideSeeker}
	candidate := catalog.Listing{Side: catalog.SideProvider}
	score, detail := ScoreStructured(source, candidate)
	if score != 0 {
		t.Fatalf("expected zero score, got %f", score)
	}
	if detail.SubjectConsidered || detail.LevelConsidered || detail.PriceConsidered || detail.ModeConsidered {
		t.Fatalf("expected no factors considered: %+v", detail)
	}
}

func TestScoreStructuredPriceOutsideBudget(t *testing.T) {
	source := seekerListing()
	candidate := providerListing()
	candidate.Price = fptr(50)
	_, detail := ScoreStructured(source, candidate)
	if !detail.PriceConsidered {
		t.Fatalf("expected price considered: %+v", detail)
	}
	if detail.PriceMatch {
		t.Fatalf("expected price mismatch for 50 against budget [10,30]")
	}
}

func TestScoreStructuredPriceSkippedWhenCandidateHasNone(t *testing.T) {
	source := seekerListing()
	candidate := providerListing()
	candidate.Price = nil
	_, detail := ScoreStructured(source, candidate)
	if detail.PriceConsidered {
		t.Fatalf("expected price skipped when candidate has no price")
	}
}

func TestScoreStructuredPriceRuleFollowsDirection(t *testing.T) {
	// Provider querying seekers: the provider's point price is checked
	// against each seeker's budget range.
	source := providerListing()
	candidate := seekerListing()
	_, detail := ScoreStructured(source, candidate)
	if !detail.PriceConsidered || !detail.PriceMatch {
		t.Fatalf("expected provider price 20 within seeker budget [10,30]: %+v", detail)
	}

	source.Price = fptr(5)
	_, detail = ScoreStructured(source, candidate)
	if !detail.PriceConsidered || detail.PriceMatch {
		t.Fatalf("expected provider price 5 below seeker budget: %+v", detail)
	}
}

func TestScoreStructuredHalfOpenBudget(t *testing.T) {
	source := seekerListing()
	source.PriceMin = nil
	candidate := providerListing()
	candidate.Price = fptr(5)
	_, detail := ScoreStructured(source, candidate)
	if !detail.PriceConsidered || !detail.PriceMatch {
		t.Fatalf("expected price 5 accepted under max-only budget: %+v", detail)
	}
}

func TestScoreStructuredModeBothIsWildcard(t *testing.T) {
	source := seekerListing()
	candidate := providerListing()
	candidate.Mode = catalog.ModeBoth
	_, detail := ScoreStructured(source, candidate)
	if !detail.ModeConsidered || !detail.ModeMatch {
		t.Fatalf("expected BOTH to satisfy ONLINE: %+v", detail)
	}

	candidate.Mode = catalog.ModeOffline
	_, detail = ScoreStructured(source, candidate)
	if !detail.ModeConsidered || detail.ModeMatch {
		t.Fatalf("expected OFFLINE to mismatch ONLINE: %+v", detail)
	}
}

func TestScoreStructuredLevelComparisonCrossesVocabularies(t *testing.T) {
	// Seeker grades and provider buckets meet in the bucket vocabulary.
	source := seekerListing()
	source.Levels = []string{"grade_3", "grade_11"}
	candidate := providerListing()
	candidate.Levels = []string{BucketHighSchool}
	_, detail := ScoreStructured(source, candidate)
	if !detail.LevelConsidered || !detail.LevelMatch {
		t.Fatalf("expected grade_11 to overlap high_school: %+v", detail)
	}

	candidate.Levels = []string{BucketSecondary}
	_, detail = ScoreStructured(source, candidate)
	if detail.LevelMatch {
		t.Fatalf("expected no overlap with secondary: %+v", detail)
	}
}
