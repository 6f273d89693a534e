// File path: internal/match/types.go
package match

import "github.com/TrunderHunter/SkillBridgeBE-sub000/internal/catalog"

// Direction names which side of the marketplace is querying. The engine is
// one parametrized implementation; the direction only decides how attributes
// are mapped and which price rule applies.
type Direction string

const (
	SeekerToProvider Direction = "seeker_to_provider"
	ProviderToSeeker Direction = "provider_to_seeker"
)

// DirectionFor derives the matching direction from the querying listing's
// side.
func DirectionFor(side catalog.Side) Direction {
	if side == catalog.SideProvider {
		return ProviderToSeeker
	}
	return SeekerToProvider
}

// Options are the caller-supplied knobs for a matching request. A nil
// MinScore applies the default threshold; an explicit 0 keeps every
// candidate.
type Options struct {
	Limit               int
	MinScore            *float64
	IncludeExplanations bool
}

const (
	defaultLimit    = 10
	defaultMinScore = 0.5
)

func (o Options) withDefaults() Options {
	if o.Limit <= 0 {
		o.Limit = defaultLimit
	}
	if o.MinScore == nil || *o.MinScore < 0 {
		threshold := defaultMinScore
		o.MinScore = &threshold
	}
	return o
}

// MatchDetail is the per-factor breakdown behind a structured score. A
// factor is considered only when both sides carry the attribute; skipped
// factors are excluded from scoring rather than counted as zero.
type MatchDetail struct {
	SubjectConsidered bool     `json:"subject_considered"`
	SubjectRatio      float64  `json:"subject_ratio"`
	SharedSubjects    []string `json:"shared_subjects,omitempty"`

	LevelConsidered bool     `json:"level_considered"`
	LevelMatch      bool     `json:"level_match"`
	SharedLevels    []string `json:"shared_levels,omitempty"`

	PriceConsidered bool `json:"price_considered"`
	PriceMatch      bool `json:"price_match"`

	ModeConsidered bool `json:"mode_considered"`
	ModeMatch      bool `json:"mode_match"`
}

// MatchResult is an ephemeral ranked match. SemanticScore is nil when no
// embedding comparison was possible for the pair; the candidate is then
// ranked by structured score alone, never excluded.
type MatchResult struct {
	CandidateID     string      `json:"candidate_id"`
	OwnerID         string      `json:"owner_id"`
	StructuredScore float64     `json:"structured_score"`
	SemanticScore   *float64    `json:"semantic_score"`
	CombinedScore   float64     `json:"combined_score"`
	Detail          MatchDetail `json:"detail"`
	Explanation     string      `json:"explanation,omitempty"`
}
