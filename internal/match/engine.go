// File path: internal/match/engine.go
package match

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/TrunderHunter/SkillBridgeBE-sub000/internal/catalog"
	"github.com/TrunderHunter/SkillBridgeBE-sub000/internal/common"
	"github.com/TrunderHunter/SkillBridgeBE-sub000/internal/common/telemetry"
	"github.com/TrunderHunter/SkillBridgeBE-sub000/internal/embed"
	"github.com/TrunderHunter/SkillBridgeBE-sub000/internal/llm"
)

// Fixed blend of the deterministic and semantic signals. Semantic
// contributes 0 when no embedding comparison is possible, so candidates are
// only ever scored lower for a missing vector, never excluded.
const (
	weightStructured = 0.7
	weightSemantic   = 0.3

	defaultCandidateCap = 150
)

// Store is the read surface the engine needs from the listing catalog.
type Store interface {
	ListingByID(ctx context.Context, id string) (*catalog.Listing, error)
	FindCandidates(ctx context.Context, filter catalog.Filter) ([]catalog.Listing, error)
}

// Engine is the single parametrized matching engine serving both
// directions: a seeker listing querying providers and a provider listing
// querying seekers.
type Engine struct {
	store        Store
	provider     llm.Provider
	batcher      *llm.Batcher
	cache        embed.Cache
	generator    *Generator
	candidateCap int
	wStructured  float64
	wSemantic    float64
	now          func() time.Time
}

type Option func(*Engine)

// WithCandidateCap bounds how many candidates are retrieved and scored per
// request.
func WithCandidateCap(limit int) Option {
	return func(e *Engine) {
		if limit > 0 {
			e.candidateCap = limit
		}
	}
}

// WithCache injects the embedding cache used for query and candidate
// vectors.
func WithCache(cache embed.Cache) Option {
	return func(e *Engine) {
		e.cache = cache
	}
}

// WithBatcher shares a paced embedding batcher, so request-path embedding
// and background refresh draw from the same rate budget.
func WithBatcher(batcher *llm.Batcher) Option {
	return func(e *Engine) {
		if batcher != nil {
			e.batcher = batcher
		}
	}
}

// WithGenerator overrides the explanation generator.
func WithGenerator(generator *Generator) Option {
	return func(e *Engine) {
		if generator != nil {
			e.generator = generator
		}
	}
}

// WithWeights overrides the structured/semantic blend. Both weights must be
// non-negative and sum to 1; anything else keeps the defaults.
func WithWeights(structured, semantic float64) Option {
	return func(e *Engine) {
		if structured < 0 || semantic < 0 {
			return
		}
		if diff := structured + semantic - 1; diff > 1e-9 || diff < -1e-9 {
			return
		}
		e.wStructured = structured
		e.wSemantic = semantic
	}
}

// WithClock injects the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

func NewEngine(store Store, provider llm.Provider, opts ...Option) *Engine {
	e := &Engine{
		store:        store,
		provider:     provider,
		candidateCap: defaultCandidateCap,
		wStructured:  weightStructured,
		wSemantic:    weightSemantic,
		now:          time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	if e.generator == nil {
		e.generator = NewGenerator(provider)
	}
	if e.batcher == nil {
		e.batcher = llm.NewBatcher(provider, 0, 0)
	}
	return e
}

// GetMatches finds and ranks the best opposite-side candidates for the given
// listing. A missing source listing propagates catalog.ErrNotFound; an empty
// candidate set yields an empty slice. Provider outages degrade to
// structured-only scoring and never fail the request.
func (e *Engine) GetMatches(ctx context.Context, sourceID string, opts Options) ([]MatchResult, error) {
	if e == nil || e.store == nil {
		return nil, errors.New("match engine not initialised")
	}
	opts = opts.withDefaults()
	logger := common.Logger()
	start := e.now()

	source, err := e.store.ListingByID(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	direction := DirectionFor(source.Side)

	filter := BuildFilter(*source, e.candidateCap)
	candidates, err := e.store.FindCandidates(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("retrieve candidates: %w", err)
	}
	if len(candidates) == 0 {
		logger.Debug("match: no candidates for listing", "source", sourceID, "direction", string(direction))
		return []MatchResult{}, nil
	}

	// Query and candidate vectors are resolved up front: cached vectors
	// first, then a single paced batch for the misses. One failing batch
	// drops semantic scoring for the whole request instead of failing it.
	vectors := e.resolveVectors(ctx, append([]catalog.Listing{*source}, candidates...))
	queryVector, haveQuery := vectors[source.ID]
	if !haveQuery {
		logger.Info("match: semantic scoring unavailable, ranking by structured score", "source", sourceID)
	}

	results := make([]MatchResult, 0, len(candidates))
	for _, candidate := range candidates {
		structured, detail := ScoreStructured(*source, candidate)
		var semanticPtr *float64
		semantic := 0.0
		if haveQuery {
			if candidateVector, ok := vectors[candidate.ID]; ok {
				cos, simErr := CosineSimilarity(queryVector, candidateVector)
				if simErr != nil {
					logger.Error("match: embedding dimension mismatch, dropping semantic score for candidate",
						"source", sourceID, "candidate", candidate.ID, "error", simErr)
				} else {
					semantic = semanticScore(cos)
					value := semantic
					semanticPtr = &value
				}
			}
		}
		combined := e.wStructured*structured + e.wSemantic*semantic
		if combined < *opts.MinScore {
			continue
		}
		results = append(results, MatchResult{
			CandidateID:     candidate.ID,
			OwnerID:         candidate.OwnerID,
			StructuredScore: structured,
			SemanticScore:   semanticPtr,
			CombinedScore:   combined,
			Detail:          detail,
		})
	}

	// Stable sort keeps retrieval (reputation) order for tied scores, so
	// repeated requests over unchanged data return identical rankings.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].CombinedScore > results[j].CombinedScore
	})
	if len(results) > opts.Limit {
		results = results[:opts.Limit]
	}

	if opts.IncludeExplanations {
		e.generator.ExplainAll(ctx, *source, candidates, results)
	}
	telemetry.RecordMatchRequest(start, len(candidates), len(results))
	logger.Debug("match: ranked candidates", "source", sourceID, "direction", string(direction),
		"retrieved", len(candidates), "returned", len(results))
	return results, nil
}

// ExplainMatch produces one explanation on demand for a candidate the caller
// selected from previously returned, unexplained results. This is the
// preferred, cost-efficient path.
func (e *Engine) ExplainMatch(ctx context.Context, sourceID, candidateID string) (string, error) {
	if e == nil || e.store == nil {
		return "", errors.New("match engine not initialised")
	}
	source, err := e.store.ListingByID(ctx, sourceID)
	if err != nil {
		return "", err
	}
	candidate, err := e.store.ListingByID(ctx, candidateID)
	if err != nil {
		return "", err
	}
	_, detail := ScoreStructured(*source, *candidate)
	return e.generator.Explain(ctx, *source, *candidate, detail), nil
}

// embedTarget is a listing whose vector was not found in any cache tier.
type embedTarget struct {
	listingID string
	key       embed.Key
	text      string
}

// resolveVectors maps listing IDs to embeddings. Fresh on-row records and
// cache hits are served directly; the remainder is embedded through the
// paced batcher in one call and written back. A provider failure aborts the
// batch, so at most one failing round trip happens per request and the
// affected listings simply have no semantic component.
func (e *Engine) resolveVectors(ctx context.Context, listings []catalog.Listing) map[string][]float32 {
	vectors := make(map[string][]float32, len(listings))
	targets := make([]embedTarget, 0, len(listings))
	for _, listing := range listings {
		text := listingText(listing)
		if text == "" {
			continue
		}
		hash := embed.ContentHash(text)
		if vector, ok := embed.FromRecord(listing.Embedding, hash, listing.ContentUpdatedAt); ok {
			telemetry.RecordEmbedCacheHit()
			vectors[listing.ID] = vector
			continue
		}
		key := embed.Key{Kind: embed.KindListing, ID: listing.ID, ContentHash: hash, UpdatedAt: listing.ContentUpdatedAt}
		if e.cache != nil {
			if vector, ok := e.cache.Get(ctx, key); ok {
				telemetry.RecordEmbedCacheHit()
				vectors[listing.ID] = vector
				continue
			}
		}
		targets = append(targets, embedTarget{listingID: listing.ID, key: key, text: text})
	}
	if len(targets) == 0 || e.provider == nil || !e.provider.Available() {
		return vectors
	}

	logger := common.Logger()
	texts := make([]string, len(targets))
	for i, target := range targets {
		texts[i] = target.text
	}
	embedded, err := e.batcher.EmbedAll(ctx, texts)
	if err != nil {
		switch {
		case errors.Is(err, llm.ErrUnavailable):
			logger.Debug("match: embedding provider unavailable", "listings", len(targets))
		case llm.IsRateLimited(err):
			logger.Warn("match: embedding provider rate limited", "listings", len(targets), "error", err)
		default:
			logger.Warn("match: embedding computation failed", "listings", len(targets), "error", err)
		}
		return vectors
	}
	for i, target := range targets {
		if len(embedded[i]) == 0 {
			continue
		}
		vectors[target.listingID] = embedded[i]
		if e.cache != nil {
			if err := e.cache.Put(ctx, target.key, embedded[i]); err != nil {
				logger.Warn("match: embedding cache write failed", "listing", target.listingID, "error", err)
			}
		}
	}
	return vectors
}
