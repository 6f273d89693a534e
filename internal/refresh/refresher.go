// File path: internal/refresh/refresher.go
package refresh

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/TrunderHunter/SkillBridgeBE-sub000/internal/catalog"
	"github.com/TrunderHunter/SkillBridgeBE-sub000/internal/common"
	"github.com/TrunderHunter/SkillBridgeBE-sub000/internal/embed"
	"github.com/TrunderHunter/SkillBridgeBE-sub000/internal/llm"
	"github.com/TrunderHunter/SkillBridgeBE-sub000/internal/match"
)

// profileBatchLimit bounds how many stale profiles one refresh cycle picks
// up; the rest wait for the next tick.
const profileBatchLimit = 50

// listingSampleLimit bounds how many of a provider's active listings feed
// the aggregated profile text.
const listingSampleLimit = 5

// Source is the catalog surface the refresher reads and writes.
type Source interface {
	StaleProfiles(ctx context.Context, limit int) ([]catalog.ProviderProfile, error)
	ActiveListingsByOwner(ctx context.Context, ownerID string, limit int) ([]catalog.Listing, error)
	SaveProfileEmbedding(ctx context.Context, ownerID string, record catalog.EmbeddingRecord) error
}

// Refresher recomputes provider profile embeddings in the background so
// profile edits become semantically visible without blocking any request.
type Refresher struct {
	source  Source
	batcher *llm.Batcher
	cron    *cron.Cron
}

func NewRefresher(source Source, batcher *llm.Batcher) *Refresher {
	return &Refresher{
		source:  source,
		batcher: batcher,
		cron:    cron.New(),
	}
}

// Start schedules a refresh cycle every interval. The first cycle runs on
// schedule, not immediately; callers wanting an eager pass invoke
// RefreshOnce themselves.
func (r *Refresher) Start(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("refresh interval must be positive, got %s", interval)
	}
	spec := fmt.Sprintf("@every %s", interval)
	_, err := r.cron.AddFunc(spec, func() {
		refreshed, err := r.RefreshOnce(ctx)
		if err != nil {
			common.Logger().Warn("refresh: cycle failed", "error", err)
			return
		}
		if refreshed > 0 {
			common.Logger().Info("refresh: cycle complete", "profiles", refreshed)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule refresh: %w", err)
	}
	r.cron.Start()
	common.Logger().Info("refresh: profile embedding refresher started", "interval", interval)
	return nil
}

// Stop halts the schedule and waits for a running cycle to finish.
func (r *Refresher) Stop() {
	if r == nil || r.cron == nil {
		return
	}
	<-r.cron.Stop().Done()
}

// RefreshOnce runs one refresh cycle: collect stale profiles, rebuild their
// aggregate text, embed the batch and persist the vectors. It returns how
// many profiles were refreshed. A provider failure aborts the cycle without
// persisting anything; the profiles stay stale and are retried next tick.
func (r *Refresher) RefreshOnce(ctx context.Context) (int, error) {
	if r == nil || r.source == nil {
		return 0, fmt.Errorf("refresher not initialised")
	}
	logger := common.Logger()
	profiles, err := r.source.StaleProfiles(ctx, profileBatchLimit)
	if err != nil {
		return 0, fmt.Errorf("list stale profiles: %w", err)
	}
	if len(profiles) == 0 {
		return 0, nil
	}

	texts := make([]string, 0, len(profiles))
	owners := make([]catalog.ProviderProfile, 0, len(profiles))
	for _, profile := range profiles {
		listings, err := r.source.ActiveListingsByOwner(ctx, profile.OwnerID, listingSampleLimit)
		if err != nil {
			logger.Warn("refresh: skipping profile, listing load failed", "owner", profile.OwnerID, "error", err)
			continue
		}
		text := match.ProfileText(profile, listings)
		if text == "" {
			continue
		}
		texts = append(texts, text)
		owners = append(owners, profile)
	}
	if len(texts) == 0 {
		return 0, nil
	}

	vectors, err := r.batcher.EmbedAll(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embed %d profiles: %w", len(texts), err)
	}

	refreshed := 0
	now := time.Now().UTC()
	for i, profile := range owners {
		record := catalog.EmbeddingRecord{
			Vector:     vectors[i],
			ComputedAt: now,
			SourceHash: embed.ContentHash(texts[i]),
		}
		if err := r.source.SaveProfileEmbedding(ctx, profile.OwnerID, record); err != nil {
			logger.Warn("refresh: persisting profile embedding failed", "owner", profile.OwnerID, "error", err)
			continue
		}
		refreshed++
	}
	return refreshed, nil
}
