// File path: internal/refresh/refresher_test.go
package refresh

import (
	"context"
	"errors"
	"testing"

	"github.com/TrunderHunter/SkillBridgeBE-sub000/internal/catalog"
	"github.com/TrunderHunter/SkillBridgeBE-sub000/internal/llm"
	"github.com/TrunderHunter/SkillBridgeBE-sub000/internal/llm/providers"
)

type fakeSource struct {
	profiles []catalog.ProviderProfile
	listings map[string][]catalog.Listing
	saved    map[string]catalog.EmbeddingRecord
	saveErr  map[string]error
}

func newFakeSource(profiles ...catalog.ProviderProfile) *fakeSource {
	return &fakeSource{
		profiles: profiles,
		listings: make(map[string][]catalog.Listing),
		saved:    make(map[string]catalog.EmbeddingRecord),
		saveErr:  make(map[string]error),
	}
}

func (s *fakeSource) StaleProfiles(ctx context.Context, limit int) ([]catalog.ProviderProfile, error) {
	if limit < len(s.profiles) {
		return s.profiles[:limit], nil
	}
	return s.profiles, nil
}

func (s *fakeSource) ActiveListingsByOwner(ctx context.Context, ownerID string, limit int) ([]catalog.Listing, error) {
	return s.listings[ownerID], nil
}

func (s *fakeSource) SaveProfileEmbedding(ctx context.Context, ownerID string, record catalog.EmbeddingRecord) error {
	if err := s.saveErr[ownerID]; err != nil {
		return err
	}
	s.saved[ownerID] = record
	return nil
}

type countingProvider struct {
	calls  int
	inputs [][]string
	err    error
}

func (p *countingProvider) Generate(ctx context.Context, messages []providers.Message) (string, error) {
	return "", providers.ErrUnavailable
}

func (p *countingProvider) Embed(ctx context.Context, input []string) ([][]float32, error) {
	p.calls++
	p.inputs = append(p.inputs, input)
	if p.err != nil {
		return nil, p.err
	}
	vectors := make([][]float32, len(input))
	for i := range input {
		vectors[i] = []float32{float32(i + 1), 0}
	}
	return vectors, nil
}

func (p *countingProvider) Available() bool { return true }

func (p *countingProvider) Name() string { return "counting" }

func profileFixture(owner string) catalog.ProviderProfile {
	return catalog.ProviderProfile{
		OwnerID:   owner,
		Headline:  "Math tutor",
		Biography: "Teaches algebra and calculus.",
	}
}

func TestRefreshOnceEmbedsAndPersists(t *testing.T) {
	source := newFakeSource(profileFixture("owner-1"), profileFixture("owner-2"))
	source.listings["owner-1"] = []catalog.Listing{{Subjects: []string{"algebra"}}}
	provider := &countingProvider{}
	refresher := NewRefresher(source, llm.NewBatcher(provider, 10, 1000))

	refreshed, err := refresher.RefreshOnce(context.Background())
	if err != nil {
		t.Fatalf("refresh once: %v", err)
	}
	if refreshed != 2 {
		t.Fatalf("expected 2 refreshed profiles, got %d", refreshed)
	}
	for _, owner := range []string{"owner-1", "owner-2"} {
		record, ok := source.saved[owner]
		if !ok {
			t.Fatalf("expected embedding saved for %s", owner)
		}
		if len(record.Vector) == 0 || record.SourceHash == "" || record.ComputedAt.IsZero() {
			t.Fatalf("incomplete record for %s: %+v", owner, record)
		}
	}
}

func TestRefreshOnceNoStaleProfiles(t *testing.T) {
	source := newFakeSource()
	provider := &countingProvider{}
	refresher := NewRefresher(source, llm.NewBatcher(provider, 10, 1000))
	refreshed, err := refresher.RefreshOnce(context.Background())
	if err != nil {
		t.Fatalf("refresh once: %v", err)
	}
	if refreshed != 0 || provider.calls != 0 {
		t.Fatalf("expected no work, got refreshed=%d calls=%d", refreshed, provider.calls)
	}
}

func TestRefreshOnceSkipsEmptyProfiles(t *testing.T) {
	empty := catalog.ProviderProfile{OwnerID: "owner-empty"}
	source := newFakeSource(empty, profileFixture("owner-1"))
	provider := &countingProvider{}
	refresher := NewRefresher(source, llm.NewBatcher(provider, 10, 1000))
	refreshed, err := refresher.RefreshOnce(context.Background())
	if err != nil {
		t.Fatalf("refresh once: %v", err)
	}
	if refreshed != 1 {
		t.Fatalf("expected only the textual profile refreshed, got %d", refreshed)
	}
	if _, ok := source.saved["owner-empty"]; ok {
		t.Fatalf("profile with no text must not be embedded")
	}
}

func TestRefreshOnceProviderFailureAbortsCycle(t *testing.T) {
	source := newFakeSource(profileFixture("owner-1"))
	provider := &countingProvider{err: errors.New("quota exceeded")}
	refresher := NewRefresher(source, llm.NewBatcher(provider, 10, 1000))
	refreshed, err := refresher.RefreshOnce(context.Background())
	if err == nil {
		t.Fatalf("expected error from provider failure")
	}
	if refreshed != 0 || len(source.saved) != 0 {
		t.Fatalf("expected nothing persisted on failure, got %d saved", len(source.saved))
	}
}

func TestRefreshOnceContinuesPastSaveFailure(t *testing.T) {
	source := newFakeSource(profileFixture("owner-1"), profileFixture("owner-2"))
	source.saveErr["owner-1"] = errors.New("disk full")
	provider := &countingProvider{}
	refresher := NewRefresher(source, llm.NewBatcher(provider, 10, 1000))
	refreshed, err := refresher.RefreshOnce(context.Background())
	if err != nil {
		t.Fatalf("refresh once: %v", err)
	}
	if refreshed != 1 {
		t.Fatalf("expected one profile refreshed despite save failure, got %d", refreshed)
	}
	if _, ok := source.saved["owner-2"]; !ok {
		t.Fatalf("expected owner-2 persisted")
	}
}
