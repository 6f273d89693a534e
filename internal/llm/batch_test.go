// File path: internal/llm/batch_test.go
package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/TrunderHunter/SkillBridgeBE-sub000/internal/llm/providers"
)

type recordingProvider struct {
	batches [][]string
	failAt  int
	short   bool
}

func (p *recordingProvider) Generate(ctx context.Context, messages []providers.Message) (string, error) {
	return "", providers.ErrUnavailable
}

func (p *recordingProvider) Embed(ctx context.Context, input []string) ([][]float32, error) {
	p.batches = append(p.batches, input)
	if p.failAt > 0 && len(p.batches) >= p.failAt {
		return nil, errors.New("boom")
	}
	count := len(input)
	if p.short {
		count--
	}
	vectors := make([][]float32, 0, count)
	for i := 0; i < count; i++ {
		vectors = append(vectors, []float32{float32(i)})
	}
	return vectors, nil
}

func (p *recordingProvider) Available() bool { return true }

func (p *recordingProvider) Name() string { return "recording" }

func inputs(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("text-%d", i)
	}
	return out
}

func TestEmbedAllSplitsIntoBatches(t *testing.T) {
	provider := &recordingProvider{}
	batcher := NewBatcher(provider, 5, 1000)
	vectors, err := batcher.EmbedAll(context.Background(), inputs(12))
	if err != nil {
		t.Fatalf("embed all: %v", err)
	}
	if len(vectors) != 12 {
		t.Fatalf("expected 12 vectors, got %d", len(vectors))
	}
	if len(provider.batches) != 3 {
		t.Fatalf("expected 3 batches, got %d", len(provider.batches))
	}
	if len(provider.batches[0]) != 5 || len(provider.batches[1]) != 5 || len(provider.batches[2]) != 2 {
		t.Fatalf("unexpected batch sizes: %v", provider.batches)
	}
}

func TestEmbedAllExactBatchBoundary(t *testing.T) {
	provider := &recordingProvider{}
	batcher := NewBatcher(provider, 5, 1000)
	vectors, err := batcher.EmbedAll(context.Background(), inputs(10))
	if err != nil {
		t.Fatalf("embed all: %v", err)
	}
	if len(vectors) != 10 || len(provider.batches) != 2 {
		t.Fatalf("expected 2 full batches, got %d vectors in %d batches", len(vectors), len(provider.batches))
	}
}

func TestEmbedAllEmptyInput(t *testing.T) {
	provider := &recordingProvider{}
	batcher := NewBatcher(provider, 5, 1000)
	vectors, err := batcher.EmbedAll(context.Background(), nil)
	if err != nil {
		t.Fatalf("embed all: %v", err)
	}
	if vectors != nil || len(provider.batches) != 0 {
		t.Fatalf("expected no work for empty input")
	}
}

func TestEmbedAllAbortsOnFirstFailure(t *testing.T) {
	provider := &recordingProvider{failAt: 2}
	batcher := NewBatcher(provider, 5, 1000)
	vectors, err := batcher.EmbedAll(context.Background(), inputs(15))
	if err == nil {
		t.Fatalf("expected error from second batch")
	}
	if vectors != nil {
		t.Fatalf("expected no partial vectors on failure")
	}
	if len(provider.batches) != 2 {
		t.Fatalf("expected abort after batch 2, got %d batches", len(provider.batches))
	}
}

func TestEmbedAllRejectsMisalignedResponse(t *testing.T) {
	provider := &recordingProvider{short: true}
	batcher := NewBatcher(provider, 5, 1000)
	if _, err := batcher.EmbedAll(context.Background(), inputs(5)); err == nil {
		t.Fatalf("expected error for vector count mismatch")
	}
}

func TestEmbedAllNilProvider(t *testing.T) {
	var batcher *Batcher
	if _, err := batcher.EmbedAll(context.Background(), inputs(1)); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestIsRateLimitedDetectsQuotaMessages(t *testing.T) {
	if IsRateLimited(nil) {
		t.Fatalf("nil error is not rate limited")
	}
	if !IsRateLimited(errors.New("monthly quota exceeded")) {
		t.Fatalf("expected quota message detected")
	}
	if !IsRateLimited(errors.New("Rate limit reached for requests")) {
		t.Fatalf("expected rate limit message detected")
	}
	if IsRateLimited(errors.New("connection refused")) {
		t.Fatalf("connection errors are not rate limits")
	}
}
