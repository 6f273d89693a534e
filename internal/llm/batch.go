// File path: internal/llm/batch.go
package llm

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/TrunderHunter/SkillBridgeBE-sub000/internal/common"
	"github.com/TrunderHunter/SkillBridgeBE-sub000/internal/common/telemetry"
)

const (
	defaultEmbedBatchSize = 5
	// Inter-batch pacing keeps bulk embedding under the provider's rate
	// limits. One batch per second, no bursting.
	defaultBatchRate = rate.Limit(1)
)

// Batcher splits embedding requests into small sub-batches and paces them
// with a rate limiter so bulk work never trips provider-side limits.
type Batcher struct {
	provider  Provider
	batchSize int
	limiter   *rate.Limiter
}

// NewBatcher wraps the provider with sub-batching of the given size and one
// batch per interval pacing. Zero values fall back to batch size 5 and a one
// second interval.
func NewBatcher(provider Provider, batchSize int, interval rate.Limit) *Batcher {
	if batchSize <= 0 {
		batchSize = defaultEmbedBatchSize
	}
	if interval <= 0 {
		interval = defaultBatchRate
	}
	return &Batcher{
		provider:  provider,
		batchSize: batchSize,
		limiter:   rate.NewLimiter(interval, 1),
	}
}

// EmbedAll embeds every input, preserving order. The first failing
// sub-batch aborts the whole call; partially computed vectors are not
// returned so callers never persist a misaligned result set.
func (b *Batcher) EmbedAll(ctx context.Context, inputs []string) ([][]float32, error) {
	if b == nil || b.provider == nil {
		return nil, ErrUnavailable
	}
	if len(inputs) == 0 {
		return nil, nil
	}
	logger := common.Logger()
	out := make([][]float32, 0, len(inputs))
	for start := 0; start < len(inputs); start += b.batchSize {
		end := start + b.batchSize
		if end > len(inputs) {
			end = len(inputs)
		}
		if err := b.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
		vectors, err := b.provider.Embed(ctx, inputs[start:end])
		telemetry.RecordEmbedProviderCall(err)
		if err != nil {
			if IsRateLimited(err) {
				logger.Warn("llm: embedding batch rate limited", "batch_start", start, "error", err)
			}
			return nil, fmt.Errorf("embed batch starting at %d: %w", start, err)
		}
		if len(vectors) != end-start {
			return nil, fmt.Errorf("embed batch starting at %d: got %d vectors for %d inputs", start, len(vectors), end-start)
		}
		out = append(out, vectors...)
	}
	return out, nil
}
