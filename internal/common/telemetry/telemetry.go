// File path: internal/common/telemetry/telemetry.go
package telemetry

import (
	"expvar"
	"sync"
	"time"
)

// Counters are published through expvar so the standard /debug/vars surface
// exposes them without extra transport.

var (
	initOnce sync.Once

	matchRequestTotal    *expvar.Int
	matchCandidateTotal  *expvar.Int
	matchResultTotal     *expvar.Int
	matchLatencyMS       *expvar.Int
	embedCacheHits       *expvar.Int
	embedProviderCalls   *expvar.Int
	embedProviderErrors  *expvar.Int
	explanationFallbacks *expvar.Int
)

func ensureInit() {
	initOnce.Do(func() {
		matchRequestTotal = expvar.NewInt("skillbridge_match_requests_total")
		matchCandidateTotal = expvar.NewInt("skillbridge_match_candidates_total")
		matchResultTotal = expvar.NewInt("skillbridge_match_results_total")
		matchLatencyMS = expvar.NewInt("skillbridge_match_latency_ms")
		embedCacheHits = expvar.NewInt("skillbridge_embed_cache_hits")
		embedProviderCalls = expvar.NewInt("skillbridge_embed_provider_calls")
		embedProviderErrors = expvar.NewInt("skillbridge_embed_provider_errors")
		explanationFallbacks = expvar.NewInt("skillbridge_explanation_fallbacks")
	})
}

// RecordMatchRequest accounts one completed match request: how many
// candidates were scored, how many results survived, and how long it took.
func RecordMatchRequest(start time.Time, candidates, results int) {
	ensureInit()
	matchRequestTotal.Add(1)
	matchCandidateTotal.Add(int64(candidates))
	matchResultTotal.Add(int64(results))
	matchLatencyMS.Add(time.Since(start).Milliseconds())
}

// RecordEmbedCacheHit accounts one embedding served from cache instead of
// the provider.
func RecordEmbedCacheHit() {
	ensureInit()
	embedCacheHits.Add(1)
}

// RecordEmbedProviderCall accounts one paid embedding call, failed or not.
func RecordEmbedProviderCall(err error) {
	ensureInit()
	embedProviderCalls.Add(1)
	if err != nil {
		embedProviderErrors.Add(1)
	}
}

// RecordExplanationFallback accounts one explanation served from the
// deterministic template instead of the generator.
func RecordExplanationFallback() {
	ensureInit()
	explanationFallbacks.Add(1)
}
