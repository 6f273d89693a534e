// File path: internal/match/explain.go
package match

import (
	"context"
	"fmt"
	"strings"

	"github.com/TrunderHunter/SkillBridgeBE-sub000/internal/catalog"
	"github.com/TrunderHunter/SkillBridgeBE-sub000/internal/common"
	"github.com/TrunderHunter/SkillBridgeBE-sub000/internal/common/telemetry"
	"github.com/TrunderHunter/SkillBridgeBE-sub000/internal/llm"
)

const (
	// Character budgets for the short (batch) and detailed (on-demand)
	// explanation forms.
	shortExplanationLimit    = 150
	detailedExplanationLimit = 250

	// promptFieldBudget bounds each free-text field quoted into the
	// generation prompt.
	promptFieldBudget = 240
)

// Generator produces human-readable match justifications. On-demand
// generation for a single selected result is the preferred entry point;
// batch generation exists for the legacy eager path and burns one paid call
// per ranked result. Both fall back to a deterministic template whenever the
// external generator is unavailable or fails, so a justification is always
// returned.
type Generator struct {
	provider llm.Provider
}

func NewGenerator(provider llm.Provider) *Generator {
	return &Generator{provider: provider}
}

// Explain produces the detailed, on-demand justification for one
// source/candidate pair.
func (g *Generator) Explain(ctx context.Context, source, candidate catalog.Listing, detail MatchDetail) string {
	return g.generate(ctx, source, candidate, detail, detailedExplanationLimit)
}

// ExplainAll fills the Explanation of every ranked result in place using the
// short form. One generation call per result makes this the cost-inefficient
// path; prefer Explain once the caller has picked a candidate.
func (g *Generator) ExplainAll(ctx context.Context, source catalog.Listing, candidates []catalog.Listing, results []MatchResult) {
	if len(results) == 0 {
		return
	}
	common.Logger().Warn("match: batch explanation generation requested", "results", len(results), "source", source.ID)
	byID := make(map[string]catalog.Listing, len(candidates))
	for _, candidate := range candidates {
		byID[candidate.ID] = candidate
	}
	for i := range results {
		candidate, ok := byID[results[i].CandidateID]
		if !ok {
			results[i].Explanation = templateExplanation(results[i].Detail, shortExplanationLimit)
			continue
		}
		results[i].Explanation = g.generate(ctx, source, candidate, results[i].Detail, shortExplanationLimit)
	}
}

func (g *Generator) generate(ctx context.Context, source, candidate catalog.Listing, detail MatchDetail, limit int) string {
	if g == nil || g.provider == nil || !g.provider.Available() {
		telemetry.RecordExplanationFallback()
		return templateExplanation(detail, limit)
	}
	logger := common.Logger()
	prompt := buildExplanationPrompt(source, candidate, detail)
	text, err := g.provider.Generate(ctx, []llm.Message{
		{Role: "system", Content: "You write one short, factual sentence explaining why a tutoring match was recommended. Mention only the given facts."},
		{Role: "user", Content: prompt},
	})
	if err != nil {
		logger.Warn("match: explanation generation failed, using template", "candidate", candidate.ID, "error", err)
		telemetry.RecordExplanationFallback()
		return templateExplanation(detail, limit)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		logger.Warn("match: explanation generator returned empty output, using template", "candidate", candidate.ID)
		telemetry.RecordExplanationFallback()
		return templateExplanation(detail, limit)
	}
	return truncateText(text, limit)
}

// buildExplanationPrompt assembles a bounded prompt from both sides'
// canonical attributes and the match breakdown. Free text is clipped so the
// prompt size stays fixed regardless of listing verbosity.
func buildExplanationPrompt(source, candidate catalog.Listing, detail MatchDetail) string {
	var b strings.Builder
	b.WriteString("Request:\n")
	writeListingFacts(&b, source)
	b.WriteString("Candidate:\n")
	writeListingFacts(&b, candidate)
	b.WriteString("Match facts:\n")
	if detail.SubjectConsidered {
		fmt.Fprintf(&b, "- shared subjects: %s (%.0f%% of requested)\n", strings.Join(detail.SharedSubjects, ", "), detail.SubjectRatio*100)
	}
	if detail.LevelConsidered {
		fmt.Fprintf(&b, "- level match: %t (%s)\n", detail.LevelMatch, strings.Join(detail.SharedLevels, ", "))
	}
	if detail.PriceConsidered {
		fmt.Fprintf(&b, "- price within budget: %t\n", detail.PriceMatch)
	}
	if detail.ModeConsidered {
		fmt.Fprintf(&b, "- delivery mode compatible: %t\n", detail.ModeMatch)
	}
	return b.String()
}

func writeListingFacts(b *strings.Builder, listing catalog.Listing) {
	if len(listing.Subjects) > 0 {
		fmt.Fprintf(b, "- subjects: %s\n", strings.Join(listing.Subjects, ", "))
	}
	if len(listing.Levels) > 0 {
		fmt.Fprintf(b, "- levels: %s\n", strings.Join(listing.Levels, ", "))
	}
	if desc := strings.TrimSpace(listing.Description); desc != "" {
		fmt.Fprintf(b, "- about: %s\n", truncateText(desc, promptFieldBudget))
	}
}

// templateExplanation is the deterministic fallback assembled from the match
// breakdown. It never fails and always yields non-empty text.
func templateExplanation(detail MatchDetail, limit int) string {
	var clauses []string
	if detail.SubjectConsidered && len(detail.SharedSubjects) > 0 {
		clauses = append(clauses, "Matches on "+strings.Join(detail.SharedSubjects, ", "))
	}
	if detail.LevelConsidered && detail.LevelMatch {
		clauses = append(clauses, "covers "+strings.Join(detail.SharedLevels, ", "))
	}
	if detail.PriceConsidered && detail.PriceMatch {
		clauses = append(clauses, "price within budget")
	}
	if detail.ModeConsidered && detail.ModeMatch {
		clauses = append(clauses, "compatible delivery mode")
	}
	if len(clauses) == 0 {
		return "Recommended by overall profile fit."
	}
	return truncateText(strings.Join(clauses, "; ")+".", limit)
}

func truncateText(text string, limit int) string {
	if limit <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return strings.TrimSpace(string(runes[:limit-1])) + "…"
}
