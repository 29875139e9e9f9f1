package search

import (
	"sort"
	"strings"

	"usem/internal/adapter/analyzer"
	"usem/internal/adapter/index"
	"usem/internal/adapter/scorer"
	"usem/internal/domain"
)

// SourceLocal tags results produced from the local dictionary.
const SourceLocal = "local"

// defaultMinScore is the noise floor: candidates scoring at or below it are
// discarded rather than shown as matches.
const defaultMinScore = 0.05

// FuzzyEngine produces a ranked candidate list for a query by unioning the
// sub-index lookups and scoring every candidate with the semantic scorer.
type FuzzyEngine struct {
	index    *index.Index
	scorer   *scorer.Scorer
	norm     *analyzer.Normalizer
	minScore float64
}

// NewFuzzyEngine creates a FuzzyEngine. minScore <= 0 selects the default
// noise threshold.
func NewFuzzyEngine(ix *index.Index, sc *scorer.Scorer, norm *analyzer.Normalizer, minScore float64) *FuzzyEngine {
	if minScore <= 0 {
		minScore = defaultMinScore
	}
	return &FuzzyEngine{index: ix, scorer: sc, norm: norm, minScore: minScore}
}

// Search returns up to limit results ordered by confidence. An empty query,
// an unbuilt index, or a query matching nothing all yield an empty slice; a
// match is never fabricated.
func (e *FuzzyEngine) Search(query string, limit int) []domain.SearchResult {
	q := e.norm.Normalize(query)
	if q == "" || limit <= 0 {
		return nil
	}

	candidates := e.gather(q)
	if len(candidates) == 0 {
		return nil
	}

	type ranked struct {
		entry domain.DictionaryEntry
		score domain.SemanticScore
		exact bool
	}

	results := make([]ranked, 0, len(candidates))
	for _, c := range candidates {
		sc := e.scorer.Score(q, c)
		if sc.TotalScore <= e.minScore {
			continue
		}
		results = append(results, ranked{
			entry: c,
			score: sc,
			exact: e.norm.Normalize(c.SourceText) == q,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.exact != b.exact {
			return a.exact
		}
		if a.score.TotalScore != b.score.TotalScore {
			return a.score.TotalScore > b.score.TotalScore
		}
		// Entries with usage examples are more trustworthy answers.
		if a.entry.HasExamples() != b.entry.HasExamples() {
			return a.entry.HasExamples()
		}
		// Shorter source text is the more specific term.
		if len(a.entry.SourceText) != len(b.entry.SourceText) {
			return len(a.entry.SourceText) < len(b.entry.SourceText)
		}
		if a.entry.SourceText != b.entry.SourceText {
			return a.entry.SourceText < b.entry.SourceText
		}
		// Full ties fall back to id so repeated searches return the same
		// order under an unstable sort.
		return a.entry.ID < b.entry.ID
	})

	if len(results) > limit {
		results = results[:limit]
	}

	out := make([]domain.SearchResult, len(results))
	for i, r := range results {
		out[i] = domain.SearchResult{
			Entry:      r.entry,
			Confidence: clamp01(r.score.TotalScore),
			Source:     SourceLocal,
		}
	}
	return out
}

// gather unions candidates from every sub-index, deduplicated by entry id.
func (e *FuzzyEngine) gather(q string) []domain.DictionaryEntry {
	var pool []domain.DictionaryEntry
	pool = append(pool, e.index.SearchExact(q)...)
	pool = append(pool, e.index.LookupPrefix(q)...)
	pool = append(pool, e.index.LookupTarget(q)...)

	for _, tok := range strings.Fields(q) {
		pool = append(pool, e.index.LookupWord(tok)...)
		pool = append(pool, e.index.LookupMeaning(tok)...)
		pool = append(pool, e.index.LookupTarget(tok)...)
	}
	pool = append(pool, e.index.LookupMeaning(q)...)
	pool = append(pool, e.index.ScanContaining(q)...)

	seen := make(map[string]struct{}, len(pool))
	out := pool[:0]
	for _, c := range pool {
		if _, dup := seen[c.ID]; dup {
			continue
		}
		seen[c.ID] = struct{}{}
		out = append(out, c)
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
