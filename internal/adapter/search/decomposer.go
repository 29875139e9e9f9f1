package search

import (
	"usem/internal/adapter/analyzer"
	"usem/internal/domain"
	"usem/internal/port"
)

// Decomposer splits multi-word queries into tokens and builds a word-by-word
// breakdown from independent fuzzy searches. Assembling a final sentence
// answer is the orchestrator's job; the decomposer only supplies the parts.
type Decomposer struct {
	norm   *analyzer.Normalizer
	engine port.Searcher
}

// NewDecomposer creates a Decomposer over the given search engine.
func NewDecomposer(norm *analyzer.Normalizer, engine port.Searcher) *Decomposer {
	return &Decomposer{norm: norm, engine: engine}
}

// Decompose returns the normalized tokens of text.
func (d *Decomposer) Decompose(text string) []string {
	return d.norm.Tokenize(text)
}

// IsMultiWord reports whether text tokenizes to more than one word.
func (d *Decomposer) IsMultiWord(text string) bool {
	return len(d.Decompose(text)) > 1
}

// Breakdown runs an independent fuzzy search per token. Tokens with no
// translation are reported with Found false so the caller can render a
// placeholder and flag the result as partial.
func (d *Decomposer) Breakdown(text string) []domain.WordBreakdown {
	words := d.Decompose(text)
	out := make([]domain.WordBreakdown, 0, len(words))
	for _, w := range words {
		results := d.engine.Search(w, 1)
		if len(results) == 0 {
			out = append(out, domain.WordBreakdown{SourceWord: w})
			continue
		}
		best := results[0]
		out = append(out, domain.WordBreakdown{
			SourceWord: w,
			TargetWord: best.Entry.TargetText,
			Found:      true,
			Confidence: best.Confidence,
			Source:     best.Source,
		})
	}
	return out
}
