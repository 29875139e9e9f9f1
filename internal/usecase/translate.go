package usecase

import (
	"context"
	"fmt"
	"strings"

	"usem/internal/adapter/search"
	"usem/internal/domain"
)

// SourceWordByWord tags sentence translations reconstructed token by token.
const SourceWordByWord = "word-by-word"

// Translate handles free text of any length. Multi-word input resolves by
// precedence: an exact whole-phrase dictionary entry (idioms are entries in
// their own right), then a whole-sentence online translation, then a
// word-by-word reconstruction with bracketed placeholders for unknown
// tokens.
func (u *LookupUseCase) Translate(ctx context.Context, text string) domain.SentenceResult {
	words := u.decomposer.Decompose(text)
	out := domain.SentenceResult{Query: text, Source: SourceNone}
	if len(words) == 0 {
		return out
	}

	if len(words) == 1 {
		single := u.Lookup(ctx, text, Options{})
		if single.Result == nil {
			return out
		}
		return domain.SentenceResult{
			Query:       text,
			Translation: single.Result.TargetText,
			Source:      single.Source,
			Confidence:  single.Confidence,
			Breakdown: []domain.WordBreakdown{{
				SourceWord: words[0],
				TargetWord: single.Result.TargetText,
				Found:      true,
				Confidence: single.Confidence,
				Source:     single.Source,
			}},
		}
	}

	breakdown := u.decomposer.Breakdown(text)

	// Whole-phrase entries beat any reconstruction.
	if phrase := u.index.SearchExact(text); len(phrase) > 0 {
		resolution := u.resolver.Resolve(u.norm.Normalize(text), phrase)
		return domain.SentenceResult{
			Query:       text,
			Translation: resolution.Primary.TargetText,
			Source:      search.SourceLocal,
			Confidence:  resolution.Confidence,
			Breakdown:   breakdown,
		}
	}

	if sentence, ok := u.translateSentenceOnline(ctx, text); ok {
		sentence.Breakdown = breakdown
		return sentence
	}

	return u.assembleWordByWord(text, breakdown)
}

// translateSentenceOnline asks the backend source for a whole-sentence
// translation.
func (u *LookupUseCase) translateSentenceOnline(ctx context.Context, text string) (domain.SentenceResult, bool) {
	for _, src := range u.sources {
		if src.Name() != "online" || !src.Configured() {
			continue
		}
		sctx, cancel := context.WithTimeout(ctx, u.cfg.SourceTimeout)
		res, err := src.Translate(sctx, text)
		cancel()
		if err != nil || !res.Found {
			return domain.SentenceResult{}, false
		}
		trust := u.cfg.TrustWeights[src.Name()]
		if trust == 0 {
			trust = 0.5
		}
		return domain.SentenceResult{
			Query:       text,
			Translation: res.Translation,
			Source:      src.Name(),
			Confidence:  clamp01(res.Confidence * trust),
		}, true
	}
	return domain.SentenceResult{}, false
}

// assembleWordByWord joins each token's best translation, bracketing tokens
// with none so the consumer can see the result is degraded.
func (u *LookupUseCase) assembleWordByWord(text string, breakdown []domain.WordBreakdown) domain.SentenceResult {
	parts := make([]string, len(breakdown))
	sum := 0.0
	found := 0
	for i, w := range breakdown {
		if w.Found {
			parts[i] = w.TargetWord
			sum += w.Confidence
			found++
		} else {
			parts[i] = fmt.Sprintf("[%s]", w.SourceWord)
		}
	}

	out := domain.SentenceResult{
		Query:       text,
		Translation: strings.Join(parts, " "),
		Source:      SourceWordByWord,
		Breakdown:   breakdown,
		Partial:     found < len(breakdown),
	}
	if found > 0 {
		out.Confidence = sum / float64(len(breakdown))
	} else {
		out.Source = SourceNone
	}
	return out
}
