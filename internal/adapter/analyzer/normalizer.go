package analyzer

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalizer turns raw text into a canonical sequence of words. All methods
// are pure and deterministic; Normalize is idempotent.
type Normalizer struct {
	stopwords map[string]struct{}
}

// NewNormalizer creates a Normalizer with the default stop-word set.
func NewNormalizer() *Normalizer {
	return &Normalizer{stopwords: defaultStopwords()}
}

// Normalize lowercases text, replaces every character that is not a word
// character, whitespace, apostrophe, or hyphen with a space, collapses
// whitespace runs, and strips stray leading/trailing apostrophes and hyphens
// from each token.
func (n *Normalizer) Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '\'' || r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}

	fields := strings.Fields(b.String())
	cleaned := fields[:0]
	for _, f := range fields {
		f = strings.Trim(f, "'-")
		if f != "" {
			cleaned = append(cleaned, f)
		}
	}
	return strings.Join(cleaned, " ")
}

// Tokenize normalizes text and splits it on whitespace, dropping empty
// tokens. Stop words are kept; filtering is the caller's decision via
// IsSignificant.
func (n *Normalizer) Tokenize(text string) []string {
	normalized := n.Normalize(text)
	if normalized == "" {
		return nil
	}
	return strings.Fields(normalized)
}

// IsSignificant reports whether a token is worth indexing: at least minLen
// runes and not a stop word. Target-language indexing passes minLen 1 since
// Ibibio words are often a single character after tokenization.
func (n *Normalizer) IsSignificant(token string, minLen int) bool {
	if len([]rune(token)) < minLen {
		return false
	}
	_, stop := n.stopwords[token]
	return !stop
}

// FoldDiacritics strips combining marks so that translations differing only
// by diacritics group together for consensus scoring. Display strings keep
// their original form.
func FoldDiacritics(s string) string {
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// defaultStopwords returns articles, conjunctions, and common function words
// excluded from the words and meaning sub-indexes.
func defaultStopwords() map[string]struct{} {
	stops := []string{
		"a", "an", "the", "and", "or", "but", "nor", "so", "yet",
		"of", "in", "on", "at", "to", "for", "with", "by", "from",
		"as", "is", "are", "was", "were", "be", "been", "being",
		"it", "its", "this", "that", "these", "those", "their",
		"into", "onto", "than", "then", "when", "which", "who",
	}
	m := make(map[string]struct{}, len(stops))
	for _, s := range stops {
		m[s] = struct{}{}
	}
	return m
}
