package scorer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"usem/internal/adapter/analyzer"
	"usem/internal/domain"
)

// Component weights. The primary headword match dominates; the remaining
// factors read the gloss to separate primary senses from incidental mentions.
const (
	weightPrimary    = 0.40
	weightPosition   = 0.25
	weightContext    = 0.20
	weightDefinition = 0.15
)

// Scorer computes a multi-factor confidence describing how well a dictionary
// entry answers a free-text query. A naive substring scan over glosses ranks
// "prevent someone from stopping" above the literal verb "stop"; the four
// factors here approximate "is this truly the primary sense" without NLP.
type Scorer struct {
	norm *analyzer.Normalizer
}

// New creates a Scorer.
func New(norm *analyzer.Normalizer) *Scorer {
	return &Scorer{norm: norm}
}

// Score computes the four sub-scores and their fixed weighted sum. All
// values are in [0,1].
func (s *Scorer) Score(query string, entry domain.DictionaryEntry) domain.SemanticScore {
	q := s.norm.Normalize(query)
	if q == "" {
		return domain.SemanticScore{}
	}

	source := s.norm.Normalize(entry.SourceText)
	meaning := strings.ToLower(entry.Meaning)

	sc := domain.SemanticScore{
		PrimaryMatch:    primaryMatch(q, source),
		PositionScore:   positionScore(q, meaning),
		ContextScore:    contextScore(q, meaning),
		DefinitionScore: definitionScore(q, meaning),
	}
	sc.TotalScore = weightPrimary*sc.PrimaryMatch +
		weightPosition*sc.PositionScore +
		weightContext*sc.ContextScore +
		weightDefinition*sc.DefinitionScore
	return sc
}

// primaryMatch rewards how directly the query matches the headword.
func primaryMatch(q, source string) float64 {
	if source == "" {
		return 0
	}
	if source == q {
		return 1.0
	}

	words := strings.Fields(source)
	if len(words) > 1 {
		for _, w := range words {
			if w == q {
				return 0.95
			}
		}
	}

	if strings.HasPrefix(source, q) && boundaryAfter(source, len(q)) {
		return 0.9
	}

	// A boundary match at offset zero is exactly the prefix case above, so
	// only interior matches reach here.
	if boundaryIndex(source, q) > 0 {
		return 0.7
	}

	if strings.Contains(source, q) {
		return 0.4
	}
	return 0
}

// positionScore rewards the query appearing early in the gloss. Glosses list
// primary senses first, delimited by commas and semicolons, so earlier
// segments carry more weight.
func positionScore(q, meaning string) float64 {
	if meaning == "" {
		return 0
	}

	segments := splitSegments(meaning)
	for i, seg := range segments {
		idx := boundaryIndex(seg, q)
		if idx < 0 {
			continue
		}

		segWeight := 1.0 - 0.2*float64(i)
		if segWeight < 0.2 {
			segWeight = 0.2
		}

		charScore := 0.4
		switch {
		case idx == 0:
			charScore = 1.0
		case idx < len(seg)/2:
			charScore = 0.7
		}
		return segWeight * charScore
	}
	return 0
}

// contextScore separates direct translation glosses from merely-contextual
// mentions of the query inside a larger compound sense.
func contextScore(q, meaning string) float64 {
	if meaning == "" {
		return 0.2
	}

	// Compound-sense patterns override everything else: "stop" inside
	// "to prevent someone from stopping" is not the verb sense of stop.
	if compoundSense(q, meaning) {
		return 0.3
	}

	if startsAsSense(q, meaning) {
		return 1.0
	}

	if idx := beforeDelimiter(q, meaning); idx >= 0 {
		if idx == 0 {
			return 1.0
		}
		return 0.9
	}

	if idx := boundaryIndex(meaning, q); idx >= 0 {
		third := len(meaning) / 3
		switch {
		case idx <= third:
			return 0.8
		case idx <= 2*third:
			return 0.7
		default:
			return 0.6
		}
	}
	return 0.2
}

// definitionScore rewards structurally well-formed primary definitions.
func definitionScore(q, meaning string) float64 {
	if meaning == "" {
		return 0.2
	}

	first := strings.TrimSpace(firstSegment(meaning))
	if first == q || first == "to "+q {
		return 1.0
	}
	if prefixAtBoundary(meaning, q) || prefixAtBoundary(meaning, "to "+q) {
		return 0.95
	}

	if strings.Contains(meaning, "(var. "+q+")") || strings.Contains(meaning, "var. "+q) {
		return 0.7
	}

	if boundaryIndex(meaning, q) >= 0 {
		return 0.4
	}
	return 0.2
}

// compoundSense detects the query used only as part of a larger sense.
func compoundSense(q, meaning string) bool {
	if boundaryIndex(meaning, q+" from") >= 0 {
		return true
	}
	for _, lead := range []string{"prevent", "cause", "keep"} {
		li := boundaryIndex(meaning, lead)
		if li < 0 {
			continue
		}
		qi := boundaryIndex(meaning[li:], q)
		if qi > 0 {
			return true
		}
	}
	return false
}

// startsAsSense reports a gloss beginning with the query (or "to query")
// followed by a delimiter or end of text.
func startsAsSense(q, meaning string) bool {
	m := strings.TrimSpace(meaning)
	for _, head := range []string{q, "to " + q} {
		if m == head {
			return true
		}
		if strings.HasPrefix(m, head) && delimiterAfter(m, len(head)) {
			return true
		}
	}
	return false
}

// beforeDelimiter returns the index of the query when it appears at a word
// boundary immediately before a sense delimiter, else -1.
func beforeDelimiter(q, meaning string) int {
	idx := 0
	for idx <= len(meaning)-len(q) {
		i := boundaryIndex(meaning[idx:], q)
		if i < 0 {
			return -1
		}
		abs := idx + i
		if delimiterAfter(meaning, abs+len(q)) {
			return abs
		}
		idx = abs + len(q)
	}
	return -1
}

func delimiterAfter(s string, pos int) bool {
	rest := strings.TrimLeft(s[pos:], " ")
	if rest == "" {
		return true
	}
	switch rest[0] {
	case ',', ';', ':', '.', ')':
		return true
	}
	return false
}

func prefixAtBoundary(s, prefix string) bool {
	return strings.HasPrefix(s, prefix) && boundaryAfter(s, len(prefix))
}

func firstSegment(meaning string) string {
	if i := strings.IndexAny(meaning, ",;"); i >= 0 {
		return meaning[:i]
	}
	return meaning
}

func splitSegments(meaning string) []string {
	raw := strings.FieldsFunc(meaning, func(r rune) bool {
		return r == ',' || r == ';'
	})
	segments := make([]string, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

// boundaryIndex returns the byte index of the first occurrence of sub in s
// where both sides fall on word boundaries, or -1.
func boundaryIndex(s, sub string) int {
	if sub == "" {
		return -1
	}
	from := 0
	for {
		i := strings.Index(s[from:], sub)
		if i < 0 {
			return -1
		}
		abs := from + i
		if boundaryBefore(s, abs) && boundaryAfter(s, abs+len(sub)) {
			return abs
		}
		from = abs + 1
	}
}

func boundaryBefore(s string, pos int) bool {
	if pos == 0 {
		return true
	}
	r := lastRune(s[:pos])
	return !isWordRune(r)
}

func boundaryAfter(s string, pos int) bool {
	if pos >= len(s) {
		return true
	}
	r, _ := firstRune(s[pos:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\''
}

func firstRune(s string) (rune, int) {
	return utf8.DecodeRuneInString(s)
}

func lastRune(s string) rune {
	r, _ := utf8.DecodeLastRuneInString(s)
	return r
}
