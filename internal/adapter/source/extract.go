package source

import (
	"regexp"
	"strings"
)

// The online and AI collaborators answer in human-readable prose, not
// structured data, so a usable translation has to be pulled out with an
// ordered pattern cascade. This is the most contract-drifty part of the
// system: an upstream prose-format change degrades extraction quality
// silently, which is why every pattern has its own unit test.
var extractPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)translation:\s*(.+)`),
	regexp.MustCompile(`(?i)ibibio:\s*(.+)`),
	regexp.MustCompile(`(?i)means\s+"([^"]+)"`),
	regexp.MustCompile(`(?i)is\s+"([^"]+)"`),
	regexp.MustCompile(`"([^"]+)"`),
}

// ExtractTranslation pulls a translation out of free-text prose. Patterns
// are tried in priority order; the fallback is the first non-empty line.
func ExtractTranslation(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}

	for _, p := range extractPatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			if t := cleanTranslation(m[1]); t != "" {
				return t, true
			}
		}
	}

	for _, line := range strings.Split(text, "\n") {
		if t := cleanTranslation(line); t != "" {
			return t, true
		}
	}
	return "", false
}

// cleanTranslation trims wrapping quotes, stray punctuation, and anything
// past the first line break of a captured fragment.
func cleanTranslation(s string) string {
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"'`)
	s = strings.TrimRight(s, ".,;:!")
	return strings.TrimSpace(s)
}
