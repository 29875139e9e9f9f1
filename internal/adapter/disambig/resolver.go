package disambig

import (
	"fmt"
	"log"
	"sort"

	"usem/internal/adapter/analyzer"
	"usem/internal/domain"
)

// RuleLookup supplies curated disambiguation rules by normalized word.
type RuleLookup interface {
	GetRule(word string) (domain.DisambiguationRule, bool, error)
}

// Resolver selects a primary answer among multiple valid translations using
// curated priority rules. Pure textual scoring cannot encode linguistic
// preference: "stop" most commonly means "cease an action", not
// "block/prevent", even when both entries score alike.
type Resolver struct {
	rules RuleLookup
	norm  *analyzer.Normalizer
}

// NewResolver creates a Resolver. rules may be nil, in which case every
// multi-candidate query falls back to first-candidate ordering.
func NewResolver(rules RuleLookup, norm *analyzer.Normalizer) *Resolver {
	return &Resolver{rules: rules, norm: norm}
}

// Resolve picks a primary entry and orders alternatives. Zero candidates
// returns nil. One candidate is always returned with confidence 1.0
// regardless of any configured rule.
func (r *Resolver) Resolve(query string, candidates []domain.DictionaryEntry) *domain.Disambiguation {
	if len(candidates) == 0 {
		return nil
	}
	if len(candidates) == 1 {
		return &domain.Disambiguation{
			Primary:    candidates[0],
			Reasoning:  "single candidate",
			Confidence: 1.0,
		}
	}

	word := r.norm.Normalize(query)
	rule, ok := r.lookupRule(word)
	if !ok {
		return &domain.Disambiguation{
			Primary:      candidates[0],
			Alternatives: candidates[1:],
			Reasoning:    fmt.Sprintf("no disambiguation rule for %q; keeping search order", word),
			Confidence:   0.7,
		}
	}

	primaryIdx := -1
	for i, c := range candidates {
		if c.TargetText == rule.PrimaryTranslation {
			primaryIdx = i
			break
		}
	}
	if primaryIdx < 0 {
		// Data-consistency gap: the rule names a translation the
		// dictionary no longer contains.
		return &domain.Disambiguation{
			Primary:      candidates[0],
			Alternatives: candidates[1:],
			Reasoning: fmt.Sprintf("rule for %q prefers %q but no candidate carries it; keeping search order",
				word, rule.PrimaryTranslation),
			Confidence: 0.6,
		}
	}

	alternatives := make([]domain.DictionaryEntry, 0, len(candidates)-1)
	for i, c := range candidates {
		if i != primaryIdx {
			alternatives = append(alternatives, c)
		}
	}
	sortByRulePriority(alternatives, rule)

	reasoning := fmt.Sprintf("rule for %q selects %q", word, rule.PrimaryTranslation)
	if rule.Context != "" {
		reasoning += " (" + rule.Context + ")"
	}
	return &domain.Disambiguation{
		Primary:      candidates[primaryIdx],
		Alternatives: alternatives,
		Reasoning:    reasoning,
		Confidence:   0.95,
	}
}

func (r *Resolver) lookupRule(word string) (domain.DisambiguationRule, bool) {
	if r.rules == nil || word == "" {
		return domain.DisambiguationRule{}, false
	}
	rule, ok, err := r.rules.GetRule(word)
	if err != nil {
		log.Printf("disambig: rule lookup for %q failed: %v", word, err)
		return domain.DisambiguationRule{}, false
	}
	return rule, ok
}

// sortByRulePriority orders alternatives by the rule's declared priorities,
// lower number first; candidates the rule does not mention sort last.
func sortByRulePriority(alternatives []domain.DictionaryEntry, rule domain.DisambiguationRule) {
	priority := func(e domain.DictionaryEntry) int {
		for _, alt := range rule.Alternatives {
			if alt.Translation == e.TargetText {
				return alt.Priority
			}
		}
		return int(^uint(0) >> 1)
	}
	sort.SliceStable(alternatives, func(i, j int) bool {
		return priority(alternatives[i]) < priority(alternatives[j])
	})
}
