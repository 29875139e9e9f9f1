package disambig

import (
	"errors"
	"strings"
	"testing"

	"usem/internal/adapter/analyzer"
	"usem/internal/domain"
)

// mapRules is an in-memory RuleLookup for tests.
type mapRules struct {
	rules map[string]domain.DisambiguationRule
	err   error
}

func (m *mapRules) GetRule(word string) (domain.DisambiguationRule, bool, error) {
	if m.err != nil {
		return domain.DisambiguationRule{}, false, m.err
	}
	r, ok := m.rules[word]
	return r, ok, nil
}

func seededRules() *mapRules {
	m := &mapRules{rules: make(map[string]domain.DisambiguationRule)}
	for _, r := range SeedRules() {
		m.rules[r.Word] = r
	}
	return m
}

func stopCandidates() []domain.DictionaryEntry {
	return []domain.DictionaryEntry{
		{ID: "2", SourceText: "stop", TargetText: "tịbe", Meaning: "halt, block"},
		{ID: "1", SourceText: "stop", TargetText: "tịre", Meaning: "cease an action"},
	}
}

func TestResolve_NoCandidates(t *testing.T) {
	r := NewResolver(seededRules(), analyzer.NewNormalizer())
	if got := r.Resolve("stop", nil); got != nil {
		t.Errorf("expected nil for zero candidates, got %+v", got)
	}
}

func TestResolve_SingleCandidateAlwaysWins(t *testing.T) {
	r := NewResolver(seededRules(), analyzer.NewNormalizer())
	// Even with a "stop" rule configured, one candidate is returned as-is.
	only := domain.DictionaryEntry{ID: "2", SourceText: "stop", TargetText: "tịbe"}

	got := r.Resolve("stop", []domain.DictionaryEntry{only})
	if got == nil {
		t.Fatal("expected a disambiguation")
	}
	if got.Primary.ID != "2" || got.Confidence != 1.0 {
		t.Errorf("single candidate: got primary %q confidence %v", got.Primary.ID, got.Confidence)
	}
	if len(got.Alternatives) != 0 {
		t.Errorf("expected no alternatives, got %d", len(got.Alternatives))
	}
}

func TestResolve_RuleSelectsPrimary(t *testing.T) {
	r := NewResolver(seededRules(), analyzer.NewNormalizer())

	got := r.Resolve("Stop!", stopCandidates())
	if got == nil {
		t.Fatal("expected a disambiguation")
	}
	if got.Primary.TargetText != "tịre" {
		t.Errorf("primary = %q, want tịre", got.Primary.TargetText)
	}
	if got.Confidence != 0.95 {
		t.Errorf("confidence = %v, want 0.95", got.Confidence)
	}
	if len(got.Alternatives) != 1 || got.Alternatives[0].TargetText != "tịbe" {
		t.Errorf("unexpected alternatives: %+v", got.Alternatives)
	}
	if !strings.Contains(got.Reasoning, "cease an action") {
		t.Errorf("reasoning should carry the rule context, got %q", got.Reasoning)
	}
}

func TestResolve_NoRuleKeepsSearchOrder(t *testing.T) {
	r := NewResolver(seededRules(), analyzer.NewNormalizer())
	candidates := []domain.DictionaryEntry{
		{ID: "a", SourceText: "water", TargetText: "mmọñ"},
		{ID: "b", SourceText: "water", TargetText: "mmong"},
	}

	got := r.Resolve("water", candidates)
	if got.Primary.ID != "a" || got.Confidence != 0.7 {
		t.Errorf("no-rule fallback: got primary %q confidence %v", got.Primary.ID, got.Confidence)
	}
	if len(got.Alternatives) != 1 || got.Alternatives[0].ID != "b" {
		t.Errorf("unexpected alternatives: %+v", got.Alternatives)
	}
}

func TestResolve_RuleMissingFromCandidates(t *testing.T) {
	r := NewResolver(seededRules(), analyzer.NewNormalizer())
	// Neither candidate carries the rule's preferred translation.
	candidates := []domain.DictionaryEntry{
		{ID: "x", SourceText: "stop", TargetText: "daha"},
		{ID: "y", SourceText: "stop", TargetText: "tuaha"},
	}

	got := r.Resolve("stop", candidates)
	if got.Primary.ID != "x" || got.Confidence != 0.6 {
		t.Errorf("rule-miss fallback: got primary %q confidence %v", got.Primary.ID, got.Confidence)
	}
	if !strings.Contains(got.Reasoning, "tịre") {
		t.Errorf("reasoning should name the missing translation, got %q", got.Reasoning)
	}
}

func TestResolve_RuleLookupErrorFallsBack(t *testing.T) {
	r := NewResolver(&mapRules{err: errors.New("store closed")}, analyzer.NewNormalizer())

	got := r.Resolve("stop", stopCandidates())
	if got.Confidence != 0.7 {
		t.Errorf("lookup error should fall back to search order, got confidence %v", got.Confidence)
	}
}

func TestResolve_NilRules(t *testing.T) {
	r := NewResolver(nil, analyzer.NewNormalizer())

	got := r.Resolve("stop", stopCandidates())
	if got.Primary.ID != "2" || got.Confidence != 0.7 {
		t.Errorf("nil rules: got primary %q confidence %v", got.Primary.ID, got.Confidence)
	}
}

func TestResolve_AlternativesSortedByRulePriority(t *testing.T) {
	rules := &mapRules{rules: map[string]domain.DisambiguationRule{
		"go": {
			Word:               "go",
			PrimaryTranslation: "ka",
			Alternatives: []domain.RuleAlternative{
				{Translation: "daha", Priority: 3},
				{Translation: "wọrọ", Priority: 2},
			},
		},
	}}
	r := NewResolver(rules, analyzer.NewNormalizer())
	candidates := []domain.DictionaryEntry{
		{ID: "1", TargetText: "daha"},
		{ID: "2", TargetText: "unlisted"},
		{ID: "3", TargetText: "ka"},
		{ID: "4", TargetText: "wọrọ"},
	}

	got := r.Resolve("go", candidates)
	if got.Primary.TargetText != "ka" {
		t.Fatalf("primary = %q, want ka", got.Primary.TargetText)
	}
	want := []string{"wọrọ", "daha", "unlisted"}
	if len(got.Alternatives) != len(want) {
		t.Fatalf("expected %d alternatives, got %d", len(want), len(got.Alternatives))
	}
	for i, w := range want {
		if got.Alternatives[i].TargetText != w {
			t.Errorf("alternative %d = %q, want %q", i, got.Alternatives[i].TargetText, w)
		}
	}
}
