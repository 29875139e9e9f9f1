package search

import (
	"testing"

	"usem/internal/adapter/analyzer"
	"usem/internal/domain"
)

func newTestDecomposer(t *testing.T, entries []domain.DictionaryEntry) *Decomposer {
	t.Helper()
	norm := analyzer.NewNormalizer()
	return NewDecomposer(norm, newTestEngine(t, entries, 0))
}

func TestDecompose(t *testing.T) {
	d := newTestDecomposer(t, nil)

	got := d.Decompose("Thank you, my friend!")
	want := []string{"thank", "you", "my", "friend"}
	if len(got) != len(want) {
		t.Fatalf("Decompose = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestIsMultiWord(t *testing.T) {
	d := newTestDecomposer(t, nil)

	if d.IsMultiWord("water") {
		t.Error("single word reported as multi-word")
	}
	if !d.IsMultiWord("drink water") {
		t.Error("two words not reported as multi-word")
	}
	if d.IsMultiWord("") {
		t.Error("empty text reported as multi-word")
	}
}

func TestBreakdown_MixedHitsAndMisses(t *testing.T) {
	d := newTestDecomposer(t, []domain.DictionaryEntry{
		{ID: "w", SourceText: "water", TargetText: "mmọñ", Meaning: "water"},
	})

	got := d.Breakdown("water zzz")
	if len(got) != 2 {
		t.Fatalf("expected 2 breakdown entries, got %d", len(got))
	}

	if !got[0].Found || got[0].TargetWord != "mmọñ" || got[0].Source != SourceLocal {
		t.Errorf("unexpected breakdown for known word: %+v", got[0])
	}
	if got[0].Confidence <= 0 {
		t.Errorf("expected positive confidence, got %v", got[0].Confidence)
	}

	if got[1].Found || got[1].TargetWord != "" || got[1].SourceWord != "zzz" {
		t.Errorf("unexpected breakdown for unknown word: %+v", got[1])
	}
}
