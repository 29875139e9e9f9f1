package usecase

import (
	"context"
	"math"
	"testing"

	"usem/internal/adapter/search"
	"usem/internal/domain"
	"usem/internal/port"
)

func phraseEntries() []domain.DictionaryEntry {
	return []domain.DictionaryEntry{
		{ID: "p1", SourceText: "thank you", TargetText: "sọsọñọ", Meaning: "thank you"},
		{ID: "w1", SourceText: "water", TargetText: "mmọñ", Meaning: "water"},
	}
}

func TestTranslate_EmptyText(t *testing.T) {
	u := newTestLookup(t, nil, nil, nil)

	got := u.Translate(context.Background(), "  ... ")
	if got.Source != SourceNone || got.Translation != "" {
		t.Errorf("unexpected result for empty text: %+v", got)
	}
}

func TestTranslate_SingleWord(t *testing.T) {
	u := newTestLookup(t, phraseEntries(), nil, nil)

	got := u.Translate(context.Background(), "Water?")
	if got.Translation != "mmọñ" || got.Source != search.SourceLocal {
		t.Errorf("unexpected result: %+v", got)
	}
	if len(got.Breakdown) != 1 || !got.Breakdown[0].Found {
		t.Errorf("unexpected breakdown: %+v", got.Breakdown)
	}
}

func TestTranslate_SingleUnknownWord(t *testing.T) {
	u := newTestLookup(t, phraseEntries(), nil, nil)

	got := u.Translate(context.Background(), "xyzzy")
	if got.Source != SourceNone || got.Translation != "" {
		t.Errorf("unknown word must not fabricate a translation: %+v", got)
	}
}

func TestTranslate_WholePhraseBeatsWordByWord(t *testing.T) {
	u := newTestLookup(t, phraseEntries(), nil, nil)

	got := u.Translate(context.Background(), "Thank you!")
	if got.Translation != "sọsọñọ" {
		t.Fatalf("translation = %q, want the phrase entry", got.Translation)
	}
	if got.Source != search.SourceLocal || got.Confidence != 1.0 {
		t.Errorf("source=%q confidence=%v", got.Source, got.Confidence)
	}
	// The per-word breakdown is still reported alongside the phrase answer.
	if len(got.Breakdown) != 2 {
		t.Errorf("expected 2 breakdown words, got %d", len(got.Breakdown))
	}
}

func TestTranslate_OnlineSentence(t *testing.T) {
	online := foundSource("online", "ami amama fi", 0.8)
	u := newTestLookup(t, phraseEntries(), nil, []port.Source{online})

	got := u.Translate(context.Background(), "I love you")
	if got.Source != "online" || got.Translation != "ami amama fi" {
		t.Fatalf("unexpected result: %+v", got)
	}
	if math.Abs(got.Confidence-0.72) > 1e-9 {
		t.Errorf("confidence = %v, want 0.8 weighted by online trust", got.Confidence)
	}
	if len(got.Breakdown) != 3 {
		t.Errorf("expected breakdown for 3 words, got %d", len(got.Breakdown))
	}
}

func TestTranslate_WordByWordWithPlaceholders(t *testing.T) {
	u := newTestLookup(t, phraseEntries(), nil, nil)

	got := u.Translate(context.Background(), "drink water")
	if got.Source != SourceWordByWord {
		t.Fatalf("source = %q, want %q", got.Source, SourceWordByWord)
	}
	if got.Translation != "[drink] mmọñ" {
		t.Errorf("translation = %q", got.Translation)
	}
	if !got.Partial {
		t.Error("expected Partial for a missing token")
	}
	// Confidence averages over all tokens, misses included.
	if math.Abs(got.Confidence-0.5) > 1e-9 {
		t.Errorf("confidence = %v, want 0.5", got.Confidence)
	}
}

func TestTranslate_AllTokensUnknown(t *testing.T) {
	u := newTestLookup(t, phraseEntries(), nil, nil)

	got := u.Translate(context.Background(), "xyzzy quux")
	if got.Source != SourceNone {
		t.Errorf("source = %q, want %q", got.Source, SourceNone)
	}
	if got.Translation != "[xyzzy] [quux]" {
		t.Errorf("translation = %q", got.Translation)
	}
	if !got.Partial || got.Confidence != 0 {
		t.Errorf("partial=%v confidence=%v", got.Partial, got.Confidence)
	}
}

func TestTranslate_OnlineFailureFallsBackToWordByWord(t *testing.T) {
	online := &stubSource{name: "online", configured: true,
		result: domain.SourceResult{Source: "online"}} // not found
	u := newTestLookup(t, phraseEntries(), nil, []port.Source{online})

	got := u.Translate(context.Background(), "drink water")
	if got.Source != SourceWordByWord {
		t.Errorf("source = %q, want fallback to %q", got.Source, SourceWordByWord)
	}
}
