package usecase

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"usem/internal/adapter/analyzer"
	"usem/internal/adapter/cache"
	"usem/internal/adapter/disambig"
	"usem/internal/adapter/index"
	"usem/internal/adapter/scorer"
	"usem/internal/adapter/search"
	"usem/internal/adapter/store"
	"usem/internal/domain"
	"usem/internal/port"
)

// stubSource is a canned port.Source for fan-out tests.
type stubSource struct {
	name       string
	configured bool
	result     domain.SourceResult
	err        error
	calls      int
}

func (s *stubSource) Name() string     { return s.name }
func (s *stubSource) Configured() bool { return s.configured }

func (s *stubSource) Translate(ctx context.Context, query string) (domain.SourceResult, error) {
	s.calls++
	if s.err != nil {
		return domain.SourceResult{Source: s.name}, s.err
	}
	return s.result, nil
}

func foundSource(name, translation string, confidence float64) *stubSource {
	return &stubSource{
		name:       name,
		configured: true,
		result:     domain.SourceResult{Source: name, Found: true, Translation: translation, Confidence: confidence},
	}
}

// recordingStore captures synthesized entries written back by the orchestrator.
type recordingStore struct {
	put []domain.DictionaryEntry
}

func (r *recordingStore) PutEntries(entries []domain.DictionaryEntry) error {
	r.put = append(r.put, entries...)
	return nil
}
func (r *recordingStore) ListEntries() ([]domain.DictionaryEntry, error) { return nil, nil }
func (r *recordingStore) DeleteEntries() error                           { return nil }
func (r *recordingStore) PutRule(domain.DisambiguationRule) error        { return nil }
func (r *recordingStore) GetRule(string) (domain.DisambiguationRule, bool, error) {
	return domain.DisambiguationRule{}, false, nil
}
func (r *recordingStore) ListRules() ([]domain.DisambiguationRule, error) { return nil, nil }
func (r *recordingStore) Close() error                                    { return nil }

func newTestLookup(t *testing.T, entries []domain.DictionaryEntry, entryStore port.EntryStore, sources []port.Source) *LookupUseCase {
	t.Helper()
	norm := analyzer.NewNormalizer()
	ix := index.New(norm)
	ix.Build(entries)
	engine := search.NewFuzzyEngine(ix, scorer.New(norm), norm, 0)
	decomposer := search.NewDecomposer(norm, engine)
	resolver := disambig.NewResolver(nil, norm)
	resultCache := cache.New(store.NewMemoryKV(), norm, time.Hour)
	return NewLookupUseCase(norm, ix, engine, decomposer, resolver, resultCache, entryStore, sources, Config{
		SourceTimeout: time.Second,
	})
}

func waterEntries() []domain.DictionaryEntry {
	return []domain.DictionaryEntry{
		{ID: "w1", SourceText: "water", TargetText: "mmọñ", Meaning: "water"},
	}
}

func TestLookup_EmptyQuery(t *testing.T) {
	u := newTestLookup(t, nil, nil, nil)

	got := u.Lookup(context.Background(), "  !? ", Options{})
	if got.Result != nil || got.Source != SourceNone {
		t.Errorf("unexpected result for empty query: %+v", got)
	}
	if len(got.ValidationNotes) != 1 || got.ValidationNotes[0] != "no query provided" {
		t.Errorf("unexpected notes: %v", got.ValidationNotes)
	}
}

func TestLookup_LocalShortCircuit(t *testing.T) {
	src := foundSource("online", "mmong", 0.9)
	u := newTestLookup(t, waterEntries(), nil, []port.Source{src})

	got := u.Lookup(context.Background(), "water", Options{})
	if got.Result == nil || got.Result.ID != "w1" {
		t.Fatalf("expected local hit, got %+v", got)
	}
	if got.Source != search.SourceLocal || got.Confidence != 1.0 {
		t.Errorf("source=%q confidence=%v", got.Source, got.Confidence)
	}
	if got.ConsensusScore != 100 {
		t.Errorf("ConsensusScore = %v, want 100", got.ConsensusScore)
	}
	if src.calls != 0 {
		t.Errorf("confident local hit must not fan out; source called %d times", src.calls)
	}
}

func TestLookup_ForceOnlineFansOut(t *testing.T) {
	src := foundSource("online", "mmọñ", 0.9)
	u := newTestLookup(t, waterEntries(), nil, []port.Source{src})

	got := u.Lookup(context.Background(), "water", Options{ForceOnline: true})
	if src.calls != 1 {
		t.Fatalf("expected fan-out under ForceOnline, source called %d times", src.calls)
	}
	// Local (trust 1.0, conf 1.0) still outranks online (0.9 * 0.9).
	if got.Source != search.SourceLocal {
		t.Errorf("source = %q, want local", got.Source)
	}
	// Local and online agree, so no conflict.
	if got.ConflictingResults {
		t.Errorf("unexpected conflict: %v", got.ValidationNotes)
	}
}

func TestLookup_ConsensusAcrossSources(t *testing.T) {
	online := foundSource("online", "abasi", 0.8)
	web := foundSource("web", "abasi", 0.7)
	ai := foundSource("ai", "obasi", 0.9)
	rec := &recordingStore{}
	u := newTestLookup(t, nil, rec, []port.Source{online, web, ai})

	got := u.Lookup(context.Background(), "god", Options{})

	if math.Abs(got.ConsensusScore-200.0/3) > 0.01 {
		t.Errorf("ConsensusScore = %v, want ~66.67", got.ConsensusScore)
	}
	if !got.ConflictingResults {
		t.Error("expected conflicting results")
	}
	if len(got.ValidationNotes) != 2 {
		t.Fatalf("expected 2 notes, got %v", got.ValidationNotes)
	}
	if !strings.Contains(got.ValidationNotes[0], `"abasi"`) ||
		!strings.Contains(got.ValidationNotes[0], "online, web") {
		t.Errorf("majority note first, got %q", got.ValidationNotes[0])
	}

	// online wins on trust-weighted confidence: 0.8*0.9 > 0.9*0.7 > 0.7*0.75.
	if got.Source != "online" {
		t.Errorf("source = %q, want online", got.Source)
	}
	if got.Result == nil || got.Result.TargetText != "abasi" {
		t.Fatalf("unexpected result: %+v", got.Result)
	}
	if math.Abs(got.Confidence-0.72) > 1e-9 {
		t.Errorf("confidence = %v, want 0.72", got.Confidence)
	}

	// The synthesized entry is persisted for future local hits.
	if got.Result.Category != "synthesized" || !strings.HasPrefix(got.Result.ID, "online-") {
		t.Errorf("unexpected synthesized entry: %+v", got.Result)
	}
	if len(rec.put) != 1 || rec.put[0].SourceText != "god" {
		t.Errorf("synthesized entry not persisted: %+v", rec.put)
	}
}

func TestLookup_DiacriticsGroupTogether(t *testing.T) {
	online := foundSource("online", "mmọñ", 0.8)
	web := foundSource("web", "mmon", 0.7)
	u := newTestLookup(t, nil, nil, []port.Source{online, web})

	got := u.Lookup(context.Background(), "water", Options{})
	if got.ConsensusScore != 100 || got.ConflictingResults {
		t.Errorf("diacritic variants should agree: score=%v conflicting=%v",
			got.ConsensusScore, got.ConflictingResults)
	}
}

func TestLookup_AllSourcesFail(t *testing.T) {
	u := newTestLookup(t, nil, nil, []port.Source{
		&stubSource{name: "online", configured: true, err: errors.New("down")},
		&stubSource{name: "ai", configured: false},
	})

	got := u.Lookup(context.Background(), "god", Options{})
	if got.Result != nil || got.Confidence != 0 || got.Source != SourceNone {
		t.Errorf("a miss must never fabricate a match: %+v", got)
	}
}

func TestLookup_CacheHitSkipsSources(t *testing.T) {
	src := foundSource("online", "abasi", 0.8)
	u := newTestLookup(t, nil, nil, []port.Source{src})

	first := u.Lookup(context.Background(), "god", Options{})
	if first.Result == nil {
		t.Fatal("expected a result from the online source")
	}
	if src.calls != 1 {
		t.Fatalf("source called %d times, want 1", src.calls)
	}

	second := u.Lookup(context.Background(), "god", Options{})
	if src.calls != 1 {
		t.Errorf("cache hit must not call sources again, calls = %d", src.calls)
	}
	if second.Result == nil || second.Result.TargetText != "abasi" {
		t.Errorf("unexpected cached result: %+v", second.Result)
	}
	if second.ConsensusScore != 100 {
		t.Errorf("cached ConsensusScore = %v, want 100", second.ConsensusScore)
	}

	u.ClearCache()
	u.Lookup(context.Background(), "god", Options{})
	if src.calls != 2 {
		t.Errorf("expected re-fetch after ClearCache, calls = %d", src.calls)
	}
}

func TestLookup_UnknownSourceTrust(t *testing.T) {
	src := foundSource("experimental", "abasi", 0.8)
	u := newTestLookup(t, nil, nil, []port.Source{src})

	got := u.Lookup(context.Background(), "god", Options{})
	if got.Result == nil {
		t.Fatal("expected a result")
	}
	// Unlisted sources fall back to trust 0.5.
	if math.Abs(got.Confidence-0.4) > 1e-9 {
		t.Errorf("confidence = %v, want 0.4", got.Confidence)
	}
}

func TestStats(t *testing.T) {
	u := newTestLookup(t, waterEntries(), nil, []port.Source{
		foundSource("online", "x", 0.5),
		&stubSource{name: "ai", configured: false},
	})

	got := u.Stats()
	if got.IndexedEntries != 1 {
		t.Errorf("IndexedEntries = %d, want 1", got.IndexedEntries)
	}
	if !got.Sources["online"] || got.Sources["ai"] {
		t.Errorf("unexpected source map: %v", got.Sources)
	}
}

func TestReconcile_NoFinds(t *testing.T) {
	norm := analyzer.NewNormalizer()
	consensus, conflicting, notes := reconcile(norm, []domain.SourceResult{
		{Source: "local"}, {Source: "online", Err: "down"},
	})
	if consensus != 0 || conflicting || notes != nil {
		t.Errorf("got consensus=%v conflicting=%v notes=%v", consensus, conflicting, notes)
	}
}

func TestSelectPrimary_Empty(t *testing.T) {
	if got := selectPrimary(nil, DefaultTrustWeights()); got != -1 {
		t.Errorf("selectPrimary(nil) = %d, want -1", got)
	}
}
