package store

import (
	"path/filepath"
	"testing"

	"usem/internal/domain"
)

func newTestStore(t *testing.T) *BoltStore {
	t.Helper()
	s, err := NewBoltStore(filepath.Join(t.TempDir(), "usem.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestEntries_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	entries := []domain.DictionaryEntry{
		{ID: "1", SourceText: "stop", TargetText: "tịre", Meaning: "cease an action"},
		{ID: "2", SourceText: "water", TargetText: "mmọñ",
			Examples: []domain.ExamplePair{{SourceText: "drink water", TargetText: "n̄wọñ mmọñ"}}},
	}

	if err := s.PutEntries(entries); err != nil {
		t.Fatalf("PutEntries: %v", err)
	}

	got, err := s.ListEntries()
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}

	byID := make(map[string]domain.DictionaryEntry, len(got))
	for _, e := range got {
		byID[e.ID] = e
	}
	if byID["1"].TargetText != "tịre" {
		t.Errorf("entry 1 target = %q", byID["1"].TargetText)
	}
	if len(byID["2"].Examples) != 1 || byID["2"].Examples[0].TargetText != "n̄wọñ mmọñ" {
		t.Errorf("entry 2 examples not preserved: %+v", byID["2"].Examples)
	}
}

func TestPutEntries_UpsertsByID(t *testing.T) {
	s := newTestStore(t)

	if err := s.PutEntries([]domain.DictionaryEntry{{ID: "1", SourceText: "stop", TargetText: "tịre"}}); err != nil {
		t.Fatal(err)
	}
	if err := s.PutEntries([]domain.DictionaryEntry{{ID: "1", SourceText: "stop", TargetText: "tịbe"}}); err != nil {
		t.Fatal(err)
	}

	got, err := s.ListEntries()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].TargetText != "tịbe" {
		t.Errorf("expected single upserted entry, got %+v", got)
	}
}

func TestDeleteEntries(t *testing.T) {
	s := newTestStore(t)
	if err := s.PutEntries([]domain.DictionaryEntry{{ID: "1", SourceText: "stop", TargetText: "tịre"}}); err != nil {
		t.Fatal(err)
	}

	if err := s.DeleteEntries(); err != nil {
		t.Fatalf("DeleteEntries: %v", err)
	}
	got, err := s.ListEntries()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty store, got %d entries", len(got))
	}

	// The bucket is usable again after the wholesale delete.
	if err := s.PutEntries([]domain.DictionaryEntry{{ID: "2", SourceText: "water", TargetText: "mmọñ"}}); err != nil {
		t.Fatalf("PutEntries after delete: %v", err)
	}
}

func TestRules_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	rule := domain.DisambiguationRule{
		Word:               "stop",
		PrimaryTranslation: "tịre",
		Context:            "cease an action",
		Alternatives:       []domain.RuleAlternative{{Translation: "tịbe", Priority: 2}},
	}

	if err := s.PutRule(rule); err != nil {
		t.Fatalf("PutRule: %v", err)
	}

	got, ok, err := s.GetRule("stop")
	if err != nil || !ok {
		t.Fatalf("GetRule: ok=%v err=%v", ok, err)
	}
	if got.PrimaryTranslation != "tịre" || len(got.Alternatives) != 1 {
		t.Errorf("unexpected rule: %+v", got)
	}

	if _, ok, err := s.GetRule("missing"); err != nil || ok {
		t.Errorf("expected absent rule: ok=%v err=%v", ok, err)
	}

	rules, err := s.ListRules()
	if err != nil || len(rules) != 1 {
		t.Errorf("ListRules: %d rules, err=%v", len(rules), err)
	}
}

func TestCacheKV(t *testing.T) {
	s := newTestStore(t)
	kv := s.Cache()

	got, err := kv.Get("absent")
	if err != nil || got != nil {
		t.Errorf("absent key: got %v err=%v, want nil,nil", got, err)
	}

	if err := kv.Set("k", []byte("v")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err = kv.Get("k")
	if err != nil || string(got) != "v" {
		t.Errorf("Get = %q err=%v", got, err)
	}

	keys, err := kv.Keys()
	if err != nil || len(keys) != 1 || keys[0] != "k" {
		t.Errorf("Keys = %v err=%v", keys, err)
	}

	if err := kv.Remove("k"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	got, err = kv.Get("k")
	if err != nil || got != nil {
		t.Errorf("removed key still present: %v err=%v", got, err)
	}
}

func TestMemoryKV_CopiesBytes(t *testing.T) {
	kv := NewMemoryKV()
	buf := []byte("value")
	if err := kv.Set("k", buf); err != nil {
		t.Fatal(err)
	}
	buf[0] = 'X'

	got, err := kv.Get("k")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "value" {
		t.Errorf("stored value aliased caller buffer: %q", got)
	}
}
