package index

import (
	"log"
	"sort"
	"strings"
	"sync"

	"usem/internal/adapter/analyzer"
	"usem/internal/domain"
)

// Token length floors for the source and target languages. Ibibio tokens may
// legitimately be a single rune.
const (
	minSourceTokenLen = 2
	minTargetTokenLen = 1
)

// Index is the five-bucket inverted index over the current dictionary
// snapshot. A rebuild constructs a complete new snapshot and swaps it in
// atomically, so concurrent readers never observe a partially built index.
type Index struct {
	mu   sync.RWMutex
	norm *analyzer.Normalizer
	snap *snapshot
}

// snapshot is a pure function of one entry collection.
type snapshot struct {
	exact   map[string][]domain.DictionaryEntry
	prefix  map[string][]domain.DictionaryEntry
	words   map[string][]domain.DictionaryEntry
	target  map[string][]domain.DictionaryEntry
	meaning map[string][]domain.DictionaryEntry
	count   int
}

// New creates an empty Index. Searches against it return empty results
// until Build is called.
func New(norm *analyzer.Normalizer) *Index {
	return &Index{norm: norm}
}

// Build replaces the index wholesale from entries. Structurally invalid
// entries (missing source or target text) are logged and skipped. Returns
// the number of entries skipped.
func (ix *Index) Build(entries []domain.DictionaryEntry) int {
	snap := &snapshot{
		exact:   make(map[string][]domain.DictionaryEntry),
		prefix:  make(map[string][]domain.DictionaryEntry),
		words:   make(map[string][]domain.DictionaryEntry),
		target:  make(map[string][]domain.DictionaryEntry),
		meaning: make(map[string][]domain.DictionaryEntry),
	}
	seen := newSeenSets()

	skipped := 0
	for _, e := range entries {
		if !e.Indexable() {
			log.Printf("index: skipping entry %q: missing source or target text", e.ID)
			skipped++
			continue
		}
		if !ix.insert(snap, seen, e) {
			log.Printf("index: skipping entry %q: text empty after normalization", e.ID)
			skipped++
			continue
		}
		snap.count++
	}

	ix.mu.Lock()
	ix.snap = snap
	ix.mu.Unlock()
	return skipped
}

// insert indexes one entry, reporting false when either side normalizes to
// nothing indexable.
func (ix *Index) insert(snap *snapshot, seen *seenSets, e domain.DictionaryEntry) bool {
	source := ix.norm.Normalize(e.SourceText)
	target := ix.norm.Normalize(e.TargetText)
	if source == "" || target == "" {
		return false
	}

	seen.add(snap.exact, "exact", source, e)

	runes := []rune(source)
	for i := 1; i <= len(runes); i++ {
		seen.add(snap.prefix, "prefix", string(runes[:i]), e)
	}

	for _, w := range strings.Fields(source) {
		if ix.norm.IsSignificant(w, minSourceTokenLen) {
			seen.add(snap.words, "words", w, e)
		}
	}

	seen.add(snap.target, "target", target, e)
	for _, w := range strings.Fields(target) {
		if ix.norm.IsSignificant(w, minTargetTokenLen) {
			seen.add(snap.target, "target", w, e)
		}
	}

	tokens := ix.norm.Tokenize(e.Meaning)
	for i, w := range tokens {
		if !ix.norm.IsSignificant(w, minSourceTokenLen) {
			continue
		}
		seen.add(snap.meaning, "meaning", w, e)

		// Adjacent 2- and 3-word windows, all words significant.
		if i+1 < len(tokens) && ix.norm.IsSignificant(tokens[i+1], minSourceTokenLen) {
			seen.add(snap.meaning, "meaning", w+" "+tokens[i+1], e)
			if i+2 < len(tokens) && ix.norm.IsSignificant(tokens[i+2], minSourceTokenLen) {
				seen.add(snap.meaning, "meaning", w+" "+tokens[i+1]+" "+tokens[i+2], e)
			}
		}
	}
	return true
}

// SearchExact returns the entries whose normalized source text equals the
// normalized query. Unbuilt index or empty query yields nil.
func (ix *Index) SearchExact(query string) []domain.DictionaryEntry {
	key := ix.norm.Normalize(query)
	if key == "" {
		return nil
	}
	return ix.lookup(func(s *snapshot) []domain.DictionaryEntry { return s.exact[key] })
}

// LookupPrefix returns entries whose source text starts with the normalized
// query.
func (ix *Index) LookupPrefix(query string) []domain.DictionaryEntry {
	key := ix.norm.Normalize(query)
	if key == "" {
		return nil
	}
	return ix.lookup(func(s *snapshot) []domain.DictionaryEntry { return s.prefix[key] })
}

// LookupWord returns entries containing token as a significant source word.
func (ix *Index) LookupWord(token string) []domain.DictionaryEntry {
	if token == "" {
		return nil
	}
	return ix.lookup(func(s *snapshot) []domain.DictionaryEntry { return s.words[token] })
}

// LookupMeaning returns entries whose meaning contains the given token or
// 2–3 word phrase.
func (ix *Index) LookupMeaning(term string) []domain.DictionaryEntry {
	if term == "" {
		return nil
	}
	return ix.lookup(func(s *snapshot) []domain.DictionaryEntry { return s.meaning[term] })
}

// LookupTarget reverse-looks-up entries by Ibibio text, full or word-level.
func (ix *Index) LookupTarget(query string) []domain.DictionaryEntry {
	key := ix.norm.Normalize(query)
	if key == "" {
		return nil
	}
	return ix.lookup(func(s *snapshot) []domain.DictionaryEntry { return s.target[key] })
}

// ScanContaining is the low-precision catch-all: a two-way substring check
// over every exact-index key.
func (ix *Index) ScanContaining(query string) []domain.DictionaryEntry {
	key := ix.norm.Normalize(query)
	if key == "" {
		return nil
	}

	ix.mu.RLock()
	snap := ix.snap
	ix.mu.RUnlock()
	if snap == nil {
		return nil
	}

	var keys []string
	for k := range snap.exact {
		if strings.Contains(k, key) || strings.Contains(key, k) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var out []domain.DictionaryEntry
	for _, k := range keys {
		out = append(out, snap.exact[k]...)
	}
	return out
}

// Size returns the number of indexed entries.
func (ix *Index) Size() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	if ix.snap == nil {
		return 0
	}
	return ix.snap.count
}

func (ix *Index) lookup(get func(*snapshot) []domain.DictionaryEntry) []domain.DictionaryEntry {
	ix.mu.RLock()
	snap := ix.snap
	ix.mu.RUnlock()
	if snap == nil {
		return nil
	}
	return get(snap)
}

// seenSets deduplicates (bucket, key, entry id) insertions during a build.
type seenSets struct {
	seen map[string]struct{}
}

func newSeenSets() *seenSets {
	return &seenSets{seen: make(map[string]struct{})}
}

func (s *seenSets) add(m map[string][]domain.DictionaryEntry, bucket, key string, e domain.DictionaryEntry) {
	id := bucket + "\x00" + key + "\x00" + e.ID
	if _, dup := s.seen[id]; dup {
		return
	}
	s.seen[id] = struct{}{}
	m[key] = append(m[key], e)
}
