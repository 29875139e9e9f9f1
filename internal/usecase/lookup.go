package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"usem/internal/adapter/analyzer"
	"usem/internal/adapter/cache"
	"usem/internal/adapter/disambig"
	"usem/internal/adapter/index"
	"usem/internal/adapter/search"
	"usem/internal/domain"
	"usem/internal/port"
)

// SourceNone tags the explicit "word not known" outcome.
const SourceNone = "none"

// Options modify one lookup call.
type Options struct {
	// ForceOnline consults external sources even when the local
	// dictionary answers confidently.
	ForceOnline bool
}

// Config tunes the orchestrator.
type Config struct {
	// LocalThreshold is the confidence at which a local hit short-circuits
	// the fan-out. Local lookups are free; online and AI lookups carry
	// latency and rate-limit cost.
	LocalThreshold float64

	// SourceTimeout bounds each external source call individually, so a
	// hung source cannot block the others.
	SourceTimeout time.Duration

	// TrustWeights scale raw source confidence during reconciliation.
	TrustWeights map[string]float64
}

// DefaultTrustWeights reflect decreasing reliability for this language
// pair: the curated dictionary, then the specialized backend, then web
// scraping, then generic AI.
func DefaultTrustWeights() map[string]float64 {
	return map[string]float64{
		search.SourceLocal: 1.0,
		"online":           0.9,
		"web":              0.75,
		"ai":               0.7,
	}
}

// LookupUseCase runs the per-query state machine: cache check, local
// search, fan-out, reconciliation, store-and-return.
type LookupUseCase struct {
	norm       *analyzer.Normalizer
	index      *index.Index
	engine     *search.FuzzyEngine
	decomposer *search.Decomposer
	resolver   *disambig.Resolver
	cache      *cache.ResultCache
	entries    port.EntryStore // nil disables persistence of synthesized entries
	sources    []port.Source
	cfg        Config
}

// NewLookupUseCase wires the orchestrator.
func NewLookupUseCase(
	norm *analyzer.Normalizer,
	ix *index.Index,
	engine *search.FuzzyEngine,
	decomposer *search.Decomposer,
	resolver *disambig.Resolver,
	resultCache *cache.ResultCache,
	entries port.EntryStore,
	sources []port.Source,
	cfg Config,
) *LookupUseCase {
	if cfg.LocalThreshold <= 0 {
		cfg.LocalThreshold = 0.85
	}
	if cfg.SourceTimeout <= 0 {
		cfg.SourceTimeout = 10 * time.Second
	}
	if cfg.TrustWeights == nil {
		cfg.TrustWeights = DefaultTrustWeights()
	}
	return &LookupUseCase{
		norm:       norm,
		index:      ix,
		engine:     engine,
		decomposer: decomposer,
		resolver:   resolver,
		cache:      resultCache,
		entries:    entries,
		sources:    sources,
		cfg:        cfg,
	}
}

// Lookup translates a single-word (or short-phrase) query. It always
// returns a well-formed result; an unknown word yields Result nil with
// confidence 0, which is a normal outcome.
func (u *LookupUseCase) Lookup(ctx context.Context, text string, opts Options) domain.MultiSourceResult {
	query := u.norm.Normalize(text)
	if query == "" {
		return domain.MultiSourceResult{
			Query:           text,
			Source:          SourceNone,
			ValidationNotes: []string{"no query provided"},
		}
	}

	out := domain.MultiSourceResult{Query: text, Source: SourceNone}

	cacheKey := u.cache.Key(text, opts.ForceOnline)
	if hit, ok := u.cache.Get(cacheKey); ok {
		entry := hit.Entry
		out.Result = &entry
		out.Confidence = hit.Confidence
		out.Source = hit.Source
		out.ConsensusScore = 100
		return out
	}

	localEntry, localConf, alternatives := u.searchLocal(query)
	localSR := domain.SourceResult{Source: search.SourceLocal}
	if localEntry != nil {
		localSR.Found = true
		localSR.Translation = localEntry.TargetText
		localSR.Confidence = localConf
	}

	if localEntry != nil && localConf >= u.cfg.LocalThreshold && !opts.ForceOnline {
		out.Result = localEntry
		out.Confidence = localConf
		out.Source = search.SourceLocal
		out.Alternatives = alternatives
		out.SourceResults = []domain.SourceResult{localSR}
		out.ConsensusScore = 100
		u.cache.Set(cacheKey, *localEntry, localConf, search.SourceLocal)
		return out
	}

	sourceResults := append([]domain.SourceResult{localSR}, u.fanOut(ctx, query)...)
	out.SourceResults = sourceResults
	out.Alternatives = alternatives

	out.ConsensusScore, out.ConflictingResults, out.ValidationNotes = reconcile(u.norm, sourceResults)

	winner := selectPrimary(sourceResults, u.cfg.TrustWeights)
	if winner < 0 {
		return out
	}

	primary := sourceResults[winner]
	trust := u.cfg.TrustWeights[primary.Source]
	if trust == 0 {
		trust = 0.5
	}

	var entry domain.DictionaryEntry
	if primary.Source == search.SourceLocal {
		entry = *localEntry
	} else {
		entry = u.synthesize(text, primary)
	}

	out.Result = &entry
	out.Confidence = clamp01(primary.Confidence * trust)
	out.Source = primary.Source
	u.cache.Set(cacheKey, entry, out.Confidence, primary.Source)
	return out
}

// searchLocal runs the single-word local path: fuzzy search plus the
// disambiguation resolver when the query has multiple exact entries.
func (u *LookupUseCase) searchLocal(query string) (*domain.DictionaryEntry, float64, []domain.SearchResult) {
	exact := u.index.SearchExact(query)
	fuzzy := u.engine.Search(query, 5)

	if len(exact) > 0 {
		resolution := u.resolver.Resolve(query, exact)
		primary := resolution.Primary
		alternatives := make([]domain.SearchResult, 0, len(fuzzy))
		for _, r := range fuzzy {
			if r.Entry.ID != primary.ID {
				alternatives = append(alternatives, r)
			}
		}
		return &primary, resolution.Confidence, alternatives
	}

	if len(fuzzy) == 0 {
		return nil, 0, nil
	}
	best := fuzzy[0].Entry
	return &best, fuzzy[0].Confidence, fuzzy[1:]
}

// fanOut queries every configured external source concurrently and joins
// when all have settled. Waiting for all of them, rather than racing to
// first success, is what makes consensus scoring possible.
func (u *LookupUseCase) fanOut(ctx context.Context, query string) []domain.SourceResult {
	var active []port.Source
	for _, s := range u.sources {
		if s.Configured() {
			active = append(active, s)
		}
	}
	if len(active) == 0 {
		return nil
	}

	results := make([]domain.SourceResult, len(active))
	var wg sync.WaitGroup
	for i, src := range active {
		wg.Add(1)
		go func(i int, src port.Source) {
			defer wg.Done()
			sctx, cancel := context.WithTimeout(ctx, u.cfg.SourceTimeout)
			defer cancel()

			res, err := src.Translate(sctx, query)
			if err != nil {
				results[i] = domain.SourceResult{Source: src.Name(), Err: err.Error()}
				return
			}
			res.Source = src.Name()
			results[i] = res
		}(i, src)
	}
	wg.Wait()
	return results
}

// synthesize turns an external source result into a dictionary entry so it
// can be cached and persisted for future local hits.
func (u *LookupUseCase) synthesize(query string, r domain.SourceResult) domain.DictionaryEntry {
	entry := domain.DictionaryEntry{
		ID:           fmt.Sprintf("%s-%d", r.Source, time.Now().UnixNano()),
		SourceText:   strings.TrimSpace(query),
		TargetText:   r.Translation,
		Meaning:      r.Metadata["meaning"],
		CulturalNote: r.Metadata["note"],
		Category:     "synthesized",
	}
	if ex := r.Metadata["example"]; ex != "" {
		if ib, en, ok := strings.Cut(ex, " = "); ok {
			entry.Examples = []domain.ExamplePair{{SourceText: strings.TrimSpace(en), TargetText: strings.TrimSpace(ib)}}
		}
	}

	if u.entries != nil {
		if err := u.entries.PutEntries([]domain.DictionaryEntry{entry}); err != nil {
			log.Printf("lookup: persisting synthesized entry failed: %v", err)
		}
	}
	return entry
}

// SearchFuzzy exposes local ranked search to consumers.
func (u *LookupUseCase) SearchFuzzy(text string, limit int) []domain.SearchResult {
	return u.engine.Search(text, limit)
}

// ClearCache drops all memoized lookups.
func (u *LookupUseCase) ClearCache() {
	u.cache.Clear()
}

// Stats reports the working set and per-source configuration.
func (u *LookupUseCase) Stats() domain.Stats {
	sources := make(map[string]bool, len(u.sources))
	for _, s := range u.sources {
		sources[s.Name()] = s.Configured()
	}
	return domain.Stats{
		IndexedEntries: u.index.Size(),
		CachedResults:  u.cache.Size(),
		Sources:        sources,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
