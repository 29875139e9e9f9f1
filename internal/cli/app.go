package cli

import (
	"fmt"
	"log"
	"time"

	"usem/config"
	"usem/internal/adapter/analyzer"
	"usem/internal/adapter/cache"
	"usem/internal/adapter/disambig"
	"usem/internal/adapter/index"
	"usem/internal/adapter/scorer"
	"usem/internal/adapter/search"
	"usem/internal/adapter/source"
	"usem/internal/adapter/store"
	"usem/internal/port"
	"usem/internal/usecase"
)

// app bundles the assembled services a command needs.
type app struct {
	store  *store.BoltStore
	index  *index.Index
	lookup *usecase.LookupUseCase
}

// newApp opens the store, loads entries, builds the index, and wires the
// lookup use case from config.
func newApp(cfg *config.Config, dir string) (*app, error) {
	if err := config.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	st, err := store.NewBoltStore(config.DBPath(dir))
	if err != nil {
		return nil, fmt.Errorf("failed to open dictionary store: %w", err)
	}

	norm := analyzer.NewNormalizer()
	ix := index.New(norm)

	entries, err := st.ListEntries()
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to load entries: %w", err)
	}
	if skipped := ix.Build(entries); skipped > 0 {
		log.Printf("index: %d entries skipped during build", skipped)
	}

	seedRules(st)

	sc := scorer.New(norm)
	engine := search.NewFuzzyEngine(ix, sc, norm, cfg.Search.MinScore)
	decomposer := search.NewDecomposer(norm, engine)
	resolver := disambig.NewResolver(st, norm)
	resultCache := cache.New(st.Cache(), norm, time.Duration(cfg.Cache.TTLHours)*time.Hour)

	sources := []port.Source{
		source.NewOnlineSource(cfg.Sources.Online.Endpoint, time.Duration(cfg.Sources.Online.TimeoutSeconds)*time.Second),
		source.NewWebSource(cfg.Sources.Web.SearchURL, time.Duration(cfg.Sources.Web.TimeoutSeconds)*time.Second),
		source.NewAISource(cfg.Sources.AI.APIKeyEnv, cfg.Sources.AI.Model),
	}

	lookup := usecase.NewLookupUseCase(norm, ix, engine, decomposer, resolver, resultCache, st, sources, usecase.Config{
		LocalThreshold: cfg.Search.LocalThreshold,
		SourceTimeout:  sourceTimeout(cfg),
		TrustWeights:   cfg.Sources.TrustWeights,
	})

	return &app{store: st, index: ix, lookup: lookup}, nil
}

func (a *app) Close() {
	a.store.Close()
}

// sourceTimeout returns the per-source fan-out budget: the slowest configured
// source timeout, so no source is cancelled below its own setting.
func sourceTimeout(cfg *config.Config) time.Duration {
	seconds := cfg.Sources.Online.TimeoutSeconds
	if cfg.Sources.Web.TimeoutSeconds > seconds {
		seconds = cfg.Sources.Web.TimeoutSeconds
	}
	if cfg.Sources.AI.TimeoutSeconds > seconds {
		seconds = cfg.Sources.AI.TimeoutSeconds
	}
	return time.Duration(seconds) * time.Second
}

// seedRules installs the curated starter rules for words the store does not
// already have a rule for.
func seedRules(st *store.BoltStore) {
	for _, rule := range disambig.SeedRules() {
		if _, ok, err := st.GetRule(rule.Word); err != nil || ok {
			continue
		}
		if err := st.PutRule(rule); err != nil {
			log.Printf("failed to seed rule %q: %v", rule.Word, err)
		}
	}
}
