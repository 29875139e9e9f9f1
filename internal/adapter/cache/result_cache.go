package cache

import (
	"encoding/json"
	"log"
	"time"

	"usem/internal/adapter/analyzer"
	"usem/internal/domain"
	"usem/internal/port"
)

// DefaultTTL is how long a cached lookup stays trusted.
const DefaultTTL = 24 * time.Hour

// ResultCache memoizes query → result with source-tagged, time-bounded
// entries. It is a best-effort layer: any storage failure degrades to a
// miss or a no-op write and is never surfaced to the search path.
type ResultCache struct {
	kv   port.KVStore
	norm *analyzer.Normalizer
	ttl  time.Duration
	now  func() time.Time
}

// CachedResult is what a cache hit returns to the orchestrator.
type CachedResult struct {
	Entry      domain.DictionaryEntry
	Confidence float64
	Source     string
}

// record is the serialized form stored in the KV collaborator.
type record struct {
	Result     domain.DictionaryEntry `json:"result"`
	Confidence float64                `json:"confidence"`
	Timestamp  int64                  `json:"timestamp"`
	Source     string                 `json:"source"`
}

// New creates a ResultCache over kv. ttl <= 0 selects DefaultTTL.
func New(kv port.KVStore, norm *analyzer.Normalizer, ttl time.Duration) *ResultCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ResultCache{kv: kv, norm: norm, ttl: ttl, now: time.Now}
}

// Key builds the cache key for a query under a request mode. The same text
// produces different results when an online search is forced, so the mode
// is part of the key.
func (c *ResultCache) Key(query string, online bool) string {
	key := c.norm.Normalize(query)
	if online {
		key += "_online"
	}
	return key
}

// Get returns the cached result for key if present and younger than the
// TTL. Expired entries are evicted lazily here.
func (c *ResultCache) Get(key string) (CachedResult, bool) {
	if key == "" {
		return CachedResult{}, false
	}

	data, err := c.kv.Get(key)
	if err != nil {
		log.Printf("cache: read %q failed, treating as miss: %v", key, err)
		return CachedResult{}, false
	}
	if data == nil {
		return CachedResult{}, false
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		log.Printf("cache: corrupt entry %q, evicting: %v", key, err)
		c.remove(key)
		return CachedResult{}, false
	}

	age := c.now().UnixMilli() - rec.Timestamp
	if age > c.ttl.Milliseconds() {
		c.remove(key)
		return CachedResult{}, false
	}

	return CachedResult{Entry: rec.Result, Confidence: rec.Confidence, Source: rec.Source}, true
}

// Set stores a result under key. Concurrent writers may race on the same
// key; last write wins, which is acceptable for idempotent recomputations.
func (c *ResultCache) Set(key string, entry domain.DictionaryEntry, confidence float64, source string) {
	if key == "" {
		return
	}
	data, err := json.Marshal(record{
		Result:     entry,
		Confidence: confidence,
		Timestamp:  c.now().UnixMilli(),
		Source:     source,
	})
	if err != nil {
		log.Printf("cache: marshal %q failed: %v", key, err)
		return
	}
	if err := c.kv.Set(key, data); err != nil {
		log.Printf("cache: write %q failed: %v", key, err)
	}
}

// Clear drops every cached result.
func (c *ResultCache) Clear() {
	keys, err := c.kv.Keys()
	if err != nil {
		log.Printf("cache: clear failed: %v", err)
		return
	}
	for _, k := range keys {
		c.remove(k)
	}
}

// Size returns the number of stored entries, expired ones included until
// their lazy eviction.
func (c *ResultCache) Size() int {
	keys, err := c.kv.Keys()
	if err != nil {
		return 0
	}
	return len(keys)
}

func (c *ResultCache) remove(key string) {
	if err := c.kv.Remove(key); err != nil {
		log.Printf("cache: evict %q failed: %v", key, err)
	}
}
