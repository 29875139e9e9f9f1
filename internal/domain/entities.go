package domain

import "time"

// ExamplePair is one usage example attached to a dictionary entry.
type ExamplePair struct {
	SourceText string `json:"source_text"`
	TargetText string `json:"target_text"`
}

// DictionaryEntry is a single English→Ibibio translation unit.
type DictionaryEntry struct {
	ID            string        `json:"id"`
	SourceText    string        `json:"source_text"`
	TargetText    string        `json:"target_text"`
	Meaning       string        `json:"meaning,omitempty"`
	PartOfSpeech  string        `json:"part_of_speech,omitempty"`
	Examples      []ExamplePair `json:"examples,omitempty"`
	Pronunciation string        `json:"pronunciation,omitempty"`
	CulturalNote  string        `json:"cultural_note,omitempty"`
	Category      string        `json:"category,omitempty"`
}

// SearchResult is one ranked hit from the fuzzy search engine.
type SearchResult struct {
	Entry      DictionaryEntry `json:"entry"`
	Confidence float64         `json:"confidence"`
	Source     string          `json:"source"`
}

// SemanticScore breaks down how well an entry answers a query.
// All components and the total are in [0,1].
type SemanticScore struct {
	PrimaryMatch    float64
	PositionScore   float64
	ContextScore    float64
	DefinitionScore float64
	TotalScore      float64
}

// SourceResult is the outcome of asking one translation source about a query.
type SourceResult struct {
	Source       string            `json:"source"`
	Found        bool              `json:"found"`
	Translation  string            `json:"translation,omitempty"`
	Confidence   float64           `json:"confidence"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	ResponseTime time.Duration     `json:"response_time"`
	Err          string            `json:"error,omitempty"`
}

// MultiSourceResult is the final per-query aggregate returned to callers.
// Result is nil when no source knew the word; that is a normal outcome.
type MultiSourceResult struct {
	Query              string           `json:"query"`
	Result             *DictionaryEntry `json:"result"`
	Confidence         float64          `json:"confidence"`
	Source             string           `json:"source"`
	Alternatives       []SearchResult   `json:"alternatives,omitempty"`
	SourceResults      []SourceResult   `json:"source_results,omitempty"`
	ConsensusScore     float64          `json:"consensus_score"`
	ConflictingResults bool             `json:"conflicting_results"`
	ValidationNotes    []string         `json:"validation_notes,omitempty"`
}

// RuleAlternative is one non-primary translation declared by a rule.
type RuleAlternative struct {
	Translation string `json:"translation"`
	Priority    int    `json:"priority"`
	Context     string `json:"context,omitempty"`
	Usage       string `json:"usage,omitempty"`
}

// DisambiguationRule encodes a curated preference among multiple valid
// translations of one source word. Rules are configuration, not derived data.
type DisambiguationRule struct {
	Word               string            `json:"word"`
	PrimaryTranslation string            `json:"primary_translation"`
	Priority           int               `json:"priority"`
	Context            string            `json:"context,omitempty"`
	Usage              string            `json:"usage,omitempty"`
	Alternatives       []RuleAlternative `json:"alternatives,omitempty"`
}

// Disambiguation is the resolver's pick among several candidate entries.
type Disambiguation struct {
	Primary      DictionaryEntry
	Alternatives []DictionaryEntry
	Reasoning    string
	Confidence   float64
}

// WordBreakdown is one token of a word-by-word sentence translation.
type WordBreakdown struct {
	SourceWord string  `json:"source_word"`
	TargetWord string  `json:"target_word"`
	Found      bool    `json:"found"`
	Confidence float64 `json:"confidence"`
	Source     string  `json:"source"`
}

// SentenceResult is the outcome of translating a multi-word query.
// Partial is set when any token fell back to a bracketed placeholder.
type SentenceResult struct {
	Query       string          `json:"query"`
	Translation string          `json:"translation"`
	Source      string          `json:"source"`
	Confidence  float64         `json:"confidence"`
	Breakdown   []WordBreakdown `json:"breakdown,omitempty"`
	Partial     bool            `json:"partial"`
}

// Stats describes the current working set.
type Stats struct {
	IndexedEntries int             `json:"indexed_entries"`
	CachedResults  int             `json:"cached_results"`
	Sources        map[string]bool `json:"sources"`
}

// Indexable reports whether the entry carries both sides of a translation.
// Entries failing this are dropped at load time, never at query time.
func (e DictionaryEntry) Indexable() bool {
	return e.SourceText != "" && e.TargetText != ""
}

// HasExamples reports whether the entry carries at least one usage example.
func (e DictionaryEntry) HasExamples() bool {
	return len(e.Examples) > 0
}
