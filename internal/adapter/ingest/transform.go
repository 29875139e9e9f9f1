package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"strings"

	"usem/internal/domain"
)

// RawRecord is one unnormalized import record. Upstream files disagree on
// field names, so each canonical field is resolved through an ordered list
// of known synonym keys.
type RawRecord map[string]interface{}

// SkippedRecord reports why one raw record was rejected during transform.
type SkippedRecord struct {
	Index  int
	Reason string
}

var (
	sourceKeys        = []string{"english", "English", "english_word", "source", "source_text", "sourceText", "word"}
	targetKeys        = []string{"ibibio", "Ibibio", "ibibio_word", "target", "target_text", "targetText", "translation"}
	meaningKeys       = []string{"meaning", "definition", "gloss", "description"}
	posKeys           = []string{"part_of_speech", "partOfSpeech", "pos"}
	pronunciationKeys = []string{"pronunciation", "phonetic"}
	culturalKeys      = []string{"cultural_note", "culturalNote", "note"}
	categoryKeys      = []string{"category", "tag", "topic"}
	exampleSourceKeys = []string{"english", "source", "source_text", "sourceText"}
	exampleTargetKeys = []string{"ibibio", "target", "target_text", "targetText"}
)

// Transform validates raw records into strict dictionary entries. Records
// lacking a usable source or target text after synonym resolution are
// rejected with a logged reason, never silently coerced.
func Transform(records []RawRecord) ([]domain.DictionaryEntry, []SkippedRecord) {
	entries := make([]domain.DictionaryEntry, 0, len(records))
	var skipped []SkippedRecord

	for i, raw := range records {
		entry, err := transformOne(raw)
		if err != nil {
			log.Printf("ingest: skipping record %d: %v", i, err)
			skipped = append(skipped, SkippedRecord{Index: i, Reason: err.Error()})
			continue
		}
		entries = append(entries, entry)
	}
	return entries, skipped
}

func transformOne(raw RawRecord) (domain.DictionaryEntry, error) {
	source := stringField(raw, sourceKeys)
	target := stringField(raw, targetKeys)
	if source == "" {
		return domain.DictionaryEntry{}, fmt.Errorf("no source text under any of %v", sourceKeys)
	}
	if target == "" {
		return domain.DictionaryEntry{}, fmt.Errorf("no target text under any of %v", targetKeys)
	}

	entry := domain.DictionaryEntry{
		ID:            stringField(raw, []string{"id"}),
		SourceText:    source,
		TargetText:    target,
		Meaning:       stringField(raw, meaningKeys),
		PartOfSpeech:  stringField(raw, posKeys),
		Pronunciation: stringField(raw, pronunciationKeys),
		CulturalNote:  stringField(raw, culturalKeys),
		Category:      stringField(raw, categoryKeys),
		Examples:      exampleField(raw),
	}
	if entry.ID == "" {
		entry.ID = deriveID(source, target)
	}
	return entry, nil
}

// stringField returns the first non-empty string value among the synonym
// keys. Non-string values are rejected, not coerced.
func stringField(raw RawRecord, keys []string) string {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok {
			continue
		}
		s, ok := v.(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		if s != "" {
			return s
		}
	}
	return ""
}

func exampleField(raw RawRecord) []domain.ExamplePair {
	v, ok := raw["examples"]
	if !ok {
		return nil
	}
	list, ok := v.([]interface{})
	if !ok {
		return nil
	}

	var pairs []domain.ExamplePair
	for _, item := range list {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		pair := domain.ExamplePair{
			SourceText: stringField(RawRecord(m), exampleSourceKeys),
			TargetText: stringField(RawRecord(m), exampleTargetKeys),
		}
		if pair.SourceText != "" && pair.TargetText != "" {
			pairs = append(pairs, pair)
		}
	}
	return pairs
}

// deriveID builds a stable id for records without one, so re-imports of the
// same data overwrite rather than duplicate.
func deriveID(source, target string) string {
	hash := sha256.Sum256([]byte(strings.ToLower(source) + "\x00" + strings.ToLower(target)))
	return "entry-" + hex.EncodeToString(hash[:6])
}
