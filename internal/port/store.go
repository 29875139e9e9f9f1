package port

import "usem/internal/domain"

// EntryStore persists dictionary entries and disambiguation rules.
type EntryStore interface {
	PutEntries(entries []domain.DictionaryEntry) error

	ListEntries() ([]domain.DictionaryEntry, error)

	DeleteEntries() error

	PutRule(rule domain.DisambiguationRule) error

	GetRule(word string) (domain.DisambiguationRule, bool, error)

	ListRules() ([]domain.DisambiguationRule, error)

	Close() error
}

// KVStore is byte-level key-value storage backing the result cache.
// A nil value with a nil error means the key is absent. Implementations
// must tolerate corruption and unavailability; the cache treats every
// error as a miss or a no-op write.
type KVStore interface {
	Get(key string) ([]byte, error)

	Set(key string, value []byte) error

	Remove(key string) error

	Keys() ([]string, error)
}
