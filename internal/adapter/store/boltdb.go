package store

import (
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"
	"usem/internal/domain"
	"usem/internal/port"
)

var (
	bucketEntries = []byte("entries")
	bucketRules   = []byte("rules")
	bucketCache   = []byte("cache")
)

// BoltStore persists dictionary entries, disambiguation rules, and the
// serialized result cache in a single bbolt file.
type BoltStore struct {
	db *bbolt.DB
}

// NewBoltStore opens (or creates) the database at path.
func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketEntries, bucketRules, bucketCache} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

// PutEntries writes entries in one transaction, keyed by id.
func (s *BoltStore) PutEntries(entries []domain.DictionaryEntry) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketEntries)
		for _, e := range entries {
			data, err := json.Marshal(e)
			if err != nil {
				return fmt.Errorf("marshal entry %s: %w", e.ID, err)
			}
			if err := b.Put([]byte(e.ID), data); err != nil {
				return err
			}
		}
		return nil
	})
}

// ListEntries returns every stored entry.
func (s *BoltStore) ListEntries() ([]domain.DictionaryEntry, error) {
	var entries []domain.DictionaryEntry
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketEntries).ForEach(func(k, v []byte) error {
			var e domain.DictionaryEntry
			if err := json.Unmarshal(v, &e); err != nil {
				return fmt.Errorf("unmarshal entry %s: %w", k, err)
			}
			entries = append(entries, e)
			return nil
		})
	})
	return entries, err
}

// DeleteEntries drops the whole entry collection. The working set is
// replaced wholesale on reload, never patched.
func (s *BoltStore) DeleteEntries() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(bucketEntries); err != nil {
			return err
		}
		_, err := tx.CreateBucket(bucketEntries)
		return err
	})
}

// PutRule stores a disambiguation rule keyed by its normalized word.
func (s *BoltStore) PutRule(rule domain.DisambiguationRule) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(rule)
		if err != nil {
			return fmt.Errorf("marshal rule %s: %w", rule.Word, err)
		}
		return tx.Bucket(bucketRules).Put([]byte(rule.Word), data)
	})
}

// GetRule fetches the rule for word; ok is false when none exists.
func (s *BoltStore) GetRule(word string) (domain.DisambiguationRule, bool, error) {
	var rule domain.DisambiguationRule
	found := false
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketRules).Get([]byte(word))
		if data == nil {
			return nil
		}
		if err := json.Unmarshal(data, &rule); err != nil {
			return fmt.Errorf("unmarshal rule %s: %w", word, err)
		}
		found = true
		return nil
	})
	return rule, found, err
}

// ListRules returns every stored rule.
func (s *BoltStore) ListRules() ([]domain.DisambiguationRule, error) {
	var rules []domain.DisambiguationRule
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketRules).ForEach(func(k, v []byte) error {
			var r domain.DisambiguationRule
			if err := json.Unmarshal(v, &r); err != nil {
				return fmt.Errorf("unmarshal rule %s: %w", k, err)
			}
			rules = append(rules, r)
			return nil
		})
	})
	return rules, err
}

// Cache exposes the cache bucket as the KV collaborator the result cache
// serializes through.
func (s *BoltStore) Cache() port.KVStore {
	return &boltKV{db: s.db}
}

// Close closes the underlying database.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

type boltKV struct {
	db *bbolt.DB
}

func (kv *boltKV) Get(key string) ([]byte, error) {
	var out []byte
	err := kv.db.View(func(tx *bbolt.Tx) error {
		if data := tx.Bucket(bucketCache).Get([]byte(key)); data != nil {
			out = append([]byte(nil), data...)
		}
		return nil
	})
	return out, err
}

func (kv *boltKV) Set(key string, value []byte) error {
	return kv.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketCache).Put([]byte(key), value)
	})
}

func (kv *boltKV) Remove(key string) error {
	return kv.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketCache).Delete([]byte(key))
	})
}

func (kv *boltKV) Keys() ([]string, error) {
	var keys []string
	err := kv.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketCache).ForEach(func(k, _ []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	})
	return keys, err
}
