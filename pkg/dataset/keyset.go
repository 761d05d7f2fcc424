// CLAUDE:SUMMARY Gob-persisted set of canonical name keys, used to carry dedup state across files in watch mode.
package dataset

import (
	"encoding/gob"
	"fmt"
	"os"
)

// KeySet is the set of canonical keys already emitted. It is local to
// one dedup pass (or one watch session) and is not safe for concurrent
// use.
type KeySet struct {
	// gob refuses values with no exported fields, so the set is a
	// map to bool rather than to struct{}.
	keys map[string]bool
}

// NewKeySet returns an empty key set.
func NewKeySet() *KeySet {
	return &KeySet{keys: make(map[string]bool)}
}

// Contains reports whether key was already added.
func (k *KeySet) Contains(key string) bool {
	return k.keys[key]
}

// Add marks key as seen.
func (k *KeySet) Add(key string) {
	k.keys[key] = true
}

// Len returns the number of distinct keys.
func (k *KeySet) Len() int {
	return len(k.keys)
}

// Save serializes the set to a gob file at path.
func (k *KeySet) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create keyset file: %w", err)
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(k.keys); err != nil {
		return fmt.Errorf("encode keyset: %w", err)
	}
	return nil
}

// LoadKeySet deserializes a set previously written by Save.
func LoadKeySet(path string) (*KeySet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open keyset file: %w", err)
	}
	defer f.Close()

	k := NewKeySet()
	if err := gob.NewDecoder(f).Decode(&k.keys); err != nil {
		return nil, fmt.Errorf("decode keyset: %w", err)
	}
	return k, nil
}
