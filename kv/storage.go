package kv

import (
	"iter"

	"github.com/indigo-web/utils/strcomp"
)

type Pair struct {
	Key, Value string
}

// Storage is an associative structure for storing (string, string) pairs. Lookup is
// case-insensitive, yet the original spelling of keys is preserved. It acts as a map
// but uses linear search instead, which proves to be more efficient on relatively
// low amount of entries, which headers practically always are.
type Storage struct {
	pairs []Pair
}

func New() *Storage {
	return new(Storage)
}

// NewPrealloc returns an instance of Storage with pre-allocated underlying storage.
func NewPrealloc(n int) *Storage {
	return &Storage{
		pairs: make([]Pair, 0, n),
	}
}

// NewFromMap returns a new instance with already inserted values from given map.
// Note: as maps are unordered, resulting underlying structure will also contain
// unordered pairs.
func NewFromMap(m map[string][]string) *Storage {
	kv := NewPrealloc(len(m))

	for key, values := range m {
		for _, value := range values {
			kv.Add(key, value)
		}
	}

	return kv
}

// Add adds a new pair of key and value, no matter whether the key is already present.
func (s *Storage) Add(key, value string) *Storage {
	s.pairs = append(s.pairs, Pair{
		Key:   key,
		Value: value,
	})
	return s
}

// Set replaces all values of the key with the single passed one. The entry stays at
// the position of the first occurrence of the key, or is appended if there was none.
func (s *Storage) Set(key, value string) *Storage {
	found := false
	n := 0

	for _, pair := range s.pairs {
		if strcomp.EqualFold(pair.Key, key) {
			if found {
				continue
			}

			pair = Pair{Key: key, Value: value}
			found = true
		}

		s.pairs[n] = pair
		n++
	}

	s.pairs = s.pairs[:n]
	if !found {
		s.Add(key, value)
	}

	return s
}

// Delete removes all entries of the key.
func (s *Storage) Delete(key string) *Storage {
	n := 0

	for _, pair := range s.pairs {
		if strcomp.EqualFold(pair.Key, key) {
			continue
		}

		s.pairs[n] = pair
		n++
	}

	s.pairs = s.pairs[:n]
	return s
}

// Value returns the first value, corresponding to the key. Otherwise, empty string
// is returned.
func (s *Storage) Value(key string) string {
	return s.ValueOr(key, "")
}

// ValueOr returns either the first value corresponding to the key or custom value,
// defined via the second parameter.
func (s *Storage) ValueOr(key, or string) string {
	value, found := s.Get(key)
	if !found {
		return or
	}

	return value
}

// Get returns a value and a bool, indicating whether the value was found. If it
// wasn't, it'll be an empty string.
func (s *Storage) Get(key string) (value string, found bool) {
	for _, pair := range s.pairs {
		if strcomp.EqualFold(key, pair.Key) {
			return pair.Value, true
		}
	}

	return "", false
}

// Values returns an iterator over all the values of the key, in insertion order.
func (s *Storage) Values(key string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, pair := range s.pairs {
			if strcomp.EqualFold(pair.Key, key) && !yield(pair.Value) {
				break
			}
		}
	}
}

// Pairs returns an iterator over all the stored pairs, in insertion order.
func (s *Storage) Pairs() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, pair := range s.pairs {
			if !yield(pair.Key, pair.Value) {
				break
			}
		}
	}
}

// Keys returns an iterator over all unique presented keys.
func (s *Storage) Keys() iter.Seq[string] {
	return func(yield func(string) bool) {
		for i, pair := range s.pairs {
			if seenBefore(s.pairs[:i], pair.Key) {
				continue
			}

			if !yield(pair.Key) {
				break
			}
		}
	}
}

// Has indicates, whether there's an entry of the key.
func (s *Storage) Has(key string) bool {
	_, found := s.Get(key)
	return found
}

// Len returns a number of stored pairs.
func (s *Storage) Len() int {
	return len(s.pairs)
}

func (s *Storage) Empty() bool {
	return s.Len() == 0
}

// Clone creates a deep copy, which may be used later or stored somewhere safely.
// However, it comes at cost of an allocation.
func (s *Storage) Clone() *Storage {
	if len(s.pairs) == 0 {
		return New()
	}

	pairs := make([]Pair, len(s.pairs))
	copy(pairs, s.pairs)

	return &Storage{pairs: pairs}
}

// Expose exposes the underlying pairs slice.
func (s *Storage) Expose() []Pair {
	return s.pairs
}

// Clear all the entries. However, all the allocated space won't be freed.
func (s *Storage) Clear() *Storage {
	s.pairs = s.pairs[:0]
	return s
}

func seenBefore(pairs []Pair, key string) bool {
	for _, pair := range pairs {
		if strcomp.EqualFold(pair.Key, key) {
			return true
		}
	}

	return false
}
