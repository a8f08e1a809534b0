package filter

import (
	"iter"
	"slices"

	"golang.org/x/text/unicode/norm"
)

// Filter is an ordered mapping of filter keys to values.
// The zero value is an empty filter ready to use.
type Filter struct {
	keys   []string
	values map[string]Value
}

// NormalizeKey returns key in Unicode NFC form, the form Filter stores keys in.
func NormalizeKey(key string) string {
	return norm.NFC.String(key)
}

// NormalizeKeys returns a copy of keys with each key in NFC form. Column
// whitelists go through it so they compare equal to Filter keys.
func NormalizeKeys(keys []string) []string {
	if keys == nil {
		return nil
	}
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = NormalizeKey(k)
	}
	return out
}

// Pair is a key-value pair for ordered Filter construction.
type Pair struct {
	Key   string
	Value Value
}

// P is a shorthand for Pair.
// Example: New(P("column1", Int(1)), P("to_column2", NewTime(t)))
func P(key string, value Value) Pair {
	return Pair{Key: key, Value: value}
}

// New creates a Filter from pairs, in order.
func New(pairs ...Pair) *Filter {
	f := &Filter{values: make(map[string]Value, len(pairs))}
	for _, p := range pairs {
		f.Set(p.Key, p.Value)
	}
	return f
}

// Set stores value under key. Keys are NFC-normalized so that visually
// identical keys compare equal. Setting an existing key keeps its position.
// A nil value is stored as Null.
func (f *Filter) Set(key string, value Value) {
	key = NormalizeKey(key)
	if value == nil {
		value = Null{}
	}
	if f.values == nil {
		f.values = make(map[string]Value)
	}
	if _, exists := f.values[key]; !exists {
		f.keys = append(f.keys, key)
	}
	f.values[key] = value
}

// Get returns the value stored under key.
func (f *Filter) Get(key string) (Value, bool) {
	if f == nil {
		return nil, false
	}
	v, ok := f.values[NormalizeKey(key)]
	return v, ok
}

// Keys returns the keys in insertion order.
func (f *Filter) Keys() []string {
	if f == nil {
		return nil
	}
	return slices.Clone(f.keys)
}

// Len returns the number of keys.
func (f *Filter) Len() int {
	if f == nil {
		return 0
	}
	return len(f.keys)
}

// All iterates key-value pairs in insertion order.
func (f *Filter) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if f == nil {
			return
		}
		for _, k := range f.keys {
			if !yield(k, f.values[k]) {
				return
			}
		}
	}
}
