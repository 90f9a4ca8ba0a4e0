package document

import (
	"reflect"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// Entry is a single key/value pair of a Mapping.
type Entry struct {
	Key   string
	Value any
}

// Mapping is an insertion-ordered collection of uniquely keyed entries.
type Mapping struct {
	Entries []Entry
}

// Sequence is a position-sensitive list of document values.
type Sequence []any

// NewMapping constructs a Mapping from the provided entries, keeping their order.
func NewMapping(entries ...Entry) Mapping {
	mapping := Mapping{Entries: make([]Entry, 0, len(entries))}
	for _, entry := range entries {
		mapping.Set(entry.Key, entry.Value)
	}
	return mapping
}

// Set assigns value to key. Existing keys keep their position; new keys are appended.
func (mapping *Mapping) Set(key string, value any) {
	for entryIndex := range mapping.Entries {
		if mapping.Entries[entryIndex].Key == key {
			mapping.Entries[entryIndex].Value = value
			return
		}
	}
	mapping.Entries = append(mapping.Entries, Entry{Key: key, Value: value})
}

// Get returns the value stored under key.
func (mapping Mapping) Get(key string) (any, bool) {
	for _, entry := range mapping.Entries {
		if entry.Key == key {
			return entry.Value, true
		}
	}
	return nil, false
}

// Keys lists the mapping keys in insertion order.
func (mapping Mapping) Keys() []string {
	keys := make([]string, 0, len(mapping.Entries))
	for _, entry := range mapping.Entries {
		keys = append(keys, entry.Key)
	}
	return keys
}

// Len reports the number of entries.
func (mapping Mapping) Len() int {
	return len(mapping.Entries)
}

// Equal reports whether both mappings hold the same keys with recursively equal values.
// Key order is not significant.
func (mapping Mapping) Equal(other Mapping) bool {
	if len(mapping.Entries) != len(other.Entries) {
		return false
	}
	for _, entry := range mapping.Entries {
		otherValue, exists := other.Get(entry.Key)
		if !exists {
			return false
		}
		if !Equal(entry.Value, otherValue) {
			return false
		}
	}
	return true
}

// scalarComparisonOptions treat NaN as equal to itself and compare integer and float scalars by value.
var scalarComparisonOptions = cmp.Options{
	cmpopts.EquateNaNs(),
	cmp.FilterValues(isMixedNumericPair, cmp.Comparer(numericValuesEqual)),
}

// Equal reports whether two document values are structurally equal.
// An integer equals a float holding the same value.
func Equal(left any, right any) bool {
	return cmp.Equal(left, right, scalarComparisonOptions)
}

func isMixedNumericPair(left any, right any) bool {
	_, leftIsNumeric := numericValue(left)
	_, rightIsNumeric := numericValue(right)
	return leftIsNumeric && rightIsNumeric && reflect.TypeOf(left) != reflect.TypeOf(right)
}

func numericValuesEqual(left any, right any) bool {
	leftNumber, _ := numericValue(left)
	rightNumber, _ := numericValue(right)
	return leftNumber == rightNumber
}

func numericValue(value any) (float64, bool) {
	switch typedValue := value.(type) {
	case int:
		return float64(typedValue), true
	case int64:
		return float64(typedValue), true
	case uint64:
		return float64(typedValue), true
	case float64:
		return typedValue, true
	default:
		return 0, false
	}
}
