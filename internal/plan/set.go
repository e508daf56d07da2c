package plan

import (
	"sort"

	"github.com/skillvault/skillvault/internal/model"
)

// DedupeSort returns the canonical form of a record list: duplicates dropped
// keeping the first occurrence of each (source, name) key, then sorted
// ascending by source with name as tiebreak. Comparison is exact-string; no
// case folding is performed.
func DedupeSort(records []model.Record) []model.Record {
	seen := make(map[string]bool, len(records))
	out := make([]model.Record, 0, len(records))
	for _, r := range records {
		key := r.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Less(out[j])
	})
	return out
}

// Union returns the canonical union of two record lists.
func Union(a, b []model.Record) []model.Record {
	combined := make([]model.Record, 0, len(a)+len(b))
	combined = append(combined, a...)
	combined = append(combined, b...)
	return DedupeSort(combined)
}

// Difference returns the elements of a whose (source, name) key has no exact
// match in b, preserving a's order. When a is already canonical the result
// is canonical as a consequence.
func Difference(a, b []model.Record) []model.Record {
	inB := make(map[string]bool, len(b))
	for _, r := range b {
		inB[r.Key()] = true
	}

	out := make([]model.Record, 0, len(a))
	for _, r := range a {
		if !inB[r.Key()] {
			out = append(out, r)
		}
	}
	return out
}

// SetsEqual reports whether two record lists describe the same set. Both
// sides are canonicalized first, so the comparison is independent of input
// order and duplicates.
func SetsEqual(a, b []model.Record) bool {
	ca, cb := DedupeSort(a), DedupeSort(b)
	if len(ca) != len(cb) {
		return false
	}
	for i := range ca {
		if ca[i] != cb[i] {
			return false
		}
	}
	return true
}
