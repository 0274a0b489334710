// Package listview implements the snapshot-backed list pipeline used by the
// catalog and receiving screens: filter a full in-memory snapshot with a
// structured spec, sort deterministically, window into pages, and derive
// summary stats over the whole filtered set. Every stage is a pure function
// of (snapshot, filter, sort, page) so results are replayable in tests.
package listview

import "strings"

// NumberRange bounds a numeric field inclusively. A nil bound is
// unconstrained; an explicit zero is an active bound.
type NumberRange struct {
	Min *float64
	Max *float64
}

// DateRange bounds a date field inclusively. Dates are canonical YYYY-MM-DD
// strings, compared lexicographically. An empty bound is unconstrained.
type DateRange struct {
	From string
	To   string
}

// FilterSpec is the structured filter configuration owned by a screen
// session. The zero value matches every record: filtering only ever narrows.
type FilterSpec struct {
	Search       string
	Exact        map[string]string
	NumberRanges map[string]NumberRange
	DateRanges   map[string]DateRange
	Flags        map[string]bool
}

// Clone returns a deep copy so a committed spec cannot be mutated by the
// caller afterwards.
func (f FilterSpec) Clone() FilterSpec {
	out := FilterSpec{Search: f.Search}
	if f.Exact != nil {
		out.Exact = make(map[string]string, len(f.Exact))
		for k, v := range f.Exact {
			out.Exact[k] = v
		}
	}
	if f.NumberRanges != nil {
		out.NumberRanges = make(map[string]NumberRange, len(f.NumberRanges))
		for k, v := range f.NumberRanges {
			out.NumberRanges[k] = v
		}
	}
	if f.DateRanges != nil {
		out.DateRanges = make(map[string]DateRange, len(f.DateRanges))
		for k, v := range f.DateRanges {
			out.DateRanges[k] = v
		}
	}
	if f.Flags != nil {
		out.Flags = make(map[string]bool, len(f.Flags))
		for k, v := range f.Flags {
			out.Flags[k] = v
		}
	}
	return out
}

// Schema declares how filtering, sorting and identity work for one record
// type. Consuming screens build one Schema per entity and share it.
type Schema[T any] struct {
	// ID returns the record's stable unique identifier. It is the fixed
	// secondary sort key, so ordering is deterministic across repeated calls.
	ID func(T) string

	// SearchFields are the text fields the free-text search matches against.
	SearchFields []func(T) string

	// ExactFields, NumberFields, DateFields and FlagFields resolve named
	// filter clauses to record values.
	ExactFields  map[string]func(T) string
	NumberFields map[string]func(T) float64
	DateFields   map[string]func(T) string
	FlagFields   map[string]func(T) bool

	// SortFields maps sort keys to comparators returning <0, 0 or >0.
	SortFields map[string]func(a, b T) int

	// DefaultSort is applied when a session resets or receives no sort.
	DefaultSort SortSpec
}

// Match reports whether the record satisfies every active clause of the
// spec. Clause categories combine with AND; the free-text search ORs only
// across its own declared field list.
func (s Schema[T]) Match(rec T, spec FilterSpec) bool {
	if search := strings.TrimSpace(spec.Search); search != "" {
		needle := strings.ToLower(search)
		found := false
		for _, field := range s.SearchFields {
			if strings.Contains(strings.ToLower(field(rec)), needle) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	for name, want := range spec.Exact {
		if want == "" {
			continue // empty exact-match value means the filter is inactive
		}
		field, ok := s.ExactFields[name]
		if !ok || field(rec) != want {
			return false
		}
	}

	for name, rng := range spec.NumberRanges {
		if rng.Min == nil && rng.Max == nil {
			continue
		}
		field, ok := s.NumberFields[name]
		if !ok {
			return false
		}
		v := field(rec)
		if rng.Min != nil && v < *rng.Min {
			return false
		}
		if rng.Max != nil && v > *rng.Max {
			return false
		}
	}

	for name, rng := range spec.DateRanges {
		if rng.From == "" && rng.To == "" {
			continue
		}
		field, ok := s.DateFields[name]
		if !ok {
			return false
		}
		v := field(rec)
		if rng.From != "" && v < rng.From {
			return false
		}
		if rng.To != "" && v > rng.To {
			return false
		}
	}

	for name, want := range spec.Flags {
		if !want {
			continue // only a true flag activates its predicate
		}
		pred, ok := s.FlagFields[name]
		if !ok || !pred(rec) {
			return false
		}
	}

	return true
}

// Filter returns the records matching the spec, preserving input order.
func (s Schema[T]) Filter(recs []T, spec FilterSpec) []T {
	out := make([]T, 0, len(recs))
	for _, rec := range recs {
		if s.Match(rec, spec) {
			out = append(out, rec)
		}
	}
	return out
}
