package listview

import "sort"

type Direction int

const (
	Ascending Direction = iota
	Descending
)

// SortSpec orders the filtered set by a schema sort key. Ties are always
// broken by ascending record ID so pagination is reproducible.
type SortSpec struct {
	Key       string
	Direction Direction
}

// PageSpec windows the sorted set. Page is 1-based.
type PageSpec struct {
	Page     int
	PageSize int
}

// PageResult is one page of the filtered, sorted set plus its totals.
// TotalItems and TotalPages describe the whole filtered set, not the page.
type PageResult[T any] struct {
	Items      []T
	TotalItems int
	TotalPages int
}

// TotalPages computes ceil(total/pageSize); 0 when the set is empty.
func TotalPages(totalItems, pageSize int) int {
	if totalItems <= 0 || pageSize <= 0 {
		return 0
	}
	return (totalItems + pageSize - 1) / pageSize
}

// ClampPage clamps a requested page into [1, max(totalPages, 1)].
func ClampPage(page, totalPages int) int {
	if page < 1 {
		return 1
	}
	if totalPages < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// Apply stable-sorts recs by the sort spec and slices out the requested
// page. An out-of-range page yields an empty Items slice rather than an
// error; callers clamp at the session level.
func (s Schema[T]) Apply(recs []T, sortSpec SortSpec, page PageSpec) PageResult[T] {
	sorted := make([]T, len(recs))
	copy(sorted, recs)

	cmp := s.SortFields[sortSpec.Key]
	if cmp == nil {
		cmp = s.SortFields[s.DefaultSort.Key]
		sortSpec.Direction = s.DefaultSort.Direction
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		if cmp != nil {
			c := cmp(sorted[i], sorted[j])
			if sortSpec.Direction == Descending {
				c = -c
			}
			if c != 0 {
				return c < 0
			}
		}
		return s.ID(sorted[i]) < s.ID(sorted[j])
	})

	result := PageResult[T]{
		TotalItems: len(sorted),
		TotalPages: TotalPages(len(sorted), page.PageSize),
	}

	if page.PageSize <= 0 || page.Page < 1 {
		result.Items = []T{}
		return result
	}

	start := (page.Page - 1) * page.PageSize
	if start >= len(sorted) {
		result.Items = []T{}
		return result
	}
	end := start + page.PageSize
	if end > len(sorted) {
		end = len(sorted)
	}
	result.Items = sorted[start:end]
	return result
}

// CompareStrings is a comparator helper for string sort keys.
func CompareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// CompareFloats is a comparator helper for numeric sort keys.
func CompareFloats(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
