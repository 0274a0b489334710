package listview

import (
	"context"
	"sync"
	"time"
)

// Stats is the summary derived from the whole filtered set (not the visible
// page): counts, sums, outstanding totals and the like.
type Stats map[string]float64

// StatsFunc computes Stats over the filtered records.
type StatsFunc[T any] func(records []T) Stats

// View is what a session exposes to its presentation layer: the current
// page plus pagination metadata, stats and loading/error flags.
type View[T any] struct {
	Items      []T
	TotalItems int
	TotalPages int
	Page       int
	PageSize   int
	Stats      Stats
	Loading    bool
	Err        error
}

// Session owns the filter, sort and pagination state for one list screen
// over one Store. Filter-input changes are debounced through a Controller;
// superseded evaluations are discarded so visible state always reflects the
// most recent input.
type Session[T any] struct {
	schema  Schema[T]
	store   *Store[T]
	ctrl    *Controller
	reload  *Controller
	statsFn StatsFunc[T]

	mu         sync.Mutex
	filter     FilterSpec
	pending    FilterSpec
	hasPending bool
	sort       SortSpec
	page       PageSpec
	view       View[T]
	loading    bool
	lastErr    error
}

// NewSession creates a session with the schema's default sort and the given
// page size. window configures the debounce; 0 uses the default.
func NewSession[T any](schema Schema[T], store *Store[T], statsFn StatsFunc[T], pageSize int, window time.Duration) *Session[T] {
	if pageSize < 1 {
		pageSize = 20
	}
	s := &Session[T]{
		schema:  schema,
		store:   store,
		ctrl:    NewController(window),
		reload:  NewController(window),
		statsFn: statsFn,
		sort:    schema.DefaultSort,
		page:    PageSpec{Page: 1, PageSize: pageSize},
	}
	s.view = View[T]{Items: []T{}, Page: 1, PageSize: pageSize, Stats: Stats{}}
	return s
}

// Load performs the initial snapshot fetch and computes the first view.
// On failure the previous view (if any) is retained alongside the error.
func (s *Session[T]) Load(ctx context.Context) error {
	s.setLoading(true)
	_, err := s.store.Load(ctx)
	s.setLoading(false)

	s.mu.Lock()
	s.lastErr = err
	if err == nil {
		s.recomputeLocked()
	} else {
		s.view.Err = err
	}
	s.mu.Unlock()
	return err
}

// Refresh reloads the snapshot and recomputes the view while preserving the
// active filter, sort and (clamped) page.
func (s *Session[T]) Refresh(ctx context.Context) error {
	return s.Load(ctx)
}

// ScheduleRefresh coalesces bursts of refresh requests (typically fired by
// mutation events) into a single reload after the debounce window. Reloads
// run on their own controller: a filter edit or CommitNow arriving inside
// the window must never cancel a pending reload, or a mutation's record
// would stay invisible until some unrelated later event.
func (s *Session[T]) ScheduleRefresh(ctx context.Context) {
	s.reload.Submit(func(seq uint64) {
		_, err := s.store.Load(ctx)
		s.reload.Commit(seq, func() {
			s.mu.Lock()
			s.lastErr = err
			if err == nil {
				s.recomputeLocked()
			} else {
				s.view.Err = err
			}
			s.mu.Unlock()
		})
	})
}

// SetSearch updates the free-text search. The evaluation is debounced;
// rapid keystrokes collapse into one recompute using the last text.
func (s *Session[T]) SetSearch(text string) {
	s.stageFilter(func(spec *FilterSpec) {
		spec.Search = text
	})
}

// SetExact sets or clears (empty value) an exact-match filter field.
func (s *Session[T]) SetExact(name, value string) {
	s.stageFilter(func(spec *FilterSpec) {
		if spec.Exact == nil {
			spec.Exact = map[string]string{}
		}
		spec.Exact[name] = value
	})
}

// SetNumberRange sets a numeric range filter. Nil bounds are unconstrained;
// an explicit zero is an active bound.
func (s *Session[T]) SetNumberRange(name string, min, max *float64) {
	s.stageFilter(func(spec *FilterSpec) {
		if spec.NumberRanges == nil {
			spec.NumberRanges = map[string]NumberRange{}
		}
		spec.NumberRanges[name] = NumberRange{Min: min, Max: max}
	})
}

// SetDateRange sets an inclusive date range filter (YYYY-MM-DD bounds).
func (s *Session[T]) SetDateRange(name, from, to string) {
	s.stageFilter(func(spec *FilterSpec) {
		if spec.DateRanges == nil {
			spec.DateRanges = map[string]DateRange{}
		}
		spec.DateRanges[name] = DateRange{From: from, To: to}
	})
}

// SetFlag toggles a derived boolean predicate filter.
func (s *Session[T]) SetFlag(name string, on bool) {
	s.stageFilter(func(spec *FilterSpec) {
		if spec.Flags == nil {
			spec.Flags = map[string]bool{}
		}
		spec.Flags[name] = on
	})
}

// ResetFilters restores the empty filter and default sort immediately,
// superseding any pending debounced evaluation.
func (s *Session[T]) ResetFilters() {
	s.mu.Lock()
	s.sort = s.schema.DefaultSort
	s.page.Page = 1
	s.pending = FilterSpec{}
	s.hasPending = true
	s.mu.Unlock()
	s.submitFilter(FilterSpec{})
	s.ctrl.Flush()
}

// CommitNow short-circuits the debounce window (the Enter-key path).
func (s *Session[T]) CommitNow() {
	s.ctrl.Flush()
}

// Loaded reports whether the backing store holds a good snapshot.
func (s *Session[T]) Loaded() bool {
	return s.store.Loaded()
}

// SetPageSize changes the window size and recomputes synchronously. The
// current page is clamped against the new page count.
func (s *Session[T]) SetPageSize(size int) {
	if size < 1 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page.PageSize = size
	s.recomputeLocked()
}

// SetPage moves to the requested page, clamped into range, and recomputes
// synchronously.
func (s *Session[T]) SetPage(page int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page.Page = page
	s.recomputeLocked()
}

// SetSort changes the ordering and recomputes synchronously. The filter and
// page are preserved (the page is clamped as usual).
func (s *Session[T]) SetSort(key string, dir Direction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sort = SortSpec{Key: key, Direction: dir}
	s.recomputeLocked()
}

// OnMutation patches the snapshot after a confirmed create/update/delete
// and recomputes synchronously against the corrected snapshot, keeping the
// user's filter, sort and page. If the active page empties out (last item
// on the last page deleted) the page clamps back.
func (s *Session[T]) OnMutation(kind MutationKind, rec T) {
	s.store.ApplyMutation(kind, rec)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recomputeLocked()
}

// View returns the current view. Safe to call from any goroutine.
func (s *Session[T]) View() View[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.view
	v.Loading = s.loading
	v.Err = s.lastErr
	return v
}

// Filter returns a copy of the committed filter spec.
func (s *Session[T]) Filter() FilterSpec {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter.Clone()
}

// Close tears the session down; no pending debounce or reload fires
// afterwards.
func (s *Session[T]) Close() {
	s.ctrl.Close()
	s.reload.Close()
}

// stageFilter mutates the staged (not yet committed) filter and schedules a
// debounced evaluation. Staging means successive edits to different fields
// inside one window accumulate instead of overwriting each other.
func (s *Session[T]) stageFilter(edit func(*FilterSpec)) {
	s.mu.Lock()
	base := s.filter
	if s.hasPending {
		base = s.pending
	}
	next := base.Clone()
	edit(&next)
	s.pending = next
	s.hasPending = true
	s.mu.Unlock()
	s.submitFilter(next)
}

// submitFilter schedules a debounced evaluation of the given spec. Only the
// most recent submission is evaluated, and only the most recent evaluation
// commits.
func (s *Session[T]) submitFilter(spec FilterSpec) {
	s.ctrl.Submit(func(seq uint64) {
		snapshot := s.store.Snapshot()
		filtered := s.schema.Filter(snapshot, spec)

		s.ctrl.Commit(seq, func() {
			s.mu.Lock()
			s.filter = spec
			s.hasPending = false
			s.page.Page = ClampPage(s.page.Page, TotalPages(len(filtered), s.page.PageSize))
			s.applyLocked(filtered)
			s.mu.Unlock()
		})
	})
}

// recomputeLocked rebuilds the view from the current snapshot and state.
// Callers hold s.mu.
func (s *Session[T]) recomputeLocked() {
	snapshot := s.store.Snapshot()
	filtered := s.schema.Filter(snapshot, s.filter)
	s.page.Page = ClampPage(s.page.Page, TotalPages(len(filtered), s.page.PageSize))
	s.applyLocked(filtered)
}

func (s *Session[T]) applyLocked(filtered []T) {
	result := s.schema.Apply(filtered, s.sort, s.page)
	stats := Stats{}
	if s.statsFn != nil {
		stats = s.statsFn(filtered)
	}
	s.view = View[T]{
		Items:      result.Items,
		TotalItems: result.TotalItems,
		TotalPages: result.TotalPages,
		Page:       s.page.Page,
		PageSize:   s.page.PageSize,
		Stats:      stats,
	}
	// lastErr is deliberately left alone: only a successful load clears it.
	// A page or sort change over a stale snapshot keeps the failure visible.
}

func (s *Session[T]) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}
