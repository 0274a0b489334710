package listview

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MutationKind identifies a local snapshot correction after a persisted
// create, update or delete has succeeded.
type MutationKind int

const (
	Insert MutationKind = iota
	Update
	Delete
)

// LoadError wraps a failed snapshot load. The previous snapshot, if any,
// stays intact so the screen keeps showing last-good data with a retry
// affordance instead of going blank.
type LoadError struct {
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("list snapshot load failed: %v", e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Loader fetches the full current collection from the persistence
// collaborator.
type Loader[T any] func(ctx context.Context) ([]T, error)

// Store holds the authoritative in-memory snapshot for one screen session.
// The snapshot is replaced wholesale on load/refresh and patched by id after
// a confirmed mutation, never merged field-by-field.
type Store[T any] struct {
	id      func(T) string
	loader  Loader[T]
	timeout time.Duration

	mu       sync.Mutex
	records  []T
	loaded   bool
	inflight *loadCall[T]
}

type loadCall[T any] struct {
	done    chan struct{}
	records []T
	err     error
}

// NewStore builds a store around a loader. The timeout bounds each load at
// the collaborator boundary so a hung backend fails visibly; pass 0 to rely
// on the caller's context alone.
func NewStore[T any](id func(T) string, loader Loader[T], timeout time.Duration) *Store[T] {
	return &Store[T]{id: id, loader: loader, timeout: timeout}
}

// Load fetches the collection and replaces the snapshot. Concurrent calls
// coalesce onto a single in-flight fetch; at most one load runs at a time
// per store. On failure the previous snapshot is retained and a *LoadError
// is returned.
func (s *Store[T]) Load(ctx context.Context) ([]T, error) {
	s.mu.Lock()
	if call := s.inflight; call != nil {
		s.mu.Unlock()
		select {
		case <-call.done:
			return call.records, call.err
		case <-ctx.Done():
			return nil, &LoadError{Err: ctx.Err()}
		}
	}

	call := &loadCall[T]{done: make(chan struct{})}
	s.inflight = call
	s.mu.Unlock()

	loadCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		loadCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	records, err := s.loader(loadCtx)

	s.mu.Lock()
	s.inflight = nil
	if err != nil {
		call.err = &LoadError{Err: err}
	} else {
		s.records = records
		s.loaded = true
		call.records = records
	}
	s.mu.Unlock()
	close(call.done)

	return call.records, call.err
}

// Refresh reloads the snapshot with the same failure semantics as Load.
// Callers that already hold a snapshot keep rendering it while the refresh
// is in flight.
func (s *Store[T]) Refresh(ctx context.Context) error {
	_, err := s.Load(ctx)
	return err
}

// Loaded reports whether an initial load has completed successfully.
func (s *Store[T]) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Snapshot returns a copy of the current records.
func (s *Store[T]) Snapshot() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]T, len(s.records))
	copy(out, s.records)
	return out
}

// ApplyMutation patches the snapshot in place after a persisted mutation
// succeeded. It must not be called when the backing call failed; the
// snapshot is a cache of confirmed state, not an optimistic guess.
func (s *Store[T]) ApplyMutation(kind MutationKind, rec T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.id(rec)
	idx := -1
	for i, existing := range s.records {
		if s.id(existing) == id {
			idx = i
			break
		}
	}

	switch kind {
	case Insert:
		if idx < 0 {
			s.records = append(s.records, rec)
		} else {
			s.records[idx] = rec
		}
	case Update:
		if idx >= 0 {
			s.records[idx] = rec
		} else {
			s.records = append(s.records, rec)
		}
	case Delete:
		if idx >= 0 {
			s.records = append(s.records[:idx], s.records[idx+1:]...)
		}
	}
}
