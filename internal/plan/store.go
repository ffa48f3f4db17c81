package plan

import (
	"sync"
	"time"
)

// Store owns the week window for the lifetime of a session. The backend
// stays the system of record; the store is only synchronized on explicit
// save or import. Reads always see a complete immutable snapshot.
type Store struct {
	mu      sync.RWMutex
	week    *WeekPlan
	loading bool
	loadGen uint64

	// saveMu serializes saves: a save issued while another is in flight
	// waits its turn rather than racing it. Last write wins.
	saveMu sync.Mutex
}

// LoadToken tags an in-flight week load with the window it was issued
// for. A completion whose token no longer matches the current window is
// discarded silently, which closes the stale-response race on fast week
// navigation.
type LoadToken struct {
	WeekStart time.Time
	gen       uint64
}

// NewStore creates a store positioned on the week containing start, with
// an empty skeleton so readers never see missing days or slots.
func NewStore(start time.Time) *Store {
	return &Store{week: NewWeek(start)}
}

// Week returns the current snapshot.
func (s *Store) Week() *WeekPlan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.week
}

// WeekStart returns the Monday anchoring the current window.
func (s *Store) WeekStart() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.week.Start
}

// Loading reports whether a week load is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Navigate moves the window to the week containing start, discarding any
// unsaved edits, and begins a new load. The returned token must be
// passed back to Complete or Fail.
func (s *Store) Navigate(start time.Time) LoadToken {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.week = NewWeek(start)
	s.loading = true
	s.loadGen++
	return LoadToken{WeekStart: s.week.Start, gen: s.loadGen}
}

// BeginLoad starts a (re)load of the current window without discarding
// local state.
func (s *Store) BeginLoad() LoadToken {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = true
	s.loadGen++
	return LoadToken{WeekStart: s.week.Start, gen: s.loadGen}
}

// Complete applies a loaded week if tok still matches the latest load.
// Returns false when the result is stale and was discarded.
func (s *Store) Complete(tok LoadToken, w *WeekPlan) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tok.gen != s.loadGen || !tok.WeekStart.Equal(s.week.Start) {
		return false
	}
	s.week = w
	s.loading = false
	return true
}

// Fail clears the loading flag for a failed load, leaving the skeleton
// in place so the caller can retry. Stale failures are ignored.
func (s *Store) Fail(tok LoadToken) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tok.gen != s.loadGen || !tok.WeekStart.Equal(s.week.Start) {
		return false
	}
	s.loading = false
	return true
}

// Apply runs a mutation against the current snapshot and swaps in the
// result. The mutation must not modify its input; all plan operations
// return fresh snapshots, so this holds by construction.
func (s *Store) Apply(mutate func(*WeekPlan) (*WeekPlan, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := mutate(s.week)
	if err != nil {
		return err
	}
	s.week = next
	return nil
}

// Replace swaps the window wholesale, as an import does. Any in-flight
// load for the previous window becomes stale.
func (s *Store) Replace(w *WeekPlan) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.week = w
	s.loading = false
	s.loadGen++
}

// Save runs fn under the per-store save lock so concurrent saves are
// serialized, last write wins. The snapshot passed to fn is the one
// current when its turn arrives.
func (s *Store) Save(fn func(*WeekPlan) error) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	return fn(s.Week())
}
