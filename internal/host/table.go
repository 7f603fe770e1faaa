package host

import "fmt"

// Table is a host-owned, bounded, growable collection of entity records.
//
// INVARIANTS:
//   - Len() <= Max().
//   - At returns false for indexes outside [0, Len()).
//   - Grow appends records; existing indexes keep their identity. Pointers
//     returned by At before a Grow may be stale afterwards.
type Table[T any] interface {
	Len() int
	Max() int
	At(i int) (*T, bool)
	Grow(n int) error
}

// Slice is a Table backed by a Go slice.
type Slice[T any] struct {
	items []T
	max   int
	init  func(i int, item *T)
}

// NewSlice creates a table holding items with a hard maximum. init, when not
// nil, is applied to every record added by Grow.
func NewSlice[T any](items []T, limit int, init func(i int, item *T)) *Slice[T] {
	return &Slice[T]{items: items, max: limit, init: init}
}

// Len returns the number of records.
func (s *Slice[T]) Len() int { return len(s.items) }

// Max returns the hard maximum.
func (s *Slice[T]) Max() int { return s.max }

// At returns the record at i.
func (s *Slice[T]) At(i int) (*T, bool) {
	if i < 0 || i >= len(s.items) {
		return nil, false
	}
	return &s.items[i], true
}

// Grow appends n zero records, then runs init on each.
func (s *Slice[T]) Grow(n int) error {
	if n < 1 || len(s.items)+n > s.max {
		return fmt.Errorf("cannot grow table of %d by %d: maximum is %d", len(s.items), n, s.max)
	}
	start := len(s.items)
	grown := make([]T, start+n)
	copy(grown, s.items)
	s.items = grown
	if s.init != nil {
		for i := start; i < len(s.items); i++ {
			s.init(i, &s.items[i])
		}
	}
	return nil
}

// Items returns the backing records.
func (s *Slice[T]) Items() []T { return s.items }
