// Package handle provides arena-indexed references to script callables.
//
// Script functions that must outlive a single call (life handlers, the move
// handler, event subscribers) are parked in an Arena and addressed by Ref.
// The core only ever stores Refs; the runtime adapter owns the values.
//
// INVARIANTS:
//   - The zero Ref never resolves.
//   - A released Ref never resolves again, even after its slot is reused.
package handle

// Ref is an opaque reference into an Arena.
type Ref uint64

// Nil is the empty reference.
const Nil Ref = 0

// IsNil reports whether r is the empty reference.
func (r Ref) IsNil() bool { return r == Nil }

func (r Ref) index() int { return int(uint32(r)) - 1 }
func (r Ref) generation() uint32 { return uint32(r >> 32) }

func makeRef(index int, gen uint32) Ref {
	return Ref(uint64(gen)<<32 | uint64(uint32(index+1)))
}

type slot[T any] struct {
	value T
	gen   uint32
	live  bool
}

// Arena stores values behind generation-checked references.
// Not safe for concurrent use.
type Arena[T any] struct {
	slots []slot[T]
	free  []int
	live  int
}

// Put stores v and returns its reference.
func (a *Arena[T]) Put(v T) Ref {
	var i int
	if n := len(a.free); n > 0 {
		i = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		a.slots = append(a.slots, slot[T]{})
		i = len(a.slots) - 1
	}
	s := &a.slots[i]
	s.gen++
	s.value = v
	s.live = true
	a.live++
	return makeRef(i, s.gen)
}

// Get resolves r.
func (a *Arena[T]) Get(r Ref) (T, bool) {
	var zero T
	s, ok := a.lookup(r)
	if !ok {
		return zero, false
	}
	return s.value, true
}

// Release frees r. Releasing Nil or a stale reference does nothing.
func (a *Arena[T]) Release(r Ref) {
	s, ok := a.lookup(r)
	if !ok {
		return
	}
	var zero T
	s.value = zero
	s.live = false
	a.free = append(a.free, r.index())
	a.live--
}

// Len returns the number of live references.
func (a *Arena[T]) Len() int { return a.live }

// Reset releases every reference.
func (a *Arena[T]) Reset() {
	for i := range a.slots {
		if a.slots[i].live {
			a.Release(makeRef(i, a.slots[i].gen))
		}
	}
}

func (a *Arena[T]) lookup(r Ref) (*slot[T], bool) {
	if r.IsNil() {
		return nil, false
	}
	i := r.index()
	if i < 0 || i >= len(a.slots) {
		return nil, false
	}
	s := &a.slots[i]
	if !s.live || s.gen != r.generation() {
		return nil, false
	}
	return s, true
}
