// Package continuation keeps the per-object move instruction buffers.
//
// A move instruction may run for many frames. The host interpreter keeps its
// progress (remaining wait ticks, accumulated angle) inside the buffer
// itself, so the buffer for an object must survive between frames and can be
// handed to the script for inclusion in a save game.
//
// INVARIANTS:
//   - At most one buffer exists per object id; buffers are never shared.
//   - Keys are stable object ids, so growing the object table does not
//     invalidate entries.
//   - A rejected LoadFromExternal leaves the existing buffer untouched.
package continuation

import (
	"log/slog"
	"sort"

	"github.com/roach88/ida/internal/bytecode"
)

// Store maps object ids to move instruction buffers.
//
// Store is not safe for concurrent use.
type Store struct {
	buffers map[int][]byte
	logger  *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for rejected loads.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		buffers: make(map[int][]byte),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Begin resets the buffer for id and writes the opcode byte.
func (s *Store) Begin(id int, opcode byte) {
	buf := s.buffers[id][:0]
	s.buffers[id] = append(buf, opcode)
}

// Push appends one encoded argument to the buffer for id.
func (s *Store) Push(id int, a bytecode.Arg) {
	s.buffers[id] = bytecode.AppendArg(s.buffers[id], a)
}

// Finalize appends the move terminator.
func (s *Store) Finalize(id int) {
	s.buffers[id] = append(s.buffers[id], bytecode.MoveEnd)
}

// Write replaces the buffer for id with the encoding of in.
func (s *Store) Write(id int, in bytecode.Instruction) {
	s.buffers[id] = in.AppendTo(s.buffers[id][:0])
}

// LoadFromExternal replaces the buffer for id with a copy of code when code
// is non-empty and starts with expected. It logs and returns false otherwise.
func (s *Store) LoadFromExternal(id int, code []byte, expected byte) bool {
	if len(code) == 0 {
		s.logger.Error("Error restoring move operation. The saved operation is empty",
			"object", id,
			"expected", expected,
		)
		return false
	}
	if code[0] != expected {
		s.logger.Error("Error restoring move operation. Expected opcode did not match the restored operation opcode",
			"object", id,
			"expected", expected,
			"actual", code[0],
		)
		return false
	}
	s.buffers[id] = append(s.buffers[id][:0], code...)
	return true
}

// Get returns the buffer for id. The slice aliases the store and is valid
// only until the next mutation of id. It is nil when id has no buffer.
func (s *Store) Get(id int) []byte {
	return s.buffers[id]
}

// Copy returns a copy of the buffer for id.
func (s *Store) Copy(id int) []byte {
	buf, ok := s.buffers[id]
	if !ok {
		return nil
	}
	return append([]byte(nil), buf...)
}

// Opcode returns the first byte of the buffer for id.
func (s *Store) Opcode(id int) (byte, bool) {
	buf := s.buffers[id]
	if len(buf) == 0 {
		return 0, false
	}
	return buf[0], true
}

// Clear drops the buffer for id.
func (s *Store) Clear(id int) {
	delete(s.buffers, id)
}

// Reset drops every buffer. Called on scene teardown.
func (s *Store) Reset() {
	clear(s.buffers)
}

// Len returns the number of objects with a buffer.
func (s *Store) Len() int {
	return len(s.buffers)
}

// Entry is one buffer in a snapshot.
type Entry struct {
	Object int
	Code   []byte
}

// Snapshot returns copies of all buffers ordered by object id.
func (s *Store) Snapshot() []Entry {
	ids := make([]int, 0, len(s.buffers))
	for id := range s.buffers {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	out := make([]Entry, len(ids))
	for i, id := range ids {
		out[i] = Entry{Object: id, Code: append([]byte(nil), s.buffers[id]...)}
	}
	return out
}
