// Package history provides a linear undo/redo sequence with a position
// cursor. Pushing after an undo discards the forward entries (branch
// truncation); undo and redo at the boundaries are defined no-ops. No
// operation returns an error.
package history

// History holds an append-only sequence of values and a cursor pointing at
// the current one. Entry 0 is always the initial value. Not safe for
// concurrent use; callers owning a session from multiple goroutines must
// synchronize externally.
type History[T any] struct {
	entries []T
	cursor  int
	initial T
}

// New creates a history whose single entry is the initial value.
func New[T any](initial T) *History[T] {
	return &History[T]{entries: []T{initial}, initial: initial}
}

// Current returns the value under the cursor.
func (h *History[T]) Current() T {
	return h.entries[h.cursor]
}

// Push records a new current value. Entries past the cursor are discarded
// first, so redo history is lost on a new write.
func (h *History[T]) Push(v T) {
	h.entries = append(h.entries[:h.cursor+1], v)
	h.cursor++
}

// Apply pushes the result of fn applied to the current value. fn is
// evaluated before any truncation happens.
func (h *History[T]) Apply(fn func(T) T) {
	h.Push(fn(h.Current()))
}

// Undo moves the cursor back one entry and returns the new current value.
// At the first entry it is a no-op.
func (h *History[T]) Undo() T {
	if h.cursor > 0 {
		h.cursor--
	}
	return h.entries[h.cursor]
}

// Redo moves the cursor forward one entry and returns the new current value.
// At the last entry it is a no-op.
func (h *History[T]) Redo() T {
	if h.cursor < len(h.entries)-1 {
		h.cursor++
	}
	return h.entries[h.cursor]
}

// Clear resets the history to the original initial value.
func (h *History[T]) Clear() {
	h.entries = h.entries[:0]
	h.entries = append(h.entries, h.initial)
	h.cursor = 0
}

// CanUndo reports whether Undo would move the cursor.
func (h *History[T]) CanUndo() bool { return h.cursor > 0 }

// CanRedo reports whether Redo would move the cursor.
func (h *History[T]) CanRedo() bool { return h.cursor < len(h.entries)-1 }

// Len returns the number of entries, including the initial value.
func (h *History[T]) Len() int { return len(h.entries) }

// Cursor returns the current cursor index.
func (h *History[T]) Cursor() int { return h.cursor }
