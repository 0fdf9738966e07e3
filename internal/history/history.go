// Package history implements a linear undo/redo stack. Pushing after an
// undo discards the redo branch.
package history

// History is a linear sequence of values with a cursor. The zero value is
// not usable; construct with New.
type History[T any] struct {
	initial T
	entries []T
	index   int
	limit   int
}

// Option configures a History.
type Option func(*options)

type options struct {
	limit int
}

// WithLimit caps the number of retained entries. When a push exceeds the
// limit the oldest entries are dropped. Values below 1 mean unlimited.
func WithLimit(n int) Option {
	return func(o *options) { o.limit = n }
}

// New returns a history holding only initial.
func New[T any](initial T, opts ...Option) *History[T] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return &History[T]{
		initial: initial,
		entries: []T{initial},
		limit:   o.limit,
	}
}

// Current returns the value at the cursor.
func (h *History[T]) Current() T {
	return h.entries[h.index]
}

// Push truncates everything after the cursor, appends v and moves the
// cursor to it.
func (h *History[T]) Push(v T) {
	h.entries = append(h.entries[:h.index+1], v)
	h.index = len(h.entries) - 1

	if h.limit > 0 && len(h.entries) > h.limit {
		drop := len(h.entries) - h.limit
		h.entries = append([]T(nil), h.entries[drop:]...)
		h.index -= drop
	}
}

// Undo moves the cursor back one entry and returns the new current value.
// It is a no-op at the start.
func (h *History[T]) Undo() T {
	if h.index > 0 {
		h.index--
	}
	return h.Current()
}

// Redo moves the cursor forward one entry and returns the new current
// value. It is a no-op at the end.
func (h *History[T]) Redo() T {
	if h.index < len(h.entries)-1 {
		h.index++
	}
	return h.Current()
}

// Reset discards everything and returns to the initial value.
func (h *History[T]) Reset() {
	h.entries = []T{h.initial}
	h.index = 0
}

// CanUndo reports whether Undo would move the cursor.
func (h *History[T]) CanUndo() bool { return h.index > 0 }

// CanRedo reports whether Redo would move the cursor.
func (h *History[T]) CanRedo() bool { return h.index < len(h.entries)-1 }

// Len returns the number of entries.
func (h *History[T]) Len() int { return len(h.entries) }

// Index returns the cursor position.
func (h *History[T]) Index() int { return h.index }
