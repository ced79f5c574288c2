// Package history keeps a bounded undo/redo sequence of box collections.
package history

import "github.com/example/boxlabel/internal/box"

// Capacity is the default number of retained snapshots.
const Capacity = 15

// History is a bounded deque of snapshots with a cursor. The visible
// collection is always the entry under the cursor.
type History struct {
	entries  []box.Collection
	cursor   int
	capacity int
}

// New returns a history holding a single empty collection. A capacity below
// one falls back to Capacity.
func New(capacity int) *History {
	if capacity < 1 {
		capacity = Capacity
	}
	return &History{
		entries:  []box.Collection{{}},
		capacity: capacity,
	}
}

// Current returns a copy of the collection under the cursor.
func (h *History) Current() box.Collection {
	return h.entries[h.cursor].Clone()
}

// Commit drops any redo entries, appends c and moves the cursor onto it. The
// oldest entry is evicted when the capacity is exceeded.
func (h *History) Commit(c box.Collection) {
	h.entries = append(h.entries[:h.cursor+1], c.Clone())
	h.cursor++
	if over := len(h.entries) - h.capacity; over > 0 {
		h.entries = append([]box.Collection(nil), h.entries[over:]...)
		h.cursor -= over
	}
}

// Overwrite replaces the entry under the cursor without creating a new undo
// step. It is meant for in-progress previews only.
func (h *History) Overwrite(c box.Collection) {
	h.entries[h.cursor] = c.Clone()
}

// Undo moves the cursor back one entry. It reports false at the oldest entry.
func (h *History) Undo() bool {
	if h.cursor == 0 {
		return false
	}
	h.cursor--
	return true
}

// Redo moves the cursor forward one entry. It reports false at the newest
// entry.
func (h *History) Redo() bool {
	if h.cursor >= len(h.entries)-1 {
		return false
	}
	h.cursor++
	return true
}

// CanUndo reports whether Undo would move the cursor.
func (h *History) CanUndo() bool { return h.cursor > 0 }

// CanRedo reports whether Redo would move the cursor.
func (h *History) CanRedo() bool { return h.cursor < len(h.entries)-1 }

// Len returns the number of retained entries.
func (h *History) Len() int { return len(h.entries) }

// Cursor returns the index of the visible entry.
func (h *History) Cursor() int { return h.cursor }

// Clear discards every entry and starts again from an empty collection.
func (h *History) Clear() {
	h.entries = []box.Collection{{}}
	h.cursor = 0
}
