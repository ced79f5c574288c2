package box

import (
	"sync"
	"time"
)

// Collection is an ordered set of boxes; order is creation order and
// therefore render order.
type Collection []Box

// Clone returns an independent copy of c.
func (c Collection) Clone() Collection {
	if c == nil {
		return Collection{}
	}
	out := make(Collection, len(c))
	copy(out, c)
	return out
}

// Index returns the position of the box with the given id, or -1.
func (c Collection) Index(id int64) int {
	for i := range c {
		if c[i].ID == id {
			return i
		}
	}
	return -1
}

// Find returns the box with the given id.
func (c Collection) Find(id int64) (Box, bool) {
	if i := c.Index(id); i >= 0 {
		return c[i], true
	}
	return Box{}, false
}

// With returns a copy of c with b appended.
func (c Collection) With(b Box) Collection {
	out := make(Collection, len(c), len(c)+1)
	copy(out, c)
	return append(out, b)
}

// Replace returns a copy of c where the entry sharing b's id is swapped for b.
// The result equals c.Clone() when no entry matches.
func (c Collection) Replace(b Box) Collection {
	out := c.Clone()
	if i := out.Index(b.ID); i >= 0 {
		out[i] = b
	}
	return out
}

// Without returns a copy of c minus the box with the given id.
func (c Collection) Without(id int64) Collection {
	out := make(Collection, 0, len(c))
	for _, b := range c {
		if b.ID != id {
			out = append(out, b)
		}
	}
	return out
}

// IDSource hands out creation-time derived ids that are unique and strictly
// increasing within a session even when the clock stalls.
type IDSource struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

// NewIDSource returns an IDSource using now, or time.Now when nil.
func NewIDSource(now func() time.Time) *IDSource {
	if now == nil {
		now = time.Now
	}
	return &IDSource{now: now}
}

// Next returns the next id.
func (s *IDSource) Next() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.now().UnixMilli()
	if id <= s.last {
		id = s.last + 1
	}
	s.last = id
	return id
}
