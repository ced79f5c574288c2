package surface

import "sync/atomic"

// Scheduler coalesces redraw requests: however many arrive between two
// frames, notify runs once and one frame is painted.
type Scheduler struct {
	pending atomic.Bool
	notify  func()
}

// NewScheduler returns a Scheduler that calls notify when a frame becomes
// pending. notify must not block.
func NewScheduler(notify func()) *Scheduler {
	return &Scheduler{notify: notify}
}

// Request marks a frame as pending. It reports false when one already was.
func (s *Scheduler) Request() bool {
	if !s.pending.CompareAndSwap(false, true) {
		return false
	}
	if s.notify != nil {
		s.notify()
	}
	return true
}

// Begin is called as a frame starts painting; requests made after it will
// schedule the next frame. It reports whether a frame had been requested.
func (s *Scheduler) Begin() bool {
	return s.pending.Swap(false)
}

// Pending reports whether a frame is waiting to be painted.
func (s *Scheduler) Pending() bool {
	return s.pending.Load()
}
