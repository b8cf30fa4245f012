package engine

import (
	"sync"
	"time"
)

// ManualScheduler is a deterministic Scheduler for tests
// Time moves only through Advance; due callbacks run synchronously on the caller
type ManualScheduler struct {
	mu     sync.Mutex
	now    time.Time
	timers []*manualTimer
	seq    uint64
}

type manualTimer struct {
	s       *ManualScheduler
	next    time.Time
	period  time.Duration // 0 = one-shot
	seq     uint64
	fn      func()
	stopped bool
}

func (t *manualTimer) Stop() {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	t.stopped = true
	t.s.removeLocked(t)
}

// NewManualScheduler creates a scheduler starting at the given time
func NewManualScheduler(start time.Time) *ManualScheduler {
	return &ManualScheduler{now: start}
}

// Now returns the current mocked time
func (m *ManualScheduler) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Every registers a periodic callback
func (m *ManualScheduler) Every(d time.Duration, fn func()) Timer {
	if d <= 0 {
		d = time.Nanosecond
	}
	return m.add(d, d, fn)
}

// After registers a one-shot callback
func (m *ManualScheduler) After(d time.Duration, fn func()) Timer {
	return m.add(d, 0, fn)
}

func (m *ManualScheduler) add(delay, period time.Duration, fn func()) *manualTimer {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	t := &manualTimer{
		s:      m,
		next:   m.now.Add(delay),
		period: period,
		seq:    m.seq,
		fn:     fn,
	}
	m.timers = append(m.timers, t)
	return t
}

func (m *ManualScheduler) removeLocked(t *manualTimer) {
	for i, o := range m.timers {
		if o == t {
			m.timers = append(m.timers[:i], m.timers[i+1:]...)
			return
		}
	}
}

// Advance moves time forward by d, firing every callback that falls due
// Callbacks fire in due-time order, ties in registration order
// Timers created or stopped by a callback take effect immediately
func (m *ManualScheduler) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	for {
		m.mu.Lock()
		var due *manualTimer
		for _, t := range m.timers {
			if t.next.After(target) {
				continue
			}
			if due == nil || t.next.Before(due.next) || (t.next.Equal(due.next) && t.seq < due.seq) {
				due = t
			}
		}
		if due == nil {
			m.now = target
			m.mu.Unlock()
			return
		}

		m.now = due.next
		if due.period > 0 {
			due.next = due.next.Add(due.period)
		} else {
			due.stopped = true
			m.removeLocked(due)
		}
		fn := due.fn
		m.mu.Unlock()

		fn()
	}
}

// Step advances to the next due fire, false when no timer is pending
func (m *ManualScheduler) Step() bool {
	m.mu.Lock()
	if len(m.timers) == 0 {
		m.mu.Unlock()
		return false
	}
	earliest := m.timers[0].next
	for _, t := range m.timers[1:] {
		if t.next.Before(earliest) {
			earliest = t.next
		}
	}
	d := earliest.Sub(m.now)
	m.mu.Unlock()

	m.Advance(d)
	return true
}

// Pending returns the number of active timers
func (m *ManualScheduler) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timers)
}
