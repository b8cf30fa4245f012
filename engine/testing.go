package engine

import (
	"math/rand"
	"sync"
	"time"

	"github.com/lixenwraith/word-popper/events"
)

// TestEpoch is the start time of every test world
var TestEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// NewTestWorld creates a world on a manual scheduler with a seeded random source
// The session is reset and running so systems act immediately
func NewTestWorld(lives int, seed int64) (*World, *ManualScheduler) {
	sched := NewManualScheduler(TestEpoch)
	w := NewWorld(sched, lives, rand.New(rand.NewSource(seed)))
	w.Session.Reset(lives, sched.Now())
	w.Session.Running = true
	return w, sched
}

// QueuePoster collects posted closures until the test drains them
// Stands in for the loop when the test goroutine plays the loop role
type QueuePoster struct {
	mu      sync.Mutex
	pending []func()
	closed  bool
}

// Post queues fn; false after Close
func (q *QueuePoster) Post(fn func()) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}
	q.pending = append(q.pending, fn)
	return true
}

// Drain runs every queued closure, including ones queued while draining
func (q *QueuePoster) Drain() int {
	n := 0
	for {
		q.mu.Lock()
		batch := q.pending
		q.pending = nil
		q.mu.Unlock()
		if len(batch) == 0 {
			return n
		}
		for _, fn := range batch {
			fn()
			n++
		}
	}
}

// DrainUntil keeps draining until cond holds or the timeout passes
func (q *QueuePoster) DrainUntil(cond func() bool, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		q.Drain()
		if cond() {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(time.Millisecond)
	}
}

// Close rejects further posts
func (q *QueuePoster) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
}

// EventRecorder captures every routed event in order
type EventRecorder struct {
	Events []events.GameEvent
}

// RecordEvents registers a recorder for all event types on w
func RecordEvents(w *World) *EventRecorder {
	rec := &EventRecorder{}
	w.Events.Register(events.HandlerFunc{
		Types: events.AllTypes(),
		Fn:    func(ev events.GameEvent) { rec.Events = append(rec.Events, ev) },
	})
	return rec
}

// Count returns how many events of type t were recorded
func (r *EventRecorder) Count(t events.EventType) int {
	n := 0
	for _, ev := range r.Events {
		if ev.Type == t {
			n++
		}
	}
	return n
}

// Last returns the most recent event of type t
func (r *EventRecorder) Last(t events.EventType) (events.GameEvent, bool) {
	for i := len(r.Events) - 1; i >= 0; i-- {
		if r.Events[i].Type == t {
			return r.Events[i], true
		}
	}
	return events.GameEvent{}, false
}

// Types returns the recorded types in order
func (r *EventRecorder) Types() []events.EventType {
	out := make([]events.EventType, len(r.Events))
	for i, ev := range r.Events {
		out[i] = ev.Type
	}
	return out
}

// Reset drops recorded events
func (r *EventRecorder) Reset() {
	r.Events = nil
}
