package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/word-popper/core"
)

// LoopScheduler drives real-time timers whose fires are posted to a Loop
// Periodic fires coalesce: a tick is skipped while the previous one is still queued
type LoopScheduler struct {
	loop *Loop
}

// NewLoopScheduler binds a scheduler to a loop
func NewLoopScheduler(loop *Loop) *LoopScheduler {
	return &LoopScheduler{loop: loop}
}

// Now returns wall time with monotonic reading
func (s *LoopScheduler) Now() time.Time {
	return time.Now()
}

type loopTimer struct {
	stopped  atomic.Bool
	pending  atomic.Bool
	stopChan chan struct{}
	stopOnce sync.Once
	after    *time.Timer
}

// Stop must be called from the loop goroutine for the queued-fire guarantee
func (t *loopTimer) Stop() {
	t.stopped.Store(true)
	t.stopOnce.Do(func() {
		if t.stopChan != nil {
			close(t.stopChan)
		}
		if t.after != nil {
			t.after.Stop()
		}
	})
}

// Every fires fn on the loop every d until stopped
func (s *LoopScheduler) Every(d time.Duration, fn func()) Timer {
	t := &loopTimer{stopChan: make(chan struct{})}
	ticker := time.NewTicker(d)

	core.Go(func() {
		defer ticker.Stop()
		for {
			select {
			case <-t.stopChan:
				return
			case <-s.loop.Done():
				return
			case <-ticker.C:
				if !t.pending.CompareAndSwap(false, true) {
					continue
				}
				// A full inbox drops the tick rather than stalling the ticker
				posted := s.loop.TryPost(func() {
					t.pending.Store(false)
					if t.stopped.Load() {
						return
					}
					fn()
				})
				if !posted {
					t.pending.Store(false)
				}
			}
		}
	})
	return t
}

// After fires fn once on the loop after d unless stopped first
func (s *LoopScheduler) After(d time.Duration, fn func()) Timer {
	t := &loopTimer{}
	t.after = time.AfterFunc(d, func() {
		s.loop.Post(func() {
			if t.stopped.Load() {
				return
			}
			t.stopped.Store(true)
			fn()
		})
	})
	return t
}
