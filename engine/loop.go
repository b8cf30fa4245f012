package engine

import (
	"sync"
	"sync/atomic"

	"github.com/lixenwraith/word-popper/core"
)

// Loop serializes all game state mutations on one goroutine
// Producers (timers, recognition pump, input, HTTP) only Post closures
type Loop struct {
	inbox chan func()

	stopChan chan struct{}
	stopOnce sync.Once
	done     chan struct{}
	running  atomic.Bool

	processed atomic.Uint64
}

// NewLoop creates a loop with the given inbox capacity
func NewLoop(size int) *Loop {
	if size <= 0 {
		size = 1
	}
	return &Loop{
		inbox:    make(chan func(), size),
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start runs the loop on its own goroutine
func (l *Loop) Start() {
	if l.running.CompareAndSwap(false, true) {
		core.Go(l.run)
	}
}

func (l *Loop) run() {
	defer close(l.done)
	for {
		select {
		case <-l.stopChan:
			return
		case fn := <-l.inbox:
			fn()
			l.processed.Add(1)
		}
	}
}

// Post enqueues fn, blocking while the inbox is full
// Returns false once the loop is stopped
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.stopChan:
		return false
	default:
	}
	select {
	case l.inbox <- fn:
		return true
	case <-l.stopChan:
		return false
	}
}

// TryPost enqueues fn without blocking; false if full or stopped
func (l *Loop) TryPost(fn func()) bool {
	select {
	case <-l.stopChan:
		return false
	default:
	}
	select {
	case l.inbox <- fn:
		return true
	default:
		return false
	}
}

// Call posts fn and waits for it to finish
// Must not be called from the loop goroutine
func (l *Loop) Call(fn func()) bool {
	finished := make(chan struct{})
	if !l.Post(func() {
		defer close(finished)
		fn()
	}) {
		return false
	}
	select {
	case <-finished:
		return true
	case <-l.done:
		return false
	}
}

// Stop halts the loop; queued closures not yet run are dropped
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		close(l.stopChan)
		if l.running.Load() {
			<-l.done
		}
	})
}

// Done is closed when the loop goroutine exits
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Processed returns the count of executed closures
func (l *Loop) Processed() uint64 {
	return l.processed.Load()
}

// Poster accepts closures for execution on the loop goroutine
type Poster interface {
	Post(fn func()) bool
}
