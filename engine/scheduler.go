package engine

import (
	"time"
)

// Timer is a cancellable scheduled callback
// After Stop returns, no further fire of the callback runs, including one already queued
type Timer interface {
	Stop()
}

// Scheduler is the tick source for spawner, frames and restarts
// Callbacks run on the loop goroutine
type Scheduler interface {
	Now() time.Time
	Every(d time.Duration, fn func()) Timer
	After(d time.Duration, fn func()) Timer
}

// TimerFunc adapts a function to Timer
type TimerFunc func()

func (f TimerFunc) Stop() { f() }
