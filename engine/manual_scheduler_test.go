package engine

import (
	"strings"
	"testing"
	"time"
)

var testEpoch = TestEpoch

func TestManualEvery(t *testing.T) {
	s := NewManualScheduler(testEpoch)
	count := 0
	s.Every(100*time.Millisecond, func() { count++ })

	s.Advance(99 * time.Millisecond)
	if count != 0 {
		t.Fatalf("fired early: %d", count)
	}
	s.Advance(1 * time.Millisecond)
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}
	s.Advance(350 * time.Millisecond)
	if count != 4 {
		t.Errorf("count = %d, want 4", count)
	}
	if got := s.Now().Sub(testEpoch); got != 450*time.Millisecond {
		t.Errorf("elapsed = %v", got)
	}
}

func TestManualAfterFiresOnce(t *testing.T) {
	s := NewManualScheduler(testEpoch)
	count := 0
	s.After(time.Second, func() { count++ })
	s.Advance(5 * time.Second)
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
	if s.Pending() != 0 {
		t.Errorf("Pending = %d, want 0", s.Pending())
	}
}

func TestManualStop(t *testing.T) {
	s := NewManualScheduler(testEpoch)
	count := 0
	timer := s.Every(10*time.Millisecond, func() { count++ })
	s.Advance(30 * time.Millisecond)
	timer.Stop()
	s.Advance(100 * time.Millisecond)
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
}

func TestManualOrdering(t *testing.T) {
	s := NewManualScheduler(testEpoch)
	var order []string
	s.Every(20*time.Millisecond, func() { order = append(order, "b") })
	s.Every(10*time.Millisecond, func() { order = append(order, "a") })

	s.Advance(40 * time.Millisecond)
	// Ties at 20 and 40 go to the earlier registration
	if got := strings.Join(order, ""); got != "abaaba" {
		t.Errorf("order = %s, want abaaba", got)
	}
}

func TestManualStopFromCallback(t *testing.T) {
	s := NewManualScheduler(testEpoch)
	var timer Timer
	count := 0
	timer = s.Every(10*time.Millisecond, func() {
		count++
		if count == 2 {
			timer.Stop()
		}
	})
	s.Advance(time.Second)
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
}

func TestManualScheduleFromCallback(t *testing.T) {
	s := NewManualScheduler(testEpoch)
	fired := false
	s.After(10*time.Millisecond, func() {
		s.After(10*time.Millisecond, func() { fired = true })
	})
	s.Advance(20 * time.Millisecond)
	if !fired {
		t.Error("timer created inside a callback should fire within the same Advance")
	}
}

func TestManualStep(t *testing.T) {
	s := NewManualScheduler(testEpoch)
	if s.Step() {
		t.Fatal("Step with no timers should report false")
	}
	count := 0
	s.After(250*time.Millisecond, func() { count++ })
	if !s.Step() || count != 1 {
		t.Errorf("Step fired %d", count)
	}
}
