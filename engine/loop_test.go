package engine

import (
	"sync"
	"testing"
	"time"
)

// ============================================================================
// Ordering
// ============================================================================

func TestLoopRunsClosuresInOrder(t *testing.T) {
	l := NewLoop(16)
	l.Start()
	defer l.Stop()

	var got []int
	for i := 0; i < 10; i++ {
		i := i
		if !l.Post(func() { got = append(got, i) }) {
			t.Fatalf("Post %d rejected", i)
		}
	}
	// Call runs after everything posted before it
	if !l.Call(func() {}) {
		t.Fatal("Call rejected")
	}

	for i, v := range got {
		if v != i {
			t.Fatalf("order = %v", got)
		}
	}
	if len(got) != 10 {
		t.Fatalf("ran %d closures, want 10", len(got))
	}
	if l.Processed() < 10 {
		t.Errorf("Processed = %d, want at least 10", l.Processed())
	}
}

func TestLoopConcurrentPostersSerialize(t *testing.T) {
	l := NewLoop(4)
	l.Start()
	defer l.Stop()

	counter := 0
	var wg sync.WaitGroup
	for p := 0; p < 8; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				l.Post(func() { counter++ })
			}
		}()
	}
	wg.Wait()

	var final int
	l.Call(func() { final = counter })
	if final != 800 {
		t.Errorf("counter = %d, want 800", final)
	}
}

// ============================================================================
// Shutdown
// ============================================================================

func TestLoopTryPostFull(t *testing.T) {
	l := NewLoop(1)
	// Not started: the inbox fills and stays full
	if !l.TryPost(func() {}) {
		t.Fatal("first TryPost should fit")
	}
	if l.TryPost(func() {}) {
		t.Error("TryPost on a full inbox should fail")
	}
	l.Stop()
}

func TestLoopStopRejectsPosts(t *testing.T) {
	l := NewLoop(1)
	l.Start()
	l.Stop()

	select {
	case <-l.Done():
	case <-time.After(time.Second):
		t.Fatal("Done not closed after Stop")
	}
	if l.Post(func() {}) {
		t.Error("Post after Stop should fail")
	}
	if l.TryPost(func() {}) {
		t.Error("TryPost after Stop should fail")
	}
	if l.Call(func() {}) {
		t.Error("Call after Stop should fail")
	}
	// Idempotent
	l.Stop()
}
