package engine

import (
	"testing"
)

// ============================================================================
// Registry
// ============================================================================

func TestRegistryAddAssignsIDs(t *testing.T) {
	r := NewRegistry()
	a := &Bubble{Word: "cat"}
	b := &Bubble{Word: "dog"}
	r.Add(a)
	r.Add(b)

	if a.ID == 0 || b.ID == 0 || a.ID == b.ID {
		t.Fatalf("ids = %d, %d", a.ID, b.ID)
	}
	if r.Count() != 2 {
		t.Errorf("Count = %d, want 2", r.Count())
	}
	if got, ok := r.Get(b.ID); !ok || got != b {
		t.Error("Get did not return the added bubble")
	}
}

func TestRegistryRemoveIsIdempotent(t *testing.T) {
	r := NewRegistry()
	b := &Bubble{Word: "sun"}
	r.Add(b)

	if !r.Remove(b.ID) {
		t.Fatal("first Remove should succeed")
	}
	if b.State != BubbleEliminated {
		t.Errorf("state = %v, want eliminated", b.State)
	}
	if r.Remove(b.ID) {
		t.Error("second Remove must return false")
	}
	if r.Remove(9999) {
		t.Error("Remove of unknown id must return false")
	}
	if r.Count() != 0 {
		t.Errorf("Count = %d, want 0", r.Count())
	}
}

func TestRegistrySnapshotIsolation(t *testing.T) {
	r := NewRegistry()
	for _, w := range []string{"one", "two", "three"} {
		r.Add(&Bubble{Word: w})
	}

	snap := r.All()
	visited := 0
	for _, b := range snap {
		r.Remove(b.ID)
		visited++
	}
	if visited != 3 {
		t.Errorf("visited %d bubbles while removing, want 3", visited)
	}
	if r.Count() != 0 {
		t.Errorf("Count = %d after removing all", r.Count())
	}
}

func TestRegistryInsertionOrder(t *testing.T) {
	r := NewRegistry()
	words := []string{"red", "blue", "moon", "car"}
	for _, w := range words {
		r.Add(&Bubble{Word: w})
	}
	all := r.All()
	r.Remove(all[1].ID)

	got := r.All()
	want := []string{"red", "moon", "car"}
	for i, b := range got {
		if b.Word != want[i] {
			t.Fatalf("order[%d] = %s, want %s", i, b.Word, want[i])
		}
	}
}

func TestRegistryClear(t *testing.T) {
	r := NewRegistry()
	r.Add(&Bubble{Word: "up"})
	r.Add(&Bubble{Word: "down"})
	last := r.NextID()

	cleared := r.Clear()
	if len(cleared) != 2 || r.Count() != 0 {
		t.Fatalf("cleared %d, remaining %d", len(cleared), r.Count())
	}
	for _, b := range cleared {
		if b.State != BubbleAlive {
			t.Error("Clear must not mark bubbles eliminated")
		}
		if r.Remove(b.ID) {
			t.Error("cleared bubble still removable")
		}
	}

	b := &Bubble{Word: "go"}
	r.Add(b)
	if b.ID <= last {
		t.Errorf("id %d reused after clear (last reserved %d)", b.ID, last)
	}
}

// ============================================================================
// Session
// ============================================================================

func TestSessionReset(t *testing.T) {
	s := NewSession(3)
	sched := NewManualScheduler(testEpoch)
	s.Reset(3, sched.Now())
	first := s.ID
	s.AddScore(10)
	s.LoseLife()
	s.LastWord = "cat"

	s.Reset(3, sched.Now())
	if s.ID == first || s.ID == "" {
		t.Errorf("Reset must issue a new id, got %q", s.ID)
	}
	if s.Score != 0 || s.Lives != 3 || s.LastWord != "" || s.Running {
		t.Errorf("session not reset: %+v", s)
	}
	if len(s.ShortID()) != 8 {
		t.Errorf("ShortID = %q", s.ShortID())
	}
}

func TestSessionScoreNeverDecreases(t *testing.T) {
	s := NewSession(3)
	s.AddScore(10)
	s.AddScore(-5)
	s.AddScore(0)
	if s.Score != 10 {
		t.Errorf("Score = %d, want 10", s.Score)
	}
}

func TestSessionDepletion(t *testing.T) {
	s := NewSession(1)
	if s.Depleted() {
		t.Fatal("fresh session should not be depleted")
	}
	if left := s.LoseLife(); left != 0 || !s.Depleted() {
		t.Errorf("LoseLife = %d, depleted %v", left, s.Depleted())
	}
}
