package game

import (
	"time"
)

// BubbleView is a read-only copy of one live bubble
type BubbleView struct {
	ID        uint64    `json:"id"`
	Word      string    `json:"word"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Speed     float64   `json:"speed"`
	SpawnedAt time.Time `json:"spawned_at"`
}

// Snapshot is a consistent copy of the session taken on the loop
type Snapshot struct {
	State     string       `json:"state"`
	SessionID string       `json:"session_id"`
	Score     int          `json:"score"`
	Lives     int          `json:"lives"`
	LastWord  string       `json:"last_word"`
	Frame     int64        `json:"frame"`
	Listening bool         `json:"listening"`
	Bubbles   []BubbleView `json:"bubbles"`
}

// Snapshot copies the current session and registry
// Must run on the loop; other goroutines go through Loop.Call
func (c *Controller) Snapshot() Snapshot {
	s := c.world.Session
	snap := Snapshot{
		State:     c.machine.StateName(),
		SessionID: s.ID,
		Score:     s.Score,
		Lives:     s.Lives,
		LastWord:  s.LastWord,
		Frame:     c.world.Frame(),
		Listening: c.Ingest.Listening(),
	}
	bubbles := c.world.Registry.All()
	snap.Bubbles = make([]BubbleView, 0, len(bubbles))
	for _, b := range bubbles {
		snap.Bubbles = append(snap.Bubbles, BubbleView{
			ID:        b.ID,
			Word:      b.Word,
			X:         b.X,
			Y:         b.Y,
			Speed:     b.Speed,
			SpawnedAt: b.SpawnedAt,
		})
	}
	return snap
}

// Words returns the live bubble words in spawn order
func (s Snapshot) Words() []string {
	out := make([]string, len(s.Bubbles))
	for i, b := range s.Bubbles {
		out[i] = b.Word
	}
	return out
}
