package engine

import (
	"time"

	"github.com/lixenwraith/word-popper/events"
)

// BubbleState is the lifecycle flag of a bubble
type BubbleState uint8

const (
	BubbleAlive BubbleState = iota
	BubbleEliminated
)

func (s BubbleState) String() string {
	if s == BubbleEliminated {
		return "eliminated"
	}
	return "alive"
}

// Bubble is one falling target
// Word, X and Speed are fixed at spawn; Y only grows while alive
type Bubble struct {
	ID        uint64
	Word      string
	X, Y      float64
	Speed     float64
	Hue       int
	SpawnedAt time.Time
	State     BubbleState
}

// Alive reports whether the bubble is still in play
func (b *Bubble) Alive() bool {
	return b.State == BubbleAlive
}

// Payload returns a value copy for event consumers
func (b *Bubble) Payload() events.BubblePayload {
	return events.BubblePayload{
		ID:   b.ID,
		Word: b.Word,
		X:    b.X,
		Y:    b.Y,
		Hue:  b.Hue,
	}
}
