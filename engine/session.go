package engine

import (
	"time"

	"github.com/google/uuid"
)

// Session is the state of one play-through
// Owned by the loop goroutine
type Session struct {
	ID        string
	Score     int
	Lives     int
	Running   bool
	LastWord  string
	StartedAt time.Time
}

// NewSession creates an idle session with the given lives
func NewSession(lives int) *Session {
	return &Session{Lives: lives}
}

// Reset starts a new play-through under a fresh ID
func (s *Session) Reset(lives int, now time.Time) {
	s.ID = uuid.NewString()
	s.Score = 0
	s.Lives = lives
	s.Running = false
	s.LastWord = ""
	s.StartedAt = now
}

// AddScore increases the score, ignoring non-positive deltas
func (s *Session) AddScore(points int) int {
	if points > 0 {
		s.Score += points
	}
	return s.Score
}

// LoseLife decrements lives by one and returns the remainder
func (s *Session) LoseLife() int {
	s.Lives--
	return s.Lives
}

// Depleted reports the terminal condition
func (s *Session) Depleted() bool {
	return s.Lives <= 0
}

// ShortID returns the first uuid group for log prefixes
func (s *Session) ShortID() string {
	if len(s.ID) >= 8 {
		return s.ID[:8]
	}
	return s.ID
}
