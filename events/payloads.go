package events

// EliminationCause distinguishes how a bubble left play
type EliminationCause int

const (
	CauseMatched EliminationCause = iota // Recognized or typed word
	CauseForced                          // Debug force-pop
)

func (c EliminationCause) String() string {
	switch c {
	case CauseMatched:
		return "matched"
	case CauseForced:
		return "forced"
	default:
		return "unknown"
	}
}

// BubblePayload is a value snapshot of a bubble at emission time
type BubblePayload struct {
	ID   uint64
	Word string
	X, Y float64
	Hue  int
}

// EliminatedPayload describes a successful elimination
type EliminatedPayload struct {
	Bubble    BubblePayload
	Cause     EliminationCause
	Candidate string // Word that matched, empty for forced
	Fuzzy     bool
}

// ClearedPayload lists bubbles discarded without scoring
type ClearedPayload struct {
	IDs []uint64
}

// CounterPayload carries an absolute value for score or lives
type CounterPayload struct {
	Value int
	Delta int
}

// SessionPayload identifies the play-through
type SessionPayload struct {
	SessionID string
	Score     int
	Lives     int
}

// HypothesisPayload mirrors one recognition result
type HypothesisPayload struct {
	Text         string
	Final        bool
	Alternatives []string
	Source       string
	Matched      bool // Set for FINAL after matching ran
}

// RecognitionPayload describes a recognition availability change
type RecognitionPayload struct {
	Source   string
	Reason   string
	Attempts int
}
