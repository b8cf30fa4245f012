package events

import (
	"time"
)

// EventType represents the type of game event
type EventType int

const (
	// EventGameStarted signals a fresh session entered RUNNING
	// Trigger: Controller.Start
	// Consumer: Renderer (hide start screen), LogHandler | Payload: *SessionPayload
	EventGameStarted EventType = iota + 1

	// EventGamePaused signals RUNNING -> PAUSED
	// Trigger: Controller.Pause | Payload: *SessionPayload
	EventGamePaused

	// EventGameResumed signals PAUSED -> RUNNING
	// Trigger: Controller.Resume | Payload: *SessionPayload
	EventGameResumed

	// EventGameEnded carries the final score to the game-over screen
	// Trigger: Controller.End, life depletion inside a motion tick
	// Consumer: Renderer, SoundManager | Payload: *SessionPayload
	EventGameEnded

	// EventBubbleSpawned signals a new bubble at the top of the playfield
	// Trigger: SpawnSystem tick
	// Consumer: Renderer | Payload: *BubblePayload
	EventBubbleSpawned

	// EventBubbleMoved signals a position update
	// Trigger: MotionSystem frame, once per surviving bubble
	// Consumer: Renderer | Payload: *BubblePayload
	// Volume: one per bubble per frame, handlers must stay cheap
	EventBubbleMoved

	// EventBubbleEliminated signals a bubble removed by recognition or force-pop
	// Trigger: Matcher.TryMatch, Matcher.PopAll
	// Consumer: Renderer (pop effect), SoundManager (pop) | Payload: *EliminatedPayload
	EventBubbleEliminated

	// EventBubbleEvicted signals a bubble crossed the boundary
	// Trigger: MotionSystem frame
	// Consumer: Renderer, SoundManager | Payload: *BubblePayload
	EventBubbleEvicted

	// EventBubblesCleared signals the registry was emptied on session reset
	// Trigger: Controller.Start | Payload: *ClearedPayload
	EventBubblesCleared

	// EventScoreChanged carries the new score
	// Trigger: successful elimination | Payload: *CounterPayload
	EventScoreChanged

	// EventLivesChanged carries the remaining lives
	// Trigger: eviction, session reset | Payload: *CounterPayload
	EventLivesChanged

	// EventHypothesis carries a recognition result for the debug panel
	// Trigger: IngestSystem on every PARTIAL and FINAL delivery
	// Consumer: Renderer (debug panel), SoundManager (shoot on final) | Payload: *HypothesisPayload
	EventHypothesis

	// EventRecognitionUnavailable signals recognition is absent or gave up
	// Trigger: IngestSystem on ErrUnavailable or exhausted restarts
	// Consumer: Renderer (blocking notice) | Payload: *RecognitionPayload
	EventRecognitionUnavailable

	// EventRecognitionRestarted signals a fresh subscription was opened after a failure
	// Trigger: IngestSystem restart timer | Payload: *RecognitionPayload
	EventRecognitionRestarted
)

// GameEvent represents a single game event with metadata
type GameEvent struct {
	Type      EventType
	Payload   any
	Frame     int64 // Motion frame at emission
	Timestamp time.Time
}
