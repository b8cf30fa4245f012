package game

import (
	"log"

	"github.com/lixenwraith/word-popper/engine"
	"github.com/lixenwraith/word-popper/events"
)

// LogHandler writes lifecycle and recognition events to the standard logger
// Per-frame movement is not logged
type LogHandler struct {
	world *engine.World
}

// NewLogHandler creates a handler bound to the world's session
func NewLogHandler(world *engine.World) *LogHandler {
	return &LogHandler{world: world}
}

func (h *LogHandler) EventTypes() []events.EventType {
	return []events.EventType{
		events.EventGameStarted,
		events.EventGamePaused,
		events.EventGameResumed,
		events.EventBubbleEliminated,
		events.EventBubbleEvicted,
		events.EventHypothesis,
		events.EventRecognitionUnavailable,
		events.EventRecognitionRestarted,
	}
}

func (h *LogHandler) HandleEvent(ev events.GameEvent) {
	sid := h.world.Session.ShortID()

	switch p := ev.Payload.(type) {
	case *events.SessionPayload:
		log.Printf("[game %s] %s score=%d lives=%d", sid, ev.Type, p.Score, p.Lives)
	case *events.EliminatedPayload:
		log.Printf("[game %s] frame %d: %q eliminated (%s, candidate=%q fuzzy=%v)",
			sid, ev.Frame, p.Bubble.Word, p.Cause, p.Candidate, p.Fuzzy)
	case *events.BubblePayload:
		log.Printf("[game %s] frame %d: %q evicted at y=%.1f", sid, ev.Frame, p.Word, p.Y)
	case *events.HypothesisPayload:
		if p.Final {
			log.Printf("[game %s] final %q from %s matched=%v alts=%d", sid, p.Text, p.Source, p.Matched, len(p.Alternatives))
		}
	case *events.RecognitionPayload:
		log.Printf("[game %s] %s source=%s attempts=%d %s", sid, ev.Type, p.Source, p.Attempts, p.Reason)
	}
}
