package render

import (
	"github.com/lixenwraith/word-popper/constants"
	"github.com/lixenwraith/word-popper/events"
)

// Screen phases as seen by the renderer
const (
	phaseTitle = iota
	phasePlaying
	phasePaused
	phaseOver
)

type bubbleView struct {
	id   uint64
	word string
	x, y float64
	hue  int
}

type popEffect struct {
	word   string
	x, y   float64
	frames int
}

// view is the renderer's copy of game state, fed only by events
type view struct {
	phase    int
	score    int
	lives    int
	maxLives int

	bubbles []*bubbleView
	byID    map[uint64]*bubbleView
	pops    []popEffect

	lastWord   string
	recent     []string // newest last
	notice     string
	finalScore int
}

func newView(maxLives int) *view {
	return &view{
		phase:    phaseTitle,
		lives:    maxLives,
		maxLives: maxLives,
		byID:     make(map[uint64]*bubbleView),
	}
}

func (v *view) apply(ev events.GameEvent) {
	switch ev.Type {
	case events.EventGameStarted:
		v.phase = phasePlaying
		v.pops = nil
		v.notice = ""
		if p, ok := ev.Payload.(*events.SessionPayload); ok {
			v.score, v.lives = p.Score, p.Lives
		}
	case events.EventGamePaused:
		v.phase = phasePaused
	case events.EventGameResumed:
		v.phase = phasePlaying
	case events.EventGameEnded:
		v.phase = phaseOver
		if p, ok := ev.Payload.(*events.SessionPayload); ok {
			v.finalScore = p.Score
		}

	case events.EventBubbleSpawned:
		if p, ok := ev.Payload.(*events.BubblePayload); ok {
			b := &bubbleView{id: p.ID, word: p.Word, x: p.X, y: p.Y, hue: p.Hue}
			v.bubbles = append(v.bubbles, b)
			v.byID[p.ID] = b
		}
	case events.EventBubbleMoved:
		if p, ok := ev.Payload.(*events.BubblePayload); ok {
			if b := v.byID[p.ID]; b != nil {
				b.y = p.Y
			}
		}
	case events.EventBubbleEliminated:
		if p, ok := ev.Payload.(*events.EliminatedPayload); ok {
			v.remove(p.Bubble.ID)
			v.pops = append(v.pops, popEffect{word: p.Bubble.Word, x: p.Bubble.X, y: p.Bubble.Y, frames: constants.PopEffectFrames})
		}
	case events.EventBubbleEvicted:
		if p, ok := ev.Payload.(*events.BubblePayload); ok {
			v.remove(p.ID)
		}
	case events.EventBubblesCleared:
		if p, ok := ev.Payload.(*events.ClearedPayload); ok {
			for _, id := range p.IDs {
				v.remove(id)
			}
		}

	case events.EventScoreChanged:
		if p, ok := ev.Payload.(*events.CounterPayload); ok {
			v.score = p.Value
		}
	case events.EventLivesChanged:
		if p, ok := ev.Payload.(*events.CounterPayload); ok {
			v.lives = p.Value
		}

	case events.EventHypothesis:
		if p, ok := ev.Payload.(*events.HypothesisPayload); ok {
			line := "~ " + p.Text
			if p.Final {
				line = "= " + p.Text
				if p.Matched {
					line += " *"
				}
			}
			v.recent = append(v.recent, line)
			if len(v.recent) > constants.DebugPanelLines {
				v.recent = v.recent[len(v.recent)-constants.DebugPanelLines:]
			}
			if p.Final {
				v.lastWord = p.Text
			}
		}
	case events.EventRecognitionUnavailable:
		v.notice = constants.NoSpeechLabel
	case events.EventRecognitionRestarted:
		v.notice = ""
	}
}

func (v *view) remove(id uint64) {
	if _, ok := v.byID[id]; !ok {
		return
	}
	delete(v.byID, id)
	for i, b := range v.bubbles {
		if b.id == id {
			v.bubbles = append(v.bubbles[:i], v.bubbles[i+1:]...)
			return
		}
	}
}

// tickEffects ages pop bursts by one frame
func (v *view) tickEffects() {
	kept := v.pops[:0]
	for _, p := range v.pops {
		p.frames--
		if p.frames > 0 {
			kept = append(kept, p)
		}
	}
	v.pops = kept
}
