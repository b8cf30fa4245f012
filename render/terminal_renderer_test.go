package render

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/word-popper/config"
	"github.com/lixenwraith/word-popper/constants"
	"github.com/lixenwraith/word-popper/events"
	"github.com/lixenwraith/word-popper/status"
)

func newSimRenderer(t *testing.T, debug bool) (*TerminalRenderer, tcell.SimulationScreen, *status.Registry) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen init: %v", err)
	}
	screen.SetSize(80, 30)
	t.Cleanup(screen.Fini)

	cfg := config.Default()
	cfg.Debug.Enabled = debug
	reg := status.NewRegistry()
	return NewTerminalRenderer(screen, cfg, reg), screen, reg
}

// screenText returns the whole screen, one line per row
func screenText(s tcell.Screen) string {
	w, h := s.Size()
	var b strings.Builder
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, _, _, _ := s.GetContent(x, y)
			if r == 0 {
				r = ' '
			}
			b.WriteRune(r)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func emit(r *TerminalRenderer, t events.EventType, payload any) {
	r.HandleEvent(events.GameEvent{Type: t, Payload: payload})
}

// ============================================================================
// Screens
// ============================================================================

func TestRendererTitleScreen(t *testing.T) {
	r, screen, _ := newSimRenderer(t, false)
	r.Draw()

	out := screenText(screen)
	if !strings.Contains(out, constants.TitleText) {
		t.Errorf("title missing:\n%s", out)
	}
	if !strings.Contains(out, "SCORE 0") {
		t.Error("score header missing")
	}
}

func TestRendererBubblesAndScore(t *testing.T) {
	r, screen, _ := newSimRenderer(t, false)
	emit(r, events.EventGameStarted, &events.SessionPayload{Lives: 3})
	emit(r, events.EventBubbleSpawned, &events.BubblePayload{ID: 1, Word: "cat", X: 400, Y: 0, Hue: 30})
	emit(r, events.EventBubbleMoved, &events.BubblePayload{ID: 1, Word: "cat", X: 400, Y: 300, Hue: 30})
	emit(r, events.EventScoreChanged, &events.CounterPayload{Value: 20, Delta: 10})
	emit(r, events.EventLivesChanged, &events.CounterPayload{Value: 2, Delta: -1})
	r.Draw()

	// 28 play rows: y=300 of 600 lands on row 1+14
	row := strings.Split(screenText(screen), "\n")[15]
	if !strings.Contains(row, "(cat)") {
		t.Errorf("bubble not on row 15: %q", row)
	}
	out := screenText(screen)
	if !strings.Contains(out, "SCORE 20") {
		t.Error("score not updated")
	}
	if strings.Contains(out, constants.TitleText) {
		t.Error("title still shown while playing")
	}
}

func TestRendererPopEffectExpires(t *testing.T) {
	r, screen, _ := newSimRenderer(t, false)
	emit(r, events.EventGameStarted, &events.SessionPayload{Lives: 3})
	emit(r, events.EventBubbleSpawned, &events.BubblePayload{ID: 7, Word: "sun", X: 400, Y: 300})
	emit(r, events.EventBubbleEliminated, &events.EliminatedPayload{
		Bubble: events.BubblePayload{ID: 7, Word: "sun", X: 400, Y: 300},
		Cause:  events.CauseMatched,
	})
	r.Draw()

	out := screenText(screen)
	if strings.Contains(out, "(sun)") {
		t.Error("eliminated bubble still drawn")
	}
	if !strings.Contains(out, "*****") {
		t.Error("pop burst missing")
	}

	for i := 0; i < constants.PopEffectFrames; i++ {
		r.Draw()
	}
	if strings.Contains(screenText(screen), "*****") {
		t.Error("pop burst never expired")
	}
}

func TestRendererClearedAndEvicted(t *testing.T) {
	r, screen, _ := newSimRenderer(t, false)
	emit(r, events.EventGameStarted, &events.SessionPayload{Lives: 3})
	emit(r, events.EventBubbleSpawned, &events.BubblePayload{ID: 1, Word: "cat", X: 100, Y: 10})
	emit(r, events.EventBubbleSpawned, &events.BubblePayload{ID: 2, Word: "dog", X: 600, Y: 10})
	emit(r, events.EventBubbleEvicted, &events.BubblePayload{ID: 1, Word: "cat"})
	r.Draw()
	out := screenText(screen)
	if strings.Contains(out, "(cat)") || !strings.Contains(out, "(dog)") {
		t.Errorf("after eviction:\n%s", out)
	}

	emit(r, events.EventBubblesCleared, &events.ClearedPayload{IDs: []uint64{2}})
	r.Draw()
	if strings.Contains(screenText(screen), "(dog)") {
		t.Error("cleared bubble still drawn")
	}
}

func TestRendererGameOver(t *testing.T) {
	r, screen, _ := newSimRenderer(t, false)
	emit(r, events.EventGameStarted, &events.SessionPayload{Lives: 1})
	emit(r, events.EventGameEnded, &events.SessionPayload{Score: 30})
	r.Draw()

	out := screenText(screen)
	if !strings.Contains(out, constants.GameOverText) || !strings.Contains(out, "Final score: 30") {
		t.Errorf("game over screen:\n%s", out)
	}
}

func TestRendererPausedAndNotice(t *testing.T) {
	r, screen, _ := newSimRenderer(t, false)
	emit(r, events.EventGameStarted, &events.SessionPayload{Lives: 3})
	emit(r, events.EventGamePaused, &events.SessionPayload{})
	emit(r, events.EventRecognitionUnavailable, &events.RecognitionPayload{Source: "bridge"})
	r.Draw()

	out := screenText(screen)
	if !strings.Contains(out, constants.PausedText) {
		t.Error("paused banner missing")
	}
	if !strings.Contains(out, constants.NoSpeechLabel) {
		t.Error("unavailable notice missing")
	}
}

// ============================================================================
// Footer and debug panel
// ============================================================================

func TestRendererPromptAndDebugPanel(t *testing.T) {
	r, screen, reg := newSimRenderer(t, true)
	reg.Strings.Get(status.SessionState).Store("running")
	reg.Ints.Get(status.MatchExact).Store(4)

	emit(r, events.EventGameStarted, &events.SessionPayload{Lives: 3})
	emit(r, events.EventHypothesis, &events.HypothesisPayload{Text: "hello there", Final: true, Matched: true})
	r.SetPrompt("ca")
	r.Draw()

	out := screenText(screen)
	for _, want := range []string{"> ca_", "= hello there *", "match.exact=4", "session.state=running", "heard: hello there"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q:\n%s", want, out)
		}
	}

	r.ToggleDebug()
	r.Draw()
	if strings.Contains(screenText(screen), "match.exact=4") {
		t.Error("debug panel shown after toggle off")
	}
}

func TestRendererTinyTerminal(t *testing.T) {
	r, screen, _ := newSimRenderer(t, false)
	screen.SetSize(8, 3)
	r.Draw()
	if !strings.Contains(screenText(screen), "terminal") {
		t.Error("small-terminal message missing")
	}
}
