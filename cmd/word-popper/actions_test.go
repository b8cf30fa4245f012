package main

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/word-popper/audio"
	"github.com/lixenwraith/word-popper/config"
	"github.com/lixenwraith/word-popper/engine"
	"github.com/lixenwraith/word-popper/game"
	"github.com/lixenwraith/word-popper/render"
	"github.com/lixenwraith/word-popper/status"
)

type actionsFixture struct {
	loop    *engine.Loop
	sched   *engine.ManualScheduler
	world   *engine.World
	ctrl    *game.Controller
	actions *gameActions
	cfg     config.Config
	copied  []string
}

func newActionsFixture(t *testing.T) *actionsFixture {
	t.Helper()
	cfg := config.Default()

	screen := tcell.NewSimulationScreen("")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen init: %v", err)
	}
	t.Cleanup(screen.Fini)

	loop := engine.NewLoop(16)
	loop.Start()
	t.Cleanup(loop.Stop)

	world, sched := engine.NewTestWorld(cfg.Game.InitialLives, 3)
	world.Session.Running = false

	ctrl, err := game.NewController(world, cfg, nil, loop)
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}

	f := &actionsFixture{loop: loop, sched: sched, world: world, ctrl: ctrl, cfg: cfg}
	renderer := render.NewTerminalRenderer(screen, cfg, world.Status)
	f.actions = newGameActions(loop, ctrl, renderer, audio.NewSoundManager(), screen)
	f.actions.clip = func(s string) error {
		f.copied = append(f.copied, s)
		return nil
	}
	return f
}

func (f *actionsFixture) state(t *testing.T) string {
	t.Helper()
	var name string
	if !f.loop.Call(func() { name = f.ctrl.StateName() }) {
		t.Fatal("loop stopped")
	}
	return name
}

func (f *actionsFixture) snapshot(t *testing.T) game.Snapshot {
	t.Helper()
	var snap game.Snapshot
	f.loop.Call(func() { snap = f.ctrl.Snapshot() })
	return snap
}

// ============================================================================
// Submit
// ============================================================================

func TestEmptySubmitStartsGame(t *testing.T) {
	f := newActionsFixture(t)
	if got := f.state(t); got != "idle" {
		t.Fatalf("initial state = %q, want idle", got)
	}

	f.actions.Submit("")
	if got := f.state(t); got != "running" {
		t.Fatalf("state = %q after empty submit, want running", got)
	}

	// Empty submit while running is ignored
	f.actions.Submit("")
	if got := f.state(t); got != "running" {
		t.Errorf("empty submit changed state to %q", got)
	}
}

func TestSubmitWordScores(t *testing.T) {
	f := newActionsFixture(t)
	f.actions.Submit("")
	f.loop.Call(func() { f.sched.Advance(f.cfg.Game.SpawnInterval()) })

	snap := f.snapshot(t)
	if len(snap.Bubbles) == 0 {
		t.Fatal("expected a spawned bubble")
	}

	f.actions.Submit(snap.Bubbles[0].Word)
	if got := f.snapshot(t).Score; got != 10 {
		t.Errorf("score = %d, want 10", got)
	}
}

func TestTogglePause(t *testing.T) {
	f := newActionsFixture(t)
	f.actions.Submit("")

	f.actions.TogglePause()
	if got := f.state(t); got != "paused" {
		t.Fatalf("state = %q, want paused", got)
	}
	f.actions.TogglePause()
	if got := f.state(t); got != "running" {
		t.Errorf("state = %q after second toggle, want running", got)
	}
}

// ============================================================================
// Debug actions
// ============================================================================

func TestListWordsCopiesToClipboard(t *testing.T) {
	f := newActionsFixture(t)
	f.actions.Submit("")
	f.loop.Call(func() { f.sched.Advance(f.cfg.Game.SpawnInterval()) })
	words := f.snapshot(t).Words()

	f.actions.ListWords()
	if len(f.copied) != 1 {
		t.Fatalf("clipboard writes = %d, want 1", len(f.copied))
	}
	if f.copied[0] != strings.Join(words, "\n") {
		t.Errorf("copied %q, want %q", f.copied[0], strings.Join(words, "\n"))
	}
}

func TestPopAllClearsBubbles(t *testing.T) {
	f := newActionsFixture(t)
	f.actions.Submit("")
	f.loop.Call(func() { f.sched.Advance(f.cfg.Game.SpawnInterval()) })

	f.actions.PopAll()
	if n := len(f.snapshot(t).Bubbles); n != 0 {
		t.Errorf("bubbles after PopAll = %d, want 0", n)
	}
}

func TestToggleMuteWithoutSpeaker(t *testing.T) {
	f := newActionsFixture(t)
	f.actions.ToggleMute()
	if f.actions.sound.Enabled() {
		t.Error("uninitialized manager must stay silent")
	}
}

func TestFrameTickPublishesProcessed(t *testing.T) {
	loop := engine.NewLoop(4)
	loop.Start()
	t.Cleanup(loop.Stop)
	reg := status.NewRegistry()

	for i := 0; i < 3; i++ {
		loop.Call(func() {})
	}

	draws := 0
	tick := frameTick(loop, reg, func() { draws++ })
	loop.Call(tick)

	if draws != 1 {
		t.Errorf("draws = %d, want 1", draws)
	}
	if got := reg.Ints.Get(status.LoopProcessed).Load(); got != 3 {
		t.Errorf("loop_processed = %d, want 3", got)
	}
}
