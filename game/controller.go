// Package game owns the session lifecycle and is the single entry point for external commands
package game

import (
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/word-popper/config"
	"github.com/lixenwraith/word-popper/engine"
	"github.com/lixenwraith/word-popper/engine/fsm"
	"github.com/lixenwraith/word-popper/events"
	"github.com/lixenwraith/word-popper/recognition"
	"github.com/lixenwraith/word-popper/status"
	"github.com/lixenwraith/word-popper/systems"
)

// Lifecycle states
const (
	StateIdle fsm.StateID = iota + 1
	StateRunning
	StatePaused
	StateEnded
)

// Lifecycle triggers
const (
	evStart fsm.EventID = iota + 1
	evPause
	evResume
	evEnd
	evReset
)

// Controller drives IDLE -> RUNNING -> {PAUSED <-> RUNNING} -> ENDED -> IDLE
// All methods must run on the loop goroutine
type Controller struct {
	world   *engine.World
	cfg     config.Config
	machine *fsm.Machine[*Controller]

	Spawn   *systems.SpawnSystem
	Motion  *systems.MotionSystem
	Matcher *systems.Matcher
	Ingest  *systems.IngestSystem

	statState   *status.AtomicString
	statSession *status.AtomicString
	statRunning *atomic.Bool
}

// NewController builds the systems around world and wires the state graph
// source may be nil for keyboard-only play
func NewController(world *engine.World, cfg config.Config, source recognition.Source, poster engine.Poster) (*Controller, error) {
	c := &Controller{
		world:       world,
		cfg:         cfg,
		Spawn:       systems.NewSpawnSystem(world, cfg),
		Motion:      systems.NewMotionSystem(world, cfg),
		Matcher:     systems.NewMatcher(world, cfg),
		statState:   world.Status.Strings.Get(status.SessionState),
		statSession: world.Status.Strings.Get(status.SessionID),
		statRunning: world.Status.Bools.Get(status.GameRunning),
	}
	c.Ingest = systems.NewIngestSystem(world, cfg, source, c.Matcher, poster)
	c.Motion.SetDepletionHandler(c.onDepleted)

	m, err := buildMachine()
	if err != nil {
		return nil, fmt.Errorf("build lifecycle: %w", err)
	}
	c.machine = m
	if err := m.Init(c, StateIdle); err != nil {
		return nil, fmt.Errorf("init lifecycle: %w", err)
	}
	return c, nil
}

func buildMachine() (*fsm.Machine[*Controller], error) {
	m := fsm.NewMachine[*Controller]()
	m.AddState(StateIdle, "idle")
	m.AddState(StateRunning, "running")
	m.AddState(StatePaused, "paused")
	m.AddState(StateEnded, "ended")

	transitions := []struct {
		from fsm.StateID
		t    fsm.Transition[*Controller]
	}{
		{StateIdle, fsm.Transition[*Controller]{Event: evStart, TargetID: StateRunning, Action: (*Controller).resetSession}},
		{StateRunning, fsm.Transition[*Controller]{Event: evPause, TargetID: StatePaused, Action: (*Controller).announcePause}},
		{StatePaused, fsm.Transition[*Controller]{Event: evResume, TargetID: StateRunning, Action: (*Controller).announceResume}},
		{StateRunning, fsm.Transition[*Controller]{Event: evEnd, TargetID: StateEnded}},
		{StatePaused, fsm.Transition[*Controller]{Event: evEnd, TargetID: StateEnded}},
		{StateEnded, fsm.Transition[*Controller]{Event: evReset, TargetID: StateIdle}},
	}
	for _, tr := range transitions {
		if err := m.AddTransition(tr.from, tr.t); err != nil {
			return nil, err
		}
	}

	m.OnEnter(StateIdle, (*Controller).publishState)
	m.OnEnter(StateRunning, (*Controller).enterRunning)
	m.OnExit(StateRunning, (*Controller).exitRunning)
	m.OnEnter(StatePaused, (*Controller).publishState)
	m.OnEnter(StateEnded, (*Controller).enterEnded)
	return m, nil
}

// CanStart reports whether Start would begin a session
func (c *Controller) CanStart() bool {
	return c.machine.Can(c, evStart) || c.machine.Can(c, evReset)
}

// Start begins a new session from IDLE or ENDED
func (c *Controller) Start() error {
	if c.machine.Can(c, evReset) {
		if err := c.machine.Fire(c, evReset); err != nil {
			return fmt.Errorf("start: %w", err)
		}
	}
	if err := c.machine.Fire(c, evStart); err != nil {
		return fmt.Errorf("start from %s: %w", c.machine.StateName(), err)
	}
	return nil
}

// Pause freezes the running session
func (c *Controller) Pause() error {
	if err := c.machine.Fire(c, evPause); err != nil {
		return fmt.Errorf("pause from %s: %w", c.machine.StateName(), err)
	}
	return nil
}

// Resume continues a paused session
func (c *Controller) Resume() error {
	if err := c.machine.Fire(c, evResume); err != nil {
		return fmt.Errorf("resume from %s: %w", c.machine.StateName(), err)
	}
	return nil
}

// End terminates a running or paused session
func (c *Controller) End() error {
	if err := c.machine.Fire(c, evEnd); err != nil {
		return fmt.Errorf("end from %s: %w", c.machine.StateName(), err)
	}
	return nil
}

// TogglePause pauses when running and resumes when paused
func (c *Controller) TogglePause() error {
	switch {
	case c.machine.Can(c, evPause):
		return c.Pause()
	case c.machine.Can(c, evResume):
		return c.Resume()
	default:
		return fmt.Errorf("toggle pause from %s: %w", c.machine.StateName(), fsm.ErrNoTransition)
	}
}

// State returns the active lifecycle state
func (c *Controller) State() fsm.StateID {
	return c.machine.State()
}

// StateName returns the active state's name
func (c *Controller) StateName() string {
	return c.machine.StateName()
}

// SubmitWord routes a typed word through the same path as a final hypothesis
func (c *Controller) SubmitWord(word string) bool {
	return c.Ingest.Handle(recognition.Hypothesis{
		Text:   word,
		Final:  true,
		Source: "typed",
	})
}

// InjectWord matches word as a single candidate, without tokenizing
func (c *Controller) InjectWord(word string) bool {
	return c.Matcher.TryMatch(word)
}

// SetFuzzy toggles fuzzy matching for the rest of the process
func (c *Controller) SetFuzzy(enabled bool) {
	c.Matcher.SetFuzzy(enabled)
	log.Printf("[game] fuzzy matching %v", enabled)
}

// PopAll force-eliminates every live bubble
func (c *Controller) PopAll() int {
	n := c.Matcher.PopAll()
	if n > 0 {
		log.Printf("[game %s] force-popped %d bubbles", c.world.Session.ShortID(), n)
	}
	return n
}

// RestartRecognition closes and reopens the recognition subscription
func (c *Controller) RestartRecognition() {
	c.Ingest.Restart()
}

// onDepleted runs inside the motion tick that took the last life
func (c *Controller) onDepleted() {
	if err := c.End(); err != nil {
		log.Printf("[game] depletion end failed: %v", err)
	}
}

// ============================================================================
// State actions
// ============================================================================

func (c *Controller) resetSession() {
	s := c.world.Session
	s.Reset(c.cfg.Game.InitialLives, c.world.Scheduler.Now())
	c.statSession.Store(s.ID)
	c.Ingest.Reset()

	cleared := c.world.Registry.Clear()
	if len(cleared) > 0 {
		ids := make([]uint64, len(cleared))
		for i, b := range cleared {
			ids[i] = b.ID
		}
		c.world.Emit(events.EventBubblesCleared, &events.ClearedPayload{IDs: ids})
	}

	c.world.Emit(events.EventScoreChanged, &events.CounterPayload{Value: 0})
	c.world.Emit(events.EventLivesChanged, &events.CounterPayload{Value: s.Lives})
	c.world.Emit(events.EventGameStarted, c.sessionPayload())
}

func (c *Controller) announcePause() {
	c.world.Emit(events.EventGamePaused, c.sessionPayload())
}

func (c *Controller) announceResume() {
	c.world.Emit(events.EventGameResumed, c.sessionPayload())
}

func (c *Controller) enterRunning() {
	c.world.Session.Running = true
	c.Spawn.Start()
	c.Motion.Start()
	c.Ingest.Start()
	c.publishState()
}

func (c *Controller) exitRunning() {
	c.world.Session.Running = false
	c.Spawn.Stop()
	c.Motion.Stop()
	c.Ingest.Stop()
}

func (c *Controller) enterEnded() {
	c.publishState()
	s := c.world.Session
	log.Printf("[game %s] ended: score=%d lives=%d after %s",
		s.ShortID(), s.Score, s.Lives, c.world.Scheduler.Now().Sub(s.StartedAt).Round(time.Millisecond))
	c.world.Emit(events.EventGameEnded, c.sessionPayload())
}

func (c *Controller) publishState() {
	c.statState.Store(c.machine.StateName())
	c.statRunning.Store(c.world.Session.Running)
}

func (c *Controller) sessionPayload() *events.SessionPayload {
	s := c.world.Session
	return &events.SessionPayload{
		SessionID: s.ID,
		Score:     s.Score,
		Lives:     s.Lives,
	}
}
