package engine

import (
	"math/rand"

	"github.com/lixenwraith/word-popper/events"
	"github.com/lixenwraith/word-popper/status"
)

// World holds the simulation state shared by the systems
// Every field is touched only from the loop goroutine, except Status which is atomic
type World struct {
	Registry  *Registry
	Session   *Session
	Events    *events.Router
	Scheduler Scheduler
	Status    *status.Registry
	Rand      *rand.Rand

	frame int64
}

// NewWorld wires a world around a scheduler and a seeded random source
func NewWorld(sched Scheduler, lives int, rng *rand.Rand) *World {
	if rng == nil {
		rng = rand.New(rand.NewSource(sched.Now().UnixNano()))
	}
	return &World{
		Registry:  NewRegistry(),
		Session:   NewSession(lives),
		Events:    events.NewRouter(sched.Now),
		Scheduler: sched,
		Status:    status.NewRegistry(),
		Rand:      rng,
	}
}

// Emit forwards to the event router
func (w *World) Emit(t events.EventType, payload any) {
	w.Events.Emit(t, payload)
}

// AdvanceFrame increments the frame counter stamped onto events
func (w *World) AdvanceFrame() int64 {
	w.frame++
	w.Events.SetFrame(w.frame)
	return w.frame
}

// Frame returns the current frame number
func (w *World) Frame() int64 {
	return w.frame
}

// Running reports whether systems may mutate state
func (w *World) Running() bool {
	return w.Session.Running
}
