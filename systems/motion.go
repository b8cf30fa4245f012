package systems

import (
	"sync/atomic"
	"time"

	"github.com/lixenwraith/word-popper/config"
	"github.com/lixenwraith/word-popper/engine"
	"github.com/lixenwraith/word-popper/events"
	"github.com/lixenwraith/word-popper/status"
)

// MotionSystem advances bubbles each frame and evicts those past the boundary
type MotionSystem struct {
	engine.SystemBase

	frameInterval time.Duration
	evictionLine  float64

	// Runs synchronously inside the tick when lives reach zero
	onDepleted func()

	timer engine.Timer

	// Cached metric pointers
	statEvicted *atomic.Int64
	statTicks   *atomic.Int64
	statFrameMs *status.AtomicFloat
}

// NewMotionSystem creates a motion system from the frame rate and playfield config
func NewMotionSystem(world *engine.World, cfg config.Config) *MotionSystem {
	return &MotionSystem{
		SystemBase:    engine.NewSystemBase(world),
		frameInterval: cfg.Game.FrameInterval(),
		evictionLine:  cfg.Playfield.EvictionLine(),

		statEvicted: world.Status.Ints.Get(status.MotionEvicted),
		statTicks:   world.Status.Ints.Get(status.EngineTicks),
		statFrameMs: world.Status.Floats.Get(status.FrameMillis),
	}
}

// SetDepletionHandler registers the end-of-game transition
func (m *MotionSystem) SetDepletionHandler(fn func()) {
	m.onDepleted = fn
}

// Start arms the frame timer
func (m *MotionSystem) Start() {
	if m.timer != nil {
		return
	}
	m.timer = m.Scheduler.Every(m.frameInterval, m.Tick)
}

// Stop disarms the frame timer
func (m *MotionSystem) Stop() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

// Active reports whether the frame timer is armed
func (m *MotionSystem) Active() bool {
	return m.timer != nil
}

// Tick moves every live bubble by its speed
// Eviction costs one life; depletion ends the game before the tick returns
func (m *MotionSystem) Tick() {
	if !m.Session.Running {
		return
	}
	start := time.Now()
	m.World.AdvanceFrame()
	m.statTicks.Add(1)

	for _, b := range m.Registry.All() {
		if !b.Alive() {
			continue
		}
		b.Y += b.Speed

		if b.Y <= m.evictionLine {
			p := b.Payload()
			m.World.Emit(events.EventBubbleMoved, &p)
			continue
		}

		if !m.Registry.Remove(b.ID) {
			continue
		}
		m.statEvicted.Add(1)
		lives := m.Session.LoseLife()

		p := b.Payload()
		m.World.Emit(events.EventBubbleEvicted, &p)
		m.World.Emit(events.EventLivesChanged, &events.CounterPayload{Value: lives, Delta: -1})

		if m.Session.Depleted() {
			if m.onDepleted != nil {
				m.onDepleted()
			}
			break
		}
	}

	m.statFrameMs.Smooth(float64(time.Since(start).Microseconds())/1000, 0.1)
}
