package systems

import (
	"sync/atomic"
	"time"

	"github.com/lixenwraith/word-popper/config"
	"github.com/lixenwraith/word-popper/constants"
	"github.com/lixenwraith/word-popper/engine"
	"github.com/lixenwraith/word-popper/events"
	"github.com/lixenwraith/word-popper/status"
)

// SpawnSystem creates bubbles on a fixed interval while the session runs
type SpawnSystem struct {
	engine.SystemBase

	interval   time.Duration
	maxBubbles int
	baseSpeed  float64
	words      []string
	minX, maxX float64

	timer engine.Timer

	// Cached metric pointers
	statCreated *atomic.Int64
	statSkipped *atomic.Int64
}

// NewSpawnSystem creates a spawn system from the game and playfield config
func NewSpawnSystem(world *engine.World, cfg config.Config) *SpawnSystem {
	return &SpawnSystem{
		SystemBase: engine.NewSystemBase(world),
		interval:   cfg.Game.SpawnInterval(),
		maxBubbles: cfg.Game.MaxBubbles,
		baseSpeed:  cfg.Game.BubbleSpeed,
		words:      cfg.Game.Words,
		minX:       cfg.Playfield.EdgeMargin,
		maxX:       cfg.Playfield.Width - cfg.Playfield.EdgeMargin,

		statCreated: world.Status.Ints.Get(status.SpawnCreated),
		statSkipped: world.Status.Ints.Get(status.SpawnSkipped),
	}
}

// Start arms the spawn interval; the first bubble appears one interval after start
func (s *SpawnSystem) Start() {
	if s.timer != nil {
		return
	}
	s.timer = s.Scheduler.Every(s.interval, func() { s.Tick() })
}

// Stop disarms the interval; a fire already queued becomes a no-op
func (s *SpawnSystem) Stop() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// Active reports whether the interval is armed
func (s *SpawnSystem) Active() bool {
	return s.timer != nil
}

// Tick spawns one bubble if the session runs and the cap allows
func (s *SpawnSystem) Tick() (*engine.Bubble, bool) {
	if !s.Session.Running {
		return nil, false
	}
	if s.Registry.Count() >= s.maxBubbles {
		s.statSkipped.Add(1)
		return nil, false
	}

	rng := s.World.Rand
	b := &engine.Bubble{
		Word:      s.words[rng.Intn(len(s.words))],
		X:         s.minX + rng.Float64()*(s.maxX-s.minX),
		Y:         0,
		Speed:     s.baseSpeed * (constants.SpeedJitterMin + rng.Float64()*constants.SpeedJitterSpan),
		Hue:       rng.Intn(360),
		SpawnedAt: s.Scheduler.Now(),
	}
	s.Registry.Add(b)
	s.statCreated.Add(1)

	p := b.Payload()
	s.World.Emit(events.EventBubbleSpawned, &p)
	return b, true
}
