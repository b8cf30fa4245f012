// Package audio plays the pop and shoot effects
// Every call is fire-and-forget; a manager whose speaker failed to start is silent
package audio

import (
	"log"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/word-popper/events"
)

const (
	sampleRate = beep.SampleRate(48000)

	popDuration   = 120 * time.Millisecond
	shootDuration = 180 * time.Millisecond
)

// SoundManager mixes short effects onto one speaker stream
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
	disabled    bool

	// play hands a finished effect to the output, replaced in tests
	play func(s beep.Streamer)
	seed int64
}

// NewSoundManager creates a manager; call Initialize before sounds are audible
func NewSoundManager() *SoundManager {
	sm := &SoundManager{
		mixer: &beep.Mixer{},
		seed:  time.Now().UnixNano(),
	}
	sm.play = func(s beep.Streamer) {
		speaker.Lock()
		sm.mixer.Add(s)
		speaker.Unlock()
	}
	return sm
}

// Initialize opens the speaker; on failure the manager disables itself
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized || sm.disabled {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		sm.disabled = true
		log.Printf("[audio] speaker unavailable, sound disabled: %v", err)
		return err
	}

	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// SetEnabled mutes or unmutes without touching the speaker
func (sm *SoundManager) SetEnabled(enabled bool) {
	sm.mu.Lock()
	sm.disabled = !enabled
	sm.mu.Unlock()
}

// Enabled reports whether effects would be played
func (sm *SoundManager) Enabled() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.initialized && !sm.disabled
}

// Cleanup stops all sounds
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()
	// beep has no speaker close; clearing the mixer leaves silence
	sm.initialized = false
}

// PlayPop plays the bubble burst
func (sm *SoundManager) PlayPop() {
	sm.emit(beep.Take(sampleRate.N(popDuration), NewPopGenerator(sampleRate)))
}

// PlayShoot plays the hit sweep for a recognized word
func (sm *SoundManager) PlayShoot() {
	sm.mu.Lock()
	sm.seed++
	seed := sm.seed
	sm.mu.Unlock()
	sm.emit(beep.Take(sampleRate.N(shootDuration), NewShootGenerator(sampleRate, seed)))
}

func (sm *SoundManager) emit(s beep.Streamer) {
	sm.mu.Lock()
	ok := sm.initialized && !sm.disabled
	play := sm.play
	sm.mu.Unlock()
	if ok {
		play(s)
	}
}

// EventTypes implements events.Handler
func (sm *SoundManager) EventTypes() []events.EventType {
	return []events.EventType{events.EventBubbleEliminated}
}

// HandleEvent shoots on a recognized word, then pops on every elimination
func (sm *SoundManager) HandleEvent(ev events.GameEvent) {
	p, ok := ev.Payload.(*events.EliminatedPayload)
	if !ok {
		return
	}
	if p.Cause == events.CauseMatched {
		sm.PlayShoot()
	}
	sm.PlayPop()
}

// PopGenerator is a fast downward chirp with an exponential tail
type PopGenerator struct {
	sr  beep.SampleRate
	pos int
}

// NewPopGenerator creates a pop sound generator
func NewPopGenerator(sr beep.SampleRate) *PopGenerator {
	return &PopGenerator{sr: sr}
}

func (g *PopGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)

		// 900Hz falling to ~300Hz
		freq := 300 + 600*math.Exp(-t*30)
		envelope := math.Exp(-t * 25)
		sample := 0.3 * envelope * math.Sin(2*math.Pi*freq*t)

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *PopGenerator) Err() error {
	return nil
}

// ShootGenerator is a rising sweep with a noise transient
type ShootGenerator struct {
	sr   beep.SampleRate
	pos  int
	seed int64
	rng  *rand.Rand
}

// NewShootGenerator creates a shoot sound generator
func NewShootGenerator(sr beep.SampleRate, seed int64) *ShootGenerator {
	return &ShootGenerator{
		sr:   sr,
		seed: seed,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

func (g *ShootGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)

		freq := 400 + 2400*t
		tone := math.Sin(2 * math.Pi * freq * t)

		// Noise only in the first 20ms
		noise := 0.0
		if t < 0.02 {
			noise = (g.rng.Float64()*2 - 1) * (1 - t/0.02)
		}

		envelope := math.Exp(-t * 12)
		sample := 0.2 * envelope * (0.7*tone + 0.3*noise)

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *ShootGenerator) Err() error {
	return nil
}
