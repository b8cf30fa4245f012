package systems

import (
	"context"
	"errors"
	"log"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/word-popper/config"
	"github.com/lixenwraith/word-popper/constants"
	"github.com/lixenwraith/word-popper/core"
	"github.com/lixenwraith/word-popper/engine"
	"github.com/lixenwraith/word-popper/events"
	"github.com/lixenwraith/word-popper/recognition"
	"github.com/lixenwraith/word-popper/status"
)

// IngestSystem turns a recognition stream into match attempts
// Subscription, pump and restart callbacks all land on the loop via poster
// Every delivery carries the generation it was opened under; stale ones are dropped
type IngestSystem struct {
	engine.SystemBase

	source  recognition.Source // nil = typed input only
	matcher *Matcher
	poster  engine.Poster

	maxAlternatives int
	restartDelay    time.Duration
	restartMaxDelay time.Duration
	maxRestarts     int

	active       bool
	generation   uint64
	sub          recognition.Subscription
	cancel       context.CancelFunc
	restartTimer engine.Timer
	failures     int  // Consecutive failed sessions, reset by any hypothesis
	reported     bool // Unavailable notice already emitted

	// Cached metric pointers
	statPartial  *atomic.Int64
	statFinal    *atomic.Int64
	statRestarts *atomic.Int64
	statLastWord *status.AtomicString
	statSource   *status.AtomicString
}

// NewIngestSystem wires a source to the matcher
func NewIngestSystem(world *engine.World, cfg config.Config, source recognition.Source, matcher *Matcher, poster engine.Poster) *IngestSystem {
	s := &IngestSystem{
		SystemBase: engine.NewSystemBase(world),
		source:     source,
		matcher:    matcher,
		poster:     poster,

		maxAlternatives: cfg.Recognition.MaxAlternatives,
		restartDelay:    cfg.Recognition.RestartDelay(),
		restartMaxDelay: cfg.Recognition.RestartMaxDelay(),
		maxRestarts:     cfg.Recognition.MaxRestarts,

		statPartial:  world.Status.Ints.Get(status.IngestPartial),
		statFinal:    world.Status.Ints.Get(status.IngestFinal),
		statRestarts: world.Status.Ints.Get(status.IngestRestarts),
		statLastWord: world.Status.Strings.Get(status.IngestLastWord),
		statSource:   world.Status.Strings.Get(status.IngestSource),
	}
	if source != nil {
		s.statSource.Store(source.Name())
	} else {
		s.statSource.Store("typed")
	}
	return s
}

// Start opens a subscription; no-op without a source or when already started
func (s *IngestSystem) Start() {
	if s.active {
		return
	}
	s.active = true
	s.failures = 0
	if s.source == nil {
		return
	}
	s.listen()
}

// Stop closes the subscription and cancels any pending restart
func (s *IngestSystem) Stop() {
	if !s.active {
		return
	}
	s.active = false
	s.closeCurrent()
}

// Restart closes the current subscription and listens again after the base delay
func (s *IngestSystem) Restart() {
	if !s.active || s.source == nil {
		return
	}
	log.Printf("[ingest] manual restart requested")
	s.closeCurrent()
	s.failures = 0
	s.reported = false
	s.restartTimer = s.Scheduler.After(s.restartDelay, s.restart)
}

// Reset clears per-session failure bookkeeping; call between sessions while stopped
func (s *IngestSystem) Reset() {
	s.failures = 0
	s.reported = false
	s.Session.LastWord = ""
	s.statLastWord.Store("")
}

// Active reports whether ingestion is started
func (s *IngestSystem) Active() bool {
	return s.active
}

// Listening reports whether a subscription is open
func (s *IngestSystem) Listening() bool {
	return s.sub != nil
}

// Failures returns the consecutive failure count
func (s *IngestSystem) Failures() int {
	return s.failures
}

// closeCurrent invalidates in-flight deliveries and releases the subscription
func (s *IngestSystem) closeCurrent() {
	s.generation++
	if s.restartTimer != nil {
		s.restartTimer.Stop()
		s.restartTimer = nil
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if s.sub != nil {
		sub := s.sub
		s.sub = nil
		core.Go(func() { _ = sub.Close() })
	}
}

// listen opens a subscription off the loop; the result is posted back
func (s *IngestSystem) listen() {
	s.generation++
	gen := s.generation
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	source := s.source

	core.Go(func() {
		sub, err := source.Listen(ctx)
		posted := s.poster.Post(func() { s.onListen(gen, sub, err) })
		if !posted && sub != nil {
			_ = sub.Close()
		}
	})
}

func (s *IngestSystem) onListen(gen uint64, sub recognition.Subscription, err error) {
	if gen != s.generation || !s.active {
		if sub != nil {
			core.Go(func() { _ = sub.Close() })
		}
		return
	}

	if err != nil {
		switch {
		case errors.Is(err, recognition.ErrUnavailable):
			s.reportUnavailable(err.Error())
		case errors.Is(err, recognition.ErrClosed):
			log.Printf("[ingest] source closed, not relistening")
		default:
			log.Printf("[ingest] listen failed: %v", err)
			s.scheduleRestart()
		}
		return
	}

	if s.failures > 0 {
		s.World.Emit(events.EventRecognitionRestarted, &events.RecognitionPayload{
			Source:   s.source.Name(),
			Attempts: s.failures,
		})
	}
	s.sub = sub
	core.Go(func() { s.pump(gen, sub) })
}

// pump forwards results to the loop until the subscription ends
func (s *IngestSystem) pump(gen uint64, sub recognition.Subscription) {
	for r := range sub.Results() {
		r := r
		if !s.poster.Post(func() { s.onResult(gen, r) }) {
			_ = sub.Close()
			return
		}
	}
	s.poster.Post(func() { s.onEnded(gen) })
}

func (s *IngestSystem) onResult(gen uint64, r recognition.Result) {
	if gen != s.generation || !s.active {
		return
	}
	if r.Err != nil {
		log.Printf("[ingest] stream error: %v", r.Err)
		s.closeCurrent()
		if errors.Is(r.Err, recognition.ErrUnavailable) {
			s.reportUnavailable(r.Err.Error())
			return
		}
		s.scheduleRestart()
		return
	}
	s.failures = 0
	s.Handle(r.Hypothesis)
}

func (s *IngestSystem) onEnded(gen uint64) {
	if gen != s.generation || !s.active {
		return
	}
	log.Printf("[ingest] stream ended, restarting")
	s.closeCurrent()
	s.scheduleRestart()
}

// scheduleRestart relistens after a delay doubling per consecutive failure
func (s *IngestSystem) scheduleRestart() {
	if !s.active || !s.Session.Running || s.restartTimer != nil {
		return
	}
	s.failures++
	if s.maxRestarts > 0 && s.failures > s.maxRestarts {
		s.reportUnavailable("restart budget exhausted")
		return
	}
	delay := s.backoff(s.failures)
	s.restartTimer = s.Scheduler.After(delay, s.restart)
}

func (s *IngestSystem) restart() {
	s.restartTimer = nil
	if !s.active || !s.Session.Running {
		return
	}
	s.statRestarts.Add(1)
	s.listen()
}

func (s *IngestSystem) backoff(failures int) time.Duration {
	d := s.restartDelay
	for i := 1; i < failures && d < s.restartMaxDelay; i++ {
		d *= 2
	}
	if d > s.restartMaxDelay {
		d = s.restartMaxDelay
	}
	return d
}

func (s *IngestSystem) reportUnavailable(reason string) {
	if s.reported {
		return
	}
	s.reported = true
	name := "typed"
	if s.source != nil {
		name = s.source.Name()
	}
	log.Printf("[ingest] recognition unavailable (%s): %s", name, reason)
	s.World.Emit(events.EventRecognitionUnavailable, &events.RecognitionPayload{
		Source:   name,
		Reason:   reason,
		Attempts: s.failures,
	})
}

// Handle processes one hypothesis; only FINAL ones reach the matcher
// Order: last token, then every token of length >= MinTokenLength, then
// tokens of alternatives 1..MaxAlternatives-1; first success stops everything
func (s *IngestSystem) Handle(h recognition.Hypothesis) bool {
	if !s.Session.Running {
		return false
	}

	payload := &events.HypothesisPayload{
		Text:         h.Primary(),
		Final:        h.Final,
		Alternatives: h.Alternatives,
		Source:       h.Source,
	}

	if !h.Final {
		s.statPartial.Add(1)
		s.World.Emit(events.EventHypothesis, payload)
		return false
	}
	s.statFinal.Add(1)

	matched := s.matchFinal(h)
	payload.Matched = matched
	s.World.Emit(events.EventHypothesis, payload)
	return matched
}

func (s *IngestSystem) matchFinal(h recognition.Hypothesis) bool {
	tokens := recognition.Tokenize(h.Primary())
	if len(tokens) == 0 {
		return false
	}

	last := tokens[len(tokens)-1]
	s.Session.LastWord = last
	s.statLastWord.Store(last)

	if s.matcher.TryMatch(last) {
		return true
	}

	if len(tokens) > 1 {
		for _, tok := range recognition.FilterShort(tokens, constants.MinTokenLength) {
			if s.matcher.TryMatch(tok) {
				return true
			}
		}
	}

	if len(h.Alternatives) > 1 {
		limit := min(len(h.Alternatives), s.maxAlternatives)
		for i := 1; i < limit; i++ {
			for _, tok := range recognition.FilterShort(recognition.Tokenize(h.Alternatives[i]), constants.MinTokenLength) {
				if s.matcher.TryMatch(tok) {
					return true
				}
			}
		}
	}
	return false
}
