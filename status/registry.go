package status

import (
	"sync/atomic"
)

// Metric keys written by the engine systems
const (
	SpawnCreated   = "spawn.created"
	SpawnSkipped   = "spawn.skipped"
	MotionEvicted  = "motion.evicted"
	MatchExact     = "match.exact"
	MatchFuzzy     = "match.fuzzy"
	MatchMiss      = "match.miss"
	IngestPartial  = "ingest.partial"
	IngestFinal    = "ingest.final"
	IngestRestarts = "ingest.restarts"
	EngineTicks    = "engine.ticks"

	IngestLastWord = "ingest.last_word"
	IngestSource   = "ingest.source"
	SessionState   = "session.state"
	SessionID      = "session.id"
	LoopProcessed  = "engine.loop_processed"

	GameRunning = "game.running"
	FrameMillis = "engine.frame_ms"
)

// Registry is the central metrics facade
// Systems cache pointers during init; Update loops write directly to atomics
type Registry struct {
	Bools   *MetricMap[atomic.Bool]
	Ints    *MetricMap[atomic.Int64]
	Floats  *MetricMap[AtomicFloat]
	Strings *MetricMap[AtomicString]
}

// NewRegistry creates an initialized Registry
func NewRegistry() *Registry {
	return &Registry{
		Bools:   NewMetricMap[atomic.Bool](),
		Ints:    NewMetricMap[atomic.Int64](),
		Floats:  NewMetricMap[AtomicFloat](),
		Strings: NewMetricMap[AtomicString](),
	}
}

// TotalCount returns total metrics across all types
func (r *Registry) TotalCount() int {
	return r.Bools.Count() + r.Ints.Count() + r.Floats.Count() + r.Strings.Count()
}

// Snapshot copies every metric into a plain map, keyed by metric name
// Safe to call from any goroutine
func (r *Registry) Snapshot() map[string]any {
	out := make(map[string]any, r.TotalCount())
	r.Bools.Range(func(k string, v *atomic.Bool) { out[k] = v.Load() })
	r.Ints.Range(func(k string, v *atomic.Int64) { out[k] = v.Load() })
	r.Floats.Range(func(k string, v *AtomicFloat) { out[k] = v.Get() })
	r.Strings.Range(func(k string, v *AtomicString) { out[k] = v.Load() })
	return out
}
