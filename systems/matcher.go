package systems

import (
	"log"
	"strings"
	"sync/atomic"
	"unicode/utf8"

	"github.com/lixenwraith/word-popper/config"
	"github.com/lixenwraith/word-popper/constants"
	"github.com/lixenwraith/word-popper/engine"
	"github.com/lixenwraith/word-popper/events"
	"github.com/lixenwraith/word-popper/status"
)

// Matcher eliminates at most one live bubble per candidate word
// Policy: exact (case-insensitive) across all bubbles first, then fuzzy
// Ties go to the earliest spawned bubble, not the closest match
type Matcher struct {
	engine.SystemBase

	fuzzy bool
	ratio float64

	// Cached metric pointers
	statExact *atomic.Int64
	statFuzzy *atomic.Int64
	statMiss  *atomic.Int64
}

// NewMatcher creates a matcher from the game config
func NewMatcher(world *engine.World, cfg config.Config) *Matcher {
	return &Matcher{
		SystemBase: engine.NewSystemBase(world),
		fuzzy:      cfg.Game.FuzzyMatching,
		ratio:      cfg.Game.FuzzyRatio,

		statExact: world.Status.Ints.Get(status.MatchExact),
		statFuzzy: world.Status.Ints.Get(status.MatchFuzzy),
		statMiss:  world.Status.Ints.Get(status.MatchMiss),
	}
}

// SetFuzzy toggles fuzzy matching
func (m *Matcher) SetFuzzy(enabled bool) {
	m.fuzzy = enabled
}

func (m *Matcher) Fuzzy() bool {
	return m.fuzzy
}

// TryMatch eliminates the first bubble matching word
// Returns false when nothing matched or the session is not running
func (m *Matcher) TryMatch(word string) bool {
	if !m.Session.Running {
		return false
	}
	candidate := strings.ToLower(strings.TrimSpace(word))
	if candidate == "" {
		return false
	}

	bubbles := m.Registry.All()

	for _, b := range bubbles {
		if strings.ToLower(b.Word) == candidate {
			if m.eliminate(b, candidate, false, events.CauseMatched) {
				m.statExact.Add(1)
				return true
			}
		}
	}

	if m.fuzzy {
		for _, b := range bubbles {
			if IsFuzzyMatch(strings.ToLower(b.Word), candidate, m.ratio) {
				if m.eliminate(b, candidate, true, events.CauseMatched) {
					m.statFuzzy.Add(1)
					return true
				}
			}
		}
	}

	m.statMiss.Add(1)
	return false
}

// PopAll force-eliminates every live bubble, scoring each
func (m *Matcher) PopAll() int {
	if !m.Session.Running {
		return 0
	}
	popped := 0
	for _, b := range m.Registry.All() {
		if m.eliminate(b, "", false, events.CauseForced) {
			popped++
		}
	}
	return popped
}

// eliminate removes b and awards points; false if another trigger already removed it
func (m *Matcher) eliminate(b *engine.Bubble, candidate string, fuzzy bool, cause events.EliminationCause) bool {
	if !m.Registry.Remove(b.ID) {
		log.Printf("[matcher] bubble %d %q already gone, skipping", b.ID, b.Word)
		return false
	}
	score := m.Session.AddScore(constants.PointsPerPop)

	m.World.Emit(events.EventBubbleEliminated, &events.EliminatedPayload{
		Bubble:    b.Payload(),
		Cause:     cause,
		Candidate: candidate,
		Fuzzy:     fuzzy,
	})
	m.World.Emit(events.EventScoreChanged, &events.CounterPayload{Value: score, Delta: constants.PointsPerPop})
	return true
}

// IsFuzzyMatch reports whether one word contains the other, both have at least
// MinFuzzyLength runes, and the rune length ratio is below ratio in either direction
// Inputs are compared as given; callers lowercase
func IsFuzzyMatch(a, b string, ratio float64) bool {
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	if la < constants.MinFuzzyLength || lb < constants.MinFuzzyLength {
		return false
	}
	if !strings.Contains(a, b) && !strings.Contains(b, a) {
		return false
	}
	return float64(la)/float64(lb) < ratio || float64(lb)/float64(la) < ratio
}
