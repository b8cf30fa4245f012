package events

import (
	"testing"
	"time"
)

type recordingHandler struct {
	name   string
	types  []EventType
	seen   *[]string
	events []GameEvent
}

func (h *recordingHandler) HandleEvent(ev GameEvent) {
	*h.seen = append(*h.seen, h.name)
	h.events = append(h.events, ev)
}

func (h *recordingHandler) EventTypes() []EventType { return h.types }

func TestRouterDispatchOrder(t *testing.T) {
	fixed := time.Unix(1700000000, 0)
	r := NewRouter(func() time.Time { return fixed })

	var seen []string
	a := &recordingHandler{name: "a", types: []EventType{EventScoreChanged}, seen: &seen}
	b := &recordingHandler{name: "b", types: []EventType{EventScoreChanged, EventLivesChanged}, seen: &seen}
	r.Register(a)
	r.Register(b)

	r.SetFrame(42)
	r.Emit(EventScoreChanged, &CounterPayload{Value: 10, Delta: 10})

	if len(seen) != 2 || seen[0] != "a" || seen[1] != "b" {
		t.Fatalf("dispatch order = %v, want [a b]", seen)
	}
	ev := b.events[0]
	if ev.Frame != 42 || !ev.Timestamp.Equal(fixed) {
		t.Errorf("stamp = frame %d at %v", ev.Frame, ev.Timestamp)
	}
	if p, ok := ev.Payload.(*CounterPayload); !ok || p.Value != 10 {
		t.Errorf("payload = %#v", ev.Payload)
	}

	r.Emit(EventLivesChanged, &CounterPayload{Value: 2, Delta: -1})
	if len(a.events) != 1 || len(b.events) != 2 {
		t.Errorf("a=%d b=%d events, want 1 and 2", len(a.events), len(b.events))
	}
}

func TestRouterNoHandlers(t *testing.T) {
	r := NewRouter(nil)
	if r.HasHandlers(EventBubbleMoved) {
		t.Fatal("fresh router should have no handlers")
	}
	r.Emit(EventBubbleMoved, nil)

	count := 0
	r.Register(HandlerFunc{Types: []EventType{EventBubbleMoved}, Fn: func(GameEvent) { count++ }})
	r.Emit(EventBubbleMoved, nil)
	if count != 1 || r.HandlerCount(EventBubbleMoved) != 1 {
		t.Errorf("count=%d handlers=%d", count, r.HandlerCount(EventBubbleMoved))
	}
}

func TestEventNames(t *testing.T) {
	for _, et := range AllTypes() {
		name := et.String()
		if name == "Unknown" {
			t.Errorf("type %d has no name", et)
			continue
		}
		back, ok := GetEventType(name)
		if !ok || back != et {
			t.Errorf("GetEventType(%q) = %d, %v", name, back, ok)
		}
	}
	if _, ok := GetEventType("gameended"); !ok {
		t.Error("lookup should be case-insensitive")
	}
	if EventType(999).String() != "Unknown" {
		t.Error("unregistered type should be Unknown")
	}
}
