package events

import "time"

// Handler processes specific event types
// Systems and collaborators implement this interface to receive routed events
type Handler interface {
	// HandleEvent processes a single event
	// Called synchronously on the engine loop goroutine
	HandleEvent(event GameEvent)

	// EventTypes returns the event types this handler processes
	// The router uses this for registration
	EventTypes() []EventType
}

// HandlerFunc adapts a function to Handler for a fixed set of types
type HandlerFunc struct {
	Types []EventType
	Fn    func(GameEvent)
}

func (h HandlerFunc) HandleEvent(event GameEvent) {
	h.Fn(event)
}
func (h HandlerFunc) EventTypes() []EventType {
	return h.Types
}

// Router dispatches events to registered handlers
//
// Architecture:
//   - Synchronous dispatch on the emitting goroutine (the engine loop)
//   - Multiple handlers can register for the same event type
//   - Handlers are invoked in registration order
//   - Not safe for concurrent Register and Emit
type Router struct {
	handlers map[EventType][]Handler
	frame    int64
	now      func() time.Time
}

// NewRouter creates a router stamping events with the given clock
func NewRouter(now func() time.Time) *Router {
	if now == nil {
		now = time.Now
	}
	return &Router{
		handlers: make(map[EventType][]Handler),
		now:      now,
	}
}

// Register adds a handler for its declared event types
func (r *Router) Register(handler Handler) {
	for _, t := range handler.EventTypes() {
		r.handlers[t] = append(r.handlers[t], handler)
	}
}

// SetFrame updates the frame stamped onto subsequent events
func (r *Router) SetFrame(frame int64) {
	r.frame = frame
}

// Frame returns the current frame stamp
func (r *Router) Frame() int64 {
	return r.frame
}

// Emit builds an event and dispatches it to every handler for its type
func (r *Router) Emit(t EventType, payload any) {
	handlers := r.handlers[t]
	if len(handlers) == 0 {
		return
	}
	ev := GameEvent{
		Type:      t,
		Payload:   payload,
		Frame:     r.frame,
		Timestamp: r.now(),
	}
	for _, h := range handlers {
		h.HandleEvent(ev)
	}
}

// HasHandlers returns true if any handlers are registered for the given type
func (r *Router) HasHandlers(t EventType) bool {
	return len(r.handlers[t]) > 0
}

// HandlerCount returns the number of handlers registered for the given type
func (r *Router) HandlerCount(t EventType) int {
	return len(r.handlers[t])
}
