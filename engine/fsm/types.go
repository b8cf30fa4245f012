package fsm

import "errors"

// ErrNoTransition is returned when the active state has no enabled transition for an event
var ErrNoTransition = errors.New("no transition")

// StateID is a unique identifier for a node
type StateID int

// EventID names a trigger fed to Fire
type EventID int

const (
	StateNone StateID = 0
)

// Machine is a generic flat finite state machine
// T is the context type passed to actions and guards (e.g., *game.Controller)
// Not safe for concurrent use; callers serialize Fire through their own loop
type Machine[T any] struct {
	// Graph Data (Immutable after Init)
	nodes map[StateID]*Node[T]

	// Runtime State
	activeStateID StateID
}

// Node represents a state
type Node[T any] struct {
	ID   StateID
	Name string

	// Lifecycle Actions
	OnEnter []ActionFunc[T]
	OnExit  []ActionFunc[T]

	// Transitions in evaluation priority
	Transitions []Transition[T]
}

// Transition defines a link between states
type Transition[T any] struct {
	Event    EventID
	TargetID StateID
	Guard    GuardFunc[T]  // nil = Always true
	Action   ActionFunc[T] // Runs between source exit and target enter, nil = none
}

// GuardFunc returns true if the transition should occur
type GuardFunc[T any] func(ctx T) bool

// ActionFunc executes a side effect
type ActionFunc[T any] func(ctx T)
