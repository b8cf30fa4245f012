package fsm

import "fmt"

// NewMachine creates a new FSM instance
func NewMachine[T any]() *Machine[T] {
	return &Machine[T]{
		nodes: make(map[StateID]*Node[T]),
	}
}

// Init enters the initial state, running its OnEnter actions
func (m *Machine[T]) Init(ctx T, initial StateID) error {
	node, ok := m.nodes[initial]
	if !ok {
		return fmt.Errorf("initial state ID %d not found", initial)
	}
	m.activeStateID = initial
	for _, fn := range node.OnEnter {
		fn(ctx)
	}
	return nil
}

// Fire routes an event through the active state's transitions
// First transition whose event matches and whose guard passes wins
// Order: source OnExit, transition Action, state switch, target OnEnter
// The state switch precedes OnEnter so actions may Fire again
func (m *Machine[T]) Fire(ctx T, ev EventID) error {
	node, ok := m.nodes[m.activeStateID]
	if !ok {
		return fmt.Errorf("fire event %d: machine not initialized", ev)
	}

	for _, trans := range node.Transitions {
		if trans.Event != ev {
			continue
		}
		if trans.Guard != nil && !trans.Guard(ctx) {
			continue
		}
		m.transition(ctx, node, trans)
		return nil
	}

	return fmt.Errorf("event %d in state %q: %w", ev, node.Name, ErrNoTransition)
}

// Can reports whether Fire(ev) would transition from the active state
func (m *Machine[T]) Can(ctx T, ev EventID) bool {
	node, ok := m.nodes[m.activeStateID]
	if !ok {
		return false
	}
	for _, trans := range node.Transitions {
		if trans.Event == ev && (trans.Guard == nil || trans.Guard(ctx)) {
			return true
		}
	}
	return false
}

func (m *Machine[T]) transition(ctx T, source *Node[T], trans Transition[T]) {
	for _, fn := range source.OnExit {
		fn(ctx)
	}
	if trans.Action != nil {
		trans.Action(ctx)
	}

	target, ok := m.nodes[trans.TargetID]
	if !ok {
		panic(fmt.Sprintf("FSM: Attempted transition to unknown state ID %d", trans.TargetID))
	}
	m.activeStateID = target.ID

	for _, fn := range target.OnEnter {
		fn(ctx)
	}
}

// State returns the active state
func (m *Machine[T]) State() StateID {
	return m.activeStateID
}

// StateName returns the active state's name
func (m *Machine[T]) StateName() string {
	if node, ok := m.nodes[m.activeStateID]; ok {
		return node.Name
	}
	return ""
}
