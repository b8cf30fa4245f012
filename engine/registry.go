package engine

// Registry is the authoritative set of live bubbles
// Owned by the loop goroutine; no internal locking
// Iteration order is insertion order
type Registry struct {
	order  []*Bubble
	byID   map[uint64]*Bubble
	nextID uint64
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		byID:   make(map[uint64]*Bubble),
		nextID: 1,
	}
}

// NextID reserves the next bubble ID, never reused across resets
func (r *Registry) NextID() uint64 {
	id := r.nextID
	r.nextID++
	return id
}

// Add inserts a bubble, assigning an ID if it has none
// Capacity is not enforced here
func (r *Registry) Add(b *Bubble) {
	if b.ID == 0 {
		b.ID = r.NextID()
	} else if b.ID >= r.nextID {
		r.nextID = b.ID + 1
	}
	if _, exists := r.byID[b.ID]; exists {
		r.Remove(b.ID)
	}
	b.State = BubbleAlive
	r.order = append(r.order, b)
	r.byID[b.ID] = b
}

// Remove eliminates a bubble; false if it was already absent
// The single true return per ID is the only ALIVE -> ELIMINATED transition
func (r *Registry) Remove(id uint64) bool {
	b, ok := r.byID[id]
	if !ok {
		return false
	}
	delete(r.byID, id)
	for i, o := range r.order {
		if o.ID == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	b.State = BubbleEliminated
	return true
}

// Get returns a live bubble by ID
func (r *Registry) Get(id uint64) (*Bubble, bool) {
	b, ok := r.byID[id]
	return b, ok
}

// All returns a snapshot slice in insertion order
// Removals during iteration of the snapshot are not observed by it
func (r *Registry) All() []*Bubble {
	out := make([]*Bubble, len(r.order))
	copy(out, r.order)
	return out
}

// Count returns the number of live bubbles
func (r *Registry) Count() int {
	return len(r.order)
}

// Clear drops every bubble and returns them
// Cleared bubbles are discarded with the session, not eliminated
func (r *Registry) Clear() []*Bubble {
	cleared := r.order
	r.order = nil
	r.byID = make(map[uint64]*Bubble)
	return cleared
}
