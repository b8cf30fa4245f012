package recognition

import (
	"context"
	"sync"

	"github.com/lixenwraith/word-popper/constants"
	"github.com/lixenwraith/word-popper/core"
)

// FeedSource is an in-process push source
// Pushes reach the active subscription; with none active they are dropped
type FeedSource struct {
	name string

	mu          sync.Mutex
	active      *stream
	closed      bool
	unavailable bool
	listens     int
	notify      func(listening bool)
}

// NewFeedSource creates a push source with the given name
func NewFeedSource(name string) *FeedSource {
	return &FeedSource{name: name}
}

func (f *FeedSource) Name() string { return f.name }

// Listen opens a subscription, ending any previous one
func (f *FeedSource) Listen(ctx context.Context) (Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil, ErrClosed
	}
	if f.unavailable {
		return nil, ErrUnavailable
	}
	if f.active != nil {
		f.active.finish(nil)
	}

	s := newStream(ctx, constants.StreamBufferSize, func() error {
		f.notifyState()
		return nil
	})
	f.active = s
	f.listens++
	if fn := f.notify; fn != nil {
		core.Go(func() { fn(f.Listening()) })
	}
	return s, nil
}

// SetNotify registers a callback for listening on/off transitions
// Called on its own goroutine with the state current at call time
func (f *FeedSource) SetNotify(fn func(listening bool)) {
	f.mu.Lock()
	f.notify = fn
	f.mu.Unlock()
}

func (f *FeedSource) notifyState() {
	f.mu.Lock()
	fn := f.notify
	f.mu.Unlock()
	if fn != nil {
		core.Go(func() { fn(f.Listening()) })
	}
}

// Push delivers a hypothesis to the active subscription
// Returns false when nobody is listening
func (f *FeedSource) Push(h Hypothesis) bool {
	s := f.current()
	if s == nil {
		return false
	}
	if h.Source == "" {
		h.Source = f.name
	}
	return s.send(Result{Hypothesis: h})
}

// Fail ends the active subscription with err, as a dropped connection would
func (f *FeedSource) Fail(err error) {
	if s := f.detach(); s != nil {
		s.finish(err)
		f.notifyState()
	}
}

// End terminates the active subscription without an error
func (f *FeedSource) End() {
	if s := f.detach(); s != nil {
		s.finish(nil)
		f.notifyState()
	}
}

// SetUnavailable makes subsequent Listen calls return ErrUnavailable
func (f *FeedSource) SetUnavailable(v bool) {
	f.mu.Lock()
	f.unavailable = v
	f.mu.Unlock()
}

// Listening reports whether a subscription is open
func (f *FeedSource) Listening() bool {
	return f.current() != nil
}

// Listens returns how many subscriptions were opened
func (f *FeedSource) Listens() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listens
}

// Close ends the active subscription and rejects further Listen calls
func (f *FeedSource) Close() error {
	f.mu.Lock()
	f.closed = true
	s := f.active
	f.active = nil
	f.mu.Unlock()
	if s != nil {
		s.finish(nil)
	}
	return nil
}

func (f *FeedSource) current() *stream {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.active != nil && f.active.isDone() {
		f.active = nil
	}
	return f.active
}

func (f *FeedSource) detach() *stream {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.active
	f.active = nil
	return s
}
