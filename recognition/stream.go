package recognition

import (
	"context"
	"sync"

	"github.com/lixenwraith/word-popper/core"
)

// stream is the Subscription shared by all adapters
// Producers call send and finish; the consumer ranges over Results
type stream struct {
	results chan Result
	done    chan struct{}
	ctx     context.Context
	cancel  context.CancelFunc

	mu        sync.RWMutex
	finished  bool
	once      sync.Once
	closeOnce sync.Once
	onClose   func() error
}

func newStream(parent context.Context, size int, onClose func() error) *stream {
	ctx, cancel := context.WithCancel(parent)
	s := &stream{
		results: make(chan Result, size),
		done:    make(chan struct{}),
		ctx:     ctx,
		cancel:  cancel,
		onClose: onClose,
	}
	// Parent cancellation ends the stream like Close
	core.Go(func() {
		select {
		case <-ctx.Done():
			_ = s.Close()
		case <-s.done:
		}
	})
	return s
}

// Results returns the delivery channel
func (s *stream) Results() <-chan Result {
	return s.results
}

// send delivers r, blocking while the buffer is full
// Returns false once the stream is finished
func (s *stream) send(r Result) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.finished {
		return false
	}
	select {
	case s.results <- r:
		return true
	case <-s.done:
		return false
	}
}

// finish ends the stream, delivering err first when non-nil
// Only the first call has effect
func (s *stream) finish(err error) {
	if err != nil {
		s.send(Result{Err: err})
	}
	s.once.Do(func() {
		close(s.done)
		s.cancel()
		s.mu.Lock()
		s.finished = true
		close(s.results)
		s.mu.Unlock()
	})
}

// Close ends the stream and releases the adapter session
func (s *stream) Close() error {
	s.finish(nil)
	var err error
	s.closeOnce.Do(func() {
		if s.onClose != nil {
			err = s.onClose()
		}
	})
	return err
}

// Done is closed once the stream has finished
func (s *stream) Done() <-chan struct{} {
	return s.done
}

func (s *stream) isDone() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}
