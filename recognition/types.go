// Package recognition adapts external speech recognizers into a cancellable hypothesis stream
package recognition

import (
	"context"
	"errors"
)

var (
	// ErrUnavailable means the recognizer is absent entirely; retrying will not help
	ErrUnavailable = errors.New("recognition unavailable")

	// ErrClosed is returned by operations on a closed source
	ErrClosed = errors.New("recognition source closed")
)

// Hypothesis is one recognition result for an utterance
type Hypothesis struct {
	Text         string
	Final        bool
	Alternatives []string // Ranked, index 0 is the primary text when present
	Source       string
}

// Primary returns the top-ranked text
func (h Hypothesis) Primary() string {
	if h.Text != "" {
		return h.Text
	}
	if len(h.Alternatives) > 0 {
		return h.Alternatives[0]
	}
	return ""
}

// Result carries either a hypothesis or a stream error
type Result struct {
	Hypothesis Hypothesis
	Err        error
}

// Subscription is an open recognition session
// Results closes when the session ends for any reason
type Subscription interface {
	Results() <-chan Result
	Close() error
}

// Source starts recognition sessions
// Listen must tolerate being called again right after a previous subscription ended
type Source interface {
	Name() string
	Listen(ctx context.Context) (Subscription, error)
	Close() error
}
