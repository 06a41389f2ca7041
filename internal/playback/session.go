package playback

import (
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dshills/tidytype/internal/document"
)

// signal is the result of polling a session.
type signal int

const (
	signalNone signal = iota
	signalFinish
	signalCancel
)

// Session is one in-flight animation.
// OriginalRange and OriginalText are captured once when the session starts
// and are never re-read from the live selection.
type Session struct {
	ID            string
	OriginalRange document.Range
	OriginalText  string

	active          atomic.Bool
	cancelRequested atomic.Bool
	finishRequested atomic.Bool

	// wake interrupts the current suspension point.
	wake chan struct{}
}

// NewSession creates an inactive session for the given range.
func NewSession(r document.Range) *Session {
	return &Session{
		ID:            uuid.NewString(),
		OriginalRange: r.Normalize(),
		wake:          make(chan struct{}, 1),
	}
}

// Active reports whether the animation loop is running.
func (s *Session) Active() bool {
	return s.active.Load()
}

// RequestCancel asks the session to roll back at its next poll point.
func (s *Session) RequestCancel() {
	s.cancelRequested.Store(true)
	s.notify()
}

// RequestFinish asks the session to flush the remaining text at its next poll point.
func (s *Session) RequestFinish() {
	s.finishRequested.Store(true)
	s.notify()
}

func (s *Session) notify() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// poll returns the pending signal. Cancel takes precedence over finish.
func (s *Session) poll() signal {
	if s.cancelRequested.Load() {
		return signalCancel
	}
	if s.finishRequested.Load() {
		return signalFinish
	}
	return signalNone
}
