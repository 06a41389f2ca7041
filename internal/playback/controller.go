package playback

import (
	"context"
	"log/slog"
	"sync"

	"github.com/dshills/tidytype/internal/document"
)

// State is the controller state.
type State int

const (
	// Idle means no session is playing.
	Idle State = iota
	// Playing means a session is in flight.
	Playing
)

// String returns the state name.
func (s State) String() string {
	if s == Playing {
		return "playing"
	}
	return "idle"
}

// Controller runs at most one playback session at a time.
// Start blocks for the duration of the session; RequestFinish and
// RequestCancel may be called from any goroutine.
type Controller struct {
	mu      sync.Mutex
	state   State
	session *Session

	player *Player
	logger *slog.Logger
}

// NewController creates a controller driving the given player.
func NewController(player *Player, logger *slog.Logger) *Controller {
	if player == nil {
		player = NewPlayer()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Controller{
		player: player,
		logger: logger,
	}
}

// Start replaces r in doc with newText. It returns ErrBusy, without
// touching the session in flight, if another session is playing.
func (c *Controller) Start(ctx context.Context, doc Document, r document.Range, newText string) (Result, error) {
	c.mu.Lock()
	if c.state == Playing {
		c.mu.Unlock()
		c.logger.Debug("start rejected", "reason", "busy")
		return Result{}, ErrBusy
	}
	s := NewSession(r)
	c.state = Playing
	c.session = s
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.state = Idle
		c.session = nil
		c.mu.Unlock()
	}()

	res, err := c.player.Play(ctx, doc, s, newText)
	c.logger.Info("playback finished", "session", res.SessionID, "outcome", res.Outcome.String(), "typed", res.Typed)
	return res, err
}

// RequestFinish flushes the rest of the text at the next poll point.
// It is a no-op when idle.
func (c *Controller) RequestFinish() {
	if s := c.active(); s != nil {
		s.RequestFinish()
	}
}

// RequestCancel rolls the document back at the next poll point.
// It is a no-op when idle.
func (c *Controller) RequestCancel() {
	if s := c.active(); s != nil {
		s.RequestCancel()
	}
}

func (c *Controller) active() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Playing {
		return nil
	}
	return c.session
}
