package playback

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rivo/uniseg"

	"github.com/dshills/tidytype/internal/document"
)

// DefaultCharDelay is the pause after each typed character.
const DefaultCharDelay = 15 * time.Millisecond

// StepKind identifies a document mutation made by a Player.
type StepKind int

const (
	// StepBegin is reported once the original span has been captured and cleared.
	StepBegin StepKind = iota
	// StepChar is a single typed character.
	StepChar
	// StepNewline is a typed line break.
	StepNewline
	// StepFlush is the remaining text inserted after a finish request.
	StepFlush
	// StepRestore is the rollback after a cancel request.
	StepRestore
)

// Step describes a mutation for observers.
type Step struct {
	SessionID string
	Kind      StepKind
	Text      string
	Cursor    document.Point

	// Typed counts characters inserted one at a time so far.
	Typed int
}

// Observer is notified after every mutation. It runs on the playing
// goroutine and must not block.
type Observer func(Step)

// Sleeper suspends until d elapses, ctx is done or wake fires.
type Sleeper func(ctx context.Context, d time.Duration, wake <-chan struct{})

// Player types replacement text into a Document.
type Player struct {
	charDelay atomic.Int64
	sleep     Sleeper
	observer  Observer
	logger    *slog.Logger
}

// Option configures a Player.
type Option func(*Player)

// WithCharDelay sets the pause after each character. Non-positive values
// disable the pause.
func WithCharDelay(d time.Duration) Option {
	return func(p *Player) {
		p.charDelay.Store(int64(d))
	}
}

// WithObserver registers a callback for every mutation.
func WithObserver(fn Observer) Option {
	return func(p *Player) {
		p.observer = fn
	}
}

// WithSleeper replaces the suspension function.
func WithSleeper(fn Sleeper) Option {
	return func(p *Player) {
		if fn != nil {
			p.sleep = fn
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Player) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewPlayer creates a Player.
func NewPlayer(opts ...Option) *Player {
	p := &Player{
		sleep:  sleepTimer,
		logger: slog.New(slog.DiscardHandler),
	}
	p.charDelay.Store(int64(DefaultCharDelay))
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CharDelay returns the current pause after each character.
func (p *Player) CharDelay() time.Duration {
	return time.Duration(p.charDelay.Load())
}

// SetCharDelay changes the pause. It takes effect at the next character,
// including for a session already playing.
func (p *Player) SetCharDelay(d time.Duration) {
	p.charDelay.Store(int64(d))
}

// Play replaces s.OriginalRange in doc with newText, one character at a time.
// CR and CRLF line endings in newText are typed as LF, the form Buffer stores.
// The session is marked active for the duration of the call and inactive on
// every exit path.
func (p *Player) Play(ctx context.Context, doc Document, s *Session, newText string) (Result, error) {
	s.active.Store(true)
	defer s.active.Store(false)

	pr := &run{
		player: p,
		ctx:    ctx,
		doc:    doc,
		s:      s,
		cursor: s.OriginalRange.Start,
		res:    Result{SessionID: s.ID},
		logger: p.logger.With("session", s.ID),
	}
	return pr.play(document.NormalizeLineEndings(newText))
}

// run holds the state of one Play call.
type run struct {
	player *Player
	ctx    context.Context
	doc    Document
	s      *Session
	cursor document.Point
	typed  int // bytes of newText already in the document
	res    Result
	logger *slog.Logger
}

func (r *run) play(newText string) (Result, error) {
	original, err := r.doc.TextRange(r.s.OriginalRange)
	if err != nil {
		return r.fail("read", err)
	}
	r.s.OriginalText = original

	if !r.s.OriginalRange.IsEmpty() {
		if err := r.doc.Delete(r.s.OriginalRange); err != nil {
			return r.fail("delete", err)
		}
	}
	r.emit(StepBegin, "")
	r.logger.Debug("playback started", "range", r.s.OriginalRange.String(), "bytes", len(newText))

	lines := strings.Split(newText, "\n")
	finishing := false

typing:
	for i, line := range lines {
		switch r.poll() {
		case signalCancel:
			return r.restore()
		case signalFinish:
			finishing = true
			break typing
		}

		state := -1
		rest := line
		for len(rest) > 0 {
			switch r.poll() {
			case signalCancel:
				return r.restore()
			case signalFinish:
				finishing = true
				break typing
			}

			var ch string
			ch, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
			if err := r.doc.Insert(r.cursor, ch); err != nil {
				return r.fail("insert", err)
			}
			r.cursor.Column += len(ch)
			r.typed += len(ch)
			r.res.Typed++
			r.emit(StepChar, ch)

			r.player.sleep(r.ctx, r.player.CharDelay(), r.s.wake)
		}

		if i == len(lines)-1 {
			break
		}
		switch r.poll() {
		case signalCancel:
			return r.restore()
		case signalFinish:
			finishing = true
			break typing
		}
		if err := r.doc.Insert(r.cursor, "\n"); err != nil {
			return r.fail("insert", err)
		}
		r.cursor = document.Point{Line: r.cursor.Line + 1}
		r.typed++
		r.res.Typed++
		r.emit(StepNewline, "\n")
	}

	// A cancel that arrived during the last pause still rolls back.
	if !finishing && r.poll() == signalCancel {
		return r.restore()
	}

	if finishing {
		if suffix := newText[r.typed:]; suffix != "" {
			if err := r.doc.Insert(r.cursor, suffix); err != nil {
				return r.fail("flush", err)
			}
			r.cursor = r.cursor.Advance(suffix)
			r.typed = len(newText)
			r.res.Flushed = suffix
			r.emit(StepFlush, suffix)
		}
	}

	r.doc.SetSelection(document.Caret(r.cursor))
	r.res.Outcome = Completed
	r.res.Cursor = r.cursor
	r.logger.Debug("playback completed", "typed", r.res.Typed, "flushed", len(r.res.Flushed))
	return r.res, nil
}

// poll checks the session flags and the context.
func (r *run) poll() signal {
	if r.ctx.Err() != nil {
		return signalCancel
	}
	return r.s.poll()
}

// restore replaces everything inserted so far with the original text and
// reselects the original range.
func (r *run) restore() (Result, error) {
	inserted := document.NewRange(r.s.OriginalRange.Start, r.cursor)
	if err := r.doc.Replace(inserted, r.s.OriginalText); err != nil {
		return r.fail("restore", err)
	}
	r.doc.SetSelection(r.s.OriginalRange)
	r.cursor = r.s.OriginalRange.Start.Advance(r.s.OriginalText)
	r.emit(StepRestore, r.s.OriginalText)

	r.res.Outcome = Cancelled
	r.res.Cursor = r.cursor
	r.logger.Debug("playback cancelled", "typed", r.res.Typed)
	return r.res, nil
}

func (r *run) fail(op string, err error) (Result, error) {
	r.res.Outcome = Failed
	r.res.Cursor = r.cursor
	r.res.Err = &EditError{Op: op, Err: err}
	r.logger.Warn("playback failed", "op", op, "error", err)
	return r.res, r.res.Err
}

func (r *run) emit(kind StepKind, text string) {
	if r.player.observer == nil {
		return
	}
	r.player.observer(Step{
		SessionID: r.s.ID,
		Kind:      kind,
		Text:      text,
		Cursor:    r.cursor,
		Typed:     r.res.Typed,
	})
}

func sleepTimer(ctx context.Context, d time.Duration, wake <-chan struct{}) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	case <-wake:
	}
}
