package ui

import (
	"context"
	"log/slog"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/tidytype/internal/app"
	"github.com/dshills/tidytype/internal/command"
	"github.com/dshills/tidytype/internal/document"
	"github.com/dshills/tidytype/internal/playback"
)

// Target is what the host drives. *app.Application implements it.
type Target interface {
	Document() *document.Buffer
	Commands() *command.Registry
	Cleaning() bool
}

var _ app.Notifier = (*Host)(nil)

// quitSignal is posted when the run context ends.
type quitSignal struct{}

// Host runs the terminal event loop.
type Host struct {
	term   *Terminal
	logger *slog.Logger
	save   func() error

	target Target

	mu   sync.Mutex
	view view

	workCtx context.Context
	work    sync.WaitGroup
}

// Option configures a Host.
type Option func(*Host)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(h *Host) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithSave sets the function bound to Ctrl-S.
func WithSave(fn func() error) Option {
	return func(h *Host) {
		h.save = fn
	}
}

// NewHost creates a host drawing on term.
func NewHost(term *Terminal, opts ...Option) *Host {
	h := &Host{
		term:    term,
		logger:  slog.New(slog.DiscardHandler),
		workCtx: context.Background(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Bind sets the target. It must be called before Run.
func (h *Host) Bind(t Target) {
	h.target = t
}

// Observer returns a playback observer that triggers redraws.
func (h *Host) Observer() playback.Observer {
	return func(st playback.Step) {
		h.mu.Lock()
		if st.Kind == playback.StepRestore {
			h.view.playCursor = nil
		} else {
			c := st.Cursor
			h.view.playCursor = &c
		}
		h.mu.Unlock()
		h.term.Post(nil)
	}
}

// Run initializes the terminal and processes events until the user quits
// or ctx is done. A running clean is cancelled before Run returns.
func (h *Host) Run(ctx context.Context) error {
	if err := h.term.Init(); err != nil {
		return err
	}
	defer h.term.Shutdown()

	workCtx, cancel := context.WithCancel(ctx)
	h.workCtx = workCtx
	defer func() {
		cancel()
		h.work.Wait()
	}()

	go func() {
		<-workCtx.Done()
		h.term.Post(quitSignal{})
	}()

	h.draw()
	for {
		ev := h.term.PollEvent()
		if ev == nil {
			return nil
		}
		switch ev := ev.(type) {
		case *tcell.EventResize:
			h.term.Sync()
		case *tcell.EventKey:
			if h.handleKey(ev) {
				h.logger.Debug("quit requested")
				return nil
			}
		case *tcell.EventInterrupt:
			if _, ok := ev.Data().(quitSignal); ok && ctx.Err() != nil {
				return nil
			}
		}
		h.draw()
	}
}

func (h *Host) draw() {
	var doc *document.Buffer
	if h.target != nil {
		doc = h.target.Document()
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.term.Draw(func(s tcell.Screen) {
		h.view.render(s, doc)
	})
}

// handleKey routes a key and reports whether the host should quit.
func (h *Host) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyCtrlC:
		return true
	case tcell.KeyEscape:
		h.mu.Lock()
		open := h.view.previewOpen()
		h.view.previewTitle, h.view.previewText = "", ""
		h.mu.Unlock()
		if !open {
			h.execute(command.Cancel)
		}
	case tcell.KeyEnter, tcell.KeyTab:
		h.execute(command.Finish)
	case tcell.KeyCtrlS:
		h.saveDocument()
	case tcell.KeyCtrlA:
		h.selectAll()
	case tcell.KeyCtrlZ:
		h.history(true)
	case tcell.KeyCtrlY:
		h.history(false)
	case tcell.KeyUp, tcell.KeyDown, tcell.KeyLeft, tcell.KeyRight,
		tcell.KeyHome, tcell.KeyEnd, tcell.KeyPgUp, tcell.KeyPgDn:
		h.move(ev.Key(), ev.Modifiers()&tcell.ModShift != 0)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case 'c':
			h.spawn(command.Clean)
		case 'p':
			h.spawn(command.Preview)
		}
	}
	return false
}

// execute runs a command that returns immediately.
func (h *Host) execute(name string) {
	if h.target == nil {
		return
	}
	if err := h.target.Commands().Execute(context.Background(), name); err != nil {
		h.logger.Warn("command failed", "command", name, "error", err)
	}
}

// spawn runs a long command on a worker goroutine.
func (h *Host) spawn(name string) {
	if h.target == nil {
		return
	}
	h.mu.Lock()
	h.view.message = ""
	h.mu.Unlock()

	ctx := h.workCtx
	h.work.Add(1)
	go func() {
		defer h.work.Done()
		if err := h.target.Commands().Execute(ctx, name); err != nil {
			h.logger.Debug("command ended with error", "command", name, "error", err)
		}
		h.mu.Lock()
		h.view.playCursor = nil
		h.mu.Unlock()
		h.term.Post(nil)
	}()
}

// wait blocks until spawned commands return.
func (h *Host) wait() {
	h.work.Wait()
}

func (h *Host) editable() *document.Buffer {
	if h.target == nil || h.target.Cleaning() {
		return nil
	}
	return h.target.Document()
}

func (h *Host) selectAll() {
	doc := h.editable()
	if doc == nil {
		return
	}
	doc.SetSelection(document.NewRange(document.Point{}, doc.End()))
}

// history undoes or redoes one entry of the document history.
func (h *Host) history(undo bool) {
	doc := h.editable()
	if doc == nil {
		return
	}
	op, step := "Undo", doc.Undo
	if !undo {
		op, step = "Redo", doc.Redo
	}
	if _, err := step(); err != nil {
		h.Error(op + ": " + err.Error())
		return
	}
	h.setMessage("", messageInfo)
}

func (h *Host) move(key tcell.Key, extend bool) {
	doc := h.editable()
	if doc == nil {
		return
	}
	sel := doc.Selection()
	cur := sel.End
	line := doc.LineText(cur.Line)
	_, height := h.term.Size()
	page := max(height-2, 1)

	vertical := func(delta int) {
		x := visualCol(line, cur.Column)
		cur.Line = min(max(cur.Line+delta, 0), doc.LineCount()-1)
		cur.Column = byteCol(doc.LineText(cur.Line), x)
	}

	switch key {
	case tcell.KeyLeft:
		if cur.Column > 0 {
			cur.Column -= prevCluster(line, cur.Column)
		} else if cur.Line > 0 {
			cur.Line--
			cur.Column = len(doc.LineText(cur.Line))
		}
	case tcell.KeyRight:
		if cur.Column < len(line) {
			cur.Column += nextCluster(line, cur.Column)
		} else if cur.Line < doc.LineCount()-1 {
			cur = document.Point{Line: cur.Line + 1}
		}
	case tcell.KeyUp:
		vertical(-1)
	case tcell.KeyDown:
		vertical(1)
	case tcell.KeyPgUp:
		vertical(-page)
	case tcell.KeyPgDn:
		vertical(page)
	case tcell.KeyHome:
		cur.Column = 0
	case tcell.KeyEnd:
		cur.Column = len(line)
	}

	anchor := cur
	if extend {
		anchor = sel.Start
	}
	doc.SetSelection(document.NewRange(anchor, cur))
}

func (h *Host) saveDocument() {
	if h.save == nil {
		h.Error("Saving is not available")
		return
	}
	if h.target != nil && h.target.Cleaning() {
		h.Error("Cannot save while cleaning")
		return
	}
	if err := h.save(); err != nil {
		h.logger.Error("save failed", "error", err)
		h.Error("Save failed: " + err.Error())
		return
	}
	h.Info("Saved")
}

// Progress implements app.Notifier.
func (h *Host) Progress(msg string) func() {
	h.mu.Lock()
	h.view.progress = msg
	h.mu.Unlock()
	h.term.Post(nil)
	return func() {
		h.mu.Lock()
		h.view.progress = ""
		h.mu.Unlock()
		h.term.Post(nil)
	}
}

// Info implements app.Notifier.
func (h *Host) Info(msg string) {
	h.setMessage(msg, messageInfo)
}

// Error implements app.Notifier.
func (h *Host) Error(msg string) {
	h.setMessage(msg, messageError)
}

// Preview implements app.Notifier.
func (h *Host) Preview(title, text string) {
	h.mu.Lock()
	h.view.previewTitle = title
	h.view.previewText = text
	h.mu.Unlock()
	h.term.Post(nil)
}

func (h *Host) setMessage(msg string, kind messageKind) {
	h.mu.Lock()
	h.view.message = msg
	h.view.messageIs = kind
	h.mu.Unlock()
	h.term.Post(nil)
}
