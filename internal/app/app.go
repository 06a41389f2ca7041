// Package app wires the selection source, the model rewriter and the
// playback controller into the clean, preview, finish and cancel commands.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/dshills/tidytype/internal/command"
	"github.com/dshills/tidytype/internal/config"
	"github.com/dshills/tidytype/internal/document"
	"github.com/dshills/tidytype/internal/hook"
	"github.com/dshills/tidytype/internal/playback"
	"github.com/dshills/tidytype/internal/rewrite"
	"github.com/dshills/tidytype/internal/source"
)

// Messages shown to the user.
const (
	MsgCleaning  = "Cleaning code..."
	MsgCleaned   = "Code cleaned successfully!"
	MsgCancelled = "Cleanup cancelled"
	MsgPreview   = "Cleaned code (preview)"
)

// Options configures the application.
type Options struct {
	Config   *config.Config
	Logger   *slog.Logger
	Notifier Notifier

	// Rewriter overrides the provider built from Config.
	Rewriter rewrite.Rewriter

	// PlayerOptions are appended to the options derived from Config.
	PlayerOptions []playback.Option
}

// Application coordinates one document and one playback controller.
type Application struct {
	mu  sync.RWMutex
	doc *document.Buffer
	cfg *config.Config

	logger   *slog.Logger
	notifier Notifier
	player   *playback.Player
	ctrl     *playback.Controller
	source   *source.Source
	filter   *hook.Filter
	commands *command.Registry

	// fixedRewriter is set when Options.Rewriter was given; reloads keep it.
	fixedRewriter bool
	cleaning      atomic.Bool
}

// New creates an Application.
func New(opts Options) (*Application, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = LogNotifier{Logger: logger}
	}

	rw := opts.Rewriter
	if rw == nil {
		var err error
		rw, err = rewrite.New(cfg.Provider, rewrite.WithLogger(logger))
		if err != nil {
			return nil, &OperationError{Op: "configure", Target: "provider", Err: err}
		}
	}

	app := &Application{
		cfg:           cfg,
		logger:        logger,
		notifier:      notifier,
		fixedRewriter: opts.Rewriter != nil,
		commands:      command.NewRegistry(),
	}

	srcOpts := []source.Option{
		source.WithMaxLines(cfg.Selection.MaxLines),
		source.WithLogger(logger.With("component", "source")),
	}
	if cfg.Hook.Script != "" {
		f, err := hook.Load(cfg.Hook.Script)
		if err != nil {
			return nil, &OperationError{Op: "load", Target: cfg.Hook.Script, Err: err}
		}
		app.filter = f
		srcOpts = append(srcOpts, source.WithFilter(f))
	}
	app.source = source.New(rw, srcOpts...)

	playerOpts := append([]playback.Option{
		playback.WithCharDelay(cfg.Playback.CharDelay()),
		playback.WithLogger(logger.With("component", "playback")),
	}, opts.PlayerOptions...)
	app.player = playback.NewPlayer(playerOpts...)
	app.ctrl = playback.NewController(app.player, logger.With("component", "controller"))

	app.registerCommands()
	return app, nil
}

func (app *Application) registerCommands() {
	app.commands.Register(command.Clean, command.HandlerFunc(app.Clean))
	app.commands.Register(command.Preview, command.HandlerFunc(func(ctx context.Context) error {
		_, err := app.Preview(ctx)
		return err
	}))
	app.commands.Register(command.Finish, command.HandlerFunc(func(context.Context) error {
		app.ctrl.RequestFinish()
		return nil
	}))
	app.commands.Register(command.Cancel, command.HandlerFunc(func(context.Context) error {
		app.ctrl.RequestCancel()
		return nil
	}))
}

// Commands returns the command registry.
func (app *Application) Commands() *command.Registry {
	return app.commands
}

// SetDocument sets the active document.
func (app *Application) SetDocument(doc *document.Buffer) {
	app.mu.Lock()
	defer app.mu.Unlock()
	app.doc = doc
}

// Document returns the active document, or nil.
func (app *Application) Document() *document.Buffer {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.doc
}

// Config returns the configuration in effect.
func (app *Application) Config() *config.Config {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.cfg
}

// Cleaning reports whether a clean is in progress.
func (app *Application) Cleaning() bool {
	return app.cleaning.Load()
}

// Clean rewrites the selection of the active document and animates the
// result into it. Cancellation is not an error. Every failure is also
// reported through the Notifier.
func (app *Application) Clean(ctx context.Context) error {
	if !app.cleaning.CompareAndSwap(false, true) {
		return app.report(ErrBusy)
	}
	defer app.cleaning.Store(false)

	doc, sel, cleaned, err := app.prepare(ctx)
	if err != nil {
		return app.report(err)
	}

	// The whole animation undoes as one step.
	doc.BeginGroup(command.Clean)
	res, err := app.ctrl.Start(ctx, doc, sel.Range, cleaned)
	doc.EndGroup()
	if err != nil {
		return app.report(&OperationError{Op: "apply", Target: doc.Name(), Err: err})
	}
	switch res.Outcome {
	case playback.Cancelled:
		app.logger.Info(MsgCancelled, "session", res.SessionID)
	case playback.Completed:
		app.notifier.Info(MsgCleaned)
	}
	return nil
}

// Preview rewrites the selection and shows the result without applying it.
func (app *Application) Preview(ctx context.Context) (string, error) {
	_, _, cleaned, err := app.prepare(ctx)
	if err != nil {
		return "", app.report(err)
	}
	app.notifier.Preview(MsgPreview, cleaned)
	return cleaned, nil
}

// prepare captures the selection and fetches its replacement.
func (app *Application) prepare(ctx context.Context) (*document.Buffer, source.Selection, string, error) {
	doc := app.Document()
	var reader source.Reader
	if doc != nil {
		reader = doc
	}
	sel, err := app.source.Selected(reader)
	if err != nil {
		return nil, source.Selection{}, "", err
	}

	done := app.notifier.Progress(MsgCleaning)
	cleaned, err := app.source.Replacement(ctx, sel)
	done()
	if err != nil {
		return nil, source.Selection{}, "", &OperationError{Op: "rewrite", Target: doc.Name(), Err: err}
	}
	return doc, sel, cleaned, nil
}

// Finish flushes the rest of the replacement.
func (app *Application) Finish() {
	app.ctrl.RequestFinish()
}

// Cancel restores the original text.
func (app *Application) Cancel() {
	app.ctrl.RequestCancel()
}

// Reload applies a new configuration. The char delay takes effect
// immediately, even for a session that is playing.
func (app *Application) Reload(cfg *config.Config) error {
	app.player.SetCharDelay(cfg.Playback.CharDelay())
	if !app.fixedRewriter {
		rw, err := rewrite.New(cfg.Provider, rewrite.WithLogger(app.logger))
		if err != nil {
			return fmt.Errorf("reload provider: %w", err)
		}
		app.source.SetRewriter(rw)
	}

	app.mu.Lock()
	app.cfg = cfg
	app.mu.Unlock()
	app.logger.Info("configuration applied", "char_delay", cfg.Playback.CharDelay(), "provider", cfg.Provider.Name)
	return nil
}

// Close releases resources.
func (app *Application) Close() {
	if app.filter != nil {
		app.filter.Close()
	}
}

func (app *Application) report(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	app.logger.Error("command failed", "error", err)
	app.notifier.Error(UserMessage(err))
	return err
}
