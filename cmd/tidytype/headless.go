package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"

	"github.com/dshills/tidytype/internal/app"
	"github.com/dshills/tidytype/internal/config"
	"github.com/dshills/tidytype/internal/document"
)

// consoleNotifier prints notifications for headless runs.
type consoleNotifier struct {
	mu  sync.Mutex
	out io.Writer
	err io.Writer
}

func (n *consoleNotifier) Progress(msg string) func() {
	n.Info(msg)
	return func() {}
}

func (n *consoleNotifier) Info(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintln(n.err, msg)
}

func (n *consoleNotifier) Error(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.err, "Error: %s\n", msg)
}

// Preview prints the cleaned text to out so it can be piped.
func (n *consoleNotifier) Preview(_, text string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprint(n.out, text)
	if text != "" && text[len(text)-1] != '\n' {
		fmt.Fprintln(n.out)
	}
}

func runHeadless(ctx context.Context, cfg *config.Config, cfgPath string, opts options, doc *document.Buffer, logger *slog.Logger) int {
	application, err := app.New(app.Options{
		Config:   cfg,
		Logger:   logger,
		Notifier: &consoleNotifier{out: os.Stdout, err: os.Stderr},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Close()
	application.SetDocument(doc)

	watchConfig(ctx, cfgPath, opts, application, logger)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := forwardPlaybackSignals(application, cancel)
	defer stop()

	if opts.Preview {
		if _, err := application.Preview(ctx); err != nil {
			return 1
		}
		return 0
	}

	original := doc.Text()
	if err := application.Clean(ctx); err != nil {
		return 1
	}
	if doc.Text() == original {
		return 0
	}

	if opts.Write {
		if err := saveDocument(doc, opts.File); err != nil {
			fmt.Fprintf(os.Stderr, "Error: saving %s: %v\n", opts.File, err)
			return 1
		}
		return 0
	}
	if _, err := doc.WriteTo(os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// forwardPlaybackSignals maps the interrupt signal to cancel and the finish
// signal to finish while a headless clean runs. An interrupt also ends ctx
// through abort so a pending model request stops too.
func forwardPlaybackSignals(a *app.Application, abort context.CancelFunc) (stop func()) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	notifyFinish(sigs)

	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case sig := <-sigs:
				if isFinishSignal(sig) {
					a.Finish()
				} else {
					a.Cancel()
					abort()
				}
			}
		}
	}()
	return func() {
		signal.Stop(sigs)
		close(done)
	}
}
