// Package main is the entry point for tidytype.
package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/term"

	"github.com/dshills/tidytype/internal/app"
	"github.com/dshills/tidytype/internal/config"
	"github.com/dshills/tidytype/internal/document"
	"github.com/dshills/tidytype/internal/playback"
	"github.com/dshills/tidytype/internal/ui"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts, err := parseFlags(args, os.Stderr)
	if err != nil {
		if errors.Is(err, errHelp) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	cfgPath := opts.ConfigPath
	if cfgPath == "" {
		cfgPath = config.DefaultPath()
	}
	cfg, err := loadConfig(cfgPath, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	headless := opts.Headless || opts.Preview || !term.IsTerminal(int(os.Stdout.Fd()))

	logOut, closeLog, err := logOutput(cfg, headless)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer closeLog()
	logger := app.NewLogger(logOut, cfg.Log.Level)

	doc, err := openDocument(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	if headless {
		return runHeadless(ctx, cfg, cfgPath, opts, doc, logger)
	}
	return runTerminal(ctx, cfg, cfgPath, opts, doc, logger)
}

// loadConfig loads file and environment settings and overlays the flags.
func loadConfig(path string, opts options) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil && !errors.Is(err, config.ErrValidationFailed) {
		return nil, err
	}
	opts.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// logOutput picks the log destination. While the terminal UI owns the
// screen, logs go to log.file or nowhere.
func logOutput(cfg *config.Config, headless bool) (io.Writer, func(), error) {
	if cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		return f, func() { _ = f.Close() }, nil
	}
	if headless {
		return os.Stderr, func() {}, nil
	}
	return io.Discard, func() {}, nil
}

func openDocument(opts options) (*document.Buffer, error) {
	f, err := os.Open(opts.File)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := document.NewBufferFromReader(f,
		document.WithName(filepath.Base(opts.File)),
		document.WithHistory(document.DefaultHistoryLimit),
	)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", opts.File, err)
	}

	sel := document.NewRange(document.Point{}, doc.End())
	if opts.Lines != "" {
		span, err := parseLineSpan(opts.Lines)
		if err != nil {
			return nil, err
		}
		sel = span.selection(doc)
	}
	doc.SetSelection(sel)
	return doc, nil
}

// saveDocument writes doc to path through a temporary file in the same
// directory.
func saveDocument(doc *document.Buffer, path string) error {
	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return err
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tidytype-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(info.Mode().Perm()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// watchConfig reloads the configuration until ctx is done.
func watchConfig(ctx context.Context, path string, opts options, a *app.Application, logger *slog.Logger) {
	if path == "" {
		return
	}
	go func() {
		err := config.Watch(ctx, path, logger.With("component", "config"), func(cfg *config.Config) {
			opts.apply(cfg)
			if err := cfg.Validate(); err != nil {
				logger.Warn("ignoring invalid configuration", "error", err)
				return
			}
			if err := a.Reload(cfg); err != nil {
				logger.Warn("configuration reload failed", "error", err)
			}
		})
		if err != nil {
			logger.Debug("config watch stopped", "error", err)
		}
	}()
}

func runTerminal(ctx context.Context, cfg *config.Config, cfgPath string, opts options, doc *document.Buffer, logger *slog.Logger) int {
	t, err := ui.NewTerminal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	host := ui.NewHost(t,
		ui.WithLogger(logger.With("component", "ui")),
		ui.WithSave(func() error { return saveDocument(doc, opts.File) }),
	)

	application, err := app.New(app.Options{
		Config:        cfg,
		Logger:        logger,
		Notifier:      host,
		PlayerOptions: []playback.Option{playback.WithObserver(host.Observer())},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Close()
	application.SetDocument(doc)
	host.Bind(application)

	watchConfig(ctx, cfgPath, opts, application, logger)

	if err := host.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
