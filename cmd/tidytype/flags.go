package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dshills/tidytype/internal/config"
	"github.com/dshills/tidytype/internal/document"
)

// errHelp reports that usage or version output was requested.
var errHelp = errors.New("help requested")

// options holds the parsed command line.
type options struct {
	ConfigPath string
	LogLevel   string
	Provider   string
	Model      string
	CharDelay  int
	Lines      string
	Preview    bool
	Headless   bool
	Write      bool
	File       string
}

// lineSpan is an inclusive, 1-based line selection.
type lineSpan struct {
	Start, End int
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	var showVersion, showHelp bool

	fs := flag.NewFlagSet("tidytype", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file")
	fs.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	fs.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&opts.Provider, "provider", "", "Model provider ("+strings.Join(config.Providers, ", ")+")")
	fs.StringVar(&opts.Model, "model", "", "Model name")
	fs.IntVar(&opts.CharDelay, "char-delay", -1, "Typing delay per character in milliseconds")
	fs.StringVar(&opts.Lines, "lines", "", "Lines to clean, as start:end (1-based, inclusive)")
	fs.BoolVar(&opts.Preview, "preview", false, "Show the cleaned code without applying it")
	fs.BoolVar(&opts.Headless, "headless", false, "Run without the terminal UI")
	fs.BoolVar(&opts.Write, "write", false, "Headless: write the result back to the file")
	fs.BoolVar(&opts.Write, "w", false, "Headless: write the result back to the file (shorthand)")
	fs.BoolVar(&showVersion, "version", false, "Show version information")
	fs.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	fs.BoolVar(&showHelp, "help", false, "Show help message")
	fs.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "tidytype - clean code with a language model, typed back live\n\n")
		fmt.Fprintf(stderr, "Usage: tidytype [options] file\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  tidytype main.go                     Open in the terminal UI\n")
		fmt.Fprintf(stderr, "  tidytype -lines 10:40 -w main.go     Clean lines 10-40 headless and save\n")
		fmt.Fprintf(stderr, "  tidytype -preview main.go            Print the cleaned code\n")
		fmt.Fprintf(stderr, "\nHeadless signals: SIGINT cancels and restores, SIGUSR1 finishes at once.\n")
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return opts, errHelp
		}
		return opts, err
	}

	if showHelp {
		fs.Usage()
		return opts, errHelp
	}
	if showVersion {
		fmt.Fprintf(stderr, "tidytype %s\nCommit: %s\nBuilt: %s\n", version, commit, date)
		return opts, errHelp
	}

	switch opts.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return opts, fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", opts.LogLevel)
	}
	if opts.Lines != "" {
		if _, err := parseLineSpan(opts.Lines); err != nil {
			return opts, err
		}
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return opts, errors.New("exactly one file is required")
	}
	opts.File = fs.Arg(0)
	return opts, nil
}

// apply overlays the command line on cfg. Flags win over file and environment.
func (o options) apply(cfg *config.Config) {
	if o.LogLevel != "" {
		cfg.Log.Level = o.LogLevel
	}
	if o.Provider != "" {
		cfg.Provider.Name = o.Provider
	}
	if o.Model != "" {
		cfg.Provider.Model = o.Model
	}
	if o.CharDelay >= 0 {
		cfg.Playback.CharDelayMS = o.CharDelay
	}
}

func parseLineSpan(s string) (lineSpan, error) {
	startText, endText, ok := strings.Cut(s, ":")
	if !ok {
		endText = startText
	}
	start, err := strconv.Atoi(startText)
	if err != nil {
		return lineSpan{}, fmt.Errorf("invalid -lines %q: %w", s, err)
	}
	end, err := strconv.Atoi(endText)
	if err != nil {
		return lineSpan{}, fmt.Errorf("invalid -lines %q: %w", s, err)
	}
	if start < 1 || end < start {
		return lineSpan{}, fmt.Errorf("invalid -lines %q: need 1 <= start <= end", s)
	}
	return lineSpan{Start: start, End: end}, nil
}

// selection returns the range covering the span in doc, clamped to its
// last line. The final newline of the span is not included.
func (l lineSpan) selection(doc *document.Buffer) document.Range {
	last := doc.LineCount() - 1
	start := min(l.Start-1, last)
	end := min(l.End-1, last)
	return document.NewRange(
		document.Point{Line: start},
		document.Point{Line: end, Column: len(doc.LineText(end))},
	)
}
