// Package source produces the two texts a playback session needs: the
// selected original and its cleaned replacement.
package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/dshills/tidytype/internal/document"
	"github.com/dshills/tidytype/internal/rewrite"
)

// DefaultMaxLines is the largest selection sent to the model.
const DefaultMaxLines = 100

// Errors returned by Source.
var (
	// ErrNoDocument indicates there is no document to read a selection from.
	ErrNoDocument = errors.New("no active document")

	// ErrSelectionTooLarge indicates the selection exceeds the line limit.
	ErrSelectionTooLarge = errors.New("selection exceeds line limit")
)

// Reader is the part of a document a Source reads.
type Reader interface {
	Selection() document.Range
	TextRange(r document.Range) (string, error)
}

// Filter post-processes a replacement. *hook.Filter implements it.
type Filter interface {
	Apply(ctx context.Context, original, cleaned string) (string, error)
}

// Selection is a captured span of a document.
type Selection struct {
	Range document.Range
	Text  string
}

// Lines returns the number of lines in the selected text.
func (s Selection) Lines() int {
	return strings.Count(s.Text, "\n") + 1
}

// Source reads selections and asks a Rewriter for replacements.
type Source struct {
	mu       sync.RWMutex
	rewriter rewrite.Rewriter
	filter   Filter
	maxLines int
	logger   *slog.Logger
}

// Option configures a Source.
type Option func(*Source)

// WithMaxLines sets the selection line limit.
func WithMaxLines(n int) Option {
	return func(s *Source) {
		if n > 0 {
			s.maxLines = n
		}
	}
}

// WithFilter sets a post-processing filter.
func WithFilter(f Filter) Option {
	return func(s *Source) {
		s.filter = f
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Source) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a Source backed by rw.
func New(rw rewrite.Rewriter, opts ...Option) *Source {
	s := &Source{
		rewriter: rw,
		maxLines: DefaultMaxLines,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetRewriter swaps the rewriter, for example after a config reload.
func (s *Source) SetRewriter(rw rewrite.Rewriter) {
	s.mu.Lock()
	s.rewriter = rw
	s.mu.Unlock()
}

// Selected captures the current selection of doc.
func (s *Source) Selected(doc Reader) (Selection, error) {
	if doc == nil {
		return Selection{}, ErrNoDocument
	}
	r := doc.Selection().Normalize()
	text, err := doc.TextRange(r)
	if err != nil {
		return Selection{}, fmt.Errorf("reading selection: %w", err)
	}
	sel := Selection{Range: r, Text: text}
	if n := sel.Lines(); n > s.maxLines {
		return Selection{}, fmt.Errorf("%w: %d lines, limit %d", ErrSelectionTooLarge, n, s.maxLines)
	}
	return sel, nil
}

// Replacement asks the rewriter to clean sel and prepares the answer for
// playback.
func (s *Source) Replacement(ctx context.Context, sel Selection) (string, error) {
	s.mu.RLock()
	rw := s.rewriter
	s.mu.RUnlock()

	cleaned, err := rw.Rewrite(ctx, sel.Text)
	if err != nil {
		return "", err
	}
	cleaned = matchTrailingNewline(sel.Text, rewrite.Normalize(cleaned))

	if s.filter != nil {
		cleaned, err = s.filter.Apply(ctx, sel.Text, cleaned)
		if err != nil {
			return "", fmt.Errorf("hook: %w", err)
		}
		cleaned = rewrite.Normalize(cleaned)
	}
	s.logger.Debug("replacement ready", "lines", strings.Count(cleaned, "\n")+1)
	return cleaned, nil
}

// matchTrailingNewline makes cleaned end with a newline exactly when
// original does, so the text after the selection keeps its position.
func matchTrailingNewline(original, cleaned string) string {
	trimmed := strings.TrimRight(cleaned, "\n")
	if strings.HasSuffix(original, "\n") && trimmed != "" {
		return trimmed + "\n"
	}
	if original == "" {
		return cleaned
	}
	return trimmed
}
