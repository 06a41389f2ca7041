package source

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dshills/tidytype/internal/document"
	"github.com/dshills/tidytype/internal/rewrite"
)

func fixed(out string, err error) rewrite.Rewriter {
	return rewrite.Func(func(context.Context, string) (string, error) {
		return out, err
	})
}

type upperFilter struct{}

func (upperFilter) Apply(_ context.Context, _, cleaned string) (string, error) {
	return strings.ToUpper(cleaned), nil
}

// crlfFilter joins the cleaned lines with CRLF.
type crlfFilter struct{}

func (crlfFilter) Apply(_ context.Context, _, cleaned string) (string, error) {
	return strings.ReplaceAll(cleaned, "\n", "\r\n"), nil
}

type failingFilter struct{}

func (failingFilter) Apply(context.Context, string, string) (string, error) {
	return "", errors.New("boom")
}

func TestSelected(t *testing.T) {
	buf := document.NewBuffer("one\ntwo\nthree")
	buf.SetSelection(document.NewRange(document.Point{Line: 2, Column: 3}, document.Point{Line: 1, Column: 0}))

	sel, err := New(nil).Selected(buf)
	if err != nil {
		t.Fatalf("Selected: %v", err)
	}
	if sel.Text != "two\nthr" {
		t.Errorf("expected %q, got %q", "two\nthr", sel.Text)
	}
	if sel.Range.Start != (document.Point{Line: 1}) {
		t.Errorf("expected normalized range, got %s", sel.Range)
	}
	if sel.Lines() != 2 {
		t.Errorf("expected 2 lines, got %d", sel.Lines())
	}
}

func TestSelectedLimits(t *testing.T) {
	if _, err := New(nil).Selected(nil); !errors.Is(err, ErrNoDocument) {
		t.Errorf("expected ErrNoDocument, got %v", err)
	}

	text := strings.Repeat("x\n", 100) + "x"
	buf := document.NewBuffer(text)
	buf.SetSelection(document.NewRange(document.Point{}, buf.End()))

	if _, err := New(nil).Selected(buf); !errors.Is(err, ErrSelectionTooLarge) {
		t.Errorf("expected ErrSelectionTooLarge for 101 lines, got %v", err)
	}
	if _, err := New(nil, WithMaxLines(101)).Selected(buf); err != nil {
		t.Errorf("expected 101 lines to fit a 101 limit, got %v", err)
	}
}

func TestReplacement(t *testing.T) {
	tests := []struct {
		name     string
		original string
		model    string
		filter   Filter
		want     string
	}{
		{"plain", "foo", "bar", nil, "bar"},
		{"strips fence", "foo", "```go\nbar()\n```", nil, "bar()"},
		{"drops added newline", "foo", "bar\n\n", nil, "bar"},
		{"keeps original newline", "foo\n", "bar", nil, "bar\n"},
		{"empty original keeps output", "", "line1\nline2\n", nil, "line1\nline2\n"},
		{"filter applied last", "foo", "bar", upperFilter{}, "BAR"},
		{"model crlf", "foo", "a\r\nb", nil, "a\nb"},
		{"filter crlf normalized", "foo", "a\nb", crlfFilter{}, "a\nb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := New(fixed(tt.model, nil), WithFilter(tt.filter))
			got, err := src.Replacement(context.Background(), Selection{Text: tt.original})
			if err != nil {
				t.Fatalf("Replacement: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestReplacementErrors(t *testing.T) {
	_, err := New(fixed("", rewrite.ErrMissingAPIKey)).Replacement(context.Background(), Selection{Text: "x"})
	if !errors.Is(err, rewrite.ErrMissingAPIKey) {
		t.Errorf("expected rewriter error, got %v", err)
	}

	_, err = New(fixed("y", nil), WithFilter(failingFilter{})).Replacement(context.Background(), Selection{Text: "x"})
	if err == nil || !strings.Contains(err.Error(), "hook") {
		t.Errorf("expected hook error, got %v", err)
	}
}
