package document

import (
	"errors"
	"strings"
	"testing"
)

func TestNewBuffer(t *testing.T) {
	b := NewBuffer("")

	if b.Len() != 0 {
		t.Errorf("expected length 0, got %d", b.Len())
	}
	if b.LineCount() != 1 {
		t.Errorf("expected 1 line, got %d", b.LineCount())
	}
	if b.End() != (Point{}) {
		t.Errorf("expected end (0:0), got %s", b.End())
	}
}

func TestNewBufferMultiline(t *testing.T) {
	b := NewBuffer("line1\r\nline2\r\nline3")

	if b.Text() != "line1\nline2\nline3" {
		t.Errorf("expected normalized text, got %q", b.Text())
	}
	if b.LineCount() != 3 {
		t.Fatalf("expected 3 lines, got %d", b.LineCount())
	}
	for i, want := range []string{"line1", "line2", "line3"} {
		if got := b.LineText(i); got != want {
			t.Errorf("line %d: expected %q, got %q", i, want, got)
		}
	}
	if got := b.LineText(7); got != "" {
		t.Errorf("expected empty text past end, got %q", got)
	}
}

func TestBufferOffsetAndPoint(t *testing.T) {
	b := NewBuffer("ab\ncde\n")

	tests := []struct {
		point  Point
		offset int
	}{
		{Point{0, 0}, 0},
		{Point{0, 2}, 2},
		{Point{1, 0}, 3},
		{Point{1, 3}, 6},
		{Point{2, 0}, 7},
	}
	for _, tt := range tests {
		off, err := b.Offset(tt.point)
		if err != nil {
			t.Fatalf("Offset(%s): %v", tt.point, err)
		}
		if off != tt.offset {
			t.Errorf("Offset(%s): expected %d, got %d", tt.point, tt.offset, off)
		}
		if p := b.PointAt(tt.offset); p != tt.point {
			t.Errorf("PointAt(%d): expected %s, got %s", tt.offset, tt.point, p)
		}
	}

	for _, p := range []Point{{0, 3}, {3, 0}, {-1, 0}, {1, 4}} {
		if _, err := b.Offset(p); !errors.Is(err, ErrPointOutOfRange) {
			t.Errorf("Offset(%s): expected ErrPointOutOfRange, got %v", p, err)
		}
	}
}

func TestBufferEdits(t *testing.T) {
	b := NewBuffer("Hello World")
	rev := b.Revision()

	if err := b.Insert(Point{0, 5}, ","); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if b.Text() != "Hello, World" {
		t.Errorf("expected 'Hello, World', got %q", b.Text())
	}

	if err := b.Delete(NewRange(Point{0, 5}, Point{0, 6})); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if b.Text() != "Hello World" {
		t.Errorf("expected 'Hello World', got %q", b.Text())
	}

	if err := b.Replace(NewRange(Point{0, 6}, Point{0, 11}), "Go\nrocks"); err != nil {
		t.Fatalf("replace failed: %v", err)
	}
	if b.Text() != "Hello Go\nrocks" {
		t.Errorf("expected 'Hello Go\\nrocks', got %q", b.Text())
	}
	if b.LineText(1) != "rocks" {
		t.Errorf("expected second line 'rocks', got %q", b.LineText(1))
	}
	if b.Revision() != rev+3 {
		t.Errorf("expected revision %d, got %d", rev+3, b.Revision())
	}
}

func TestBufferTextRange(t *testing.T) {
	b := NewBuffer("foo\nbar baz")

	got, err := b.TextRange(NewRange(Point{0, 1}, Point{1, 3}))
	if err != nil {
		t.Fatalf("TextRange: %v", err)
	}
	if got != "oo\nbar" {
		t.Errorf("expected %q, got %q", "oo\nbar", got)
	}

	_, err = b.TextRange(NewRange(Point{1, 3}, Point{0, 1}))
	if !errors.Is(err, ErrRangeInvalid) {
		t.Errorf("expected ErrRangeInvalid, got %v", err)
	}
}

func TestBufferReadOnly(t *testing.T) {
	b := NewBuffer("text", WithReadOnly())

	if err := b.Insert(Point{}, "x"); !errors.Is(err, ErrReadOnly) {
		t.Errorf("expected ErrReadOnly, got %v", err)
	}
	if b.Text() != "text" {
		t.Errorf("read-only buffer was modified: %q", b.Text())
	}
}

func TestBufferClose(t *testing.T) {
	b := NewBuffer("text")
	b.Close()

	if err := b.Insert(Point{}, "x"); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed on insert, got %v", err)
	}
	if _, err := b.TextRange(Range{}); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed on read, got %v", err)
	}
}

func TestBufferWriteToRestoresLineEnding(t *testing.T) {
	b := NewBuffer("a\r\nb\r\n")
	if err := b.Insert(Point{1, 1}, "c"); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	var sb strings.Builder
	if _, err := b.WriteTo(&sb); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	if sb.String() != "a\r\nbc\r\n" {
		t.Errorf("expected CRLF output, got %q", sb.String())
	}
}

func TestDetectLineEnding(t *testing.T) {
	tests := []struct {
		text string
		want LineEnding
	}{
		{"", LineEndingLF},
		{"a\nb", LineEndingLF},
		{"a\r\nb\r\n", LineEndingCRLF},
		{"a\rb\r", LineEndingCR},
		{"a\nb\nc\r\n", LineEndingLF},
	}
	for _, tt := range tests {
		if got := DetectLineEnding(tt.text); got != tt.want {
			t.Errorf("DetectLineEnding(%q): expected %d, got %d", tt.text, tt.want, got)
		}
	}
}

func TestPointAdvance(t *testing.T) {
	p := Point{Line: 2, Column: 4}

	if got := p.Advance("ab"); got != (Point{2, 6}) {
		t.Errorf("expected (2:6), got %s", got)
	}
	if got := p.Advance("ab\ncd\n"); got != (Point{4, 0}) {
		t.Errorf("expected (4:0), got %s", got)
	}
	if got := p.Advance("é"); got != (Point{2, 6}) {
		t.Errorf("expected byte columns (2:6), got %s", got)
	}
}

func TestRange(t *testing.T) {
	r := NewRange(Point{1, 2}, Point{0, 5})

	if r.IsValid() {
		t.Error("reversed range should be invalid")
	}
	n := r.Normalize()
	if n.Start != (Point{0, 5}) || n.End != (Point{1, 2}) {
		t.Errorf("unexpected normalized range %s", n)
	}
	if n.LineCount() != 2 {
		t.Errorf("expected 2 lines, got %d", n.LineCount())
	}
	if !n.Contains(Point{0, 9}) || n.Contains(Point{1, 2}) {
		t.Error("Contains should be half-open")
	}
	if !Caret(Point{3, 3}).IsEmpty() {
		t.Error("caret should be empty")
	}
}
