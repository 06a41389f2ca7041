package document

import (
	"io"
	"sort"
	"strings"
	"sync"
)

// Buffer is an in-memory text document with a single selection.
// All methods are thread-safe.
type Buffer struct {
	mu sync.RWMutex

	name       string
	text       string
	lineStarts []int // byte offset of the first byte of each line
	selection  Range
	revision   uint64
	lineEnding LineEnding
	readOnly   bool
	closed     bool
	history    *history
}

// NewBuffer creates a buffer with initial content.
func NewBuffer(text string, opts ...Option) *Buffer {
	b := &Buffer{lineEnding: DetectLineEnding(text)}
	for _, opt := range opts {
		opt(b)
	}
	b.setText(NormalizeLineEndings(text))
	return b
}

// NewBufferFromReader creates a buffer from an io.Reader.
func NewBufferFromReader(r io.Reader, opts ...Option) (*Buffer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return NewBuffer(string(data), opts...), nil
}

// setText replaces the content and rebuilds the line index.
// Caller must hold the write lock (or own b exclusively).
func (b *Buffer) setText(text string) {
	b.text = text
	b.lineStarts = b.lineStarts[:0]
	b.lineStarts = append(b.lineStarts, 0)
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			b.lineStarts = append(b.lineStarts, i+1)
		}
	}
	b.revision++
}

// Read Operations

// Name returns the display name of the buffer.
func (b *Buffer) Name() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.name
}

// Text returns the full buffer content.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text
}

// Len returns the buffer length in bytes.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.text)
}

// LineCount returns the number of lines. An empty buffer has one line.
func (b *Buffer) LineCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.lineStarts)
}

// LineText returns the text of a line without its newline.
// Returns "" for lines outside the buffer.
func (b *Buffer) LineText(line int) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if line < 0 || line >= len(b.lineStarts) {
		return ""
	}
	return b.text[b.lineStarts[line]:b.lineEnd(line)]
}

// Revision returns a counter that increases with every modification.
func (b *Buffer) Revision() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revision
}

// ReadOnly reports whether the buffer rejects writes.
func (b *Buffer) ReadOnly() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.readOnly
}

// Offset converts a point to a byte offset.
func (b *Buffer) Offset(p Point) (int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.offset(p)
}

// PointAt converts a byte offset to a point, clamping to the buffer.
func (b *Buffer) PointAt(offset int) Point {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.pointAt(offset)
}

// End returns the point just past the last byte.
func (b *Buffer) End() Point {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.pointAt(len(b.text))
}

// TextRange returns the text in the given range.
func (b *Buffer) TextRange(r Range) (string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return "", ErrClosed
	}
	start, end, err := b.span(r)
	if err != nil {
		return "", err
	}
	return b.text[start:end], nil
}

// Selection returns the current selection.
func (b *Buffer) Selection() Range {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.selection
}

// Write Operations

// SetSelection replaces the selection.
func (b *Buffer) SetSelection(r Range) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.selection = r
}

// Insert inserts text at a point.
func (b *Buffer) Insert(at Point, text string) error {
	return b.Replace(Caret(at), text)
}

// Delete removes the text in a range.
func (b *Buffer) Delete(r Range) error {
	return b.Replace(r, "")
}

// Replace replaces the text in a range with new text as a single edit.
func (b *Buffer) Replace(r Range, text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.writable(); err != nil {
		return err
	}
	selection := b.selection
	text = NormalizeLineEndings(text)
	before, err := b.replaceLocked(r, text)
	if err != nil {
		return err
	}
	if b.history != nil {
		b.history.record(edit{at: r.Start, before: before, after: text}, selection)
	}
	return nil
}

// replaceLocked applies an edit and returns the replaced text.
// Caller must hold the write lock; text must already be normalized.
func (b *Buffer) replaceLocked(r Range, text string) (string, error) {
	start, end, err := b.span(r)
	if err != nil {
		return "", err
	}
	before := b.text[start:end]

	var sb strings.Builder
	sb.Grow(len(b.text) - (end - start) + len(text))
	sb.WriteString(b.text[:start])
	sb.WriteString(text)
	sb.WriteString(b.text[end:])
	b.setText(sb.String())
	return before, nil
}

// SetText replaces the whole content and resets the selection.
func (b *Buffer) SetText(text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.writable(); err != nil {
		return err
	}
	text = NormalizeLineEndings(text)
	if b.history != nil {
		b.history.record(edit{before: b.text, after: text}, b.selection)
	}
	b.setText(text)
	b.selection = Range{}
	return nil
}

// Close invalidates the buffer. Every later read of a range or edit fails
// with ErrClosed.
func (b *Buffer) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
}

// WriteTo writes the content using the line ending detected at load time.
func (b *Buffer) WriteTo(w io.Writer) (int64, error) {
	b.mu.RLock()
	text := b.text
	le := b.lineEnding
	b.mu.RUnlock()

	if le != LineEndingLF {
		text = strings.ReplaceAll(text, "\n", le.Sequence())
	}
	n, err := io.WriteString(w, text)
	return int64(n), err
}

func (b *Buffer) writable() error {
	if b.closed {
		return ErrClosed
	}
	if b.readOnly {
		return ErrReadOnly
	}
	return nil
}

// lineEnd returns the offset of the newline ending line, or len(text).
func (b *Buffer) lineEnd(line int) int {
	if line+1 < len(b.lineStarts) {
		return b.lineStarts[line+1] - 1
	}
	return len(b.text)
}

func (b *Buffer) offset(p Point) (int, error) {
	if p.Line < 0 || p.Line >= len(b.lineStarts) || p.Column < 0 {
		return 0, ErrPointOutOfRange
	}
	start := b.lineStarts[p.Line]
	if start+p.Column > b.lineEnd(p.Line) {
		return 0, ErrPointOutOfRange
	}
	return start + p.Column, nil
}

func (b *Buffer) pointAt(offset int) Point {
	if offset < 0 {
		offset = 0
	}
	if offset > len(b.text) {
		offset = len(b.text)
	}
	line := sort.Search(len(b.lineStarts), func(i int) bool {
		return b.lineStarts[i] > offset
	}) - 1
	return Point{Line: line, Column: offset - b.lineStarts[line]}
}

func (b *Buffer) span(r Range) (int, int, error) {
	if !r.IsValid() {
		return 0, 0, ErrRangeInvalid
	}
	start, err := b.offset(r.Start)
	if err != nil {
		return 0, 0, err
	}
	end, err := b.offset(r.End)
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}
