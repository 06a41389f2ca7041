package document

import (
	"errors"
	"testing"
)

func TestUndoRedoSingleEdits(t *testing.T) {
	b := NewBuffer("hello", WithHistory(0))

	if err := b.Insert(Point{Column: 5}, " world"); err != nil {
		t.Fatal(err)
	}
	if err := b.Delete(NewRange(Point{}, Point{Column: 1})); err != nil {
		t.Fatal(err)
	}
	if b.Text() != "ello world" {
		t.Fatalf("Text() = %q", b.Text())
	}

	if _, err := b.Undo(); err != nil {
		t.Fatalf("Undo() failed: %v", err)
	}
	if b.Text() != "hello world" {
		t.Errorf("after first undo Text() = %q, expected %q", b.Text(), "hello world")
	}
	if _, err := b.Undo(); err != nil {
		t.Fatalf("Undo() failed: %v", err)
	}
	if b.Text() != "hello" {
		t.Errorf("after second undo Text() = %q, expected %q", b.Text(), "hello")
	}
	if _, err := b.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("expected ErrNothingToUndo, got %v", err)
	}

	if _, err := b.Redo(); err != nil {
		t.Fatalf("Redo() failed: %v", err)
	}
	if b.Text() != "hello world" {
		t.Errorf("after redo Text() = %q, expected %q", b.Text(), "hello world")
	}
	if got := b.Selection(); got != Caret(Point{Column: 11}) {
		t.Errorf("after redo Selection() = %v, expected caret at 11", got)
	}
}

func TestUndoGroup(t *testing.T) {
	b := NewBuffer("abc\ndef", WithHistory(0))
	sel := NewRange(Point{}, Point{Column: 3})
	b.SetSelection(sel)

	b.BeginGroup("clean")
	if err := b.Delete(sel); err != nil {
		t.Fatal(err)
	}
	at := Point{}
	for _, ch := range []string{"x", "\n", "y"} {
		if err := b.Insert(at, ch); err != nil {
			t.Fatal(err)
		}
		at = at.Advance(ch)
	}
	b.EndGroup()

	if b.Text() != "x\ny\ndef" {
		t.Fatalf("Text() = %q", b.Text())
	}

	name, err := b.Undo()
	if err != nil {
		t.Fatalf("Undo() failed: %v", err)
	}
	if name != "clean" {
		t.Errorf("Undo() name = %q, expected %q", name, "clean")
	}
	if b.Text() != "abc\ndef" {
		t.Errorf("Text() = %q, expected original", b.Text())
	}
	if b.Selection() != sel {
		t.Errorf("Selection() = %v, expected %v", b.Selection(), sel)
	}
	if b.CanUndo() {
		t.Error("group should undo as a single entry")
	}

	if _, err := b.Redo(); err != nil {
		t.Fatalf("Redo() failed: %v", err)
	}
	if b.Text() != "x\ny\ndef" {
		t.Errorf("after redo Text() = %q", b.Text())
	}
}

func TestGroupWithoutNetChangeIsDropped(t *testing.T) {
	b := NewBuffer("keep", WithHistory(0))

	b.BeginGroup("cancelled")
	if err := b.Delete(NewRange(Point{}, Point{Column: 4})); err != nil {
		t.Fatal(err)
	}
	if err := b.Insert(Point{}, "ke"); err != nil {
		t.Fatal(err)
	}
	if err := b.Replace(NewRange(Point{}, Point{Column: 2}), "keep"); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Undo(); !errors.Is(err, ErrGroupOpen) {
		t.Errorf("Undo() inside group = %v, expected ErrGroupOpen", err)
	}
	b.EndGroup()

	if b.CanUndo() {
		t.Error("expected no undo entry for a group that changed nothing")
	}
}

func TestHistoryLimitAndRedoReset(t *testing.T) {
	b := NewBuffer("", WithHistory(2))
	for _, s := range []string{"a", "b", "c"} {
		if err := b.Insert(b.End(), s); err != nil {
			t.Fatal(err)
		}
	}

	for range 2 {
		if _, err := b.Undo(); err != nil {
			t.Fatalf("Undo() failed: %v", err)
		}
	}
	if b.Text() != "a" {
		t.Errorf("Text() = %q, expected %q", b.Text(), "a")
	}
	if _, err := b.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("expected limit to drop the oldest entry, got %v", err)
	}

	if err := b.Insert(b.End(), "z"); err != nil {
		t.Fatal(err)
	}
	if b.CanRedo() {
		t.Error("a new edit must clear the redo stack")
	}
}

func TestNoHistory(t *testing.T) {
	b := NewBuffer("x")
	b.BeginGroup("ignored")
	if err := b.Insert(Point{}, "y"); err != nil {
		t.Fatal(err)
	}
	b.EndGroup()

	if _, err := b.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("expected ErrNothingToUndo, got %v", err)
	}
}
