package playback

import (
	"errors"
	"fmt"
)

// Errors returned by playback operations.
var (
	// ErrBusy indicates Start was called while a session is playing.
	ErrBusy = errors.New("playback already in progress")

	// ErrEditFailed indicates the document rejected an edit mid-session.
	ErrEditFailed = errors.New("edit could not be applied")
)

// EditError describes a document mutation that failed during playback.
type EditError struct {
	// Op is the edit that failed ("read", "delete", "insert", "flush", "restore").
	Op  string
	Err error
}

func (e *EditError) Error() string {
	return fmt.Sprintf("playback %s: %v", e.Op, e.Err)
}

func (e *EditError) Unwrap() error {
	return e.Err
}

// Is reports ErrEditFailed as a match so callers can test for the whole class.
func (e *EditError) Is(target error) bool {
	return target == ErrEditFailed
}
