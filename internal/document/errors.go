package document

import "errors"

// Errors returned by document operations.
var (
	// ErrPointOutOfRange indicates a point outside the document.
	ErrPointOutOfRange = errors.New("point out of range")

	// ErrRangeInvalid indicates a range whose end precedes its start.
	ErrRangeInvalid = errors.New("invalid range")

	// ErrReadOnly indicates a write to a read-only document.
	ErrReadOnly = errors.New("document is read-only")

	// ErrClosed indicates an operation on a closed document.
	ErrClosed = errors.New("document is closed")

	// ErrNothingToUndo indicates an empty undo history.
	ErrNothingToUndo = errors.New("nothing to undo")

	// ErrNothingToRedo indicates an empty redo history.
	ErrNothingToRedo = errors.New("nothing to redo")

	// ErrGroupOpen indicates undo or redo while an edit group is open.
	ErrGroupOpen = errors.New("edit group in progress")
)
