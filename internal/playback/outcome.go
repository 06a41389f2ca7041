package playback

import "github.com/dshills/tidytype/internal/document"

// Outcome is the terminal state of a session.
type Outcome int

const (
	// Completed means the full replacement text is in the document.
	Completed Outcome = iota + 1
	// Cancelled means the original text and selection were restored.
	Cancelled
	// Failed means an edit could not be applied; see Result.Err.
	Failed
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case Completed:
		return "completed"
	case Cancelled:
		return "cancelled"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result reports how a session ended.
type Result struct {
	SessionID string
	Outcome   Outcome

	// Typed is the number of characters inserted one at a time,
	// newlines included.
	Typed int

	// Flushed is the suffix inserted as one block after a finish request.
	Flushed string

	// Cursor is the position after the last edit.
	Cursor document.Point

	// Err is set when Outcome is Failed.
	Err error
}
