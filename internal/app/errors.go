package app

import (
	"errors"
	"fmt"

	"github.com/dshills/tidytype/internal/playback"
	"github.com/dshills/tidytype/internal/rewrite"
	"github.com/dshills/tidytype/internal/source"
)

// Application errors.
var (
	// ErrQuit signals that the application should exit normally.
	ErrQuit = errors.New("quit requested")

	// ErrBusy indicates a clean is already in progress.
	ErrBusy = errors.New("a cleanup is already in progress")
)

// OperationError represents an error that occurred during a specific operation.
type OperationError struct {
	Op     string // Operation name (e.g., "clean", "preview")
	Target string // Target of the operation (e.g., file path)
	Err    error  // Underlying error
}

func (e *OperationError) Error() string {
	if e.Target != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Target, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *OperationError) Unwrap() error {
	return e.Err
}

// UserMessage turns an error into the single line shown to the user.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, source.ErrNoDocument):
		return "No active editor found"
	case errors.Is(err, source.ErrSelectionTooLarge):
		return "Selection exceeds the line limit"
	case errors.Is(err, rewrite.ErrMissingAPIKey):
		return "API key not configured"
	case errors.Is(err, rewrite.ErrEmptyResponse):
		return "The model returned no code"
	case errors.Is(err, ErrBusy), errors.Is(err, playback.ErrBusy):
		return "A cleanup is already in progress"
	case errors.Is(err, playback.ErrEditFailed):
		return "The document changed while applying the cleaned code"
	}
	return err.Error()
}
