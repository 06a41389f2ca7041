package rewrite

import (
	"errors"
	"fmt"
)

// Errors returned by rewriters.
var (
	// ErrMissingAPIKey indicates no API key is configured for the provider.
	ErrMissingAPIKey = errors.New("API key not configured")

	// ErrEmptyResponse indicates the model returned no text.
	ErrEmptyResponse = errors.New("empty response from model")

	// ErrUnknownProvider indicates an unsupported provider name.
	ErrUnknownProvider = errors.New("unknown provider")
)

// APIError is a non-success HTTP response from a compatible endpoint.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("model request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("model request failed with status %d: %s", e.StatusCode, e.Message)
}
