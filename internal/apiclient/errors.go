package apiclient

import (
	"errors"
	"fmt"
)

// ErrInvalidBaseURL is returned when the configured base URL is unusable.
var ErrInvalidBaseURL = errors.New("invalid base URL")

// APIError is a failure reported by the remote service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Message)
}

// MessageOf returns the server-provided message carried by err, or "".
func MessageOf(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}
