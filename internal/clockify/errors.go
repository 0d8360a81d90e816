package clockify

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidAPIKey is returned on HTTP 401 from the external API.
	// Surfaced to the user as "invalid API key"; never retried.
	ErrInvalidAPIKey = errors.New("clockify: invalid API key")

	// ErrNotFound is returned on HTTP 404.
	ErrNotFound = errors.New("clockify: resource not found")
)

// APIError is any other upstream failure (excluding network-level
// errors), carrying the status code and the upstream message.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("clockify: API error (HTTP %d): %s", e.StatusCode, e.Message)
}

// IsConflict reports whether the error is an upstream "already exists"
// conflict. The API answers 400 with an "already exists" message for
// duplicate project names. Project provisioning degrades gracefully on
// this instead of failing the timer start.
func IsConflict(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	if apiErr.StatusCode == 409 {
		return true
	}
	return apiErr.StatusCode == 400 &&
		strings.Contains(strings.ToLower(apiErr.Message), "already exists")
}
