// Package llmhttp holds what every LLM provider shares: the error taxonomy,
// the prompts, and a JSON-over-HTTP client that maps status codes onto errors.
package llmhttp

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrProviderNotConfigured = errors.New("ai provider not configured")
	ErrAuthFailed            = errors.New("ai provider authentication failed")
	ErrRateLimited           = errors.New("ai provider rate limit exceeded")
	ErrInferenceTimeout      = errors.New("ai inference timeout")
	ErrProviderUnavailable   = errors.New("ai provider unavailable")
	ErrInvalidResponse       = errors.New("ai provider returned invalid response")
)

// StatusError maps a non-2xx HTTP status to a sentinel. body is a short excerpt
// of the response for the error message. A 2xx status returns nil.
func StatusError(status int, body string) error {
	if status/100 == 2 {
		return nil
	}
	body = strings.TrimSpace(body)
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: status %d", ErrAuthFailed, status)
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: status %d", ErrRateLimited, status)
	case status == http.StatusRequestTimeout:
		return fmt.Errorf("%w: status %d", ErrInferenceTimeout, status)
	case status/100 == 5:
		return fmt.Errorf("%w: status %d: %s", ErrProviderUnavailable, status, body)
	default:
		return fmt.Errorf("%w: status %d: %s", ErrInvalidResponse, status, body)
	}
}
