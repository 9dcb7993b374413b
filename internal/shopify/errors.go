// Package shopify is the Admin API client used to mirror legal pages into a
// merchant's store. It speaks the GraphQL Admin API over HTTP and wraps all
// calls in bounded exponential-backoff retries.
package shopify

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// UserError is an input-validation failure reported inside a successful
// GraphQL response. User errors are never retried.
type UserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

// APIError describes a failed Admin API interaction. Status carries the HTTP
// status when the transport failed; Retryable marks transient conditions
// (throttling, 5xx, network) that retry logic may attempt again.
type APIError struct {
	Message    string
	Status     int
	Retryable  bool
	UserErrors []UserError
}

func (e *APIError) Error() string {
	if len(e.UserErrors) > 0 {
		msgs := make([]string, len(e.UserErrors))
		for i, ue := range e.UserErrors {
			msgs[i] = ue.Message
		}
		return e.Message + ": " + strings.Join(msgs, ", ")
	}
	if e.Status != 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
	}
	return e.Message
}

// newUserError wraps GraphQL userErrors in a non-retryable APIError.
func newUserError(message string, userErrors []UserError) *APIError {
	return &APIError{Message: message, UserErrors: userErrors}
}

// newThrottledError marks a response as rate limited.
func newThrottledError() *APIError {
	return &APIError{Message: "admin API throttled", Retryable: true}
}

// newStatusError classifies an HTTP failure: 429 and 5xx are retryable,
// other statuses are terminal.
func newStatusError(status int) *APIError {
	return &APIError{
		Message:   "admin API request failed",
		Status:    status,
		Retryable: status == 429 || status >= 500,
	}
}

// IsRetryable reports whether err represents a transient failure worth
// retrying. Plain transport errors (DNS, reset connections, timeouts) are
// treated as transient; APIErrors carry their own classification; cancelled
// contexts are final.
func IsRetryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Retryable
	}
	// Anything that never reached the API (dial, reset, timeout) may
	// succeed on a later attempt.
	return true
}
