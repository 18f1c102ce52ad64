package services

import (
	"fmt"
	"time"
)

// ErrorKind classifies a failed GitHub fetch
type ErrorKind string

const (
	ErrKindNotFound       ErrorKind = "not_found"
	ErrKindRateLimited    ErrorKind = "rate_limited"
	ErrKindForbidden      ErrorKind = "forbidden"
	ErrKindInvalidRequest ErrorKind = "invalid_request"
	ErrKindUpstream       ErrorKind = "upstream_unavailable"
	ErrKindNetwork        ErrorKind = "network_failure"
	ErrKindUnknown        ErrorKind = "unknown"
)

// RateLimit carries GitHub's quota accounting, taken from the response headers.
// Attached to successes and failures alike whenever the source provides it.
type RateLimit struct {
	Limit     int   `json:"limit"`
	Remaining int   `json:"remaining"`
	Reset     int64 `json:"reset"`
	Used      int   `json:"used"`
}

// ResetTime returns the quota reset moment
func (r *RateLimit) ResetTime() time.Time {
	return time.Unix(r.Reset, 0)
}

// FetchError is a classified upstream failure with optional rate-limit metadata
type FetchError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	RateLimit  *RateLimit
}

func (e *FetchError) Error() string {
	return e.Message
}

// newFetchError builds a FetchError from an HTTP status, mapping each status to
// the user-facing message the API surface renders directly
func newFetchError(statusCode int, repoName string, rl *RateLimit) *FetchError {
	switch statusCode {
	case 404:
		msg := "User not found"
		if repoName != "" {
			msg = fmt.Sprintf("Repository '%s' not found or has no commits", repoName)
		}
		return &FetchError{Kind: ErrKindNotFound, StatusCode: statusCode, Message: msg, RateLimit: rl}
	case 403, 429:
		if rl != nil && rl.Remaining == 0 {
			return &FetchError{
				Kind:       ErrKindRateLimited,
				StatusCode: statusCode,
				Message:    fmt.Sprintf("API rate limit exceeded. Limit resets at %s.", rl.ResetTime().Format("15:04:05")),
				RateLimit:  rl,
			}
		}
		return &FetchError{
			Kind:       ErrKindForbidden,
			StatusCode: statusCode,
			Message:    "Access forbidden. Repository may be private.",
			RateLimit:  rl,
		}
	case 422:
		return &FetchError{Kind: ErrKindInvalidRequest, StatusCode: statusCode, Message: "Invalid request parameters", RateLimit: rl}
	case 500, 502, 503:
		return &FetchError{
			Kind:       ErrKindUpstream,
			StatusCode: statusCode,
			Message:    "GitHub API is experiencing issues. Please try again later.",
			RateLimit:  rl,
		}
	default:
		return &FetchError{
			Kind:       ErrKindUnknown,
			StatusCode: statusCode,
			Message:    fmt.Sprintf("GitHub API error: %d", statusCode),
			RateLimit:  rl,
		}
	}
}

// newNetworkError wraps a transport failure that produced no structured status
func newNetworkError(err error) *FetchError {
	return &FetchError{
		Kind:    ErrKindNetwork,
		Message: fmt.Sprintf("Network error occurred: %v", err),
	}
}
