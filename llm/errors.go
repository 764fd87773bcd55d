package llm

import "errors"

// ErrorCode classifies call failures so callers can react per category
// instead of parsing message text.
type ErrorCode string

const (
	// ErrInvalidInput marks an empty or malformed prompt/response. Fails
	// fast: no cache, no network, no breaker impact.
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrProviderUnavailable marks missing or placeholder credentials.
	// Fails fast before any network activity; no breaker impact.
	ErrProviderUnavailable ErrorCode = "PROVIDER_UNAVAILABLE"
	// ErrCircuitOpen marks a call rejected by an open circuit breaker.
	// Counted separately from real call failures.
	ErrCircuitOpen ErrorCode = "CIRCUIT_OPEN"
	// ErrTimeout marks a call that exceeded its hard deadline. Feeds the
	// breaker.
	ErrTimeout ErrorCode = "TIMEOUT"
	// ErrAPIError marks a non-timeout transport or provider failure.
	// Feeds the breaker.
	ErrAPIError ErrorCode = "API_ERROR"
	// ErrValidationFailed marks a response the sanitizer rejected. The
	// network call succeeded, so the breaker is untouched and nothing is
	// cached.
	ErrValidationFailed ErrorCode = "VALIDATION_FAILED"
)

// Error is the typed error returned on every failure path of the call
// pipeline.
type Error struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Provider  string    `json:"provider,omitempty"`
	Retryable bool      `json:"retryable"`
}

func (e *Error) Error() string { return string(e.Code) + ": " + e.Message }

// CodeOf extracts the ErrorCode from err, or "" when err is not a *Error.
func CodeOf(err error) ErrorCode {
	var le *Error
	if errors.As(err, &le) {
		return le.Code
	}
	return ""
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}
