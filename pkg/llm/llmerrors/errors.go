// Package llmerrors provides structured error classification for LLM
// provider calls, with per-type retry configuration.
package llmerrors

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrorType categorizes provider failures for surfacing and retry logic.
type ErrorType int8

const (
	// ErrorTypeAuth represents authentication failures (401/403, bad API key).
	ErrorTypeAuth ErrorType = iota
	// ErrorTypeRateLimit represents rate limiting (429, quota exhausted).
	ErrorTypeRateLimit
	// ErrorTypePayloadTooLarge represents requests exceeding the provider's
	// context window (413, or token-limit messages). Specific to backends
	// with tight context windows; callers should suggest switching providers.
	ErrorTypePayloadTooLarge
	// ErrorTypeServer represents provider-side failures (5xx and other
	// non-2xx responses without a more specific classification).
	ErrorTypeServer
	// ErrorTypeCancelled represents an aborted in-flight request. Never
	// surfaced as a generic error; callers map it to an informational
	// cancellation message.
	ErrorTypeCancelled
	// ErrorTypeUnknown is the default for unclassified failures.
	ErrorTypeUnknown
)

// String returns the string representation of the error type.
func (et ErrorType) String() string {
	switch et {
	case ErrorTypeAuth:
		return "auth"
	case ErrorTypeRateLimit:
		return "rate_limit"
	case ErrorTypePayloadTooLarge:
		return "payload_too_large"
	case ErrorTypeServer:
		return "server"
	case ErrorTypeCancelled:
		return "cancelled"
	case ErrorTypeUnknown:
		return "unknown"
	default:
		return "invalid"
	}
}

// RetryConfig defines backoff behavior for an error type.
type RetryConfig struct {
	MaxRetries    int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// DefaultRetryConfigs holds per-type retry policies. The transport layer
// caps total attempts at 2, so retryable types get exactly one retry.
//
//nolint:gochecknoglobals // package defaults
var DefaultRetryConfigs = map[ErrorType]RetryConfig{
	ErrorTypeRateLimit: {MaxRetries: 1, InitialDelay: 2 * time.Second, MaxDelay: 10 * time.Second, BackoffFactor: 2.0},
	ErrorTypeServer:    {MaxRetries: 1, InitialDelay: 1 * time.Second, MaxDelay: 5 * time.Second, BackoffFactor: 2.0},
	ErrorTypeUnknown:   {MaxRetries: 1, InitialDelay: 1 * time.Second, MaxDelay: 5 * time.Second, BackoffFactor: 2.0},
}

// Error is a classified provider error with retry metadata.
type Error struct {
	Err        error     // wrapped underlying error
	Message    string    // human-readable message
	Type       ErrorType // classification
	StatusCode int       // HTTP status if applicable
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("provider error (%s): %s", e.Type.String(), e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("provider error (%s): %v", e.Type.String(), e.Err)
	}
	return fmt.Sprintf("provider error (%s): status %d", e.Type.String(), e.StatusCode)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether this error type should be retried.
func (e *Error) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeAuth, ErrorTypePayloadTooLarge, ErrorTypeCancelled:
		return false
	default:
		return true
	}
}

// GetRetryConfig returns the retry configuration for this error type.
func (e *Error) GetRetryConfig() RetryConfig {
	if cfg, ok := DefaultRetryConfigs[e.Type]; ok {
		return cfg
	}
	return DefaultRetryConfigs[ErrorTypeUnknown]
}

// NewError creates a classified error with a message.
func NewError(errorType ErrorType, message string) *Error {
	return &Error{Type: errorType, Message: message}
}

// NewErrorWithCause creates a classified error wrapping an underlying cause.
func NewErrorWithCause(errorType ErrorType, cause error, message string) *Error {
	return &Error{Type: errorType, Err: cause, Message: message}
}

// NewErrorWithStatus creates a classified error carrying an HTTP status code.
func NewErrorWithStatus(errorType ErrorType, statusCode int, message string) *Error {
	return &Error{Type: errorType, StatusCode: statusCode, Message: message}
}

// Is checks whether err carries the given classification.
func Is(err error, errorType ErrorType) bool {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Type == errorType
	}
	return false
}

// TypeOf returns the classification of err, or ErrorTypeUnknown when the
// error was never classified.
func TypeOf(err error) ErrorType {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Type
	}
	return ErrorTypeUnknown
}

// IsCancelled reports whether err represents an aborted request, whether
// classified by an adapter or still a raw context error.
func IsCancelled(err error) bool {
	return Is(err, ErrorTypeCancelled) || errors.Is(err, context.Canceled)
}
