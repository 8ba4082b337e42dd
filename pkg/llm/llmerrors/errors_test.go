package llmerrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorTypeString(t *testing.T) {
	cases := map[ErrorType]string{
		ErrorTypeAuth:            "auth",
		ErrorTypeRateLimit:       "rate_limit",
		ErrorTypePayloadTooLarge: "payload_too_large",
		ErrorTypeServer:          "server",
		ErrorTypeCancelled:       "cancelled",
		ErrorTypeUnknown:         "unknown",
	}
	for et, want := range cases {
		if got := et.String(); got != want {
			t.Errorf("ErrorType(%d).String() = %q, want %q", et, got, want)
		}
	}
}

func TestIsRetryable(t *testing.T) {
	retryable := []ErrorType{ErrorTypeRateLimit, ErrorTypeServer, ErrorTypeUnknown}
	for _, et := range retryable {
		e := NewError(et, "x")
		if !e.IsRetryable() {
			t.Errorf("expected %s to be retryable", et)
		}
	}

	nonRetryable := []ErrorType{ErrorTypeAuth, ErrorTypePayloadTooLarge, ErrorTypeCancelled}
	for _, et := range nonRetryable {
		e := NewError(et, "x")
		if e.IsRetryable() {
			t.Errorf("expected %s to be non-retryable", et)
		}
	}
}

func TestUnwrapPreservesCause(t *testing.T) {
	cause := errors.New("connection reset")
	e := NewErrorWithCause(ErrorTypeServer, cause, "network error")

	if !errors.Is(e, cause) {
		t.Error("expected errors.Is to find the wrapped cause")
	}
}

func TestIsAndTypeOfThroughWrapping(t *testing.T) {
	e := NewError(ErrorTypeCancelled, "request canceled")
	wrapped := fmt.Errorf("workflow failed: %w", e)

	if !Is(wrapped, ErrorTypeCancelled) {
		t.Error("expected cancellation to be detectable through wrapping")
	}
	if !IsCancelled(wrapped) {
		t.Error("expected IsCancelled to see through wrapping")
	}
	if TypeOf(wrapped) != ErrorTypeCancelled {
		t.Errorf("TypeOf = %s, want cancelled", TypeOf(wrapped))
	}
}

func TestTypeOfUnclassified(t *testing.T) {
	if TypeOf(errors.New("plain")) != ErrorTypeUnknown {
		t.Error("unclassified errors should report unknown")
	}
}

func TestGetRetryConfigFallsBackToUnknown(t *testing.T) {
	e := NewError(ErrorTypeAuth, "no retries")
	cfg := e.GetRetryConfig()
	if cfg != DefaultRetryConfigs[ErrorTypeUnknown] {
		t.Error("types without explicit config should fall back to unknown's config")
	}
}
