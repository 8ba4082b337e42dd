// Package retry provides transport-level retry with exponential backoff for
// provider calls.
package retry

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"

	"snapsolver/pkg/llm/llmerrors"
)

// Config defines retry behavior. Attempts are capped low on purpose: whole
// processing cycles are never retried automatically, only the individual
// transport call.
type Config struct {
	MaxAttempts   int           `json:"max_attempts"` // including the initial attempt
	InitialDelay  time.Duration `json:"initial_delay"`
	MaxDelay      time.Duration `json:"max_delay"`
	BackoffFactor float64       `json:"backoff_factor"`
	Jitter        bool          `json:"jitter"`
}

// DefaultConfig caps transport retries at 2 total attempts.
//
//nolint:gochecknoglobals // sensible default config pattern
var DefaultConfig = Config{
	MaxAttempts:   2,
	InitialDelay:  1 * time.Second,
	MaxDelay:      10 * time.Second,
	BackoffFactor: 2.0,
	Jitter:        true,
}

// Classifier determines whether an error should be retried.
type Classifier func(error) bool

// ShouldRetry is the default classifier. Cancellation, auth failures, and
// payload-too-large are never retried; rate limits, server errors, and
// unclassified failures get the one capped retry.
func ShouldRetry(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}

	var perr *llmerrors.Error
	if errors.As(err, &perr) {
		return perr.IsRetryable()
	}

	// Per-request timeouts wrap DeadlineExceeded while the parent context is
	// still valid, so they remain retryable.
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	return false
}

// Policy encapsulates retry configuration and classification.
type Policy struct {
	Config     Config
	Classifier Classifier
}

// NewPolicy creates a retry policy. A nil classifier uses ShouldRetry.
func NewPolicy(config Config, classifier Classifier) *Policy {
	if classifier == nil {
		classifier = ShouldRetry
	}
	return &Policy{Config: config, Classifier: classifier}
}

// CalculateDelay computes the backoff delay for the given attempt number.
func (p *Policy) CalculateDelay(attempt int) time.Duration {
	if attempt <= 1 {
		return 0
	}

	delay := time.Duration(float64(p.Config.InitialDelay) * math.Pow(p.Config.BackoffFactor, float64(attempt-2)))
	if delay > p.Config.MaxDelay {
		delay = p.Config.MaxDelay
	}

	if p.Config.Jitter && delay > 0 {
		// Up to +/-10% to spread simultaneous retries.
		jitter := time.Duration((rand.Float64()*0.2 - 0.1) * float64(delay))
		delay += jitter
	}

	return delay
}

// ShouldRetry applies the configured classifier.
func (p *Policy) ShouldRetry(err error) bool {
	return p.Classifier(err)
}
