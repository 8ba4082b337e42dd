// Package metrics provides metrics middleware for LLM clients.
package metrics

import "time"

// Recorder receives observations for completed provider calls.
type Recorder interface {
	// ObserveRequest records one completed call.
	ObserveRequest(provider, model, task string, promptTokens, completionTokens int, success bool, errorType string, duration time.Duration)
}

// NopRecorder discards all observations. Useful in tests.
type NopRecorder struct{}

// ObserveRequest implements Recorder.
func (NopRecorder) ObserveRequest(_, _, _ string, _, _ int, _ bool, _ string, _ time.Duration) {}
