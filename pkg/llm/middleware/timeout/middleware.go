// Package timeout provides per-request deadline middleware for LLM clients.
package timeout

import (
	"context"
	"time"

	"snapsolver/pkg/llm"
)

// Default is the transport deadline applied to every provider call.
const Default = 60 * time.Second

// Middleware wraps a client so each request carries its own deadline,
// preventing hung calls from stalling a processing cycle.
func Middleware(duration time.Duration) llm.Middleware {
	return func(next llm.Client) llm.Client {
		return llm.WrapClient(
			func(ctx context.Context, req llm.CompletionRequest) (llm.CompletionResponse, error) {
				timeoutCtx, cancel := context.WithTimeout(ctx, duration)
				defer cancel()
				return next.Complete(timeoutCtx, req)
			},
			func() string {
				return next.ModelName()
			},
		)
	}
}
