package metrics

import (
	"context"
	"time"

	"snapsolver/pkg/llm"
	"snapsolver/pkg/llm/llmerrors"
	"snapsolver/pkg/logx"
	"snapsolver/pkg/tokens"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// UsageExtractor extracts token usage from a request and response.
type UsageExtractor func(req llm.CompletionRequest, resp llm.CompletionResponse) (promptTokens, completionTokens int)

// DefaultUsageExtractor counts tokens with the shared tiktoken codec. Image
// payloads are not counted; only text is measured.
func DefaultUsageExtractor(req llm.CompletionRequest, resp llm.CompletionResponse) (promptTokens, completionTokens int) {
	promptTokens = tokens.CountSimple(req.SystemPrompt + "\n" + req.UserText)
	completionTokens = tokens.CountSimple(resp.Content)
	return promptTokens, completionTokens
}

// Middleware records request latency, token usage, and error classification
// for every provider call. The task label distinguishes extraction, solution,
// and debug traffic.
func Middleware(recorder Recorder, usageExtractor UsageExtractor, provider, task string, logger *logx.Logger) llm.Middleware {
	if usageExtractor == nil {
		usageExtractor = DefaultUsageExtractor
	}

	return func(next llm.Client) llm.Client {
		return llm.WrapClient(
			func(ctx context.Context, req llm.CompletionRequest) (llm.CompletionResponse, error) {
				start := time.Now()
				resp, err := next.Complete(ctx, req)
				duration := time.Since(start)

				var promptTokens, completionTokens int
				if err == nil {
					promptTokens, completionTokens = usageExtractor(req, resp)
				}

				errorType := ""
				if err != nil {
					errorType = llmerrors.TypeOf(err).String()
				}

				model := req.Model
				if model == "" {
					model = next.ModelName()
				}
				recorder.ObserveRequest(provider, model, task, promptTokens, completionTokens, err == nil, errorType, duration)

				if logger != nil {
					status := statusSuccess
					if err != nil {
						status = statusError
					}
					logger.Debug("llm request: provider=%s model=%s task=%s tokens=%d+%d status=%s duration=%dms",
						provider, model, task, promptTokens, completionTokens, status, duration.Milliseconds())
				}

				return resp, err //nolint:wrapcheck // middleware passes errors through unchanged
			},
			func() string {
				return next.ModelName()
			},
		)
	}
}
