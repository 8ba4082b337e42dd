// Package anthropic provides the message-create style backend using the
// Anthropic SDK.
package anthropic

import (
	"context"
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"snapsolver/pkg/config"
	"snapsolver/pkg/llm"
	"snapsolver/pkg/llm/llmerrors"
	"snapsolver/pkg/tokens"
)

// Client wraps the Anthropic API client to implement llm.Client.
type Client struct {
	client  anthropic.Client
	model   string
	counter *tokens.Counter
}

// NewClient creates a raw message-create client; middleware is applied at a
// higher level.
func NewClient(apiKey string) llm.Client {
	return NewClientWithModel(apiKey, config.DefaultAnthropicModel)
}

// NewClientWithModel creates a raw message-create client with a default model.
func NewClientWithModel(apiKey, model string) llm.Client {
	counter, _ := tokens.NewCounter(model)
	return &Client{
		client:  anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:   model,
		counter: counter,
	}
}

// Complete implements llm.Client. The request becomes a single-turn content
// array of text plus base64 image blocks.
//
//nolint:gocritic // request passed by value matches the interface
func (c *Client) Complete(ctx context.Context, in llm.CompletionRequest) (llm.CompletionResponse, error) {
	if err := in.Validate(); err != nil {
		return llm.CompletionResponse{}, llmerrors.NewErrorWithCause(llmerrors.ErrorTypeUnknown, err, "invalid completion request")
	}

	model := in.Model
	if model == "" {
		model = c.model
	}

	// Context-window pre-check. Image tokens are not estimated; text alone
	// exceeding the window is already a hard failure, so reject before the
	// network call and let the caller suggest switching providers.
	if info, ok := config.KnownModels[model]; ok && info.MaxContextTokens > 0 {
		promptTokens := c.counter.Count(in.SystemPrompt) + c.counter.Count(in.UserText)
		if promptTokens+in.MaxTokens > info.MaxContextTokens {
			return llm.CompletionResponse{}, llmerrors.NewError(llmerrors.ErrorTypePayloadTooLarge,
				"request exceeds the model's context window - try a provider with a larger context")
		}
	}

	content := make([]anthropic.ContentBlockParamUnion, 0, len(in.Images)+1)
	for i := range in.Images {
		img := &in.Images[i]
		mediaType := img.MediaType
		if mediaType == "" {
			mediaType = "image/png"
		}
		content = append(content, anthropic.NewImageBlockBase64(mediaType, img.Data))
	}
	content = append(content, anthropic.NewTextBlock(in.UserText))

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(model),
		MaxTokens:   int64(in.MaxTokens),
		Temperature: anthropic.Float(float64(in.Temperature)),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(content...),
		},
	}
	if in.SystemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: in.SystemPrompt}}
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return llm.CompletionResponse{}, classifyError(ctx, err)
	}
	if resp == nil || len(resp.Content) == 0 {
		return llm.CompletionResponse{}, llmerrors.NewError(llmerrors.ErrorTypeServer, "empty response from message API")
	}

	var text strings.Builder
	for i := range resp.Content {
		block := &resp.Content[i]
		if block.Type == "text" {
			text.WriteString(block.AsText().Text)
		}
	}

	return llm.CompletionResponse{Content: text.String()}, nil
}

// ModelName returns the default model for this client.
func (c *Client) ModelName() string {
	return c.model
}

// classifyError maps SDK errors to the structured taxonomy. This variant has
// the tightest context windows, so token-limit messages become
// payload-too-large and prompt the user to switch providers.
func classifyError(ctx context.Context, err error) *llmerrors.Error {
	if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
		return llmerrors.NewErrorWithCause(llmerrors.ErrorTypeCancelled, err, "request canceled")
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return llmerrors.NewErrorWithCause(llmerrors.ErrorTypeServer, err, "request timeout")
	}

	var apierr *anthropic.Error
	if errors.As(err, &apierr) {
		switch apierr.StatusCode {
		case 401, 403:
			return llmerrors.NewErrorWithStatus(llmerrors.ErrorTypeAuth, apierr.StatusCode, "authentication failed - check API key")
		case 429:
			return llmerrors.NewErrorWithStatus(llmerrors.ErrorTypeRateLimit, apierr.StatusCode, "rate limit exceeded")
		case 413:
			return llmerrors.NewErrorWithStatus(llmerrors.ErrorTypePayloadTooLarge, apierr.StatusCode,
				"request exceeds the model's context window - try a provider with a larger context")
		}
		if strings.Contains(strings.ToLower(apierr.Error()), "token") {
			return llmerrors.NewErrorWithStatus(llmerrors.ErrorTypePayloadTooLarge, apierr.StatusCode,
				"request exceeds the model's token limit - try a provider with a larger context")
		}
		return llmerrors.NewErrorWithStatus(llmerrors.ErrorTypeServer, apierr.StatusCode, "message API error")
	}

	errStr := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errStr, "token"):
		return llmerrors.NewErrorWithCause(llmerrors.ErrorTypePayloadTooLarge, err,
			"request exceeds the model's token limit - try a provider with a larger context")
	case strings.Contains(errStr, "unauthorized") || strings.Contains(errStr, "api key"):
		return llmerrors.NewErrorWithCause(llmerrors.ErrorTypeAuth, err, "authentication error")
	case strings.Contains(errStr, "rate") || strings.Contains(errStr, "quota"):
		return llmerrors.NewErrorWithCause(llmerrors.ErrorTypeRateLimit, err, "rate limiting detected")
	default:
		return llmerrors.NewErrorWithCause(llmerrors.ErrorTypeUnknown, err, "unclassified error")
	}
}
