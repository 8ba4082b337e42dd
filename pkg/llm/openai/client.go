// Package openai provides the chat-completion style backend using the
// official OpenAI Go package.
package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"snapsolver/pkg/config"
	"snapsolver/pkg/llm"
	"snapsolver/pkg/llm/llmerrors"
)

// Client wraps the official OpenAI client to implement llm.Client.
type Client struct {
	client openai.Client
	model  string
}

// NewClient creates a raw chat-completion client; middleware is applied at a
// higher level.
func NewClient(apiKey string) llm.Client {
	return NewClientWithModel(apiKey, config.DefaultOpenAIModel)
}

// NewClientWithModel creates a raw chat-completion client with a default model.
func NewClientWithModel(apiKey, model string) llm.Client {
	return &Client{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

// Complete implements llm.Client. Images ride along as image-url content
// parts on a single multi-part user message.
//
//nolint:gocritic // request passed by value matches the interface
func (c *Client) Complete(ctx context.Context, in llm.CompletionRequest) (llm.CompletionResponse, error) {
	if err := in.Validate(); err != nil {
		return llm.CompletionResponse{}, llmerrors.NewErrorWithCause(llmerrors.ErrorTypeUnknown, err, "invalid completion request")
	}

	var messages []openai.ChatCompletionMessageParamUnion
	if in.SystemPrompt != "" {
		messages = append(messages, openai.SystemMessage(in.SystemPrompt))
	}

	if len(in.Images) > 0 {
		parts := make([]openai.ChatCompletionContentPartUnionParam, 0, len(in.Images)+1)
		parts = append(parts, openai.TextContentPart(in.UserText))
		for i := range in.Images {
			parts = append(parts, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
				URL: in.Images[i].DataURL(),
			}))
		}
		messages = append(messages, openai.UserMessage(parts))
	} else {
		messages = append(messages, openai.UserMessage(in.UserText))
	}

	model := in.Model
	if model == "" {
		model = c.model
	}

	params := openai.ChatCompletionNewParams{
		Model:               openai.ChatModel(model),
		Messages:            messages,
		MaxCompletionTokens: openai.Int(int64(in.MaxTokens)),
		Temperature:         openai.Float(float64(in.Temperature)),
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return llm.CompletionResponse{}, classifyError(ctx, err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return llm.CompletionResponse{}, llmerrors.NewError(llmerrors.ErrorTypeServer, "empty response from chat completion API")
	}

	return llm.CompletionResponse{Content: resp.Choices[0].Message.Content}, nil
}

// ModelName returns the default model for this client.
func (c *Client) ModelName() string {
	return c.model
}

// classifyError maps SDK errors to the structured taxonomy. Cancellation is
// detected first so an aborted call never surfaces as a generic failure.
func classifyError(ctx context.Context, err error) *llmerrors.Error {
	if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
		return llmerrors.NewErrorWithCause(llmerrors.ErrorTypeCancelled, err, "request canceled")
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return llmerrors.NewErrorWithCause(llmerrors.ErrorTypeServer, err, "request timeout")
	}

	var apierr *openai.Error
	if errors.As(err, &apierr) {
		switch apierr.StatusCode {
		case 401, 403:
			return llmerrors.NewErrorWithStatus(llmerrors.ErrorTypeAuth, apierr.StatusCode, "authentication failed - check API key")
		case 429:
			return llmerrors.NewErrorWithStatus(llmerrors.ErrorTypeRateLimit, apierr.StatusCode, "rate limit exceeded")
		case 413:
			return llmerrors.NewErrorWithStatus(llmerrors.ErrorTypePayloadTooLarge, apierr.StatusCode, "request exceeds the model's context window")
		default:
			return llmerrors.NewErrorWithStatus(llmerrors.ErrorTypeServer, apierr.StatusCode, fmt.Sprintf("chat completion API error: %v", apierr))
		}
	}

	errStr := strings.ToLower(err.Error())
	if strings.Contains(errStr, "unauthorized") || strings.Contains(errStr, "api key") {
		return llmerrors.NewErrorWithCause(llmerrors.ErrorTypeAuth, err, "authentication error")
	}
	if strings.Contains(errStr, "rate") || strings.Contains(errStr, "quota") {
		return llmerrors.NewErrorWithCause(llmerrors.ErrorTypeRateLimit, err, "rate limiting detected")
	}
	return llmerrors.NewErrorWithCause(llmerrors.ErrorTypeUnknown, err, "unclassified error")
}
