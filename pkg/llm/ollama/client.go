// Package ollama provides a local-model backend for offline development.
// Ollama is a local LLM runtime; it accepts the same text+image requests as
// the cloud backends.
package ollama

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"

	"snapsolver/pkg/config"
	"snapsolver/pkg/llm"
	"snapsolver/pkg/llm/llmerrors"
)

// Client wraps the Ollama API client to implement llm.Client.
type Client struct {
	client *api.Client
	model  string
}

// NewClientWithModel creates a client for an Ollama server.
// hostURL is the server URL, e.g. "http://localhost:11434".
func NewClientWithModel(hostURL, model string) llm.Client {
	parsedURL, err := url.Parse(hostURL)
	if err != nil {
		parsedURL, _ = url.Parse("http://localhost:11434")
	}
	if model == "" {
		model = config.DefaultOllamaModel
	}
	return &Client{
		client: api.NewClient(parsedURL, http.DefaultClient),
		model:  model,
	}
}

// Complete implements llm.Client.
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

	var messages []api.Message
	if in.SystemPrompt != "" {
		messages = append(messages, api.Message{Role: "system", Content: in.SystemPrompt})
	}

	userMsg := api.Message{Role: "user", Content: in.UserText}
	for i := range in.Images {
		raw, err := base64.StdEncoding.DecodeString(in.Images[i].Data)
		if err != nil {
			// Skip undecodable images rather than failing the whole call.
			continue
		}
		userMsg.Images = append(userMsg.Images, api.ImageData(raw))
	}
	messages = append(messages, userMsg)

	stream := false
	req := &api.ChatRequest{
		Model:    model,
		Messages: messages,
		Stream:   &stream,
		Options: map[string]any{
			"temperature": in.Temperature,
			"num_predict": in.MaxTokens,
		},
	}

	var responseText strings.Builder
	err := c.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		responseText.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return llm.CompletionResponse{}, classifyError(ctx, err)
	}
	if responseText.Len() == 0 {
		return llm.CompletionResponse{}, llmerrors.NewError(llmerrors.ErrorTypeServer, "empty response from ollama")
	}

	return llm.CompletionResponse{Content: responseText.String()}, nil
}

// ModelName returns the default model for this client.
func (c *Client) ModelName() string {
	return c.model
}

func classifyError(ctx context.Context, err error) *llmerrors.Error {
	if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
		return llmerrors.NewErrorWithCause(llmerrors.ErrorTypeCancelled, err, "request canceled")
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return llmerrors.NewErrorWithCause(llmerrors.ErrorTypeServer, err, "request timeout")
	}

	errStr := strings.ToLower(err.Error())
	if strings.Contains(errStr, "connection refused") {
		return llmerrors.NewErrorWithCause(llmerrors.ErrorTypeServer, err,
			fmt.Sprintf("cannot reach ollama server: %v", err))
	}
	if strings.Contains(errStr, "not found") {
		return llmerrors.NewErrorWithCause(llmerrors.ErrorTypeServer, err,
			fmt.Sprintf("model not available locally - run 'ollama pull': %v", err))
	}
	return llmerrors.NewErrorWithCause(llmerrors.ErrorTypeUnknown, err, "unclassified error")
}
