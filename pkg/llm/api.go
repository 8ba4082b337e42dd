// Package llm provides the provider-agnostic interface and request types for
// the interchangeable LLM backends.
package llm

import (
	"context"
	"fmt"
)

const (
	// DefaultMaxTokens bounds completion length when the caller does not
	// override it.
	DefaultMaxTokens = 4096

	// TemperatureDefault suits solution generation: some exploration while
	// staying focused.
	TemperatureDefault = 0.7

	// TemperatureExtraction suits structured extraction, where drift from
	// the source material is unwanted.
	TemperatureExtraction = 0.2
)

// Image is a base64-encoded screenshot attached to a request.
type Image struct {
	// MediaType is the MIME type, e.g. "image/png".
	MediaType string
	// Data is the raw base64 payload without a data-URL prefix.
	Data string
}

// CompletionRequest describes one provider call: text plus optional images.
type CompletionRequest struct {
	SystemPrompt string  // optional system instruction
	UserText     string  // user-visible prompt text
	Images       []Image // optional screenshots
	Model        string  // model override; empty uses the client default
	MaxTokens    int
	Temperature  float32
}

// CompletionResponse carries the raw completion text.
type CompletionResponse struct {
	Content string
}

// Client is the uniform contract over the backends. Implementations map
// transport failures to *llmerrors.Error and must surface an aborted context
// as ErrorTypeCancelled, never as a generic failure.
type Client interface {
	Complete(ctx context.Context, in CompletionRequest) (CompletionResponse, error)

	// ModelName returns the default model this client targets.
	ModelName() string
}

// NewCompletionRequest creates a request with default token budget and
// temperature.
func NewCompletionRequest(userText string) CompletionRequest {
	return CompletionRequest{
		UserText:    userText,
		MaxTokens:   DefaultMaxTokens,
		Temperature: TemperatureDefault,
	}
}

// Validate checks a request before it reaches a transport.
func (r *CompletionRequest) Validate() error {
	if r.UserText == "" {
		return fmt.Errorf("user text cannot be empty")
	}
	if r.MaxTokens <= 0 {
		return fmt.Errorf("max tokens must be positive")
	}
	if r.Temperature < 0.0 || r.Temperature > 2.0 {
		return fmt.Errorf("temperature must be between 0.0 and 2.0")
	}
	return nil
}

// DataURL renders the image as a data URL, the form the chat-completion
// backend expects.
func (im *Image) DataURL() string {
	mediaType := im.MediaType
	if mediaType == "" {
		mediaType = "image/png"
	}
	return fmt.Sprintf("data:%s;base64,%s", mediaType, im.Data)
}
