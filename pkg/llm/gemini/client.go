// Package gemini provides the generative-content style backend. It is
// invoked as a direct HTTP call with the API key in the query string rather
// than through an SDK.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"snapsolver/pkg/config"
	"snapsolver/pkg/llm"
	"snapsolver/pkg/llm/llmerrors"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Client implements llm.Client against the generateContent REST endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
}

// NewClient creates a raw generative-content client; middleware is applied
// at a higher level.
func NewClient(apiKey string) llm.Client {
	return NewClientWithModel(apiKey, config.DefaultGeminiModel)
}

// NewClientWithModel creates a raw generative-content client with a default
// model.
func NewClientWithModel(apiKey, model string) llm.Client {
	return &Client{
		httpClient: http.DefaultClient,
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		model:      model,
	}
}

// NewClientForTest creates a client aimed at a test server.
func NewClientForTest(baseURL, apiKey, model string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
	}
}

// Wire types for the generateContent endpoint.

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
	Role  string `json:"role,omitempty"`
}

type generationConfig struct {
	Temperature     float32 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateRequest struct {
	Contents          []content         `json:"contents"`
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Complete implements llm.Client. The request becomes a single-turn
// "contents" array of text and inline-data parts.
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

	parts := make([]part, 0, len(in.Images)+1)
	parts = append(parts, part{Text: in.UserText})
	for i := range in.Images {
		img := &in.Images[i]
		mimeType := img.MediaType
		if mimeType == "" {
			mimeType = "image/png"
		}
		parts = append(parts, part{InlineData: &inlineData{MimeType: mimeType, Data: img.Data}})
	}

	reqBody := generateRequest{
		Contents: []content{{Parts: parts, Role: "user"}},
		GenerationConfig: &generationConfig{
			Temperature:     in.Temperature,
			MaxOutputTokens: in.MaxTokens,
		},
	}
	if in.SystemPrompt != "" {
		reqBody.SystemInstruction = &content{Parts: []part{{Text: in.SystemPrompt}}}
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return llm.CompletionResponse{}, llmerrors.NewErrorWithCause(llmerrors.ErrorTypeUnknown, err, "failed to encode request")
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, model, url.QueryEscape(c.apiKey))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return llm.CompletionResponse{}, llmerrors.NewErrorWithCause(llmerrors.ErrorTypeUnknown, err, "failed to build request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return llm.CompletionResponse{}, classifyTransportError(ctx, err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, 10<<20))
	if err != nil {
		return llm.CompletionResponse{}, classifyTransportError(ctx, err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return llm.CompletionResponse{}, classifyStatus(httpResp.StatusCode, body)
	}

	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return llm.CompletionResponse{}, llmerrors.NewErrorWithCause(llmerrors.ErrorTypeServer, err, "malformed response from generateContent")
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return llm.CompletionResponse{}, llmerrors.NewError(llmerrors.ErrorTypeServer, "empty response from generateContent")
	}

	var text strings.Builder
	for _, p := range parsed.Candidates[0].Content.Parts {
		text.WriteString(p.Text)
	}
	return llm.CompletionResponse{Content: text.String()}, nil
}

// ModelName returns the default model for this client.
func (c *Client) ModelName() string {
	return c.model
}

func classifyTransportError(ctx context.Context, err error) *llmerrors.Error {
	if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
		return llmerrors.NewErrorWithCause(llmerrors.ErrorTypeCancelled, err, "request canceled")
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return llmerrors.NewErrorWithCause(llmerrors.ErrorTypeServer, err, "request timeout")
	}
	return llmerrors.NewErrorWithCause(llmerrors.ErrorTypeServer, err, "network error calling generateContent")
}

func classifyStatus(statusCode int, body []byte) *llmerrors.Error {
	// Surface the upstream message when the error envelope parses.
	var parsed generateResponse
	detail := ""
	if json.Unmarshal(body, &parsed) == nil && parsed.Error != nil {
		detail = parsed.Error.Message
	}

	switch statusCode {
	case 401, 403:
		return llmerrors.NewErrorWithStatus(llmerrors.ErrorTypeAuth, statusCode, "authentication failed - check API key")
	case 429:
		return llmerrors.NewErrorWithStatus(llmerrors.ErrorTypeRateLimit, statusCode, "rate limit exceeded")
	case 413:
		return llmerrors.NewErrorWithStatus(llmerrors.ErrorTypePayloadTooLarge, statusCode, "request payload too large")
	default:
		msg := fmt.Sprintf("generateContent API error (status %d)", statusCode)
		if detail != "" {
			msg = fmt.Sprintf("%s: %s", msg, detail)
		}
		return llmerrors.NewErrorWithStatus(llmerrors.ErrorTypeServer, statusCode, msg)
	}
}
