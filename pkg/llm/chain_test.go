package llm

import (
	"context"
	"testing"
)

// recordingClient tracks the call order of middlewares around it.
type recordingClient struct {
	calls *[]string
}

func (r recordingClient) Complete(_ context.Context, _ CompletionRequest) (CompletionResponse, error) {
	*r.calls = append(*r.calls, "base")
	return CompletionResponse{Content: "ok"}, nil
}

func (r recordingClient) ModelName() string { return "test-model" }

func tagMiddleware(tag string, calls *[]string) Middleware {
	return func(next Client) Client {
		return WrapClient(
			func(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
				*calls = append(*calls, tag)
				return next.Complete(ctx, req)
			},
			next.ModelName,
		)
	}
}

func TestChainOrder(t *testing.T) {
	var calls []string
	base := recordingClient{calls: &calls}

	client := Chain(base, tagMiddleware("outer", &calls), tagMiddleware("inner", &calls))

	resp, err := client.Complete(context.Background(), NewCompletionRequest("hi"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Content != "ok" {
		t.Errorf("unexpected content %q", resp.Content)
	}

	want := []string{"outer", "inner", "base"}
	if len(calls) != len(want) {
		t.Fatalf("call order %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("call order %v, want %v", calls, want)
		}
	}
}

func TestChainPreservesModelName(t *testing.T) {
	var calls []string
	client := Chain(recordingClient{calls: &calls}, tagMiddleware("mw", &calls))
	if client.ModelName() != "test-model" {
		t.Errorf("model name not delegated through chain: %q", client.ModelName())
	}
}

func TestRequestValidate(t *testing.T) {
	req := NewCompletionRequest("solve this")
	if err := req.Validate(); err != nil {
		t.Errorf("default request should validate: %v", err)
	}

	empty := CompletionRequest{MaxTokens: 100}
	if err := empty.Validate(); err == nil {
		t.Error("empty user text should fail validation")
	}

	hot := NewCompletionRequest("x")
	hot.Temperature = 3.0
	if err := hot.Validate(); err == nil {
		t.Error("out-of-range temperature should fail validation")
	}
}

func TestImageDataURL(t *testing.T) {
	im := Image{MediaType: "image/jpeg", Data: "QUJD"}
	if got := im.DataURL(); got != "data:image/jpeg;base64,QUJD" {
		t.Errorf("DataURL = %q", got)
	}

	plain := Image{Data: "QUJD"}
	if got := plain.DataURL(); got != "data:image/png;base64,QUJD" {
		t.Errorf("empty media type should default to png, got %q", got)
	}
}
