// Package tokens provides tiktoken-based token counting used for metrics
// and for context-window pre-checks before provider calls.
package tokens

import (
	"fmt"
	"sync"

	"github.com/tiktoken-go/tokenizer"
)

// Counter counts tokens for a model family. All supported models approximate
// well with the GPT-4 encoding.
type Counter struct {
	codec tokenizer.Codec
}

// NewCounter creates a counter for the given model name.
func NewCounter(model string) (*Counter, error) {
	codec, err := tokenizer.ForModel(tokenizer.GPT4)
	if err != nil {
		return nil, fmt.Errorf("failed to create tokenizer codec for model %s: %w", model, err)
	}
	return &Counter{codec: codec}, nil
}

// Count returns the number of tokens in text, falling back to a
// character-based estimate (4 chars per token) when the codec is unavailable.
func (c *Counter) Count(text string) int {
	if c == nil || c.codec == nil {
		return len(text) / 4
	}
	count, err := c.codec.Count(text)
	if err != nil {
		return len(text) / 4
	}
	return count
}

//nolint:gochecknoglobals // shared codec for the package-level helper
var (
	defaultCounter     *Counter
	defaultCounterOnce sync.Once
)

// CountSimple counts tokens with a shared GPT-4 codec, without requiring a
// Counter instance.
func CountSimple(text string) int {
	defaultCounterOnce.Do(func() {
		if c, err := NewCounter("gpt-4"); err == nil {
			defaultCounter = c
		}
	})
	return defaultCounter.Count(text)
}
