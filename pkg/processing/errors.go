package processing

import (
	"errors"
	"fmt"
	"strings"

	"snapsolver/pkg/llm/llmerrors"
)

// ErrBusy is returned when a workflow cycle is requested while the same
// workflow already has one in flight. Callers must cancel first.
var ErrBusy = errors.New("processing already in flight")

// ConfigurationError means no usable provider client could be built. It is
// surfaced as an API-key-invalid notification and never retried
// automatically.
type ConfigurationError struct {
	Provider string
	Reason   string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("provider %s not configured: %s", e.Provider, e.Reason)
}

// apiKeyPhrases mark errors that should surface as API-key-invalid rather
// than a generic processing failure.
var apiKeyPhrases = []string{
	"api key",
	"apikey",
	"unauthorized",
	"authentication",
	"invalid key",
	"401",
}

// isAPIKeyError reports whether the failure is credential-related.
func isAPIKeyError(err error) bool {
	var configErr *ConfigurationError
	if errors.As(err, &configErr) {
		return true
	}
	if llmerrors.TypeOf(err) == llmerrors.ErrorTypeAuth {
		return true
	}
	lower := strings.ToLower(err.Error())
	for _, phrase := range apiKeyPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// userMessage converts a classified failure into the human-readable guidance
// shown to the user.
func userMessage(err error) string {
	var llmErr *llmerrors.Error
	if !errors.As(err, &llmErr) {
		return err.Error()
	}

	switch llmErr.Type {
	case llmerrors.ErrorTypeRateLimit:
		return "The provider is rate limiting requests. Wait a moment and try again."
	case llmerrors.ErrorTypePayloadTooLarge:
		return "The request is too large for the selected model. Remove some screenshots or switch to a provider with a larger context window."
	case llmerrors.ErrorTypeServer:
		return "The provider returned a server error. Try again shortly."
	default:
		return llmErr.Message
	}
}
