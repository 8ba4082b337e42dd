// Package config provides settings loading, validation, and management for
// the processing core.
//
// A single global Settings instance is maintained in memory, protected by a
// mutex. Get() returns the settings BY VALUE to prevent external mutation;
// all changes go through Update, which validates, persists, and notifies
// registered listeners. The orchestrator subscribes to re-resolve its
// provider clients whenever settings change.
package config

import (
	"fmt"
	"strings"
	"sync"

	"snapsolver/pkg/logx"
)

// API provider identifiers.
const (
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
)

// Default models per provider and task.
const (
	DefaultOpenAIModel    = "gpt-4o"
	DefaultGeminiModel    = "gemini-2.0-flash"
	DefaultAnthropicModel = "claude-3-7-sonnet-20250219"
	DefaultOllamaModel    = "llama3.1"

	// DefaultLanguage is the fallback solution language when neither the
	// screenshots nor the conversation pin one down.
	DefaultLanguage = "python"
)

// ModelInfo contains static information about a known model. Hardcoded, not
// user-configurable.
type ModelInfo struct {
	Provider         string
	MaxContextTokens int
	MaxOutputTokens  int
}

// KnownModels registry for context-window pre-checks. Unknown models skip
// the pre-check.
//
//nolint:gochecknoglobals // static model registry
var KnownModels = map[string]ModelInfo{
	"gpt-4o":                     {Provider: ProviderOpenAI, MaxContextTokens: 128000, MaxOutputTokens: 16384},
	"gpt-4o-mini":                {Provider: ProviderOpenAI, MaxContextTokens: 128000, MaxOutputTokens: 16384},
	"gemini-2.0-flash":           {Provider: ProviderGemini, MaxContextTokens: 1048576, MaxOutputTokens: 8192},
	"gemini-1.5-pro":             {Provider: ProviderGemini, MaxContextTokens: 2097152, MaxOutputTokens: 8192},
	"claude-3-7-sonnet-20250219": {Provider: ProviderAnthropic, MaxContextTokens: 200000, MaxOutputTokens: 8192},
	"claude-sonnet-4-20250514":   {Provider: ProviderAnthropic, MaxContextTokens: 200000, MaxOutputTokens: 8192},
}

// Settings holds the user-facing configuration.
type Settings struct {
	APIProvider     string `json:"api_provider"`
	ExtractionModel string `json:"extraction_model"`
	SolutionModel   string `json:"solution_model"`
	DebuggingModel  string `json:"debugging_model"`
	Language        string `json:"language"`
	OllamaHost      string `json:"ollama_host,omitempty"`
	MetricsAddr     string `json:"metrics_addr,omitempty"`
}

// Listener is notified after settings change and persist successfully.
type Listener func(Settings)

//nolint:gochecknoglobals // intentional singleton config management
var (
	settings    *Settings
	settingsDir string // immutable after Load
	listeners   []Listener
	logger      *logx.Logger
	mu          sync.RWMutex
)

func getLogger() *logx.Logger {
	if logger == nil {
		logger = logx.NewLogger("config")
	}
	return logger
}

// LogInfo logs through the config logger, for packages that want consistent
// config-related output.
func LogInfo(format string, args ...any) {
	getLogger().Info(format, args...)
}

// DefaultSettings returns settings for a fresh installation.
func DefaultSettings() Settings {
	return Settings{
		APIProvider:     ProviderOpenAI,
		ExtractionModel: DefaultOpenAIModel,
		SolutionModel:   DefaultOpenAIModel,
		DebuggingModel:  DefaultOpenAIModel,
		Language:        DefaultLanguage,
	}
}

// Validate checks settings consistency.
func (s *Settings) Validate() error {
	switch s.APIProvider {
	case ProviderOpenAI, ProviderGemini, ProviderAnthropic, ProviderOllama:
	default:
		return fmt.Errorf("unknown api provider: %q", s.APIProvider)
	}
	if s.ExtractionModel == "" || s.SolutionModel == "" || s.DebuggingModel == "" {
		return fmt.Errorf("extraction, solution, and debugging models must all be set")
	}
	if s.Language == "" {
		return fmt.Errorf("language cannot be empty")
	}
	if s.APIProvider == ProviderOllama && s.OllamaHost == "" {
		return fmt.Errorf("ollama provider requires ollama_host")
	}
	return nil
}

// DefaultModelFor returns the default model for a provider.
func DefaultModelFor(provider string) string {
	switch provider {
	case ProviderGemini:
		return DefaultGeminiModel
	case ProviderAnthropic:
		return DefaultAnthropicModel
	case ProviderOllama:
		return DefaultOllamaModel
	default:
		return DefaultOpenAIModel
	}
}

// Get returns the current settings by value. Load must have been called.
func Get() (Settings, error) {
	mu.RLock()
	defer mu.RUnlock()
	if settings == nil {
		return Settings{}, fmt.Errorf("config not loaded: call config.Load first")
	}
	return *settings, nil
}

// Update atomically replaces the settings after validation, persists them,
// and notifies listeners.
func Update(next Settings) error {
	if err := next.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	mu.Lock()
	if settingsDir == "" {
		mu.Unlock()
		return fmt.Errorf("config not loaded: call config.Load first")
	}
	settings = &next
	dir := settingsDir
	subs := make([]Listener, len(listeners))
	copy(subs, listeners)
	mu.Unlock()

	if err := save(dir, next); err != nil {
		return fmt.Errorf("failed to persist settings: %w", err)
	}

	getLogger().Info("settings updated: provider=%s language=%s", next.APIProvider, next.Language)
	for _, fn := range subs {
		fn(next)
	}
	return nil
}

// Subscribe registers a listener invoked after each successful Update.
func Subscribe(fn Listener) {
	mu.Lock()
	defer mu.Unlock()
	listeners = append(listeners, fn)
}

// normalizeProvider maps loosely-typed provider strings from old settings
// files to canonical identifiers.
func normalizeProvider(provider string) string {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "openai", "chatgpt", "gpt":
		return ProviderOpenAI
	case "gemini", "google":
		return ProviderGemini
	case "anthropic", "claude":
		return ProviderAnthropic
	case "ollama", "local":
		return ProviderOllama
	default:
		return provider
	}
}
