package processing

import (
	"snapsolver/pkg/config"
	"snapsolver/pkg/llm"
	"snapsolver/pkg/llm/anthropic"
	"snapsolver/pkg/llm/gemini"
	"snapsolver/pkg/llm/middleware/metrics"
	"snapsolver/pkg/llm/middleware/retry"
	"snapsolver/pkg/llm/middleware/timeout"
	"snapsolver/pkg/llm/ollama"
	"snapsolver/pkg/llm/openai"
	"snapsolver/pkg/logx"
)

// Task labels for the metrics middleware.
const (
	TaskExtraction = "extraction"
	TaskSolution   = "solution"
	TaskDebugging  = "debugging"
)

// ClientSet holds one wrapped client per task, all targeting the same
// provider. The set is rebuilt whenever settings change.
type ClientSet struct {
	Provider   string
	Extraction llm.Client
	Solution   llm.Client
	Debugging  llm.Client
}

// baseClientFor builds the raw provider client for one model.
func baseClientFor(settings config.Settings, model string) (llm.Client, error) {
	provider := settings.APIProvider

	switch provider {
	case config.ProviderOllama:
		host := settings.OllamaHost
		return ollama.NewClientWithModel(host, model), nil
	case config.ProviderOpenAI, config.ProviderGemini, config.ProviderAnthropic:
		apiKey := config.APIKeyFor(provider)
		if apiKey == "" {
			return nil, &ConfigurationError{Provider: provider, Reason: "no API key stored"}
		}
		switch provider {
		case config.ProviderOpenAI:
			return openai.NewClientWithModel(apiKey, model), nil
		case config.ProviderGemini:
			return gemini.NewClientWithModel(apiKey, model), nil
		default:
			return anthropic.NewClientWithModel(apiKey, model), nil
		}
	default:
		return nil, &ConfigurationError{Provider: provider, Reason: "unknown provider"}
	}
}

// wrapClient applies the standard middleware chain: metrics outermost, then
// per-call retries, then the per-attempt timeout.
func wrapClient(base llm.Client, recorder metrics.Recorder, provider, task string, logger *logx.Logger) llm.Client {
	return llm.Chain(base,
		metrics.Middleware(recorder, metrics.DefaultUsageExtractor, provider, task, logger),
		retry.Middleware(retry.NewPolicy(retry.DefaultConfig, nil)),
		timeout.Middleware(timeout.Default),
	)
}

// NewClientSet builds the per-task clients for the configured provider.
func NewClientSet(settings config.Settings, recorder metrics.Recorder, logger *logx.Logger) (*ClientSet, error) {
	if recorder == nil {
		recorder = metrics.NopRecorder{}
	}

	models := map[string]string{
		TaskExtraction: settings.ExtractionModel,
		TaskSolution:   settings.SolutionModel,
		TaskDebugging:  settings.DebuggingModel,
	}

	clients := make(map[string]llm.Client, len(models))
	for task, model := range models {
		if model == "" {
			model = config.DefaultModelFor(settings.APIProvider)
		}
		base, err := baseClientFor(settings, model)
		if err != nil {
			return nil, err
		}
		clients[task] = wrapClient(base, recorder, settings.APIProvider, task, logger)
	}

	return &ClientSet{
		Provider:   settings.APIProvider,
		Extraction: clients[TaskExtraction],
		Solution:   clients[TaskSolution],
		Debugging:  clients[TaskDebugging],
	}, nil
}
