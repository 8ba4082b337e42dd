// Package processing drives the screenshot/conversation pipeline: problem
// extraction, solution generation, and debug analysis against the configured
// provider, with lifecycle events emitted to a Notifier.
package processing

import (
	"context"
	"fmt"
	"sync"

	"snapsolver/pkg/config"
	"snapsolver/pkg/llm"
	"snapsolver/pkg/llm/llmerrors"
	"snapsolver/pkg/llm/middleware/metrics"
	"snapsolver/pkg/logx"
	"snapsolver/pkg/parse"
	"snapsolver/pkg/persistence"
	"snapsolver/pkg/problem"
	"snapsolver/pkg/prompts"
	"snapsolver/pkg/screenshots"
)

// Orchestrator owns the per-session processing state: the extracted problem,
// the has-debugged flag, and one cancellation slot per workflow. The two
// workflows (main, extra) may run concurrently with each other but a second
// cycle of the same workflow is rejected with ErrBusy until the first
// finishes or is cancelled.
type Orchestrator struct {
	store         screenshots.Store
	notifier      Notifier
	recorder      metrics.Recorder
	conversations *persistence.ConversationStore
	logger        *logx.Logger

	mu          sync.Mutex
	clients     *ClientSet
	problemInfo *problem.Info
	hasDebugged bool
	mainCancel  context.CancelFunc
	extraCancel context.CancelFunc
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithRecorder sets the metrics recorder used by the client middleware.
func WithRecorder(recorder metrics.Recorder) Option {
	return func(o *Orchestrator) { o.recorder = recorder }
}

// WithConversationStore enables recording generated solutions as assistant
// messages.
func WithConversationStore(store *persistence.ConversationStore) Option {
	return func(o *Orchestrator) { o.conversations = store }
}

// NewOrchestrator creates an orchestrator and subscribes to settings changes
// so the provider clients are re-resolved on the next cycle after an update.
func NewOrchestrator(store screenshots.Store, notifier Notifier, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		store:    store,
		notifier: notifier,
		recorder: metrics.NopRecorder{},
		logger:   logx.NewLogger("processing"),
	}
	for _, opt := range opts {
		opt(o)
	}

	config.Subscribe(func(config.Settings) {
		o.mu.Lock()
		o.clients = nil
		o.mu.Unlock()
		o.logger.Info("Settings changed, provider clients will be rebuilt")
	})

	return o
}

// ensureClients returns the current client set, lazily rebuilding it once
// from settings when absent. Callers must not hold o.mu.
func (o *Orchestrator) ensureClients() (*ClientSet, error) {
	o.mu.Lock()
	if o.clients != nil {
		defer o.mu.Unlock()
		return o.clients, nil
	}
	o.mu.Unlock()

	settings, err := config.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	clients, err := NewClientSet(settings, o.recorder, o.logger)
	if err != nil {
		return nil, err
	}

	o.mu.Lock()
	o.clients = clients
	o.mu.Unlock()
	return clients, nil
}

// ProblemInfo returns the problem extracted by the last successful main
// cycle, or nil.
func (o *Orchestrator) ProblemInfo() *problem.Info {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.problemInfo == nil {
		return nil
	}
	copied := *o.problemInfo
	return &copied
}

// HasDebugged reports whether a debug cycle completed since the last
// CancelAll.
func (o *Orchestrator) HasDebugged() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.hasDebugged
}

// CancelAll aborts both workflows' in-flight requests, clears the stored
// problem, and resets the has-debugged flag. The no-input notification is
// emitted only when something was actually in flight, and exactly once.
func (o *Orchestrator) CancelAll() {
	o.mu.Lock()
	inFlight := o.mainCancel != nil || o.extraCancel != nil
	if o.mainCancel != nil {
		o.mainCancel()
		o.mainCancel = nil
	}
	if o.extraCancel != nil {
		o.extraCancel()
		o.extraCancel = nil
	}
	o.problemInfo = nil
	o.hasDebugged = false
	o.mu.Unlock()

	if inFlight {
		o.logger.Info("Cancelled in-flight processing")
		o.notifier.NoInput("Processing was canceled.")
	}
}

// ProcessMain runs the main workflow: extract the problem from the
// screenshot queue and/or conversation messages, then generate a solution.
// It blocks until the cycle finishes; run it on its own goroutine.
func (o *Orchestrator) ProcessMain(ctx context.Context, conversationID string, messages []problem.Message) error {
	clients, err := o.ensureClients()
	if err != nil {
		o.logger.Error("Provider unavailable: %v", err)
		o.notifier.APIKeyInvalid()
		return err
	}

	paths, err := o.store.ListMainQueue()
	if err != nil {
		o.logger.Warn("Failed to list main queue: %v", err)
	}
	if len(paths) == 0 && len(messages) == 0 {
		o.notifier.NoInput("Add a screenshot or type a message first.")
		return nil
	}

	ctx, release, err := o.acquireMain(ctx)
	if err != nil {
		return err
	}
	defer release()

	o.notifier.ProcessingStarted()
	o.notifier.Progress(ProgressExtracting, "Analyzing the problem...")

	shots, err := screenshots.Load(ctx, paths)
	if err != nil {
		return o.failMain(err)
	}
	if len(shots) == 0 && len(messages) == 0 {
		return o.failMain(fmt.Errorf("no screenshot could be read"))
	}

	info, err := o.extractProblem(ctx, clients.Extraction, shots, messages)
	if err != nil {
		return o.failMain(err)
	}
	info.ConversationID = conversationID

	o.mu.Lock()
	o.problemInfo = &info
	o.mu.Unlock()

	o.notifier.ProblemExtracted(info)
	o.notifier.Progress(ProgressExtracted, "Problem extracted, generating solution...")

	result, err := o.generateSolution(ctx, clients.Solution, &info)
	if err != nil {
		return o.failMain(err)
	}
	result.ConversationID = conversationID

	// A fresh solution invalidates debug screenshots from the prior cycle.
	if err := o.store.ClearExtraQueue(); err != nil {
		o.logger.Warn("Failed to clear extra queue: %v", err)
	}

	o.recordSolution(conversationID, info.Language)

	o.notifier.Progress(ProgressDone, "Solution ready")
	o.notifier.SolutionSuccess(result)
	return nil
}

// ProcessExtra runs the debug workflow over the union of the main and extra
// screenshot queues.
func (o *Orchestrator) ProcessExtra(ctx context.Context, conversationID string) error {
	clients, err := o.ensureClients()
	if err != nil {
		o.logger.Error("Provider unavailable: %v", err)
		o.notifier.APIKeyInvalid()
		return err
	}

	extraPaths, err := o.store.ListExtraQueue()
	if err != nil {
		o.logger.Warn("Failed to list extra queue: %v", err)
	}
	if len(extraPaths) == 0 {
		o.notifier.NoInput("Add a debug screenshot first.")
		return nil
	}

	ctx, release, err := o.acquireExtra(ctx)
	if err != nil {
		return err
	}
	defer release()

	o.notifier.DebugStarted()

	// Debug context includes the originally solved problem's screenshots.
	mainPaths, err := o.store.ListMainQueue()
	if err != nil {
		o.logger.Warn("Failed to list main queue: %v", err)
	}
	shots, err := screenshots.Load(ctx, append(mainPaths, extraPaths...))
	if err != nil {
		return o.failExtra(err)
	}

	info := o.ProblemInfo()
	language := config.DefaultLanguage
	if info != nil && info.Language != "" {
		language = info.Language
	}

	req := llm.NewCompletionRequest(prompts.BuildDebugPrompt(info, language))
	req.Images = toImages(shots)

	resp, err := clients.Debugging.Complete(ctx, req)
	if err != nil {
		return o.failExtra(err)
	}

	content := parse.Debug(resp.Content)
	result := problem.NewDebugResult(content.Code, content.Analysis, content.Thoughts)
	result.ConversationID = conversationID

	o.mu.Lock()
	o.hasDebugged = true
	o.mu.Unlock()

	o.notifier.DebugSuccess(result)
	return nil
}

func (o *Orchestrator) acquireMain(ctx context.Context) (context.Context, func(), error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.mainCancel != nil {
		return nil, nil, ErrBusy
	}
	ctx, cancel := context.WithCancel(ctx)
	o.mainCancel = cancel

	release := func() {
		o.mu.Lock()
		if o.mainCancel != nil {
			o.mainCancel()
			o.mainCancel = nil
		}
		o.mu.Unlock()
	}
	return ctx, release, nil
}

func (o *Orchestrator) acquireExtra(ctx context.Context) (context.Context, func(), error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.extraCancel != nil {
		return nil, nil, ErrBusy
	}
	ctx, cancel := context.WithCancel(ctx)
	o.extraCancel = cancel

	release := func() {
		o.mu.Lock()
		if o.extraCancel != nil {
			o.extraCancel()
			o.extraCancel = nil
		}
		o.mu.Unlock()
	}
	return ctx, release, nil
}

// extractProblem runs the extraction call and parses the response into a
// structured problem.
func (o *Orchestrator) extractProblem(ctx context.Context, client llm.Client, shots []screenshots.Screenshot, messages []problem.Message) (problem.Info, error) {
	settings, err := config.Get()
	if err != nil {
		return problem.Info{}, fmt.Errorf("failed to load settings: %w", err)
	}

	prompt := prompts.BuildExtractionPrompt(len(shots) > 0, messages, settings.Language)

	req := llm.NewCompletionRequest(prompt.UserText)
	req.SystemPrompt = prompt.SystemPrompt
	req.Temperature = llm.TemperatureExtraction
	req.Images = toImages(shots)

	resp, err := client.Complete(ctx, req)
	if err != nil {
		return problem.Info{}, err
	}

	info, err := parse.Extraction(resp.Content, settings.Language)
	if err != nil {
		return problem.Info{}, fmt.Errorf("could not read a problem from the input: %w", err)
	}
	return info, nil
}

// generateSolution runs the solution call and assembles the structured
// result. Parse failures never surface; every tier degrades to defaults.
func (o *Orchestrator) generateSolution(ctx context.Context, client llm.Client, info *problem.Info) (problem.SolutionResult, error) {
	o.notifier.Progress(ProgressGenerating, "Generating solution...")

	resp, err := client.Complete(ctx, llm.NewCompletionRequest(prompts.BuildSolutionPrompt(info, info.Language)))
	if err != nil {
		return problem.SolutionResult{}, err
	}

	steps := parse.Steps(resp.Content)
	thoughts := parse.Thoughts(resp.Content)
	timeComplexity, spaceComplexity := parse.Complexity(resp.Content)

	return problem.SolutionResult{
		Code:            steps[len(steps)-1].Code,
		Thoughts:        thoughts,
		TimeComplexity:  timeComplexity,
		SpaceComplexity: spaceComplexity,
		Steps:           steps,
	}, nil
}

// recordSolution appends an assistant message to the conversation store when
// one is configured. Failures are logged, never fatal to the cycle.
func (o *Orchestrator) recordSolution(conversationID, language string) {
	if o.conversations == nil || conversationID == "" {
		return
	}
	err := o.conversations.AppendMessage(conversationID, problem.Message{
		Kind:     problem.MessageKindSolution,
		Language: language,
	})
	if err != nil {
		o.logger.Warn("Failed to record solution in conversation %s: %v", conversationID, err)
	}
}

// failMain classifies a main-workflow failure and emits the single terminal
// notification for the cycle. Cancellation is informational and the
// notification was already emitted by CancelAll.
func (o *Orchestrator) failMain(err error) error {
	if llmerrors.IsCancelled(err) {
		o.logger.Info("Main workflow canceled")
		return nil
	}
	if isAPIKeyError(err) {
		o.logger.Error("Main workflow auth failure: %v", err)
		o.notifier.APIKeyInvalid()
		return err
	}
	o.logger.Error("Main workflow failed: %v", err)
	o.notifier.SolutionError(userMessage(err))
	return err
}

func (o *Orchestrator) failExtra(err error) error {
	if llmerrors.IsCancelled(err) {
		o.logger.Info("Debug workflow canceled")
		return nil
	}
	if isAPIKeyError(err) {
		o.logger.Error("Debug workflow auth failure: %v", err)
		o.notifier.APIKeyInvalid()
		return err
	}
	o.logger.Error("Debug workflow failed: %v", err)
	o.notifier.DebugError(userMessage(err))
	return err
}

func toImages(shots []screenshots.Screenshot) []llm.Image {
	if len(shots) == 0 {
		return nil
	}
	images := make([]llm.Image, len(shots))
	for i, shot := range shots {
		images[i] = llm.Image{
			MediaType: screenshots.MediaTypeFor(shot.Path),
			Data:      shot.Data,
		}
	}
	return images
}
