package processing

import (
	"context"
	"sync"

	"snapsolver/pkg/llm"
	"snapsolver/pkg/problem"
)

// mockClient backs llm.Client with a function.
type mockClient struct {
	complete func(ctx context.Context, in llm.CompletionRequest) (llm.CompletionResponse, error)
	model    string
}

func (m *mockClient) Complete(ctx context.Context, in llm.CompletionRequest) (llm.CompletionResponse, error) {
	return m.complete(ctx, in)
}

func (m *mockClient) ModelName() string {
	if m.model == "" {
		return "mock-model"
	}
	return m.model
}

// recordingNotifier captures every event for assertions.
type recordingNotifier struct {
	mu sync.Mutex

	started        int
	extracted      []problem.Info
	solutions      []problem.SolutionResult
	solutionErrors []string
	debugStarted   int
	debugResults   []problem.DebugResult
	debugErrors    []string
	apiKeyInvalid  int
	noInput        []string
	progress       []int
}

func (n *recordingNotifier) ProcessingStarted() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.started++
}

func (n *recordingNotifier) ProblemExtracted(info problem.Info) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.extracted = append(n.extracted, info)
}

func (n *recordingNotifier) SolutionSuccess(result problem.SolutionResult) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.solutions = append(n.solutions, result)
}

func (n *recordingNotifier) SolutionError(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.solutionErrors = append(n.solutionErrors, message)
}

func (n *recordingNotifier) DebugStarted() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.debugStarted++
}

func (n *recordingNotifier) DebugSuccess(result problem.DebugResult) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.debugResults = append(n.debugResults, result)
}

func (n *recordingNotifier) DebugError(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.debugErrors = append(n.debugErrors, message)
}

func (n *recordingNotifier) APIKeyInvalid() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.apiKeyInvalid++
}

func (n *recordingNotifier) NoInput(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.noInput = append(n.noInput, message)
}

func (n *recordingNotifier) Progress(percent int, _ string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.progress = append(n.progress, percent)
}
