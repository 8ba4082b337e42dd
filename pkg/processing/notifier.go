package processing

import "snapsolver/pkg/problem"

// Progress milestones emitted during the main workflow.
const (
	ProgressExtracting = 20
	ProgressExtracted  = 40
	ProgressGenerating = 60
	ProgressDone       = 100
)

// Notifier receives one-way lifecycle events from the orchestrator. The UI
// implements this; the orchestrator never reads anything back. All methods
// may be called from the goroutine running a processing cycle.
type Notifier interface {
	ProcessingStarted()
	ProblemExtracted(info problem.Info)
	SolutionSuccess(result problem.SolutionResult)
	SolutionError(message string)

	DebugStarted()
	DebugSuccess(result problem.DebugResult)
	DebugError(message string)

	APIKeyInvalid()
	NoInput(message string)
	Progress(percent int, message string)
}

// NopNotifier discards all events.
type NopNotifier struct{}

func (NopNotifier) ProcessingStarted()                     {}
func (NopNotifier) ProblemExtracted(problem.Info)          {}
func (NopNotifier) SolutionSuccess(problem.SolutionResult) {}
func (NopNotifier) SolutionError(string)                   {}
func (NopNotifier) DebugStarted()                          {}
func (NopNotifier) DebugSuccess(problem.DebugResult)       {}
func (NopNotifier) DebugError(string)                      {}
func (NopNotifier) APIKeyInvalid()                         {}
func (NopNotifier) NoInput(string)                         {}
func (NopNotifier) Progress(int, string)                   {}
