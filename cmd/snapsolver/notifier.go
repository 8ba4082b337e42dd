package main

import (
	"fmt"

	"snapsolver/pkg/problem"
)

// consoleNotifier renders orchestrator events to stdout. A desktop frontend
// would implement processing.Notifier instead.
type consoleNotifier struct{}

func (consoleNotifier) ProcessingStarted() {
	fmt.Println("Processing started...")
}

func (consoleNotifier) ProblemExtracted(info problem.Info) {
	fmt.Printf("Problem: %s (language: %s)\n", info.ProblemStatement, info.Language)
}

func (consoleNotifier) SolutionSuccess(result problem.SolutionResult) {
	for i, step := range result.Steps {
		fmt.Printf("\nStep %d: %s\n%s\n", i+1, step.Title, step.Explanation)
		if step.Code != "" {
			fmt.Printf("\n%s\n", step.Code)
		}
	}
	fmt.Println("\nThoughts:")
	for _, thought := range result.Thoughts {
		fmt.Printf("  - %s\n", thought)
	}
	fmt.Printf("\nTime complexity: %s\n", result.TimeComplexity)
	fmt.Printf("Space complexity: %s\n", result.SpaceComplexity)
}

func (consoleNotifier) SolutionError(message string) {
	fmt.Printf("Solution failed: %s\n", message)
}

func (consoleNotifier) DebugStarted() {
	fmt.Println("Analyzing debug screenshots...")
}

func (consoleNotifier) DebugSuccess(result problem.DebugResult) {
	fmt.Printf("\n%s\n", result.DebugAnalysis)
	if result.Code != "" {
		fmt.Printf("\nSuggested code:\n%s\n", result.Code)
	}
}

func (consoleNotifier) DebugError(message string) {
	fmt.Printf("Debug analysis failed: %s\n", message)
}

func (consoleNotifier) APIKeyInvalid() {
	fmt.Println("API key missing or invalid. Set it in settings or via the provider's environment variable.")
}

func (consoleNotifier) NoInput(message string) {
	fmt.Println(message)
}

func (consoleNotifier) Progress(percent int, message string) {
	fmt.Printf("[%3d%%] %s\n", percent, message)
}
