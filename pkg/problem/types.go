// Package problem defines the structured results flowing between the prompt
// builder, response parsers, and the processing orchestrator.
package problem

// Info is the structured problem description produced by the extraction
// step. One Info is produced per processing cycle and held in orchestrator
// state until the next cycle overwrites or clears it.
type Info struct {
	ProblemStatement string `json:"problem_statement"`
	Constraints      string `json:"constraints,omitempty"`
	ExampleInput     string `json:"example_input,omitempty"`
	ExampleOutput    string `json:"example_output,omitempty"`
	Language         string `json:"language"`
	ConversationID   string `json:"conversationId,omitempty"`
}

// SolutionStep is one discrete stage of a progressively-built solution.
// At least one step always exists; the final step's code is the authoritative
// complete solution.
type SolutionStep struct {
	Title       string `json:"title"`
	Explanation string `json:"explanation"`
	Code        string `json:"code"`
}

// SolutionResult is the parsed outcome of solution generation. Complexity
// strings are normalized to contain Big-O notation plus a justification
// clause.
type SolutionResult struct {
	Code            string         `json:"code"`
	Thoughts        []string       `json:"thoughts"`
	TimeComplexity  string         `json:"time_complexity"`
	SpaceComplexity string         `json:"space_complexity"`
	Steps           []SolutionStep `json:"steps"`
	ConversationID  string         `json:"conversationId,omitempty"`
}

// DebugResult is the parsed outcome of debug analysis. Complexity fields are
// fixed at "N/A" since debug output carries no complexity sections.
type DebugResult struct {
	Code            string   `json:"code"`
	DebugAnalysis   string   `json:"debug_analysis"`
	Thoughts        []string `json:"thoughts"`
	TimeComplexity  string   `json:"time_complexity"`
	SpaceComplexity string   `json:"space_complexity"`
	ConversationID  string   `json:"conversationId,omitempty"`
}

// NewDebugResult creates a DebugResult with the fixed complexity fields set.
func NewDebugResult(code, analysis string, thoughts []string) DebugResult {
	return DebugResult{
		Code:            code,
		DebugAnalysis:   analysis,
		Thoughts:        thoughts,
		TimeComplexity:  "N/A",
		SpaceComplexity: "N/A",
	}
}

// Message kinds for conversation history fed back into extraction.
const (
	MessageKindText     = "text"
	MessageKindSolution = "solution"
)

// Message is one prior conversation entry. Text messages carry user content;
// solution messages record that a solution was generated in some language.
type Message struct {
	Kind     string `json:"kind"`
	Content  string `json:"content,omitempty"`
	Language string `json:"language,omitempty"`
}
