// Package prompts constructs the provider-agnostic prompt text for problem
// extraction, solution generation, and debug analysis. All builders are pure
// string construction.
package prompts

import (
	"fmt"
	"strings"

	"snapsolver/pkg/problem"
)

// maxRecentMessages caps how much conversation history rides along with an
// extraction request.
const maxRecentMessages = 20

// ExtractionPrompt is the system/user text pair for the extraction task.
type ExtractionPrompt struct {
	SystemPrompt string
	UserText     string
}

// BuildExtractionPrompt assembles the extraction request. With images the
// model is told to prefer a language visible in the screenshots over the
// fallback; without images it relies solely on conversation text.
func BuildExtractionPrompt(hasImages bool, recentMessages []problem.Message, fallbackLanguage string) ExtractionPrompt {
	var system strings.Builder
	system.WriteString("You are a coding problem analyzer. Extract the complete problem description from the provided input.\n")
	if hasImages {
		fmt.Fprintf(&system,
			"The screenshots contain the problem. If a programming language is explicitly visible in them, use that language; otherwise use %s.\n",
			fallbackLanguage)
	} else {
		fmt.Fprintf(&system,
			"No screenshots are available. Rely solely on the conversation text below to reconstruct the problem. Default language: %s.\n",
			fallbackLanguage)
	}
	system.WriteString("Respond with strictly the JSON object containing the fields " +
		"problem_statement, constraints, example_input, example_output, language. " +
		"No prose, no markdown fencing.")

	var user strings.Builder
	if hasImages {
		user.WriteString("Extract the coding problem from these screenshots.")
	} else {
		user.WriteString("Extract the coding problem from the conversation.")
	}

	if summary := summarizeConversation(recentMessages); summary != "" {
		user.WriteString("\n\nRecent conversation:\n")
		user.WriteString(summary)
	}

	return ExtractionPrompt{
		SystemPrompt: system.String(),
		UserText:     user.String(),
	}
}

// summarizeConversation renders the last messages as User/Assistant lines.
// Returns empty string when there is no usable history.
func summarizeConversation(messages []problem.Message) string {
	if len(messages) > maxRecentMessages {
		messages = messages[len(messages)-maxRecentMessages:]
	}

	var lines []string
	for i := range messages {
		msg := &messages[i]
		switch msg.Kind {
		case problem.MessageKindText:
			lines = append(lines, fmt.Sprintf("User: %s", msg.Content))
		case problem.MessageKindSolution:
			lines = append(lines, fmt.Sprintf("Assistant: Generated solution in %s", msg.Language))
		}
	}
	return strings.Join(lines, "\n")
}

// BuildSolutionPrompt assembles the solution-generation prompt. The model is
// instructed to emit discrete steps in a token-delimited format the parser
// matches exactly, followed by thoughts and complexity sections.
func BuildSolutionPrompt(info *problem.Info, language string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Generate a step-by-step solution in %s for the following problem.\n\n", language)
	fmt.Fprintf(&b, "PROBLEM:\n%s\n", info.ProblemStatement)
	if info.Constraints != "" {
		fmt.Fprintf(&b, "\nCONSTRAINTS:\n%s\n", info.Constraints)
	}
	if info.ExampleInput != "" {
		fmt.Fprintf(&b, "\nEXAMPLE INPUT:\n%s\n", info.ExampleInput)
	}
	if info.ExampleOutput != "" {
		fmt.Fprintf(&b, "\nEXAMPLE OUTPUT:\n%s\n", info.ExampleOutput)
	}

	b.WriteString(`
Present the solution as at least 3 discrete steps that build toward the complete answer. Format every step exactly like this:

---STEP_TITLE: <short step title>
---STEP_EXPLANATION: <one-paragraph explanation of this step>
---STEP_CODE:
` + "```" + language + `
<the code for this step>
` + "```" + `

The final step's code must be the complete working solution.

After all steps, include these plain-text sections:

Thoughts: key insights and reasoning behind the approach, as bullet points.
Time complexity: the Big-O notation followed by a justification of at least two sentences explaining why.
Space complexity: the Big-O notation followed by a justification of at least two sentences explaining why.
`)

	return b.String()
}

// BuildDebugPrompt assembles the debug-analysis prompt. The answer must use
// five fixed sections so the UI can render them consistently.
func BuildDebugPrompt(info *problem.Info, language string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are debugging a %s solution. The screenshots show the problem and the current code or error output.\n", language)
	if info != nil && info.ProblemStatement != "" {
		fmt.Fprintf(&b, "\nORIGINAL PROBLEM:\n%s\n", info.ProblemStatement)
	}

	b.WriteString(`
Always structure your answer with exactly these five sections, each introduced by a ### heading:

### Issues Identified
- bullet list of concrete problems found

### Specific Improvements and Corrections
- bullet list of targeted fixes

### Optimizations
- bullet list of performance or clarity improvements

### Explanation of Changes Needed
A short prose explanation of why these changes matter.

### Key Points
- bullet list of the most important takeaways

Include the corrected code in a fenced code block where relevant.
`)

	return b.String()
}
