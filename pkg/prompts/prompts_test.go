package prompts

import (
	"fmt"
	"strings"
	"testing"

	"snapsolver/pkg/problem"
)

func TestExtractionPromptWithImages(t *testing.T) {
	p := BuildExtractionPrompt(true, nil, "python")

	if !strings.Contains(p.SystemPrompt, "explicitly visible") {
		t.Error("image prompt should prefer a language visible in the screenshots")
	}
	if !strings.Contains(p.SystemPrompt, "python") {
		t.Error("fallback language missing from system prompt")
	}
	if !strings.Contains(p.SystemPrompt, "No prose, no markdown fencing") {
		t.Error("strict JSON instruction missing")
	}
	for _, field := range []string{"problem_statement", "constraints", "example_input", "example_output", "language"} {
		if !strings.Contains(p.SystemPrompt, field) {
			t.Errorf("system prompt missing required field %q", field)
		}
	}
}

func TestExtractionPromptWithoutImages(t *testing.T) {
	p := BuildExtractionPrompt(false, nil, "go")
	if !strings.Contains(p.SystemPrompt, "Rely solely on the conversation text") {
		t.Error("text-only prompt should rely solely on conversation text")
	}
}

func TestExtractionPromptConversationSummary(t *testing.T) {
	messages := []problem.Message{
		{Kind: problem.MessageKindText, Content: "reverse a linked list"},
		{Kind: problem.MessageKindSolution, Language: "python"},
	}
	p := BuildExtractionPrompt(false, messages, "python")

	if !strings.Contains(p.UserText, "User: reverse a linked list") {
		t.Error("text message not summarized as User line")
	}
	if !strings.Contains(p.UserText, "Assistant: Generated solution in python") {
		t.Error("solution message not summarized as Assistant line")
	}
}

func TestExtractionPromptCapsMessages(t *testing.T) {
	var messages []problem.Message
	for i := 0; i < 30; i++ {
		messages = append(messages, problem.Message{Kind: problem.MessageKindText, Content: fmt.Sprintf("msg-%d", i)})
	}
	p := BuildExtractionPrompt(false, messages, "python")

	if strings.Contains(p.UserText, "msg-9\n") || strings.Contains(p.UserText, "msg-0") {
		t.Error("messages beyond the last 20 should be dropped")
	}
	if !strings.Contains(p.UserText, "msg-29") {
		t.Error("most recent message missing")
	}
	if !strings.Contains(p.UserText, "msg-10") {
		t.Error("twentieth-from-last message should be kept")
	}
}

func TestExtractionPromptEmptyConversationOmitsSummary(t *testing.T) {
	p := BuildExtractionPrompt(true, nil, "python")
	if strings.Contains(p.UserText, "Recent conversation") {
		t.Error("empty history must not append a summary block")
	}
}

func TestSolutionPromptStepFormat(t *testing.T) {
	info := &problem.Info{
		ProblemStatement: "Reverse a string",
		Constraints:      "O(1) extra space",
		ExampleInput:     "abc",
		ExampleOutput:    "cba",
	}
	p := BuildSolutionPrompt(info, "python")

	for _, token := range []string{"---STEP_TITLE:", "---STEP_EXPLANATION:", "---STEP_CODE:"} {
		if !strings.Contains(p, token) {
			t.Errorf("solution prompt missing token %q", token)
		}
	}
	for _, section := range []string{"Thoughts:", "Time complexity:", "Space complexity:"} {
		if !strings.Contains(p, section) {
			t.Errorf("solution prompt missing section %q", section)
		}
	}
	if !strings.Contains(p, "at least 3 discrete steps") {
		t.Error("solution prompt should require 3+ steps")
	}
	if !strings.Contains(p, "Reverse a string") || !strings.Contains(p, "O(1) extra space") {
		t.Error("problem fields not embedded")
	}
	if !strings.Contains(p, "```python") {
		t.Error("fenced code block should carry the target language")
	}
}

func TestDebugPromptFiveSections(t *testing.T) {
	p := BuildDebugPrompt(&problem.Info{ProblemStatement: "Two sum"}, "go")

	sections := []string{
		"### Issues Identified",
		"### Specific Improvements and Corrections",
		"### Optimizations",
		"### Explanation of Changes Needed",
		"### Key Points",
	}
	for _, s := range sections {
		if !strings.Contains(p, s) {
			t.Errorf("debug prompt missing section %q", s)
		}
	}
	if !strings.Contains(p, "Two sum") {
		t.Error("original problem statement not embedded")
	}
}
