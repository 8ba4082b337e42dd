package parse

import (
	"regexp"
	"strings"

	"snapsolver/pkg/problem"
)

// Defaults for the synthesized single-step fallback.
const (
	FallbackStepTitle       = "Complete Solution"
	FallbackStepExplanation = "The solution to the problem."
)

// stepTokenRe matches the token-delimited step format the solution prompt
// requests: a title line, an explanation line, and a fenced code block.
var stepTokenRe = regexp.MustCompile(
	"(?s)---STEP_TITLE:[ \\t]*(.*?)\\s*---STEP_EXPLANATION:[ \\t]*(.*?)\\s*---STEP_CODE:\\s*```[a-zA-Z0-9+#._-]*\\n?(.*?)```")

// headingRe matches the looser heading styles models fall back to when they
// ignore the token format.
var headingRe = regexp.MustCompile(`(?m)^(?:Step \d+:.*|##{1,2} .*)$`)

// Steps extracts the ordered solution steps from free-form generation text.
//
// Strategy tiers, tried in order:
//  1. token format: ---STEP_TITLE / ---STEP_EXPLANATION / ---STEP_CODE blocks
//  2. heading split: "Step N:", "##", or "###" headings paired with the
//     following text and any fenced code before the next heading
//  3. synthesized single step whose code is the last fenced block in the
//     whole text (or empty), so the final step stays the authoritative
//     complete solution
//
// At least one step is always returned.
func Steps(text string) []problem.SolutionStep {
	if steps := stepsFromTokens(text); len(steps) > 0 {
		return steps
	}
	if steps := stepsFromHeadings(text); len(steps) > 0 {
		return steps
	}
	return []problem.SolutionStep{{
		Title:       FallbackStepTitle,
		Explanation: FallbackStepExplanation,
		Code:        lastFencedBlock(text),
	}}
}

// stepsFromTokens is the primary strategy: the exact format the prompt
// requested, in order of appearance.
func stepsFromTokens(text string) []problem.SolutionStep {
	matches := stepTokenRe.FindAllStringSubmatch(text, -1)
	steps := make([]problem.SolutionStep, 0, len(matches))
	for _, m := range matches {
		steps = append(steps, problem.SolutionStep{
			Title:       strings.TrimSpace(m[1]),
			Explanation: strings.TrimSpace(m[2]),
			Code:        strings.TrimSpace(m[3]),
		})
	}
	return steps
}

// stepsFromHeadings splits on heading lines, pairing each heading with the
// text that follows it and the first fenced code block before the next
// heading.
func stepsFromHeadings(text string) []problem.SolutionStep {
	locs := headingRe.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}

	var steps []problem.SolutionStep
	for i, loc := range locs {
		title := strings.TrimSpace(strings.TrimLeft(text[loc[0]:loc[1]], "# "))

		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		body := text[loc[1]:end]

		code := firstFencedBlock(body)
		explanation := strings.TrimSpace(codeBlockRe.ReplaceAllString(body, ""))

		steps = append(steps, problem.SolutionStep{
			Title:       title,
			Explanation: explanation,
			Code:        code,
		})
	}
	return steps
}
