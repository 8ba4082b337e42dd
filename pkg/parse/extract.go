package parse

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"snapsolver/pkg/problem"
)

// Placeholder strings used when a non-JSON extraction response is salvaged
// into a best-effort problem description.
const (
	PlaceholderConstraints   = "No specific constraints provided"
	PlaceholderExampleInput  = "No example input provided"
	PlaceholderExampleOutput = "No example output provided"
)

// ExtractionError means the extraction response cannot be interpreted as a
// problem description at all: the model apologized or returned no JSON-like
// content. Unlike malformed JSON, this is not salvageable.
type ExtractionError struct {
	Reason string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed: %s", e.Reason)
}

// jsonFenceRe strips a leading ```json (or bare ```) fence and the matching
// closing fence.
var jsonFenceRe = regexp.MustCompile("(?s)^```(?:json)?\\s*\\n?(.*?)\\n?```\\s*$")

// apologyPrefixes mark responses where the model declined to extract.
var apologyPrefixes = []string{
	"i'm sorry",
	"i am sorry",
	"i apologize",
	"sorry,",
	"unfortunately",
}

// StripJSONFence removes a surrounding ```json fence when present. Callers
// must tolerate fencing even though the prompt forbids it.
func StripJSONFence(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if m := jsonFenceRe.FindStringSubmatch(trimmed); m != nil {
		return strings.TrimSpace(m[1])
	}
	return trimmed
}

// Extraction parses an extraction response into a problem description.
//
// Fallback order:
//  1. strip any ```json fencing
//  2. reject apologies and brace-free text with *ExtractionError
//  3. strict JSON parse
//  4. on JSON failure, salvage: the raw text becomes the problem statement
//     and the remaining fields get placeholder values
func Extraction(raw, fallbackLanguage string) (problem.Info, error) {
	stripped := StripJSONFence(raw)

	lower := strings.ToLower(stripped)
	for _, prefix := range apologyPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return problem.Info{}, &ExtractionError{Reason: "model declined to extract a problem"}
		}
	}
	if !strings.Contains(stripped, "{") {
		return problem.Info{}, &ExtractionError{Reason: "response contains no JSON object"}
	}

	var info problem.Info
	if err := json.Unmarshal([]byte(stripped), &info); err != nil {
		// Salvage tier: treat the whole response as the problem statement.
		return problem.Info{
			ProblemStatement: stripped,
			Constraints:      PlaceholderConstraints,
			ExampleInput:     PlaceholderExampleInput,
			ExampleOutput:    PlaceholderExampleOutput,
			Language:         fallbackLanguage,
		}, nil
	}

	if info.Language == "" {
		info.Language = fallbackLanguage
	}
	return info, nil
}
