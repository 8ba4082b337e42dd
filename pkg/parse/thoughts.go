package parse

import (
	"regexp"
	"strings"
)

// DefaultThought stands in when the response has no recognizable reasoning
// section.
const DefaultThought = "Direct implementation approach based on the problem requirements."

var (
	// thoughtsHeaderRe locates the start of the reasoning section.
	thoughtsHeaderRe = regexp.MustCompile(`(?i)(?:thoughts|key insights|reasoning|approach):`)

	// timeComplexityHeaderRe bounds the reasoning section.
	timeComplexityHeaderRe = regexp.MustCompile(`(?i)time complexity:`)

	// bulletLineRe matches bulleted or numbered list lines, capturing the
	// content after the marker.
	bulletLineRe = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)])\s+(.*)$`)
)

// Thoughts extracts the model's reasoning bullet points.
//
// The section runs from the first Thoughts/Key Insights/Reasoning/Approach
// header to the next "Time complexity:" occurrence (or end of text). Within
// the span, bulleted and numbered lines win with their markers stripped;
// when none exist, every non-empty line is kept. Absent a section entirely,
// a single generic thought is returned.
func Thoughts(text string) []string {
	span := thoughtsSpan(text)
	if span == "" {
		return []string{DefaultThought}
	}

	var bullets, plain []string
	for _, line := range strings.Split(span, "\n") {
		if m := bulletLineRe.FindStringSubmatch(line); m != nil {
			if content := strings.TrimSpace(m[1]); content != "" {
				bullets = append(bullets, content)
			}
			continue
		}
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			plain = append(plain, trimmed)
		}
	}

	if len(bullets) > 0 {
		return bullets
	}
	if len(plain) > 0 {
		return plain
	}
	return []string{DefaultThought}
}

// thoughtsSpan returns the raw text of the reasoning section, or "".
func thoughtsSpan(text string) string {
	start := thoughtsHeaderRe.FindStringIndex(text)
	if start == nil {
		return ""
	}

	span := text[start[1]:]
	if end := timeComplexityHeaderRe.FindStringIndex(span); end != nil {
		span = span[:end[0]]
	}
	return span
}
