package parse

import (
	"regexp"
	"strings"
)

// Defaults for debug responses missing pieces.
const (
	PlaceholderDebugCode = "// No code changes provided"
	DefaultDebugThought  = "Review the highlighted issues and apply the suggested fixes."

	maxDebugThoughts = 5
)

// anyHeadingRe detects whether the content already uses markdown headings.
var anyHeadingRe = regexp.MustCompile(`(?m)^#{1,3}\s`)

// debugSectionPhrases maps known phrase patterns to the canonical section
// headings the UI renders. Order matters: relabeling walks this list.
var debugSectionPhrases = []struct {
	pattern *regexp.Regexp
	heading string
}{
	{regexp.MustCompile(`(?im)^\**\s*issues identified\s*\**:?\s*$`), "## Issues Identified"},
	{regexp.MustCompile(`(?im)^\**\s*(?:specific )?improvements(?: and corrections)?\s*\**:?\s*$`), "## Specific Improvements and Corrections"},
	{regexp.MustCompile(`(?im)^\**\s*optimizations\s*\**:?\s*$`), "## Optimizations"},
	{regexp.MustCompile(`(?im)^\**\s*explanation(?: of changes(?: needed)?)?\s*\**:?\s*$`), "## Explanation of Changes Needed"},
	{regexp.MustCompile(`(?im)^\**\s*key points\s*\**:?\s*$`), "## Key Points"},
}

// DebugContent is the structured form of a debug-analysis response.
type DebugContent struct {
	Code     string
	Analysis string
	Thoughts []string
}

// Debug parses a debug-analysis response.
//
// The first fenced code block becomes the extracted code (placeholder when
// absent). Content without any markdown heading gets known section phrases
// relabeled into ##-headed sections. Up to five bullet or numbered lines
// anywhere in the text become the thoughts.
func Debug(text string) DebugContent {
	code := firstFencedBlock(text)
	if code == "" {
		code = PlaceholderDebugCode
	}

	analysis := text
	if !anyHeadingRe.MatchString(analysis) {
		analysis = relabelSections(analysis)
	}

	return DebugContent{
		Code:     code,
		Analysis: analysis,
		Thoughts: debugThoughts(text),
	}
}

// relabelSections rewrites the first occurrence of each known phrase into a
// canonical ## heading.
func relabelSections(text string) string {
	for _, section := range debugSectionPhrases {
		if loc := section.pattern.FindStringIndex(text); loc != nil {
			text = text[:loc[0]] + section.heading + text[loc[1]:]
		}
	}
	return text
}

// debugThoughts collects up to maxDebugThoughts bullet or numbered lines.
func debugThoughts(text string) []string {
	var thoughts []string
	for _, line := range strings.Split(text, "\n") {
		if len(thoughts) >= maxDebugThoughts {
			break
		}
		if m := bulletLineRe.FindStringSubmatch(line); m != nil {
			if content := strings.TrimSpace(m[1]); content != "" {
				thoughts = append(thoughts, content)
			}
		}
	}
	if len(thoughts) == 0 {
		return []string{DefaultDebugThought}
	}
	return thoughts
}
