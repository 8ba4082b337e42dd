package parse

import (
	"regexp"
	"strings"
)

// Defaults used when the response omits a complexity section.
const (
	DefaultTimeComplexity  = "O(n) - Linear time complexity because the algorithm processes each input element a constant number of times. This assumes the dominant operation scales directly with input size."
	DefaultSpaceComplexity = "O(n) - Linear space complexity because the algorithm may allocate auxiliary storage proportional to the input. This covers any intermediate collections built during processing."
)

var (
	// timeCaptureRe and spaceCaptureRe capture the text after each header up
	// to the next capitalized section header or end of text.
	timeCaptureRe  = regexp.MustCompile(`(?is)time complexity:\s*(.+?)(?:\n\s*[A-Z][A-Za-z ]+:|$)`)
	spaceCaptureRe = regexp.MustCompile(`(?is)space complexity:\s*(.+?)(?:\n\s*[A-Z][A-Za-z ]+:|$)`)

	// bigORe detects Big-O notation anywhere in a capture.
	bigORe = regexp.MustCompile(`O\([^)]+\)`)
)

// Complexity extracts and normalizes the time and space complexity strings.
// Both default to linear boilerplate with a justification when absent.
func Complexity(text string) (timeComplexity, spaceComplexity string) {
	timeComplexity = DefaultTimeComplexity
	if m := timeCaptureRe.FindStringSubmatch(text); m != nil {
		timeComplexity = NormalizeComplexity(m[1])
	}

	spaceComplexity = DefaultSpaceComplexity
	if m := spaceCaptureRe.FindStringSubmatch(text); m != nil {
		spaceComplexity = NormalizeComplexity(m[1])
	}

	return timeComplexity, spaceComplexity
}

// NormalizeComplexity guarantees Big-O notation plus a separator before the
// justification clause. Normalization is idempotent.
//
// Rules:
//   - empty capture: default linear boilerplate
//   - no O(...) notation: prepend "O(n) - " to the captured justification
//   - notation present but no "-" separator and no "because": insert " - "
//     after the notation, keeping whatever justification follows
//   - notation followed only by a bare "-": re-emit the canonical
//     empty-justification form "O(...) - "
func NormalizeComplexity(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return DefaultTimeComplexity
	}

	loc := bigORe.FindStringIndex(s)
	if loc == nil {
		return "O(n) - " + s
	}

	rest := strings.TrimSpace(s[loc[1]:])

	// A bare trailing separator re-emits the canonical empty-justification
	// form so the rendering is a fixed point.
	if rest == "-" {
		return s[:loc[1]] + " - "
	}

	if strings.Contains(s, "-") || strings.Contains(strings.ToLower(s), "because") {
		return s
	}

	// Insert the separator right after the notation.
	return s[:loc[1]] + " - " + rest
}
