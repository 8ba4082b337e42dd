package parse

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebugExtractsFirstCodeBlock(t *testing.T) {
	text := "## Issues Identified\n- off by one\n```python\nfixed()\n```\nLater:\n```python\nalternative()\n```"

	got := Debug(text)
	assert.Equal(t, "fixed()", got.Code)
}

func TestDebugPlaceholderWithoutCode(t *testing.T) {
	got := Debug("## Issues Identified\n- nothing concrete to change")
	assert.Equal(t, PlaceholderDebugCode, got.Code)
}

func TestDebugRelabelsHeadinglessSections(t *testing.T) {
	text := "Issues Identified:\n- index overflow\n\nOptimizations:\n- cache the length\n"

	got := Debug(text)
	assert.Contains(t, got.Analysis, "## Issues Identified")
	assert.Contains(t, got.Analysis, "## Optimizations")
	assert.NotContains(t, got.Analysis, "Issues Identified:")
}

func TestDebugKeepsExistingHeadings(t *testing.T) {
	text := "## Issues Identified\n- index overflow\n\nOptimizations:\n- cache the length\n"

	got := Debug(text)
	assert.Equal(t, text, got.Analysis)
}

func TestDebugThoughtsCapped(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("Issues Identified:\n")
	for i := 0; i < 8; i++ {
		sb.WriteString("- point\n")
	}

	got := Debug(sb.String())
	require.Len(t, got.Thoughts, 5)
}

func TestDebugDefaultThought(t *testing.T) {
	got := Debug("prose with no lists at all")
	assert.Equal(t, []string{DefaultDebugThought}, got.Thoughts)
}
