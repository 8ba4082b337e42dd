package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractionFencedJSON(t *testing.T) {
	raw := "```json\n{\"problem_statement\":\"Reverse a string\",\"language\":\"python\"}\n```"

	info, err := Extraction(raw, "go")
	require.NoError(t, err)
	assert.Equal(t, "Reverse a string", info.ProblemStatement)
	assert.Equal(t, "python", info.Language)
}

func TestExtractionFenceStripEquivalence(t *testing.T) {
	body := `{"problem_statement":"Two Sum","constraints":"n <= 10^4","language":"python"}`

	plain, err := Extraction(body, "go")
	require.NoError(t, err)

	fenced, err := Extraction("```json\n"+body+"\n```", "go")
	require.NoError(t, err)

	bare, err := Extraction("```\n"+body+"\n```", "go")
	require.NoError(t, err)

	assert.Equal(t, plain, fenced)
	assert.Equal(t, plain, bare)
}

func TestExtractionFallbackLanguage(t *testing.T) {
	info, err := Extraction(`{"problem_statement":"FizzBuzz"}`, "java")
	require.NoError(t, err)
	assert.Equal(t, "java", info.Language)

	info, err = Extraction(`{"problem_statement":"FizzBuzz","language":"cpp"}`, "java")
	require.NoError(t, err)
	assert.Equal(t, "cpp", info.Language)
}

func TestExtractionApology(t *testing.T) {
	for _, raw := range []string{
		"I'm sorry, but I can't see a coding problem in this image.",
		"I apologize, the screenshot is unreadable.",
		"Unfortunately there is no problem statement visible.",
	} {
		_, err := Extraction(raw, "python")
		var extractErr *ExtractionError
		require.ErrorAs(t, err, &extractErr, "raw: %q", raw)
	}
}

func TestExtractionNoJSONObject(t *testing.T) {
	_, err := Extraction("The image shows a cat sitting on a keyboard.", "python")
	var extractErr *ExtractionError
	require.ErrorAs(t, err, &extractErr)
}

func TestExtractionSalvagesMalformedJSON(t *testing.T) {
	raw := `{"problem_statement": "Find the maximum subarray sum", "language":` // truncated

	info, err := Extraction(raw, "python")
	require.NoError(t, err)
	assert.Equal(t, raw, info.ProblemStatement)
	assert.Equal(t, PlaceholderConstraints, info.Constraints)
	assert.Equal(t, PlaceholderExampleInput, info.ExampleInput)
	assert.Equal(t, PlaceholderExampleOutput, info.ExampleOutput)
	assert.Equal(t, "python", info.Language)
}

func TestStripJSONFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, StripJSONFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, StripJSONFence("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, StripJSONFence(`  {"a":1}  `))
}
