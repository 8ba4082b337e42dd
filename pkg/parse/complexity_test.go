package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComplexityExtractsBothSections(t *testing.T) {
	text := "Thoughts:\n- use a hash map\n" +
		"Time complexity: O(n) - one pass over the array because each element is visited once.\n" +
		"Space complexity: O(n) - the map holds up to n entries because every element may be stored.\n"

	timeC, spaceC := Complexity(text)
	assert.Equal(t, "O(n) - one pass over the array because each element is visited once.", timeC)
	assert.Equal(t, "O(n) - the map holds up to n entries because every element may be stored.", spaceC)
}

func TestComplexityDefaultsWhenAbsent(t *testing.T) {
	timeC, spaceC := Complexity("no complexity discussion here")
	assert.Equal(t, DefaultTimeComplexity, timeC)
	assert.Equal(t, DefaultSpaceComplexity, spaceC)
}

func TestNormalizeComplexity(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"empty", "", DefaultTimeComplexity},
		{"bare notation", "O(n log n)", "O(n log n) - "},
		{"no notation", "linear in the input size", "O(n) - linear in the input size"},
		{"already separated", "O(1) - constant lookups", "O(1) - constant lookups"},
		{"empty justification canonical form", "O(n log n) - ", "O(n log n) - "},
		{"empty justification trimmed form", "O(n log n) -", "O(n log n) - "},
		{"because without dash", "O(n) because each element is visited once", "O(n) because each element is visited once"},
		{"notation with trailing clause", "O(n^2) nested loops over the input", "O(n^2) - nested loops over the input"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeComplexity(tt.raw))
		})
	}
}

func TestNormalizeComplexityIdempotent(t *testing.T) {
	for _, raw := range []string{
		"",
		"O(n log n)",
		"O(n log n) - ",
		"linear in the input size",
		"O(n^2) nested loops over the input",
		"O(1) - constant lookups",
	} {
		once := NormalizeComplexity(raw)
		twice := NormalizeComplexity(once)
		assert.Equal(t, once, twice, "raw: %q", raw)
	}
}
