// Package parse turns raw model output into structured results. All parsers
// are pure functions that degrade to defaults instead of failing on
// malformed input; the only hard failure is extraction refusing to parse a
// response that plainly is not JSON (see Extraction).
package parse

import (
	"regexp"
	"strings"
)

// codeBlockRe matches a fenced code block, capturing the body. The info
// string after the opening fence is discarded.
var codeBlockRe = regexp.MustCompile("(?s)```[a-zA-Z0-9+#._-]*\\n?(.*?)```")

// fencedBlocks returns the bodies of all fenced code blocks in order of
// appearance.
func fencedBlocks(text string) []string {
	matches := codeBlockRe.FindAllStringSubmatch(text, -1)
	blocks := make([]string, 0, len(matches))
	for _, m := range matches {
		blocks = append(blocks, strings.TrimSpace(m[1]))
	}
	return blocks
}

// firstFencedBlock returns the first fenced block body, or "".
func firstFencedBlock(text string) string {
	if m := codeBlockRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// lastFencedBlock returns the last fenced block body, or "".
func lastFencedBlock(text string) string {
	blocks := fencedBlocks(text)
	if len(blocks) == 0 {
		return ""
	}
	return blocks[len(blocks)-1]
}
