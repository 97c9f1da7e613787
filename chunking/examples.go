package chunking

import (
	"regexp"
	"strings"

	"github.com/poiesic/wendao/core"
)

// Passages shorter than this (in runes) are not worth indexing as examples.
const minExampleLen = 20

// Number of leading runes hashed for example dedup.
const dedupPrefixLen = 100

var (
	inlineExampleMarker = regexp.MustCompile(`(?:案例|例子|示例)[：:]`)
	h2ExampleHeading    = regexp.MustCompile(`(?m)^##[^#\n]*(?:案例|例子|示例).*$`)
	h3ExampleHeading    = regexp.MustCompile(`(?m)^###[^#\n]*(?:案例|例子|示例).*$`)
)

// extractExamples collects passages marked as examples, independently of the
// content split (an example may also appear inside a content chunk).
// Extraction order is deterministic: inline markers first, then ## headings,
// then ### headings. Near-duplicates are suppressed by a prefix hash, a
// best-effort collision-tolerant filter rather than a correctness guarantee.
func (c *Chunker) extractExamples(body string) []string {
	var examples []string

	for _, loc := range inlineExampleMarker.FindAllStringIndex(body, -1) {
		examples = append(examples, inlineExampleBody(body, loc[1]))
	}
	for _, loc := range h2ExampleHeading.FindAllStringIndex(body, -1) {
		examples = append(examples, headingBody(body, loc[1], []string{"\n##"}))
	}
	for _, loc := range h3ExampleHeading.FindAllStringIndex(body, -1) {
		examples = append(examples, headingBody(body, loc[1], []string{"\n###", "\n##"}))
	}

	seen := make(map[uint64]bool)
	unique := make([]string, 0, len(examples))
	for _, example := range examples {
		example = strings.TrimSpace(example)
		if len([]rune(example)) <= minExampleLen {
			continue
		}
		hash := core.ContentHash(example, dedupPrefixLen)
		if seen[hash] {
			continue
		}
		seen[hash] = true
		unique = append(unique, example)
	}
	return unique
}

// inlineExampleBody returns the text following an inline example marker,
// ending at the next blank line, heading, or end of document.
func inlineExampleBody(body string, start int) string {
	rest := body[start:]
	end := len(rest)
	for _, terminator := range []string{"\n\n", "\n#"} {
		if idx := strings.Index(rest, terminator); idx >= 0 && idx < end {
			end = idx
		}
	}
	return rest[:end]
}

// headingBody returns the section body after an example heading, ending at
// the next heading of the same or higher level, or end of document.
func headingBody(body string, start int, terminators []string) string {
	rest := body[start:]
	end := len(rest)
	for _, terminator := range terminators {
		if idx := strings.Index(rest, terminator); idx >= 0 && idx < end {
			end = idx
		}
	}
	return rest[:end]
}
