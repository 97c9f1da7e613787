package chunking

import (
	"regexp"
	"strings"
)

var paragraphBreak = regexp.MustCompile(`\n\n+`)

// splitContent splits a document body into token-bounded passages.
// Paragraphs are packed greedily up to the chunk size; the tail of each
// flushed buffer is carried into the next one as overlap, provided the
// carried span fits the overlap budget. Paragraphs that alone exceed the
// chunk size are split again at sentence boundaries.
func (c *Chunker) splitContent(body string) []string {
	if strings.TrimSpace(body) == "" {
		return nil
	}

	paragraphs := paragraphBreak.Split(body, -1)

	var chunks []string
	var buffer []string
	bufferTokens := 0

	flush := func() {
		chunks = append(chunks, strings.Join(buffer, "\n\n"))
	}

	for _, para := range paragraphs {
		paraTokens := c.counter.Count(para)

		if paraTokens > c.chunkSize {
			if len(buffer) > 0 {
				flush()
				buffer = nil
				bufferTokens = 0
			}
			chunks = append(chunks, c.splitLongParagraph(para)...)
			continue
		}

		if bufferTokens+paraTokens > c.chunkSize && len(buffer) > 0 {
			flush()

			carry, carryTokens := c.overlapSpan(buffer)
			if carry != "" {
				buffer = []string{carry, para}
				bufferTokens = carryTokens + paraTokens
			} else {
				buffer = []string{para}
				bufferTokens = paraTokens
			}
			continue
		}

		buffer = append(buffer, para)
		bufferTokens += paraTokens
	}

	if len(buffer) > 0 {
		flush()
	}

	return chunks
}

// overlapSpan selects the trailing span of a flushed buffer to seed the next
// one: the last paragraph, or the last two when one alone is under the
// overlap width. Returns "" when the span would exceed the overlap budget.
func (c *Chunker) overlapSpan(buffer []string) (string, int) {
	if c.overlap <= 0 || len(buffer) == 0 {
		return "", 0
	}

	span := buffer[len(buffer)-1]
	spanTokens := c.counter.Count(span)
	if spanTokens < c.overlap && len(buffer) > 1 {
		span = strings.Join(buffer[len(buffer)-2:], "\n\n")
		spanTokens = c.counter.Count(span)
	}
	if spanTokens <= c.overlap {
		return span, spanTokens
	}
	return "", 0
}

// splitLongParagraph splits an oversized paragraph at sentence boundaries,
// using the same greedy accumulation with single-sentence overlap carry.
func (c *Chunker) splitLongParagraph(text string) []string {
	sentences := splitSentences(text)

	var chunks []string
	var buffer []string
	bufferTokens := 0

	for _, sentence := range sentences {
		sentenceTokens := c.counter.Count(sentence)

		if bufferTokens+sentenceTokens > c.chunkSize && len(buffer) > 0 {
			chunks = append(chunks, strings.Join(buffer, ""))

			if c.overlap > 0 {
				last := buffer[len(buffer)-1]
				lastTokens := c.counter.Count(last)
				if lastTokens < c.overlap {
					buffer = []string{last, sentence}
					bufferTokens = lastTokens + sentenceTokens
					continue
				}
			}
			buffer = []string{sentence}
			bufferTokens = sentenceTokens
			continue
		}

		buffer = append(buffer, sentence)
		bufferTokens += sentenceTokens
	}

	if len(buffer) > 0 {
		chunks = append(chunks, strings.Join(buffer, ""))
	}

	return chunks
}

// splitSentences splits text at sentence-ending punctuation or line breaks,
// dropping empty fragments.
func splitSentences(text string) []string {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == '。' || r == '！' || r == '？' || r == '\n'
	})
	sentences := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		sentences = append(sentences, part)
	}
	return sentences
}
