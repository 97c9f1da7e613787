// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package chunking

import (
	"log/slog"
	"strings"

	"github.com/poiesic/wendao/core"
	"github.com/poiesic/wendao/token"
)

const (
	// DefaultChunkSize is the target content chunk size in tokens.
	DefaultChunkSize = 1000
	// DefaultOverlap is the token budget carried between neighboring
	// content chunks.
	DefaultOverlap = 200
)

// Chunker splits a document into typed chunks.
type Chunker struct {
	chunkSize int
	overlap   int
	counter   token.Counter
	logger    *slog.Logger
}

// Option configures a Chunker.
type Option func(*Chunker) error

// WithChunkSize sets the target content chunk size in tokens.
// Default is DefaultChunkSize.
func WithChunkSize(size int) Option {
	return func(c *Chunker) error {
		if size <= 0 {
			return ErrInvalidChunkSize
		}
		c.chunkSize = size
		return nil
	}
}

// WithOverlap sets the overlap budget in tokens.
// Default is DefaultOverlap.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) error {
		if overlap < 0 || overlap >= c.chunkSize {
			return ErrInvalidOverlap
		}
		c.overlap = overlap
		return nil
	}
}

// WithCounter sets the token counter.
// Default is the character estimator.
func WithCounter(counter token.Counter) Option {
	return func(c *Chunker) error {
		if counter == nil {
			counter = token.NewEstimator()
		}
		c.counter = counter
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Chunker) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// NewChunker creates a new chunker.
func NewChunker(opts ...Option) (*Chunker, error) {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
		counter:   token.NewEstimator(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Chunk splits a document into its typed chunks. Chunks are appended in a
// fixed order (metadata, summary, query patterns, content, examples) so that
// ordinal assignment within each kind is deterministic. A document with an
// empty body yields only metadata, summary and pattern chunks. Chunk never
// fails for well-formed input.
func (c *Chunker) Chunk(record *core.DocumentRecord, body string) []core.Chunk {
	var chunks []core.Chunk

	add := func(kind core.ChunkKind, ordinal int, content string) {
		chunks = append(chunks, core.Chunk{
			DocID:     record.ID,
			Kind:      kind,
			Ordinal:   ordinal,
			Content:   content,
			Weight:    core.KindWeight(kind),
			DocType:   record.DocType,
			Layer:     record.Layer,
			DocWeight: record.Weight(),
		})
	}

	// Metadata chunk, always present.
	add(core.ChunkKindMetadata, 0, renderMetadata(record))

	if record.Summary != "" {
		add(core.ChunkKindSummary, 0, record.Summary)
	}

	ordinal := 0
	for _, pattern := range record.QueryPatterns {
		if pattern == "" {
			continue
		}
		add(core.ChunkKindQueryPattern, ordinal, pattern)
		ordinal++
	}

	for i, passage := range c.splitContent(body) {
		add(core.ChunkKindContent, i, passage)
	}

	for i, example := range c.extractExamples(body) {
		add(core.ChunkKindExample, i, example)
	}

	c.logger.Debug("document chunked", "doc", record.ID, "chunks", len(chunks))
	return chunks
}

// renderMetadata produces the fixed textual rendering of a record's
// metadata: id, title, type, layer, then optional summary and keywords,
// one line each.
func renderMetadata(record *core.DocumentRecord) string {
	parts := []string{
		"文档ID: " + record.ID,
		"标题: " + record.Title,
		"类型: " + record.DocType,
		"层级: " + record.Layer,
	}
	if record.Summary != "" {
		parts = append(parts, "摘要: "+record.Summary)
	}
	if len(record.Keywords) > 0 {
		parts = append(parts, "关键词: "+strings.Join(record.Keywords, ", "))
	}
	return strings.Join(parts, "\n")
}
