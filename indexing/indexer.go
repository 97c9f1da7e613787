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

package indexing

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/wendao/ai"
	"github.com/poiesic/wendao/chunking"
	"github.com/poiesic/wendao/core"
	"github.com/poiesic/wendao/storage"
)

const (
	// defaultUpsertBatchSize bounds the number of entries written per
	// index transaction.
	defaultUpsertBatchSize = 100

	defaultMaxRetries     = 3
	defaultRetryBaseDelay = time.Second

	progressReportInterval = 5
)

// Report summarizes an indexing run.
type Report struct {
	// Documents is the number of documents considered.
	Documents int

	// Indexed is the number of documents successfully indexed.
	Indexed int

	// Failed is the number of documents skipped due to errors.
	Failed int

	// Chunks is the total number of chunks written to the index.
	Chunks int
}

// Indexer builds the vector index from a document source.
type Indexer struct {
	index          storage.VectorIndex
	source         storage.DocumentSource
	embedder       ai.Embedder
	chunker        *chunking.Chunker
	pool           *ants.Pool
	batchSize      int
	maxRetries     int
	retryBaseDelay time.Duration
	progressWriter io.Writer
	logger         *slog.Logger
}

// Option configures an Indexer.
type Option func(*Indexer) error

// WithPoolSize sets the worker pool size for concurrent document
// processing. Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(ix *Indexer) error {
		if size < 1 {
			size = 1
		}

		if ix.pool != nil {
			ix.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}

		ix.pool = pool
		return nil
	}
}

// WithBatchSize sets the maximum entries per index write.
func WithBatchSize(size int) Option {
	return func(ix *Indexer) error {
		if size < 1 {
			size = 1
		}
		ix.batchSize = size
		return nil
	}
}

// WithChunker sets a custom chunker.
func WithChunker(chunker *chunking.Chunker) Option {
	return func(ix *Indexer) error {
		if chunker != nil {
			ix.chunker = chunker
		}
		return nil
	}
}

// WithRetry sets the embedding retry policy.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(ix *Indexer) error {
		if maxAttempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		ix.maxRetries = maxAttempts
		ix.retryBaseDelay = baseDelay
		return nil
	}
}

// WithProgressWriter enables progress reporting to the writer.
func WithProgressWriter(w io.Writer) Option {
	return func(ix *Indexer) error {
		ix.progressWriter = w
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(ix *Indexer) error {
		if logger == nil {
			logger = slog.Default()
		}
		ix.logger = logger
		return nil
	}
}

// NewIndexer creates a new indexer.
func NewIndexer(
	index storage.VectorIndex,
	source storage.DocumentSource,
	embedder ai.Embedder,
	opts ...Option,
) (*Indexer, error) {
	if index == nil {
		return nil, ErrVectorIndexRequired
	}
	if source == nil {
		return nil, ErrDocumentSourceRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	chunker, err := chunking.NewChunker()
	if err != nil {
		pool.Release()
		return nil, err
	}

	ix := &Indexer{
		index:          index,
		source:         source,
		embedder:       embedder,
		chunker:        chunker,
		pool:           pool,
		batchSize:      defaultUpsertBatchSize,
		maxRetries:     defaultMaxRetries,
		retryBaseDelay: defaultRetryBaseDelay,
		logger:         slog.Default().With("component", "indexer"),
	}

	for _, opt := range opts {
		if optErr := opt(ix); optErr != nil {
			ix.Release()
			return nil, optErr
		}
	}

	return ix, nil
}

// IndexAll indexes every document in the source. Documents that fail are
// logged, counted, and skipped.
func (ix *Indexer) IndexAll(ctx context.Context) (*Report, error) {
	ids, err := ix.source.ListDocumentIDs(ctx)
	if err != nil {
		return nil, err
	}

	var tracker *ProgressTracker
	if ix.progressWriter != nil {
		tracker = NewProgressTracker(ix.progressWriter, len(ids), progressReportInterval)
		tracker.Start()
	}

	report := &Report{Documents: len(ids)}
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, docID := range ids {
		docID := docID
		wg.Add(1)
		if err := ix.pool.Submit(func() {
			defer wg.Done()

			chunks, err := ix.IndexDocument(ctx, docID)

			mu.Lock()
			if err != nil {
				report.Failed++
				ix.logger.Warn("skipping document", "doc_id", docID, "err", err)
			} else {
				report.Indexed++
				report.Chunks += chunks
			}
			mu.Unlock()

			if tracker != nil {
				tracker.Increment(1)
			}
		}); err != nil {
			wg.Done()
			mu.Lock()
			report.Failed++
			mu.Unlock()
			ix.logger.Error("failed to submit document", "doc_id", docID, "err", err)
		}
	}

	wg.Wait()

	if tracker != nil {
		tracker.Finish()
	}

	ix.logger.Info("indexing complete",
		"documents", report.Documents,
		"indexed", report.Indexed,
		"failed", report.Failed,
		"chunks", report.Chunks,
	)

	return report, nil
}

// IndexDocument chunks, embeds, and upserts a single document.
// Returns the number of chunks written.
func (ix *Indexer) IndexDocument(ctx context.Context, docID string) (int, error) {
	record, err := ix.source.GetDocumentRecord(ctx, docID)
	if err != nil {
		return 0, err
	}

	body, err := ix.source.GetDocumentText(ctx, docID)
	if err != nil {
		return 0, err
	}

	chunks := ix.chunker.Chunk(record, body)
	if len(chunks) == 0 {
		return 0, nil
	}

	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Content
	}

	var embeddings [][]float32
	err = RetryWithBackoff(ctx, func() error {
		var err error
		embeddings, err = ix.embedder.EmbedTexts(ctx, texts)
		return err
	}, ix.maxRetries, ix.retryBaseDelay)
	if err != nil {
		return 0, fmt.Errorf("embedding %s after %d attempts: %w", docID, ix.maxRetries, err)
	}

	if len(embeddings) != len(chunks) {
		return 0, fmt.Errorf("%w: expected %d, got %d", ErrEmbeddingCountMismatch, len(chunks), len(embeddings))
	}

	entries := make([]*storage.Entry, len(chunks))
	for i := range chunks {
		entries[i] = chunkToEntry(&chunks[i], NormalizeVector(embeddings[i]))
	}

	for start := 0; start < len(entries); start += ix.batchSize {
		end := start + ix.batchSize
		if end > len(entries) {
			end = len(entries)
		}
		if err := ix.index.Upsert(ctx, entries[start:end]...); err != nil {
			return 0, fmt.Errorf("upserting %s: %w", docID, err)
		}
	}

	ix.logger.Debug("indexed document", "doc_id", docID, "chunks", len(entries))

	return len(entries), nil
}

// Release releases the worker pool.
// The indexer should not be used after calling Release.
func (ix *Indexer) Release() {
	if ix.pool != nil {
		ix.pool.Release()
	}
}

// chunkToEntry converts a chunk and its embedding into an index entry.
func chunkToEntry(chunk *core.Chunk, vector []float32) *storage.Entry {
	return &storage.Entry{
		ID:     chunk.ID(),
		Vector: vector,
		Text:   chunk.Content,
		Metadata: map[string]string{
			"doc_id":     chunk.DocID,
			"chunk_type": string(chunk.Kind),
			"weight":     strconv.FormatFloat(chunk.Weight, 'g', -1, 64),
			"doc_weight": string(chunk.DocWeight),
			"layer":      chunk.Layer,
			"doc_type":   chunk.DocType,
		},
	}
}
