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

package retrieval

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/poiesic/wendao/ai"
	"github.com/poiesic/wendao/core"
	"github.com/poiesic/wendao/storage"
)

const (
	// DefaultTopK is the default number of documents to return.
	DefaultTopK = 5

	// recallMultiplier over-fetches vector hits so reranking has headroom.
	recallMultiplier = 3

	// patternOnlyScore is the fixed score for documents matched only by
	// query pattern.
	patternOnlyScore = 0.8

	// relatedScore is the fixed score for documents pulled in by
	// related-document expansion.
	relatedScore = 0.5

	// patternBoost multiplies vector scores of pattern-matched documents.
	patternBoost = 1.5
)

// Request describes a single retrieval.
type Request struct {
	// Query is the search text, already enhanced if the caller interprets
	// queries first.
	Query string

	// TopK is the number of documents to return. Zero or negative yields
	// an empty result.
	TopK int

	// Layer restricts results to one knowledge layer ("dao" or "shu").
	// Empty means no restriction.
	Layer string

	// DocType restricts results to one document type. Empty means no
	// restriction.
	DocType string

	// NoExpand disables related-document expansion.
	NoExpand bool
}

// Retriever performs hybrid retrieval: vector search fused with query
// pattern matches and related-document expansion.
type Retriever struct {
	index    storage.VectorIndex
	source   storage.DocumentSource
	embedder ai.Embedder
	matcher  *PatternMatcher
	logger   *slog.Logger
}

// Option configures a Retriever.
type Option func(*Retriever) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Retriever) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewRetriever creates a new retriever.
func NewRetriever(
	index storage.VectorIndex,
	source storage.DocumentSource,
	embedder ai.Embedder,
	opts ...Option,
) (*Retriever, error) {
	if index == nil {
		return nil, ErrVectorIndexRequired
	}
	if source == nil {
		return nil, ErrDocumentSourceRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	r := &Retriever{
		index:    index,
		source:   source,
		embedder: embedder,
		matcher:  NewPatternMatcher(source),
		logger:   slog.Default().With("component", "retriever"),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Retrieve returns up to req.TopK documents ranked by fused relevance.
func (r *Retriever) Retrieve(ctx context.Context, req *Request) ([]*core.RetrievalCandidate, error) {
	return r.RetrieveWithMonitor(ctx, req, nil)
}

// RetrieveWithMonitor retrieves with monitoring. The monitor receives
// callbacks at each stage of the retrieval process.
func (r *Retriever) RetrieveWithMonitor(ctx context.Context, req *Request, monitor RetrievalMonitor) ([]*core.RetrievalCandidate, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	monitor.Start(req.Query)

	if req.TopK <= 0 {
		monitor.Finish(nil)
		return []*core.RetrievalCandidate{}, nil
	}

	// 1. Vector search, over-fetched for reranking headroom
	vector, err := r.embedder.EmbedQuery(ctx, req.Query)
	if err != nil {
		r.logger.Error("error generating embedding for query", "err", err)
		return nil, err
	}

	hits, err := r.index.Query(ctx, vector, req.TopK*recallMultiplier, buildFilter(req.Layer, req.DocType))
	if err != nil {
		r.logger.Error("error querying vector index", "err", err)
		return nil, err
	}
	monitor.AfterVectorSearch(hits)

	// 2. Query pattern matching
	patternMatches, err := r.matcher.Match(ctx, req.Query, req.Layer, req.DocType)
	if err != nil {
		r.logger.Error("error matching query patterns", "err", err)
		return nil, err
	}
	monitor.AfterPatternMatch(patternMatches)

	// 3. Fuse and rerank
	results, err := r.fuse(ctx, hits, patternMatches, req, monitor)
	if err != nil {
		return nil, err
	}

	monitor.Finish(results)
	r.logger.Info("retrieval complete", "query", req.Query, "results", len(results))

	return results, nil
}

// fuse merges vector hits and pattern matches into per-document candidates,
// optionally expands along related-document links, and returns the top
// req.TopK candidates by score.
func (r *Retriever) fuse(
	ctx context.Context,
	hits []*storage.Hit,
	patternMatches []string,
	req *Request,
	monitor RetrievalMonitor,
) ([]*core.RetrievalCandidate, error) {
	patternSet := make(map[string]bool, len(patternMatches))
	for _, docID := range patternMatches {
		patternSet[docID] = true
	}

	candidates := make(map[string]*core.RetrievalCandidate)
	var order []string

	// Vector hits: score each chunk, keep the best chunk per document.
	for _, hit := range hits {
		docID := metadataValue(hit.Metadata, "doc_id", chunkDocID(hit.ID))

		base := 1 - float64(hit.Distance)
		score := base * chunkWeight(hit.Metadata)

		if patternSet[docID] {
			score *= patternBoost
		}

		switch core.DocWeight(metadataValue(hit.Metadata, "doc_weight", string(core.DocWeightImportant))) {
		case core.DocWeightCore:
			score *= 1.3
		case core.DocWeightImportant:
			score *= 1.1
		}

		chunkHit := core.ChunkHit{
			Content: hit.Text,
			Score:   base,
			Kind:    core.ChunkKind(metadataValue(hit.Metadata, "chunk_type", string(core.ChunkKindContent))),
		}

		cand, ok := candidates[docID]
		if !ok {
			candidates[docID] = &core.RetrievalCandidate{
				DocID:    docID,
				Content:  hit.Text,
				Score:    score,
				Metadata: hit.Metadata,
				Chunks:   []core.ChunkHit{chunkHit},
			}
			order = append(order, docID)
			continue
		}

		if score > cand.Score {
			cand.Content = hit.Text
			cand.Score = score
			cand.Metadata = hit.Metadata
		}
		cand.Chunks = append(cand.Chunks, chunkHit)
	}

	// Pattern matches missing from the vector results enter with a fixed
	// base score, carrying the document summary as content.
	for _, docID := range patternMatches {
		if _, ok := candidates[docID]; ok {
			continue
		}

		record, err := r.source.GetDocumentRecord(ctx, docID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				continue
			}
			return nil, err
		}

		candidates[docID] = &core.RetrievalCandidate{
			DocID:    docID,
			Content:  record.Summary,
			Score:    patternOnlyScore,
			Metadata: recordMetadata(record),
		}
		order = append(order, docID)
		monitor.PatternOnlyCandidate(docID)
	}

	// 4. Related-document expansion: one hop from the current candidates.
	if !req.NoExpand {
		if err := r.expandRelated(ctx, candidates, &order, monitor); err != nil {
			return nil, err
		}
	}

	results := make([]*core.RetrievalCandidate, 0, len(candidates))
	for _, docID := range order {
		results = append(results, candidates[docID])
	}

	slices.SortStableFunc(results, func(a, b *core.RetrievalCandidate) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})

	if len(results) > req.TopK {
		results = results[:req.TopK]
	}

	return results, nil
}

// expandRelated adds each candidate's related documents at a fixed low
// score. Dangling references are skipped silently.
func (r *Retriever) expandRelated(
	ctx context.Context,
	candidates map[string]*core.RetrievalCandidate,
	order *[]string,
	monitor RetrievalMonitor,
) error {
	sources := slices.Clone(*order)

	for _, docID := range sources {
		record, err := r.source.GetDocumentRecord(ctx, docID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				continue
			}
			return err
		}

		for _, relatedID := range record.RelatedDocs {
			if _, ok := candidates[relatedID]; ok {
				continue
			}

			related, err := r.source.GetDocumentRecord(ctx, relatedID)
			if err != nil {
				if errors.Is(err, storage.ErrNotFound) {
					continue
				}
				return err
			}

			candidates[relatedID] = &core.RetrievalCandidate{
				DocID:     relatedID,
				Content:   related.Summary,
				Score:     relatedScore,
				Metadata:  recordMetadata(related),
				IsRelated: true,
			}
			*order = append(*order, relatedID)
			monitor.RelatedCandidate(relatedID, docID)
		}
	}

	return nil
}

// chunkDocID extracts the document ID from a chunk ID of the form
// {doc_id}_{kind}_{ordinal}.
func chunkDocID(chunkID string) string {
	if i := strings.Index(chunkID, "_"); i >= 0 {
		return chunkID[:i]
	}
	return chunkID
}

// chunkWeight reads the chunk weight from entry metadata, defaulting to 1.
func chunkWeight(metadata map[string]string) float64 {
	if raw, ok := metadata["weight"]; ok {
		if w, err := strconv.ParseFloat(raw, 64); err == nil {
			return w
		}
	}
	return 1.0
}

func metadataValue(metadata map[string]string, key, fallback string) string {
	if v, ok := metadata[key]; ok && v != "" {
		return v
	}
	return fallback
}

func recordMetadata(record *core.DocumentRecord) map[string]string {
	return map[string]string{
		"doc_type":   record.DocType,
		"layer":      record.Layer,
		"doc_weight": string(record.Weight()),
	}
}

func buildFilter(layer, docType string) map[string]string {
	filter := make(map[string]string)
	if layer != "" {
		filter["layer"] = layer
	}
	if docType != "" {
		filter["doc_type"] = docType
	}
	if len(filter) == 0 {
		return nil
	}
	return filter
}
