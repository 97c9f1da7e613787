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

// Package wendao provides hybrid retrieval over a curated markdown
// knowledge base: documents are chunked, embedded, and indexed, then
// queried with fused vector and keyword relevance.
package wendao

import (
	"log/slog"

	"github.com/poiesic/wendao/ai"
	"github.com/poiesic/wendao/ai/openai"
	"github.com/poiesic/wendao/docsource"
	"github.com/poiesic/wendao/indexing"
	"github.com/poiesic/wendao/query"
	"github.com/poiesic/wendao/retrieval"
	"github.com/poiesic/wendao/storage"
	"github.com/poiesic/wendao/storage/badger"
)

// System wires the document source, vector index, and embedder together.
type System struct {
	backend  *badger.Backend
	index    storage.VectorIndex
	source   storage.DocumentSource
	embedder ai.Embedder
	logger   *slog.Logger
}

// SystemOption configures a System.
type SystemOption func(*systemOptions)

type systemOptions struct {
	aiConfig *ai.Config
	embedder ai.Embedder
}

// WithAIConfig sets the embedding service configuration.
func WithAIConfig(cfg *ai.Config) SystemOption {
	return func(o *systemOptions) {
		if cfg != nil {
			o.aiConfig = cfg
		}
	}
}

// WithEmbedder sets a custom embedder, bypassing the OpenAI-compatible
// client. Used in tests.
func WithEmbedder(embedder ai.Embedder) SystemOption {
	return func(o *systemOptions) {
		o.embedder = embedder
	}
}

// Open creates a System with a BadgerDB index at dbPath and a filesystem
// document source at docsDir / indexDir.
func Open(dbPath, docsDir, indexDir string, opts ...SystemOption) (*System, error) {
	options := &systemOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	source, err := docsource.NewFSSource(docsDir, indexDir)
	if err != nil {
		return nil, err
	}

	backend, err := badger.OpenBackend(dbPath, false)
	if err != nil {
		return nil, err
	}

	embedder := options.embedder
	if embedder == nil {
		embedder, err = openai.NewEmbedder(options.aiConfig)
		if err != nil {
			backend.Close()
			return nil, err
		}
	}

	return &System{
		backend:  backend,
		index:    badger.NewIndex(backend),
		source:   source,
		embedder: embedder,
		logger:   slog.Default(),
	}, nil
}

// Close releases the underlying storage.
func (s *System) Close() error {
	if err := s.index.Close(); err != nil {
		s.logger.Error("error closing vector index", "err", err)
		return err
	}
	if err := s.backend.Close(); err != nil {
		s.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// Index returns the vector index.
func (s *System) Index() storage.VectorIndex {
	return s.index
}

// Source returns the document source.
func (s *System) Source() storage.DocumentSource {
	return s.source
}

// NewIndexer creates an indexer over the system's components.
func (s *System) NewIndexer(opts ...indexing.Option) (*indexing.Indexer, error) {
	return indexing.NewIndexer(s.index, s.source, s.embedder, opts...)
}

// NewRetriever creates a retriever over the system's components.
func (s *System) NewRetriever(opts ...retrieval.Option) (*retrieval.Retriever, error) {
	return retrieval.NewRetriever(s.index, s.source, s.embedder, opts...)
}

// NewInterpreter creates a query interpreter.
func (s *System) NewInterpreter() *query.Interpreter {
	return query.NewInterpreter()
}
