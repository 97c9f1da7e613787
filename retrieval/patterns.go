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
	"strings"

	"github.com/poiesic/wendao/storage"
)

// PatternMatcher matches queries against document query patterns.
type PatternMatcher struct {
	source storage.DocumentSource
	logger *slog.Logger
}

// NewPatternMatcher creates a matcher over the given document source.
func NewPatternMatcher(source storage.DocumentSource) *PatternMatcher {
	return &PatternMatcher{
		source: source,
		logger: slog.Default().With("component", "pattern-matcher"),
	}
}

// Match returns the IDs of documents with a query pattern matching the
// query, in document ID order. A pattern matches when, case-insensitively,
// it contains the query or the query contains it. Empty layer or docType
// means no filtering on that attribute. Documents whose records cannot be
// loaded are skipped.
func (m *PatternMatcher) Match(ctx context.Context, query, layer, docType string) ([]string, error) {
	ids, err := m.source.ListDocumentIDs(ctx)
	if err != nil {
		return nil, err
	}

	queryLower := strings.ToLower(query)

	var matches []string
	for _, docID := range ids {
		record, err := m.source.GetDocumentRecord(ctx, docID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				continue
			}
			return nil, err
		}

		if layer != "" && record.Layer != layer {
			continue
		}
		if docType != "" && record.DocType != docType {
			continue
		}

		for _, pattern := range record.QueryPatterns {
			patternLower := strings.ToLower(pattern)
			if strings.Contains(queryLower, patternLower) || strings.Contains(patternLower, queryLower) {
				matches = append(matches, docID)
				break
			}
		}
	}

	return matches, nil
}
