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

package docsource

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/poiesic/wendao/core"
	"github.com/poiesic/wendao/storage"
	"gopkg.in/yaml.v3"
)

// mappingFileName is the optional docID-to-path mapping at the docs root.
const mappingFileName = "doc-mapping.yaml"

// FSSource reads document records and bodies from the filesystem.
// Records are loaded lazily and cached; Invalidate drops a cached record
// after its backing file changes.
type FSSource struct {
	docsDir  string
	indexDir string
	logger   *slog.Logger

	mu      sync.RWMutex
	records map[string]*core.DocumentRecord
	mapping map[string]string
}

var _ storage.DocumentSource = (*FSSource)(nil)

// NewFSSource creates a source over the given docs and index directories.
// The docs directory may contain a doc-mapping.yaml pinning document IDs
// to body file paths relative to the docs root.
func NewFSSource(docsDir, indexDir string) (*FSSource, error) {
	info, err := os.Stat(indexDir)
	if err != nil {
		return nil, fmt.Errorf("index directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", indexDir)
	}

	s := &FSSource{
		docsDir:  docsDir,
		indexDir: indexDir,
		logger:   slog.Default().With("component", "docsource"),
		records:  make(map[string]*core.DocumentRecord),
	}

	if err := s.loadMapping(); err != nil {
		return nil, err
	}

	return s, nil
}

// loadMapping reads the optional doc-mapping.yaml from the docs root.
func (s *FSSource) loadMapping() error {
	data, err := os.ReadFile(filepath.Join(s.docsDir, mappingFileName))
	if err != nil {
		if os.IsNotExist(err) {
			s.mapping = map[string]string{}
			return nil
		}
		return err
	}

	mapping := make(map[string]string)
	if err := yaml.Unmarshal(data, &mapping); err != nil {
		return fmt.Errorf("parsing %s: %w", mappingFileName, err)
	}

	s.mapping = mapping
	return nil
}

// GetDocumentRecord returns the metadata record for a document.
func (s *FSSource) GetDocumentRecord(ctx context.Context, docID string) (*core.DocumentRecord, error) {
	s.mu.RLock()
	record, ok := s.records[docID]
	s.mu.RUnlock()
	if ok {
		return record, nil
	}

	data, err := os.ReadFile(filepath.Join(s.indexDir, docID+".yaml"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: record %s", storage.ErrNotFound, docID)
		}
		return nil, err
	}

	record = &core.DocumentRecord{}
	if err := yaml.Unmarshal(data, record); err != nil {
		// A record that won't parse is as good as absent; indexing
		// skips it and moves on.
		s.logger.Warn("skipping malformed record", "doc_id", docID, "err", err)
		return nil, fmt.Errorf("%w: record %s", storage.ErrNotFound, docID)
	}

	if record.ID == "" {
		record.ID = docID
	}
	if err := core.ValidateRecord(record); err != nil {
		s.logger.Warn("skipping invalid record", "doc_id", docID, "err", err)
		return nil, fmt.Errorf("%w: record %s", storage.ErrNotFound, docID)
	}

	s.mu.Lock()
	s.records[docID] = record
	s.mu.Unlock()

	return record, nil
}

// GetDocumentText returns the full body text of a document.
func (s *FSSource) GetDocumentText(ctx context.Context, docID string) (string, error) {
	path, err := s.resolveBodyPath(ctx, docID)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: body for %s", storage.ErrNotFound, docID)
		}
		return "", err
	}

	return string(data), nil
}

// resolveBodyPath finds the body file for a document: the mapping entry
// if present, otherwise the first file under docsDir named after the
// record's title.
func (s *FSSource) resolveBodyPath(ctx context.Context, docID string) (string, error) {
	if rel, ok := s.mapping[docID]; ok {
		return filepath.Join(s.docsDir, rel), nil
	}

	record, err := s.GetDocumentRecord(ctx, docID)
	if err != nil {
		return "", err
	}

	want := strings.TrimSuffix(record.Title, ".md") + ".md"

	var found string
	err = filepath.WalkDir(s.docsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && d.Name() == want {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if found == "" {
		return "", fmt.Errorf("%w: body for %s (%s)", storage.ErrNotFound, docID, want)
	}

	return found, nil
}

// ListDocumentIDs returns the IDs of all documents with a record file,
// sorted lexicographically.
func (s *FSSource) ListDocumentIDs(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.indexDir)
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".yaml") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".yaml"))
	}

	sort.Strings(ids)
	return ids, nil
}

// Invalidate drops the cached record for a document, forcing a reload on
// the next access.
func (s *FSSource) Invalidate(docID string) {
	s.mu.Lock()
	delete(s.records, docID)
	s.mu.Unlock()
}
