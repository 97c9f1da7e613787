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

package badger

import (
	"context"
	"log/slog"
	"slices"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/wendao/storage"
)

// Index implements storage.VectorIndex for BadgerDB.
//
// Queries scan all entries and compute cosine distance brute-force. The
// knowledge bases this serves are small (hundreds of documents, low
// thousands of chunks), so a linear scan stays well under interactive
// latency and avoids an ANN dependency.
type Index struct {
	backend *Backend
	logger  *slog.Logger
}

var _ storage.VectorIndex = (*Index)(nil)

// NewIndex creates a new Index on the given backend.
func NewIndex(backend *Backend) *Index {
	return &Index{
		backend: backend,
		logger:  slog.Default().With("component", "badger-index"),
	}
}

// Upsert inserts or replaces entries by ID.
func (x *Index) Upsert(ctx context.Context, entries ...*storage.Entry) error {
	if x.backend.IsClosed() {
		return storage.ErrStorageClosed
	}

	return x.backend.WithTx(func(tx *badger.Txn) error {
		for _, entry := range entries {
			value, err := storage.MarshalEntry(entry)
			if err != nil {
				return err
			}
			if err := tx.Set(makeChunkEntryKey(entry.ID), value); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// Query returns up to k entries nearest to the given vector.
func (x *Index) Query(ctx context.Context, vector []float32, k int, filter map[string]string) ([]*storage.Hit, error) {
	if x.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}
	if k <= 0 {
		return nil, nil
	}

	var hits []*storage.Hit

	err := x.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(chunkEntryPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var entry *storage.Entry
			err := iter.Item().Value(func(val []byte) error {
				var err error
				entry, err = storage.UnmarshalEntry(val)
				return err
			})
			if err != nil {
				return err
			}

			// Skip entries without embeddings
			if len(entry.Vector) == 0 {
				continue
			}

			if !matchesFilter(entry.Metadata, filter) {
				continue
			}

			// Cosine distance; vectors are normalized so the dot
			// product is the similarity.
			similarity := dotProduct(vector, entry.Vector)
			hits = append(hits, &storage.Hit{
				ID:       entry.ID,
				Distance: 1 - similarity,
				Text:     entry.Text,
				Metadata: entry.Metadata,
			})
		}

		return nil
	}, false)

	if err != nil {
		return nil, err
	}

	// Sort by distance ascending
	slices.SortStableFunc(hits, func(a, b *storage.Hit) int {
		if a.Distance < b.Distance {
			return -1
		}
		if a.Distance > b.Distance {
			return 1
		}
		return 0
	})

	if len(hits) > k {
		hits = hits[:k]
	}

	return hits, nil
}

// Count returns the number of entries in the index.
func (x *Index) Count(ctx context.Context) (int, error) {
	if x.backend.IsClosed() {
		return 0, storage.ErrStorageClosed
	}

	count := 0
	err := x.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(chunkEntryPrefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Reset removes all entries from the index.
func (x *Index) Reset(ctx context.Context) error {
	if x.backend.IsClosed() {
		return storage.ErrStorageClosed
	}

	x.logger.Info("dropping all index entries")
	return x.backend.DropPrefix([]byte(chunkEntryPrefix))
}

// Close is a no-op; the Index holds no resources beyond the backend,
// which the owner closes separately.
func (x *Index) Close() error {
	return nil
}

// matchesFilter reports whether the metadata satisfies every key/value
// pair in filter. A nil or empty filter matches everything.
func matchesFilter(metadata, filter map[string]string) bool {
	for key, want := range filter {
		if metadata[key] != want {
			return false
		}
	}
	return true
}

// dotProduct calculates the dot product of two vectors.
func dotProduct(a, b []float32) float32 {
	var sum float32
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}
	for i := 0; i < minLen; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
