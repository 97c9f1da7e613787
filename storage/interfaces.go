package storage

import (
	"context"

	"github.com/poiesic/wendao/core"
)

// Entry is a single indexed chunk: its identifier, embedding vector,
// original text, and metadata used for filtering and fusion.
type Entry struct {
	// ID is the chunk identifier, globally unique within the index.
	ID string `json:"id"`

	// Vector is the embedding of Text. Assumed L2-normalized by the
	// embedding provider.
	Vector []float32 `json:"vector"`

	// Text is the chunk content that was embedded.
	Text string `json:"text"`

	// Metadata carries flat string attributes of the chunk
	// (doc_id, chunk_type, layer, doc_type, doc_weight, ...).
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Hit is a single vector search result.
type Hit struct {
	// ID is the identifier of the matched entry.
	ID string

	// Distance is the cosine distance (1 - similarity) between the query
	// vector and the entry vector. Smaller is closer.
	Distance float32

	// Text is the stored chunk content.
	Text string

	// Metadata is the stored entry metadata.
	Metadata map[string]string
}

// VectorIndex stores embedded chunks and answers nearest-neighbor queries.
// Implementations must be thread-safe and support concurrent access.
type VectorIndex interface {
	// Upsert inserts or replaces entries by ID.
	Upsert(ctx context.Context, entries ...*Entry) error

	// Query returns up to k entries nearest to the given vector, ordered
	// by distance ascending. Entries whose metadata does not match every
	// key/value pair in filter are excluded; a nil or empty filter matches
	// everything. k <= 0 returns an empty result.
	Query(ctx context.Context, vector []float32, k int, filter map[string]string) ([]*Hit, error)

	// Count returns the number of entries in the index.
	Count(ctx context.Context) (int, error)

	// Reset removes all entries from the index.
	Reset(ctx context.Context) error

	// Close closes the index and releases resources.
	Close() error
}

// DocumentSource provides access to the curated knowledge base: document
// records (metadata) and document bodies (markdown text).
type DocumentSource interface {
	// GetDocumentRecord returns the metadata record for a document.
	// Returns ErrNotFound if no record exists for the ID.
	GetDocumentRecord(ctx context.Context, docID string) (*core.DocumentRecord, error)

	// GetDocumentText returns the full body text of a document.
	// Returns ErrNotFound if the document has no body.
	GetDocumentText(ctx context.Context, docID string) (string, error)

	// ListDocumentIDs returns the IDs of all documents in the source,
	// in a stable order.
	ListDocumentIDs(ctx context.Context) ([]string, error)
}
