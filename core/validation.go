package core

import "fmt"

// ValidateRecord checks that a DocumentRecord satisfies the domain invariants.
// Returns ErrInvalidRecord (wrapped with detail) on failure.
func ValidateRecord(r *DocumentRecord) error {
	if r == nil {
		return ErrInvalidRecord
	}
	if r.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrEmptyDocID)
	}
	switch r.DocWeight {
	case "", DocWeightCore, DocWeightImportant, DocWeightNormal:
	default:
		return fmt.Errorf("%w: %w: %q", ErrInvalidRecord, ErrInvalidDocWeight, r.DocWeight)
	}
	return nil
}

// ValidateChunk checks that a Chunk satisfies the domain invariants:
// non-empty content, a known kind, and a traceable owning document.
func ValidateChunk(c *Chunk) error {
	if c == nil {
		return ErrEmptyContent
	}
	if c.DocID == "" {
		return ErrEmptyDocID
	}
	if c.Content == "" {
		return ErrEmptyContent
	}
	switch c.Kind {
	case ChunkKindMetadata, ChunkKindSummary, ChunkKindQueryPattern,
		ChunkKindContent, ChunkKindExample:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidChunkKind, c.Kind)
	}
	return nil
}
