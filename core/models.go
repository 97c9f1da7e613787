package core

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/go-crypt/x/blake2b"
)

// DocWeight is a curated importance tag assigned to a document.
// It is used as a ranking multiplier during retrieval.
type DocWeight string

const (
	// DocWeightCore marks the most important documents of the knowledge base.
	DocWeightCore DocWeight = "core"
	// DocWeightImportant marks above-average documents. This is the default.
	DocWeightImportant DocWeight = "important"
	// DocWeightNormal marks regular documents with no ranking boost.
	DocWeightNormal DocWeight = "normal"
)

// DocumentRecord is the immutable per-document metadata record.
// Records are created by an external authoring process and are read-only here.
type DocumentRecord struct {
	ID            string    `yaml:"doc_id"`
	Title         string    `yaml:"title"`
	DocType       string    `yaml:"doc_type"`
	Layer         string    `yaml:"layer"`
	Summary       string    `yaml:"summary"`
	Keywords      []string  `yaml:"keywords"`
	QueryPatterns []string  `yaml:"query_patterns"`
	DocWeight     DocWeight `yaml:"doc_weight"`
	RelatedDocs   []string  `yaml:"related_docs"`
}

// Weight returns the record's importance tag, defaulting to "important"
// when the record carries none.
func (r *DocumentRecord) Weight() DocWeight {
	if r.DocWeight == "" {
		return DocWeightImportant
	}
	return r.DocWeight
}

// ChunkKind identifies the type of text a chunk was derived from.
type ChunkKind string

const (
	ChunkKindMetadata     ChunkKind = "metadata"
	ChunkKindSummary      ChunkKind = "summary"
	ChunkKindQueryPattern ChunkKind = "query_pattern"
	ChunkKindContent      ChunkKind = "content"
	ChunkKindExample      ChunkKind = "example"
)

// KindWeight returns the static score multiplier for a chunk kind.
// Summaries and curated query patterns outrank plain body text.
func KindWeight(kind ChunkKind) float64 {
	switch kind {
	case ChunkKindSummary:
		return 1.5
	case ChunkKindQueryPattern:
		return 1.3
	case ChunkKindExample:
		return 1.2
	default:
		return 1.0
	}
}

// Chunk is a unit of indexable text derived from exactly one document.
type Chunk struct {
	DocID   string
	Kind    ChunkKind
	Ordinal int
	Content string
	Weight  float64

	// Denormalized from the owning DocumentRecord for filterable storage.
	DocType   string
	Layer     string
	DocWeight DocWeight
}

// ID returns the chunk's stable identifier, "{doc_id}_{kind}_{ordinal}".
// The same document re-chunked after an update produces the same identifiers,
// so upserts overwrite rather than duplicate.
func (c *Chunk) ID() string {
	return fmt.Sprintf("%s_%s_%d", c.DocID, c.Kind, c.Ordinal)
}

// ChunkHit records one chunk's contribution to a retrieval candidate.
type ChunkHit struct {
	Content string
	Score   float64
	Kind    ChunkKind
}

// RetrievalCandidate is a query-scoped, ranked retrieval result for one
// document. Content holds the text of the highest-scoring contributing chunk.
// Candidates are built fresh per query and never persisted.
type RetrievalCandidate struct {
	DocID     string
	Content   string
	Score     float64
	Metadata  map[string]string
	Chunks    []ChunkHit
	IsRelated bool
}

// ContentHash returns a deterministic hash of the first prefixLen runes of
// text, with surrounding whitespace trimmed. It is a best-effort,
// collision-tolerant dedup key, not a correctness guarantee.
func ContentHash(text string, prefixLen int) uint64 {
	trimmed := strings.TrimSpace(text)
	runes := []rune(trimmed)
	if len(runes) > prefixLen {
		runes = runes[:prefixLen]
	}
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(string(runes)))
	sum := h.Sum(nil)
	return binary.LittleEndian.Uint64(sum)
}
