package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChunkID(t *testing.T) {
	t.Run("content chunk", func(t *testing.T) {
		c := &Chunk{DocID: "DOC-D001", Kind: ChunkKindContent, Ordinal: 3}
		assert.Equal(t, "DOC-D001_content_3", c.ID())
	})

	t.Run("metadata chunk uses ordinal zero", func(t *testing.T) {
		c := &Chunk{DocID: "DOC-S033", Kind: ChunkKindMetadata}
		assert.Equal(t, "DOC-S033_metadata_0", c.ID())
	})

	t.Run("ids are unique per kind and ordinal", func(t *testing.T) {
		seen := make(map[string]bool)
		for _, kind := range []ChunkKind{ChunkKindMetadata, ChunkKindSummary,
			ChunkKindQueryPattern, ChunkKindContent, ChunkKindExample} {
			for ordinal := 0; ordinal < 3; ordinal++ {
				c := &Chunk{DocID: "DOC-X", Kind: kind, Ordinal: ordinal}
				assert.False(t, seen[c.ID()], "duplicate id %s", c.ID())
				seen[c.ID()] = true
			}
		}
	})
}

func TestKindWeight(t *testing.T) {
	assert.Equal(t, 1.0, KindWeight(ChunkKindMetadata))
	assert.Equal(t, 1.5, KindWeight(ChunkKindSummary))
	assert.Equal(t, 1.3, KindWeight(ChunkKindQueryPattern))
	assert.Equal(t, 1.0, KindWeight(ChunkKindContent))
	assert.Equal(t, 1.2, KindWeight(ChunkKindExample))
}

func TestRecordWeight(t *testing.T) {
	t.Run("defaults to important", func(t *testing.T) {
		r := &DocumentRecord{ID: "DOC-X"}
		assert.Equal(t, DocWeightImportant, r.Weight())
	})

	t.Run("explicit weight preserved", func(t *testing.T) {
		r := &DocumentRecord{ID: "DOC-X", DocWeight: DocWeightCore}
		assert.Equal(t, DocWeightCore, r.Weight())
	})
}

func TestContentHash(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, ContentHash("案例：某公司通过价值链重组实现增长", 100),
			ContentHash("案例：某公司通过价值链重组实现增长", 100))
	})

	t.Run("only the prefix matters", func(t *testing.T) {
		long := make([]rune, 0, 150)
		for i := 0; i < 150; i++ {
			long = append(long, '字')
		}
		a := string(long) + "tail one"
		b := string(long) + "tail two"
		assert.Equal(t, ContentHash(a, 100), ContentHash(b, 100))
	})

	t.Run("whitespace is normalized", func(t *testing.T) {
		assert.Equal(t, ContentHash("  example  ", 100), ContentHash("example", 100))
	})

	t.Run("different prefixes differ", func(t *testing.T) {
		assert.NotEqual(t, ContentHash("alpha", 100), ContentHash("beta", 100))
	})
}
