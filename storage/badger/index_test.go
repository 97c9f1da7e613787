package badger

import (
	"context"
	"testing"

	"github.com/poiesic/wendao/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenBackend_InMemory(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	assert.False(t, backend.IsClosed())
}

func TestOpenBackend_FileSystem(t *testing.T) {
	tmpDir := t.TempDir()
	backend, err := OpenBackend(tmpDir, false)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	assert.False(t, backend.IsClosed())
}

func TestBackendClose(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)

	assert.False(t, backend.IsClosed())

	err = backend.Close()
	require.NoError(t, err)

	assert.True(t, backend.IsClosed())
}

func testEntry(id string, vector []float32, metadata map[string]string) *storage.Entry {
	return &storage.Entry{
		ID:       id,
		Vector:   vector,
		Text:     "text for " + id,
		Metadata: metadata,
	}
}

func TestQuery_EmptyIndex(t *testing.T) {
	index, backend, err := NewMemoryIndex()
	require.NoError(t, err)
	defer backend.Close()

	hits, err := index.Query(context.Background(), []float32{1, 0, 0}, 10, nil)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestQuery_OrdersByDistance(t *testing.T) {
	index, backend, err := NewMemoryIndex()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	err = index.Upsert(ctx,
		testEntry("far", []float32{0, 1, 0}, nil),
		testEntry("near", []float32{1, 0, 0}, nil),
		testEntry("mid", []float32{0.7071, 0.7071, 0}, nil),
	)
	require.NoError(t, err)

	hits, err := index.Query(ctx, []float32{1, 0, 0}, 10, nil)
	require.NoError(t, err)
	require.Len(t, hits, 3)

	assert.Equal(t, "near", hits[0].ID)
	assert.Equal(t, "mid", hits[1].ID)
	assert.Equal(t, "far", hits[2].ID)

	assert.InDelta(t, 0.0, hits[0].Distance, 1e-6)
	assert.InDelta(t, 0.2929, hits[1].Distance, 1e-4)
	assert.InDelta(t, 1.0, hits[2].Distance, 1e-6)
}

func TestQuery_TruncatesToK(t *testing.T) {
	index, backend, err := NewMemoryIndex()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	err = index.Upsert(ctx,
		testEntry("a", []float32{1, 0}, nil),
		testEntry("b", []float32{0.9, 0.1}, nil),
		testEntry("c", []float32{0.8, 0.2}, nil),
	)
	require.NoError(t, err)

	hits, err := index.Query(ctx, []float32{1, 0}, 2, nil)
	require.NoError(t, err)
	assert.Len(t, hits, 2)
}

func TestQuery_ZeroK(t *testing.T) {
	index, backend, err := NewMemoryIndex()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	require.NoError(t, index.Upsert(ctx, testEntry("a", []float32{1, 0}, nil)))

	hits, err := index.Query(ctx, []float32{1, 0}, 0, nil)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestQuery_MetadataFilter(t *testing.T) {
	index, backend, err := NewMemoryIndex()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	err = index.Upsert(ctx,
		testEntry("dao-doc", []float32{1, 0}, map[string]string{"layer": "dao", "doc_type": "theory"}),
		testEntry("shu-doc", []float32{1, 0}, map[string]string{"layer": "shu", "doc_type": "methodology"}),
	)
	require.NoError(t, err)

	t.Run("single key", func(t *testing.T) {
		hits, err := index.Query(ctx, []float32{1, 0}, 10, map[string]string{"layer": "dao"})
		require.NoError(t, err)
		require.Len(t, hits, 1)
		assert.Equal(t, "dao-doc", hits[0].ID)
	})

	t.Run("all keys must match", func(t *testing.T) {
		hits, err := index.Query(ctx, []float32{1, 0}, 10, map[string]string{
			"layer":    "dao",
			"doc_type": "methodology",
		})
		require.NoError(t, err)
		assert.Empty(t, hits)
	})

	t.Run("empty filter matches all", func(t *testing.T) {
		hits, err := index.Query(ctx, []float32{1, 0}, 10, map[string]string{})
		require.NoError(t, err)
		assert.Len(t, hits, 2)
	})
}

func TestUpsert_ReplacesByID(t *testing.T) {
	index, backend, err := NewMemoryIndex()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	require.NoError(t, index.Upsert(ctx, testEntry("a", []float32{1, 0}, nil)))
	require.NoError(t, index.Upsert(ctx, testEntry("a", []float32{0, 1}, nil)))

	count, err := index.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	hits, err := index.Query(ctx, []float32{0, 1}, 1, nil)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.InDelta(t, 0.0, hits[0].Distance, 1e-6)
}

func TestCountAndReset(t *testing.T) {
	index, backend, err := NewMemoryIndex()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	err = index.Upsert(ctx,
		testEntry("a", []float32{1, 0}, nil),
		testEntry("b", []float32{0, 1}, nil),
	)
	require.NoError(t, err)

	count, err := index.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, index.Reset(ctx))

	count, err = index.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestIndex_ClosedBackend(t *testing.T) {
	index, backend, err := NewMemoryIndex()
	require.NoError(t, err)
	require.NoError(t, backend.Close())

	ctx := context.Background()

	err = index.Upsert(ctx, testEntry("a", []float32{1, 0}, nil))
	assert.ErrorIs(t, err, storage.ErrStorageClosed)

	_, err = index.Query(ctx, []float32{1, 0}, 1, nil)
	assert.ErrorIs(t, err, storage.ErrStorageClosed)

	_, err = index.Count(ctx)
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}
