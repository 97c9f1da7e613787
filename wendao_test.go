package wendao

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/wendao/ai/mock"
	"github.com/poiesic/wendao/retrieval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTestKnowledgeBase lays out a tiny two-document knowledge base.
func writeTestKnowledgeBase(t *testing.T) (docsDir, indexDir string) {
	t.Helper()

	docsDir = t.TempDir()
	indexDir = filepath.Join(docsDir, "indexes")
	require.NoError(t, os.MkdirAll(indexDir, 0755))

	records := map[string]string{
		"DOC-S033": `doc_id: DOC-S033
title: 价值链创新
doc_type: methodology
layer: shu
summary: 重新分配价值链环节以创造竞争优势
query_patterns:
  - 什么是价值链创新
doc_weight: core
related_docs:
  - DOC-S032
`,
		"DOC-S032": `doc_id: DOC-S032
title: 破坏式创新
doc_type: theory
layer: shu
summary: 颠覆现有市场格局的创新理论
`,
	}
	for id, record := range records {
		require.NoError(t, os.WriteFile(filepath.Join(indexDir, id+".yaml"), []byte(record), 0644))
	}

	bodies := map[string]string{
		"价值链创新.md":  "# 价值链创新\n\n价值链创新是重新分配价值链环节的方法。",
		"破坏式创新.md":  "# 破坏式创新\n\n破坏式创新从低端市场切入。",
	}
	for name, body := range bodies {
		require.NoError(t, os.WriteFile(filepath.Join(docsDir, name), []byte(body), 0644))
	}

	return docsDir, indexDir
}

func openTestSystem(t *testing.T) *System {
	t.Helper()

	docsDir, indexDir := writeTestKnowledgeBase(t)
	dbPath := filepath.Join(t.TempDir(), "wendao_db")

	system, err := Open(dbPath, docsDir, indexDir, WithEmbedder(mock.NewMockEmbedder()))
	require.NoError(t, err)
	t.Cleanup(func() { system.Close() })

	return system
}

func TestOpen(t *testing.T) {
	t.Run("creates system", func(t *testing.T) {
		system := openTestSystem(t)

		assert.NotNil(t, system.Index())
		assert.NotNil(t, system.Source())
		assert.NotNil(t, system.NewInterpreter())
	})

	t.Run("error with missing index dir", func(t *testing.T) {
		docsDir := t.TempDir()
		_, err := Open(filepath.Join(t.TempDir(), "db"), docsDir, filepath.Join(docsDir, "absent"))
		assert.Error(t, err)
	})
}

func TestSystem_IndexAndRetrieve(t *testing.T) {
	system := openTestSystem(t)
	ctx := context.Background()

	indexer, err := system.NewIndexer()
	require.NoError(t, err)
	defer indexer.Release()

	report, err := indexer.IndexAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Indexed)
	assert.Zero(t, report.Failed)

	count, err := system.Index().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, report.Chunks, count)

	retriever, err := system.NewRetriever()
	require.NoError(t, err)

	// The query matches DOC-S033's query pattern, so it must rank first;
	// DOC-S032 follows, whether via vector recall or related expansion.
	results, err := retriever.Retrieve(ctx, &retrieval.Request{Query: "什么是价值链创新", TopK: 5})
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "DOC-S033", results[0].DocID)

	seen := map[string]bool{}
	for _, cand := range results {
		seen[cand.DocID] = true
	}
	assert.True(t, seen["DOC-S032"])
}

func TestSystem_InterpretThenRetrieve(t *testing.T) {
	system := openTestSystem(t)
	ctx := context.Background()

	indexer, err := system.NewIndexer()
	require.NoError(t, err)
	defer indexer.Release()

	_, err = indexer.IndexAll(ctx)
	require.NoError(t, err)

	analysis := system.NewInterpreter().Interpret("价值链创新的流程怎么做")
	assert.Equal(t, "methodology", analysis.DocType)

	retriever, err := system.NewRetriever()
	require.NoError(t, err)

	results, err := retriever.Retrieve(ctx, &retrieval.Request{
		Query:   analysis.EnhancedQuery,
		TopK:    5,
		Layer:   analysis.Layer,
		DocType: analysis.DocType,
	})
	require.NoError(t, err)

	for _, cand := range results {
		if !cand.IsRelated {
			assert.Equal(t, "methodology", cand.Metadata["doc_type"])
		}
	}
}

func TestSystem_Close(t *testing.T) {
	docsDir, indexDir := writeTestKnowledgeBase(t)
	system, err := Open(filepath.Join(t.TempDir(), "db"), docsDir, indexDir, WithEmbedder(mock.NewMockEmbedder()))
	require.NoError(t, err)

	assert.NoError(t, system.Close())
}
