package retrieval

import (
	"context"
	"testing"

	"github.com/poiesic/wendao/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func patternSource() *memSource {
	return &memSource{records: map[string]*core.DocumentRecord{
		"DOC-S032": {
			ID: "DOC-S032", Title: "破坏式创新", DocType: "theory", Layer: "shu",
			QueryPatterns: []string{"什么是破坏式创新", "Disruptive Innovation"},
		},
		"DOC-S036": {
			ID: "DOC-S036", Title: "精益创业", DocType: "methodology", Layer: "shu",
			QueryPatterns: []string{"精益创业怎么做"},
		},
		"DOC-D010": {
			ID: "DOC-D010", Title: "人生的意义与实践", DocType: "philosophy", Layer: "dao",
			QueryPatterns: []string{"人生的意义"},
		},
		"DOC-NONE": {
			ID: "DOC-NONE", Title: "没有模式", DocType: "theory", Layer: "dao",
		},
	}}
}

func TestPatternMatch_Symmetric(t *testing.T) {
	matcher := NewPatternMatcher(patternSource())
	ctx := context.Background()

	t.Run("query contains pattern", func(t *testing.T) {
		matches, err := matcher.Match(ctx, "请告诉我人生的意义是什么", "", "")
		require.NoError(t, err)
		assert.Equal(t, []string{"DOC-D010"}, matches)
	})

	t.Run("pattern contains query", func(t *testing.T) {
		matches, err := matcher.Match(ctx, "精益创业怎", "", "")
		require.NoError(t, err)
		assert.Equal(t, []string{"DOC-S036"}, matches)
	})
}

func TestPatternMatch_CaseInsensitive(t *testing.T) {
	matcher := NewPatternMatcher(patternSource())

	matches, err := matcher.Match(context.Background(), "disruptive innovation的原理", "", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"DOC-S032"}, matches)
}

func TestPatternMatch_Filters(t *testing.T) {
	matcher := NewPatternMatcher(patternSource())
	ctx := context.Background()

	t.Run("layer excludes", func(t *testing.T) {
		matches, err := matcher.Match(ctx, "人生的意义", "shu", "")
		require.NoError(t, err)
		assert.Empty(t, matches)
	})

	t.Run("doc type matches", func(t *testing.T) {
		matches, err := matcher.Match(ctx, "精益创业怎么做", "", "methodology")
		require.NoError(t, err)
		assert.Equal(t, []string{"DOC-S036"}, matches)
	})
}

func TestPatternMatch_StableOrder(t *testing.T) {
	source := &memSource{records: map[string]*core.DocumentRecord{
		"DOC-B": {ID: "DOC-B", Title: "B", DocType: "theory", Layer: "dao", QueryPatterns: []string{"共同模式"}},
		"DOC-A": {ID: "DOC-A", Title: "A", DocType: "theory", Layer: "dao", QueryPatterns: []string{"共同模式"}},
	}}
	matcher := NewPatternMatcher(source)

	matches, err := matcher.Match(context.Background(), "共同模式", "", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"DOC-A", "DOC-B"}, matches)
}

func TestPatternMatch_NoPatterns(t *testing.T) {
	matcher := NewPatternMatcher(patternSource())

	matches, err := matcher.Match(context.Background(), "完全无关的查询文本", "", "")
	require.NoError(t, err)
	assert.Empty(t, matches)
}
