package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "http://localhost:11434/v1", cfg.Host)
	assert.Equal(t, "bge-m3", cfg.Model)
	require.NoError(t, cfg.Validate())
}

func TestConfigOptions(t *testing.T) {
	cfg := NewConfig(
		WithHost("http://embed.internal:9100"),
		WithModel("text-embedding-3-small"),
	)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "http://embed.internal:9100/v1", cfg.Host)
	assert.Equal(t, "text-embedding-3-small", cfg.Model)
}

func TestConfigNormalize(t *testing.T) {
	t.Run("adds v1 suffix", func(t *testing.T) {
		cfg := &Config{Host: "http://localhost:11434", Model: "bge-m3"}
		cfg.Normalize()
		assert.Equal(t, "http://localhost:11434/v1", cfg.Host)
	})

	t.Run("strips trailing slash first", func(t *testing.T) {
		cfg := &Config{Host: "http://localhost:11434/", Model: "bge-m3"}
		cfg.Normalize()
		assert.Equal(t, "http://localhost:11434/v1", cfg.Host)
	})

	t.Run("leaves existing v1 alone", func(t *testing.T) {
		cfg := &Config{Host: "http://localhost:11434/v1", Model: "bge-m3"}
		cfg.Normalize()
		assert.Equal(t, "http://localhost:11434/v1", cfg.Host)
	})
}

func TestConfigValidate(t *testing.T) {
	t.Run("missing host", func(t *testing.T) {
		cfg := &Config{Model: "bge-m3"}
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing model", func(t *testing.T) {
		cfg := &Config{Host: "http://localhost:11434/v1"}
		assert.Error(t, cfg.Validate())
	})
}

func TestQueryInstruction(t *testing.T) {
	t.Run("bge models get the retrieval instruction", func(t *testing.T) {
		cfg := &Config{Host: "h", Model: "BGE-M3"}
		assert.Equal(t, "为这个句子生成表示以用于检索相关文章：", cfg.QueryInstruction())
	})

	t.Run("other models encode symmetrically", func(t *testing.T) {
		cfg := &Config{Host: "h", Model: "text-embedding-3-small"}
		assert.Empty(t, cfg.QueryInstruction())
	})
}
