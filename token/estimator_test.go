package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimatorCount(t *testing.T) {
	e := NewEstimator()

	t.Run("empty text", func(t *testing.T) {
		assert.Equal(t, 0, e.Count(""))
	})

	t.Run("ascii text uses four chars per token", func(t *testing.T) {
		// 16 ASCII characters -> 4 tokens.
		assert.Equal(t, 4, e.Count("abcdefghijklmnop"))
	})

	t.Run("chinese text uses one and a half chars per token", func(t *testing.T) {
		// 6 CJK characters -> 6/1.5 = 4 tokens.
		assert.Equal(t, 4, e.Count("价值链创新论"))
	})

	t.Run("mixed text", func(t *testing.T) {
		// 3 CJK (3/1.5 = 2) + 8 ASCII (8/4 = 2) = 4 tokens.
		assert.Equal(t, 4, e.Count("创新法abcdefgh"))
	})

	t.Run("deterministic", func(t *testing.T) {
		text := "混合 mixed content 文本"
		assert.Equal(t, e.Count(text), e.Count(text))
	})
}
