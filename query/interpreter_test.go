package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterpretIntent(t *testing.T) {
	in := NewInterpreter()

	tests := []struct {
		name  string
		query string
		want  Intent
	}{
		{"theory question", "为什么熵增定律是万物运行的底层逻辑", IntentTheory},
		{"methodology question", "精益创业的步骤和流程怎么做", IntentMethodology},
		{"example question", "价值链创新有哪些实际案例", IntentExample},
		{"comparison question", "破坏式创新 vs 精益创业的区别", IntentComparison},
		{"no evidence", "深度用户护城河", IntentGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, in.Interpret(tt.query).Intent)
		})
	}
}

func TestInterpretIntent_TieBreaksByOrder(t *testing.T) {
	in := NewInterpreter()

	// One theory keyword and one example keyword: theory is declared
	// earlier, so it wins.
	analysis := in.Interpret("这个理论的应用")
	assert.Equal(t, IntentTheory, analysis.Intent)
}

func TestInterpretLayer(t *testing.T) {
	in := NewInterpreter()

	t.Run("dao", func(t *testing.T) {
		assert.Equal(t, "dao", in.Interpret("认知进化的哲学基础").Layer)
	})

	t.Run("shu", func(t *testing.T) {
		assert.Equal(t, "shu", in.Interpret("即兴演讲的实践技巧").Layer)
	})

	t.Run("dao wins when both match", func(t *testing.T) {
		assert.Equal(t, "dao", in.Interpret("思维与实践").Layer)
	})

	t.Run("none", func(t *testing.T) {
		assert.Empty(t, in.Interpret("供应链数字化").Layer)
	})
}

func TestInterpretDocType(t *testing.T) {
	in := NewInterpreter()

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"theory", "双螺旋进化模型的机制", "theory"},
		{"methodology", "创新三元法的步骤", "methodology"},
		{"technique", "怎样让对方HI起来", "technique"},
		{"philosophy", "人生的意义是什么", "philosophy"},
		{"priority order", "这个理论的方法", "theory"},
		{"none", "供应链数字化", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, in.Interpret(tt.query).DocType)
		})
	}
}

func TestInterpretEnhancement(t *testing.T) {
	in := NewInterpreter()

	t.Run("theory gets theory terms", func(t *testing.T) {
		analysis := in.Interpret("熵增定律的原理")
		assert.Equal(t, "熵增定律的原理 理论 原理 机制", analysis.EnhancedQuery)
	})

	t.Run("example gets example terms", func(t *testing.T) {
		analysis := in.Interpret("价值链创新的案例")
		assert.Equal(t, "价值链创新的案例 例子 案例 示例", analysis.EnhancedQuery)
	})

	t.Run("comparison unchanged", func(t *testing.T) {
		analysis := in.Interpret("A与B的区别")
		assert.Equal(t, "A与B的区别", analysis.EnhancedQuery)
	})

	t.Run("general unchanged", func(t *testing.T) {
		analysis := in.Interpret("深度用户护城河")
		assert.Equal(t, "深度用户护城河", analysis.EnhancedQuery)
	})
}

func TestInterpretPreservesOriginal(t *testing.T) {
	in := NewInterpreter()
	analysis := in.Interpret("精益创业的流程")
	assert.Equal(t, "精益创业的流程", analysis.OriginalQuery)
}
