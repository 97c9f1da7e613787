// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package query

import (
	"log/slog"
	"strings"
)

// Intent classifies what kind of answer a query is after.
type Intent string

const (
	IntentTheory      Intent = "theory"
	IntentMethodology Intent = "methodology"
	IntentExample     Intent = "example"
	IntentComparison  Intent = "comparison"
	IntentGeneral     Intent = "general"
)

// Analysis is the interpreted form of a query.
type Analysis struct {
	// OriginalQuery is the query as given.
	OriginalQuery string

	// Intent is the detected intent, IntentGeneral when nothing matched.
	Intent Intent

	// Layer is "dao" or "shu" when detectable, "" otherwise.
	Layer string

	// DocType is the likely document type, "" when undetectable.
	DocType string

	// EnhancedQuery is the query with intent-related keywords appended,
	// for use as embedding input. Equal to OriginalQuery when the intent
	// carries no enhancement.
	EnhancedQuery string
}

// intentEntry pairs an intent with its keyword evidence. Order matters:
// score ties resolve to the earliest entry.
type intentEntry struct {
	intent   Intent
	keywords []string
}

var intentTable = []intentEntry{
	{IntentTheory, []string{"理论", "原理", "机制", "模型", "框架", "为什么", "是什么", "如何理解"}},
	{IntentMethodology, []string{"方法", "如何做", "怎么做", "步骤", "流程", "技巧", "策略"}},
	{IntentExample, []string{"例子", "案例", "示例", "场景", "应用"}},
	{IntentComparison, []string{"区别", "对比", "比较", "差异", "vs", "和", "与"}},
}

// layerTable maps knowledge layers to their keyword evidence. First layer
// with any hit wins.
var layerTable = []struct {
	layer    string
	keywords []string
}{
	{"dao", []string{"道", "理念", "价值观", "思维", "认知", "哲学"}},
	{"shu", []string{"术", "方法", "技巧", "执行", "实践", "操作"}},
}

// docTypeTable maps document types to keyword evidence, checked in
// priority order.
var docTypeTable = []struct {
	docType  string
	keywords []string
}{
	{"theory", []string{"理论", "原理", "机制", "模型"}},
	{"methodology", []string{"方法", "框架", "流程", "步骤"}},
	{"technique", []string{"技巧", "如何", "怎么", "怎样"}},
	{"philosophy", []string{"意义", "价值", "人生", "哲学"}},
}

// enhancements appends intent-related terms to sharpen the embedding.
var enhancements = map[Intent]string{
	IntentTheory:      " 理论 原理 机制",
	IntentMethodology: " 方法 步骤 流程",
	IntentExample:     " 例子 案例 示例",
}

// Interpreter classifies queries by keyword evidence.
type Interpreter struct {
	logger *slog.Logger
}

// NewInterpreter creates a query interpreter.
func NewInterpreter() *Interpreter {
	return &Interpreter{
		logger: slog.Default().With("component", "query-interpreter"),
	}
}

// Interpret analyzes a query and returns its classification.
func (in *Interpreter) Interpret(q string) *Analysis {
	lower := strings.ToLower(q)

	analysis := &Analysis{
		OriginalQuery: q,
		Intent:        detectIntent(lower),
		Layer:         detectLayer(lower),
		DocType:       detectDocType(lower),
	}
	analysis.EnhancedQuery = enhance(q, analysis.Intent)

	in.logger.Debug("interpreted query",
		"intent", analysis.Intent,
		"layer", analysis.Layer,
		"doc_type", analysis.DocType,
	)

	return analysis
}

// detectIntent counts keyword hits per intent and returns the intent with
// the most hits, earliest table entry winning ties. No hits at all means
// IntentGeneral.
func detectIntent(lower string) Intent {
	best := IntentGeneral
	bestScore := 0

	for _, entry := range intentTable {
		score := 0
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				score++
			}
		}
		if score > bestScore {
			best = entry.intent
			bestScore = score
		}
	}

	return best
}

func detectLayer(lower string) string {
	for _, entry := range layerTable {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.layer
			}
		}
	}
	return ""
}

func detectDocType(lower string) string {
	for _, entry := range docTypeTable {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.docType
			}
		}
	}
	return ""
}

func enhance(q string, intent Intent) string {
	if suffix, ok := enhancements[intent]; ok {
		return q + suffix
	}
	return q
}
