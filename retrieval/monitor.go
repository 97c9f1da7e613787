package retrieval

import (
	"github.com/poiesic/wendao/core"
	"github.com/poiesic/wendao/storage"
)

// RetrievalMonitor provides hooks to observe the retrieval process.
// Implement this interface to track intermediate steps and results.
type RetrievalMonitor interface {
	Start(query string)
	AfterVectorSearch(hits []*storage.Hit)
	AfterPatternMatch(docIDs []string)
	PatternOnlyCandidate(docID string)
	RelatedCandidate(docID string, source string)
	Finish(results []*core.RetrievalCandidate)
}

// noopMonitor is a no-op implementation of RetrievalMonitor
type noopMonitor struct{}

var _ RetrievalMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                         {}
func (n *noopMonitor) AfterVectorSearch(_ []*storage.Hit)     {}
func (n *noopMonitor) AfterPatternMatch(_ []string)           {}
func (n *noopMonitor) PatternOnlyCandidate(_ string)          {}
func (n *noopMonitor) RelatedCandidate(_ string, _ string)    {}
func (n *noopMonitor) Finish(_ []*core.RetrievalCandidate)    {}
