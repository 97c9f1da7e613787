// Package retrieval implements hybrid retrieval over the knowledge base:
// vector search over indexed chunks, keyword matching against document
// query patterns, score fusion with per-document aggregation, and
// optional one-hop expansion along related-document links.
package retrieval
