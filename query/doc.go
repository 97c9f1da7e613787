// Package query interprets free-form search queries: it classifies the
// intent, the knowledge layer, and the likely document type from keyword
// evidence, and enhances the query text for embedding.
package query
