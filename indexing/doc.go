// Package indexing builds the vector index from the knowledge base: it
// chunks each document, embeds the chunks, and upserts them into the
// index. Documents are processed concurrently; a document that fails is
// logged and skipped so one bad file never aborts a rebuild.
package indexing
