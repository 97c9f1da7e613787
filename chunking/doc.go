// Package chunking splits documents into typed, token-bounded fragments.
//
// Each document produces one metadata chunk, an optional summary chunk, one
// chunk per declared query pattern, token-bounded content chunks with overlap
// between neighbors, and example chunks extracted from marked passages.
// Chunk identifiers are deterministic, so re-chunking an updated document
// overwrites its previous fragments in the index instead of duplicating them.
package chunking
