// Package mock provides a deterministic test double for ai.Embedder.
// Vectors are derived from a hash of the input text, so the same text
// always embeds to the same vector without any network dependency.
package mock
